package tools

import (
	"context"
	"fmt"
)

// ArgSpec describes one named tool parameter.
type ArgSpec struct {
	Name        string
	Description string
	Required    bool
}

// Descriptor is a read-only snapshot of one tool in a provider's catalog.
// Names are unique within a catalog; uniqueness across providers is a
// configuration-time concern.
type Descriptor struct {
	Name        string
	Description string
	Args        []ArgSpec
}

// Provider exposes a tool catalog and executes tools from it.
//
// ListTools may be called repeatedly; the catalog is assumed static for the
// lifetime of one session. Close is best-effort and must be safe to call
// more than once.
type Provider interface {
	Name() string
	ListTools(ctx context.Context) ([]Descriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	Close() error
}

// ExecError reports a failed tool invocation with a human-readable message.
// The session folds it into the transcript as conversational content rather
// than propagating it as a crash.
type ExecError struct {
	Tool    string
	Message string
}

func (e ExecError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}
