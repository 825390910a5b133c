package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Registry returns all built-in tool definitions.
func Registry() []Definition {
	return []Definition{ReadFileDefinition, ListFilesDefinition, EditFileDefinition}
}

// Builtin is the in-process Provider backed by the built-in file tools.
// It holds no external connection, so Close is a no-op.
type Builtin struct {
	defs []Definition
}

// NewBuiltin returns a provider over the full built-in registry.
func NewBuiltin() *Builtin {
	return &Builtin{defs: Registry()}
}

func (b *Builtin) Name() string { return "builtin" }

func (b *Builtin) ListTools(ctx context.Context) ([]Descriptor, error) {
	out := make([]Descriptor, 0, len(b.defs))
	for _, d := range b.defs {
		out = append(out, d.Descriptor())
	}
	return out, nil
}

func (b *Builtin) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	var def *Definition
	for i := range b.defs {
		if b.defs[i].Name == name {
			def = &b.defs[i]
			break
		}
	}
	if def == nil {
		return "", ExecError{Tool: name, Message: "tool not found"}
	}

	input, err := json.Marshal(args)
	if err != nil {
		return "", ExecError{Tool: name, Message: fmt.Sprintf("encode arguments: %v", err)}
	}
	out, err := def.Function(input)
	if err != nil {
		return "", ExecError{Tool: name, Message: err.Error()}
	}
	return out, nil
}

func (b *Builtin) Close() error { return nil }
