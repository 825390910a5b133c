// Package mcp connects to Model Context Protocol servers over stdio and
// exposes each connection as a tools.Provider.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/petasbytes/toolchat/tools"
)

const clientName = "toolchat"
const clientVersion = "0.1.0"

// Server is one connected MCP server. Safe to Close more than once.
type Server struct {
	name string
	sess *sdk.ClientSession

	closeOnce sync.Once
	closeErr  error
}

// Connect launches the server command and performs the MCP handshake over
// its stdio. env entries ("KEY=VALUE") are appended to the inherited
// environment.
func Connect(ctx context.Context, name, command string, args []string, env []string) (*Server, error) {
	cmd := exec.Command(command, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	client := sdk.NewClient(&sdk.Implementation{Name: clientName, Version: clientVersion}, nil)
	sess, err := client.Connect(ctx, &sdk.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", name, err)
	}
	return &Server{name: name, sess: sess}, nil
}

func (s *Server) Name() string { return s.name }

// ListTools fetches the server's catalog and flattens each input schema
// into named argument specs for prompt rendering.
func (s *Server) ListTools(ctx context.Context) ([]tools.Descriptor, error) {
	res, err := s.sess.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tools on %s: %w", s.name, err)
	}
	out := make([]tools.Descriptor, 0, len(res.Tools))
	for _, t := range res.Tools {
		out = append(out, tools.Descriptor{
			Name:        t.Name,
			Description: t.Description,
			Args:        argsFromSchema(schemaOf(t.InputSchema)),
		})
	}
	return out, nil
}

// CallTool invokes the named tool and returns its text content. Protocol
// failures and isError results both surface as ExecError so the session can
// fold them into the transcript.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	res, err := s.sess.CallTool(ctx, &sdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", tools.ExecError{Tool: name, Message: err.Error()}
	}
	text := textContent(res.Content)
	if res.IsError {
		if text == "" {
			text = "tool reported an error"
		}
		return "", tools.ExecError{Tool: name, Message: text}
	}
	return text, nil
}

// Close shuts the session down exactly once; repeat calls return the first
// outcome.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.sess.Close()
	})
	return s.closeErr
}

// textContent joins the text parts of a tool result. Non-text content is
// skipped; this host surface is text-only.
func textContent(content []sdk.Content) string {
	var parts []string
	for _, c := range content {
		if tc, ok := c.(*sdk.TextContent); ok && tc.Text != "" {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// schemaOf normalises a server-supplied input schema. The protocol carries
// it as arbitrary JSON, so a session may hand over a typed schema or a
// decoded map; anything untyped is round-tripped through JSON. A schema
// that cannot be interpreted yields nil, which lists the tool with no
// argument specs rather than failing discovery.
func schemaOf(v any) *jsonschema.Schema {
	switch s := v.(type) {
	case nil:
		return nil
	case *jsonschema.Schema:
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	return &s
}

// argsFromSchema flattens a server-supplied JSON Schema into argument specs,
// sorted by name since schema properties carry no order.
func argsFromSchema(s *jsonschema.Schema) []tools.ArgSpec {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	required := map[string]bool{}
	for _, name := range s.Required {
		required[name] = true
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]tools.ArgSpec, 0, len(names))
	for _, name := range names {
		var desc string
		if p := s.Properties[name]; p != nil {
			desc = p.Description
		}
		args = append(args, tools.ArgSpec{
			Name:        name,
			Description: desc,
			Required:    required[name],
		})
	}
	return args
}
