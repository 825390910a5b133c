package session_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/petasbytes/toolchat/chat"
	"github.com/petasbytes/toolchat/internal/session"
	"github.com/petasbytes/toolchat/tools"
)

func systemPrompt(t *testing.T, providers ...tools.Provider) string {
	t.Helper()
	s, err := session.New(context.Background(), &fakeResponder{}, providers, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != chat.RoleSystem {
		t.Fatalf("expected a single seeded system message, got %+v", msgs)
	}
	return msgs[0].Content
}

func TestSystemPrompt_ListsToolsAndArguments(t *testing.T) {
	p := &fakeProvider{
		name: "files",
		descs: []tools.Descriptor{
			{
				Name:        "read_file",
				Description: "Read a file.",
				Args: []tools.ArgSpec{
					{Name: "path", Description: "Relative file path.", Required: true},
					{Name: "limit", Description: "Maximum lines."},
				},
			},
			{Name: "list_files", Description: "List files."},
		},
	}

	prompt := systemPrompt(t, p)

	for _, want := range []string{
		"read_file", "list_files",
		"path (required): Relative file path.",
		"limit: Maximum lines.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSystemPrompt_CarriesWireShape(t *testing.T) {
	prompt := systemPrompt(t, echoProvider())

	// The instructed shape must agree with the detection engine's field names.
	if !strings.Contains(prompt, `{"tool": "<tool-name>", "arguments": {"<arg-name>": <value>}}`) {
		t.Fatalf("prompt missing wire shape:\n%s", prompt)
	}
}

func TestSystemPrompt_NoTools(t *testing.T) {
	prompt := systemPrompt(t)

	if !strings.Contains(prompt, "No tools are currently available") {
		t.Fatalf("expected the no-tools variant:\n%s", prompt)
	}
	if strings.Contains(prompt, "Available tools") {
		t.Fatalf("no-tools prompt must not list a catalog:\n%s", prompt)
	}
}

func TestSystemPrompt_MultilineDescriptionKeptToOneLine(t *testing.T) {
	p := &fakeProvider{
		name: "files",
		descs: []tools.Descriptor{{
			Name:        "edit_file",
			Description: "Create or modify a text file.\n\nSecond paragraph with detail.",
		}},
	}

	prompt := systemPrompt(t, p)

	if !strings.Contains(prompt, "edit_file: Create or modify a text file.\n") {
		t.Fatalf("expected first-line description:\n%s", prompt)
	}
	if strings.Contains(prompt, "Second paragraph") {
		t.Fatalf("multi-paragraph descriptions must be truncated:\n%s", prompt)
	}
}
