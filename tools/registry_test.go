package tools_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/petasbytes/toolchat/tools"
)

func TestRegistry_ToolCount(t *testing.T) {
	defs := tools.Registry()
	wantCount := 3 // read_file, list_files, edit_file
	if len(defs) != wantCount {
		t.Fatalf("unexpected number of tools: got %d want %d", len(defs), wantCount)
	}
}

func TestRegistry_ToolNames(t *testing.T) {
	defs := tools.Registry()
	want := map[string]struct{}{
		"read_file":  {},
		"list_files": {},
		"edit_file":  {},
	}

	// Unexpected names detected
	for _, d := range defs {
		if _, ok := want[d.Name]; !ok {
			t.Fatalf("unexpected tool in registry: %q", d.Name)
		}
	}

	// Missing expected names
	got := map[string]struct{}{}
	for _, d := range defs {
		got[d.Name] = struct{}{}
	}
	for name := range want {
		if _, ok := got[name]; !ok {
			t.Errorf("missing expected tool: %q", name)
		}
	}

	// Fail now if any errors were reported above
	if t.Failed() {
		t.FailNow()
	}
}

func TestBuiltin_ListTools_Descriptors(t *testing.T) {
	p := tools.NewBuiltin()
	if p.Name() != "builtin" {
		t.Fatalf("provider name = %q", p.Name())
	}
	descs, err := p.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(descs) != 3 {
		t.Fatalf("got %d descriptors", len(descs))
	}

	var readFile *tools.Descriptor
	for i := range descs {
		if descs[i].Name == "read_file" {
			readFile = &descs[i]
		}
	}
	if readFile == nil {
		t.Fatal("read_file not listed")
	}
	if readFile.Description == "" {
		t.Fatal("read_file has no description")
	}

	args := map[string]tools.ArgSpec{}
	for _, a := range readFile.Args {
		args[a.Name] = a
	}
	path, ok := args["path"]
	if !ok {
		t.Fatalf("read_file missing path arg; got %v", readFile.Args)
	}
	if !path.Required {
		t.Fatal("path should be required")
	}
}

func TestBuiltin_CallTool_Happy(t *testing.T) {
	dir := filepath.Join(sharedDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	p := tools.NewBuiltin()
	out, err := p.CallTool(context.Background(), "read_file", map[string]any{"path": rel(t, "a.txt")})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if out != "hi" {
		t.Fatalf("got %q", out)
	}
}

func TestBuiltin_CallTool_NotFound(t *testing.T) {
	p := tools.NewBuiltin()
	_, err := p.CallTool(context.Background(), "no_such_tool", nil)
	var xerr tools.ExecError
	if !errors.As(err, &xerr) {
		t.Fatalf("want ExecError, got %v", err)
	}
	if xerr.Tool != "no_such_tool" {
		t.Fatalf("ExecError.Tool = %q", xerr.Tool)
	}
}

func TestBuiltin_CallTool_HandlerFailure(t *testing.T) {
	p := tools.NewBuiltin()
	_, err := p.CallTool(context.Background(), "read_file", map[string]any{"path": rel(t, "missing.txt")})
	var xerr tools.ExecError
	if !errors.As(err, &xerr) {
		t.Fatalf("want ExecError, got %v", err)
	}
}

func TestBuiltin_Close_Repeatable(t *testing.T) {
	p := tools.NewBuiltin()
	if err := p.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
