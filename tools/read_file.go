package tools

import (
	"encoding/json"
	"strings"

	"github.com/petasbytes/toolchat/internal/fsops"
)

type ReadFileInput struct {
	Path   string `json:"path" jsonschema:"required" jsonschema_description:"Relative file path."`
	Offset int    `json:"offset,omitempty" jsonschema_description:"Line offset (0-based) to start reading from."`
	Limit  int    `json:"limit,omitempty" jsonschema_description:"Maximum lines to return from offset (default 200)."`
}

// Caps keep tool results folded into the transcript predictably sized.
const (
	defaultReadFileLimit = 200    // lines per page when limit <= 0
	maxLineRunes         = 2000   // per-line clamp
	overallRuneCap       = 12_000 // whole-result clamp after join
)

const truncationSentinel = "-- truncated; use offset/limit to fetch more --\n"

var ReadFileInputSchema = GenerateSchema[ReadFileInput]()

var ReadFileDefinition = Definition{
	Name:        "read_file",
	Description: "Read the contents of a file addressed by a relative file path within the workspace. Directory paths and unsafe paths are rejected.",
	InputSchema: ReadFileInputSchema,
	Function:    ReadFile,
}

// ReadFile reads a sandboxed file and returns the requested line window.
// Negative offsets clamp to 0 and a non-positive limit falls back to the
// default page size. When any clamping hides content, the result ends with
// a sentinel line so the model knows to paginate.
func ReadFile(input json.RawMessage) (string, error) {
	var in ReadFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}

	content, err := fsops.ReadFile(in.Path)
	if err != nil {
		return "", err
	}

	limit, offset := in.Limit, in.Offset
	if limit <= 0 {
		limit = defaultReadFileLimit
	}
	if offset < 0 {
		offset = 0
	}

	lines := strings.Split(content, "\n")
	if offset > len(lines) {
		offset = len(lines)
	}
	end := min(offset+limit, len(lines))

	truncated := end < len(lines)
	window := lines[offset:end]
	for i, line := range window {
		if r := []rune(line); len(r) > maxLineRunes {
			window[i] = string(r[:maxLineRunes])
			truncated = true
		}
	}

	out := strings.Join(window, "\n")
	if r := []rune(out); len(r) > overallRuneCap {
		out = string(r[:overallRuneCap])
		truncated = true
	}

	if truncated {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += truncationSentinel
	}
	return out, nil
}
