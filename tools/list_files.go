package tools

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/petasbytes/toolchat/internal/fsops"
)

type ListFilesInput struct {
	Path     string `json:"path,omitempty" jsonschema_description:"Optional relative path to list files from (defaults to current directory)."`
	Page     int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize int    `json:"page_size,omitempty" jsonschema_description:"Page size (default 200)."`
}

const defaultListFilesPageSize = 200

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

var ListFilesDefinition = Definition{
	Name:        "list_files",
	Description: "List names of files in a directory within the workspace (non-recursive).",
	InputSchema: ListFilesInputSchema,
	Function:    ListFiles,
}

// ListFiles returns one sorted page of directory entries as a JSON-encoded
// []string. Non-positive page or page_size values fall back to their
// defaults so benign model inputs stay predictable; an out-of-range page
// yields "[]" rather than an error.
func ListFiles(input json.RawMessage) (string, error) {
	var in ListFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	page, pageSize := in.Page, in.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultListFilesPageSize
	}

	raw, err := fsops.ListFiles(in.Path)
	if err != nil {
		return "", err
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return "", fmt.Errorf("invalid list_files payload: %w", err)
	}
	// Sorting makes paging deterministic across filesystems.
	sort.Strings(names)

	start := (page - 1) * pageSize
	if start >= len(names) {
		return "[]", nil
	}
	end := min(start+pageSize, len(names))

	b, err := json.Marshal(names[start:end])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
