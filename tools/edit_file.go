package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petasbytes/toolchat/internal/fsops"
)

type EditFileInput struct {
	Path   string `json:"path" jsonschema:"required" jsonschema_description:"Target relative file path"`
	OldStr string `json:"old_str" jsonschema_description:"Exact text to replace; must be present once when editing an existing file."`
	NewStr string `json:"new_str" jsonschema_description:"New text to write or replace old_str with"`
}

var EditFileInputSchema = GenerateSchema[EditFileInput]()

var EditFileDefinition = Definition{
	Name: "edit_file",
	Description: `Create or modify a text file addressed by a relative path within the workspace.

When old_str is empty and the file doesn't exist, a new file is created.

When editing an existing file, all occurrences of old_str are replaced with new_str; old_str and new_str must be different.
`,
	InputSchema: EditFileInputSchema,
	Function:    EditFile,
}

// EditFile creates a file when old_str is empty and the target is absent,
// and otherwise replaces every occurrence of old_str. The two modes share
// one tool so the model never has to choose between a create and a write.
func EditFile(input json.RawMessage) (string, error) {
	var in EditFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if in.Path == "" || in.OldStr == in.NewStr {
		return "", fmt.Errorf("invalid edit parameters")
	}

	existing, readErr := fsops.ReadFile(in.Path)
	if readErr != nil {
		if in.OldStr != "" {
			// Policy errors and plain I/O failures both end the edit.
			return "", readErr
		}
		if err := fsops.WriteFile(in.Path, in.NewStr); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully created file %s", in.Path), nil
	}

	// An existing file needs a non-empty anchor; a bare create over live
	// content would be ambiguous.
	if in.OldStr == "" {
		return "", fmt.Errorf("old_str must be provided when editing an existing file")
	}

	replaced := strings.ReplaceAll(existing, in.OldStr, in.NewStr)
	if replaced == existing {
		return "", fmt.Errorf("old_str not found in file")
	}
	if err := fsops.WriteFile(in.Path, replaced); err != nil {
		return "", err
	}
	return "OK", nil
}
