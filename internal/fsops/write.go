package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/toolchat/internal/safety"
)

// WriteFile writes content to a relative path under the sandbox write root,
// creating parent directories as needed. Write-policy violations surface as
// ToolError.
func WriteFile(relPath, content string) error {
	_, writeRoot, err := getRoots()
	if err != nil {
		return err
	}
	abs, err := safety.ValidateWritePath(writeRoot, relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return os.WriteFile(abs, []byte(content), 0o644)
}
