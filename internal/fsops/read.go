package fsops

import (
	"os"

	"github.com/petasbytes/toolchat/internal/safety"
)

// ReadFile returns the content of a regular file addressed by a relative
// path under the sandbox read root. Policy violations surface as ToolError;
// plain I/O failures pass through untouched.
func ReadFile(relPath string) (string, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return "", err
	}
	abs, err := safety.ValidateRelPath(readRoot, relPath)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", safety.ToolError{Code: "ERR_NOT_A_FILE", Message: "path is a directory"}
	}

	b, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
