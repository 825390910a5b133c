package fsops

import (
	"encoding/json"
	"os"

	"github.com/petasbytes/toolchat/internal/safety"
)

// ListFiles returns the immediate entries of a directory under the sandbox
// read root as a JSON-encoded []string. Directory names carry a trailing
// "/" so the model can tell them from files. An empty relDir means the root
// itself.
func ListFiles(relDir string) (string, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return "", err
	}
	if relDir == "" {
		relDir = "."
	}
	abs, err := safety.ValidateRelPath(readRoot, relDir)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name()+"/")
			continue
		}
		names = append(names, e.Name())
	}

	b, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
