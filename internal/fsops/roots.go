package fsops

import (
	"os"
	"sync"

	"github.com/petasbytes/toolchat/internal/safety"
)

// Sandbox roots come from TOOLCHAT_READ_ROOT and TOOLCHAT_WRITE_ROOT and are
// resolved once, on first use, for the life of the process.
var roots struct {
	once  sync.Once
	read  string
	write string
	err   error
}

func getRoots() (string, string, error) {
	roots.once.Do(func() {
		roots.read, roots.write, roots.err = safety.InitSandboxRoot(
			os.Getenv("TOOLCHAT_READ_ROOT"),
			os.Getenv("TOOLCHAT_WRITE_ROOT"),
		)
	})
	return roots.read, roots.write, roots.err
}
