package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/backmassage/moshmaster/internal/logging"
)

// Workspace owns the run's scratch directory. All intermediates live
// under it; nothing is ever written next to the inputs or at the output
// path until finalization succeeds. Cleanup removes the whole tree
// unless the run asked to keep it.
type Workspace struct {
	root string
	keep bool
}

// NewWorkspace creates the run's scratch root under the system temp dir.
func NewWorkspace(keep bool) (*Workspace, error) {
	root, err := os.MkdirTemp("", "moshmaster-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{root: root, keep: keep}, nil
}

// Root returns the workspace root path.
func (w *Workspace) Root() string { return w.root }

// Path joins name onto the workspace root.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.root, name)
}

// TaskDir creates a uniquely named subdirectory for one parallel task so
// concurrent normalizations never collide on file names.
func (w *Workspace) TaskDir() (string, error) {
	dir := filepath.Join(w.root, uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create task dir: %w", err)
	}
	return dir, nil
}

// Cleanup removes the workspace tree. With keep-temp it only logs where
// the intermediates were left.
func (w *Workspace) Cleanup(log *logging.Logger) {
	if w.keep {
		log.Info("keeping workspace: %s", w.root)
		return
	}
	if err := os.RemoveAll(w.root); err != nil {
		log.Warn("workspace cleanup failed: %v", err)
	}
}
