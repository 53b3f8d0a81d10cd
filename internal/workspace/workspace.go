// Package workspace provides isolated, per-invocation staging areas for
// intermediate pipeline artifacts.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/applyflow/cv-ocr/internal/domain"
)

// Workspace is the staging area for a single pipeline invocation. Every
// invocation gets its own root keyed by a generated identifier, so concurrent
// invocations never touch each other's artifacts.
type Workspace struct {
	ID          string
	Root        string
	RawDir      string
	RenderedDir string
	PreparedDir string

	logger zerolog.Logger
}

// Manager creates and releases workspaces under a common base directory.
type Manager struct {
	baseDir string
	logger  zerolog.Logger
}

// NewManager creates a workspace manager rooted at baseDir.
func NewManager(baseDir string, logger zerolog.Logger) (*Manager, error) {
	root := filepath.Join(baseDir, "cv-ocr")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, domain.IOError(fmt.Sprintf("create workspace base directory %s", root), err)
	}
	return &Manager{baseDir: root, logger: logger}, nil
}

// Acquire creates a fresh workspace with raw, rendered, and prepared
// sub-areas. The caller must Release it on every exit path.
func (m *Manager) Acquire() (*Workspace, error) {
	id := uuid.New().String()
	root := filepath.Join(m.baseDir, id)

	ws := &Workspace{
		ID:          id,
		Root:        root,
		RawDir:      filepath.Join(root, "raw"),
		RenderedDir: filepath.Join(root, "rendered"),
		PreparedDir: filepath.Join(root, "prepared"),
		logger:      m.logger,
	}

	for _, dir := range []string{ws.RawDir, ws.RenderedDir, ws.PreparedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			os.RemoveAll(root)
			return nil, domain.IOError(fmt.Sprintf("create workspace area %s", dir), err)
		}
	}

	m.logger.Debug().Str("invocation_id", id).Str("root", root).Msg("Workspace acquired")
	return ws, nil
}

// Release removes the workspace and all artifacts it holds.
func (w *Workspace) Release() {
	if err := os.RemoveAll(w.Root); err != nil {
		w.logger.Warn().Err(err).Str("invocation_id", w.ID).Msg("Failed to release workspace")
		return
	}
	w.logger.Debug().Str("invocation_id", w.ID).Msg("Workspace released")
}
