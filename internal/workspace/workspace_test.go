package workspace

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return m
}

func TestAcquire_CreatesAreas(t *testing.T) {
	m := newTestManager(t)

	ws, err := m.Acquire()
	require.NoError(t, err)
	defer ws.Release()

	assert.NotEmpty(t, ws.ID)
	for _, dir := range []string{ws.RawDir, ws.RenderedDir, ws.PreparedDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestAcquire_IsolatesInvocations(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Acquire()
	require.NoError(t, err)
	defer a.Release()

	b, err := m.Acquire()
	require.NoError(t, err)
	defer b.Release()

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.Root, b.Root)

	// Artifacts in one workspace are invisible to the other.
	require.NoError(t, os.WriteFile(a.RawDir+"/upload.pdf", []byte("x"), 0o644))
	entries, err := os.ReadDir(b.RawDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRelease_RemovesArtifacts(t *testing.T) {
	m := newTestManager(t)

	ws, err := m.Acquire()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(ws.RenderedDir+"/page_0001.png", []byte("x"), 0o644))
	ws.Release()

	_, err = os.Stat(ws.Root)
	assert.True(t, os.IsNotExist(err))
}
