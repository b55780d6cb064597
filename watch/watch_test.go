package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// takeUntil polls Take until path shows up, collecting everything
// reported along the way.
func takeUntil(t *testing.T, w *Watcher, path string) []string {
	t.Helper()
	var seen []string
	require.Eventually(t, func() bool {
		seen = append(seen, w.Take()...)
		for _, p := range seen {
			if p == path {
				return true
			}
		}
		return false
	}, 3*time.Second, 10*time.Millisecond)
	return seen
}

func TestWatcherReportsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "before")

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(path))

	writeFile(t, path, "after")
	takeUntil(t, w, path)
}

func TestWatcherIgnoresNeighbors(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	other := filepath.Join(dir, "other.txt")
	writeFile(t, watched, "a")

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(watched))

	writeFile(t, other, "noise")
	writeFile(t, watched, "b")

	seen := takeUntil(t, w, watched)
	assert.NotContains(t, seen, other)
}

func TestWatcherReportsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "old")

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(path))

	tmp := filepath.Join(dir, ".doc.txt.tmp")
	writeFile(t, tmp, "new")
	require.NoError(t, os.Rename(tmp, path))

	takeUntil(t, w, path)
}

func TestTakeDrains(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "x")

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(path))

	writeFile(t, path, "y")
	takeUntil(t, w, path)

	assert.Empty(t, w.Take())
}

func TestWatchMissingDirFails(t *testing.T) {
	w := newTestWatcher(t)
	err := w.Watch(filepath.Join(t.TempDir(), "gone", "f.txt"))
	require.Error(t, err)
}
