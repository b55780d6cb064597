// Package watch reports external changes to files open in the editor.
// Directories are watched rather than the files themselves so that
// atomic save-via-rename from other programs is still seen.
package watch

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher accumulates changed paths until the editor collects them.
type Watcher struct {
	fs     *fsnotify.Watcher
	logger *zap.Logger

	mu      sync.Mutex
	watched map[string]struct{}
	pending map[string]struct{}
}

// New starts the event loop. Call Close to stop it.
func New(logger *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:      fs,
		logger:  logger,
		watched: make(map[string]struct{}),
		pending: make(map[string]struct{}),
	}
	go w.run()
	return w, nil
}

// Watch registers interest in path. The path is reported by Take
// exactly as cleaned here.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	if err := w.fs.Add(filepath.Dir(path)); err != nil {
		return err
	}
	w.mu.Lock()
	w.watched[path] = struct{}{}
	w.mu.Unlock()
	w.logger.Debug("watching file", zap.String("path", path))
	return nil
}

// Take drains the set of files changed since the previous call.
func (w *Watcher) Take() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
		delete(w.pending, path)
	}
	sort.Strings(paths)
	return paths
}

// Close stops the event loop.
func (w *Watcher) Close() {
	if err := w.fs.Close(); err != nil {
		w.logger.Warn("closing file watcher failed", zap.Error(err))
	}
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.record(filepath.Clean(event.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[path]; !ok {
		return
	}
	w.pending[path] = struct{}{}
}
