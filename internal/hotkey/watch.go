package hotkey

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/777genius/audiocycle/internal/logging"
)

// Source returns the binding to register, or nil when no hotkey is configured
type Source func() (*Binding, error)

// WatchFile calls changed whenever path is written, created or replaced.
// The directory is watched rather than the file so editors that save via rename are seen.
// Watching stops when ctx is done.
func WatchFile(ctx context.Context, path string, changed func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					logging.Debug("Config file changed: %s", ev)
					changed()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logging.Warn("Config watcher error: %v", err)
			}
		}
	}()
	return nil
}
