package persistence

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/markusressel/g2go/internal/ui"
)

const watchDebounce = 250 * time.Millisecond

// Watch calls onChange after the database file was written by any process.
// Bursts of writes are reported once. Watch blocks until ctx is done.
func Watch(ctx context.Context, dbPath string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	// bbolt may replace the file, so the directory is watched instead of the file
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		return err
	}

	target := filepath.Clean(dbPath)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ui.Warning("Settings watcher error: %v", err)
		}
	}
}
