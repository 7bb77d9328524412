package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PizzaHomicide/kagami/internal/domain"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors produce for a single save
const DefaultDebounce = 500 * time.Millisecond

// Watch reloads the catalog at path whenever it changes and hands every valid result to onChange.  A catalog that
// fails to load is logged and skipped, leaving the previous one in use.  Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file so saves that replace the file by rename are seen.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(domain.Series)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch catalog directory: %w", err)
	}
	logger.Info("Watching catalog for changes", "path", path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Catalog watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Catalog file changed", "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			series, err := Load(path)
			if err != nil {
				logger.Warn("Ignoring catalog change that failed to load", "error", err)
				continue
			}
			onChange(series)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Catalog watcher error", "error", err)
		}
	}
}
