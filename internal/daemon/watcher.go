package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// ConfigWatcher calls reload when the config file or one of its includes
// changes. Directories are watched rather than files so that editors
// replacing the file by rename are noticed.
type ConfigWatcher struct {
	files  func() []string
	reload func() error
	logger *slog.Logger
}

// NewConfigWatcher watches the paths returned by files. files is called
// again after every reload, since includes may have changed.
func NewConfigWatcher(files func() []string, reload func() error, logger *slog.Logger) *ConfigWatcher {
	return &ConfigWatcher{files: files, reload: reload, logger: logger}
}

func (w *ConfigWatcher) String() string { return "config-watcher" }

func (w *ConfigWatcher) Serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	var mu sync.Mutex
	watched := map[string]struct{}{}
	dirs := map[string]struct{}{}
	rewatch := func() {
		mu.Lock()
		defer mu.Unlock()
		watched = map[string]struct{}{}
		for _, f := range w.files() {
			abs, err := filepath.Abs(f)
			if err != nil {
				continue
			}
			watched[abs] = struct{}{}
			dir := filepath.Dir(abs)
			if _, ok := dirs[dir]; ok {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				w.logger.Warn("config watcher: cannot watch directory", "dir", dir, "error", err)
				continue
			}
			dirs[dir] = struct{}{}
		}
	}
	rewatch()

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("config watcher closed")
			}
			w.logger.Warn("config watcher error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("config watcher closed")
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			_, relevant := watched[filepath.Clean(ev.Name)]
			mu.Unlock()
			if !relevant {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.logger.Info("config changed, reloading")
			if err := w.reload(); err != nil {
				w.logger.Error("config reload failed, keeping previous config", "error", err)
			}
			rewatch()
		}
	}
}
