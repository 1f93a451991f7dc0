package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/nativeview/internal/logging"
)

const defaultDebounce = 250 * time.Millisecond

// WatchFile calls reload after path changes, coalescing events that arrive
// within debounce. It watches the parent directory so editors that replace
// the file on save are followed. It returns when ctx is done.
func WatchFile(ctx context.Context, path string, debounce time.Duration, reload func()) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	log := logging.Component(ctx, "watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	log.Debug().Str("file", path).Dur("debounce", debounce).Msg("watching for changes")

	fire := make(chan struct{}, 1)
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

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Trace().Str("op", ev.Op.String()).Msg("file event")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			log.Debug().Str("file", path).Msg("file changed, reloading")
			reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}
