package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
	"github.com/fsnotify/fsnotify"
)

var _ ports.Watchable = (*Loader)(nil)

// Watch implements ports.Watchable. It watches the directory holding the
// definition so atomic saves (write to a temp file, rename over) are seen,
// and signals once per burst of writes to the file itself. The channel is
// closed when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	target, err := filepath.Abs(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", l.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	changes := make(chan struct{}, 1)
	go l.run(ctx, watcher, target, changes)
	return changes, nil
}

func (l *Loader) run(ctx context.Context, watcher *fsnotify.Watcher, target string, changes chan<- struct{}) {
	defer close(changes)
	defer watcher.Close()

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
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(l.debounce)
			} else {
				timer.Reset(l.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			l.logger.Info("tree definition changed", "path", l.path)
			select {
			case changes <- struct{}{}:
			default:
				// A signal is already pending; the reader reloads once.
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("watcher error", "path", l.path, "err", err)
		}
	}
}
