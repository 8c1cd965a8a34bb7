package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gekko3d/ornatree"
)

// layoutWatcher re-reads the config file whenever it changes and publishes
// its layout_mode. The directory is watched rather than the file so that
// editors which save by rename keep being followed.
type layoutWatcher struct {
	path  string
	log   ornatree.Logger
	w     *fsnotify.Watcher
	modes chan ornatree.LayoutMode
	done  chan struct{}
}

func watchLayout(ctx context.Context, path string, log ornatree.Logger) (*layoutWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	lw := &layoutWatcher{
		path:  abs,
		log:   log,
		w:     w,
		modes: make(chan ornatree.LayoutMode, 1),
		done:  make(chan struct{}),
	}
	go lw.run(ctx)
	return lw, nil
}

// Modes delivers the layout_mode of every successfully reloaded config.
func (lw *layoutWatcher) Modes() <-chan ornatree.LayoutMode { return lw.modes }

// Done is closed once the watcher has shut down after ctx is cancelled.
func (lw *layoutWatcher) Done() <-chan struct{} { return lw.done }

func (lw *layoutWatcher) run(ctx context.Context) {
	defer close(lw.done)
	defer lw.w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-lw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != lw.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			cfg, err := ornatree.LoadConfig(lw.path)
			if err != nil {
				// Partial writes land here; the next event retries.
				lw.log.Warnf("watch: ignoring %s: %v", lw.path, err)
				continue
			}
			lw.log.Debugf("watch: %s reloaded, layout_mode=%s", lw.path, cfg.LayoutMode)
			select {
			case lw.modes <- cfg.LayoutMode:
			case <-ctx.Done():
				return
			}

		case err, ok := <-lw.w.Errors:
			if !ok {
				return
			}
			lw.log.Errorf("watch: %v", err)
		}
	}
}
