// Package watch notifies the GUI when a skin's configuration file changes
// on disk.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/setanarut/instafader/logger"
	"go.uber.org/zap"
)

// Debounce is how long the file must stay quiet before onChange fires.
// Editors and atomic writes produce bursts of events.
var Debounce = 150 * time.Millisecond

// File watches name inside dir.
type File struct {
	w    *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// Start watches dir for changes to name and calls onChange, from its own
// goroutine, after each burst of writes. The directory is watched rather
// than the file so that rename-over replacements are seen.
func Start(ctx context.Context, dir, name string, onChange func()) (*File, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	f := &File{w: w, done: make(chan struct{})}
	go f.loop(logger.L(ctx).With(zap.String("dir", dir)), name, onChange)
	return f, nil
}

func (f *File) loop(log *zap.Logger, name string, onChange func()) {
	defer close(f.done)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case ev, ok := <-f.w.Events:
			if !ok {
				return
			}
			if !strings.EqualFold(filepath.Base(ev.Name), name) {
				continue
			}
			if !ev.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename) {
				continue
			}
			log.Debug("config changed", zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.AfterFunc(Debounce, onChange)
			} else {
				timer.Reset(Debounce)
			}
		case err, ok := <-f.w.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (f *File) Close() error {
	var err error
	f.once.Do(func() {
		err = f.w.Close()
		<-f.done
	})
	return err
}
