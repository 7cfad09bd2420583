package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce is the window in which repeated writes to the tuning file are collapsed into one reload.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a tuning file whenever it changes on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	onLoad  func(Tuning)
	log     *slog.Logger

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching the tuning file at path. onLoad is called from the watcher's goroutine with every
// tuning that loads and validates successfully. Files that fail to load are logged and skipped, and the
// previous tuning stays in effect.
func Watch(path string, log *slog.Logger, onLoad func(Tuning)) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often replace the file instead of writing it, so the directory is watched.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		onLoad:  onLoad,
		log:     log,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || filepath.Clean(ev.Name) != w.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("tuning watcher error", "error", err)
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	t, err := Load(w.path)
	if err != nil {
		w.log.Error("unable to reload tuning", "path", w.path, "error", err)
		return
	}
	w.log.Info("reloaded tuning", "path", w.path)
	w.onLoad(t)
}
