package flow

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mark3labs/stepper/internal/logger"
)

const debounceInterval = 100 * time.Millisecond

// ReloadFunc receives the reparsed flow, or the error that prevented it.
type ReloadFunc func(*Flow, error)

// Watcher reloads a flow file whenever it changes on disk.
// The parent directory is watched rather than the file itself so editors
// that save by rename keep working.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	name     string
	onReload ReloadFunc

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped chan struct{}
}

// NewWatcher creates a watcher for the flow file at path.
func NewWatcher(path string, onReload ReloadFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  w,
		path:     abs,
		name:     filepath.Base(abs),
		onReload: onReload,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start adds the watch and starts the event loop.
func (fw *Watcher) Start() error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		fw.watcher.Close()
		return err
	}
	go fw.eventLoop()
	logger.Info("Flow watcher started for %s", fw.path)
	return nil
}

// Stop shuts down the watcher. A pending reload is dropped.
func (fw *Watcher) Stop() error {
	close(fw.done)
	<-fw.stopped

	fw.mu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}

func (fw *Watcher) eventLoop() {
	defer close(fw.stopped)

	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Flow watcher error: %v", err)
		}
	}
}

func (fw *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != fw.name {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	// Collapse bursts of writes into one reload
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(debounceInterval, fw.reload)
}

func (fw *Watcher) reload() {
	select {
	case <-fw.done:
		return
	default:
	}

	f, err := Load(fw.path)
	if err != nil {
		logger.Warn("Flow reload failed: %v", err)
	} else {
		logger.Debug("Flow reloaded: %d steps", len(f.Steps))
	}
	if fw.onReload != nil {
		fw.onReload(f, err)
	}
}
