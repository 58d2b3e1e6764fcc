package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"quicktransfer/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileEvent is a regular file created or written in a watched directory
type FileEvent struct {
	Path      string
	Info      os.FileInfo
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher reports file creations and writes in directories using fsnotify
type Watcher struct {
	directories []string

	events chan FileEvent
	stop   chan struct{}
	done   chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	closed  bool
}

// NewWatcher creates a watcher with an event buffer of the given size.
func NewWatcher(buffer int) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if buffer <= 0 {
		buffer = 64
	}

	return &Watcher{
		events:    make(chan FileEvent, buffer),
		fsWatcher: fsWatcher,
	}, nil
}

// AddDirectory starts watching dir (not recursively).
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	for _, existing := range w.directories {
		if existing == dir {
			return nil
		}
	}
	w.directories = append(w.directories, dir)
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

// Events delivers file events until the watcher is stopped, then closes.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Start begins forwarding fsnotify events. A stopped watcher cannot be
// started again.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop(w.stop, w.done)
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				// Removed again before we looked.
				if !os.IsNotExist(err) {
					log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Warn("Error stating file")
				}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}

			select {
			case w.events <- FileEvent{Path: event.Name, Info: info, Timestamp: time.Now(), Op: event.Op}:
			case <-stop:
				return
			default:
				log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts watching and closes the event channel. A watcher that was
// never started is released as well. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return
	}

	if w.running {
		close(w.stop)
		<-w.done
	}
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
	w.closed = true
	close(w.events)
}

// IsRunning reports whether the watcher is active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the watched directories
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}
