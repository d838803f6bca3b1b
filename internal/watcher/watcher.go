// Package watcher watches element manifest files for changes with
// debouncing, so the development server can hot-redefine element classes
// without restarting.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents one manifest file change
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ChangeHandler handles a debounced batch of manifest changes
type ChangeHandler func(events []ChangeEvent) error

// ManifestWatcher watches manifest files with debouncing: a burst of rapid
// writes (editors commonly write twice) collapses into one handler call.
type ManifestWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	paths    map[string]bool
	handlers []ChangeHandler
	mutex    sync.RWMutex

	pending    []ChangeEvent
	timer      *time.Timer
	timerMutex sync.Mutex
}

// NewManifestWatcher creates a watcher with the given debounce delay.
func NewManifestWatcher(debounceDelay time.Duration) (*ManifestWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &ManifestWatcher{
		watcher: fsw,
		delay:   debounceDelay,
		paths:   make(map[string]bool),
	}, nil
}

// AddHandler adds a change handler
func (mw *ManifestWatcher) AddHandler(handler ChangeHandler) {
	mw.mutex.Lock()
	defer mw.mutex.Unlock()
	mw.handlers = append(mw.handlers, handler)
}

// AddManifest watches one manifest file. The containing directory is
// watched, since editors replace files instead of writing in place.
func (mw *ManifestWatcher) AddManifest(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	mw.mutex.Lock()
	mw.paths[abs] = true
	mw.mutex.Unlock()
	return mw.watcher.Add(filepath.Dir(abs))
}

// Start processes events until ctx is done.
func (mw *ManifestWatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-mw.watcher.Events:
				if !ok {
					return
				}
				mw.handleEvent(event)
			case _, ok := <-mw.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// Close stops the underlying fsnotify watcher.
func (mw *ManifestWatcher) Close() error {
	return mw.watcher.Close()
}

// handleEvent filters to watched manifests and queues a debounced flush.
func (mw *ManifestWatcher) handleEvent(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	mw.mutex.RLock()
	watched := mw.paths[abs]
	mw.mutex.RUnlock()
	if !watched {
		return
	}

	var eventType EventType
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = EventTypeCreated
	case event.Op&fsnotify.Remove != 0 || event.Op&fsnotify.Rename != 0:
		eventType = EventTypeDeleted
	default:
		eventType = EventTypeModified
	}

	mw.timerMutex.Lock()
	defer mw.timerMutex.Unlock()
	mw.pending = append(mw.pending, ChangeEvent{
		Type:    eventType,
		Path:    abs,
		ModTime: time.Now(),
	})
	if mw.timer != nil {
		mw.timer.Stop()
	}
	mw.timer = time.AfterFunc(mw.delay, mw.flush)
}

// flush delivers the pending batch to all handlers.
func (mw *ManifestWatcher) flush() {
	mw.timerMutex.Lock()
	events := mw.pending
	mw.pending = nil
	mw.timerMutex.Unlock()

	if len(events) == 0 {
		return
	}

	mw.mutex.RLock()
	handlers := make([]ChangeHandler, len(mw.handlers))
	copy(handlers, mw.handlers)
	mw.mutex.RUnlock()

	for _, handler := range handlers {
		// Handler errors are the handler's concern; the watcher keeps
		// delivering.
		_ = handler(events)
	}
}
