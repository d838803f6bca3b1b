// Package registry manages defined element classes by tag, standing in for
// the hosting custom-element registration mechanism: one class per tag,
// duplicate definition is a configuration error, and watchers receive change
// events for hot redefinition.
package registry

import (
	"sync"
	"time"

	"github.com/conneroisu/weld/internal/bridge"
	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/types"
)

// DefinitionRegistry manages all defined element classes
type DefinitionRegistry struct {
	classes  map[string]*bridge.ElementClass
	mutex    sync.RWMutex
	watchers []chan types.DefinitionEvent
}

// NewDefinitionRegistry creates a new definition registry
func NewDefinitionRegistry() *DefinitionRegistry {
	return &DefinitionRegistry{
		classes:  make(map[string]*bridge.ElementClass),
		watchers: make([]chan types.DefinitionEvent, 0),
	}
}

// Register adds a class under its tag. Defining a tag twice is a
// configuration error, matching custom-element registry semantics; use
// Replace for hot redefinition.
func (r *DefinitionRegistry) Register(class *bridge.ElementClass) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	tag := class.Tag()
	if _, exists := r.classes[tag]; exists {
		return &werrors.ConfigurationError{
			Tag:     tag,
			Message: "tag is already defined",
		}
	}
	r.classes[tag] = class
	r.notify(types.DefinitionEvent{Type: types.DefinitionAdded, Tag: tag, Timestamp: time.Now()})
	return nil
}

// Replace swaps the class for a tag, or adds it when absent. Existing
// element instances keep their old class; watchers decide what to rebuild.
func (r *DefinitionRegistry) Replace(class *bridge.ElementClass) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	tag := class.Tag()
	eventType := types.DefinitionAdded
	if _, exists := r.classes[tag]; exists {
		eventType = types.DefinitionReplaced
	}
	r.classes[tag] = class
	r.notify(types.DefinitionEvent{Type: eventType, Tag: tag, Timestamp: time.Now()})
}

// Get retrieves a class by tag
func (r *DefinitionRegistry) Get(tag string) (*bridge.ElementClass, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	class, exists := r.classes[tag]
	return class, exists
}

// GetAll returns all registered classes keyed by tag
func (r *DefinitionRegistry) GetAll() map[string]*bridge.ElementClass {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	result := make(map[string]*bridge.ElementClass, len(r.classes))
	for tag, class := range r.classes {
		result[tag] = class
	}
	return result
}

// Remove removes a class from the registry
func (r *DefinitionRegistry) Remove(tag string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.classes[tag]; !exists {
		return
	}
	delete(r.classes, tag)
	r.notify(types.DefinitionEvent{Type: types.DefinitionRemoved, Tag: tag, Timestamp: time.Now()})
}

// Count returns the number of registered classes
func (r *DefinitionRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.classes)
}

// Watch returns a channel that receives definition events
func (r *DefinitionRegistry) Watch() <-chan types.DefinitionEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.DefinitionEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *DefinitionRegistry) UnWatch(ch <-chan types.DefinitionEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// notify sends an event to all watchers. Caller holds the write lock.
func (r *DefinitionRegistry) notify(event types.DefinitionEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
