// Package host provides the standards-shaped element surface the bridge
// drives: attributes, properties, event listeners, and a single-threaded
// turn queue standing in for the microtask queue of a browser document.
//
// There is no real DOM here. A Document owns elements and a cooperative task
// queue; an Element exposes the custom-element contract (observedAttributes,
// connectedCallback, disconnectedCallback, attributeChangedCallback) to
// whatever class the bridge assembles. Rendered output lands in a per-element
// container that can be parsed back into a node tree for inspection.
package host

import (
	"fmt"
	"sync"
)

// Task is one unit of deferred work. An error from a task aborts the turn
// and surfaces to the FlushTurn caller, which is how render errors propagate
// to whoever caused the triggering mutation.
type Task func() error

// Document owns the turn queue and constructs elements. All element mutation
// and rendering for one document happens on one goroutine: callers make a
// burst of synchronous writes, then flush the turn.
type Document struct {
	mutex    sync.Mutex
	tasks    []Task
	flushing bool
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{}
}

// Post queues a task for the end of the current turn. Posting from inside a
// flush appends to the same drain, matching microtask semantics.
func (d *Document) Post(t Task) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.tasks = append(d.tasks, t)
}

// Pending returns the number of queued tasks.
func (d *Document) Pending() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.tasks)
}

// FlushTurn drains the queue to quiescence. The first task error stops the
// drain and is returned; remaining tasks stay queued for the next turn.
func (d *Document) FlushTurn() error {
	d.mutex.Lock()
	if d.flushing {
		d.mutex.Unlock()
		return fmt.Errorf("host: reentrant turn flush")
	}
	d.flushing = true
	d.mutex.Unlock()

	defer func() {
		d.mutex.Lock()
		d.flushing = false
		d.mutex.Unlock()
	}()

	for {
		d.mutex.Lock()
		if len(d.tasks) == 0 {
			d.mutex.Unlock()
			return nil
		}
		t := d.tasks[0]
		d.tasks = d.tasks[1:]
		d.mutex.Unlock()

		if err := t(); err != nil {
			return err
		}
	}
}

// NewElement constructs a detached element with the given tag. The bridge
// installs callbacks and property accessors before handing it out.
func (d *Document) NewElement(tag string) *Element {
	return &Element{
		doc:       d,
		tag:       tag,
		attrs:     make(map[string]string),
		observed:  make(map[string]bool),
		props:     make(map[string]Accessor),
		listeners: make(map[string]map[int]Listener),
	}
}
