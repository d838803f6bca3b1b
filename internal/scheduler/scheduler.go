// Package scheduler owns the wrapped component's mounted instance for one
// element and batches renders: any burst of synchronous prop mutations
// within one document turn collapses into a single flush against the final
// prop state.
package scheduler

import (
	"context"
	"sync"

	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/eventbridge"
	"github.com/conneroisu/weld/internal/host"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/propstore"
	"github.com/conneroisu/weld/internal/resolver"
	"github.com/conneroisu/weld/internal/types"
)

// Scheduler drives Mount/Update/Unmount for one element instance. At most
// one mounted instance exists at any time.
type Scheduler struct {
	tag       string
	doc       *host.Document
	store     *propstore.Store
	component types.Renderable
	container types.Container
	events    *eventbridge.Bridge
	resolver  *resolver.Resolver
	recv      any
	logger    logging.Logger

	mutex   sync.Mutex
	handle  types.Handle
	mounted bool
	pending bool
	active  bool
}

// New creates a scheduler. recv is the host element instance callable props
// bind their receiver to.
func New(
	tag string,
	doc *host.Document,
	store *propstore.Store,
	component types.Renderable,
	container types.Container,
	events *eventbridge.Bridge,
	res *resolver.Resolver,
	recv any,
	logger logging.Logger,
) *Scheduler {
	return &Scheduler{
		tag:       tag,
		doc:       doc,
		store:     store,
		component: component,
		container: container,
		events:    events,
		resolver:  res,
		recv:      recv,
		logger:    logger,
	}
}

// Activate arms the scheduler on connection.
func (s *Scheduler) Activate() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.active = true
}

// ScheduleRender queues one flush at the end of the current turn. Idempotent
// within a turn: repeated calls before the flush collapse into one render.
// Inert while the element is not connected.
func (s *Scheduler) ScheduleRender() {
	s.mutex.Lock()
	if !s.active || s.pending {
		s.mutex.Unlock()
		return
	}
	s.pending = true
	s.mutex.Unlock()

	s.doc.Post(s.flush)
}

// flush performs the deferred mount or update. A disconnect between
// scheduling and flushing suppresses the render entirely.
func (s *Scheduler) flush() error {
	s.mutex.Lock()
	s.pending = false
	if !s.active {
		s.mutex.Unlock()
		return nil
	}
	wasMounted := s.mounted
	handle := s.handle
	s.mutex.Unlock()

	props := s.buildProps()

	if !wasMounted {
		h, err := s.component.Mount(s.container, props)
		if err != nil {
			return &werrors.RenderError{Tag: s.tag, Phase: werrors.PhaseMount, Err: err}
		}
		s.mutex.Lock()
		s.handle = h
		s.mounted = true
		s.mutex.Unlock()
		s.logger.Debug(context.Background(), "component mounted", "tag", s.tag)
		return nil
	}

	if err := s.component.Update(handle, props); err != nil {
		return &werrors.RenderError{Tag: s.tag, Phase: werrors.PhaseUpdate, Err: err}
	}
	return nil
}

// buildProps assembles the full bag from current store state. Callable props
// become lazy invokers: resolution against the function registry happens at
// call time, not here.
func (s *Scheduler) buildProps() types.Props {
	snapshot := s.store.Snapshot()
	props := make(types.Props, len(snapshot)+4)
	for name, pv := range snapshot {
		spec, ok := s.store.Spec(name)
		if !ok {
			continue
		}
		if spec.Kind.Callable() {
			props[name] = s.resolver.Bind(spec, pv, s.recv)
			continue
		}
		props[name] = pv.Native()
	}
	// Declared events contribute their implicit callback props last so they
	// cannot be shadowed by prop state.
	for name, cb := range s.events.CallbackProps() {
		props[name] = cb
	}
	return props
}

// Teardown unmounts the component and cancels any pending flush. Prop state
// is untouched; a later Activate+ScheduleRender remounts from it without
// re-reading attributes.
func (s *Scheduler) Teardown() error {
	s.mutex.Lock()
	s.active = false
	wasMounted := s.mounted
	handle := s.handle
	s.mounted = false
	s.handle = nil
	s.mutex.Unlock()

	if !wasMounted {
		return nil
	}
	if err := s.component.Unmount(handle); err != nil {
		return &werrors.RenderError{Tag: s.tag, Phase: werrors.PhaseUnmount, Err: err}
	}
	s.logger.Debug(context.Background(), "component unmounted", "tag", s.tag)
	return nil
}

// Mounted reports whether a mounted instance currently exists.
func (s *Scheduler) Mounted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.mounted
}

// Pending reports whether a flush is queued for this turn.
func (s *Scheduler) Pending() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pending
}
