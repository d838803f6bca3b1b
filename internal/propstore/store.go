// Package propstore holds the canonical per-instance prop state of a bridged
// element. It is the single source of truth both write paths converge on:
// typed property writes land here directly, attribute mutations land here
// after coercion. Each write carries an origin tag so neither entry point can
// re-trigger the other's observation mechanism.
package propstore

import (
	"sync"

	"github.com/conneroisu/weld/internal/coerce"
	"github.com/conneroisu/weld/internal/types"
)

// Store is the prop state of one element instance. It owns nothing but
// values: the mount handle lives with the scheduler and bridge-installed
// listeners live with the event bridge.
type Store struct {
	mutex   sync.RWMutex
	specs   map[string]types.PropSpec
	values  map[string]types.PropValue
	origins map[string]types.Origin
	// onChange requests a render after a successful write; nil while the
	// element is unattached
	onChange func()
}

// NewStore creates a store seeded with the declared defaults of specs.
func NewStore(specs []types.PropSpec) *Store {
	s := &Store{
		specs:   make(map[string]types.PropSpec, len(specs)),
		values:  make(map[string]types.PropValue, len(specs)),
		origins: make(map[string]types.Origin, len(specs)),
	}
	for _, spec := range specs {
		s.specs[spec.Name] = spec
		s.installDefault(spec)
	}
	return s
}

// SetOnChange installs the render-request hook. Passing nil makes writes
// buffer silently, which is the unattached behavior.
func (s *Store) SetOnChange(fn func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onChange = fn
}

// Spec returns the PropSpec for a prop name.
func (s *Store) Spec(name string) (types.PropSpec, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	spec, ok := s.specs[name]
	return spec, ok
}

// Specs returns all declared specs.
func (s *Store) Specs() []types.PropSpec {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]types.PropSpec, 0, len(s.specs))
	for _, spec := range s.specs {
		out = append(out, spec)
	}
	return out
}

// Set is the property write path: value is pre-typed and stored without any
// string coercion, then a render is requested. It never writes back to the
// DOM attribute.
func (s *Store) Set(name string, value any) error {
	s.mutex.Lock()
	spec, ok := s.specs[name]
	if !ok {
		s.mutex.Unlock()
		return nil // undeclared props are left to native semantics
	}
	pv, err := coerce.FromNative(spec.Kind, name, value)
	if err != nil {
		s.mutex.Unlock()
		return err
	}
	s.values[name] = pv
	s.origins[name] = types.OriginProperty
	notify := s.onChange
	s.mutex.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}

// SetFromAttribute is the attribute write path: pv has already been through
// the coercion engine exactly once. It stores directly, bypassing the
// property setter so no redundant notification loop occurs; the caller is
// responsible for requesting the render.
func (s *Store) SetFromAttribute(name string, pv types.PropValue) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.specs[name]; !ok {
		return
	}
	s.values[name] = pv
	s.origins[name] = types.OriginAttribute
}

// Revert restores a prop to its declared default, the attribute-removal
// behavior. For callable kinds with no default this clears the binding.
func (s *Store) Revert(name string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	spec, ok := s.specs[name]
	if !ok {
		return
	}
	s.installDefault(spec)
}

// Get returns the current stored native value, never a re-derivation from
// the attribute string.
func (s *Store) Get(name string) (any, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	pv, ok := s.values[name]
	if !ok || !pv.Present {
		return nil, false
	}
	if pv.Kind == types.KindMethod {
		return pv.Method, true
	}
	return pv.Native(), true
}

// Value returns the raw tagged PropValue for a prop.
func (s *Store) Value(name string) (types.PropValue, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	pv, ok := s.values[name]
	return pv, ok
}

// Origin returns which entry point last wrote the prop.
func (s *Store) Origin(name string) (types.Origin, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	o, ok := s.origins[name]
	return o, ok
}

// Snapshot returns a copy of all present values, keyed by prop name. The
// scheduler builds prop bags from snapshots so a flush observes a consistent
// final state, never an interleaving of partial writes.
func (s *Store) Snapshot() map[string]types.PropValue {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make(map[string]types.PropValue, len(s.values))
	for name, pv := range s.values {
		if pv.Present {
			out[name] = pv
		}
	}
	return out
}

// installDefault seeds or restores the declared default. Caller holds the
// write lock.
func (s *Store) installDefault(spec types.PropSpec) {
	if spec.Default == nil {
		s.values[spec.Name] = types.PropValue{Kind: spec.Kind}
		s.origins[spec.Name] = types.OriginDefault
		return
	}
	pv, err := coerce.FromNative(spec.Kind, spec.Name, spec.Default)
	if err != nil {
		// Defaults are validated at definition time; an invalid one here
		// degrades to unset rather than corrupting state.
		pv = types.PropValue{Kind: spec.Kind}
	}
	s.values[spec.Name] = pv
	s.origins[spec.Name] = types.OriginDefault
}
