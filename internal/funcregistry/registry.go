// Package funcregistry provides the lookup scope that function-kind props
// resolve through. A function-kind attribute stores a serializable key; the
// registry maps that key to a live callable at invocation time.
//
// The registry is an explicit, injectable object rather than an ambient
// global: integrators can supply their own per bridge, and tests can run
// against isolated instances. A process-wide default exists for the common
// single-app case.
package funcregistry

import (
	"strings"
	"sync"

	"github.com/conneroisu/weld/internal/types"
)

// Registry maps lookup keys to callables. Keys may be plain identifiers
// ("save") or dotted property paths ("api.handlers.save") resolved through
// nested scopes. Reads and writes to a single key are atomic; entries under
// different keys never interfere.
type Registry struct {
	mutex   sync.RWMutex
	entries map[string]any
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]any),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when no explicit one is
// injected.
func Default() *Registry {
	return defaultRegistry
}

// Register binds a callable under key. Re-registering a key replaces the
// previous binding.
func (r *Registry) Register(key string, fn types.BoundFunc) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries[key] = fn
}

// RegisterScope binds a nested scope under key. Values in the scope map may
// be types.BoundFunc entries or further map[string]any scopes, addressable
// with dotted paths.
func (r *Registry) RegisterScope(key string, scope map[string]any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries[key] = scope
}

// Deregister removes a key. Removing one key never disturbs entries bound
// under other keys.
func (r *Registry) Deregister(key string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.entries, key)
}

// Resolve looks up key, walking dotted path segments through nested scopes.
// A flat entry under the literal key wins over path traversal.
func (r *Registry) Resolve(key string) (types.BoundFunc, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if v, ok := r.entries[key]; ok {
		if fn, ok := toBoundFunc(v); ok {
			return fn, true
		}
	}

	segments := strings.Split(key, ".")
	if len(segments) == 1 {
		return nil, false
	}
	var cur any
	var ok bool
	cur, ok = r.entries[segments[0]]
	if !ok {
		return nil, false
	}
	for _, seg := range segments[1:] {
		scope, isScope := cur.(map[string]any)
		if !isScope {
			return nil, false
		}
		cur, ok = scope[seg]
		if !ok {
			return nil, false
		}
	}
	return toBoundFunc(cur)
}

// Has reports whether key resolves to a callable.
func (r *Registry) Has(key string) bool {
	_, ok := r.Resolve(key)
	return ok
}

// Count returns the number of top-level entries.
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.entries)
}

func toBoundFunc(v any) (types.BoundFunc, bool) {
	switch fn := v.(type) {
	case types.BoundFunc:
		return fn, true
	case func(recv any, args ...any) any:
		return types.BoundFunc(fn), true
	default:
		return nil, false
	}
}
