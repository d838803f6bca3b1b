// Package snapshot serializes an element's prop state so the development
// server can preserve it across manifest redefinition and page reloads.
//
// Snapshots travel through the element's property surface: string, number,
// boolean and json values go as native data, function-kind props go as their
// lookup key, and method-kind props are skipped entirely (a live callable
// reference has no serialized form). Restoring writes through the property
// path, so a reconnect remounts from the snapshot without any attribute
// re-read.
package snapshot

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/conneroisu/weld/internal/types"
)

// ElementSnapshot is the wire form of one element's prop state.
type ElementSnapshot struct {
	// Tag is the element tag the state belongs to
	Tag string `msgpack:"tag"`
	// Props holds native values for the non-callable kinds
	Props map[string]any `msgpack:"props"`
	// FuncKeys holds the lookup keys of bound function-kind props
	FuncKeys map[string]string `msgpack:"func_keys,omitempty"`
}

// Capture reads present prop values through get, normally an element's
// property getter.
func Capture(tag string, specs []types.PropSpec, get func(name string) (any, bool)) ElementSnapshot {
	snap := ElementSnapshot{
		Tag:      tag,
		Props:    make(map[string]any),
		FuncKeys: make(map[string]string),
	}
	for _, spec := range specs {
		value, ok := get(spec.Name)
		if !ok || value == nil {
			continue
		}
		switch spec.Kind {
		case types.KindMethod:
			// Live references cannot be serialized.
		case types.KindFunction:
			if key, ok := value.(string); ok {
				snap.FuncKeys[spec.Name] = key
			}
		default:
			snap.Props[spec.Name] = value
		}
	}
	return snap
}

// Apply writes a snapshot back through set, normally an element's property
// setter. Props absent from specs are skipped, so snapshots survive
// definition changes that drop a prop.
func Apply(snap ElementSnapshot, specs []types.PropSpec, set func(name string, value any) error) error {
	known := make(map[string]bool, len(specs))
	for _, spec := range specs {
		known[spec.Name] = true
	}
	for name, value := range snap.Props {
		if !known[name] {
			continue
		}
		if err := set(name, value); err != nil {
			return err
		}
	}
	for name, key := range snap.FuncKeys {
		if !known[name] {
			continue
		}
		if err := set(name, key); err != nil {
			return err
		}
	}
	return nil
}

// Encode marshals a snapshot to msgpack bytes.
func Encode(snap ElementSnapshot) ([]byte, error) {
	return msgpack.Marshal(snap)
}

// Decode unmarshals msgpack bytes into a snapshot.
func Decode(data []byte) (ElementSnapshot, error) {
	var snap ElementSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return ElementSnapshot{}, err
	}
	return snap, nil
}
