// Package eventbridge turns callback-prop invocations inside the wrapped
// component into CustomEvents dispatched on the host element, and tracks any
// listeners it installs so disconnect can remove exactly those.
//
// Every declared event name implicitly produces a bindable "on"+Name
// callback prop; no PropSpec entry is required.
package eventbridge

import (
	"strings"
	"unicode"

	"github.com/conneroisu/weld/internal/host"
	"github.com/conneroisu/weld/internal/types"
)

// Derive builds the EventSpec for a declared event name: the dispatched DOM
// type is the lowercased name with any leading "on" stripped, and the
// callback prop follows the "on"+Name convention.
//
//	Derive("syncRequest") => {Name: "syncRequest", Type: "syncrequest", CallbackProp: "onSyncRequest"}
func Derive(name string) types.EventSpec {
	base := name
	if strings.HasPrefix(base, "on") && len(base) > 2 && unicode.IsUpper(rune(base[2])) {
		base = base[2:]
		base = string(unicode.ToLower(rune(base[0]))) + base[1:]
	}
	callback := "on" + string(unicode.ToUpper(rune(base[0]))) + base[1:]
	return types.EventSpec{
		Name:         base,
		Type:         strings.ToLower(base),
		CallbackProp: callback,
	}
}

// DeriveAll maps Derive over a declared event-name list.
func DeriveAll(names []string) []types.EventSpec {
	specs := make([]types.EventSpec, 0, len(names))
	for _, n := range names {
		specs = append(specs, Derive(n))
	}
	return specs
}

// Bridge wires one element instance's declared events.
type Bridge struct {
	el      *host.Element
	specs   []types.EventSpec
	handles []host.ListenerHandle
}

// New creates an event bridge for el.
func New(el *host.Element, specs []types.EventSpec) *Bridge {
	return &Bridge{el: el, specs: specs}
}

// Specs returns the derived event specs.
func (b *Bridge) Specs() []types.EventSpec {
	return b.specs
}

// CallbackProps returns the implicit callback props injected into every prop
// bag. Invoking one dispatches a non-bubbling CustomEvent on the host
// element with the payload under Detail.
func (b *Bridge) CallbackProps() types.Props {
	props := make(types.Props, len(b.specs))
	for _, spec := range b.specs {
		eventType := spec.Type
		props[spec.CallbackProp] = types.Callable(func(args ...any) any {
			var detail any
			if len(args) > 0 {
				detail = args[0]
			}
			b.el.DispatchEvent(host.CustomEvent{
				Type:    eventType,
				Detail:  detail,
				Bubbles: false,
			})
			return nil
		})
	}
	return props
}

// Listen installs an external listener through the bridge so teardown can
// remove it with the rest. This is the inverse direction: outside listeners
// driving behavior from dispatched events.
func (b *Bridge) Listen(eventType string, fn host.Listener) host.ListenerHandle {
	h := b.el.AddEventListener(eventType, fn)
	b.handles = append(b.handles, h)
	return h
}

// RemoveAll removes every listener this bridge installed. Listeners added
// directly on the element by outside code are untouched.
func (b *Bridge) RemoveAll() {
	for _, h := range b.handles {
		b.el.RemoveEventListener(h)
	}
	b.handles = b.handles[:0]
}
