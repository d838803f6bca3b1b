// Package types provides common type definitions used throughout the weld
// bridge runtime. This package contains shared types to avoid circular
// dependencies between packages.
package types

import "time"

// PropKind identifies the declared kind of a bridged prop. The kind controls
// how raw attribute strings are coerced and how property writes are stored.
type PropKind string

const (
	KindString   PropKind = "string"
	KindNumber   PropKind = "number"
	KindBoolean  PropKind = "boolean"
	KindFunction PropKind = "function"
	KindMethod   PropKind = "method"
	KindJSON     PropKind = "json"
)

// Valid reports whether k is one of the six recognized prop kinds.
func (k PropKind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindFunction, KindMethod, KindJSON:
		return true
	default:
		return false
	}
}

// Callable reports whether values of this kind are invocable references.
func (k PropKind) Callable() bool {
	return k == KindFunction || k == KindMethod
}

// PropSpec describes one exposed prop of a bridged element. Specs are built
// once at definition time and shared read-only across all instances of the
// element class.
type PropSpec struct {
	// Name is the camelCase prop identifier (e.g. "syncInterval")
	Name string
	// AttributeName is the kebab-case attribute derived from Name
	// (e.g. "sync-interval"); the derivation is bijective
	AttributeName string
	// Kind selects the coercion and storage behavior for this prop
	Kind PropKind
	// Default is the value a prop reverts to when its attribute is removed
	// (nil means "unset")
	Default any
}

// PropValue is the tagged union stored per prop per element instance. Exactly
// one representation is meaningful, selected by Kind; Present distinguishes a
// stored zero value from an unset prop.
type PropValue struct {
	// Kind tags which representation below is live
	Kind PropKind
	// Present is false while the prop is unset (no attribute, no property
	// write, no default)
	Present bool

	// Str holds string-kind values
	Str string
	// Num holds number-kind values
	Num float64
	// Bool holds boolean-kind values
	Bool bool
	// JSON holds the decoded value of json-kind props (any valid top-level
	// JSON value, including arrays and objects)
	JSON any
	// FuncKey holds the lookup key of function-kind props; resolution into a
	// callable is deferred to invocation time
	FuncKey string
	// Method holds the direct callable reference of method-kind props;
	// settable only through the property surface, never from an attribute
	Method Callable
}

// Native returns the Go-native value a prop bag should carry for this
// PropValue. Callable kinds are excluded on purpose: they are wrapped into
// invokers by the resolver, not exposed raw.
func (v PropValue) Native() any {
	if !v.Present {
		return nil
	}
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBoolean:
		return v.Bool
	case KindJSON:
		return v.JSON
	case KindFunction:
		return v.FuncKey
	default:
		return nil
	}
}

// Callable is an invocable prop value as seen by the wrapped component.
// Invoking an unbound callable is a no-op by contract, never a crash.
type Callable func(args ...any) any

// BoundFunc is a function-registry entry. recv is the host element instance
// the invocation is bound to, standing in for an implicit receiver.
type BoundFunc func(recv any, args ...any) any

// EventSpec describes one declared outward-facing event of a bridged element.
type EventSpec struct {
	// Name is the declared event name (e.g. "syncRequest")
	Name string
	// Type is the derived DOM event type dispatched on the host element
	// (e.g. "syncrequest")
	Type string
	// CallbackProp is the conventional callback prop name supplied to the
	// wrapped component (e.g. "onSyncRequest")
	CallbackProp string
}

// Origin tags which entry point last wrote a prop value. The two write paths
// (attribute and property) converge on one state store; the tag keeps them
// from re-triggering each other's observation mechanism.
type Origin int

const (
	// OriginDefault marks a value installed from the PropSpec default
	OriginDefault Origin = iota
	// OriginProperty marks a direct typed property write
	OriginProperty
	// OriginAttribute marks a coerced attribute mutation
	OriginAttribute
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginDefault:
		return "default"
	case OriginProperty:
		return "property"
	case OriginAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// LifecycleState represents the connection state of a bridged element.
type LifecycleState int

const (
	// StateUnattached covers construction up to first DOM insertion; writes
	// are buffered and the render scheduler is inert
	StateUnattached LifecycleState = iota
	// StateConnected means a mount exists and mutations trigger renders
	StateConnected
	// StateDisconnected means the mount is torn down but prop state is
	// retained for a later remount
	StateDisconnected
)

// String returns the string representation of the lifecycle state.
func (s LifecycleState) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Props is the full prop bag handed to the wrapped component on every mount
// and update. Callable props appear as Callable invokers.
type Props map[string]any

// Handle is the opaque token a wrapped component returns from Mount and
// receives back on Update and Unmount. The bridge never inspects it.
type Handle any

// Container receives the wrapped component's rendered output. The host
// element's render slot implements it.
type Container interface {
	// SetHTML replaces the container's content; a new render replaces, never
	// duplicates, the prior output
	SetHTML(html string)
	// HTML returns the current content
	HTML() string
}

// Renderable is the full contract the bridge requires from the wrapped
// component. It is treated as an external collaborator: the bridge calls
// these three operations and never inspects internals.
type Renderable interface {
	Mount(c Container, props Props) (Handle, error)
	Update(h Handle, props Props) error
	Unmount(h Handle) error
}

// DefinitionInfo is the integrator-supplied description of one bridged
// element class, normally parsed from a manifest or built in code.
type DefinitionInfo struct {
	// Tag is the element tag name the class registers under (kebab-case)
	Tag string
	// Props maps camelCase prop names to their declared kinds
	Props map[string]PropKind
	// Defaults optionally maps prop names to default values
	Defaults map[string]any
	// Events lists declared event names (e.g. "syncRequest")
	Events []string
	// Component is the wrapped component all instances of this class render
	Component Renderable
}

// DefinitionEventType represents the type of definition registry change.
type DefinitionEventType int

const (
	DefinitionAdded DefinitionEventType = iota
	DefinitionReplaced
	DefinitionRemoved
)

// DefinitionEvent represents a change in the definition registry, used for
// real-time notifications to watchers like the development server.
type DefinitionEvent struct {
	// Type indicates the kind of change
	Type DefinitionEventType
	// Tag is the affected element tag
	Tag string
	// Timestamp records when the event occurred for ordering and filtering
	Timestamp time.Time
}
