// Package weld is the public surface of the bridge runtime. It wraps a
// component implementing the Mount/Update/Unmount contract so it can be
// instantiated and driven purely through a standards-shaped custom-element
// interface: kebab-case attributes, camelCase properties, and dispatched
// custom events on a host element.
//
// A minimal integration:
//
//	class, err := weld.Define(weld.DefinitionInfo{
//	    Tag:       "my-greeting",
//	    Props:     map[string]weld.PropKind{"name": weld.KindString},
//	    Events:    []string{"syncRequest"},
//	    Component: myComponent,
//	})
//	doc := weld.NewDocument()
//	el := class.NewElement(doc)
//	el.SetAttribute("name", "Ada")
//	_ = el.Connect()
//	_ = doc.FlushTurn()
package weld

import (
	"github.com/conneroisu/weld/internal/bridge"
	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/funcregistry"
	"github.com/conneroisu/weld/internal/host"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/types"
)

// Core definition types.
type (
	// PropKind identifies the declared kind of a bridged prop
	PropKind = types.PropKind
	// PropSpec describes one exposed prop of a bridged element
	PropSpec = types.PropSpec
	// EventSpec describes one declared outward-facing event
	EventSpec = types.EventSpec
	// DefinitionInfo describes one bridged element class
	DefinitionInfo = types.DefinitionInfo
	// Props is the bag handed to the wrapped component
	Props = types.Props
	// Handle is the wrapped component's opaque mount token
	Handle = types.Handle
	// Container receives the wrapped component's rendered output
	Container = types.Container
	// Renderable is the Mount/Update/Unmount contract
	Renderable = types.Renderable
	// Callable is an invocable prop value
	Callable = types.Callable
	// BoundFunc is a function-registry entry with an explicit receiver
	BoundFunc = types.BoundFunc
	// LifecycleState is the element connection state
	LifecycleState = types.LifecycleState
)

// The six recognized prop kinds.
const (
	KindString   = types.KindString
	KindNumber   = types.KindNumber
	KindBoolean  = types.KindBoolean
	KindFunction = types.KindFunction
	KindMethod   = types.KindMethod
	KindJSON     = types.KindJSON
)

// Host surface types.
type (
	// Document owns the turn queue and constructs elements
	Document = host.Document
	// Element is one host element instance
	Element = host.Element
	// CustomEvent is the payload dispatched on an element
	CustomEvent = host.CustomEvent
	// Listener handles a dispatched event
	Listener = host.Listener
)

// Logging surface.
type (
	// Logger is the structured logger bridge internals log through
	Logger = logging.Logger
	// LoggerConfig configures a NewLogger
	LoggerConfig = logging.LoggerConfig
	// LogLevel selects the minimum level a logger emits
	LogLevel = logging.LogLevel
)

// Log levels accepted by LoggerConfig.
const (
	LevelDebug = logging.LevelDebug
	LevelInfo  = logging.LevelInfo
	LevelWarn  = logging.LevelWarn
	LevelError = logging.LevelError
)

// ElementClass is the shared product of Define; its NewElement constructs
// instances satisfying the custom-element lifecycle contract.
type ElementClass = bridge.ElementClass

// Option configures an element class at definition time.
type Option = bridge.Option

// FunctionRegistry is the lookup scope function-kind props resolve through.
type FunctionRegistry = funcregistry.Registry

// Error taxonomy.
type (
	// ConfigurationError is fatal at definition time
	ConfigurationError = werrors.ConfigurationError
	// CoercionError reports a bad attribute value, non-fatally
	CoercionError = werrors.CoercionError
	// UnresolvedCallableError reports a missing function-registry key
	UnresolvedCallableError = werrors.UnresolvedCallableError
	// RenderError wraps a wrapped-component failure
	RenderError = werrors.RenderError
	// DiagnosticCollector receives non-fatal diagnostics
	DiagnosticCollector = werrors.DiagnosticCollector
)

// Define validates def and assembles an element class.
func Define(def DefinitionInfo, opts ...Option) (*ElementClass, error) {
	return bridge.Define(def, opts...)
}

// WithFunctionRegistry injects the lookup scope for function-kind props.
func WithFunctionRegistry(r *FunctionRegistry) Option {
	return bridge.WithFunctionRegistry(r)
}

// WithLogger injects a structured logger.
func WithLogger(l Logger) Option {
	return bridge.WithLogger(l)
}

// NewLogger creates a slog-backed structured logger. A nil config uses the
// defaults (info level, text format, stdout).
func NewLogger(config *LoggerConfig) Logger {
	return logging.NewLogger(config)
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return logging.Nop()
}

// WithDiagnostics injects the diagnostic collector.
func WithDiagnostics(d *DiagnosticCollector) Option {
	return bridge.WithDiagnostics(d)
}

// NewDocument creates an empty host document.
func NewDocument() *Document {
	return host.NewDocument()
}

// NewFunctionRegistry creates an isolated function registry.
func NewFunctionRegistry() *FunctionRegistry {
	return funcregistry.NewRegistry()
}

// DefaultFunctionRegistry returns the process-wide registry used when no
// explicit one is injected.
func DefaultFunctionRegistry() *FunctionRegistry {
	return funcregistry.Default()
}

// NewDiagnosticCollector creates an empty diagnostic collector.
func NewDiagnosticCollector() *DiagnosticCollector {
	return werrors.NewDiagnosticCollector()
}
