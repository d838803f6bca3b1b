// Package bridge assembles the attribute/property-to-component runtime: it
// validates an element definition, derives the attribute and event surfaces,
// and produces an element class whose instances satisfy the custom-element
// constructor and lifecycle-callback contract.
//
// The wrapped component is an external collaborator. The bridge calls only
// Mount, Update and Unmount on it and never inspects its internals.
package bridge

import (
	"fmt"
	"sort"

	"github.com/conneroisu/weld/internal/attrsync"
	"github.com/conneroisu/weld/internal/coerce"
	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/eventbridge"
	"github.com/conneroisu/weld/internal/funcregistry"
	"github.com/conneroisu/weld/internal/host"
	"github.com/conneroisu/weld/internal/lifecycle"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/propstore"
	"github.com/conneroisu/weld/internal/resolver"
	"github.com/conneroisu/weld/internal/scheduler"
	"github.com/conneroisu/weld/internal/types"
)

// Option configures an element class at definition time.
type Option func(*ElementClass)

// WithFunctionRegistry injects the lookup scope function-kind props resolve
// through. Defaults to the process-wide registry.
func WithFunctionRegistry(r *funcregistry.Registry) Option {
	return func(c *ElementClass) { c.registry = r }
}

// WithLogger injects the structured logger bridge internals log through.
func WithLogger(l logging.Logger) Option {
	return func(c *ElementClass) { c.logger = l }
}

// WithDiagnostics injects the collector non-fatal errors report to.
func WithDiagnostics(d *werrors.DiagnosticCollector) Option {
	return func(c *ElementClass) { c.diags = d }
}

// ElementClass is one defined bridged element: the shared, immutable product
// of Define. PropSpecs and EventSpecs are read-only across all instances.
type ElementClass struct {
	def      types.DefinitionInfo
	specs    []types.PropSpec
	events   []types.EventSpec
	observed []string

	registry *funcregistry.Registry
	logger   logging.Logger
	diags    *werrors.DiagnosticCollector
}

// Define validates def and assembles an element class. Configuration errors
// (unknown prop kind, malformed prop name, missing component, empty event
// name) are fatal and fail the whole definition synchronously.
func Define(def types.DefinitionInfo, opts ...Option) (*ElementClass, error) {
	if def.Tag == "" {
		return nil, &werrors.ConfigurationError{Tag: def.Tag, Message: "element tag must not be empty"}
	}
	if def.Component == nil {
		return nil, &werrors.ConfigurationError{Tag: def.Tag, Message: "wrapped component must not be nil"}
	}

	names := make([]string, 0, len(def.Props))
	for name := range def.Props {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]types.PropSpec, 0, len(names))
	seenAttrs := make(map[string]string, len(names))
	for _, name := range names {
		kind := def.Props[name]
		if !kind.Valid() {
			return nil, &werrors.ConfigurationError{
				Tag:     def.Tag,
				Field:   name,
				Message: fmt.Sprintf("unrecognized prop kind %q", kind),
			}
		}
		if !coerce.ValidPropName(name) {
			return nil, &werrors.ConfigurationError{
				Tag:     def.Tag,
				Field:   name,
				Message: "prop name must be a camelCase identifier",
			}
		}
		attr := coerce.AttributeName(name)
		if prev, dup := seenAttrs[attr]; dup {
			return nil, &werrors.ConfigurationError{
				Tag:     def.Tag,
				Field:   name,
				Message: fmt.Sprintf("attribute %q collides with prop %q", attr, prev),
			}
		}
		seenAttrs[attr] = name

		spec := types.PropSpec{
			Name:          name,
			AttributeName: attr,
			Kind:          kind,
		}
		if def.Defaults != nil {
			if dv, ok := def.Defaults[name]; ok {
				if _, err := coerce.FromNative(kind, name, dv); err != nil {
					return nil, &werrors.ConfigurationError{
						Tag:     def.Tag,
						Field:   name,
						Message: fmt.Sprintf("default value does not match kind %q", kind),
					}
				}
				spec.Default = dv
			}
		}
		specs = append(specs, spec)
	}

	for _, ev := range def.Events {
		if ev == "" {
			return nil, &werrors.ConfigurationError{Tag: def.Tag, Message: "event name must not be empty"}
		}
	}

	c := &ElementClass{
		def:      def,
		specs:    specs,
		events:   eventbridge.DeriveAll(def.Events),
		observed: attrsync.ObservedAttributes(specs),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = funcregistry.Default()
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	if c.diags == nil {
		c.diags = werrors.NewDiagnosticCollector()
	}
	return c, nil
}

// Tag returns the element tag this class defines.
func (c *ElementClass) Tag() string { return c.def.Tag }

// PropSpecs returns the shared prop specs.
func (c *ElementClass) PropSpecs() []types.PropSpec { return c.specs }

// EventSpecs returns the derived event specs.
func (c *ElementClass) EventSpecs() []types.EventSpec { return c.events }

// ObservedAttributes returns the attribute names instances observe, the
// observedAttributes half of the custom-element contract.
func (c *ElementClass) ObservedAttributes() []string { return c.observed }

// Diagnostics returns the class's diagnostic collector.
func (c *ElementClass) Diagnostics() *werrors.DiagnosticCollector { return c.diags }

// NewElement constructs one element instance in doc. The returned element is
// Unattached: prop and attribute writes buffer into its state, and the first
// Connect mounts the wrapped component.
func (c *ElementClass) NewElement(doc *host.Document) *host.Element {
	el := doc.NewElement(c.def.Tag)
	logger := c.logger.WithElement(c.def.Tag)

	store := propstore.NewStore(c.specs)
	events := eventbridge.New(el, c.events)
	res := resolver.New(c.def.Tag, c.registry, c.diags, logger)
	sched := scheduler.New(c.def.Tag, doc, store, c.def.Component, el.Container(), events, res, el, logger)
	attrs := attrsync.New(c.def.Tag, c.specs, store, sched, c.diags, logger)
	ctl := lifecycle.New(store, sched, attrs, events, logger)

	el.ObserveAttributes(c.observed)
	el.SetCallbacks(host.Callbacks{
		Connected:        ctl.Connected,
		Disconnected:     ctl.Disconnected,
		AttributeChanged: ctl.AttributeChanged,
	})

	for _, spec := range c.specs {
		name := spec.Name
		el.DefineProperty(name, host.Accessor{
			Get: func() any {
				v, _ := store.Get(name)
				return v
			},
			Set: func(value any) error {
				// Property writes are pre-typed and never round-trip through
				// the attribute.
				return store.Set(name, value)
			},
		})
	}

	return el
}
