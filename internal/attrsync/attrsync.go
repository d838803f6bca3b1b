// Package attrsync observes attribute mutations on the host element and
// feeds them through the coercion engine into the prop store. Only
// attributes whose kebab-case name matches a declared PropSpec are observed;
// everything else is left to native semantics.
package attrsync

import (
	"context"

	"github.com/conneroisu/weld/internal/coerce"
	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/propstore"
	"github.com/conneroisu/weld/internal/types"
)

// RenderRequester is the slice of the scheduler the bridge needs.
type RenderRequester interface {
	ScheduleRender()
}

// Bridge routes observed attribute mutations for one element instance.
type Bridge struct {
	tag    string
	byAttr map[string]types.PropSpec
	store  *propstore.Store
	sched  RenderRequester
	diags  *werrors.DiagnosticCollector
	logger logging.Logger
}

// New creates an attribute bridge over the given specs.
func New(tag string, specs []types.PropSpec, store *propstore.Store, sched RenderRequester, diags *werrors.DiagnosticCollector, logger logging.Logger) *Bridge {
	byAttr := make(map[string]types.PropSpec, len(specs))
	for _, spec := range specs {
		byAttr[spec.AttributeName] = spec
	}
	return &Bridge{
		tag:    tag,
		byAttr: byAttr,
		store:  store,
		sched:  sched,
		diags:  diags,
		logger: logger,
	}
}

// ObservedAttributes returns the attribute names the element class observes.
func ObservedAttributes(specs []types.PropSpec) []string {
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		out = append(out, spec.AttributeName)
	}
	return out
}

// AttributeChanged handles one observed mutation. value is nil on removal.
//
// Removal reverts the prop to its declared default. A change coerces the new
// raw string exactly once; on success the value lands in the store directly
// (not through the property setter, avoiding a redundant notification loop)
// and a render is requested. On coercion failure the previous valid value
// stays in place, a diagnostic is surfaced, and rendering proceeds with the
// stale value.
func (b *Bridge) AttributeChanged(attr string, value *string) {
	spec, ok := b.byAttr[attr]
	if !ok {
		return
	}

	if value == nil {
		b.store.Revert(spec.Name)
		b.sched.ScheduleRender()
		return
	}

	pv, err := coerce.Coerce(spec.Kind, spec.Name, *value)
	if err != nil {
		b.diags.Report(b.tag, spec.Name, err)
		b.logger.Warn(context.Background(), err, "attribute coercion failed",
			"attribute", attr, "raw", *value)
		// Stale-but-valid policy: a failed coercion still batches with the
		// turn's other mutations, so the render sees prior state.
		b.sched.ScheduleRender()
		return
	}

	b.store.SetFromAttribute(spec.Name, pv)
	b.sched.ScheduleRender()
}
