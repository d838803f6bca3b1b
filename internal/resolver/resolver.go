// Package resolver turns callable-kind prop values into invokers the wrapped
// component can call. Resolution happens at the moment of invocation, not at
// prop-set time: the referenced function may be registered after the
// attribute is first applied, and the separation lets function-kind props
// survive serialization through an attribute string while method-kind props
// stay live references.
package resolver

import (
	"context"

	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/funcregistry"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/types"
)

// Resolver binds callable props for one element instance.
type Resolver struct {
	registry *funcregistry.Registry
	diags    *werrors.DiagnosticCollector
	logger   logging.Logger
	tag      string
}

// New creates a resolver for an element of the given tag.
func New(tag string, registry *funcregistry.Registry, diags *werrors.DiagnosticCollector, logger logging.Logger) *Resolver {
	if registry == nil {
		registry = funcregistry.Default()
	}
	return &Resolver{
		registry: registry,
		diags:    diags,
		logger:   logger,
		tag:      tag,
	}
}

// Bind wraps pv into an invoker for the prop bag. recv is the host element
// instance; function-kind callables receive it as their bound receiver,
// method-kind callables are invoked exactly as stored.
//
// Invoking the returned callable never re-parses the stored reference: only
// a change to the attribute or property holding it does that.
func (r *Resolver) Bind(spec types.PropSpec, pv types.PropValue, recv any) types.Callable {
	switch spec.Kind {
	case types.KindFunction:
		key := pv.FuncKey
		return func(args ...any) any {
			fn, ok := r.registry.Resolve(key)
			if !ok {
				// Missing key degrades to a no-op invocation, not a render
				// failure.
				err := &werrors.UnresolvedCallableError{Prop: spec.Name, Key: key}
				if r.diags != nil {
					r.diags.Report(r.tag, spec.Name, err)
				}
				if r.logger != nil {
					r.logger.Warn(context.Background(), err, "callable key unresolved",
						"prop", spec.Name, "key", key)
				}
				return nil
			}
			return fn(recv, args...)
		}

	case types.KindMethod:
		method := pv.Method
		return func(args ...any) any {
			if method == nil {
				return nil
			}
			return method(args...)
		}

	default:
		return nil
	}
}
