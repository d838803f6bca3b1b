// Package coerce converts between raw attribute strings and typed prop
// values, and owns the camelCase/kebab-case name mapping between props and
// attributes.
//
// Coercion never panics across the bridge boundary: every failure is
// returned as a *errors.CoercionError so the attribute bridge can keep the
// previous valid value in place and surface a diagnostic instead.
package coerce

import (
	"encoding/json"
	"fmt"
	"strconv"

	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/types"
)

// Coerce converts a raw attribute string into a typed PropValue per the
// declared kind. The prop name is carried only for diagnostics.
func Coerce(kind types.PropKind, prop, raw string) (types.PropValue, error) {
	switch kind {
	case types.KindString:
		return types.PropValue{Kind: kind, Present: true, Str: raw}, nil

	case types.KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.PropValue{}, &werrors.CoercionError{
				Code: werrors.CoercionInvalidNumber,
				Prop: prop,
				Raw:  raw,
				Err:  err,
			}
		}
		return types.PropValue{Kind: kind, Present: true, Num: n}, nil

	case types.KindBoolean:
		switch raw {
		case "true":
			return types.PropValue{Kind: kind, Present: true, Bool: true}, nil
		case "false":
			return types.PropValue{Kind: kind, Present: true, Bool: false}, nil
		default:
			return types.PropValue{}, &werrors.CoercionError{
				Code: werrors.CoercionInvalidBoolean,
				Prop: prop,
				Raw:  raw,
			}
		}

	case types.KindJSON:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return types.PropValue{}, &werrors.CoercionError{
				Code: werrors.CoercionInvalidJSON,
				Prop: prop,
				Raw:  raw,
				Err:  err,
			}
		}
		return types.PropValue{Kind: kind, Present: true, JSON: v}, nil

	case types.KindFunction:
		// The raw string is a lookup key, not a value. Resolution into a
		// callable is deferred to invocation time; only non-emptiness is
		// validated here.
		if raw == "" {
			return types.PropValue{}, &werrors.CoercionError{
				Code: werrors.CoercionEmptyFunctionKey,
				Prop: prop,
				Raw:  raw,
			}
		}
		return types.PropValue{Kind: kind, Present: true, FuncKey: raw}, nil

	case types.KindMethod:
		// Method props hold live callable references and cannot travel
		// through an attribute string.
		return types.PropValue{}, &werrors.CoercionError{
			Code: werrors.CoercionUnsupportedForAttribute,
			Prop: prop,
			Raw:  raw,
		}

	default:
		return types.PropValue{}, &werrors.CoercionError{
			Code: werrors.CoercionInvalidProperty,
			Prop: prop,
			Raw:  raw,
			Err:  fmt.Errorf("unrecognized kind %q", kind),
		}
	}
}

// FromNative wraps an already-typed property write into a PropValue without
// any string coercion. Properties are pre-typed by contract; numeric inputs
// are normalized to float64 so attribute and property writes of the same
// logical value compare equal.
func FromNative(kind types.PropKind, prop string, value any) (types.PropValue, error) {
	if value == nil {
		return types.PropValue{Kind: kind}, nil
	}
	fail := func() (types.PropValue, error) {
		return types.PropValue{}, &werrors.CoercionError{
			Code: werrors.CoercionInvalidProperty,
			Prop: prop,
			Raw:  fmt.Sprintf("%v", value),
			Err:  fmt.Errorf("value %T does not match kind %q", value, kind),
		}
	}
	switch kind {
	case types.KindString:
		s, ok := value.(string)
		if !ok {
			return fail()
		}
		return types.PropValue{Kind: kind, Present: true, Str: s}, nil

	case types.KindNumber:
		switch n := value.(type) {
		case float64:
			return types.PropValue{Kind: kind, Present: true, Num: n}, nil
		case float32:
			return types.PropValue{Kind: kind, Present: true, Num: float64(n)}, nil
		case int:
			return types.PropValue{Kind: kind, Present: true, Num: float64(n)}, nil
		case int32:
			return types.PropValue{Kind: kind, Present: true, Num: float64(n)}, nil
		case int64:
			return types.PropValue{Kind: kind, Present: true, Num: float64(n)}, nil
		case uint64:
			return types.PropValue{Kind: kind, Present: true, Num: float64(n)}, nil
		default:
			return fail()
		}

	case types.KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return fail()
		}
		return types.PropValue{Kind: kind, Present: true, Bool: b}, nil

	case types.KindJSON:
		return types.PropValue{Kind: kind, Present: true, JSON: value}, nil

	case types.KindFunction:
		s, ok := value.(string)
		if !ok || s == "" {
			return fail()
		}
		return types.PropValue{Kind: kind, Present: true, FuncKey: s}, nil

	case types.KindMethod:
		c, ok := value.(types.Callable)
		if !ok {
			if f, ok := value.(func(args ...any) any); ok {
				c = types.Callable(f)
			} else {
				return fail()
			}
		}
		return types.PropValue{Kind: kind, Present: true, Method: c}, nil

	default:
		return fail()
	}
}

// Stringify renders a PropValue back into its attribute string form for the
// round-trippable kinds (string, number, boolean, json, function). Method
// values have no attribute form.
func Stringify(v types.PropValue) (string, error) {
	if !v.Present {
		return "", fmt.Errorf("cannot stringify unset value")
	}
	switch v.Kind {
	case types.KindString:
		return v.Str, nil
	case types.KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64), nil
	case types.KindBoolean:
		return strconv.FormatBool(v.Bool), nil
	case types.KindJSON:
		data, err := json.Marshal(v.JSON)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case types.KindFunction:
		return v.FuncKey, nil
	default:
		return "", fmt.Errorf("kind %q has no attribute form", v.Kind)
	}
}
