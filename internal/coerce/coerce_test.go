package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/types"
)

func TestCoerce_String(t *testing.T) {
	pv, err := Coerce(types.KindString, "name", "Ada")
	require.NoError(t, err)
	assert.True(t, pv.Present)
	assert.Equal(t, "Ada", pv.Str)

	// Empty string is a valid string value, not an unset prop
	pv, err = Coerce(types.KindString, "name", "")
	require.NoError(t, err)
	assert.True(t, pv.Present)
	assert.Equal(t, "", pv.Str)
}

func TestCoerce_Number(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"42", 42, false},
		{"3.5", 3.5, false},
		{"-0.25", -0.25, false},
		{"1e3", 1000, false},
		{"abc", 0, true},
		{"", 0, true},
		{"12px", 0, true},
	}

	for _, tt := range tests {
		pv, err := Coerce(types.KindNumber, "count", tt.raw)
		if tt.wantErr {
			require.Error(t, err, "raw %q", tt.raw)
			var ce *werrors.CoercionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, werrors.CoercionInvalidNumber, ce.Code)
			assert.Equal(t, "count", ce.Prop)
			assert.Equal(t, tt.raw, ce.Raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, pv.Num)
	}
}

func TestCoerce_Boolean(t *testing.T) {
	pv, err := Coerce(types.KindBoolean, "enabled", "true")
	require.NoError(t, err)
	assert.True(t, pv.Bool)

	pv, err = Coerce(types.KindBoolean, "enabled", "false")
	require.NoError(t, err)
	assert.False(t, pv.Bool)

	// Only the exact literals pass; presence-style booleans are rejected
	for _, raw := range []string{"", "TRUE", "1", "yes", " true"} {
		_, err := Coerce(types.KindBoolean, "enabled", raw)
		require.Error(t, err, "raw %q", raw)
		var ce *werrors.CoercionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, werrors.CoercionInvalidBoolean, ce.Code)
	}
}

func TestCoerce_JSON(t *testing.T) {
	pv, err := Coerce(types.KindJSON, "items", `[1, 2, "x"]`)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), "x"}, pv.JSON)

	pv, err = Coerce(types.KindJSON, "options", `{"depth": 3}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"depth": float64(3)}, pv.JSON)

	// Scalars are valid top-level JSON values
	pv, err = Coerce(types.KindJSON, "flag", `null`)
	require.NoError(t, err)
	assert.True(t, pv.Present)
	assert.Nil(t, pv.JSON)

	_, err = Coerce(types.KindJSON, "items", `{broken`)
	require.Error(t, err)
	var ce *werrors.CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, werrors.CoercionInvalidJSON, ce.Code)
	// Parser diagnostic is preserved underneath
	assert.Error(t, ce.Unwrap())
}

func TestCoerce_Function(t *testing.T) {
	// The raw string is stored as a lookup key, unresolved
	pv, err := Coerce(types.KindFunction, "onSave", "api.handlers.save")
	require.NoError(t, err)
	assert.Equal(t, "api.handlers.save", pv.FuncKey)

	_, err = Coerce(types.KindFunction, "onSave", "")
	require.Error(t, err)
	var ce *werrors.CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, werrors.CoercionEmptyFunctionKey, ce.Code)
}

func TestCoerce_MethodRejected(t *testing.T) {
	_, err := Coerce(types.KindMethod, "format", "anything")
	require.Error(t, err)
	var ce *werrors.CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, werrors.CoercionUnsupportedForAttribute, ce.Code)
}

func TestFromNative_NumericNormalization(t *testing.T) {
	// Every accepted numeric representation lands as float64
	for _, value := range []any{42, int32(42), int64(42), float32(42), float64(42), uint64(42)} {
		pv, err := FromNative(types.KindNumber, "count", value)
		require.NoError(t, err, "%T", value)
		assert.Equal(t, float64(42), pv.Num, "%T", value)
	}

	_, err := FromNative(types.KindNumber, "count", "42")
	require.Error(t, err)
}

func TestFromNative_KindMismatch(t *testing.T) {
	tests := []struct {
		kind  types.PropKind
		value any
	}{
		{types.KindString, 7},
		{types.KindBoolean, "true"},
		{types.KindFunction, 3},
		{types.KindFunction, ""},
		{types.KindMethod, "not callable"},
	}
	for _, tt := range tests {
		_, err := FromNative(tt.kind, "p", tt.value)
		require.Error(t, err, "kind %s value %v", tt.kind, tt.value)
		var ce *werrors.CoercionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, werrors.CoercionInvalidProperty, ce.Code)
	}
}

func TestFromNative_Method(t *testing.T) {
	called := false
	pv, err := FromNative(types.KindMethod, "format", types.Callable(func(args ...any) any {
		called = true
		return "ok"
	}))
	require.NoError(t, err)
	require.NotNil(t, pv.Method)
	assert.Equal(t, "ok", pv.Method())
	assert.True(t, called)

	// Bare func values of the right shape are accepted too
	pv, err = FromNative(types.KindMethod, "format", func(args ...any) any { return nil })
	require.NoError(t, err)
	assert.NotNil(t, pv.Method)
}

func TestFromNative_NilClears(t *testing.T) {
	pv, err := FromNative(types.KindString, "name", nil)
	require.NoError(t, err)
	assert.False(t, pv.Present)
}

func TestStringify_RoundTrip(t *testing.T) {
	tests := []struct {
		kind types.PropKind
		raw  string
	}{
		{types.KindString, "hello world"},
		{types.KindNumber, "42"},
		{types.KindNumber, "3.5"},
		{types.KindBoolean, "true"},
		{types.KindBoolean, "false"},
		{types.KindJSON, `["a",1]`},
		{types.KindFunction, "handlers.save"},
	}
	for _, tt := range tests {
		pv, err := Coerce(tt.kind, "p", tt.raw)
		require.NoError(t, err)
		got, err := Stringify(pv)
		require.NoError(t, err)
		assert.Equal(t, tt.raw, got, "kind %s", tt.kind)
	}
}

func TestStringify_NoAttributeForm(t *testing.T) {
	pv, err := FromNative(types.KindMethod, "format", types.Callable(func(args ...any) any { return nil }))
	require.NoError(t, err)
	_, err = Stringify(pv)
	assert.Error(t, err)

	_, err = Stringify(types.PropValue{Kind: types.KindString})
	assert.Error(t, err)
}
