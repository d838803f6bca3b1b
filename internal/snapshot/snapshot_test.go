package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/weld/internal/types"
)

func snapshotSpecs() []types.PropSpec {
	return []types.PropSpec{
		{Name: "name", AttributeName: "name", Kind: types.KindString},
		{Name: "count", AttributeName: "count", Kind: types.KindNumber},
		{Name: "items", AttributeName: "items", Kind: types.KindJSON},
		{Name: "onSave", AttributeName: "on-save", Kind: types.KindFunction},
		{Name: "format", AttributeName: "format", Kind: types.KindMethod},
	}
}

func TestCapture(t *testing.T) {
	state := map[string]any{
		"name":   "Ada",
		"count":  float64(3),
		"onSave": "handlers.save",
		"format": types.Callable(func(args ...any) any { return nil }),
	}
	get := func(name string) (any, bool) {
		v, ok := state[name]
		return v, ok
	}

	snap := Capture("x-widget", snapshotSpecs(), get)

	assert.Equal(t, "x-widget", snap.Tag)
	assert.Equal(t, "Ada", snap.Props["name"])
	assert.Equal(t, float64(3), snap.Props["count"])
	// Unset props are absent, not nil entries
	assert.NotContains(t, snap.Props, "items")
	// Function-kind props travel as lookup keys
	assert.Equal(t, "handlers.save", snap.FuncKeys["onSave"])
	// Live method references have no serialized form
	assert.NotContains(t, snap.Props, "format")
	assert.NotContains(t, snap.FuncKeys, "format")
}

func TestApply(t *testing.T) {
	snap := ElementSnapshot{
		Tag:      "x-widget",
		Props:    map[string]any{"name": "Ada", "count": float64(3), "ghost": "dropped"},
		FuncKeys: map[string]string{"onSave": "handlers.save"},
	}

	written := map[string]any{}
	set := func(name string, value any) error {
		written[name] = value
		return nil
	}

	require.NoError(t, Apply(snap, snapshotSpecs(), set))
	assert.Equal(t, "Ada", written["name"])
	assert.Equal(t, float64(3), written["count"])
	assert.Equal(t, "handlers.save", written["onSave"])
	// Props the current definition no longer declares are skipped
	assert.NotContains(t, written, "ghost")
}

func TestEncodeDecode(t *testing.T) {
	snap := Capture("x-widget", snapshotSpecs(), func(name string) (any, bool) {
		switch name {
		case "name":
			return "Ada", true
		case "count":
			return float64(7), true
		case "items":
			return []any{"a", float64(1)}, true
		case "onSave":
			return "save", true
		default:
			return nil, false
		}
	})

	data, err := Encode(snap)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "x-widget", decoded.Tag)
	assert.Equal(t, "Ada", decoded.Props["name"])
	assert.Equal(t, "save", decoded.FuncKeys["onSave"])
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("not msgpack at all"))
	assert.Error(t, err)
}

func TestCaptureApply_RoundTripThroughWire(t *testing.T) {
	original := map[string]any{"name": "Bea", "count": float64(9)}
	snap := Capture("x-widget", snapshotSpecs(), func(name string) (any, bool) {
		v, ok := original[name]
		return v, ok
	})

	data, err := Encode(snap)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	restored := map[string]any{}
	require.NoError(t, Apply(decoded, snapshotSpecs(), func(name string, value any) error {
		restored[name] = value
		return nil
	}))
	assert.Equal(t, "Bea", restored["name"])
	// msgpack may deliver numbers back as integers; the property setter's
	// numeric normalization absorbs either form
	assert.EqualValues(t, 9, restored["count"])
}
