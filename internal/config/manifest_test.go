package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/types"
)

type stubComponent struct{}

func (stubComponent) Mount(c types.Container, props types.Props) (types.Handle, error) {
	return struct{}{}, nil
}
func (stubComponent) Update(h types.Handle, props types.Props) error { return nil }
func (stubComponent) Unmount(h types.Handle) error                  { return nil }

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elements.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
elements:
  - tag: weld-greeting
    component: greeting
    props:
      name: string
      excited: boolean
    defaults:
      name: world
    events:
      - syncRequest
  - tag: weld-counter
    component: counter
    props:
      start: number
`)

	manifest, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, manifest.Elements, 2)

	first := manifest.Elements[0]
	assert.Equal(t, "weld-greeting", first.Tag)
	assert.Equal(t, "greeting", first.Component)
	assert.Equal(t, "string", first.Props["name"])
	assert.Equal(t, "world", first.Defaults["name"])
	assert.Equal(t, []string{"syncRequest"}, first.Events)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest("/nonexistent/elements.yml")
	assert.Error(t, err)
}

func TestLoadManifest_BadYAML(t *testing.T) {
	path := writeManifest(t, "elements: [broken")
	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestManifestElement_Definition(t *testing.T) {
	me := ManifestElement{
		Tag:       "weld-greeting",
		Component: "greeting",
		Props:     map[string]string{"name": "string", "onSave": "function"},
		Defaults:  map[string]any{"name": "world"},
		Events:    []string{"syncRequest"},
	}
	table := map[string]types.Renderable{"greeting": stubComponent{}}

	def, err := me.Definition(table)
	require.NoError(t, err)
	assert.Equal(t, "weld-greeting", def.Tag)
	assert.Equal(t, types.KindString, def.Props["name"])
	assert.Equal(t, types.KindFunction, def.Props["onSave"])
	assert.Equal(t, "world", def.Defaults["name"])
	assert.NotNil(t, def.Component)
}

func TestManifestElement_UnknownComponent(t *testing.T) {
	me := ManifestElement{Tag: "weld-x", Component: "missing"}
	_, err := me.Definition(map[string]types.Renderable{})
	require.Error(t, err)
	var ce *werrors.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "weld-x", ce.Tag)
}

func TestManifestElement_UnknownKind(t *testing.T) {
	me := ManifestElement{
		Tag:       "weld-x",
		Component: "stub",
		Props:     map[string]string{"when": "datetime"},
	}
	_, err := me.Definition(map[string]types.Renderable{"stub": stubComponent{}})
	require.Error(t, err)
	var ce *werrors.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "when", ce.Field)
}
