package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/types"
)

// Manifest declares a set of bridged elements in YAML form:
//
//	elements:
//	  - tag: weld-greeting
//	    component: greeting
//	    props:
//	      name: string
//	      excited: boolean
//	    defaults:
//	      name: world
//	    events:
//	      - syncRequest
type Manifest struct {
	Elements []ManifestElement `yaml:"elements"`
}

// ManifestElement is one element declaration. Component names are resolved
// against a caller-supplied component table; the manifest itself never
// carries code.
type ManifestElement struct {
	Tag       string            `yaml:"tag"`
	Component string            `yaml:"component"`
	Props     map[string]string `yaml:"props"`
	Defaults  map[string]any    `yaml:"defaults"`
	Events    []string          `yaml:"events"`
}

// LoadManifest parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Definition resolves one manifest element into a DefinitionInfo using the
// supplied component table. Unrecognized kind strings and unknown component
// names are configuration-time errors.
func (me ManifestElement) Definition(components map[string]types.Renderable) (types.DefinitionInfo, error) {
	component, ok := components[me.Component]
	if !ok {
		return types.DefinitionInfo{}, &werrors.ConfigurationError{
			Tag:     me.Tag,
			Message: fmt.Sprintf("unknown component %q", me.Component),
		}
	}

	props := make(map[string]types.PropKind, len(me.Props))
	for name, kind := range me.Props {
		pk := types.PropKind(kind)
		if !pk.Valid() {
			return types.DefinitionInfo{}, &werrors.ConfigurationError{
				Tag:     me.Tag,
				Field:   name,
				Message: fmt.Sprintf("unrecognized prop kind %q", kind),
			}
		}
		props[name] = pk
	}

	return types.DefinitionInfo{
		Tag:       me.Tag,
		Props:     props,
		Defaults:  me.Defaults,
		Events:    me.Events,
		Component: component,
	}, nil
}
