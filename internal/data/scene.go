package data

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EntityDef describes one entity of a scene and, recursively, its children.
// Listeners maps an event name to the name of the callback that handles it;
// YAML rejects a repeated key, so an entity cannot list an event twice.
type EntityDef struct {
	Name      string            `yaml:"name"`
	HitPoints *uint16           `yaml:"hit_points,omitempty"`
	Armor     *uint16           `yaml:"armor,omitempty"`
	Listeners map[string]string `yaml:"listeners,omitempty"`
	Children  []EntityDef       `yaml:"children,omitempty"`
}

// Scene is a forest of entity definitions.
type Scene struct {
	Entities []EntityDef `yaml:"entities"`
}

// Count returns the number of entities in the scene, children included.
func (s *Scene) Count() int {
	n := 0
	s.Walk(func(*EntityDef, *EntityDef) { n++ })
	return n
}

// Walk visits every definition depth-first, parents before children.
// parent is nil for top-level entities.
func (s *Scene) Walk(fn func(def, parent *EntityDef)) {
	var walk func(defs []EntityDef, parent *EntityDef)
	walk = func(defs []EntityDef, parent *EntityDef) {
		for i := range defs {
			d := &defs[i]
			fn(d, parent)
			walk(d.Children, d)
		}
	}
	walk(s.Entities, nil)
}

func (s *Scene) validate() error {
	var errs []error
	s.Walk(func(d, parent *EntityDef) {
		if d.Name == "" {
			where := "top level"
			if parent != nil {
				where = "child of " + parent.Name
			}
			errs = append(errs, fmt.Errorf("entity without name (%s)", where))
		}
		for ev, cb := range d.Listeners {
			if cb == "" {
				errs = append(errs, fmt.Errorf("%s: empty callback for %q", d.Name, ev))
			}
		}
	})
	return errors.Join(errs...)
}

// ParseScene decodes a scene. Unknown fields are an error.
func ParseScene(raw []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return &s, nil
}

// LoadScene reads and parses a scene file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	s, err := ParseScene(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
