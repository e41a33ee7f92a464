// Package catalog holds the table templates offered when adding a table.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"floorplan/internal/domain"
)

// Catalog is an immutable set of templates keyed by name.
type Catalog struct {
	templates map[string]domain.TableTemplate
}

// Defaults mirrors the templates the floor-plan editor ships with.
var Defaults = []domain.TableTemplate{
	{Name: "two-top", Capacity: 2, Shape: domain.ShapeCircle, DefaultWidth: 80, DefaultHeight: 80},
	{Name: "four-top", Capacity: 4, Shape: domain.ShapeSquare, DefaultWidth: 90, DefaultHeight: 90},
	{Name: "six-top", Capacity: 6, Shape: domain.ShapeRectangle, DefaultWidth: 160, DefaultHeight: 90},
	{Name: "eight-top", Capacity: 8, Shape: domain.ShapeOval, DefaultWidth: 180, DefaultHeight: 110},
}

// New builds a catalog, rejecting invalid or duplicate templates.
func New(templates []domain.TableTemplate) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]domain.TableTemplate, len(templates))}
	for _, t := range templates {
		if err := validate(t); err != nil {
			return nil, err
		}
		key := strings.ToLower(t.Name)
		if _, dup := c.templates[key]; dup {
			return nil, fmt.Errorf("duplicate template %q", t.Name)
		}
		c.templates[key] = t
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(Defaults)
	if err != nil {
		panic(err)
	}
	return c
}

// file is the on-disk layout: one [[template]] table per entry.
type file struct {
	Templates []domain.TableTemplate `toml:"template"`
}

// Load reads templates from a TOML file. An empty path yields the defaults.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(f.Templates) == 0 {
		return nil, fmt.Errorf("catalog %s defines no templates", path)
	}
	return New(f.Templates)
}

// Lookup finds a template by case-insensitive name.
func (c *Catalog) Lookup(name string) (domain.TableTemplate, error) {
	t, ok := c.templates[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.TableTemplate{}, fmt.Errorf("template %q: %w", name, domain.ErrNotFound)
	}
	return t, nil
}

// List returns templates ordered by capacity, then name.
func (c *Catalog) List() []domain.TableTemplate {
	out := make([]domain.TableTemplate, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func validate(t domain.TableTemplate) error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return fmt.Errorf("template name is required: %w", domain.ErrInvalidTable)
	case !t.Shape.Valid():
		return fmt.Errorf("template %q: unknown shape %q: %w", t.Name, t.Shape, domain.ErrInvalidTable)
	case t.Capacity <= 0:
		return fmt.Errorf("template %q: capacity must be positive: %w", t.Name, domain.ErrInvalidTable)
	case t.DefaultWidth <= 0 || t.DefaultHeight <= 0:
		return fmt.Errorf("template %q: size must be positive: %w", t.Name, domain.ErrInvalidTable)
	}
	return nil
}
