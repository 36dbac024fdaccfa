// Package catalog loads the static product and routine catalog.
// The catalog is read once at startup and is immutable afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lumina/glow-platform/internal/domain"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Catalog holds the static set of products and routines available for scoring.
type Catalog struct {
	Products []domain.Product `yaml:"products"`
	Routines []domain.Routine `yaml:"routines"`
}

// Load reads a catalog from the given YAML file. An empty path loads the
// embedded default catalog.
func Load(path string) (*Catalog, error) {
	data := defaultCatalogYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file: %w", err)
		}
		data = b
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Products)+len(c.Routines))
	for _, p := range c.Products {
		if p.ID == "" {
			return fmt.Errorf("catalog product %q has no id", p.Name)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate catalog id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Rating < 0 || p.Rating > 5 {
			return fmt.Errorf("catalog product %q rating %.1f out of range", p.Name, p.Rating)
		}
	}
	for _, r := range c.Routines {
		if r.ID == "" {
			return fmt.Errorf("catalog routine %q has no id", r.Name)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate catalog id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
