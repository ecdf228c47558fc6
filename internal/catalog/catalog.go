// Package catalog loads the product catalog used to ground opportunity
// recommendations in real product names and capabilities.
package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Product is one catalog entry.
type Product struct {
	Name            string   `json:"name" yaml:"name"`
	Category        string   `json:"category" yaml:"category"`
	ValueStatement  string   `json:"value_statement" yaml:"value_statement"`
	KeyCapabilities []string `json:"key_capabilities" yaml:"key_capabilities"`
}

// Catalog is the loaded product list.
type Catalog struct {
	Products []Product `json:"products" yaml:"products"`
}

// Load reads a catalog file. Both JSON and YAML are accepted; JSON is a
// subset of YAML so a single decoder covers both. A missing file is an
// error the caller may treat as "run without a catalog".
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: reading %s", path)
	}

	var cat Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, eris.Wrapf(err, "catalog: parsing %s", path)
	}

	// Some catalog exports are a bare product array rather than a wrapped
	// document.
	if len(cat.Products) == 0 {
		var bare []Product
		if err := yaml.Unmarshal(raw, &bare); err == nil && len(bare) > 0 {
			cat.Products = bare
		}
	}

	if len(cat.Products) == 0 {
		return nil, eris.Errorf("catalog: no products found in %s", path)
	}
	return &cat, nil
}

// Names returns product names, capped at limit when limit > 0.
func (c *Catalog) Names(limit int) []string {
	names := make([]string, 0, len(c.Products))
	for _, p := range c.Products {
		names = append(names, p.Name)
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

// Top returns up to limit products for prompt context.
func (c *Catalog) Top(limit int) []Product {
	if limit <= 0 || len(c.Products) <= limit {
		return c.Products
	}
	return c.Products[:limit]
}
