// Package catalog loads the ordered item list a session plays through.
// The list is read once at startup and treated as immutable afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"priceparty/internal/domain"
)

//go:embed items.yaml
var defaultItems []byte

// file is the on-disk shape of a catalog
type file struct {
	Items []domain.Item `yaml:"items"`
}

// Load reads a catalog from the given YAML file. An empty path loads the
// embedded default catalog.
func Load(path string) ([]domain.Item, error) {
	data := defaultItems
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}
	return parse(data)
}

// parse decodes and validates catalog bytes
func parse(data []byte) ([]domain.Item, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if len(f.Items) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(f.Items))
	for i, item := range f.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog item %d: missing id", i)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("catalog item %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.Name == "" {
			return nil, fmt.Errorf("catalog item %q: missing name", item.ID)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("catalog item %q: negative price", item.ID)
		}
	}

	return f.Items, nil
}
