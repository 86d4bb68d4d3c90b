package config

import (
	"fmt"
	"os"
	"treatment-site-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// LoadCatalog returns the built-in site catalog, or the one described by the
// YAML file at path when path is non-empty.
//
//	types:
//	  - type: mosquito-breeding
//	    label: Mosquito breeding site
//	    sub_types: [Fountain, Canal]
//	    default_duration: {days: 15}
func LoadCatalog(path string) (domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: read %q: %w", path, err)
	}

	var c domain.Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: parse %q: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %q: %w", path, err)
	}
	return c, nil
}
