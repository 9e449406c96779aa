// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/greenmap/internal/catalog"
)

const (
	defaultLanguage  = "it"
	defaultTolerance = 0.0002
)

// Config represents the root configuration file structure.
type Config struct {
	Language         string  `yaml:"language,omitempty"`
	InitialView      View    `yaml:"initial_view"`
	Layers           []Layer `yaml:"layers"`
	Catalog          Catalog `yaml:"catalog,omitempty"`
	PointerTolerance float64 `yaml:"pointer_tolerance,omitempty"`
}

// View is a map viewport: [min_lng, min_lat, max_lng, max_lat] plus zoom.
type View struct {
	BBox [4]float64 `yaml:"bbox"`
	Zoom float64    `yaml:"zoom"`
}

// Bound returns the viewport as an orb bound.
func (v View) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{v.BBox[0], v.BBox[1]},
		Max: orb.Point{v.BBox[2], v.BBox[3]},
	}
}

// Layer is one GeoJSON feature layer.
type Layer struct {
	Name    string  `yaml:"name"`
	File    string  `yaml:"file"`
	MinZoom float64 `yaml:"minzoom,omitempty"`
	MaxZoom float64 `yaml:"maxzoom,omitempty"`
}

// Catalog configures the searchable area list.
type Catalog struct {
	// Layers feeding the catalog, every layer when empty.
	Layers []string        `yaml:"layers,omitempty"`
	Seed   catalog.Backoff `yaml:"seed,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Layers))
	for i, l := range c.Layers {
		if l.Name == "" {
			return fmt.Errorf("layer %d: name is required", i)
		}
		if l.File == "" {
			return fmt.Errorf("layer %s: file is required", l.Name)
		}
		if seen[l.Name] {
			return fmt.Errorf("layer %s: duplicate name", l.Name)
		}
		seen[l.Name] = true
	}

	for _, name := range c.Catalog.Layers {
		if !seen[name] {
			return fmt.Errorf("catalog layer %s is not defined", name)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = defaultLanguage
	}
	if c.PointerTolerance <= 0 {
		c.PointerTolerance = defaultTolerance
	}
}
