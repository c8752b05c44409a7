// Package catalog loads the declarative closet tables (limits, assets, unit
// types, layouts and families) from YAML, TOML or JSON.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
)

//go:embed default.yaml
var defaultYAML []byte

// Format is a catalog encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q", filepath.Ext(path))
	}
}

// Default returns a freshly parsed copy of the built-in catalog.
func Default() *model.Catalog {
	c, err := Parse(defaultYAML, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// Load reads and resolves a catalog file. An empty path loads the built-in
// catalog.
func Load(path string) (*model.Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and resolves a catalog document.
func Parse(data []byte, format Format) (*model.Catalog, error) {
	var c model.Catalog
	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&c)
	case FormatTOML:
		err = toml.Unmarshal(data, &c)
	case FormatJSON:
		err = json.Unmarshal(data, &c)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s catalog: %w", format, err)
	}
	if err := c.Resolve(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode writes c in the given format.
func Encode(c *model.Catalog, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(c)
	case FormatTOML:
		return toml.Marshal(c)
	case FormatJSON:
		return json.MarshalIndent(c, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

// Assets serves joint templates declared in a catalog. It implements
// part.Provider.
type Assets struct {
	catalog *model.Catalog
}

// NewAssets creates a provider over the catalog's asset table.
func NewAssets(c *model.Catalog) *Assets {
	return &Assets{catalog: c}
}

// Provide returns an independent copy of the asset template for key.
func (a *Assets) Provide(key string) (part.Asset, bool) {
	spec, ok := a.catalog.Asset(key)
	if !ok {
		return part.Asset{}, false
	}
	return part.Asset{Key: spec.Key, Joints: spec.Joints}.Clone(), true
}
