package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/ClosetCraft/internal/catalog"
	"github.com/piwi3910/ClosetCraft/internal/model"
)

func writeSnapshot(path string, s model.ClosetSnapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// writeCatalog dumps the resolved catalog as YAML, a starting point for a
// custom -catalog file.
func writeCatalog(path string, cat *model.Catalog) error {
	data, err := catalog.Encode(cat, catalog.FormatYAML)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
