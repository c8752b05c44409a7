package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// DefaultDesignsPath returns the default file path for saved designs,
// ~/.closetcraft/designs.json.
func DefaultDesignsPath() string {
	return filepath.Join(DefaultConfigDir(), "designs.json")
}

// SaveDesigns writes the design store to a JSON file.
func SaveDesigns(path string, store model.DesignStore) error {
	return writeJSON(path, store)
}

// LoadDesigns reads a design store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadDesigns(path string) (model.DesignStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewDesignStore(), nil
		}
		return model.DesignStore{}, err
	}
	var store model.DesignStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.DesignStore{}, fmt.Errorf("failed to parse designs %s: %w", path, err)
	}
	if store.Designs == nil {
		store.Designs = []model.Design{}
	}
	return store, nil
}

// ExportDesign writes a single design to a JSON file for sharing.
func ExportDesign(path string, d model.Design) error {
	return writeJSON(path, d)
}

// ImportDesign reads a single design from a JSON file. A design without an
// ID is given a fresh one.
func ImportDesign(path string) (model.Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Design{}, err
	}
	var d model.Design
	if err := json.Unmarshal(data, &d); err != nil {
		return model.Design{}, fmt.Errorf("failed to parse design %s: %w", path, err)
	}
	if d.Family == "" {
		return model.Design{}, fmt.Errorf("design %s has no family", path)
	}
	if d.ID == "" {
		fresh := model.NewDesign(d.Name, d.Description)
		d.ID, d.CreatedAt, d.UpdatedAt = fresh.ID, fresh.CreatedAt, fresh.UpdatedAt
	}
	return d, nil
}
