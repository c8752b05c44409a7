package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// DefaultInventoryPath returns the default file path for the inventory file.
// This is located at ~/.closetcraft/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	return inv, nil
}

// ImportInventory imports an inventory from a JSON file, merging it into
// existing. Entries whose ID is already present are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	return MergeInventory(existing, imported), nil
}

// MergeInventory appends the tools and boards of imported that existing
// does not already contain, matching by ID.
func MergeInventory(existing, imported model.Inventory) model.Inventory {
	toolIDs := make(map[string]bool, len(existing.Tools))
	for _, t := range existing.Tools {
		toolIDs[t.ID] = true
	}
	boardIDs := make(map[string]bool, len(existing.Boards))
	for _, b := range existing.Boards {
		boardIDs[b.ID] = true
	}

	for _, t := range imported.Tools {
		if !toolIDs[t.ID] {
			existing.Tools = append(existing.Tools, t)
			toolIDs[t.ID] = true
		}
	}
	for _, b := range imported.Boards {
		if !boardIDs[b.ID] {
			existing.Boards = append(existing.Boards, b)
			boardIDs[b.ID] = true
		}
	}
	return existing
}
