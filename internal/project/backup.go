package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// BackupVersion is written to every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string               `json:"version"`
	CreatedAt string               `json:"created_at"`
	Config    model.AppConfig      `json:"config"`
	Inventory model.Inventory      `json:"inventory"`
	Designs   model.DesignStore    `json:"designs"`
	Profiles  []model.GCodeProfile `json:"profiles"`
}

// NewBackup bundles the application data with the current version and time.
func NewBackup(config model.AppConfig, inv model.Inventory, designs model.DesignStore, profiles []model.GCodeProfile) BackupData {
	return BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Inventory: inv,
		Designs:   designs,
		Profiles:  profiles,
	}
}

// ExportAllData exports all application data to a single JSON file at the
// specified path.
func ExportAllData(exportPath string, backup BackupData) error {
	if backup.Version == "" {
		backup.Version = BackupVersion
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentDesigns == nil {
		backup.Config.RecentDesigns = []string{}
	}
	if backup.Designs.Designs == nil {
		backup.Designs.Designs = []model.Design{}
	}
	if backup.Profiles == nil {
		backup.Profiles = []model.GCodeProfile{}
	}
	return backup, nil
}

// RestoreAllData writes the contents of a backup into dir using the
// standard file names.
func RestoreAllData(dir string, backup BackupData) error {
	paths := Paths(dir)
	if err := SaveAppConfig(paths.Config, backup.Config); err != nil {
		return fmt.Errorf("failed to restore config: %w", err)
	}
	if err := SaveInventory(paths.Inventory, backup.Inventory); err != nil {
		return fmt.Errorf("failed to restore inventory: %w", err)
	}
	if err := SaveDesigns(paths.Designs, backup.Designs); err != nil {
		return fmt.Errorf("failed to restore designs: %w", err)
	}
	if err := SaveCustomProfiles(paths.Profiles, backup.Profiles); err != nil {
		return fmt.Errorf("failed to restore profiles: %w", err)
	}
	return nil
}

// DataPaths are the file locations of the application data in one directory.
type DataPaths struct {
	Config    string
	Inventory string
	Designs   string
	Profiles  string
}

// Paths returns the data file locations under dir.
func Paths(dir string) DataPaths {
	return DataPaths{
		Config:    filepath.Join(dir, "config.json"),
		Inventory: filepath.Join(dir, "inventory.json"),
		Designs:   filepath.Join(dir, "designs.json"),
		Profiles:  filepath.Join(dir, "profiles.json"),
	}
}
