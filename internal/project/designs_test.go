package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

func testDesign(name string) model.Design {
	d := model.NewDesign(name, "test design")
	d.Family = "FAMILY1"
	d.Layout = "LAYOUT2"
	d.Width = 1.6
	d.Height = 2.2
	d.Depth = 0.5
	d.TopLeftDoors = map[int]bool{1: true}
	return d
}

func TestSaveAndLoadDesigns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "designs.json")

	store := model.NewDesignStore()
	store.Put(testDesign("Bedroom"))
	store.Put(testDesign("Hallway"))

	if err := SaveDesigns(path, store); err != nil {
		t.Fatalf("SaveDesigns failed: %v", err)
	}

	loaded, err := LoadDesigns(path)
	if err != nil {
		t.Fatalf("LoadDesigns failed: %v", err)
	}
	assert.Equal(t, []string{"Bedroom", "Hallway"}, loaded.Names())
	got := loaded.FindByName("Bedroom")
	require.NotNil(t, got)
	assert.Equal(t, store.Designs[0], *got)
}

func TestLoadDesignsNotFound(t *testing.T) {
	store, err := LoadDesigns(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	assert.NotNil(t, store.Designs)
	assert.Empty(t, store.Designs)
}

func TestLoadDesignsNullList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "designs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"designs":null}`), 0644))

	store, err := LoadDesigns(path)
	require.NoError(t, err)
	assert.NotNil(t, store.Designs)
}

func TestExportAndImportDesign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bedroom.json")
	d := testDesign("Bedroom")
	require.NoError(t, ExportDesign(path, d))

	imported, err := ImportDesign(path)
	require.NoError(t, err)
	assert.Equal(t, d, imported)
}

func TestImportDesignAssignsID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Bare","family":"FAMILY1","width":1.2}`), 0644))

	d, err := ImportDesign(path)
	require.NoError(t, err)
	assert.Len(t, d.ID, 8)
	assert.NotEmpty(t, d.CreatedAt)
	assert.Equal(t, "Bare", d.Name)
	assert.Equal(t, 1.2, d.Width)
}

func TestImportDesignWithoutFamily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nofamily.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Orphan"}`), 0644))

	_, err := ImportDesign(path)
	assert.Error(t, err)
}
