package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDesignColumns(t *testing.T) {
	cols, ok := DetectDesignColumns([]string{"Name", "Family", "Layout", "Width", "Height", "Depth", "Inner Walls"})
	require.True(t, ok)
	assert.Equal(t, DesignColumns{Name: 0, Family: 1, Layout: 2, Width: 3, Height: 4, Depth: 5, InnerWalls: 6, TopOpen: -1, BottomOpen: -1}, cols)

	_, ok = DetectDesignColumns([]string{"Name", "Height"})
	assert.False(t, ok)
}

func TestImportDesigns_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "designs.csv")
	data := "Name;Family;Layout;Width;Height;Depth;Inner Walls;Bottom Open\n" +
		"Hall;FAMILY1;TOP_BOTTOM;1,2;2,4;0,5;yes;x\n" +
		";FAMILY1;;1800;2400;;no;\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	result := ImportDesigns(path)
	require.NoError(t, result.Err())
	require.Len(t, result.Designs, 2)

	hall := result.Designs[0]
	assert.Equal(t, "Hall", hall.Name)
	assert.Equal(t, "FAMILY1", hall.Family)
	assert.Equal(t, "TOP_BOTTOM", hall.Layout)
	assert.InDelta(t, 1.2, hall.Width, 1e-9)
	assert.InDelta(t, 2.4, hall.Height, 1e-9)
	assert.InDelta(t, 0.5, hall.Depth, 1e-9)
	assert.True(t, hall.InnerWalls)
	assert.True(t, hall.BottomOpen)
	assert.False(t, hall.TopOpen)
	assert.NotEmpty(t, hall.ID)

	second := result.Designs[1]
	assert.Equal(t, "Design 2", second.Name)
	assert.InDelta(t, 1.8, second.Width, 1e-9)
	assert.InDelta(t, 2.4, second.Height, 1e-9)
	assert.Zero(t, second.Depth)
	assert.False(t, second.InnerWalls)
	assert.NotEqual(t, hall.ID, second.ID)

	assert.Contains(t, result.Warnings, "Detected semicolon delimiter")
	assert.Contains(t, result.Warnings, "Line 3: width '1800' read as millimetres")
}

func TestImportDesigns_Excel(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Design", "Series", "Width", "Height"},
		{"Bedroom", "FAMILY2", 2.4, 2.2},
		{"Broken", "FAMILY2", "wide", 2.2},
	})

	result := ImportDesigns(path)
	require.Len(t, result.Designs, 1)
	assert.Equal(t, "Bedroom", result.Designs[0].Name)
	assert.Equal(t, "FAMILY2", result.Designs[0].Family)
	assert.InDelta(t, 2.4, result.Designs[0].Width, 1e-9)
	assert.Equal(t, []string{"Row 3: Invalid width 'wide'"}, result.Errors)
}

func TestImportDesigns_Rejects(t *testing.T) {
	dir := t.TempDir()

	noFamily := filepath.Join(dir, "nofamily.csv")
	require.NoError(t, os.WriteFile(noFamily, []byte("Name,Width\nHall,1.2\n"), 0644))
	assert.Error(t, ImportDesigns(noFamily).Err())

	missingFamily := filepath.Join(dir, "blank.csv")
	require.NoError(t, os.WriteFile(missingFamily, []byte("Name,Family,Width\nHall,,1.2\n"), 0644))
	result := ImportDesigns(missingFamily)
	assert.Empty(t, result.Designs)
	assert.Equal(t, []string{"Line 2: Missing family"}, result.Errors)

	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("Name,Family,Width\n"), 0644))
	assert.Equal(t, []string{"No data rows found"}, ImportDesigns(headerOnly).Errors)

	assert.Error(t, ImportDesigns(filepath.Join(dir, "designs.json")).Err())
}
