package gcode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

func newTestSettings() model.CutSettings {
	s := model.DefaultSettings()
	s.ToolDiameter = 6.0
	s.FeedRate = 1000.0
	s.PlungeRate = 300.0
	s.SpindleSpeed = 12000
	s.SafeZ = 5.0
	s.CutDepth = 18.0
	s.PassDepth = 6.0
	s.GCodeProfile = "Generic"
	return s
}

func newTestSheet() model.SheetResult {
	panel := model.NewPanel("Shelf", 100, 50, 1)
	panel.Unit = "BOTTOM_CABINET"
	return model.SheetResult{
		Stock:      model.NewStockSheet("Board", 500, 300, 1),
		Placements: []model.Placement{{Panel: panel, X: 10, Y: 10}},
	}
}

func TestGenerateSheetHeaderAndFooter(t *testing.T) {
	code := New(newTestSettings()).GenerateSheet(newTestSheet(), 2)

	assert.Contains(t, code, "; ClosetCraft GCode - Sheet 2 (Board)")
	assert.Contains(t, code, "; Depth: 18.0mm in 3 passes")
	assert.Contains(t, code, "M3 S12000\n")
	assert.Contains(t, code, "; --- Board 1: BOTTOM_CABINET Shelf (100.0 x 50.0) ---")
	assert.True(t, strings.HasSuffix(code, "M5\nG0 Z5.000\nG0 X0 Y0\nM2\n"), code)
}

func TestGenerateSheetClimbPerimeter(t *testing.T) {
	code := New(newTestSettings()).GenerateSheet(newTestSheet(), 1)

	for _, line := range []string{
		"G0 X7.000 Y7.000",
		"G1 Z-6.000 F300.000",
		"G1 Z-12.000 F300.000",
		"G1 Z-18.000 F300.000",
		"G1 X113.000 Y7.000 F1000.000",
		"G1 X113.000 Y63.000",
		"G1 X7.000 Y63.000",
		"G1 X7.000 Y7.000",
	} {
		assert.Contains(t, code, line+"\n")
	}
	assert.Equal(t, 3, strings.Count(code, "Pass "))
}

func TestGenerateSheetConventional(t *testing.T) {
	s := newTestSettings()
	s.UseClimb = false
	code := New(s).GenerateSheet(newTestSheet(), 1)
	assert.Contains(t, code, "G1 X7.000 Y63.000 F1000.000\n")
	assert.NotContains(t, code, "G1 X113.000 Y7.000 F1000.000")
}

func TestGenerateSheetRotatedBoard(t *testing.T) {
	sheet := newTestSheet()
	sheet.Placements[0].Rotated = true
	code := New(newTestSettings()).GenerateSheet(sheet, 1)
	assert.Contains(t, code, "[rotated]")
	assert.Contains(t, code, "G1 X63.000 Y7.000 F1000.000\n")
	assert.Contains(t, code, "G1 X63.000 Y113.000\n")
}

func TestPasses(t *testing.T) {
	tests := []struct {
		cut, pass float64
		want      int
	}{
		{18, 6, 3},
		{18, 5, 4},
		{6, 6, 1},
		{3, 6, 1},
		{18, 0, 1},
	}
	for _, tt := range tests {
		s := newTestSettings()
		s.CutDepth, s.PassDepth = tt.cut, tt.pass
		assert.Equal(t, tt.want, New(s).Passes(), "cut %v pass %v", tt.cut, tt.pass)
	}

	s := newTestSettings()
	s.PassDepth = 0
	code := New(s).GenerateSheet(newTestSheet(), 1)
	assert.Contains(t, code, "G1 Z-18.000 F300.000\n")
}

func TestGenerateSheetFanucProfile(t *testing.T) {
	s := newTestSettings()
	s.GCodeProfile = "Fanuc"
	g := New(s)
	code := g.GenerateSheet(newTestSheet(), 1)

	assert.Equal(t, "Fanuc", g.Profile().Name)
	assert.Contains(t, code, "( Profile: Fanuc)\n")
	assert.Contains(t, code, "G00 X7.0000 Y7.0000\n")
	assert.Contains(t, code, "G28 X0 Y0\nM30\n")
}

func TestGenerateAllAndWriteFiles(t *testing.T) {
	plan := model.CutPlan{Sheets: []model.SheetResult{newTestSheet(), newTestSheet()}}
	g := New(newTestSettings())
	codes := g.GenerateAll(plan)
	require.Len(t, codes, 2)
	assert.Contains(t, codes[1], "Sheet 2")

	dir := filepath.Join(t.TempDir(), "nc")
	paths, err := g.WriteFiles(dir, "closet", plan)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "closet_sheet2.nc"), paths[1])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, codes[0], string(data))
}

func TestNewWithProfilesPrefersCustom(t *testing.T) {
	custom := model.GetProfile("Grbl")
	custom.Name = "Shop Router"
	custom.CommentPrefix = "#"

	s := model.DefaultSettings()
	s.GCodeProfile = "Shop Router"
	g := NewWithProfiles(s, []model.GCodeProfile{custom})
	assert.Equal(t, "Shop Router", g.Profile().Name)

	s.GCodeProfile = "Fanuc"
	assert.Equal(t, "Fanuc", NewWithProfiles(s, []model.GCodeProfile{custom}).Profile().Name)
}
