package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardPresetToStockSheetCarriesPrice(t *testing.T) {
	bp := NewBoardPreset("Melamine 2800x2070", "Melamine", 2800, 2070, 18, 32.5)
	sheet := bp.ToStockSheet(2)
	assert.Equal(t, 32.5, sheet.PricePerSheet)
	assert.Equal(t, 2, sheet.Quantity)
	assert.Equal(t, "Melamine 2800x2070", sheet.Label)
}

func TestBoardPresetApplyToSettings(t *testing.T) {
	s := DefaultSettings()
	NewBoardPreset("HDF", "HDF", 2800, 2070, 3, 0).ApplyToSettings(&s)
	assert.Equal(t, 3.0, s.CutDepth)

	NewBoardPreset("Unknown", "", 1000, 1000, 0, 0).ApplyToSettings(&s)
	assert.Equal(t, 3.0, s.CutDepth, "zero thickness leaves the depth alone")
}

func TestToolProfileApplyToSettings(t *testing.T) {
	s := DefaultSettings()
	NewToolProfile("8mm", 8, 2000, 600, 16000, 9).ApplyToSettings(&s)
	assert.Equal(t, 8.0, s.ToolDiameter)
	assert.Equal(t, 8.0, s.KerfWidth)
	assert.Equal(t, 16000, s.SpindleSpeed)
	assert.Equal(t, 9.0, s.PassDepth)
}

func TestDefaultInventoryLookups(t *testing.T) {
	inv := DefaultInventory()
	require.NotEmpty(t, inv.Boards)
	require.NotEmpty(t, inv.Tools)

	b := inv.FindBoardByName(inv.Boards[0].Name)
	require.NotNil(t, b)
	assert.Equal(t, inv.Boards[0].ID, b.ID)
	assert.Nil(t, inv.FindBoardByName("Granite"))

	assert.NotNil(t, inv.FindToolByName("6mm Compression Bit"))
	assert.Nil(t, inv.FindToolByName("Laser"))
	assert.Len(t, inv.BoardNames(), len(inv.Boards))
	assert.Len(t, inv.ToolNames(), len(inv.Tools))
}

func TestCutPlanTotalCost(t *testing.T) {
	plan := CutPlan{Sheets: []SheetResult{
		{Stock: StockSheet{Label: "A", PricePerSheet: 45}},
		{Stock: StockSheet{Label: "B", PricePerSheet: 45}},
	}}
	assert.Equal(t, 90.0, plan.TotalCost())
	assert.True(t, plan.HasPricing())

	unpriced := CutPlan{Sheets: []SheetResult{{Stock: StockSheet{Label: "C"}}}}
	assert.Equal(t, 0.0, unpriced.TotalCost())
	assert.False(t, unpriced.HasPricing())
	assert.False(t, CutPlan{}.HasPricing())
}
