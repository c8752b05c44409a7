package cutlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ClosetCraft/internal/catalog"
	"github.com/piwi3910/ClosetCraft/internal/engine"
	"github.com/piwi3910/ClosetCraft/internal/model"
)

func bottomCabinet() model.UnitSnapshot {
	return model.UnitSnapshot{
		Type:      "BOTTOM_CABINET",
		Width:     0.4,
		Height:    0.9,
		Depth:     0.4,
		LegHeight: 0.1,
		Thickness: 0.018,
		Shelves:   []float64{0.5},
		Parts: []model.PartSnapshot{
			{Key: "bottom_cabinet", Slot: "body"},
			{Key: "bottom_panel", Slot: "left_wall"},
			{Key: "bottom_panel", Slot: "right_wall"},
			{Key: "bottom_door", Slot: "door"},
			{Key: "handle", Slot: "handle"},
		},
	}
}

func find(t *testing.T, panels []model.Panel, unit, label string) model.Panel {
	t.Helper()
	for _, p := range panels {
		if p.Unit == unit && p.Label == label {
			return p
		}
	}
	t.Fatalf("no %s panel for %s", label, unit)
	return model.Panel{}
}

func TestPanelsForOneUnit(t *testing.T) {
	s := model.ClosetSnapshot{Columns: []model.ColumnSnapshot{{Bottom: []model.UnitSnapshot{bottomCabinet()}}}}
	panels := Panels(s)

	tests := []struct {
		label string
		w, h  float64
		qty   int
		grain model.Grain
	}{
		{LabelTop, 400, 400, 1, model.GrainHorizontal},
		{LabelBottom, 400, 400, 1, model.GrainHorizontal},
		{LabelBack, 400, 800, 1, model.GrainVertical},
		{LabelSide, 400, 800, 2, model.GrainVertical},
		{LabelShelf, 364, 382, 1, model.GrainHorizontal},
		{LabelDoor, 400, 800, 1, model.GrainVertical},
	}
	require.Len(t, panels, len(tests))
	for _, tt := range tests {
		p := find(t, panels, "BOTTOM_CABINET", tt.label)
		assert.Equal(t, tt.w, p.Width, tt.label)
		assert.Equal(t, tt.h, p.Height, tt.label)
		assert.Equal(t, tt.qty, p.Quantity, tt.label)
		assert.Equal(t, tt.grain, p.Grain, tt.label)
	}
	assert.Equal(t, 4, find(t, panels, "BOTTOM_CABINET", LabelDoor).Banding.EdgeCount())
	assert.True(t, find(t, panels, "BOTTOM_CABINET", LabelShelf).Banding.Top)
	assert.Equal(t, 7, Count(panels))
}

func TestPanelsMergeIdenticalBoards(t *testing.T) {
	u := bottomCabinet()
	s := model.ClosetSnapshot{Columns: []model.ColumnSnapshot{
		{Bottom: []model.UnitSnapshot{u}},
		{Bottom: []model.UnitSnapshot{u}},
	}}
	panels := Panels(s)
	assert.Equal(t, 4, find(t, panels, "BOTTOM_CABINET", LabelSide).Quantity)
	assert.Equal(t, 2, find(t, panels, "BOTTOM_CABINET", LabelDoor).Quantity)
	assert.Equal(t, 14, Count(panels))
}

func TestPanelsSkipGlassAndMissingParts(t *testing.T) {
	u := model.UnitSnapshot{
		Type:      "TOP_CABINET",
		Width:     0.5,
		Height:    1.1,
		Depth:     0.4,
		Thickness: 0.018,
		Parts: []model.PartSnapshot{
			{Key: "top_side_glass", Slot: "left_wall"},
			{Key: "top_side_panel", Slot: "right_wall"},
		},
	}
	panels := Panels(model.ClosetSnapshot{Columns: []model.ColumnSnapshot{{Top: []model.UnitSnapshot{u}}}})

	side := find(t, panels, "TOP_CABINET", LabelSide)
	assert.Equal(t, 1, side.Quantity)
	assert.Equal(t, 1100.0, side.Height)
	for _, p := range panels {
		assert.NotEqual(t, LabelDoor, p.Label)
		assert.NotEqual(t, LabelShelf, p.Label)
	}
}

func TestPanelsDrawerFronts(t *testing.T) {
	u := model.UnitSnapshot{
		Type:      "DRAWER_CABINET",
		Width:     0.4,
		Height:    0.9,
		Depth:     0.4,
		LegHeight: 0.1,
		Drawers:   []model.DrawerSnapshot{{Height: 0.25}, {Height: 0.25}, {Height: 0.25}},
	}
	panels := Panels(model.ClosetSnapshot{Columns: []model.ColumnSnapshot{{Bottom: []model.UnitSnapshot{u}}}})
	fronts := find(t, panels, "DRAWER_CABINET", LabelDrawerFront)
	assert.Equal(t, 3, fronts.Quantity)
	assert.Equal(t, 250.0, fronts.Height)
	assert.Equal(t, "Drawer front 400.0x250.0 x3", Describe(fronts))
}

func TestPanelsFromCloset(t *testing.T) {
	cat := catalog.Default()
	c, err := engine.NewCloset(cat.Family("FAMILY1"), catalog.NewAssets(cat), cat.Limits)
	require.NoError(t, err)
	require.True(t, c.SetWidth(1.2))

	panels := Panels(c.Snapshot())
	require.NotEmpty(t, panels)
	doors := 0
	for _, p := range panels {
		if p.Label == LabelDoor {
			doors += p.Quantity
		}
		assert.Greater(t, p.Width, 0.0)
		assert.Greater(t, p.Height, 0.0)
	}
	assert.Equal(t, c.Snapshot().UnitCount(), doors)

	plan := New(model.DefaultSettings()).Pack(panels, []model.StockSheet{model.NewStockSheet("Board", 2800, 2070, 10)})
	assert.Empty(t, plan.Unplaced)
	assert.Equal(t, Count(panels), plan.PlacedCount())
}
