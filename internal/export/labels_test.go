package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

func buildLabelsTestPlan() model.CutPlan {
	side := model.NewPanel("Side", 600, 1800, 1)
	side.Unit = "BOTTOM_CABINET"
	top := model.NewPanel("Top", 500, 300, 1)
	top.Unit = "BOTTOM_CABINET"
	back := model.NewPanel("Back", 800, 500, 1)
	back.Unit = "TOP_CABINET"

	return model.CutPlan{
		Sheets: []model.SheetResult{
			{
				Stock: model.NewStockSheet("Melamine 2800x2070", 2800, 2070, 1),
				Placements: []model.Placement{
					{Panel: side, X: 10, Y: 10},
					{Panel: top, X: 620, Y: 10, Rotated: true},
				},
			},
			{
				Stock:      model.NewStockSheet("HDF 2800x2070", 2800, 2070, 1),
				Placements: []model.Placement{{Panel: back, X: 10, Y: 10}},
			},
		},
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildLabelsTestPlan()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportLabels(path, model.CutPlan{}); err == nil {
		t.Fatal("expected error for empty plan, got nil")
	}
}

func TestExportLabels_NoPlacements(t *testing.T) {
	plan := model.CutPlan{Sheets: []model.SheetResult{{Stock: model.NewStockSheet("Board", 1000, 500, 1)}}}
	var buf bytes.Buffer
	assert.Error(t, WriteLabels(&buf, plan))
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildLabelsTestPlan())
	require.Len(t, labels, 3)

	assert.Equal(t, "Side", labels[0].Board)
	assert.Equal(t, "BOTTOM_CABINET", labels[0].Unit)
	if labels[0].Width != 600 || labels[0].Height != 1800 {
		t.Errorf("wrong dimensions: got %.0fx%.0f, want 600x1800", labels[0].Width, labels[0].Height)
	}
	assert.Equal(t, 1, labels[0].SheetIndex)
	assert.Equal(t, "Melamine 2800x2070", labels[0].SheetLabel)
	assert.False(t, labels[0].Rotated)
	assert.Equal(t, "none", labels[0].Banding)

	assert.True(t, labels[1].Rotated)
	assert.Equal(t, 620.0, labels[1].X)

	assert.Equal(t, 2, labels[2].SheetIndex)
	assert.Equal(t, "TOP_CABINET", labels[2].Unit)
}

func TestLabelInfo_JSONKeys(t *testing.T) {
	data, err := json.Marshal(LabelInfo{Unit: "U", Board: "Shelf", Width: 300, Height: 200, SheetIndex: 1})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"unit", "board", "width_mm", "height_mm", "sheet", "sheet_label", "rotated", "x_mm", "y_mm", "banding"} {
		assert.Contains(t, raw, key)
	}
}

func TestExportLabels_MultiPage(t *testing.T) {
	placements := make([]model.Placement, labelsPerPage+5)
	for i := range placements {
		p := model.NewPanel(fmt.Sprintf("Shelf %d", i+1), 100+float64(i*10), 50+float64(i*5), 1)
		p.Unit = "SHELF_CABINET"
		placements[i] = model.Placement{Panel: p, X: float64(i * 110), Y: 10, Rotated: i%4 == 0}
	}
	plan := model.CutPlan{Sheets: []model.SheetResult{{
		Stock:      model.NewStockSheet("Large Board", 5000, 3000, 1),
		Placements: placements,
	}}}

	var buf bytes.Buffer
	require.NoError(t, WriteLabels(&buf, plan))
	assert.Len(t, CollectLabelInfos(plan), labelsPerPage+5)
}

func TestTruncateKeepsShortText(t *testing.T) {
	long := "A very long unit name that cannot possibly fit on a label"
	pdf := newLabelTestPDF()
	assert.Equal(t, "Side", truncate(pdf, "Side", 40))
	got := truncate(pdf, long, 40)
	assert.Less(t, len(got), len(long))
	assert.Contains(t, got, "...")
}

func newLabelTestPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetFont("Helvetica", "", 7)
	return pdf
}
