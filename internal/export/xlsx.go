package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// Workbook sheet names.
const (
	SheetSummary = "Summary"
	SheetUnits   = "Units"
	SheetPanels  = "Panels"
	SheetCutPlan = "Cut Plan"
	SheetOffcuts = "Offcuts"
)

// ExportXLSX writes the bill of materials workbook.
func ExportXLSX(path string, r Report) error {
	return writeFile(path, func(w io.Writer) error { return WriteXLSX(w, r) })
}

// WriteXLSX writes a workbook with the closet summary, its units, the board
// list, the placements of the cut plan and the reusable offcuts.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetUnits, SheetPanels, SheetCutPlan, SheetOffcuts} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	s := r.Snapshot
	summary := [][]any{
		{"Title", r.Title},
		{"Family", s.Family},
		{"Layout", s.Layout},
		{"Width (mm)", s.Width * 1000},
		{"Height (mm)", s.Height * 1000},
		{"Depth (mm)", s.Depth * 1000},
		{"Columns", len(s.Columns)},
		{"Units", s.UnitCount()},
		{"Boards", boardTotal(r.Panels)},
		{"Sheets Used", len(r.Plan.Sheets)},
		{"Efficiency (%)", r.Plan.TotalEfficiency()},
		{"Unplaced Boards", len(r.Plan.Unplaced)},
		{"Edge Banding (m)", r.Banding.TotalWithWasteM},
		{"Sheets To Buy", r.Purchase.SheetsToBuy},
		{"Material Cost", r.Plan.TotalCost()},
		{"Reusable Offcuts", len(r.Offcuts)},
		{"Offcut Area (m2)", model.TotalOffcutArea(r.Offcuts) / 1e6},
	}
	for _, l := range r.Purchase.Lines {
		summary = append(summary, []any{fmt.Sprintf("Buy %s (%.0fx%.0f)", l.Label, l.Width, l.Height), l.SheetsToBuy})
	}
	if err := writeRows(f, SheetSummary, nil, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}

	var units [][]any
	for _, col := range s.Columns {
		for _, u := range col.Units() {
			door := ""
			if u.HasDoor {
				door = "right"
				if u.LeftDoor {
					door = "left"
				}
			}
			units = append(units, []any{col.Name, col.Role.String(), u.Name, u.Type,
				u.Width * 1000, u.Height * 1000, u.Depth * 1000, len(u.Shelves), len(u.Drawers), door})
		}
	}
	if err := writeRows(f, SheetUnits, []any{"Column", "Role", "Unit", "Type", "Width", "Height", "Depth", "Shelves", "Drawers", "Hinge"}, units); err != nil {
		return err
	}

	var panels [][]any
	for _, p := range r.Panels {
		panels = append(panels, []any{p.Unit, p.Label, p.Width, p.Height, p.Quantity, p.Grain.String(), p.Banding.String(),
			p.Banding.LinearLength(p.Width, p.Height) * float64(p.Quantity) / 1000})
	}
	if err := writeRows(f, SheetPanels, []any{"Unit", "Board", "Width", "Height", "Qty", "Grain", "Banding", "Banding (m)"}, panels); err != nil {
		return err
	}

	var placements [][]any
	for i, sheet := range r.Plan.Sheets {
		for _, p := range sheet.Placements {
			placements = append(placements, []any{i + 1, sheet.Stock.Label, p.Panel.Unit, p.Panel.Label, p.X, p.Y, p.PlacedWidth(), p.PlacedHeight(), p.Rotated})
		}
	}
	if err := writeRows(f, SheetCutPlan, []any{"Sheet", "Stock", "Unit", "Board", "X", "Y", "Width", "Height", "Rotated"}, placements); err != nil {
		return err
	}

	var offcuts [][]any
	for _, o := range r.Offcuts {
		offcuts = append(offcuts, []any{o.SheetIndex + 1, o.SheetLabel, o.X, o.Y, o.Width, o.Height, o.Value})
	}
	if err := writeRows(f, SheetOffcuts, []any{"Sheet", "Stock", "X", "Y", "Width", "Height", "Value"}, offcuts); err != nil {
		return err
	}

	for _, name := range []string{SheetUnits, SheetPanels, SheetCutPlan, SheetOffcuts} {
		if err := f.SetCellStyle(name, "A1", "J1", bold); err != nil {
			return fmt.Errorf("failed to style %s: %w", name, err)
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "B", 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeRows writes an optional header row followed by rows, starting at A1.
func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	row := 1
	if header != nil {
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
		row++
	}
	for _, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
		}
		row++
	}
	return nil
}

func boardTotal(panels []model.Panel) int {
	n := 0
	for _, p := range panels {
		n += p.Quantity
	}
	return n
}
