package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/ClosetCraft/internal/cutlist"
	"github.com/piwi3910/ClosetCraft/internal/model"
)

type rgb struct {
	R, G, B int
}

// panelColors cycles through placed boards on cut plan pages.
var panelColors = []rgb{
	{R: 76, G: 175, B: 80},
	{R: 33, G: 150, B: 243},
	{R: 255, G: 152, B: 0},
	{R: 156, G: 39, B: 176},
	{R: 0, G: 188, B: 212},
	{R: 244, G: 67, B: 54},
	{R: 255, G: 235, B: 59},
	{R: 121, G: 85, B: 72},
}

var layerColors = map[string]rgb{
	LayerCarcass: {R: 60, G: 60, B: 60},
	LayerFronts:  {R: 33, G: 150, B: 243},
	LayerShelves: {R: 121, G: 85, B: 72},
	LayerLegs:    {R: 30, G: 30, B: 30},
	LayerMolding: {R: 156, G: 39, B: 176},
}

// A4 landscape, mm.
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// ExportPDF writes the drawing sheet: front elevation, bill of materials,
// one page per cut sheet and a summary.
func ExportPDF(path string, r Report) error {
	return writeFile(path, func(w io.Writer) error { return WritePDF(w, r) })
}

// WritePDF renders the drawing sheet to w.
func WritePDF(w io.Writer, r Report) error {
	if len(r.Snapshot.Columns) == 0 {
		return fmt.Errorf("closet has no columns to draw")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(r.Title, false)

	pdf.AddPage()
	renderElevationPage(pdf, r)

	pdf.AddPage()
	renderBOMPage(pdf, r)

	for i, sheet := range r.Plan.Sheets {
		pdf.AddPage()
		renderSheetPage(pdf, sheet, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, r)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func pageTitle(pdf *fpdf.Fpdf, title, stats string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, headerHeight, title, "", 0, "L", false, 0, "")
	if stats != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, marginTop+headerHeight)
		pdf.CellFormat(contentWidth, 5, stats, "", 0, "L", false, 0, "")
	}
}

func renderElevationPage(pdf *fpdf.Fpdf, r Report) {
	s := r.Snapshot
	pageTitle(pdf, fmt.Sprintf("%s: %s / %s", r.Title, s.Family, s.Layout),
		fmt.Sprintf("Width %s | Height %s | Depth %s | Columns: %d | Units: %d",
			mmLabel(s.Width), mmLabel(s.Height), mmLabel(s.Depth), len(s.Columns), s.UnitCount()))

	boxes := elevation(s)
	minX, minY, maxX, maxY := bounds(boxes)
	drawW := contentWidth - 20
	drawH := pageHeight - drawAreaTop - marginBottom - 10
	scale := math.Min(drawW/(maxX-minX), drawH/(maxY-minY))

	canvasW := (maxX - minX) * scale
	canvasH := (maxY - minY) * scale
	offsetX := marginLeft + 10 + (drawW-canvasW)/2
	bottom := drawAreaTop + canvasH

	// PDF y grows downwards.
	toPage := func(b box) (float64, float64, float64, float64) {
		return offsetX + (b.x-minX)*scale, bottom - (b.top()-minY)*scale, b.w * scale, b.h * scale
	}

	for _, b := range boxes {
		x, y, w, h := toPage(b)
		col := layerColors[b.layer]
		pdf.SetDrawColor(col.R, col.G, col.B)
		switch b.layer {
		case LayerLegs, LayerShelves, LayerMolding:
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetLineWidth(0.1)
			pdf.Rect(x, y, w, h, "FD")
		case LayerFronts:
			pdf.SetLineWidth(0.2)
			pdf.SetDashPattern([]float64{1, 1}, 0)
			pdf.Rect(x, y, w, h, "D")
			pdf.SetDashPattern([]float64{}, 0)
			if b.label != "" {
				// Hinge side marker.
				pdf.SetFont("Helvetica", "", 6)
				pdf.SetTextColor(col.R, col.G, col.B)
				hx := x + 1
				if b.label == "R" {
					hx = x + w - 3
				}
				pdf.SetXY(hx, y+h/2-1.5)
				pdf.CellFormat(2, 3, b.label, "", 0, "C", false, 0, "")
			}
		default:
			pdf.SetFillColor(245, 235, 215)
			pdf.SetLineWidth(0.4)
			pdf.Rect(x, y, w, h, "FD")
		}
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetDrawColor(80, 80, 80)
	pdf.SetLineWidth(0.2)
	pdf.Line(offsetX, bottom+4, offsetX+canvasW, bottom+4)
	wl := mmLabel(maxX - minX)
	wlW := pdf.GetStringWidth(wl)
	pdf.SetXY(offsetX+(canvasW-wlW)/2, bottom+5)
	pdf.CellFormat(wlW, 4, wl, "", 0, "C", false, 0, "")

	pdf.Line(offsetX-4, drawAreaTop, offsetX-4, bottom)
	hl := mmLabel(maxY - minY)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-6, drawAreaTop+canvasH/2)
	hlW := pdf.GetStringWidth(hl)
	pdf.SetXY(offsetX-6-hlW/2, drawAreaTop+canvasH/2-2)
	pdf.CellFormat(hlW, 4, hl, "", 0, "C", false, 0, "")
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

func tableHeader(pdf *fpdf.Fpdf, y float64, widths []float64, headers []string) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 6
}

func tableRow(pdf *fpdf.Fpdf, y float64, widths []float64, cells []string, shaded bool) float64 {
	pdf.SetFont("Helvetica", "", 9)
	if shaded {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	x := marginLeft
	for i, c := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, c, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 6
}

func renderBOMPage(pdf *fpdf.Fpdf, r Report) {
	pageTitle(pdf, "Bill of Materials", fmt.Sprintf("Boards: %d | Edge banding: %.2f m (incl. %.0f%% waste)",
		cutlist.Count(r.Panels), r.Banding.TotalWithWasteM, r.Banding.WastePercent))

	widths := []float64{55, 45, 30, 30, 20, 30, 57}
	headers := []string{"Unit", "Board", "Width", "Height", "Qty", "Grain", "Banding"}
	y := tableHeader(pdf, drawAreaTop, widths, headers)
	for i, p := range r.Panels {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = tableHeader(pdf, marginTop, widths, headers)
		}
		y = tableRow(pdf, y, widths, []string{
			p.Unit,
			p.Label,
			fmt.Sprintf("%.1f", p.Width),
			fmt.Sprintf("%.1f", p.Height),
			fmt.Sprintf("%d", p.Quantity),
			p.Grain.String(),
			p.Banding.String(),
		}, i%2 == 0)
	}
}

// renderSheetPage draws one stock sheet with its placed boards.
func renderSheetPage(pdf *fpdf.Fpdf, sheet model.SheetResult, sheetNum int) {
	pageTitle(pdf,
		fmt.Sprintf("Sheet %d: %s (%.0f x %.0f mm)", sheetNum, sheet.Stock.Label, sheet.Stock.Width, sheet.Stock.Height),
		fmt.Sprintf("Boards: %d | Used area: %.0f mm² | Total area: %.0f mm² | Efficiency: %.1f%%",
			len(sheet.Placements), sheet.UsedArea(), sheet.TotalArea(), sheet.Efficiency()))

	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	scale := math.Min(contentWidth/sheet.Stock.Width, drawHeight/sheet.Stock.Height)
	canvasW := sheet.Stock.Width * scale
	canvasH := sheet.Stock.Height * scale
	offsetX := marginLeft + (contentWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range sheet.Placements {
		col := panelColors[i%len(panelColors)]
		pw := p.PlacedWidth() * scale
		ph := p.PlacedHeight() * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := p.Panel.Label
			dims := fmt.Sprintf("%.0fx%.0f", p.Panel.Width, p.Panel.Height)
			if lw := pdf.GetStringWidth(label); lw < pw-2 {
				pdf.SetXY(px+(pw-lw)/2, py+ph/2-4)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
			if dw := pdf.GetStringWidth(dims); ph > 14 && dw < pw-2 {
				pdf.SetXY(px+(pw-dw)/2, py+ph/2)
				pdf.CellFormat(dw, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	wl := fmt.Sprintf("%.0f mm", sheet.Stock.Width)
	wlW := pdf.GetStringWidth(wl)
	pdf.SetXY(offsetX+(canvasW-wlW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wlW, 4, wl, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	drawLegend(pdf, sheet, offsetY+canvasH+6)
}

func drawLegend(pdf *fpdf.Fpdf, sheet model.SheetResult, y float64) {
	if len(sheet.Placements) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(30, 4, "Boards placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	x := marginLeft + 32
	for i, p := range sheet.Placements {
		col := panelColors[i%len(panelColors)]
		label := fmt.Sprintf("%s (%.0fx%.0f)", p.Panel.Label, p.Panel.Width, p.Panel.Height)
		if p.Rotated {
			label += " R"
		}
		lw := pdf.GetStringWidth(label) + 6
		if x+lw > pageWidth-marginRight {
			y += 5
			x = marginLeft
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		pdf.CellFormat(lw-4, 4, label, "", 0, "L", false, 0, "")
		x += lw + 2
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, r Report) {
	pageTitle(pdf, "Cut Plan Summary", "")
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	items := []struct{ label, value string }{
		{"Sheets Used", fmt.Sprintf("%d", len(r.Plan.Sheets))},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", r.Plan.TotalEfficiency())},
		{"Boards Placed", fmt.Sprintf("%d", r.Plan.PlacedCount())},
		{"Unplaced Boards", fmt.Sprintf("%d", len(r.Plan.Unplaced))},
		{"Edge Banding", fmt.Sprintf("%.2f m", r.Banding.TotalWithWasteM)},
		{"Sheets To Buy", fmt.Sprintf("%d", r.Purchase.SheetsToBuy)},
	}
	if r.Plan.HasPricing() {
		items = append(items, struct{ label, value string }{"Material Cost", fmt.Sprintf("%.2f", r.Plan.TotalCost())})
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, it := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, it.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, it.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if len(r.Plan.Unplaced) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Boards", "", 0, "L", false, 0, "")
		y += 8
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, p := range r.Plan.Unplaced {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- %s %s: %.0f x %.0f mm", p.Unit, p.Label, p.Width, p.Height), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cut Settings", "", 0, "L", false, 0, "")
	y += 9
	pdf.SetFont("Helvetica", "", 9)
	for _, it := range []struct{ label, value string }{
		{"Kerf Width", fmt.Sprintf("%.1f mm", r.Settings.KerfWidth)},
		{"Edge Trim", fmt.Sprintf("%.1f mm", r.Settings.EdgeTrim)},
		{"Tool Diameter", fmt.Sprintf("%.1f mm", r.Settings.ToolDiameter)},
		{"Board Thickness", fmt.Sprintf("%.1f mm", r.Settings.CutDepth)},
	} {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, it.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, it.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentWidth, 4, "Generated by ClosetCraft", "", 0, "C", false, 0, "")
}

func labelFontSize(w, h float64) float64 {
	switch d := math.Min(w, h); {
	case d > 40:
		return 8
	case d > 20:
		return 7
	default:
		return 6
	}
}
