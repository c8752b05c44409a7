package model

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Offcut is a reusable remnant of a stock sheet left after cutting a plan.
type Offcut struct {
	ID         string  `json:"id"`
	SheetLabel string  `json:"sheet_label"`
	SheetIndex int     `json:"sheet_index"`
	X          float64 `json:"x"` // mm from left
	Y          float64 `json:"y"` // mm from top
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Value      float64 `json:"value"` // share of the sheet price, 0 when unpriced
}

// Area returns the offcut area in mm².
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// ToStockSheet turns the offcut into a single stock sheet for the next plan.
func (o Offcut) ToStockSheet() StockSheet {
	sheet := NewStockSheet("Offcut "+o.SheetLabel, o.Width, o.Height, 1)
	sheet.PricePerSheet = o.Value
	return sheet
}

// Remnants below these sizes are waste.
const (
	MinOffcutDimension = 50.0
	MinOffcutArea      = 10000.0
)

func usableRemnant(w, h float64) bool {
	return w >= MinOffcutDimension && h >= MinOffcutDimension && w*h >= MinOffcutArea
}

// Offcuts returns the strips to the right of and below the placed panels
// that are large enough to reuse, largest first.
func (sr SheetResult) Offcuts(index int, kerf float64) []Offcut {
	w, h := sr.Stock.Width, sr.Stock.Height
	newOffcut := func(x, y, ow, oh float64) Offcut {
		o := Offcut{
			ID:         uuid.New().String()[:8],
			SheetLabel: sr.Stock.Label,
			SheetIndex: index,
			X:          x,
			Y:          y,
			Width:      ow,
			Height:     oh,
		}
		if sr.Stock.PricePerSheet > 0 && w*h > 0 {
			o.Value = o.Area() / (w * h) * sr.Stock.PricePerSheet
		}
		return o
	}

	if len(sr.Placements) == 0 {
		return []Offcut{newOffcut(0, 0, w, h)}
	}

	var right, bottom float64
	for _, p := range sr.Placements {
		right = math.Max(right, p.X+p.PlacedWidth()+kerf)
		bottom = math.Max(bottom, p.Y+p.PlacedHeight()+kerf)
	}

	var out []Offcut
	if rw := w - right; usableRemnant(rw, h) {
		out = append(out, newOffcut(right, 0, rw, h))
	}
	// The bottom strip stops where the right strip starts.
	if bw, bh := math.Min(right, w), h-bottom; usableRemnant(bw, bh) {
		out = append(out, newOffcut(0, bottom, bw, bh))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Area() > out[j].Area()
	})
	return out
}

// Offcuts collects the reusable remnants of every sheet in the plan.
func (cp CutPlan) Offcuts(kerf float64) []Offcut {
	var all []Offcut
	for i, s := range cp.Sheets {
		all = append(all, s.Offcuts(i, kerf)...)
	}
	return all
}

// TotalOffcutArea returns the summed offcut area in mm².
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
