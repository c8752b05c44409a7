package model

import (
	"math"
	"strings"
)

// EdgeBanding marks which edges of a panel get banding tape. Top and Bottom
// run along the panel width, Left and Right along its height.
type EdgeBanding struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// HasAny reports whether any edge is banded.
func (e EdgeBanding) HasAny() bool {
	return e.Top || e.Bottom || e.Left || e.Right
}

// EdgeCount returns the number of banded edges.
func (e EdgeBanding) EdgeCount() int {
	n := 0
	for _, b := range []bool{e.Top, e.Bottom, e.Left, e.Right} {
		if b {
			n++
		}
	}
	return n
}

// LinearLength returns the banding length for one w x h panel in mm.
func (e EdgeBanding) LinearLength(w, h float64) float64 {
	var l float64
	if e.Top {
		l += w
	}
	if e.Bottom {
		l += w
	}
	if e.Left {
		l += h
	}
	if e.Right {
		l += h
	}
	return l
}

func (e EdgeBanding) String() string {
	var edges []string
	if e.Top {
		edges = append(edges, "T")
	}
	if e.Bottom {
		edges = append(edges, "B")
	}
	if e.Left {
		edges = append(edges, "L")
	}
	if e.Right {
		edges = append(edges, "R")
	}
	if len(edges) == 0 {
		return "none"
	}
	return strings.Join(edges, "+")
}

// EdgeBandingSummary holds the edge banding requirements of a panel list.
type EdgeBandingSummary struct {
	TotalLinearMM    float64 `json:"total_linear_mm"`     // Total banding length in mm (no waste)
	TotalLinearM     float64 `json:"total_linear_m"`      // Total banding length in meters (no waste)
	WastePercent     float64 `json:"waste_percent"`       // Waste percentage applied
	TotalWithWasteMM float64 `json:"total_with_waste_mm"` // Total with waste in mm
	TotalWithWasteM  float64 `json:"total_with_waste_m"`  // Total with waste in meters
	PanelCount       int     `json:"panel_count"`         // Number of individual pieces needing banding
	EdgeCount        int     `json:"edge_count"`          // Total number of edges needing banding
}

// CalculateEdgeBanding computes the total edge banding needed for a list of panels.
// wastePercent is the additional percentage to add for waste (e.g., 10 for 10%).
func CalculateEdgeBanding(panels []Panel, wastePercent float64) EdgeBandingSummary {
	var totalMM float64
	var panelCount, edgeCount int

	for _, p := range panels {
		if !p.Banding.HasAny() {
			continue
		}
		totalMM += p.Banding.LinearLength(p.Width, p.Height) * float64(p.Quantity)
		panelCount += p.Quantity
		edgeCount += p.Banding.EdgeCount() * p.Quantity
	}

	withWaste := math.Ceil(totalMM * (1.0 + wastePercent/100.0))

	return EdgeBandingSummary{
		TotalLinearMM:    totalMM,
		TotalLinearM:     totalMM / 1000.0,
		WastePercent:     wastePercent,
		TotalWithWasteMM: withWaste,
		TotalWithWasteM:  withWaste / 1000.0,
		PanelCount:       panelCount,
		EdgeCount:        edgeCount,
	}
}

// PanelEdgeBanding is the banding need of one panel line.
type PanelEdgeBanding struct {
	Label         string  `json:"label"`
	Unit          string  `json:"unit"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Quantity      int     `json:"quantity"`
	Edges         string  `json:"edges"`           // e.g., "T+B+L+R"
	LengthPerUnit float64 `json:"length_per_unit"` // mm per piece
	TotalLength   float64 `json:"total_length"`    // mm for all pieces
}

// CalculatePerPanelEdgeBanding returns a breakdown of banding per panel line.
func CalculatePerPanelEdgeBanding(panels []Panel) []PanelEdgeBanding {
	var results []PanelEdgeBanding
	for _, p := range panels {
		if !p.Banding.HasAny() {
			continue
		}
		perUnit := p.Banding.LinearLength(p.Width, p.Height)
		results = append(results, PanelEdgeBanding{
			Label:         p.Label,
			Unit:          p.Unit,
			Width:         p.Width,
			Height:        p.Height,
			Quantity:      p.Quantity,
			Edges:         p.Banding.String(),
			LengthPerUnit: perUnit,
			TotalLength:   perUnit * float64(p.Quantity),
		})
	}
	return results
}
