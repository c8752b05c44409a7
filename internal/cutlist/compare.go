package cutlist

import (
	"fmt"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// Scenario is a named set of cut settings to try.
type Scenario struct {
	Name     string            `json:"name"`
	Settings model.CutSettings `json:"settings"`
}

// Comparison is the cut plan of one scenario with its headline numbers.
type Comparison struct {
	Scenario     Scenario      `json:"scenario"`
	Plan         model.CutPlan `json:"plan"`
	SheetsUsed   int           `json:"sheets_used"`
	Placed       int           `json:"placed"`
	Unplaced     int           `json:"unplaced"`
	WastePercent float64       `json:"waste_percent"`
	Cost         float64       `json:"cost"`
}

// Compare packs the panels once per scenario, in scenario order.
func Compare(scenarios []Scenario, panels []model.Panel, stocks []model.StockSheet) []Comparison {
	out := make([]Comparison, 0, len(scenarios))
	for _, sc := range scenarios {
		plan := New(sc.Settings).Pack(panels, stocks)
		out = append(out, Comparison{
			Scenario:     sc,
			Plan:         plan,
			SheetsUsed:   len(plan.Sheets),
			Placed:       plan.PlacedCount(),
			Unplaced:     len(plan.Unplaced),
			WastePercent: 100 - plan.TotalEfficiency(),
			Cost:         plan.TotalCost(),
		})
	}
	return out
}

// DefaultScenarios varies base: the other algorithm, half the kerf and no
// edge trim.
func DefaultScenarios(base model.CutSettings) []Scenario {
	scenarios := []Scenario{{Name: "Current Settings", Settings: base}}

	alt := base
	if base.Algorithm == model.AlgorithmGenetic {
		alt.Algorithm = model.AlgorithmGuillotine
		scenarios = append(scenarios, Scenario{Name: "Guillotine Algorithm", Settings: alt})
	} else {
		alt.Algorithm = model.AlgorithmGenetic
		scenarios = append(scenarios, Scenario{Name: "Genetic Algorithm", Settings: alt})
	}

	if base.KerfWidth > 1.0 {
		thin := base
		thin.KerfWidth = base.KerfWidth * 0.5
		scenarios = append(scenarios, Scenario{Name: fmt.Sprintf("Kerf %.1fmm (half)", thin.KerfWidth), Settings: thin})
	}
	if base.EdgeTrim > 0 {
		noTrim := base
		noTrim.EdgeTrim = 0
		scenarios = append(scenarios, Scenario{Name: "No Edge Trim", Settings: noTrim})
	}
	return scenarios
}

// Best returns the index of the comparison placing the most boards, then
// using the fewest sheets, then wasting the least. It returns -1 for none.
func Best(results []Comparison) int {
	best := -1
	for i, r := range results {
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		switch {
		case r.Placed != b.Placed:
			if r.Placed > b.Placed {
				best = i
			}
		case r.SheetsUsed != b.SheetsUsed:
			if r.SheetsUsed < b.SheetsUsed {
				best = i
			}
		case r.WastePercent < b.WastePercent:
			best = i
		}
	}
	return best
}
