package cutlist

import (
	"sort"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// Packer runs the 2D guillotine bin packing of boards onto stock sheets.
type Packer struct {
	Settings model.CutSettings
}

func New(settings model.CutSettings) *Packer {
	return &Packer{Settings: settings}
}

// orientations reports how a board may lie on a sheet whose grain runs
// along its width.
func orientations(g model.Grain) (normal, rotated bool) {
	switch g {
	case model.GrainHorizontal:
		return true, false
	case model.GrainVertical:
		return false, true
	default:
		return true, true
	}
}

// Pack places the boards on the stock sheets, largest first, opening a new
// sheet whenever the current one is full.
// With the genetic algorithm selected the order and rotations are evolved
// instead.
func (p *Packer) Pack(panels []model.Panel, stocks []model.StockSheet) model.CutPlan {
	pool := expandStocks(stocks)
	expanded, oversize := p.splitOversize(expandPanels(panels), pool)
	plan := p.pack(expanded, pool)
	plan.Unplaced = append(plan.Unplaced, oversize...)
	return plan
}

func (p *Packer) pack(expanded []model.Panel, pool []model.StockSheet) model.CutPlan {
	if p.Settings.Algorithm == model.AlgorithmGenetic && len(expanded) > 0 && len(pool) > 0 {
		return p.packGenetic(expanded, pool)
	}
	sort.SliceStable(expanded, func(i, j int) bool {
		return expanded[i].Area() > expanded[j].Area()
	})

	plan := model.CutPlan{}
	remaining := expanded
	for len(remaining) > 0 && len(pool) > 0 {
		idx := p.selectBestStock(pool, remaining)
		if idx < 0 {
			break
		}
		stock := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		sheet, unplaced := p.packSheetBestStrategy(stock, remaining)
		if len(sheet.Placements) > 0 {
			plan.Sheets = append(plan.Sheets, sheet)
		}
		remaining = unplaced
	}
	plan.Unplaced = remaining
	return plan
}

// splitOversize separates the boards that fit no stock sheet at all, so
// they cannot stop the packing of the rest. Without stock every board is
// kept for the packer to report.
func (p *Packer) splitOversize(panels []model.Panel, pool []model.StockSheet) (fit, oversize []model.Panel) {
	if len(pool) == 0 {
		return panels, nil
	}
	for _, pn := range panels {
		ok := false
		for _, s := range pool {
			if p.fits(pn, s) {
				ok = true
				break
			}
		}
		if ok {
			fit = append(fit, pn)
		} else {
			oversize = append(oversize, pn)
		}
	}
	return fit, oversize
}

func expandPanels(panels []model.Panel) []model.Panel {
	var expanded []model.Panel
	for _, pn := range panels {
		for i := 0; i < pn.Quantity; i++ {
			cp := pn
			cp.Quantity = 1
			expanded = append(expanded, cp)
		}
	}
	return expanded
}

func expandStocks(stocks []model.StockSheet) []model.StockSheet {
	var pool []model.StockSheet
	for _, s := range stocks {
		for i := 0; i < s.Quantity; i++ {
			cp := s
			cp.Quantity = 1
			pool = append(pool, cp)
		}
	}
	return pool
}

type rotationStrategy int

const (
	rotBestFit    rotationStrategy = iota // tighter of both orientations
	rotAllNormal                          // normal first, rotated as fallback
	rotAllRotated                         // rotated first, normal as fallback
)

// packSheetBestStrategy packs one sheet with every strategy and keeps the
// one placing the most boards, then the most efficient.
func (p *Packer) packSheetBestStrategy(stock model.StockSheet, panels []model.Panel) (model.SheetResult, []model.Panel) {
	var best model.SheetResult
	var bestUnplaced []model.Panel
	bestPlaced := -1

	for _, strat := range []rotationStrategy{rotBestFit, rotAllNormal, rotAllRotated} {
		sheet, unplaced := p.packSheet(stock, panels, strat)
		placed := len(sheet.Placements)
		if placed > bestPlaced || (placed == bestPlaced && placed > 0 && sheet.Efficiency() > best.Efficiency()) {
			bestPlaced = placed
			best = sheet
			bestUnplaced = unplaced
		}
	}
	return best, bestUnplaced
}

func (p *Packer) newSheetPacker(stock model.StockSheet) *guillotinePacker {
	trim := p.Settings.EdgeTrim
	return &guillotinePacker{
		freeRects: []rect{{x: trim, y: trim, w: stock.Width - 2*trim, h: stock.Height - 2*trim}},
		kerf:      p.Settings.KerfWidth,
	}
}

func (p *Packer) packSheet(stock model.StockSheet, panels []model.Panel, strategy rotationStrategy) (model.SheetResult, []model.Panel) {
	sheet := model.SheetResult{Stock: stock}
	packer := p.newSheetPacker(stock)
	var unplaced []model.Panel

	place := func(pn model.Panel, rotated bool) bool {
		w, h := pn.Width, pn.Height
		if rotated {
			w, h = h, w
		}
		ok, x, y := packer.insert(w, h)
		if ok {
			sheet.Placements = append(sheet.Placements, model.Placement{Panel: pn, X: x, Y: y, Rotated: rotated})
		}
		return ok
	}

	for _, pn := range panels {
		canNormal, canRotated := orientations(pn.Grain)
		square := pn.Width == pn.Height
		placed := false

		switch strategy {
		case rotAllRotated:
			if canRotated && !square {
				placed = place(pn, true)
			}
			if !placed && canNormal {
				placed = place(pn, false)
			}
			if !placed && canRotated && square {
				placed = place(pn, true)
			}

		case rotBestFit:
			if canNormal && canRotated && !square {
				normalFit := packer.bestFit(pn.Width, pn.Height)
				rotatedFit := packer.bestFit(pn.Height, pn.Width)
				if rotatedFit >= 0 && (normalFit < 0 || rotatedFit < normalFit) {
					placed = place(pn, true)
				} else if normalFit >= 0 {
					placed = place(pn, false)
				}
			}
			if !placed && canNormal {
				placed = place(pn, false)
			}
			if !placed && canRotated {
				placed = place(pn, true)
			}

		default:
			if canNormal {
				placed = place(pn, false)
			}
			if !placed && canRotated {
				placed = place(pn, true)
			}
		}

		if !placed {
			unplaced = append(unplaced, pn)
		}
	}
	return sheet, unplaced
}

// fits reports whether pn fits an empty stock sheet in an allowed
// orientation.
func (p *Packer) fits(pn model.Panel, stock model.StockSheet) bool {
	uw := stock.Width - 2*p.Settings.EdgeTrim
	uh := stock.Height - 2*p.Settings.EdgeTrim
	kerf := p.Settings.KerfWidth
	canNormal, canRotated := orientations(pn.Grain)
	return (canNormal && pn.Width+kerf <= uw+0.001 && pn.Height+kerf <= uh+0.001) ||
		(canRotated && pn.Height+kerf <= uw+0.001 && pn.Width+kerf <= uh+0.001)
}

// selectBestStock picks, among the sheets that can hold the largest
// remaining board, the one whose trial packing is most efficient. It
// returns -1 when no sheet can hold that board.
func (p *Packer) selectBestStock(stocks []model.StockSheet, panels []model.Panel) int {
	if len(stocks) == 0 || len(panels) == 0 {
		return -1
	}

	largest := panels[0]
	for _, pn := range panels[1:] {
		if pn.Area() > largest.Area() {
			largest = pn
		}
	}

	var candidates []int
	for i, s := range stocks {
		if p.fits(largest, s) {
			candidates = append(candidates, i)
		}
	}
	switch len(candidates) {
	case 0:
		return -1
	case 1:
		return candidates[0]
	}

	type size struct{ w, h float64 }
	seen := map[size]bool{}
	bestIdx, bestScore := -1, -1.0
	for _, idx := range candidates {
		s := stocks[idx]
		key := size{s.Width, s.Height}
		if seen[key] || s.Width*s.Height == 0 {
			continue
		}
		seen[key] = true

		packer := p.newSheetPacker(s)
		var area float64
		for _, pn := range panels {
			canNormal, canRotated := orientations(pn.Grain)
			if canNormal {
				if ok, _, _ := packer.insert(pn.Width, pn.Height); ok {
					area += pn.Area()
					continue
				}
			}
			if canRotated {
				if ok, _, _ := packer.insert(pn.Height, pn.Width); ok {
					area += pn.Area()
				}
			}
		}
		if score := area / (s.Width * s.Height); score > bestScore {
			bestScore = score
			bestIdx = idx
		}
	}
	if bestIdx < 0 {
		return candidates[0]
	}
	return bestIdx
}
