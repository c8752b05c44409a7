package cutlist

const tolerance = 0.001

type rect struct {
	x, y, w, h float64
}

// guillotinePacker keeps the maximal free rectangles of one sheet and
// splits every free rectangle a placement overlaps.
type guillotinePacker struct {
	freeRects []rect
	kerf      float64
}

// insert places a w×h board using best area fit. The kerf is added to the
// right and bottom of the board.
func (gp *guillotinePacker) insert(w, h float64) (bool, float64, float64) {
	idx := gp.bestRect(w, h)
	if idx < 0 {
		return false, 0, 0
	}
	chosen := gp.freeRects[idx]
	gp.splitAroundPlacement(rect{x: chosen.x, y: chosen.y, w: w + gp.kerf, h: h + gp.kerf})
	return true, chosen.x, chosen.y
}

// bestFit returns the leftover area of the tightest free rectangle for a
// w×h board without placing it, or -1 when it does not fit.
func (gp *guillotinePacker) bestFit(w, h float64) float64 {
	idx := gp.bestRect(w, h)
	if idx < 0 {
		return -1
	}
	r := gp.freeRects[idx]
	return r.w*r.h - w*h
}

func (gp *guillotinePacker) bestRect(w, h float64) int {
	wk, hk := w+gp.kerf, h+gp.kerf
	best := -1
	bestFit := 0.0
	for i, r := range gp.freeRects {
		if wk > r.w+tolerance || hk > r.h+tolerance {
			continue
		}
		fit := r.w*r.h - w*h
		if best < 0 || fit < bestFit {
			best, bestFit = i, fit
		}
	}
	return best
}

func (gp *guillotinePacker) splitAroundPlacement(placed rect) {
	var next []rect
	for _, r := range gp.freeRects {
		if !rectsOverlap(r, placed) {
			next = append(next, r)
			continue
		}
		if placed.x > r.x+tolerance {
			next = append(next, rect{x: r.x, y: r.y, w: placed.x - r.x, h: r.h})
		}
		if right := placed.x + placed.w; right < r.x+r.w-tolerance {
			next = append(next, rect{x: right, y: r.y, w: r.x + r.w - right, h: r.h})
		}
		if placed.y > r.y+tolerance {
			next = append(next, rect{x: r.x, y: r.y, w: r.w, h: placed.y - r.y})
		}
		if bottom := placed.y + placed.h; bottom < r.y+r.h-tolerance {
			next = append(next, rect{x: r.x, y: bottom, w: r.w, h: r.y + r.h - bottom})
		}
	}
	gp.freeRects = pruneContained(next)
}

func rectsOverlap(a, b rect) bool {
	return a.x < b.x+b.w-tolerance && a.x+a.w > b.x+tolerance &&
		a.y < b.y+b.h-tolerance && a.y+a.h > b.y+tolerance
}

// pruneContained drops every rectangle lying inside another. Of identical
// rectangles the first is kept.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			if containsRect(a, b) && j > i {
				continue
			}
			contained = true
			break
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x+tolerance && outer.y <= inner.y+tolerance &&
		outer.x+outer.w >= inner.x+inner.w-tolerance &&
		outer.y+outer.h >= inner.y+inner.h-tolerance
}
