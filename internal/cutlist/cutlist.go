// Package cutlist turns a resolved closet into boards and packs them onto
// stock sheets.
package cutlist

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// Board labels.
const (
	LabelTop         = "Top"
	LabelBottom      = "Bottom"
	LabelBack        = "Back"
	LabelSide        = "Side"
	LabelShelf       = "Shelf"
	LabelDoor        = "Door"
	LabelDrawerFront = "Drawer front"
)

// mm converts meters to millimetres rounded to 0.1mm.
func mm(m float64) float64 {
	return math.Round(m*10000) / 10
}

type panelKey struct {
	unit, label string
	w, h        float64
}

// collector merges identical boards of the same unit type.
type collector struct {
	index  map[panelKey]int
	panels []model.Panel
}

func (c *collector) add(unit, label string, w, h float64, qty int, grain model.Grain, banding model.EdgeBanding) {
	if w <= 0 || h <= 0 || qty <= 0 {
		return
	}
	key := panelKey{unit, label, mm(w), mm(h)}
	if i, ok := c.index[key]; ok {
		c.panels[i].Quantity += qty
		return
	}
	p := model.NewPanel(label, key.w, key.h, qty)
	p.Unit = unit
	p.Grain = grain
	p.Banding = banding
	c.index[key] = len(c.panels)
	c.panels = append(c.panels, p)
}

// Panels derives the carcass boards of every unit in s. Horizontal boards
// are W×D with the front on the top edge; uprights are D×H with the front on
// the left edge. Glass sides are not boards and are skipped.
func Panels(s model.ClosetSnapshot) []model.Panel {
	c := &collector{index: map[panelKey]int{}}
	for _, col := range s.Columns {
		for _, u := range col.Units() {
			unitPanels(c, u)
		}
	}
	return c.panels
}

func unitPanels(c *collector, u model.UnitSnapshot) {
	t := u.Thickness
	box := u.Height - u.LegHeight
	front := model.EdgeBanding{Top: true}
	all := model.EdgeBanding{Top: true, Bottom: true, Left: true, Right: true}

	c.add(u.Type, LabelTop, u.Width, u.Depth, 1, model.GrainHorizontal, front)
	c.add(u.Type, LabelBottom, u.Width, u.Depth, 1, model.GrainHorizontal, front)
	c.add(u.Type, LabelBack, u.Width, box, 1, model.GrainVertical, model.EdgeBanding{})

	sides, doors := 0, 0
	for _, p := range u.Parts {
		switch p.Slot {
		case "left_wall", "right_wall":
			if !strings.Contains(p.Key, "glass") {
				sides++
			}
		case "door":
			doors++
		}
	}
	c.add(u.Type, LabelSide, u.Depth, box, sides, model.GrainVertical, model.EdgeBanding{Left: true})
	c.add(u.Type, LabelShelf, u.Width-2*t, u.Depth-t, len(u.Shelves), model.GrainHorizontal, front)
	c.add(u.Type, LabelDoor, u.Width, box, doors, model.GrainVertical, all)
	for _, d := range u.Drawers {
		c.add(u.Type, LabelDrawerFront, u.Width, d.Height, 1, model.GrainHorizontal, all)
	}
}

// Count returns the number of boards, quantities included.
func Count(panels []model.Panel) int {
	n := 0
	for _, p := range panels {
		n += p.Quantity
	}
	return n
}

// Describe renders a one-line summary such as "Side 400.0x1800.0 x2".
func Describe(p model.Panel) string {
	return fmt.Sprintf("%s %.1fx%.1f x%d", p.Label, p.Width, p.Height, p.Quantity)
}
