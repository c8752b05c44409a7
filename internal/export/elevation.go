package export

import (
	"fmt"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// Drawing layers.
const (
	LayerCarcass    = "CARCASS"
	LayerFronts     = "FRONTS"
	LayerShelves    = "SHELVES"
	LayerLegs       = "LEGS"
	LayerMolding    = "MOLDING"
	LayerDimensions = "DIMENSIONS"
)

const (
	legWidth      = 0.04
	frontGap      = 0.003
	moldingHeight = 0.03
)

// box is an axis-aligned rectangle of the front elevation in meters,
// y pointing up.
type box struct {
	x, y, w, h float64
	layer      string
	label      string
}

func (b box) right() float64 { return b.x + b.w }
func (b box) top() float64   { return b.y + b.h }

// elevation lays out the front view of a closet. Columns are centred on
// their position and units sit at their root height.
func elevation(s model.ClosetSnapshot) []box {
	var out []box
	for _, col := range s.Columns {
		left := col.Position.X - col.Width/2
		for _, u := range col.Units() {
			y := u.Position.Y
			out = append(out, box{x: left, y: y + u.LegHeight, w: u.Width, h: u.Height - u.LegHeight, layer: LayerCarcass, label: u.Type})
			if u.LegHeight > 0 {
				out = append(out,
					box{x: left, y: y, w: legWidth, h: u.LegHeight, layer: LayerLegs},
					box{x: left + u.Width - legWidth, y: y, w: legWidth, h: u.LegHeight, layer: LayerLegs},
				)
			}
			for _, sh := range u.Shelves {
				out = append(out, box{x: left + u.Thickness, y: y + sh, w: u.Width - 2*u.Thickness, h: u.Thickness, layer: LayerShelves})
			}
			if u.HasDoor {
				label := "R"
				if u.LeftDoor {
					label = "L"
				}
				out = append(out, box{
					x: left + frontGap, y: y + u.LegHeight + frontGap,
					w: u.Width - 2*frontGap, h: u.Height - u.LegHeight - 2*frontGap,
					layer: LayerFronts, label: label,
				})
			}
			for _, d := range u.Drawers {
				out = append(out, box{x: left + frontGap, y: d.Position.Y, w: u.Width - 2*frontGap, h: d.Height, layer: LayerFronts})
			}
		}
	}

	if len(s.Columns) > 0 {
		base := s.Columns[0].Position.Y - s.Position.Y
		for _, l := range s.Legs {
			if l.Position.Z < s.Position.Z {
				continue
			}
			out = append(out, box{x: l.Position.X - legWidth/2, y: s.Position.Y, w: legWidth, h: base, layer: LayerLegs})
		}
	}
	if s.Molding != nil {
		out = append(out, box{x: s.Position.X - s.Width/2, y: s.Molding.Position.Y, w: s.Width, h: moldingHeight, layer: LayerMolding})
	}
	return out
}

// bounds returns the extent of the boxes.
func bounds(boxes []box) (minX, minY, maxX, maxY float64) {
	for i, b := range boxes {
		if i == 0 || b.x < minX {
			minX = b.x
		}
		if i == 0 || b.y < minY {
			minY = b.y
		}
		if i == 0 || b.right() > maxX {
			maxX = b.right()
		}
		if i == 0 || b.top() > maxY {
			maxY = b.top()
		}
	}
	return
}

func mmLabel(m float64) string {
	return fmt.Sprintf("%.0f mm", m*1000)
}
