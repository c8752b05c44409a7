package export

import (
	"fmt"
	"io"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

var dxfLayers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerCarcass, color.White},
	{LayerFronts, color.Cyan},
	{LayerShelves, color.Yellow},
	{LayerLegs, color.Magenta},
	{LayerMolding, color.Green},
	{LayerDimensions, color.Red},
}

const (
	dxfTextHeight = 25.0
	dxfDimOffset  = 80.0
)

// ExportDXF writes the front elevation of s to path.
func ExportDXF(path string, s model.ClosetSnapshot) error {
	return writeFile(path, func(w io.Writer) error { return WriteDXF(w, s) })
}

// WriteDXF writes the front elevation of s in millimeters, one layer per
// part group, with overall width and height dimensions.
func WriteDXF(w io.Writer, s model.ClosetSnapshot) error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("closet has no columns to draw")
	}
	d := dxf.NewDrawing()
	for _, l := range dxfLayers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	boxes := elevation(s)
	for _, b := range boxes {
		if err := d.ChangeLayer(b.layer); err != nil {
			return fmt.Errorf("failed to select layer %s: %w", b.layer, err)
		}
		if err := rectangle(d, b.x*1000, b.y*1000, b.right()*1000, b.top()*1000); err != nil {
			return err
		}
		if b.label != "" {
			if _, err := d.Text(b.label, (b.x+b.w/2)*1000, (b.y+b.h/2)*1000, 0, dxfTextHeight); err != nil {
				return fmt.Errorf("failed to add label: %w", err)
			}
		}
	}

	minX, minY, maxX, maxY := bounds(boxes)
	if err := d.ChangeLayer(LayerDimensions); err != nil {
		return fmt.Errorf("failed to select dimension layer: %w", err)
	}
	x0, y0, x1, y1 := minX*1000, minY*1000, maxX*1000, maxY*1000
	if _, err := d.Line(x0, y0-dxfDimOffset, 0, x1, y0-dxfDimOffset, 0); err != nil {
		return fmt.Errorf("failed to add width dimension: %w", err)
	}
	if _, err := d.Text(mmLabel(maxX-minX), (x0+x1)/2, y0-dxfDimOffset-2*dxfTextHeight, 0, dxfTextHeight); err != nil {
		return fmt.Errorf("failed to add width dimension: %w", err)
	}
	if _, err := d.Line(x1+dxfDimOffset, y0, 0, x1+dxfDimOffset, y1, 0); err != nil {
		return fmt.Errorf("failed to add height dimension: %w", err)
	}
	if _, err := d.Text(mmLabel(maxY-minY), x1+dxfDimOffset+dxfTextHeight, (y0+y1)/2, 0, dxfTextHeight); err != nil {
		return fmt.Errorf("failed to add height dimension: %w", err)
	}

	if _, err := d.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

func rectangle(d *drawing.Drawing, x0, y0, x1, y1 float64) error {
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	for i, c := range corners {
		n := corners[(i+1)%len(corners)]
		if _, err := d.Line(c[0], c[1], 0, n[0], n[1], 0); err != nil {
			return fmt.Errorf("failed to add line: %w", err)
		}
	}
	return nil
}
