package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
)

// ErrRejected is returned when a design value is outside the closet's
// limits.
var ErrRejected = errors.New("value rejected")

// Design captures the closet's configuration into d, keeping d's identity
// fields.
func (c *Closet) Design(d model.Design) model.Design {
	d.Family = c.family.Name
	d.Layout = c.layout.Name
	d.Width = c.width
	d.Height = c.height
	d.Depth = c.depth
	d.InnerWalls = c.innerWalls
	d.TopOpen = c.topOpen
	d.BottomOpen = c.bottomOpen
	d.TopLeftDoors = copyBoolMap(c.topLeft)
	d.BottomLeftDoors = copyBoolMap(c.bottomLeft)
	d.TopOpenDoors = copyBoolMap(c.topOpenAt)
	d.BottomOpenDoors = copyBoolMap(c.bottomOpenAt)
	return d
}

func copyBoolMap(m map[int]bool) map[int]bool {
	if len(m) == 0 {
		return nil
	}
	cp := make(map[int]bool, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// Apply reconfigures the closet to match d. Every value is applied even
// when an earlier one is rejected; the returned error lists the rejected
// values.
func (c *Closet) Apply(d model.Design) error {
	if d.Family != "" && d.Family != c.family.Name {
		return fmt.Errorf("design family %s does not match closet family %s", d.Family, c.family.Name)
	}
	var errs []error
	if d.Layout != "" {
		l := c.family.Layout(d.Layout)
		if l == nil || !c.SwitchLayout(l) {
			errs = append(errs, fmt.Errorf("%w: layout %s", ErrRejected, d.Layout))
		}
	}
	if d.InnerWalls != c.innerWalls {
		c.SetInnerWalls(d.InnerWalls)
	}
	if d.Width != 0 && !c.SetWidth(d.Width) {
		errs = append(errs, fmt.Errorf("%w: width %v", ErrRejected, d.Width))
	}
	if d.Depth != 0 && !c.SetDepth(d.Depth) {
		errs = append(errs, fmt.Errorf("%w: depth %v", ErrRejected, d.Depth))
	}
	if d.Height != 0 && !c.SetHeight(d.Height) {
		errs = append(errs, fmt.Errorf("%w: height %v", ErrRejected, d.Height))
	}
	c.OpenAllTop(d.TopOpen)
	c.OpenAllBottom(d.BottomOpen)
	for i, open := range d.TopOpenDoors {
		c.OpenTopAt(i, open)
	}
	for i, open := range d.BottomOpenDoors {
		c.OpenBottomAt(i, open)
	}

	c.ClearHingeOverrides()
	for i, left := range d.TopLeftDoors {
		c.SwitchTopDoorToLeftAt(i, left)
	}
	for i, left := range d.BottomLeftDoors {
		c.SwitchBottomDoorToLeftAt(i, left)
	}
	return errors.Join(errs...)
}

// Build creates a closet for d from a resolved catalog.
func Build(cat *model.Catalog, d model.Design, provider part.Provider, opts ...Option) (*Closet, error) {
	family := cat.Family(d.Family)
	if family == nil {
		return nil, fmt.Errorf("unknown family %q", d.Family)
	}
	c, err := NewCloset(family, provider, cat.Limits, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create closet: %w", err)
	}
	if err := c.Apply(d); err != nil {
		c.RemoveFromScene()
		return nil, fmt.Errorf("failed to apply design %s: %w", d.Name, err)
	}
	return c, nil
}
