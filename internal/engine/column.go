package engine

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
	"github.com/piwi3910/ClosetCraft/internal/scene"
)

// Column is one vertical slice of a closet: a bottom stack and an optional
// top stack of units sharing a width.
type Column struct {
	name   string
	layout *model.Layout
	limits model.Limits

	bottom []*Unit
	top    []*Unit

	width        float64
	height       float64
	bottomHeight float64
	topHeight    float64
	position     r3.Vec

	role  model.EdgeRole
	hinge model.HingeSide
	added bool
}

// NewColumn builds every unit of the layout and splits the nominal stack
// height according to the layout policy.
func NewColumn(name string, layout *model.Layout, arena *part.Arena, limits model.Limits) *Column {
	c := &Column{
		name:   name,
		layout: layout,
		limits: limits,
		hinge:  model.HingeLeft,
	}
	seen := map[string]int{}
	build := func(types []*model.UnitType) []*Unit {
		units := make([]*Unit, 0, len(types))
		for i, typ := range types {
			unitName := name + typ.Name
			if n := seen[typ.Name]; n > 0 {
				unitName = fmt.Sprintf("%s%d", unitName, n)
			}
			seen[typ.Name]++
			units = append(units, NewUnit(unitName, typ, arena, limits, i%2 == 0))
		}
		return units
	}
	c.bottom = build(layout.BottomUnits)
	c.top = build(layout.TopUnits)

	if len(c.bottom) > 0 {
		c.width = c.bottom[0].Width()
	}
	c.bottomHeight = stackHeight(c.bottom)
	c.topHeight = stackHeight(c.top)
	c.height = c.bottomHeight + c.topHeight
	c.SetHeight(c.height)
	return c
}

func stackHeight(units []*Unit) float64 {
	h := 0.0
	for _, u := range units {
		h += u.Height()
	}
	return h
}

// Name is the column's name, shared by its units as a prefix.
func (c *Column) Name() string { return c.name }

// Layout returns the layout the column was built from.
func (c *Column) Layout() *model.Layout { return c.layout }

func (c *Column) Width() float64        { return c.width }
func (c *Column) Height() float64       { return c.height }
func (c *Column) BottomHeight() float64 { return c.bottomHeight }
func (c *Column) TopHeight() float64    { return c.topHeight }
func (c *Column) Position() r3.Vec      { return c.position }

// Role returns the edge role last applied.
func (c *Column) Role() model.EdgeRole { return c.role }

// Hinge returns the hinge side of the first unit in each stack.
func (c *Column) Hinge() model.HingeSide { return c.hinge }

// Bottom returns the bottom stack, lowest first.
func (c *Column) Bottom() []*Unit { return c.bottom }

// Top returns the top stack, lowest first.
func (c *Column) Top() []*Unit { return c.top }

// Units returns bottom then top units.
func (c *Column) Units() []*Unit {
	out := make([]*Unit, 0, len(c.bottom)+len(c.top))
	out = append(out, c.bottom...)
	return append(out, c.top...)
}

// SetWidth fans w out to every unit. Widths above the column limit are
// ignored.
func (c *Column) SetWidth(w float64) bool {
	if w <= 0 || w > c.limits.MaxColumnWidth {
		return false
	}
	for _, u := range c.Units() {
		u.SetWidth(w)
	}
	c.width = w
	return true
}

// HeightValid reports whether h is inside the height range for the
// column's layout.
func (c *Column) HeightValid(h float64) bool {
	return c.limits.ColumnRange(c.layout.TwoPart()).Contains(h)
}

// SetHeight splits h between the stacks, spreads each stack delta evenly
// over its units and restacks. Nothing changes unless every unit accepts
// its new height.
func (c *Column) SetHeight(h float64) bool {
	if !c.HeightValid(h) {
		return false
	}
	bottom := c.layout.Split.BottomHeight(h)
	top := h - bottom
	if len(c.top) == 0 {
		bottom, top = h, 0
	} else if bottom <= 0 || top <= 0 {
		return false
	}

	bottomPer := perUnit(bottom-c.bottomHeight, len(c.bottom))
	topPer := perUnit(top-c.topHeight, len(c.top))
	for _, u := range c.bottom {
		if !u.Type().HeightAllowed(u.Height() + bottomPer) {
			return false
		}
	}
	for _, u := range c.top {
		if !u.Type().HeightAllowed(u.Height() + topPer) {
			return false
		}
	}

	for _, u := range c.bottom {
		u.SetHeight(u.Height() + bottomPer)
	}
	for _, u := range c.top {
		u.SetHeight(u.Height() + topPer)
	}
	c.height = h
	c.bottomHeight = bottom
	c.topHeight = top
	c.Stack(c.position)
	return true
}

func perUnit(delta float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return delta / float64(n)
}

// SetDepth fans d out to every unit.
func (c *Column) SetDepth(d float64) bool {
	if d <= 0 {
		return false
	}
	for _, u := range c.Units() {
		u.SetDepth(d)
	}
	return true
}

// Stack places the units bottom to top starting at pos.
func (c *Column) Stack(pos r3.Vec) {
	c.position = pos
	y := pos.Y
	for _, u := range c.Units() {
		u.SetPosition(r3.Vec{X: pos.X, Y: y, Z: pos.Z})
		y += u.Height()
	}
}

// ApplyRole shows or hides walls and legs for the column's place in the
// row and hinges its doors per the layout's convention.
func (c *Column) ApplyRole(role model.EdgeRole, index int, innerWalls bool) {
	c.role = role
	for _, u := range c.Units() {
		switch role {
		case model.RoleSingle:
			u.ShowLeftWall(true)
			u.ShowLeftLegs(true)
			u.ShowRightWall(true)
			u.ShowRightLegs(true)
			u.SwapLeftLegsWithCenter(false)
			u.SwapRightLegsWithCenter(false)
		case model.RoleLeft:
			u.ShowLeftWall(true)
			u.ShowLeftLegs(true)
			u.ShowRightWall(innerWalls)
			u.ShowRightLegs(true)
			u.SwapLeftLegsWithCenter(false)
			u.SwapRightLegsWithCenter(true)
		case model.RoleMiddle:
			u.ShowLeftWall(false)
			u.ShowLeftLegs(false)
			u.ShowRightWall(innerWalls)
			u.ShowRightLegs(true)
			u.SwapRightLegsWithCenter(true)
		case model.RoleRight:
			u.ShowLeftWall(false)
			u.ShowLeftLegs(false)
			u.ShowRightWall(true)
			u.ShowRightLegs(true)
			u.SwapRightLegsWithCenter(false)
		}
	}
	c.SetHinge(c.layout.Hinges.ForRole(role, index))
}

// SetHinge hinges the first unit of each stack on side; units above it
// alternate.
func (c *Column) SetHinge(side model.HingeSide) {
	c.hinge = side
	hingeStack(c.bottom, side.Left())
	hingeStack(c.top, side.Left())
}

func hingeStack(units []*Unit, left bool) {
	for i, u := range units {
		u.SwitchToLeftDoor(left == (i%2 == 0))
	}
}

// SwitchTopDoorToLeft hinges the top stack on the left or right.
func (c *Column) SwitchTopDoorToLeft(left bool) { hingeStack(c.top, left) }

// SwitchBottomDoorToLeft hinges the bottom stack on the left or right.
func (c *Column) SwitchBottomDoorToLeft(left bool) { hingeStack(c.bottom, left) }

// OpenTop opens or closes every top door.
func (c *Column) OpenTop(open bool) {
	for _, u := range c.top {
		u.SetOpen(open)
	}
}

// OpenBottom opens or closes every bottom door.
func (c *Column) OpenBottom(open bool) {
	for _, u := range c.bottom {
		u.SetOpen(open)
	}
}

// TopOpen reports whether any top door is open.
func (c *Column) TopOpen() bool { return anyOpen(c.top) }

// BottomOpen reports whether any bottom door is open.
func (c *Column) BottomOpen() bool { return anyOpen(c.bottom) }

func anyOpen(units []*Unit) bool {
	for _, u := range units {
		if u.IsOpen() {
			return true
		}
	}
	return false
}

// AddToScene registers every unit once.
func (c *Column) AddToScene(reg scene.Registry) {
	if c.added || reg == nil {
		return
	}
	for _, u := range c.Units() {
		reg.Register(u)
	}
	c.added = true
}

// RemoveFromScene deregisters every unit once.
func (c *Column) RemoveFromScene(reg scene.Registry) {
	if !c.added || reg == nil {
		return
	}
	for _, u := range c.Units() {
		reg.Unregister(u.Name())
	}
	c.added = false
}

// Release frees every part owned by the column's units.
func (c *Column) Release() {
	for _, u := range c.Units() {
		u.Release()
	}
	c.bottom, c.top = nil, nil
}

// Snapshot describes the column's resolved state.
func (c *Column) Snapshot() model.ColumnSnapshot {
	s := model.ColumnSnapshot{
		Name:         c.name,
		Role:         c.role,
		Width:        c.width,
		Height:       c.height,
		BottomHeight: c.bottomHeight,
		TopHeight:    c.topHeight,
		Position:     c.position,
	}
	for _, u := range c.bottom {
		s.Bottom = append(s.Bottom, u.Snapshot())
	}
	for _, u := range c.top {
		s.Top = append(s.Top, u.Snapshot())
	}
	return s
}
