package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
	"github.com/piwi3910/ClosetCraft/internal/scene"
)

// Option configures a Closet.
type Option func(*Closet)

// WithRegistry publishes units and the base to reg after every structural
// change.
func WithRegistry(reg scene.Registry) Option {
	return func(c *Closet) { c.registry = reg }
}

// WithLogger sets the logger used for rejected edits and rebuilds.
func WithLogger(l *slog.Logger) Option {
	return func(c *Closet) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInnerWalls shows a wall between every pair of adjacent columns.
func WithInnerWalls(on bool) Option {
	return func(c *Closet) { c.innerWalls = on }
}

// WithPosition places the closet's bottom centre at pos.
func WithPosition(pos r3.Vec) Option {
	return func(c *Closet) { c.position = pos }
}

// ColumnCount returns how many columns a closet of width w needs when no
// column may be wider than maxColumn.
func ColumnCount(w, maxColumn float64) int {
	return int(math.Trunc(w/maxColumn + 1))
}

// Closet is a row of columns built from one layout of a family.
type Closet struct {
	family *model.Family
	layout *model.Layout
	limits model.Limits
	arena  *part.Arena

	registry scene.Registry
	logger   *slog.Logger

	columns    []*Column
	base       *base
	baseAdded  bool
	innerWalls bool
	position   r3.Vec

	width  float64
	height float64
	depth  float64

	topOpen    bool
	bottomOpen bool
	topLeft    map[int]bool
	bottomLeft map[int]bool
	// Per-column door state set after the last OpenAll call.
	topOpenAt    map[int]bool
	bottomOpenAt map[int]bool
}

// NewCloset builds a closet of minimum width with the family's default
// layout.
func NewCloset(family *model.Family, provider part.Provider, limits model.Limits, opts ...Option) (*Closet, error) {
	if family == nil {
		return nil, errors.New("closet needs a family")
	}
	layout := family.Default()
	if layout == nil {
		return nil, fmt.Errorf("family %s has no layouts", family.Name)
	}
	if len(layout.BottomUnits) == 0 {
		return nil, fmt.Errorf("layout %s is not resolved", layout.Name)
	}
	c := &Closet{
		family:       family,
		layout:       layout,
		limits:       limits,
		arena:        part.NewArena(provider),
		logger:       slog.New(slog.DiscardHandler),
		topLeft:      map[int]bool{},
		bottomLeft:   map[int]bool{},
		topOpenAt:    map[int]bool{},
		bottomOpenAt: map[int]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.depth = layout.BottomUnits[0].Depth
	c.height = layout.NominalHeight()
	c.rebuildBase()
	if !c.SetWidth(limits.MinWidth) {
		return nil, fmt.Errorf("invalid minimum width %v", limits.MinWidth)
	}
	if h := c.columns[0].Height(); h != c.height {
		c.height = h
		c.arrange(-1)
	}
	return c, nil
}

func (c *Closet) Width() float64  { return c.width }
func (c *Closet) Height() float64 { return c.height }
func (c *Closet) Depth() float64  { return c.depth }

// Family returns the closet's family.
func (c *Closet) Family() *model.Family { return c.family }

// Layout returns the active layout.
func (c *Closet) Layout() *model.Layout { return c.layout }

// Limits returns the dimension limits the closet enforces.
func (c *Closet) Limits() model.Limits { return c.limits }

// Columns returns the columns left to right.
func (c *Closet) Columns() []*Column { return c.columns }

// InnerWalls reports whether walls are shown between columns.
func (c *Closet) InnerWalls() bool { return c.innerWalls }

// Arena exposes the part arena backing the closet.
func (c *Closet) Arena() *part.Arena { return c.arena }

// Position returns the closet's bottom centre.
func (c *Closet) Position() r3.Vec { return c.position }

// ColumnWidth returns the width shared by every column.
func (c *Closet) ColumnWidth() float64 {
	if len(c.columns) == 0 {
		return 0
	}
	return c.width / float64(len(c.columns))
}

// SetWidth derives the column count for w, adds or drops trailing
// columns, and repositions everything. Widths outside the family limits
// are ignored.
func (c *Closet) SetWidth(w float64) bool {
	if !c.limits.WidthValid(w) {
		c.logger.Debug("width rejected", "width", w, "min", c.limits.MinWidth, "max", c.limits.MaxWidth)
		return false
	}
	n := ColumnCount(w, c.limits.MaxColumnWidth)
	columnWidth := w / float64(n)

	for len(c.columns) > n {
		last := c.columns[len(c.columns)-1]
		last.RemoveFromScene(c.registry)
		last.Release()
		c.columns = c.columns[:len(c.columns)-1]
		delete(c.topLeft, len(c.columns))
		delete(c.bottomLeft, len(c.columns))
		delete(c.topOpenAt, len(c.columns))
		delete(c.bottomOpenAt, len(c.columns))
	}
	for len(c.columns) < n {
		col := c.newColumn(len(c.columns))
		c.columns = append(c.columns, col)
	}
	for _, col := range c.columns {
		col.SetWidth(columnWidth)
	}
	if c.width != w {
		c.logger.Debug("width set", "width", w, "columns", n)
	}
	c.width = w
	c.arrange(n)
	return true
}

// newColumn builds column index matching the closet's current height,
// depth and door state.
func (c *Closet) newColumn(index int) *Column {
	col := NewColumn(fmt.Sprintf("Column%d", index), c.layout, c.arena, c.limits)
	if c.height > 0 {
		col.SetHeight(c.height)
	}
	col.SetDepth(c.depth)
	col.OpenTop(c.topOpen)
	col.OpenBottom(c.bottomOpen)
	return col
}

// arrange re-runs roles, hinge overrides, positions and registration.
// columns < 0 leaves the center leg count unchanged.
func (c *Closet) arrange(columns int) {
	n := len(c.columns)
	for i, col := range c.columns {
		col.ApplyRole(model.RoleFor(i, n), i, c.innerWalls)
		if left, ok := c.topLeft[i]; ok {
			col.SwitchTopDoorToLeft(left)
		}
		if left, ok := c.bottomLeft[i]; ok {
			col.SwitchBottomDoorToLeft(left)
		}
	}
	c.restack()
	if c.base != nil {
		c.base.place(c.position, c.width, c.height, c.depth, columns)
	}
	c.register()
}

// restack centres the columns on the closet position.
func (c *Closet) restack() {
	n := len(c.columns)
	if n == 0 {
		return
	}
	cw := c.ColumnWidth()
	y := c.position.Y
	if c.layout.Base != nil {
		y += c.layout.Base.Height
	}
	x := c.position.X - cw/2*float64(n-1)
	for i, col := range c.columns {
		col.Stack(r3.Vec{X: x + float64(i)*cw, Y: y, Z: c.position.Z})
	}
}

func (c *Closet) register() {
	if c.registry == nil {
		return
	}
	for _, col := range c.columns {
		col.AddToScene(c.registry)
	}
	if c.base != nil && !c.baseAdded {
		c.registry.Register(c.base)
		c.baseAdded = true
	}
}

// SetHeight fans h out to every column. Heights outside the layout's range
// are ignored.
func (c *Closet) SetHeight(h float64) bool {
	if len(c.columns) == 0 || !c.columns[0].HeightValid(h) {
		c.logger.Debug("height rejected", "height", h, "layout", c.layout.Name)
		return false
	}
	for _, col := range c.columns {
		if !col.SetHeight(h) {
			c.logger.Debug("height rejected by column", "height", h, "column", col.Name())
			return false
		}
	}
	c.height = h
	c.restack()
	if c.base != nil {
		c.base.place(c.position, c.width, c.height, c.depth, -1)
	}
	return true
}

// SetDepth fans d out to every column and repositions the legs. Depths
// outside the family limits are ignored.
func (c *Closet) SetDepth(d float64) bool {
	if !c.limits.DepthValid(d) {
		c.logger.Debug("depth rejected", "depth", d)
		return false
	}
	for _, col := range c.columns {
		col.SetDepth(d)
	}
	c.depth = d
	if c.base != nil {
		c.base.place(c.position, c.width, c.height, c.depth, -1)
	}
	return true
}

// SetPosition moves the closet's bottom centre to pos.
func (c *Closet) SetPosition(pos r3.Vec) {
	c.position = pos
	c.restack()
	if c.base != nil {
		c.base.place(c.position, c.width, c.height, c.depth, -1)
	}
}

// SetInnerWalls shows or hides walls between adjacent columns.
func (c *Closet) SetInnerWalls(on bool) {
	c.innerWalls = on
	c.arrange(-1)
}

// SwitchLayout rebuilds every column with layout, keeping names, widths,
// positions and door state. Layouts outside the family are ignored.
func (c *Closet) SwitchLayout(layout *model.Layout) bool {
	if !c.family.Supports(layout) {
		c.logger.Debug("layout rejected", "family", c.family.Name)
		return false
	}
	if layout == c.layout {
		return true
	}
	n := len(c.columns)
	for _, col := range c.columns {
		col.RemoveFromScene(c.registry)
		col.Release()
	}
	c.layout = layout
	c.rebuildBase()

	height := c.height
	c.columns = make([]*Column, 0, n)
	c.height = 0
	for i := 0; i < n; i++ {
		c.columns = append(c.columns, c.newColumn(i))
	}
	cw := c.width / float64(n)
	for _, col := range c.columns {
		col.SetWidth(cw)
	}
	c.height = c.columns[0].Height()
	if c.columns[0].HeightValid(height) {
		for _, col := range c.columns {
			col.SetHeight(height)
		}
		c.height = height
	}
	for i, open := range c.topOpenAt {
		c.columns[i].OpenTop(open)
	}
	for i, open := range c.bottomOpenAt {
		c.columns[i].OpenBottom(open)
	}
	c.logger.Info("layout switched", "layout", layout.Name, "columns", n)
	c.arrange(n)
	return true
}

// rebuildBase replaces the base to match the active layout.
func (c *Closet) rebuildBase() {
	if c.base != nil {
		if c.baseAdded && c.registry != nil {
			c.registry.Unregister(c.base.Name())
		}
		c.base.release()
		c.base, c.baseAdded = nil, false
	}
	if c.layout.Base != nil {
		c.base = newBase(c.layout.Base, c.arena)
	}
}

// OpenAllTop opens or closes every top door.
func (c *Closet) OpenAllTop(open bool) {
	c.topOpen = open
	c.topOpenAt = map[int]bool{}
	for _, col := range c.columns {
		col.OpenTop(open)
	}
}

// OpenAllBottom opens or closes every bottom door.
func (c *Closet) OpenAllBottom(open bool) {
	c.bottomOpen = open
	c.bottomOpenAt = map[int]bool{}
	for _, col := range c.columns {
		col.OpenBottom(open)
	}
}

func (c *Closet) column(i int) *Column {
	if i < 0 || i >= len(c.columns) {
		return nil
	}
	return c.columns[i]
}

// OpenTopAt opens or closes the top doors of column i. The state is kept
// across layout switches until the next OpenAllTop.
func (c *Closet) OpenTopAt(i int, open bool) bool {
	col := c.column(i)
	if col == nil {
		return false
	}
	c.topOpenAt[i] = open
	col.OpenTop(open)
	return true
}

// OpenBottomAt opens or closes the bottom doors of column i.
func (c *Closet) OpenBottomAt(i int, open bool) bool {
	col := c.column(i)
	if col == nil {
		return false
	}
	c.bottomOpenAt[i] = open
	col.OpenBottom(open)
	return true
}

// SwitchTopDoorToLeftAt overrides the top hinge side of column i. The
// override survives width and layout changes while the column exists.
func (c *Closet) SwitchTopDoorToLeftAt(i int, left bool) bool {
	col := c.column(i)
	if col == nil {
		return false
	}
	c.topLeft[i] = left
	col.SwitchTopDoorToLeft(left)
	return true
}

// SwitchBottomDoorToLeftAt overrides the bottom hinge side of column i.
func (c *Closet) SwitchBottomDoorToLeftAt(i int, left bool) bool {
	col := c.column(i)
	if col == nil {
		return false
	}
	c.bottomLeft[i] = left
	col.SwitchBottomDoorToLeft(left)
	return true
}

// ClearHingeOverrides drops every per-column hinge override.
func (c *Closet) ClearHingeOverrides() {
	c.topLeft = map[int]bool{}
	c.bottomLeft = map[int]bool{}
	c.arrange(-1)
}

// RemoveFromScene deregisters every column and the base.
func (c *Closet) RemoveFromScene() {
	for _, col := range c.columns {
		col.RemoveFromScene(c.registry)
	}
	if c.base != nil && c.baseAdded && c.registry != nil {
		c.registry.Unregister(c.base.Name())
		c.baseAdded = false
	}
}

// Snapshot returns a plain description of the current arrangement.
func (c *Closet) Snapshot() model.ClosetSnapshot {
	s := model.ClosetSnapshot{
		Family:   c.family.Name,
		Layout:   c.layout.Name,
		Width:    c.width,
		Height:   c.height,
		Depth:    c.depth,
		Position: c.position,
	}
	for _, col := range c.columns {
		s.Columns = append(s.Columns, col.Snapshot())
	}
	if c.base != nil {
		s.Legs = c.base.legs()
		s.Molding = c.base.moldingSnapshot()
	}
	return s
}
