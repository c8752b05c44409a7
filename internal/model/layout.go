package model

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// SplitKind selects how a layout divides column height between stacks.
type SplitKind string

const (
	// SplitThreshold gives the bottom stack Above when the total exceeds
	// Threshold and Below otherwise.
	SplitThreshold SplitKind = "threshold"
	// SplitFixed gives the bottom stack a constant Value.
	SplitFixed SplitKind = "fixed"
	// SplitRatio gives the bottom stack Value times the total.
	SplitRatio SplitKind = "ratio"
	// SplitFull gives the bottom stack everything (one-part columns).
	SplitFull SplitKind = "full"
)

// SplitPolicy maps a total column height to the bottom stack height.
type SplitPolicy struct {
	Kind      SplitKind `json:"kind" yaml:"kind" toml:"kind"`
	Threshold float64   `json:"threshold,omitempty" yaml:"threshold,omitempty" toml:"threshold,omitempty"`
	Above     float64   `json:"above,omitempty" yaml:"above,omitempty" toml:"above,omitempty"`
	Below     float64   `json:"below,omitempty" yaml:"below,omitempty" toml:"below,omitempty"`
	Value     float64   `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// BottomHeight returns the bottom stack height for a column of total height.
func (p SplitPolicy) BottomHeight(total float64) float64 {
	switch p.Kind {
	case SplitThreshold:
		if total > p.Threshold {
			return p.Above
		}
		return p.Below
	case SplitFixed:
		return p.Value
	case SplitRatio:
		return total * p.Value
	default:
		return total
	}
}

func (p SplitPolicy) validate() error {
	switch p.Kind {
	case SplitThreshold, SplitFixed, SplitRatio, SplitFull:
	case "":
		return fmt.Errorf("split policy kind is required")
	default:
		return fmt.Errorf("unknown split policy kind %q", p.Kind)
	}
	if p.Kind == SplitRatio && (p.Value <= 0 || p.Value >= 1) {
		return fmt.Errorf("split ratio must be in (0, 1), got %v", p.Value)
	}
	return nil
}

// HingeSide is the side a door hinges on.
type HingeSide string

const (
	HingeLeft  HingeSide = "left"
	HingeRight HingeSide = "right"
)

// Left reports whether the side is HingeLeft.
func (h HingeSide) Left() bool { return h == HingeLeft }

// Opposite returns the other hinge side.
func (h HingeSide) Opposite() HingeSide {
	if h == HingeLeft {
		return HingeRight
	}
	return HingeLeft
}

// SideFor converts a left-hinge flag into a HingeSide.
func SideFor(left bool) HingeSide {
	if left {
		return HingeLeft
	}
	return HingeRight
}

func (h HingeSide) MarshalText() ([]byte, error) {
	return []byte(h), nil
}

func (h *HingeSide) UnmarshalText(b []byte) error {
	switch HingeSide(b) {
	case HingeLeft, HingeRight:
		*h = HingeSide(b)
		return nil
	default:
		return fmt.Errorf("invalid hinge side %q", string(b))
	}
}

// EdgeRole classifies a column by its position in the row.
type EdgeRole int

const (
	RoleSingle EdgeRole = iota
	RoleLeft
	RoleMiddle
	RoleRight
)

func (r EdgeRole) String() string {
	switch r {
	case RoleSingle:
		return "single"
	case RoleLeft:
		return "left"
	case RoleMiddle:
		return "middle"
	case RoleRight:
		return "right"
	default:
		return "unknown"
	}
}

// LeftEdge reports whether the column forms the closet's left edge.
func (r EdgeRole) LeftEdge() bool { return r == RoleSingle || r == RoleLeft }

// RightEdge reports whether the column forms the closet's right edge.
func (r EdgeRole) RightEdge() bool { return r == RoleSingle || r == RoleRight }

func (r EdgeRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *EdgeRole) UnmarshalText(b []byte) error {
	for _, c := range []EdgeRole{RoleSingle, RoleLeft, RoleMiddle, RoleRight} {
		if c.String() == string(b) {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("invalid edge role %q", string(b))
}

// RoleFor returns the role of column index in a row of n columns.
func RoleFor(index, n int) EdgeRole {
	switch {
	case n <= 1:
		return RoleSingle
	case index == 0:
		return RoleLeft
	case index == n-1:
		return RoleRight
	default:
		return RoleMiddle
	}
}

// HingeConvention decides the hinge side of each column's first door.
// Middle columns at even indices use EvenMiddle, odd ones the opposite side.
type HingeConvention struct {
	Single     HingeSide `json:"single" yaml:"single" toml:"single"`
	Leftmost   HingeSide `json:"leftmost" yaml:"leftmost" toml:"leftmost"`
	Rightmost  HingeSide `json:"rightmost" yaml:"rightmost" toml:"rightmost"`
	EvenMiddle HingeSide `json:"even_middle" yaml:"even_middle" toml:"even_middle"`
}

// DefaultHinges hinges edge doors on the outer side so they open away from
// neighbours.
func DefaultHinges() HingeConvention {
	return HingeConvention{
		Single:     HingeLeft,
		Leftmost:   HingeLeft,
		Rightmost:  HingeRight,
		EvenMiddle: HingeLeft,
	}
}

// ForRole returns the hinge side of the column at index with the given role.
func (h HingeConvention) ForRole(role EdgeRole, index int) HingeSide {
	switch role {
	case RoleSingle:
		return h.Single
	case RoleLeft:
		return h.Leftmost
	case RoleRight:
		return h.Rightmost
	default:
		if index%2 == 0 {
			return h.EvenMiddle
		}
		return h.EvenMiddle.Opposite()
	}
}

func (h *HingeConvention) fillDefaults() {
	d := DefaultHinges()
	if h.Single == "" {
		h.Single = d.Single
	}
	if h.Leftmost == "" {
		h.Leftmost = d.Leftmost
	}
	if h.Rightmost == "" {
		h.Rightmost = d.Rightmost
	}
	if h.EvenMiddle == "" {
		h.EvenMiddle = d.EvenMiddle
	}
}

// BaseSpec describes the shared plinth of a closet: corner and center legs
// and an optional top molding.
type BaseSpec struct {
	Leg       string  `json:"leg" yaml:"leg" toml:"leg"`
	CenterLeg string  `json:"center_leg,omitempty" yaml:"center_leg,omitempty" toml:"center_leg,omitempty"`
	Molding   string  `json:"molding,omitempty" yaml:"molding,omitempty" toml:"molding,omitempty"`
	Height    float64 `json:"height" yaml:"height" toml:"height"`
	OffsetX   float64 `json:"offset_x" yaml:"offset_x" toml:"offset_x"`
	OffsetZ   float64 `json:"offset_z" yaml:"offset_z" toml:"offset_z"`
	// MoldingWidth is the unstretched width of the molding asset.
	MoldingWidth float64 `json:"molding_width,omitempty" yaml:"molding_width,omitempty" toml:"molding_width,omitempty"`
}

// CenterLegKey returns the asset used for center legs.
func (b *BaseSpec) CenterLegKey() string {
	if b.CenterLeg != "" {
		return b.CenterLeg
	}
	return b.Leg
}

// Layout describes which unit types make up a column and how its height is
// split. Layouts are interned by the catalog and compared by pointer.
type Layout struct {
	Name   string          `json:"name" yaml:"name" toml:"name"`
	Bottom []string        `json:"bottom" yaml:"bottom" toml:"bottom"`
	Top    []string        `json:"top,omitempty" yaml:"top,omitempty" toml:"top,omitempty"`
	Split  SplitPolicy     `json:"split" yaml:"split" toml:"split"`
	Hinges HingeConvention `json:"hinges" yaml:"hinges" toml:"hinges"`
	Base   *BaseSpec       `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`

	BottomUnits []*UnitType `json:"-" yaml:"-" toml:"-"`
	TopUnits    []*UnitType `json:"-" yaml:"-" toml:"-"`
}

// TwoPart reports whether the layout has a top stack.
func (l *Layout) TwoPart() bool { return len(l.Top) > 0 }

// NominalHeight is the summed height of all unstretched unit types.
func (l *Layout) NominalHeight() float64 {
	var h float64
	for _, u := range l.BottomUnits {
		h += u.Height
	}
	for _, u := range l.TopUnits {
		h += u.Height
	}
	return h
}

// Family is a named set of layouts a closet can switch between.
type Family struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Layouts []string `json:"layouts" yaml:"layouts" toml:"layouts"`

	refs []*Layout
}

// Supports reports whether l is one of the family's layouts.
func (f *Family) Supports(l *Layout) bool {
	if l == nil {
		return false
	}
	for _, r := range f.refs {
		if r == l {
			return true
		}
	}
	return false
}

// Layout returns the family's layout with the given name, or nil.
func (f *Family) Layout(name string) *Layout {
	for _, r := range f.refs {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Default returns the first layout of the family.
func (f *Family) Default() *Layout {
	if len(f.refs) == 0 {
		return nil
	}
	return f.refs[0]
}

// All returns the family's layouts in declaration order.
func (f *Family) All() []*Layout {
	out := make([]*Layout, len(f.refs))
	copy(out, f.refs)
	return out
}

// Vec is a convenience constructor for r3 vectors in tables and tests.
func Vec(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }
