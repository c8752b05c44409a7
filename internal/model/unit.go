package model

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Capability flags the optional parts a unit type carries.
type Capability uint16

const (
	CapLeftWall Capability = 1 << iota
	CapRightWall
	CapDoor
	CapHandle
	CapShelves
	CapLegs
	CapDrawers
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapLeftWall, "left_wall"},
	{CapRightWall, "right_wall"},
	{CapDoor, "door"},
	{CapHandle, "handle"},
	{CapShelves, "shelves"},
	{CapLegs, "legs"},
	{CapDrawers, "drawers"},
}

// Has reports whether all flags in o are set.
func (c Capability) Has(o Capability) bool { return c&o == o }

func (c Capability) String() string {
	var names []string
	for _, n := range capabilityNames {
		if c.Has(n.c) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseCapability converts a capability name into its flag.
func ParseCapability(s string) (Capability, error) {
	for _, n := range capabilityNames {
		if n.name == strings.ToLower(strings.TrimSpace(s)) {
			return n.c, nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", s)
}

// UnitAssets names the asset keys a unit type instantiates. Empty keys mean
// the part is absent.
type UnitAssets struct {
	Body       string `json:"body" yaml:"body" toml:"body"`
	Wall       string `json:"wall,omitempty" yaml:"wall,omitempty" toml:"wall,omitempty"`
	ClosedSide string `json:"closed_side,omitempty" yaml:"closed_side,omitempty" toml:"closed_side,omitempty"`
	GlassSide  string `json:"glass_side,omitempty" yaml:"glass_side,omitempty" toml:"glass_side,omitempty"`
	Door       string `json:"door,omitempty" yaml:"door,omitempty" toml:"door,omitempty"`
	Shelf      string `json:"shelf,omitempty" yaml:"shelf,omitempty" toml:"shelf,omitempty"`
	Handle     string `json:"handle,omitempty" yaml:"handle,omitempty" toml:"handle,omitempty"`
	SideLeg    string `json:"side_leg,omitempty" yaml:"side_leg,omitempty" toml:"side_leg,omitempty"`
	CenterLeg  string `json:"center_leg,omitempty" yaml:"center_leg,omitempty" toml:"center_leg,omitempty"`
	Drawer     string `json:"drawer,omitempty" yaml:"drawer,omitempty" toml:"drawer,omitempty"`
}

// Keys returns every non-empty asset key.
func (a UnitAssets) Keys() []string {
	var keys []string
	for _, k := range []string{a.Body, a.Wall, a.ClosedSide, a.GlassSide, a.Door, a.Shelf, a.Handle, a.SideLeg, a.CenterLeg, a.Drawer} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// DrawerSlot places one drawer and its handle in unit space.
type DrawerSlot struct {
	Position       r3.Vec  `json:"position" yaml:"position" toml:"position"`
	HandlePosition r3.Vec  `json:"handle_position" yaml:"handle_position" toml:"handle_position"`
	Height         float64 `json:"height" yaml:"height" toml:"height"` // front panel height, meters
}

// UnitType describes one independently dimensioned box. Offsets are given
// for the unstretched reference unit.
type UnitType struct {
	Name      string  `json:"name" yaml:"name" toml:"name"`
	Width     float64 `json:"width" yaml:"width" toml:"width"`
	Height    float64 `json:"height" yaml:"height" toml:"height"`
	Depth     float64 `json:"depth" yaml:"depth" toml:"depth"`
	LegHeight float64 `json:"leg_height" yaml:"leg_height" toml:"leg_height"`
	Thickness float64 `json:"thickness,omitempty" yaml:"thickness,omitempty" toml:"thickness,omitempty"`
	MinHeight float64 `json:"min_height,omitempty" yaml:"min_height,omitempty" toml:"min_height,omitempty"`
	MaxHeight float64 `json:"max_height,omitempty" yaml:"max_height,omitempty" toml:"max_height,omitempty"`
	// ShelfCount pins the number of shelves instead of deriving it from height.
	ShelfCount *int `json:"shelf_count,omitempty" yaml:"shelf_count,omitempty" toml:"shelf_count,omitempty"`

	DoorOffset   r3.Vec `json:"door_offset" yaml:"door_offset" toml:"door_offset"`
	WallOffset   r3.Vec `json:"wall_offset" yaml:"wall_offset" toml:"wall_offset"`
	HandleOffset r3.Vec `json:"handle_offset" yaml:"handle_offset" toml:"handle_offset"`
	StandOffset  r3.Vec `json:"stand_offset" yaml:"stand_offset" toml:"stand_offset"`

	Capabilities []string     `json:"capabilities,omitempty" yaml:"capabilities,omitempty" toml:"capabilities,omitempty"`
	Assets       UnitAssets   `json:"assets" yaml:"assets" toml:"assets"`
	Drawers      []DrawerSlot `json:"drawers,omitempty" yaml:"drawers,omitempty" toml:"drawers,omitempty"`

	// Caps is resolved from Capabilities, or inferred from Assets when the
	// list is empty.
	Caps Capability `json:"-" yaml:"-" toml:"-"`
}

// PanelThickness returns the board thickness, defaulting to 18mm.
func (u *UnitType) PanelThickness() float64 {
	if u.Thickness > 0 {
		return u.Thickness
	}
	return 0.018
}

// HeightAllowed checks h against the type's optional bounds.
func (u *UnitType) HeightAllowed(h float64) bool {
	if h <= u.LegHeight {
		return false
	}
	if u.MinHeight > 0 && h < u.MinHeight {
		return false
	}
	if u.MaxHeight > 0 && h > u.MaxHeight {
		return false
	}
	return true
}

func (u *UnitType) resolveCaps() error {
	u.Caps = 0
	if len(u.Capabilities) == 0 {
		a := u.Assets
		if a.Wall != "" {
			u.Caps |= CapLeftWall | CapRightWall
		}
		if a.Door != "" {
			u.Caps |= CapDoor
		}
		if a.Handle != "" {
			u.Caps |= CapHandle
		}
		if a.Shelf != "" {
			u.Caps |= CapShelves
		}
		if a.SideLeg != "" {
			u.Caps |= CapLegs
		}
		if a.Drawer != "" && len(u.Drawers) > 0 {
			u.Caps |= CapDrawers
		}
		return nil
	}
	for _, s := range u.Capabilities {
		c, err := ParseCapability(s)
		if err != nil {
			return fmt.Errorf("unit %s: %w", u.Name, err)
		}
		u.Caps |= c
	}
	return nil
}
