package model

import "gonum.org/v1/gonum/spatial/r3"

// PartSnapshot is one visible asset instance in closet space.
type PartSnapshot struct {
	Key      string `json:"key"`
	Slot     string `json:"slot"`
	Position r3.Vec `json:"position"`
	Rotation r3.Vec `json:"rotation"`
}

// DrawerSnapshot records one drawer front.
type DrawerSnapshot struct {
	Position r3.Vec  `json:"position"`
	Height   float64 `json:"height"`
}

// UnitSnapshot is the resolved state of one unit.
type UnitSnapshot struct {
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
	Depth     float64          `json:"depth"`
	LegHeight float64          `json:"leg_height"`
	Thickness float64          `json:"thickness"`
	Position  r3.Vec           `json:"position"`
	HasDoor   bool             `json:"has_door"`
	DoorOpen  bool             `json:"door_open"`
	LeftDoor  bool             `json:"left_door"`
	LeftWall  bool             `json:"left_wall"`
	RightWall bool             `json:"right_wall"`
	Shelves   []float64        `json:"shelves"`
	Drawers   []DrawerSnapshot `json:"drawers,omitempty"`
	Parts     []PartSnapshot   `json:"parts"`
}

// ColumnSnapshot is the resolved state of one column.
type ColumnSnapshot struct {
	Name         string         `json:"name"`
	Role         EdgeRole       `json:"role"`
	Width        float64        `json:"width"`
	Height       float64        `json:"height"`
	BottomHeight float64        `json:"bottom_height"`
	TopHeight    float64        `json:"top_height"`
	Position     r3.Vec         `json:"position"`
	Bottom       []UnitSnapshot `json:"bottom"`
	Top          []UnitSnapshot `json:"top,omitempty"`
}

// Units returns bottom then top unit snapshots.
func (c ColumnSnapshot) Units() []UnitSnapshot {
	out := make([]UnitSnapshot, 0, len(c.Bottom)+len(c.Top))
	out = append(out, c.Bottom...)
	return append(out, c.Top...)
}

// LegSnapshot is one base leg.
type LegSnapshot struct {
	Key      string  `json:"key"`
	Center   bool    `json:"center"`
	Position r3.Vec  `json:"position"`
	Rotation float64 `json:"rotation"` // degrees about Y
}

// ClosetSnapshot is a plain description of a whole closet arrangement.
type ClosetSnapshot struct {
	Family   string           `json:"family"`
	Layout   string           `json:"layout"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Depth    float64          `json:"depth"`
	Position r3.Vec           `json:"position"`
	Columns  []ColumnSnapshot `json:"columns"`
	Legs     []LegSnapshot    `json:"legs,omitempty"`
	Molding  *PartSnapshot    `json:"molding,omitempty"`
}

// UnitCount returns the number of units across all columns.
func (s ClosetSnapshot) UnitCount() int {
	n := 0
	for _, c := range s.Columns {
		n += len(c.Bottom) + len(c.Top)
	}
	return n
}
