// Package engine is the parametric layout engine: it turns a family of
// layouts and user dimensions into a tree of parts and keeps that tree
// consistent as width, height, depth and layout change.
package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
)

// Corner leg slots, in rotation order.
const (
	legFrontLeft = iota
	legFrontRight
	legBackRight
	legBackLeft
)

var legRotations = [4]float64{0, 90, 180, 270}

// Door angles about Y, in degrees.
const (
	leftDoorClosed  = 180.0
	leftDoorOpen    = -225.0
	rightDoorClosed = 0.0
	rightDoorOpen   = 45.0
)

// shelfEpsilon keeps exact multiples of the shelf spacing from rounding up.
const shelfEpsilon = 1e-9

// Unit is the smallest independently dimensioned box of a closet: a body
// with optional walls, door, handle, shelves, corner legs and drawers.
// Every operation on an absent part is a no-op.
type Unit struct {
	name  string
	typ   *model.UnitType
	arena *part.Arena

	maxWidth       float64
	maxShelfOffset float64

	root          part.ID
	body          part.ID
	leftWall      part.ID
	rightWall     part.ID
	door          part.ID
	handle        part.ID
	legs          [4]part.ID
	shelves       []part.ID
	drawers       []part.ID
	drawerHandles []part.ID

	width, height, depth                float64
	widthDelta, heightDelta, depthDelta float64
	anchor                              r3.Vec

	open            bool
	leftDoor        bool
	leftWallShown   bool
	rightWallShown  bool
	leftLegsShown   bool
	rightLegsShown  bool
	rightLegsCenter bool
	leftLegsCenter  bool
}

// NewUnit instantiates every part typ declares and places them for the
// unstretched reference geometry.
func NewUnit(name string, typ *model.UnitType, arena *part.Arena, limits model.Limits, leftDoor bool) *Unit {
	u := &Unit{
		name:           name,
		typ:            typ,
		arena:          arena,
		maxWidth:       limits.MaxColumnWidth,
		maxShelfOffset: limits.MaxShelfOffset,
		width:          typ.Width,
		height:         typ.Height,
		depth:          typ.Depth,
		leftDoor:       leftDoor,
		leftWall:       part.None,
		rightWall:      part.None,
		door:           part.None,
		handle:         part.None,
		legs:           [4]part.ID{part.None, part.None, part.None, part.None},
	}
	u.root = arena.NewGroup(name)
	u.body = u.spawnInto(u.root, typ.Assets.Body)

	caps := typ.Caps
	if caps.Has(model.CapLeftWall) {
		u.leftWall = u.spawnInto(u.root, typ.Assets.Wall)
		arena.SetPosition(u.leftWall, r3.Vec{X: -typ.WallOffset.X, Y: typ.WallOffset.Y, Z: typ.WallOffset.Z})
		u.leftWallShown = u.leftWall != part.None
	}
	if caps.Has(model.CapRightWall) {
		u.rightWall = u.spawnInto(u.root, typ.Assets.Wall)
		arena.SetPosition(u.rightWall, typ.WallOffset)
		u.rightWallShown = u.rightWall != part.None
	}
	if caps.Has(model.CapDoor) {
		u.door = u.spawnInto(u.root, typ.Assets.Door)
		if u.door != part.None && caps.Has(model.CapHandle) {
			u.handle = u.spawnInto(u.door, typ.Assets.Handle)
		}
	}
	if caps.Has(model.CapLegs) {
		s := typ.StandOffset
		corners := [4]r3.Vec{
			{X: -s.X, Y: s.Y, Z: s.Z},
			{X: s.X, Y: s.Y, Z: s.Z},
			{X: s.X, Y: s.Y, Z: -s.Z},
			{X: -s.X, Y: s.Y, Z: -s.Z},
		}
		for i := range u.legs {
			u.legs[i] = u.spawnInto(u.root, typ.Assets.SideLeg)
			arena.SetPosition(u.legs[i], corners[i])
			arena.SetRotation(u.legs[i], r3.Vec{Y: legRotations[i]})
		}
		u.leftLegsShown, u.rightLegsShown = true, true
	}
	if caps.Has(model.CapDrawers) {
		u.setupDrawers()
	}
	u.maintainShelves()
	u.reorientDoor()
	return u
}

func (u *Unit) spawnInto(parent part.ID, key string) part.ID {
	id, ok := u.arena.Spawn(key)
	if !ok {
		return part.None
	}
	u.arena.Attach(parent, id)
	return id
}

func (u *Unit) setupDrawers() {
	for _, slot := range u.typ.Drawers {
		drawer := u.spawnInto(u.root, u.typ.Assets.Drawer)
		if drawer == part.None {
			break
		}
		u.arena.SetPosition(drawer, slot.Position)
		u.drawers = append(u.drawers, drawer)
		if h := u.spawnInto(drawer, u.typ.Assets.Handle); h != part.None {
			u.arena.SetPosition(h, slot.HandlePosition)
			u.drawerHandles = append(u.drawerHandles, h)
		} else {
			u.drawerHandles = append(u.drawerHandles, part.None)
		}
	}
}

// Name is the unit's unique scene name.
func (u *Unit) Name() string { return u.name }

// Type returns the unit's type descriptor.
func (u *Unit) Type() *model.UnitType { return u.typ }

// Root returns the group part every visible part hangs from.
func (u *Unit) Root() part.ID { return u.root }

func (u *Unit) Width() float64  { return u.width }
func (u *Unit) Height() float64 { return u.height }
func (u *Unit) Depth() float64  { return u.depth }

// Deltas returns the stretch accumulated since construction.
func (u *Unit) Deltas() (width, height, depth float64) {
	return u.widthDelta, u.heightDelta, u.depthDelta
}

// IsOpen reports whether the door is open.
func (u *Unit) IsOpen() bool { return u.open }

// LeftDoor reports whether the door hinges on the left.
func (u *Unit) LeftDoor() bool { return u.leftDoor }

// HasDoor reports whether the unit owns a door part.
func (u *Unit) HasDoor() bool { return u.door != part.None }

// ShelfCount returns the current number of shelves.
func (u *Unit) ShelfCount() int { return len(u.shelves) }

// SetPosition anchors the unit at pos, compensating for accumulated stretch
// so that growth stays centred.
func (u *Unit) SetPosition(pos r3.Vec) {
	u.anchor = pos
	u.arena.SetPosition(u.root, rootPosition(pos, u.widthDelta, u.depthDelta))
}

// Position returns the anchor the unit was last placed at.
func (u *Unit) Position() r3.Vec { return u.anchor }

func rootPosition(anchor r3.Vec, widthDelta, depthDelta float64) r3.Vec {
	return r3.Vec{X: anchor.X - widthDelta/2, Y: anchor.Y, Z: anchor.Z + depthDelta/2}
}

// SetWidth stretches the unit to w. Widths above the column limit are
// ignored.
func (u *Unit) SetWidth(w float64) bool {
	if w <= 0 || w > u.maxWidth {
		return false
	}
	delta := w - u.width
	u.width = w
	if delta == 0 {
		return true
	}
	a := u.arena
	a.ShiftJoints(u.body, part.Width, delta)
	if u.door != part.None {
		a.ShiftJoints(u.door, part.Width, -delta)
		if !u.leftDoor {
			a.Offset(u.door, r3.Vec{X: delta})
		}
		a.Offset(u.handle, r3.Vec{X: -delta})
	}
	a.Offset(u.rightWall, r3.Vec{X: delta})
	for _, s := range u.shelves {
		a.ShiftJoints(s, part.Width, delta)
	}
	a.Offset(u.legs[legFrontRight], r3.Vec{X: delta})
	a.Offset(u.legs[legBackRight], r3.Vec{X: delta})
	for i, d := range u.drawers {
		a.ShiftJoints(d, part.Width, delta)
		a.Offset(u.drawerHandles[i], r3.Vec{X: delta / 2})
	}
	a.Offset(u.root, r3.Vec{X: -delta / 2})
	u.widthDelta += delta
	return true
}

// SetHeight stretches the unit to h and rebuilds its shelves.
func (u *Unit) SetHeight(h float64) bool {
	if !u.typ.HeightAllowed(h) {
		return false
	}
	delta := h - u.height
	u.height = h
	if delta != 0 {
		a := u.arena
		a.ShiftJoints(u.body, part.Height, delta)
		a.ShiftJoints(u.door, part.Height, delta)
		a.ShiftJoints(u.leftWall, part.Height, delta)
		a.ShiftJoints(u.rightWall, part.Height, delta)
		a.Offset(u.handle, r3.Vec{Y: delta})
		if n := len(u.drawers); n > 0 {
			per := delta / float64(n)
			for i, d := range u.drawers {
				a.ShiftJoints(d, part.Height, per)
				a.Offset(d, r3.Vec{Y: float64(i) * per})
				a.Offset(u.drawerHandles[i], r3.Vec{Y: per / 2})
			}
		}
		u.heightDelta += delta
	}
	u.maintainShelves()
	return true
}

// SetDepth stretches the unit to d. Depth grows backwards, so the unit is
// recentred forwards by half the delta.
func (u *Unit) SetDepth(d float64) bool {
	if d <= 0 {
		return false
	}
	delta := d - u.depth
	u.depth = d
	if delta == 0 {
		return true
	}
	a := u.arena
	a.ShiftJoints(u.body, part.Depth, delta)
	a.ShiftJoints(u.leftWall, part.Depth, delta)
	a.ShiftJoints(u.rightWall, part.Depth, delta)
	for _, s := range u.shelves {
		a.ShiftJoints(s, part.Depth, delta)
	}
	for _, dr := range u.drawers {
		a.ShiftJoints(dr, part.Depth, delta)
	}
	a.Offset(u.legs[legBackLeft], r3.Vec{Z: -delta})
	a.Offset(u.legs[legBackRight], r3.Vec{Z: -delta})
	a.Offset(u.root, r3.Vec{Z: delta / 2})
	u.depthDelta += delta
	return true
}

// shelfTarget returns how many shelves the current height calls for.
func (u *Unit) shelfTarget() int {
	if !u.typ.Caps.Has(model.CapShelves) {
		return 0
	}
	if u.typ.ShelfCount != nil {
		return *u.typ.ShelfCount
	}
	return shelfCount(u.height-u.typ.LegHeight, u.maxShelfOffset)
}

// shelfCount is ceil(usable / maxOffset), tolerant of rounding noise.
func shelfCount(usable, maxOffset float64) int {
	if usable <= 0 || maxOffset <= 0 {
		return 0
	}
	return int(math.Ceil(usable/maxOffset - shelfEpsilon))
}

// shelfHeights returns evenly spaced shelf heights between legHeight and
// height, excluding both ends.
func shelfHeights(legHeight, height float64, count int) []float64 {
	spacing := (height - legHeight) / float64(count+1)
	out := make([]float64, count)
	for k := range out {
		out[k] = legHeight + float64(k+1)*spacing
	}
	return out
}

func (u *Unit) maintainShelves() {
	target := u.shelfTarget()
	for len(u.shelves) < target {
		s := u.spawnInto(u.root, u.typ.Assets.Shelf)
		if s == part.None {
			break
		}
		u.arena.ShiftJoints(s, part.Width, u.widthDelta)
		u.arena.ShiftJoints(s, part.Depth, u.depthDelta)
		u.shelves = append(u.shelves, s)
	}
	for len(u.shelves) > target {
		last := u.shelves[len(u.shelves)-1]
		u.arena.Release(last)
		u.shelves = u.shelves[:len(u.shelves)-1]
	}
	for k, y := range shelfHeights(u.typ.LegHeight, u.height, len(u.shelves)) {
		u.arena.SetPosition(u.shelves[k], r3.Vec{Y: y})
	}
}

// ShelfHeights returns the unit-local heights of the current shelves.
func (u *Unit) ShelfHeights() []float64 {
	out := make([]float64, len(u.shelves))
	for i, s := range u.shelves {
		out[i] = u.arena.Position(s).Y
	}
	return out
}

// doorPosition derives the door position from its unstretched offset.
func doorPosition(base r3.Vec, widthDelta float64, left bool) r3.Vec {
	if left {
		return r3.Vec{X: -base.X, Y: base.Y, Z: base.Z}
	}
	return r3.Vec{X: base.X + widthDelta, Y: base.Y, Z: base.Z}
}

// handlePosition derives the handle position, in door space, from its
// unstretched offset.
func handlePosition(base r3.Vec, widthDelta, heightDelta float64, left bool) r3.Vec {
	z := base.Z
	if left {
		z = -z
	}
	return r3.Vec{X: base.X - widthDelta, Y: base.Y + heightDelta, Z: z}
}

// doorAngle returns the door rotation about Y.
func doorAngle(left, open bool) float64 {
	switch {
	case left && open:
		return leftDoorOpen
	case left:
		return leftDoorClosed
	case open:
		return rightDoorOpen
	default:
		return rightDoorClosed
	}
}

func (u *Unit) reorientDoor() {
	if u.door == part.None {
		return
	}
	u.arena.SetPosition(u.door, doorPosition(u.typ.DoorOffset, u.widthDelta, u.leftDoor))
	if u.handle != part.None {
		u.arena.SetPosition(u.handle, handlePosition(u.typ.HandleOffset, u.widthDelta, u.heightDelta, u.leftDoor))
		rot := 0.0
		if u.leftDoor {
			rot = 180
		}
		u.arena.SetRotation(u.handle, r3.Vec{Y: rot})
	}
	u.arena.SetRotation(u.door, r3.Vec{Y: doorAngle(u.leftDoor, u.open)})
}

// Open swings the door open. Units without a door stay closed.
func (u *Unit) Open() {
	if u.door == part.None {
		return
	}
	u.open = true
	u.arena.SetRotation(u.door, r3.Vec{Y: doorAngle(u.leftDoor, true)})
}

// Close swings the door shut.
func (u *Unit) Close() {
	if u.door == part.None {
		return
	}
	u.open = false
	u.arena.SetRotation(u.door, r3.Vec{Y: doorAngle(u.leftDoor, false)})
}

// SetOpen opens or closes the door.
func (u *Unit) SetOpen(open bool) {
	if open {
		u.Open()
	} else {
		u.Close()
	}
}

// SwitchToLeftDoor moves the hinge to the left or right side.
func (u *Unit) SwitchToLeftDoor(left bool) {
	u.leftDoor = left
	u.reorientDoor()
}

func (u *Unit) show(id part.ID, show bool) {
	if id == part.None {
		return
	}
	if show {
		u.arena.Attach(u.root, id)
	} else {
		u.arena.Detach(id)
	}
	u.arena.SetVisible(id, show)
}

// ShowLeftWall attaches or detaches the left wall.
func (u *Unit) ShowLeftWall(show bool) {
	if u.leftWall == part.None {
		return
	}
	u.show(u.leftWall, show)
	u.leftWallShown = show
}

// ShowRightWall attaches or detaches the right wall.
func (u *Unit) ShowRightWall(show bool) {
	if u.rightWall == part.None {
		return
	}
	u.show(u.rightWall, show)
	u.rightWallShown = show
}

// ShowLeftLegs attaches or detaches the left leg pair.
func (u *Unit) ShowLeftLegs(show bool) {
	if u.legs[legFrontLeft] == part.None {
		return
	}
	u.show(u.legs[legFrontLeft], show)
	u.show(u.legs[legBackLeft], show)
	u.leftLegsShown = show
}

// ShowRightLegs attaches or detaches the right leg pair.
func (u *Unit) ShowRightLegs(show bool) {
	if u.legs[legFrontRight] == part.None {
		return
	}
	u.show(u.legs[legFrontRight], show)
	u.show(u.legs[legBackRight], show)
	u.rightLegsShown = show
}

func (u *Unit) legKey(center bool) string {
	if center {
		return u.typ.Assets.CenterLeg
	}
	return u.typ.Assets.SideLeg
}

// SwapLeftLegsWithCenter swaps the left leg pair between side and center
// leg assets.
func (u *Unit) SwapLeftLegsWithCenter(swap bool) {
	key := u.legKey(swap)
	if u.arena.Swap(u.legs[legFrontLeft], key) && u.arena.Swap(u.legs[legBackLeft], key) {
		u.leftLegsCenter = swap
	}
}

// SwapRightLegsWithCenter swaps the right leg pair between side and center
// leg assets.
func (u *Unit) SwapRightLegsWithCenter(swap bool) {
	key := u.legKey(swap)
	if u.arena.Swap(u.legs[legFrontRight], key) && u.arena.Swap(u.legs[legBackRight], key) {
		u.rightLegsCenter = swap
	}
}

func (u *Unit) sideKey(closed bool) string {
	if closed {
		return u.typ.Assets.ClosedSide
	}
	return u.typ.Assets.GlassSide
}

// SwitchLeftSide swaps the left wall between the closed and glass panel.
func (u *Unit) SwitchLeftSide(closed bool) bool {
	return u.arena.Swap(u.leftWall, u.sideKey(closed))
}

// SwitchRightSide swaps the right wall between the closed and glass panel.
func (u *Unit) SwitchRightSide(closed bool) bool {
	return u.arena.Swap(u.rightWall, u.sideKey(closed))
}

// Release removes every part of the unit from the arena.
func (u *Unit) Release() {
	for _, id := range u.slots() {
		u.arena.Release(id.id)
	}
	u.arena.Release(u.root)
	u.shelves, u.drawers, u.drawerHandles = nil, nil, nil
}

type slotRef struct {
	slot string
	id   part.ID
}

// slots lists every part the unit owns, attached or not.
func (u *Unit) slots() []slotRef {
	refs := []slotRef{
		{"body", u.body},
		{"left_wall", u.leftWall},
		{"right_wall", u.rightWall},
		{"door", u.door},
		{"handle", u.handle},
		{"leg_front_left", u.legs[legFrontLeft]},
		{"leg_front_right", u.legs[legFrontRight]},
		{"leg_back_right", u.legs[legBackRight]},
		{"leg_back_left", u.legs[legBackLeft]},
	}
	for _, s := range u.shelves {
		refs = append(refs, slotRef{"shelf", s})
	}
	for i, d := range u.drawers {
		refs = append(refs, slotRef{"drawer", d}, slotRef{"drawer_handle", u.drawerHandles[i]})
	}
	out := refs[:0]
	for _, r := range refs {
		if r.id != part.None {
			out = append(out, r)
		}
	}
	return out
}

// Snapshot describes the unit's resolved state in closet space.
func (u *Unit) Snapshot() model.UnitSnapshot {
	s := model.UnitSnapshot{
		Name:      u.name,
		Type:      u.typ.Name,
		Width:     u.width,
		Height:    u.height,
		Depth:     u.depth,
		LegHeight: u.typ.LegHeight,
		Thickness: u.typ.PanelThickness(),
		Position:  u.arena.World(u.root),
		HasDoor:   u.HasDoor(),
		DoorOpen:  u.open,
		LeftDoor:  u.leftDoor,
		LeftWall:  u.leftWallShown,
		RightWall: u.rightWallShown,
		Shelves:   u.ShelfHeights(),
	}
	if n := len(u.drawers); n > 0 {
		per := u.heightDelta / float64(n)
		for i, d := range u.drawers {
			s.Drawers = append(s.Drawers, model.DrawerSnapshot{
				Position: u.arena.World(d),
				Height:   u.typ.Drawers[i].Height + per,
			})
		}
	}
	for _, r := range u.slots() {
		if !u.attachedToRoot(r.id) {
			continue
		}
		p := u.arena.Get(r.id)
		if !p.Visible {
			continue
		}
		s.Parts = append(s.Parts, model.PartSnapshot{
			Key:      p.Key,
			Slot:     r.slot,
			Position: u.arena.World(r.id),
			Rotation: p.Rotation,
		})
	}
	return s
}

// attachedToRoot reports whether id hangs, directly or indirectly, from the
// unit root.
func (u *Unit) attachedToRoot(id part.ID) bool {
	for p := u.arena.Get(id); p != nil; p = u.arena.Get(p.Parent()) {
		if p.Parent() == u.root {
			return true
		}
	}
	return false
}
