package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/ClosetCraft/internal/catalog"
	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
)

const eps = 1e-9

// fakeProvider serves joint-less assets for every key it holds.
type fakeProvider map[string]part.Asset

func (f fakeProvider) Provide(key string) (part.Asset, bool) {
	a, ok := f[key]
	if !ok {
		return part.Asset{}, false
	}
	return a.Clone(), true
}

func newTestUnit(t *testing.T, typeName string, leftDoor bool) (*Unit, *part.Arena) {
	t.Helper()
	cat := catalog.Default()
	typ := cat.Unit(typeName)
	require.NotNil(t, typ, typeName)
	arena := part.NewArena(catalog.NewAssets(cat))
	return NewUnit("U"+typeName, typ, arena, cat.Limits, leftDoor), arena
}

func assertVecNear(t *testing.T, want, got r3.Vec, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, eps, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, eps, msgAndArgs...)
}

func TestShelfCountFormula(t *testing.T) {
	tests := []struct {
		usable, max float64
		want        int
	}{
		{0.8, 0.5, 2},
		{1.0, 0.5, 2},
		{1.1, 0.5, 3},
		{0.3, 0.5, 1},
		{0, 0.5, 0},
		{0.8, 0, 0},
	}
	for _, tt := range tests {
		if got := shelfCount(tt.usable, tt.max); got != tt.want {
			t.Errorf("shelfCount(%v, %v) = %d, want %d", tt.usable, tt.max, got, tt.want)
		}
	}
}

func TestUnitShelvesBottomCabinet(t *testing.T) {
	u, _ := newTestUnit(t, "BOTTOM_CABINET", true)

	require.Equal(t, 2, u.ShelfCount())
	heights := u.ShelfHeights()
	assert.InDelta(t, 0.1+0.8/3, heights[0], eps)
	assert.InDelta(t, 0.1+1.6/3, heights[1], eps)
}

func TestUnitShelvesIdempotent(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", true)
	before := u.ShelfHeights()
	parts := arena.Len()

	require.True(t, u.SetHeight(0.9))
	u.maintainShelves()

	assert.Equal(t, before, u.ShelfHeights())
	assert.Equal(t, parts, arena.Len())
}

func TestUnitShelvesGrowAndShrink(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", true)
	parts := arena.Len()

	require.True(t, u.SetWidth(0.6))
	require.True(t, u.SetHeight(1.2))
	assert.Equal(t, 3, u.ShelfCount())
	assert.Equal(t, parts+1, arena.Len())

	newest := arena.Get(u.shelves[2])
	assert.InDelta(t, 0.2, newest.Stretch(part.Width), eps, "new shelves match the unit width")
	assert.InDelta(t, 0.2, arena.Get(u.shelves[0]).Stretch(part.Width), eps)

	require.True(t, u.SetHeight(0.9))
	assert.Equal(t, 2, u.ShelfCount())
	assert.Equal(t, parts, arena.Len())
}

func TestUnitPinnedShelfCount(t *testing.T) {
	u, _ := newTestUnit(t, "SHELF_CABINET", true)
	require.Equal(t, 1, u.ShelfCount())
	assert.InDelta(t, 0.45, u.ShelfHeights()[0], eps)

	require.True(t, u.SetHeight(1.2))
	require.Equal(t, 1, u.ShelfCount())
	assert.InDelta(t, 0.6, u.ShelfHeights()[0], eps)
}

func TestUnitWidthRejectedAboveColumnLimit(t *testing.T) {
	u, _ := newTestUnit(t, "BOTTOM_CABINET", true)
	assert.False(t, u.SetWidth(0.8))
	assert.False(t, u.SetWidth(0))
	assert.InDelta(t, 0.4, u.Width(), eps)
}

func TestUnitWidthRoundTrip(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", false)
	u.SetPosition(r3.Vec{X: 1, Y: 0, Z: 0})
	before := u.Snapshot()

	require.True(t, u.SetWidth(0.7))
	require.True(t, u.SetWidth(0.4))

	after := u.Snapshot()
	require.Len(t, after.Parts, len(before.Parts))
	for i := range before.Parts {
		assert.Equal(t, before.Parts[i].Slot, after.Parts[i].Slot)
		assertVecNear(t, before.Parts[i].Position, after.Parts[i].Position, before.Parts[i].Slot)
	}
	assert.InDelta(t, 0, arena.Get(u.body).Stretch(part.Width), eps)
	assert.InDelta(t, 0, arena.Get(u.door).Stretch(part.Width), eps)
}

func TestUnitWidthPropagation(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", false)
	require.True(t, u.SetWidth(0.6))

	assert.InDelta(t, 0.2, arena.Get(u.body).Stretch(part.Width), eps)
	assert.InDelta(t, -0.2, arena.Get(u.door).Stretch(part.Width), eps)
	assert.InDelta(t, 0.37, arena.Position(u.door).X, eps, "right hinged door follows the right edge")
	assert.InDelta(t, -0.52, arena.Position(u.handle).X, eps)
	assert.InDelta(t, 0.39, arena.Position(u.rightWall).X, eps)
	assert.InDelta(t, -0.19, arena.Position(u.leftWall).X, eps)
	assert.InDelta(t, 0.389, arena.Position(u.legs[legFrontRight]).X, eps)
	assert.InDelta(t, -0.189, arena.Position(u.legs[legFrontLeft]).X, eps)
	assert.InDelta(t, -0.1, arena.Position(u.root).X, eps, "unit recentres by half the delta")
}

func TestUnitDoorOffsetsMatchPureFunctions(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", false)
	require.True(t, u.SetWidth(0.55))
	require.True(t, u.SetHeight(1.0))
	require.True(t, u.SetWidth(0.65))

	typ := u.Type()
	assertVecNear(t, doorPosition(typ.DoorOffset, 0.25, false), arena.Position(u.door))
	assertVecNear(t, handlePosition(typ.HandleOffset, 0.25, 0.1, false), arena.Position(u.handle))
	assertVecNear(t, r3.Vec{X: -0.57, Y: 0.55, Z: 0}, arena.Position(u.handle))

	u.SwitchToLeftDoor(true)
	assertVecNear(t, r3.Vec{X: -0.17, Y: 0.14, Z: 0.2}, arena.Position(u.door))
	assert.InDelta(t, 180, arena.Get(u.handle).Rotation.Y, eps)

	u.SwitchToLeftDoor(false)
	assertVecNear(t, r3.Vec{X: 0.42, Y: 0.14, Z: 0.2}, arena.Position(u.door))
}

func TestUnitDoorAngles(t *testing.T) {
	tests := []struct {
		left, open bool
		want       float64
	}{
		{true, false, 180},
		{true, true, -225},
		{false, false, 0},
		{false, true, 45},
	}
	for _, tt := range tests {
		u, arena := newTestUnit(t, "BOTTOM_CABINET", tt.left)
		u.SetOpen(tt.open)
		assert.Equal(t, tt.open, u.IsOpen())
		assert.InDelta(t, tt.want, arena.Get(u.door).Rotation.Y, eps, "left=%v open=%v", tt.left, tt.open)
	}

	u, arena := newTestUnit(t, "BOTTOM_CABINET", true)
	u.Open()
	u.SwitchToLeftDoor(false)
	assert.InDelta(t, 45, arena.Get(u.door).Rotation.Y, eps, "hinge switch keeps the door open")
	u.Close()
	assert.InDelta(t, 0, arena.Get(u.door).Rotation.Y, eps)
}

func TestUnitHeightValidation(t *testing.T) {
	u, _ := newTestUnit(t, "BOTTOM_CABINET", true)
	assert.False(t, u.SetHeight(0.1), "height must clear the legs")
	assert.True(t, u.SetHeight(1.0))

	typ := *u.Type()
	typ.MaxHeight = 1.0
	arena := part.NewArena(catalog.NewAssets(catalog.Default()))
	bounded := NewUnit("B", &typ, arena, model.DefaultLimits(), true)
	assert.False(t, bounded.SetHeight(1.1))
	assert.InDelta(t, 0.9, bounded.Height(), eps)
}

func TestUnitHeightPropagation(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", false)
	require.True(t, u.SetHeight(1.2))

	assert.InDelta(t, 0.3, arena.Get(u.body).Stretch(part.Height), eps)
	assert.InDelta(t, 0.3, arena.Get(u.door).Stretch(part.Height), eps)
	assert.InDelta(t, 0.3, arena.Get(u.leftWall).Stretch(part.Height), eps)
	assert.InDelta(t, 0.75, arena.Position(u.handle).Y, eps)
}

func TestUnitDepth(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", true)
	require.True(t, u.SetDepth(0.6))

	assert.InDelta(t, 0.2, arena.Get(u.body).Stretch(part.Depth), eps)
	assert.InDelta(t, 0.2, arena.Get(u.shelves[0]).Stretch(part.Depth), eps)
	assert.InDelta(t, -0.39, arena.Position(u.legs[legBackLeft]).Z, eps)
	assert.InDelta(t, -0.39, arena.Position(u.legs[legBackRight]).Z, eps)
	assert.InDelta(t, 0.19, arena.Position(u.legs[legFrontLeft]).Z, eps)
	assert.InDelta(t, 0.1, arena.Position(u.root).Z, eps)

	assert.False(t, u.SetDepth(0))
}

func TestUnitWallsAndLegs(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", true)

	u.ShowLeftWall(false)
	assert.False(t, arena.Attached(u.leftWall))
	assert.False(t, arena.Get(u.leftWall).Visible)
	u.ShowLeftWall(true)
	assert.True(t, arena.Attached(u.leftWall))

	u.ShowRightLegs(false)
	assert.False(t, arena.Attached(u.legs[legFrontRight]))
	assert.False(t, arena.Attached(u.legs[legBackRight]))
	assert.True(t, arena.Attached(u.legs[legFrontLeft]))

	u.SwapRightLegsWithCenter(true)
	assert.Equal(t, "leg_center", arena.Get(u.legs[legFrontRight]).Key)
	assert.Equal(t, "leg_side", arena.Get(u.legs[legFrontLeft]).Key)
	u.SwapRightLegsWithCenter(false)
	assert.Equal(t, "leg_side", arena.Get(u.legs[legFrontRight]).Key)

	assert.InDelta(t, 90, arena.Get(u.legs[legFrontRight]).Rotation.Y, eps)
	assert.InDelta(t, 270, arena.Get(u.legs[legBackLeft]).Rotation.Y, eps)
}

func TestUnitSideSwitchKeepsStretch(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", true)
	require.True(t, u.SetHeight(1.1))

	require.True(t, u.SwitchLeftSide(false))
	wall := arena.Get(u.leftWall)
	assert.Equal(t, "bottom_glass", wall.Key)
	assert.InDelta(t, 0.2, wall.Stretch(part.Height), eps)
	j, ok := wall.Joint("GlassHeight_Top")
	require.True(t, ok)
	assert.InDelta(t, 0.96, j.Position.Y, eps)

	require.True(t, u.SwitchRightSide(true))
	assert.Equal(t, "bottom_panel", arena.Get(u.rightWall).Key)
}

func TestUnitDrawers(t *testing.T) {
	u, arena := newTestUnit(t, "DRAWER_CABINET", true)
	assert.False(t, u.HasDoor())
	assert.Equal(t, 0, u.ShelfCount())
	require.Len(t, u.drawers, 3)

	require.True(t, u.SetHeight(1.2))
	s := u.Snapshot()
	require.Len(t, s.Drawers, 3)
	for i, want := range []float64{0.12, 0.48, 0.84} {
		assert.InDelta(t, want, s.Drawers[i].Position.Y, eps, "drawer %d", i)
		assert.InDelta(t, 0.35, s.Drawers[i].Height, eps)
	}
	assert.InDelta(t, 0.175, arena.Position(u.drawerHandles[0]).Y, eps)

	require.True(t, u.SetWidth(0.6))
	assert.InDelta(t, 0.1, arena.Position(u.drawerHandles[1]).X, eps)
	assert.InDelta(t, 0.2, arena.Get(u.drawers[1]).Stretch(part.Width), eps)

	u.Open()
	u.SwitchToLeftDoor(false)
	assert.False(t, u.IsOpen())
	assert.False(t, u.Snapshot().DoorOpen)
}

func TestUnitMissingPartsAreNoOps(t *testing.T) {
	typ := &model.UnitType{
		Name:      "BARE",
		Width:     0.4,
		Height:    0.9,
		Depth:     0.4,
		LegHeight: 0.1,
		Assets: model.UnitAssets{
			Body:    "body",
			Wall:    "missing_wall",
			Door:    "missing_door",
			Handle:  "missing_handle",
			SideLeg: "missing_leg",
		},
		Caps: model.CapLeftWall | model.CapRightWall | model.CapDoor | model.CapHandle | model.CapLegs,
	}
	arena := part.NewArena(fakeProvider{"body": {Key: "body"}})
	u := NewUnit("BARE", typ, arena, model.DefaultLimits(), true)

	assert.Equal(t, part.None, u.door)
	assert.Equal(t, part.None, u.leftWall)
	assert.NotPanics(t, func() {
		u.Open()
		u.SwitchToLeftDoor(false)
		u.ShowLeftWall(false)
		u.ShowRightLegs(false)
		u.SwapRightLegsWithCenter(true)
		u.SwitchLeftSide(true)
		u.SetWidth(0.6)
		u.SetHeight(1.2)
		u.SetDepth(0.5)
	})
	assert.False(t, u.HasDoor())
	assert.False(t, u.IsOpen())
	assert.Equal(t, 2, arena.Len(), "root group and body only")
}

func TestUnitRelease(t *testing.T) {
	u, arena := newTestUnit(t, "BOTTOM_CABINET", true)
	u.ShowLeftWall(false)
	u.ShowLeftLegs(false)
	require.Greater(t, arena.Len(), 0)

	u.Release()
	assert.Equal(t, 0, arena.Len(), "detached parts are released too")
}

func TestUnitSnapshotSkipsHiddenParts(t *testing.T) {
	u, _ := newTestUnit(t, "BOTTOM_CABINET", true)
	u.ShowLeftWall(false)

	s := u.Snapshot()
	assert.False(t, s.LeftWall)
	assert.True(t, s.RightWall)
	for _, p := range s.Parts {
		assert.NotEqual(t, "left_wall", p.Slot)
	}
	assert.Len(t, s.Shelves, 2)
	assert.InDelta(t, 0.018, s.Thickness, eps)
}
