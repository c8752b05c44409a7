package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/ClosetCraft/internal/catalog"
	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/scene"
)

func newTestCloset(t *testing.T, family string, opts ...Option) (*Closet, *model.Catalog) {
	t.Helper()
	cat := catalog.Default()
	c, err := NewCloset(cat.Family(family), catalog.NewAssets(cat), cat.Limits, opts...)
	require.NoError(t, err)
	return c, cat
}

func TestColumnCount(t *testing.T) {
	tests := []struct {
		width float64
		want  int
	}{
		{0.4, 1},
		{0.75, 1},
		{0.76, 2},
		{1.52, 3},
		{2.0, 3},
		{3.5, 5},
	}
	for _, tt := range tests {
		if got := ColumnCount(tt.width, 0.76); got != tt.want {
			t.Errorf("ColumnCount(%v) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestNewCloset(t *testing.T) {
	c, cat := newTestCloset(t, "FAMILY1")

	assert.Same(t, cat.Layout("LAYOUT1"), c.Layout())
	assert.InDelta(t, 0.4, c.Width(), eps)
	assert.InDelta(t, 2.0, c.Height(), eps)
	assert.InDelta(t, 0.4, c.Depth(), eps)
	require.Len(t, c.Columns(), 1)
	assert.Equal(t, model.RoleSingle, c.Columns()[0].Role())
}

func TestNewClosetErrors(t *testing.T) {
	_, err := NewCloset(nil, nil, model.DefaultLimits())
	assert.Error(t, err)

	_, err = NewCloset(&model.Family{Name: "EMPTY"}, nil, model.DefaultLimits())
	assert.Error(t, err)
}

func TestClosetWidthGrowsColumns(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(2.0))

	cols := c.Columns()
	require.Len(t, cols, 3)
	for i, want := range []float64{-2.0 / 3, 0, 2.0 / 3} {
		assert.InDelta(t, 2.0/3, cols[i].Width(), eps)
		assert.InDelta(t, want, cols[i].Position().X, eps, "column %d", i)
	}
	assert.Equal(t, []model.EdgeRole{model.RoleLeft, model.RoleMiddle, model.RoleRight},
		[]model.EdgeRole{cols[0].Role(), cols[1].Role(), cols[2].Role()})
}

func TestClosetRejectsWidthOutOfRange(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(2.0))

	assert.False(t, c.SetWidth(10))
	assert.False(t, c.SetWidth(0.2))
	assert.InDelta(t, 2.0, c.Width(), eps)
	assert.Len(t, c.Columns(), 3)
}

func TestClosetSwitchLayoutRebuildsUnitsInPlace(t *testing.T) {
	reg := scene.NewMemory(nil)
	c, cat := newTestCloset(t, "FAMILY1", WithRegistry(reg))
	require.True(t, c.SetWidth(2.0))
	require.True(t, c.SetHeight(2.4))

	oldUnits := map[*Unit]bool{}
	for _, col := range c.Columns() {
		for _, u := range col.Units() {
			oldUnits[u] = true
		}
	}
	beforeSnap := c.Snapshot()
	names := reg.Names()

	require.True(t, c.SwitchLayout(cat.Layout("LAYOUT2")))
	after := c.Snapshot()

	require.Len(t, after.Columns, len(beforeSnap.Columns))
	for i := range after.Columns {
		b, a := beforeSnap.Columns[i], after.Columns[i]
		assert.Equal(t, b.Name, a.Name)
		assert.Equal(t, b.Role, a.Role)
		assert.InDelta(t, b.Width, a.Width, eps)
		assertVecNear(t, b.Position, a.Position)
		assert.InDelta(t, 0.3, a.BottomHeight, eps)
	}
	for _, col := range c.Columns() {
		for _, u := range col.Units() {
			assert.False(t, oldUnits[u], "unit %s is rebuilt", u.Name())
		}
	}
	assert.InDelta(t, 2.4, c.Height(), eps)
	assert.Equal(t, names, reg.Names())
}

func TestClosetSwitchLayoutRejectsForeignLayouts(t *testing.T) {
	c, cat := newTestCloset(t, "FAMILY2")
	assert.Same(t, cat.Layout("LAYOUT3"), c.Layout())

	assert.False(t, c.SwitchLayout(cat.Layout("LAYOUT2")))
	assert.False(t, c.SwitchLayout(catalog.Default().Layout("LAYOUT1")), "layouts from another catalog are not members")
	assert.False(t, c.SwitchLayout(nil))
	assert.Same(t, cat.Layout("LAYOUT3"), c.Layout())

	assert.True(t, c.SwitchLayout(cat.Layout("LAYOUT1")))
	assert.Equal(t, "TOP_CABINET", c.Columns()[0].Top()[0].Type().Name)
	assert.True(t, c.SwitchLayout(cat.Layout("LAYOUT1")))
}

func TestClosetSwitchLayoutKeepsDoorState(t *testing.T) {
	c, cat := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(1.6))
	require.True(t, c.SetDepth(0.55))
	require.True(t, c.OpenTopAt(1, true))

	require.True(t, c.SwitchLayout(cat.Layout("LAYOUT2")))
	cols := c.Columns()
	assert.False(t, cols[0].TopOpen())
	assert.True(t, cols[1].TopOpen())
	assert.InDelta(t, 0.55, cols[2].Bottom()[0].Depth(), eps)
}

func TestClosetMiddleHingesAlternate(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(3.5))

	cols := c.Columns()
	require.Len(t, cols, 5)
	assert.Equal(t, model.HingeLeft, cols[0].Hinge())
	assert.Equal(t, model.HingeRight, cols[4].Hinge())
	for i := 1; i < len(cols)-2; i++ {
		assert.NotEqual(t, cols[i].Hinge(), cols[i+1].Hinge(), "columns %d and %d", i, i+1)
	}
	for _, col := range cols {
		assert.Equal(t, col.Hinge().Left(), col.Bottom()[0].LeftDoor())
		assert.Equal(t, col.Hinge().Left(), col.Top()[0].LeftDoor())
	}
}

func TestClosetRoleExclusivity(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(3.0))

	cols := c.Columns()
	single, left, right := 0, 0, 0
	for _, col := range cols {
		switch col.Role() {
		case model.RoleSingle:
			single++
		case model.RoleLeft:
			left++
		case model.RoleRight:
			right++
		}
	}
	assert.Equal(t, 0, single)
	assert.Equal(t, 1, left)
	assert.Equal(t, 1, right)

	walls := 0
	for _, col := range cols {
		u := col.Bottom()[0]
		if u.leftWallShown {
			walls++
		}
		if u.rightWallShown {
			walls++
		}
	}
	assert.Equal(t, 2, walls, "only the outer walls without inner walls")

	c.SetInnerWalls(true)
	walls = 0
	for _, col := range cols {
		if col.Bottom()[0].rightWallShown {
			walls++
		}
	}
	assert.Equal(t, len(cols), walls)
}

func TestClosetHeightAndDepth(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(1.6))

	assert.False(t, c.SetHeight(3.0))
	assert.InDelta(t, 2.0, c.Height(), eps)
	require.True(t, c.SetHeight(2.4))
	for _, col := range c.Columns() {
		assert.InDelta(t, 2.4, col.Height(), eps)
		assert.InDelta(t, 0.9, col.BottomHeight(), eps)
	}

	assert.False(t, c.SetDepth(0.9))
	assert.False(t, c.SetDepth(0.2))
	require.True(t, c.SetDepth(0.6))
	for _, col := range c.Columns() {
		for _, u := range col.Units() {
			assert.InDelta(t, 0.6, u.Depth(), eps)
		}
	}
}

func TestClosetShrinkReleasesColumns(t *testing.T) {
	reg := scene.NewMemory(nil)
	c, _ := newTestCloset(t, "FAMILY1", WithRegistry(reg))
	fresh, _ := newTestCloset(t, "FAMILY1")
	require.True(t, fresh.SetWidth(0.5))

	require.True(t, c.SetWidth(2.0))
	assert.Equal(t, 6, reg.Len())
	require.True(t, c.SetWidth(0.5))

	assert.Len(t, c.Columns(), 1)
	assert.Equal(t, []string{"Column0BOTTOM_CABINET", "Column0TOP_CABINET"}, reg.Names())
	assert.Equal(t, fresh.Arena().Len(), c.Arena().Len())
}

func TestClosetGrowInheritsDoorState(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY1")
	c.OpenAllTop(true)
	require.True(t, c.SetHeight(2.4))
	require.True(t, c.SetWidth(2.0))

	for _, col := range c.Columns() {
		assert.True(t, col.TopOpen())
		assert.False(t, col.BottomOpen())
		assert.InDelta(t, 2.4, col.Height(), eps)
	}
}

func TestClosetHingeOverrides(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(2.0))

	require.True(t, c.SwitchBottomDoorToLeftAt(0, false))
	require.True(t, c.SwitchTopDoorToLeftAt(2, true))
	assert.False(t, c.SwitchTopDoorToLeftAt(3, true))
	assert.False(t, c.OpenTopAt(-1, true))
	assert.False(t, c.OpenBottomAt(3, true))

	require.True(t, c.SetWidth(2.1))
	assert.False(t, c.Columns()[0].Bottom()[0].LeftDoor())
	assert.True(t, c.Columns()[0].Top()[0].LeftDoor())
	assert.True(t, c.Columns()[2].Top()[0].LeftDoor())

	require.True(t, c.SetWidth(1.0))
	require.True(t, c.SetWidth(2.0))
	assert.False(t, c.Columns()[2].Top()[0].LeftDoor(), "dropped columns lose their overrides")

	c.ClearHingeOverrides()
	assert.True(t, c.Columns()[0].Bottom()[0].LeftDoor())
}

func TestClosetPosition(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY1", WithPosition(r3.Vec{X: 5, Y: 0, Z: 1}))
	require.True(t, c.SetWidth(1.0))
	cols := c.Columns()
	require.Len(t, cols, 2)
	assert.InDelta(t, 4.75, cols[0].Position().X, eps)
	assert.InDelta(t, 5.25, cols[1].Position().X, eps)

	c.SetPosition(r3.Vec{})
	assert.InDelta(t, -0.25, cols[0].Position().X, eps)
	assert.InDelta(t, 0, cols[0].Position().Z, eps)
}

func TestClosetBaseLegsAndMolding(t *testing.T) {
	reg := scene.NewMemory(nil)
	c, _ := newTestCloset(t, "SIDEBOARD", WithRegistry(reg))

	assert.True(t, reg.Has("Base"))
	s := c.Snapshot()
	require.Len(t, s.Legs, 4)
	assert.InDelta(t, 1.8, c.Height(), eps)
	assert.InDelta(t, 0.08, c.Columns()[0].Bottom()[0].Position().Y, eps, "units stand on the base")

	col := c.Columns()[0]
	assert.False(t, col.Bottom()[0].LeftDoor(), "single sideboard hinges right")
	assert.True(t, col.Bottom()[1].LeftDoor())

	require.True(t, c.SetWidth(2.0))
	s = c.Snapshot()
	require.Len(t, s.Legs, 6)
	corners := []r3.Vec{{X: -0.97, Z: 0.17}, {X: 0.97, Z: 0.17}, {X: 0.97, Z: -0.17}, {X: -0.97, Z: -0.17}}
	for i, want := range corners {
		assertVecNear(t, want, s.Legs[i].Position, "corner %d", i)
		assert.InDelta(t, float64(90*i), s.Legs[i].Rotation, eps)
		assert.False(t, s.Legs[i].Center)
	}
	assertVecNear(t, r3.Vec{X: 0, Z: 0.17}, s.Legs[4].Position)
	assertVecNear(t, r3.Vec{X: 0, Z: -0.17}, s.Legs[5].Position)
	assert.InDelta(t, 180, s.Legs[5].Rotation, eps)
	assert.True(t, s.Legs[4].Center)

	require.NotNil(t, s.Molding)
	assertVecNear(t, r3.Vec{X: -0.8, Y: 1.88}, s.Molding.Position)

	require.True(t, c.SetDepth(0.6))
	s = c.Snapshot()
	require.Len(t, s.Legs, 6, "depth changes keep the center leg count")
	assert.InDelta(t, -0.27, s.Legs[5].Position.Z, eps)

	require.True(t, c.SetWidth(3.0))
	s = c.Snapshot()
	require.Len(t, s.Legs, 8)
	assert.InDelta(t, -0.5, s.Legs[4].Position.X, eps)
	assert.InDelta(t, 0.5, s.Legs[6].Position.X, eps)

	require.True(t, c.SetHeight(2.0))
	s = c.Snapshot()
	assert.InDelta(t, 2.08, s.Molding.Position.Y, eps)
	assert.InDelta(t, -1.3, s.Molding.Position.X, eps)
}

func TestClosetSnapshotIsSerialisable(t *testing.T) {
	c, _ := newTestCloset(t, "FAMILY2")
	require.True(t, c.SetWidth(1.2))

	s := c.Snapshot()
	assert.Equal(t, "FAMILY2", s.Family)
	assert.Equal(t, "LAYOUT3", s.Layout)
	assert.Equal(t, 4, s.UnitCount())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	var back model.ClosetSnapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.Columns[1].Role, back.Columns[1].Role)
	assert.Len(t, back.Columns[0].Bottom[0].Drawers, 3)
}

func TestClosetRemoveFromScene(t *testing.T) {
	reg := scene.NewMemory(nil)
	c, _ := newTestCloset(t, "SIDEBOARD", WithRegistry(reg))
	require.True(t, c.SetWidth(1.5))
	require.NotZero(t, reg.Len())

	c.RemoveFromScene()
	assert.Equal(t, 0, reg.Len())
}

func TestDesignRoundTrip(t *testing.T) {
	c, cat := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(1.6))
	require.True(t, c.SetHeight(2.4))
	require.True(t, c.SetDepth(0.5))
	require.True(t, c.SwitchLayout(cat.Layout("LAYOUT2")))
	c.OpenAllTop(true)
	require.True(t, c.SwitchBottomDoorToLeftAt(1, true))

	d := c.Design(model.NewDesign("Hallway", ""))
	assert.Equal(t, "FAMILY1", d.Family)
	assert.Equal(t, "LAYOUT2", d.Layout)
	assert.Equal(t, map[int]bool{1: true}, d.BottomLeftDoors)

	rebuilt, err := Build(cat, d, catalog.NewAssets(cat))
	require.NoError(t, err)
	assert.Equal(t, "LAYOUT2", rebuilt.Layout().Name)
	assert.InDelta(t, 1.6, rebuilt.Width(), eps)
	assert.InDelta(t, 2.4, rebuilt.Height(), eps)
	assert.InDelta(t, 0.5, rebuilt.Depth(), eps)
	assert.Len(t, rebuilt.Columns(), 3)
	assert.True(t, rebuilt.Columns()[2].TopOpen())
	assert.True(t, rebuilt.Columns()[1].Bottom()[0].LeftDoor())
	assert.Equal(t, d.BottomLeftDoors, rebuilt.Design(model.Design{}).BottomLeftDoors)
}

func TestDesignKeepsPerColumnDoorState(t *testing.T) {
	c, cat := newTestCloset(t, "FAMILY1")
	require.True(t, c.SetWidth(2.0))
	require.True(t, c.OpenTopAt(1, true))
	require.True(t, c.OpenBottomAt(2, true))

	d := c.Design(model.NewDesign("Hallway", ""))
	assert.False(t, d.TopOpen)
	assert.Equal(t, map[int]bool{1: true}, d.TopOpenDoors)
	assert.Equal(t, map[int]bool{2: true}, d.BottomOpenDoors)

	rebuilt, err := Build(cat, d, catalog.NewAssets(cat))
	require.NoError(t, err)
	cols := rebuilt.Columns()
	assert.False(t, cols[0].TopOpen())
	assert.True(t, cols[1].TopOpen())
	assert.False(t, cols[1].BottomOpen())
	assert.True(t, cols[2].BottomOpen())

	require.True(t, rebuilt.SetWidth(1.0))
	assert.Nil(t, rebuilt.Design(model.Design{}).BottomOpenDoors, "removed columns drop their state")

	rebuilt.OpenAllTop(false)
	assert.Nil(t, rebuilt.Design(model.Design{}).TopOpenDoors)
	assert.False(t, rebuilt.Columns()[1].TopOpen())
}

func TestApplyReportsRejectedValues(t *testing.T) {
	c, cat := newTestCloset(t, "FAMILY1")
	d := c.Design(model.Design{})
	d.Width = 9
	d.Height = 2.4

	err := c.Apply(d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.InDelta(t, 2.4, c.Height(), eps, "valid values still apply")

	d.Family = "SIDEBOARD"
	assert.Error(t, c.Apply(d))

	_, err = Build(cat, model.Design{Family: "NOPE"}, catalog.NewAssets(cat))
	assert.Error(t, err)
}
