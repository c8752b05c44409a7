package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, model.DefaultLimits(), c.Limits)
	assert.Equal(t, []string{"FAMILY1", "FAMILY2", "SIDEBOARD"}, c.FamilyNames())

	f := c.Family("FAMILY1")
	require.NotNil(t, f)
	require.Len(t, f.All(), 2)
	assert.Equal(t, "LAYOUT1", f.Default().Name)
	assert.Same(t, c.Layout("LAYOUT2"), f.Layout("LAYOUT2"))

	bottom := c.Unit("BOTTOM_CABINET")
	require.NotNil(t, bottom)
	assert.InDelta(t, 0.1, bottom.LegHeight, 1e-12)
	assert.Equal(t, model.Vec(0.17, 0.14, 0.2), bottom.DoorOffset)
	assert.Equal(t, model.Vec(-0.32, 0.45, 0), bottom.HandleOffset)
	assert.True(t, bottom.Caps.Has(model.CapLegs|model.CapDoor|model.CapShelves))

	top := c.Unit("TOP_CABINET")
	assert.False(t, top.Caps.Has(model.CapLegs))

	drawers := c.Unit("DRAWER_CABINET")
	assert.True(t, drawers.Caps.Has(model.CapDrawers))
	assert.False(t, drawers.Caps.Has(model.CapDoor))
	assert.Len(t, drawers.Drawers, 3)

	l1 := c.Layout("LAYOUT1")
	assert.InDelta(t, 0.9, l1.Split.BottomHeight(2.4), 1e-12)
	assert.InDelta(t, 0.8, l1.Split.BottomHeight(2.0), 1e-12)
	assert.InDelta(t, 0.3, c.Layout("LAYOUT2").Split.BottomHeight(2.4), 1e-12)

	side := c.Layout("SIDEBOARD")
	require.NotNil(t, side.Base)
	assert.False(t, side.TwoPart())
	assert.Equal(t, model.HingeRight, side.Hinges.Single)
}

func TestDefaultReturnsFreshCopies(t *testing.T) {
	a, b := Default(), Default()
	assert.NotSame(t, a.Layout("LAYOUT1"), b.Layout("LAYOUT1"))
	assert.False(t, a.Family("FAMILY1").Supports(b.Layout("LAYOUT1")))
}

func TestAssetsProvideClones(t *testing.T) {
	assets := NewAssets(Default())

	first, ok := assets.Provide("plank")
	require.True(t, ok)
	second, _ := assets.Provide("plank")
	first.Joints[0].Position.X = 42

	assert.NotEqual(t, first.Joints[0].Position.X, second.Joints[0].Position.X)

	_, ok = assets.Provide("missing")
	assert.False(t, ok)

	var _ part.Provider = assets
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.toml": FormatTOML,
		"a.json": FormatJSON,
	} {
		got, err := FormatFor(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFor("catalog.ini")
	assert.Error(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(Default(), format)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "catalog."+string(format))
			require.NoError(t, os.WriteFile(path, data, 0644))

			c, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, Default().FamilyNames(), c.FamilyNames())
			assert.Equal(t, Default().Unit("BOTTOM_CABINET").DoorOffset, c.Unit("BOTTOM_CABINET").DoorOffset)
			require.NotNil(t, c.Unit("SHELF_CABINET").ShelfCount)
			assert.Equal(t, 1, *c.Unit("SHELF_CABINET").ShelfCount)
			assert.Equal(t, model.SplitThreshold, c.Layout("LAYOUT1").Split.Kind)
		})
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, c.Family("FAMILY1"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsUnknownYAMLFields(t *testing.T) {
	_, err := Parse([]byte("limits:\n  min_widht: 0.5\n"), FormatYAML)
	assert.Error(t, err)
}

func TestParseStructuralErrors(t *testing.T) {
	doc := `
assets:
  - key: body
units:
  - {name: BOX, width: 0.4, height: 0.9, depth: 0.4, assets: {body: body}}
layouts:
  - {name: EMPTY, bottom: [], split: {kind: full}}
families:
  - {name: F, layouts: [EMPTY]}
`
	_, err := Parse([]byte(doc), FormatYAML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidCatalog))
}

func TestParseTOML(t *testing.T) {
	doc := `
[[assets]]
key = "body"

[[units]]
name = "BOX"
width = 0.5
height = 1.0
depth = 0.35
leg_height = 0.05
[units.assets]
body = "body"

[[layouts]]
name = "SOLO"
bottom = ["BOX"]
[layouts.split]
kind = "full"

[[families]]
name = "F"
layouts = ["SOLO"]
`
	c, err := Parse([]byte(doc), FormatTOML)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.Unit("BOX").Width, 1e-12)
	assert.Equal(t, model.DefaultHinges(), c.Layout("SOLO").Hinges)
}
