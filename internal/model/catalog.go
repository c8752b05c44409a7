package model

import (
	"errors"
	"fmt"

	"github.com/piwi3910/ClosetCraft/internal/part"
)

// ErrInvalidCatalog is wrapped by every structural catalog error.
var ErrInvalidCatalog = errors.New("invalid catalog")

// AssetSpec declares the joint template of one asset key.
type AssetSpec struct {
	Key    string       `json:"key" yaml:"key" toml:"key"`
	Joints []part.Joint `json:"joints,omitempty" yaml:"joints,omitempty" toml:"joints,omitempty"`
}

// Catalog holds every table the layout engine reads: limits, assets, unit
// types, layouts and families. Resolve must be called before use and the
// slices must not be modified afterwards.
type Catalog struct {
	Limits   Limits      `json:"limits" yaml:"limits" toml:"limits"`
	Assets   []AssetSpec `json:"assets" yaml:"assets" toml:"assets"`
	Units    []UnitType  `json:"units" yaml:"units" toml:"units"`
	Layouts  []Layout    `json:"layouts" yaml:"layouts" toml:"layouts"`
	Families []Family    `json:"families" yaml:"families" toml:"families"`

	assets   map[string]*AssetSpec
	units    map[string]*UnitType
	layouts  map[string]*Layout
	families map[string]*Family
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

// Resolve validates the tables and links names to the interned entries.
func (c *Catalog) Resolve() error {
	c.Limits.fillDefaults()
	if c.Limits.MinWidth > c.Limits.MaxWidth {
		return invalid("min_width %v exceeds max_width %v", c.Limits.MinWidth, c.Limits.MaxWidth)
	}

	c.assets = make(map[string]*AssetSpec, len(c.Assets))
	for i := range c.Assets {
		a := &c.Assets[i]
		if a.Key == "" {
			return invalid("asset %d has no key", i)
		}
		if _, dup := c.assets[a.Key]; dup {
			return invalid("duplicate asset %q", a.Key)
		}
		c.assets[a.Key] = a
	}

	c.units = make(map[string]*UnitType, len(c.Units))
	for i := range c.Units {
		u := &c.Units[i]
		if u.Name == "" {
			return invalid("unit %d has no name", i)
		}
		if _, dup := c.units[u.Name]; dup {
			return invalid("duplicate unit %q", u.Name)
		}
		if u.Width <= 0 || u.Height <= 0 || u.Depth <= 0 {
			return invalid("unit %q must have positive dimensions", u.Name)
		}
		if u.Assets.Body == "" {
			return invalid("unit %q has no body asset", u.Name)
		}
		for _, k := range u.Assets.Keys() {
			if _, ok := c.assets[k]; !ok {
				return invalid("unit %q references unknown asset %q", u.Name, k)
			}
		}
		if u.ShelfCount != nil && *u.ShelfCount < 0 {
			return invalid("unit %q has a negative shelf count", u.Name)
		}
		if err := u.resolveCaps(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
		c.units[u.Name] = u
	}

	c.layouts = make(map[string]*Layout, len(c.Layouts))
	for i := range c.Layouts {
		l := &c.Layouts[i]
		if l.Name == "" {
			return invalid("layout %d has no name", i)
		}
		if _, dup := c.layouts[l.Name]; dup {
			return invalid("duplicate layout %q", l.Name)
		}
		if len(l.Bottom) == 0 {
			return invalid("layout %q needs at least one bottom unit", l.Name)
		}
		if err := l.Split.validate(); err != nil {
			return invalid("layout %q: %v", l.Name, err)
		}
		if l.TwoPart() == (l.Split.Kind == SplitFull) {
			return invalid("layout %q: full split is required exactly when there is no top stack", l.Name)
		}
		var err error
		if l.BottomUnits, err = c.lookupUnits(l.Bottom); err != nil {
			return invalid("layout %q: %v", l.Name, err)
		}
		if l.TopUnits, err = c.lookupUnits(l.Top); err != nil {
			return invalid("layout %q: %v", l.Name, err)
		}
		if l.Base != nil {
			if l.Base.Leg == "" {
				return invalid("layout %q: base needs a leg asset", l.Name)
			}
			for _, k := range []string{l.Base.Leg, l.Base.CenterLeg, l.Base.Molding} {
				if _, ok := c.assets[k]; k != "" && !ok {
					return invalid("layout %q: base references unknown asset %q", l.Name, k)
				}
			}
		}
		l.Hinges.fillDefaults()
		c.layouts[l.Name] = l
	}

	c.families = make(map[string]*Family, len(c.Families))
	for i := range c.Families {
		f := &c.Families[i]
		if f.Name == "" {
			return invalid("family %d has no name", i)
		}
		if _, dup := c.families[f.Name]; dup {
			return invalid("duplicate family %q", f.Name)
		}
		if len(f.Layouts) == 0 {
			return invalid("family %q has no layouts", f.Name)
		}
		f.refs = f.refs[:0]
		for _, name := range f.Layouts {
			l, ok := c.layouts[name]
			if !ok {
				return invalid("family %q references unknown layout %q", f.Name, name)
			}
			f.refs = append(f.refs, l)
		}
		c.families[f.Name] = f
	}
	if len(c.families) == 0 {
		return invalid("no families defined")
	}
	return nil
}

func (c *Catalog) lookupUnits(names []string) ([]*UnitType, error) {
	out := make([]*UnitType, 0, len(names))
	for _, n := range names {
		u, ok := c.units[n]
		if !ok {
			return nil, fmt.Errorf("unknown unit %q", n)
		}
		out = append(out, u)
	}
	return out, nil
}

// Asset returns the asset template for key.
func (c *Catalog) Asset(key string) (*AssetSpec, bool) {
	a, ok := c.assets[key]
	return a, ok
}

// Unit returns the unit type with the given name, or nil.
func (c *Catalog) Unit(name string) *UnitType { return c.units[name] }

// Layout returns the layout with the given name, or nil.
func (c *Catalog) Layout(name string) *Layout { return c.layouts[name] }

// Family returns the family with the given name, or nil.
func (c *Catalog) Family(name string) *Family { return c.families[name] }

// FamilyNames returns family names in declaration order.
func (c *Catalog) FamilyNames() []string {
	names := make([]string, len(c.Families))
	for i, f := range c.Families {
		names[i] = f.Name
	}
	return names
}
