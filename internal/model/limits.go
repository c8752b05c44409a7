package model

// HeightRange is an inclusive range of column heights in meters.
type HeightRange struct {
	Min float64 `json:"min" yaml:"min" toml:"min"`
	Max float64 `json:"max" yaml:"max" toml:"max"`
}

// Contains reports whether h lies within the range.
func (r HeightRange) Contains(h float64) bool {
	return h >= r.Min && h <= r.Max
}

// Limits holds the dimension bounds of a catalog. All values are meters.
type Limits struct {
	MinWidth       float64     `json:"min_width" yaml:"min_width" toml:"min_width"`
	MaxWidth       float64     `json:"max_width" yaml:"max_width" toml:"max_width"`
	MaxColumnWidth float64     `json:"max_column_width" yaml:"max_column_width" toml:"max_column_width"`
	MinDepth       float64     `json:"min_depth" yaml:"min_depth" toml:"min_depth"`
	MaxDepth       float64     `json:"max_depth" yaml:"max_depth" toml:"max_depth"`
	MaxShelfOffset float64     `json:"max_shelf_offset" yaml:"max_shelf_offset" toml:"max_shelf_offset"`
	OnePart        HeightRange `json:"one_part" yaml:"one_part" toml:"one_part"`
	TwoPart        HeightRange `json:"two_part" yaml:"two_part" toml:"two_part"`
}

// DefaultLimits returns the bounds of the stock closet family.
func DefaultLimits() Limits {
	return Limits{
		MinWidth:       0.4,
		MaxWidth:       3.5,
		MaxColumnWidth: 0.76,
		MinDepth:       0.3,
		MaxDepth:       0.8,
		MaxShelfOffset: 0.5,
		OnePart:        HeightRange{Min: 0.8, Max: 2.2},
		TwoPart:        HeightRange{Min: 2.0, Max: 2.6},
	}
}

// ColumnRange returns the valid height range for a one-part or two-part column.
func (l Limits) ColumnRange(twoPart bool) HeightRange {
	if twoPart {
		return l.TwoPart
	}
	return l.OnePart
}

// WidthValid reports whether w is an acceptable closet width.
func (l Limits) WidthValid(w float64) bool {
	return w >= l.MinWidth && w <= l.MaxWidth
}

// DepthValid reports whether d is an acceptable closet depth.
func (l Limits) DepthValid(d float64) bool {
	return d >= l.MinDepth && d <= l.MaxDepth
}

// fillDefaults replaces zero fields with the default limits.
func (l *Limits) fillDefaults() {
	d := DefaultLimits()
	if l.MinWidth == 0 {
		l.MinWidth = d.MinWidth
	}
	if l.MaxWidth == 0 {
		l.MaxWidth = d.MaxWidth
	}
	if l.MaxColumnWidth == 0 {
		l.MaxColumnWidth = d.MaxColumnWidth
	}
	if l.MinDepth == 0 {
		l.MinDepth = d.MinDepth
	}
	if l.MaxDepth == 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxShelfOffset == 0 {
		l.MaxShelfOffset = d.MaxShelfOffset
	}
	if l.OnePart == (HeightRange{}) {
		l.OnePart = d.OnePart
	}
	if l.TwoPart == (HeightRange{}) {
		l.TwoPart = d.TwoPart
	}
}
