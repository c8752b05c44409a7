package model

import "github.com/google/uuid"

// ToolProfile is a saved router bit with its cutting parameters.
type ToolProfile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ToolDiameter float64 `json:"tool_diameter"`
	FeedRate     float64 `json:"feed_rate"`
	PlungeRate   float64 `json:"plunge_rate"`
	SpindleSpeed int     `json:"spindle_speed"`
	PassDepth    float64 `json:"pass_depth"`
}

func NewToolProfile(name string, diameter, feedRate, plungeRate float64, spindleSpeed int, passDepth float64) ToolProfile {
	return ToolProfile{
		ID:           uuid.New().String()[:8],
		Name:         name,
		ToolDiameter: diameter,
		FeedRate:     feedRate,
		PlungeRate:   plungeRate,
		SpindleSpeed: spindleSpeed,
		PassDepth:    passDepth,
	}
}

// ApplyToSettings copies the tool parameters into s. The kerf follows the
// bit diameter.
func (tp ToolProfile) ApplyToSettings(s *CutSettings) {
	s.ToolDiameter = tp.ToolDiameter
	s.FeedRate = tp.FeedRate
	s.PlungeRate = tp.PlungeRate
	s.SpindleSpeed = tp.SpindleSpeed
	s.PassDepth = tp.PassDepth
	s.KerfWidth = tp.ToolDiameter
}

// BoardPreset is a stock board the closet carcass can be cut from.
type BoardPreset struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Material      string  `json:"material"`
	Width         float64 `json:"width"`     // mm
	Height        float64 `json:"height"`    // mm
	Thickness     float64 `json:"thickness"` // mm
	PricePerSheet float64 `json:"price_per_sheet,omitempty"`
}

func NewBoardPreset(name, material string, w, h, thickness, price float64) BoardPreset {
	return BoardPreset{
		ID:            uuid.New().String()[:8],
		Name:          name,
		Material:      material,
		Width:         w,
		Height:        h,
		Thickness:     thickness,
		PricePerSheet: price,
	}
}

// ToStockSheet returns qty sheets of the board, carrying its price.
func (bp BoardPreset) ToStockSheet(qty int) StockSheet {
	s := NewStockSheet(bp.Name, bp.Width, bp.Height, qty)
	s.PricePerSheet = bp.PricePerSheet
	s.Thickness = bp.Thickness
	return s
}

// ApplyToSettings sets the cut depth to the board thickness.
func (bp BoardPreset) ApplyToSettings(s *CutSettings) {
	if bp.Thickness > 0 {
		s.CutDepth = bp.Thickness
	}
}

// Inventory holds the saved tools and boards.
type Inventory struct {
	Tools  []ToolProfile `json:"tools"`
	Boards []BoardPreset `json:"boards"`
}

func DefaultInventory() Inventory {
	return Inventory{
		Tools: []ToolProfile{
			NewToolProfile("6mm Compression Bit", 6.0, 1500, 500, 18000, 6.0),
			NewToolProfile("8mm Compression Bit", 8.0, 2000, 600, 18000, 9.0),
			NewToolProfile("1/4\" Downcut (6.35mm)", 6.35, 1500, 500, 18000, 6.0),
		},
		Boards: []BoardPreset{
			NewBoardPreset("Melamine White 2800x2070", "Melamine", 2800, 2070, 18, 0),
			NewBoardPreset("Melamine Oak 2800x2070", "Melamine", 2800, 2070, 18, 0),
			NewBoardPreset("MDF 2440x1220", "MDF", 2440, 1220, 18, 0),
			NewBoardPreset("Plywood Birch 2500x1250", "Plywood", 2500, 1250, 18, 0),
			NewBoardPreset("HDF Back 2800x2070", "HDF", 2800, 2070, 3, 0),
		},
	}
}

func (inv *Inventory) FindToolByName(name string) *ToolProfile {
	for i := range inv.Tools {
		if inv.Tools[i].Name == name {
			return &inv.Tools[i]
		}
	}
	return nil
}

func (inv *Inventory) FindBoardByName(name string) *BoardPreset {
	for i := range inv.Boards {
		if inv.Boards[i].Name == name {
			return &inv.Boards[i]
		}
	}
	return nil
}

// BoardNames lists board names in inventory order.
func (inv *Inventory) BoardNames() []string {
	names := make([]string, len(inv.Boards))
	for i, b := range inv.Boards {
		names[i] = b.Name
	}
	return names
}

// ToolNames lists tool names in inventory order.
func (inv *Inventory) ToolNames() []string {
	names := make([]string, len(inv.Tools))
	for i, t := range inv.Tools {
		names[i] = t.Name
	}
	return names
}
