package model

import "github.com/google/uuid"

// Grain represents the grain direction constraint for a panel.
type Grain int

const (
	GrainNone       Grain = iota // Can rotate freely
	GrainHorizontal              // Grain runs along the panel width
	GrainVertical                // Grain runs along the panel height
)

func (g Grain) String() string {
	switch g {
	case GrainHorizontal:
		return "Horizontal"
	case GrainVertical:
		return "Vertical"
	default:
		return "None"
	}
}

// Panel is a board that has to be cut for a closet. Sizes are in mm.
type Panel struct {
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	Unit     string      `json:"unit"` // unit type the panel belongs to
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Quantity int         `json:"quantity"`
	Grain    Grain       `json:"grain"`
	Banding  EdgeBanding `json:"banding"`
}

func NewPanel(label string, w, h float64, qty int) Panel {
	return Panel{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
		Grain:    GrainNone,
	}
}

// Area returns the area of a single panel in mm².
func (p Panel) Area() float64 { return p.Width * p.Height }

// StockSheet is an available board to cut panels from.
type StockSheet struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Width         float64 `json:"width"`  // mm
	Height        float64 `json:"height"` // mm
	Quantity      int     `json:"quantity"`
	PricePerSheet float64 `json:"price_per_sheet,omitempty"`
	Thickness     float64 `json:"thickness,omitempty"` // mm, 0 when unknown
}

func NewStockSheet(label string, w, h float64, qty int) StockSheet {
	return StockSheet{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// CutSettings holds packer and CNC configuration.
// Algorithm selects the packing strategy for the cut plan.
type Algorithm string

const (
	AlgorithmGuillotine Algorithm = "guillotine" // greedy best-area fit, largest first
	AlgorithmGenetic    Algorithm = "genetic"    // evolves the board order and rotations
)

type CutSettings struct {
	KerfWidth float64   `json:"kerf_width"` // Blade/bit width in mm
	EdgeTrim  float64   `json:"edge_trim"`  // Trim around sheet edges in mm
	Algorithm Algorithm `json:"algorithm,omitempty"`

	ToolDiameter float64 `json:"tool_diameter"` // mm
	FeedRate     float64 `json:"feed_rate"`     // mm/min
	PlungeRate   float64 `json:"plunge_rate"`   // mm/min
	SpindleSpeed int     `json:"spindle_speed"` // RPM
	SafeZ        float64 `json:"safe_z"`        // mm
	CutDepth     float64 `json:"cut_depth"`     // board thickness, mm
	PassDepth    float64 `json:"pass_depth"`    // mm
	UseClimb     bool    `json:"use_climb"`

	GCodeProfile string `json:"gcode_profile"`
}

func DefaultSettings() CutSettings {
	return CutSettings{
		KerfWidth:    3.2,
		EdgeTrim:     10.0,
		Algorithm:    AlgorithmGuillotine,
		ToolDiameter: 6.0,
		FeedRate:     1500.0,
		PlungeRate:   500.0,
		SpindleSpeed: 18000,
		SafeZ:        5.0,
		CutDepth:     18.0,
		PassDepth:    6.0,
		UseClimb:     true,
		GCodeProfile: "Generic",
	}
}

// GCodeProfile defines the dialect of a CNC controller.
type GCodeProfile struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	StartCode     []string `json:"start_code"`
	SpindleStart  string   `json:"spindle_start"` // e.g. "M3 S%d"
	SpindleStop   string   `json:"spindle_stop"`
	RapidMove     string   `json:"rapid_move"`
	FeedMove      string   `json:"feed_move"`
	EndCode       []string `json:"end_code"` // [SafeZ] is substituted
	CommentPrefix string   `json:"comment_prefix"`
	CommentSuffix string   `json:"comment_suffix"`
	DecimalPlaces int      `json:"decimal_places"`
}

// GCodeProfiles are the built-in controller dialects. Generic must stay last.
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Grbl controllers",
		StartCode:     []string{"G90", "G21", "G17"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "Fanuc",
		Description:   "Fanuc style controllers with parenthesised comments",
		StartCode:     []string{"G90", "G21", "G17", "G40"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G00",
		FeedMove:      "G01",
		EndCode:       []string{"G00 Z[SafeZ]", "G28 X0 Y0", "M30"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// GetProfile returns a GCode profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// IsBuiltInProfile reports whether name is one of GCodeProfiles.
func IsBuiltInProfile(name string) bool {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ResolveProfile looks name up in custom first and then in the built-in
// profiles.
func ResolveProfile(name string, custom []GCodeProfile) GCodeProfile {
	for _, p := range custom {
		if p.Name == name {
			return p
		}
	}
	return GetProfile(name)
}

// Placement is a single panel placed on a stock sheet.
type Placement struct {
	Panel   Panel   `json:"panel"`
	X       float64 `json:"x"` // from left edge, mm
	Y       float64 `json:"y"` // from top edge, mm
	Rotated bool    `json:"rotated"`
}

// PlacedWidth returns the effective width considering rotation.
func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Panel.Height
	}
	return p.Panel.Width
}

// PlacedHeight returns the effective height considering rotation.
func (p Placement) PlacedHeight() float64 {
	if p.Rotated {
		return p.Panel.Width
	}
	return p.Panel.Height
}

// SheetResult is one stock sheet with its placed panels.
type SheetResult struct {
	Stock      StockSheet  `json:"stock"`
	Placements []Placement `json:"placements"`
}

// UsedArea returns the total area used by placed panels.
func (sr SheetResult) UsedArea() float64 {
	var total float64
	for _, p := range sr.Placements {
		total += p.PlacedWidth() * p.PlacedHeight()
	}
	return total
}

// TotalArea returns the stock sheet area.
func (sr SheetResult) TotalArea() float64 {
	return sr.Stock.Width * sr.Stock.Height
}

// Efficiency returns the usage percentage.
func (sr SheetResult) Efficiency() float64 {
	ta := sr.TotalArea()
	if ta == 0 {
		return 0
	}
	return (sr.UsedArea() / ta) * 100.0
}

// CutPlan is the packed result for a closet's panels.
type CutPlan struct {
	Sheets   []SheetResult `json:"sheets"`
	Unplaced []Panel       `json:"unplaced"`
}

// TotalEfficiency returns overall material usage percentage.
func (cp CutPlan) TotalEfficiency() float64 {
	var used, total float64
	for _, s := range cp.Sheets {
		used += s.UsedArea()
		total += s.TotalArea()
	}
	if total == 0 {
		return 0
	}
	return (used / total) * 100.0
}

// PlacedCount returns the number of placed panels.
func (cp CutPlan) PlacedCount() int {
	n := 0
	for _, s := range cp.Sheets {
		n += len(s.Placements)
	}
	return n
}

// TotalCost sums the price of every used sheet.
func (cp CutPlan) TotalCost() float64 {
	var total float64
	for _, s := range cp.Sheets {
		total += s.Stock.PricePerSheet
	}
	return total
}

// HasPricing reports whether any used sheet carries a price.
func (cp CutPlan) HasPricing() bool {
	for _, s := range cp.Sheets {
		if s.Stock.PricePerSheet > 0 {
			return true
		}
	}
	return false
}
