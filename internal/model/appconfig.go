package model

// AppConfig holds application-wide preferences and the defaults applied to
// new closets and cut plans.
type AppConfig struct {
	// Closet defaults
	DefaultFamily string  `json:"default_family"`
	DefaultWidth  float64 `json:"default_width"`  // meters
	DefaultHeight float64 `json:"default_height"` // meters, 0 = layout nominal height
	DefaultDepth  float64 `json:"default_depth"`  // meters
	InnerWalls    bool    `json:"inner_walls"`    // show walls between adjacent columns

	// Cut plan defaults
	DefaultKerfWidth    float64   `json:"default_kerf_width"`
	DefaultEdgeTrim     float64   `json:"default_edge_trim"`
	DefaultToolDiameter float64   `json:"default_tool_diameter"`
	DefaultFeedRate     float64   `json:"default_feed_rate"`
	DefaultCutDepth     float64   `json:"default_cut_depth"`
	DefaultPassDepth    float64   `json:"default_pass_depth"`
	DefaultGCodeProfile string    `json:"default_gcode_profile"`
	DefaultAlgorithm    Algorithm `json:"default_algorithm,omitempty"`
	StockWidth          float64   `json:"stock_width"`  // mm
	StockHeight         float64   `json:"stock_height"` // mm

	// Application preferences
	CatalogPath   string   `json:"catalog_path"` // empty = built-in catalog
	ExportDir     string   `json:"export_dir"`
	LogLevel      string   `json:"log_level"`
	RecentDesigns []string `json:"recent_designs"`
}

// DefaultAppConfig returns an AppConfig populated with the defaults from
// DefaultSettings and DefaultLimits.
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	limits := DefaultLimits()
	return AppConfig{
		DefaultFamily:       "FAMILY1",
		DefaultWidth:        limits.MinWidth,
		DefaultDepth:        0.4,
		InnerWalls:          false,
		DefaultKerfWidth:    defaults.KerfWidth,
		DefaultEdgeTrim:     defaults.EdgeTrim,
		DefaultToolDiameter: defaults.ToolDiameter,
		DefaultFeedRate:     defaults.FeedRate,
		DefaultCutDepth:     defaults.CutDepth,
		DefaultPassDepth:    defaults.PassDepth,
		DefaultGCodeProfile: defaults.GCodeProfile,
		DefaultAlgorithm:    defaults.Algorithm,
		StockWidth:          2800,
		StockHeight:         2070,
		ExportDir:           ".",
		LogLevel:            "info",
		RecentDesigns:       []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	s.KerfWidth = c.DefaultKerfWidth
	s.EdgeTrim = c.DefaultEdgeTrim
	s.ToolDiameter = c.DefaultToolDiameter
	s.FeedRate = c.DefaultFeedRate
	s.CutDepth = c.DefaultCutDepth
	s.PassDepth = c.DefaultPassDepth
	s.GCodeProfile = c.DefaultGCodeProfile
	if c.DefaultAlgorithm != "" {
		s.Algorithm = c.DefaultAlgorithm
	}
}

// Stock returns the default stock sheet described by the config.
func (c AppConfig) Stock() StockSheet {
	return NewStockSheet("Board", c.StockWidth, c.StockHeight, 50)
}

// AddRecent records a design ID as most recently used, keeping ten entries.
func (c *AppConfig) AddRecent(id string) {
	recent := []string{id}
	for _, r := range c.RecentDesigns {
		if r != id {
			recent = append(recent, r)
		}
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}
	c.RecentDesigns = recent
}
