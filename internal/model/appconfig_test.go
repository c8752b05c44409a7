package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultKerfWidth != defaults.KerfWidth {
		t.Errorf("KerfWidth mismatch: config=%f settings=%f", cfg.DefaultKerfWidth, defaults.KerfWidth)
	}
	if cfg.DefaultToolDiameter != defaults.ToolDiameter {
		t.Errorf("ToolDiameter mismatch: config=%f settings=%f", cfg.DefaultToolDiameter, defaults.ToolDiameter)
	}
	if cfg.DefaultGCodeProfile != defaults.GCodeProfile {
		t.Errorf("GCodeProfile mismatch: config=%s settings=%s", cfg.DefaultGCodeProfile, defaults.GCodeProfile)
	}
	if cfg.DefaultWidth != DefaultLimits().MinWidth {
		t.Errorf("expected default width %f, got %f", DefaultLimits().MinWidth, cfg.DefaultWidth)
	}
	if cfg.InnerWalls {
		t.Error("inner walls should be off by default")
	}
	if cfg.RecentDesigns == nil {
		t.Error("RecentDesigns should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultKerfWidth = 5.0
	cfg.DefaultFeedRate = 3000.0
	cfg.DefaultGCodeProfile = "Grbl"

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.KerfWidth != 5.0 {
		t.Errorf("expected KerfWidth=5.0, got %f", s.KerfWidth)
	}
	if s.FeedRate != 3000.0 {
		t.Errorf("expected FeedRate=3000.0, got %f", s.FeedRate)
	}
	if s.GCodeProfile != "Grbl" {
		t.Errorf("expected GCodeProfile=Grbl, got %s", s.GCodeProfile)
	}
}

func TestAddRecentMovesToFrontAndCaps(t *testing.T) {
	cfg := DefaultAppConfig()
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		cfg.AddRecent(id)
	}
	if len(cfg.RecentDesigns) != 10 {
		t.Fatalf("expected 10 recent designs, got %d", len(cfg.RecentDesigns))
	}
	if cfg.RecentDesigns[0] != "k" {
		t.Errorf("expected most recent first, got %s", cfg.RecentDesigns[0])
	}

	cfg.AddRecent("e")
	if cfg.RecentDesigns[0] != "e" || len(cfg.RecentDesigns) != 10 {
		t.Errorf("re-adding should move to front without growing: %v", cfg.RecentDesigns)
	}
}
