// Package gcode writes CNC programs that cut the boards of a cut plan.
package gcode

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// Generator produces GCode for the sheets of a cut plan.
type Generator struct {
	Settings model.CutSettings
	profile  model.GCodeProfile
}

func New(settings model.CutSettings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.GCodeProfile),
	}
}

// NewWithProfiles resolves the settings' profile name against custom
// profiles before the built-in ones.
func NewWithProfiles(settings model.CutSettings, custom []model.GCodeProfile) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.ResolveProfile(settings.GCodeProfile, custom),
	}
}

// Profile returns the controller dialect in use.
func (g *Generator) Profile() model.GCodeProfile { return g.profile }

// Passes returns the number of depth passes per board.
func (g *Generator) Passes() int {
	if g.Settings.PassDepth <= 0 || g.Settings.CutDepth <= g.Settings.PassDepth {
		return 1
	}
	return int(math.Ceil(g.Settings.CutDepth / g.Settings.PassDepth))
}

// GenerateSheet produces the program for one sheet. idx is 1-based.
func (g *Generator) GenerateSheet(sheet model.SheetResult, idx int) string {
	var b strings.Builder
	g.writeHeader(&b, sheet, idx)
	for i, p := range sheet.Placements {
		g.writePanel(&b, p, i+1)
	}
	g.writeFooter(&b)
	return b.String()
}

// GenerateAll produces one program per sheet.
func (g *Generator) GenerateAll(plan model.CutPlan) []string {
	codes := make([]string, 0, len(plan.Sheets))
	for i, sheet := range plan.Sheets {
		codes = append(codes, g.GenerateSheet(sheet, i+1))
	}
	return codes
}

// WriteFiles writes one <base>_sheet<N>.nc file per sheet into dir and
// returns the written paths.
func (g *Generator) WriteFiles(dir, base string, plan model.CutPlan) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create gcode directory: %w", err)
	}
	var paths []string
	for i, code := range g.GenerateAll(plan) {
		path := filepath.Join(dir, fmt.Sprintf("%s_sheet%d.nc", base, i+1))
		if err := os.WriteFile(path, []byte(code), 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (g *Generator) writeHeader(b *strings.Builder, sheet model.SheetResult, idx int) {
	p := g.profile
	b.WriteString(g.comment(fmt.Sprintf("ClosetCraft GCode - Sheet %d (%s)", idx, sheet.Stock.Label)))
	b.WriteString(g.comment(fmt.Sprintf("Stock: %.1f x %.1f mm", sheet.Stock.Width, sheet.Stock.Height)))
	b.WriteString(g.comment(fmt.Sprintf("Boards: %d, Efficiency: %.1f%%", len(sheet.Placements), sheet.Efficiency())))
	b.WriteString(g.comment(fmt.Sprintf("Tool: %.1fmm, Feed: %.0f mm/min, Plunge: %.0f mm/min",
		g.Settings.ToolDiameter, g.Settings.FeedRate, g.Settings.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth: %.1fmm in %d passes", g.Settings.CutDepth, g.Passes())))
	b.WriteString(g.comment("Profile: " + p.Name))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.SpindleStart != "" {
		fmt.Fprintf(b, p.SpindleStart+"\n", g.Settings.SpindleSpeed)
	}
	fmt.Fprintf(b, "%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ))
	fmt.Fprintf(b, "%s X%s Y%s\n\n", p.RapidMove, g.format(0), g.format(0))
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile
	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))
	if p.SpindleStop != "" {
		b.WriteString(p.SpindleStop + "\n")
	}
	for _, code := range p.EndCode {
		b.WriteString(strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ)) + "\n")
	}
}

// writePanel cuts the board outline outside its perimeter, offset by the
// tool radius. Climb milling runs clockwise, conventional counter-clockwise.
func (g *Generator) writePanel(b *strings.Builder, p model.Placement, n int) {
	r := g.Settings.ToolDiameter / 2
	x0, y0 := p.X-r, p.Y-r
	x1, y1 := p.X+p.PlacedWidth()+r, p.Y+p.PlacedHeight()+r

	rotated := ""
	if p.Rotated {
		rotated = " [rotated]"
	}
	b.WriteString(g.comment(fmt.Sprintf("--- Board %d: %s %s (%.1f x %.1f)%s ---",
		n, p.Panel.Unit, p.Panel.Label, p.Panel.Width, p.Panel.Height, rotated)))

	corners := [][2]float64{{x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
	if !g.Settings.UseClimb {
		corners = [][2]float64{{x0, y1}, {x1, y1}, {x1, y0}, {x0, y0}}
	}

	passes := g.Passes()
	for pass := 1; pass <= passes; pass++ {
		depth := math.Min(float64(pass)*g.Settings.PassDepth, g.Settings.CutDepth)
		if passes == 1 {
			depth = g.Settings.CutDepth
		}
		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, passes, depth)))
		fmt.Fprintf(b, "%s X%s Y%s\n", g.profile.RapidMove, g.format(x0), g.format(y0))
		fmt.Fprintf(b, "%s Z%s F%s\n", g.profile.FeedMove, g.format(-depth), g.format(g.Settings.PlungeRate))
		for i, c := range corners {
			if i == 0 {
				fmt.Fprintf(b, "%s X%s Y%s F%s\n", g.profile.FeedMove, g.format(c[0]), g.format(c[1]), g.format(g.Settings.FeedRate))
				continue
			}
			fmt.Fprintf(b, "%s X%s Y%s\n", g.profile.FeedMove, g.format(c[0]), g.format(c[1]))
		}
		fmt.Fprintf(b, "%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ))
	}
	b.WriteString("\n")
}

func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}
