package server

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/piwi3910/ClosetCraft/internal/cutlist"
	"github.com/piwi3910/ClosetCraft/internal/export"
	"github.com/piwi3910/ClosetCraft/internal/gcode"
	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/session"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeDXF  = "application/dxf"
)

// report builds the export report for sess. Query parameters stock_width,
// stock_height, kerf and profile override the configured defaults.
func (s *Server) report(c fiber.Ctx, sess *session.Session) (export.Report, error) {
	settings := model.DefaultSettings()
	s.defaults.ApplyToSettings(&settings)
	stock := s.defaults.Stock()

	var err error
	if stock.Width, err = queryFloat(c, "stock_width", stock.Width); err != nil {
		return export.Report{}, err
	}
	if stock.Height, err = queryFloat(c, "stock_height", stock.Height); err != nil {
		return export.Report{}, err
	}
	if settings.KerfWidth, err = queryFloat(c, "kerf", settings.KerfWidth); err != nil {
		return export.Report{}, err
	}
	if p := c.Query("profile"); p != "" {
		settings.GCodeProfile = p
	}
	switch a := model.Algorithm(c.Query("algorithm")); a {
	case "":
	case model.AlgorithmGuillotine, model.AlgorithmGenetic:
		settings.Algorithm = a
	default:
		return export.Report{}, fmt.Errorf("unknown algorithm %q", a)
	}

	d := sess.Design()
	title := d.Name
	if title == "" {
		title = d.Family
	}
	return export.NewReport(title, sess.Snapshot(), settings, []model.StockSheet{stock}), nil
}

func queryFloat(c fiber.Ctx, key string, def float64) (float64, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return f, nil
}

func (s *Server) export(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	r, err := s.report(c, sess)
	if err != nil {
		return badRequest(c, err.Error())
	}

	format := strings.ToLower(c.Params("format"))
	base := fileBase(r.Title)
	var buf bytes.Buffer
	switch format {
	case "pdf":
		err = export.WritePDF(&buf, r)
		c.Set("Content-Type", mimePDF)
	case "labels":
		err = export.WriteLabels(&buf, r.Plan)
		c.Set("Content-Type", mimePDF)
		base += "_labels"
		format = "pdf"
	case "xlsx":
		err = export.WriteXLSX(&buf, r)
		c.Set("Content-Type", mimeXLSX)
	case "dxf":
		err = export.WriteDXF(&buf, r.Snapshot)
		c.Set("Content-Type", mimeDXF)
	case "gcode":
		return s.sendGCode(c, r, base)
	case "cutplan":
		return c.JSON(fiber.Map{
			"panels":        r.Panels,
			"plan":          r.Plan,
			"offcuts":       r.Offcuts,
			"machining":     gcode.NewWithProfiles(r.Settings, s.profiles).Estimate(r.Plan),
			"banding":       r.Banding,
			"banding_lines": model.CalculatePerPanelEdgeBanding(r.Panels),
			"offcut_area":   model.TotalOffcutArea(r.Offcuts),
			"purchase":      r.Purchase,
		})
	default:
		return badRequest(c, "unknown export format "+format)
	}
	if err != nil {
		s.logger.Error("export failed", "session", sess.ID(), "format", format, "error", err)
		return fail(c, err)
	}
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"."+format))
	return c.Send(buf.Bytes())
}

// compare packs the session's boards under the default what-if scenarios.
func (s *Server) compare(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	r, err := s.report(c, sess)
	if err != nil {
		return badRequest(c, err.Error())
	}
	results := cutlist.Compare(cutlist.DefaultScenarios(r.Settings), r.Panels, r.Stocks)
	return c.JSON(fiber.Map{"results": results, "best": cutlist.Best(results)})
}

// sendGCode returns the program for the sheet selected by ?sheet=N
// (1-based, default 1).
func (s *Server) sendGCode(c fiber.Ctx, r export.Report, base string) error {
	if len(r.Plan.Sheets) == 0 {
		return badRequest(c, "cut plan has no sheets")
	}
	n, err := strconv.Atoi(c.Query("sheet", "1"))
	if err != nil || n < 1 || n > len(r.Plan.Sheets) {
		return badRequest(c, fmt.Sprintf("sheet must be between 1 and %d", len(r.Plan.Sheets)))
	}
	gen := gcode.NewWithProfiles(r.Settings, s.profiles)
	code := gen.GenerateSheet(r.Plan.Sheets[n-1], n)

	c.Set("Content-Type", "text/plain; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s_sheet%d.nc", base, n)))
	return c.SendString(code)
}

func fileBase(title string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, title)
	if base == "" {
		return "closet"
	}
	return base
}
