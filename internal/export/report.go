// Package export writes closet drawings, bills of materials, cut plans and
// part labels to PDF, XLSX and DXF files.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/ClosetCraft/internal/cutlist"
	"github.com/piwi3910/ClosetCraft/internal/model"
)

// BandingWastePercent is the allowance added to edge banding lengths.
const BandingWastePercent = 10.0

// Report bundles everything the exporters render for one closet.
type Report struct {
	Title    string
	Snapshot model.ClosetSnapshot
	Panels   []model.Panel
	Plan     model.CutPlan
	Settings model.CutSettings
	Stocks   []model.StockSheet
	Offcuts  []model.Offcut
	Banding  model.EdgeBandingSummary
	Purchase cutlist.PurchaseList
}

// NewReport derives the boards of s, packs them onto stocks and computes
// the banding totals and the sheets to buy.
func NewReport(title string, s model.ClosetSnapshot, settings model.CutSettings, stocks []model.StockSheet) Report {
	panels := cutlist.Panels(s)
	plan := cutlist.New(settings).Pack(panels, stocks)
	return Report{
		Title:    title,
		Snapshot: s,
		Panels:   panels,
		Plan:     plan,
		Offcuts:  plan.Offcuts(settings.KerfWidth),
		Settings: settings,
		Stocks:   stocks,
		Banding:  model.CalculateEdgeBanding(panels, BandingWastePercent),
		Purchase: cutlist.Purchase(plan, cutlist.SparePercent),
	}
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
