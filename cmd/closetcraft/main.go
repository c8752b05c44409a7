// closetcraft builds a closet from flags or a saved design and writes its
// drawings, bill of materials, cut plan, labels and CNC programs.
//
//	closetcraft -family FAMILY1 -width 2.4 -height 2.3 -out ./closet
//	closetcraft -design bedroom.json -stock boards.csv -formats pdf,gcode
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/ClosetCraft/internal/catalog"
	"github.com/piwi3910/ClosetCraft/internal/cutlist"
	"github.com/piwi3910/ClosetCraft/internal/engine"
	"github.com/piwi3910/ClosetCraft/internal/export"
	"github.com/piwi3910/ClosetCraft/internal/gcode"
	"github.com/piwi3910/ClosetCraft/internal/importer"
	"github.com/piwi3910/ClosetCraft/internal/logging"
	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/project"
)

const defaultFormats = "pdf,xlsx,dxf,labels,gcode"

type options struct {
	family     string
	layout     string
	width      float64
	height     float64
	depth      float64
	innerWalls bool
	name       string

	design       string
	catalogPath  string
	configPath   string
	invPath      string
	designsPath  string
	profilesPath string

	stock     string
	board     string
	quantity  int
	tool      string
	profile   string
	algorithm string
	compare   bool

	out     string
	formats string
	save    bool
	backup  string

	restore         string
	importInventory string
	importProfile   string
	importDesigns   string

	logLevel string
	set      map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("closetcraft", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.family, "family", "", "closet family (default from config)")
	fs.StringVar(&o.layout, "layout", "", "column layout")
	fs.Float64Var(&o.width, "width", 0, "total width in meters")
	fs.Float64Var(&o.height, "height", 0, "total height in meters")
	fs.Float64Var(&o.depth, "depth", 0, "depth in meters")
	fs.BoolVar(&o.innerWalls, "inner-walls", false, "draw walls between adjacent columns")
	fs.StringVar(&o.name, "name", "", "design name used in titles and file names")

	fs.StringVar(&o.design, "design", "", "design JSON file to rebuild")
	fs.StringVar(&o.catalogPath, "catalog", "", "catalog file (yaml, toml or json)")
	fs.StringVar(&o.configPath, "config", project.DefaultConfigPath(), "application config file")
	fs.StringVar(&o.invPath, "inventory", project.DefaultInventoryPath(), "tool and board inventory file")
	fs.StringVar(&o.designsPath, "designs", project.DefaultDesignsPath(), "saved designs file")
	fs.StringVar(&o.profilesPath, "profiles", project.DefaultProfilesPath(), "custom gcode profiles file")

	fs.StringVar(&o.stock, "stock", "", "stock sheets to cut from (csv or xlsx)")
	fs.StringVar(&o.board, "board", "", "inventory board to cut from")
	fs.IntVar(&o.quantity, "qty", 50, "sheets available of -board")
	fs.StringVar(&o.tool, "tool", "", "inventory tool to cut with")
	fs.StringVar(&o.profile, "profile", "", "gcode profile")
	fs.StringVar(&o.algorithm, "algorithm", "", "packing algorithm: guillotine or genetic")
	fs.BoolVar(&o.compare, "compare", false, "print a comparison of packing scenarios")

	fs.StringVar(&o.out, "out", "", "output directory (default from config)")
	fs.StringVar(&o.formats, "formats", defaultFormats, "comma separated: pdf,xlsx,dxf,labels,gcode,json,design,catalog")
	fs.BoolVar(&o.save, "save", false, "add the design to the saved designs")
	fs.StringVar(&o.backup, "backup", "", "also write a backup of all settings and designs to this file")
	fs.StringVar(&o.restore, "restore", "", "restore a backup into the config directory before building")
	fs.StringVar(&o.importInventory, "import-inventory", "", "merge tools and boards from this inventory file")
	fs.StringVar(&o.importProfile, "import-profile", "", "add or replace a custom gcode profile from this file")
	fs.StringVar(&o.importDesigns, "import-designs", "", "add the designs listed in this csv or xlsx file to the saved designs")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "closetcraft:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if o.restore != "" {
		backup, err := project.ImportAllData(o.restore)
		if err != nil {
			return err
		}
		if err := project.RestoreAllData(filepath.Dir(o.configPath), backup); err != nil {
			return err
		}
	}

	appCfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return err
	}
	level := appCfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger, err := logging.New(level, "text", stderr)
	if err != nil {
		return err
	}

	catPath := appCfg.CatalogPath
	if o.catalogPath != "" {
		catPath = o.catalogPath
	}
	cat := catalog.Default()
	if catPath != "" {
		if cat, err = catalog.Load(catPath); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	if o.importDesigns != "" {
		if err := o.addDesigns(cat, logger); err != nil {
			return err
		}
	}

	d, err := o.buildDesign(appCfg)
	if err != nil {
		return err
	}
	closet, err := engine.Build(cat, d, catalog.NewAssets(cat), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	d = closet.Design(d)
	snap := closet.Snapshot()
	logger.Info("closet built", "family", d.Family, "layout", d.Layout,
		"width", d.Width, "height", d.Height, "columns", len(snap.Columns))

	inv, err := project.LoadInventory(o.invPath)
	if err != nil {
		return err
	}
	if o.importInventory != "" {
		if inv, err = project.ImportInventory(o.importInventory, inv); err != nil {
			return err
		}
		if err := project.SaveInventory(o.invPath, inv); err != nil {
			return err
		}
		logger.Info("inventory imported", "tools", len(inv.Tools), "boards", len(inv.Boards))
	}
	profiles, err := project.LoadCustomProfiles(o.profilesPath)
	if err != nil {
		return err
	}
	if o.importProfile != "" {
		if profiles, err = o.addProfile(profiles); err != nil {
			return err
		}
	}
	settings, stocks, err := o.cutSetup(appCfg, inv, logger)
	if err != nil {
		return err
	}

	out := o.out
	if out == "" {
		out = appCfg.ExportDir
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	r := export.NewReport(d.Name, snap, settings, stocks)
	written, err := writeFormats(out, o.formats, r, d, cat, profiles)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Fprintln(stdout, p)
	}
	if strings.Contains(o.formats, "gcode") {
		for i, st := range gcode.NewWithProfiles(r.Settings, profiles).Estimate(r.Plan) {
			logger.Info("machining estimate", "sheet", i+1,
				"cut_m", st.CutLength/1000, "plunges", st.Plunges, "minutes", st.Minutes)
		}
	}
	if o.compare {
		printComparison(stdout, cutlist.Compare(cutlist.DefaultScenarios(r.Settings), r.Panels, r.Stocks))
	}
	if len(r.Plan.Unplaced) > 0 {
		logger.Warn("boards do not fit the stock", "count", len(r.Plan.Unplaced))
	}

	if o.save {
		designs, err := project.LoadDesigns(o.designsPath)
		if err != nil {
			return err
		}
		d.Touch()
		designs.Put(d)
		if err := project.SaveDesigns(o.designsPath, designs); err != nil {
			return err
		}
		appCfg.AddRecent(d.ID)
		if err := project.SaveAppConfig(o.configPath, appCfg); err != nil {
			return err
		}
		logger.Info("design saved", "id", d.ID, "name", d.Name)
	}

	if o.backup != "" {
		designs, err := project.LoadDesigns(o.designsPath)
		if err != nil {
			return err
		}
		if err := project.ExportAllData(o.backup, project.NewBackup(appCfg, inv, designs, profiles)); err != nil {
			return err
		}
		fmt.Fprintln(stdout, o.backup)
	}
	return nil
}

// addDesigns reads -import-designs, builds each design against the catalog
// and stores the normalized result in the saved designs.
func (o *options) addDesigns(cat *model.Catalog, logger *slog.Logger) error {
	result := importer.ImportDesigns(o.importDesigns)
	for _, w := range result.Warnings {
		logger.Warn("design import", "detail", w)
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to import designs: %w", err)
	}
	designs, err := project.LoadDesigns(o.designsPath)
	if err != nil {
		return err
	}
	for _, d := range result.Designs {
		closet, err := engine.Build(cat, d, catalog.NewAssets(cat), engine.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to import design %s: %w", d.Name, err)
		}
		designs.Put(closet.Design(d))
		closet.RemoveFromScene()
	}
	if err := project.SaveDesigns(o.designsPath, designs); err != nil {
		return err
	}
	logger.Info("designs imported", "count", len(result.Designs))
	return nil
}

// buildDesign starts from -design or the config defaults and applies the
// dimension flags given on the command line.
func (o *options) buildDesign(cfg model.AppConfig) (model.Design, error) {
	var d model.Design
	if o.design != "" {
		imported, err := project.ImportDesign(o.design)
		if err != nil {
			return d, err
		}
		d = imported
	} else {
		d = model.NewDesign("Closet", "")
		d.Family = cfg.DefaultFamily
		d.Width = cfg.DefaultWidth
		d.Height = cfg.DefaultHeight
		d.Depth = cfg.DefaultDepth
		d.InnerWalls = cfg.InnerWalls
	}
	if o.set["family"] {
		d.Family = o.family
	}
	if o.set["layout"] {
		d.Layout = o.layout
	}
	if o.set["width"] {
		d.Width = o.width
	}
	if o.set["height"] {
		d.Height = o.height
	}
	if o.set["depth"] {
		d.Depth = o.depth
	}
	if o.set["inner-walls"] {
		d.InnerWalls = o.innerWalls
	}
	if o.set["name"] {
		d.Name = o.name
	}
	if d.Family == "" {
		return d, fmt.Errorf("no closet family given")
	}
	return d, nil
}

// cutSetup resolves the cut settings and stock sheets from the config, the
// inventory and the -stock, -board, -tool and -profile flags.
func (o *options) cutSetup(cfg model.AppConfig, inv model.Inventory, logger *slog.Logger) (model.CutSettings, []model.StockSheet, error) {
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	stocks := []model.StockSheet{cfg.Stock()}

	if o.tool != "" {
		tool := inv.FindToolByName(o.tool)
		if tool == nil {
			return settings, nil, fmt.Errorf("unknown tool %q (have %s)", o.tool, strings.Join(inv.ToolNames(), ", "))
		}
		tool.ApplyToSettings(&settings)
	}
	if o.board != "" {
		board := inv.FindBoardByName(o.board)
		if board == nil {
			return settings, nil, fmt.Errorf("unknown board %q (have %s)", o.board, strings.Join(inv.BoardNames(), ", "))
		}
		board.ApplyToSettings(&settings)
		stocks = []model.StockSheet{board.ToStockSheet(o.quantity)}
	}
	if o.stock != "" {
		res := importer.ImportFile(o.stock)
		if err := res.Err(); err != nil {
			return settings, nil, fmt.Errorf("failed to import stock: %w", err)
		}
		for _, w := range res.Warnings {
			logger.Warn("stock import", "file", o.stock, "warning", w)
		}
		if len(res.Stocks) == 0 {
			return settings, nil, fmt.Errorf("no stock sheets in %s", o.stock)
		}
		stocks = res.Stocks
	}
	if o.profile != "" {
		settings.GCodeProfile = o.profile
	}
	switch a := model.Algorithm(o.algorithm); a {
	case "":
	case model.AlgorithmGuillotine, model.AlgorithmGenetic:
		settings.Algorithm = a
	default:
		return settings, nil, fmt.Errorf("unknown algorithm %q", o.algorithm)
	}
	return settings, stocks, nil
}

func (o *options) addProfile(profiles []model.GCodeProfile) ([]model.GCodeProfile, error) {
	p, err := project.ImportProfile(o.importProfile)
	if err != nil {
		return profiles, err
	}
	replaced := false
	for i := range profiles {
		if profiles[i].Name == p.Name {
			profiles[i] = p
			replaced = true
		}
	}
	if !replaced {
		profiles = append(profiles, p)
	}
	if err := project.SaveCustomProfiles(o.profilesPath, profiles); err != nil {
		return profiles, err
	}
	return profiles, nil
}

func writeFormats(dir, formats string, r export.Report, d model.Design, cat *model.Catalog, profiles []model.GCodeProfile) ([]string, error) {
	base := fileBase(d.Name)
	var written []string
	for _, f := range strings.Split(formats, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		path := filepath.Join(dir, base)
		var err error
		switch f {
		case "":
			continue
		case "pdf":
			path += ".pdf"
			err = export.ExportPDF(path, r)
		case "labels":
			path += "_labels.pdf"
			err = export.ExportLabels(path, r.Plan)
		case "xlsx":
			path += ".xlsx"
			err = export.ExportXLSX(path, r)
		case "dxf":
			path += ".dxf"
			err = export.ExportDXF(path, r.Snapshot)
		case "json":
			path += "_snapshot.json"
			err = writeSnapshot(path, r.Snapshot)
		case "design":
			path += "_design.json"
			err = project.ExportDesign(path, d)
		case "catalog":
			path += "_catalog.yaml"
			err = writeCatalog(path, cat)
		case "gcode":
			paths, gerr := gcode.NewWithProfiles(r.Settings, profiles).WriteFiles(dir, base, r.Plan)
			written = append(written, paths...)
			if gerr != nil {
				return written, gerr
			}
			continue
		default:
			return written, fmt.Errorf("unknown format %q", f)
		}
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func printComparison(w io.Writer, results []cutlist.Comparison) {
	best := cutlist.Best(results)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSHEETS\tPLACED\tUNPLACED\tWASTE\tCOST\t")
	for i, r := range results {
		mark := ""
		if i == best {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f%%\t%.2f\t%s\n",
			r.Scenario.Name, r.SheetsUsed, r.Placed, r.Unplaced, r.WastePercent, r.Cost, mark)
	}
	tw.Flush()
}

func fileBase(name string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if base == "" {
		return "closet"
	}
	return base
}
