package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// DesignResult holds the designs read from a design list.
type DesignResult struct {
	Designs  []model.Design
	Errors   []string
	Warnings []string
}

// Err joins the import errors into one error, or returns nil.
func (r DesignResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.Errors, "; "))
}

// DesignColumns maps design fields to their column indices; -1 means absent.
type DesignColumns struct {
	Name       int
	Family     int
	Layout     int
	Width      int
	Height     int
	Depth      int
	InnerWalls int
	TopOpen    int
	BottomOpen int
}

var designAliases = map[string][]string{
	"name":        {"name", "design", "title", "label"},
	"family":      {"family", "series", "range"},
	"layout":      {"layout", "arrangement"},
	"width":       {"width", "w"},
	"height":      {"height", "h"},
	"depth":       {"depth", "d"},
	"inner_walls": {"inner walls", "inner_walls", "walls", "partitions"},
	"top_open":    {"top open", "top_open"},
	"bottom_open": {"bottom open", "bottom_open"},
}

// millimetreThreshold is the largest value read as metres; closets are never
// ten metres in any direction.
const millimetreThreshold = 10.0

// DetectDesignColumns maps a header row onto design fields. Design lists
// always carry a header; ok is false when the family or width column is
// missing.
func DetectDesignColumns(header []string) (DesignColumns, bool) {
	cols := DesignColumns{-1, -1, -1, -1, -1, -1, -1, -1, -1}
	fields := map[string]*int{
		"name":        &cols.Name,
		"family":      &cols.Family,
		"layout":      &cols.Layout,
		"width":       &cols.Width,
		"height":      &cols.Height,
		"depth":       &cols.Depth,
		"inner_walls": &cols.InnerWalls,
		"top_open":    &cols.TopOpen,
		"bottom_open": &cols.BottomOpen,
	}
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for field, aliases := range designAliases {
			for _, alias := range aliases {
				if normalized == alias && *fields[field] == -1 {
					*fields[field] = i
				}
			}
		}
	}
	return cols, cols.Family != -1 && cols.Width != -1
}

// ImportDesigns reads closet designs from a CSV or Excel file, chosen by
// extension. Dimensions are in metres; values above ten are taken as
// millimetres.
func ImportDesigns(path string) DesignResult {
	var (
		rows     [][]string
		warnings []string
		err      error
		prefix   string
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		rows, err = readExcelRows(path)
		prefix = "Row"
	case ".csv", ".txt", ".tsv":
		rows, warnings, err = readCSVRows(path)
		prefix = "Line"
	default:
		err = fmt.Errorf("Unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return DesignResult{Errors: []string{err.Error()}, Warnings: warnings}
	}
	return designsFromRows(rows, prefix, warnings)
}

func designsFromRows(rows [][]string, rowPrefix string, warnings []string) DesignResult {
	result := DesignResult{Warnings: warnings}

	cols, ok := DetectDesignColumns(rows[0])
	if !ok {
		result.Errors = append(result.Errors, "Required columns not found in header: Family, Width")
		return result
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		d, errMsg, rowWarnings := parseDesignRow(row, cols, rowLabel, len(result.Designs))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, rowWarnings...)
		result.Designs = append(result.Designs, d)
	}

	if len(result.Designs) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

func parseDesignRow(row []string, cols DesignColumns, rowLabel string, count int) (model.Design, string, []string) {
	var warnings []string

	name := getCell(row, cols.Name)
	if name == "" {
		name = fmt.Sprintf("Design %d", count+1)
	}
	family := getCell(row, cols.Family)
	if family == "" {
		return model.Design{}, fmt.Sprintf("%s: Missing family", rowLabel), nil
	}

	d := model.NewDesign(name, "")
	d.Family = family
	d.Layout = getCell(row, cols.Layout)

	dims := []struct {
		label string
		idx   int
		dst   *float64
	}{
		{"width", cols.Width, &d.Width},
		{"height", cols.Height, &d.Height},
		{"depth", cols.Depth, &d.Depth},
	}
	for _, dim := range dims {
		s := getCell(row, dim.idx)
		if s == "" {
			if dim.label == "width" {
				return model.Design{}, fmt.Sprintf("%s: Missing width value", rowLabel), nil
			}
			continue
		}
		v, err := parseNumber(s)
		if err != nil || v <= 0 {
			return model.Design{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, dim.label, s), nil
		}
		if v > millimetreThreshold {
			v /= 1000
			warnings = append(warnings, fmt.Sprintf("%s: %s '%s' read as millimetres", rowLabel, dim.label, s))
		}
		*dim.dst = v
	}

	flags := []struct {
		label string
		idx   int
		dst   *bool
	}{
		{"inner walls", cols.InnerWalls, &d.InnerWalls},
		{"top open", cols.TopOpen, &d.TopOpen},
		{"bottom open", cols.BottomOpen, &d.BottomOpen},
	}
	for _, f := range flags {
		s := getCell(row, f.idx)
		if s == "" {
			continue
		}
		v, ok := parseFlag(s)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid %s '%s', ignoring", rowLabel, f.label, s))
			continue
		}
		*f.dst = v
	}

	return d, "", warnings
}

func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "x", "y", "yes", "true", "on":
		return true, true
	case "0", "n", "no", "false", "off", "-":
		return false, true
	}
	return false, false
}
