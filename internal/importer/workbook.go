package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// WorkbookRow is one parsed spreadsheet row. Sheet is kept so rows
// from sheets without a muscle group column can fall back to the
// sheet name.
type WorkbookRow struct {
	Sheet        string
	Date         *time.Time
	Exercise     string
	MuscleGroups string
	Weight       *float64
	Reps         *int
}

// column headers as they appear in the source spreadsheets (Dutch)
const (
	colDate        = "datum"
	colExercise    = "oefening"
	colMuscleGroup = "spiergroep"
	colWeight      = "gewicht"
	colReps        = "reps"
)

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2-1-2006",
	"01-02-06",
	"1-2-06",
	"2006-01-02 15:04:05",
	"1/2/06 15:04",
	time.RFC3339,
}

// ParseWorkbook reads every sheet of an xlsx workbook. A sheet is used
// when some cell of some row equals "datum" (case-insensitive); that
// row is the header, everything below it is data. Sheets without such
// a header row are skipped.
func ParseWorkbook(r io.Reader) ([]WorkbookRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("failed to close workbook: %s", err)
		}
	}()

	var out []WorkbookRow
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows of sheet %q: %w", sheet, err)
		}

		headerIdx, columns := findHeader(rows)
		if headerIdx < 0 {
			log.Debugf("sheet %q has no header row, skipping", sheet)
			continue
		}

		for _, row := range rows[headerIdx+1:] {
			if parsed, ok := parseRow(sheet, row, columns); ok {
				out = append(out, parsed)
			}
		}
	}

	return out, nil
}

// findHeader returns the index of the first row containing a "datum"
// cell, plus the header-name -> column-index mapping of that row.
func findHeader(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		for _, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cell), colDate) {
				columns := make(map[string]int)
				for col, name := range row {
					name = strings.ToLower(strings.TrimSpace(name))
					if name != "" {
						columns[name] = col
					}
				}
				return i, columns
			}
		}
	}
	return -1, nil
}

func parseRow(sheet string, row []string, columns map[string]int) (WorkbookRow, bool) {
	cell := func(name string) string {
		col, ok := columns[name]
		if !ok || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	empty := true
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			empty = false
			break
		}
	}
	if empty {
		return WorkbookRow{}, false
	}

	parsed := WorkbookRow{
		Sheet:        sheet,
		Exercise:     cell(colExercise),
		MuscleGroups: cell(colMuscleGroup),
		Date:         parseDate(cell(colDate)),
		Weight:       parseWeight(cell(colWeight)),
		Reps:         parseReps(cell(colReps)),
	}
	return parsed, true
}

// parseDate handles both raw Excel serial numbers and the usual
// formatted date strings; nil when nothing matches.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return &t
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

func parseWeight(s string) *float64 {
	if s == "" {
		return nil
	}
	// decimal comma in the source sheets
	s = strings.ReplaceAll(s, ",", ".")
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &w
}

func parseReps(s string) *int {
	if s == "" {
		return nil
	}
	if reps, err := strconv.Atoi(s); err == nil {
		return &reps
	}
	// some sheets store reps as a float cell (e.g. "10.0")
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		reps := int(f)
		return &reps
	}
	return nil
}
