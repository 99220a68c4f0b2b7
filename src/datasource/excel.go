package datasource

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/rtomek/MIDRC-Diversity-Calculator/src/config"
)

// NotReportedColumn is injected with zeros into every sheet that lacks it so
// distributions always carry an explicit unreported bucket.
const NotReportedColumn = "Not reported"

// DivergenceColumns maps each category with custom age ranges to the column
// subset divergence calculations must use: the synthesized range columns plus
// the unreported bucket. Categories without ranges are absent; their sheets
// use all loaded columns.
func DivergenceColumns(cfg *config.Config) map[string][]string {
	if cfg == nil || len(cfg.CustomAgeRanges) == 0 {
		return nil
	}
	out := make(map[string][]string, len(cfg.CustomAgeRanges))
	for category, ranges := range cfg.CustomAgeRanges {
		cols := make([]string, 0, len(ranges)+1)
		for _, ar := range ranges {
			cols = append(cols, ar.Label())
		}
		out[category] = append(cols, NotReportedColumn)
	}
	return out
}

// LoadStore ingests every configured data source into a fresh Store.
func LoadStore(cfg *config.Config) (*Store, error) {
	st := NewStore()
	for _, spec := range cfg.DataSources {
		src, err := LoadDataSource(spec, cfg.CustomAgeRanges)
		if err != nil {
			return nil, err
		}
		st.Add(src)
	}
	return st, nil
}

// LoadDataSource opens one workbook and builds a DataSource with a DataSheet
// per sheet. customAges maps sheet (category) names to configured age ranges.
func LoadDataSource(spec config.DataSourceSpec, customAges map[string][]config.AgeRange) (*DataSource, error) {
	if spec.DataType != "" && spec.DataType != "file" {
		return nil, fmt.Errorf("data source %s: unsupported data type %q", spec.Name, spec.DataType)
	}
	if spec.Filename == "" {
		return nil, fmt.Errorf("data source %s: no filename", spec.Name)
	}
	defer TimeTrack(time.Now(), "load "+spec.Name)

	f, err := excelize.OpenFile(spec.Filename)
	if err != nil {
		return nil, fmt.Errorf("data source %s: %w", spec.Name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			Warnf("close %s: %v", spec.Filename, cerr)
		}
	}()

	Infof("loading %s from %s", spec.Name, spec.Filename)
	src := &DataSource{
		Name:        spec.Name,
		Description: spec.Description,
		Sheets:      make(map[string]*DataSheet),
	}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("data source %s: read sheet %s: %w", spec.Name, sheetName, err)
		}
		sheet, err := buildSheet(sheetName, rows, spec.RemoveColumnText, customAges[sheetName])
		if err != nil {
			return nil, fmt.Errorf("data source %s: %w", spec.Name, err)
		}
		src.SheetNames = append(src.SheetNames, sheetName)
		src.Sheets[sheetName] = sheet
		Debugf("sheet %s: %d rows, %d columns", sheetName, sheet.RowCount(), len(sheet.Columns))
	}
	if len(src.SheetNames) == 0 {
		return nil, fmt.Errorf("data source %s: workbook has no sheets", spec.Name)
	}
	return src, nil
}

// buildSheet turns raw cell rows into a DataSheet. The first column is the
// date column; columns whose header contains "(%)" are derived duplicates and
// are dropped; removeText suffixes are stripped from the remaining headers;
// a zero NotReportedColumn is injected when missing; custom age ranges
// synthesize their summed columns.
func buildSheet(name string, rows [][]string, removeText []string, ranges []config.AgeRange) (*DataSheet, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("sheet %s: no header row", name)
	}
	header := rows[0]

	keep := make([]int, 0, len(header)-1)
	for j := 1; j < len(header); j++ {
		h := header[j]
		if h == "" || strings.Contains(h, "(%)") {
			continue
		}
		keep = append(keep, j)
	}

	columns := make([]string, 0, len(keep)+1)
	values := make(map[string][]float64, len(keep)+1)
	for _, j := range keep {
		col := cleanColumnName(header[j], removeText)
		if _, dup := values[col]; dup {
			return nil, fmt.Errorf("sheet %s: duplicate column %q after renaming", name, col)
		}
		columns = append(columns, col)
		values[col] = nil
	}

	var dates []time.Time
	for r := 1; r < len(rows); r++ {
		row := rows[r]
		if emptyRow(row) {
			continue
		}
		if len(row) == 0 || row[0] == "" {
			return nil, fmt.Errorf("sheet %s: row %d has no date", name, r+1)
		}
		date, err := parseCellDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("sheet %s: row %d: %w", name, r+1, err)
		}
		dates = append(dates, date)
		for k, j := range keep {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			v, err := parseCellValue(cell)
			if err != nil {
				return nil, fmt.Errorf("sheet %s: row %d column %q: %w", name, r+1, header[j], err)
			}
			col := columns[k]
			values[col] = append(values[col], v)
		}
	}

	if _, ok := values[NotReportedColumn]; !ok {
		columns = append(columns, NotReportedColumn)
		values[NotReportedColumn] = make([]float64, len(dates))
	}

	custom := applyCustomAgeRanges(name, columns, values, ranges, len(dates))

	sheet, err := NewSheet(name, dates, columns, values)
	if err != nil {
		return nil, err
	}
	sheet.CustomColumns = custom
	return sheet, nil
}

// cleanColumnName cuts the header at each removeText occurrence and trims
// trailing whitespace.
func cleanColumnName(h string, removeText []string) string {
	for _, txt := range removeText {
		if txt == "" {
			continue
		}
		if i := strings.Index(h, txt); i >= 0 {
			h = h[:i]
		}
	}
	return strings.TrimRightFunc(h, unicode.IsSpace)
}

var ageDigits = regexp.MustCompile(`\d+`)

// applyCustomAgeRanges synthesizes one summed column per configured range and
// returns the new column names. The summed columns live beside the loaded
// ones but stay out of DataSheet.Columns: only divergence math reads them.
// Numeric-prefixed columns no range consumes are logged, matching the
// source-data sanity check the ingest has always done.
func applyCustomAgeRanges(name string, columns []string, values map[string][]float64, ranges []config.AgeRange, rowCount int) []string {
	if len(ranges) == 0 {
		return nil
	}

	var candidates []string
	for _, col := range columns {
		if strings.Contains(col, "Custom") || strings.Contains(col, "(CUSUM)") {
			continue
		}
		r := []rune(col)
		if len(r) == 0 || !unicode.IsDigit(r[0]) {
			continue
		}
		candidates = append(candidates, col)
	}

	var custom []string
	used := make(map[string]bool, len(candidates))
	for _, ar := range ranges {
		sum := make([]float64, rowCount)
		for _, col := range candidates {
			if !ageRangeCovers(ar, col) {
				continue
			}
			used[col] = true
			for i, v := range values[col] {
				sum[i] += v
			}
		}
		label := ar.Label()
		if _, dup := values[label]; dup {
			continue
		}
		custom = append(custom, label)
		values[label] = sum
	}

	for _, col := range candidates {
		if !used[col] {
			Warnf("sheet %s: column %q not used by any custom age range", name, col)
		}
	}
	return custom
}

// ageRangeCovers reports whether the numeric bounds embedded in a column
// name (e.g. "18-24" or "90+") fall inside the configured range.
func ageRangeCovers(ar config.AgeRange, col string) bool {
	nums := ageDigits.FindAllString(col, -1)
	if len(nums) == 0 {
		return false
	}
	lo, _ := strconv.Atoi(nums[0])
	if ar.Low > float64(lo) || ar.High < float64(lo) {
		return false
	}
	if len(nums) == 1 {
		// Open-ended columns like "90+" only fit an unbounded range.
		return math.IsInf(ar.High, 1)
	}
	hi, _ := strconv.Atoi(nums[1])
	return ar.High >= float64(hi)
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"Jan 2, 2006",
	time.RFC3339,
}

// parseCellDate accepts Excel serial numbers (raw cell values) and the common
// textual date layouts.
func parseCellDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("excel date %q: %w", s, err)
		}
		return t.UTC(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseCellValue reads a numeric cell; empty cells count as zero.
func parseCellValue(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable number %q", s)
	}
	return v, nil
}
