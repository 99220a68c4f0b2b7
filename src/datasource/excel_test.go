package datasource

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rtomek/MIDRC-Diversity-Calculator/src/config"
)

func TestBuildSheetBasic(t *testing.T) {
	rows := [][]string{
		{"date", "White", "White (%)", "Black (CUSUM)", "Not reported"},
		{"2022-01-01", "10", "50", "5", "1"},
		{"2022-02-01", "20", "66", "8", "2"},
	}
	sheet, err := buildSheet("race", rows, []string{" (CUSUM)"}, nil)
	if err != nil {
		t.Fatalf("buildSheet: %v", err)
	}
	want := []string{"White", "Black", "Not reported"}
	if len(sheet.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", sheet.Columns, want)
	}
	for i, col := range want {
		if sheet.Columns[i] != col {
			t.Fatalf("columns = %v, want %v", sheet.Columns, want)
		}
	}
	if v, _ := sheet.Value("Black", 1); v != 8 {
		t.Fatalf("Black[1] = %v, want 8", v)
	}
	if sheet.RowCount() != 2 {
		t.Fatalf("rows = %d, want 2", sheet.RowCount())
	}
}

func TestBuildSheetInjectsNotReported(t *testing.T) {
	rows := [][]string{
		{"date", "Male", "Female"},
		{"2022-01-01", "1", "2"},
	}
	sheet, err := buildSheet("sex", rows, nil, nil)
	if err != nil {
		t.Fatalf("buildSheet: %v", err)
	}
	if !sheet.HasColumn(NotReportedColumn) {
		t.Fatalf("missing injected %q column", NotReportedColumn)
	}
	if v, _ := sheet.Value(NotReportedColumn, 0); v != 0 {
		t.Fatalf("injected column not zero: %v", v)
	}
	if last := sheet.Columns[len(sheet.Columns)-1]; last != NotReportedColumn {
		t.Fatalf("injected column should come last, got order %v", sheet.Columns)
	}
}

func TestBuildSheetSerialDatesAndGaps(t *testing.T) {
	// 44562 is 2022-01-01. Short rows read as zero-filled cells.
	rows := [][]string{
		{"date", "A", "B"},
		{"44562", "1"},
		{"44593", "2", "3"},
	}
	sheet, err := buildSheet("age", rows, nil, nil)
	if err != nil {
		t.Fatalf("buildSheet: %v", err)
	}
	if got := sheet.Dates[0]; !got.Equal(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("serial date = %v, want 2022-01-01", got)
	}
	if v, _ := sheet.Value("B", 0); v != 0 {
		t.Fatalf("missing cell should read 0, got %v", v)
	}
}

func TestBuildSheetRejectsUnsortedDates(t *testing.T) {
	rows := [][]string{
		{"date", "A"},
		{"2022-02-01", "1"},
		{"2022-01-01", "2"},
	}
	if _, err := buildSheet("race", rows, nil, nil); err == nil {
		t.Fatalf("expected error for descending dates")
	}
	dup := [][]string{
		{"date", "A"},
		{"2022-01-01", "1"},
		{"2022-01-01", "2"},
	}
	if _, err := buildSheet("race", dup, nil, nil); err == nil {
		t.Fatalf("expected error for duplicate dates")
	}
}

func TestBuildSheetCustomAgeRanges(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)

	rows := [][]string{
		{"date", "0-17", "18-49", "50-89", "90+", "Not reported"},
		{"2022-01-01", "1", "2", "4", "8", "16"},
		{"2022-02-01", "10", "20", "40", "80", "160"},
	}
	ranges := []config.AgeRange{
		{Low: 0, High: 49},
		{Low: 90, High: math.Inf(1)},
	}
	sheet, err := buildSheet("Age at Index", rows, nil, ranges)
	if err != nil {
		t.Fatalf("buildSheet: %v", err)
	}
	if v, _ := sheet.Value("0-49 Custom", 1); v != 30 {
		t.Fatalf("0-49 Custom[1] = %v, want 30", v)
	}
	if v, _ := sheet.Value("90-inf Custom", 0); v != 8 {
		t.Fatalf("90-inf Custom[0] = %v, want 8", v)
	}
	// Synthesized columns stay out of the loaded column list; pie and area
	// charts must keep plotting the file's own buckets.
	for _, col := range sheet.Columns {
		if strings.Contains(col, "Custom") {
			t.Fatalf("custom column %q leaked into Columns", col)
		}
	}
	if len(sheet.CustomColumns) != 2 || sheet.CustomColumns[0] != "0-49 Custom" {
		t.Fatalf("CustomColumns = %v", sheet.CustomColumns)
	}
	// 50-89 fits no configured range and must be flagged.
	if !strings.Contains(buf.String(), `"50-89" not used`) {
		t.Fatalf("missing unused-column warning, log: %s", buf.String())
	}
}

func TestDivergenceColumns(t *testing.T) {
	cfg := &config.Config{CustomAgeRanges: map[string][]config.AgeRange{
		"Age at Index": {{Low: 0, High: 17}, {Low: 18, High: math.Inf(1)}},
	}}
	cols := DivergenceColumns(cfg)
	want := []string{"0-17 Custom", "18-inf Custom", NotReportedColumn}
	got := cols["Age at Index"]
	if len(got) != len(want) {
		t.Fatalf("DivergenceColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DivergenceColumns = %v, want %v", got, want)
		}
	}
	if DivergenceColumns(nil) != nil {
		t.Fatalf("nil config should map to nil")
	}
}

func TestAgeRangeCovers(t *testing.T) {
	inf := math.Inf(1)
	cases := []struct {
		lo, hi float64
		col    string
		want   bool
	}{
		{0, 17, "0-17", true},
		{0, 17, "10-19", false},
		{18, 49, "18-24", true},
		{85, 89, "90+", false},
		{90, inf, "90+", true},
		{0, 49, "Not reported", false},
	}
	for _, c := range cases {
		got := ageRangeCovers(config.AgeRange{Low: c.lo, High: c.hi}, c.col)
		if got != c.want {
			t.Fatalf("ageRangeCovers([%v,%v], %q) = %v, want %v", c.lo, c.hi, c.col, got, c.want)
		}
	}
}

func TestCleanColumnName(t *testing.T) {
	cases := []struct {
		in     string
		remove []string
		want   string
	}{
		{"White (CUSUM)", []string{" (CUSUM)"}, "White"},
		{"White (CUSUM)", nil, "White (CUSUM)"},
		{"Black or African American  ", nil, "Black or African American"},
		{"Asian (CUSUM) extra", []string{" (CUSUM)"}, "Asian"},
	}
	for _, c := range cases {
		if got := cleanColumnName(c.in, c.remove); got != c.want {
			t.Fatalf("cleanColumnName(%q, %v) = %q, want %q", c.in, c.remove, got, c.want)
		}
	}
}

func TestParseCellDateLayouts(t *testing.T) {
	want := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2022-01-01", "44562", "1/1/2022", "2022/01/01"} {
		got, err := parseCellDate(in)
		if err != nil {
			t.Fatalf("parseCellDate(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parseCellDate(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseCellDate("not a date"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseCellValue(t *testing.T) {
	if v, err := parseCellValue(" 1,234 "); err != nil || v != 1234 {
		t.Fatalf("parseCellValue comma = %v, %v", v, err)
	}
	if v, err := parseCellValue(""); err != nil || v != 0 {
		t.Fatalf("empty cell = %v, %v, want 0", v, err)
	}
	if _, err := parseCellValue("abc"); err == nil {
		t.Fatalf("expected error for non-numeric cell")
	}
}
