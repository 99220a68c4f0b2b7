package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
)

func mustSheet(t *testing.T, name string, dates []time.Time, cols []string, values map[string][]float64) *datasource.DataSheet {
	t.Helper()
	s, err := datasource.NewSheet(name, dates, cols, values)
	if err != nil {
		t.Fatalf("NewSheet(%s): %v", name, err)
	}
	return s
}

func TestAreaChartDropsFinalZeroColumn(t *testing.T) {
	// First column ends at zero: dropped. The remaining band carries the
	// full cumulative total.
	s := mustSheet(t, "race",
		[]time.Time{Date(2022, 1, 1), Date(2022, 2, 1)},
		[]string{"A", "B"},
		map[string][]float64{
			"A": {5, 0},
			"B": {5, 10},
		})
	chart, err := BuildAreaChart("MIDRC", s, s.Columns)
	if err != nil {
		t.Fatalf("BuildAreaChart: %v", err)
	}
	if len(chart.Series) != 1 || chart.Series[0].Label != "B" {
		t.Fatalf("series = %+v, want only B", chart.Series)
	}
	for i, p := range chart.Series[0].Points {
		if math.Abs(p.V-100) > 1e-9 {
			t.Fatalf("B[%d] = %v, want 100", i, p.V)
		}
	}
}

func TestAreaChartDroppedColumnStillShiftsBands(t *testing.T) {
	// B ends at zero and is not emitted, but its earlier mass still lifts
	// the bands stacked above it.
	s := mustSheet(t, "race",
		[]time.Time{Date(2022, 1, 1), Date(2022, 2, 1)},
		[]string{"A", "B", "C"},
		map[string][]float64{
			"A": {3, 4},
			"B": {2, 0},
			"C": {5, 6},
		})
	chart, err := BuildAreaChart("MIDRC", s, s.Columns)
	if err != nil {
		t.Fatalf("BuildAreaChart: %v", err)
	}
	if len(chart.Series) != 2 {
		t.Fatalf("series count = %d, want 2", len(chart.Series))
	}
	a, c := chart.Series[0], chart.Series[1]
	if a.Label != "A" || c.Label != "C" {
		t.Fatalf("labels = %q, %q", a.Label, c.Label)
	}
	if got := a.Points[0].V; math.Abs(got-30) > 1e-9 {
		t.Fatalf("A[0] = %v, want 30", got)
	}
	// C's first point includes B's 2 even though B has no band: (3+2+5)/10.
	if got := c.Points[0].V; math.Abs(got-100) > 1e-9 {
		t.Fatalf("C[0] = %v, want 100", got)
	}
}

func TestAreaChartZeroTotalRow(t *testing.T) {
	s := mustSheet(t, "race",
		[]time.Time{Date(2022, 1, 1), Date(2022, 2, 1)},
		[]string{"A", "B"},
		map[string][]float64{
			"A": {0, 1},
			"B": {0, 3},
		})
	chart, err := BuildAreaChart("MIDRC", s, s.Columns)
	if err != nil {
		t.Fatalf("BuildAreaChart: %v", err)
	}
	for _, series := range chart.Series {
		if got := series.Points[0].V; got != 0 {
			t.Fatalf("%s[0] = %v, want 0 for zero-total row", series.Label, got)
		}
	}
	if got := chart.Series[0].Points[1].V; math.Abs(got-25) > 1e-9 {
		t.Fatalf("A[1] = %v, want 25", got)
	}
}

func TestAreaChartLastBandReaches100(t *testing.T) {
	s := mustSheet(t, "race",
		[]time.Time{Date(2022, 1, 1), Date(2022, 2, 1), Date(2022, 3, 1)},
		[]string{"A", "B", "C"},
		map[string][]float64{
			"A": {1, 2, 3},
			"B": {4, 5, 6},
			"C": {7, 8, 9},
		})
	chart, err := BuildAreaChart("MIDRC", s, s.Columns)
	if err != nil {
		t.Fatalf("BuildAreaChart: %v", err)
	}
	last := chart.Series[len(chart.Series)-1]
	for i, p := range last.Points {
		if math.Abs(p.V-100) > 1e-9 {
			t.Fatalf("last band point %d = %v, want 100", i, p.V)
		}
	}
}

func TestAreaChartSingleRowPadding(t *testing.T) {
	s := mustSheet(t, "race",
		[]time.Time{Date(2022, 1, 1)},
		[]string{"A"},
		map[string][]float64{"A": {5}})
	chart, err := BuildAreaChart("MIDRC", s, s.Columns)
	if err != nil {
		t.Fatalf("BuildAreaChart: %v", err)
	}
	points := chart.Series[0].Points
	if len(points) != 2 {
		t.Fatalf("points = %d, want synthesized second point", len(points))
	}
	if points[0].V != points[1].V {
		t.Fatalf("pad value %v != %v", points[1].V, points[0].V)
	}
	if want := points[0].T.Add(singlePointPad); !points[1].T.Equal(want) {
		t.Fatalf("pad time = %v, want %v", points[1].T, want)
	}
	if !chart.DateRange.Max.After(chart.DateRange.Min) {
		t.Fatalf("date range not widened: %+v", chart.DateRange)
	}
}

func TestAreaChartDegenerateAndErrors(t *testing.T) {
	allZero := mustSheet(t, "race",
		[]time.Time{Date(2022, 1, 1), Date(2022, 2, 1)},
		[]string{"A"},
		map[string][]float64{"A": {1, 0}})
	chart, err := BuildAreaChart("MIDRC", allZero, allZero.Columns)
	if err != nil || chart != nil {
		t.Fatalf("all-dropped should be (nil, nil), got %v, %v", chart, err)
	}

	empty := mustSheet(t, "race", nil, []string{"A"}, map[string][]float64{"A": {}})
	if _, err := BuildAreaChart("MIDRC", empty, empty.Columns); !errors.Is(err, ErrNoRows) {
		t.Fatalf("empty sheet error = %v, want ErrNoRows", err)
	}

	s := mustSheet(t, "race",
		[]time.Time{Date(2022, 1, 1)},
		[]string{"A"},
		map[string][]float64{"A": {1}})
	if _, err := BuildAreaChart("MIDRC", s, []string{"Nope"}); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("unknown column error = %v, want ErrUnknownColumn", err)
	}
}

func TestAreaChartTitleAndRange(t *testing.T) {
	s := mustSheet(t, "sex",
		[]time.Time{Date(2022, 1, 1), Date(2022, 3, 1)},
		[]string{"A"},
		map[string][]float64{"A": {1, 2}})
	chart, err := BuildAreaChart("MIDRC", s, s.Columns)
	if err != nil {
		t.Fatalf("BuildAreaChart: %v", err)
	}
	if chart.Title != "MIDRC sex distribution over time" {
		t.Fatalf("title = %q", chart.Title)
	}
	if !chart.DateRange.Min.Equal(Date(2022, 1, 1)) || !chart.DateRange.Max.Equal(Date(2022, 3, 1)) {
		t.Fatalf("date range = %+v", chart.DateRange)
	}
}

func TestAreaChartRebuildIdempotent(t *testing.T) {
	s := mustSheet(t, "race",
		[]time.Time{Date(2022, 1, 1), Date(2022, 2, 1)},
		[]string{"A", "B"},
		map[string][]float64{"A": {1, 2}, "B": {3, 4}})
	first, err := BuildAreaChart("MIDRC", s, s.Columns)
	if err != nil {
		t.Fatalf("BuildAreaChart: %v", err)
	}
	second, err := BuildAreaChart("MIDRC", s, s.Columns)
	if err != nil {
		t.Fatalf("BuildAreaChart: %v", err)
	}
	if len(first.Series) != len(second.Series) {
		t.Fatalf("series count changed: %d vs %d", len(first.Series), len(second.Series))
	}
	for i := range first.Series {
		for j := range first.Series[i].Points {
			if first.Series[i].Points[j] != second.Series[i].Points[j] {
				t.Fatalf("series %d point %d differs across rebuilds", i, j)
			}
		}
	}
}
