package analysis

import (
	"fmt"
	"time"

	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
)

// BandSeries is one retained column of a stacked-area chart: the running
// cumulative percent of the row total up to and including that column.
type BandSeries struct {
	Label  string
	Points []TimePoint
}

// AreaChart holds the stacked cumulative-percent bands for one source and
// category. Bands are in column order; the last one sits at 100 percent
// wherever the row total is nonzero.
type AreaChart struct {
	SourceName string
	Category   string
	Title      string
	Series     []BandSeries
	DateRange  TimeRange
}

// singlePointPad widens one-row series so a filled band is visible at all.
const singlePointPad = time.Second

// BuildAreaChart computes the stacked cumulative-percent series for every
// retained column of sheet, in cols order. A column is retained only when its
// latest value is nonzero; dropped columns still shift the bands above them.
// Rows whose total is zero contribute zero instead of dividing by it.
//
// An empty sheet or an unknown column is a precondition violation. A sheet
// where every column was dropped returns (nil, nil): nothing to chart.
func BuildAreaChart(sourceName string, sheet *datasource.DataSheet, cols []string) (*AreaChart, error) {
	if sheet == nil || sheet.RowCount() == 0 {
		return nil, fmt.Errorf("area chart %s/%s: %w", sourceName, sheetName(sheet), ErrNoRows)
	}
	for _, col := range cols {
		if !sheet.HasColumn(col) {
			return nil, fmt.Errorf("area chart %s/%s: %w: %q", sourceName, sheet.Name, ErrUnknownColumn, col)
		}
	}

	n := sheet.RowCount()
	totals := make([]float64, n)
	for row := 0; row < n; row++ {
		totals[row] = sheet.RowTotal(row, cols)
	}

	out := &AreaChart{
		SourceName: sourceName,
		Category:   sheet.Name,
		Title:      fmt.Sprintf("%s %s distribution over time", sourceName, sheet.Name),
	}
	running := make([]float64, n)
	for _, col := range cols {
		vals, _ := sheet.Column(col)
		for row := 0; row < n; row++ {
			running[row] += vals[row]
		}
		if vals[n-1] == 0 {
			continue
		}
		points := make([]TimePoint, 0, n+1)
		for row := 0; row < n; row++ {
			pct := 0.0
			if totals[row] != 0 {
				pct = 100 * running[row] / totals[row]
			}
			points = append(points, TimePoint{T: sheet.Dates[row], V: pct})
		}
		if n == 1 {
			points = append(points, TimePoint{T: points[0].T.Add(singlePointPad), V: points[0].V})
		}
		out.Series = append(out.Series, BandSeries{Label: col, Points: points})
	}
	if len(out.Series) == 0 {
		return nil, nil
	}

	first, last, _ := sheet.DateRange()
	out.DateRange = TimeRange{Min: first, Max: last}
	if n == 1 {
		out.DateRange.Max = first.Add(singlePointPad)
	}
	return out, nil
}

func sheetName(sheet *datasource.DataSheet) string {
	if sheet == nil {
		return "?"
	}
	return sheet.Name
}
