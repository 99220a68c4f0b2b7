package analysis

import (
	"fmt"

	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
)

// PieSlice is one positive-valued bucket at the sampled row.
type PieSlice struct {
	Label string
	Value float64
}

// PieChart is one sheet's breakdown at a single timepoint. Only positive
// buckets appear; zero and negative values never make it into a slice.
type PieChart struct {
	SourceName string
	Category   string
	Slices     []PieSlice
}

// PieRow groups one source's per-category pies for a dock row.
type PieRow struct {
	SourceName  string
	Description string
	Pies        []PieChart
}

// BuildPieChart samples one row of sheet (timepoint counts from the end when
// negative, -1 being the latest row) and keeps the positive cols buckets.
// All buckets zero returns (nil, nil): the chart is omitted entirely.
func BuildPieChart(sourceName string, sheet *datasource.DataSheet, cols []string, timepoint int) (*PieChart, error) {
	if sheet == nil || sheet.RowCount() == 0 {
		return nil, fmt.Errorf("pie chart %s/%s: %w", sourceName, sheetName(sheet), ErrNoRows)
	}
	row := sheet.RowIndex(timepoint)
	if row < 0 {
		return nil, fmt.Errorf("pie chart %s/%s: timepoint %d out of range (%d rows)",
			sourceName, sheet.Name, timepoint, sheet.RowCount())
	}

	out := &PieChart{SourceName: sourceName, Category: sheet.Name}
	for _, col := range cols {
		v, ok := sheet.Value(col, row)
		if !ok {
			return nil, fmt.Errorf("pie chart %s/%s: %w: %q", sourceName, sheet.Name, ErrUnknownColumn, col)
		}
		if v > 0 {
			out.Slices = append(out.Slices, PieSlice{Label: col, Value: v})
		}
	}
	if len(out.Slices) == 0 {
		return nil, nil
	}
	return out, nil
}
