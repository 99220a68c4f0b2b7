package analysis

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
)

// TimelineSeries is one pair's divergence over the merged date axis.
type TimelineSeries struct {
	Pair     Pair
	Category string
	Name     string // "<A> vs <B> <category> JSD"
	Points   []TimePoint
}

// ColumnInfo describes the grid column pair backing one series.
type ColumnInfo struct {
	Category     string
	SlotA, SlotB int
	FileA, FileB string
}

// Table is the column-major grid behind the divergence table view: one
// (Date, JSD) column pair per series. Column pairs have independent lengths,
// so cells below a short series are simply absent.
type Table struct {
	Series []TimelineSeries
	Infos  []ColumnInfo
}

// ColumnCount returns the grid width: two columns per series.
func (t *Table) ColumnCount() int { return 2 * len(t.Series) }

// MaxRows returns the longest series length.
func (t *Table) MaxRows() int {
	max := 0
	for _, s := range t.Series {
		if len(s.Points) > max {
			max = len(s.Points)
		}
	}
	return max
}

// Header returns the column caption: Date and JSD alternate.
func (t *Table) Header(col int) string {
	if col%2 == 0 {
		return "Date"
	}
	return "JSD"
}

// Info returns the ColumnInfo owning a grid column.
func (t *Table) Info(col int) (ColumnInfo, bool) {
	i := col / 2
	if i < 0 || i >= len(t.Infos) {
		return ColumnInfo{}, false
	}
	return t.Infos[i], true
}

// Cell returns the formatted cell at (row, col); ok is false past the end of
// the column's series. Dates are ISO days, values four-decimal fixed.
func (t *Table) Cell(row, col int) (string, bool) {
	i := col / 2
	if i < 0 || i >= len(t.Series) || row < 0 || row >= len(t.Series[i].Points) {
		return "", false
	}
	p := t.Series[i].Points[row]
	if col%2 == 0 {
		return p.T.Format("2006-01-02"), true
	}
	return strconv.FormatFloat(p.V, 'f', 4, 64), true
}

// WriteTSV writes the full grid as tab-separated text: a header line with
// the series names over their column pairs, the Date/JSD captions, then the
// rows. Values keep full precision; absent cells are empty.
func (t *Table) WriteTSV(w io.Writer) error {
	if len(t.Series) == 0 {
		_, err := io.WriteString(w, "\n")
		return err
	}
	for i, s := range t.Series {
		if i > 0 {
			if _, err := io.WriteString(w, "\t\t"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, s.Name); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	cols := t.ColumnCount()
	for col := 0; col < cols; col++ {
		if col > 0 {
			if _, err := io.WriteString(w, "\t"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, t.Header(col)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	rows := t.MaxRows()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if col > 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return err
				}
			}
			i := col / 2
			if row >= len(t.Series[i].Points) {
				continue
			}
			p := t.Series[i].Points[row]
			var cell string
			if col%2 == 0 {
				cell = p.T.Format("2006-01-02")
			} else {
				cell = strconv.FormatFloat(p.V, 'g', -1, 64)
			}
			if _, err := io.WriteString(w, cell); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Timeline bundles the rebuilt table with its color map and shared axes.
// ValueRange is pinned to [0, 1]: the divergence statistic's full range.
type Timeline struct {
	Table      Table
	Colors     *ColorMap
	DateRange  TimeRange
	ValueRange ValueRange
}

// mergedDates is the shared axis of one pair: the sorted union of both
// sheets' dates, starting at the later of the two first dates. Earlier dates
// are dropped because one side has no distribution to compare yet.
func mergedDates(a, b *datasource.DataSheet) []time.Time {
	firstA, _, okA := a.DateRange()
	firstB, _, okB := b.DateRange()
	if !okA || !okB {
		return nil
	}
	first := later(firstA, firstB)

	merged := make([]time.Time, 0, len(a.Dates)+len(b.Dates))
	i, j := 0, 0
	for i < len(a.Dates) || j < len(b.Dates) {
		var next time.Time
		switch {
		case i >= len(a.Dates):
			next = b.Dates[j]
			j++
		case j >= len(b.Dates):
			next = a.Dates[i]
			i++
		case a.Dates[i].Before(b.Dates[j]):
			next = a.Dates[i]
			i++
		case b.Dates[j].Before(a.Dates[i]):
			next = b.Dates[j]
			j++
		default: // equal
			next = a.Dates[i]
			i++
			j++
		}
		if next.Before(first) {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].Equal(next) {
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// buildTimelineSeries computes one pair's divergence at every merged date.
// cols must exist in both sheets.
func buildTimelineSeries(pair Pair, nameA, nameB string, a, b *datasource.DataSheet, cols []string, div DivergenceFunc) (TimelineSeries, error) {
	s := TimelineSeries{
		Pair:     pair,
		Category: a.Name,
		Name:     fmt.Sprintf("%s vs %s %s JSD", nameA, nameB, a.Name),
	}
	if a.RowCount() == 0 || b.RowCount() == 0 {
		return s, fmt.Errorf("timeline %s: %w", s.Name, ErrNoRows)
	}
	for _, date := range mergedDates(a, b) {
		p, okA := a.DistributionAt(date, cols)
		q, okB := b.DistributionAt(date, cols)
		if !okA || !okB {
			return s, fmt.Errorf("timeline %s at %s: %w", s.Name, date.Format("2006-01-02"), ErrUnknownColumn)
		}
		s.Points = append(s.Points, TimePoint{T: date, V: div(p, q)})
	}
	return s, nil
}
