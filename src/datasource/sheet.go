// Package datasource holds the loaded source tables: one DataSource per
// configured workbook, one DataSheet per category sheet, plus the Excel
// ingestion that builds them and the program-wide leveled logger.
package datasource

import (
	"fmt"
	"sort"
	"time"
)

// DataSheet is one category sheet of one source: an ascending date column
// plus named value columns. Values are column-major. Columns lists the
// columns as loaded from the file; CustomColumns lists the synthesized
// age-range sums, which only divergence calculations consume.
type DataSheet struct {
	Name          string
	Dates         []time.Time
	Columns       []string // value column order as loaded (date column excluded)
	CustomColumns []string

	values map[string][]float64
}

// NewSheet validates and assembles a sheet. Dates must be strictly ascending
// and every column must have exactly one value per row.
func NewSheet(name string, dates []time.Time, columns []string, values map[string][]float64) (*DataSheet, error) {
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("sheet %s: dates not strictly ascending at row %d (%s then %s)",
				name, i, dates[i-1].Format("2006-01-02"), dates[i].Format("2006-01-02"))
		}
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if seen[col] {
			return nil, fmt.Errorf("sheet %s: duplicate column %q", name, col)
		}
		seen[col] = true
		if _, ok := values[col]; !ok {
			return nil, fmt.Errorf("sheet %s: column %q has no values", name, col)
		}
	}
	for col, vals := range values {
		if len(vals) != len(dates) {
			return nil, fmt.Errorf("sheet %s: column %q has %d values for %d rows", name, col, len(vals), len(dates))
		}
	}
	return &DataSheet{Name: name, Dates: dates, Columns: columns, values: values}, nil
}

// RowCount returns the number of data rows.
func (s *DataSheet) RowCount() int { return len(s.Dates) }

// HasColumn reports whether the sheet carries the named value column.
func (s *DataSheet) HasColumn(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Column returns the full value slice for a column. The slice is shared;
// callers must not modify it.
func (s *DataSheet) Column(name string) ([]float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Value returns one cell. ok is false for unknown columns or out-of-range rows.
func (s *DataSheet) Value(col string, row int) (float64, bool) {
	v, ok := s.values[col]
	if !ok || row < 0 || row >= len(v) {
		return 0, false
	}
	return v[row], true
}

// RowIndex resolves a timepoint index, with negative values counted from the
// end (-1 is the latest row). Returns -1 when out of range.
func (s *DataSheet) RowIndex(timepoint int) int {
	n := s.RowCount()
	if timepoint < 0 {
		timepoint += n
	}
	if timepoint < 0 || timepoint >= n {
		return -1
	}
	return timepoint
}

// RowAt returns the index of the last row dated at or before t, or -1 when
// t precedes the first row.
func (s *DataSheet) RowAt(t time.Time) int {
	// First index strictly after t, then step back one.
	i := sort.Search(len(s.Dates), func(i int) bool { return s.Dates[i].After(t) })
	return i - 1
}

// DistributionAt extracts the values of cols at the last row at or before t.
// ok is false when t precedes the first row or a column is missing.
func (s *DataSheet) DistributionAt(t time.Time, cols []string) ([]float64, bool) {
	row := s.RowAt(t)
	if row < 0 {
		return nil, false
	}
	out := make([]float64, len(cols))
	for i, col := range cols {
		v, ok := s.Value(col, row)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// RowTotal sums cols at one row. Unknown columns contribute nothing.
func (s *DataSheet) RowTotal(row int, cols []string) float64 {
	var total float64
	for _, col := range cols {
		if v, ok := s.Value(col, row); ok {
			total += v
		}
	}
	return total
}

// DateRange returns the first and last dates. ok is false for empty sheets.
func (s *DataSheet) DateRange() (first, last time.Time, ok bool) {
	if len(s.Dates) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Dates[0], s.Dates[len(s.Dates)-1], true
}
