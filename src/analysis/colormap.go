package analysis

// CellRange is a rectangular block of grid cells: Cols columns starting at
// Col, Rows rows starting at Row.
type CellRange struct {
	Col, Row   int
	Cols, Rows int
}

// Contains reports whether the cell at (row, col) falls inside the range.
func (r CellRange) Contains(row, col int) bool {
	return col >= r.Col && col < r.Col+r.Cols && row >= r.Row && row < r.Row+r.Rows
}

// ColorEntry ties one series' stroke color to the grid cells it reads from.
type ColorEntry struct {
	Color string // hex, "#rrggbb"
	Range CellRange
}

// ColorMap lets the grid paint each cell with the color of the timeline
// series built from it. The map is rebuilt from scratch on every timeline
// rebuild; entries never survive a selection change.
type ColorMap struct {
	entries []ColorEntry
}

func NewColorMap() *ColorMap { return &ColorMap{} }

// Reset drops every entry.
func (m *ColorMap) Reset() { m.entries = m.entries[:0] }

// Add appends one series-to-cells association.
func (m *ColorMap) Add(color string, r CellRange) {
	m.entries = append(m.entries, ColorEntry{Color: color, Range: r})
}

// Len returns the number of entries.
func (m *ColorMap) Len() int { return len(m.entries) }

// Entries returns a copy of the associations in insertion order.
func (m *ColorMap) Entries() []ColorEntry {
	out := make([]ColorEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// ColorAt returns the color covering a cell. Earlier entries win, though
// ranges never overlap in practice since each series owns its two columns.
func (m *ColorMap) ColorAt(row, col int) (string, bool) {
	for _, e := range m.entries {
		if e.Range.Contains(row, col) {
			return e.Color, true
		}
	}
	return "", false
}

// defaultPalette mirrors the render stack's default series colors so headless
// builds agree with what the viewer draws.
var defaultPalette = []string{
	"#0074d9", // blue
	"#00d965", // green
	"#d90074", // red
	"#00d9d2", // cyan
	"#d96500", // orange
}

// DefaultPalette returns the hex color for series i, cycling as needed.
func DefaultPalette(i int) string {
	if i < 0 {
		i = -i
	}
	return defaultPalette[i%len(defaultPalette)]
}
