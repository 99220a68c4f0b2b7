package datasource

import "fmt"

// DataSource is one loaded workbook: its configured identity plus one
// DataSheet per category sheet, in workbook order.
type DataSource struct {
	Name        string
	Description string
	SheetNames  []string
	Sheets      map[string]*DataSheet
}

// Sheet returns the named category sheet.
func (d *DataSource) Sheet(category string) (*DataSheet, bool) {
	s, ok := d.Sheets[category]
	return s, ok
}

// Store is the ordered collection of loaded sources. Lookups are by
// configured name or by position; reloading a name keeps its position.
type Store struct {
	names   []string
	sources map[string]*DataSource
}

func NewStore() *Store {
	return &Store{sources: make(map[string]*DataSource)}
}

// Add inserts or replaces a source. Replacement keeps the original position
// so selection slots stay stable across reloads.
func (st *Store) Add(src *DataSource) {
	if _, ok := st.sources[src.Name]; !ok {
		st.names = append(st.names, src.Name)
	}
	st.sources[src.Name] = src
}

// Len returns the number of loaded sources.
func (st *Store) Len() int { return len(st.names) }

// Names returns the source names in load order. The slice is a copy.
func (st *Store) Names() []string {
	out := make([]string, len(st.names))
	copy(out, st.names)
	return out
}

// ByName returns the named source.
func (st *Store) ByName(name string) (*DataSource, bool) {
	s, ok := st.sources[name]
	return s, ok
}

// ByIndex returns the i-th source in load order.
func (st *Store) ByIndex(i int) (*DataSource, error) {
	if i < 0 || i >= len(st.names) {
		return nil, fmt.Errorf("source index %d out of range (have %d)", i, len(st.names))
	}
	return st.sources[st.names[i]], nil
}

// IndexOf returns the position of a source name, or -1.
func (st *Store) IndexOf(name string) int {
	for i, n := range st.names {
		if n == name {
			return i
		}
	}
	return -1
}
