package models

import (
	"fmt"
	"sort"
)

// CellKey identifies one (year, month) cell of the matrix
type CellKey struct {
	Year  int
	Month int
}

// String renders the key as YYYY-MM
func (k CellKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// MatrixEntry summarizes one (year, month) group of daily observations
type MatrixEntry struct {
	Year       int                `json:"year"`
	Month      int                `json:"month"`
	MaxOfMonth float64            `json:"max_of_month"`
	MinOfMonth float64            `json:"min_of_month"`
	Daily      []DailyObservation `json:"daily"`
}

// Key returns the entry's cell key
func (e *MatrixEntry) Key() CellKey {
	return CellKey{Year: e.Year, Month: e.Month}
}

// Matrix is the immutable set of entries, ordered by (year, month)
type Matrix struct {
	entries []*MatrixEntry
	index   map[CellKey]*MatrixEntry
	years   []int
}

// NewMatrix builds a Matrix from entries. Entries are sorted by (year, month);
// a duplicate key is a programming error and returns an error.
func NewMatrix(entries []*MatrixEntry) (*Matrix, error) {
	sorted := make([]*MatrixEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Month < sorted[j].Month
	})

	m := &Matrix{
		entries: sorted,
		index:   make(map[CellKey]*MatrixEntry, len(sorted)),
	}
	for _, e := range sorted {
		if _, dup := m.index[e.Key()]; dup {
			return nil, fmt.Errorf("duplicate matrix entry %s", e.Key())
		}
		m.index[e.Key()] = e
		if len(m.years) == 0 || m.years[len(m.years)-1] != e.Year {
			m.years = append(m.years, e.Year)
		}
	}
	return m, nil
}

// Entries returns the entries in (year, month) order
func (m *Matrix) Entries() []*MatrixEntry {
	return m.entries
}

// Entry looks up a single cell
func (m *Matrix) Entry(year, month int) (*MatrixEntry, bool) {
	e, ok := m.index[CellKey{Year: year, Month: month}]
	return e, ok
}

// Len returns the number of cells
func (m *Matrix) Len() int {
	return len(m.entries)
}

// Years returns the distinct years present, ascending
func (m *Matrix) Years() []int {
	return m.years
}

// MonthDomain returns the fixed month domain 1..12
func MonthDomain() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
}

// MonthNames holds English month names indexed by month-1
var MonthNames = [12]string{
	"January", "February", "March", "April",
	"May", "June", "July", "August",
	"September", "October", "November", "December",
}
