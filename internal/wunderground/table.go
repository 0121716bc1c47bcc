package wunderground

import (
	"slices"
	"time"
)

// Table is a time-indexed observation table. Index and Cells are parallel:
// row i observed at Index[i] holds Cells[i], which is exactly len(Columns)
// wide with nil marking a missing reading. The zero value is the empty
// table: no rows, no defined columns.
type Table struct {
	Columns []string
	Index   []time.Time
	Cells   [][]*float64
}

// NewTable returns a row-less table carrying the given column layout.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Index) }

// Empty reports whether the table has no rows. Callers use this as the soft
// failure signal after exhausted fetch attempts.
func (t *Table) Empty() bool { return len(t.Index) == 0 }

// AddRow appends one observation row; cells must match the column width.
func (t *Table) AddRow(ts time.Time, cells []*float64) error {
	if len(cells) != len(t.Columns) {
		return &ShapeError{Values: len(cells), Width: len(t.Columns), Timestamps: 1}
	}
	t.Index = append(t.Index, ts)
	t.Cells = append(t.Cells, cells)
	return nil
}

// Append concatenates other's rows onto t in order. A column-less other
// contributes nothing; a column-less t adopts other's layout first. Differing
// layouts are a ShapeError.
func (t *Table) Append(other *Table) error {
	if other == nil || len(other.Columns) == 0 {
		return nil
	}
	if len(t.Columns) == 0 {
		t.Columns = append([]string(nil), other.Columns...)
	}
	if !slices.Equal(t.Columns, other.Columns) {
		return &ShapeError{Values: len(other.Columns), Width: len(t.Columns), Timestamps: other.Len()}
	}
	t.Index = append(t.Index, other.Index...)
	t.Cells = append(t.Cells, other.Cells...)
	return nil
}

// Float returns a pointer to v, for building cell values in place.
func Float(v float64) *float64 { return &v }
