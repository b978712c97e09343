// Package table holds the numeric tables that plots are rendered from.
//
// A Table is an ordered set of named float64 columns of equal length. Column
// order is significant: it decides which column is the X axis and how columns
// are paired. Tables are immutable once built.
package table

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/plotter"
)

var (
	// ErrEmpty is returned when a table would have no columns or no rows.
	ErrEmpty = errors.New("table is empty")

	// ErrRagged is returned when columns differ in length.
	ErrRagged = errors.New("columns differ in length")

	// ErrNonNumeric is returned when a loaded column holds non-numeric cells.
	ErrNonNumeric = errors.New("column is not numeric")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Table is an immutable, column-ordered numeric table.
// The zero value is an empty table with no columns.
type Table struct {
	names []string
	data  *mat.Dense
}

// New builds a table from column names and their values. columns[i] holds the
// values of names[i].
func New(names []string, columns [][]float64) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("table: %d names for %d columns", len(names), len(columns))
	}
	if len(columns) == 0 || len(columns[0]) == 0 {
		return nil, ErrEmpty
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, n)
		}
		seen[n] = true
	}

	rows := len(columns[0])
	data := mat.NewDense(rows, len(columns), nil)
	for j, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: %q has %d values, want %d", ErrRagged, names[j], len(col), rows)
		}
		data.SetCol(j, col)
	}

	return &Table{names: append([]string(nil), names...), data: data}, nil
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Rows returns the number of values in each column.
func (t *Table) Rows() int {
	if t == nil || t.data == nil {
		return 0
	}
	r, _ := t.data.Dims()
	return r
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Name returns the name of column i.
func (t *Table) Name(i int) string {
	return t.names[i]
}

// Column returns a copy of the values of column i.
func (t *Table) Column(i int) []float64 {
	return mat.Col(nil, i, t.data)
}

// XYs pairs column x with column y, row by row.
func (t *Table) XYs(x, y int) plotter.XYs {
	rows := t.Rows()
	pts := make(plotter.XYs, rows)
	for i := range pts {
		pts[i].X = t.data.At(i, x)
		pts[i].Y = t.data.At(i, y)
	}
	return pts
}

// Matrix exposes the table as a rows × cols matrix. It returns nil for an
// empty table.
func (t *Table) Matrix() mat.Matrix {
	if t == nil || t.data == nil {
		return nil
	}
	return t.data
}

// String renders the table dimensions and header, e.g. "3x2 [x y]".
func (t *Table) String() string {
	return fmt.Sprintf("%dx%d %v", t.Rows(), t.Cols(), t.Names())
}
