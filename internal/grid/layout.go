package grid

import (
	"fmt"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultMaxColumns is the column cap used when Options.MaxColumns is unset.
const DefaultMaxColumns = 2

// Layout is a rows × cols arrangement of regions. Layouts are values; growing
// the grid replaces the layout rather than mutating it.
type Layout struct {
	Rows int
	Cols int
}

// Capacity returns the number of regions the layout can hold.
func (l Layout) Capacity() int { return l.Rows * l.Cols }

// Fits reports whether n slots fit without growing.
func (l Layout) Fits(n int) bool { return l.Capacity() >= n }

// Region returns the region for the slot at insertion index i. Regions are
// assigned row-major.
func (l Layout) Region(i int) Region {
	return Region{Index: i, Row: i / l.Cols, Col: i % l.Cols}
}

func (l Layout) String() string { return fmt.Sprintf("%dx%d", l.Rows, l.Cols) }

// fit returns the smallest layout holding n slots with at most maxCols
// columns.
func fit(n, maxCols int) Layout {
	if n < 1 {
		n = 1
	}
	cols := min(maxCols, n)
	rows := (n + cols - 1) / cols
	return Layout{Rows: rows, Cols: cols}
}

// tiles maps the layout onto a drawing surface.
func (l Layout) tiles() draw.Tiles {
	return draw.Tiles{
		Rows:      l.Rows,
		Cols:      l.Cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
}

// Region is the grid cell bound to one slot.
type Region struct {
	Index int // insertion order of the slot
	Row   int
	Col   int
}

func (r Region) String() string { return fmt.Sprintf("(%d,%d)", r.Row, r.Col) }
