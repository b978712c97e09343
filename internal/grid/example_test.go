package grid_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"berkotech.co/plotgrid/internal/grid"
	"berkotech.co/plotgrid/internal/table"
)

func Example() {
	idx := make([]float64, 16)
	lin := make([]float64, 16)
	sq := make([]float64, 16)
	for i := range idx {
		idx[i] = float64(i + 1)
		lin[i] = float64(i + 1)
		sq[i] = float64((i + 1) * (i + 1))
	}
	t, err := table.New([]string{"Indices", "Linear", "Squares"}, [][]float64{idx, lin, sq})
	if err != nil {
		panic(err)
	}

	m := grid.New(grid.Options{Logger: log.New(io.Discard)})
	for _, name := range []string{"one", "two", "three"} {
		if err := m.AddPlot(name, t, false, grid.Line); err != nil {
			panic(err)
		}
	}

	r, _ := m.Region("three")
	s, _ := m.Slot("three")
	fmt.Println(m.Layout(), r)
	for _, series := range s.Frame.Series {
		fmt.Println(series.Label)
	}
	// Output:
	// 2x2 (1,0)
	// Indices vs Linear
	// Indices vs Squares
}
