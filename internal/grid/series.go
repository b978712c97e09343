package grid

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg/draw"

	"berkotech.co/plotgrid/internal/table"
)

// Style selects how a series is drawn.
type Style int

const (
	// Line connects points in order with a marker at each point.
	Line Style = iota
	// Scatter draws unconnected, partly transparent markers.
	Scatter
)

// DefaultScatterAlpha is the marker opacity used for Scatter.
const DefaultScatterAlpha = 0.7

func (s Style) String() string {
	switch s {
	case Line:
		return "line"
	case Scatter:
		return "scatter"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle accepts "line", "straight line" and "scatter", ignoring case.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line", "straight line", "straight":
		return Line, nil
	case "scatter":
		return Scatter, nil
	}
	return Line, fmt.Errorf("unknown plot style %q", s)
}

// Series is one X/Y data set drawn in a region.
type Series struct {
	Label string
	XYs   plotter.XYs
}

// Frame is everything drawn in one region.
type Frame struct {
	Title  string
	XLabel string
	YLabel string
	Legend bool
	Grid   bool

	Style  Style
	Alpha  float64
	Series []Series
}

// PairedSeries consumes columns two at a time: (0,1), (2,3), ... A trailing
// odd column has no partner and is left out.
func PairedSeries(t *table.Table) []Series {
	var out []Series
	for i := 0; i+1 < t.Cols(); i += 2 {
		out = append(out, newSeries(t, i, i+1))
	}
	return out
}

// UnpairedSeries plots every column after the first against column 0.
func UnpairedSeries(t *table.Table) []Series {
	var out []Series
	for i := 1; i < t.Cols(); i++ {
		out = append(out, newSeries(t, 0, i))
	}
	return out
}

func newSeries(t *table.Table, x, y int) Series {
	return Series{
		Label: fmt.Sprintf("%s vs %s", t.Name(x), t.Name(y)),
		XYs:   t.XYs(x, y),
	}
}

// Format applies the standard decorations. Applying it again with the same
// name leaves the frame unchanged.
func Format(f *Frame, name string) {
	f.Title = name
	f.XLabel = "X-axis"
	f.YLabel = "Y-axis"
	f.Legend = true
	f.Grid = true
}

// Plot builds a gonum plot for the frame.
func (f *Frame) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	if f.Grid {
		p.Add(plotter.NewGrid())
	}

	for i, s := range f.Series {
		c := plotutil.Color(i)
		var (
			thumbs []plot.Thumbnailer
			err    error
		)
		switch f.Style {
		case Scatter:
			thumbs, err = f.addScatter(p, s, c)
		default:
			thumbs, err = addLinePoints(p, s, c)
		}
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		if f.Legend {
			p.Legend.Add(s.Label, thumbs...)
		}
	}
	p.Legend.Top = true
	return p, nil
}

func addLinePoints(p *plot.Plot, s Series, c color.Color) ([]plot.Thumbnailer, error) {
	line, points, err := plotter.NewLinePoints(s.XYs)
	if err != nil {
		return nil, err
	}
	line.Color = c
	points.Color = c
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	return []plot.Thumbnailer{line, points}, nil
}

func (f *Frame) addScatter(p *plot.Plot, s Series, c color.Color) ([]plot.Thumbnailer, error) {
	sc, err := plotter.NewScatter(s.XYs)
	if err != nil {
		return nil, err
	}
	alpha := f.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultScatterAlpha
	}
	sc.Color = withAlpha(c, alpha)
	sc.Shape = draw.CircleGlyph{}
	p.Add(sc)
	return []plot.Thumbnailer{sc}, nil
}

func withAlpha(c color.Color, alpha float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(alpha*255 + 0.5)
	return n
}
