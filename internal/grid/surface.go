package grid

import (
	"image"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// surface is the shared raster every region is drawn on.
type surface struct {
	width  vg.Length
	height vg.Length
	dpi    int

	canvas *vgimg.Canvas
	tiles  [][]draw.Canvas

	fullDraws   int
	regionDraws int
}

func newSurface(width, height vg.Length, dpi int) *surface {
	s := &surface{width: width, height: height, dpi: dpi}
	s.canvas = s.blank()
	return s
}

func (s *surface) blank() *vgimg.Canvas {
	return vgimg.NewWith(vgimg.UseWH(s.width, s.height), vgimg.UseDPI(s.dpi))
}

// redraw clears the surface and draws every slot into its tile.
func (s *surface) redraw(l Layout, slots []*slot) {
	s.canvas = s.blank()
	s.tiles = drawTiles(draw.New(s.canvas), l, slots)
	s.fullDraws++
}

// redrawRegion clears one tile and draws p into it. The other tiles are left
// as they are.
func (s *surface) redrawRegion(r Region, p *plot.Plot) {
	c := s.tiles[r.Row][r.Col]
	c.SetColor(color.White)
	c.Fill(c.Rectangle.Path())
	p.Draw(c)
	s.regionDraws++
}

func (s *surface) image() image.Image {
	return s.canvas.Image()
}

// writeRaster encodes the live surface.
func (s *surface) writeRaster(w io.Writer, format string) (int64, error) {
	switch format {
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: s.canvas}.WriteTo(w)
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: s.canvas}.WriteTo(w)
	default:
		return vgimg.PngCanvas{Canvas: s.canvas}.WriteTo(w)
	}
}

// drawTiles aligns the slots' plots on a rows × cols tiling of dc and draws
// them. Empty cells get an undrawn placeholder so they still take part in
// alignment, and stay blank.
func drawTiles(dc draw.Canvas, l Layout, slots []*slot) [][]draw.Canvas {
	placeholder := plot.New()
	plots := make([][]*plot.Plot, l.Rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, l.Cols)
		for j := range plots[i] {
			plots[i][j] = placeholder
		}
	}
	for _, s := range slots {
		r := l.Region(s.index)
		plots[r.Row][r.Col] = s.plot
	}

	tiles := plot.Align(plots, l.tiles(), dc)
	for _, s := range slots {
		r := l.Region(s.index)
		s.plot.Draw(tiles[r.Row][r.Col])
	}
	return tiles
}
