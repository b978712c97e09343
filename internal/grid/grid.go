// Package grid lays out named plots on a growing grid of subplots.
//
// A Manager owns a drawing surface split into rows × cols regions. Each call
// to AddPlot binds a named slot to the next region, growing the grid when it
// is full: columns are capped at Options.MaxColumns and rows are added as
// needed. Regions are assigned row-major in insertion order, so every slot is
// repositioned from its insertion index whenever the layout changes.
//
// Tables are rendered in one of two pairing modes:
//
//   - paired: columns (0,1), (2,3), ... each form one series
//   - unpaired: column 0 is shared X against every other column
//
// A Manager is not safe for concurrent use.
package grid

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"berkotech.co/plotgrid/internal/table"
)

// Defaults for zero-valued Options.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 10 * vg.Inch
	DefaultDPI    = 100
)

// Options configures a Manager. Zero fields take the package defaults.
type Options struct {
	MaxColumns   int
	Width        vg.Length
	Height       vg.Length
	DPI          int
	ScatterAlpha float64

	// RejectDuplicates makes AddPlot fail with ErrDuplicateName instead of
	// replacing an existing slot.
	RejectDuplicates bool

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.MaxColumns < 1 {
		o.MaxColumns = DefaultMaxColumns
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.ScatterAlpha <= 0 || o.ScatterAlpha > 1 {
		o.ScatterAlpha = DefaultScatterAlpha
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

type slot struct {
	name   string
	index  int
	table  *table.Table
	paired bool
	style  Style
	frame  Frame
	plot   *plot.Plot
}

// Slot is a read-only view of a named plot.
type Slot struct {
	Name   string
	Region Region
	Table  *table.Table
	Paired bool
	Style  Style
	Frame  Frame
}

// Manager owns the slots, the layout and the drawing surface.
type Manager struct {
	opts    Options
	logger  *log.Logger
	layout  Layout
	slots   []*slot // insertion order
	byName  map[string]*slot
	surface *surface
}

// New returns a Manager with an empty 1×1 layout.
func New(opts Options) *Manager {
	opts.setDefaults()
	return &Manager{
		opts:    opts,
		logger:  opts.Logger,
		layout:  Layout{Rows: 1, Cols: 1},
		byName:  make(map[string]*slot),
		surface: newSurface(opts.Width, opts.Height, opts.DPI),
	}
}

// AddPlot renders t into the slot called name and redraws the surface.
//
// A new name takes the next region, growing the layout if it is full. An
// existing name keeps its region and has its table, mode and style replaced,
// unless the manager rejects duplicates. Nothing changes when an error is
// returned.
func (m *Manager) AddPlot(name string, t *table.Table, paired bool, style Style) error {
	if name == "" {
		return ErrInvalidName
	}
	if err := checkTable(t); err != nil {
		return err
	}
	existing, ok := m.byName[name]
	if ok && m.opts.RejectDuplicates {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	frame, p, err := m.render(name, t, paired, style)
	if err != nil {
		return fmt.Errorf("render %q: %w", name, err)
	}

	if ok {
		existing.table, existing.paired, existing.style = t, paired, style
		existing.frame, existing.plot = frame, p
		m.logger.Debug("replaced plot", "name", name, "region", m.layout.Region(existing.index))
	} else {
		n := len(m.slots) + 1
		if !m.layout.Fits(n) {
			next := fit(n, m.opts.MaxColumns)
			m.logger.Debug("growing grid", "from", m.layout, "to", next, "plots", n)
			m.layout = next
		}
		s := &slot{
			name:   name,
			index:  len(m.slots),
			table:  t,
			paired: paired,
			style:  style,
			frame:  frame,
			plot:   p,
		}
		m.slots = append(m.slots, s)
		m.byName[name] = s
		m.logger.Debug("added plot", "name", name, "region", m.layout.Region(s.index), "layout", m.layout)
	}

	m.surface.redraw(m.layout, m.slots)
	return nil
}

// UpdatePlot re-renders the named slot from t using the slot's pairing mode
// and style. Only that slot's region is redrawn.
func (m *Manager) UpdatePlot(name string, t *table.Table) error {
	s, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := checkTable(t); err != nil {
		return err
	}

	frame, p, err := m.render(name, t, s.paired, s.style)
	if err != nil {
		return fmt.Errorf("render %q: %w", name, err)
	}
	s.table, s.frame, s.plot = t, frame, p

	m.surface.redrawRegion(m.layout.Region(s.index), p)
	m.logger.Debug("updated plot", "name", name, "rows", t.Rows())
	return nil
}

// Region returns the region bound to name.
func (m *Manager) Region(name string) (Region, error) {
	s, ok := m.byName[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return m.layout.Region(s.index), nil
}

// Slot returns a view of the named slot.
func (m *Manager) Slot(name string) (Slot, error) {
	s, ok := m.byName[name]
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return Slot{
		Name:   s.name,
		Region: m.layout.Region(s.index),
		Table:  s.table,
		Paired: s.paired,
		Style:  s.style,
		Frame:  s.frame,
	}, nil
}

// Layout returns the current layout.
func (m *Manager) Layout() Layout { return m.layout }

// Len returns the number of slots.
func (m *Manager) Len() int { return len(m.slots) }

// MaxColumns returns the column cap.
func (m *Manager) MaxColumns() int { return m.opts.MaxColumns }

// Names returns slot names in insertion order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.slots))
	for i, s := range m.slots {
		names[i] = s.name
	}
	return names
}

// Image returns the current raster surface.
func (m *Manager) Image() image.Image { return m.surface.image() }

// WriteTo encodes the surface in the given format: png, jpg, jpeg, tif and
// tiff come from the live surface; svg, pdf, eps and tex are drawn afresh.
func (m *Manager) WriteTo(w io.Writer, format string) (int64, error) {
	format = strings.ToLower(format)
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		return m.surface.writeRaster(w, format)
	}

	c, err := draw.NewFormattedCanvas(m.opts.Width, m.opts.Height, format)
	if err != nil {
		return 0, err
	}
	if len(m.slots) > 0 {
		drawTiles(draw.New(c), m.layout, m.slots)
	}
	return c.WriteTo(w)
}

// Save writes the surface to path, choosing the format from its extension.
func (m *Manager) Save(path string) (err error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("save %s: missing file extension", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if _, err = m.WriteTo(f, format); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (m *Manager) render(name string, t *table.Table, paired bool, style Style) (Frame, *plot.Plot, error) {
	f := Frame{Style: style, Alpha: m.opts.ScatterAlpha}
	if paired {
		f.Series = PairedSeries(t)
		if t.Cols()%2 == 1 {
			m.logger.Debug("dropping unpaired column", "plot", name, "column", t.Name(t.Cols()-1))
		}
	} else {
		f.Series = UnpairedSeries(t)
	}
	Format(&f, name)

	p, err := f.Plot()
	if err != nil {
		return Frame{}, nil, err
	}
	return f, p, nil
}

func checkTable(t *table.Table) error {
	switch {
	case t == nil || t.Rows() == 0:
		return fmt.Errorf("%w: empty", ErrInvalidTable)
	case t.Cols() < 2:
		return fmt.Errorf("%w: need at least 2 columns, got %d", ErrInvalidTable, t.Cols())
	}
	return nil
}
