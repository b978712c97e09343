package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"berkotech.co/plotgrid/internal/config"
	"berkotech.co/plotgrid/internal/grid"
	"berkotech.co/plotgrid/internal/table"
	"berkotech.co/plotgrid/internal/watch"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string   // output image path; the extension selects the format
	plots  []string // --plot specs
	watch  bool     // keep running and re-render changed files
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.csv...]",
		Short: "Render CSV files onto a grid of subplots",
		Long: `Render adds one subplot per CSV file, in order, and writes the grid to an image.

Plots come from the config file, from positional CSV files (unpaired line
plots named after the file), and from --plot specs of the form

    name=Title,file=data.csv,paired=true,style=scatter

The output format follows the file extension: png, jpg, tiff, svg, pdf or eps.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.output != "" {
				cfg.Output = opts.output
			}

			plots := append([]config.Plot(nil), cfg.Plots...)
			for _, arg := range args {
				plots = append(plots, config.Plot{File: arg})
			}
			for _, s := range opts.plots {
				p, err := parsePlotSpec(s)
				if err != nil {
					return err
				}
				plots = append(plots, p)
			}
			if len(plots) == 0 {
				return errors.New("no plots given: pass CSV files, --plot or a config with plots")
			}

			return c.render(cmd.Context(), cfg, plots, opts.watch)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output image (default from config, plotgrid.png)")
	cmd.Flags().StringArrayVarP(&opts.plots, "plot", "p", nil, "plot spec name=..,file=..,paired=..,style=.. (repeatable)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the CSV files change")

	return cmd
}

func (c *CLI) render(ctx context.Context, cfg *config.Config, plots []config.Plot, watching bool) error {
	prog := newProgress(c.Logger)
	m := c.newManager(cfg)
	for _, p := range plots {
		if err := c.addPlot(m, p); err != nil {
			return err
		}
	}
	if err := m.Save(cfg.Output); err != nil {
		return err
	}
	prog.done("wrote grid", "file", cfg.Output, "plots", m.Len(), "layout", m.Layout())

	if !watching {
		return nil
	}
	return c.watch(ctx, m, plots, cfg.Output)
}

// watch re-renders plots whose files change until ctx is canceled.
func (c *CLI) watch(ctx context.Context, m *grid.Manager, plots []config.Plot, output string) error {
	w, err := watch.New(c.Logger, func(name string, t *table.Table) error {
		if err := m.UpdatePlot(name, t); err != nil {
			return err
		}
		return m.Save(output)
	})
	if err != nil {
		return err
	}
	defer w.Close()
	for _, p := range plots {
		if err := w.Add(p.NameOrDefault(), p.File); err != nil {
			return err
		}
	}

	c.Logger.Info("watching for changes", "files", len(plots))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// parsePlotSpec parses "name=..,file=..,paired=..,style=..". A spec without
// '=' is taken as a bare file name. A bare "paired" key means paired=true.
// Values may contain commas: a piece with no '=' continues the value before
// it, so "name=Temp, inside,file=a.csv" names the plot "Temp, inside".
func parsePlotSpec(s string) (config.Plot, error) {
	if !strings.Contains(s, "=") {
		return config.Plot{File: s}, nil
	}

	var p config.Plot
	for _, field := range splitPlotSpec(s) {
		key, value, _ := strings.Cut(strings.TrimSpace(field), "=")
		switch strings.ToLower(key) {
		case "name":
			p.Name = value
		case "file":
			p.File = value
		case "paired":
			if value == "" {
				p.Paired = true
				continue
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return config.Plot{}, fmt.Errorf("plot %q: paired: %w", s, err)
			}
			p.Paired = b
		case "style":
			if _, err := grid.ParseStyle(value); err != nil {
				return config.Plot{}, fmt.Errorf("plot %q: %w", s, err)
			}
			p.Style = value
		case "":
		default:
			return config.Plot{}, fmt.Errorf("plot %q: unknown key %q", s, key)
		}
	}
	if p.File == "" {
		return config.Plot{}, fmt.Errorf("plot %q: file is required", s)
	}
	return p, nil
}

// splitPlotSpec splits s on commas that start a new key=value pair or a bare
// "paired" key. Any other piece is glued back onto the previous one.
func splitPlotSpec(s string) []string {
	var fields []string
	for _, piece := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(piece)
		continues := trimmed != "" &&
			!strings.Contains(trimmed, "=") &&
			!strings.EqualFold(trimmed, "paired")
		if continues && len(fields) > 0 {
			fields[len(fields)-1] += "," + piece
			continue
		}
		fields = append(fields, piece)
	}
	return fields
}
