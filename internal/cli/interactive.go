package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"berkotech.co/plotgrid/internal/prompt"
	"berkotech.co/plotgrid/internal/table"
)

func (c *CLI) interactiveCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Add plots one at a time from prompts",
		Long: `Interactive asks for a CSV file, a title, whether the columns are paired
and the plot type, adds the plot and rewrites the output image. It repeats
until the prompt is canceled (esc, ctrl+c or end of input).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Output = output
			}

			m := c.newManager(cfg)
			for _, p := range cfg.Plots {
				if err := c.addPlot(m, p); err != nil {
					return err
				}
			}
			if m.Len() > 0 {
				if err := m.Save(cfg.Output); err != nil {
					return err
				}
			}

			p := prompt.New(c.In, c.Out)
			for {
				req, err := p.Ask(ctx)
				if errors.Is(err, prompt.ErrCanceled) {
					c.Logger.Info("done", "plots", m.Len(), "file", cfg.Output)
					return nil
				}
				if err != nil {
					return err
				}

				t, err := table.Load(req.Path)
				if err != nil {
					c.Logger.Error("could not load table", "err", err)
					continue
				}
				if err := m.AddPlot(req.Name, t, req.Paired, req.Style); err != nil {
					c.Logger.Error("could not add plot", "name", req.Name, "err", err)
					continue
				}
				if err := m.Save(cfg.Output); err != nil {
					return err
				}
				c.Logger.Info("added plot", "name", req.Name, "layout", m.Layout(), "file", cfg.Output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output image (default from config, plotgrid.png)")
	return cmd
}
