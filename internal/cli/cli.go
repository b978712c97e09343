// Package cli implements the plotgrid command-line interface.
//
// # Commands
//
//   - render: add plots from flags or a config file and write the grid image,
//     optionally re-rendering when the CSV files change (--watch)
//   - interactive: ask for plots one at a time and rewrite the image after each
//   - version: print build information
//
// All commands accept --config (-c) for a TOML or YAML settings file and
// --verbose (-v) for debug logging.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"berkotech.co/plotgrid/internal/config"
	"berkotech.co/plotgrid/internal/grid"
	"berkotech.co/plotgrid/internal/table"
)

const appName = "plotgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the build information printed by the version command.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	In     io.Reader
	Out    io.Writer

	configPath string
	verbose    bool
}

// New creates a CLI reading prompts from in, printing to out and logging to
// logw.
func New(in io.Reader, out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(logw, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		In:  in,
		Out: out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Plot CSV files on a growing grid of subplots",
		Long:         `plotgrid loads CSV files and draws each one as a subplot. The grid gains rows as plots are added, up to a fixed number of columns.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}
	root.SetVersionTemplate(versionString())

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.versionCommand())

	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(c.Out, versionString())
		},
	}
}

func versionString() string {
	return fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date)
}

// loadConfig reads --config, or returns defaults when it is not set. The
// config's log level applies unless --verbose was given.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return nil, err
		}
	}
	if !c.verbose {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log_level: %w", err)
		}
		c.SetLogLevel(level)
	}
	return cfg, nil
}

func (c *CLI) newManager(cfg *config.Config) *grid.Manager {
	opts := cfg.GridOptions()
	opts.Logger = c.Logger
	return grid.New(opts)
}

// addPlot loads p's file and adds it to m.
func (c *CLI) addPlot(m *grid.Manager, p config.Plot) error {
	style, err := grid.ParseStyle(p.Style)
	if err != nil {
		return err
	}
	t, err := table.Load(p.File)
	if err != nil {
		return err
	}
	name := p.NameOrDefault()
	if err := m.AddPlot(name, t, p.Paired, style); err != nil {
		return err
	}
	c.Logger.Info("added plot", "name", name, "columns", t.Cols(), "rows", t.Rows(), "layout", m.Layout())
	return nil
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
