// Package config loads plotgrid settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"berkotech.co/plotgrid/internal/grid"
)

const (
	defaultWidth  = 10.0 // inches
	defaultHeight = 10.0 // inches
	defaultOutput = "plotgrid.png"
	defaultLevel  = "info"
)

// Config is the root of a plotgrid config file.
type Config struct {
	MaxColumns       int     `toml:"max_columns" yaml:"max_columns"`
	Width            float64 `toml:"width" yaml:"width"`   // inches
	Height           float64 `toml:"height" yaml:"height"` // inches
	DPI              int     `toml:"dpi" yaml:"dpi"`
	ScatterAlpha     float64 `toml:"scatter_alpha" yaml:"scatter_alpha"`
	RejectDuplicates bool    `toml:"reject_duplicates" yaml:"reject_duplicates"`
	Output           string  `toml:"output" yaml:"output"`
	LogLevel         string  `toml:"log_level" yaml:"log_level"`
	Plots            []Plot  `toml:"plot" yaml:"plots"`
}

// Plot declares a plot to add on startup.
type Plot struct {
	Name   string `toml:"name" yaml:"name"`
	File   string `toml:"file" yaml:"file"`
	Paired bool   `toml:"paired" yaml:"paired"`
	Style  string `toml:"style" yaml:"style"` // "line" | "scatter"
}

// Default returns a config with every field at its default.
func Default() *Config {
	return &Config{
		MaxColumns:   grid.DefaultMaxColumns,
		Width:        defaultWidth,
		Height:       defaultHeight,
		DPI:          grid.DefaultDPI,
		ScatterAlpha: grid.DefaultScatterAlpha,
		Output:       defaultOutput,
		LogLevel:     defaultLevel,
	}
}

// Load reads the config file at path. The format is chosen by extension:
// .toml, or .yaml/.yml. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown keys %v", path, undecoded)
		}
	case ".yaml", ".yml":
		if err := decodeYAML(path, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Plot files are relative to the config file.
	dir := filepath.Dir(path)
	for i := range cfg.Plots {
		if !filepath.IsAbs(cfg.Plots[i].File) {
			cfg.Plots[i].File = filepath.Join(dir, cfg.Plots[i].File)
		}
	}
	return cfg, nil
}

func decodeYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.MaxColumns < 1:
		return fmt.Errorf("max_columns must be at least 1, got %d", c.MaxColumns)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("width and height must be positive, got %gx%g", c.Width, c.Height)
	case c.DPI <= 0:
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	case c.ScatterAlpha <= 0 || c.ScatterAlpha > 1:
		return fmt.Errorf("scatter_alpha must be in (0, 1], got %g", c.ScatterAlpha)
	}
	seen := make(map[string]bool, len(c.Plots))
	for i, p := range c.Plots {
		if p.File == "" {
			return fmt.Errorf("plot %d: file is required", i)
		}
		if _, err := grid.ParseStyle(p.Style); err != nil {
			return fmt.Errorf("plot %d: %w", i, err)
		}
		name := p.NameOrDefault()
		if c.RejectDuplicates && seen[name] {
			return fmt.Errorf("plot %d: duplicate name %q", i, name)
		}
		seen[name] = true
	}
	return nil
}

// NameOrDefault returns the plot name, or the file's base name without its
// extension when no name is set.
func (p Plot) NameOrDefault() string {
	if p.Name != "" {
		return p.Name
	}
	base := filepath.Base(p.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GridOptions converts the config into grid manager options.
func (c *Config) GridOptions() grid.Options {
	return grid.Options{
		MaxColumns:       c.MaxColumns,
		Width:            vg.Length(c.Width) * vg.Inch,
		Height:           vg.Length(c.Height) * vg.Inch,
		DPI:              c.DPI,
		ScatterAlpha:     c.ScatterAlpha,
		RejectDuplicates: c.RejectDuplicates,
	}
}
