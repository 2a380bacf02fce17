package main

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// Config holds persistent editor settings
type Config struct {
	MinZoom       int     `toml:"min_zoom"`
	MaxZoom       int     `toml:"max_zoom"`
	ZoomStep      int     `toml:"zoom_step"`
	HeightMargin  float64 `toml:"height_margin"`
	HorizontalPan bool    `toml:"horizontal_pan"`

	// Size of one terminal cell in world units at 100% zoom.
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`

	LastDir string `toml:"last_dir"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	opts := viewport.DefaultOptions()
	return Config{
		MinZoom:      opts.MinZoom,
		MaxZoom:      opts.MaxZoom,
		ZoomStep:     opts.ZoomStep,
		HeightMargin: opts.HeightMargin,
		CellWidth:    8,
		CellHeight:   16,
		LastDir:      cwd,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flowedit.toml"
	}
	return filepath.Join(home, ".flowedit.toml")
}

// LoadConfig reads path over the defaults. A missing or unreadable file
// yields the defaults.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = 8
	}
	if cfg.CellHeight <= 0 {
		cfg.CellHeight = 16
	}
	return cfg
}

// SaveConfig writes cfg to path as TOML.
func SaveConfig(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	content := append([]byte("# flowedit configuration\n"), data...)
	return os.WriteFile(path, content, 0644)
}

// viewportOptions maps the config onto viewport options. Pins get a hit
// radius of about one cell so a click on the cell holding the pin lands.
func (c Config) viewportOptions() viewport.Options {
	opts := viewport.DefaultOptions()
	opts.MinZoom = c.MinZoom
	opts.MaxZoom = c.MaxZoom
	opts.ZoomStep = c.ZoomStep
	opts.HeightMargin = c.HeightMargin
	opts.HorizontalPanInViewBox = c.HorizontalPan
	opts.PinRadius = c.CellHeight
	opts.WheelStep = 3 * c.CellHeight
	return opts
}
