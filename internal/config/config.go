// Package config handles checklist configuration loading and validation.
package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/philipparndt/stlchecklist/pkg/thumbnail"
)

// Config holds all scan settings.
type Config struct {
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Scan      ScanConfig      `yaml:"scan"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ThumbnailConfig holds preview framing and styling.
type ThumbnailConfig struct {
	Size        int     `yaml:"size"`
	Padding     float64 `yaml:"padding"`
	Supersample int     `yaml:"supersample"`
	Elevation   float64 `yaml:"elevation"`
	Azimuth     float64 `yaml:"azimuth"`
	Shade       bool    `yaml:"shade"`
	FaceColor   string  `yaml:"face_color"`
	EdgeColor   string  `yaml:"edge_color"`
	Background  string  `yaml:"background"`
}

// ScanConfig holds directory traversal settings.
type ScanConfig struct {
	Extension string        `yaml:"extension"`
	Workers   int           `yaml:"workers"`
	Debounce  time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock checklist settings.
func Default() *Config {
	return &Config{
		Thumbnail: ThumbnailConfig{
			Size:        500,
			Padding:     1.0,
			Supersample: 2,
			Elevation:   30,
			Azimuth:     -60,
			Shade:       true,
			FaceColor:   "#00ffff",
			EdgeColor:   "#000000",
			Background:  "#ffffff",
		},
		Scan: ScanConfig{
			Extension: ".stl",
			Workers:   1,
			Debounce:  500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := c.RenderOptions(); err != nil {
		return err
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	if !strings.HasPrefix(c.Scan.Extension, ".") || len(c.Scan.Extension) < 2 {
		return fmt.Errorf("scan.extension must look like \".stl\", got %q", c.Scan.Extension)
	}
	if c.Scan.Debounce < 0 {
		return fmt.Errorf("scan.debounce must not be negative, got %v", c.Scan.Debounce)
	}
	return nil
}

// RenderOptions converts the thumbnail section into renderer options.
func (c *Config) RenderOptions() (thumbnail.Options, error) {
	t := c.Thumbnail
	opts := thumbnail.Options{
		Size:        t.Size,
		Padding:     t.Padding,
		Supersample: t.Supersample,
		Elevation:   t.Elevation,
		Azimuth:     t.Azimuth,
		Shade:       t.Shade,
	}

	var err error
	if opts.Face, err = ParseColor(t.FaceColor); err != nil {
		return opts, fmt.Errorf("thumbnail.face_color: %w", err)
	}
	if opts.Edge, err = ParseColor(t.EdgeColor); err != nil {
		return opts, fmt.Errorf("thumbnail.edge_color: %w", err)
	}
	if opts.Background, err = ParseColor(t.Background); err != nil {
		return opts, fmt.Errorf("thumbnail.background: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("thumbnail: %w", err)
	}
	return opts, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
