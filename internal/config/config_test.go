package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Thumbnail.Size != 500 {
		t.Errorf("expected size 500, got %d", cfg.Thumbnail.Size)
	}
	if cfg.Thumbnail.Padding != 1.0 {
		t.Errorf("expected padding 1.0, got %v", cfg.Thumbnail.Padding)
	}
	if cfg.Scan.Extension != ".stl" {
		t.Errorf("expected extension .stl, got %s", cfg.Scan.Extension)
	}
	if cfg.Scan.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Scan.Workers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
thumbnail:
  size: 200
  padding: 0.5
  face_color: "#ff8800"

scan:
  workers: 4
  debounce: 2s

logging:
  level: "debug"
  log_file: "scan.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Thumbnail.Size != 200 {
		t.Errorf("expected size 200, got %d", cfg.Thumbnail.Size)
	}
	if cfg.Thumbnail.Padding != 0.5 {
		t.Errorf("expected padding 0.5, got %v", cfg.Thumbnail.Padding)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Scan.Workers)
	}
	if cfg.Scan.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Scan.Debounce)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}

	// Unset values keep their defaults
	if cfg.Thumbnail.Supersample != 2 {
		t.Errorf("expected default supersample 2, got %d", cfg.Thumbnail.Supersample)
	}
	if cfg.Scan.Extension != ".stl" {
		t.Errorf("expected default extension, got %s", cfg.Scan.Extension)
	}

	opts, err := cfg.RenderOptions()
	if err != nil {
		t.Fatalf("RenderOptions failed: %v", err)
	}
	if opts.Face != (color.RGBA{R: 0xff, G: 0x88, B: 0x00, A: 0xff}) {
		t.Errorf("unexpected face color %v", opts.Face)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("thumbnail: [unterminated"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Thumbnail.Size = 321
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Thumbnail.Size != 321 {
		t.Errorf("expected size 321, got %d", loaded.Thumbnail.Size)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }, "workers"},
		{"bad extension", func(c *Config) { c.Scan.Extension = "stl" }, "extension"},
		{"negative padding", func(c *Config) { c.Thumbnail.Padding = -1 }, "padding"},
		{"zero size", func(c *Config) { c.Thumbnail.Size = 0 }, "size"},
		{"bad color", func(c *Config) { c.Thumbnail.EdgeColor = "black" }, "edge_color"},
		{"negative debounce", func(c *Config) { c.Scan.Debounce = -time.Second }, "debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#00ffff", color.RGBA{0, 255, 255, 255}, true},
		{"ff000080", color.RGBA{255, 0, 0, 128}, true},
		{"#fff", color.RGBA{}, false},
		{"#gggggg", color.RGBA{}, false},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
