// Package config loads whiteboard settings from a TOML file and
// WHITEBOARD_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Theme    string       `mapstructure:"theme" toml:"theme"`
	Renderer string       `mapstructure:"renderer" toml:"renderer" validate:"oneof=raster gg"`
	Board    BoardConfig  `mapstructure:"board" toml:"board"`
	Export   ExportConfig `mapstructure:"export" toml:"export"`
	Notify   NotifyConfig `mapstructure:"notify" toml:"notify"`
	Server   ServerConfig `mapstructure:"server" toml:"server"`
}

// BoardConfig seeds the drawing engine.
type BoardConfig struct {
	Width        int     `mapstructure:"width" toml:"width" validate:"gte=0"`
	Height       int     `mapstructure:"height" toml:"height" validate:"gte=0"`
	Color        string  `mapstructure:"color" toml:"color" validate:"required"`
	BrushWidth   int     `mapstructure:"brush_width" toml:"brush_width" validate:"min=1,max=20"`
	Tool         string  `mapstructure:"tool" toml:"tool" validate:"oneof=pen rectangle ellipse ruler"`
	Scale        float64 `mapstructure:"scale" toml:"scale" validate:"gt=0"`
	RulerTicks   int     `mapstructure:"ruler_ticks" toml:"ruler_ticks" validate:"min=1"`
	HistoryLimit int     `mapstructure:"history_limit" toml:"history_limit" validate:"gte=0"`
	Antialias    bool    `mapstructure:"antialias" toml:"antialias"`
}

// ExportConfig controls where saves land and how they are encoded.
type ExportConfig struct {
	Dir    string `mapstructure:"dir" toml:"dir"`
	Format string `mapstructure:"format" toml:"format" validate:"oneof=png pdf"`
}

// NotifyConfig holds notification settings. Desktop gates OS
// notifications; the rest select which events are announced.
type NotifyConfig struct {
	Desktop bool `mapstructure:"desktop" toml:"desktop"`
	Save    bool `mapstructure:"save" toml:"save"`
	Clear   bool `mapstructure:"clear" toml:"clear"`
	Undo    bool `mapstructure:"undo" toml:"undo"`
	Copy    bool `mapstructure:"copy" toml:"copy"`
}

// ServerConfig is used by the serve command.
type ServerConfig struct {
	Addr string `mapstructure:"addr" toml:"addr" validate:"required"`
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:    "light",
		Renderer: "raster",
		Board: BoardConfig{
			Width:      1024,
			Height:     768,
			Color:      "black",
			BrushWidth: 5,
			Tool:       "pen",
			Scale:      1,
			RulerTicks: 10,
			Antialias:  true,
		},
		Export: ExportConfig{Dir: ".", Format: "png"},
		Notify: NotifyConfig{Save: true, Clear: true, Undo: true, Copy: true},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// String implements fmt.Stringer and returns the configuration as TOML.
func (c *Config) String() string {
	b, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# %v\n", err)
	}
	return string(b)
}

// Save writes the configuration to path as TOML, creating parent
// directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
