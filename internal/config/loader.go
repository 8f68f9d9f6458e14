package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. WHITEBOARD_BOARD_TOOL.
const EnvPrefix = "WHITEBOARD"

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or by --config
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the resolved config file, if any, overlays the environment
// and validates the result.
func (l *Loader) Load() (*Config, error) {
	v := newViper()
	if path := l.GetConfigPath(); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return decode(v)
}

// Parse reads TOML configuration from r, overlays the environment and
// validates the result.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	v := newViper()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, New())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("theme", c.Theme)
	v.SetDefault("renderer", c.Renderer)
	v.SetDefault("board.width", c.Board.Width)
	v.SetDefault("board.height", c.Board.Height)
	v.SetDefault("board.color", c.Board.Color)
	v.SetDefault("board.brush_width", c.Board.BrushWidth)
	v.SetDefault("board.tool", c.Board.Tool)
	v.SetDefault("board.scale", c.Board.Scale)
	v.SetDefault("board.ruler_ticks", c.Board.RulerTicks)
	v.SetDefault("board.history_limit", c.Board.HistoryLimit)
	v.SetDefault("board.antialias", c.Board.Antialias)
	v.SetDefault("export.dir", c.Export.Dir)
	v.SetDefault("export.format", c.Export.Format)
	v.SetDefault("notify.desktop", c.Notify.Desktop)
	v.SetDefault("notify.save", c.Notify.Save)
	v.SetDefault("notify.clear", c.Notify.Clear)
	v.SetDefault("notify.undo", c.Notify.Undo)
	v.SetDefault("notify.copy", c.Notify.Copy)
	v.SetDefault("server.addr", c.Server.Addr)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".whiteboard.toml")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	if path := UserConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SavePath is where `config save` writes: the override when given,
// otherwise the per-user file.
func (l *Loader) SavePath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	return UserConfigPath()
}

// UserConfigPath is ~/.config/whiteboard/config.toml.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "whiteboard", "config.toml")
}
