// Package config loads settings from an optional YAML file, SHAPEBOARD_*
// environment variables and built-in defaults, in that precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	KeyStoreBackend = "store.backend"
	KeyStorePath    = "store.path"
	KeyStoreKey     = "store.key"
	KeyStroke       = "style.stroke"
	KeyFill         = "style.fill"
	KeyLineWidth    = "style.line_width"
	KeyLogLevel     = "log.level"
	KeyWindowWidth  = "window.width"
	KeyWindowHeight = "window.height"

	EnvPrefix = "SHAPEBOARD"
)

// Storage backends.
const (
	BackendPreferences = "preferences"
	BackendSQLite      = "sqlite"
	BackendMemory      = "memory"
)

var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrMissingPath    = errors.New("sqlite backend needs store.path")
	ErrBadLineWidth   = errors.New("style.line_width must be positive")
	ErrBadWindow      = errors.New("window size must be positive")
)

type Config struct {
	Store  StoreConfig
	Style  StyleConfig
	Log    LogConfig
	Window WindowConfig
}

type StoreConfig struct {
	Backend string
	Path    string
	Key     string
}

type StyleConfig struct {
	Stroke    string
	Fill      string
	LineWidth float64
}

type LogConfig struct {
	Level string
}

type WindowConfig struct {
	Width  float32
	Height float32
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStoreBackend, BackendPreferences)
	v.SetDefault(KeyStorePath, "shapeboard.db")
	v.SetDefault(KeyStoreKey, "drawState")
	v.SetDefault(KeyStroke, "#000000")
	v.SetDefault(KeyFill, "#ffffff")
	v.SetDefault(KeyLineWidth, 2.0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyWindowWidth, 1000)
	v.SetDefault(KeyWindowHeight, 700)
}

// Load reads the file at path if given, or config.yaml in the working
// directory otherwise. A missing default file is not an error; a missing
// explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Store: StoreConfig{
			Backend: strings.ToLower(v.GetString(KeyStoreBackend)),
			Path:    v.GetString(KeyStorePath),
			Key:     v.GetString(KeyStoreKey),
		},
		Style: StyleConfig{
			Stroke:    v.GetString(KeyStroke),
			Fill:      v.GetString(KeyFill),
			LineWidth: v.GetFloat64(KeyLineWidth),
		},
		Log: LogConfig{Level: v.GetString(KeyLogLevel)},
		Window: WindowConfig{
			Width:  float32(v.GetFloat64(KeyWindowWidth)),
			Height: float32(v.GetFloat64(KeyWindowHeight)),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendPreferences, BackendMemory:
	case BackendSQLite:
		if c.Store.Path == "" {
			return ErrMissingPath
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Store.Backend)
	}
	if !(c.Style.LineWidth > 0) {
		return ErrBadLineWidth
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return ErrBadWindow
	}
	return nil
}
