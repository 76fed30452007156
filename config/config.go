package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/olablt/poemap/tiles"
)

// Config holds all application configuration.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Window WindowConfig `mapstructure:"window"`
	Map    MapConfig    `mapstructure:"map"`
	Tiles  TilesConfig  `mapstructure:"tiles"`
	Log    LogConfig    `mapstructure:"log"`
}

type DataConfig struct {
	// Source is a file path or an http(s) URL.
	Source string `mapstructure:"source"`
}

type WindowConfig struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

type MapConfig struct {
	MinZoom     float64       `mapstructure:"min_zoom"`
	MaxZoom     float64       `mapstructure:"max_zoom"`
	LabelZoom   float64       `mapstructure:"label_zoom"`
	FlyDuration time.Duration `mapstructure:"fly_duration"`
	NarrowWidth float64       `mapstructure:"narrow_width"`
}

type TilesConfig struct {
	LightURL    string        `mapstructure:"light_url"`
	DarkURL     string        `mapstructure:"dark_url"`
	Subdomains  []string      `mapstructure:"subdomains"`
	UserAgent   string        `mapstructure:"user_agent"`
	Workers     int           `mapstructure:"workers"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// Attribution is drawn in the bottom-right corner of the map.
	Attribution string        `mapstructure:"attribution"`
	RetryAfter  time.Duration `mapstructure:"retry_after"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, an optional config file and
// environment variables (POEMAP_MAP_LABEL_ZOOM → map.label_zoom).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment as is")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("data.source", "poems.json")
	v.SetDefault("window.title", "Poetry Map")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("map.min_zoom", 2)
	v.SetDefault("map.max_zoom", 19)
	v.SetDefault("map.label_zoom", 13)
	v.SetDefault("map.fly_duration", "1.5s")
	v.SetDefault("map.narrow_width", 1000)
	v.SetDefault("tiles.light_url", tiles.CartoLightURL)
	v.SetDefault("tiles.dark_url", tiles.CartoDarkURL)
	v.SetDefault("tiles.subdomains", tiles.DefaultSubdomains)
	v.SetDefault("tiles.user_agent", tiles.DefaultUserAgent)
	v.SetDefault("tiles.workers", 4)
	v.SetDefault("tiles.timeout", "20s")
	v.SetDefault("tiles.attribution", tiles.CartoAttribution)
	v.SetDefault("tiles.retry_after", tiles.DefaultRetryAfter)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("POEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Data.Source == "" {
		errs = append(errs, "data.source is required")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Sprintf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Map.MinZoom < 0 || c.Map.MaxZoom > 22 || c.Map.MinZoom > c.Map.MaxZoom {
		errs = append(errs, fmt.Sprintf("map zoom range %g..%g is invalid", c.Map.MinZoom, c.Map.MaxZoom))
	}
	if c.Map.FlyDuration < 0 {
		errs = append(errs, "map.fly_duration must not be negative")
	}
	if c.Tiles.LightURL == "" || c.Tiles.DarkURL == "" {
		errs = append(errs, "tiles.light_url and tiles.dark_url are required")
	}
	if c.Tiles.Workers <= 0 {
		errs = append(errs, "tiles.workers must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
