package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Geolocation modes for the server-side fallback resolver
const (
	GeolocationIP     = "ip"
	GeolocationStatic = "static"
	GeolocationNone   = "none"
)

// Config is the full application configuration
type Config struct {
	Server      ServerConfig      `toml:"server"`
	OpenWeather OpenWeatherConfig `toml:"openweather"`
	Geolocation GeolocationConfig `toml:"geolocation"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
}

type ServerConfig struct {
	Port string `toml:"port"`
	Env  string `toml:"env"` // development or production
}

type OpenWeatherConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"` // current weather endpoint
	IconURL string `toml:"icon_url"` // prefix for <icon>@2x.png
}

type GeolocationConfig struct {
	Mode      string  `toml:"mode"` // ip, static or none
	URL       string  `toml:"url"`  // ip-api compatible endpoint
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
}

type StorageConfig struct {
	DatabaseURL string `toml:"database_url"` // PostgreSQL; wins over sqlite_path
	SQLitePath  string `toml:"sqlite_path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		OpenWeather: OpenWeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5/weather",
			IconURL: "http://openweathermap.org/img/wn",
		},
		Geolocation: GeolocationConfig{
			Mode: GeolocationIP,
			URL:  "http://ip-api.com/json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file and the
// environment, in that order. An empty path falls back to config.toml when it
// exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("config.toml"); err == nil {
			path = "config.toml"
		}
	}
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Env, "GO_ENV")
	setString(&c.OpenWeather.APIKey, "OPENWEATHER_API_KEY")
	setString(&c.OpenWeather.BaseURL, "OPENWEATHER_BASE_URL")
	setString(&c.OpenWeather.IconURL, "OPENWEATHER_ICON_URL")
	setString(&c.Geolocation.Mode, "GEOLOCATION_MODE")
	setString(&c.Geolocation.URL, "GEOLOCATION_URL")
	setString(&c.Storage.DatabaseURL, "DATABASE_URL")
	setString(&c.Storage.SQLitePath, "SQLITE_PATH")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")

	if err := setFloat(&c.Geolocation.Latitude, "STATIC_LAT"); err != nil {
		return err
	}
	return setFloat(&c.Geolocation.Longitude, "STATIC_LON")
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if c.OpenWeather.APIKey == "" {
		return fmt.Errorf("openweather api key is required (OPENWEATHER_API_KEY)")
	}
	if c.OpenWeather.BaseURL == "" {
		return fmt.Errorf("openweather base url must not be empty")
	}

	switch c.Geolocation.Mode {
	case GeolocationIP:
		if c.Geolocation.URL == "" {
			return fmt.Errorf("geolocation url is required in %q mode", GeolocationIP)
		}
	case GeolocationStatic:
		lat, lon := c.Geolocation.Latitude, c.Geolocation.Longitude
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return fmt.Errorf("static coordinates out of range: %v,%v", lat, lon)
		}
	case GeolocationNone:
	default:
		return fmt.Errorf("unknown geolocation mode %q", c.Geolocation.Mode)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	return nil
}

// IsProduction reports whether GO_ENV selects production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogFormat returns the configured log format, or json in production and
// console everywhere else
func (c *Config) LogFormat() string {
	if c.Logging.Format != "" {
		return c.Logging.Format
	}
	if c.IsProduction() {
		return "json"
	}
	return "console"
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setFloat(dst *float64, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}
