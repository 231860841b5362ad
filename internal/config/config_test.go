package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "env-key")
	t.Setenv("PORT", "9090")
	t.Setenv("STATIC_LAT", "51.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OpenWeather.APIKey != "env-key" {
		t.Errorf("expected api key from env, got %q", cfg.OpenWeather.APIKey)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Geolocation.Latitude != 51.5 {
		t.Errorf("expected latitude 51.5, got %v", cfg.Geolocation.Latitude)
	}
	if cfg.OpenWeather.BaseURL != "https://api.openweathermap.org/data/2.5/weather" {
		t.Errorf("unexpected default base url %q", cfg.OpenWeather.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weather.toml")
	content := `
[openweather]
api_key = "file-key"

[geolocation]
mode = "static"
latitude = 43.2389
longitude = 76.8897

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OpenWeather.APIKey != "file-key" {
		t.Errorf("expected api key from file, got %q", cfg.OpenWeather.APIKey)
	}
	if cfg.Geolocation.Mode != GeolocationStatic || cfg.Geolocation.Longitude != 76.8897 {
		t.Errorf("unexpected geolocation config %+v", cfg.Geolocation)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env to override log level, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port to survive, got %q", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadBadFloat(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STATIC_LON", "east")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unparsable STATIC_LON")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.OpenWeather.APIKey = "k"
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.OpenWeather.APIKey = "" }},
		{"unknown mode", func(c *Config) { c.Geolocation.Mode = "gps" }},
		{"static out of range", func(c *Config) {
			c.Geolocation.Mode = GeolocationStatic
			c.Geolocation.Latitude = 91
		}},
		{"ip without url", func(c *Config) { c.Geolocation.URL = "" }},
		{"empty port", func(c *Config) { c.Server.Port = "" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("baseline config should be valid: %v", err)
	}
	for _, tc := range cases {
		cfg := valid()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}

	none := valid()
	none.Geolocation.Mode = GeolocationNone
	if err := none.Validate(); err != nil {
		t.Errorf("none mode should be valid: %v", err)
	}
}

func TestLogFormat(t *testing.T) {
	cases := []struct {
		env, format, want string
	}{
		{"development", "", "console"},
		{"production", "", "json"},
		{"production", "console", "console"},
		{"development", "json", "json"},
	}

	for _, tc := range cases {
		cfg := Default()
		cfg.Server.Env = tc.env
		cfg.Logging.Format = tc.format
		if got := cfg.LogFormat(); got != tc.want {
			t.Errorf("env=%s format=%q: expected %s, got %s", tc.env, tc.format, tc.want, got)
		}
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
