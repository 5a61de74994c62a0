package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Location.Latitude != -23.9608 || cfg.Location.Timezone != "America/Sao_Paulo" {
		t.Errorf("unexpected default location %+v", cfg.Location)
	}
	if cfg.Schedule.ReportCron != "0 0 7 * * *" {
		t.Errorf("unexpected report cron %q", cfg.Schedule.ReportCron)
	}
	if cfg.Scoring.Rain.HighHours != 72 || cfg.Scoring.Rain.LowMM != 2.5 {
		t.Errorf("unexpected rain thresholds %+v", cfg.Scoring.Rain)
	}
	if cfg.Cache.TTL != time.Hour || cfg.Cache.Backend != "memory" {
		t.Errorf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Sources.Tide != SourceTable || cfg.Sources.Wind != SourceOpenWeather {
		t.Errorf("unexpected sources %+v", cfg.Sources)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
location:
  name: Ilhabela
  latitude: -23.78
  longitude: -45.36
sources:
  tide: stormglass
  wind: mock
stormglass:
  api_keys: [a, b]
http:
  timeout: 5s
scoring:
  rain:
    high_hours: 24
telegram:
  bot_token: file-token
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("OPENWEATHER_API_KEYS", "k1, k2 ,")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Location.Name != "Ilhabela" || cfg.Location.Latitude != -23.78 {
		t.Errorf("unexpected location %+v", cfg.Location)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("env should override file, got %q", cfg.Telegram.BotToken)
	}
	if len(cfg.OpenWeather.APIKeys) != 2 || cfg.OpenWeather.APIKeys[1] != "k2" {
		t.Errorf("unexpected openweather keys %v", cfg.OpenWeather.APIKeys)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Scoring.Rain.HighHours != 24 || cfg.Scoring.Rain.HighMM != 20 {
		t.Errorf("partial rain override should keep other defaults, got %+v", cfg.Scoring.Rain)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "location: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load(filepath.Join(t.TempDir(), "none.yaml"))
		cfg.StormGlass.APIKeys = []string{"sg"}
		cfg.OpenWeather.APIKeys = []string{"ow"}
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"latitude", func(c *Config) { c.Location.Latitude = 95 }},
		{"timezone", func(c *Config) { c.Location.Timezone = "Mars/Olympus" }},
		{"tide source", func(c *Config) { c.Sources.Tide = "carrier-pigeon" }},
		{"wind source", func(c *Config) { c.Sources.Wind = SourceTable }},
		{"stormglass keys", func(c *Config) { c.StormGlass.APIKeys = nil }},
		{"openweather keys", func(c *Config) { c.OpenWeather.APIKeys = nil }},
		{"cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"rain hours", func(c *Config) { c.Scoring.Rain.HighHours = -1 }},
	}
	for _, tt := range tests {
		cfg := base()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateTelegram(); err == nil {
		t.Error("expected error without token")
	}
	cfg.Telegram.BotToken = "t"
	cfg.Telegram.ChatID = "42"
	if err := cfg.ValidateTelegram(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_ExampleConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("STORMGLASS_API_KEYS", "sg-key")
	t.Setenv("OPENWEATHER_API_KEYS", "ow-key")

	cfg, err := Load(filepath.Join("..", "..", "configs", "config.example.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("example config should validate with keys set: %v", err)
	}
	if cfg.HTTP.Timeout != 30*time.Second || cfg.Cache.TTL != time.Hour {
		t.Errorf("durations not parsed: timeout=%v ttl=%v", cfg.HTTP.Timeout, cfg.Cache.TTL)
	}
	if cfg.Scoring.Rain.HighHours != 72 || cfg.Scoring.Rain.LowMM != 2.5 {
		t.Errorf("unexpected rain thresholds %+v", cfg.Scoring.Rain)
	}
}
