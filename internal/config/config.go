package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"DiveScout/internal/scoring"
)

// Source names accepted in the sources section.
const (
	SourceStormGlass  = "stormglass"
	SourceOpenWeather = "openweather"
	SourceTable       = "table"
	SourceMock        = "mock"
)

// Config holds all application configuration.
type Config struct {
	Location struct {
		Name      string  `yaml:"name"`
		Latitude  float64 `yaml:"latitude"`
		Longitude float64 `yaml:"longitude"`
		Timezone  string  `yaml:"timezone"`
	} `yaml:"location"`
	Sources struct {
		Tide string `yaml:"tide"`
		Moon string `yaml:"moon"`
		Rain string `yaml:"rain"`
		Wind string `yaml:"wind"`
	} `yaml:"sources"`
	StormGlass struct {
		BaseURL string   `yaml:"base_url"`
		APIKeys []string `yaml:"api_keys"`
	} `yaml:"stormglass"`
	OpenWeather struct {
		BaseURL string   `yaml:"base_url"`
		APIKeys []string `yaml:"api_keys"`
	} `yaml:"openweather"`
	Tables struct {
		TidePath string `yaml:"tide_path"`
		MoonPath string `yaml:"moon_path"`
	} `yaml:"tables"`
	HTTP struct {
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
		RetryBase  time.Duration `yaml:"retry_base"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		ReportCron  string `yaml:"report_cron"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Cache struct {
		Backend        string        `yaml:"backend"`
		TTL            time.Duration `yaml:"ttl"`
		RedisAddr      string        `yaml:"redis_addr"`
		RedisPassword  string        `yaml:"redis_password"`
		RedisDB        int           `yaml:"redis_db"`
		DisableOnError bool          `yaml:"disable_on_error"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Scoring struct {
		Rain scoring.RainThresholds `yaml:"rain"`
	} `yaml:"scoring"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("STORMGLASS_API_KEYS"); v != "" {
		c.StormGlass.APIKeys = splitList(v)
	}
	if v := os.Getenv("OPENWEATHER_API_KEYS"); v != "" {
		c.OpenWeather.APIKeys = splitList(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = "redis"
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		c.Schedule.ReportCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("RAIN_HIGH_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scoring.Rain.HighHours = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Location.Name == "" {
		c.Location.Name = "Santos, SP"
		if c.Location.Latitude == 0 && c.Location.Longitude == 0 {
			c.Location.Latitude = -23.9608
			c.Location.Longitude = -46.3336
		}
	}
	if c.Location.Timezone == "" {
		c.Location.Timezone = "America/Sao_Paulo"
	}
	if c.Sources.Tide == "" {
		c.Sources.Tide = SourceTable
	}
	if c.Sources.Moon == "" {
		c.Sources.Moon = SourceTable
	}
	if c.Sources.Rain == "" {
		c.Sources.Rain = SourceStormGlass
	}
	if c.Sources.Wind == "" {
		c.Sources.Wind = SourceOpenWeather
	}
	if c.StormGlass.BaseURL == "" {
		c.StormGlass.BaseURL = "https://api.stormglass.io"
	}
	if c.OpenWeather.BaseURL == "" {
		c.OpenWeather.BaseURL = "https://api.openweathermap.org"
	}
	if c.Tables.TidePath == "" {
		c.Tables.TidePath = "data/tide_table.json"
	}
	if c.Tables.MoonPath == "" {
		c.Tables.MoonPath = "data/moon_phases.json"
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.MaxRetries == 0 {
		c.HTTP.MaxRetries = 3
	}
	if c.HTTP.RetryBase == 0 {
		c.HTTP.RetryBase = time.Second
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 0 7 * * *"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 0 * * * *"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/divescout.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	def, r := scoring.DefaultRainThresholds(), &c.Scoring.Rain
	if r.HighMM == 0 {
		r.HighMM = def.HighMM
	}
	if r.HighHours == 0 {
		r.HighHours = def.HighHours
	}
	if r.MediumMM == 0 {
		r.MediumMM = def.MediumMM
	}
	if r.MediumHours == 0 {
		r.MediumHours = def.MediumHours
	}
	if r.LowMM == 0 {
		r.LowMM = def.LowMM
	}
	if r.LowHours == 0 {
		r.LowHours = def.LowHours
	}
}

// TimeLocation returns the dive site's time zone.
func (c *Config) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Location.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Location.Timezone, err)
	}
	return loc, nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate checks that the configuration can drive an evaluation.
func (c *Config) Validate() error {
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return fmt.Errorf("location.latitude out of range: %v", c.Location.Latitude)
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return fmt.Errorf("location.longitude out of range: %v", c.Location.Longitude)
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	if !oneOf(c.Sources.Tide, SourceStormGlass, SourceTable, SourceMock) {
		return fmt.Errorf("sources.tide: unknown source %q", c.Sources.Tide)
	}
	if !oneOf(c.Sources.Moon, SourceStormGlass, SourceTable, SourceMock) {
		return fmt.Errorf("sources.moon: unknown source %q", c.Sources.Moon)
	}
	if !oneOf(c.Sources.Rain, SourceStormGlass, SourceMock) {
		return fmt.Errorf("sources.rain: unknown source %q", c.Sources.Rain)
	}
	if !oneOf(c.Sources.Wind, SourceOpenWeather, SourceMock) {
		return fmt.Errorf("sources.wind: unknown source %q", c.Sources.Wind)
	}
	usesStormGlass := c.Sources.Tide == SourceStormGlass || c.Sources.Moon == SourceStormGlass || c.Sources.Rain == SourceStormGlass
	if usesStormGlass && len(c.StormGlass.APIKeys) == 0 {
		return fmt.Errorf("stormglass.api_keys is required by the selected sources")
	}
	if c.Sources.Wind == SourceOpenWeather && len(c.OpenWeather.APIKeys) == 0 {
		return fmt.Errorf("openweather.api_keys is required by the selected sources")
	}
	if !oneOf(c.Cache.Backend, "memory", "redis") {
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Scoring.Rain.HighHours <= 0 {
		return fmt.Errorf("scoring.rain.high_hours must be positive")
	}
	return nil
}

// ValidateTelegram checks the settings needed to push reports.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
