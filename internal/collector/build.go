package collector

import (
	"fmt"

	"github.com/rs/zerolog"

	"DiveScout/internal/cache"
	"DiveScout/internal/config"
	"DiveScout/internal/metrics"
)

// NewFromConfig builds the sources selected in cfg and a Collector over them.
// StormGlass sources share one API client so key rotation is global.
func NewFromConfig(cfg *config.Config, c cache.Cache, m *metrics.Metrics, logger zerolog.Logger) (*Collector, error) {
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}
	lat, lon := cfg.Location.Latitude, cfg.Location.Longitude

	opts := ClientOptions{
		Timeout:    cfg.HTTP.Timeout,
		MaxRetries: cfg.HTTP.MaxRetries,
		RetryBase:  cfg.HTTP.RetryBase,
		Proxy:      cfg.Proxy,
	}

	var sg *StormGlass
	stormglass := func() *StormGlass {
		if sg == nil {
			o := opts
			o.AuthHeader = "Authorization"
			client := NewAPIClient(cfg.StormGlass.APIKeys, o, logger.With().Str("client", "stormglass").Logger())
			sg = NewStormGlass(cfg.StormGlass.BaseURL, lat, lon, client)
			sg.Loc = loc
		}
		return sg
	}
	mock := &Mock{}

	var src Sources
	switch cfg.Sources.Tide {
	case config.SourceStormGlass:
		src.Tide = stormglass()
	case config.SourceTable:
		src.Tide = NewTideTable(cfg.Tables.TidePath, loc)
	case config.SourceMock:
		src.Tide = mock
	default:
		return nil, fmt.Errorf("unknown tide source %q", cfg.Sources.Tide)
	}

	switch cfg.Sources.Moon {
	case config.SourceStormGlass:
		src.Moon = stormglass()
	case config.SourceTable:
		src.Moon = NewMoonTable(cfg.Tables.MoonPath, loc)
	case config.SourceMock:
		src.Moon = mock
	default:
		return nil, fmt.Errorf("unknown moon source %q", cfg.Sources.Moon)
	}

	switch cfg.Sources.Rain {
	case config.SourceStormGlass:
		src.Rain = stormglass()
	case config.SourceMock:
		src.Rain = mock
	default:
		return nil, fmt.Errorf("unknown rain source %q", cfg.Sources.Rain)
	}

	switch cfg.Sources.Wind {
	case config.SourceOpenWeather:
		o := opts
		o.AuthQuery = "appid"
		client := NewAPIClient(cfg.OpenWeather.APIKeys, o, logger.With().Str("client", "openweather").Logger())
		src.Wind = NewOpenWeather(cfg.OpenWeather.BaseURL, lat, lon, client)
	case config.SourceMock:
		src.Wind = mock
	default:
		return nil, fmt.Errorf("unknown wind source %q", cfg.Sources.Wind)
	}

	col := NewCollector(src, Site{Name: cfg.Location.Name, Latitude: lat, Loc: loc}, c, m, logger)
	if cfg.Cache.TTL > 0 {
		col.TTL = cfg.Cache.TTL
	}
	return col, nil
}
