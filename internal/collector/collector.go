// Package collector fetches the raw inputs of an evaluation (tides, moon,
// rain and wind) from the configured sources.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"DiveScout/internal/cache"
	"DiveScout/internal/metrics"
	"DiveScout/internal/model"
)

// DefaultRainWindow is how far back precipitation is accumulated.
const DefaultRainWindow = 72 * time.Hour

// Sources groups one source per factor. A nil source marks its factor
// as unavailable on every collection.
type Sources struct {
	Tide TideSource
	Moon MoonSource
	Rain RainSource
	Wind WindSource
}

// Site is the dive site the data is collected for.
type Site struct {
	Name     string
	Latitude float64
	Loc      *time.Location
}

// Collector orchestrates concurrent, cached source fetches.
type Collector struct {
	Sources    Sources
	Site       Site
	Cache      cache.Cache
	TTL        time.Duration
	RainWindow time.Duration
	Metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewCollector creates a new Collector. c and m may be nil.
func NewCollector(src Sources, site Site, c cache.Cache, m *metrics.Metrics, logger zerolog.Logger) *Collector {
	if site.Loc == nil {
		site.Loc = time.UTC
	}
	return &Collector{
		Sources:    src,
		Site:       site,
		Cache:      c,
		TTL:        cache.DefaultTTL,
		RainWindow: DefaultRainWindow,
		Metrics:    m,
		logger:     logger,
	}
}

// TideWindow is the span fetched for tides: the local day of now plus its
// neighbours, so the curve can be anchored across midnight.
func (c *Collector) TideWindow(now time.Time) (from, to time.Time) {
	local := now.In(c.Site.Loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.Site.Loc)
	return day.AddDate(0, 0, -1), day.AddDate(0, 0, 2)
}

// Collect fetches every factor concurrently. Failures never abort the cycle;
// they are recorded in Conditions.Errors. The error return is only set when
// ctx ends before the fetches complete.
func (c *Collector) Collect(ctx context.Context, now time.Time) (*model.Conditions, error) {
	cond := &model.Conditions{
		At:       now,
		Location: c.Site.Name,
		Latitude: c.Site.Latitude,
		Errors:   make(map[model.FactorName]error),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	fail := func(factor model.FactorName, err error) {
		mu.Lock()
		cond.Errors[factor] = err
		mu.Unlock()
	}
	run := func(factor model.FactorName, source string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := fetch()
			c.Metrics.ObserveFetch(factor, time.Since(start).Seconds())
			if err == nil {
				return
			}
			c.Metrics.SourceFailed(factor)
			c.logger.Warn().Err(err).Str("factor", string(factor)).Str("source", source).Msg("source fetch failed")
			fail(factor, err)
		}()
	}

	hour := now.In(c.Site.Loc).Format("2006-01-02T15")

	if src := c.Sources.Tide; src != nil {
		from, to := c.TideWindow(now)
		run(model.FactorTide, src.Name(), func() (err error) {
			key := fmt.Sprintf("tides:%s:%s", src.Name(), from.Format("2006-01-02"))
			cond.Tides, err = cachedFetch(ctx, c, key, func() ([]model.TideEvent, error) {
				return src.FetchTides(ctx, from, to)
			})
			return err
		})
	} else {
		fail(model.FactorTide, fmt.Errorf("no tide source configured"))
	}

	if src := c.Sources.Moon; src != nil {
		run(model.FactorMoon, src.Name(), func() (err error) {
			key := fmt.Sprintf("moon:%s:%s", src.Name(), hour)
			cond.Moon, err = cachedFetch(ctx, c, key, func() (*model.MoonReading, error) {
				return src.FetchMoon(ctx, now)
			})
			return err
		})
	} else {
		fail(model.FactorMoon, fmt.Errorf("no moon source configured"))
	}

	if src := c.Sources.Rain; src != nil {
		run(model.FactorRain, src.Name(), func() (err error) {
			key := fmt.Sprintf("rain:%s:%s", src.Name(), hour)
			cond.Rain, err = cachedFetch(ctx, c, key, func() (*model.RainSummary, error) {
				return src.FetchRain(ctx, now.Add(-c.RainWindow), now)
			})
			return err
		})
	} else {
		fail(model.FactorRain, fmt.Errorf("no rain source configured"))
	}

	if src := c.Sources.Wind; src != nil {
		run(model.FactorWind, src.Name(), func() (err error) {
			key := fmt.Sprintf("wind:%s:%s", src.Name(), hour)
			cond.Wind, err = cachedFetch(ctx, c, key, func() (*model.WindReading, error) {
				return src.FetchWind(ctx, now)
			})
			return err
		})
	} else {
		fail(model.FactorWind, fmt.Errorf("no wind source configured"))
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return cond, fmt.Errorf("collect: %w", err)
	}
	if len(cond.Errors) == 0 {
		cond.Errors = nil
	}
	c.logger.Debug().Int("tides", len(cond.Tides)).Int("failures", len(cond.Errors)).Msg("collection finished")
	return cond, nil
}

// cachedFetch serves key from the cache when present, otherwise calls fetch
// and stores a successful result. Cache failures only cost a refetch.
func cachedFetch[T any](ctx context.Context, c *Collector, key string, fetch func() (T, error)) (T, error) {
	if c.Cache != nil {
		var cached T
		ok, err := c.Cache.Get(ctx, key, &cached)
		if err != nil {
			c.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}
	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, v, c.TTL); err != nil {
			c.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}
