package collector

import (
	"context"
	"time"

	"DiveScout/internal/model"
)

// TideSource provides tide extremes in a time range.
type TideSource interface {
	FetchTides(ctx context.Context, from, to time.Time) ([]model.TideEvent, error)
	Name() string
}

// MoonSource provides the lunar phase at an instant.
type MoonSource interface {
	FetchMoon(ctx context.Context, at time.Time) (*model.MoonReading, error)
	Name() string
}

// RainSource provides accumulated precipitation over a time range.
type RainSource interface {
	FetchRain(ctx context.Context, from, to time.Time) (*model.RainSummary, error)
	Name() string
}

// WindSource provides the current wind.
type WindSource interface {
	FetchWind(ctx context.Context, at time.Time) (*model.WindReading, error)
	Name() string
}
