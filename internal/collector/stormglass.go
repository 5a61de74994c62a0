package collector

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"DiveScout/internal/model"
	"DiveScout/internal/scoring"
)

// StormGlass fetches tide extremes, precipitation and astronomy data from
// the StormGlass point API.
type StormGlass struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	// Loc is the site's time zone; astronomy data is requested per local
	// date. Nil means UTC.
	Loc    *time.Location
	client *APIClient
}

// NewStormGlass creates a StormGlass source for one coordinate.
func NewStormGlass(baseURL string, lat, lon float64, client *APIClient) *StormGlass {
	return &StormGlass{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Latitude:  lat,
		Longitude: lon,
		client:    client,
	}
}

func (s *StormGlass) Name() string { return "stormglass" }

func (s *StormGlass) endpoint(path string, params url.Values) string {
	params.Set("lat", strconv.FormatFloat(s.Latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(s.Longitude, 'f', -1, 64))
	return s.BaseURL + path + "?" + params.Encode()
}

type sgExtremes struct {
	Data []struct {
		Time   time.Time `json:"time"`
		Height *float64  `json:"height"`
		Type   string    `json:"type"`
	} `json:"data"`
}

// FetchTides returns the extremes between from and to. The API's high/low
// type is ignored; events are tagged from neighbour heights downstream.
func (s *StormGlass) FetchTides(ctx context.Context, from, to time.Time) ([]model.TideEvent, error) {
	u := s.endpoint("/v2/tide/extremes/point", url.Values{
		"start": {from.UTC().Format(time.RFC3339)},
		"end":   {to.UTC().Format(time.RFC3339)},
	})
	var resp sgExtremes
	if err := s.client.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("stormglass tides: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("stormglass tides: %w: missing data", ErrMalformedResponse)
	}
	events := make([]model.TideEvent, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.Height == nil || d.Time.IsZero() {
			return nil, fmt.Errorf("stormglass tides: %w: extreme without time or height", ErrMalformedResponse)
		}
		events = append(events, model.TideEvent{Time: d.Time, Height: *d.Height})
	}
	return events, nil
}

type sgWeather struct {
	Hours []struct {
		Time          time.Time `json:"time"`
		Precipitation struct {
			SG *float64 `json:"sg"`
		} `json:"precipitation"`
	} `json:"hours"`
}

// FetchRain sums hourly precipitation between from and to, counting the hours
// with any rain.
func (s *StormGlass) FetchRain(ctx context.Context, from, to time.Time) (*model.RainSummary, error) {
	u := s.endpoint("/v2/weather/point", url.Values{
		"params": {"precipitation"},
		"start":  {strconv.FormatInt(from.Unix(), 10)},
		"end":    {strconv.FormatInt(to.Unix(), 10)},
	})
	var resp sgWeather
	if err := s.client.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("stormglass rain: %w", err)
	}
	if len(resp.Hours) == 0 {
		return nil, fmt.Errorf("stormglass rain: %w: no hourly data", ErrMalformedResponse)
	}
	summary := &model.RainSummary{From: from, To: to}
	for _, h := range resp.Hours {
		if h.Precipitation.SG != nil && *h.Precipitation.SG > 0 {
			summary.TotalMM += *h.Precipitation.SG
			summary.HoursWithRain++
		}
	}
	return summary, nil
}

type sgAstronomy struct {
	Data []struct {
		Time      time.Time `json:"time"`
		MoonPhase struct {
			Current struct {
				Text  string   `json:"text"`
				Value *float64 `json:"value"`
			} `json:"current"`
		} `json:"moonPhase"`
		MoonFraction *float64 `json:"moonFraction"`
	} `json:"data"`
}

// FetchMoon returns the lunar phase for the day of at.
func (s *StormGlass) FetchMoon(ctx context.Context, at time.Time) (*model.MoonReading, error) {
	loc := s.Loc
	if loc == nil {
		loc = time.UTC
	}
	day := at.In(loc).Format("2006-01-02")
	u := s.endpoint("/v2/astronomy/point", url.Values{
		"start": {day},
		"end":   {day},
	})
	var resp sgAstronomy
	if err := s.client.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("stormglass moon: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("stormglass moon: %w: no astronomy data", ErrMalformedResponse)
	}
	cur := resp.Data[0].MoonPhase.Current

	reading := &model.MoonReading{Source: s.Name()}
	if phase, ok := scoring.ParsePhaseName(cur.Text); ok {
		reading.Phase = phase
	} else if cur.Value != nil {
		reading.Phase = scoring.PhaseFromFraction(*cur.Value)
	} else {
		return nil, fmt.Errorf("stormglass moon: %w: unknown phase %q", ErrMalformedResponse, cur.Text)
	}

	switch {
	case resp.Data[0].MoonFraction != nil:
		reading.Illumination = int(math.Round(*resp.Data[0].MoonFraction * 100))
	case cur.Value != nil:
		reading.Illumination = scoring.IlluminationFromFraction(*cur.Value)
	default:
		reading.Illumination = scoring.PhaseIllumination(reading.Phase)
	}
	return reading, nil
}
