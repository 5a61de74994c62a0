package collector

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"DiveScout/internal/model"
)

// OpenWeather fetches current wind from the OpenWeather current weather API.
type OpenWeather struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	client    *APIClient
}

// NewOpenWeather creates a wind source for one coordinate. The client must
// send its key as the appid query parameter.
func NewOpenWeather(baseURL string, lat, lon float64, client *APIClient) *OpenWeather {
	return &OpenWeather{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Latitude:  lat,
		Longitude: lon,
		client:    client,
	}
}

func (o *OpenWeather) Name() string { return "openweather" }

type owWeather struct {
	Dt   int64 `json:"dt"`
	Wind *struct {
		Speed *float64 `json:"speed"`
		Deg   float64  `json:"deg"`
	} `json:"wind"`
}

// FetchWind returns the current wind speed in m/s and direction in degrees.
func (o *OpenWeather) FetchWind(ctx context.Context, at time.Time) (*model.WindReading, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(o.Latitude, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(o.Longitude, 'f', -1, 64)},
		"units": {"metric"},
	}
	u := o.BaseURL + "/data/2.5/weather?" + params.Encode()

	var resp owWeather
	if err := o.client.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("openweather wind: %w", err)
	}
	if resp.Wind == nil || resp.Wind.Speed == nil {
		return nil, fmt.Errorf("openweather wind: %w: missing wind speed", ErrMalformedResponse)
	}
	reading := &model.WindReading{
		SpeedMS:      *resp.Wind.Speed,
		DirectionDeg: resp.Wind.Deg,
		At:           at,
	}
	if resp.Dt > 0 {
		reading.At = time.Unix(resp.Dt, 0).In(at.Location())
	}
	return reading, nil
}
