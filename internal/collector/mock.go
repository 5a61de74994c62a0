package collector

import (
	"context"
	"time"

	"DiveScout/internal/model"
)

// Mock returns controllable fixed data for development and testing. Nil
// fields are replaced by plausible generated values; Err fails every fetch.
type Mock struct {
	Tides []model.TideEvent
	Moon  *model.MoonReading
	Rain  *model.RainSummary
	Wind  *model.WindReading
	Err   error
}

func (m *Mock) Name() string { return "mock" }

// semidiurnal is the mean gap between consecutive tide extremes.
const semidiurnal = 6*time.Hour + 12*time.Minute

func (m *Mock) FetchTides(_ context.Context, from, to time.Time) ([]model.TideEvent, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Tides != nil {
		return m.Tides, nil
	}
	return generateMockTides(from, to), nil
}

func generateMockTides(from, to time.Time) []model.TideEvent {
	start := time.Date(from.Year(), from.Month(), from.Day(), 3, 0, 0, 0, from.Location())
	var events []model.TideEvent
	for i, t := 0, start; !t.After(to); i, t = i+1, t.Add(semidiurnal) {
		h := 0.3
		if i%2 == 1 {
			h = 1.1
		}
		events = append(events, model.TideEvent{Time: t, Height: h})
	}
	return events
}

func (m *Mock) FetchMoon(_ context.Context, at time.Time) (*model.MoonReading, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Moon != nil {
		return m.Moon, nil
	}
	return &model.MoonReading{Phase: model.MoonWaxingCrescent, Illumination: 25, Since: at.Add(-48 * time.Hour), Source: m.Name()}, nil
}

func (m *Mock) FetchRain(_ context.Context, from, to time.Time) (*model.RainSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Rain != nil {
		return m.Rain, nil
	}
	return &model.RainSummary{TotalMM: 1.5, HoursWithRain: 2, From: from, To: to}, nil
}

func (m *Mock) FetchWind(_ context.Context, at time.Time) (*model.WindReading, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Wind != nil {
		return m.Wind, nil
	}
	return &model.WindReading{SpeedMS: 3.5, DirectionDeg: 120, At: at}, nil
}
