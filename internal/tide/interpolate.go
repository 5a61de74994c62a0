package tide

import (
	"fmt"
	"math"
	"time"

	"DiveScout/internal/model"
)

// boundaryPadMinutes is how far a synthetic anchor is placed from the nearest
// known extremum when the neighbouring day has no data.
const boundaryPadMinutes = 360

// MinutesPerDay is the sampled span of a tide curve.
const MinutesPerDay = 1440

// DefaultCurveStep is the sampling interval of a chart curve, in minutes.
const DefaultCurveStep = 10

// InterpolateHeight returns the cosine-interpolated height at minute, given
// points sorted by offset. Minutes outside the covered range use the first or
// last pair. Fewer than two points is a caller error.
func InterpolateHeight(minute float64, points []model.InterpolationPoint) (float64, error) {
	if len(points) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 interpolation points, got %d", ErrInvalidInput, len(points))
	}

	p1, p2 := points[0], points[1]
	if minute > points[len(points)-1].OffsetMinutes {
		p1, p2 = points[len(points)-2], points[len(points)-1]
	} else {
		for i := 0; i < len(points)-1; i++ {
			if minute >= points[i].OffsetMinutes && minute <= points[i+1].OffsetMinutes {
				p1, p2 = points[i], points[i+1]
				break
			}
		}
	}
	return cosine(minute, p1, p2), nil
}

func cosine(t float64, p1, p2 model.InterpolationPoint) float64 {
	span := p2.OffsetMinutes - p1.OffsetMinutes
	if span == 0 {
		return p1.Height
	}
	mu := (t - p1.OffsetMinutes) / span
	mu2 := (1 - math.Cos(mu*math.Pi)) / 2
	return p1.Height*(1-mu2) + p2.Height*mu2
}

// MinuteOfDay returns the minutes elapsed between midnight of day and t.
func MinuteOfDay(t, day time.Time) float64 {
	return t.Sub(startOfDay(day)).Minutes()
}

// BuildPoints converts one day's events into interpolation points, anchored by
// the neighbouring-day events when known or by a synthetic point six hours
// beyond the first/last event otherwise.
func BuildPoints(day time.Time, dayEvents []model.TideEvent, prev, next *model.TideEvent) []model.InterpolationPoint {
	if len(dayEvents) == 0 {
		return nil
	}
	points := make([]model.InterpolationPoint, 0, len(dayEvents)+2)

	first := dayEvents[0]
	if prev != nil {
		points = append(points, model.InterpolationPoint{OffsetMinutes: MinuteOfDay(prev.Time, day), Height: prev.Height})
	} else {
		points = append(points, model.InterpolationPoint{OffsetMinutes: MinuteOfDay(first.Time, day) - boundaryPadMinutes, Height: first.Height})
	}

	for _, e := range dayEvents {
		points = append(points, model.InterpolationPoint{OffsetMinutes: MinuteOfDay(e.Time, day), Height: e.Height})
	}

	last := dayEvents[len(dayEvents)-1]
	if next != nil {
		points = append(points, model.InterpolationPoint{OffsetMinutes: MinuteOfDay(next.Time, day), Height: next.Height})
	} else {
		points = append(points, model.InterpolationPoint{OffsetMinutes: MinuteOfDay(last.Time, day) + boundaryPadMinutes, Height: last.Height})
	}
	return points
}

// SampleCurve samples the interpolated curve from 0 to 1440 minutes inclusive.
func SampleCurve(points []model.InterpolationPoint, step int) ([]model.CurvePoint, error) {
	if step <= 0 {
		step = DefaultCurveStep
	}
	curve := make([]model.CurvePoint, 0, MinutesPerDay/step+1)
	for m := 0; m <= MinutesPerDay; m += step {
		h, err := InterpolateHeight(float64(m), points)
		if err != nil {
			return nil, err
		}
		curve = append(curve, model.CurvePoint{Minute: m, Height: h})
	}
	return curve, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
