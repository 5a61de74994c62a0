package tide

import (
	"errors"
	"fmt"

	"DiveScout/internal/model"
)

var (
	// ErrInvalidInput marks a contract violation by the caller.
	ErrInvalidInput = errors.New("tide: invalid input")
	// ErrNoTideData means the requested day has no tide extrema.
	ErrNoTideData = errors.New("tide: no tide data for the day")
)

// Classification is the amplitude-based grading of one day.
type Classification struct {
	Amplitude float64
	Class     model.TideClass
	Score     float64
	Favorable bool
	Rationale string
}

// amplitudeBands are evaluated in order; the first band whose limit exceeds the
// amplitude wins.
var amplitudeBands = []struct {
	Below     float64
	Class     model.TideClass
	Score     float64
	Rationale string
}{
	{0.6, model.DeadTide, 3, "Ideal visibility, minimal water movement."},
	{0.9, model.LowIntermediate, 2, "Favorable conditions with moderate current."},
	{1.2, model.Intermediate, 1, "Moderate variation, currents possible."},
}

var wideVariation = struct {
	Class     model.TideClass
	Score     float64
	Rationale string
}{model.WideVariation, 0, "Large volume of moving water, reduced visibility and strong currents."}

// ClassifyDay grades a day's extrema by amplitude (max - min height).
func ClassifyDay(events []model.TideEvent) (Classification, error) {
	if len(events) == 0 {
		return Classification{}, ErrNoTideData
	}
	lo, hi := events[0].Height, events[0].Height
	for _, e := range events[1:] {
		if e.Height < lo {
			lo = e.Height
		}
		if e.Height > hi {
			hi = e.Height
		}
	}
	return ClassifyAmplitude(hi - lo)
}

// ClassifyAmplitude grades a precomputed amplitude in meters.
func ClassifyAmplitude(amplitude float64) (Classification, error) {
	if amplitude < 0 {
		return Classification{}, fmt.Errorf("%w: negative amplitude %.3f", ErrInvalidInput, amplitude)
	}
	c := Classification{
		Amplitude: amplitude,
		Class:     wideVariation.Class,
		Score:     wideVariation.Score,
		Rationale: wideVariation.Rationale,
	}
	for _, b := range amplitudeBands {
		if amplitude < b.Below {
			c.Class, c.Score, c.Rationale = b.Class, b.Score, b.Rationale
			break
		}
	}
	c.Favorable = c.Score >= 2
	return c, nil
}
