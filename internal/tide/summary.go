package tide

import (
	"time"

	"DiveScout/internal/model"
)

// Summarize builds the tide picture for now's calendar day in loc from a
// multi-day event sequence. Events are tagged here, once, before anything
// reads Kind, and reported in loc. A nil loc keeps the given locations.
func Summarize(now time.Time, events []model.TideEvent, loc *time.Location) (*model.DailyTideSummary, error) {
	if loc != nil {
		now = now.In(loc)
	}
	tagged := TagEvents(events)
	if loc != nil {
		for i := range tagged {
			tagged[i].Time = tagged[i].Time.In(loc)
		}
	}

	dayEvents, prev, next := EventsForDay(tagged, now)
	class, err := ClassifyDay(dayEvents)
	if err != nil {
		return nil, err
	}

	points := BuildPoints(now, dayEvents, prev, next)
	current, err := InterpolateHeight(MinuteOfDay(now, now), points)
	if err != nil {
		return nil, err
	}
	curve, err := SampleCurve(points, DefaultCurveStep)
	if err != nil {
		return nil, err
	}

	advice := NextEventAdvice(now, tagged, class)

	return &model.DailyTideSummary{
		Date:          startOfDay(now),
		Events:        dayEvents,
		Amplitude:     class.Amplitude,
		Class:         class.Class,
		Score:         class.Score,
		Favorable:     class.Favorable,
		Rationale:     class.Rationale,
		CurrentHeight: current,
		Next:          advice.Next,
		Advice:        advice,
		Curve:         curve,
	}, nil
}
