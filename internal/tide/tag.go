package tide

import (
	"sort"
	"time"

	"DiveScout/internal/model"
)

// TagEvents returns a chronologically sorted copy of events with Kind set.
// An event higher than its predecessor is a high tide, otherwise a low tide.
// The first event has no predecessor and is compared with its successor
// instead; a lone event stays untagged.
func TagEvents(events []model.TideEvent) []model.TideEvent {
	tagged := make([]model.TideEvent, len(events))
	copy(tagged, events)
	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].Time.Before(tagged[j].Time) })

	for i := range tagged {
		switch {
		case i > 0:
			tagged[i].Kind = kindAgainst(tagged[i].Height, tagged[i-1].Height)
		case len(tagged) > 1:
			if tagged[0].Height > tagged[1].Height {
				tagged[0].Kind = model.TideHigh
			} else {
				tagged[0].Kind = model.TideLow
			}
		default:
			tagged[0].Kind = model.TideUnknown
		}
	}
	return tagged
}

func kindAgainst(height, previous float64) model.TideKind {
	if height > previous {
		return model.TideHigh
	}
	return model.TideLow
}

// EventsForDay selects the events falling on day's local calendar date from a
// chronological sequence, plus the closest event before and after that day.
func EventsForDay(events []model.TideEvent, day time.Time) (dayEvents []model.TideEvent, prev, next *model.TideEvent) {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)

	for i := range events {
		t := events[i].Time
		switch {
		case t.Before(start):
			prev = &events[i]
		case t.Before(end):
			dayEvents = append(dayEvents, events[i])
		default:
			if next == nil {
				next = &events[i]
			}
		}
	}
	return dayEvents, prev, next
}
