package tide

import (
	"fmt"
	"time"

	"DiveScout/internal/model"
)

// slackWindow is how close to an extremum the water is considered near slack.
const slackWindow = 90 * time.Minute

// NextEventAdvice finds the first event strictly after now in a tagged,
// chronological sequence and turns it into a dive recommendation for a day
// graded as class.
func NextEventAdvice(now time.Time, events []model.TideEvent, class Classification) model.TideAdvice {
	idx := -1
	for i := range events {
		if events[i].Time.After(now) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.TideAdvice{
			Condition:   model.ConditionUnknown,
			Description: "No upcoming tide event in the available data.",
		}
	}

	next := events[idx]
	kind := next.Kind
	if kind == model.TideUnknown && idx > 0 {
		kind = kindAgainst(next.Height, events[idx-1].Height)
	}
	remaining := next.Time.Sub(now)
	minutes := int(remaining / time.Minute)
	left := FormatRemaining(remaining)
	label := kindLabel(kind)

	advice := model.TideAdvice{
		Next:          &next,
		NextKind:      kind,
		State:         stateTowards(kind),
		MinutesToNext: minutes,
	}

	switch {
	case class.Class == model.DeadTide:
		advice.Condition = model.ConditionIdeal
		advice.Description = fmt.Sprintf("Dead tide (amplitude %.2fm). Little water movement, ideal for visibility. Next %s in %s.",
			class.Amplitude, label, left)
	case kind == model.TideLow && remaining < slackWindow:
		advice.Condition = model.ConditionIdeal
		advice.Description = fmt.Sprintf("Close to low-tide slack (in %s, amplitude %.2fm). Ideal for visibility.",
			left, class.Amplitude)
	case kind == model.TideHigh && remaining < slackWindow:
		advice.Condition = model.ConditionGood
		advice.Description = fmt.Sprintf("Close to high tide (in %s, amplitude %.2fm). Good for depth at some spots.",
			left, class.Amplitude)
	default:
		advice.Condition = conditionForScore(class.Score)
		advice.Description = fmt.Sprintf("Next %s in %s (amplitude %.2fm). Tide moving, currents possible.",
			label, left, class.Amplitude)
	}
	return advice
}

// stateTowards derives the water's direction from the next extremum: water
// rises towards a high tide and falls towards a low one.
func stateTowards(next model.TideKind) model.TideState {
	switch next {
	case model.TideHigh:
		return model.TideRising
	case model.TideLow:
		return model.TideFalling
	default:
		return model.TideStateUnknown
	}
}

func conditionForScore(score float64) model.DiveCondition {
	switch {
	case score >= 2:
		return model.ConditionGood
	case score == 1:
		return model.ConditionReasonable
	default:
		return model.ConditionPoor
	}
}

func kindLabel(k model.TideKind) string {
	switch k {
	case model.TideHigh:
		return "high tide"
	case model.TideLow:
		return "low tide"
	default:
		return "tide event"
	}
}

// FormatRemaining renders a duration as "<H>h <M>m", or "<M>m" under an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	h, m := total/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
