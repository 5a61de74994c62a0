package model

import "time"

// TideKind says whether an extremum is a high or a low tide.
type TideKind string

const (
	TideUnknown TideKind = ""
	TideHigh    TideKind = "HIGH"
	TideLow     TideKind = "LOW"
)

// TideEvent is a single tide extremum. Sources leave Kind empty; it is set by
// tide.TagEvents from neighbour heights.
type TideEvent struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"` // meters
	Kind   TideKind  `json:"kind,omitempty"`
}

// InterpolationPoint is a known height at an offset from local midnight.
// Offsets may be negative or exceed 1440 for neighbouring-day anchors.
type InterpolationPoint struct {
	OffsetMinutes float64
	Height        float64
}

// TideClass buckets a day by its tidal amplitude.
type TideClass string

const (
	DeadTide        TideClass = "DEAD_TIDE"
	LowIntermediate TideClass = "LOW_INTERMEDIATE"
	Intermediate    TideClass = "INTERMEDIATE"
	WideVariation   TideClass = "WIDE_VARIATION"
)

// Label returns a display name for the class.
func (c TideClass) Label() string {
	switch c {
	case DeadTide:
		return "Dead tide"
	case LowIntermediate:
		return "Low intermediate"
	case Intermediate:
		return "Intermediate"
	case WideVariation:
		return "Wide variation"
	default:
		return "Unknown"
	}
}

// DiveCondition is the tide-only recommendation for the next hours.
type DiveCondition string

const (
	ConditionIdeal      DiveCondition = "IDEAL"
	ConditionGood       DiveCondition = "GOOD"
	ConditionReasonable DiveCondition = "REASONABLE"
	ConditionPoor       DiveCondition = "POOR"
	ConditionUnknown    DiveCondition = "UNKNOWN"
)

// TideState is the direction the water is moving in.
type TideState string

const (
	TideStateUnknown TideState = ""
	TideRising       TideState = "RISING"
	TideFalling      TideState = "FALLING"
)

// Label returns the display name of the state.
func (s TideState) Label() string {
	switch s {
	case TideRising:
		return "Rising"
	case TideFalling:
		return "Falling"
	default:
		return "Unknown"
	}
}

// TideAdvice describes the next tide event relative to "now".
type TideAdvice struct {
	Next          *TideEvent    `json:"next,omitempty"`
	NextKind      TideKind      `json:"next_kind,omitempty"`
	State         TideState     `json:"state,omitempty"`
	MinutesToNext int           `json:"minutes_to_next"`
	Condition     DiveCondition `json:"condition"`
	Description   string        `json:"description"`
}

// CurvePoint is one sample of the interpolated tide curve.
type CurvePoint struct {
	Minute int     `json:"minute"`
	Height float64 `json:"height"`
}

// DailyTideSummary is the tide picture for one local calendar day.
type DailyTideSummary struct {
	Date          time.Time    `json:"date"`
	Events        []TideEvent  `json:"events"`
	Amplitude     float64      `json:"amplitude"`
	Class         TideClass    `json:"class"`
	Score         float64      `json:"score"`
	Favorable     bool         `json:"favorable"`
	Rationale     string       `json:"rationale"`
	CurrentHeight float64      `json:"current_height"`
	Next          *TideEvent   `json:"next,omitempty"`
	Advice        TideAdvice   `json:"advice"`
	Curve         []CurvePoint `json:"curve"`
}
