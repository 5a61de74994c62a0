package model

import "time"

// MoonPhase is one of the eight named lunar phases.
type MoonPhase string

const (
	MoonNew            MoonPhase = "NEW"
	MoonWaxingCrescent MoonPhase = "WAXING_CRESCENT"
	MoonFirstQuarter   MoonPhase = "FIRST_QUARTER"
	MoonWaxingGibbous  MoonPhase = "WAXING_GIBBOUS"
	MoonFull           MoonPhase = "FULL"
	MoonWaningGibbous  MoonPhase = "WANING_GIBBOUS"
	MoonLastQuarter    MoonPhase = "LAST_QUARTER"
	MoonWaningCrescent MoonPhase = "WANING_CRESCENT"
)

// MoonReading is the lunar state at evaluation time.
type MoonReading struct {
	Phase            MoonPhase  `json:"phase"`
	Illumination     int        `json:"illumination"` // percent
	Since            time.Time  `json:"since,omitempty"`
	NextFirstQuarter *time.Time `json:"next_first_quarter,omitempty"`
	Source           string     `json:"source"`
}

// RainSummary aggregates precipitation over a trailing window.
type RainSummary struct {
	TotalMM       float64   `json:"total_mm"`
	HoursWithRain int       `json:"hours_with_rain"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
}

// RainLevel grades the impact of recent rain on visibility.
type RainLevel string

const (
	RainVeryLow RainLevel = "VERY_LOW"
	RainLow     RainLevel = "LOW"
	RainMedium  RainLevel = "MEDIUM"
	RainHigh    RainLevel = "HIGH"
)

// RainImpact is the classified rain effect.
type RainImpact struct {
	Level       RainLevel `json:"level"`
	Description string    `json:"description"`
}

// WindReading is a raw wind observation.
type WindReading struct {
	SpeedMS      float64   `json:"speed_ms"`
	DirectionDeg float64   `json:"direction_deg"`
	At           time.Time `json:"at"`
}

// WindIntensity grades wind speed.
type WindIntensity string

const (
	WindWeak       WindIntensity = "WEAK"
	WindModerate   WindIntensity = "MODERATE"
	WindStrong     WindIntensity = "STRONG"
	WindVeryStrong WindIntensity = "VERY_STRONG"
)

// WindDetails is the classified wind reading.
type WindDetails struct {
	Intensity   WindIntensity `json:"intensity"`
	SpeedKmh    float64       `json:"speed_kmh"`
	Direction   string        `json:"direction"`
	Favorable   bool          `json:"favorable"`
	Score       float64       `json:"score"`
	Description string        `json:"description"`
}

// Hemisphere is derived from the latitude sign.
type Hemisphere string

const (
	HemisphereNorth Hemisphere = "NORTH"
	HemisphereSouth Hemisphere = "SOUTH"
)

// Season is the astronomical-ish season used for scoring.
type Season string

const (
	SeasonSummer Season = "SUMMER"
	SeasonAutumn Season = "AUTUMN"
	SeasonWinter Season = "WINTER"
	SeasonSpring Season = "SPRING"
)

// SeasonDetails describes the current season at the dive site.
type SeasonDetails struct {
	Season          Season     `json:"season"`
	Hemisphere      Hemisphere `json:"hemisphere"`
	DaysUntilSummer int        `json:"days_until_summer"`
}

// Conditions holds the raw data of one collection cycle. A nil field means the
// matching source failed; the reason is in Errors.
type Conditions struct {
	At       time.Time
	Location string
	Latitude float64
	Moon     *MoonReading
	Rain     *RainSummary
	Wind     *WindReading
	Tides    []TideEvent // chronological, spanning yesterday..tomorrow
	Errors   map[FactorName]error
}

// Err returns the collection error for a factor, if any.
func (c *Conditions) Err(name FactorName) error {
	if c.Errors == nil {
		return nil
	}
	return c.Errors[name]
}
