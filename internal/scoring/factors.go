package scoring

import (
	"fmt"
	"math"
	"strings"

	"DiveScout/internal/model"
)

// scoreMoon scores the lunar phase. Quadrature tides around the first quarter
// reduce turbidity; syzygy tides around new and full moon increase it.
func scoreMoon(reading *model.MoonReading) model.FactorScore {
	var score float64
	var favorable bool
	var commentary string

	switch reading.Phase {
	case model.MoonFirstQuarter:
		score, favorable = 3, true
		commentary = "First quarter: neap tides, low amplitude, clear water."
	case model.MoonWaxingCrescent:
		score, favorable = 2, true
		commentary = "Transition phase with moderate tides, visibility improving."
	case model.MoonFull:
		score = 1
		commentary = "Spring tides: bright nights but wide tidal range raises turbidity."
	case model.MoonNew:
		score = 0
		commentary = "Spring tides with no natural light, visibility usually reduced."
	case model.MoonLastQuarter, model.MoonWaningGibbous, model.MoonWaningCrescent:
		score = 0
		commentary = "Unstable visibility from residual spring-tide movement."
	default:
		score = 0
		commentary = "Lunar phase not ideal for diving."
	}
	return model.Available(model.FactorMoon, score, favorable, commentary)
}

// ScoreMoon scores a moon reading; a nil reading degrades the factor.
func ScoreMoon(reading *model.MoonReading) model.FactorScore {
	if reading == nil {
		return model.Unavailable(model.FactorMoon, "no moon data")
	}
	return scoreMoon(reading)
}

var phaseNames = []struct {
	Match string
	Phase model.MoonPhase
}{
	// Longer names first so "quarto crescente" wins over "crescente".
	{"first quarter", model.MoonFirstQuarter},
	{"quarto crescente", model.MoonFirstQuarter},
	{"last quarter", model.MoonLastQuarter},
	{"quarto minguante", model.MoonLastQuarter},
	{"waxing gibbous", model.MoonWaxingGibbous},
	{"crescente gibosa", model.MoonWaxingGibbous},
	{"waning gibbous", model.MoonWaningGibbous},
	{"minguante gibosa", model.MoonWaningGibbous},
	{"waxing crescent", model.MoonWaxingCrescent},
	{"crescente", model.MoonWaxingCrescent},
	{"waning crescent", model.MoonWaningCrescent},
	{"minguante", model.MoonWaningCrescent},
	{"waxing", model.MoonWaxingCrescent},
	{"waning", model.MoonWaningCrescent},
	{"full", model.MoonFull},
	{"cheia", model.MoonFull},
	{"new", model.MoonNew},
	{"nova", model.MoonNew},
}

// ParsePhaseName maps an English or Portuguese phase name to a MoonPhase.
func ParsePhaseName(name string) (model.MoonPhase, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", " ")
	for _, p := range phaseNames {
		if strings.Contains(n, p.Match) {
			return p.Phase, true
		}
	}
	return "", false
}

// ParseTablePhase maps the four quarter names of the moon phase table, where
// "Crescente" and "Minguante" denote the quarters rather than the crescents.
func ParseTablePhase(name string) (model.MoonPhase, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nova":
		return model.MoonNew, true
	case "crescente":
		return model.MoonFirstQuarter, true
	case "cheia":
		return model.MoonFull, true
	case "minguante":
		return model.MoonLastQuarter, true
	}
	return ParsePhaseName(name)
}

// quarterTolerance is how close a cycle fraction must be to a quarter to name it.
const quarterTolerance = 0.01

// PhaseFromFraction names the phase at a point in the lunar cycle, where 0 and 1
// are new moon, 0.25 first quarter, 0.5 full and 0.75 last quarter.
func PhaseFromFraction(f float64) model.MoonPhase {
	switch {
	case f <= 0 || f >= 1:
		return model.MoonNew
	case math.Abs(f-0.25) < quarterTolerance:
		return model.MoonFirstQuarter
	case math.Abs(f-0.5) < quarterTolerance:
		return model.MoonFull
	case math.Abs(f-0.75) < quarterTolerance:
		return model.MoonLastQuarter
	case f < 0.25:
		return model.MoonWaxingCrescent
	case f < 0.5:
		return model.MoonWaxingGibbous
	case f < 0.75:
		return model.MoonWaningGibbous
	default:
		return model.MoonWaningCrescent
	}
}

// IlluminationFromFraction approximates the lit percentage of the disc.
func IlluminationFromFraction(f float64) int {
	switch {
	case f <= 0 || f >= 1:
		return 0
	case f <= 0.5:
		return int(math.Round(f / 0.5 * 100))
	default:
		return int(math.Round((1 - f) / 0.5 * 100))
	}
}

// PhaseIllumination is the nominal illumination of a named phase.
func PhaseIllumination(p model.MoonPhase) int {
	switch p {
	case model.MoonNew:
		return 0
	case model.MoonWaxingCrescent, model.MoonWaningCrescent:
		return 25
	case model.MoonFirstQuarter, model.MoonLastQuarter:
		return 50
	case model.MoonWaxingGibbous, model.MoonWaningGibbous:
		return 75
	case model.MoonFull:
		return 100
	}
	return 0
}

// RainThresholds are the lower bounds (exclusive) of each rain impact level.
// A level matches when either the total or the rainy-hour count exceeds it.
type RainThresholds struct {
	HighMM      float64 `yaml:"high_mm"`
	HighHours   int     `yaml:"high_hours"`
	MediumMM    float64 `yaml:"medium_mm"`
	MediumHours int     `yaml:"medium_hours"`
	LowMM       float64 `yaml:"low_mm"`
	LowHours    int     `yaml:"low_hours"`
}

// DefaultRainThresholds uses the 72-hour variant for the High level.
func DefaultRainThresholds() RainThresholds {
	return RainThresholds{
		HighMM: 20, HighHours: 72,
		MediumMM: 10, MediumHours: 12,
		LowMM: 2.5, LowHours: 5,
	}
}

// ClassifyRainImpact grades the trailing rainfall, first match from High down.
func ClassifyRainImpact(totalMM float64, hours int, th RainThresholds) model.RainImpact {
	if th == (RainThresholds{}) {
		th = DefaultRainThresholds()
	}
	switch {
	case totalMM > th.HighMM || hours > th.HighHours:
		return model.RainImpact{Level: model.RainHigh, Description: "Heavy recent rain, visibility likely much reduced."}
	case totalMM > th.MediumMM || hours > th.MediumHours:
		return model.RainImpact{Level: model.RainMedium, Description: "Visibility moderately affected by recent rain."}
	case totalMM > th.LowMM || hours > th.LowHours:
		return model.RainImpact{Level: model.RainLow, Description: "Small impact on visibility."}
	default:
		return model.RainImpact{Level: model.RainVeryLow, Description: "Visibility practically unaffected."}
	}
}

func rainLevelScore(level model.RainLevel) float64 {
	switch level {
	case model.RainHigh:
		return 0
	case model.RainMedium:
		return 1
	case model.RainLow:
		return 2
	default:
		return 3
	}
}

// ScoreRain scores the trailing rainfall summary.
func ScoreRain(summary *model.RainSummary, th RainThresholds) (model.FactorScore, *model.RainImpact) {
	if summary == nil {
		return model.Unavailable(model.FactorRain, "no precipitation data"), nil
	}
	impact := ClassifyRainImpact(summary.TotalMM, summary.HoursWithRain, th)
	score := rainLevelScore(impact.Level)
	commentary := fmt.Sprintf("%.1f mm over %d rainy hours. %s", summary.TotalMM, summary.HoursWithRain, impact.Description)
	return model.Available(model.FactorRain, score, score >= 2, commentary), &impact
}

// favorableWindKmh is the speed under which wind is considered favorable.
const favorableWindKmh = 25

// ClassifyWind converts a speed in m/s to km/h and grades it.
func ClassifyWind(speedMS float64) model.WindDetails {
	kmh := speedMS * 3.6
	d := model.WindDetails{SpeedKmh: math.Round(kmh*10) / 10, Favorable: kmh < favorableWindKmh}

	switch {
	case kmh < 10:
		d.Intensity, d.Score = model.WindWeak, 3
		d.Description = "Weak wind, calm sea surface."
	case kmh < 20:
		d.Intensity, d.Score = model.WindModerate, 2
		d.Description = "Moderate wind, small chop possible."
	case kmh < 30:
		d.Intensity, d.Score = model.WindStrong, 1
		d.Description = "Strong wind, choppy water and stirred sediment."
	default:
		d.Intensity, d.Score = model.WindVeryStrong, 0
		d.Description = "Very strong wind, rough sea and poor visibility."
	}
	return d
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CardinalDirection maps degrees to a 16-point compass rose.
func CardinalDirection(deg float64) string {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return compassPoints[int(math.Round(d/22.5))%16]
}

// ScoreWind scores a wind reading.
func ScoreWind(reading *model.WindReading) (model.FactorScore, *model.WindDetails) {
	if reading == nil {
		return model.Unavailable(model.FactorWind, "no wind data"), nil
	}
	d := ClassifyWind(reading.SpeedMS)
	d.Direction = CardinalDirection(reading.DirectionDeg)
	commentary := fmt.Sprintf("%.1f km/h from %s. %s", d.SpeedKmh, d.Direction, d.Description)
	return model.Available(model.FactorWind, d.Score, d.Favorable, commentary), &d
}

// ScoreTide turns a daily tide summary into a factor score. A summary error
// degrades the factor.
func ScoreTide(summary *model.DailyTideSummary, err error) model.FactorScore {
	if err != nil {
		return model.Unavailable(model.FactorTide, err.Error())
	}
	if summary == nil {
		return model.Unavailable(model.FactorTide, "no tide data")
	}
	commentary := fmt.Sprintf("%s (amplitude %.2fm). %s", summary.Class.Label(), summary.Amplitude, summary.Rationale)
	return model.Available(model.FactorTide, summary.Score, summary.Favorable, commentary)
}
