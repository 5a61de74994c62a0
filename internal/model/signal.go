package model

import "time"

// FactorName identifies one scored environmental input.
type FactorName string

const (
	FactorMoon   FactorName = "moon"
	FactorSeason FactorName = "season"
	FactorRain   FactorName = "rain"
	FactorTide   FactorName = "tide"
	FactorWind   FactorName = "wind"
)

// AllFactors lists the factors in report order.
var AllFactors = []FactorName{FactorMoon, FactorSeason, FactorRain, FactorTide, FactorWind}

// UnavailableCommentary is the commentary carried by a degraded factor.
const UnavailableCommentary = "data unavailable"

// FactorScore represents a single factor's scoring result.
// It is either available (RawScore/Favorable/Commentary set) or unavailable,
// in which case Unavailable holds the reason and RawScore is 0.
type FactorScore struct {
	Name        FactorName `json:"name"`
	RawScore    float64    `json:"raw_score"`
	Weight      float64    `json:"weight"`
	Weighted    float64    `json:"weighted"`
	Favorable   bool       `json:"favorable"`
	Commentary  string     `json:"commentary"`
	Unavailable string     `json:"unavailable,omitempty"`
}

// Available builds a scored factor.
func Available(name FactorName, score float64, favorable bool, commentary string) FactorScore {
	return FactorScore{Name: name, RawScore: score, Favorable: favorable, Commentary: commentary}
}

// Unavailable builds a degraded factor that scores zero.
func Unavailable(name FactorName, reason string) FactorScore {
	if reason == "" {
		reason = "unknown error"
	}
	return FactorScore{Name: name, Commentary: UnavailableCommentary, Unavailable: reason}
}

// IsAvailable reports whether the factor was computed from real data.
func (f FactorScore) IsAvailable() bool { return f.Unavailable == "" }

// Tier classifies the aggregate score.
type Tier string

const (
	TierExcellent Tier = "EXCELLENT"
	TierGood      Tier = "GOOD"
	TierRegular   Tier = "REGULAR"
	TierPoor      Tier = "POOR"
	TierVeryPoor  Tier = "VERY_POOR"
)

// AggregateResult is the final output of the scoring engine.
type AggregateResult struct {
	Factors         []FactorScore `json:"factors"`
	TotalScore      int           `json:"total_score"` // 0..100
	Tier            Tier          `json:"tier"`
	Recommendation  string        `json:"recommendation"`
	NegativeFactors []string      `json:"negative_factors"` // nil when none
	Warnings        []string      `json:"warnings,omitempty"`
}

// Factor returns the score for the named factor.
func (r *AggregateResult) Factor(name FactorName) (FactorScore, bool) {
	for _, f := range r.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return FactorScore{}, false
}

// Report bundles the aggregate with the per-factor detail of one evaluation.
type Report struct {
	ID          string            `json:"id"`
	Location    string            `json:"location"`
	EvaluatedAt time.Time         `json:"evaluated_at"`
	Result      *AggregateResult  `json:"result"`
	Tide        *DailyTideSummary `json:"tide,omitempty"`
	Moon        *MoonReading      `json:"moon,omitempty"`
	Rain        *RainSummary      `json:"rain,omitempty"`
	RainImpact  *RainImpact       `json:"rain_impact,omitempty"`
	Wind        *WindDetails      `json:"wind,omitempty"`
	Season      SeasonDetails     `json:"season"`
}
