package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"

	"DiveScout/internal/model"
	"DiveScout/internal/tide"
)

// MaxRawScore bounds every factor's raw score.
const MaxRawScore = 3

// Weights defines each factor's weight and the raw score below which it is
// reported as a negative factor.
var Weights = []struct {
	Name     model.FactorName
	Weight   float64
	Min      float64
	Negative string
}{
	{model.FactorMoon, 0.2, 1, "unfavorable lunar phase"},
	{model.FactorSeason, 0.1, 1, "less suitable season"},
	{model.FactorRain, 0.3, 2, "recent rain may affect visibility"},
	{model.FactorTide, 0.2, 1, "tide conditions not ideal"},
	{model.FactorWind, 0.2, 2, "strong wind may cause chop or turbidity"},
}

// Tiers maps a total score to a tier, first match wins.
var Tiers = []struct {
	MinScore int
	Tier     model.Tier
}{
	{85, model.TierExcellent},
	{70, model.TierGood},
	{50, model.TierRegular},
	{30, model.TierPoor},
}

// DefaultTier is the tier for scores below 30.
const DefaultTier = model.TierVeryPoor

func mapTier(total int) model.Tier {
	for _, t := range Tiers {
		if total >= t.MinScore {
			return t.Tier
		}
	}
	return DefaultTier
}

func recommend(total int) string {
	switch {
	case total >= 70:
		return "Favorable conditions for diving. Enjoy it!"
	case total >= 50:
		return "Acceptable conditions, but keep an eye on changes."
	default:
		return "Diving not recommended today. Consider postponing."
	}
}

func clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(MaxRawScore, score))
}

// Aggregate combines the five factor scores into the weighted 0..100 result.
// It never fails: unavailable factors score zero and surface as warnings.
func Aggregate(moon, season, rain, tideScore, wind model.FactorScore) *model.AggregateResult {
	in := map[model.FactorName]model.FactorScore{
		model.FactorMoon:   moon,
		model.FactorSeason: season,
		model.FactorRain:   rain,
		model.FactorTide:   tideScore,
		model.FactorWind:   wind,
	}

	result := &model.AggregateResult{Factors: make([]model.FactorScore, 0, len(Weights))}
	var sum float64
	for _, w := range Weights {
		f := in[w.Name]
		f.Name = w.Name
		if !f.IsAvailable() {
			f.RawScore, f.Favorable = 0, false
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", w.Name, f.Unavailable))
		}
		f.RawScore = clamp(f.RawScore)
		f.Weight = w.Weight
		f.Weighted = f.RawScore * w.Weight
		sum += f.Weighted

		if f.RawScore < w.Min {
			result.NegativeFactors = append(result.NegativeFactors, w.Negative)
		}
		result.Factors = append(result.Factors, f)
	}

	result.TotalScore = int(math.Round(sum / MaxRawScore * 100))
	result.Tier = mapTier(result.TotalScore)
	result.Recommendation = recommend(result.TotalScore)
	return result
}

// Options tunes Evaluate.
type Options struct {
	RainThresholds RainThresholds
	// Location is the dive site's time zone; it defines "today" for tides.
	Location *time.Location
	// Now overrides the evaluation instant. Zero means Conditions.At.
	Now time.Time
}

// Evaluate scores one collection cycle. Source failures degrade their factor;
// the returned error is non-nil only when the tide core reports a contract
// violation, and the report is still complete in that case.
func Evaluate(cond *model.Conditions, opts Options) (*model.Report, error) {
	now := opts.Now
	if now.IsZero() {
		now = cond.At
	}
	if opts.Location != nil {
		now = now.In(opts.Location)
	}

	report := &model.Report{
		Location:    cond.Location,
		EvaluatedAt: now,
		Moon:        cond.Moon,
		Rain:        cond.Rain,
	}

	moon := ScoreMoon(cond.Moon)
	if err := cond.Err(model.FactorMoon); err != nil {
		moon = model.Unavailable(model.FactorMoon, err.Error())
	}

	season, details := ScoreSeason(now, cond.Latitude)
	report.Season = details

	var rain model.FactorScore
	if err := cond.Err(model.FactorRain); err != nil {
		rain = model.Unavailable(model.FactorRain, err.Error())
	} else {
		rain, report.RainImpact = ScoreRain(cond.Rain, opts.RainThresholds)
	}

	var wind model.FactorScore
	if err := cond.Err(model.FactorWind); err != nil {
		wind = model.Unavailable(model.FactorWind, err.Error())
	} else {
		wind, report.Wind = ScoreWind(cond.Wind)
	}

	var tideScore model.FactorScore
	var contractErr error
	if err := cond.Err(model.FactorTide); err != nil {
		tideScore = model.Unavailable(model.FactorTide, err.Error())
	} else {
		summary, err := tide.Summarize(now, cond.Tides, opts.Location)
		if errors.Is(err, tide.ErrInvalidInput) {
			contractErr = fmt.Errorf("summarize tides: %w", err)
		}
		report.Tide = summary
		tideScore = ScoreTide(summary, err)
	}

	report.Result = Aggregate(moon, season, rain, tideScore, wind)
	return report, contractErr
}
