package scoring

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"DiveScout/internal/model"
)

func TestAggregate_EndToEnd(t *testing.T) {
	res := Aggregate(
		model.Available(model.FactorMoon, 3, true, "first quarter"),
		model.Available(model.FactorSeason, 2, false, "autumn"),
		model.Available(model.FactorRain, 3, true, "dry"),
		model.Available(model.FactorTide, 2, true, "low intermediate"),
		model.Available(model.FactorWind, 3, true, "calm"),
	)
	if res.TotalScore != 90 {
		t.Errorf("expected score 90, got %d", res.TotalScore)
	}
	if res.Tier != model.TierExcellent {
		t.Errorf("expected Excellent, got %s", res.Tier)
	}
	if res.NegativeFactors != nil {
		t.Errorf("expected nil negative factors, got %v", res.NegativeFactors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if len(res.Factors) != 5 {
		t.Fatalf("expected 5 factors, got %d", len(res.Factors))
	}
	rain, ok := res.Factor(model.FactorRain)
	if !ok || rain.Weight != 0.3 || math.Abs(rain.Weighted-0.9) > 1e-9 {
		t.Errorf("unexpected rain factor %+v", rain)
	}
}

func TestAggregate_AllUnavailable(t *testing.T) {
	res := Aggregate(
		model.Unavailable(model.FactorMoon, "timeout"),
		model.Unavailable(model.FactorSeason, "timeout"),
		model.Unavailable(model.FactorRain, "timeout"),
		model.Unavailable(model.FactorTide, "timeout"),
		model.Unavailable(model.FactorWind, ""),
	)
	if res.TotalScore != 0 || res.Tier != model.TierVeryPoor {
		t.Errorf("expected 0/VeryPoor, got %d/%s", res.TotalScore, res.Tier)
	}
	if len(res.NegativeFactors) != 5 {
		t.Errorf("expected 5 negative factors, got %v", res.NegativeFactors)
	}
	if len(res.Warnings) != 5 {
		t.Errorf("expected 5 warnings, got %v", res.Warnings)
	}
	if res.Warnings[4] != "wind: unknown error" {
		t.Errorf("unexpected warning %q", res.Warnings[4])
	}
	for _, f := range res.Factors {
		if f.IsAvailable() || f.Commentary != model.UnavailableCommentary || f.Favorable {
			t.Errorf("factor %s should stay degraded, got %+v", f.Name, f)
		}
	}
	if res.Recommendation == "" {
		t.Error("expected a recommendation even with no data")
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	args := []model.FactorScore{
		model.Available(model.FactorMoon, 1, false, "full"),
		model.Available(model.FactorSeason, 1, true, "spring"),
		model.Unavailable(model.FactorRain, "HTTP 500"),
		model.Available(model.FactorTide, 0, false, "wide"),
		model.Available(model.FactorWind, 2, true, "moderate"),
	}
	first := Aggregate(args[0], args[1], args[2], args[3], args[4])
	for i := 0; i < 5; i++ {
		again := Aggregate(args[0], args[1], args[2], args[3], args[4])
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestAggregate_ClampsRawScores(t *testing.T) {
	res := Aggregate(
		model.Available(model.FactorMoon, 3, true, ""),
		model.Available(model.FactorSeason, 4, true, ""),
		model.Available(model.FactorRain, 3, true, ""),
		model.Available(model.FactorTide, 3, true, ""),
		model.Available(model.FactorWind, 3, true, ""),
	)
	if res.TotalScore != 100 {
		t.Errorf("expected 100, got %d", res.TotalScore)
	}

	res = Aggregate(
		model.Available(model.FactorMoon, -2, false, ""),
		model.Available(model.FactorSeason, 0, false, ""),
		model.Available(model.FactorRain, 0, false, ""),
		model.Available(model.FactorTide, 0, false, ""),
		model.Available(model.FactorWind, 0, false, ""),
	)
	if res.TotalScore != 0 {
		t.Errorf("expected 0, got %d", res.TotalScore)
	}
}

func TestAggregate_NaNScoresZero(t *testing.T) {
	res := Aggregate(
		model.Available(model.FactorMoon, math.NaN(), true, ""),
		model.Available(model.FactorSeason, 3, true, ""),
		model.Available(model.FactorRain, 3, true, ""),
		model.Available(model.FactorTide, 3, true, ""),
		model.Available(model.FactorWind, 3, true, ""),
	)
	if res.TotalScore != 80 || res.Tier != model.TierGood {
		t.Errorf("expected 80/Good, got %d/%s", res.TotalScore, res.Tier)
	}
	if f, _ := res.Factor(model.FactorMoon); f.RawScore != 0 {
		t.Errorf("expected a NaN score to clamp to 0, got %v", f.RawScore)
	}
}

func TestAggregate_NegativeFactorMinimums(t *testing.T) {
	res := Aggregate(
		model.Available(model.FactorMoon, 1, false, ""),
		model.Available(model.FactorSeason, 1, false, ""),
		model.Available(model.FactorRain, 2, true, ""),
		model.Available(model.FactorTide, 1, false, ""),
		model.Available(model.FactorWind, 1, false, ""),
	)
	if len(res.NegativeFactors) != 1 || !strings.Contains(res.NegativeFactors[0], "wind") {
		t.Errorf("expected only the wind negative factor, got %v", res.NegativeFactors)
	}
}

func TestMapTier_AllBoundaries(t *testing.T) {
	tests := []struct {
		score int
		tier  model.Tier
	}{
		{100, model.TierExcellent},
		{85, model.TierExcellent},
		{84, model.TierGood},
		{70, model.TierGood},
		{69, model.TierRegular},
		{50, model.TierRegular},
		{49, model.TierPoor},
		{30, model.TierPoor},
		{29, model.TierVeryPoor},
		{0, model.TierVeryPoor},
	}
	for _, tt := range tests {
		if got := mapTier(tt.score); got != tt.tier {
			t.Errorf("score %d: expected %s, got %s", tt.score, tt.tier, got)
		}
	}
}

func TestRecommend(t *testing.T) {
	if recommend(70) == recommend(69) || recommend(50) == recommend(49) {
		t.Error("recommendation should change at 70 and 50")
	}
	if recommend(100) != recommend(70) || recommend(0) != recommend(49) {
		t.Error("recommendation should be stable inside a band")
	}
}

func sampleTides() []model.TideEvent {
	day := func(d, h int) time.Time { return time.Date(2024, time.January, d, h, 0, 0, 0, time.UTC) }
	return []model.TideEvent{
		{Time: day(9, 21), Height: 0.9},
		{Time: day(10, 3), Height: 0.4},
		{Time: day(10, 9), Height: 0.9},
		{Time: day(10, 15), Height: 0.5},
		{Time: day(10, 21), Height: 0.8},
		{Time: day(11, 3), Height: 0.4},
	}
}

func sampleConditions() *model.Conditions {
	return &model.Conditions{
		At:       time.Date(2024, time.January, 10, 11, 0, 0, 0, time.UTC),
		Location: "Santos",
		Latitude: -23.9608,
		Moon:     &model.MoonReading{Phase: model.MoonFirstQuarter, Illumination: 50},
		Rain:     &model.RainSummary{TotalMM: 0, HoursWithRain: 0},
		Wind:     &model.WindReading{SpeedMS: 2, DirectionDeg: 90},
		Tides:    sampleTides(),
	}
}

func TestEvaluate_AllSources(t *testing.T) {
	report, err := Evaluate(sampleConditions(), Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Result.TotalScore != 100 || report.Result.Tier != model.TierExcellent {
		t.Errorf("expected 100/Excellent, got %d/%s", report.Result.TotalScore, report.Result.Tier)
	}
	if report.Tide == nil || report.Tide.Class != model.DeadTide {
		t.Fatalf("expected a dead-tide summary, got %+v", report.Tide)
	}
	if report.Wind == nil || report.Wind.Direction != "E" {
		t.Errorf("expected wind from E, got %+v", report.Wind)
	}
	if report.RainImpact == nil || report.RainImpact.Level != model.RainVeryLow {
		t.Errorf("expected very low rain impact, got %+v", report.RainImpact)
	}
	if report.Season.Season != model.SeasonSummer || report.Season.DaysUntilSummer != 0 {
		t.Errorf("expected southern summer, got %+v", report.Season)
	}
	if report.Location != "Santos" {
		t.Errorf("unexpected location %q", report.Location)
	}
}

func TestEvaluate_DegradesFailedSources(t *testing.T) {
	cond := sampleConditions()
	cond.Rain = nil
	cond.Tides = nil
	cond.Errors = map[model.FactorName]error{model.FactorRain: errors.New("HTTP 429")}

	report, err := Evaluate(cond, Options{})
	if err != nil {
		t.Fatalf("missing data must not be a contract error: %v", err)
	}
	rain, _ := report.Result.Factor(model.FactorRain)
	if rain.IsAvailable() || rain.Unavailable != "HTTP 429" {
		t.Errorf("expected degraded rain factor, got %+v", rain)
	}
	tide, _ := report.Result.Factor(model.FactorTide)
	if tide.IsAvailable() {
		t.Errorf("expected degraded tide factor, got %+v", tide)
	}
	if len(report.Result.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", report.Result.Warnings)
	}
	// moon 3, season 3, wind 3: (0.6+0.3+0.6)/3 = 50
	if report.Result.TotalScore != 50 {
		t.Errorf("expected 50, got %d", report.Result.TotalScore)
	}
}
