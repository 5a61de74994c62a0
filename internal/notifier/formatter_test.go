package notifier

import (
	"strings"
	"testing"
	"time"

	"DiveScout/internal/model"
	"DiveScout/internal/recorder"
)

func sampleReport() *model.Report {
	at := time.Date(2025, 1, 10, 7, 0, 0, 0, time.UTC)
	nfq := at.Add(60 * time.Hour)
	return &model.Report{
		Location:    "Santos & Guarujá",
		EvaluatedAt: at,
		Result: &model.AggregateResult{
			TotalScore:     72,
			Tier:           model.TierGood,
			Recommendation: "Favorable conditions for diving. Enjoy it!",
			Factors: []model.FactorScore{
				{Name: model.FactorMoon, RawScore: 3, Weight: 0.2, Favorable: true, Commentary: "first quarter"},
				{Name: model.FactorWind, Commentary: model.UnavailableCommentary, Unavailable: "timeout"},
			},
			NegativeFactors: []string{"strong wind may cause chop or turbidity"},
			Warnings:        []string{"wind: timeout"},
		},
		Tide: &model.DailyTideSummary{
			Class: model.DeadTide, Amplitude: 0.45, CurrentHeight: 0.8,
			Advice: model.TideAdvice{Condition: model.ConditionIdeal, State: model.TideFalling, Description: "low tide in 1h 10m"},
		},
		Moon:       &model.MoonReading{Phase: model.MoonWaxingCrescent, Illumination: 25, NextFirstQuarter: &nfq},
		Rain:       &model.RainSummary{TotalMM: 3.2, HoursWithRain: 4},
		RainImpact: &model.RainImpact{Level: model.RainLow},
		Season:     model.SeasonDetails{Season: model.SeasonSummer, Hemisphere: model.HemisphereSouth},
	}
}

func TestFormatDailyReport(t *testing.T) {
	msg := FormatDailyReport(sampleReport())
	for _, want := range []string{
		"Santos &amp; Guarujá",
		"<b>72/100</b> (good)",
		"moon: 3/3 (×0.2) ✅ first quarter",
		"wind: ⚠️ data unavailable",
		"Dead tide, amplitude 0.45m",
		"low tide in 1h 10m",
		"Water falling",
		"waxing crescent, 25% lit",
		"Next first quarter in 3 day(s)",
		"3.2mm over 4h, low impact",
		"summer (south hemisphere)",
		"strong wind may cause chop",
		"wind: timeout",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "until summer") {
		t.Error("days until summer should be omitted during summer")
	}
}

func TestFormatTide(t *testing.T) {
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	msg := FormatTide(&model.DailyTideSummary{
		Date: day,
		Events: []model.TideEvent{
			{Time: day.Add(3 * time.Hour), Height: 0.2, Kind: model.TideLow},
			{Time: day.Add(9*time.Hour + 30*time.Minute), Height: 1.1, Kind: model.TideHigh},
		},
		Class: model.Intermediate, Amplitude: 0.9, Score: 1, CurrentHeight: 0.7,
		Advice: model.TideAdvice{Condition: model.ConditionGood, State: model.TideRising, Description: "high tide in 45m"},
	})
	for _, want := range []string{"2025-01-10", "03:00  low  0.20m", "09:30  high 1.10m", "Intermediate, amplitude 0.90m", "Current height: 0.70m, rising", "Diving: good."} {
		if !strings.Contains(msg, want) {
			t.Errorf("tide message missing %q:\n%s", want, msg)
		}
	}
	if !strings.Contains(FormatTide(nil), "No tide data") {
		t.Error("nil summary should say there is no data")
	}
}

func TestFormatHistory(t *testing.T) {
	if !strings.Contains(FormatHistory(nil, time.UTC), "No evaluations") {
		t.Error("empty history should say so")
	}
	msg := FormatHistory([]recorder.Entry{
		{EvaluatedAt: time.Date(2025, 1, 10, 7, 0, 0, 0, time.UTC), TotalScore: 88, Tier: model.TierExcellent, TideClass: model.DeadTide},
		{EvaluatedAt: time.Date(2025, 1, 9, 7, 0, 0, 0, time.UTC), TotalScore: 41, Tier: model.TierPoor},
	}, time.UTC)
	if !strings.Contains(msg, "01-10 07:00") || !strings.Contains(msg, "88 (excellent) · Dead tide") {
		t.Errorf("unexpected history:\n%s", msg)
	}
	if !strings.Contains(msg, " 41 (poor)") {
		t.Errorf("unexpected history:\n%s", msg)
	}
}

func TestPlainText(t *testing.T) {
	msg := PlainText(FormatDailyReport(sampleReport()))
	for _, want := range []string{"DiveScout | Santos & Guarujá", "72/100 (good)", "Watch out:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("plain text missing %q:\n%s", want, msg)
		}
	}
	if strings.ContainsAny(msg, "<>") {
		t.Errorf("plain text still has markup:\n%s", msg)
	}

	if got := PlainText("<b>a &lt;b&gt; c</b>"); got != "a <b> c" {
		t.Errorf("escaped text must survive, got %q", got)
	}
}
