package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"DiveScout/internal/model"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	return string(body)
}

func TestObserveReport(t *testing.T) {
	m := New()
	m.ObserveReport(&model.Report{Result: &model.AggregateResult{
		TotalScore: 72,
		Tier:       model.TierGood,
		Factors:    []model.FactorScore{{Name: model.FactorWind, RawScore: 2}},
	}})

	out := scrape(t, m)
	for _, want := range []string{
		`divescout_evaluations_total{tier="GOOD"} 1`,
		`divescout_last_score 72`,
		`divescout_factor_raw_score{factor="wind"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSourceFailed(t *testing.T) {
	m := New()
	m.SourceFailed(model.FactorRain)
	m.SourceFailed(model.FactorRain)
	m.ObserveFetch(model.FactorRain, 0.2)

	out := scrape(t, m)
	if !strings.Contains(out, `divescout_source_failures_total{factor="rain"} 2`) {
		t.Errorf("expected 2 rain failures in:\n%s", out)
	}
	if !strings.Contains(out, `divescout_fetch_duration_seconds_count{factor="rain"} 1`) {
		t.Errorf("expected one rain fetch observation in:\n%s", out)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveReport(&model.Report{})
	m.SourceFailed(model.FactorTide)
	m.ObserveFetch(model.FactorTide, 0.1)
}
