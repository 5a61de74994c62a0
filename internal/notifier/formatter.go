package notifier

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
	"time"

	"DiveScout/internal/model"
	"DiveScout/internal/recorder"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// PlainText turns a formatted message into terminal text by dropping the
// markup tags and unescaping entities.
func PlainText(msg string) string {
	return html.UnescapeString(htmlTag.ReplaceAllString(msg, ""))
}

// humanize turns an enum value such as FIRST_QUARTER into "first quarter".
func humanize[T ~string](v T) string {
	return strings.ToLower(strings.ReplaceAll(string(v), "_", " "))
}

func tierEmoji(t model.Tier) string {
	switch t {
	case model.TierExcellent, model.TierGood:
		return "🟢"
	case model.TierRegular:
		return "🟡"
	case model.TierPoor:
		return "🟠"
	default:
		return "🔴"
	}
}

// FormatDailyReport formats an evaluation into a Telegram message.
func FormatDailyReport(r *model.Report) string {
	var b strings.Builder
	res := r.Result

	b.WriteString(fmt.Sprintf("🤿 <b>DiveScout</b> | %s | %s\n\n",
		html.EscapeString(r.Location), r.EvaluatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%s <b>%d/100</b> (%s)\n", tierEmoji(res.Tier), res.TotalScore, humanize(res.Tier)))
	b.WriteString(fmt.Sprintf("<i>%s</i>\n\n", html.EscapeString(res.Recommendation)))

	b.WriteString("📋 <b>Factors:</b>\n")
	for _, f := range res.Factors {
		if !f.IsAvailable() {
			b.WriteString(fmt.Sprintf("  %s: ⚠️ %s\n", f.Name, model.UnavailableCommentary))
			continue
		}
		mark := "➖"
		if f.Favorable {
			mark = "✅"
		}
		b.WriteString(fmt.Sprintf("  %s: %.0f/3 (×%.1f) %s %s\n",
			f.Name, f.RawScore, f.Weight, mark, html.EscapeString(f.Commentary)))
	}
	b.WriteString("\n")

	if t := r.Tide; t != nil {
		b.WriteString(fmt.Sprintf("🌊 Tide: %s, amplitude %.2fm, now %.2fm\n", t.Class.Label(), t.Amplitude, t.CurrentHeight))
		if t.Advice.Description != "" {
			b.WriteString(fmt.Sprintf("   %s\n", html.EscapeString(t.Advice.Description)))
		}
		if t.Advice.State != model.TideStateUnknown {
			b.WriteString(fmt.Sprintf("   Water %s\n", strings.ToLower(t.Advice.State.Label())))
		}
	}
	if m := r.Moon; m != nil {
		b.WriteString(fmt.Sprintf("🌙 Moon: %s, %d%% lit\n", humanize(m.Phase), m.Illumination))
		if m.NextFirstQuarter != nil {
			days := int(math.Ceil(m.NextFirstQuarter.Sub(r.EvaluatedAt).Hours() / 24))
			b.WriteString(fmt.Sprintf("   Next first quarter in %d day(s) (%s)\n", days, m.NextFirstQuarter.Format("2006-01-02")))
		}
	}
	if r.Rain != nil && r.RainImpact != nil {
		b.WriteString(fmt.Sprintf("🌧 Rain: %.1fmm over %dh, %s impact\n",
			r.Rain.TotalMM, r.Rain.HoursWithRain, humanize(r.RainImpact.Level)))
	}
	if w := r.Wind; w != nil {
		b.WriteString(fmt.Sprintf("💨 Wind: %.1f km/h from %s (%s)\n", w.SpeedKmh, w.Direction, humanize(w.Intensity)))
	}
	s := r.Season
	if s.Season != "" {
		b.WriteString(fmt.Sprintf("🗓 Season: %s (%s hemisphere)", humanize(s.Season), humanize(s.Hemisphere)))
		if s.DaysUntilSummer > 0 {
			b.WriteString(fmt.Sprintf(", %d day(s) until summer", s.DaysUntilSummer))
		}
		b.WriteString("\n")
	}

	if len(res.NegativeFactors) > 0 {
		b.WriteString("\n👎 <b>Watch out:</b>\n")
		for _, n := range res.NegativeFactors {
			b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(n)))
		}
	}
	if len(res.Warnings) > 0 {
		b.WriteString("\n⚠️ <b>Missing data:</b>\n")
		for _, w := range res.Warnings {
			b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(w)))
		}
	}
	return b.String()
}

// FormatTide formats the day's tide table and advice.
func FormatTide(s *model.DailyTideSummary) string {
	if s == nil {
		return "🌊 No tide data for today."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🌊 <b>Tides</b> | %s\n\n", s.Date.Format("2006-01-02")))
	for _, e := range s.Events {
		kind := "tide"
		switch e.Kind {
		case model.TideHigh:
			kind = "high"
		case model.TideLow:
			kind = "low"
		}
		b.WriteString(fmt.Sprintf("  %s  %-4s %.2fm\n", e.Time.Format("15:04"), kind, e.Height))
	}
	b.WriteString(fmt.Sprintf("\n%s, amplitude %.2fm (%.0f/3)\n", s.Class.Label(), s.Amplitude, s.Score))
	b.WriteString(fmt.Sprintf("Current height: %.2fm", s.CurrentHeight))
	if s.Advice.State != model.TideStateUnknown {
		b.WriteString(fmt.Sprintf(", %s", strings.ToLower(s.Advice.State.Label())))
	}
	b.WriteString("\n")
	if s.Advice.Description != "" {
		b.WriteString(fmt.Sprintf("Diving: %s. %s\n", humanize(s.Advice.Condition), html.EscapeString(s.Advice.Description)))
	}
	return b.String()
}

// FormatHistory formats recent evaluations, newest first.
func FormatHistory(entries []recorder.Entry, loc *time.Location) string {
	if len(entries) == 0 {
		return "📜 No evaluations recorded yet."
	}
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	b.WriteString("📜 <b>Recent evaluations</b>\n\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("  %s  %s %3d (%s)",
			e.EvaluatedAt.In(loc).Format("01-02 15:04"), tierEmoji(e.Tier), e.TotalScore, humanize(e.Tier)))
		if e.TideClass != "" {
			b.WriteString(" · " + e.TideClass.Label())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HelpText lists the supported chat commands.
const HelpText = `🤿 <b>DiveScout commands</b>

/today - evaluate current dive conditions
/tide - today's tide table and advice
/history - recent evaluations
/help - this message`
