package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"DiveScout/internal/model"
	"DiveScout/internal/scoring"
)

// TideTable reads tide extremes from a local JSON tide table of the form
// [{"year":2025,"month":1,"day":6,"time":"03:12","height":1.2}, ...].
// Times are wall-clock times at the dive site.
type TideTable struct {
	Path string
	Loc  *time.Location

	mu     sync.Mutex
	events []model.TideEvent
}

// NewTideTable creates a table source. The file is read on first use.
func NewTideTable(path string, loc *time.Location) *TideTable {
	if loc == nil {
		loc = time.UTC
	}
	return &TideTable{Path: path, Loc: loc}
}

func (t *TideTable) Name() string { return "tide-table" }

type tideRow struct {
	Year   int      `json:"year"`
	Month  int      `json:"month"`
	Day    int      `json:"day"`
	Time   string   `json:"time"`
	Height *float64 `json:"height"`
}

func (t *TideTable) load() ([]model.TideEvent, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.events != nil {
		return t.events, nil
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("read tide table: %w", err)
	}
	var rows []tideRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: tide table %s: %v", ErrMalformedResponse, t.Path, err)
	}

	events := make([]model.TideEvent, 0, len(rows))
	for i, r := range rows {
		clock, err := time.Parse("15:04", r.Time)
		if err != nil || r.Height == nil || r.Month < 1 || r.Month > 12 || r.Day < 1 || r.Day > 31 {
			return nil, fmt.Errorf("%w: tide table row %d", ErrMalformedResponse, i)
		}
		at := time.Date(r.Year, time.Month(r.Month), r.Day, clock.Hour(), clock.Minute(), 0, 0, t.Loc)
		events = append(events, model.TideEvent{Time: at, Height: *r.Height})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	t.events = events
	return events, nil
}

// FetchTides returns the table rows within [from, to].
func (t *TideTable) FetchTides(_ context.Context, from, to time.Time) ([]model.TideEvent, error) {
	all, err := t.load()
	if err != nil {
		return nil, err
	}
	var out []model.TideEvent
	for _, e := range all {
		if e.Time.Before(from) || e.Time.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// MoonTable reads quarter-phase instants from a local JSON table of the form
// [{"phase":"Crescente","date":"2025-01-06T20:56:00"}, ...]. Dates without
// an offset are wall-clock times at the dive site.
type MoonTable struct {
	Path string
	Loc  *time.Location

	mu      sync.Mutex
	entries []moonEntry
}

type moonEntry struct {
	Phase model.MoonPhase
	At    time.Time
}

// NewMoonTable creates a table source. The file is read on first use.
func NewMoonTable(path string, loc *time.Location) *MoonTable {
	if loc == nil {
		loc = time.UTC
	}
	return &MoonTable{Path: path, Loc: loc}
}

func (m *MoonTable) Name() string { return "moon-table" }

func (m *MoonTable) parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, m.Loc)
}

func (m *MoonTable) load() ([]moonEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries != nil {
		return m.entries, nil
	}

	data, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, fmt.Errorf("read moon table: %w", err)
	}
	var rows []struct {
		Phase string `json:"phase"`
		Date  string `json:"date"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: moon table %s: %v", ErrMalformedResponse, m.Path, err)
	}

	entries := make([]moonEntry, 0, len(rows))
	for i, r := range rows {
		phase, ok := scoring.ParseTablePhase(r.Phase)
		if !ok {
			return nil, fmt.Errorf("%w: moon table row %d: unknown phase %q", ErrMalformedResponse, i, r.Phase)
		}
		at, err := m.parseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: moon table row %d: %v", ErrMalformedResponse, i, err)
		}
		entries = append(entries, moonEntry{Phase: phase, At: at})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].At.Before(entries[j].At) })
	m.entries = entries
	return entries, nil
}

// maxQuarterSpan is the longest gap between consecutive quarter phases.
const maxQuarterSpan = 8 * 24 * time.Hour

// FetchMoon returns the most recent table phase at or before at, plus the
// next first quarter after at when the table has one.
func (m *MoonTable) FetchMoon(_ context.Context, at time.Time) (*model.MoonReading, error) {
	entries, err := m.load()
	if err != nil {
		return nil, err
	}

	var current *moonEntry
	var nextFirst *time.Time
	for i := range entries {
		e := entries[i]
		if !e.At.After(at) {
			current = &entries[i]
			continue
		}
		if e.Phase == model.MoonFirstQuarter {
			nextFirst = &e.At
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("moon table: %s is before the first entry", at.Format(time.RFC3339))
	}
	if current == &entries[len(entries)-1] && at.Sub(current.At) > maxQuarterSpan {
		return nil, fmt.Errorf("moon table: %s is past the last entry", at.Format(time.RFC3339))
	}

	return &model.MoonReading{
		Phase:            current.Phase,
		Illumination:     scoring.PhaseIllumination(current.Phase),
		Since:            current.At,
		NextFirstQuarter: nextFirst,
		Source:           m.Name(),
	}, nil
}
