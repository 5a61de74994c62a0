package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"DiveScout/internal/model"
)

// SQLiteRecorder persists evaluations to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the API can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			location     TEXT,
			total_score  INTEGER,
			tier         TEXT,
			tide_class   TEXT,
			moon_score   REAL,
			season_score REAL,
			rain_score   REAL,
			tide_score   REAL,
			wind_score   REAL,
			warnings     TEXT,
			report       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_ts ON evaluations(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(rep *model.Report) error {
	if rep == nil || rep.Result == nil {
		return fmt.Errorf("record evaluation: empty report")
	}
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	}
	at := rep.EvaluatedAt
	if at.IsZero() {
		at = time.Now()
	}

	scores := make(map[model.FactorName]float64, len(rep.Result.Factors))
	for _, f := range rep.Result.Factors {
		scores[f.Name] = f.RawScore
	}
	var tideClass string
	if rep.Tide != nil {
		tideClass = string(rep.Tide.Class)
	}
	warnings, err := json.Marshal(rep.Result.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO evaluations
		(id, timestamp, location, total_score, tier, tide_class,
		 moon_score, season_score, rain_score, tide_score, wind_score,
		 warnings, report)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rep.ID, at.Unix(), rep.Location, rep.Result.TotalScore, string(rep.Result.Tier), tideClass,
		scores[model.FactorMoon], scores[model.FactorSeason], scores[model.FactorRain],
		scores[model.FactorTide], scores[model.FactorWind],
		string(warnings), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) ListEvaluations(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, location, total_score, tier, tide_class,
		moon_score, season_score, rain_score, tide_score, wind_score, warnings
		FROM evaluations ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                              Entry
			ts                             int64
			tier, tideClass, warnings      string
			moon, season, rain, tide, wind float64
		)
		if err := rows.Scan(&e.ID, &ts, &e.Location, &e.TotalScore, &tier, &tideClass,
			&moon, &season, &rain, &tide, &wind, &warnings); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		e.EvaluatedAt = time.Unix(ts, 0)
		e.Tier = model.Tier(tier)
		e.TideClass = model.TideClass(tideClass)
		e.Factors = map[model.FactorName]float64{
			model.FactorMoon:   moon,
			model.FactorSeason: season,
			model.FactorRain:   rain,
			model.FactorTide:   tide,
			model.FactorWind:   wind,
		}
		if err := json.Unmarshal([]byte(warnings), &e.Warnings); err != nil {
			r.logger.Debug().Err(err).Str("id", e.ID).Msg("bad warnings column")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
