// Package recorder keeps the history of evaluations.
package recorder

import (
	"time"

	"DiveScout/internal/model"
)

// Entry is one stored evaluation.
type Entry struct {
	ID          string                       `json:"id"`
	EvaluatedAt time.Time                    `json:"evaluated_at"`
	Location    string                       `json:"location"`
	TotalScore  int                          `json:"total_score"`
	Tier        model.Tier                   `json:"tier"`
	TideClass   model.TideClass              `json:"tide_class,omitempty"`
	Factors     map[model.FactorName]float64 `json:"factors"`
	Warnings    []string                     `json:"warnings,omitempty"`
}

// DefaultListLimit caps ListEvaluations when no limit is given.
const DefaultListLimit = 30

// Recorder persists evaluation history for later review.
type Recorder interface {
	// RecordEvaluation stores r, assigning r.ID when empty.
	RecordEvaluation(r *model.Report) error
	// ListEvaluations returns up to limit entries, newest first.
	ListEvaluations(limit int) ([]Entry, error)
	Close() error
}
