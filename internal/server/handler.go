package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"DiveScout/internal/model"
	"DiveScout/internal/recorder"
	"DiveScout/internal/tide"
)

// maxHistoryLimit bounds /v1/history?limit.
const maxHistoryLimit = 365

// Service is the evaluation pipeline the handlers serve.
type Service interface {
	Evaluate(ctx context.Context) (*model.Report, error)
	TideToday(ctx context.Context) (*model.DailyTideSummary, error)
	History(limit int) ([]recorder.Entry, error)
	Latest() *model.Report
}

// Handler handles HTTP requests for dive conditions.
type Handler struct {
	svc Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// GetConditions handles GET /v1/conditions.
func (h *Handler) GetConditions(c *gin.Context) {
	report, err := h.svc.Evaluate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetTideToday handles GET /v1/tides/today.
func (h *Handler) GetTideToday(c *gin.Context) {
	summary, err := h.svc.TideToday(c.Request.Context())
	if errors.Is(err, tide.ErrNoTideData) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HistoryResponse is the body of GET /v1/history.
type HistoryResponse struct {
	Count   int              `json:"count"`
	Entries []recorder.Entry `json:"entries"`
}

// GetHistory handles GET /v1/history?limit=N.
func (h *Handler) GetHistory(c *gin.Context) {
	limit := recorder.DefaultListLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q: want 1..%d", s, maxHistoryLimit)})
			return
		}
		limit = n
	}

	entries, err := h.svc.History(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []recorder.Entry{}
	}
	c.JSON(http.StatusOK, HistoryResponse{Count: len(entries), Entries: entries})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if r := h.svc.Latest(); r != nil {
		body["last_evaluation"] = r.EvaluatedAt.UTC().Format(time.RFC3339)
		body["last_score"] = r.Result.TotalScore
	}
	c.JSON(http.StatusOK, body)
}
