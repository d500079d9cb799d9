package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/internal/screener"
	"github.com/stockdesk/backend/pkg/logger"
)

// ScreenerHandler drives the screening pipeline over HTTP. Runs are
// asynchronous: POST /run kicks one off and results arrive through the
// state endpoint or the websocket push.
type ScreenerHandler struct {
	orchestrator *screener.Orchestrator
	logger       *logger.Logger
}

func NewScreenerHandler(orchestrator *screener.Orchestrator, log *logger.Logger) *ScreenerHandler {
	return &ScreenerHandler{
		orchestrator: orchestrator,
		logger:       log,
	}
}

// Run starts a screen run.
// POST /api/screener/run
func (h *ScreenerHandler) Run(w http.ResponseWriter, r *http.Request) {
	var criteria contracts.ScreenCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid screen criteria")
		return
	}

	// Detached from the request context: closing the HTTP request must not
	// cancel the run, only a newer run or reset may supersede it.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		err := h.orchestrator.RunScreen(ctx, criteria)
		if err != nil && !errors.Is(err, screener.ErrSuperseded) {
			h.logger.WithError(err).Warn("Screen run failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, h.orchestrator.State())
}

// Reset invalidates any in-flight run and clears results.
// POST /api/screener/reset
func (h *ScreenerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.Reset()
	respondJSON(w, http.StatusOK, h.orchestrator.State())
}

// Results returns the current page, optionally after switching pages.
// GET /api/screener/results?page=N
func (h *ScreenerHandler) Results(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid page number")
			return
		}
		h.orchestrator.SetPage(page)
	}
	respondJSON(w, http.StatusOK, h.orchestrator.State())
}

type sortRequest struct {
	Field contracts.SortField `json:"field"`
}

// Sort toggles the sort selection.
// POST /api/screener/sort
func (h *ScreenerHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid sort request")
		return
	}
	if !screener.IsSortable(req.Field) {
		respondError(w, http.StatusBadRequest, "Unknown sort field")
		return
	}

	h.orchestrator.SetSort(req.Field)
	respondJSON(w, http.StatusOK, h.orchestrator.State())
}

// State returns the published screen state.
// GET /api/screener/state
func (h *ScreenerHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orchestrator.State())
}
