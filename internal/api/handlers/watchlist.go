package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stockdesk/backend/internal/watchlist"
	"github.com/stockdesk/backend/pkg/logger"
)

// WatchlistHandler manages the persisted watchlist. All endpoints return
// 503 when the deployment runs without a database.
type WatchlistHandler struct {
	repo   *watchlist.Repository
	logger *logger.Logger
}

func NewWatchlistHandler(repo *watchlist.Repository, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		repo:   repo,
		logger: log,
	}
}

func (h *WatchlistHandler) available(w http.ResponseWriter) bool {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Watchlist requires a database")
		return false
	}
	return true
}

// List returns all watchlist entries.
// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	entries, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve watchlist")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type addWatchlistRequest struct {
	Symbol   string `json:"symbol"`
	Note     string `json:"note"`
	Category string `json:"category"`
}

// Add pins a symbol.
// POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req addWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid watchlist request")
		return
	}

	entry, err := h.repo.Add(r.Context(), req.Symbol, req.Note, req.Category)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", req.Symbol).Error("Failed to add watchlist symbol")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Remove unpins a symbol.
// DELETE /api/watchlist/{symbol}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	symbol := mux.Vars(r)["symbol"]
	removed, err := h.repo.Remove(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to remove watchlist symbol")
		respondError(w, http.StatusInternalServerError, "Failed to remove symbol")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "Symbol not on watchlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
