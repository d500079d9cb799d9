package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/internal/market"
	"github.com/stockdesk/backend/pkg/logger"
)

// MarketHandler serves the fetch-then-render widget endpoints.
type MarketHandler struct {
	service *market.Service
	logger  *logger.Logger
}

func NewMarketHandler(service *market.Service, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		service: service,
		logger:  log,
	}
}

// Movers returns a gainers/losers/actives board.
// GET /api/market/movers/{kind}
func (h *MarketHandler) Movers(w http.ResponseWriter, r *http.Request) {
	kind := contracts.MoverKind(mux.Vars(r)["kind"])

	movers, err := h.service.Movers(r.Context(), kind)
	if err != nil {
		h.logger.WithError(err).WithField("kind", kind).Error("Failed to get movers")
		respondError(w, http.StatusBadGateway, "Failed to retrieve movers")
		return
	}
	respondJSON(w, http.StatusOK, movers)
}

// Quote returns a live quote.
// GET /api/market/quote/{symbol}
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	quote, err := h.service.Quote(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get quote")
		respondError(w, http.StatusBadGateway, "Failed to retrieve quote")
		return
	}
	if quote == nil {
		respondError(w, http.StatusNotFound, "Unknown symbol")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// History returns daily price bars.
// GET /api/market/history/{symbol}?days=N
func (h *MarketHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	bars, err := h.service.History(r.Context(), symbol, days)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get price history")
		respondError(w, http.StatusBadGateway, "Failed to retrieve price history")
		return
	}
	respondJSON(w, http.StatusOK, bars)
}

// News returns recent articles for a symbol.
// GET /api/market/news/{symbol}?limit=N
func (h *MarketHandler) News(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	articles, err := h.service.News(r.Context(), symbol, limit)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get news")
		respondError(w, http.StatusBadGateway, "Failed to retrieve news")
		return
	}
	respondJSON(w, http.StatusOK, articles)
}

// Profile returns the company summary.
// GET /api/market/profile/{symbol}
func (h *MarketHandler) Profile(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	profile, err := h.service.Profile(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get profile")
		respondError(w, http.StatusBadGateway, "Failed to retrieve profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Unknown symbol")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
