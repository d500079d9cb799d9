package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/stockdesk/backend/internal/api/handlers"
	"github.com/stockdesk/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
// SSOT: routing setup happens only in this function.
func NewRouter(
	screenerHandler *handlers.ScreenerHandler,
	marketHandler *handlers.MarketHandler,
	watchlistHandler *handlers.WatchlistHandler,
	hub *StateHub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Screen-state push
	r.HandleFunc("/ws/screener", hub.ServeWS)

	api := r.PathPrefix("/api").Subrouter()

	// Screener pipeline
	api.HandleFunc("/screener/run", screenerHandler.Run).Methods("POST")
	api.HandleFunc("/screener/reset", screenerHandler.Reset).Methods("POST")
	api.HandleFunc("/screener/results", screenerHandler.Results).Methods("GET")
	api.HandleFunc("/screener/sort", screenerHandler.Sort).Methods("POST")
	api.HandleFunc("/screener/state", screenerHandler.State).Methods("GET")

	// Market widgets
	api.HandleFunc("/market/movers/{kind}", marketHandler.Movers).Methods("GET")
	api.HandleFunc("/market/quote/{symbol}", marketHandler.Quote).Methods("GET")
	api.HandleFunc("/market/history/{symbol}", marketHandler.History).Methods("GET")
	api.HandleFunc("/market/news/{symbol}", marketHandler.News).Methods("GET")
	api.HandleFunc("/market/profile/{symbol}", marketHandler.Profile).Methods("GET")

	// Watchlist
	api.HandleFunc("/watchlist", watchlistHandler.List).Methods("GET")
	api.HandleFunc("/watchlist", watchlistHandler.Add).Methods("POST")
	api.HandleFunc("/watchlist/{symbol}", watchlistHandler.Remove).Methods("DELETE")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "stockdesk-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
