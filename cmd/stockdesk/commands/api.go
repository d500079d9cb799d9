package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockdesk/backend/internal/api"
	"github.com/stockdesk/backend/internal/api/handlers"
	"github.com/stockdesk/backend/internal/external/fmp"
	"github.com/stockdesk/backend/internal/market"
	"github.com/stockdesk/backend/internal/scheduler"
	"github.com/stockdesk/backend/internal/scheduler/jobs"
	"github.com/stockdesk/backend/internal/screener"
	"github.com/stockdesk/backend/internal/watchlist"
	"github.com/stockdesk/backend/pkg/config"
	"github.com/stockdesk/backend/pkg/database"
	"github.com/stockdesk/backend/pkg/httputil"
	"github.com/stockdesk/backend/pkg/logger"
	"github.com/stockdesk/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the dashboard API server",
	Long: `Starts the REST API server the dashboard connects to.

Endpoints:
  GET  /health                      - Health check
  POST /api/screener/run            - Start a screen run
  POST /api/screener/reset          - Clear screen results
  GET  /api/screener/results?page=N - Current result page
  POST /api/screener/sort           - Toggle sort field
  GET  /api/screener/state          - Published screen state
  GET  /ws/screener                 - Screen state push (websocket)
  GET  /api/market/movers/{kind}    - Gainers/losers/actives
  GET  /api/market/quote/{symbol}   - Live quote
  GET  /api/market/history/{symbol} - Daily price bars
  GET  /api/market/news/{symbol}    - Recent articles
  GET  /api/market/profile/{symbol} - Company summary
  GET  /api/watchlist               - Watchlist entries

Example:
  go run ./cmd/stockdesk api
  go run ./cmd/stockdesk api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database (optional: the watchlist degrades without it)
	var watchlistRepo *watchlist.Repository
	if cfg.Database.Enabled && cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		watchlistRepo = watchlist.NewRepository(db.Pool)
		if err := watchlistRepo.EnsureSchema(cmd.Context()); err != nil {
			return fmt.Errorf("prepare watchlist schema: %w", err)
		}
		log.Info("Connected to database")
	} else {
		log.Warn("Database disabled, watchlist endpoints unavailable")
	}

	// 4. Connect to Redis (optional: caching degrades to direct fetches)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "stockdesk")

	// 5. Create the provider gateway
	httpClient := httputil.New(log)
	gateway := fmp.NewClient(cfg, httpClient, log)

	// 6. Create core services
	orchestrator := screener.NewOrchestrator(gateway, cfg, log)
	marketSvc := market.NewService(gateway, gateway, cache, log)

	// 7. Screen-state push hub
	hub := api.NewStateHub(orchestrator, log)
	go hub.Run()
	defer hub.Stop()

	// 8. Background cache warming
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewMoversRefreshJob(marketSvc)); err != nil {
		return fmt.Errorf("schedule movers refresh: %w", err)
	}
	if watchlistRepo != nil {
		if err := sched.AddJob(jobs.NewWatchlistWarmJob(watchlistRepo, marketSvc, log)); err != nil {
			return fmt.Errorf("schedule watchlist warm: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// 9. Router and server
	router := api.NewRouter(
		handlers.NewScreenerHandler(orchestrator, log),
		handlers.NewMarketHandler(marketSvc, log),
		handlers.NewWatchlistHandler(watchlistRepo, log),
		hub,
		log,
	)
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
