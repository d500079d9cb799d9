package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockdesk/backend/internal/external/fmp"
	"github.com/stockdesk/backend/internal/market"
	"github.com/stockdesk/backend/pkg/config"
	"github.com/stockdesk/backend/pkg/httputil"
	"github.com/stockdesk/backend/pkg/logger"
	"github.com/stockdesk/backend/pkg/redis"
)

// warmCmd refreshes the widget caches once and exits. Useful before market
// open so the dashboard paints from cache immediately.
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Refresh widget caches",
	RunE:  runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !verbose {
		cfg.LogLevel = "warn"
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()
	if !redisClient.Enabled() {
		return fmt.Errorf("redis is disabled, nothing to warm (set REDIS_ENABLED=true)")
	}
	cache := redis.NewCache(redisClient, "stockdesk")

	gateway := fmp.NewClient(cfg, httputil.New(log), log)
	svc := market.NewService(gateway, gateway, cache, log)

	if err := svc.RefreshMovers(cmd.Context()); err != nil {
		return fmt.Errorf("refresh movers: %w", err)
	}
	fmt.Println("Movers caches refreshed")
	return nil
}
