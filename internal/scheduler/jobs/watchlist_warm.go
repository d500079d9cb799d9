package jobs

import (
	"context"
	"fmt"

	"github.com/stockdesk/backend/internal/market"
	"github.com/stockdesk/backend/internal/watchlist"
	"github.com/stockdesk/backend/pkg/logger"
)

// WatchlistWarmJob pre-fetches quotes for every watchlist symbol so the
// pinned tiles render from cache.
type WatchlistWarmJob struct {
	repo    *watchlist.Repository
	service *market.Service
	logger  *logger.Logger
}

func NewWatchlistWarmJob(repo *watchlist.Repository, service *market.Service, log *logger.Logger) *WatchlistWarmJob {
	return &WatchlistWarmJob{
		repo:    repo,
		service: service,
		logger:  log.Component("watchlist-warm"),
	}
}

func (j *WatchlistWarmJob) Name() string {
	return "watchlist-warm"
}

func (j *WatchlistWarmJob) Schedule() string {
	return "30 */2 * * * *"
}

func (j *WatchlistWarmJob) Run(ctx context.Context) error {
	symbols, err := j.repo.Symbols(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist symbols: %w", err)
	}

	failed := 0
	for _, symbol := range symbols {
		if _, err := j.service.Quote(ctx, symbol); err != nil {
			j.logger.WithError(err).WithField("symbol", symbol).Warn("Quote warm failed")
			failed++
		}
	}
	if failed == len(symbols) && failed > 0 {
		return fmt.Errorf("all %d quote warms failed", failed)
	}
	return nil
}
