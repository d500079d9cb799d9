package jobs

import (
	"context"

	"github.com/stockdesk/backend/internal/market"
)

// MoversRefreshJob keeps the gainers/losers/actives boards warm so the
// dashboard renders them without waiting on the provider.
type MoversRefreshJob struct {
	service *market.Service
}

func NewMoversRefreshJob(service *market.Service) *MoversRefreshJob {
	return &MoversRefreshJob{service: service}
}

func (j *MoversRefreshJob) Name() string {
	return "movers-refresh"
}

// Every five minutes during the trading day is plenty for a one-minute TTL
// board plus on-demand refresh.
func (j *MoversRefreshJob) Schedule() string {
	return "0 */5 * * * *"
}

func (j *MoversRefreshJob) Run(ctx context.Context) error {
	return j.service.RefreshMovers(ctx)
}
