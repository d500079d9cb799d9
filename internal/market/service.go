package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/pkg/logger"
	"github.com/stockdesk/backend/pkg/redis"
)

const (
	defaultNewsLimit   = 20
	maxNewsLimit       = 50
	defaultHistoryDays = 90
	maxHistoryDays     = 365 * 5
	defaultMoverRows   = 20
)

// Service backs the thin fetch-then-render dashboard widgets: market
// movers, single-symbol quotes, news, price history, and company profiles.
// Every read goes through the cache; a disabled cache degrades to direct
// provider calls.
type Service struct {
	widgets contracts.WidgetGateway
	market  contracts.MarketDataGateway
	cache   *redis.Cache
	logger  *logger.Logger
}

func NewService(widgets contracts.WidgetGateway, market contracts.MarketDataGateway, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{
		widgets: widgets,
		market:  market,
		cache:   cache,
		logger:  log.Component("market"),
	}
}

// Movers returns the gainers, losers, or actives board.
func (s *Service) Movers(ctx context.Context, kind contracts.MoverKind) ([]contracts.Mover, error) {
	switch kind {
	case contracts.MoverGainers, contracts.MoverLosers, contracts.MoverActives:
	default:
		return nil, fmt.Errorf("unknown movers kind %q", kind)
	}

	var movers []contracts.Mover
	err := s.cache.GetOrSet(ctx, redis.MoversKey(string(kind)), &movers, redis.TTLShort, func() (interface{}, error) {
		rows, err := s.widgets.Movers(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", kind, err)
		}
		if len(rows) > defaultMoverRows {
			rows = rows[:defaultMoverRows]
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return movers, nil
}

// Quote returns a live quote for one symbol, or nil when the provider does
// not recognize it.
func (s *Service) Quote(ctx context.Context, symbol string) (*contracts.QuoteRecord, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	var quotes []contracts.QuoteRecord
	err = s.cache.GetOrSet(ctx, redis.QuoteKey(symbol), &quotes, redis.TTLShort, func() (interface{}, error) {
		return s.market.BatchQuotes(ctx, []string{symbol})
	})
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	return &quotes[0], nil
}

// News returns the latest articles for a symbol with article bodies
// flattened to plain text.
func (s *Service) News(ctx context.Context, symbol string, limit int) ([]contracts.NewsArticle, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultNewsLimit
	}
	if limit > maxNewsLimit {
		limit = maxNewsLimit
	}

	var articles []contracts.NewsArticle
	err = s.cache.GetOrSet(ctx, redis.NewsKey(symbol), &articles, redis.TTLMedium, func() (interface{}, error) {
		raw, err := s.widgets.StockNews(ctx, symbol, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
		}
		for i := range raw {
			raw[i].Title = SanitizeHTML(raw[i].Title)
			raw[i].Text = SanitizeHTML(raw[i].Text)
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// History returns up to days of daily OHLCV bars, most recent first.
func (s *Service) History(ctx context.Context, symbol string, days int) ([]contracts.PriceBar, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	var bars []contracts.PriceBar
	err = s.cache.GetOrSet(ctx, redis.HistoryKey(symbol, days), &bars, redis.TTLDaily, func() (interface{}, error) {
		return s.widgets.HistoricalPrices(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// Profile returns the company summary for one symbol, or nil when the
// provider has no profile.
func (s *Service) Profile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	var profiles []contracts.CompanyProfile
	err = s.cache.GetOrSet(ctx, redis.ProfileKey(symbol), &profiles, redis.TTLLong, func() (interface{}, error) {
		p, err := s.widgets.Profile(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("fetch profile for %s: %w", symbol, err)
		}
		if p == nil {
			return []contracts.CompanyProfile{}, nil
		}
		p.Description = SanitizeHTML(p.Description)
		return []contracts.CompanyProfile{*p}, nil
	})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// RefreshMovers repopulates all three movers boards, for the scheduled
// cache-warming job.
func (s *Service) RefreshMovers(ctx context.Context) error {
	for _, kind := range []contracts.MoverKind{contracts.MoverGainers, contracts.MoverLosers, contracts.MoverActives} {
		if err := s.cache.Delete(ctx, redis.MoversKey(string(kind))); err != nil {
			s.logger.WithError(err).WithField("kind", kind).Warn("Movers cache invalidation failed")
		}
		if _, err := s.Movers(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("symbol is required")
	}
	return symbol, nil
}
