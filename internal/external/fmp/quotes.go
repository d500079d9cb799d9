package fmp

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockdesk/backend/internal/contracts"
)

// MaxQuoteBatch is the provider's per-call symbol limit for batched quotes.
const MaxQuoteBatch = 50

// quoteResult is the FMP /quote wire shape.
type quoteResult struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Change            float64 `json:"change"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	YearHigh          float64 `json:"yearHigh"`
	YearLow           float64 `json:"yearLow"`
	MarketCap         float64 `json:"marketCap"`
	PriceAvg50        float64 `json:"priceAvg50"`
	PriceAvg200       float64 `json:"priceAvg200"`
	Volume            int64   `json:"volume"`
	AvgVolume         int64   `json:"avgVolume"`
	Open              float64 `json:"open"`
	PreviousClose     float64 `json:"previousClose"`
}

// BatchQuotes fetches quotes for up to MaxQuoteBatch symbols in one call.
// The provider silently omits symbols it cannot resolve; callers must merge
// by symbol rather than by position.
func (c *Client) BatchQuotes(ctx context.Context, symbols []string) ([]contracts.QuoteRecord, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if len(symbols) > MaxQuoteBatch {
		return nil, fmt.Errorf("batch of %d exceeds provider limit of %d", len(symbols), MaxQuoteBatch)
	}

	path := "/quote/" + strings.Join(symbols, ",")

	var raw []quoteResult
	if err := c.getJSON(ctx, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("batch quotes: %w", err)
	}

	quotes := make([]contracts.QuoteRecord, 0, len(raw))
	for _, q := range raw {
		quotes = append(quotes, contracts.QuoteRecord{
			Symbol:            q.Symbol,
			Price:             q.Price,
			ChangesPercentage: q.ChangesPercentage,
			DayLow:            q.DayLow,
			DayHigh:           q.DayHigh,
			YearLow:           q.YearLow,
			YearHigh:          q.YearHigh,
			PriceAvg50:        q.PriceAvg50,
			PriceAvg200:       q.PriceAvg200,
			Volume:            q.Volume,
			AvgVolume:         q.AvgVolume,
			Open:              q.Open,
			PreviousClose:     q.PreviousClose,
		})
	}

	return quotes, nil
}
