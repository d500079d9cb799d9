package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/stockdesk/backend/internal/contracts"
)

// screenerResult is the FMP /stock-screener wire shape.
type screenerResult struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	MarketCap         float64 `json:"marketCap"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	Beta              float64 `json:"beta"`
	Price             float64 `json:"price"`
	Volume            int64   `json:"volume"`
	Exchange          string  `json:"exchange"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Country           string  `json:"country"`
	IsETF             bool    `json:"isEtf"`
	IsActivelyTrading bool    `json:"isActivelyTrading"`
}

// ScreenCandidates runs the provider's server-side screen. Results arrive
// ordered by market cap descending, which later stages rely on when capping
// fundamental enrichment.
func (c *Client) ScreenCandidates(ctx context.Context, filter contracts.CoarseFilter) ([]contracts.Candidate, error) {
	params := url.Values{}

	setStr := func(key, val string) {
		if val != "" {
			params.Set(key, val)
		}
	}
	setNum := func(key string, val *float64) {
		if val != nil {
			params.Set(key, strconv.FormatFloat(*val, 'f', -1, 64))
		}
	}
	setBool := func(key string, val *bool) {
		if val != nil {
			params.Set(key, strconv.FormatBool(*val))
		}
	}

	setStr("sector", filter.Sector)
	setStr("industry", filter.Industry)
	setStr("country", filter.Country)
	setStr("exchange", filter.Exchange)

	setNum("marketCapMoreThan", filter.MarketCapMin)
	setNum("marketCapLowerThan", filter.MarketCapMax)
	setNum("priceMoreThan", filter.PriceMin)
	setNum("priceLowerThan", filter.PriceMax)
	setNum("volumeMoreThan", filter.VolumeMin)
	setNum("volumeLowerThan", filter.VolumeMax)
	setNum("betaMoreThan", filter.BetaMin)
	setNum("betaLowerThan", filter.BetaMax)

	setBool("isEtf", filter.IsETF)
	setBool("isFund", filter.IsFund)
	setBool("isActivelyTrading", filter.IsActivelyTrading)

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	params.Set("limit", strconv.Itoa(limit))

	var raw []screenerResult
	if err := c.getJSON(ctx, "/stock-screener", params, &raw); err != nil {
		return nil, fmt.Errorf("screen candidates: %w", err)
	}

	candidates := make([]contracts.Candidate, 0, len(raw))
	for _, r := range raw {
		candidates = append(candidates, contracts.Candidate{
			Symbol:            r.Symbol,
			CompanyName:       r.CompanyName,
			Sector:            r.Sector,
			Industry:          r.Industry,
			Exchange:          r.ExchangeShortName,
			Country:           r.Country,
			MarketCap:         r.MarketCap,
			Beta:              r.Beta,
			Price:             r.Price,
			Volume:            r.Volume,
			IsETF:             r.IsETF,
			IsActivelyTrading: r.IsActivelyTrading,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"count": len(candidates),
		"limit": limit,
	}).Debug("Screener query completed")

	return candidates, nil
}
