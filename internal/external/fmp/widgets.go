package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/stockdesk/backend/internal/contracts"
)

// moverResult is the FMP /stock_market/{gainers,losers,actives} wire shape.
type moverResult struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Change            float64 `json:"change"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
}

// Movers fetches a market-movers list for the dashboard widgets.
func (c *Client) Movers(ctx context.Context, kind contracts.MoverKind) ([]contracts.Mover, error) {
	var path string
	switch kind {
	case contracts.MoverGainers:
		path = "/stock_market/gainers"
	case contracts.MoverLosers:
		path = "/stock_market/losers"
	case contracts.MoverActives:
		path = "/stock_market/actives"
	default:
		return nil, fmt.Errorf("unknown mover kind: %q", kind)
	}

	var raw []moverResult
	if err := c.getJSON(ctx, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("movers %s: %w", kind, err)
	}

	movers := make([]contracts.Mover, 0, len(raw))
	for _, m := range raw {
		movers = append(movers, contracts.Mover{
			Symbol:    m.Symbol,
			Name:      m.Name,
			Price:     m.Price,
			Change:    m.Change,
			ChangePct: m.ChangesPercentage,
		})
	}
	return movers, nil
}

// newsResult is the FMP /stock_news wire shape.
type newsResult struct {
	Symbol        string `json:"symbol"`
	PublishedDate string `json:"publishedDate"`
	Title         string `json:"title"`
	Image         string `json:"image"`
	Site          string `json:"site"`
	Text          string `json:"text"`
	URL           string `json:"url"`
}

// StockNews fetches recent provider news for one symbol. Article text is
// returned as-is; the widget layer strips any embedded markup.
func (c *Client) StockNews(ctx context.Context, symbol string, limit int) ([]contracts.NewsArticle, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("tickers", symbol)
	params.Set("limit", strconv.Itoa(limit))

	var raw []newsResult
	if err := c.getJSON(ctx, "/stock_news", params, &raw); err != nil {
		return nil, fmt.Errorf("stock news for %s: %w", symbol, err)
	}

	articles := make([]contracts.NewsArticle, 0, len(raw))
	for _, n := range raw {
		published, err := time.Parse("2006-01-02 15:04:05", n.PublishedDate)
		if err != nil {
			published = time.Time{}
		}
		articles = append(articles, contracts.NewsArticle{
			Symbol:        n.Symbol,
			Title:         n.Title,
			Text:          n.Text,
			Site:          n.Site,
			URL:           n.URL,
			Image:         n.Image,
			PublishedDate: published,
		})
	}
	return articles, nil
}

// historicalResult is the FMP /historical-price-full wire shape.
type historicalResult struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
	} `json:"historical"`
}

// HistoricalPrices fetches up to days daily bars for one symbol, most
// recent first (provider order).
func (c *Client) HistoricalPrices(ctx context.Context, symbol string, days int) ([]contracts.PriceBar, error) {
	if days <= 0 {
		days = 90
	}

	params := url.Values{}
	params.Set("timeseries", strconv.Itoa(days))

	var raw historicalResult
	if err := c.getJSON(ctx, "/historical-price-full/"+symbol, params, &raw); err != nil {
		return nil, fmt.Errorf("historical prices for %s: %w", symbol, err)
	}

	bars := make([]contracts.PriceBar, 0, len(raw.Historical))
	for _, h := range raw.Historical {
		bars = append(bars, contracts.PriceBar{
			Date:   h.Date,
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		})
	}
	return bars, nil
}

// profileResult is the FMP /profile wire shape.
type profileResult struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	Beta              float64 `json:"beta"`
	MktCap            float64 `json:"mktCap"`
	CompanyName       string  `json:"companyName"`
	Currency          string  `json:"currency"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Industry          string  `json:"industry"`
	Website           string  `json:"website"`
	Description       string  `json:"description"`
	CEO               string  `json:"ceo"`
	Sector            string  `json:"sector"`
	Country           string  `json:"country"`
	IPODate           string  `json:"ipoDate"`
	IsETF             bool    `json:"isEtf"`
}

// Profile fetches the company profile for one symbol. Unknown symbols yield
// (nil, nil).
func (c *Client) Profile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	var raw []profileResult
	if err := c.getJSON(ctx, "/profile/"+symbol, nil, &raw); err != nil {
		return nil, fmt.Errorf("profile for %s: %w", symbol, err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	p := raw[0]
	return &contracts.CompanyProfile{
		Symbol:      p.Symbol,
		CompanyName: p.CompanyName,
		Sector:      p.Sector,
		Industry:    p.Industry,
		Exchange:    p.ExchangeShortName,
		Country:     p.Country,
		Currency:    p.Currency,
		MarketCap:   p.MktCap,
		Beta:        p.Beta,
		Price:       p.Price,
		Description: p.Description,
		Website:     p.Website,
		CEO:         p.CEO,
		IPODate:     p.IPODate,
		IsETF:       p.IsETF,
	}, nil
}
