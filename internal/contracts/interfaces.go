package contracts

import (
	"context"
	"time"
)

// MarketDataGateway is the single external data provider the pipeline and
// the widget layer consume. SSOT: every provider operation the backend
// depends on is declared here.
type MarketDataGateway interface {
	// ScreenCandidates runs the provider's coarse server-side screen.
	ScreenCandidates(ctx context.Context, filter CoarseFilter) ([]Candidate, error)

	// BatchQuotes fetches quotes for 1..50 symbols in one call. Symbols the
	// provider cannot resolve are silently omitted from the result.
	BatchQuotes(ctx context.Context, symbols []string) ([]QuoteRecord, error)

	// FundamentalRatios fetches the most recent ratio snapshot for one
	// symbol. Returns nil (not an error) when the provider has no data.
	FundamentalRatios(ctx context.Context, symbol string) (*RatioRecord, error)
}

// MoverKind selects a market-movers list.
type MoverKind string

const (
	MoverGainers MoverKind = "gainers"
	MoverLosers  MoverKind = "losers"
	MoverActives MoverKind = "actives"
)

// Mover is one row of a gainers/losers/actives widget.
type Mover struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"changesPercentage"`
}

// NewsArticle is one provider news item, with Text sanitized to plain text.
type NewsArticle struct {
	Symbol        string    `json:"symbol"`
	Title         string    `json:"title"`
	Text          string    `json:"text"`
	Site          string    `json:"site"`
	URL           string    `json:"url"`
	Image         string    `json:"image"`
	PublishedDate time.Time `json:"publishedDate"`
}

// PriceBar is one daily OHLCV bar of a symbol's price history.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// CompanyProfile backs the company-summary widget.
type CompanyProfile struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	Exchange    string  `json:"exchange"`
	Country     string  `json:"country"`
	Currency    string  `json:"currency"`
	MarketCap   float64 `json:"mktCap"`
	Beta        float64 `json:"beta"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	CEO         string  `json:"ceo"`
	IPODate     string  `json:"ipoDate"`
	IsETF       bool    `json:"isEtf"`
}

// WidgetGateway covers the provider operations behind the thin
// fetch-then-render widgets.
type WidgetGateway interface {
	Movers(ctx context.Context, kind MoverKind) ([]Mover, error)
	StockNews(ctx context.Context, symbol string, limit int) ([]NewsArticle, error)
	HistoricalPrices(ctx context.Context, symbol string, days int) ([]PriceBar, error)
	Profile(ctx context.Context, symbol string) (*CompanyProfile, error)
}
