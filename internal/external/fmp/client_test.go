package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/pkg/config"
	"github.com/stockdesk/backend/pkg/httputil"
	"github.com/stockdesk/backend/pkg/logger"
)

// newTestClient points a Client at a stub FMP server.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		FMP: config.FMPConfig{
			APIKey:       "test-key",
			BaseURL:      server.URL,
			RequestDelay: 0, // no pacing in tests
		},
	}

	log := logger.NewDiscard()
	client := NewClient(cfg, httputil.New(log).DisableRetry(), log)
	return client, server
}

func TestScreenCandidates(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock-screener", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`[
			{"symbol":"AAPL","companyName":"Apple Inc.","marketCap":2800000000000,"sector":"Technology","industry":"Consumer Electronics","beta":1.28,"price":185.92,"volume":52000000,"exchange":"NASDAQ Global Select","exchangeShortName":"NASDAQ","country":"US","isEtf":false,"isActivelyTrading":true},
			{"symbol":"MSFT","companyName":"Microsoft Corporation","marketCap":2700000000000,"sector":"Technology","industry":"Software","beta":0.93,"price":370.10,"volume":23000000,"exchangeShortName":"NASDAQ","country":"US","isEtf":false,"isActivelyTrading":true}
		]`))
	})

	active := true
	minCap := 1e9
	candidates, err := client.ScreenCandidates(context.Background(), contracts.CoarseFilter{
		Sector:            "Technology",
		MarketCapMin:      &minCap,
		IsActivelyTrading: &active,
		Limit:             500,
	})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "AAPL", candidates[0].Symbol)
	assert.Equal(t, "Apple Inc.", candidates[0].CompanyName)
	assert.Equal(t, "NASDAQ", candidates[0].Exchange)
	assert.True(t, candidates[0].IsActivelyTrading)

	assert.Equal(t, "Technology", gotQuery["sector"])
	assert.Equal(t, "1000000000", gotQuery["marketCapMoreThan"])
	assert.Equal(t, "true", gotQuery["isActivelyTrading"])
	assert.Equal(t, "500", gotQuery["limit"])
	assert.Equal(t, "test-key", gotQuery["apikey"])
	// Unset bounds must not be sent
	_, sent := gotQuery["priceMoreThan"]
	assert.False(t, sent)
}

func TestScreenCandidatesDefaultLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		w.Write([]byte(`[]`))
	})

	candidates, err := client.ScreenCandidates(context.Background(), contracts.CoarseFilter{})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestBatchQuotes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/AAPL,MSFT,GONE", r.URL.Path)
		// Provider resolves only two of the three symbols
		w.Write([]byte(`[
			{"symbol":"AAPL","price":185.92,"changesPercentage":1.2,"dayLow":183.1,"dayHigh":186.4,"yearHigh":199.6,"yearLow":124.2,"priceAvg50":180.5,"priceAvg200":172.3,"volume":52000000,"avgVolume":58000000,"open":184.3,"previousClose":183.7},
			{"symbol":"MSFT","price":370.10,"changesPercentage":-0.4,"priceAvg50":362.0,"priceAvg200":340.0,"yearHigh":384.3,"yearLow":275.4,"volume":23000000,"avgVolume":26000000}
		]`))
	})

	quotes, err := client.BatchQuotes(context.Background(), []string{"AAPL", "MSFT", "GONE"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "AAPL", quotes[0].Symbol)
	assert.InDelta(t, 185.92, quotes[0].Price, 1e-9)
	assert.InDelta(t, 180.5, quotes[0].PriceAvg50, 1e-9)
	assert.Equal(t, int64(58000000), quotes[0].AvgVolume)
}

func TestBatchQuotesEmptyAndOversized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	quotes, err := client.BatchQuotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, quotes)

	symbols := make([]string, MaxQuoteBatch+1)
	for i := range symbols {
		symbols[i] = "SYM"
	}
	_, err = client.BatchQuotes(context.Background(), symbols)
	assert.Error(t, err)
}

func TestFundamentalRatios(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ratios/AAPL", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"symbol":"AAPL","date":"2025-09-27","period":"FY","currentRatio":0.98,"quickRatio":0.94,"cashRatio":0.22,"debtRatio":0.31,"debtEquityRatio":1.79,"interestCoverage":29.1,"grossProfitMargin":0.45,"operatingProfitMargin":0.30,"netProfitMargin":0.25,"returnOnAssets":0.28,"returnOnEquity":1.56,"returnOnCapitalEmployed":0.55,"assetTurnover":1.09,"inventoryTurnover":37.2,"dividendYield":0.0051,"payoutRatio":0.155,"priceEarningsRatio":30.2,"priceToBookRatio":46.1,"priceToSalesRatio":7.6,"priceToFreeCashFlowsRatio":28.4,"priceEarningsToGrowthRatio":2.5,"enterpriseValueMultiple":22.7,"netIncomePerShare":6.13,"freeCashFlowPerShare":6.52}
		]`))
	})

	ratios, err := client.FundamentalRatios(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, ratios)

	assert.InDelta(t, 30.2, ratios.PE, 1e-9)
	assert.InDelta(t, 1.79, ratios.DebtEquity, 1e-9)
	assert.InDelta(t, 6.13, ratios.EPS, 1e-9)
	assert.Equal(t, "FY", ratios.Period)
}

func TestFundamentalRatiosUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ratios, err := client.FundamentalRatios(context.Background(), "NODATA")
	require.NoError(t, err)
	assert.Nil(t, ratios)
}

func TestMovers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock_market/gainers", r.URL.Path)
		w.Write([]byte(`[{"symbol":"XYZ","name":"XYZ Corp","change":4.2,"price":25.3,"changesPercentage":19.9}]`))
	})

	movers, err := client.Movers(context.Background(), contracts.MoverGainers)
	require.NoError(t, err)
	require.Len(t, movers, 1)
	assert.Equal(t, "XYZ", movers[0].Symbol)
	assert.InDelta(t, 19.9, movers[0].ChangePct, 1e-9)
}

func TestMoversUnknownKind(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Movers(context.Background(), contracts.MoverKind("sideways"))
	assert.Error(t, err)
}

func TestStockNews(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock_news", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("tickers"))
		w.Write([]byte(`[{"symbol":"AAPL","publishedDate":"2026-08-27 14:30:00","title":"Apple ships","site":"newswire","text":"<p>Body</p>","url":"https://example.com/a"}]`))
	})

	articles, err := client.StockNews(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Apple ships", articles[0].Title)
	assert.Equal(t, time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC), articles[0].PublishedDate)
}

func TestHistoricalPrices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/historical-price-full/AAPL", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("timeseries"))
		w.Write([]byte(`{"symbol":"AAPL","historical":[{"date":"2026-08-27","open":184.3,"high":186.4,"low":183.1,"close":185.9,"volume":52000000}]}`))
	})

	bars, err := client.HistoricalPrices(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "2026-08-27", bars[0].Date)
	assert.InDelta(t, 185.9, bars[0].Close, 1e-9)
}

func TestProfile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile/AAPL", r.URL.Path)
		w.Write([]byte(`[{"symbol":"AAPL","companyName":"Apple Inc.","sector":"Technology","exchangeShortName":"NASDAQ","mktCap":2800000000000,"isEtf":false}]`))
	})

	profile, err := client.Profile(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Apple Inc.", profile.CompanyName)
	assert.Equal(t, "NASDAQ", profile.Exchange)
}

func TestServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.ScreenCandidates(context.Background(), contracts.CoarseFilter{})
	assert.Error(t, err)
}
