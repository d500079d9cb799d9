package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/backend/internal/api/handlers"
	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/internal/market"
	"github.com/stockdesk/backend/internal/screener"
	"github.com/stockdesk/backend/pkg/config"
	"github.com/stockdesk/backend/pkg/logger"
	"github.com/stockdesk/backend/pkg/redis"
)

type fakeProvider struct {
	candidates []contracts.Candidate
	movers     []contracts.Mover
}

func (f *fakeProvider) ScreenCandidates(ctx context.Context, filter contracts.CoarseFilter) ([]contracts.Candidate, error) {
	return f.candidates, nil
}

func (f *fakeProvider) BatchQuotes(ctx context.Context, symbols []string) ([]contracts.QuoteRecord, error) {
	quotes := make([]contracts.QuoteRecord, len(symbols))
	for i, s := range symbols {
		quotes[i] = contracts.QuoteRecord{Symbol: s, Price: 100}
	}
	return quotes, nil
}

func (f *fakeProvider) FundamentalRatios(ctx context.Context, symbol string) (*contracts.RatioRecord, error) {
	return &contracts.RatioRecord{Symbol: symbol, PE: 25}, nil
}

func (f *fakeProvider) Movers(ctx context.Context, kind contracts.MoverKind) ([]contracts.Mover, error) {
	return f.movers, nil
}

func (f *fakeProvider) StockNews(ctx context.Context, symbol string, limit int) ([]contracts.NewsArticle, error) {
	return nil, nil
}

func (f *fakeProvider) HistoricalPrices(ctx context.Context, symbol string, days int) ([]contracts.PriceBar, error) {
	return nil, nil
}

func (f *fakeProvider) Profile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	return nil, nil
}

func testServer(t *testing.T, provider *fakeProvider) (*httptest.Server, *screener.Orchestrator, *StateHub) {
	t.Helper()

	cfg := &config.Config{
		Screener: config.ScreenerConfig{
			QuoteBatchSize:  50,
			FundamentalsCap: 100,
			PageSize:        50,
			DefaultLimit:    1000,
		},
	}
	log := logger.NewDiscard()

	orchestrator := screener.NewOrchestrator(provider, cfg, log)
	redisClient, err := redis.New(&config.Config{})
	require.NoError(t, err)
	marketSvc := market.NewService(provider, provider, redis.NewCache(redisClient, "test"), log)

	hub := NewStateHub(orchestrator, log)
	go hub.Run()
	t.Cleanup(hub.Stop)

	router := NewRouter(
		handlers.NewScreenerHandler(orchestrator, log),
		handlers.NewMarketHandler(marketSvc, log),
		handlers.NewWatchlistHandler(nil, log),
		hub,
		log,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, orchestrator, hub
}

func awaitResults(t *testing.T, o *screener.Orchestrator, want int) contracts.ScreenState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state := o.State()
		if !state.Loading && !state.Enriching && state.TotalResults == want {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("screen run did not settle at %d results", want)
	return contracts.ScreenState{}
}

func TestHealthEndpoint(t *testing.T) {
	server, _, _ := testServer(t, &fakeProvider{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestScreenerRunAndState(t *testing.T) {
	provider := &fakeProvider{
		candidates: []contracts.Candidate{
			{Symbol: "AAPL", MarketCap: 2.8e12},
			{Symbol: "MSFT", MarketCap: 2.7e12},
		},
	}
	server, orchestrator, _ := testServer(t, provider)

	resp, err := http.Post(server.URL+"/api/screener/run", "application/json",
		strings.NewReader(`{"serverCriteria":{"sector":"Technology"},"clientCriteria":{}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	awaitResults(t, orchestrator, 2)

	resp, err = http.Get(server.URL + "/api/screener/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var state contracts.ScreenState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, 2, state.TotalResults)
	assert.Equal(t, "AAPL", state.Results[0].Symbol)
}

func TestScreenerSortValidation(t *testing.T) {
	server, _, _ := testServer(t, &fakeProvider{})

	resp, err := http.Post(server.URL+"/api/screener/sort", "application/json",
		strings.NewReader(`{"field":"bogus"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(server.URL+"/api/screener/sort", "application/json",
		strings.NewReader(`{"field":"symbol"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestScreenerInvalidCriteria(t *testing.T) {
	server, _, _ := testServer(t, &fakeProvider{})

	resp, err := http.Post(server.URL+"/api/screener/run", "application/json",
		strings.NewReader(`{not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMarketMoversEndpoint(t *testing.T) {
	provider := &fakeProvider{
		movers: []contracts.Mover{{Symbol: "XYZ", ChangePct: 19.9}},
	}
	server, _, _ := testServer(t, provider)

	resp, err := http.Get(server.URL + "/api/market/movers/gainers")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var movers []contracts.Mover
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&movers))
	require.Len(t, movers, 1)
	assert.Equal(t, "XYZ", movers[0].Symbol)

	resp, err = http.Get(server.URL + "/api/market/movers/sideways")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestWatchlistUnavailableWithoutDatabase(t *testing.T) {
	server, _, _ := testServer(t, &fakeProvider{})

	resp, err := http.Get(server.URL + "/api/watchlist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebSocketReceivesStatePush(t *testing.T) {
	provider := &fakeProvider{
		candidates: []contracts.Candidate{{Symbol: "AAPL", MarketCap: 2.8e12}},
	}
	server, orchestrator, hub := testServer(t, provider)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/screener"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Initial snapshot arrives on connect.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var initial contracts.ScreenState
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Zero(t, initial.TotalResults)
	assert.Equal(t, 1, hub.ClientCount())

	require.NoError(t, orchestrator.RunScreen(context.Background(), contracts.ScreenCriteria{}))

	// Read transitions until the completed snapshot shows up.
	for {
		var state contracts.ScreenState
		require.NoError(t, conn.ReadJSON(&state))
		if !state.Loading && !state.Enriching && state.TotalResults == 1 {
			assert.Equal(t, "AAPL", state.Results[0].Symbol)
			return
		}
	}
}
