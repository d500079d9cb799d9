// Package fmp implements the Financial Modeling Prep market data gateway.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/stockdesk/backend/pkg/config"
	"github.com/stockdesk/backend/pkg/httputil"
	"github.com/stockdesk/backend/pkg/logger"
	"github.com/stockdesk/backend/pkg/throttle"
)

// Client handles communication with the FMP API.
// SSOT: every FMP call goes through this client, and every call passes the
// pacer, so the provider's rate limit is enforced in exactly one place.
type Client struct {
	httpClient *httputil.Client
	pacer      *throttle.Pacer
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new FMP client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		pacer:      throttle.NewPacer(cfg.FMP.RequestDelay),
		logger:     log.Component("fmp"),
		baseURL:    strings.TrimRight(cfg.FMP.BaseURL, "/"),
		apiKey:     cfg.FMP.APIKey,
	}
}

// getJSON performs one paced GET against the FMP API and decodes the JSON
// response into dest.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return fmt.Errorf("pacer wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
