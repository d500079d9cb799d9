package fmp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/stockdesk/backend/internal/contracts"
)

// ratioResult is the FMP /ratios wire shape.
type ratioResult struct {
	Symbol                     string  `json:"symbol"`
	Date                       string  `json:"date"`
	Period                     string  `json:"period"`
	CurrentRatio               float64 `json:"currentRatio"`
	QuickRatio                 float64 `json:"quickRatio"`
	CashRatio                  float64 `json:"cashRatio"`
	DebtRatio                  float64 `json:"debtRatio"`
	DebtEquityRatio            float64 `json:"debtEquityRatio"`
	InterestCoverage           float64 `json:"interestCoverage"`
	GrossProfitMargin          float64 `json:"grossProfitMargin"`
	OperatingProfitMargin      float64 `json:"operatingProfitMargin"`
	NetProfitMargin            float64 `json:"netProfitMargin"`
	ReturnOnAssets             float64 `json:"returnOnAssets"`
	ReturnOnEquity             float64 `json:"returnOnEquity"`
	ReturnOnCapitalEmployed    float64 `json:"returnOnCapitalEmployed"`
	AssetTurnover              float64 `json:"assetTurnover"`
	InventoryTurnover          float64 `json:"inventoryTurnover"`
	DividendYield              float64 `json:"dividendYield"`
	PayoutRatio                float64 `json:"payoutRatio"`
	PriceEarningsRatio         float64 `json:"priceEarningsRatio"`
	PriceToBookRatio           float64 `json:"priceToBookRatio"`
	PriceToSalesRatio          float64 `json:"priceToSalesRatio"`
	PriceToFreeCashFlowsRatio  float64 `json:"priceToFreeCashFlowsRatio"`
	PriceEarningsToGrowthRatio float64 `json:"priceEarningsToGrowthRatio"`
	EnterpriseValueMultiple    float64 `json:"enterpriseValueMultiple"`
	NetIncomePerShare          float64 `json:"netIncomePerShare"`
	FreeCashFlowPerShare       float64 `json:"freeCashFlowPerShare"`
}

// FundamentalRatios fetches the most recent annual ratio snapshot for one
// symbol. A symbol unknown to the provider yields (nil, nil).
func (c *Client) FundamentalRatios(ctx context.Context, symbol string) (*contracts.RatioRecord, error) {
	params := url.Values{}
	params.Set("limit", "1")

	var raw []ratioResult
	if err := c.getJSON(ctx, "/ratios/"+symbol, params, &raw); err != nil {
		return nil, fmt.Errorf("fundamental ratios for %s: %w", symbol, err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	r := raw[0]
	return &contracts.RatioRecord{
		Symbol:           symbol,
		Date:             r.Date,
		Period:           r.Period,
		PE:               r.PriceEarningsRatio,
		PEG:              r.PriceEarningsToGrowthRatio,
		PB:               r.PriceToBookRatio,
		PS:               r.PriceToSalesRatio,
		PFCF:             r.PriceToFreeCashFlowsRatio,
		EVEBITDA:         r.EnterpriseValueMultiple,
		DividendYield:    r.DividendYield,
		PayoutRatio:      r.PayoutRatio,
		GrossMargin:      r.GrossProfitMargin,
		OperatingMargin:  r.OperatingProfitMargin,
		NetMargin:        r.NetProfitMargin,
		ROA:              r.ReturnOnAssets,
		ROE:              r.ReturnOnEquity,
		ROCE:             r.ReturnOnCapitalEmployed,
		CurrentRatio:     r.CurrentRatio,
		QuickRatio:       r.QuickRatio,
		CashRatio:        r.CashRatio,
		DebtRatio:        r.DebtRatio,
		DebtEquity:       r.DebtEquityRatio,
		InterestCoverage: r.InterestCoverage,
		AssetTurnover:    r.AssetTurnover,
		InventoryTurn:    r.InventoryTurnover,
		EPS:              r.NetIncomePerShare,
		FCFPerShare:      r.FreeCashFlowPerShare,
	}, nil
}
