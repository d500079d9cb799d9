package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestFineFilterIsZero(t *testing.T) {
	assert.True(t, FineFilter{}.IsZero())

	assert.False(t, FineFilter{PEMin: f64(10)}.IsZero())
	assert.False(t, FineFilter{ChangePctMax: f64(5)}.IsZero())
	assert.False(t, FineFilter{PriceVsSMA50: SMAAbove}.IsZero())
	assert.False(t, FineFilter{NearYearHighPercent: f64(10)}.IsZero())
}

func TestRequiresFundamentals(t *testing.T) {
	tests := []struct {
		name   string
		filter FineFilter
		want   bool
	}{
		{"empty", FineFilter{}, false},
		{"pe min", FineFilter{PEMin: f64(20)}, true},
		{"roce max", FineFilter{ROCEMax: f64(0.4)}, true},
		{"payout ratio", FineFilter{PayoutRatioMin: f64(0.1)}, true},
		{"quote-only change pct", FineFilter{ChangePctMin: f64(-2)}, false},
		{"quote-only avg volume", FineFilter{AvgVolumeMin: f64(1e6)}, false},
		{"quote-only sma", FineFilter{PriceVsSMA200: SMABelow, SMA200Percent: 5}, false},
		{"quote-only proximity", FineFilter{NearYearLowPercent: f64(15)}, false},
		{"mixed", FineFilter{AvgVolumeMin: f64(1e6), DebtEquityMax: f64(1.5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.RequiresFundamentals())
		})
	}
}

func TestSortSpecToggle(t *testing.T) {
	s := DefaultSort
	assert.Equal(t, SortByMarketCap, s.Field)
	assert.Equal(t, SortDesc, s.Direction)

	// Same field flips direction
	s = s.Toggle(SortByMarketCap)
	assert.Equal(t, SortSpec{Field: SortByMarketCap, Direction: SortAsc}, s)

	// Flips back
	s = s.Toggle(SortByMarketCap)
	assert.Equal(t, SortSpec{Field: SortByMarketCap, Direction: SortDesc}, s)

	// New field resets to descending, even from ascending
	s = s.Toggle(SortByMarketCap) // asc again
	s = s.Toggle(SortByPE)
	assert.Equal(t, SortSpec{Field: SortByPE, Direction: SortDesc}, s)
}

func TestMergeQuoteDerivedRatios(t *testing.T) {
	c := EnrichedCandidate{Candidate: Candidate{Symbol: "AAPL"}}
	c.MergeQuote(QuoteRecord{
		Symbol:      "AAPL",
		Price:       110,
		PriceAvg50:  100,
		PriceAvg200: 88,
		YearHigh:    125,
		YearLow:     80,
	})

	assert.InDelta(t, 1.10, *c.PriceToSMA50, 1e-9)
	assert.InDelta(t, 1.25, *c.PriceToSMA200, 1e-9)
	assert.InDelta(t, 0.88, *c.PriceToYearHigh, 1e-9)
	assert.InDelta(t, 1.375, *c.PriceToYearLow, 1e-9)
}

func TestMergeQuoteZeroDenominators(t *testing.T) {
	c := EnrichedCandidate{Candidate: Candidate{Symbol: "NEWIPO"}}
	c.MergeQuote(QuoteRecord{Symbol: "NEWIPO", Price: 25})

	// Quote fields attach, derived ratios stay absent
	assert.NotNil(t, c.QuotePrice)
	assert.Nil(t, c.PriceToSMA50)
	assert.Nil(t, c.PriceToSMA200)
	assert.Nil(t, c.PriceToYearHigh)
	assert.Nil(t, c.PriceToYearLow)
}
