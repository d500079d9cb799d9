package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockdesk/backend/internal/contracts"
)

func peCandidates() []contracts.EnrichedCandidate {
	return []contracts.EnrichedCandidate{
		enrichedWithPE("MID", fptr(20)),
		enrichedWithPE("NONE", nil),
		enrichedWithPE("HIGH", fptr(45)),
		enrichedWithPE("LOW", fptr(8)),
	}
}

func TestSortNumericMissingAlwaysLast(t *testing.T) {
	asc := peCandidates()
	Sort(asc, contracts.SortSpec{Field: contracts.SortByPE, Direction: contracts.SortAsc})
	assert.Equal(t, []string{"LOW", "MID", "HIGH", "NONE"}, symbols(asc))

	desc := peCandidates()
	Sort(desc, contracts.SortSpec{Field: contracts.SortByPE, Direction: contracts.SortDesc})
	assert.Equal(t, []string{"HIGH", "MID", "LOW", "NONE"}, symbols(desc))
}

func TestSortToggleLaw(t *testing.T) {
	spec := contracts.SortSpec{Field: contracts.SortByPE, Direction: contracts.SortDesc}

	once := []contracts.EnrichedCandidate{
		enrichedWithPE("A", fptr(10)),
		enrichedWithPE("B", fptr(30)),
		enrichedWithPE("C", fptr(20)),
	}
	Sort(once, spec)

	twice := make([]contracts.EnrichedCandidate, len(once))
	copy(twice, once)
	Sort(twice, spec.Toggle(contracts.SortByPE))

	want := []string{symbols(once)[2], symbols(once)[1], symbols(once)[0]}
	assert.Equal(t, want, symbols(twice))
}

func TestSortNewFieldResetsDescending(t *testing.T) {
	spec := contracts.SortSpec{Field: contracts.SortByPE, Direction: contracts.SortAsc}
	next := spec.Toggle(contracts.SortByMarketCap)
	assert.Equal(t, contracts.SortByMarketCap, next.Field)
	assert.Equal(t, contracts.SortDesc, next.Direction)
}

func TestSortText(t *testing.T) {
	in := []contracts.EnrichedCandidate{
		{Candidate: contracts.Candidate{Symbol: "MSFT"}},
		{Candidate: contracts.Candidate{Symbol: "AAPL"}},
		{Candidate: contracts.Candidate{Symbol: "GOOG"}},
	}

	Sort(in, contracts.SortSpec{Field: contracts.SortBySymbol, Direction: contracts.SortAsc})
	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"}, symbols(in))

	Sort(in, contracts.SortSpec{Field: contracts.SortBySymbol, Direction: contracts.SortDesc})
	assert.Equal(t, []string{"MSFT", "GOOG", "AAPL"}, symbols(in))
}

func TestSortStable(t *testing.T) {
	in := []contracts.EnrichedCandidate{
		enrichedWithPE("FIRST", fptr(20)),
		enrichedWithPE("SECOND", fptr(20)),
		enrichedWithPE("THIRD", fptr(20)),
	}

	Sort(in, contracts.SortSpec{Field: contracts.SortByPE, Direction: contracts.SortDesc})
	assert.Equal(t, []string{"FIRST", "SECOND", "THIRD"}, symbols(in))
}

func TestSortPriceFallsBackToScreenPrice(t *testing.T) {
	quoted := contracts.EnrichedCandidate{
		Candidate:  contracts.Candidate{Symbol: "QUOTED", Price: 10},
		QuotePrice: fptr(100),
	}
	unquoted := contracts.EnrichedCandidate{
		Candidate: contracts.Candidate{Symbol: "UNQUOTED", Price: 50},
	}

	in := []contracts.EnrichedCandidate{unquoted, quoted}
	Sort(in, contracts.SortSpec{Field: contracts.SortByPrice, Direction: contracts.SortDesc})
	assert.Equal(t, []string{"QUOTED", "UNQUOTED"}, symbols(in))
}

func TestSortUnknownFieldFallsBackToDefault(t *testing.T) {
	in := []contracts.EnrichedCandidate{
		{Candidate: contracts.Candidate{Symbol: "SMALL", MarketCap: 1e9}},
		{Candidate: contracts.Candidate{Symbol: "BIG", MarketCap: 1e12}},
	}

	Sort(in, contracts.SortSpec{Field: contracts.SortField("bogus"), Direction: contracts.SortAsc})
	assert.Equal(t, []string{"BIG", "SMALL"}, symbols(in))
	assert.False(t, IsSortable(contracts.SortField("bogus")))
	assert.True(t, IsSortable(contracts.SortByDividendYield))
}
