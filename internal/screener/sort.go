package screener

import (
	"sort"
	"strings"

	"github.com/stockdesk/backend/internal/contracts"
)

// numericKeys maps sortable numeric fields to their extractors. A nil
// return means the candidate is missing the value; missing values always
// order after present ones, whichever direction is active.
var numericKeys = map[contracts.SortField]func(*contracts.EnrichedCandidate) *float64{
	contracts.SortByMarketCap: func(c *contracts.EnrichedCandidate) *float64 { v := c.MarketCap; return &v },
	contracts.SortByBeta:      func(c *contracts.EnrichedCandidate) *float64 { v := c.Beta; return &v },
	contracts.SortByPrice:     effectivePrice,
	contracts.SortByVolume:    effectiveVolume,
	contracts.SortByChangePct: func(c *contracts.EnrichedCandidate) *float64 { return c.ChangePct },
	contracts.SortByAvgVolume: avgVolumeValue,
	contracts.SortByPE:        func(c *contracts.EnrichedCandidate) *float64 { return c.PE },
	contracts.SortByDividendYield: func(c *contracts.EnrichedCandidate) *float64 {
		return c.DividendYield
	},
	contracts.SortByYearHigh: func(c *contracts.EnrichedCandidate) *float64 { return c.YearHigh },
	contracts.SortByYearLow:  func(c *contracts.EnrichedCandidate) *float64 { return c.YearLow },
}

var textKeys = map[contracts.SortField]func(*contracts.EnrichedCandidate) string{
	contracts.SortBySymbol:      func(c *contracts.EnrichedCandidate) string { return c.Symbol },
	contracts.SortByCompanyName: func(c *contracts.EnrichedCandidate) string { return c.CompanyName },
	contracts.SortBySector:      func(c *contracts.EnrichedCandidate) string { return c.Sector },
}

// Quote price supersedes the coarse-screen snapshot price when present.
func effectivePrice(c *contracts.EnrichedCandidate) *float64 {
	if c.QuotePrice != nil {
		return c.QuotePrice
	}
	v := c.Price
	return &v
}

func effectiveVolume(c *contracts.EnrichedCandidate) *float64 {
	if c.QuoteVolume != nil {
		v := float64(*c.QuoteVolume)
		return &v
	}
	v := float64(c.Volume)
	return &v
}

// IsSortable reports whether field names a known sortable column.
func IsSortable(field contracts.SortField) bool {
	if _, ok := numericKeys[field]; ok {
		return true
	}
	_, ok := textKeys[field]
	return ok
}

// Sort orders candidates in place, stably, by the given spec. Unknown
// fields fall back to the default sort. Sorting always re-runs in full:
// there is no incremental resort.
func Sort(candidates []contracts.EnrichedCandidate, spec contracts.SortSpec) {
	if !IsSortable(spec.Field) {
		spec = contracts.DefaultSort
	}

	if key, ok := textKeys[spec.Field]; ok {
		sort.SliceStable(candidates, func(i, j int) bool {
			cmp := strings.Compare(key(&candidates[i]), key(&candidates[j]))
			if spec.Direction == contracts.SortAsc {
				return cmp < 0
			}
			return cmp > 0
		})
		return
	}

	key := numericKeys[spec.Field]
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := key(&candidates[i]), key(&candidates[j])
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if spec.Direction == contracts.SortAsc {
			return *a < *b
		}
		return *a > *b
	})
}
