package screener

import (
	"github.com/stockdesk/backend/internal/contracts"
)

// rangeRule is one min/max filter family. value returns nil when the
// candidate is missing the field, which excludes the candidate outright
// (fail-closed): an absent field never passes a bound.
type rangeRule struct {
	name  string
	min   *float64
	max   *float64
	value func(*contracts.EnrichedCandidate) *float64
}

func (r rangeRule) active() bool {
	return r.min != nil || r.max != nil
}

func (r rangeRule) keep(c *contracts.EnrichedCandidate) bool {
	v := r.value(c)
	if v == nil {
		return false
	}
	if r.min != nil && *v < *r.min {
		return false
	}
	if r.max != nil && *v > *r.max {
		return false
	}
	return true
}

func avgVolumeValue(c *contracts.EnrichedCandidate) *float64 {
	if c.AvgVolume == nil {
		return nil
	}
	v := float64(*c.AvgVolume)
	return &v
}

// rangeRules enumerates every range family once, paired with its filter
// bounds. New families are added here instead of growing a switch.
func rangeRules(f contracts.FineFilter) []rangeRule {
	return []rangeRule{
		{"pe", f.PEMin, f.PEMax, func(c *contracts.EnrichedCandidate) *float64 { return c.PE }},
		{"eps", f.EPSMin, f.EPSMax, func(c *contracts.EnrichedCandidate) *float64 { return c.EPS }},
		{"pb", f.PBMin, f.PBMax, func(c *contracts.EnrichedCandidate) *float64 { return c.PB }},
		{"ps", f.PSMin, f.PSMax, func(c *contracts.EnrichedCandidate) *float64 { return c.PS }},
		{"pfcf", f.PFCFMin, f.PFCFMax, func(c *contracts.EnrichedCandidate) *float64 { return c.PFCF }},
		{"peg", f.PEGMin, f.PEGMax, func(c *contracts.EnrichedCandidate) *float64 { return c.PEG }},
		{"evEbitda", f.EVEBITDAMin, f.EVEBITDAMax, func(c *contracts.EnrichedCandidate) *float64 { return c.EVEBITDA }},
		{"dividendYield", f.DividendYieldMin, f.DividendYieldMax, func(c *contracts.EnrichedCandidate) *float64 { return c.DividendYield }},
		{"payoutRatio", f.PayoutRatioMin, f.PayoutRatioMax, func(c *contracts.EnrichedCandidate) *float64 { return c.PayoutRatio }},
		{"grossMargin", f.GrossMarginMin, f.GrossMarginMax, func(c *contracts.EnrichedCandidate) *float64 { return c.GrossMargin }},
		{"operatingMargin", f.OperatingMarginMin, f.OperatingMarginMax, func(c *contracts.EnrichedCandidate) *float64 { return c.OperatingMargin }},
		{"netMargin", f.NetMarginMin, f.NetMarginMax, func(c *contracts.EnrichedCandidate) *float64 { return c.NetMargin }},
		{"roa", f.ROAMin, f.ROAMax, func(c *contracts.EnrichedCandidate) *float64 { return c.ROA }},
		{"roe", f.ROEMin, f.ROEMax, func(c *contracts.EnrichedCandidate) *float64 { return c.ROE }},
		{"roce", f.ROCEMin, f.ROCEMax, func(c *contracts.EnrichedCandidate) *float64 { return c.ROCE }},
		{"currentRatio", f.CurrentRatioMin, f.CurrentRatioMax, func(c *contracts.EnrichedCandidate) *float64 { return c.CurrentRatio }},
		{"quickRatio", f.QuickRatioMin, f.QuickRatioMax, func(c *contracts.EnrichedCandidate) *float64 { return c.QuickRatio }},
		{"cashRatio", f.CashRatioMin, f.CashRatioMax, func(c *contracts.EnrichedCandidate) *float64 { return c.CashRatio }},
		{"debtRatio", f.DebtRatioMin, f.DebtRatioMax, func(c *contracts.EnrichedCandidate) *float64 { return c.DebtRatio }},
		{"debtEquity", f.DebtEquityMin, f.DebtEquityMax, func(c *contracts.EnrichedCandidate) *float64 { return c.DebtEquity }},
		{"interestCoverage", f.InterestCoverageMin, f.InterestCoverageMax, func(c *contracts.EnrichedCandidate) *float64 { return c.InterestCoverage }},
		{"assetTurnover", f.AssetTurnoverMin, f.AssetTurnoverMax, func(c *contracts.EnrichedCandidate) *float64 { return c.AssetTurnover }},
		{"inventoryTurnover", f.InventoryTurnoverMin, f.InventoryTurnoverMax, func(c *contracts.EnrichedCandidate) *float64 { return c.InventoryTurn }},
		{"fcfPerShare", f.FCFPerShareMin, f.FCFPerShareMax, func(c *contracts.EnrichedCandidate) *float64 { return c.FCFPerShare }},
		{"changePct", f.ChangePctMin, f.ChangePctMax, func(c *contracts.EnrichedCandidate) *float64 { return c.ChangePct }},
		{"avgVolume", f.AvgVolumeMin, f.AvgVolumeMax, avgVolumeValue},
	}
}

// smaRule is a directional price-vs-moving-average predicate. The percent
// tolerance converts to a ratio threshold: above requires
// price/avg >= 1+pct/100, below requires price/avg <= 1/(1+pct/100).
type smaRule struct {
	direction contracts.SMADirection
	percent   float64
	ratio     func(*contracts.EnrichedCandidate) *float64
}

func (r smaRule) active() bool {
	return r.direction != contracts.SMAAny
}

func (r smaRule) keep(c *contracts.EnrichedCandidate) bool {
	v := r.ratio(c)
	if v == nil {
		return false
	}
	threshold := 1 + r.percent/100
	switch r.direction {
	case contracts.SMAAbove:
		return *v >= threshold
	case contracts.SMABelow:
		return *v <= 1/threshold
	default:
		return true
	}
}

// proximityRule keeps candidates within percent of a 52-week extreme.
// nearHigh compares price/yearHigh >= 1-pct/100; the low side compares
// price/yearLow <= 1+pct/100.
type proximityRule struct {
	percent  *float64
	nearHigh bool
	ratio    func(*contracts.EnrichedCandidate) *float64
}

func (r proximityRule) active() bool {
	return r.percent != nil
}

func (r proximityRule) keep(c *contracts.EnrichedCandidate) bool {
	v := r.ratio(c)
	if v == nil {
		return false
	}
	if r.nearHigh {
		return *v >= 1-*r.percent/100
	}
	return *v <= 1+*r.percent/100
}

// Filter reduces candidates to those passing every active predicate. It is
// a pure function: the input slice is never mutated and the result is always
// a subset of the input. An empty filter returns the input unchanged.
func Filter(candidates []contracts.EnrichedCandidate, f contracts.FineFilter) []contracts.EnrichedCandidate {
	if f.IsZero() {
		return candidates
	}

	ranges := make([]rangeRule, 0)
	for _, r := range rangeRules(f) {
		if r.active() {
			ranges = append(ranges, r)
		}
	}

	smaRules := []smaRule{
		{f.PriceVsSMA50, f.SMA50Percent, func(c *contracts.EnrichedCandidate) *float64 { return c.PriceToSMA50 }},
		{f.PriceVsSMA200, f.SMA200Percent, func(c *contracts.EnrichedCandidate) *float64 { return c.PriceToSMA200 }},
	}
	proximityRules := []proximityRule{
		{f.NearYearHighPercent, true, func(c *contracts.EnrichedCandidate) *float64 { return c.PriceToYearHigh }},
		{f.NearYearLowPercent, false, func(c *contracts.EnrichedCandidate) *float64 { return c.PriceToYearLow }},
	}

	out := make([]contracts.EnrichedCandidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		// Every active family is evaluated; no family short-circuits the
		// others, so the outcome cannot depend on rule order.
		pass := true
		for _, r := range ranges {
			pass = r.keep(c) && pass
		}
		for _, r := range smaRules {
			if r.active() {
				pass = r.keep(c) && pass
			}
		}
		for _, r := range proximityRules {
			if r.active() {
				pass = r.keep(c) && pass
			}
		}
		if pass {
			out = append(out, candidates[i])
		}
	}
	return out
}
