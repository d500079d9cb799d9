package screener

import (
	"context"
	"errors"

	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/pkg/logger"
)

// ErrSuperseded reports that a newer run took over while this one was in
// flight. It is control flow, not a failure, and is never published.
var ErrSuperseded = errors.New("screen run superseded")

// Enricher attaches the fields the coarse query cannot return. Quote
// enrichment runs over the full candidate set in fixed batches; the
// per-symbol fundamental pass is capped and only runs when a fundamental
// filter needs it.
type Enricher struct {
	gateway         contracts.MarketDataGateway
	logger          *logger.Logger
	batchSize       int
	fundamentalsCap int
}

func NewEnricher(gateway contracts.MarketDataGateway, log *logger.Logger, batchSize, fundamentalsCap int) *Enricher {
	return &Enricher{
		gateway:         gateway,
		logger:          log.Component("enricher"),
		batchSize:       batchSize,
		fundamentalsCap: fundamentalsCap,
	}
}

// Quotes runs tier-1 enrichment: one gateway call per batch, sequentially.
// A failed batch is logged and skipped; its candidates keep empty quote
// fields and the run continues. stale is checked before every gateway call;
// once it reports true the pass aborts with ErrSuperseded.
func (e *Enricher) Quotes(ctx context.Context, candidates []contracts.Candidate, stale func() bool) ([]contracts.EnrichedCandidate, int, error) {
	enriched := make([]contracts.EnrichedCandidate, len(candidates))
	bySymbol := make(map[string]*contracts.EnrichedCandidate, len(candidates))
	for i, c := range candidates {
		enriched[i] = contracts.EnrichedCandidate{Candidate: c}
		bySymbol[c.Symbol] = &enriched[i]
	}

	merged := 0
	for start := 0; start < len(candidates); start += e.batchSize {
		end := start + e.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		symbols := make([]string, 0, end-start)
		for _, c := range candidates[start:end] {
			symbols = append(symbols, c.Symbol)
		}

		if stale() {
			return nil, 0, ErrSuperseded
		}
		quotes, err := e.gateway.BatchQuotes(ctx, symbols)
		if err != nil {
			e.logger.WithError(err).WithFields(map[string]interface{}{
				"batch_start": start,
				"batch_size":  len(symbols),
			}).Warn("Quote batch failed, candidates keep empty quote fields")
			continue
		}
		for _, q := range quotes {
			if c, ok := bySymbol[q.Symbol]; ok {
				c.MergeQuote(q)
				merged++
			}
		}
	}
	return enriched, merged, nil
}

// Fundamentals runs tier-2 enrichment in place over the first
// fundamentalsCap candidates, one call per symbol, sequentially. A
// per-symbol failure is swallowed: that candidate's fundamental fields stay
// empty and any active fundamental filter will exclude it later.
func (e *Enricher) Fundamentals(ctx context.Context, candidates []contracts.EnrichedCandidate, stale func() bool) (int, error) {
	limit := len(candidates)
	if e.fundamentalsCap > 0 && limit > e.fundamentalsCap {
		limit = e.fundamentalsCap
	}

	merged := 0
	for i := 0; i < limit; i++ {
		if stale() {
			return 0, ErrSuperseded
		}
		ratios, err := e.gateway.FundamentalRatios(ctx, candidates[i].Symbol)
		if err != nil {
			e.logger.WithError(err).WithField("symbol", candidates[i].Symbol).
				Warn("Ratio fetch failed, skipping symbol")
			continue
		}
		if ratios == nil {
			continue
		}
		candidates[i].MergeRatios(*ratios)
		merged++
	}

	if limit < len(candidates) {
		e.logger.WithFields(map[string]interface{}{
			"enriched": limit,
			"total":    len(candidates),
		}).Debug("Fundamental enrichment capped")
	}
	return merged, nil
}
