package screener

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/pkg/config"
	"github.com/stockdesk/backend/pkg/logger"
)

// Orchestrator sequences a screen run: coarse fetch, tiered enrichment,
// client filter, sort, pagination. It owns the generation counter and the
// published state. Runs are totally ordered by generation; a later RunScreen
// always wins, and a superseded run's output is dropped at every stage
// boundary without touching shared state.
type Orchestrator struct {
	gateway  contracts.MarketDataGateway
	enricher *Enricher
	logger   *logger.Logger

	pageSize     int
	defaultLimit int

	// generation identifies the currently valid run. Stages capture it at
	// start and compare before committing anything.
	generation atomic.Uint64

	mu       sync.Mutex
	full     []contracts.EnrichedCandidate // filtered and sorted, all pages
	sortSpec contracts.SortSpec
	state    contracts.ScreenState
	subs     map[chan contracts.ScreenState]struct{}
}

func NewOrchestrator(gateway contracts.MarketDataGateway, cfg *config.Config, log *logger.Logger) *Orchestrator {
	o := &Orchestrator{
		gateway:      gateway,
		enricher:     NewEnricher(gateway, log, cfg.Screener.QuoteBatchSize, cfg.Screener.FundamentalsCap),
		logger:       log.Component("screener"),
		pageSize:     cfg.Screener.PageSize,
		defaultLimit: cfg.Screener.DefaultLimit,
		sortSpec:     contracts.DefaultSort,
		subs:         make(map[chan contracts.ScreenState]struct{}),
	}
	o.state = emptyState(o.sortSpec)
	return o
}

func emptyState(spec contracts.SortSpec) contracts.ScreenState {
	return contracts.ScreenState{
		Results:       []contracts.EnrichedCandidate{},
		CurrentPage:   1,
		SortField:     spec.Field,
		SortDirection: spec.Direction,
	}
}

// RunScreen executes the full pipeline. The result is delivered through the
// published state, not the return value; the error return is ErrSuperseded
// when a newer run took over, or the coarse-fetch error after it has been
// published. Callers typically run it on its own goroutine.
func (o *Orchestrator) RunScreen(ctx context.Context, criteria contracts.ScreenCriteria) error {
	gen := o.generation.Add(1)
	stale := func() bool { return o.generation.Load() != gen }

	log := o.logger.WithField("generation", gen)
	log.WithFields(map[string]interface{}{
		"sector":             criteria.Server.Sector,
		"needs_fundamentals": criteria.Client.RequiresFundamentals(),
	}).Info("Screen run started")

	// Previous results stay visible while the new run is in flight; only a
	// completed run (or Reset) replaces them.
	if !o.commit(gen, func(o *Orchestrator) {
		o.state.Loading = true
		o.state.Error = ""
	}) {
		return ErrSuperseded
	}

	coarse := criteria.Server
	if coarse.Limit <= 0 {
		coarse.Limit = o.defaultLimit
	}
	candidates, err := o.gateway.ScreenCandidates(ctx, coarse)
	if stale() {
		return ErrSuperseded
	}
	if err != nil {
		log.WithError(err).Error("Coarse screen failed")
		o.commit(gen, func(o *Orchestrator) {
			o.state.Loading = false
			o.state.Enriching = false
			o.state.Error = err.Error()
		})
		return err
	}
	log.WithField("candidates", len(candidates)).Debug("Coarse screen returned")

	if !o.commit(gen, func(o *Orchestrator) {
		o.state.Loading = false
		o.state.Enriching = true
	}) {
		return ErrSuperseded
	}

	enriched, quotesEnriched, err := o.enricher.Quotes(ctx, candidates, stale)
	if err != nil {
		return err
	}

	fundamentalsEnriched := 0
	if criteria.Client.RequiresFundamentals() {
		fundamentalsEnriched, err = o.enricher.Fundamentals(ctx, enriched, stale)
		if err != nil {
			return err
		}
	}

	filtered := Filter(enriched, criteria.Client)

	o.mu.Lock()
	spec := o.sortSpec
	o.mu.Unlock()
	Sort(filtered, spec)

	if !o.commit(gen, func(o *Orchestrator) {
		o.full = filtered
		o.state.Enriching = false
		o.state.Error = ""
		o.state.QuotesEnriched = quotesEnriched
		o.state.FundamentalsEnriched = fundamentalsEnriched
		o.state.CurrentPage = 1
		o.repageLocked()
	}) {
		return ErrSuperseded
	}

	log.WithFields(map[string]interface{}{
		"results":  len(filtered),
		"quotes":   quotesEnriched,
		"ratios":   fundamentalsEnriched,
		"screened": len(candidates),
	}).Info("Screen run complete")
	return nil
}

// Reset invalidates any in-flight run and clears the published state.
func (o *Orchestrator) Reset() {
	o.generation.Add(1)

	o.mu.Lock()
	o.full = nil
	o.sortSpec = contracts.DefaultSort
	o.state = emptyState(o.sortSpec)
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap)
	o.logger.Debug("Screener state reset")
}

// SetSort toggles the sort selection and re-sorts the held result set.
// Selecting the active field flips direction; a new field starts descending.
// Sorting resets to page 1 and does not re-run the pipeline.
func (o *Orchestrator) SetSort(field contracts.SortField) contracts.SortSpec {
	o.mu.Lock()
	o.sortSpec = o.sortSpec.Toggle(field)
	Sort(o.full, o.sortSpec)
	o.state.SortField = o.sortSpec.Field
	o.state.SortDirection = o.sortSpec.Direction
	o.state.CurrentPage = 1
	o.repageLocked()
	spec := o.sortSpec
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap)
	return spec
}

// SetPage moves to a 1-based page of the current result set. Out-of-range
// pages clamp; nothing is refetched.
func (o *Orchestrator) SetPage(page int) {
	o.mu.Lock()
	o.state.CurrentPage = ClampPage(page, TotalPages(len(o.full), o.pageSize))
	o.repageLocked()
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap)
}

// State returns a snapshot of the published state.
func (o *Orchestrator) State() contracts.ScreenState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Subscribe registers for state snapshots pushed after every change. The
// returned cancel func must be called to release the channel. Slow readers
// miss intermediate snapshots instead of blocking the pipeline.
func (o *Orchestrator) Subscribe() (<-chan contracts.ScreenState, func()) {
	ch := make(chan contracts.ScreenState, 8)

	o.mu.Lock()
	o.subs[ch] = struct{}{}
	o.mu.Unlock()

	cancel := func() {
		o.mu.Lock()
		if _, ok := o.subs[ch]; ok {
			delete(o.subs, ch)
			close(ch)
		}
		o.mu.Unlock()
	}
	return ch, cancel
}

// commit applies fn under the lock only while gen is still current, then
// pushes the new snapshot to subscribers. It returns false when the run has
// been superseded and nothing was mutated.
func (o *Orchestrator) commit(gen uint64, fn func(*Orchestrator)) bool {
	o.mu.Lock()
	if o.generation.Load() != gen {
		o.mu.Unlock()
		return false
	}
	fn(o)
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap)
	return true
}

func (o *Orchestrator) repageLocked() {
	o.state.TotalResults = len(o.full)
	o.state.TotalPages = TotalPages(len(o.full), o.pageSize)
	o.state.Results = Page(o.full, o.state.CurrentPage, o.pageSize)
	if o.state.Results == nil {
		o.state.Results = []contracts.EnrichedCandidate{}
	}
}

func (o *Orchestrator) snapshotLocked() contracts.ScreenState {
	return o.state
}

func (o *Orchestrator) notify(snap contracts.ScreenState) {
	o.mu.Lock()
	for ch := range o.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	o.mu.Unlock()
}
