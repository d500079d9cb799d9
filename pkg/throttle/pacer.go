// Package throttle paces outbound calls to the market data provider.
package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer serializes provider calls: at most one caller proceeds at a time,
// with a fixed minimum delay between consecutive calls. SSOT: the provider
// rate limit is enforced only here, never with inline sleeps.
type Pacer struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewPacer creates a pacer with the given minimum gap between calls.
// A non-positive delay disables pacing (useful in tests).
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the caller may issue the next provider call, or the
// context is cancelled. Callers are admitted one at a time.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.limiter.Wait(ctx)
}

// SetDelay retunes the inter-call gap at runtime.
func (p *Pacer) SetDelay(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if delay > 0 {
		p.limiter.SetLimit(rate.Every(delay))
	} else {
		p.limiter.SetLimit(rate.Inf)
	}
}
