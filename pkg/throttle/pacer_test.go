package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerSpacing(t *testing.T) {
	p := NewPacer(20 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(ctx))
	}
	elapsed := time.Since(start)

	// First call is admitted immediately, the next two wait one gap each.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestPacerDisabled(t *testing.T) {
	p := NewPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPacerCancelled(t *testing.T) {
	p := NewPacer(time.Hour)
	ctx := context.Background()
	require.NoError(t, p.Wait(ctx))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, p.Wait(cancelled))
}
