package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/backend/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     atomic.Int64
	fail     atomic.Bool
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.fail.Load() {
		return errors.New("boom")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	s := New(logger.NewDiscard())
	s.retryDelay = time.Millisecond
	return s
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "warm", schedule: "@hourly"}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job))
	assert.Equal(t, []string{"warm"}, s.Jobs())
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.AddJob(&fakeJob{name: "bad", schedule: "not a cron expr"}))
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "warm", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("warm"))

	require.Eventually(t, func() bool {
		h, err := s.History("warm")
		return err == nil && len(h.Results) == 1
	}, time.Second, 5*time.Millisecond)

	h, err := s.History("warm")
	require.NoError(t, err)
	assert.True(t, h.Results[0].Success)
	assert.Equal(t, 1.0, h.SuccessRate())
}

func TestRunJobRetriesOnFailure(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "flaky", schedule: "@hourly"}
	job.fail.Store(true)
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("flaky"))

	require.Eventually(t, func() bool {
		h, err := s.History("flaky")
		return err == nil && len(h.Results) == 1
	}, time.Second, 5*time.Millisecond)

	// Initial attempt plus maxRetries
	assert.Equal(t, int64(3), job.runs.Load())

	h, _ := s.History("flaky")
	assert.False(t, h.Results[0].Success)
	assert.Contains(t, h.Results[0].Error, "boom")
}

func TestRunJobUnknown(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.RunJob("missing"))
}
