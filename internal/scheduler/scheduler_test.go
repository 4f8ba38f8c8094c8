// internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/common/logger"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.err
}

func TestScheduler_RunOnce(t *testing.T) {
	ok := &countingRefresher{}
	s := New(ok, "@every 6h", 0, logger.NewTestLogger(t))
	assert.True(t, s.RunOnce(context.Background()))
	assert.Equal(t, int32(1), ok.calls.Load())

	failing := &countingRefresher{err: errors.New("source down")}
	s = New(failing, "@every 6h", 0, logger.NewTestLogger(t))
	assert.False(t, s.RunOnce(context.Background()))
}

func TestScheduler_RunOnceTimeout(t *testing.T) {
	slow := &countingRefresher{delay: time.Second}
	s := New(slow, "@every 6h", 20*time.Millisecond, logger.NewTestLogger(t))

	start := time.Now()
	assert.False(t, s.RunOnce(context.Background()))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(&countingRefresher{}, "every six hours", 0, logger.NewTestLogger(t))

	err := s.Start(context.Background())
	assert.Error(t, err)
}

func TestScheduler_TicksUntilStopped(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, "@every 1s", 0, logger.NewTestLogger(t))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	s.Stop()
	after := r.calls.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, after, r.calls.Load())
}
