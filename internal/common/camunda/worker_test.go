// internal/common/camunda/worker_test.go
package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/common/metrics"
)

func TestInstrument(t *testing.T) {
	called := false
	handler := Instrument("instrument-test", func(_ worker.JobClient, job entities.Job) {
		called = true
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues("instrument-test")))
		assert.Equal(t, int64(42), job.Key)
	}, nil)

	handler(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42}})

	assert.True(t, called)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues("instrument-test")))
}

func TestRetryWithBackoff(t *testing.T) {
	rc := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	log := logger.NewTestLogger(t)

	t.Run("succeeds after failures", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("unavailable")
			}
			return nil
		}, rc, log, "connect")

		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up", func(t *testing.T) {
		boom := errors.New("unavailable")
		attempts := 0
		err := RetryWithBackoff(context.Background(), func() error {
			attempts++
			return boom
		}, rc, log, "connect")

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour}
		err := RetryWithBackoff(ctx, func() error { return errors.New("unavailable") }, slow, log, "connect")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
