package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/common/config"
)

func TestObservability_Records(t *testing.T) {
	obs, err := New("procurement-test")
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "query-procedures", "completed")
		obs.RecordJobDuration(ctx, "query-procedures", 12*time.Millisecond, "completed")
		obs.RecordQuery(ctx, "price", 800*time.Microsecond)
	})
	assert.NoError(t, obs.Shutdown(ctx))
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	ctx := context.Background()

	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "create-seed", "failed")
		obs.RecordQuery(ctx, "", time.Millisecond)
	})
	assert.NoError(t, obs.Shutdown(ctx))
}

func TestNewTracerProvider_WithoutExporter(t *testing.T) {
	tp, err := NewTracerProvider(config.ObservabilityConfig{ServiceName: "procurement-test"})
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "catalog.query")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, ShutdownTracer(context.Background(), tp))
}
