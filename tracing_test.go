package redlock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTracer_NilProviderFallsBackToGlobal(t *testing.T) {
	tracer := getTracer(nil)
	assert.NotNil(t, tracer)
}

func TestWithTracerProvider_NilIsIgnored(t *testing.T) {
	cfg := defaultConfig()
	WithTracerProvider(nil)(cfg)
	assert.Nil(t, cfg.tracer)
}

func TestAcquireReleaseRoundTrip_WithTracerWired(t *testing.T) {
	servers, _ := newServerCluster(t, 1)
	coord, err := New(servers, append(fastRetryOpts(), WithTracerProvider(nil))...)
	require.NoError(t, err)

	ctx := context.Background()
	lease, err := coord.Acquire(ctx, "R-trace", time.Second)
	require.NoError(t, err)
	require.NoError(t, lease.Release(ctx))
}
