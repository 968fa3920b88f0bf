package redlock

import (
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/redlock/internal/xlog"
)

// Default configuration values: retry_count=10, retry_delay=400ms,
// retry_jitter=400ms, drift_factor=0.01. There is no default server:
// New always takes a caller-supplied server list and returns
// ErrNoServers when it is empty.
const (
	DefaultRetryCount  = 10
	DefaultRetryDelay  = 400 * time.Millisecond
	DefaultRetryJitter = 400 * time.Millisecond
	DefaultDriftFactor = 0.01
)

// config holds a Coordinator's immutable tuning parameters.
type config struct {
	retryCount  int
	retryDelay  time.Duration
	retryJitter time.Duration
	driftFactor float64
	logger      xlog.Logger
	meter       metric.Meter
	tracer      trace.TracerProvider
}

func defaultConfig() *config {
	return &config{
		retryCount:  DefaultRetryCount,
		retryDelay:  DefaultRetryDelay,
		retryJitter: DefaultRetryJitter,
		driftFactor: DefaultDriftFactor,
		logger:      xlog.Default(),
	}
}

// Option configures a Coordinator at construction time.
type Option func(*config)

// WithRetryCount sets the maximum number of attempts per high-level
// operation (acquire/extend/release). Must be >= 0; negative values
// are ignored and the default of 10 is kept. n == 0 is honored as-is
// and means a single attempt with no retries, not "use the default" —
// Coordinator.attempts() clamps any non-positive retryCount to 1.
func WithRetryCount(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.retryCount = n
		}
	}
}

// WithRetryDelay sets the base duration between retry attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithRetryJitter sets the maximum jitter magnitude added to (or
// subtracted from) RetryDelay between attempts. New returns
// ErrDelayJitter if this ends up larger than RetryDelay.
func WithRetryJitter(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.retryJitter = d
		}
	}
}

// WithDriftFactor sets the fractional allowance for clock skew between
// the client and the servers; it discounts the lease validity window.
// Typical value: 0.01.
func WithDriftFactor(f float64) Option {
	return func(c *config) {
		if f >= 0 {
			c.driftFactor = f
		}
	}
}

// WithLogger overrides the structured logger used for internal
// diagnostics (retry exhaustion, per-server transport errors). Passing
// nil is ignored and the default, xlog.Default() (stderr, Info level),
// is kept.
func WithLogger(l xlog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMeterProvider wires an OpenTelemetry meter so acquire/extend/
// release counts and durations are recorded. Passing nil disables
// metrics (the default).
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meter = mp.Meter("redlock")
		}
	}
}

// WithTracerProvider wires an OpenTelemetry TracerProvider so
// acquire/extend/release each produce a span covering their full
// retry loop. Passing nil is ignored; with no TracerProvider
// configured, New falls back to the global TracerProvider (a no-op
// until one is installed), matching WithMeterProvider's opt-in shape.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracer = tp
		}
	}
}
