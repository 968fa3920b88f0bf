package redlock

import (
	"context"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/redlock/internal/xlog"
)

// Coordinator runs the Redlock quorum protocol over an immutable set
// of Server adapters. It holds no mutable state of its own, so it is
// safe to call Acquire/Extend/Release concurrently from many
// goroutines — each call generates its own fencing value and tallies
// its own votes.
type Coordinator struct {
	servers     []Server
	quorum      int
	retryCount  int
	retryDelay  time.Duration
	retryJitter time.Duration
	driftFactor float64
	logger      xlog.Logger
	metrics     *operationMetrics
	tracer      trace.Tracer
}

// New builds a Coordinator over servers. It fails with ErrNoServers if
// servers is empty, or ErrDelayJitter if the configured retry jitter
// exceeds the retry delay.
func New(servers []Server, opts ...Option) (*Coordinator, error) {
	if len(servers) == 0 {
		return nil, ErrNoServers
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.retryJitter > cfg.retryDelay {
		return nil, ErrDelayJitter
	}

	owned := make([]Server, len(servers))
	copy(owned, servers)

	return &Coordinator{
		servers:     owned,
		quorum:      len(owned)/2 + 1,
		retryCount:  cfg.retryCount,
		retryDelay:  cfg.retryDelay,
		retryJitter: cfg.retryJitter,
		driftFactor: cfg.driftFactor,
		logger:      cfg.logger,
		metrics:     newMetrics(cfg.meter),
		tracer:      getTracer(cfg.tracer),
	}, nil
}

// Quorum returns ⌊N/2⌋+1, the minimum number of applied replies a
// single attempt needs to succeed.
func (c *Coordinator) Quorum() int {
	return c.quorum
}

// Len returns the number of configured servers.
func (c *Coordinator) Len() int {
	return len(c.servers)
}

// attempts returns the number of attempts New's configuration allows,
// always at least one even when RetryCount was configured to 0.
func (c *Coordinator) attempts() int {
	if c.retryCount <= 0 {
		return 1
	}
	return c.retryCount
}

// Acquire attempts to take a lease on resource for ttl. Each of up to
// RetryCount attempts generates a fresh random fencing value and fans
// LOCK out to every server in order; the first attempt that gathers a
// quorum of applied replies within a still-valid window wins.
func (c *Coordinator) Acquire(ctx context.Context, resource string, ttl time.Duration) (*Lease, error) {
	ctx, span := c.startOperationSpan(ctx, spanNameAcquire, resource)
	defer span.End()

	start := time.Now()
	for attempt := 0; attempt < c.attempts(); attempt++ {
		if attempt > 0 {
			if err := c.sleepBackoff(ctx); err != nil {
				c.metrics.recordResult(ctx, "acquire", false, time.Since(start))
				setSpanError(span, err)
				return nil, err
			}
		}
		if ctx.Err() != nil {
			c.metrics.recordResult(ctx, "acquire", false, time.Since(start))
			setSpanError(span, ctx.Err())
			return nil, ctx.Err()
		}

		value, err := randomToken()
		if err != nil {
			c.metrics.recordResult(ctx, "acquire", false, time.Since(start))
			setSpanError(span, err)
			return nil, err
		}

		expiration, ok := c.attemptQuorum(ctx, "acquire", resource, value, ttl, opLock)
		if ok {
			c.metrics.recordResult(ctx, "acquire", true, time.Since(start))
			span.SetAttributes(attribute.Int(attrAttempt, attempt+1))
			setSpanOK(span)
			return &Lease{coordinator: c, resource: resource, value: value, expiration: expiration}, nil
		}
	}

	c.metrics.recordResult(ctx, "acquire", false, time.Since(start))
	c.logger.Warn(ctx, "acquire exhausted retries",
		slog.String("resource", resource),
		slog.Int("attempts", c.attempts()))
	span.SetAttributes(attribute.Int(attrAttempt, c.attempts()))
	setSpanError(span, ErrUnableToLock)
	return nil, ErrUnableToLock
}

// extend is the back-reference target of Lease.Extend; see that
// method's doc comment for the public contract.
func (c *Coordinator) extend(ctx context.Context, lease *Lease, newTTL time.Duration) (*Lease, error) {
	// Checked before opening a span: an expired lease never contacts
	// any server, so it shouldn't produce a trace either.
	if !time.Now().Before(lease.expiration) {
		return nil, ErrLockExpired
	}

	ctx, span := c.startOperationSpan(ctx, spanNameExtend, lease.resource)
	defer span.End()

	start := time.Now()
	for attempt := 0; attempt < c.attempts(); attempt++ {
		if attempt > 0 {
			if err := c.sleepBackoff(ctx); err != nil {
				c.metrics.recordResult(ctx, "extend", false, time.Since(start))
				setSpanError(span, err)
				return nil, err
			}
		}
		if ctx.Err() != nil {
			c.metrics.recordResult(ctx, "extend", false, time.Since(start))
			setSpanError(span, ctx.Err())
			return nil, ctx.Err()
		}

		expiration, ok := c.attemptQuorum(ctx, "extend", lease.resource, lease.value, newTTL, opExtend)
		if ok {
			c.metrics.recordResult(ctx, "extend", true, time.Since(start))
			span.SetAttributes(attribute.Int(attrAttempt, attempt+1))
			setSpanOK(span)
			return &Lease{coordinator: c, resource: lease.resource, value: lease.value, expiration: expiration}, nil
		}
	}

	c.metrics.recordResult(ctx, "extend", false, time.Since(start))
	c.logger.Warn(ctx, "extend exhausted retries",
		slog.String("resource", lease.resource),
		slog.Int("attempts", c.attempts()))
	span.SetAttributes(attribute.Int(attrAttempt, c.attempts()))
	setSpanError(span, ErrUnableToExtend)
	return nil, ErrUnableToExtend
}

// release is the back-reference target of Lease.Release.
func (c *Coordinator) release(ctx context.Context, resource, value string) error {
	ctx, span := c.startOperationSpan(ctx, spanNameRelease, resource)
	defer span.End()

	start := time.Now()
	for attempt := 0; attempt < c.attempts(); attempt++ {
		if attempt > 0 {
			if err := c.sleepBackoff(ctx); err != nil {
				c.metrics.recordResult(ctx, "release", false, time.Since(start))
				setSpanError(span, err)
				return err
			}
		}
		if ctx.Err() != nil {
			c.metrics.recordResult(ctx, "release", false, time.Since(start))
			setSpanError(span, ctx.Err())
			return ctx.Err()
		}

		votes, _ := c.fanOut(ctx, "release", resource, value, 0, opUnlock)
		if votes >= c.quorum {
			c.metrics.recordResult(ctx, "release", true, time.Since(start))
			span.SetAttributes(attribute.Int(attrAttempt, attempt+1))
			setSpanOK(span)
			return nil
		}
	}

	c.metrics.recordResult(ctx, "release", false, time.Since(start))
	// Advisory: server-side keys still expire on their own within TTL,
	// so surface the error but don't treat it as fatal to the caller.
	c.logger.Warn(ctx, "release exhausted retries", slog.String("resource", resource))
	span.SetAttributes(attribute.Int(attrAttempt, c.attempts()))
	setSpanError(span, ErrUnableToUnlock)
	return ErrUnableToUnlock
}

// attemptQuorum runs one LOCK/EXTEND attempt and, on failure,
// best-effort unwinds any partial acquisition before returning. It
// implements steps 2-9 of the quorum request algorithm shared by
// acquire and extend.
func (c *Coordinator) attemptQuorum(ctx context.Context, opName, resource, value string, ttl time.Duration, scriptOp op) (time.Time, bool) {
	start := time.Now()
	ttlMillis := toMilliseconds(ttl)
	drift := time.Duration(math.Round(c.driftFactor*float64(ttlMillis)))*time.Millisecond + 2*time.Millisecond

	votes, _ := c.fanOut(ctx, opName, resource, value, ttlMillis, scriptOp)

	now := time.Now()
	expiration := start.Add(ttl).Sub(drift)
	if votes >= c.quorum && expiration.After(now) {
		return expiration, true
	}

	// Best-effort rollback of whatever did apply; ignore every result
	// (including transport errors) since the server-side TTL is the
	// backstop if this can't reach quorum either.
	c.bestEffortRelease(ctx, resource, value)
	return expiration, false
}

// fanOut runs scriptOp against every server in configured order,
// tallying applied replies and transport errors. It aborts early once
// errors exceed quorum, since success is then impossible regardless of
// how the remaining servers would have replied.
func (c *Coordinator) fanOut(ctx context.Context, opName, resource, value string, ttlMillis int64, scriptOp op) (votes, errs int) {
	for _, srv := range c.servers {
		if ctx.Err() != nil {
			break
		}

		out, err := srv.run(ctx, scriptOp, resource, value, ttlMillis)
		c.metrics.recordAttempt(ctx, opName, out)

		if err != nil {
			errs++
			c.logger.Debug(ctx, "server transport error",
				slog.String("server", srv.String()),
				slog.String("operation", opName),
				slog.Any("error", err))
			if errs > c.quorum {
				break
			}
			continue
		}

		if out == outcomeApplied {
			votes++
		}
	}
	return votes, errs
}

// cleanupTimeout bounds the best-effort UNLOCK issued when an attempt
// fails or the caller's context is cancelled mid-acquisition.
const cleanupTimeout = 5 * time.Second

// bestEffortRelease runs UNLOCK against every server for value,
// ignoring every outcome and error.
//
// It derives its own bounded context via context.WithoutCancel(ctx)
// rather than reusing ctx as is: if the caller cancelled ctx to abandon an
// in-flight acquisition, rollback must still run so the resource isn't
// left locked by a value nobody holds a Lease for.
func (c *Coordinator) bestEffortRelease(ctx context.Context, resource, value string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	for _, srv := range c.servers {
		_, _ = srv.run(cleanupCtx, opUnlock, resource, value, 0)
	}
}
