package redlock

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// operationMetrics records counts and latencies for one high-level
// operation (acquire/extend/release). A nil *operationMetrics is
// valid and every method on it is a no-op, so callers never need to
// nil-check before recording.
type operationMetrics struct {
	attemptsTotal metric.Int64Counter
	resultTotal   metric.Int64Counter
	duration      metric.Float64Histogram
}

// newMetrics builds the three operation recorders from an OpenTelemetry
// meter. Returns nil if meter is nil (metrics disabled, the default —
// this package treats metrics as an external collaborator per its
// scope, so wiring a meter is opt-in).
func newMetrics(meter metric.Meter) *operationMetrics {
	if meter == nil {
		return nil
	}
	attemptsTotal, err := meter.Int64Counter("redlock.attempts.total",
		metric.WithDescription("per-server script invocations across all operations"))
	if err != nil {
		return nil
	}
	resultTotal, err := meter.Int64Counter("redlock.operations.total",
		metric.WithDescription("acquire/extend/release outcomes"))
	if err != nil {
		return nil
	}
	duration, err := meter.Float64Histogram("redlock.operation.duration",
		metric.WithDescription("wall-clock time to resolve an acquire/extend/release call"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil
	}
	return &operationMetrics{attemptsTotal: attemptsTotal, resultTotal: resultTotal, duration: duration}
}

func (m *operationMetrics) recordAttempt(ctx context.Context, opName string, out outcome) {
	if m == nil {
		return
	}
	m.attemptsTotal.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", opName),
			attribute.String("outcome", outcomeLabel(out)),
		))
}

func (m *operationMetrics) recordResult(ctx context.Context, opName string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "failure"
	if ok {
		status = "success"
	}
	m.resultTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("status", status),
	))
	m.duration.Record(ctx, float64(d.Milliseconds()), metric.WithAttributes(
		attribute.String("operation", opName),
	))
}

func outcomeLabel(o outcome) string {
	switch o {
	case outcomeApplied:
		return "applied"
	case outcomeNotApplied:
		return "not-applied"
	default:
		return "transport-error"
	}
}
