package redlock

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this package's spans in a trace backend.
const tracerName = "redlock"

// Span names, one per high-level operation.
const (
	spanNameAcquire = "redlock.Acquire"
	spanNameExtend  = "redlock.Extend"
	spanNameRelease = "redlock.Release"
)

// Span attribute keys.
const (
	attrResource = "redlock.resource"
	attrQuorum   = "redlock.quorum"
	attrServers  = "redlock.servers"
	attrAttempt  = "redlock.attempt"
)

// getTracer returns tp's Tracer, falling back to the global
// TracerProvider (a no-op until one is installed) when tp is nil.
func getTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}

// startOperationSpan opens a span for one acquire/extend/release call,
// tagged with the attributes common to all three.
func (c *Coordinator) startOperationSpan(ctx context.Context, name, resource string) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(ctx, name)
	span.SetAttributes(
		attribute.String(attrResource, resource),
		attribute.Int(attrQuorum, c.quorum),
		attribute.Int(attrServers, len(c.servers)),
	)
	return ctx, span
}

// setSpanError records err on span and marks it as failed. A nil err
// is a no-op so callers can pass the result of a fallible step
// unconditionally.
func setSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// setSpanOK marks span as successfully completed.
func setSpanOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
