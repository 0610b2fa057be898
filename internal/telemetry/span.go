package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span represents a single named and timed operation.
type Span struct {
	span trace.Span
}

// StartSpan starts a new span.
func (r *Recorder) StartSpan(
	ctx context.Context,
	name string,
	attrs ...Attr,
) (context.Context, *Span) {
	ctx, span := r.tracer.Start(
		ctx,
		name,
		trace.WithAttributes(asAttrKeyValues(attrs)...),
	)

	return ctx, &Span{span}
}

// End completes the span.
func (s *Span) End() {
	s.span.End()
}

// SetAttributes sets attributes on the span.
func (s *Span) SetAttributes(attrs ...Attr) {
	s.span.SetAttributes(asAttrKeyValues(attrs)...)
}

// SetError marks the span as failed.
func (s *Span) SetError(err error) {
	s.span.SetStatus(codes.Error, err.Error())
	s.span.RecordError(err)
}
