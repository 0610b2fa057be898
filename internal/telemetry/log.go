package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slog"
)

// Debug logs a debug message to the log and as a span event.
func (r *Recorder) Debug(
	ctx context.Context,
	event, message string,
	attrs ...Attr,
) {
	r.recordEvent(ctx, slog.LevelDebug, event, message, nil, attrs)
}

// Error logs an error message to the log and as a span event.
//
// It marks the span as an error and increments the "errors" metric.
func (r *Recorder) Error(
	ctx context.Context,
	event string,
	err error,
	attrs ...Attr,
) {
	r.recordEvent(ctx, slog.LevelError, event, err.Error(), err, attrs)
	r.errorCount(ctx, 1)

	span := trace.SpanFromContext(ctx)
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}

func (r *Recorder) recordEvent(
	ctx context.Context,
	level slog.Level,
	event, message string,
	err error,
	attrs []Attr,
) {
	if !r.logger.Enabled(ctx, level) {
		return
	}

	span := trace.SpanFromContext(ctx)
	span.AddEvent(
		event,
		trace.WithAttributes(attribute.String("message", message)),
		trace.WithAttributes(asAttrKeyValues(attrs)...),
	)

	kvs := asSlogAttrs(attrs)
	kvs = append(kvs, slog.String("event", event))

	if err != nil {
		kvs = append(kvs, slog.String("error", err.Error()))
	}

	r.logger.LogAttrs(ctx, level, message, kvs...)
}

// discard is a [slog.Handler] that drops every record.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

func attrsAsAny(attrs []slog.Attr) []any {
	values := make([]any, len(attrs))
	for i, a := range attrs {
		values[i] = a
	}
	return values
}
