package instrumented

import (
	"context"
	"fmt"
	"time"

	"github.com/dogmatiq/listkit/internal/telemetry"
)

// observer records the telemetry for a single decorated container.
type observer struct {
	rec        *telemetry.Recorder
	operations telemetry.Instrument[int64]
	inflight   telemetry.Instrument[int64]
	duration   telemetry.Instrument[float64]
}

func newObserver(name, kind string, elem telemetry.Attr, options []Option) *observer {
	cfg := newConfig(options)

	rec := cfg.Telemetry.Recorder(
		telemetry.String("container.name", name),
		telemetry.String("container.kind", kind),
		elem,
	)

	return &observer{
		rec: rec,
		operations: rec.Counter(
			"container.operations",
			"{operation}",
			"The number of operations that have been performed.",
		),
		inflight: rec.UpDownCounter(
			"container.operations.inflight",
			"{operation}",
			"The number of operations that are currently in progress.",
		),
		duration: rec.Histogram(
			"container.operation.duration",
			"s",
			"The time taken to perform each operation.",
		),
	}
}

// observe calls fn, which performs the operation named op, and records its
// outcome. A panic raised by fn is logged and then re-raised.
func (o *observer) observe(op string, fn func() bool) (ok bool) {
	attr := telemetry.String("operation", op)

	ctx, span := o.rec.StartSpan(context.Background(), "listkit."+op, attr)
	defer span.End()

	o.inflight(ctx, 1, attr)
	defer o.inflight(ctx, -1, attr)

	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err, isErr := r.(error)
			if !isErr {
				err = fmt.Errorf("%v", r)
			}

			span.SetError(err)
			o.rec.Error(ctx, "container.operation.panicked", err, attr)

			panic(r)
		}
	}()

	ok = fn()
	elapsed := time.Since(start)

	result := telemetry.Bool("result", ok)

	o.operations(ctx, 1, attr, result)
	o.duration(ctx, elapsed.Seconds(), attr)
	span.SetAttributes(result)

	o.rec.Debug(
		ctx,
		"container.operation.completed",
		"container operation completed",
		attr,
		result,
		telemetry.Duration("elapsed", elapsed),
	)

	return ok
}
