package telemetry

import (
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// Provider provides Recorder instances scoped to particular containers.
//
// The zero value of a *Provider is equivalent to a provider configured with
// no-op tracer and meter providers and a logger that discards everything.
type Provider struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Logger         *slog.Logger
	Attrs          []Attr
}

// Recorder records traces, metrics and logs for a particular container.
type Recorder struct {
	tracer  trace.Tracer
	meter   metric.Meter
	logger  *slog.Logger
	attrKVs attribute.Set

	errorCount Instrument[int64]
}

// Recorder returns a new Recorder instance.
func (p *Provider) Recorder(attrs ...Attr) *Recorder {
	const pkg = "github.com/dogmatiq/listkit/"

	var (
		tracerProvider trace.TracerProvider
		meterProvider  metric.MeterProvider
		logger         *slog.Logger
	)

	if p != nil {
		tracerProvider = p.TracerProvider
		meterProvider = p.MeterProvider
		logger = p.Logger

		attrs = append(
			slices.Clone(p.Attrs),
			attrs...,
		)
	}

	if tracerProvider == nil {
		tracerProvider = nooptrace.NewTracerProvider()
	}

	if meterProvider == nil {
		meterProvider = noopmetric.NewMeterProvider()
	}

	if logger == nil {
		logger = slog.New(discard{})
	}

	kvs := asAttrKeyValues(attrs)

	r := &Recorder{
		tracer: tracerProvider.Tracer(
			pkg,
			tracerVersion,
			trace.WithInstrumentationAttributes(kvs...),
		),
		meter: meterProvider.Meter(
			pkg,
			meterVersion,
			metric.WithInstrumentationAttributes(kvs...),
		),
		logger:  logger.With(attrsAsAny(asSlogAttrs(attrs))...),
		attrKVs: attribute.NewSet(kvs...),
	}

	r.errorCount = r.Counter("errors", "{error}", "The number of errors that have occurred.")

	return r
}

var (
	// tracerVersion is a TracerOption that sets the instrumentation version
	// to the current version of the module.
	tracerVersion trace.TracerOption

	// meterVersion is a MeterOption that sets the instrumentation version to
	// the current version of the module.
	meterVersion metric.MeterOption
)

func init() {
	const modulePath = "github.com/dogmatiq/listkit"
	version := "unknown"

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				version = dep.Version
				break
			}
		}
	}

	tracerVersion = trace.WithInstrumentationVersion(version)
	meterVersion = metric.WithInstrumentationVersion(version)
}
