package instrumented

import (
	"github.com/dogmatiq/listkit/internal/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slog"
)

// An Option configures the behavior of a decorator.
type Option func(*config)

type config struct {
	Telemetry telemetry.Provider
}

// WithTracerProvider is an [Option] that sets the OpenTelemetry tracer provider
// used by the decorator.
func WithTracerProvider(p trace.TracerProvider) Option {
	if p == nil {
		panic("tracer provider must not be nil")
	}

	return func(cfg *config) {
		cfg.Telemetry.TracerProvider = p
	}
}

// WithMeterProvider is an [Option] that sets the OpenTelemetry meter provider
// used by the decorator.
func WithMeterProvider(p metric.MeterProvider) Option {
	if p == nil {
		panic("meter provider must not be nil")
	}

	return func(cfg *config) {
		cfg.Telemetry.MeterProvider = p
	}
}

// WithLogger is an [Option] that sets the logger used by the decorator.
//
// Every operation is logged at debug level.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("logger must not be nil")
	}

	return func(cfg *config) {
		cfg.Telemetry.Logger = l
	}
}

// WithAttributes is an [Option] that adds string attributes to all telemetry
// produced by the decorator.
func WithAttributes(kv ...string) Option {
	if len(kv)%2 != 0 {
		panic("attributes must be key/value pairs")
	}

	return func(cfg *config) {
		for i := 0; i < len(kv); i += 2 {
			cfg.Telemetry.Attrs = append(
				cfg.Telemetry.Attrs,
				telemetry.String(kv[i], kv[i+1]),
			)
		}
	}
}

func newConfig(options []Option) config {
	var cfg config
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
