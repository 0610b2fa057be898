package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"
)

// metrics are the Prometheus metrics reported by a stress run.
type metrics struct {
	Registry   *prometheus.Registry
	Operations *prometheus.CounterVec
	Phase      *prometheus.HistogramVec
	Throughput prometheus.Gauge
	Failures   prometheus.Counter
}

func newMetrics(labels prometheus.Labels) *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		Registry: reg,
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "liststress_operations_total",
				Help:        "Number of container operations performed by the mixed workload",
				ConstLabels: labels,
			},
			[]string{"operation"},
		),
		Phase: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "liststress_phase_duration_seconds",
				Help:        "Time taken to complete each phase of the run",
				ConstLabels: labels,
				Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"phase"},
		),
		Throughput: factory.NewGauge(
			prometheus.GaugeOpts{
				Name:        "liststress_throughput_ops",
				Help:        "Operations per second achieved by the most recent mixed workload",
				ConstLabels: labels,
			},
		),
		Failures: factory.NewCounter(
			prometheus.CounterOpts{
				Name:        "liststress_phase_failures_total",
				Help:        "Number of phases that failed verification",
				ConstLabels: labels,
			},
		),
	}
}

// Serve exposes the metrics over HTTP at addr until ctx is canceled.
func (m *metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) (func(), error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
			logger.LogAttrs(
				ctx,
				slog.LevelError,
				"metrics server stopped",
				slog.String("error", err.Error()),
			)
		}
	}()

	logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"serving metrics",
		slog.String("address", lis.Addr().String()),
	)

	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
