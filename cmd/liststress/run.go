package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/instrumented"
	"github.com/dogmatiq/listkit/internal/cowset"
	"github.com/dogmatiq/listkit/internal/stress"
	"github.com/dogmatiq/listkit/internal/stressconfig"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slog"
)

// runner performs a stress run in phases, each against a fresh container.
type runner struct {
	Config     stressconfig.Config
	Logger     *slog.Logger
	Histories  int
	Instrument bool
	Baseline   bool
	Seed       int64

	// MetricsAddr is the address at which Prometheus metrics are served. If
	// it is empty, metrics are collected but not served.
	MetricsAddr string

	metrics *metrics
}

func (r *runner) Run(ctx context.Context) error {
	logger := r.Logger.With(
		slog.String("run_id", r.Config.RunID.String()),
		slog.String("protocol", string(r.Config.Protocol)),
	)

	r.metrics = newMetrics(prometheus.Labels{
		"protocol": string(r.Config.Protocol),
		"run_id":   r.Config.RunID.String(),
	})

	if r.MetricsAddr != "" {
		stop, err := r.metrics.Serve(ctx, r.MetricsAddr, logger)
		if err != nil {
			return fmt.Errorf("unable to serve metrics: %w", err)
		}
		defer stop()
	}

	logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"stress run started",
		slog.Int("workers", r.Config.Workers),
		slog.Int("keys", r.Config.Keys),
		slog.Int("rounds", r.Config.Rounds),
		slog.String("mix", stressconfig.FormatMix(r.Config.Mix)),
		slog.Int64("seed", r.Seed),
	)

	phases := []struct {
		Name string
		Fn   func(context.Context, *stress.Driver) error
	}{
		{"bulk", r.bulk},
		{"churn", r.churn},
		{"mixed", r.mixed},
		{"histories", r.histories},
	}

	for _, p := range phases {
		d, err := r.driver(p.Name, logger)
		if err != nil {
			return err
		}

		start := time.Now()

		err = p.Fn(ctx, d)
		r.metrics.Phase.WithLabelValues(p.Name).Observe(time.Since(start).Seconds())

		if err != nil {
			r.metrics.Failures.Inc()
			logger.LogAttrs(
				ctx,
				slog.LevelError,
				"stress phase failed",
				slog.String("phase", p.Name),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("%s phase: %w", p.Name, err)
		}

		logger.LogAttrs(
			ctx,
			slog.LevelInfo,
			"stress phase complete",
			slog.String("phase", p.Name),
			slog.String("elapsed", humanize.RelTime(start, time.Now(), "", "")),
			slog.Duration("duration", time.Since(start)),
		)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "stress run complete")

	return nil
}

func (r *runner) driver(phase string, logger *slog.Logger) (*stress.Driver, error) {
	s, err := r.newSet(phase, logger)
	if err != nil {
		return nil, err
	}

	return &stress.Driver{
		Set:     s,
		Workers: r.Config.Workers,
		Logger:  logger.With(slog.String("phase", phase)),
	}, nil
}

func (r *runner) newSet(phase string, logger *slog.Logger) (listkit.Set[int], error) {
	s, err := newSet(r.Config.Protocol)
	if err != nil {
		return nil, err
	}

	if !r.Instrument {
		return s, nil
	}

	return instrumented.NewSet(
		string(r.Config.Protocol),
		s,
		instrumented.WithLogger(logger),
		instrumented.WithAttributes(
			"run_id", r.Config.RunID.String(),
			"phase", phase,
		),
	), nil
}

// bulk adds and then removes every key, with each worker handling a disjoint
// partition.
func (r *runner) bulk(ctx context.Context, d *stress.Driver) error {
	if err := d.AddAll(ctx, r.Config.Keys); err != nil {
		return err
	}

	if err := d.ExpectMembers(r.Config.Keys, true); err != nil {
		return err
	}

	if err := d.RemoveAll(ctx, r.Config.Keys); err != nil {
		return err
	}

	return d.ExpectMembers(r.Config.Keys, false)
}

func (r *runner) churn(ctx context.Context, d *stress.Driver) error {
	return d.Churn(ctx, r.Config.Keys)
}

func (r *runner) mixed(ctx context.Context, d *stress.Driver) error {
	res, err := d.Mixed(ctx, r.Config.Keys, r.Config.Rounds, r.Config.Mix, r.Seed)
	if err != nil {
		return err
	}

	d.Logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"mixed workload throughput",
		slog.String("operations", humanize.Comma(res.Operations)),
		slog.String("throughput", formatThroughput(res.Throughput())),
		slog.String("hit_rate", fmt.Sprintf("%.1f%%", hitRate(res))),
		slog.Int64("adds", res.Adds),
		slog.Int64("removes", res.Removes),
	)

	r.metrics.Operations.WithLabelValues("add").Add(float64(res.Adds))
	r.metrics.Operations.WithLabelValues("remove").Add(float64(res.Removes))
	r.metrics.Operations.WithLabelValues("contains").Add(float64(res.Lookups))
	r.metrics.Throughput.Set(res.Throughput())

	if !r.Baseline {
		return nil
	}

	bd := &stress.Driver{
		Set:     &cowset.Set[int, listkit.IntegerKey[int]]{},
		Workers: d.Workers,
	}

	base, err := bd.Mixed(ctx, r.Config.Keys, r.Config.Rounds, r.Config.Mix, r.Seed)
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}

	d.Logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"copy-on-write baseline throughput",
		slog.String("throughput", formatThroughput(base.Throughput())),
		slog.String("speedup", fmt.Sprintf("%.2fx", speedup(res, base))),
	)

	return nil
}

func speedup(res, base stress.Result) float64 {
	if b := base.Throughput(); b > 0 {
		return res.Throughput() / b
	}
	return 0
}

// histories records short histories of operations on a single contended
// element and checks that each one is linearizable.
func (r *runner) histories(ctx context.Context, d *stress.Driver) error {
	workers := d.Workers
	if workers > 4 {
		workers = 4
	}

	for i := 0; i < r.Histories; i++ {
		s, err := newSet(r.Config.Protocol)
		if err != nil {
			return err
		}

		hd := &stress.Driver{Set: s, Workers: workers}

		h, err := hd.Record(ctx, 0, 6, r.Seed+int64(i))
		if err != nil {
			return err
		}

		if !h.Linearizable(false) {
			return fmt.Errorf("history %d is not linearizable: %s", i, h)
		}
	}

	d.Logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"histories are linearizable",
		slog.String("checked", humanize.Comma(int64(r.Histories))),
	)

	return nil
}

func hitRate(res stress.Result) float64 {
	if res.Lookups == 0 {
		return 0
	}
	return 100 * float64(res.Hits) / float64(res.Lookups)
}
