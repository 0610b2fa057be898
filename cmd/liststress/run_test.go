package main

import (
	"io"
	"testing"

	"github.com/dogmatiq/listkit/internal/stressconfig"
	"github.com/dogmatiq/listkit/internal/test"
	"github.com/dogmatiq/listkit/internal/tlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/exp/slog"
)

func TestRunner(t *testing.T) {
	t.Parallel()

	r := &runner{
		Config: stressconfig.New([]option{
			func(c *stressconfig.Config) {
				c.Protocol = stressconfig.Lazy
				c.Workers = 4
				c.Keys = 32
				c.Rounds = 500
			},
		}),
		Logger:    tlog.New(t, slog.LevelInfo),
		Histories: 10,
		Seed:      7,
	}

	if err := r.Run(test.Context(t, testTimeout)); err != nil {
		t.Fatal(err)
	}

	if n := testutil.CollectAndCount(r.metrics.Phase); n != 4 {
		t.Fatalf("unexpected number of phases observed: got %d, want 4", n)
	}

	if n := testutil.ToFloat64(r.metrics.Failures); n != 0 {
		t.Fatalf("unexpected number of failures: got %v, want 0", n)
	}

	if n := testutil.ToFloat64(r.metrics.Operations.WithLabelValues("add")); n == 0 {
		t.Fatal("expected the mixed workload to perform adds")
	}

	if n := testutil.ToFloat64(r.metrics.Throughput); n <= 0 {
		t.Fatalf("unexpected throughput: got %v, want > 0", n)
	}
}

func TestRunner_unknownProtocol(t *testing.T) {
	t.Parallel()

	r := &runner{
		Config: stressconfig.Config{Protocol: "skiplist"},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	err := r.Run(test.Context(t, testTimeout))
	if err == nil {
		t.Fatal("expected an error")
	}
}
