package stress

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Mix is the proportion of each operation in a mixed workload, expressed in
// percent. Contains receives whatever remains after Add and Remove.
type Mix struct {
	Add, Remove int
}

// DefaultMix is a write-heavy mix that keeps the set about half full.
var DefaultMix = Mix{Add: 40, Remove: 40}

// Result summarizes a mixed workload.
type Result struct {
	Operations int64
	Adds       int64
	Removes    int64
	Lookups    int64
	Hits       int64
	Elapsed    time.Duration
}

// Throughput returns the number of operations per second.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Operations) / r.Elapsed.Seconds()
}

// Mixed runs ops operations per worker, choosing keys from [0, n) at random and
// operations according to mix. Every worker contends for the same keys.
//
// After all workers finish it verifies that the successful adds and removes of
// each key alternated and that membership agrees with them.
func (d *Driver) Mixed(
	ctx context.Context,
	n, ops int,
	mix Mix,
	seed int64,
) (Result, error) {
	var (
		c     = newCounters(n)
		start = time.Now()
		tally = make([]Result, d.workers())
	)

	g, ctx := errgroup.WithContext(ctx)

	for w := range tally {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(w)))
			res := &tally[w]

			for i := 0; i < ops; i++ {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}

				k := rng.Intn(n)
				res.Operations++

				switch p := rng.Intn(100); {
				case p < mix.Add:
					if d.Set.Add(k) {
						c.adds[k].Add(1)
						res.Adds++
					}
				case p < mix.Add+mix.Remove:
					if d.Set.Remove(k) {
						c.removes[k].Add(1)
						res.Removes++
					}
				default:
					res.Lookups++
					if d.Set.Contains(k) {
						res.Hits++
					}
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total Result
	for _, r := range tally {
		total.Operations += r.Operations
		total.Adds += r.Adds
		total.Removes += r.Removes
		total.Lookups += r.Lookups
		total.Hits += r.Hits
	}
	total.Elapsed = time.Since(start)

	d.log(
		ctx,
		"mixed workload complete",
		slog.Int("keys", n),
		slog.Int("workers", d.workers()),
		slog.Int64("operations", total.Operations),
		slog.Duration("elapsed", total.Elapsed),
	)

	return total, c.verify(d.Set)
}

// Churn runs one adder and one remover per partition of [0, n) concurrently,
// each sweeping its partition once. The outcome of individual calls is
// unpredictable, so only the per-key balance is verified afterwards.
func (d *Driver) Churn(ctx context.Context, n int) error {
	c := newCounters(n)
	g, ctx := errgroup.WithContext(ctx)

	for _, r := range Partition(n, d.workers()) {
		r := r

		g.Go(func() error {
			for k := r.Begin; k < r.End; k++ {
				if d.Set.Add(k) {
					c.adds[k].Add(1)
				}
			}
			return ctx.Err()
		})

		g.Go(func() error {
			for k := r.Begin; k < r.End; k++ {
				if d.Set.Remove(k) {
					c.removes[k].Add(1)
				}
			}
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return c.verify(d.Set)
}
