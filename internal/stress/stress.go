// Package stress drives concurrent workloads against the containers.
//
// It is used by the tests of every container package and by the liststress
// command.
package stress

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dogmatiq/listkit"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Driver runs workloads against a set of integers.
type Driver struct {
	// Set is the set under test.
	Set listkit.Set[int]

	// Workers is the number of goroutines that run concurrently. If it is
	// zero, a single goroutine is used.
	Workers int

	// Logger is the target for log messages. If it is nil, nothing is logged.
	Logger *slog.Logger
}

// Range is a half-open range of keys, [Begin, End).
type Range struct {
	Begin, End int
}

// Partition splits the keys [0, n) into the given number of contiguous,
// disjoint ranges whose sizes differ by at most one.
func Partition(n, parts int) []Range {
	if parts <= 0 {
		parts = 1
	}

	ranges := make([]Range, 0, parts)
	begin := 0

	for i := 0; i < parts; i++ {
		size := (n - begin) / (parts - i)
		ranges = append(ranges, Range{begin, begin + size})
		begin += size
	}

	return ranges
}

// AddAll adds the keys [0, n) to the set, each worker adding a disjoint
// partition. It fails if any call to Add returns false.
func (d *Driver) AddAll(ctx context.Context, n int) error {
	return d.each(ctx, "add", n, func(k int) error {
		if !d.Set.Add(k) {
			return fmt.Errorf("add %d: element was already a member", k)
		}
		return nil
	})
}

// RemoveAll removes the keys [0, n) from the set, each worker removing a
// disjoint partition. It fails if any call to Remove returns false.
func (d *Driver) RemoveAll(ctx context.Context, n int) error {
	return d.each(ctx, "remove", n, func(k int) error {
		if !d.Set.Remove(k) {
			return fmt.Errorf("remove %d: element was not a member", k)
		}
		return nil
	})
}

// ExpectMembers checks that Contains returns want for every key in [0, n).
func (d *Driver) ExpectMembers(n int, want bool) error {
	for k := 0; k < n; k++ {
		if got := d.Set.Contains(k); got != want {
			return fmt.Errorf("contains %d: got %t, want %t", k, got, want)
		}
	}
	return nil
}

func (d *Driver) each(
	ctx context.Context,
	op string,
	n int,
	fn func(int) error,
) error {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	for _, r := range Partition(n, d.workers()) {
		r := r
		g.Go(func() error {
			for k := r.Begin; k < r.End; k++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(k); err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()

	d.log(
		ctx,
		"parallel "+op+" complete",
		slog.Int("keys", n),
		slog.Int("workers", d.workers()),
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("ok", err == nil),
	)

	return err
}

func (d *Driver) workers() int {
	if d.Workers <= 0 {
		return 1
	}
	return d.Workers
}

func (d *Driver) log(ctx context.Context, msg string, attrs ...slog.Attr) {
	if d.Logger != nil {
		d.Logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
	}
}

// counters records the number of successful mutations of each key.
type counters struct {
	adds, removes []atomic.Int64
}

func newCounters(n int) *counters {
	return &counters{
		adds:    make([]atomic.Int64, n),
		removes: make([]atomic.Int64, n),
	}
}

// verify checks that, for every key, successful adds and removes alternated,
// starting from absence, and that membership matches the final balance.
func (c *counters) verify(s listkit.Set[int]) error {
	for k := range c.adds {
		balance := c.adds[k].Load() - c.removes[k].Load()

		if balance != 0 && balance != 1 {
			return fmt.Errorf(
				"key %d: %d successful adds but %d successful removes",
				k,
				c.adds[k].Load(),
				c.removes[k].Load(),
			)
		}

		if got, want := s.Contains(k), balance == 1; got != want {
			return fmt.Errorf(
				"key %d: contains returned %t after %d adds and %d removes",
				k,
				got,
				c.adds[k].Load(),
				c.removes[k].Load(),
			)
		}
	}

	return nil
}
