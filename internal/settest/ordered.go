package settest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/test"
	"golang.org/x/sync/errgroup"
)

// OrderedSet is a set that can list its nodes in key order.
type OrderedSet interface {
	listkit.Set[int]
	Snapshotter
	Dump() string
}

// RunOrdered runs the tests that only apply to ordered sets.
//
// markOnly must logically delete an element without unlinking it.
func RunOrdered(
	t *testing.T,
	newSet func() OrderedSet,
	markOnly func(OrderedSet, int) bool,
) {
	t.Helper()

	t.Run("it lists elements in key order", func(t *testing.T) {
		t.Parallel()

		s := newSet()
		s.Add(1)
		s.Add(3)
		s.Add(5)

		test.Expect(t, "unexpected dump", s.Dump(), "1 -> 3 -> 5")

		if !markOnly(s, 5) {
			t.Fatal("expected 5 to be marked")
		}

		test.Expect(t, "unexpected dump after marking", s.Dump(), "1 -> 3 -> 5(marked)")

		if s.Contains(5) {
			t.Fatal("did not expect set to contain a marked element")
		}

		if !s.Add(2) {
			t.Fatal("expected 2 to be added")
		}

		test.Expect(t, "unexpected dump after insertion", s.Dump(), "1 -> 2 -> 3 -> 5(marked)")
	})

	t.Run("it stays sorted when inserting into gaps next to deletions", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t, 30*time.Second)

		for round := 0; round < rounds(100); round++ {
			s := newSet()
			if err := interleaveGaps(ctx, s); err != nil {
				t.Fatal(err)
			}
			ExpectSorted(t, s)
		}
	})
}

// interleaveGaps populates s with the odd numbers below 80, then concurrently
// inserts i*10+4 and removes the adjacent i*10+5 for i in [0, Workers).
func interleaveGaps(ctx context.Context, s listkit.Set[int]) error {
	for k := 1; k < 80; k += 2 {
		s.Add(k)
	}

	g, _ := errgroup.WithContext(ctx)
	start := make(chan struct{})

	for i := 0; i < Workers; i++ {
		ins, del := i*10+4, i*10+5

		g.Go(func() error {
			<-start
			if !s.Add(ins) {
				return fmt.Errorf("add %d: expected true", ins)
			}
			return nil
		})

		g.Go(func() error {
			<-start
			if !s.Remove(del) {
				return fmt.Errorf("remove %d: expected true", del)
			}
			return nil
		})
	}

	close(start)

	if err := g.Wait(); err != nil {
		return err
	}

	for i := 0; i < Workers; i++ {
		if !s.Contains(i*10 + 4) {
			return fmt.Errorf("contains %d: expected true", i*10+4)
		}
		if s.Contains(i*10 + 5) {
			return fmt.Errorf("contains %d: expected false", i*10+5)
		}
	}

	return nil
}
