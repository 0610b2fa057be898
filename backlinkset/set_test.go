package backlinkset_test

import (
	"testing"
	"time"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/settest"
	"github.com/dogmatiq/listkit/internal/stress"
	"github.com/dogmatiq/listkit/internal/test"
	. "github.com/dogmatiq/listkit/backlinkset"
)

type intSet = Set[int, listkit.IntegerKey[int]]

func TestSet(t *testing.T) {
	t.Parallel()

	settest.Run(
		t,
		settest.Subject{
			New: func() listkit.Set[int] {
				return &intSet{}
			},
			NewWithKey: func(fn listkit.KeyFunc[int]) listkit.Set[int] {
				return &Set[int, listkit.KeyFunc[int]]{Keyer: fn}
			},
			NewPointerSet: func() listkit.Set[*int] {
				return &Set[*int, listkit.KeyFunc[*int]]{
					Keyer: func(p *int) uint64 { return uint64(*p) },
				}
			},
		},
	)

	settest.RunOrdered(
		t,
		func() settest.OrderedSet {
			return &intSet{}
		},
		func(s settest.OrderedSet, e int) bool {
			return s.(*intSet).MarkOnly(e)
		},
	)
}

func TestSet_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("it is empty for the zero value", func(t *testing.T) {
		t.Parallel()

		var s intSet

		if got := s.Dump(); got != "" {
			t.Fatalf("unexpected dump: got %q, want empty", got)
		}
	})

	t.Run("it unlinks a marked element when an operation reaches it", func(t *testing.T) {
		t.Parallel()

		var s intSet
		s.Add(1)
		s.Add(2)
		s.Add(3)
		s.MarkOnly(2)

		s.Add(4)

		if got, want := s.Dump(), "1 -> 2(marked) -> 3 -> 4"; got != want {
			t.Fatalf("unexpected dump: got %q, want %q", got, want)
		}

		s.Add(2)

		if got, want := s.Dump(), "1 -> 2 -> 3 -> 4"; got != want {
			t.Fatalf("unexpected dump: got %q, want %q", got, want)
		}
	})

	t.Run("it orders strings by hash", func(t *testing.T) {
		t.Parallel()

		var s Set[string, listkit.StringKey[string]]
		for _, v := range []string{"alpha", "beta", "gamma"} {
			s.Add(v)
		}

		entries := s.Snapshot()
		if len(entries) != 3 {
			t.Fatalf("unexpected entry count: got %d, want 3", len(entries))
		}

		for i := 1; i < len(entries); i++ {
			if entries[i].Key <= entries[i-1].Key {
				t.Fatalf("entries are not ordered by key: %v", entries)
			}
		}
	})
}

func TestSet_backlinks(t *testing.T) {
	t.Parallel()

	t.Run("it links each inserted node back to its predecessor", func(t *testing.T) {
		t.Parallel()

		var s intSet
		s.Add(1)
		s.Add(5)
		s.Add(3)

		if b, ok := s.Backlink(5); !ok || b != 3 {
			t.Fatalf("unexpected backlink of 5: got %d (%t), want 3", b, ok)
		}
	})

	t.Run("it recovers through the backlink of a deleted predecessor", func(t *testing.T) {
		t.Parallel()

		var s intSet
		for _, v := range []int{1, 2, 3, 4} {
			s.Add(v)
		}

		s.MarkOnly(2)
		s.MarkOnly(3)

		if got, want := s.Dump(), "1 -> 2(marked) -> 3(marked) -> 4"; got != want {
			t.Fatalf("unexpected dump: got %q, want %q", got, want)
		}

		if !s.Remove(4) {
			t.Fatal("expected 4 to be removed")
		}

		if !s.Add(3) {
			t.Fatal("expected 3 to be re-added")
		}

		if got, want := s.Dump(), "1 -> 3"; got != want {
			t.Fatalf("unexpected dump: got %q, want %q", got, want)
		}
	})

	t.Run("it keeps reconciling backlinks under contention", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t, 30*time.Second)

		var s intSet
		d := &stress.Driver{
			Set:     &s,
			Workers: settest.Workers,
		}

		// Eight keys shared by all workers keeps every node near a deletion.
		if _, err := d.Mixed(ctx, 8, 50000, stress.Mix{Add: 50, Remove: 50}, 3); err != nil {
			t.Fatal(err)
		}

		settest.ExpectSorted(t, &s)
	})
}

func BenchmarkSet(b *testing.B) {
	settest.Benchmark(b, func() listkit.Set[int] {
		return &intSet{}
	})
}
