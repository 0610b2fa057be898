package markerset_test

import (
	"testing"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/settest"
	. "github.com/dogmatiq/listkit/markerset"
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

	t.Run("it unlinks marked elements that a later search passes", func(t *testing.T) {
		t.Parallel()

		var s intSet
		s.Add(1)
		s.Add(2)
		s.Add(3)
		s.MarkOnly(2)

		if got, want := s.Dump(), "1 -> 2(marked) -> 3"; got != want {
			t.Fatalf("unexpected dump: got %q, want %q", got, want)
		}

		s.Add(4)

		if got, want := s.Dump(), "1 -> 3 -> 4"; got != want {
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

func BenchmarkSet(b *testing.B) {
	settest.Benchmark(b, func() listkit.Set[int] {
		return &intSet{}
	})
}
