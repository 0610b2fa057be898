package cowset_test

import (
	"testing"

	"github.com/dogmatiq/listkit"
	. "github.com/dogmatiq/listkit/internal/cowset"
	"github.com/dogmatiq/listkit/internal/settest"
	"github.com/dogmatiq/listkit/internal/test"
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
}

func TestSet_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("it is empty for the zero value", func(t *testing.T) {
		t.Parallel()

		var s intSet

		if got := s.Dump(); got != "" {
			t.Fatalf("unexpected dump: got %q, want empty", got)
		}

		if n := s.Len(); n != 0 {
			t.Fatalf("unexpected length: got %d, want 0", n)
		}
	})

	t.Run("it orders members by key", func(t *testing.T) {
		t.Parallel()

		var s intSet
		for _, e := range []int{5, -1, 3, 1} {
			s.Add(e)
		}
		s.Remove(3)

		test.Expect(
			t,
			"unexpected members",
			s.Dump(),
			"-1 -> 1 -> 5",
		)
	})

	t.Run("it does not modify earlier snapshots", func(t *testing.T) {
		t.Parallel()

		var s intSet
		s.Add(1)
		s.Add(3)

		before := s.Snapshot()

		s.Add(2)
		s.Remove(1)

		test.Expect(
			t,
			"unexpected members in earlier snapshot",
			listkit.FormatEntries(before),
			"1 -> 3",
		)

		test.Expect(
			t,
			"unexpected members",
			s.Dump(),
			"2 -> 3",
		)
	})

	t.Run("it distinguishes elements with equal keys", func(t *testing.T) {
		t.Parallel()

		s := Set[int, listkit.KeyFunc[int]]{
			Keyer: func(e int) uint64 { return uint64(e / 10) },
		}

		s.Add(11)
		s.Add(12)
		s.Add(3)

		if !s.Contains(12) || s.Contains(13) {
			t.Fatal("expected only added elements to be members")
		}

		if !s.Remove(11) || s.Remove(11) {
			t.Fatal("expected exactly one successful remove")
		}

		if n := s.Len(); n != 2 {
			t.Fatalf("unexpected length: got %d, want 2", n)
		}
	})
}

func BenchmarkSet(b *testing.B) {
	settest.Benchmark(
		b,
		func() listkit.Set[int] {
			return &intSet{}
		},
	)
}
