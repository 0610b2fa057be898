// Package settest is a conformance suite for implementations of [listkit.Set].
package settest

import (
	"fmt"
	"testing"
	"time"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/stress"
	"github.com/dogmatiq/listkit/internal/test"
	"github.com/dogmatiq/listkit/internal/tlog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"pgregory.net/rapid"
)

const (
	// Workers is the number of goroutines used by the concurrent tests.
	Workers = 8

	// Keys is the number of distinct elements used by the bulk tests.
	Keys = 512
)

// Subject describes the implementation under test.
type Subject struct {
	// New returns an empty set that orders integers numerically.
	New func() listkit.Set[int]

	// NewWithKey returns an empty set that derives sort keys using fn.
	NewWithKey func(fn listkit.KeyFunc[int]) listkit.Set[int]

	// NewPointerSet returns an empty set of pointers.
	NewPointerSet func() listkit.Set[*int]
}

// Snapshotter is implemented by sets that can list their nodes in order.
type Snapshotter interface {
	Snapshot() []listkit.Entry[int]
}

// Run runs the suite against the given subject.
func Run(t *testing.T, sub Subject) {
	t.Helper()

	t.Run("sequential", func(t *testing.T) {
		t.Parallel()

		t.Run("it adds, finds and removes every key in turn", func(t *testing.T) {
			t.Parallel()

			s := sub.New()

			for k := 0; k < Keys; k++ {
				if !s.Add(k) {
					t.Fatalf("add %d: expected true", k)
				}
			}

			for k := 0; k < Keys; k++ {
				if !s.Contains(k) {
					t.Fatalf("contains %d: expected true", k)
				}
			}

			for k := 0; k < Keys; k++ {
				if !s.Remove(k) {
					t.Fatalf("remove %d: expected true", k)
				}
			}

			for k := 0; k < Keys; k++ {
				if s.Contains(k) {
					t.Fatalf("contains %d: expected false", k)
				}
			}
		})

		t.Run("it rejects duplicate adds and removes", func(t *testing.T) {
			t.Parallel()

			s := sub.New()

			test.Expect(t, "unexpected result from first add", s.Add(42), true)
			test.Expect(t, "unexpected result from second add", s.Add(42), false)
			test.Expect(t, "unexpected result from first remove", s.Remove(42), true)
			test.Expect(t, "unexpected result from second remove", s.Remove(42), false)
			test.Expect(t, "unexpected result from re-add", s.Add(42), true)
		})

		t.Run("it accepts negative and extreme values", func(t *testing.T) {
			t.Parallel()

			s := sub.New()
			values := []int{0, -1, 1, minInt, maxInt}

			for _, v := range values {
				if !s.Add(v) {
					t.Fatalf("add %d: expected true", v)
				}
			}

			for _, v := range values {
				if !s.Contains(v) {
					t.Fatalf("contains %d: expected true", v)
				}
			}

			expectConsistent(t, s, values...)
		})

		t.Run("it distinguishes elements with equal keys", func(t *testing.T) {
			t.Parallel()

			s := sub.NewWithKey(func(v int) uint64 {
				return uint64(v / 4)
			})

			for v := 0; v < 64; v++ {
				if !s.Add(v) {
					t.Fatalf("add %d: expected true", v)
				}
			}

			for v := 1; v < 64; v += 4 {
				if !s.Remove(v) {
					t.Fatalf("remove %d: expected true", v)
				}
			}

			for v := 0; v < 64; v++ {
				want := v%4 != 1
				if got := s.Contains(v); got != want {
					t.Fatalf("contains %d: got %t, want %t", v, got, want)
				}
			}

			for v := 1; v < 64; v += 4 {
				if !s.Add(v) {
					t.Fatalf("re-add %d: expected true", v)
				}
				if s.Add(v + 1) {
					t.Fatalf("add %d: expected false", v+1)
				}
			}
		})

		t.Run("it panics when passed a nil element", func(t *testing.T) {
			t.Parallel()

			s := sub.NewPointerSet()

			test.ExpectPanic(t, listkit.ErrInvalidArgument, func() { s.Add(nil) })
			test.ExpectPanic(t, listkit.ErrInvalidArgument, func() { s.Remove(nil) })
			test.ExpectPanic(t, listkit.ErrInvalidArgument, func() { s.Contains(nil) })

			v := 1
			if !s.Add(&v) {
				t.Fatal("expected non-nil pointer to be added")
			}
			if !s.Contains(&v) {
				t.Fatal("expected set to contain non-nil pointer")
			}
		})
	})

	t.Run("concurrent", func(t *testing.T) {
		t.Parallel()

		t.Run("it does not lose concurrent adds", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t, 30*time.Second)
			d := driver(t, sub.New())

			if err := d.AddAll(ctx, Keys); err != nil {
				t.Fatal(err)
			}

			if err := d.ExpectMembers(Keys, true); err != nil {
				t.Fatal(err)
			}

			expectConsistent(t, d.Set, keys(Keys)...)
		})

		t.Run("it does not remove any element twice", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t, 30*time.Second)
			d := driver(t, sub.New())

			for k := 0; k < Keys; k++ {
				d.Set.Add(k)
			}

			if err := d.RemoveAll(ctx, Keys); err != nil {
				t.Fatal(err)
			}

			if err := d.ExpectMembers(Keys, false); err != nil {
				t.Fatal(err)
			}

			expectConsistent(t, d.Set)
		})

		t.Run("it balances adds and removes of the same elements", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t, 30*time.Second)
			d := driver(t, sub.New())

			for round := 0; round < rounds(20); round++ {
				if err := d.Churn(ctx, Keys); err != nil {
					t.Fatal(err)
				}

				remaining := members(d.Set, Keys)
				expectConsistent(t, d.Set, remaining...)

				for _, k := range remaining {
					d.Set.Remove(k)
				}
			}
		})

		t.Run("it balances a mixed workload on a small key space", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t, 30*time.Second)
			d := driver(t, sub.New())

			if _, err := d.Mixed(ctx, 32, rounds(20000), stress.DefaultMix, 1); err != nil {
				t.Fatal(err)
			}

			expectConsistent(t, d.Set, members(d.Set, 32)...)
		})

		t.Run("it balances a mixed workload when keys collide", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t, 30*time.Second)
			d := driver(t, sub.NewWithKey(func(v int) uint64 {
				return uint64(v / 8)
			}))

			if _, err := d.Mixed(ctx, 64, rounds(20000), stress.DefaultMix, 2); err != nil {
				t.Fatal(err)
			}

			expectConsistent(t, d.Set, members(d.Set, 64)...)
		})

		t.Run("it produces linearizable histories for a single element", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t, 30*time.Second)

			for round := 0; round < rounds(200); round++ {
				s := sub.New()
				s.Add(6)
				s.Add(8)

				d := &stress.Driver{
					Set:     s,
					Workers: 3,
				}

				h, err := d.Record(ctx, 7, 6, int64(round))
				if err != nil {
					t.Fatal(err)
				}

				if !h.Linearizable(false) {
					t.Fatalf("history is not linearizable: %s", h)
				}
			}
		})
	})

	t.Run("it behaves like a map-backed set", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			s := sub.New()
			members := map[int]struct{}{}

			t.Repeat(
				map[string]func(*rapid.T){
					"add a non-member": func(t *rapid.T) {
						m := rapid.
							IntRange(-16, 16).
							Draw(t, "non-member")

						if _, ok := members[m]; ok {
							t.Skip("already a member")
						}

						if !s.Add(m) {
							t.Fatalf("add %d: expected true", m)
						}

						members[m] = struct{}{}
					},
					"re-add an existing member": func(t *rapid.T) {
						if len(members) == 0 {
							t.Skip("set is empty")
						}

						m := rapid.
							SampledFrom(maps.Keys(members)).
							Draw(t, "member")

						if s.Add(m) {
							t.Fatalf("add %d: expected false", m)
						}
					},
					"remove an existing member": func(t *rapid.T) {
						if len(members) == 0 {
							t.Skip("set is empty")
						}

						m := rapid.
							SampledFrom(maps.Keys(members)).
							Draw(t, "member")

						if !s.Remove(m) {
							t.Fatalf("remove %d: expected true", m)
						}

						delete(members, m)
					},
					"remove a non-member": func(t *rapid.T) {
						m := rapid.
							IntRange(-16, 16).
							Draw(t, "non-member")

						if _, ok := members[m]; ok {
							t.Skip("already a member")
						}

						if s.Remove(m) {
							t.Fatalf("remove %d: expected false", m)
						}
					},
					"": func(t *rapid.T) {
						for m := -16; m <= 16; m++ {
							_, want := members[m]
							if got := s.Contains(m); got != want {
								t.Fatalf("contains %d: got %t, want %t", m, got, want)
							}
						}

						if sn, ok := s.(Snapshotter); ok {
							want := maps.Keys(members)
							slices.Sort(want)

							test.Expect(
								t,
								"unexpected live elements",
								live(sn.Snapshot()),
								want,
							)
						}
					},
				},
			)
		})
	})
}

// Benchmark measures the throughput of a mixed workload on a set that holds
// about half of the given number of keys.
func Benchmark(b *testing.B, newSet func() listkit.Set[int]) {
	for _, n := range []int{64, 1024} {
		n := n

		b.Run(fmt.Sprintf("keys=%d", n), func(b *testing.B) {
			s := newSet()
			for k := 0; k < n; k += 2 {
				s.Add(k)
			}

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				k := 0
				for pb.Next() {
					k = (k*7 + 3) % n

					switch k % 5 {
					case 0:
						s.Add(k)
					case 1:
						s.Remove(k)
					default:
						s.Contains(k)
					}
				}
			})
		})
	}
}

// ExpectSorted fails the test unless the live elements of s are listed in
// strictly increasing key order, and every listed node is in non-decreasing
// key order.
func ExpectSorted(t *testing.T, s Snapshotter) {
	t.Helper()

	entries := s.Snapshot()

	var prev *listkit.Entry[int]
	for i := range entries {
		e := &entries[i]

		if prev != nil && e.Key < prev.Key {
			t.Fatalf(
				"list is out of order at position %d: %s",
				i,
				listkit.FormatEntries(entries),
			)
		}

		if prev != nil && !e.Removed && !prev.Removed && e.Key == prev.Key {
			t.Fatalf(
				"list has duplicate key at position %d: %s",
				i,
				listkit.FormatEntries(entries),
			)
		}

		prev = e
	}
}

func driver(t *testing.T, s listkit.Set[int]) *stress.Driver {
	return &stress.Driver{
		Set:     s,
		Workers: Workers,
		Logger:  tlog.New(t),
	}
}

// expectConsistent checks that a quiescent set contains exactly the given
// elements. For ordered sets it also checks the order of the nodes.
func expectConsistent(t *testing.T, s listkit.Set[int], want ...int) {
	t.Helper()

	sn, ok := s.(Snapshotter)
	if !ok {
		return
	}

	entries := sn.Snapshot()

	for i := 1; i < len(entries); i++ {
		if entries[i].Key < entries[i-1].Key {
			t.Fatalf(
				"list is out of order at position %d: %s",
				i,
				listkit.FormatEntries(entries),
			)
		}
	}

	got := live(entries)
	slices.Sort(got)

	want = slices.Clone(want)
	slices.Sort(want)

	test.Expect(
		t,
		"unexpected live elements",
		got,
		want,
	)
}

func live(entries []listkit.Entry[int]) []int {
	var items []int
	for _, e := range entries {
		if !e.Removed {
			items = append(items, e.Item)
		}
	}
	return items
}

func members(s listkit.Set[int], n int) []int {
	var items []int
	for k := 0; k < n; k++ {
		if s.Contains(k) {
			items = append(items, k)
		}
	}
	return items
}

func keys(n int) []int {
	items := make([]int, n)
	for k := range items {
		items[k] = k
	}
	return items
}

func rounds(n int) int {
	if testing.Short() {
		return n / 10
	}
	return n
}

const (
	maxInt = int(^uint(0) >> 1)
	minInt = -maxInt - 1
)
