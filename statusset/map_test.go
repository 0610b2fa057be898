package statusset_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/settest"
	"github.com/dogmatiq/listkit/internal/test"
	. "github.com/dogmatiq/listkit/statusset"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rapid"
)

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("it stores, replaces and removes values", func(t *testing.T) {
		t.Parallel()

		var m Map[string, int]

		if _, ok := m.Get("a"); ok {
			t.Fatal("did not expect the empty map to contain a key")
		}

		prev, loaded := m.Put("a", 1)
		test.Expect(t, "unexpected first put", []any{prev, loaded}, []any{0, false})

		prev, loaded = m.Put("a", 2)
		test.Expect(t, "unexpected second put", []any{prev, loaded}, []any{1, true})

		v, ok := m.Get("a")
		test.Expect(t, "unexpected get", []any{v, ok}, []any{2, true})

		if !m.ContainsKey("a") {
			t.Fatal("expected map to contain key")
		}

		v, ok = m.Remove("a")
		test.Expect(t, "unexpected first remove", []any{v, ok}, []any{2, true})

		v, ok = m.Remove("a")
		test.Expect(t, "unexpected second remove", []any{v, ok}, []any{0, false})

		if m.ContainsKey("a") {
			t.Fatal("did not expect map to contain key")
		}
	})

	t.Run("it finds values by equality", func(t *testing.T) {
		t.Parallel()

		var m Map[int, string]
		m.Put(1, "one")
		m.Put(2, "two")
		m.Put(2, "deux")
		m.Remove(1)

		eq := func(a, b string) bool { return a == b }

		if !m.ContainsValue("deux", eq) {
			t.Fatal("expected map to contain current value")
		}
		if m.ContainsValue("two", eq) {
			t.Fatal("did not expect map to contain replaced value")
		}
		if m.ContainsValue("one", eq) {
			t.Fatal("did not expect map to contain removed value")
		}

		if got := m.Count(); got != 1 {
			t.Fatalf("unexpected count: got %d, want 1", got)
		}
	})

	t.Run("it panics when passed a nil key", func(t *testing.T) {
		t.Parallel()

		var m Map[*int, int]

		test.ExpectPanic(t, listkit.ErrInvalidArgument, func() { m.Put(nil, 1) })
		test.ExpectPanic(t, listkit.ErrInvalidArgument, func() { m.Get(nil) })
		test.ExpectPanic(t, listkit.ErrInvalidArgument, func() { m.ContainsKey(nil) })
		test.ExpectPanic(t, listkit.ErrInvalidArgument, func() { m.Remove(nil) })
	})

	t.Run("it loses no puts to the same key", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t, 30*time.Second)

		var (
			m     Map[string, int]
			fresh atomic.Int64
			seen  = make([]atomic.Int64, settest.Workers*100)
		)

		g, _ := errgroup.WithContext(ctx)

		for w := 0; w < settest.Workers; w++ {
			w := w
			g.Go(func() error {
				for i := 0; i < 100; i++ {
					prev, loaded := m.Put("k", w*100+i)
					if loaded {
						seen[prev].Add(1)
					} else {
						fresh.Add(1)
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			t.Fatal(err)
		}

		if n := fresh.Load(); n != 1 {
			t.Fatalf("unexpected number of puts that found no value: got %d, want 1", n)
		}

		final, ok := m.Get("k")
		if !ok {
			t.Fatal("expected map to contain key")
		}

		// Every value except the final one must be replaced exactly once.
		for v := range seen {
			want := int64(1)
			if v == final {
				want = 0
			}
			if got := seen[v].Load(); got != want {
				t.Fatalf("value %d was replaced %d time(s), want %d", v, got, want)
			}
		}
	})

	t.Run("it removes each key exactly once", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t, 30*time.Second)

		var (
			m       Map[int, string]
			removed atomic.Int64
		)

		for k := 0; k < 64; k++ {
			m.Put(k, fmt.Sprint(k))
		}

		g, _ := errgroup.WithContext(ctx)

		for w := 0; w < settest.Workers; w++ {
			g.Go(func() error {
				for k := 0; k < 64; k++ {
					if v, ok := m.Remove(k); ok {
						if v != fmt.Sprint(k) {
							return fmt.Errorf("remove %d: unexpected value %q", k, v)
						}
						removed.Add(1)
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			t.Fatal(err)
		}

		if n := removed.Load(); n != 64 {
			t.Fatalf("unexpected number of removals: got %d, want 64", n)
		}

		if n := m.Count(); n != 0 {
			t.Fatalf("unexpected count: got %d, want 0", n)
		}
	})

	t.Run("it behaves like a built-in map", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			var m Map[int8, int]
			model := map[int8]int{}

			t.Repeat(
				map[string]func(*rapid.T){
					"put": func(t *rapid.T) {
						k := rapid.Int8Range(-8, 8).Draw(t, "key")
						v := rapid.Int().Draw(t, "value")

						want, wantLoaded := model[k]
						prev, loaded := m.Put(k, v)

						test.Expect(t, "unexpected put result", []any{prev, loaded}, []any{want, wantLoaded})
						model[k] = v
					},
					"remove an existing key": func(t *rapid.T) {
						if len(model) == 0 {
							t.Skip("map is empty")
						}

						k := rapid.SampledFrom(maps.Keys(model)).Draw(t, "key")

						v, ok := m.Remove(k)
						test.Expect(t, "unexpected remove result", []any{v, ok}, []any{model[k], true})
						delete(model, k)
					},
					"remove a missing key": func(t *rapid.T) {
						k := rapid.Int8Range(-8, 8).Draw(t, "key")
						if _, ok := model[k]; ok {
							t.Skip("key is present")
						}

						if _, ok := m.Remove(k); ok {
							t.Fatalf("remove %d: did not expect key to be present", k)
						}
					},
					"": func(t *rapid.T) {
						for k := int8(-8); k <= 8; k++ {
							want, wantOK := model[k]
							got, ok := m.Get(k)
							test.Expect(t, "unexpected get result", []any{got, ok}, []any{want, wantOK})
						}

						if got, want := m.Count(), len(model); got != want {
							t.Fatalf("unexpected count: got %d, want %d", got, want)
						}
					},
				},
			)
		})
	})
}

func BenchmarkMap(b *testing.B) {
	var m Map[int, int]

	b.RunParallel(func(pb *testing.PB) {
		k := 0
		for pb.Next() {
			k = (k*7 + 3) % 64
			if k%4 == 0 {
				m.Remove(k)
			} else {
				m.Put(k, k)
			}
		}
	})
}

