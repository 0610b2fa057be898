package instrumented_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dogmatiq/listkit"
	. "github.com/dogmatiq/listkit/instrumented"
	"github.com/dogmatiq/listkit/internal/stress"
	"github.com/dogmatiq/listkit/internal/test"
	"github.com/dogmatiq/listkit/internal/tlog"
	"github.com/dogmatiq/listkit/markerset"
	"github.com/dogmatiq/listkit/statusset"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/exp/slog"
)

func TestSet(t *testing.T) {
	t.Parallel()

	t.Run("it forwards operations to the underlying set", func(t *testing.T) {
		t.Parallel()

		s := NewSet[int](
			"test",
			&markerset.Set[int, listkit.IntegerKey[int]]{},
			WithLogger(tlog.New(t)),
			WithMeterProvider(noopmetric.NewMeterProvider()),
			WithTracerProvider(nooptrace.NewTracerProvider()),
		)

		test.Expect(t, "unexpected add", s.Add(1), true)
		test.Expect(t, "unexpected duplicate add", s.Add(1), false)
		test.Expect(t, "unexpected contains", s.Contains(1), true)
		test.Expect(t, "unexpected remove", s.Remove(1), true)
		test.Expect(t, "unexpected contains after remove", s.Contains(1), false)
	})

	t.Run("it logs each operation at debug level", func(t *testing.T) {
		t.Parallel()

		buf := &lockedBuffer{}
		s := NewSet[int](
			"name-1",
			&markerset.Set[int, listkit.IntegerKey[int]]{},
			WithLogger(jsonLogger(buf)),
			WithAttributes("owner", "owner-1"),
		)

		s.Add(1)

		out := buf.String()
		for _, want := range []string{
			`"msg":"container operation completed"`,
			`"operation":"add"`,
			`"result":true`,
			`"container.name":"name-1"`,
			`"container.kind":"set"`,
			`"container.element_type":"int"`,
			`"owner":"owner-1"`,
		} {
			if !strings.Contains(out, want) {
				t.Fatalf("expected log output to contain %s, got %s", want, out)
			}
		}
	})

	t.Run("it logs and re-raises panics", func(t *testing.T) {
		t.Parallel()

		buf := &lockedBuffer{}
		s := NewSet[*int](
			"test",
			&markerset.Set[*int, listkit.KeyFunc[*int]]{
				Keyer: func(p *int) uint64 { return uint64(*p) },
			},
			WithLogger(jsonLogger(buf)),
		)

		test.ExpectPanic(t, listkit.ErrInvalidArgument, func() {
			s.Add(nil)
		})

		if !strings.Contains(buf.String(), `"event":"container.operation.panicked"`) {
			t.Fatalf("expected panic to be logged, got %s", buf.String())
		}
	})

	t.Run("it does not track its size", func(t *testing.T) {
		t.Parallel()

		s := NewSet[int]("test", &statusset.Set[int]{})

		if _, err := s.Len(); !errors.Is(err, listkit.ErrUnsupported) {
			t.Fatalf("unexpected error: got %v, want %v", err, listkit.ErrUnsupported)
		}
	})

	t.Run("it is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t, 30*time.Second)

		d := &stress.Driver{
			Set:     NewSet[int]("test", &markerset.Set[int, listkit.IntegerKey[int]]{}),
			Workers: 4,
		}

		if _, err := d.Mixed(ctx, 16, 2000, stress.DefaultMix, 1); err != nil {
			t.Fatal(err)
		}
	})
}

func TestMap(t *testing.T) {
	t.Parallel()

	m := NewMap[string, int]("test", &statusset.Map[string, int]{}, WithLogger(tlog.New(t)))

	prev, loaded := m.Put("a", 1)
	test.Expect(t, "unexpected first put", []any{prev, loaded}, []any{0, false})

	prev, loaded = m.Put("a", 2)
	test.Expect(t, "unexpected second put", []any{prev, loaded}, []any{1, true})

	v, ok := m.Get("a")
	test.Expect(t, "unexpected get", []any{v, ok}, []any{2, true})

	test.Expect(t, "unexpected contains key", m.ContainsKey("a"), true)

	v, ok = m.Remove("a")
	test.Expect(t, "unexpected remove", []any{v, ok}, []any{2, true})

	if _, err := m.Len(); !errors.Is(err, listkit.ErrUnsupported) {
		t.Fatalf("unexpected error: got %v, want %v", err, listkit.ErrUnsupported)
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		Name string
		Want string
		Fn   func()
	}{
		{"nil tracer provider", "tracer provider must not be nil", func() { WithTracerProvider(nil) }},
		{"nil meter provider", "meter provider must not be nil", func() { WithMeterProvider(nil) }},
		{"nil logger", "logger must not be nil", func() { WithLogger(nil) }},
		{"odd attributes", "attributes must be key/value pairs", func() { WithAttributes("key") }},
	}

	for _, c := range cases {
		c := c

		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if got := recover(); got != c.Want {
					t.Fatalf("unexpected panic: got %v, want %q", got, c.Want)
				}
			}()

			c.Fn()
		})
	}
}

func jsonLogger(buf *lockedBuffer) *slog.Logger {
	return slog.New(
		slog.NewJSONHandler(
			buf,
			&slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		),
	)
}

type lockedBuffer struct {
	m   sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.m.Lock()
	defer b.m.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.m.Lock()
	defer b.m.Unlock()
	return b.buf.String()
}
