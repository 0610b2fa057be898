// Package tlog provides a [slog.Logger] that writes to a test's log.
package tlog

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// New returns a logger that writes records at or above the given level to the
// test's log. If no level is given, every record is written.
func New(t testing.TB, level ...slog.Leveler) *slog.Logger {
	h := &handler{T: t, level: slog.LevelDebug}
	if len(level) != 0 {
		h.level = level[0]
	}
	return slog.New(h)
}

type handler struct {
	T      testing.TB
	level  slog.Leveler
	prefix string
	attrs  []slog.Attr
}

func (h *handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *handler) Handle(_ context.Context, rec slog.Record) error {
	buf := &strings.Builder{}
	buf.WriteString(rec.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(rec.Message)

	for _, attr := range h.attrs {
		writeAttr(buf, "", attr)
	}

	rec.Attrs(func(attr slog.Attr) bool {
		writeAttr(buf, h.prefix, attr)
		return true
	})

	h.T.Helper()
	h.T.Log(buf.String())

	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.prefix != "" {
		attrs = []slog.Attr{
			slog.Group(strings.TrimSuffix(h.prefix, "."), attrsAsAny(attrs)...),
		}
	}

	return &handler{
		T:      h.T,
		level:  h.level,
		prefix: h.prefix,
		attrs:  append(slices.Clone(h.attrs), attrs...),
	}
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &handler{
		T:      h.T,
		level:  h.level,
		prefix: h.prefix + name + ".",
		attrs:  h.attrs,
	}
}

// writeAttr writes attr as " key=value", flattening groups into dotted keys.
func writeAttr(buf *strings.Builder, prefix string, attr slog.Attr) {
	v := attr.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, a := range v.Group() {
			writeAttr(buf, prefix, a)
		}
		return
	}

	if attr.Key == "" {
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(attr.Key)
	buf.WriteByte('=')

	s := v.String()
	if s == "" || strings.ContainsAny(s, " \t\n\r\"=") {
		s = strconv.Quote(s)
	}
	buf.WriteString(s)
}

func attrsAsAny(attrs []slog.Attr) []any {
	values := make([]any, len(attrs))
	for i, a := range attrs {
		values[i] = a
	}
	return values
}
