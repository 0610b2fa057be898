// Package instrumented provides decorators that record OpenTelemetry traces
// and metrics, and structured logs, for every operation on a container.
package instrumented

import (
	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/telemetry"
)

// Set is a [listkit.Set] that records telemetry about another set.
type Set[E any] struct {
	next listkit.Set[E]
	obs  *observer
}

var _ listkit.Set[int] = (*Set[int])(nil)

// NewSet returns a set that records telemetry about s. name identifies the set
// in all telemetry.
func NewSet[E any](name string, s listkit.Set[E], options ...Option) *Set[E] {
	var zero E

	return &Set[E]{
		next: s,
		obs: newObserver(
			name,
			"set",
			telemetry.Type("container.element_type", zero),
			options,
		),
	}
}

// Contains returns true if e is a member of the set.
func (s *Set[E]) Contains(e E) bool {
	return s.obs.observe("contains", func() bool {
		return s.next.Contains(e)
	})
}

// Add adds e to the set. It returns false if e was already a member.
func (s *Set[E]) Add(e E) bool {
	return s.obs.observe("add", func() bool {
		return s.next.Add(e)
	})
}

// Remove removes e from the set. It returns false if e was not a member.
func (s *Set[E]) Remove(e E) bool {
	return s.obs.observe("remove", func() bool {
		return s.next.Remove(e)
	})
}

// Len returns [listkit.ErrUnsupported]. The containers do not track their
// size.
func (s *Set[E]) Len() (int, error) {
	return 0, listkit.ErrUnsupported
}
