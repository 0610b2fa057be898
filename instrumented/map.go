package instrumented

import (
	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/telemetry"
)

// Map is a [listkit.Map] that records telemetry about another map.
type Map[K, V any] struct {
	next listkit.Map[K, V]
	obs  *observer
}

var _ listkit.Map[string, int] = (*Map[string, int])(nil)

// NewMap returns a map that records telemetry about m. name identifies the map
// in all telemetry.
func NewMap[K, V any](name string, m listkit.Map[K, V], options ...Option) *Map[K, V] {
	var zero K

	return &Map[K, V]{
		next: m,
		obs: newObserver(
			name,
			"map",
			telemetry.Type("container.key_type", zero),
			options,
		),
	}
}

// Get returns the value associated with k.
func (m *Map[K, V]) Get(k K) (v V, ok bool) {
	ok = m.obs.observe("get", func() bool {
		v, ok = m.next.Get(k)
		return ok
	})
	return v, ok
}

// ContainsKey returns true if the map contains k.
func (m *Map[K, V]) ContainsKey(k K) bool {
	return m.obs.observe("contains_key", func() bool {
		return m.next.ContainsKey(k)
	})
}

// Put associates v with k. If k was already present its previous value is
// returned and loaded is true.
func (m *Map[K, V]) Put(k K, v V) (prev V, loaded bool) {
	loaded = m.obs.observe("put", func() bool {
		prev, loaded = m.next.Put(k, v)
		return loaded
	})
	return prev, loaded
}

// Remove removes k from the map, returning its value.
func (m *Map[K, V]) Remove(k K) (v V, ok bool) {
	ok = m.obs.observe("remove", func() bool {
		v, ok = m.next.Remove(k)
		return ok
	})
	return v, ok
}

// Len returns [listkit.ErrUnsupported]. The containers do not track their
// size.
func (m *Map[K, V]) Len() (int, error) {
	return 0, listkit.ErrUnsupported
}
