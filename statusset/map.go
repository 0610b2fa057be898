package statusset

import (
	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/element"
)

// Map is an unordered lock-free map of keys of type K to values of type V.
//
// It uses the same protocol as [Set]. A Put for a key that is already present
// replaces the value in the existing node.
//
// The zero value is an empty map, ready to use.
type Map[K comparable, V any] struct {
	l list[K, V]
}

var _ listkit.Map[string, int] = (*Map[string, int])(nil)

// Get returns the value associated with k.
//
// It panics if k is nil.
func (m *Map[K, V]) Get(k K) (v V, ok bool) {
	element.MustBeValid("Get", k)

	c, ok := m.l.lookup(k)
	if !ok {
		return v, false
	}

	return *c.value, true
}

// ContainsKey returns true if the map contains k.
//
// It panics if k is nil.
func (m *Map[K, V]) ContainsKey(k K) bool {
	element.MustBeValid("ContainsKey", k)

	_, ok := m.l.lookup(k)
	return ok
}

// ContainsValue returns true if any key is associated with a value that is
// equal to v according to eq.
//
// Like [Map.Count], it is not linearizable.
func (m *Map[K, V]) ContainsValue(v V, eq func(V, V) bool) bool {
	found := false

	m.l.each(func(_ K, c *cell[V]) bool {
		if c.status != Remove && eq(*c.value, v) {
			found = true
		}
		return !found
	})

	return found
}

// Put associates v with k. If k was already present its previous value is
// returned and loaded is true.
//
// It panics if k is nil.
func (m *Map[K, V]) Put(k K, v V) (prev V, loaded bool) {
	element.MustBeValid("Put", k)

	p, loaded := m.l.insert(k, &v, true)
	if loaded {
		prev = *p
	}

	return prev, loaded
}

// Remove removes k from the map, returning its value.
//
// It panics if k is nil.
func (m *Map[K, V]) Remove(k K) (v V, ok bool) {
	element.MustBeValid("Remove", k)

	p, ok := m.l.remove(k)
	if ok {
		v = *p
	}

	return v, ok
}

// Count returns the number of keys in the map.
//
// It is intended for tests and debugging. The traversal is not synchronized
// with concurrent mutations and the result is not linearizable.
func (m *Map[K, V]) Count() int {
	return m.l.count()
}

// Dump renders every node that is reachable from the head of the list, newest
// first. It is not linearizable.
func (m *Map[K, V]) Dump() string {
	return m.l.dump()
}
