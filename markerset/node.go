package markerset

import "sync/atomic"

// kind discriminates the variants of a node.
type kind uint8

const (
	// kindHead is the sentinel that sorts before every key.
	kindHead kind = iota

	// kindData is a node that holds an element.
	kindData

	// kindMarker is a node that carries no element. A marker installed as the
	// successor of a data node means that data node is logically deleted. The
	// marker's own next pointer is fixed at construction.
	kindMarker

	// kindTail is the sentinel that sorts after every key.
	kindTail
)

type node[E comparable] struct {
	kind kind
	key  uint64
	item E
	next atomic.Pointer[node[E]]
}

func newData[E comparable](key uint64, e E) *node[E] {
	return &node[E]{
		kind: kindData,
		key:  key,
		item: e,
	}
}

func newMarker[E comparable](succ *node[E]) *node[E] {
	m := &node[E]{kind: kindMarker}
	m.next.Store(succ)
	return m
}

// isMarker returns true if n is a marker. It is safe to call on nil.
func (n *node[E]) isMarker() bool {
	return n != nil && n.kind == kindMarker
}

// compare performs a 3-way comparison of n's position against key.
//
// It must not be called on a marker.
func (n *node[E]) compare(key uint64) int {
	switch n.kind {
	case kindHead:
		return -1
	case kindTail:
		return +1
	}

	switch {
	case n.key < key:
		return -1
	case n.key > key:
		return +1
	default:
		return 0
	}
}
