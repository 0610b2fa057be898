package backlinkset

import "sync/atomic"

type kind uint8

const (
	kindHead kind = iota
	kindData
	kindMarker
	kindTail
)

type node[E comparable] struct {
	kind kind
	key  uint64
	item E
	next atomic.Pointer[node[E]]

	// backlink is a node that preceded this one at some point. It is always
	// set before the node is marked, and is never a marker.
	backlink atomic.Pointer[node[E]]
}

func newMarker[E comparable](succ *node[E]) *node[E] {
	m := &node[E]{kind: kindMarker}
	m.next.Store(succ)
	return m
}

func (n *node[E]) isMarker() bool {
	return n != nil && n.kind == kindMarker
}

// isDeleted returns true if n is followed by a marker.
func (n *node[E]) isDeleted() bool {
	return n.next.Load().isMarker()
}

// compare performs a 3-way comparison of n's position against key. It must not
// be called on a marker.
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

// precedes returns true if n's key is strictly less than end's key. Neither
// node may be a marker.
func (n *node[E]) precedes(end *node[E]) bool {
	switch {
	case n.kind == kindTail:
		return false
	case end.kind == kindHead:
		return false
	case n.kind == kindHead, end.kind == kindTail:
		return true
	default:
		return n.key < end.key
	}
}
