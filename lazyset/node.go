package lazyset

import (
	"sync"
	"sync/atomic"
)

type kind uint8

const (
	kindHead kind = iota
	kindData
	kindTail
)

type node[E comparable] struct {
	kind kind
	key  uint64
	item E

	// marked is set, while m is held, before the node is unlinked.
	marked atomic.Bool
	next   atomic.Pointer[node[E]]
	m      sync.Mutex
}

// compare performs a 3-way comparison of n's position against key.
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

// holds returns true if n is a data node holding e.
func (n *node[E]) holds(key uint64, e E) bool {
	return n.kind == kindData && n.key == key && n.item == e
}
