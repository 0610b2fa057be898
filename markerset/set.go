// Package markerset provides a sorted lock-free set based on the linked list
// algorithms of Harris and Michael.
//
// Instead of stealing a bit from the next pointer to flag a deleted node, a
// deletion inserts a marker node directly after the node being removed. A
// single compare-and-swap therefore both marks the node and freezes its
// successor.
//
// Contains is wait-free. Add and Remove are lock-free. A goroutine that
// encounters a deleted node while searching unlinks it; if that fails the
// search restarts from the head of the list.
//
// See:
//
//   - T. Harris. A pragmatic implementation of non-blocking linked-lists.
//     DISC 2001.
//   - M. M. Michael. High performance dynamic lock-free hash tables and
//     list-based sets. SPAA 2002.
package markerset

import (
	"sync/atomic"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/element"
)

// Set is a sorted lock-free set.
//
// Elements are ordered by the key produced by the Keyer, and elements with
// equal keys are told apart by ==.
//
// The zero value is an empty set, ready to use.
type Set[E comparable, K listkit.Keyer[E]] struct {
	Keyer K

	head atomic.Pointer[node[E]]
}

var _ listkit.Set[int] = (*Set[int, listkit.IntegerKey[int]])(nil)

// Contains returns true if e is a member of the set.
//
// It panics if e is nil.
func (s *Set[E, K]) Contains(e E) bool {
	element.MustBeValid("Contains", e)

	key := s.Keyer.Key(e)

	for curr := s.list(); ; curr = curr.next.Load() {
		if curr.kind == kindMarker {
			continue
		}

		switch c := curr.compare(key); {
		case c > 0:
			return false
		case c == 0 && curr.item == e:
			return !curr.next.Load().isMarker()
		}
	}
}

// Add adds e to the set. It returns false if e was already a member.
//
// It panics if e is nil.
func (s *Set[E, K]) Add(e E) bool {
	element.MustBeValid("Add", e)

	var (
		key = s.Keyer.Key(e)
		n   *node[E]
	)

	for {
		pred, curr, _, found := s.search(key, e)
		if found {
			return false
		}

		if n == nil {
			n = newData(key, e)
		}
		n.next.Store(curr)

		if pred.next.CompareAndSwap(curr, n) {
			return true
		}
	}
}

// Remove removes e from the set. It returns false if e was not a member.
//
// It panics if e is nil.
func (s *Set[E, K]) Remove(e E) bool {
	element.MustBeValid("Remove", e)

	key := s.Keyer.Key(e)

	for {
		pred, curr, succ, found := s.search(key, e)
		if !found {
			return false
		}

		// Logical deletion is the linearization point.
		if !curr.next.CompareAndSwap(succ, newMarker(succ)) {
			continue
		}

		// Physical deletion is best-effort, any later search that passes
		// curr also unlinks it.
		pred.next.CompareAndSwap(curr, succ)

		return true
	}
}

// search returns the node that holds e, or if there is no such node, the
// first node ordered after e. It also returns that node's predecessor and
// successor as they were observed.
//
// Every logically deleted node passed along the way is unlinked. If unlinking
// fails, or the predecessor is found to have been deleted, the search restarts
// from the head of the list.
func (s *Set[E, K]) search(key uint64, e E) (pred, curr, succ *node[E], found bool) {
retry:
	for {
		pred = s.list()
		curr = pred.next.Load()

		for {
			if curr.kind == kindMarker {
				// pred was deleted after we moved past it.
				continue retry
			}

			succ = curr.next.Load()

			for succ.isMarker() {
				succ = succ.next.Load()

				if !pred.next.CompareAndSwap(curr, succ) {
					continue retry
				}

				curr = succ
				succ = curr.next.Load()
			}

			switch c := curr.compare(key); {
			case c > 0:
				return pred, curr, succ, false
			case c == 0 && curr.item == e:
				return pred, curr, succ, true
			}

			pred = curr
			curr = pred.next.Load()
		}
	}
}

// list returns the head sentinel, creating the sentinels on first use.
func (s *Set[E, K]) list() *node[E] {
	if h := s.head.Load(); h != nil {
		return h
	}

	h := &node[E]{kind: kindHead}
	h.next.Store(&node[E]{kind: kindTail})

	if s.head.CompareAndSwap(nil, h) {
		return h
	}

	return s.head.Load()
}
