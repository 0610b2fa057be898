// Package backlinkset provides a sorted lock-free set that uses marker nodes
// for logical deletion and backlinks for recovery.
//
// The deletion technique is the same as in package markerset. In addition,
// every node carries a backlink to a node that preceded it. When an operation
// finds that its predecessor has been deleted it follows the predecessor's
// backlink instead of starting again from the head of the list, so the cost
// of a failed step is proportional to the contended region, not the length
// of the list.
//
// Remove returns true only if the call itself marked the node. A call that
// loses the marking race to a concurrent Remove of the same element returns
// false, and is linearized immediately after the winning mark.
//
// See M. Fomitchev and E. Ruppert. Lock-free linked lists and skip lists.
// PODC 2004.
package backlinkset

import (
	"sync/atomic"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/element"
)

// Set is a sorted lock-free set with backlink recovery.
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

	for curr := s.locateLeftmostUnmarked(key); ; curr = curr.next.Load() {
		if curr.kind == kindMarker {
			continue
		}

		switch c := curr.compare(key); {
		case c > 0:
			return false
		case c == 0 && curr.item == e:
			return !curr.isDeleted()
		}
	}
}

// Add adds e to the set. It returns false if e was already a member.
//
// It panics if e is nil.
func (s *Set[E, K]) Add(e E) bool {
	element.MustBeValid("Add", e)

	var (
		key  = s.Keyer.Key(e)
		n    *node[E]
		pred = s.locateLeftmostUnmarked(key)
	)

	for {
		curr := pred.next.Load()

		if curr.isMarker() {
			pred = unlink(pred, curr)
			continue
		}

		switch c := curr.compare(key); {
		case c > 0:
			if n == nil {
				n = &node[E]{
					kind: kindData,
					key:  key,
					item: e,
				}
			}
			n.next.Store(curr)

			if pred.next.CompareAndSwap(curr, n) {
				reconcileBacklink(n, curr)
				return true
			}
			continue

		case c == 0 && curr.item == e && !curr.isDeleted():
			return false
		}

		reconcileBacklink(pred, curr)
		pred = curr
	}
}

// Remove removes e from the set. It returns false if e was not a member, or
// if a concurrent call removed it first.
//
// It panics if e is nil.
func (s *Set[E, K]) Remove(e E) bool {
	element.MustBeValid("Remove", e)

	var (
		key  = s.Keyer.Key(e)
		pred = s.locateLeftmostUnmarked(key)
	)

	for {
		curr := pred.next.Load()

		if curr.isMarker() {
			pred = unlink(pred, curr)
			continue
		}

		switch c := curr.compare(key); {
		case c > 0:
			return false

		case c == 0 && curr.item == e:
			ok := markForDeletion(pred, curr)
			unlink(curr, curr.next.Load())
			return ok
		}

		reconcileBacklink(pred, curr)
		pred = curr
	}
}

// locateLeftmostUnmarked returns the last node before key that was not deleted
// when it was visited. It is a starting point for the other operations, it
// does not unlink anything and the returned node need not be adjacent to key.
func (s *Set[E, K]) locateLeftmostUnmarked(key uint64) *node[E] {
	pred := s.list()

	for curr := pred.next.Load(); curr.kind != kindTail; {
		next := curr.next.Load()

		if curr.kind == kindData {
			if curr.key >= key {
				break
			}
			if !next.isMarker() {
				pred = curr
			}
		}

		curr = next
	}

	return pred
}

// reconcileBacklink walks forward from start, stepping over markers, and
// returns the last visited node. It visits start and then only nodes whose key
// is less than end's. If the returned node is immediately followed by end it
// becomes end's backlink.
func reconcileBacklink[E comparable](start, end *node[E]) *node[E] {
	if end.kind == kindTail {
		return start
	}

	pred := start

	for {
		next := pred.next.Load()

		if next == end {
			if end.backlink.Load() != pred {
				end.backlink.Store(pred)
			}
			return pred
		}

		if next.isMarker() {
			next = next.next.Load()
		}

		if !next.precedes(end) {
			return pred
		}

		pred = next
	}
}

// markForDeletion installs a marker after n. It returns false if n was
// already marked, in which case some other call has removed it.
func markForDeletion[E comparable](pred, n *node[E]) bool {
	n.backlink.Store(pred)

	for {
		succ := n.next.Load()
		if succ.isMarker() {
			return false
		}

		if n.next.CompareAndSwap(succ, newMarker(succ)) {
			return true
		}
	}
}

// unlink physically removes del, which must be followed by the marker m. It
// returns a node that precedes del, from which a traversal may continue.
//
// The predecessor is found by following del's backlink rather than by
// searching from the head. The unlink fails if that predecessor is itself
// deleted, in which case a subsequent call recovers through its backlink.
func unlink[E comparable](del, m *node[E]) *node[E] {
	succ := m.next.Load()
	pred := reconcileBacklink(del.backlink.Load(), del)

	if pred.next.CompareAndSwap(del, succ) {
		reconcileBacklink(pred, succ)
	}

	return pred
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
