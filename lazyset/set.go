// Package lazyset provides a sorted set based on the lazy synchronization
// algorithm of Heller et al.
//
// Contains never blocks. Add and Remove traverse the list without locking,
// then lock the predecessor and the current node (always in that order) and
// validate that neither has been removed and that they are still adjacent.
// If validation fails both locks are released and the operation starts again
// from the head of the list.
//
// See S. Heller, M. Herlihy, V. Luchangco, M. Moir, W. N. Scherer III and
// N. Shavit. A lazy concurrent list-based set algorithm. OPODIS 2005.
package lazyset

import (
	"sync/atomic"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/element"
)

// Set is a sorted concurrent set that uses optimistic per-node locking.
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
	_, curr := s.search(key, e)

	return curr.holds(key, e) && !curr.marked.Load()
}

// Add adds e to the set. It returns false if e was already a member.
//
// It panics if e is nil.
func (s *Set[E, K]) Add(e E) bool {
	element.MustBeValid("Add", e)

	key := s.Keyer.Key(e)

	for {
		pred, curr := s.search(key, e)

		if ok, done := s.locked(pred, curr, func() bool {
			if curr.holds(key, e) {
				return false
			}

			n := &node[E]{
				kind: kindData,
				key:  key,
				item: e,
			}
			n.next.Store(curr)
			pred.next.Store(n)

			return true
		}); done {
			return ok
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
		pred, curr := s.search(key, e)

		if ok, done := s.locked(pred, curr, func() bool {
			if !curr.holds(key, e) {
				return false
			}

			curr.marked.Store(true)
			pred.next.Store(curr.next.Load())

			return true
		}); done {
			return ok
		}
	}
}

// locked calls fn while holding the locks of pred and curr, provided that
// they are still live and adjacent. done is false if validation failed and fn
// was not called.
func (s *Set[E, K]) locked(pred, curr *node[E], fn func() bool) (ok, done bool) {
	pred.m.Lock()
	defer pred.m.Unlock()

	curr.m.Lock()
	defer curr.m.Unlock()

	if pred.marked.Load() || curr.marked.Load() || pred.next.Load() != curr {
		return false, false
	}

	return fn(), true
}

// search returns the node that holds e, or if there is no such node, the first
// node ordered after e, along with its predecessor. It takes no locks.
func (s *Set[E, K]) search(key uint64, e E) (pred, curr *node[E]) {
	pred = s.list()
	curr = pred.next.Load()

	for {
		if c := curr.compare(key); c > 0 || c == 0 && curr.item == e {
			return pred, curr
		}

		pred = curr
		curr = pred.next.Load()
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
