// Package statusset provides an unordered lock-free set and map in which every
// node carries a status.
//
// Every operation pushes a node at the head of the list and then resolves it
// against the older nodes with the same element. An insert that finds an older
// live node is a duplicate; a remove that finds an older insert still in
// progress claims it, and the inserting goroutine completes the removal on the
// remover's behalf. Goroutines unlink dead nodes as they pass them.
//
// Because nodes are only ever pushed, the list grows with the number of
// operations performed until dead nodes are unlinked, and every operation is
// linear in the length of the list.
//
// See K. Zhang, Y. Zhao, Y. Yang, Y. Liu and M. Spear. Practical non-blocking
// unordered lists. DISC 2013.
package statusset

import (
	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/element"
)

// Set is an unordered lock-free set.
//
// The zero value is an empty set, ready to use.
type Set[E comparable] struct {
	l list[E, struct{}]
}

var _ listkit.Set[int] = (*Set[int])(nil)

// Contains returns true if e is a member of the set.
//
// It panics if e is nil.
func (s *Set[E]) Contains(e E) bool {
	element.MustBeValid("Contains", e)

	_, ok := s.l.lookup(e)
	return ok
}

// Add adds e to the set. It returns false if e was already a member.
//
// It panics if e is nil.
func (s *Set[E]) Add(e E) bool {
	element.MustBeValid("Add", e)

	_, loaded := s.l.insert(e, nil, false)
	return !loaded
}

// Remove removes e from the set. It returns false if e was not a member.
//
// It panics if e is nil.
func (s *Set[E]) Remove(e E) bool {
	element.MustBeValid("Remove", e)

	_, ok := s.l.remove(e)
	return ok
}

// Count returns the number of members.
//
// It is intended for tests and debugging. The traversal is not synchronized
// with concurrent mutations and the result is not linearizable.
func (s *Set[E]) Count() int {
	return s.l.count()
}

// Dump renders every node that is reachable from the head of the list, newest
// first, for example "5(data) -> 3(remove) -> 3(dead)". It is not
// linearizable.
func (s *Set[E]) Dump() string {
	return s.l.dump()
}
