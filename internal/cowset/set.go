// Package cowset is a copy-on-write ordered set.
//
// Every mutation copies the member slice and publishes it with a single
// compare-and-swap, so each operation takes effect at one instant. The set is
// used as a reference implementation when validating the list-based containers
// and their workloads, and as a baseline when benchmarking them.
package cowset

import (
	"sync/atomic"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/internal/element"
	"golang.org/x/exp/slices"
)

// Set is a read-optimized lock-free ordered set.
//
// The zero value is an empty set, provided K's zero value is usable.
type Set[E comparable, K listkit.Keyer[E]] struct {
	Keyer   K
	members atomic.Pointer[[]member[E]]
}

type member[E any] struct {
	key  uint64
	item E
}

// Contains returns true if e is a member of the set.
func (s *Set[E, K]) Contains(e E) bool {
	element.MustBeValid("contains", e)

	_, ok := s.search(s.load(), s.Keyer.Key(e), e)
	return ok
}

// Add adds e to the set. It returns false if e is already a member.
func (s *Set[E, K]) Add(e E) bool {
	element.MustBeValid("add", e)

	m := member[E]{s.Keyer.Key(e), e}

	return s.apply(
		func(members []member[E]) ([]member[E], bool) {
			i, ok := s.search(members, m.key, e)
			if ok {
				return members, false
			}
			after := make([]member[E], 0, len(members)+1)
			after = append(after, members[:i]...)
			after = append(after, m)
			return append(after, members[i:]...), true
		},
	)
}

// Remove removes e from the set. It returns false if e is not a member.
func (s *Set[E, K]) Remove(e E) bool {
	element.MustBeValid("remove", e)

	key := s.Keyer.Key(e)

	return s.apply(
		func(members []member[E]) ([]member[E], bool) {
			i, ok := s.search(members, key, e)
			if !ok {
				return members, false
			}
			return slices.Delete(slices.Clone(members), i, i+1), true
		},
	)
}

// Len returns the number of members in the set.
func (s *Set[E, K]) Len() int {
	return len(s.load())
}

// Snapshot returns the members of the set in key order.
//
// Unlike the list-based containers, the result is the state of the set at a
// single instant and never contains removed elements.
func (s *Set[E, K]) Snapshot() []listkit.Entry[E] {
	members := s.load()
	entries := make([]listkit.Entry[E], len(members))

	for i, m := range members {
		entries[i] = listkit.Entry[E]{Item: m.item, Key: m.key}
	}

	return entries
}

// Dump renders [Set.Snapshot] as a string, for example "1 -> 3 -> 5".
func (s *Set[E, K]) Dump() string {
	return listkit.FormatEntries(s.Snapshot())
}

func (s *Set[E, K]) load() []member[E] {
	if p := s.members.Load(); p != nil {
		return *p
	}
	return nil
}

// apply replaces the members with the result of fn until the replacement is
// not contended. It returns false without modifying the set if fn returns
// false.
func (s *Set[E, K]) apply(fn func([]member[E]) ([]member[E], bool)) bool {
	for {
		p := s.members.Load()

		var before []member[E]
		if p != nil {
			before = *p
		}

		after, ok := fn(before)
		if !ok {
			return false
		}

		if s.members.CompareAndSwap(p, &after) {
			return true
		}
	}
}

// search returns the index of e within members. If e is not a member, it
// returns the index at which it would be inserted.
func (s *Set[E, K]) search(members []member[E], key uint64, e E) (int, bool) {
	i, _ := slices.BinarySearchFunc(
		members,
		key,
		func(m member[E], k uint64) int {
			switch {
			case m.key < k:
				return -1
			case m.key > k:
				return +1
			default:
				return 0
			}
		},
	)

	for j := i; j < len(members) && members[j].key == key; j++ {
		if members[j].item == e {
			return j, true
		}
	}

	return i, false
}
