package lazyset

import "github.com/dogmatiq/listkit"

// Snapshot returns the element nodes that are reachable from the head of the
// list, in list order.
//
// The traversal takes no locks. It is intended for tests and debugging and is
// not linearizable.
func (s *Set[E, K]) Snapshot() []listkit.Entry[E] {
	var entries []listkit.Entry[E]

	for curr := s.list().next.Load(); curr.kind != kindTail; curr = curr.next.Load() {
		entries = append(
			entries,
			listkit.Entry[E]{
				Item:    curr.item,
				Key:     curr.key,
				Removed: curr.marked.Load(),
			},
		)
	}

	return entries
}

// Dump renders [Set.Snapshot] as a string. It is not linearizable.
func (s *Set[E, K]) Dump() string {
	return listkit.FormatEntries(s.Snapshot())
}
