package markerset

import "github.com/dogmatiq/listkit"

// Snapshot returns the element nodes that are reachable from the head of the
// list, in list order, including nodes that are logically deleted but not yet
// unlinked.
//
// It is intended for tests and debugging. The traversal is not synchronized
// with concurrent mutations, so under concurrency the result need not match
// the state of the set at any single instant.
func (s *Set[E, K]) Snapshot() []listkit.Entry[E] {
	var entries []listkit.Entry[E]

	for curr := s.list().next.Load(); curr.kind != kindTail; {
		next := curr.next.Load()

		if curr.kind == kindData {
			entries = append(
				entries,
				listkit.Entry[E]{
					Item:    curr.item,
					Key:     curr.key,
					Removed: next.isMarker(),
				},
			)
		}

		curr = next
	}

	return entries
}

// Dump renders [Set.Snapshot] as a string, for example "1 -> 3 -> 5(marked)".
//
// Like Snapshot, it is not linearizable.
func (s *Set[E, K]) Dump() string {
	return listkit.FormatEntries(s.Snapshot())
}
