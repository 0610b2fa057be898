package markerset

// MarkOnly logically deletes e without unlinking it.
func (s *Set[E, K]) MarkOnly(e E) bool {
	key := s.Keyer.Key(e)

	for curr := s.list().next.Load(); curr.kind != kindTail; curr = curr.next.Load() {
		if curr.kind == kindData && curr.key == key && curr.item == e {
			succ := curr.next.Load()
			return !succ.isMarker() && curr.next.CompareAndSwap(succ, newMarker(succ))
		}
	}

	return false
}
