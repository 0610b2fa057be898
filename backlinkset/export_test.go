package backlinkset

// MarkOnly logically deletes e without unlinking it.
func (s *Set[E, K]) MarkOnly(e E) bool {
	key := s.Keyer.Key(e)
	pred := s.list()

	for curr := pred.next.Load(); curr.kind != kindTail; curr = curr.next.Load() {
		if curr.kind == kindMarker {
			continue
		}

		if curr.kind == kindData && curr.key == key && curr.item == e {
			return markForDeletion(pred, curr)
		}

		pred = curr
	}

	return false
}

// Backlink returns the item of the backlink of the node that holds e.
func (s *Set[E, K]) Backlink(e E) (E, bool) {
	key := s.Keyer.Key(e)

	for curr := s.list().next.Load(); curr.kind != kindTail; curr = curr.next.Load() {
		if curr.kind == kindData && curr.key == key && curr.item == e {
			if b := curr.backlink.Load(); b != nil && b.kind == kindData {
				return b.item, true
			}
			break
		}
	}

	var zero E
	return zero, false
}
