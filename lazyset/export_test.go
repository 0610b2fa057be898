package lazyset

// MarkOnly logically deletes e without unlinking it.
func (s *Set[E, K]) MarkOnly(e E) bool {
	key := s.Keyer.Key(e)
	_, curr := s.search(key, e)

	if !curr.holds(key, e) {
		return false
	}

	curr.m.Lock()
	defer curr.m.Unlock()

	return !curr.marked.Swap(true)
}
