package listkit

// Set is a concurrent set of elements of type E.
type Set[E any] interface {
	// Contains returns true if e is a member of the set.
	Contains(e E) bool

	// Add adds e to the set. It returns false if e was already a member.
	Add(e E) bool

	// Remove removes e from the set. It returns false if e was not a member.
	Remove(e E) bool
}

// Map is a concurrent map of keys of type K to values of type V.
type Map[K, V any] interface {
	// Get returns the value associated with k.
	Get(k K) (v V, ok bool)

	// ContainsKey returns true if the map contains k.
	ContainsKey(k K) bool

	// Put associates v with k. If k was already present its previous value is
	// returned and loaded is true.
	Put(k K, v V) (prev V, loaded bool)

	// Remove removes k from the map, returning its value.
	Remove(k K) (v V, ok bool)
}
