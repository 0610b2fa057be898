package listkit

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Keyer is a type that derives the sort key of an element.
//
// The ordered containers keep their elements sorted by key. Distinct elements
// may share a key, in which case they are told apart by equality.
type Keyer[E any] interface {
	// Key returns the sort key of e.
	Key(e E) uint64
}

// IntegerKey is a [Keyer] for integer types that preserves numeric order.
type IntegerKey[E constraints.Integer] struct{}

// Key returns the sort key of e.
func (IntegerKey[E]) Key(e E) uint64 {
	var zero E
	if zero-1 < zero {
		// Signed types are offset so that negative values sort first.
		return uint64(int64(e)) ^ (1 << 63)
	}
	return uint64(e)
}

// StringKey is a [Keyer] for string types. Keys are the xxhash digest of the
// string, so elements are ordered by hash, not lexically.
type StringKey[E ~string] struct{}

// Key returns the sort key of e.
func (StringKey[E]) Key(e E) uint64 {
	return xxhash.Sum64String(string(e))
}

// StringerKey is a [Keyer] for types that implement [fmt.Stringer]. Keys are
// the xxhash digest of the result of e.String().
type StringerKey[E fmt.Stringer] struct{}

// Key returns the sort key of e.
func (StringerKey[E]) Key(e E) uint64 {
	return xxhash.Sum64String(e.String())
}

// KeyFunc is a function that derives the sort key of an element.
type KeyFunc[E any] func(E) uint64

// Key returns the sort key of e.
func (fn KeyFunc[E]) Key(e E) uint64 {
	return fn(e)
}
