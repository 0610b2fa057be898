package listkit

import (
	"fmt"
	"strings"
)

// Entry describes a single element node found by a diagnostic traversal of an
// ordered container.
type Entry[E any] struct {
	Item E
	Key  uint64

	// Removed is true if the element had been logically deleted but was still
	// reachable when the traversal passed it.
	Removed bool
}

func (e Entry[E]) String() string {
	if e.Removed {
		return fmt.Sprintf("%v(marked)", e.Item)
	}
	return fmt.Sprint(e.Item)
}

// FormatEntries renders entries in list order, for example "1 -> 3 -> 5(marked)".
func FormatEntries[E any](entries []Entry[E]) string {
	var w strings.Builder

	for i, e := range entries {
		if i > 0 {
			w.WriteString(" -> ")
		}
		w.WriteString(e.String())
	}

	return w.String()
}
