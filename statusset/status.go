package statusset

import "fmt"

// Status is the state of a node.
//
// An insert node starts as [Insert] and ends as [Data] or [Dead]. A remove
// node starts as [Remove] and ends as [Dead]. An insert node that is claimed
// by a concurrent remove moves from [Insert] to [Remove] before it ends as
// [Dead]. A [Data] node ends as [Dead].
type Status uint8

const (
	// Insert is the status of a node whose insertion is not yet resolved.
	Insert Status = iota

	// Data is the status of a node that holds a live element.
	Data

	// Remove is the status of a node that records a removal which is not yet
	// resolved.
	Remove

	// Dead is the status of a node that no longer has any effect and may be
	// unlinked by any goroutine.
	Dead
)

func (s Status) String() string {
	switch s {
	case Insert:
		return "insert"
	case Data:
		return "data"
	case Remove:
		return "remove"
	case Dead:
		return "dead"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}
