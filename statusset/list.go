package statusset

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// cell is the immutable state of a node. Replacing the cell by CAS changes the
// status and the value together.
type cell[V any] struct {
	status Status
	value  *V
}

type node[K comparable, V any] struct {
	key   K
	state atomic.Pointer[cell[V]]
	next  atomic.Pointer[node[K, V]]
}

func newNode[K comparable, V any](k K, s Status, v *V) *node[K, V] {
	n := &node[K, V]{key: k}
	n.state.Store(&cell[V]{s, v})
	return n
}

// transition changes n's status from "from" to "to", keeping its value. It
// returns false if n's status is not "from".
func (n *node[K, V]) transition(from, to Status) bool {
	for {
		c := n.state.Load()
		if c.status != from {
			return false
		}

		if n.state.CompareAndSwap(c, &cell[V]{to, c.value}) {
			return true
		}
	}
}

// list is the lock-free protocol shared by [Set] and [Map].
//
// New nodes are pushed at the head, so a scan that starts at some node only
// sees operations that began before it.
type list[K comparable, V any] struct {
	head atomic.Pointer[node[K, V]]
}

// insert pushes a node that associates k with v, then resolves it against
// older nodes.
//
// If replace is false an existing live node for k wins and v is discarded. If
// replace is true v takes the place of the existing node's value.
func (l *list[K, V]) insert(k K, v *V, replace bool) (prev *V, loaded bool) {
	n := newNode(k, Insert, v)
	l.enlist(n)

	prev, loaded, keep := l.helpInsert(n, v, replace)

	to := Dead
	if keep {
		to = Data
	}

	if !n.transition(Insert, to) {
		// A concurrent remove claimed n before it was resolved. That remove
		// has already reported success, so finish it on its behalf.
		l.helpRemove(n)
		n.state.Store(&cell[V]{Dead, nil})
	}

	return prev, loaded
}

// remove pushes a removal intent for k and resolves it against older nodes.
func (l *list[K, V]) remove(k K) (prev *V, ok bool) {
	n := newNode[K, V](k, Remove, nil)
	l.enlist(n)

	prev, ok = l.helpRemove(n)
	n.state.Store(&cell[V]{Dead, nil})

	return prev, ok
}

// lookup returns the state of the newest unresolved or live node for k.
func (l *list[K, V]) lookup(k K) (*cell[V], bool) {
	for curr := l.head.Load(); curr != nil; curr = curr.next.Load() {
		if curr.key != k {
			continue
		}

		c := curr.state.Load()
		if c.status == Dead {
			continue
		}

		if c.status == Remove {
			return nil, false
		}

		return c, true
	}

	return nil, false
}

func (l *list[K, V]) enlist(n *node[K, V]) {
	for {
		h := l.head.Load()
		n.next.Store(h)

		if l.head.CompareAndSwap(h, n) {
			return
		}
	}
}

// helpInsert scans the nodes older than home for one with the same key.
//
// It returns loaded=false if there is none, or if the newest one records a
// removal. Otherwise loaded is true and prev is the value of the existing
// node. keep is true if home is to become the live node for its key.
func (l *list[K, V]) helpInsert(
	home *node[K, V],
	v *V,
	replace bool,
) (prev *V, loaded, keep bool) {
	pred := home
	curr := pred.next.Load()

	for curr != nil {
		c := curr.state.Load()

		if c.status == Dead {
			curr = unlink(pred, curr)
			continue
		}

		if curr.key == home.key {
			switch c.status {
			case Remove:
				return nil, false, true

			case Data:
				if !replace {
					return c.value, true, false
				}
				if curr.state.CompareAndSwap(c, &cell[V]{Data, v}) {
					return c.value, true, false
				}
				continue

			case Insert:
				if !replace {
					return c.value, true, false
				}
				// Claim the pending insert as a remover would. Its owner
				// then removes anything older, leaving home as the only
				// live node.
				if curr.state.CompareAndSwap(c, &cell[V]{Remove, c.value}) {
					return c.value, true, true
				}
				continue
			}
		}

		pred = curr
		curr = curr.next.Load()
	}

	return nil, false, true
}

// helpRemove scans the nodes older than home for one with the same key and
// removes it.
//
// It returns ok=false if there is no such node, or if the newest one already
// records a removal.
func (l *list[K, V]) helpRemove(home *node[K, V]) (prev *V, ok bool) {
	pred := home
	curr := pred.next.Load()

	for curr != nil {
		c := curr.state.Load()

		if c.status == Dead {
			curr = unlink(pred, curr)
			continue
		}

		if curr.key == home.key {
			switch c.status {
			case Remove:
				return nil, false

			case Data:
				if curr.state.CompareAndSwap(c, &cell[V]{Dead, c.value}) {
					unlink(pred, curr)
					return c.value, true
				}
				continue

			case Insert:
				if curr.state.CompareAndSwap(c, &cell[V]{Remove, c.value}) {
					return c.value, true
				}
				continue
			}
		}

		pred = curr
		curr = curr.next.Load()
	}

	return nil, false
}

// unlink attempts to remove the dead node curr that follows pred, and returns
// the node after curr.
//
// Nodes are only ever pushed at the head, so if the CAS fails because pred's
// successor changed, every live node after pred is still reachable from the
// returned node.
func unlink[K comparable, V any](pred, curr *node[K, V]) *node[K, V] {
	succ := curr.next.Load()
	pred.next.CompareAndSwap(curr, succ)
	return succ
}

// count returns the number of keys whose newest node that is not dead is
// live.
func (l *list[K, V]) count() int {
	n := 0

	l.each(func(_ K, c *cell[V]) bool {
		if c.status != Remove {
			n++
		}
		return true
	})

	return n
}

// each calls fn with the newest node that is not dead for each key, in list
// order. It stops if fn returns false.
func (l *list[K, V]) each(fn func(K, *cell[V]) bool) {
	decided := map[K]struct{}{}

	for curr := l.head.Load(); curr != nil; curr = curr.next.Load() {
		if _, ok := decided[curr.key]; ok {
			continue
		}

		c := curr.state.Load()
		if c.status == Dead {
			continue
		}

		decided[curr.key] = struct{}{}

		if !fn(curr.key, c) {
			return
		}
	}
}

// dump renders every reachable node in list order, including dead nodes.
func (l *list[K, V]) dump() string {
	var w strings.Builder

	for curr := l.head.Load(); curr != nil; curr = curr.next.Load() {
		if w.Len() > 0 {
			w.WriteString(" -> ")
		}
		fmt.Fprintf(&w, "%v(%s)", curr.key, curr.state.Load().status)
	}

	return w.String()
}
