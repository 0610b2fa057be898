package stress

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
)

// OpKind is the type of a recorded set operation.
type OpKind int

const (
	// OpAdd is a call to Add.
	OpAdd OpKind = iota

	// OpRemove is a call to Remove.
	OpRemove

	// OpContains is a call to Contains.
	OpContains
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "contains"
	}
}

// Op is a completed operation on a single element.
//
// Call and Return are ticks of a shared logical clock, taken immediately
// before the call begins and immediately after it returns.
type Op struct {
	Worker int
	Kind   OpKind
	Result bool
	Call   int64
	Return int64
}

func (o Op) String() string {
	return fmt.Sprintf("w%d:%s=%t[%d,%d]", o.Worker, o.Kind, o.Result, o.Call, o.Return)
}

// History is the set of operations performed by all workers.
type History []Op

func (h History) String() string {
	var w strings.Builder
	for i, op := range h {
		if i > 0 {
			w.WriteString(" ")
		}
		w.WriteString(op.String())
	}
	return w.String()
}

// Record runs ops random operations on element e from each worker and returns
// the resulting history.
func (d *Driver) Record(ctx context.Context, e, ops int, seed int64) (History, error) {
	var (
		clock atomic.Int64
		m     sync.Mutex
		h     History
		wg    sync.WaitGroup
		start = make(chan struct{})
	)

	for w := 0; w < d.workers(); w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed + int64(w)))
			local := make(History, 0, ops)

			<-start

			for i := 0; i < ops; i++ {
				op := Op{
					Worker: w,
					Kind:   OpKind(rng.Intn(3)),
				}

				op.Call = clock.Add(1)
				switch op.Kind {
				case OpAdd:
					op.Result = d.Set.Add(e)
				case OpRemove:
					op.Result = d.Set.Remove(e)
				default:
					op.Result = d.Set.Contains(e)
				}
				op.Return = clock.Add(1)

				local = append(local, op)
			}

			m.Lock()
			h = append(h, local...)
			m.Unlock()
		}(w)
	}

	close(start)
	wg.Wait()

	return h, ctx.Err()
}

// Linearizable returns true if there is a sequential ordering of h that
// respects real-time precedence and in which every operation returns the
// value that was recorded, starting from the given membership.
//
// The search is exponential in the worst case and is intended for histories of
// a few dozen operations.
func (h History) Linearizable(member bool) bool {
	if len(h) > 62 {
		panic("history is too long to check")
	}

	type state struct {
		done   uint64
		member bool
	}

	var (
		full    = uint64(1)<<len(h) - 1
		visited = map[state]bool{}
		search  func(state) bool
	)

	search = func(s state) bool {
		if s.done == full {
			return true
		}
		if visited[s] {
			return false
		}
		visited[s] = true

		for i, op := range h {
			bit := uint64(1) << i
			if s.done&bit != 0 || !h.minimal(s.done, i) {
				continue
			}

			next, ok := apply(s.member, op)
			if ok && search(state{s.done | bit, next}) {
				return true
			}
		}

		return false
	}

	return search(state{0, member})
}

// minimal returns true if no pending operation other than h[i] returned
// before h[i] was called.
func (h History) minimal(done uint64, i int) bool {
	for j, op := range h {
		if j != i && done&(uint64(1)<<j) == 0 && op.Return < h[i].Call {
			return false
		}
	}
	return true
}

// apply returns the membership after op, and whether op's recorded result is
// consistent with the membership before it.
func apply(member bool, op Op) (bool, bool) {
	switch op.Kind {
	case OpAdd:
		return true, op.Result == !member
	case OpRemove:
		return false, op.Result == member
	default:
		return member, op.Result == member
	}
}
