// Package listkit is a collection of concurrent sets and maps built directly
// on singly linked lists.
//
// Each sub-package implements a different published concurrency protocol:
//
//   - [github.com/dogmatiq/listkit/markerset] is a sorted lock-free set that
//     represents logical deletion with marker nodes (Harris/Michael).
//   - [github.com/dogmatiq/listkit/lazyset] is a sorted set with wait-free
//     lookups and optimistic per-node locking for mutations.
//   - [github.com/dogmatiq/listkit/backlinkset] is a sorted lock-free set that
//     follows backlinks to recover from contention instead of restarting.
//   - [github.com/dogmatiq/listkit/statusset] is an unordered lock-free set
//     and map that resolves conflicting operations by helping.
//
// Every operation of every container is linearizable and may be called from
// any number of goroutines without external synchronization. The zero value of
// each container is an empty container, ready to use.
//
// None of the containers track their size or support iteration.
package listkit
