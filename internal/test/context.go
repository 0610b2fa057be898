package test

import (
	"context"
	"time"
)

// gracePeriod is the time reserved before the test binary's deadline so that a
// timed-out workload can report its own failure.
const gracePeriod = 2 * time.Second

// Context returns a context that is canceled after the given timeout, or
// shortly before the test binary's deadline if that is sooner. It is also
// canceled when the test completes.
func Context(t TestingT, timeout time.Duration) context.Context {
	t.Helper()

	deadline := time.Now().Add(timeout)

	if d, ok := t.(deadliner); ok {
		if limit, ok := d.Deadline(); ok {
			if limit = limit.Add(-gracePeriod); limit.Before(deadline) {
				deadline = limit
			}
		}
	}

	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	t.Cleanup(cancel)

	return ctx
}
