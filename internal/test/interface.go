package test

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// TestingT is the subset of [testing.TB] needed to manage test-scoped
// resources.
type TestingT interface {
	FailerT
	Cleanup(func())
}

// FailerT is the subset of [testing.TB] needed to report failures. It is
// implemented by [rapid.T] so assertions can be made inside property checks.
type FailerT interface {
	Helper()
	Log(...any)
	Logf(string, ...any)
	Fatal(...any)
	Fatalf(string, ...any)
	Error(...any)
	Errorf(string, ...any)
}

// deadliner is implemented by [testing.T] when the test binary has a timeout.
type deadliner interface {
	Deadline() (time.Time, bool)
}

var (
	_ TestingT  = (testing.TB)(nil)
	_ FailerT   = (*rapid.T)(nil)
	_ deadliner = (*testing.T)(nil)
)
