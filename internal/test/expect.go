package test

import (
	"errors"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Expect compares two values and fails the test if they are different.
func Expect[T any](
	t FailerT,
	failMessage string,
	got, want T,
	transforms ...func(T) T,
) {
	t.Helper()

	for _, fn := range transforms {
		got = fn(got)
		want = fn(want)
	}

	if diff := cmp.Diff(
		want,
		got,
		cmpopts.EquateEmpty(),
		cmpopts.EquateErrors(),
	); diff != "" {
		t.Log(failMessage)
		t.Fatal(diff)
	}
}

// ExpectPanic calls fn and fails the test unless it panics with an error that
// matches target according to [errors.Is].
func ExpectPanic(
	t FailerT,
	target error,
	fn func(),
) {
	t.Helper()

	defer func() {
		t.Helper()

		switch r := recover().(type) {
		case nil:
			t.Fatal("expected function to panic")
		case error:
			if !errors.Is(r, target) {
				t.Fatalf("function panicked with an unexpected error: got %q, want %q", r, target)
			}
		default:
			t.Fatalf("expected function to panic with an error, got %#v", r)
		}
	}()

	fn()
}
