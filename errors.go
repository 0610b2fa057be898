package listkit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates that an operation was called with an
	// element it does not accept, such as a nil pointer.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported indicates that an operation is not part of a container's
	// contract.
	ErrUnsupported = errors.ErrUnsupported
)

// InvalidArgumentError is the value passed to panic() when a container
// operation is called with a nil element.
type InvalidArgumentError struct {
	Operation string
	Reason    string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Operation, ErrInvalidArgument, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}
