// Package element validates the elements passed to container operations.
package element

import (
	"reflect"

	"github.com/dogmatiq/listkit"
)

// MustBeValid panics with a [listkit.InvalidArgumentError] if e is nil.
//
// Only types that have a nil value are inspected; for all other types the
// check is free of allocations.
func MustBeValid[E any](op string, e E) {
	if IsNil(e) {
		panic(&listkit.InvalidArgumentError{
			Operation: op,
			Reason:    "element must not be nil",
		})
	}
}

// IsNil returns true if e is the nil value of a type that has one.
func IsNil[E any](e E) bool {
	switch reflect.TypeOf((*E)(nil)).Elem().Kind() {
	case reflect.Interface:
		v := reflect.ValueOf(any(e))
		if !v.IsValid() {
			return true
		}
		return isNilValue(v)
	case reflect.Pointer,
		reflect.Map,
		reflect.Slice,
		reflect.Chan,
		reflect.Func,
		reflect.UnsafePointer:
		return reflect.ValueOf(any(e)).IsNil()
	default:
		return false
	}
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer,
		reflect.Map,
		reflect.Slice,
		reflect.Chan,
		reflect.Func,
		reflect.Interface,
		reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}
