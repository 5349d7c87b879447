package surface

import (
	"fmt"

	"mystrix-remote/debug"
)

// Host objects can fail in three ways: an error return, a panic from a
// stale object, or a nil handle. These helpers fold all three into a
// default value or an error.

// readOK calls fn and reports whether it produced a usable value.
func readOK[T any](fn func() (T, error)) (v T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			debug.Log("read", "recovered host panic: %v", r)
			var zero T
			v, ok = zero, false
		}
	}()
	got, err := fn()
	if err != nil {
		return v, false
	}
	return got, true
}

// read calls fn and returns def when it fails.
func read[T any](fn func() (T, error), def T) T {
	if v, ok := readOK(fn); ok {
		return v
	}
	return def
}

// count calls a size accessor; failures and negative sizes read as 0.
func count(fn func() int) (n int) {
	defer func() {
		if r := recover(); r != nil {
			debug.Log("read", "recovered host panic: %v", r)
			n = 0
		}
	}()
	return max(fn(), 0)
}

// call runs a host command, turning a panic into an error.
func call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host panic: %v", r)
		}
	}()
	return fn()
}
