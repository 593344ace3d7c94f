// Package ndbuffer provides zero-copy, strided N-dimensional views over flat float64 storage.
//
// A Buffer combines a Shape (the logical extents of the backing layout), a MultiSlice
// (the sub-range of that layout the view exposes) and a LinearStore (the memory itself).
// Views never copy their storage: every view derived from a Buffer, including row views
// of matrices, reads and writes the same memory. The storage must outlive all of its views.
//
// Nothing in this package synchronizes access. Concurrent writes through overlapping views
// are data races; confine a store to one goroutine or guard it externally.
package ndbuffer

import "github.com/pkg/errors"

var (
	// ErrInvalid is returned when a shape, slice or view is constructed or used incorrectly.
	ErrInvalid = errors.New("invalid buffer argument")
	// ErrOutOfBounds is returned when a coordinate falls outside the range of its slice or shape.
	ErrOutOfBounds = errors.New("index out of bounds")
)

func newInvalidError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalid, format, args...)
}

func newOutOfBoundsError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrOutOfBounds, format, args...)
}
