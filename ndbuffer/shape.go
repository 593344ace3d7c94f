package ndbuffer

import (
	"fmt"
	"iter"
)

// Shape is the extents of a logical N-dimensional array. It is immutable once constructed.
type Shape struct {
	dims []int
	// sizes[i] is the product of dims[i:]; sizes[len(dims)] is 1.
	sizes []int
}

// NewShape returns a Shape with the given dimensions. Every dimension must be positive.
func NewShape(dims ...int) (Shape, error) {
	if len(dims) == 0 {
		return Shape{}, newInvalidError("shape needs at least one dimension")
	}
	for i, d := range dims {
		if d <= 0 {
			return Shape{}, newInvalidError("dimension %d of shape %v must be positive", i, dims)
		}
	}
	owned := append([]int(nil), dims...)
	sizes := make([]int, len(dims)+1)
	sizes[len(dims)] = 1
	for i := len(dims) - 1; i >= 0; i-- {
		sizes[i] = sizes[i+1] * dims[i]
	}
	return Shape{dims: owned, sizes: sizes}, nil
}

func mustShape(dims ...int) Shape {
	s, err := NewShape(dims...)
	if err != nil {
		panic(err)
	}
	return s
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s.dims)
}

// Dim returns the extent of dimension i.
func (s Shape) Dim(i int) int {
	return s.dims[i]
}

// Dims returns a copy of the extents.
func (s Shape) Dims() []int {
	return append([]int(nil), s.dims...)
}

// Size returns the number of elements spanned by dimensions i through the last one.
// Size(0) is the total element count and Size(Rank()) is 1.
func (s Shape) Size(i int) int {
	return s.sizes[i]
}

// Equal reports whether both shapes have the same extents.
func (s Shape) Equal(other Shape) bool {
	if len(s.dims) != len(other.dims) {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != other.dims[i] {
			return false
		}
	}
	return true
}

func (s Shape) String() string {
	return fmt.Sprintf("%v", s.dims)
}

// Iterate yields every coordinate tuple of the shape in row-major order, last dimension
// fastest, from the all-zero tuple to the all-max tuple. The yielded slice is reused
// between iterations; copy it to retain it.
func (s Shape) Iterate() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if len(s.dims) == 0 {
			return
		}
		coord := make([]int, len(s.dims))
		for {
			if !yield(coord) {
				return
			}
			d := len(coord) - 1
			for ; d >= 0; d-- {
				coord[d]++
				if coord[d] < s.dims[d] {
					break
				}
				coord[d] = 0
			}
			if d < 0 {
				return
			}
		}
	}
}
