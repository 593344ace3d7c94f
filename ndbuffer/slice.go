package ndbuffer

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

// Slice is a half-open range [start, stop) over one dimension, visited every step elements.
type Slice struct {
	start, stop, step int
}

// NewSlice returns a validated Slice. start must be non-negative, stop must not be before
// start and step must be positive.
func NewSlice(start, stop, step int) (Slice, error) {
	if start < 0 {
		return Slice{}, newInvalidError("slice start %d is negative", start)
	}
	if stop < start {
		return Slice{}, newInvalidError("slice stop %d is before start %d", stop, start)
	}
	if step <= 0 {
		return Slice{}, newInvalidError("slice step %d must be positive", step)
	}
	return Slice{start: start, stop: stop, step: step}, nil
}

// All returns the slice covering a whole dimension, the equivalent of ":".
func All() Slice {
	return Slice{start: 0, stop: math.MaxInt, step: 1}
}

// Range returns the unit-step slice [start, stop). It panics if the range is invalid.
func Range(start, stop int) Slice {
	s, err := NewSlice(start, stop, 1)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSlice parses the "start:stop:step" form. Every field is optional: start defaults
// to 0, stop to the largest int and step to 1. An empty expression is invalid.
func ParseSlice(expr string) (Slice, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Slice{}, newInvalidError("empty slice expression")
	}
	fields := strings.Split(expr, ":")
	if len(fields) > 3 {
		return Slice{}, newInvalidError("slice expression %q has more than 3 fields", expr)
	}
	values := [3]int{0, math.MaxInt, 1}
	for i, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return Slice{}, newInvalidError("slice expression %q: field %q is not an integer", expr, field)
		}
		values[i] = v
	}
	return NewSlice(values[0], values[1], values[2])
}

// MustParseSlice is like ParseSlice but panics on error.
func MustParseSlice(expr string) Slice {
	s, err := ParseSlice(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// Start returns the first absolute coordinate of the slice.
func (s Slice) Start() int {
	return s.start
}

// Stop returns the exclusive upper bound of the slice.
func (s Slice) Stop() int {
	return s.stop
}

// Step returns the distance between consecutive coordinates.
func (s Slice) Step() int {
	return s.step
}

// Len returns the number of coordinates the slice visits.
func (s Slice) Len() int {
	if s.step <= 0 || s.stop <= s.start {
		return 0
	}
	return (s.stop-s.start-1)/s.step + 1
}

// Index maps logical position i within the slice to an absolute coordinate.
func (s Slice) Index(i int) (int, error) {
	if i < 0 || i >= s.Len() {
		return 0, newOutOfBoundsError("position %d outside slice %v", i, s)
	}
	return s.start + i*s.step, nil
}

// Iterate yields the absolute coordinates of the slice in increasing order.
func (s Slice) Iterate() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := s.Len()
		for i := range n {
			if !yield(s.start + i*s.step) {
				return
			}
		}
	}
}

// Sub composes a slice expressed in positions of s into a slice of absolute coordinates.
func (s Slice) Sub(inner Slice) (Slice, error) {
	n := s.Len()
	if inner.start > n {
		return Slice{}, newOutOfBoundsError("slice %v starts past the %d positions of %v", inner, n, s)
	}
	stop := inner.stop
	if stop > n {
		stop = n
	}
	if stop < inner.start {
		stop = inner.start
	}
	return Slice{
		start: s.start + inner.start*s.step,
		stop:  s.start + stop*s.step,
		step:  s.step * inner.step,
	}, nil
}

func (s Slice) String() string {
	stop := ""
	if s.stop != math.MaxInt {
		stop = strconv.Itoa(s.stop)
	}
	return strconv.Itoa(s.start) + ":" + stop + ":" + strconv.Itoa(s.step)
}

// MultiSlice holds one Slice per dimension.
type MultiSlice []Slice

// FullSlices returns a MultiSlice selecting every element of a rank-dimensional shape.
func FullSlices(rank int) MultiSlice {
	ms := make(MultiSlice, rank)
	for i := range ms {
		ms[i] = All()
	}
	return ms
}

// ParseMultiSlice parses comma separated slice expressions, one per dimension, e.g. "1:3,:".
func ParseMultiSlice(expr string) (MultiSlice, error) {
	parts := strings.Split(expr, ",")
	ms := make(MultiSlice, 0, len(parts))
	for _, part := range parts {
		s, err := ParseSlice(part)
		if err != nil {
			return nil, err
		}
		ms = append(ms, s)
	}
	return ms, nil
}

// Trim returns a copy of ms in which every slice whose stop exceeds the shape's extent
// in that dimension stops at start plus that extent. Start and step are kept.
func (ms MultiSlice) Trim(shape Shape) MultiSlice {
	out := make(MultiSlice, len(ms))
	copy(out, ms)
	for i := range out {
		if i >= shape.Rank() {
			break
		}
		if dim := shape.Dim(i); out[i].stop > dim {
			out[i].stop = out[i].start + dim
		}
	}
	return out
}

func (ms MultiSlice) String() string {
	parts := make([]string, len(ms))
	for i, s := range ms {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}
