package ndbuffer

import (
	"math"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestParseSlice(t *testing.T) {
	s, err := ParseSlice(":")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldResemble, Slice{0, math.MaxInt, 1})
	test.That(t, s, test.ShouldResemble, All())

	s, err = ParseSlice("1:7:2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Start(), test.ShouldEqual, 1)
	test.That(t, s.Stop(), test.ShouldEqual, 7)
	test.That(t, s.Step(), test.ShouldEqual, 2)
	test.That(t, s.String(), test.ShouldEqual, "1:7:2")

	s, err = ParseSlice("::3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldResemble, Slice{0, math.MaxInt, 3})
	test.That(t, s.String(), test.ShouldEqual, "0::3")

	s, err = ParseSlice("4")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldResemble, Slice{4, math.MaxInt, 1})

	s, err = ParseSlice(" 2 : 5 ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldResemble, Slice{2, 5, 1})

	for _, bad := range []string{"", "   ", "a:b", "1:2:3:4", "::0", "5:2", "-1:"} {
		_, err := ParseSlice(bad)
		test.That(t, errors.Is(err, ErrInvalid), test.ShouldBeTrue)
	}
}

func TestSliceIndex(t *testing.T) {
	s := MustParseSlice("1:7:2")
	test.That(t, s.Len(), test.ShouldEqual, 3)

	for i, expected := range []int{1, 3, 5} {
		got, err := s.Index(i)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, expected)
	}

	_, err := s.Index(3)
	test.That(t, errors.Is(err, ErrOutOfBounds), test.ShouldBeTrue)
	_, err = s.Index(-1)
	test.That(t, errors.Is(err, ErrOutOfBounds), test.ShouldBeTrue)

	empty := Range(4, 4)
	test.That(t, empty.Len(), test.ShouldEqual, 0)
	_, err = empty.Index(0)
	test.That(t, errors.Is(err, ErrOutOfBounds), test.ShouldBeTrue)

	test.That(t, All().Len(), test.ShouldEqual, math.MaxInt)
	got, err := All().Index(1 << 40)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, 1<<40)
}

func TestSliceIterate(t *testing.T) {
	for _, tc := range []struct {
		start, stop, step int
		expected          []int
	}{
		{0, 5, 1, []int{0, 1, 2, 3, 4}},
		{1, 7, 2, []int{1, 3, 5}},
		{1, 8, 2, []int{1, 3, 5, 7}},
		{3, 4, 10, []int{3}},
		{2, 2, 1, nil},
	} {
		s, err := NewSlice(tc.start, tc.stop, tc.step)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, slices.Collect(s.Iterate()), test.ShouldResemble, tc.expected)
		// reproducible
		test.That(t, slices.Collect(s.Iterate()), test.ShouldResemble, tc.expected)
	}

	_, err := NewSlice(0, 4, 0)
	test.That(t, errors.Is(err, ErrInvalid), test.ShouldBeTrue)
}

func TestSliceSub(t *testing.T) {
	outer := MustParseSlice("2:12:2") // 2 4 6 8 10
	inner, err := outer.Sub(MustParseSlice("1::2"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, slices.Collect(inner.Iterate()), test.ShouldResemble, []int{4, 8})

	_, err = outer.Sub(MustParseSlice("6:"))
	test.That(t, errors.Is(err, ErrOutOfBounds), test.ShouldBeTrue)
}

func TestMultiSliceTrim(t *testing.T) {
	shape, err := NewShape(2, 3)
	test.That(t, err, test.ShouldBeNil)

	ms := MultiSlice{All(), MustParseSlice("1:10:2")}
	trimmed := ms.Trim(shape)
	test.That(t, trimmed, test.ShouldResemble, MultiSlice{Slice{0, 2, 1}, Slice{1, 4, 2}})
	// input untouched
	test.That(t, ms[0], test.ShouldResemble, All())

	inside := MultiSlice{Range(0, 1), Range(1, 2)}
	test.That(t, inside.Trim(shape), test.ShouldResemble, inside)

	parsed, err := ParseMultiSlice("1:2,:")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed, test.ShouldResemble, MultiSlice{Range(1, 2), All()})
	test.That(t, parsed.String(), test.ShouldEqual, "1:2:1,0::1")

	_, err = ParseMultiSlice("1:2,")
	test.That(t, errors.Is(err, ErrInvalid), test.ShouldBeTrue)
}
