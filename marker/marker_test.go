package marker

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/fiducial/ndbuffer"
)

// gridCloud places pixel (x, y) at (x, y, 1) and has no depth in column 0.
type gridCloud struct {
	width, height int
}

func (g gridCloud) PointAtPixel(x, y int) (ndbuffer.Vector3, error) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return ndbuffer.Vector3{}, errors.Wrapf(ndbuffer.ErrOutOfBounds, "pixel (%d, %d)", x, y)
	}
	if x == 0 {
		return ndbuffer.NewVector3(0, 0, 0), nil
	}
	return ndbuffer.NewVector3(float64(x), float64(y), 1), nil
}

func square(t MarkerType, x, y float64) MarkerLocation2d {
	return NewMarkerLocation2d(t, [4]r2.Point{{X: x, Y: y}, {X: x + 10, Y: y}, {X: x + 10, Y: y + 10}, {X: x, Y: y + 10}})
}

func TestMarkerLocation2d(t *testing.T) {
	loc := square(7, 20, 30)
	test.That(t, loc.Center, test.ShouldResemble, r2.Point{X: 25, Y: 35})
	test.That(t, loc.MarkerType(), test.ShouldEqual, MarkerType(7))
	test.That(t, loc.Type.String(), test.ShouldEqual, "marker(7)")

	loc.Corners[2] = r2.Point{X: 30.4, Y: 40.6}
	test.That(t, loc.ComputeCenter(), test.ShouldResemble, loc.Center)
	px := loc.Pixels()
	test.That(t, px[0].X, test.ShouldEqual, 25)
	test.That(t, px[3].X, test.ShouldEqual, 30)
	test.That(t, px[3].Y, test.ShouldEqual, 41)
}

func TestMarkerLocation3d(t *testing.T) {
	_, err := NewMarkerLocation3d(1, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, errors.Is(err, ndbuffer.ErrInvalid), test.ShouldBeTrue)

	m, err := NewMarkerLocation3d(1,
		r3.Vector{X: 0, Y: 0, Z: 1}, r3.Vector{X: -1, Y: -1, Z: 1}, r3.Vector{X: 1, Y: -1, Z: 1}, r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: -1, Y: 1, Z: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Center().Vector(), test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 1})
	test.That(t, m.Corner(2).Vector(), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, func() { m.Corner(4) }, test.ShouldPanic)
	test.That(t, m.HasHoles(), test.ShouldBeFalse)

	m.Corner(0).SetXYZ(0, 0, 0)
	test.That(t, m.Points().Row(1), test.ShouldResemble, r3.Vector{})
	test.That(t, m.HasHoles(), test.ShouldBeTrue)

	short, err := ndbuffer.NewMatrixN3(4)
	test.That(t, err, test.ShouldBeNil)
	_, err = MarkerLocation3dFromMatrix(1, short)
	test.That(t, errors.Is(err, ndbuffer.ErrInvalid), test.ShouldBeTrue)
}

func TestLift(t *testing.T) {
	cloud := gridCloud{width: 100, height: 100}

	lifted, err := Lift(square(3, 20, 30), cloud)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lifted.MarkerType(), test.ShouldEqual, MarkerType(3))
	test.That(t, lifted.Points().Points(), test.ShouldResemble, []r3.Vector{
		{X: 25, Y: 35, Z: 1}, {X: 20, Y: 30, Z: 1}, {X: 30, Y: 30, Z: 1}, {X: 30, Y: 40, Z: 1}, {X: 20, Y: 40, Z: 1},
	})
	test.That(t, lifted.HasHoles(), test.ShouldBeFalse)

	holey, err := Lift(square(3, 0, 30), cloud)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, holey.HasHoles(), test.ShouldBeTrue)

	_, err = Lift(square(3, 95, 30), cloud)
	test.That(t, errors.Is(err, ndbuffer.ErrOutOfBounds), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "marker(3)")

	all, err := LiftAll([]MarkerLocation2d{square(1, 10, 10), square(2, 50, 50)}, cloud)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(all), test.ShouldEqual, 2)
	test.That(t, all[1].Center().Vector(), test.ShouldResemble, r3.Vector{X: 55, Y: 55, Z: 1})

	_, err = LiftAll([]MarkerLocation2d{square(1, 10, 10), square(2, 95, 95)}, cloud)
	test.That(t, err, test.ShouldNotBeNil)
}
