package ndbuffer

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestMatrixN3RowView(t *testing.T) {
	m, err := MatrixN3FromPoints(r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{X: 4, Y: 5, Z: 6}, r3.Vector{X: 7, Y: 8, Z: 9})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Rows(), test.ShouldEqual, 3)

	row := m.RowView(1)
	test.That(t, row.Vector(), test.ShouldResemble, r3.Vector{X: 4, Y: 5, Z: 6})
	r, c := row.Dims()
	test.That(t, r, test.ShouldEqual, 1)
	test.That(t, c, test.ShouldEqual, 3)

	row.SetXYZ(-4, -5, -6)
	test.That(t, m.Row(1), test.ShouldResemble, r3.Vector{X: -4, Y: -5, Z: -6})
	test.That(t, m.Row(0), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, m.Row(2), test.ShouldResemble, r3.Vector{X: 7, Y: 8, Z: 9})

	m.SetAt(1, 2, 60)
	test.That(t, row.Z(), test.ShouldEqual, 60.)

	test.That(t, func() { m.RowView(3) }, test.ShouldPanic)
	test.That(t, func() { row.At(1, 0) }, test.ShouldPanic)

	t.Run("arithmetic is detached", func(t *testing.T) {
		first := m.RowView(0)
		sum := first.Add(NewVector3(1, 1, 1))
		test.That(t, sum.Vector(), test.ShouldResemble, r3.Vector{X: 2, Y: 3, Z: 4})
		diff := first.Sub(NewVector3(1, 2, 3))
		test.That(t, diff.IsZero(), test.ShouldBeTrue)
		half := first.Div(2)
		test.That(t, half.Vector(), test.ShouldResemble, r3.Vector{X: 0.5, Y: 1, Z: 1.5})
		sum.SetXYZ(0, 0, 0)
		test.That(t, m.Row(0), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
		test.That(t, first.Distance(NewVector3(1, 2, 3+2)), test.ShouldAlmostEqual, 2.)
		test.That(t, NewVector3(3, 4, 0).Norm(), test.ShouldAlmostEqual, 5.)
	})

	_, err = MatrixN3FromMatrix(mustMatrix(2, 4))
	test.That(t, errors.Is(err, ErrInvalid), test.ShouldBeTrue)
}

func TestMatrixGonumInterop(t *testing.T) {
	m, err := MatrixOf(2, 3, []float64{1, 2, 3, 4, 5, 6})
	test.That(t, err, test.ShouldBeNil)

	var prod mat.Dense
	prod.Mul(m.T(), m)
	r, c := prod.Dims()
	test.That(t, r, test.ShouldEqual, 3)
	test.That(t, c, test.ShouldEqual, 3)
	test.That(t, prod.At(0, 0), test.ShouldEqual, 17.)
	test.That(t, prod.At(2, 1), test.ShouldEqual, 36.)

	rot, err := NewMatrix3x3(0, -1, 0, 1, 0, 0, 0, 0, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Det(rot), test.ShouldAlmostEqual, 1.)
	test.That(t, rot.MulVec(NewVector3(1, 0, 0)).Vector(), test.ShouldResemble, r3.Vector{X: 0, Y: 1, Z: 0})

	_, err = NewMatrix3x3(1, 2)
	test.That(t, errors.Is(err, ErrInvalid), test.ShouldBeTrue)

	test.That(t, m.CopyFrom(mat.NewDense(3, 2, nil)), test.ShouldNotBeNil)
	test.That(t, m.Dense().RawMatrix().Data, test.ShouldResemble, []float64{1, 2, 3, 4, 5, 6})
}

func TestMatrix4x4(t *testing.T) {
	tx := Identity4x4()
	tx.SetAt(0, 3, 10)
	tx.SetAt(1, 3, -2)

	p := tx.Apply(NewVector3(1, 2, 3))
	test.That(t, p.Vector(), test.ShouldResemble, r3.Vector{X: 11, Y: 0, Z: 3})
	test.That(t, tx.Translation(), test.ShouldResemble, r3.Vector{X: 10, Y: -2, Z: 0})

	rot := tx.Rotation()
	rot.SetAt(0, 0, 0)
	rot.SetAt(0, 1, -1)
	rot.SetAt(1, 0, 1)
	rot.SetAt(1, 1, 0)
	test.That(t, tx.At(0, 1), test.ShouldEqual, -1.)
	test.That(t, tx.At(3, 3), test.ShouldEqual, 1.)

	p = tx.Apply(NewVector3(1, 0, 0))
	test.That(t, p.X(), test.ShouldAlmostEqual, 10.)
	test.That(t, p.Y(), test.ShouldAlmostEqual, -1.)

	composed := tx.Mul(Identity4x4())
	test.That(t, composed.Data(), test.ShouldResemble, tx.Data())
	test.That(t, len(composed.Data()), test.ShouldEqual, 16)

	data := make([]float64, 16)
	aliased, err := Matrix4x4Of(data)
	test.That(t, err, test.ShouldBeNil)
	aliased.SetAt(2, 1, math.Pi)
	test.That(t, data[9], test.ShouldEqual, math.Pi)

	_, err = Matrix4x4Of(make([]float64, 9))
	test.That(t, errors.Is(err, ErrInvalid), test.ShouldBeTrue)

	copied, err := Matrix4x4FromMatrix(mat.NewDiagDense(4, []float64{1, 2, 3, 1}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, copied.At(2, 2), test.ShouldEqual, 3.)
}

func TestVector2(t *testing.T) {
	a := NewVector2(1, 2)
	b := NewVector2(4, 6)
	test.That(t, a.Distance(b), test.ShouldAlmostEqual, 5.)
	test.That(t, b.Sub(a).Point().X, test.ShouldEqual, 3.)
	test.That(t, a.Add(b).Y(), test.ShouldEqual, 8.)
	a.SetX(9)
	a.SetY(8)
	test.That(t, a.String(), test.ShouldEqual, "(9, 8)")

	_, err := Vector2FromMatrix(mustMatrix(1, 3))
	test.That(t, errors.Is(err, ErrInvalid), test.ShouldBeTrue)
}
