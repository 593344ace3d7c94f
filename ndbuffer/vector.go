package ndbuffer

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Vector2 is a 1 x 2 view with named components, used for pixel coordinates.
type Vector2 struct {
	Matrix
}

// NewVector2 allocates a detached vector holding (x, y).
func NewVector2(x, y float64) Vector2 {
	m := mustMatrix(1, 2)
	m.SetAt(0, 0, x)
	m.SetAt(0, 1, y)
	return Vector2{m}
}

// Vector2FromMatrix checks that m is 1 x 2 and wraps it without copying.
func Vector2FromMatrix(m Matrix) (Vector2, error) {
	if err := m.fixed(1, 2); err != nil {
		return Vector2{}, err
	}
	return Vector2{m}, nil
}

// X returns the first component.
func (v Vector2) X() float64 { return v.At(0, 0) }

// Y returns the second component.
func (v Vector2) Y() float64 { return v.At(0, 1) }

// SetX writes the first component through the view.
func (v Vector2) SetX(x float64) { v.SetAt(0, 0, x) }

// SetY writes the second component through the view.
func (v Vector2) SetY(y float64) { v.SetAt(0, 1, y) }

// Point copies the vector into an r2.Point.
func (v Vector2) Point() r2.Point {
	return r2.Point{X: v.X(), Y: v.Y()}
}

// Add returns v + o as a new vector.
func (v Vector2) Add(o Vector2) Vector2 {
	return NewVector2(v.X()+o.X(), v.Y()+o.Y())
}

// Sub returns v - o as a new vector.
func (v Vector2) Sub(o Vector2) Vector2 {
	return NewVector2(v.X()-o.X(), v.Y()-o.Y())
}

// Distance returns the euclidean distance between v and o.
func (v Vector2) Distance(o Vector2) float64 {
	return math.Hypot(v.X()-o.X(), v.Y()-o.Y())
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X(), v.Y())
}

// Vector3 is a 1 x 3 view with named components. It may be detached (owning fresh
// storage) or a row view into a larger matrix.
type Vector3 struct {
	Matrix
}

// NewVector3 allocates a detached vector holding (x, y, z).
func NewVector3(x, y, z float64) Vector3 {
	v := Vector3{mustMatrix(1, 3)}
	v.SetXYZ(x, y, z)
	return v
}

// Vector3FromR3 allocates a detached vector holding p.
func Vector3FromR3(p r3.Vector) Vector3 {
	return NewVector3(p.X, p.Y, p.Z)
}

// Vector3FromMatrix checks that m is 1 x 3 and wraps it without copying.
func Vector3FromMatrix(m Matrix) (Vector3, error) {
	if err := m.fixed(1, 3); err != nil {
		return Vector3{}, err
	}
	return Vector3{m}, nil
}

// X returns the first component.
func (v Vector3) X() float64 { return v.At(0, 0) }

// Y returns the second component.
func (v Vector3) Y() float64 { return v.At(0, 1) }

// Z returns the third component.
func (v Vector3) Z() float64 { return v.At(0, 2) }

// SetXYZ writes all three components through the view.
func (v Vector3) SetXYZ(x, y, z float64) {
	v.SetAt(0, 0, x)
	v.SetAt(0, 1, y)
	v.SetAt(0, 2, z)
}

// SetVector writes p through the view.
func (v Vector3) SetVector(p r3.Vector) {
	v.SetXYZ(p.X, p.Y, p.Z)
}

// Vector copies the components into an r3.Vector.
func (v Vector3) Vector() r3.Vector {
	return r3.Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Add returns v + o as a new vector.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3FromR3(v.Vector().Add(o.Vector()))
}

// Sub returns v - o as a new vector.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3FromR3(v.Vector().Sub(o.Vector()))
}

// Div returns v / s as a new vector.
func (v Vector3) Div(s float64) Vector3 {
	return Vector3FromR3(v.Vector().Mul(1 / s))
}

// Distance returns the euclidean distance between v and o.
func (v Vector3) Distance(o Vector3) float64 {
	return v.Vector().Distance(o.Vector())
}

// Norm returns the euclidean length of v.
func (v Vector3) Norm() float64 {
	return v.Vector().Norm()
}

// IsZero reports whether every component is zero, which point clouds use to mark holes.
func (v Vector3) IsZero() bool {
	return v.X() == 0 && v.Y() == 0 && v.Z() == 0
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X(), v.Y(), v.Z())
}
