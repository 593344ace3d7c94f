package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/fiducial/ndbuffer"
)

// Pose is a rigid transform expressed as a translation and a unit quaternion.
type Pose struct {
	Point       r3.Vector
	Orientation quat.Number
}

// NewZeroPose returns the identity pose.
func NewZeroPose() Pose {
	return Pose{Orientation: quat.Number{Real: 1}}
}

// PoseFromMatrix reads the translation and rotation of a homogeneous transform. The
// rotation block must be a proper rotation; any scale folded into it is not recovered.
func PoseFromMatrix(tx ndbuffer.Matrix4x4) Pose {
	return Pose{Point: tx.Translation(), Orientation: rotationToQuat(tx.Rotation())}
}

// Matrix returns the homogeneous transform of the pose.
func (p Pose) Matrix() ndbuffer.Matrix4x4 {
	tx := ndbuffer.Identity4x4()
	rot := quatToRotation(p.Orientation)
	for i := range 3 {
		for j := range 3 {
			tx.SetAt(i, j, rot[i][j])
		}
	}
	tx.SetAt(0, 3, p.Point.X)
	tx.SetAt(1, 3, p.Point.Y)
	tx.SetAt(2, 3, p.Point.Z)
	return tx
}

// Transform rotates v by the orientation and then translates it.
func (p Pose) Transform(v r3.Vector) r3.Vector {
	q := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rotated := quat.Mul(quat.Mul(p.Orientation, q), quat.Conj(p.Orientation))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}.Add(p.Point)
}

// QuaternionAlmostEqual is an equality test for quaternions that treats q and -q as equal.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	near := func(x, y quat.Number) bool {
		return math.Abs(x.Real-y.Real) < tol && math.Abs(x.Imag-y.Imag) < tol &&
			math.Abs(x.Jmag-y.Jmag) < tol && math.Abs(x.Kmag-y.Kmag) < tol
	}
	return near(a, b) || near(a, quat.Scale(-1, b))
}

// rotationToQuat converts a rotation matrix using the branch with the largest divisor.
func rotationToQuat(m ndbuffer.Matrix3x3) quat.Number {
	m00, m01, m02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m10, m11, m12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m20, m21, m22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	var q quat.Number
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{Real: 0.25 / s, Imag: (m21 - m12) * s, Jmag: (m02 - m20) * s, Kmag: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
	return quat.Scale(1/quat.Abs(q), q)
}

func quatToRotation(q quat.Number) [3][3]float64 {
	q = quat.Scale(1/quat.Abs(q), q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}
