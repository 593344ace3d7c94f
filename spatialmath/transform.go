package spatialmath

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/fiducial/ndbuffer"
)

// TransformPoint applies tx to p as the homogeneous point (x, y, z, 1).
func TransformPoint(tx ndbuffer.Matrix4x4, p ndbuffer.Vector3) ndbuffer.Vector3 {
	return tx.Apply(p)
}

// TransformPoints applies tx to every row of an N x 3 matrix in one multiplication:
// the rows are extended with a 1, multiplied by tx transposed, and the fourth column of
// the result is dropped. The result is written to dst, which must be N x 3 and may
// alias points.
func TransformPoints(tx ndbuffer.Matrix4x4, points mat.Matrix, dst ndbuffer.Matrix) error {
	n, c := points.Dims()
	if c != 3 {
		return errors.Wrapf(ndbuffer.ErrInvalid, "points must have 3 columns, got %d", c)
	}
	if dr, dc := dst.Dims(); dr != n || dc != 3 {
		return errors.Wrapf(ndbuffer.ErrInvalid, "destination is %dx%d, want %dx3", dr, dc, n)
	}
	homogeneous := mat.NewDense(n, 4, nil)
	for i := range n {
		homogeneous.Set(i, 0, points.At(i, 0))
		homogeneous.Set(i, 1, points.At(i, 1))
		homogeneous.Set(i, 2, points.At(i, 2))
		homogeneous.Set(i, 3, 1)
	}
	var out mat.Dense
	out.Mul(homogeneous, tx.T())
	return dst.CopyFrom(out.Slice(0, n, 0, 3))
}
