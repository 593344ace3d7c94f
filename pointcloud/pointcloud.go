// Package pointcloud defines an indexed point cloud and provides an owned implementation.
//
// A point cloud here is addressed by a linear index. Missing points ("holes") are
// represented by the zero vector; nothing special-cases them beyond the helpers below.
package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/fiducial/ndbuffer"
)

// ErrIndexOutOfRange is returned when a point index is outside the cloud.
var ErrIndexOutOfRange = errors.New("point index out of range")

// PointCloud is an addressable collection of 3D points.
type PointCloud interface {
	// Size returns the number of points in the cloud.
	Size() int

	// At returns the point at index i. Implementations may compute the point on
	// demand or return a view into their storage.
	At(i int) (ndbuffer.Vector3, error)
}

// NewIndexOutOfRangeError wraps ErrIndexOutOfRange with the offending index.
func NewIndexOutOfRangeError(i, size int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0, %d)", i, size)
}

// IsHole reports whether v is the zero vector used for missing points.
func IsHole(v ndbuffer.Vector3) bool {
	return v.IsZero()
}

// Iterate calls fn for every point in index order until fn returns false.
func Iterate(cloud PointCloud, fn func(i int, p ndbuffer.Vector3) bool) error {
	for i := range cloud.Size() {
		p, err := cloud.At(i)
		if err != nil {
			return err
		}
		if !fn(i, p) {
			return nil
		}
	}
	return nil
}

// CloudCentroid returns the mean of every non-hole point, or the zero vector when the
// cloud holds no points.
func CloudCentroid(cloud PointCloud) (r3.Vector, error) {
	var sum r3.Vector
	n := 0
	err := Iterate(cloud, func(_ int, p ndbuffer.Vector3) bool {
		if IsHole(p) {
			return true
		}
		sum = sum.Add(p.Vector())
		n++
		return true
	})
	if err != nil || n == 0 {
		return r3.Vector{}, err
	}
	return sum.Mul(1 / float64(n)), nil
}

// ToMatrix gathers the points at the given indices into a new N x 3 matrix, in order.
func ToMatrix(cloud PointCloud, indices ...int) (ndbuffer.MatrixN3, error) {
	m, err := ndbuffer.NewMatrixN3(len(indices))
	if err != nil {
		return ndbuffer.MatrixN3{}, err
	}
	for row, i := range indices {
		p, err := cloud.At(i)
		if err != nil {
			return ndbuffer.MatrixN3{}, err
		}
		m.SetRow(row, p.Vector())
	}
	return m, nil
}
