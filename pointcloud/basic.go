package pointcloud

import (
	"github.com/golang/geo/r3"

	"go.viam.com/fiducial/ndbuffer"
)

// basicPointCloud stores its points in an N x 3 matrix, one point per row.
type basicPointCloud struct {
	points ndbuffer.MatrixN3
}

// BasicPointCloud is a PointCloud that owns its points and can be written to.
type BasicPointCloud interface {
	PointCloud

	// Set overwrites the point at index i.
	Set(i int, p r3.Vector) error

	// Matrix returns the N x 3 storage of the cloud. Writes to it change the cloud.
	Matrix() ndbuffer.MatrixN3
}

// New returns a cloud of n points, all holes.
func New(n int) (BasicPointCloud, error) {
	m, err := ndbuffer.NewMatrixN3(n)
	if err != nil {
		return nil, err
	}
	return &basicPointCloud{points: m}, nil
}

// NewFromMatrix returns a cloud over an existing N x 3 matrix without copying it.
func NewFromMatrix(m ndbuffer.MatrixN3) BasicPointCloud {
	return &basicPointCloud{points: m}
}

// NewFromPoints copies points into a new cloud.
func NewFromPoints(points ...r3.Vector) (BasicPointCloud, error) {
	m, err := ndbuffer.MatrixN3FromPoints(points...)
	if err != nil {
		return nil, err
	}
	return &basicPointCloud{points: m}, nil
}

func (cloud *basicPointCloud) Size() int {
	return cloud.points.Rows()
}

// At returns a view of row i; writing to it changes the cloud.
func (cloud *basicPointCloud) At(i int) (ndbuffer.Vector3, error) {
	if i < 0 || i >= cloud.Size() {
		return ndbuffer.Vector3{}, NewIndexOutOfRangeError(i, cloud.Size())
	}
	return cloud.points.RowView(i), nil
}

func (cloud *basicPointCloud) Set(i int, p r3.Vector) error {
	if i < 0 || i >= cloud.Size() {
		return NewIndexOutOfRangeError(i, cloud.Size())
	}
	cloud.points.SetRow(i, p)
	return nil
}

func (cloud *basicPointCloud) Matrix() ndbuffer.MatrixN3 {
	return cloud.points
}
