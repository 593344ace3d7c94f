package transform

import (
	"github.com/pkg/errors"

	"go.viam.com/fiducial/ndbuffer"
	"go.viam.com/fiducial/pointcloud"
	"go.viam.com/fiducial/rimage"
)

// DepthCloud is a PointCloud computed on demand from a depth image. It stores no points:
// every call to At reads the raw sample and deprojects it, so changes to the depth image
// are reflected immediately. A zero sample deprojects to the hole (0, 0, 0).
type DepthCloud struct {
	depth      *rimage.DepthMap
	intrinsics PinholeCameraIntrinsics
	depthScale float64
}

var _ pointcloud.PointCloud = (*DepthCloud)(nil)

// NewDepthCloud returns a cloud over dm. depthScale is the number of raw depth units
// per output unit, e.g. 1000 for millimeter samples and meter points.
func NewDepthCloud(dm *rimage.DepthMap, intrinsics *PinholeCameraIntrinsics, depthScale float64) (*DepthCloud, error) {
	if err := intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	if err := intrinsics.checkDepthMap(dm); err != nil {
		return nil, err
	}
	if depthScale <= 0 {
		return nil, errors.Errorf("depth scale must be positive, got %v", depthScale)
	}
	return &DepthCloud{depth: dm, intrinsics: *intrinsics, depthScale: depthScale}, nil
}

// Size returns the number of pixels.
func (dc *DepthCloud) Size() int {
	return dc.depth.Len()
}

// Width returns the width of the underlying image.
func (dc *DepthCloud) Width() int {
	return dc.depth.Width()
}

// Height returns the height of the underlying image.
func (dc *DepthCloud) Height() int {
	return dc.depth.Height()
}

// At deprojects pixel index i, which addresses column i mod width of row i div width.
func (dc *DepthCloud) At(i int) (ndbuffer.Vector3, error) {
	if i < 0 || i >= dc.Size() {
		return ndbuffer.Vector3{}, pointcloud.NewIndexOutOfRangeError(i, dc.Size())
	}
	raw, err := dc.depth.DepthAt(i)
	if err != nil {
		return ndbuffer.Vector3{}, err
	}
	w := dc.depth.Width()
	px, py := i%w, i/w
	z := float64(raw) / dc.depthScale
	x, y, z := dc.intrinsics.PixelToPoint(float64(px), float64(py), z)
	return ndbuffer.NewVector3(x, y, z), nil
}

// PointAtPixel deprojects the pixel at column x, row y.
func (dc *DepthCloud) PointAtPixel(x, y int) (ndbuffer.Vector3, error) {
	if x < 0 || y < 0 || x >= dc.Width() || y >= dc.Height() {
		return ndbuffer.Vector3{}, errors.Wrapf(pointcloud.ErrIndexOutOfRange,
			"pixel (%d, %d) not in %dx%d image", x, y, dc.Width(), dc.Height())
	}
	return dc.At(y*dc.Width() + x)
}
