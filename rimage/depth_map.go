// Package rimage holds the depth image types consumed by deprojection.
package rimage

import (
	"encoding/binary"
	"image"

	"github.com/pkg/errors"
)

// Depth is a raw 16-bit depth sample as produced by the camera. Its unit depends on the
// sensor; a depth scale converts it to meters.
type Depth uint16

// MaxDepth is the largest representable depth sample.
const MaxDepth = Depth(^uint16(0))

// ErrDepthOutOfBounds is returned when a pixel index lies outside the depth image.
var ErrDepthOutOfBounds = errors.New("pixel outside depth image")

// DepthMap is a row-major width x height image of native-endian uint16 samples. It
// aliases the bytes it was created from: changes to those bytes are visible through
// the map, and the bytes must outlive it.
type DepthMap struct {
	width  int
	height int

	data []byte
}

// NewDepthMap wraps data as a width x height depth image without copying it.
func NewDepthMap(data []byte, width, height int) (*DepthMap, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid depth map size (%d, %d)", width, height)
	}
	if need := 2 * width * height; len(data) < need {
		return nil, errors.Errorf("depth buffer of %d bytes is too small for %dx%d samples (%d bytes)",
			len(data), width, height, need)
	}
	return &DepthMap{width: width, height: height, data: data}, nil
}

// NewEmptyDepthMap allocates a zeroed depth map.
func NewEmptyDepthMap(width, height int) *DepthMap {
	dm, err := NewDepthMap(make([]byte, 2*width*height), width, height)
	if err != nil {
		panic(err)
	}
	return dm
}

// Width returns the number of columns.
func (dm *DepthMap) Width() int {
	return dm.width
}

// Height returns the number of rows.
func (dm *DepthMap) Height() int {
	return dm.height
}

// Bounds returns the image rectangle.
func (dm *DepthMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, dm.width, dm.height)
}

// Len returns the number of samples.
func (dm *DepthMap) Len() int {
	return dm.width * dm.height
}

// Bytes returns the aliased backing bytes.
func (dm *DepthMap) Bytes() []byte {
	return dm.data
}

// DepthAt returns the sample at linear pixel index i, read from byte offset 2*i.
func (dm *DepthMap) DepthAt(i int) (Depth, error) {
	if i < 0 || i >= dm.Len() {
		return 0, errors.Wrapf(ErrDepthOutOfBounds, "index %d not in [0, %d)", i, dm.Len())
	}
	return Depth(binary.NativeEndian.Uint16(dm.data[2*i:])), nil
}

// GetDepth returns the sample at column x, row y.
func (dm *DepthMap) GetDepth(x, y int) (Depth, error) {
	if x < 0 || y < 0 || x >= dm.width || y >= dm.height {
		return 0, errors.Wrapf(ErrDepthOutOfBounds, "pixel (%d, %d) not in %dx%d image", x, y, dm.width, dm.height)
	}
	return dm.DepthAt(y*dm.width + x)
}

// Set writes a sample at column x, row y.
func (dm *DepthMap) Set(x, y int, d Depth) error {
	if x < 0 || y < 0 || x >= dm.width || y >= dm.height {
		return errors.Wrapf(ErrDepthOutOfBounds, "pixel (%d, %d) not in %dx%d image", x, y, dm.width, dm.height)
	}
	binary.NativeEndian.PutUint16(dm.data[2*(y*dm.width+x):], uint16(d))
	return nil
}

// MinMax returns the smallest and largest non-zero samples. Zero samples are holes.
func (dm *DepthMap) MinMax() (Depth, Depth) {
	low, high := MaxDepth, Depth(0)
	for i := range dm.Len() {
		d := Depth(binary.NativeEndian.Uint16(dm.data[2*i:]))
		if d == 0 {
			continue
		}
		low = min(low, d)
		high = max(high, d)
	}
	if high == 0 {
		return 0, 0
	}
	return low, high
}
