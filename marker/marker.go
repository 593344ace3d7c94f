// Package marker holds fiducial marker locations in 2D and 3D, lifts detected 2D markers
// into camera space and moves batches of 3D markers between frames.
//
// A 3D marker is five points, center first and then the four corners in the clockwise
// order the detector reported them, stored as the rows of one 5x3 matrix. The point
// accessors return row views: writing through them changes the marker.
package marker

import (
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/fiducial/ndbuffer"
	"go.viam.com/fiducial/pointcloud"
)

// NumPoints is the number of points describing a marker: its center and four corners.
const NumPoints = 5

// MarkerType is the dictionary id of a marker.
type MarkerType int

func (t MarkerType) String() string {
	return fmt.Sprintf("marker(%d)", int(t))
}

// Typed is implemented by every marker record.
type Typed interface {
	MarkerType() MarkerType
}

// MarkerLocation2d is a marker as found in an image, in pixel coordinates.
type MarkerLocation2d struct {
	Type    MarkerType  `json:"type"`
	Center  r2.Point    `json:"center"`
	Corners [4]r2.Point `json:"corners"`
}

// NewMarkerLocation2d returns a 2D location with its center computed from the corners.
func NewMarkerLocation2d(t MarkerType, corners [4]r2.Point) MarkerLocation2d {
	loc := MarkerLocation2d{Type: t, Corners: corners}
	loc.ComputeCenter()
	return loc
}

// MarkerType returns the marker's type.
func (loc MarkerLocation2d) MarkerType() MarkerType {
	return loc.Type
}

// ComputeCenter sets Center to the mean of the corners and returns it.
func (loc *MarkerLocation2d) ComputeCenter() r2.Point {
	var sum r2.Point
	for _, c := range loc.Corners {
		sum = sum.Add(c)
	}
	loc.Center = sum.Mul(1. / float64(len(loc.Corners)))
	return loc.Center
}

// Pixels returns the center and the corners rounded to the nearest pixel.
func (loc MarkerLocation2d) Pixels() [NumPoints]image.Point {
	var out [NumPoints]image.Point
	out[0] = toPixel(loc.Center)
	for i, c := range loc.Corners {
		out[i+1] = toPixel(c)
	}
	return out
}

func toPixel(p r2.Point) image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// MarkerLocation3d is a marker in a 3D frame.
type MarkerLocation3d struct {
	typ    MarkerType
	points ndbuffer.MatrixN3
}

// NewMarkerLocation3d returns a marker over a freshly allocated 5x3 matrix. With no points
// every point is the origin; otherwise exactly five points are required, center first.
func NewMarkerLocation3d(t MarkerType, points ...r3.Vector) (*MarkerLocation3d, error) {
	if len(points) != 0 && len(points) != NumPoints {
		return nil, errors.Wrapf(ndbuffer.ErrInvalid, "a marker has %d points, got %d", NumPoints, len(points))
	}
	m, err := ndbuffer.NewMatrixN3(NumPoints)
	if err != nil {
		return nil, err
	}
	for i, p := range points {
		m.SetRow(i, p)
	}
	return &MarkerLocation3d{typ: t, points: m}, nil
}

// MarkerLocation3dFromMatrix wraps a 5x3 matrix without copying it.
func MarkerLocation3dFromMatrix(t MarkerType, m ndbuffer.MatrixN3) (*MarkerLocation3d, error) {
	if m.Rows() != NumPoints {
		return nil, errors.Wrapf(ndbuffer.ErrInvalid, "a marker has %d points, got %d", NumPoints, m.Rows())
	}
	return &MarkerLocation3d{typ: t, points: m}, nil
}

// MarkerType returns the marker's type.
func (loc *MarkerLocation3d) MarkerType() MarkerType {
	return loc.typ
}

// Center returns a view of the center point.
func (loc *MarkerLocation3d) Center() ndbuffer.Vector3 {
	return loc.points.RowView(0)
}

// Corner returns a view of corner k, 0 <= k < 4. It panics for any other k.
func (loc *MarkerLocation3d) Corner(k int) ndbuffer.Vector3 {
	if k < 0 || k >= NumPoints-1 {
		panic(errors.Wrapf(ndbuffer.ErrOutOfBounds, "corner %d", k))
	}
	return loc.points.RowView(k + 1)
}

// Points returns the 5x3 matrix backing the marker.
func (loc *MarkerLocation3d) Points() ndbuffer.MatrixN3 {
	return loc.points
}

// HasHoles reports whether any point was lifted from a pixel without depth.
func (loc *MarkerLocation3d) HasHoles() bool {
	for i := range NumPoints {
		if pointcloud.IsHole(loc.points.RowView(i)) {
			return true
		}
	}
	return false
}

func (loc *MarkerLocation3d) String() string {
	return fmt.Sprintf("%v%v", loc.typ, loc.points.Points())
}
