package marker

import (
	"github.com/pkg/errors"

	"go.viam.com/fiducial/ndbuffer"
)

// PixelCloud resolves a pixel of a depth image to its camera-space point.
type PixelCloud interface {
	PointAtPixel(x, y int) (ndbuffer.Vector3, error)
}

// Lift samples the center and corners of a 2D marker through cloud and returns the
// resulting 3D marker. Pixels without depth come back as holes; see HasHoles.
func Lift(loc MarkerLocation2d, cloud PixelCloud) (*MarkerLocation3d, error) {
	out, err := NewMarkerLocation3d(loc.Type)
	if err != nil {
		return nil, err
	}
	for i, px := range loc.Pixels() {
		p, err := cloud.PointAtPixel(px.X, px.Y)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot lift point %d of %v at %v", i, loc.Type, px)
		}
		out.points.RowView(i).SetVector(p.Vector())
	}
	return out, nil
}

// LiftAll lifts every marker in order, stopping at the first failure.
func LiftAll(locs []MarkerLocation2d, cloud PixelCloud) ([]*MarkerLocation3d, error) {
	out := make([]*MarkerLocation3d, 0, len(locs))
	for _, loc := range locs {
		lifted, err := Lift(loc, cloud)
		if err != nil {
			return nil, err
		}
		out = append(out, lifted)
	}
	return out, nil
}
