package marker

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/fiducial/ndbuffer"
	"go.viam.com/fiducial/spatialmath"
)

// TransformAll applies tx to every point of every marker and returns new markers in the
// same order. All points are moved with a single multiplication; the results share one
// 5M x 3 allocation and each returned marker is a five-row view of it. The input markers
// are not modified.
func TransformAll(markers []*MarkerLocation3d, tx ndbuffer.Matrix4x4) ([]*MarkerLocation3d, error) {
	if len(markers) == 0 {
		return []*MarkerLocation3d{}, nil
	}
	n := len(markers) * NumPoints
	stacked := mat.NewDense(n, 3, nil)
	for i, m := range markers {
		stacked.Slice(i*NumPoints, (i+1)*NumPoints, 0, 3).(*mat.Dense).Copy(m.points)
	}

	dst, err := ndbuffer.NewMatrixN3(n)
	if err != nil {
		return nil, err
	}
	if err := spatialmath.TransformPoints(tx, stacked, dst.Matrix); err != nil {
		return nil, err
	}

	out := make([]*MarkerLocation3d, len(markers))
	for i, m := range markers {
		rows, err := dst.SubMatrix(i*NumPoints, (i+1)*NumPoints, 0, 3)
		if err != nil {
			return nil, err
		}
		points, err := ndbuffer.MatrixN3FromMatrix(rows)
		if err != nil {
			return nil, err
		}
		out[i] = &MarkerLocation3d{typ: m.typ, points: points}
	}
	return out, nil
}

// FindMarkerLocation returns the first marker of type t in list.
func FindMarkerLocation[T Typed](t MarkerType, list []T) (T, bool) {
	return lo.Find(list, func(m T) bool {
		return m.MarkerType() == t
	})
}

// FilterByType returns the markers whose type is one of types, in their original order.
func FilterByType[T Typed](list []T, types ...MarkerType) []T {
	return lo.Filter(list, func(m T, _ int) bool {
		return lo.Contains(types, m.MarkerType())
	})
}
