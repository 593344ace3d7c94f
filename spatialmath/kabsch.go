// Package spatialmath estimates and applies homogeneous 3D transforms.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/fiducial/ndbuffer"
)

// ErrNumerical is returned when an estimate cannot be computed from the given points.
var ErrNumerical = errors.New("numerical failure")

// SimilarityEstimate is the result of aligning one point set onto another: a rotation,
// a translation and a uniform scale such that to ~= Scale * Rotation * from + Translation.
type SimilarityEstimate struct {
	Rotation    *mat.Dense
	Translation r3.Vector
	Scale       float64
	// Reflected is set when the raw SVD solution was a reflection and was corrected.
	Reflected bool
}

// Estimate runs the Kabsch algorithm, extended with uniform scale, on two N x 3 point sets
// whose rows correspond one to one. N must be at least 3.
func Estimate(from, to ndbuffer.MatrixN3) (*SimilarityEstimate, error) {
	n := from.Rows()
	if n != to.Rows() {
		return nil, errors.Wrapf(ndbuffer.ErrInvalid, "point sets have %d and %d rows", n, to.Rows())
	}
	if n < 3 {
		return nil, errors.Wrapf(ndbuffer.ErrInvalid, "need at least 3 point pairs, got %d", n)
	}

	centroidFrom := centroid(from)
	centroidTo := centroid(to)
	centeredFrom := center(from, centroidFrom)
	centeredTo := center(to, centroidTo)

	// cross-covariance
	var h mat.Dense
	h.Mul(centeredFrom.T(), centeredTo)

	var svd mat.SVD
	if ok := svd.Factorize(&h, mat.SVDFull); !ok {
		return nil, errors.Wrap(ErrNumerical, "failed to factorize cross-covariance matrix")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var rotation mat.Dense
	rotation.Mul(&v, u.T())
	reflected := false
	if mat.Det(&rotation) < 0 {
		var vs mat.Dense
		vs.Mul(&v, mat.NewDiagDense(3, []float64{1, 1, -1}))
		rotation.Mul(&vs, u.T())
		reflected = true
	}

	msFrom := meanSquare(centeredFrom)
	if msFrom == 0 {
		return nil, errors.Wrap(ErrNumerical, "source points are all coincident")
	}
	scale := math.Sqrt(meanSquare(centeredTo) / msFrom)

	var rotated mat.VecDense
	rotated.MulVec(&rotation, mat.NewVecDense(3, centroidFrom))
	translation := r3.Vector{
		X: centroidTo[0] - scale*rotated.AtVec(0),
		Y: centroidTo[1] - scale*rotated.AtVec(1),
		Z: centroidTo[2] - scale*rotated.AtVec(2),
	}

	return &SimilarityEstimate{
		Rotation:    &rotation,
		Translation: translation,
		Scale:       scale,
		Reflected:   reflected,
	}, nil
}

// CalculateTransformation returns the homogeneous transform aligning from onto to. The
// rotation block is left unscaled; the scale only enters through the translation.
func CalculateTransformation(from, to ndbuffer.MatrixN3) (ndbuffer.Matrix4x4, error) {
	est, err := Estimate(from, to)
	if err != nil {
		return ndbuffer.Matrix4x4{}, err
	}
	return est.Transform(), nil
}

// Transform assembles the 4x4 transform with the unscaled rotation.
func (est *SimilarityEstimate) Transform() ndbuffer.Matrix4x4 {
	return est.assemble(1)
}

// ScaledTransform assembles the 4x4 transform with the scale folded into the rotation
// block, so that applying it reproduces Scale * Rotation * p + Translation.
func (est *SimilarityEstimate) ScaledTransform() ndbuffer.Matrix4x4 {
	return est.assemble(est.Scale)
}

func (est *SimilarityEstimate) assemble(scale float64) ndbuffer.Matrix4x4 {
	tx := ndbuffer.Identity4x4()
	for i := range 3 {
		for j := range 3 {
			tx.SetAt(i, j, scale*est.Rotation.At(i, j))
		}
	}
	tx.SetAt(0, 3, est.Translation.X)
	tx.SetAt(1, 3, est.Translation.Y)
	tx.SetAt(2, 3, est.Translation.Z)
	return tx
}

func centroid(m mat.Matrix) []float64 {
	out := make([]float64, 3)
	for j := range out {
		out[j] = stat.Mean(mat.Col(nil, j, m), nil)
	}
	return out
}

func center(m mat.Matrix, c []float64) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, 3, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return v - c[j]
	}, m)
	return out
}

// meanSquare is the mean of the squares of every element of m.
func meanSquare(m *mat.Dense) float64 {
	data := m.RawMatrix().Data
	return floats.Dot(data, data) / float64(len(data))
}
