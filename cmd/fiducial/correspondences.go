package main

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/fiducial/ndbuffer"
)

// correspondences pairs points measured in two frames; from[i] and to[i] are the same
// physical point.
type correspondences struct {
	From [][]float64 `json:"from"`
	To   [][]float64 `json:"to"`
}

func readCorrespondences(path string) (*correspondences, error) {
	corr := &correspondences{}
	if err := readJSON(path, corr); err != nil {
		return nil, err
	}
	if err := corr.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid correspondences in %q", path)
	}
	return corr, nil
}

// Validate reports every malformed point, not just the first.
func (corr *correspondences) Validate() error {
	var errs error
	if len(corr.From) != len(corr.To) {
		errs = multierr.Append(errs, errors.Errorf("from has %d points but to has %d", len(corr.From), len(corr.To)))
	}
	if len(corr.From) < 3 {
		errs = multierr.Append(errs, errors.Errorf("need at least 3 correspondences, got %d", len(corr.From)))
	}
	for _, side := range []struct {
		name   string
		points [][]float64
	}{{"from", corr.From}, {"to", corr.To}} {
		for i, p := range side.points {
			if len(p) != 3 {
				errs = multierr.Append(errs, errors.Errorf("%s[%d] has %d coordinates, want 3", side.name, i, len(p)))
			}
		}
	}
	return errs
}

func (corr *correspondences) matrices() (ndbuffer.MatrixN3, ndbuffer.MatrixN3, error) {
	toVector := func(p []float64, _ int) r3.Vector {
		return r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	from, err := ndbuffer.MatrixN3FromPoints(lo.Map(corr.From, toVector)...)
	if err != nil {
		return ndbuffer.MatrixN3{}, ndbuffer.MatrixN3{}, err
	}
	to, err := ndbuffer.MatrixN3FromPoints(lo.Map(corr.To, toVector)...)
	if err != nil {
		return ndbuffer.MatrixN3{}, ndbuffer.MatrixN3{}, err
	}
	return from, to, nil
}
