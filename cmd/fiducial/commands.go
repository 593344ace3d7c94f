package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/fiducial/logging"
	"go.viam.com/fiducial/marker"
	"go.viam.com/fiducial/ndbuffer"
	"go.viam.com/fiducial/pointcloud"
	"go.viam.com/fiducial/rimage"
	"go.viam.com/fiducial/rimage/transform"
	"go.viam.com/fiducial/spatialmath"
)

func sliceAction(c *cli.Context, logger logging.Logger) error {
	if c.NArg() != 1 {
		return errors.New("slice takes exactly one multi-slice expression, e.g. \"1:3,::2\"")
	}
	dims, err := parseInts(c.String(flagShape))
	if err != nil {
		return errors.Wrap(err, "error parsing shape flag")
	}
	buf, err := ndbuffer.NewDenseBuffer(dims...)
	if err != nil {
		return err
	}
	// every element holds its own offset so the view prints where it lands
	store := buf.Store()
	for i := range store.Len() {
		store.Set(i, float64(i))
	}

	slices, err := ndbuffer.ParseMultiSlice(c.Args().First())
	if err != nil {
		return err
	}
	view, err := buf.View(slices)
	if err != nil {
		return err
	}
	logger.Debugw("view", "shape", buf.Shape().String(), "slices", view.Slices().String(), "dims", view.Dims())

	for coords, v := range view.Iterate() {
		fmt.Fprintf(c.App.Writer, "%v\t%d\n", coords, int(v))
	}
	return nil
}

func estimateAction(c *cli.Context, logger logging.Logger) error {
	corr, err := readCorrespondences(c.String(flagCorrespondences))
	if err != nil {
		return err
	}
	from, to, err := corr.matrices()
	if err != nil {
		return err
	}
	est, err := spatialmath.Estimate(from, to)
	if err != nil {
		return err
	}

	fit := est.ScaledTransform()
	moved, err := ndbuffer.NewMatrixN3(from.Rows())
	if err != nil {
		return err
	}
	if err := spatialmath.TransformPoints(fit, from, moved.Matrix); err != nil {
		return err
	}
	var sumSq float64
	for i := range moved.Rows() {
		d := moved.RowView(i).Distance(to.RowView(i))
		sumSq += d * d
	}
	pose := spatialmath.PoseFromMatrix(est.Transform())
	logger.Infow("estimated transform",
		"points", from.Rows(),
		"scale", est.Scale,
		"reflected", est.Reflected,
		"rms", math.Sqrt(sumSq/float64(from.Rows())))
	logger.Debugw("pose", "point", pose.Point, "orientation", pose.Orientation)

	tx := est.Transform()
	if c.Bool(flagScaled) {
		tx = fit
	}
	printTransform(c, tx)
	return nil
}

func deprojectAction(c *cli.Context, logger logging.Logger) error {
	indices, err := parseArgInts(c.Args().Slice())
	if err != nil {
		return err
	}
	cloud, closeDepth, err := openDepthCloud(c, logger)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(closeDepth)

	if path := c.String(flagPCD); path != "" {
		if err := writePCD(cloud, path); err != nil {
			return err
		}
		logger.Infow("wrote point cloud", "path", path, "points", cloud.Size())
	}

	if len(indices) == 0 {
		centroid, err := pointcloud.CloudCentroid(cloud)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "centroid\t%.5f\t%.5f\t%.5f\n", centroid.X, centroid.Y, centroid.Z)
		return nil
	}
	for _, i := range indices {
		p, err := cloud.At(i)
		if err != nil {
			return err
		}
		if pointcloud.IsHole(p) {
			logger.Debugw("no depth", "index", i)
		}
		fmt.Fprintf(c.App.Writer, "%d\t%.5f\t%.5f\t%.5f\n", i, p.X(), p.Y(), p.Z())
	}
	return nil
}

func liftAction(c *cli.Context, logger logging.Logger) error {
	var locs []marker.MarkerLocation2d
	if err := readJSON(c.String(flagMarkers), &locs); err != nil {
		return err
	}
	for i := range locs {
		locs[i].ComputeCenter()
	}
	if types := c.IntSlice(flagTypes); len(types) > 0 {
		wanted := make([]marker.MarkerType, len(types))
		for i, t := range types {
			wanted[i] = marker.MarkerType(t)
		}
		locs = marker.FilterByType(locs, wanted...)
	}

	cloud, closeDepth, err := openDepthCloud(c, logger)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(closeDepth)

	lifted, err := marker.LiftAll(locs, cloud)
	if err != nil {
		return err
	}
	for _, m := range lifted {
		if m.HasHoles() {
			logger.Warnw("marker has points without depth", "type", m.MarkerType().String())
		}
	}

	if path := c.String(flagTransform); path != "" {
		var data []float64
		if err := readJSON(path, &data); err != nil {
			return err
		}
		tx, err := ndbuffer.Matrix4x4Of(data)
		if err != nil {
			return err
		}
		if lifted, err = marker.TransformAll(lifted, tx); err != nil {
			return err
		}
	}

	for _, m := range lifted {
		for k, p := range m.Points().Points() {
			fmt.Fprintf(c.App.Writer, "%d\t%d\t%.5f\t%.5f\t%.5f\n", int(m.MarkerType()), k, p.X, p.Y, p.Z)
		}
	}
	return nil
}

// openDepthCloud maps the depth flag's file and wraps it with the config flag's intrinsics.
// The returned func unmaps the file.
func openDepthCloud(c *cli.Context, logger logging.Logger) (*transform.DepthCloud, func() error, error) {
	cfg, err := transform.NewDeprojectionConfigFromJSONFile(c.String(flagConfig))
	if err != nil {
		return nil, nil, err
	}
	dm, err := rimage.MapDepthFile(c.String(flagDepth), cfg.Intrinsics.Width, cfg.Intrinsics.Height)
	if err != nil {
		return nil, nil, err
	}
	cloud, err := transform.NewDepthCloud(dm.DepthMap, cfg.Intrinsics, cfg.DepthScale)
	if err != nil {
		return nil, nil, multierr.Combine(err, dm.Close())
	}
	lo, hi := dm.MinMax()
	logger.Debugw("depth image", "width", dm.Width(), "height", dm.Height(), "min", lo, "max", hi, "scale", cfg.DepthScale)
	return cloud, dm.Close, nil
}

func writePCD(cloud pointcloud.PointCloud, path string) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "error creating pcd file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return pointcloud.ToPCD(cloud, f, pointcloud.PCDBinary)
}

func printTransform(c *cli.Context, tx ndbuffer.Matrix4x4) {
	data := tx.Data()
	for r := range 4 {
		row := make([]string, 4)
		for j := range row {
			row[j] = strconv.FormatFloat(data[4*r+j], 'f', 6, 64)
		}
		fmt.Fprintln(c.App.Writer, strings.Join(row, "\t"))
	}
}

func readJSON(path string, out interface{}) error {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "error reading %q", path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "error parsing %q", path)
	}
	return nil
}

func parseInts(csv string) ([]int, error) {
	return parseArgInts(strings.Split(csv, ","))
}

func parseArgInts(fields []string) ([]int, error) {
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid integer %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}
