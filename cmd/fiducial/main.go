// Package main is the fiducial command: it inspects strided views, estimates transforms
// between corresponding point sets and deprojects depth images.
package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"go.viam.com/fiducial/logging"
)

const (
	// Flags.
	flagDebug           = "debug"
	flagShape           = "shape"
	flagCorrespondences = "correspondences"
	flagScaled          = "scaled"
	flagDepth           = "depth"
	flagConfig          = "config"
	flagMarkers         = "markers"
	flagTransform       = "transform"
	flagTypes           = "type"
	flagPCD             = "pcd"
)

func main() {
	if err := newApp(os.Stdout, nil).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. When logger is nil one is created from the debug flag.
func newApp(out io.Writer, logger logging.Logger) *cli.App {
	return &cli.App{
		Name:   "fiducial",
		Usage:  "strided views, depth deprojection and marker transforms",
		Writer: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if logger == nil {
				logger = logging.NewLogger("fiducial")
			}
			if c.Bool(flagDebug) {
				logger.SetLevel(logging.DEBUG)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if logger == nil {
				return nil
			}
			return logger.Sync()
		},
		Commands: []*cli.Command{
			{
				Name:      "slice",
				Usage:     "list the coordinates and flat offsets selected by a multi-slice",
				ArgsUsage: "<start:stop:step,...>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagShape,
						Usage:    "comma separated dimensions of the buffer",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return sliceAction(c, logger.Sublogger("slice"))
				},
			},
			{
				Name:  "estimate",
				Usage: "estimate the transform aligning corresponding point sets",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagCorrespondences,
						Usage:    "JSON `FILE` with \"from\" and \"to\" arrays of [x, y, z]",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  flagScaled,
						Usage: "fold the estimated scale into the rotation block",
					},
				},
				Action: func(c *cli.Context) error {
					return estimateAction(c, logger.Sublogger("estimate"))
				},
			},
			{
				Name:      "deproject",
				Usage:     "print the camera space points of depth image indices",
				ArgsUsage: "[index...]",
				Flags: append(depthFlags(),
					&cli.StringFlag{
						Name:  flagPCD,
						Usage: "also write the whole cloud as a binary pcd `FILE`",
					},
				),
				Action: func(c *cli.Context) error {
					return deprojectAction(c, logger.Sublogger("deproject"))
				},
			},
			{
				Name:  "lift",
				Usage: "lift detected 2D markers into 3D and optionally transform them",
				Flags: append(depthFlags(),
					&cli.StringFlag{
						Name:     flagMarkers,
						Usage:    "JSON `FILE` with a list of 2D marker locations",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagTransform,
						Usage: "JSON `FILE` with 16 row-major values of a 4x4 transform",
					},
					&cli.IntSliceFlag{
						Name:  flagTypes,
						Usage: "only keep markers of these types",
					},
				),
				Action: func(c *cli.Context) error {
					return liftAction(c, logger.Sublogger("lift"))
				},
			},
		},
	}
}

func depthFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     flagDepth,
			Usage:    "raw native-endian uint16 depth `FILE`",
			Required: true,
		},
		&cli.StringFlag{
			Name:     flagConfig,
			Usage:    "deprojection config `FILE` with intrinsic_parameters and depth_scale",
			Required: true,
		},
	}
}
