/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/urfave/cli/v3"

	"github.com/etholab/kinetrack/pkg/kinematics"
	"github.com/etholab/kinetrack/pkg/poses"
)

// kinematicsDoc wraps one derived measure with the dataset axes so the
// output is self-describing.
type kinematicsDoc struct {
	Measure     string   `json:"measure" yaml:"measure"`
	Individuals []string `json:"individuals" yaml:"individuals"`
	Keypoints   []string `json:"keypoints,omitempty" yaml:"keypoints,omitempty"`
	Values      any      `json:"values" yaml:"values"`
}

func kinematicsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "kinematics",
		EnableShellCompletion: true,
		Usage:                 "Derive motion variables from a pose file",
		Description: `Computes a kinematic measure over every frame:
  - displacement: position change since the previous frame
  - velocity: central-difference derivative of position
  - speed: velocity magnitude
  - centroid: mean position across present keypoints
  - heading: signed angle of the head direction against the x axis
            (requires --left-keypoint and --right-keypoint)

Units are pixels and seconds when --fps is given, pixels and frames
otherwise.`,
		Flags: []cli.Flag{
			inputFlag,
			fpsFlag,
			&cli.StringFlag{
				Name:     "measure",
				Aliases:  []string{"m"},
				Required: true,
				Usage:    "measure to compute (displacement, velocity, speed, centroid, heading)",
			},
			&cli.StringFlag{
				Name:  "left-keypoint",
				Usage: "left symmetric head keypoint for heading (e.g. left_ear)",
			},
			&cli.StringFlag{
				Name:  "right-keypoint",
				Usage: "right symmetric head keypoint for heading (e.g. right_ear)",
			},
			&cli.StringFlag{
				Name:  "camera-view",
				Value: string(kinematics.CameraViewTopDown),
				Usage: "camera orientation for heading (top_down, bottom_up)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			ds, err := loadPoseDataset(cmd.String("input"), cmd.Float("fps"))
			if err != nil {
				return err
			}

			measure := cmd.String("measure")
			doc := kinematicsDoc{
				Measure:     measure,
				Individuals: ds.Individuals,
				Keypoints:   ds.Keypoints,
			}

			switch measure {
			case "displacement":
				doc.Values, err = kinematics.Displacement(ds)
			case "velocity":
				doc.Values, err = kinematics.Velocity(ds)
			case "speed":
				var speed [][][]float64
				speed, err = kinematics.Speed(ds)
				doc.Values = sanitize3D(speed)
			case "centroid":
				doc.Keypoints = nil
				doc.Values, err = kinematics.Centroid(ds)
			case "heading":
				doc.Keypoints = nil
				var heading [][]float64
				heading, err = headingFromFlags(cmd, ds)
				doc.Values = sanitize2D(heading)
			default:
				return fmt.Errorf("unknown measure %q, supported measures: "+
					"displacement, velocity, speed, centroid, heading", measure)
			}
			if err != nil {
				return err
			}

			ser, err := serializerFor(cmd, outFormat)
			if err != nil {
				return err
			}
			defer closeSerializer(ser)
			return ser.Serialize(ctx, doc)
		},
	}
}

// sanitize2D and sanitize3D replace NaN with nil so the values survive JSON
// encoding, which has no NaN literal.
func sanitize2D(v [][]float64) [][]any {
	out := make([][]any, len(v))
	for i := range v {
		out[i] = make([]any, len(v[i]))
		for j, f := range v[i] {
			if math.IsNaN(f) {
				continue
			}
			out[i][j] = f
		}
	}
	return out
}

func sanitize3D(v [][][]float64) [][][]any {
	out := make([][][]any, len(v))
	for i := range v {
		out[i] = sanitize2D(v[i])
	}
	return out
}

func headingFromFlags(cmd *cli.Command, ds *poses.Dataset) ([][]float64, error) {
	left := cmd.String("left-keypoint")
	right := cmd.String("right-keypoint")
	if left == "" || right == "" {
		return nil, fmt.Errorf("heading requires --left-keypoint and --right-keypoint")
	}
	view := kinematics.CameraView(cmd.String("camera-view"))
	return kinematics.Heading(ds, left, right, view, poses.Point{1, 0})
}
