/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/etholab/kinetrack/pkg/filtering"
	ktio "github.com/etholab/kinetrack/pkg/io"
	"github.com/etholab/kinetrack/pkg/poses"
	"github.com/etholab/kinetrack/pkg/validators"
)

// datasetInfo is the info command's output document.
type datasetInfo struct {
	Metadata    poses.Metadata       `json:"metadata" yaml:"metadata"`
	Frames      int                  `json:"frames" yaml:"frames"`
	Individuals []string             `json:"individuals" yaml:"individuals"`
	Keypoints   []string             `json:"keypoints" yaml:"keypoints"`
	Missing     []filtering.NaNStats `json:"missing" yaml:"missing"`
}

// bboxInfo is the info output for bounding-box files.
type bboxInfo struct {
	Metadata poses.Metadata `json:"metadata" yaml:"metadata"`
	Frames   int            `json:"frames" yaml:"frames"`
	Tracks   []int          `json:"tracks" yaml:"tracks"`
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:                  "info",
		EnableShellCompletion: true,
		Usage:                 "Summarize a tracking data file",
		Description: `Loads a tracking file and reports its shape: individuals, keypoints,
frame count and per-keypoint missing data. Bounding-box files report their
frames and track IDs instead.`,
		Flags: []cli.Flag{
			inputFlag,
			fpsFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			path := cmd.String("input")
			fps := cmd.Float("fps")

			var doc any
			if validators.DetectKind(path) == validators.KindVIATracksCSV {
				ds, err := ktio.LoadVIATracksCSV(path, fps)
				if err != nil {
					return err
				}
				doc = bboxInfo{
					Metadata: ds.Metadata,
					Frames:   ds.Frames(),
					Tracks:   ds.TrackIDs(),
				}
			} else {
				ds, err := loadPoseDataset(path, fps)
				if err != nil {
					return err
				}
				doc = datasetInfo{
					Metadata:    ds.Metadata,
					Frames:      ds.Frames(),
					Individuals: ds.Individuals,
					Keypoints:   ds.Keypoints,
					Missing:     filtering.ReportNaNs(ds),
				}
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
