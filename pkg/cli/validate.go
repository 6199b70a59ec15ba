/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/etholab/kinetrack/pkg/serializer"
	"github.com/etholab/kinetrack/pkg/validators"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate tracking data files against their format rules",
		ArgsUsage:             "FILE [FILE...]",
		Description: `Validates each file as the format its name and content suggest:
  - .csv starting with a 'scorer' row: DeepLabCut pose estimation export
  - .csv starting with a 'filename' column: VIA tracks bounding-box export
  - .h5/.hdf5/.slp: HDF5 pose file (expected datasets configurable)

Every file gets a per-file result; the summary reports the overall status.
The report can be output in JSON, YAML, or table format.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "exit non-zero when any file fails validation",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: 4,
				Usage: "how many files to validate in parallel",
			},
			&cli.StringSliceFlag{
				Name:  "hdf5-datasets",
				Usage: "dataset names required of HDF5 files (can be repeated)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("at least one file to validate is required")
			}

			runner := validators.NewRunner(
				validators.WithConcurrency(int(cmd.Int("concurrency"))),
				validators.WithHDF5Datasets(cmd.StringSlice("hdf5-datasets")...),
			)
			report, err := runner.Run(ctx, paths)
			if err != nil {
				return fmt.Errorf("validation run failed: %w", err)
			}

			ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if err != nil {
				return err
			}
			defer closeSerializer(ser)

			if err := ser.Serialize(ctx, report); err != nil {
				return err
			}

			if cmd.Bool("fail-on-error") && report.Summary.Failed > 0 {
				return fmt.Errorf("%d of %d files failed validation",
					report.Summary.Failed, report.Summary.Total)
			}
			return nil
		},
	}
}

// closeSerializer closes file-backed serializers, logging instead of failing.
func closeSerializer(ser serializer.Writer) {
	if closer, ok := ser.(serializer.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}
}
