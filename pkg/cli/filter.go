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

	"github.com/etholab/kinetrack/pkg/filtering"
	ktio "github.com/etholab/kinetrack/pkg/io"
)

func filterCmd() *cli.Command {
	return &cli.Command{
		Name:                  "filter",
		EnableShellCompletion: true,
		Usage:                 "Clean pose trajectories and write the result as DeepLabCut CSV",
		Description: `Applies cleaning steps to a pose file in a fixed order:
  1. --confidence: drop samples below the confidence threshold
  2. --median-window: smooth with a centered rolling median
  3. --interpolate-max-gap: fill NaN gaps by linear interpolation

Steps whose flag is unset are skipped. The cleaned dataset is written in
the DeepLabCut CSV layout.`,
		Flags: []cli.Flag{
			inputFlag,
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    "destination .csv path",
			},
			fpsFlag,
			&cli.FloatFlag{
				Name:  "confidence",
				Value: -1,
				Usage: "drop samples with confidence below this threshold (0..1)",
			},
			&cli.IntFlag{
				Name:  "median-window",
				Usage: "rolling median window size in frames (0 = off)",
			},
			&cli.IntFlag{
				Name:  "min-periods",
				Usage: "minimum present samples per median window (default: full window)",
			},
			&cli.IntFlag{
				Name:  "interpolate-max-gap",
				Value: -1,
				Usage: "fill NaN gaps up to this many frames (0 = any length, unset = off)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ds, err := loadPoseDataset(cmd.String("input"), cmd.Float("fps"))
			if err != nil {
				return err
			}

			if threshold := cmd.Float("confidence"); threshold >= 0 {
				ds, err = filtering.FilterByConfidence(ds, threshold)
				if err != nil {
					return err
				}
			}
			if window := int(cmd.Int("median-window")); window > 0 {
				ds, err = filtering.MedianFilter(ds, window, int(cmd.Int("min-periods")))
				if err != nil {
					return err
				}
			}
			if maxGap := int(cmd.Int("interpolate-max-gap")); maxGap >= 0 {
				ds, err = filtering.InterpolateOverTime(ds, maxGap)
				if err != nil {
					return err
				}
			}

			out := cmd.String("output")
			if err := ktio.SaveDLCCSV(ds, out); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			slog.Info("filtered pose file",
				"input", cmd.String("input"),
				"output", out)
			return nil
		},
	}
}
