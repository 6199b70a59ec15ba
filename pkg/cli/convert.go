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

	ktio "github.com/etholab/kinetrack/pkg/io"
)

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:                  "convert",
		EnableShellCompletion: true,
		Usage:                 "Convert a pose file to the DeepLabCut CSV layout",
		Description: `Loads a pose file (DeepLabCut CSV or SLEAP analysis HDF5) and writes it
back out as a DeepLabCut-style CSV, the lingua franca of downstream tooling.`,
		Flags: []cli.Flag{
			inputFlag,
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    "destination .csv path",
			},
			fpsFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ds, err := loadPoseDataset(cmd.String("input"), cmd.Float("fps"))
			if err != nil {
				return err
			}

			out := cmd.String("output")
			if err := ktio.SaveDLCCSV(ds, out); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			slog.Info("converted pose file",
				"input", cmd.String("input"),
				"output", out,
				"frames", ds.Frames())
			return nil
		},
	}
}
