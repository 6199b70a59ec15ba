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

	"github.com/etholab/kinetrack/pkg/config"
	"github.com/etholab/kinetrack/pkg/sampledata"
)

func samplesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "samples",
		EnableShellCompletion: true,
		Usage:                 "Work with the public sample dataset registry",
		Commands: []*cli.Command{
			samplesListCmd(),
			samplesFetchCmd(),
		},
	}
}

func samplesListCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the available sample datasets",
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			entries, err := sampledata.List(ctx)
			if err != nil {
				return err
			}

			ser, err := serializerFor(cmd, outFormat)
			if err != nil {
				return err
			}
			defer closeSerializer(ser)
			return ser.Serialize(ctx, entries)
		},
	}
}

func samplesFetchCmd() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Download a sample dataset, verifying its checksum",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "destination directory (default: the configured cache dir)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("a sample dataset name is required, " +
					"run 'ktctl samples list' to see what is available")
			}

			dir := cmd.String("dir")
			if dir == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dir = cfg.Samples.CacheDir
			}

			path, err := sampledata.Fetch(ctx, name, dir)
			if err != nil {
				return err
			}

			slog.Info("sample dataset ready", "name", name, "path", path)
			fmt.Println(path)
			return nil
		},
	}
}
