/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is set at build time via ldflags.
var version = "dev"

// New builds the ktctl root command.
func New() *cli.Command {
	return &cli.Command{
		Name:                  "ktctl",
		Usage:                 "Validate and analyze animal pose tracking data",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit logs as JSON",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"), cmd.Bool("log-json"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			validateCmd(),
			infoCmd(),
			convertCmd(),
			filterCmd(),
			kinematicsCmd(),
			samplesCmd(),
			serveCmd(),
		},
	}
}

// Run executes the root command; the process exit code reflects the error.
func Run(ctx context.Context) int {
	if err := New().Run(ctx, os.Args); err != nil {
		slog.Error("command failed", "error", err)
		return 1
	}
	return 0
}

// setupLogging configures the process-wide slog default.
func setupLogging(debug, jsonOut bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if jsonOut {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
