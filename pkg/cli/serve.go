/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/etholab/kinetrack/pkg/config"
	"github.com/etholab/kinetrack/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the validation HTTP API",
		Description: `Starts an HTTP server exposing POST /v1/validate plus /health, /ready
and Prometheus /metrics. Configuration comes from the layered toolkit config
(defaults, optional kinetrack.yaml, KINETRACK_* environment variables).`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "listen port (overrides configuration)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port := int(cmd.Int("port")); port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(server.FromConfig(cfg)).Start(ctx)
		},
	}
}
