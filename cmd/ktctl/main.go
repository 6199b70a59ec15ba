/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"os"

	"github.com/etholab/kinetrack/pkg/cli"
)

func main() {
	os.Exit(cli.Run(context.Background()))
}
