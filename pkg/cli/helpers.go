/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	ktio "github.com/etholab/kinetrack/pkg/io"
	"github.com/etholab/kinetrack/pkg/poses"
	"github.com/etholab/kinetrack/pkg/serializer"
	"github.com/etholab/kinetrack/pkg/validators"
)

// Flags shared by the data commands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Value: string(serializer.FormatJSON),
		Usage: "output format (json, yaml, table)",
	}
	inputFlag = &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "tracking data file to read",
	}
	fpsFlag = &cli.FloatFlag{
		Name:  "fps",
		Usage: "sampling rate in frames per second (0 = unknown, time in frames)",
	}
)

// parseOutputFormat extracts and validates the output format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %v",
			outFormat, serializer.SupportedFormats())
	}
	return outFormat, nil
}

// serializerFor builds the output serializer from the shared output flag.
func serializerFor(cmd *cli.Command, format serializer.Format) (serializer.Writer, error) {
	return serializer.NewFileWriterOrStdout(format, cmd.String("output"))
}

// loadPoseDataset loads a pose file, picking the loader from the detected
// format. Bounding-box files are rejected here; commands that accept them
// load those explicitly.
func loadPoseDataset(path string, fps float64) (*poses.Dataset, error) {
	switch kind := validators.DetectKind(path); kind {
	case validators.KindDLCCSV:
		return ktio.LoadDLCCSV(path, fps)
	case validators.KindHDF5:
		return ktio.LoadSLEAPHDF5(path, fps)
	case validators.KindVIATracksCSV:
		return nil, fmt.Errorf("%s holds bounding-box tracks, not poses", path)
	default:
		return nil, fmt.Errorf("unrecognized tracking data format for %s", path)
	}
}
