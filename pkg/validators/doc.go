/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package validators checks the structural and semantic correctness of
// pose-tracking data files before they are parsed into the in-memory model.
//
// # Overview
//
// Each validator is a small value object whose constructor runs an ordered
// list of checks against the target file and fails fast on the first
// violation. A nil error from the constructor means the file passed every
// check; callers then hand the file to the matching loader in pkg/io.
//
// Four validators are provided:
//
//   - File: filesystem-level checks (kind, existence, permissions, suffix)
//   - HDF5: the file opens as HDF5 and contains required top-level datasets
//   - DeepLabCutCSV: the first four header rows match the DeepLabCut
//     multi-row index convention
//   - VIATracksCSV: the VIA tracks export schema, including frame numbers,
//     bounding-box geometry and per-file track-ID uniqueness
//
// # Error Handling
//
// All failures are returned as *errors.StructuredError values with a stable
// code describing the cause (path, format or consistency kind) and a message
// naming the offending file, row and field. Nothing is retried or recovered;
// validators hold no state beyond the path they were given.
//
// # Usage
//
//	if _, err := validators.NewFile(path,
//	    validators.WithPermission(validators.PermissionRead),
//	    validators.WithSuffixes(".csv"),
//	); err != nil {
//	    return err
//	}
//	if _, err := validators.NewVIATracksCSV(path); err != nil {
//	    return err
//	}
//
// The Runner type wraps the per-format validators into a report-producing
// pipeline suitable for CLI and service use.
package validators
