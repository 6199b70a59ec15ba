/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package io loads and saves pose-tracking data files.
//
// Every loader validates its input with pkg/validators before parsing, so a
// structural or schema problem surfaces as a descriptive error rather than a
// half-parsed dataset. Supported formats:
//
//   - DeepLabCut CSV exports (single- and multi-animal) -> poses.Dataset
//   - SLEAP analysis HDF5 files -> poses.Dataset
//   - VIA tracks CSV exports -> poses.BBoxDataset
//
// SaveDLCCSV writes a dataset back out in the DeepLabCut CSV layout so
// cleaned trajectories can round-trip into downstream tooling.
package io
