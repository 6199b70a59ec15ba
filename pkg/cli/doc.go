/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the ktctl command-line interface.
//
// # Overview
//
// ktctl works with animal pose tracking files produced by DeepLabCut, SLEAP
// and the VGG Image Annotator (VIA): it validates them, loads them into a
// common dataset, cleans trajectories and derives kinematic variables.
//
// # Commands
//
// validate - Check tracking files against their format rules:
//
//	ktctl validate poses.csv tracks.csv analysis.h5
//	ktctl validate --fail-on-error --format table *.csv
//
// info - Summarize a tracking file (shape, individuals, missing data):
//
//	ktctl info --input poses.csv --fps 30
//
// convert - Convert between supported formats:
//
//	ktctl convert --input analysis.h5 --output poses.csv
//
// filter - Clean trajectories (confidence threshold, median smoothing,
// gap interpolation):
//
//	ktctl filter --input poses.csv --confidence 0.6 --interpolate-max-gap 5 --output clean.csv
//
// kinematics - Derive motion variables from a pose file:
//
//	ktctl kinematics --input poses.csv --measure speed --fps 30
//
// samples - Work with the public sample dataset registry:
//
//	ktctl samples list
//	ktctl samples fetch DLC_two-mice.predictions.csv
//
// serve - Run the validation HTTP API:
//
//	ktctl serve
//
// Most commands accept --format (json, yaml, table) and --output to control
// where results go; the default is JSON on stdout.
package cli
