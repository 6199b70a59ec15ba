/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package serializer

// StdoutURI is the special output path indicating output should be written
// to stdout.
const StdoutURI = "-"
