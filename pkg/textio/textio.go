/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package textio provides byte-order-mark tolerant text readers.
//
// Annotation tools on Windows commonly export CSV files with a UTF-8 BOM or
// in UTF-16. NewBOMReader normalizes such input to plain UTF-8 so that CSV
// and line scanners downstream never see a BOM as part of the first field.
package textio

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewBOMReader wraps r so that a leading UTF-8, UTF-16LE or UTF-16BE byte
// order mark is consumed and the stream is decoded to UTF-8. Input without
// a BOM passes through unchanged.
func NewBOMReader(r io.Reader) io.Reader {
	t := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, t)
}
