/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

//go:build !unix

package validators

import "os"

// Without faccessat, probe by doing: readable opens the file, writable
// creates and removes a scratch file in the directory.
func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".kinetrack-write-check-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
