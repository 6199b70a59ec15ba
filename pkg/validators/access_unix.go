/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

//go:build unix

package validators

import "golang.org/x/sys/unix"

// readable and writable ask faccessat, so the effective UID/GID decide,
// which is the same answer a subsequent open will get.
func readable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}

func writable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
