// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package driver

import (
	"path/filepath"
)

const dataDirName = "combinator"

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	roots := make([]string, 0, 2)
	if local, ok := lookup("LOCALAPPDATA"); ok && local != "" {
		roots = append(roots, filepath.Join(local, dataDirName))
	} else if profile, ok := lookup("USERPROFILE"); ok && profile != "" {
		roots = append(roots, filepath.Join(profile, "AppData", "Local", dataDirName))
	}
	if data, ok := lookup("ProgramData"); ok && data != "" {
		roots = append(roots, filepath.Join(data, dataDirName))
	} else if drive, ok := lookup("SystemDrive"); ok && drive != "" {
		roots = append(roots, filepath.Join(drive, "ProgramData", dataDirName))
	}
	return roots
}
