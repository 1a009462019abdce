// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || netbsd || openbsd || solaris

package driver

import (
	"os"
	"path/filepath"
	"strings"
)

const dataDirName = "combinator"

// getDefaultRoots follows the XDG base directory layout: the user's data home
// and then each shared data directory.
func getDefaultRoots(lookup func(string) (string, bool)) []string {
	expand := func(p string) string {
		return os.Expand(p, func(s string) string {
			v, _ := lookup(s)
			return v
		})
	}
	home, ok := lookup("XDG_DATA_HOME")
	if !ok || home == "" {
		home = "$HOME/.local/share"
	}
	xdgDirs, ok := lookup("XDG_DATA_DIRS")
	if !ok || xdgDirs == "" {
		xdgDirs = "/usr/local/share/:/usr/share/"
	}
	dirs := append([]string{home}, strings.Split(xdgDirs, ":")...)
	roots := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		dir = expand(dir)
		if dir == "" || !filepath.IsAbs(dir) {
			continue
		}
		roots = append(roots, filepath.Join(dir, dataDirName))
	}
	return roots
}
