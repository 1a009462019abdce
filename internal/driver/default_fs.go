// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"os"
	"path/filepath"

	"gopkg.microglot.org/combinator.go/internal/fs"
	"gopkg.microglot.org/combinator.go/internal/idl"
)

// NewDefaultFS searches the given roots, in order, followed by the shared data
// directories of the platform. With no roots the working directory is
// searched first.
func NewDefaultFS(lookup func(string) (string, bool), roots ...string) (idl.FileSystem, error) {
	if len(roots) < 1 {
		roots = []string{"."}
	}
	roots = append(roots, getDefaultRoots(lookup)...)
	f := make(fs.FileSystemMulti, 0, len(roots))
	seen := make(map[string]bool, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		if seen[absRoot] {
			continue
		}
		seen[absRoot] = true
		if stat, err := os.Stat(absRoot); err != nil || !stat.IsDir() {
			continue
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
