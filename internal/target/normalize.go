// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package target converts command line targets into the URIs used by the
// file systems.
package target

import (
	"net/url"
	"path/filepath"
	"strings"
)

const (
	// Stdin is the target that reads a document from standard input.
	Stdin = "-"
	// StdinURI is where standard input is stored once read.
	StdinURI = "/stdin.json"
)

// Normalize converts a target into a rooted, cleaned path. Targets may be file
// paths, file URIs, or Stdin. Paths are relative to the file system roots so a
// relative path and its rooted form name the same document. Non-file URIs are
// left as-is for some other FileSystem to handle.
func Normalize(target string) string {
	if target == Stdin {
		return StdinURI
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	p := target
	if u.Scheme == "file" {
		p = u.Path
	}
	return filepath.ToSlash(filepath.Join("/", p))
}

// Output maps a document URI to the path its rendering is written to by
// swapping the extension for ext.
func Output(uri string, ext string) string {
	p := Normalize(uri)
	return strings.TrimSuffix(p, filepath.Ext(p)) + ext
}
