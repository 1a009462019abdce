// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"strings"
	"unicode/utf8"
)

// Location is a point in a source text. Line and Column are 1-based; Column
// counts code points. Offset is the 0-based byte offset.
type Location struct {
	Line   int
	Column int
	Offset int
}

// LocationOf converts a byte offset into a Location within source. Offsets
// outside of the source are clamped to its bounds.
func LocationOf(source string, offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	head := source[:offset]
	lineStart := strings.LastIndexByte(head, '\n') + 1
	return Location{
		Line:   strings.Count(head, "\n") + 1,
		Column: utf8.RuneCountInString(head[lineStart:]) + 1,
		Offset: offset,
	}
}
