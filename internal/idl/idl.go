// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package idl holds the interfaces and data shared between the driver, the
// file systems, and the grammars.
package idl

import "context"

type FileKind uint8

const (
	FileKindNone FileKind = iota
	FileKindJSON
)

func (k FileKind) String() string {
	switch k {
	case FileKindJSON:
		return "json"
	default:
		return "none"
	}
}

// FileBody is an open handle on the content of a File.
type FileBody interface {
	// Read returns at most size bytes. The end of content is signalled with an
	// exception carrying the EOF code alongside any final bytes.
	Read(ctx context.Context, size int32) ([]byte, error)
	Close(ctx context.Context) error
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	// Open resolves a URI into one or more files. Directories expand into the
	// files they directly contain.
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

// Document is one parsed input.
type Document struct {
	URI    string
	Kind   FileKind
	Source string
	Root   Node
}

type ParseRequest struct {
	Files []string
	// Trace logs every named grammar rule as it is attempted.
	Trace bool
}

type ParseResponse struct {
	Documents []*Document
}

type Driver interface {
	Parse(ctx context.Context, req *ParseRequest) (*ParseResponse, error)
}
