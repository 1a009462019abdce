// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"
	"strings"

	"gopkg.microglot.org/combinator.go/internal/exc"
	"gopkg.microglot.org/combinator.go/internal/idl"
)

// NewFileFN wraps content that is opened on demand, such as a file on disk.
// open is called on every call to Body and must return a fresh handle each
// time.
func NewFileFN(path string, open func() (io.ReadCloser, error), kind idl.FileKind) idl.File {
	return &lazyFile{
		path: path,
		kind: kind,
		open: open,
	}
}

type lazyFile struct {
	path string
	kind idl.FileKind
	open func() (io.ReadCloser, error)
}

func (f *lazyFile) Path(ctx context.Context) string {
	return f.path
}

func (f *lazyFile) Kind(ctx context.Context) idl.FileKind {
	return f.kind
}

func (f *lazyFile) Body(ctx context.Context) (idl.FileBody, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := f.open()
	if err != nil {
		return nil, fsErr(f.path, err)
	}
	return bodyFromIO(rc), nil
}

func bodyFromIO(v io.ReadCloser) idl.FileBody {
	return &ioFileBody{rc: v}
}

type ioFileBody struct {
	rc io.ReadCloser
	b  []byte
}

func (self *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if len(self.b) < int(size) {
		self.b = make([]byte, size)
	}
	count, err := self.rc.Read(self.b[:size])
	if err != nil && err != io.EOF {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	if err == io.EOF {
		return self.b[:count], exc.Wrap(exc.Location{}, exc.CodeEOF, err)
	}
	return self.b[:count], nil
}

func (self *ioFileBody) Close(ctx context.Context) error {
	return self.rc.Close()
}

const readChunk = 4096

// ReadAll drains the body of file into a string.
func ReadAll(ctx context.Context, file idl.File) (string, error) {
	body, err := file.Body(ctx)
	if err != nil {
		if e, ok := err.(exc.Exception); ok {
			return "", e
		}
		return "", exc.WrapUnknown(exc.Location{URI: file.Path(ctx)}, err)
	}
	defer body.Close(ctx)
	var b strings.Builder
	for {
		chunk, err := body.Read(ctx, readChunk)
		b.Write(chunk)
		if exc.HasCode(err, exc.CodeEOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", exc.WrapUnknown(exc.Location{URI: file.Path(ctx)}, err)
		}
	}
}
