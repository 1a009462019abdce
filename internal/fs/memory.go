// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.microglot.org/combinator.go/internal/exc"
	"gopkg.microglot.org/combinator.go/internal/idl"
)

var _ idl.FileSystem = (*FileSystemMemory)(nil)

// FileSystemMemory keeps file content in a map keyed by absolute path. It
// backs standard input and tests. Opening a path that is a prefix directory of
// stored files returns those direct children with a known extension.
type FileSystemMemory struct {
	lock  sync.RWMutex
	files map[string]string
}

// NewFileString wraps static content in idl.File.
func NewFileString(path string, content string, kind idl.FileKind) idl.File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

func NewFileSystemMemory(files map[string]string) *FileSystemMemory {
	m := &FileSystemMemory{files: make(map[string]string, len(files))}
	for p, content := range files {
		m.files[memPath(p)] = content
	}
	return m
}

func (m *FileSystemMemory) Open(ctx context.Context, uri string) ([]idl.File, error) {
	p := memPath(uri)
	m.lock.RLock()
	defer m.lock.RUnlock()
	if content, ok := m.files[p]; ok {
		return []idl.File{NewFileString(p, content, KindOf(p))}, nil
	}
	prefix := strings.TrimSuffix(p, "/") + "/"
	names := make([]string, 0)
	for name := range m.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || strings.Contains(rest, "/") || KindOf(name) == idl.FileKindNone {
			continue
		}
		names = append(names, name)
	}
	if len(names) < 1 {
		return nil, exc.New(exc.Location{URI: p}, exc.CodeFileNotFound, fmt.Sprintf("%s not found", p))
	}
	sort.Strings(names)
	files := make([]idl.File, 0, len(names))
	for _, name := range names {
		files = append(files, NewFileString(name, m.files[name], KindOf(name)))
	}
	return files, nil
}

func (m *FileSystemMemory) Write(ctx context.Context, uri string, content string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.files[memPath(uri)] = content
	return nil
}

// Content returns what is stored at uri.
func (m *FileSystemMemory) Content(uri string) (string, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	content, ok := m.files[memPath(uri)]
	return content, ok
}

func memPath(uri string) string {
	return path.Clean("/" + strings.TrimPrefix(uri, "file://"))
}
