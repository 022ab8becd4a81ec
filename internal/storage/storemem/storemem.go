// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storemem implements an in-process, in-memory accessor.Accessor.
// It backs every unit test in this module and is the default cache-side
// backend for the cachefsctl command line tool.
package storemem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sync"
	"time"

	"github.com/objcache/cachelayer/pkg/accessor"
)

// Store is a goroutine-safe, in-memory accessor.Accessor.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
	meta    map[string]accessor.ObjectMetadata
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
		meta:    make(map[string]accessor.ObjectMetadata),
	}
}

var _ accessor.Accessor = (*Store)(nil)

func (s *Store) Create(_ context.Context, path string, _ accessor.OpCreate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[path] = nil
	s.meta[path] = accessor.ObjectMetadata{ContentType: contentTypeFor(path), LastModified: time.Now().Unix()}
	return nil
}

func (s *Store) Read(_ context.Context, path string, args accessor.OpRead) (accessor.ObjectMetadata, io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.objects[path]
	if !ok {
		return accessor.ObjectMetadata{}, nil, accessor.ErrObjectNotFound
	}
	meta := s.meta[path]

	bcr, err := accessor.Resolve(int64(len(content)), args.Range)
	if err != nil {
		return accessor.ObjectMetadata{}, nil, accessor.Unexpected("storemem: resolve range", err)
	}
	if bcr.Offset < 0 || bcr.Offset > int64(len(content)) || bcr.Offset+bcr.Size > int64(len(content)) {
		return accessor.ObjectMetadata{}, nil, fmt.Errorf("storemem: range out of bounds for %q: %+v", path, bcr)
	}

	slice := content[bcr.Offset : bcr.Offset+bcr.Size]
	rangeMeta := meta
	rangeMeta.ContentLength = int64(len(slice))
	return rangeMeta, io.NopCloser(bytes.NewReader(slice)), nil
}

func (s *Store) Write(_ context.Context, path string, args accessor.OpWrite, r io.Reader) error {
	buf := make([]byte, args.Length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("storemem: write %q: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = buf
	s.meta[path] = accessor.ObjectMetadata{
		ContentLength: int64(len(buf)),
		ContentType:   contentTypeFor(path),
		LastModified:  time.Now().Unix(),
	}
	return nil
}

func (s *Store) Stat(_ context.Context, path string, _ accessor.OpStat) (accessor.ObjectMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.objects[path]
	if !ok {
		return accessor.ObjectMetadata{}, accessor.ErrObjectNotFound
	}
	m := s.meta[path]
	m.ContentLength = int64(len(content))
	return m, nil
}

func (s *Store) Delete(_ context.Context, path string, _ accessor.OpDelete) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, path)
	delete(s.meta, path)
	return nil
}

// contentTypeFor infers a content type from path's extension, the way a
// real object-storage backend would stamp one on write if the caller
// didn't supply one explicitly.
func contentTypeFor(path string) string {
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
