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

// Package wholereader implements the Whole cache strategy: the cache stores
// the complete object under the same key as the origin path, rather than in
// fixed-size chunks. It is the simpler counterpart to chunkreader.
package wholereader

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/objcache/cachelayer/internal/metrics"
	"github.com/objcache/cachelayer/pkg/accessor"
)

// Open resolves a read of path under the Whole strategy: try the cache at
// key path first; on a miss, buffer the whole object from origin, write it
// to the cache, and re-issue the cache read so the caller always receives a
// stream produced by the cache accessor. m may be nil, in which case no
// metrics are recorded.
func Open(ctx context.Context, origin, cache accessor.Accessor, path string, args accessor.OpRead, m *metrics.Handle) (accessor.ObjectMetadata, io.ReadCloser, error) {
	meta, rc, err := cache.Read(ctx, path, args)
	if err == nil {
		if m != nil {
			m.Hit("read", "whole")
		}
		return meta, rc, nil
	}
	if !accessor.IsNotFound(err) {
		return accessor.ObjectMetadata{}, nil, err
	}
	if m != nil {
		m.Miss("read", "whole")
	}

	if err := fill(ctx, origin, cache, path, m); err != nil {
		return accessor.ObjectMetadata{}, nil, err
	}

	return cache.Read(ctx, path, args)
}

// fill buffers the entire object from origin and writes it to the cache at
// key path, using origin's reported content length as the declared write
// length.
func fill(ctx context.Context, origin, cache accessor.Accessor, path string, m *metrics.Handle) error {
	var start time.Time
	if m != nil {
		start = m.Now()
	}

	meta, originRC, err := origin.Read(ctx, path, accessor.OpRead{Range: accessor.FullRange()})
	if err != nil {
		return err
	}
	defer originRC.Close()

	buf := make([]byte, meta.ContentLength)
	if _, err := io.ReadFull(originRC, buf); err != nil {
		return accessor.Unexpected("cachelayer: read from origin", err)
	}

	if err := cache.Write(ctx, path, accessor.OpWrite{Length: int64(len(buf))}, bytes.NewReader(buf)); err != nil {
		return err
	}

	if m != nil {
		m.Fill("whole", int64(len(buf)), m.Since(start))
	}
	return nil
}
