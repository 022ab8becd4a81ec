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

// Package chunkreader implements the fixed-step partitioned cache reader: an
// io.Reader that walks a RangePartitioner one triple at a time, serving each
// chunk from the cache accessor and falling back to the origin accessor on
// a cache miss, writing the freshly fetched chunk back to the cache before
// handing any of it to the caller.
package chunkreader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/objcache/cachelayer/internal/cache/rangepartitioner"
	"github.com/objcache/cachelayer/internal/metrics"
	"github.com/objcache/cachelayer/pkg/accessor"
)

// state names the three phases of ChunkReader's cooperative state machine.
type state int

const (
	stateIterating state = iota
	stateReading
	stateDone
)

// ChunkReader is a single-use, single-threaded io.ReadCloser that serves one
// range read under the Fixed cache strategy. It is not safe for concurrent
// use; create one per logical read call.
//
// Exactly one chunk is ever in flight: ChunkReader performs its cache/origin
// I/O synchronously inside Read, so there is no read-ahead and no way for a
// second chunk fetch to start before the first completes.
type ChunkReader struct {
	ctx    context.Context
	origin accessor.Accessor
	cache  accessor.Accessor
	path   string

	partitioner *rangepartitioner.Partitioner
	metrics     *metrics.Handle // nil disables instrumentation

	state   state
	current io.ReadCloser // set while state == stateReading
	err     error         // sticky terminal error
}

// New builds a ChunkReader that serves path over the given partitioner,
// consulting cache first and origin on miss. ctx governs every cache/origin
// call the reader makes for its whole lifetime. m may be nil.
func New(ctx context.Context, origin, cache accessor.Accessor, path string, p *rangepartitioner.Partitioner, m *metrics.Handle) *ChunkReader {
	return &ChunkReader{
		ctx:         ctx,
		origin:      origin,
		cache:       cache,
		path:        path,
		partitioner: p,
		metrics:     m,
		state:       stateIterating,
	}
}

// Read implements io.Reader, advancing the state machine in §4.6 of the
// design: Iterating -> (fetch) -> Reading -> (drain) -> Iterating, until the
// partitioner is exhausted or an error occurs.
func (r *ChunkReader) Read(p []byte) (int, error) {
	for {
		switch r.state {
		case stateDone:
			if r.err != nil {
				return 0, r.err
			}
			return 0, io.EOF

		case stateIterating:
			t, ok := r.partitioner.Next()
			if !ok {
				r.state = stateDone
				continue
			}
			rc, err := r.fetchChunk(t)
			if err != nil {
				r.err = err
				r.state = stateDone
				return 0, err
			}
			r.current = rc
			r.state = stateReading
			continue

		case stateReading:
			n, err := r.current.Read(p)
			if n > 0 {
				return n, nil
			}
			_ = r.current.Close()
			r.current = nil
			if err != nil && err != io.EOF {
				r.err = err
				r.state = stateDone
				return 0, err
			}
			// Stream exhausted (n == 0): advance the partitioner.
			r.state = stateIterating
			continue
		}
	}
}

// Close releases any chunk stream currently open. It is always safe to
// call, including after Read has returned io.EOF or an error.
func (r *ChunkReader) Close() error {
	if r.current != nil {
		err := r.current.Close()
		r.current = nil
		return err
	}
	return nil
}

// fetchChunk resolves one partitioner triple into an open byte stream:
// cache hit streams straight through; cache miss buffers the whole aligned
// origin chunk, writes it back to the cache, and returns a reader over just
// the requested intra-chunk slice.
func (r *ChunkReader) fetchChunk(t rangepartitioner.Triple) (io.ReadCloser, error) {
	key := contentChunkKey(r.path, t.ChunkIndex)

	_, rc, err := r.cache.Read(r.ctx, key, accessor.OpRead{Range: t.IntraChunk})
	if err == nil {
		if r.metrics != nil {
			r.metrics.Hit("read", "fixed")
		}
		return rc, nil
	}
	if !accessor.IsNotFound(err) {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.Miss("read", "fixed")
	}

	return r.fillChunkFromOrigin(t, key)
}

// fillChunkFromOrigin reads the full aligned chunk from origin, buffers it,
// writes it to the cache at key, and returns a reader over the requested
// intra-chunk slice of the buffer. The cache write only happens once the
// origin chunk has been read to completion, so a reader dropped mid-fetch
// never leaves a partial chunk in the cache.
func (r *ChunkReader) fillChunkFromOrigin(t rangepartitioner.Triple, key string) (io.ReadCloser, error) {
	var start time.Time
	if r.metrics != nil {
		start = r.metrics.Now()
	}

	meta, originRC, err := r.origin.Read(r.ctx, r.path, accessor.OpRead{Range: t.OriginChunk})
	if err != nil {
		return nil, err
	}
	defer originRC.Close()

	size := meta.ContentLength
	buf := make([]byte, size)
	if _, err := io.ReadFull(originRC, buf); err != nil {
		return nil, accessor.Unexpected("cachelayer: read from origin", err)
	}

	if err := r.cache.Write(r.ctx, key, accessor.OpWrite{Length: int64(len(buf))}, bytes.NewReader(buf)); err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.Fill("fixed", int64(len(buf)), r.metrics.Since(start))
	}

	slice := sliceBuffer(buf, t.IntraChunk)
	return io.NopCloser(bytes.NewReader(slice)), nil
}

// sliceBuffer extracts br out of buf. Partitioner output always supplies a
// fully specified range, but sliceBuffer also tolerates the partially
// specified forms for forward compatibility: offset-only is a suffix from
// offset, size-only is the last size bytes, and neither is the whole
// buffer.
func sliceBuffer(buf []byte, br accessor.BytesRange) []byte {
	switch {
	case br.HasOffset && br.HasSize:
		offset := br.Offset
		if offset > int64(len(buf)) {
			offset = int64(len(buf))
		}
		end := offset + br.Size
		if end > int64(len(buf)) {
			end = int64(len(buf))
		}
		return buf[offset:end]
	case br.HasOffset && !br.HasSize:
		offset := br.Offset
		if offset > int64(len(buf)) {
			offset = int64(len(buf))
		}
		return buf[offset:]
	case !br.HasOffset && br.HasSize:
		start := int64(len(buf)) - br.Size
		if start < 0 {
			start = 0
		}
		return buf[start:]
	default:
		return buf
	}
}

// contentChunkKey derives the cache key for chunk idx of path, in the
// fixed, on-wire layout "<path>.occ_<idx>".
func contentChunkKey(path string, idx uint64) string {
	return fmt.Sprintf("%s.occ_%d", path, idx)
}
