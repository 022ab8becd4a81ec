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

// Package rangepartitioner translates one caller byte-range request against
// a fixed chunk step into the exact, ordered sequence of aligned
// cache-chunk operations needed to serve it.
package rangepartitioner

import "github.com/objcache/cachelayer/pkg/accessor"

// Triple is one step of the partition: the chunk this step belongs to, the
// sub-range of that chunk contributed to the caller's request
// (IntraChunk), and the chunk's full aligned range at the origin
// (OriginChunk).
type Triple struct {
	ChunkIndex  uint64
	IntraChunk  accessor.BytesRange
	OriginChunk accessor.BytesRange
}

// Partitioner is a lazy, finite, non-restartable iterator over Triples. The
// zero value is not usable; construct one with New.
type Partitioner struct {
	offset int64
	size   int64
	step   int64

	cur int64
}

// New builds a Partitioner over the half-open request [offset, offset+size)
// against chunks of exactly step bytes. step must be > 0.
func New(offset, size, step int64) *Partitioner {
	return &Partitioner{
		offset: offset,
		size:   size,
		step:   step,
		cur:    offset,
	}
}

// Size returns the total number of bytes this partitioner will yield across
// all of its triples.
func (p *Partitioner) Size() int64 {
	return p.size
}

// Next returns the next Triple in the partition, or ok == false once the
// request has been fully covered. Once exhausted, every further call keeps
// returning ok == false; the partitioner never restarts.
func (p *Partitioner) Next() (t Triple, ok bool) {
	if p.cur >= p.offset+p.size {
		return Triple{}, false
	}

	idx := uint64(p.cur / p.step)
	skipped := p.cur % p.step
	remaining := p.offset + p.size - p.cur

	intraEnd := p.step
	if remaining < p.step-skipped {
		intraEnd = skipped + remaining
	}

	intra := accessor.NewRange(skipped, intraEnd-skipped)
	origin := accessor.NewRange(p.step*int64(idx), p.step)

	p.cur += intra.Size

	return Triple{ChunkIndex: idx, IntraChunk: intra, OriginChunk: origin}, true
}

// Collect drains the partitioner into a slice, for tests and callers that
// want the full partition up front rather than stepping through it.
func Collect(offset, size, step int64) []Triple {
	p := New(offset, size, step)
	var out []Triple
	for {
		t, ok := p.Next()
		if !ok {
			break
		}
		out = append(out, t)
	}
	return out
}
