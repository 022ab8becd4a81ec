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

package rangepartitioner

import (
	"testing"

	"github.com/objcache/cachelayer/pkg/accessor"
	"github.com/stretchr/testify/assert"
)

func TestPartitioner_Scenarios(t *testing.T) {
	tests := []struct {
		name             string
		offset, size, step int64
		expected         []Triple
	}{
		{
			name: "first part", offset: 0, size: 1, step: 1000,
			expected: []Triple{
				{0, accessor.NewRange(0, 1), accessor.NewRange(0, 1000)},
			},
		},
		{
			name: "first part with offset", offset: 900, size: 1, step: 1000,
			expected: []Triple{
				{0, accessor.NewRange(900, 1), accessor.NewRange(0, 1000)},
			},
		},
		{
			name: "first part with edge case", offset: 900, size: 100, step: 1000,
			expected: []Triple{
				{0, accessor.NewRange(900, 100), accessor.NewRange(0, 1000)},
			},
		},
		{
			name: "two parts", offset: 900, size: 101, step: 1000,
			expected: []Triple{
				{0, accessor.NewRange(900, 100), accessor.NewRange(0, 1000)},
				{1, accessor.NewRange(0, 1), accessor.NewRange(1000, 1000)},
			},
		},
		{
			name: "second part", offset: 1001, size: 1, step: 1000,
			expected: []Triple{
				{1, accessor.NewRange(1, 1), accessor.NewRange(1000, 1000)},
			},
		},
		{
			name: "empty request", offset: 0, size: 0, step: 1000,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := Collect(tt.offset, tt.size, tt.step)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestPartitioner_IntraRangesSumToRequestedSize(t *testing.T) {
	cases := []struct{ offset, size, step int64 }{
		{0, 1, 1000},
		{900, 101, 1000},
		{1001, 2500, 1000},
		{7, 13, 4},
		{0, 10000, 3},
	}
	for _, c := range cases {
		triples := Collect(c.offset, c.size, c.step)
		var total int64
		for _, tr := range triples {
			total += tr.IntraChunk.Size
		}
		assert.Equal(t, c.size, total, "offset=%d size=%d step=%d", c.offset, c.size, c.step)
	}
}

func TestPartitioner_ChunkIndexNonDecreasingAndStepsByAtMostOne(t *testing.T) {
	triples := Collect(900, 10_000, 1000)
	var prev uint64
	for i, tr := range triples {
		if i == 0 {
			prev = tr.ChunkIndex
			continue
		}
		assert.GreaterOrEqual(t, tr.ChunkIndex, prev)
		assert.LessOrEqual(t, tr.ChunkIndex-prev, uint64(1))
		prev = tr.ChunkIndex
	}
}

func TestPartitioner_OriginChunkAlwaysAlignedAndIntraWithinStep(t *testing.T) {
	const step = 37
	triples := Collect(5, 500, step)
	for _, tr := range triples {
		assert.Equal(t, int64(step)*int64(tr.ChunkIndex), tr.OriginChunk.Offset)
		assert.Equal(t, int64(step), tr.OriginChunk.Size)
		assert.LessOrEqual(t, tr.IntraChunk.Offset+tr.IntraChunk.Size, int64(step))
	}
}

func TestPartitioner_ConcatenationReconstructsOriginalBytes(t *testing.T) {
	origin := make([]byte, 10_000)
	for i := range origin {
		origin[i] = byte(i % 251)
	}

	cases := []struct{ offset, size, step int64 }{
		{0, 1, 1000},
		{900, 101, 1000},
		{1001, 1, 1000},
		{0, 10000, 1000},
		{3, 9997, 1000},
		{17, 333, 64},
	}

	for _, c := range cases {
		triples := Collect(c.offset, c.size, c.step)
		var got []byte
		for _, tr := range triples {
			chunk := origin[tr.OriginChunk.Offset : tr.OriginChunk.Offset+tr.OriginChunk.Size]
			got = append(got, chunk[tr.IntraChunk.Offset:tr.IntraChunk.Offset+tr.IntraChunk.Size]...)
		}
		want := origin[c.offset : c.offset+c.size]
		assert.Equal(t, want, got, "offset=%d size=%d step=%d", c.offset, c.size, c.step)
	}
}

func TestPartitioner_NonRestartable(t *testing.T) {
	p := New(0, 1, 1000)
	_, ok := p.Next()
	assert.True(t, ok)
	_, ok = p.Next()
	assert.False(t, ok)
	// Calling Next again past exhaustion keeps returning false, never panics
	// or restarts.
	_, ok = p.Next()
	assert.False(t, ok)
}
