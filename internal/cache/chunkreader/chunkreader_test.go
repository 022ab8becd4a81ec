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

package chunkreader

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/objcache/cachelayer/internal/cache/rangepartitioner"
	"github.com/objcache/cachelayer/internal/storage/storemem"
	"github.com/objcache/cachelayer/pkg/accessor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkReader_MissThenFillsCache(t *testing.T) {
	ctx := context.Background()
	origin := storemem.New()
	cache := storemem.New()

	require.NoError(t, origin.Write(ctx, "test_exist", accessor.OpWrite{Length: 13}, strings.NewReader("Hello, World!")))

	p := rangepartitioner.New(5, 8, 5)
	r := New(ctx, origin, cache, "test_exist", p, nil)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, ", World!", string(data))

	// Both of the two chunks touched by offset 5..13 over step 5 (chunk 1:
	// bytes 5-10, chunk 2: bytes 10-13) must now be present in the cache at
	// their aligned keys, each at its aligned origin length.
	meta, rc, err := cache.Read(ctx, "test_exist.occ_1", accessor.OpRead{})
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, int64(5), meta.ContentLength)

	meta, rc, err = cache.Read(ctx, "test_exist.occ_2", accessor.OpRead{})
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, int64(3), meta.ContentLength) // final chunk is short
}

func TestChunkReader_CacheHitNeverTouchesOrigin(t *testing.T) {
	ctx := context.Background()
	origin := &countingAccessor{Accessor: storemem.New()}
	cache := storemem.New()

	require.NoError(t, cache.Write(ctx, "p.occ_0", accessor.OpWrite{Length: 5}, strings.NewReader("ABCDE")))

	p := rangepartitioner.New(0, 5, 5)
	r := New(ctx, origin, cache, "p", p, nil)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "ABCDE", string(data))
	assert.Equal(t, 0, origin.reads)
}

func TestChunkReader_SecondObjectDifferentOffset(t *testing.T) {
	ctx := context.Background()
	origin := storemem.New()
	cache := storemem.New()

	require.NoError(t, origin.Write(ctx, "test_new", accessor.OpWrite{Length: 15}, strings.NewReader("Hello, OpenDAL!")))

	p := rangepartitioner.New(6, 9, 5)
	r := New(ctx, origin, cache, "test_new", p, nil)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, " OpenDAL!", string(data))
}

func TestChunkReader_DoesNotCacheOnOriginError(t *testing.T) {
	ctx := context.Background()
	origin := storemem.New() // path never written: origin reads will 404
	cache := storemem.New()

	p := rangepartitioner.New(0, 5, 5)
	r := New(ctx, origin, cache, "missing", p, nil)

	_, err := io.ReadAll(r)
	assert.True(t, accessor.IsNotFound(err))

	_, _, err = cache.Read(ctx, "missing.occ_0", accessor.OpRead{})
	assert.True(t, accessor.IsNotFound(err), "a failed origin fetch must not leave a partial chunk cached")
}

// countingAccessor wraps an Accessor and counts Read calls, to verify a
// cache hit never reaches the origin.
type countingAccessor struct {
	accessor.Accessor
	reads int
}

func (c *countingAccessor) Read(ctx context.Context, path string, args accessor.OpRead) (accessor.ObjectMetadata, io.ReadCloser, error) {
	c.reads++
	return c.Accessor.Read(ctx, path, args)
}
