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

package storemem

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/objcache/cachelayer/pkg/accessor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteThenRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.Write(ctx, "test_exist", accessor.OpWrite{Length: 13}, strings.NewReader("Hello, World!"))
	require.NoError(t, err)

	meta, rc, err := s.Read(ctx, "test_exist", accessor.OpRead{})
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", string(data))
	assert.Equal(t, int64(13), meta.ContentLength)
}

func TestStore_ReadMissingIsNotFound(t *testing.T) {
	s := New()
	_, _, err := s.Read(context.Background(), "nope", accessor.OpRead{})
	assert.True(t, accessor.IsNotFound(err))
}

func TestStore_StatMissingIsNotFound(t *testing.T) {
	s := New()
	_, err := s.Stat(context.Background(), "nope", accessor.OpStat{})
	assert.True(t, accessor.IsNotFound(err))
}

func TestStore_PartialRange(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "p", accessor.OpWrite{Length: 13}, strings.NewReader("Hello, World!")))

	_, rc, err := s.Read(ctx, "p", accessor.OpRead{Range: accessor.RangeFrom(7)})
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "World!", string(data))
}

func TestStore_DeleteMissingIsNotAnError(t *testing.T) {
	s := New()
	err := s.Delete(context.Background(), "nope", accessor.OpDelete{})
	assert.NoError(t, err)
}

func TestStore_WriteOverwritesAndUpdatesLength(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "p", accessor.OpWrite{Length: 13}, strings.NewReader("Hello, World!")))
	require.NoError(t, s.Write(ctx, "p", accessor.OpWrite{Length: 14}, strings.NewReader("Hello, Xuanwo!")))

	meta, err := s.Stat(ctx, "p", accessor.OpStat{})
	require.NoError(t, err)
	assert.Equal(t, int64(14), meta.ContentLength)
}
