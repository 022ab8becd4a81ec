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

// Package metadatacache stores and retrieves ObjectMetadata at a derived
// cache key, using a fixed, deterministic CBOR encoding so that every node
// reading the same cache substrate decodes identical bytes.
package metadatacache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/objcache/cachelayer/pkg/accessor"
)

// canonicalMode is computed once: deterministic map key order, no
// indefinite-length items, matching the encoding contract every cache
// reader and writer must agree on.
var canonicalMode cbor.EncMode

func init() {
	var err error
	canonicalMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("metadatacache: building canonical CBOR mode: %v", err))
	}
}

// Key derives the metadata cache key for path.
func Key(path string) string {
	return path + ".omc"
}

// Get reads and decodes the metadata cache entry for path. A missing entry
// is reported as accessor.ErrObjectNotFound.
func Get(ctx context.Context, cache accessor.Accessor, path string) (accessor.ObjectMetadata, error) {
	_, rc, err := cache.Read(ctx, Key(path), accessor.OpRead{})
	if err != nil {
		return accessor.ObjectMetadata{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return accessor.ObjectMetadata{}, accessor.Unexpected("cachelayer: decode metadata", err)
	}

	var m accessor.ObjectMetadata
	if err := cbor.Unmarshal(data, &m); err != nil {
		return accessor.ObjectMetadata{}, accessor.Unexpected("cachelayer: decode metadata", err)
	}
	return m, nil
}

// Put encodes m and writes it to the metadata cache entry for path.
func Put(ctx context.Context, cache accessor.Accessor, path string, m accessor.ObjectMetadata) error {
	data, err := canonicalMode.Marshal(m)
	if err != nil {
		return accessor.Unexpected("cachelayer: encode metadata", err)
	}
	return cache.Write(ctx, Key(path), accessor.OpWrite{Length: int64(len(data))}, bytes.NewReader(data))
}

// Invalidate deletes the metadata cache entry for path. Deleting an entry
// that does not exist is not an error (accessor.Accessor.Delete is
// idempotent by contract).
func Invalidate(ctx context.Context, cache accessor.Accessor, path string) error {
	return cache.Delete(ctx, Key(path), accessor.OpDelete{})
}
