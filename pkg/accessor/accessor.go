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

// Package accessor defines the object-storage capability interface shared by
// every backend and by the caching layer that wraps them.
package accessor

import (
	"context"
	"io"
)

// Accessor is the capability set a backing object store exposes, and the
// same capability set the caching layer re-exposes to its own callers.
type Accessor interface {
	// Create creates an empty object at path, or truncates an existing one.
	Create(ctx context.Context, path string, args OpCreate) error

	// Read opens a byte stream over path. When args.Range is the zero value
	// the whole object is read. The returned ReadCloser must be closed by
	// the caller.
	Read(ctx context.Context, path string, args OpRead) (ObjectMetadata, io.ReadCloser, error)

	// Write stores r as the complete contents of path. args.Length must
	// equal the number of bytes r yields.
	Write(ctx context.Context, path string, args OpWrite, r io.Reader) error

	// Stat returns metadata for path without reading its content.
	Stat(ctx context.Context, path string, args OpStat) (ObjectMetadata, error)

	// Delete removes path. Deleting a path that does not exist is not an
	// error.
	Delete(ctx context.Context, path string, args OpDelete) error
}

// OpCreate carries the arguments to Create. It is currently empty; it
// exists so new arguments can be added without breaking the Accessor
// interface, the way OpenDAL's OpCreate does.
type OpCreate struct{}

// OpRead carries the arguments to Read.
type OpRead struct {
	// Range restricts the read to a sub-range of the object. The zero value
	// reads the whole object.
	Range BytesRange
}

// OpWrite carries the arguments to Write.
type OpWrite struct {
	// Length is the exact number of bytes the caller will read from the
	// reader passed to Write.
	Length int64
}

// OpStat carries the arguments to Stat. Currently empty.
type OpStat struct{}

// OpDelete carries the arguments to Delete. Currently empty.
type OpDelete struct{}

// ObjectMetadata describes an object's attributes as observed at the
// origin. ContentType, LastModified and ETag are optional and may be the
// zero value when the backend does not report them.
type ObjectMetadata struct {
	ContentLength int64
	ContentType   string
	LastModified  int64 // unix seconds; 0 means unknown
	ETag          string
}
