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

// Package storegcs implements accessor.Accessor against a real Google Cloud
// Storage bucket, for use as an origin store.
package storegcs

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/objcache/cachelayer/pkg/accessor"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is an accessor.Accessor backed by one GCS bucket.
type Store struct {
	bucket *storage.BucketHandle
}

var _ accessor.Accessor = (*Store)(nil)

// New wraps bucket as an accessor.Accessor. The caller owns client's
// lifetime; Close it when the Store is no longer needed.
func New(bucket *storage.BucketHandle) *Store {
	return &Store{bucket: bucket}
}

// Open is a convenience constructor that builds a storage.Client with
// application default credentials and wraps bucketName.
func Open(ctx context.Context, bucketName string) (*Store, func() error, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, accessor.Unexpected("storegcs: new client", err)
	}
	return New(client.Bucket(bucketName)), client.Close, nil
}

func (s *Store) Create(ctx context.Context, path string, _ accessor.OpCreate) error {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.Size = 0
	if err := w.Close(); err != nil {
		return translateErr("storegcs: create", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, path string, args accessor.OpRead) (accessor.ObjectMetadata, io.ReadCloser, error) {
	obj := s.bucket.Object(path)

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return accessor.ObjectMetadata{}, nil, translateErr("storegcs: stat before read", err)
	}

	bcr, err := accessor.Resolve(attrs.Size, args.Range)
	if err != nil {
		return accessor.ObjectMetadata{}, nil, err
	}

	var rc *storage.Reader
	if bcr.Size == attrs.Size && bcr.Offset == 0 {
		rc, err = obj.NewReader(ctx)
	} else {
		rc, err = obj.NewRangeReader(ctx, bcr.Offset, bcr.Size)
	}
	if err != nil {
		return accessor.ObjectMetadata{}, nil, translateErr("storegcs: read", err)
	}

	meta := attrsToMetadata(attrs)
	meta.ContentLength = bcr.Size
	return meta, rc, nil
}

func (s *Store) Write(ctx context.Context, path string, args accessor.OpWrite, r io.Reader) error {
	w := s.bucket.Object(path).NewWriter(ctx)
	n, err := io.Copy(w, io.LimitReader(r, args.Length))
	if err != nil {
		_ = w.Close()
		return accessor.Unexpected("storegcs: write", err)
	}
	if n != args.Length {
		_ = w.Close()
		return accessor.Unexpected("storegcs: write", errors.New("short write: declared length not satisfied"))
	}
	if err := w.Close(); err != nil {
		return translateErr("storegcs: write", err)
	}
	return nil
}

func (s *Store) Stat(ctx context.Context, path string, _ accessor.OpStat) (accessor.ObjectMetadata, error) {
	attrs, err := s.bucket.Object(path).Attrs(ctx)
	if err != nil {
		return accessor.ObjectMetadata{}, translateErr("storegcs: stat", err)
	}
	return attrsToMetadata(attrs), nil
}

func (s *Store) Delete(ctx context.Context, path string, _ accessor.OpDelete) error {
	err := s.bucket.Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return translateErr("storegcs: delete", err)
	}
	return nil
}

// attrsToMetadata maps the GCS object attributes this module cares about
// onto accessor.ObjectMetadata.
func attrsToMetadata(attrs *storage.ObjectAttrs) accessor.ObjectMetadata {
	return accessor.ObjectMetadata{
		ContentLength: attrs.Size,
		ContentType:   attrs.ContentType,
		LastModified:  attrs.Updated.Unix(),
		ETag:          attrs.Etag,
	}
}

// translateErr maps GCS's own not-found signals (the REST client's
// storage.ErrObjectNotExist and the gRPC client's codes.NotFound) onto
// accessor.ErrObjectNotFound; anything else is wrapped as Unexpected.
func translateErr(op string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return accessor.ErrObjectNotFound
	}
	if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
		return accessor.ErrObjectNotFound
	}
	return accessor.Unexpected(op, err)
}
