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

// Package cachelayer composes the partitioned and whole-object readers, the
// metadata cache, and a pair of origin/cache accessors into a single
// accessor.Accessor that transparently caches reads and stats and
// invalidates the metadata cache on mutation. Create, Write and Delete
// invalidate only the metadata entry: cached content (whole-object entries
// and "<path>.occ_<idx>" chunks) is left in place and can be stale.
package cachelayer

import (
	"context"
	"fmt"
	"io"

	"github.com/objcache/cachelayer/internal/cache/chunkreader"
	"github.com/objcache/cachelayer/internal/cache/metadatacache"
	"github.com/objcache/cachelayer/internal/cache/rangepartitioner"
	"github.com/objcache/cachelayer/internal/cache/wholereader"
	"github.com/objcache/cachelayer/internal/logger"
	"github.com/objcache/cachelayer/internal/metrics"
	"github.com/objcache/cachelayer/pkg/accessor"
)

// StrategyKind selects how the layer caches object content.
type StrategyKind int

const (
	// StrategyWhole caches a complete object at the same key as its path.
	StrategyWhole StrategyKind = iota
	// StrategyFixed caches fixed-size, aligned chunks keyed off the path
	// and chunk index.
	StrategyFixed
)

// Strategy is a tagged union: Step is only meaningful when Kind ==
// StrategyFixed, and must be > 0 in that case.
type Strategy struct {
	Kind StrategyKind
	Step int64
}

// Whole returns the Whole-object caching strategy.
func Whole() Strategy { return Strategy{Kind: StrategyWhole} }

// Fixed returns the fixed-chunk caching strategy with the given step size
// in bytes. It panics if step is not positive, the same way a
// misconfigured cfg.Config would fail fast at construction rather than at
// first use.
func Fixed(step int64) Strategy {
	if step <= 0 {
		panic(fmt.Sprintf("cachelayer: fixed strategy step must be > 0, got %d", step))
	}
	return Strategy{Kind: StrategyFixed, Step: step}
}

// cacheAccessor is the accessor.Accessor implementation returned by New.
type cacheAccessor struct {
	origin   accessor.Accessor
	cache    accessor.Accessor
	strategy Strategy
	log      *logger.Logger
	metrics  *metrics.Handle
}

// Option configures a cacheAccessor at construction time.
type Option func(*cacheAccessor)

// WithMetrics records cache hit/miss counts against h. Omitting this option
// leaves metrics uncollected; cachefsctl supplies one backed by its own
// Prometheus registry.
func WithMetrics(h *metrics.Handle) Option {
	return func(c *cacheAccessor) { c.metrics = h }
}

// New wraps origin with a cache accessor, caching content per strategy and
// metadata unconditionally. The returned value implements accessor.Accessor
// and is safe for concurrent use to the same extent origin and cache are.
func New(origin, cache accessor.Accessor, strategy Strategy, opts ...Option) accessor.Accessor {
	c := &cacheAccessor{
		origin:   origin,
		cache:    cache,
		strategy: strategy,
		log:      logger.New("cachelayer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// strategyLabel names the strategy in effect for metrics and log lines.
func (c *cacheAccessor) strategyLabel() string {
	if c.strategy.Kind == StrategyWhole {
		return "whole"
	}
	return "fixed"
}

func (c *cacheAccessor) Create(ctx context.Context, path string, args accessor.OpCreate) error {
	if err := metadatacache.Invalidate(ctx, c.cache, path); err != nil {
		return err
	}
	return c.origin.Create(ctx, path, args)
}

func (c *cacheAccessor) Write(ctx context.Context, path string, args accessor.OpWrite, r io.Reader) error {
	if err := metadatacache.Invalidate(ctx, c.cache, path); err != nil {
		return err
	}
	return c.origin.Write(ctx, path, args, r)
}

func (c *cacheAccessor) Delete(ctx context.Context, path string, args accessor.OpDelete) error {
	if err := metadatacache.Invalidate(ctx, c.cache, path); err != nil {
		return err
	}
	return c.origin.Delete(ctx, path, args)
}

func (c *cacheAccessor) Stat(ctx context.Context, path string, args accessor.OpStat) (accessor.ObjectMetadata, error) {
	meta, err := metadatacache.Get(ctx, c.cache, path)
	if err == nil {
		c.log.Debug("stat cache hit", "path", path)
		if c.metrics != nil {
			c.metrics.Hit("stat", c.strategyLabel())
		}
		return meta, nil
	}
	if accessor.IsNotFound(err) {
		if c.metrics != nil {
			c.metrics.Miss("stat", c.strategyLabel())
		}
		meta, err = c.origin.Stat(ctx, path, args)
		if err != nil {
			return accessor.ObjectMetadata{}, err
		}
		if putErr := metadatacache.Put(ctx, c.cache, path, meta); putErr != nil {
			c.log.Warn("stat: failed to populate metadata cache", "path", path, "error", putErr)
		}
		return meta, nil
	}

	// Any other cache failure degrades to a direct origin stat, bypassing
	// the cache entirely: stat is cheap enough to repeat that a misbehaving
	// cache substrate shouldn't fail stats that would otherwise succeed.
	c.log.Debug("stat: cache error, falling back to origin", "path", path, "error", err)
	return c.origin.Stat(ctx, path, args)
}

func (c *cacheAccessor) Read(ctx context.Context, path string, args accessor.OpRead) (accessor.ObjectMetadata, io.ReadCloser, error) {
	if c.strategy.Kind == StrategyWhole {
		return wholereader.Open(ctx, c.origin, c.cache, path, args, c.metrics)
	}
	return c.readFixed(ctx, path, args)
}

func (c *cacheAccessor) readFixed(ctx context.Context, path string, args accessor.OpRead) (accessor.ObjectMetadata, io.ReadCloser, error) {
	br := args.Range

	if !br.IsFullySpecified() {
		origMeta, err := c.origin.Stat(ctx, path, accessor.OpStat{})
		if err != nil {
			return accessor.ObjectMetadata{}, nil, err
		}
		bcr, err := accessor.Resolve(origMeta.ContentLength, br)
		if err != nil {
			return accessor.ObjectMetadata{}, nil, err
		}
		br = bcr.ToBytesRange()
	}

	step := c.strategy.Step
	p := rangepartitioner.New(br.Offset, br.Size, step)
	r := chunkreader.New(ctx, c.origin, c.cache, path, p, c.metrics)

	meta := accessor.ObjectMetadata{ContentLength: p.Size()}
	return meta, r, nil
}
