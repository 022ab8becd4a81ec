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

package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/objcache/cachelayer/cfg"
	"github.com/objcache/cachelayer/internal/cachelayer"
	"github.com/objcache/cachelayer/internal/logger"
	"github.com/objcache/cachelayer/internal/metrics"
	"github.com/objcache/cachelayer/internal/storage/storegcs"
	"github.com/objcache/cachelayer/internal/storage/storemem"
	"github.com/objcache/cachelayer/pkg/accessor"
	"github.com/prometheus/client_golang/prometheus"
)

func buildBackend(ctx context.Context, b cfg.BackendConfig) (accessor.Accessor, func() error, error) {
	switch b.Kind {
	case cfg.BackendMemory:
		return storemem.New(), func() error { return nil }, nil
	case cfg.BackendGCS:
		store, closeFn, err := storegcs.Open(ctx, b.Bucket)
		if err != nil {
			return nil, nil, err
		}
		return store, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend kind %q", b.Kind)
	}
}

func buildStrategy(s cfg.StrategyConfig) (cachelayer.Strategy, error) {
	switch s.Kind {
	case "whole":
		return cachelayer.Whole(), nil
	case "fixed":
		return cachelayer.Fixed(s.Step), nil
	default:
		return cachelayer.Strategy{}, fmt.Errorf("unknown strategy kind %q", s.Kind)
	}
}

// buildCacheAccessor wires resolvedCfg into the ready-to-use accessor
// returned by cachelayer.New, plus a cleanup func for both backends.
func buildCacheAccessor(ctx context.Context) (accessor.Accessor, func() error, error) {
	requestID := uuid.NewString()
	log := logger.New("cachefsctl").With("request_id", requestID)

	origin, closeOrigin, err := buildBackend(ctx, resolvedCfg.Origin)
	if err != nil {
		return nil, nil, fmt.Errorf("origin backend: %w", err)
	}
	cache, closeCache, err := buildBackend(ctx, resolvedCfg.Cache)
	if err != nil {
		closeOrigin()
		return nil, nil, fmt.Errorf("cache backend: %w", err)
	}

	strategy, err := buildStrategy(resolvedCfg.Strategy)
	if err != nil {
		closeOrigin()
		closeCache()
		return nil, nil, err
	}

	var opts []cachelayer.Option
	if resolvedCfg.Metrics.Enabled {
		opts = append(opts, cachelayer.WithMetrics(metrics.NewHandle(prometheus.NewRegistry())))
	}

	log.Debug("wired cache accessor", "strategy", resolvedCfg.Strategy.Kind, "origin", resolvedCfg.Origin.Kind, "cache", resolvedCfg.Cache.Kind)

	layer := cachelayer.New(origin, cache, strategy, opts...)
	closeAll := func() error {
		err1 := closeOrigin()
		err2 := closeCache()
		if err1 != nil {
			return err1
		}
		return err2
	}
	return layer, closeAll, nil
}
