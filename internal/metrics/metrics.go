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

// Package metrics exposes the Prometheus instrumentation for the cache
// layer: hits and misses, labeled by the operation (read or stat) and the
// cache strategy in effect, and fill bytes and fill latency, labeled by the
// strategy only.
package metrics

import (
	"time"

	"github.com/objcache/cachelayer/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Handle is the set of instruments one cache accessor records against.
// Build one with NewHandle and share it across every CacheAccessor backed
// by the same Prometheus registry.
type Handle struct {
	clock       clock.Clock
	hits        *prometheus.CounterVec
	misses      *prometheus.CounterVec
	fillBytes   *prometheus.CounterVec
	fillLatency *prometheus.HistogramVec
}

// NewHandle registers the cache layer's instruments against reg. Passing
// prometheus.DefaultRegisterer matches the package-level convenience most
// programs reach for; cachefsctl passes its own registry so repeated
// command invocations in one process don't collide on registration.
func NewHandle(reg prometheus.Registerer) *Handle {
	return NewHandleWithClock(reg, clock.RealClock{})
}

// NewHandleWithClock is NewHandle with an injectable time source, so tests
// can measure fill latency against a clock.SimulatedClock instead of the
// wall clock.
func NewHandleWithClock(reg prometheus.Registerer, c clock.Clock) *Handle {
	return &Handle{
		clock: c,
		hits: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cachelayer_hits_total",
			Help: "Total number of read/stat operations served from the cache without consulting origin.",
		}, []string{"operation", "strategy"}),
		misses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cachelayer_misses_total",
			Help: "Total number of read/stat operations that missed the cache and fell back to origin.",
		}, []string{"operation", "strategy"}),
		fillBytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cachelayer_fill_bytes_total",
			Help: "Total number of bytes written back to the cache after an origin fetch.",
		}, []string{"strategy"}),
		fillLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cachelayer_fill_latency_seconds",
			Help:    "Latency of an origin fetch performed to fill a cache miss.",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
	}
}

// Now returns the handle's current time, so callers can time an origin
// fetch with the same clock Fill's latency will eventually be measured
// against.
func (h *Handle) Now() time.Time {
	return h.clock.Now()
}

// Since returns the elapsed time between start and the handle's current
// time, per its injected clock.
func (h *Handle) Since(start time.Time) time.Duration {
	return h.clock.Now().Sub(start)
}

// Hit records a cache hit for operation ("read" or "stat") under strategy.
func (h *Handle) Hit(operation, strategy string) {
	h.hits.WithLabelValues(operation, strategy).Inc()
}

// Miss records a cache miss for operation under strategy.
func (h *Handle) Miss(operation, strategy string) {
	h.misses.WithLabelValues(operation, strategy).Inc()
}

// Fill records a completed origin-fill: the number of bytes written back to
// the cache and how long the origin fetch took.
func (h *Handle) Fill(strategy string, bytes int64, d time.Duration) {
	h.fillBytes.WithLabelValues(strategy).Add(float64(bytes))
	h.fillLatency.WithLabelValues(strategy).Observe(d.Seconds())
}
