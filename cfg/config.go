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

// Package cfg binds cachefsctl's configuration surface to pflag/viper, the
// way the teacher's own cfg package binds its (much larger) flag set.
package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully resolved configuration for one cachefsctl invocation.
type Config struct {
	Strategy StrategyConfig `yaml:"strategy"`
	Origin   BackendConfig  `yaml:"origin"`
	Cache    BackendConfig  `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// StrategyConfig selects and parameterizes the caching strategy.
type StrategyConfig struct {
	// Kind is "whole" or "fixed".
	Kind string `yaml:"kind"`
	// Step is the chunk size in bytes, meaningful only when Kind == "fixed".
	Step int64 `yaml:"step"`
}

// BackendKind names a concrete accessor.Accessor implementation.
type BackendKind string

const (
	BackendMemory BackendKind = "memory"
	BackendGCS    BackendKind = "gcs"
)

// BackendConfig selects and parameterizes one accessor.Accessor backend.
type BackendConfig struct {
	Kind   BackendKind `yaml:"kind"`
	Bucket string      `yaml:"bucket"` // meaningful only when Kind == BackendGCS
}

// LogConfig controls internal/logger's output.
type LogConfig struct {
	Severity string `yaml:"severity"` // TRACE, DEBUG, INFO, WARNING, ERROR, OFF
	Format   string `yaml:"format"`   // "text" or "json"
}

// MetricsConfig controls whether cachefsctl records Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// BindFlags registers every cachefsctl flag on flagSet and binds it to the
// matching viper key, mirroring the teacher's one-flag-one-bind structure.
func BindFlags(flagSet *pflag.FlagSet) error {
	var err error

	flagSet.StringP("strategy", "", "fixed", `Caching strategy: "whole" or "fixed".`)
	if err = viper.BindPFlag("strategy.kind", flagSet.Lookup("strategy")); err != nil {
		return err
	}

	flagSet.Int64P("step", "", 1<<20, "Chunk size in bytes when strategy is \"fixed\".")
	if err = viper.BindPFlag("strategy.step", flagSet.Lookup("step")); err != nil {
		return err
	}

	flagSet.StringP("origin", "", "memory", `Origin backend: "memory" or "gcs".`)
	if err = viper.BindPFlag("origin.kind", flagSet.Lookup("origin")); err != nil {
		return err
	}

	flagSet.StringP("origin-bucket", "", "", "GCS bucket name when origin is \"gcs\".")
	if err = viper.BindPFlag("origin.bucket", flagSet.Lookup("origin-bucket")); err != nil {
		return err
	}

	flagSet.StringP("cache", "", "memory", `Cache backend: "memory" or "gcs".`)
	if err = viper.BindPFlag("cache.kind", flagSet.Lookup("cache")); err != nil {
		return err
	}

	flagSet.StringP("cache-bucket", "", "", "GCS bucket name when cache is \"gcs\".")
	if err = viper.BindPFlag("cache.bucket", flagSet.Lookup("cache-bucket")); err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", "INFO", "Logging severity: TRACE, DEBUG, INFO, WARNING, ERROR, OFF.")
	if err = viper.BindPFlag("log.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "text", `Logging output format: "text" or "json".`)
	if err = viper.BindPFlag("log.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.BoolP("metrics", "", false, "Record cache Prometheus metrics in a per-invocation registry (they are not printed or served).")
	if err = viper.BindPFlag("metrics.enabled", flagSet.Lookup("metrics")); err != nil {
		return err
	}

	return nil
}

// Load resolves a Config from viper's global instance, the way the teacher
// resolves its Config after BindFlags has bound flags and an optional
// config file has been merged in.
func Load() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, Validate(&c)
}
