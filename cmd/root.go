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

// Package cmd implements cachefsctl, a small command-line client that
// exercises the cache layer accessor (cachelayer.New) built from flag- and
// file-driven cfg.Config.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/objcache/cachelayer/cfg"
	"github.com/objcache/cachelayer/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	bindErr      error
	configFileErr error
	resolvedCfg  cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "cachefsctl",
	Short: "Exercise a content/metadata cache layer in front of an object store",
	Long: `cachefsctl drives the cache layer accessor directly from the command
line, wiring an origin and a cache backend (in-memory or Google Cloud
Storage) together under either a whole-object or fixed-chunk caching
strategy.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		if configFileErr != nil {
			return configFileErr
		}
		c, err := cfg.Load()
		if err != nil {
			return err
		}
		resolvedCfg = c
		logger.SetLevel(severityToLevel(c.Log.Severity))
		logger.SetFormat(c.Log.Format)
		return nil
	},
}

func severityToLevel(severity string) slog.Level {
	switch severity {
	case "TRACE":
		return logger.LevelTrace
	case "DEBUG":
		return logger.LevelDebug
	case "WARNING":
		return logger.LevelWarn
	case "ERROR":
		return logger.LevelError
	case "OFF":
		return slog.Level(1 << 20)
	default:
		return logger.LevelInfo
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(rmCmd)
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		configFileErr = fmt.Errorf("error while reading config file: %w", err)
	}
}
