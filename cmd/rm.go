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
	"github.com/objcache/cachelayer/pkg/accessor"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path> [path...]",
	Short: "Delete one or more objects, invalidating their cached metadata",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		layer, closeFn, err := buildCacheAccessor(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		g, gctx := errgroup.WithContext(ctx)
		for _, path := range args {
			path := path
			g.Go(func() error {
				return layer.Delete(gctx, path, accessor.OpDelete{})
			})
		}
		return g.Wait()
	},
}
