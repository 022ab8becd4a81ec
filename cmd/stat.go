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
	"fmt"

	"github.com/objcache/cachelayer/pkg/accessor"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Print an object's metadata, served from the metadata cache when possible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		layer, closeFn, err := buildCacheAccessor(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		meta, err := layer.Stat(ctx, args[0], accessor.OpStat{})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "content-length: %d\n", meta.ContentLength)
		fmt.Fprintf(out, "content-type:   %s\n", meta.ContentType)
		fmt.Fprintf(out, "last-modified:  %d\n", meta.LastModified)
		fmt.Fprintf(out, "etag:           %s\n", meta.ETag)
		return nil
	},
}
