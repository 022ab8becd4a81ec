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
	"io"

	"github.com/objcache/cachelayer/pkg/accessor"
	"github.com/spf13/cobra"
)

var getOffset, getLength int64

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Read an object through the cache layer and print it to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		layer, closeFn, err := buildCacheAccessor(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		br := accessor.FullRange()
		if getLength > 0 {
			br = accessor.NewRange(getOffset, getLength)
		} else if getOffset > 0 {
			br = accessor.RangeFrom(getOffset)
		}

		_, rc, err := layer.Read(ctx, args[0], accessor.OpRead{Range: br})
		if err != nil {
			return err
		}
		defer rc.Close()

		_, err = io.Copy(cmd.OutOrStdout(), rc)
		return err
	},
}

func init() {
	getCmd.Flags().Int64Var(&getOffset, "offset", 0, "Byte offset to start reading from")
	getCmd.Flags().Int64Var(&getLength, "length", 0, "Number of bytes to read (0 means to the end)")
}
