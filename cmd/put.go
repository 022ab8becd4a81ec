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
	"bytes"
	"io"
	"os"

	"github.com/objcache/cachelayer/pkg/accessor"
	"github.com/spf13/cobra"
)

var putFromFile string

var putCmd = &cobra.Command{
	Use:   "put <path>",
	Short: "Write an object through the cache layer, invalidating any cached metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		layer, closeFn, err := buildCacheAccessor(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		var src io.Reader = cmd.InOrStdin()
		if putFromFile != "" {
			f, err := os.Open(putFromFile)
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}

		data, err := io.ReadAll(src)
		if err != nil {
			return err
		}

		return layer.Write(ctx, args[0], accessor.OpWrite{Length: int64(len(data))}, bytes.NewReader(data))
	},
}

func init() {
	putCmd.Flags().StringVar(&putFromFile, "from-file", "", "Read object contents from this file instead of stdin")
}
