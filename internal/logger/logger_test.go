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

package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_TextFormatIncludesComponentAndMessage(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("text")
	SetLevel(LevelInfo)
	defer func() { SetOutput(os.Stderr); SetFormat("text") }()

	log := New("cachelayer")
	log.Info("cache hit", "path", "test_exist")

	out := buf.String()
	assert.True(t, strings.Contains(out, "component=cachelayer"))
	assert.True(t, strings.Contains(out, "cache hit"))
	assert.True(t, strings.Contains(out, "path=test_exist"))
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("json")
	SetLevel(LevelInfo)
	defer func() { SetOutput(os.Stderr); SetFormat("text") }()

	log := New("cachelayer")
	log.Info("cache miss")

	out := buf.String()
	assert.True(t, strings.Contains(out, `"msg":"cache miss"`))
	assert.True(t, strings.Contains(out, `"component":"cachelayer"`))
}

func TestSetLevel_SuppressesBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("text")
	SetLevel(LevelWarn)
	defer func() { SetOutput(os.Stderr); SetFormat("text"); SetLevel(LevelInfo) }()

	log := New("cachelayer")
	log.Debug("should not appear")
	log.Info("should not appear either")

	assert.Empty(t, buf.String())

	log.Warn("should appear")
	assert.True(t, strings.Contains(buf.String(), "should appear"))
}
