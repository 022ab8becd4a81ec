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

package accessor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound_MatchesSentinelDirectly(t *testing.T) {
	assert.True(t, IsNotFound(ErrObjectNotFound))
}

func TestIsNotFound_MatchesWrappedSentinel(t *testing.T) {
	wrapped := Unexpected("accessor: stat", ErrObjectNotFound)
	assert.True(t, IsNotFound(wrapped), "UnexpectedError unwraps to its source, so a wrapped ErrObjectNotFound still matches")
}

func TestIsNotFound_RejectsUnrelatedError(t *testing.T) {
	assert.False(t, IsNotFound(errors.New("connection reset")))
}

func TestUnexpected_PreservesOpAndSource(t *testing.T) {
	src := errors.New("boom")
	err := Unexpected("accessor: read", src)

	var ue *UnexpectedError
	require := func(ok bool) {
		if !ok {
			t.Fatal("expected errors.As to match *UnexpectedError")
		}
	}
	require(errors.As(err, &ue))
	assert.Equal(t, "accessor: read", ue.Op)
	assert.Equal(t, "accessor: read: boom", err.Error())
	assert.ErrorIs(t, err, src)
}

