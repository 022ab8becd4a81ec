// Copyright 2025 Google LLC
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

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Clock = RealClock{}
	_ Clock = &SimulatedClock{}
)

func TestSimulatedClock_AdvanceTimeMovesNow(t *testing.T) {
	sc := NewSimulatedClock(time.Unix(0, 0))
	sc.AdvanceTime(10 * time.Second)
	assert.Equal(t, time.Unix(10, 0), sc.Now())
}

func TestSimulatedClock_SetTimeMovesNow(t *testing.T) {
	sc := NewSimulatedClock(time.Unix(0, 0))
	target := time.Unix(100, 0)
	sc.SetTime(target)
	assert.Equal(t, target, sc.Now())
}
