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
	"fmt"
)

// ErrObjectNotFound is the sentinel error every Accessor implementation
// must return (wrapped, if necessary, so that errors.Is still matches) when
// the requested path does not exist.
var ErrObjectNotFound = errors.New("accessor: object not found")

// UnexpectedError wraps an unanticipated failure (an encode/decode error, or
// an I/O error that isn't ErrObjectNotFound) with the operation that
// produced it, mirroring the "operation tag + source error" shape callers of
// this package rely on when logging or reporting failures.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// Unexpected wraps err as an UnexpectedError tagged with op.
func Unexpected(op string, err error) error {
	return &UnexpectedError{Op: op, Err: err}
}

// IsNotFound reports whether err is or wraps ErrObjectNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}
