// Copyright 2025 go-highway Authors
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

package image

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// ErrInvalidArgument, ErrOutOfRange or ErrOperationFailed; use errors.Is.
var (
	// ErrInvalidArgument reports a caller-supplied parameter that violates a
	// precondition.
	ErrInvalidArgument = errors.New("image: invalid argument")

	// ErrOutOfRange reports a pixel index outside the image bounds.
	ErrOutOfRange = errors.New("image: index out of range")

	// ErrOperationFailed reports an operation that could not complete, such as
	// a codec failure or an operation on an empty image.
	ErrOperationFailed = errors.New("image: operation failed")

	// ErrAllocation reports that a pixel store could not be allocated.
	ErrAllocation = fmt.Errorf("%w: allocation failed", ErrOperationFailed)
)
