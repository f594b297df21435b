// Copyright 2024 Dolthub, Inc.
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

package rowbuf

import (
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrInvalidHandle is returned for calls on a nil or closed RowSet, and
	// for blob columns accessed without a BlobIO.
	ErrInvalidHandle = errors.NewKind("invalid handle value")
	// ErrIndexOutOfBounds is returned for column indexes outside [0, Count()).
	ErrIndexOutOfBounds = errors.NewKind("index out of bound: %d")
	// ErrNullValue is returned when reading a column whose indicator is set.
	ErrNullValue = errors.NewKind("field is null")
	// ErrDataConversion is returned when an accessor does not apply to a
	// column's type, or a value is outside the accessor's range.
	ErrDataConversion = errors.NewKind("data type conversion error (%d)")
	// ErrStringTruncation is returned when a value exceeds a column's declared width.
	ErrStringTruncation = errors.NewKind("string truncation: %d")
)
