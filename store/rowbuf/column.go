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
	"github.com/dolthub/fbclient/store/val"
)

// MaxNameLength is the longest metadata name a descriptor carries.
const MaxNameLength = 32

// ColumnDescriptor describes one column of a row buffer as returned by the
// statement describe call.
type ColumnDescriptor struct {
	Type     val.WireType
	Nullable bool
	// Length is the declared width in bytes. Zero means the type's natural
	// width for fixed-size types.
	Length  int
	Scale   int
	Subtype int

	Name     string
	Relation string
	Owner    string
	Alias    string
}

// Kind returns the value family of |cd|.
func (cd ColumnDescriptor) Kind() val.Kind {
	return val.KindOf(cd.Type, cd.Subtype)
}

// Slot is the placement of one column inside a row buffer.
type Slot struct {
	Offset int
	Width  int
	// NullOffset is -1 for non-nullable columns.
	NullOffset int
}

// End returns the first byte past the slot, including its indicator.
func (s Slot) End() int {
	if s.NullOffset >= 0 {
		return s.NullOffset + int(val.NullIndicatorSize)
	}
	return s.Offset + s.Width
}

type column struct {
	ColumnDescriptor

	// relative placement computed by the layout pass
	layout Slot

	// views into the owned arena, assigned once the arena exists
	data []byte
	ind  []byte
}

func truncateName(s string) string {
	if len(s) <= MaxNameLength {
		return s
	}
	return s[:MaxNameLength]
}
