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

// reservedWidth returns the bytes reserved for the value of |cd|, not
// counting its null indicator.
func reservedWidth(cd *ColumnDescriptor) (int, bool) {
	switch cd.Type {
	case val.FixedText:
		if cd.Length < 0 {
			return 0, false
		}
		return cd.Length + 1, true
	case val.VaryingText:
		if cd.Length < 0 {
			return 0, false
		}
		return int(val.VaryingPrefixSize) + cd.Length + 1, true
	}

	natural, ok := cd.Type.NaturalSize()
	if !ok {
		return 0, false
	}
	if cd.Length <= 0 {
		cd.Length = int(natural)
	} else if cd.Length < int(natural) {
		return 0, false
	}
	if cd.Type.IsFloat() {
		cd.Scale = 0
	}
	return cd.Length, true
}

// Allocate lays out |descs| in a single zero-filled buffer and returns the
// RowSet that owns it. Every nullable column starts out null.
func Allocate(descs []ColumnDescriptor) (*RowSet, error) {
	cols := make([]column, len(descs))

	total := 0
	for i := range descs {
		c := &cols[i]
		c.ColumnDescriptor = descs[i]
		c.Name = truncateName(c.Name)
		c.Relation = truncateName(c.Relation)
		c.Owner = truncateName(c.Owner)
		c.Alias = truncateName(c.Alias)

		if !c.Type.Valid() {
			return nil, ErrDataConversion.New(i)
		}
		width, ok := reservedWidth(&c.ColumnDescriptor)
		if !ok {
			return nil, ErrDataConversion.New(i)
		}

		c.layout = Slot{Offset: total, Width: width, NullOffset: -1}
		total += width
		if c.Nullable {
			c.layout.NullOffset = total
			total += int(val.NullIndicatorSize)
		}
	}

	arena := make([]byte, total)
	for i := range cols {
		c := &cols[i]
		start, end := c.layout.Offset, c.layout.Offset+c.layout.Width
		c.data = arena[start:end:end]
		if c.layout.NullOffset >= 0 {
			start = c.layout.NullOffset
			end = start + int(val.NullIndicatorSize)
			c.ind = arena[start:end:end]
			val.WriteInt16(c.ind, -1)
		}
	}

	return &RowSet{cols: cols, arena: arena}, nil
}
