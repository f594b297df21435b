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

// RowSet is an ordered set of columns sharing one row buffer. A RowSet is
// reused for every row of a statement and is not safe for concurrent use.
type RowSet struct {
	cols  []column
	arena []byte
}

// NewRowSet is a convenience wrapper around Allocate for literal descriptors.
func NewRowSet(descs ...ColumnDescriptor) (*RowSet, error) {
	return Allocate(descs)
}

// Close releases the buffer and the columns. Calls on a closed RowSet
// return ErrInvalidHandle. Close is idempotent.
func (r *RowSet) Close() {
	if r == nil {
		return
	}
	r.cols = nil
	r.arena = nil
}

func (r *RowSet) valid() bool {
	return r != nil && r.arena != nil
}

// Count returns the number of columns, or 0 for a closed RowSet.
func (r *RowSet) Count() int {
	if !r.valid() {
		return 0
	}
	return len(r.cols)
}

// Size returns the length of the row buffer.
func (r *RowSet) Size() int {
	if !r.valid() {
		return 0
	}
	return len(r.arena)
}

// Bytes exposes the row buffer for the transport's execute and fetch calls.
// The slice is invalidated by Close.
func (r *RowSet) Bytes() []byte {
	if !r.valid() {
		return nil
	}
	return r.arena
}

// Layout returns the placement of every column.
func (r *RowSet) Layout() ([]Slot, error) {
	if !r.valid() {
		return nil, ErrInvalidHandle.New()
	}
	slots := make([]Slot, len(r.cols))
	for i := range r.cols {
		slots[i] = r.cols[i].layout
	}
	return slots, nil
}

// Clear resets every column to its freshly allocated state.
func (r *RowSet) Clear() error {
	if !r.valid() {
		return ErrInvalidHandle.New()
	}
	for i := range r.arena {
		r.arena[i] = 0
	}
	for i := range r.cols {
		if ind := r.cols[i].ind; ind != nil {
			val.WriteInt16(ind, -1)
		}
	}
	return nil
}

// column checks the handle and the index, in that order.
func (r *RowSet) column(i int) (*column, error) {
	if !r.valid() {
		return nil, ErrInvalidHandle.New()
	}
	if i < 0 || i >= len(r.cols) {
		return nil, ErrIndexOutOfBounds.New(i)
	}
	return &r.cols[i], nil
}

// readable additionally rejects null columns.
func (r *RowSet) readable(i int) (*column, error) {
	c, err := r.column(i)
	if err != nil {
		return nil, err
	}
	if c.isNull() {
		return nil, ErrNullValue.New()
	}
	return c, nil
}

func (c *column) isNull() bool {
	return c.ind != nil && val.ReadInt16(c.ind) != 0
}

// written marks the column as holding a value. It must only follow a
// successful write.
func (c *column) written() {
	if c.ind != nil {
		val.WriteInt16(c.ind, 0)
	}
}

// fixed returns the natural-width prefix of the value slot.
func (c *column) fixed() []byte {
	sz, _ := c.Type.NaturalSize()
	return c.data[:sz]
}

// Column returns the descriptor of column |i| as normalized by Allocate.
func (r *RowSet) Column(i int) (ColumnDescriptor, error) {
	c, err := r.column(i)
	if err != nil {
		return ColumnDescriptor{}, err
	}
	return c.ColumnDescriptor, nil
}

func (r *RowSet) Kind(i int) (val.Kind, error) {
	c, err := r.column(i)
	if err != nil {
		return val.UnknownKind, err
	}
	return c.Kind(), nil
}

func (r *RowSet) Scale(i int) (int, error) {
	c, err := r.column(i)
	if err != nil {
		return 0, err
	}
	return c.Scale, nil
}

// IsNull reports whether column |i| holds SQL NULL. Non-nullable columns
// are never null.
func (r *RowSet) IsNull(i int) (bool, error) {
	c, err := r.column(i)
	if err != nil {
		return false, err
	}
	return c.isNull(), nil
}

// SetNull marks column |i| as SQL NULL. The value bytes are left as they are.
func (r *RowSet) SetNull(i int) error {
	c, err := r.column(i)
	if err != nil {
		return err
	}
	if c.ind == nil {
		return ErrDataConversion.New(i)
	}
	val.WriteInt16(c.ind, -1)
	return nil
}
