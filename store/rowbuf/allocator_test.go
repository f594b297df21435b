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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/fbclient/store/val"
)

func TestAllocateWidths(t *testing.T) {
	tests := []struct {
		name  string
		desc  ColumnDescriptor
		width int
	}{
		{"fixed text", ColumnDescriptor{Type: val.FixedText, Length: 40, Subtype: val.UTF8Subtype}, 41},
		{"varying text", ColumnDescriptor{Type: val.VaryingText, Length: 20, Subtype: val.UTF8Subtype}, 23},
		{"empty varying", ColumnDescriptor{Type: val.VaryingText}, 3},
		{"integer", ColumnDescriptor{Type: val.Integer, Length: 4}, 4},
		{"natural width", ColumnDescriptor{Type: val.BigInt}, 8},
		{"double", ColumnDescriptor{Type: val.Double, Length: 8, Scale: -2}, 8},
		{"int128", ColumnDescriptor{Type: val.Int128Type}, 16},
		{"time tz", ColumnDescriptor{Type: val.TimeTz}, 6},
		{"timestamp tz ex", ColumnDescriptor{Type: val.TimestampTzEx}, 12},
		{"boolean", ColumnDescriptor{Type: val.Boolean, Length: 1}, 1},
		{"blob", ColumnDescriptor{Type: val.Blob, Length: 8}, 8},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rs, err := Allocate([]ColumnDescriptor{test.desc})
			require.NoError(t, err)
			assert.Equal(t, test.width, rs.Size())

			test.desc.Nullable = true
			rs, err = Allocate([]ColumnDescriptor{test.desc})
			require.NoError(t, err)
			assert.Equal(t, test.width+2, rs.Size())
			slots, err := rs.Layout()
			require.NoError(t, err)
			assert.Equal(t, test.width, slots[0].NullOffset)
		})
	}
}

func TestAllocateScenario(t *testing.T) {
	rs, err := NewRowSet(
		ColumnDescriptor{Type: val.Integer, Length: 4},
		ColumnDescriptor{Type: val.VaryingText, Length: 20, Subtype: val.UTF8Subtype, Nullable: true},
		ColumnDescriptor{Type: val.Blob, Length: 8, Subtype: val.TextBlobSubtype, Nullable: true},
	)
	require.NoError(t, err)
	defer rs.Close()

	assert.Equal(t, 39, rs.Size())
	assert.Equal(t, 3, rs.Count())

	slots, err := rs.Layout()
	require.NoError(t, err)
	assert.Equal(t, []Slot{
		{Offset: 0, Width: 4, NullOffset: -1},
		{Offset: 4, Width: 23, NullOffset: 27},
		{Offset: 29, Width: 8, NullOffset: 37},
	}, slots)

	buf := rs.Bytes()
	assert.Equal(t, []byte{0xff, 0xff}, buf[27:29])
	assert.Equal(t, []byte{0xff, 0xff}, buf[37:39])
	assert.Equal(t, make([]byte, 4), buf[:4])
}

func TestAllocateDisjoint(t *testing.T) {
	var descs []ColumnDescriptor
	types := []val.WireType{
		val.SmallInt, val.Integer, val.BigInt, val.Quad, val.Float, val.Double, val.DFloat, val.Int128Type,
		val.Boolean, val.FixedText, val.VaryingText, val.Date, val.Time, val.Timestamp, val.TimeTz,
		val.TimeTzEx, val.TimestampTz, val.TimestampTzEx, val.Blob, val.Array,
	}
	for i, wt := range types {
		cd := ColumnDescriptor{Type: wt, Nullable: i%2 == 0}
		if wt == val.FixedText || wt == val.VaryingText {
			cd.Length = 4 * i
		}
		descs = append(descs, cd)
	}
	rs, err := Allocate(descs)
	require.NoError(t, err)

	slots, err := rs.Layout()
	require.NoError(t, err)

	end := 0
	sum := 0
	for i, s := range slots {
		assert.Equal(t, end, s.Offset, "column %d starts right after the previous one", i)
		if s.NullOffset >= 0 {
			assert.Equal(t, s.Offset+s.Width, s.NullOffset)
			sum += 2
		}
		end = s.End()
		sum += s.Width
	}
	assert.Equal(t, sum, rs.Size())
	assert.Equal(t, end, rs.Size())
}

func TestAllocateNormalizes(t *testing.T) {
	long := "a_column_name_that_is_longer_than_thirty_two_bytes"
	rs, err := NewRowSet(
		ColumnDescriptor{Type: val.Float, Length: 4, Scale: -3, Name: long},
		ColumnDescriptor{Type: val.Integer, Length: 4, Scale: -3},
	)
	require.NoError(t, err)

	cd, err := rs.Column(0)
	require.NoError(t, err)
	assert.Equal(t, 0, cd.Scale)
	assert.Len(t, cd.Name, MaxNameLength)
	assert.Equal(t, val.FloatKind, cd.Kind())

	scale, err := rs.Scale(1)
	require.NoError(t, err)
	assert.Equal(t, -3, scale)
}

func TestAllocateRejects(t *testing.T) {
	_, err := NewRowSet(ColumnDescriptor{Type: val.Integer, Length: 4}, ColumnDescriptor{Type: val.Integer, Length: 2})
	assert.True(t, ErrDataConversion.Is(err))

	_, err = NewRowSet(ColumnDescriptor{Type: val.WireType(12)})
	assert.True(t, ErrDataConversion.Is(err))

	_, err = NewRowSet(ColumnDescriptor{Type: val.FixedText, Length: -1})
	assert.True(t, ErrDataConversion.Is(err))
}

func TestFreshRowNulls(t *testing.T) {
	rs, err := NewRowSet(
		ColumnDescriptor{Type: val.Integer, Nullable: true},
		ColumnDescriptor{Type: val.Integer},
	)
	require.NoError(t, err)

	null, err := rs.IsNull(0)
	require.NoError(t, err)
	assert.True(t, null)
	_, err = rs.GetInt32(0)
	assert.True(t, ErrNullValue.Is(err))

	null, err = rs.IsNull(1)
	require.NoError(t, err)
	assert.False(t, null)
	v, err := rs.GetInt32(1)
	require.NoError(t, err)
	assert.Equal(t, int32(0), v)

	require.NoError(t, rs.SetInt32(0, 7))
	null, _ = rs.IsNull(0)
	assert.False(t, null)

	require.NoError(t, rs.SetNull(0))
	null, _ = rs.IsNull(0)
	assert.True(t, null)

	assert.True(t, ErrDataConversion.Is(rs.SetNull(1)))

	require.NoError(t, rs.SetInt32(0, 7))
	require.NoError(t, rs.Clear())
	null, _ = rs.IsNull(0)
	assert.True(t, null)
}

func TestHandleAndIndexChecks(t *testing.T) {
	var nilSet *RowSet
	_, err := nilSet.GetInt32(0)
	assert.True(t, ErrInvalidHandle.Is(err))
	assert.Equal(t, 0, nilSet.Count())
	nilSet.Close()

	rs, err := NewRowSet(ColumnDescriptor{Type: val.Integer, Nullable: true})
	require.NoError(t, err)

	for _, idx := range []int{-1, 1} {
		_, err = rs.GetInt64(idx)
		assert.True(t, ErrIndexOutOfBounds.Is(err))
		assert.Contains(t, err.Error(), "index out of bound")
		assert.True(t, ErrIndexOutOfBounds.Is(rs.SetInt32(idx, 1)))
		_, err = rs.IsNull(idx)
		assert.True(t, ErrIndexOutOfBounds.Is(err))
	}

	rs.Close()
	rs.Close()
	_, err = rs.GetInt32(0)
	assert.True(t, ErrInvalidHandle.Is(err))
	assert.True(t, ErrInvalidHandle.Is(rs.SetInt32(0, 1)))
	_, err = rs.Layout()
	assert.True(t, ErrInvalidHandle.Is(err))
	assert.Nil(t, rs.Bytes())
	assert.Equal(t, 0, rs.Size())
}
