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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/fbclient/store/val"
)

func singleColumn(t *testing.T, wt val.WireType, nullable bool) *RowSet {
	rs, err := NewRowSet(ColumnDescriptor{Type: wt, Nullable: nullable})
	require.NoError(t, err)
	return rs
}

var numericTypes = []val.WireType{
	val.SmallInt, val.Integer, val.BigInt, val.Quad, val.Float, val.Double, val.DFloat, val.Int128Type, val.Boolean,
}

func TestIntegralSetCoercion(t *testing.T) {
	tests := []struct {
		name    string
		set     func(rs *RowSet) error
		allowed []val.WireType
	}{
		{
			name:    "int16",
			set:     func(rs *RowSet) error { return rs.SetInt16(0, -3) },
			allowed: []val.WireType{val.SmallInt, val.Integer, val.BigInt, val.Quad, val.Float, val.Double, val.DFloat, val.Int128Type},
		},
		{
			name:    "int32",
			set:     func(rs *RowSet) error { return rs.SetInt32(0, -3) },
			allowed: []val.WireType{val.Integer, val.BigInt, val.Quad, val.Double, val.DFloat, val.Int128Type},
		},
		{
			name:    "int64",
			set:     func(rs *RowSet) error { return rs.SetInt64(0, -3) },
			allowed: []val.WireType{val.BigInt, val.Quad, val.Int128Type},
		},
		{
			name:    "int128",
			set:     func(rs *RowSet) error { return rs.SetInt128(0, val.Int128FromInt64(-3)) },
			allowed: []val.WireType{val.Int128Type},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			allowed := setOf(test.allowed...)
			for _, wt := range numericTypes {
				rs := singleColumn(t, wt, true)
				err := test.set(rs)
				if _, ok := allowed[wt]; ok {
					require.NoError(t, err, wt.String())
					null, _ := rs.IsNull(0)
					assert.False(t, null, wt.String())
				} else {
					assert.True(t, ErrDataConversion.Is(err), wt.String())
					null, _ := rs.IsNull(0)
					assert.True(t, null, "failed set leaves %s null", wt)
				}
			}
		})
	}
}

func TestIntegralGetCoercion(t *testing.T) {
	for _, wt := range numericTypes {
		t.Run(wt.String(), func(t *testing.T) {
			rs := singleColumn(t, wt, false)

			_, err := rs.GetInt16(0)
			assert.Equal(t, wt == val.SmallInt, err == nil)

			_, err = rs.GetInt32(0)
			assert.Equal(t, wt == val.SmallInt || wt == val.Integer, err == nil)

			_, err = rs.GetInt64(0)
			assert.Equal(t, wt == val.SmallInt || wt == val.Integer || wt == val.BigInt || wt == val.Quad, err == nil)

			_, err = rs.GetInt128(0)
			assert.Equal(t, wt == val.SmallInt || wt == val.Integer || wt == val.BigInt || wt == val.Quad || wt == val.Int128Type, err == nil)

			_, err = rs.GetFloat32(0)
			assert.Equal(t, wt == val.Float, err == nil)

			_, err = rs.GetFloat64(0)
			assert.Equal(t, wt == val.Float || wt == val.Double || wt == val.DFloat, err == nil)

			_, err = rs.GetBool(0)
			assert.Equal(t, wt == val.Boolean, err == nil)
		})
	}
}

func TestIntegralRoundTrips(t *testing.T) {
	t.Run("int32 into bigint reads back as int64", func(t *testing.T) {
		rs := singleColumn(t, val.BigInt, true)
		require.NoError(t, rs.SetInt32(0, 42))
		v, err := rs.GetInt64(0)
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
	})
	t.Run("negative smallint sign extends", func(t *testing.T) {
		rs := singleColumn(t, val.SmallInt, false)
		require.NoError(t, rs.SetInt16(0, -2))
		v64, err := rs.GetInt64(0)
		require.NoError(t, err)
		assert.Equal(t, int64(-2), v64)
		v128, err := rs.GetInt128(0)
		require.NoError(t, err)
		assert.Equal(t, val.Int128{Lo: math.MaxUint64 - 1, Hi: -1}, v128)
	})
	t.Run("minus one sign extends to all ones", func(t *testing.T) {
		rs := singleColumn(t, val.SmallInt, false)
		require.NoError(t, rs.SetInt16(0, -1))
		v128, err := rs.GetInt128(0)
		require.NoError(t, err)
		assert.Equal(t, val.Int128{Lo: math.MaxUint64, Hi: -1}, v128)
	})
	t.Run("int16 into float", func(t *testing.T) {
		rs := singleColumn(t, val.Float, false)
		require.NoError(t, rs.SetInt16(0, 12))
		v, err := rs.GetFloat32(0)
		require.NoError(t, err)
		assert.Equal(t, float32(12), v)
	})
	t.Run("int32 into int128", func(t *testing.T) {
		rs := singleColumn(t, val.Int128Type, false)
		require.NoError(t, rs.SetInt32(0, math.MinInt32))
		v, err := rs.GetInt128(0)
		require.NoError(t, err)
		n, ok := v.Int64()
		assert.True(t, ok)
		assert.Equal(t, int64(math.MinInt32), n)
	})
	t.Run("int64 extremes", func(t *testing.T) {
		rs := singleColumn(t, val.Quad, false)
		for _, x := range []int64{math.MinInt64, math.MaxInt64, 0} {
			require.NoError(t, rs.SetInt64(0, x))
			v, err := rs.GetInt64(0)
			require.NoError(t, err)
			assert.Equal(t, x, v)
		}
	})
}

func TestFloatCoercion(t *testing.T) {
	rs := singleColumn(t, val.Double, false)
	require.NoError(t, rs.SetFloat32(0, 1.25))
	v, err := rs.GetFloat64(0)
	require.NoError(t, err)
	assert.Equal(t, 1.25, v)

	rs = singleColumn(t, val.Float, false)
	assert.True(t, ErrDataConversion.Is(rs.SetFloat64(0, 1)))
	require.NoError(t, rs.SetFloat32(0, -0.5))
	v, err = rs.GetFloat64(0)
	require.NoError(t, err)
	assert.Equal(t, -0.5, v)

	rs = singleColumn(t, val.DFloat, false)
	require.NoError(t, rs.SetFloat64(0, math.Pi))
	v, err = rs.GetFloat64(0)
	require.NoError(t, err)
	assert.Equal(t, math.Pi, v)
	assert.True(t, ErrDataConversion.Is(rs.SetFloat32(0, 1)))
}

func TestBool(t *testing.T) {
	rs := singleColumn(t, val.Boolean, true)
	require.NoError(t, rs.SetBool(0, true))
	b, err := rs.GetBool(0)
	require.NoError(t, err)
	assert.True(t, b)
	assert.Equal(t, byte(1), rs.Bytes()[0])

	rs = singleColumn(t, val.SmallInt, false)
	assert.True(t, ErrDataConversion.Is(rs.SetBool(0, true)))
}

func TestBlobID(t *testing.T) {
	rs := singleColumn(t, val.Blob, true)
	require.NoError(t, rs.SetBlobID(0, 0x0000008100000002))
	id, err := rs.GetBlobID(0)
	require.NoError(t, err)
	assert.Equal(t, val.BlobID(0x0000008100000002), id)
	assert.Equal(t, "00000081:00000002", id.String())

	rs = singleColumn(t, val.BigInt, false)
	_, err = rs.GetBlobID(0)
	assert.True(t, ErrDataConversion.Is(err))
}

func TestCoercible(t *testing.T) {
	assert.True(t, Coercible(Int64Accessor, Get, val.SmallInt))
	assert.False(t, Coercible(Int64Accessor, Set, val.Integer))
	assert.False(t, Coercible(numAccessors, Get, val.Integer))
	assert.False(t, Coercible(BoolAccessor, Direction(5), val.Boolean))
	assert.Equal(t, "timezone", TimeZoneAccessor.String())
}

func TestColumnIndependence(t *testing.T) {
	rs, err := NewRowSet(
		ColumnDescriptor{Type: val.Integer},
		ColumnDescriptor{Type: val.Integer, Nullable: true},
		ColumnDescriptor{Type: val.Integer},
	)
	require.NoError(t, err)

	require.NoError(t, rs.SetInt32(0, math.MaxInt32))
	require.NoError(t, rs.SetInt32(2, math.MinInt32))
	require.NoError(t, rs.SetInt32(1, -1))
	require.NoError(t, rs.SetNull(1))

	v, err := rs.GetInt32(0)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), v)
	v, err = rs.GetInt32(2)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), v)
}
