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
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/dolthub/fbclient/store/val"
)

// readBig returns the integral value of |c| as a big.Int.
func readBig(c *column) *big.Int {
	if c.Type == val.Int128Type {
		return val.ReadInt128(c.fixed()).Big()
	}
	return big.NewInt(readIntegral(c))
}

// writeBig stores |b| into an integral column, reporting false if it does
// not fit the column's width.
func writeBig(c *column, b *big.Int) bool {
	switch c.Type {
	case val.Int128Type:
		v, ok := val.Int128FromBig(b)
		if !ok {
			return false
		}
		val.WriteInt128(c.fixed(), v)
		return true
	case val.SmallInt, val.Integer, val.BigInt, val.Quad:
		if !b.IsInt64() {
			return false
		}
		v := b.Int64()
		if c.Type == val.SmallInt && (v < math.MinInt16 || v > math.MaxInt16) {
			return false
		}
		if c.Type == val.Integer && (v < math.MinInt32 || v > math.MaxInt32) {
			return false
		}
		writeIntegral(c, v)
		return true
	default:
		return false
	}
}

// GetBigInt reads any integral column, including INT128, as a big.Int.
// The column's scale is ignored.
func (r *RowSet) GetBigInt(i int) (*big.Int, error) {
	c, err := r.getter(i, Int128Accessor)
	if err != nil {
		return nil, err
	}
	return readBig(c), nil
}

// SetBigInt stores |b| into any integral column wide enough to hold it.
// A nil |b| is a conversion error; use SetNull to store NULL.
func (r *RowSet) SetBigInt(i int, b *big.Int) error {
	c, err := r.column(i)
	if err != nil {
		return err
	}
	if b == nil || !writeBig(c, b) {
		return ErrDataConversion.New(i)
	}
	c.written()
	return nil
}

// GetDecimal reads a scaled integral column. A column with scale -2
// holding 12345 reads as 123.45.
func (r *RowSet) GetDecimal(i int) (decimal.Decimal, error) {
	c, err := r.getter(i, Int128Accessor)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromBigInt(readBig(c), int32(c.Scale)), nil
}

// SetDecimal stores |d| into a scaled integral column. Values needing more
// fractional digits than the scale allows, or too large for the column,
// are rejected rather than rounded.
func (r *RowSet) SetDecimal(i int, d decimal.Decimal) error {
	c, err := r.column(i)
	if err != nil {
		return err
	}
	if !Coercible(Int128Accessor, Get, c.Type) {
		return ErrDataConversion.New(i)
	}

	scaled := d.Shift(int32(-c.Scale))
	if !scaled.IsInteger() {
		return ErrDataConversion.New(i)
	}
	if !writeBig(c, scaled.BigInt()) {
		return ErrDataConversion.New(i)
	}
	c.written()
	return nil
}
