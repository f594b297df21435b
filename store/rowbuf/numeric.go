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

func (r *RowSet) GetBool(i int) (bool, error) {
	c, err := r.getter(i, BoolAccessor)
	if err != nil {
		return false, err
	}
	return val.ReadBool(c.fixed()), nil
}

func (r *RowSet) SetBool(i int, v bool) error {
	c, err := r.setter(i, BoolAccessor)
	if err != nil {
		return err
	}
	val.WriteBool(c.fixed(), v)
	c.written()
	return nil
}

// readIntegral sign extends the integer stored in |c| to 64 bits.
func readIntegral(c *column) int64 {
	switch c.Type {
	case val.SmallInt:
		return int64(val.ReadInt16(c.fixed()))
	case val.Integer:
		return int64(val.ReadInt32(c.fixed()))
	default:
		return val.ReadInt64(c.fixed())
	}
}

// writeIntegral stores |v| into |c|. Callers have already checked that the
// column is at least as wide as the source type.
func writeIntegral(c *column, v int64) {
	switch c.Type {
	case val.SmallInt:
		val.WriteInt16(c.fixed(), int16(v))
	case val.Integer:
		val.WriteInt32(c.fixed(), int32(v))
	case val.BigInt, val.Quad:
		val.WriteInt64(c.fixed(), v)
	case val.Float:
		val.WriteFloat32(c.fixed(), float32(v))
	case val.Double, val.DFloat:
		val.WriteFloat64(c.fixed(), float64(v))
	case val.Int128Type:
		val.WriteInt128(c.fixed(), val.Int128FromInt64(v))
	default:
		panic("unreachable: integral write into " + c.Type.String())
	}
}

// GetInt16 reads a SMALLINT column.
func (r *RowSet) GetInt16(i int) (int16, error) {
	c, err := r.getter(i, Int16Accessor)
	if err != nil {
		return 0, err
	}
	return int16(readIntegral(c)), nil
}

// SetInt16 stores |v| into any integral or floating column.
func (r *RowSet) SetInt16(i int, v int16) error {
	c, err := r.setter(i, Int16Accessor)
	if err != nil {
		return err
	}
	writeIntegral(c, int64(v))
	c.written()
	return nil
}

// GetInt32 reads an INTEGER or SMALLINT column.
func (r *RowSet) GetInt32(i int) (int32, error) {
	c, err := r.getter(i, Int32Accessor)
	if err != nil {
		return 0, err
	}
	return int32(readIntegral(c)), nil
}

func (r *RowSet) SetInt32(i int, v int32) error {
	c, err := r.setter(i, Int32Accessor)
	if err != nil {
		return err
	}
	writeIntegral(c, int64(v))
	c.written()
	return nil
}

// GetInt64 reads any integral column narrower than 128 bits.
func (r *RowSet) GetInt64(i int) (int64, error) {
	c, err := r.getter(i, Int64Accessor)
	if err != nil {
		return 0, err
	}
	return readIntegral(c), nil
}

func (r *RowSet) SetInt64(i int, v int64) error {
	c, err := r.setter(i, Int64Accessor)
	if err != nil {
		return err
	}
	writeIntegral(c, v)
	c.written()
	return nil
}

// GetInt128 reads an INT128 column, or sign extends a narrower integral one.
func (r *RowSet) GetInt128(i int) (val.Int128, error) {
	c, err := r.getter(i, Int128Accessor)
	if err != nil {
		return val.Int128{}, err
	}
	if c.Type == val.Int128Type {
		return val.ReadInt128(c.fixed()), nil
	}
	return val.Int128FromInt64(readIntegral(c)), nil
}

func (r *RowSet) SetInt128(i int, v val.Int128) error {
	c, err := r.setter(i, Int128Accessor)
	if err != nil {
		return err
	}
	val.WriteInt128(c.fixed(), v)
	c.written()
	return nil
}

func (r *RowSet) GetFloat32(i int) (float32, error) {
	c, err := r.getter(i, Float32Accessor)
	if err != nil {
		return 0, err
	}
	return val.ReadFloat32(c.fixed()), nil
}

func (r *RowSet) SetFloat32(i int, v float32) error {
	c, err := r.setter(i, Float32Accessor)
	if err != nil {
		return err
	}
	if c.Type == val.Float {
		val.WriteFloat32(c.fixed(), v)
	} else {
		val.WriteFloat64(c.fixed(), float64(v))
	}
	c.written()
	return nil
}

// GetFloat64 reads a DOUBLE column, widening FLOAT.
func (r *RowSet) GetFloat64(i int) (float64, error) {
	c, err := r.getter(i, Float64Accessor)
	if err != nil {
		return 0, err
	}
	if c.Type == val.Float {
		return float64(val.ReadFloat32(c.fixed())), nil
	}
	return val.ReadFloat64(c.fixed()), nil
}

func (r *RowSet) SetFloat64(i int, v float64) error {
	c, err := r.setter(i, Float64Accessor)
	if err != nil {
		return err
	}
	val.WriteFloat64(c.fixed(), v)
	c.written()
	return nil
}

// GetBlobID returns the identifier stored in a BLOB column.
func (r *RowSet) GetBlobID(i int) (val.BlobID, error) {
	c, err := r.getter(i, BlobIDAccessor)
	if err != nil {
		return 0, err
	}
	return val.BlobID(val.ReadUint64(c.fixed())), nil
}

func (r *RowSet) SetBlobID(i int, id val.BlobID) error {
	c, err := r.setter(i, BlobIDAccessor)
	if err != nil {
		return err
	}
	val.WriteUint64(c.fixed(), uint64(id))
	c.written()
	return nil
}
