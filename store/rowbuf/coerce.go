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

// Accessor identifies a typed get/set pair.
type Accessor uint8

const (
	BoolAccessor Accessor = iota
	Int16Accessor
	Int32Accessor
	Int64Accessor
	Int128Accessor
	Float32Accessor
	Float64Accessor
	DateAccessor
	TimeAccessor
	TimeZoneAccessor
	BlobIDAccessor
	StringAccessor
	BytesAccessor
	numAccessors
)

var accessorNames = [numAccessors]string{
	"bool", "int16", "int32", "int64", "int128", "float32", "float64",
	"date", "time", "timezone", "blobid", "string", "bytes",
}

func (a Accessor) String() string {
	if a < numAccessors {
		return accessorNames[a]
	}
	return "unknown"
}

// Direction distinguishes reads from writes.
type Direction uint8

const (
	Get Direction = iota
	Set
)

type wireSet map[val.WireType]struct{}

func setOf(types ...val.WireType) wireSet {
	ws := make(wireSet, len(types))
	for _, wt := range types {
		ws[wt] = struct{}{}
	}
	return ws
}

var (
	temporalWithDate = []val.WireType{val.Date, val.Timestamp, val.TimestampTz, val.TimestampTzEx}
	temporalWithTime = []val.WireType{val.Time, val.TimeTz, val.TimeTzEx, val.Timestamp, val.TimestampTz, val.TimestampTzEx}
	temporalWithZone = []val.WireType{val.TimeTz, val.TimeTzEx, val.TimestampTz, val.TimestampTzEx}
	textual          = []val.WireType{val.FixedText, val.VaryingText, val.Blob}
)

// coercions lists, per accessor and direction, the wire types the accessor
// may read from or store into. Widening reads and writes are allowed;
// narrowing never is.
var coercions = [numAccessors][2]wireSet{
	BoolAccessor: {
		setOf(val.Boolean),
		setOf(val.Boolean),
	},
	Int16Accessor: {
		setOf(val.SmallInt),
		setOf(val.SmallInt, val.Integer, val.BigInt, val.Quad, val.Float, val.Double, val.DFloat, val.Int128Type),
	},
	Int32Accessor: {
		setOf(val.Integer, val.SmallInt),
		setOf(val.Integer, val.BigInt, val.Quad, val.Double, val.DFloat, val.Int128Type),
	},
	Int64Accessor: {
		setOf(val.BigInt, val.Quad, val.Integer, val.SmallInt),
		setOf(val.BigInt, val.Quad, val.Int128Type),
	},
	Int128Accessor: {
		setOf(val.Int128Type, val.BigInt, val.Quad, val.Integer, val.SmallInt),
		setOf(val.Int128Type),
	},
	Float32Accessor: {
		setOf(val.Float),
		setOf(val.Float, val.Double),
	},
	Float64Accessor: {
		setOf(val.Double, val.DFloat, val.Float),
		setOf(val.Double, val.DFloat),
	},
	DateAccessor: {
		setOf(temporalWithDate...),
		setOf(temporalWithDate...),
	},
	TimeAccessor: {
		setOf(temporalWithTime...),
		setOf(temporalWithTime...),
	},
	TimeZoneAccessor: {
		setOf(temporalWithZone...),
		setOf(temporalWithZone...),
	},
	BlobIDAccessor: {
		setOf(val.Blob),
		setOf(val.Blob),
	},
	StringAccessor: {
		setOf(textual...),
		setOf(textual...),
	},
	BytesAccessor: {
		setOf(textual...),
		setOf(textual...),
	},
}

// Coercible reports whether accessor |a| may be used in direction |dir| on
// a column of type |wt|. Text accessors apply further subtype checks.
func Coercible(a Accessor, dir Direction, wt val.WireType) bool {
	if a >= numAccessors || dir > Set {
		return false
	}
	_, ok := coercions[a][dir][wt]
	return ok
}

// getter resolves column |i| for a read through accessor |a|.
func (r *RowSet) getter(i int, a Accessor) (*column, error) {
	c, err := r.readable(i)
	if err != nil {
		return nil, err
	}
	if !Coercible(a, Get, c.Type) {
		return nil, ErrDataConversion.New(i)
	}
	return c, nil
}

// setter resolves column |i| for a write through accessor |a|.
func (r *RowSet) setter(i int, a Accessor) (*column, error) {
	c, err := r.column(i)
	if err != nil {
		return nil, err
	}
	if !Coercible(a, Set, c.Type) {
		return nil, ErrDataConversion.New(i)
	}
	return c, nil
}
