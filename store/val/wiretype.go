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

package val

import (
	"fmt"
	"strings"
)

// WireType is a column's data type as declared by the server, with the
// nullable bit folded out.
type WireType uint16

const (
	VaryingText   WireType = 448
	FixedText     WireType = 452
	Double        WireType = 480
	Float         WireType = 482
	Integer       WireType = 496
	SmallInt      WireType = 500
	Timestamp     WireType = 510
	Blob          WireType = 520
	DFloat        WireType = 530
	Array         WireType = 540
	Quad          WireType = 550
	Time          WireType = 560
	Date          WireType = 570
	BigInt        WireType = 580
	TimestampTzEx WireType = 32748
	TimeTzEx      WireType = 32750
	Int128Type    WireType = 32752
	TimestampTz   WireType = 32754
	TimeTz        WireType = 32756
	Boolean       WireType = 32764
	Null          WireType = 32766
)

const nullableBit = 1

// SplitWireType separates a raw sqltype into its WireType and nullable flag.
func SplitWireType(raw int16) (WireType, bool) {
	return WireType(uint16(raw) &^ nullableBit), raw&nullableBit != 0
}

// Raw returns the raw sqltype for |wt| with the nullable bit set as requested.
func (wt WireType) Raw(nullable bool) int16 {
	if nullable {
		return int16(wt | nullableBit)
	}
	return int16(wt)
}

var wireTypeNames = map[WireType]string{
	VaryingText:   "VARYING",
	FixedText:     "TEXT",
	Double:        "DOUBLE",
	Float:         "FLOAT",
	Integer:       "LONG",
	SmallInt:      "SHORT",
	Timestamp:     "TIMESTAMP",
	Blob:          "BLOB",
	DFloat:        "D_FLOAT",
	Array:         "ARRAY",
	Quad:          "QUAD",
	Time:          "TIME",
	Date:          "DATE",
	BigInt:        "INT64",
	TimestampTzEx: "TIMESTAMP_TZ_EX",
	TimeTzEx:      "TIME_TZ_EX",
	Int128Type:    "INT128",
	TimestampTz:   "TIMESTAMP_TZ",
	TimeTz:        "TIME_TZ",
	Boolean:       "BOOLEAN",
	Null:          "NULL",
}

var wireTypeAliases = map[string]WireType{
	"SMALLINT": SmallInt,
	"INTEGER":  Integer,
	"INT":      Integer,
	"BIGINT":   BigInt,
	"CHAR":     FixedText,
	"VARCHAR":  VaryingText,
}

func (wt WireType) String() string {
	if s, ok := wireTypeNames[wt]; ok {
		return s
	}
	return fmt.Sprintf("WireType(%d)", uint16(wt))
}

// Valid reports whether |wt| is one of the types the row buffer can hold.
func (wt WireType) Valid() bool {
	_, ok := wireTypeNames[wt]
	return ok && wt != Null
}

// ParseWireType resolves a wire type by name, as used in descriptor files.
func ParseWireType(name string) (WireType, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for wt, s := range wireTypeNames {
		if s == name {
			return wt, nil
		}
	}
	if wt, ok := wireTypeAliases[name]; ok {
		return wt, nil
	}
	return 0, fmt.Errorf("unknown wire type '%s'", name)
}

// NaturalSize returns the fixed width of |wt|. Text types have no natural
// width and return false.
func (wt WireType) NaturalSize() (ByteSize, bool) {
	switch wt {
	case Boolean:
		return boolSize, true
	case SmallInt:
		return int16Size, true
	case Integer, Float, Date, Time:
		return int32Size, true
	case BigInt, Quad, Double, DFloat, Timestamp, Blob, Array:
		return int64Size, true
	case TimeTz:
		return timeTzSize, true
	case TimeTzEx:
		return timeTzExSize, true
	case TimestampTz:
		return timestampTzSize, true
	case TimestampTzEx:
		return timestampTzExSize, true
	case Int128Type:
		return int128Size, true
	default:
		return 0, false
	}
}

// IsFloat reports whether |wt| carries a floating point value. Scale is
// meaningless for these types.
func (wt WireType) IsFloat() bool {
	return wt == Float || wt == Double || wt == DFloat
}

// Kind is the value family a column exposes to callers.
type Kind uint8

const (
	UnknownKind Kind = iota
	ShortKind
	IntKind
	LongKind
	FloatKind
	DoubleKind
	StringKind
	ByteArrayKind
	Int128Kind
	BooleanKind
	DateKind
	TimeKind
	DatetimeKind
	TimeTzKind
	DatetimeTzKind
	BlobBinaryKind
	BlobTextKind
)

var kindNames = [...]string{
	UnknownKind:    "unknown",
	ShortKind:      "short",
	IntKind:        "int",
	LongKind:       "long",
	FloatKind:      "float",
	DoubleKind:     "double",
	StringKind:     "string",
	ByteArrayKind:  "bytearray",
	Int128Kind:     "int128",
	BooleanKind:    "boolean",
	DateKind:       "date",
	TimeKind:       "time",
	DatetimeKind:   "datetime",
	TimeTzKind:     "time_tz",
	DatetimeTzKind: "datetime_tz",
	BlobBinaryKind: "blob_binary",
	BlobTextKind:   "blob_text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[UnknownKind]
}

// KindOf classifies a column by wire type and subtype. Text with subtype 0
// is raw octets; a blob with subtype 1 is text.
func KindOf(wt WireType, subtype int) Kind {
	switch wt {
	case SmallInt:
		return ShortKind
	case Integer:
		return IntKind
	case BigInt, Quad:
		return LongKind
	case Float:
		return FloatKind
	case Double, DFloat:
		return DoubleKind
	case FixedText, VaryingText:
		if subtype == OctetsSubtype {
			return ByteArrayKind
		}
		return StringKind
	case Int128Type:
		return Int128Kind
	case Boolean:
		return BooleanKind
	case Date:
		return DateKind
	case Time:
		return TimeKind
	case Timestamp:
		return DatetimeKind
	case TimeTz, TimeTzEx:
		return TimeTzKind
	case TimestampTz, TimestampTzEx:
		return DatetimeTzKind
	case Blob:
		if subtype == TextBlobSubtype {
			return BlobTextKind
		}
		return BlobBinaryKind
	default:
		return UnknownKind
	}
}

const (
	// OctetsSubtype marks binary text columns.
	OctetsSubtype = 0
	// TextBlobSubtype marks blobs holding character data.
	TextBlobSubtype = 1
	// UTF8Subtype is the character set id for UTF-8 text.
	UTF8Subtype = 4
	// MaxUTF8CharSize is the widest UTF-8 sequence the server reserves per character.
	MaxUTF8CharSize = 4
)
