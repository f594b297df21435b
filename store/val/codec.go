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
	"encoding/binary"
	"math"
)

// ByteSize is a width within a row buffer.
type ByteSize uint16

const (
	boolSize          ByteSize = 1
	int16Size         ByteSize = 2
	uint16Size        ByteSize = 2
	int32Size         ByteSize = 4
	uint32Size        ByteSize = 4
	int64Size         ByteSize = 8
	uint64Size        ByteSize = 8
	float32Size       ByteSize = 4
	float64Size       ByteSize = 8
	int128Size        ByteSize = 16
	timeTzSize        ByteSize = 6
	timeTzExSize      ByteSize = 8
	timestampTzSize   ByteSize = 10
	timestampTzExSize ByteSize = 12

	// NullIndicatorSize is the width of the indicator that follows a nullable value.
	NullIndicatorSize ByteSize = 2
	// VaryingPrefixSize is the width of the length prefix of a VARYING value.
	VaryingPrefixSize ByteSize = 2
)

// All fields are little-endian, matching the client library's native layout.

func ReadBool(val []byte) bool {
	expectSize(val, boolSize)
	return val[0] != 0
}

func WriteBool(buf []byte, val bool) {
	expectSize(buf, boolSize)
	if val {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
}

func ReadInt16(val []byte) int16 {
	expectSize(val, int16Size)
	return int16(binary.LittleEndian.Uint16(val))
}

func WriteInt16(buf []byte, val int16) {
	expectSize(buf, int16Size)
	binary.LittleEndian.PutUint16(buf, uint16(val))
}

func ReadUint16(val []byte) uint16 {
	expectSize(val, uint16Size)
	return binary.LittleEndian.Uint16(val)
}

func WriteUint16(buf []byte, val uint16) {
	expectSize(buf, uint16Size)
	binary.LittleEndian.PutUint16(buf, val)
}

func ReadInt32(val []byte) int32 {
	expectSize(val, int32Size)
	return int32(binary.LittleEndian.Uint32(val))
}

func WriteInt32(buf []byte, val int32) {
	expectSize(buf, int32Size)
	binary.LittleEndian.PutUint32(buf, uint32(val))
}

func ReadUint32(val []byte) uint32 {
	expectSize(val, uint32Size)
	return binary.LittleEndian.Uint32(val)
}

func WriteUint32(buf []byte, val uint32) {
	expectSize(buf, uint32Size)
	binary.LittleEndian.PutUint32(buf, val)
}

func ReadInt64(val []byte) int64 {
	expectSize(val, int64Size)
	return int64(binary.LittleEndian.Uint64(val))
}

func WriteInt64(buf []byte, val int64) {
	expectSize(buf, int64Size)
	binary.LittleEndian.PutUint64(buf, uint64(val))
}

func ReadUint64(val []byte) uint64 {
	expectSize(val, uint64Size)
	return binary.LittleEndian.Uint64(val)
}

func WriteUint64(buf []byte, val uint64) {
	expectSize(buf, uint64Size)
	binary.LittleEndian.PutUint64(buf, val)
}

func ReadFloat32(val []byte) float32 {
	expectSize(val, float32Size)
	return math.Float32frombits(ReadUint32(val))
}

func WriteFloat32(buf []byte, val float32) {
	expectSize(buf, float32Size)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(val))
}

func ReadFloat64(val []byte) float64 {
	expectSize(val, float64Size)
	return math.Float64frombits(ReadUint64(val))
}

func WriteFloat64(buf []byte, val float64) {
	expectSize(buf, float64Size)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(val))
}

func ReadInt128(val []byte) Int128 {
	expectSize(val, int128Size)
	return Int128{
		Lo: binary.LittleEndian.Uint64(val[:8]),
		Hi: int64(binary.LittleEndian.Uint64(val[8:])),
	}
}

func WriteInt128(buf []byte, val Int128) {
	expectSize(buf, int128Size)
	binary.LittleEndian.PutUint64(buf[:8], val.Lo)
	binary.LittleEndian.PutUint64(buf[8:], uint64(val.Hi))
}

func expectSize(buf []byte, sz ByteSize) {
	if ByteSize(len(buf)) != sz {
		panic("byte slice is not of expected size")
	}
}
