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

package transport

import (
	"encoding/binary"
)

// AppendInfoItem appends one answered info item to |buf|.
func AppendInfoItem(buf []byte, item byte, value []byte) []byte {
	buf = append(buf, item)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(value)))
	return append(buf, value...)
}

// ParseInfo walks an info result buffer, calling |cb| for each item until
// InfoEnd. It returns false if the buffer is malformed or truncated.
func ParseInfo(buf []byte, cb func(item byte, value []byte)) bool {
	for len(buf) > 0 {
		item := buf[0]
		switch item {
		case InfoEnd:
			return true
		case InfoTruncated, InfoError:
			return false
		}
		if len(buf) < 3 {
			return false
		}
		n := int(binary.LittleEndian.Uint16(buf[1:3]))
		if len(buf) < 3+n {
			return false
		}
		cb(item, buf[3:3+n])
		buf = buf[3+n:]
	}
	return false
}

// TotalLength extracts InfoTotalLength from an info result buffer.
func TotalLength(buf []byte) (int64, bool) {
	var length int64
	found := false
	ok := ParseInfo(buf, func(item byte, value []byte) {
		if item != InfoTotalLength {
			return
		}
		switch len(value) {
		case 2:
			length, found = int64(binary.LittleEndian.Uint16(value)), true
		case 4:
			length, found = int64(binary.LittleEndian.Uint32(value)), true
		case 8:
			length, found = int64(binary.LittleEndian.Uint64(value)), true
		}
	})
	return length, ok && found
}
