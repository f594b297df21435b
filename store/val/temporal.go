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
	"time"
)

const (
	// EpochDayOffset is the number of days between the server's date epoch
	// (1858-11-17) and 1970-01-01.
	EpochDayOffset = 40587
	// TimeUnitsPerMilli is the number of wire time units (1/10000 s) per millisecond.
	TimeUnitsPerMilli = 10
	// MillisPerDay bounds a time-of-day value.
	MillisPerDay = 24 * 60 * 60 * 1000

	// timeFieldOffset is where the time of day sits inside timestamp values.
	timeFieldOffset = 4
)

// MaxSegmentSize is the largest blob segment the wire protocol carries.
const MaxSegmentSize = 32767

// BlobID identifies a blob stored on the server. It is opaque to the client.
type BlobID uint64

func (id BlobID) String() string {
	return fmt.Sprintf("%08x:%08x", uint32(id>>32), uint32(id))
}

func EncodeDate(epochDays int32) int32 {
	return epochDays + EpochDayOffset
}

func DecodeDate(stored int32) int32 {
	return stored - EpochDayOffset
}

func EncodeTime(millis int32) uint32 {
	return uint32(millis) * TimeUnitsPerMilli
}

func DecodeTime(stored uint32) int32 {
	return int32(stored / TimeUnitsPerMilli)
}

// TimeFieldOffset returns the position of the time of day field within a
// value of type |wt|, and false if |wt| has no such field.
func TimeFieldOffset(wt WireType) (int, bool) {
	switch wt {
	case Time, TimeTz, TimeTzEx:
		return 0, true
	case Timestamp, TimestampTz, TimestampTzEx:
		return timeFieldOffset, true
	default:
		return 0, false
	}
}

// DateFieldOffset returns the position of the date field within |wt|.
func DateFieldOffset(wt WireType) (int, bool) {
	switch wt {
	case Date, Timestamp, TimestampTz, TimestampTzEx:
		return 0, true
	default:
		return 0, false
	}
}

// ZoneFieldOffset returns the position of the time zone id within |wt|.
func ZoneFieldOffset(wt WireType) (int, bool) {
	switch wt {
	case TimeTz, TimeTzEx:
		return 4, true
	case TimestampTz, TimestampTzEx:
		return 8, true
	default:
		return 0, false
	}
}

// DaysToTime returns midnight UTC of the day |epochDays| after 1970-01-01.
func DaysToTime(epochDays int32) time.Time {
	return time.Unix(int64(epochDays)*86400, 0).UTC()
}

// TimeToDays returns the number of whole days between 1970-01-01 and the
// calendar date of |t| in its own location.
func TimeToDays(t time.Time) int32 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int32(midnight.Unix() / 86400)
}

// MillisOfDay returns the wall clock time of |t| as milliseconds since midnight.
func MillisOfDay(t time.Time) int32 {
	h, m, s := t.Clock()
	return int32(((h*60+m)*60+s)*1000 + t.Nanosecond()/int(time.Millisecond))
}
