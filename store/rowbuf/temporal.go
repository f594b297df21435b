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
	"time"

	"github.com/dolthub/fbclient/store/val"
)

// dateField returns the 4-byte date field of a column with a date part.
func dateField(c *column) []byte {
	off, _ := val.DateFieldOffset(c.Type)
	return c.data[off : off+4]
}

func timeField(c *column) []byte {
	off, _ := val.TimeFieldOffset(c.Type)
	return c.data[off : off+4]
}

func zoneField(c *column) []byte {
	off, _ := val.ZoneFieldOffset(c.Type)
	return c.data[off : off+2]
}

// extOffsetField returns the cached UTC offset of an extended zone type.
func extOffsetField(c *column) ([]byte, bool) {
	if c.Type != val.TimeTzEx && c.Type != val.TimestampTzEx {
		return nil, false
	}
	off, _ := val.ZoneFieldOffset(c.Type)
	return c.data[off+2 : off+4], true
}

// GetEpochDays returns the date part of column |i| as days since 1970-01-01.
func (r *RowSet) GetEpochDays(i int) (int32, error) {
	c, err := r.getter(i, DateAccessor)
	if err != nil {
		return 0, err
	}
	return val.DecodeDate(val.ReadInt32(dateField(c))), nil
}

// SetEpochDays stores the date part of column |i|. Other parts of a
// timestamp are left untouched.
func (r *RowSet) SetEpochDays(i int, days int32) error {
	c, err := r.setter(i, DateAccessor)
	if err != nil {
		return err
	}
	if !storableDays(days) {
		return ErrDataConversion.New(i)
	}
	val.WriteInt32(dateField(c), val.EncodeDate(days))
	c.written()
	return nil
}

// minEpochDays and maxEpochDays bound the days accepted for storage. The
// range keeps |val.EpochDayOffset| clear of both ends of the date field.
const (
	minEpochDays = math.MinInt32 + val.EpochDayOffset
	maxEpochDays = math.MaxInt32 - val.EpochDayOffset
)

func storableDays(days int32) bool {
	return days >= minEpochDays && days <= maxEpochDays
}

// GetMillisOfDay returns the time part of column |i| in milliseconds since midnight.
func (r *RowSet) GetMillisOfDay(i int) (int32, error) {
	c, err := r.getter(i, TimeAccessor)
	if err != nil {
		return 0, err
	}
	return val.DecodeTime(val.ReadUint32(timeField(c))), nil
}

func (r *RowSet) SetMillisOfDay(i int, millis int32) error {
	c, err := r.setter(i, TimeAccessor)
	if err != nil {
		return err
	}
	if millis < 0 || millis >= val.MillisPerDay {
		return ErrDataConversion.New(i)
	}
	val.WriteUint32(timeField(c), val.EncodeTime(millis))
	c.written()
	return nil
}

// GetTimeZoneID returns the zone id of a TIME or TIMESTAMP WITH TIME ZONE column.
func (r *RowSet) GetTimeZoneID(i int) (val.TimeZoneID, error) {
	c, err := r.getter(i, TimeZoneAccessor)
	if err != nil {
		return 0, err
	}
	return val.TimeZoneID(val.ReadUint16(zoneField(c))), nil
}

// SetTimeZoneID stores a zone id. Ids outside 0..65535 are rejected.
func (r *RowSet) SetTimeZoneID(i int, id int) error {
	c, err := r.setter(i, TimeZoneAccessor)
	if err != nil {
		return err
	}
	if id < 0 || id > int(val.GMTZoneID) {
		return ErrDataConversion.New(i)
	}
	val.WriteUint16(zoneField(c), uint16(id))
	c.written()
	return nil
}

// GetDate returns the date part of column |i| as midnight UTC.
func (r *RowSet) GetDate(i int) (time.Time, error) {
	days, err := r.GetEpochDays(i)
	if err != nil {
		return time.Time{}, err
	}
	return val.DaysToTime(days), nil
}

// SetDate stores the calendar date of |t| in its own location.
func (r *RowSet) SetDate(i int, t time.Time) error {
	return r.SetEpochDays(i, val.TimeToDays(t))
}

// GetTime returns the time part of column |i| as an offset from midnight.
func (r *RowSet) GetTime(i int) (time.Duration, error) {
	ms, err := r.GetMillisOfDay(i)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (r *RowSet) SetTime(i int, d time.Duration) error {
	if d < 0 {
		if _, err := r.setter(i, TimeAccessor); err != nil {
			return err
		}
		return ErrDataConversion.New(i)
	}
	return r.SetMillisOfDay(i, int32(min(d/time.Millisecond, val.MillisPerDay)))
}

// GetTimestamp reads a TIMESTAMP column as a UTC wall clock time. Zoned
// columns are returned in their stored zone; if the host cannot resolve a
// region the instant is returned in UTC.
func (r *RowSet) GetTimestamp(i int) (time.Time, error) {
	c, err := r.readable(i)
	if err != nil {
		return time.Time{}, err
	}
	switch c.Type {
	case val.Timestamp, val.TimestampTz, val.TimestampTzEx:
	default:
		return time.Time{}, ErrDataConversion.New(i)
	}

	days := val.DecodeDate(val.ReadInt32(dateField(c)))
	ms := val.DecodeTime(val.ReadUint32(timeField(c)))
	t := val.DaysToTime(days).Add(time.Duration(ms) * time.Millisecond)
	if c.Type == val.Timestamp {
		return t, nil
	}

	loc, err := val.TimeZoneID(val.ReadUint16(zoneField(c))).Location()
	if err != nil {
		return t, nil
	}
	return t.In(loc), nil
}

// SetTimestamp stores |t|. Plain TIMESTAMP columns keep the wall clock of
// |t|; zoned columns store the UTC instant and the zone of |t|.
func (r *RowSet) SetTimestamp(i int, t time.Time) error {
	c, err := r.setter(i, DateAccessor)
	if err != nil {
		return err
	}
	switch c.Type {
	case val.Timestamp, val.TimestampTz, val.TimestampTzEx:
	default:
		return ErrDataConversion.New(i)
	}

	zone := val.GMTZoneID
	if c.Type != val.Timestamp {
		zone = val.ZoneIDForLocation(t.Location(), t)
		t = t.UTC()
	}
	days := val.TimeToDays(t)
	if !storableDays(days) {
		return ErrDataConversion.New(i)
	}

	val.WriteInt32(dateField(c), val.EncodeDate(days))
	val.WriteUint32(timeField(c), val.EncodeTime(val.MillisOfDay(t)))
	if c.Type != val.Timestamp {
		val.WriteUint16(zoneField(c), uint16(zone))
		if ext, ok := extOffsetField(c); ok {
			_, secs := t.In(zoneLocation(zone)).Zone()
			val.WriteInt16(ext, int16(secs/60))
		}
	}
	c.written()
	return nil
}

// SetTimeTz stores a time of day with its zone into a TIME WITH TIME ZONE
// column. |d| is measured from midnight UTC.
func (r *RowSet) SetTimeTz(i int, d time.Duration, zone val.TimeZoneID) error {
	c, err := r.setter(i, TimeZoneAccessor)
	if err != nil {
		return err
	}
	if c.Type != val.TimeTz && c.Type != val.TimeTzEx {
		return ErrDataConversion.New(i)
	}
	if d < 0 || d >= val.MillisPerDay*time.Millisecond {
		return ErrDataConversion.New(i)
	}
	val.WriteUint32(timeField(c), val.EncodeTime(int32(d/time.Millisecond)))
	val.WriteUint16(zoneField(c), uint16(zone))
	c.written()
	return nil
}

func zoneLocation(id val.TimeZoneID) *time.Location {
	loc, err := id.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}
