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
	"sync"
	"time"
)

// TimeZoneID is the server's 16-bit time zone identifier. Ids up to
// MaxOffsetZoneID encode a fixed offset of id-1439 minutes; larger ids name
// a region, counting down from GMTZoneID.
type TimeZoneID uint16

const (
	GMTZoneID       TimeZoneID = 65535
	MaxOffsetZoneID TimeZoneID = 2878
	offsetZoneBias             = 1439
)

// MinRegionZoneID is the lowest region id the registry knows about.
const MinRegionZoneID = GMTZoneID - TimeZoneID(len(regionZoneNames)) + 1

var (
	zoneIDsOnce sync.Once
	zoneIDs     map[string]TimeZoneID
)

// IsOffset reports whether |id| encodes a fixed UTC offset.
func (id TimeZoneID) IsOffset() bool {
	return id <= MaxOffsetZoneID
}

// OffsetMinutes returns the fixed offset encoded by |id|.
func (id TimeZoneID) OffsetMinutes() (int, bool) {
	if !id.IsOffset() {
		return 0, false
	}
	return int(id) - offsetZoneBias, true
}

// Name returns the region name or the "+hh:mm" form of an offset id. Unknown
// ids return "".
func (id TimeZoneID) Name() string {
	if mins, ok := id.OffsetMinutes(); ok {
		sign := '+'
		if mins < 0 {
			sign, mins = '-', -mins
		}
		return fmt.Sprintf("%c%02d:%02d", sign, mins/60, mins%60)
	}
	if id >= MinRegionZoneID {
		return regionZoneNames[GMTZoneID-id]
	}
	return ""
}

func (id TimeZoneID) String() string {
	if n := id.Name(); n != "" {
		return n
	}
	return fmt.Sprintf("TimeZoneID(%d)", uint16(id))
}

// Location resolves |id| to a time.Location. Region ids need the host's
// zoneinfo database.
func (id TimeZoneID) Location() (*time.Location, error) {
	if mins, ok := id.OffsetMinutes(); ok {
		return time.FixedZone(id.Name(), mins*60), nil
	}
	name := id.Name()
	if name == "" {
		return nil, fmt.Errorf("unknown time zone id %d", uint16(id))
	}
	if id == GMTZoneID {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// LookupTimeZoneID returns the region id registered for |name|.
func LookupTimeZoneID(name string) (TimeZoneID, bool) {
	zoneIDsOnce.Do(func() {
		zoneIDs = make(map[string]TimeZoneID, len(regionZoneNames))
		for i, n := range regionZoneNames {
			zoneIDs[n] = GMTZoneID - TimeZoneID(i)
		}
	})
	id, ok := zoneIDs[name]
	return id, ok
}

// OffsetZoneID returns the id encoding a fixed offset of |minutes|.
func OffsetZoneID(minutes int) (TimeZoneID, bool) {
	if minutes < -offsetZoneBias || minutes > offsetZoneBias {
		return 0, false
	}
	return TimeZoneID(minutes + offsetZoneBias), true
}

// ZoneIDForLocation maps |loc| to a server id. UTC maps to GMT; locations
// unknown to the registry map to their current fixed offset at |at|.
func ZoneIDForLocation(loc *time.Location, at time.Time) TimeZoneID {
	if loc == nil || loc == time.UTC {
		return GMTZoneID
	}
	if id, ok := LookupTimeZoneID(loc.String()); ok {
		return id
	}
	_, secs := at.In(loc).Zone()
	id, _ := OffsetZoneID(secs / 60)
	return id
}
