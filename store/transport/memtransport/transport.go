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

package memtransport

import (
	"encoding/binary"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/dolthub/fbclient/store/status"
	"github.com/dolthub/fbclient/store/transport"
	"github.com/dolthub/fbclient/store/val"
)

// Faults injects failures into a Transport. Counters are per call type and
// count from the moment the faults are installed.
type Faults struct {
	// FailPutAfter fails every PutSegment after this many successful ones.
	// Zero disables the fault.
	FailPutAfter int
	// EmptySegments is the number of zero-length "segment pending" replies
	// each read handle receives before real data.
	EmptySegments int
	FailInfo      bool
	FailClose     bool
	FailOpen      bool
	FailCreate    bool
}

// Stats counts the calls a Transport has served.
type Stats struct {
	Creates     int
	Opens       int
	Closes      int
	Puts        int
	Gets        int
	MaxPutSize  int
	OpenHandles int
}

type openBlob struct {
	id      val.BlobID
	writing bool
	// pending segments of a blob being written
	segments [][]byte
	// read position
	seg, off int
	empties  int
}

// Transport provides an in memory implementation of the transport.Transport
// interface. Blob segment boundaries are preserved as written, and created
// blobs become visible to OpenBlob once closed.
type Transport struct {
	name   string
	mutex  sync.Mutex
	blobs  map[val.BlobID][][]byte
	open   map[transport.Handle]*openBlob
	nextID val.BlobID
	nextH  transport.Handle
	faults Faults
	stats  Stats
}

var _ transport.Transport = &Transport{}

// New creates an empty Transport.
func New() *Transport {
	return &Transport{
		name:   uuid.New().String(),
		blobs:  make(map[val.BlobID][][]byte),
		open:   make(map[transport.Handle]*openBlob),
		nextID: val.BlobID(1) << 32,
	}
}

// Name uniquely identifies this transport instance.
func (t *Transport) Name() string {
	return t.name
}

// SetFaults replaces the installed faults and resets the put counter.
func (t *Transport) SetFaults(f Faults) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.faults = f
	t.stats.Puts = 0
}

func (t *Transport) Stats() Stats {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	s := t.stats
	s.OpenHandles = len(t.open)
	return s
}

// Segments returns the stored segments of blob |id|.
func (t *Transport) Segments(id val.BlobID) ([][]byte, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	segs, ok := t.blobs[id]
	return segs, ok
}

// Put stores |segments| as a committed blob and returns its id.
func (t *Transport) Put(segments ...[]byte) val.BlobID {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.nextID++
	t.blobs[t.nextID] = segments
	return t.nextID
}

func (t *Transport) checkAttachment(sv *status.Vector, db, tr transport.Handle) status.Code {
	if db == 0 {
		sv.SetError(status.BadDBHandle)
		return status.BadDBHandle
	}
	if tr == 0 {
		sv.SetError(status.BadTransHandle)
		return status.BadTransHandle
	}
	return status.OK
}

func (t *Transport) newHandle(b *openBlob) transport.Handle {
	t.nextH++
	t.open[t.nextH] = b
	return t.nextH
}

func (t *Transport) CreateBlob(sv *status.Vector, db, tr transport.Handle) (transport.Handle, val.BlobID, status.Code) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	sv.Reset()

	if code := t.checkAttachment(sv, db, tr); code != status.OK {
		return 0, 0, code
	}
	if t.faults.FailCreate {
		sv.SetError(status.IOError, "create")
		return 0, 0, status.IOError
	}

	t.stats.Creates++
	t.nextID++
	id := t.nextID
	return t.newHandle(&openBlob{id: id, writing: true}), id, status.OK
}

func (t *Transport) OpenBlob(sv *status.Vector, db, tr transport.Handle, id val.BlobID) (transport.Handle, status.Code) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	sv.Reset()

	if code := t.checkAttachment(sv, db, tr); code != status.OK {
		return 0, code
	}
	if t.faults.FailOpen {
		sv.SetError(status.IOError, "open")
		return 0, status.IOError
	}
	if _, ok := t.blobs[id]; !ok {
		sv.SetError(status.BlobNotFound)
		return 0, status.BlobNotFound
	}

	t.stats.Opens++
	return t.newHandle(&openBlob{id: id, empties: t.faults.EmptySegments}), status.OK
}

func (t *Transport) lookup(sv *status.Vector, h transport.Handle, writing bool) (*openBlob, status.Code) {
	b, ok := t.open[h]
	if !ok || b.writing != writing {
		sv.SetError(status.BadSegmentHandle)
		return nil, status.BadSegmentHandle
	}
	return b, status.OK
}

func (t *Transport) GetSegment(sv *status.Vector, h transport.Handle, dst []byte) (int, status.Code) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	sv.Reset()

	b, code := t.lookup(sv, h, false)
	if code != status.OK {
		return 0, code
	}
	t.stats.Gets++

	if b.empties > 0 {
		b.empties--
		sv.SetError(status.Segment)
		return 0, status.Segment
	}

	segs := t.blobs[b.id]
	if b.seg >= len(segs) {
		sv.SetError(status.SegmentEOF)
		return 0, status.SegmentEOF
	}

	rem := segs[b.seg][b.off:]
	n := copy(dst, rem)
	if n < len(rem) {
		b.off += n
		sv.SetError(status.Segment)
		return n, status.Segment
	}
	b.seg++
	b.off = 0
	return n, status.OK
}

func (t *Transport) PutSegment(sv *status.Vector, h transport.Handle, src []byte) status.Code {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	sv.Reset()

	b, code := t.lookup(sv, h, true)
	if code != status.OK {
		return code
	}
	if t.faults.FailPutAfter > 0 && t.stats.Puts >= t.faults.FailPutAfter {
		sv.SetError(status.IOError, "write")
		return status.IOError
	}

	t.stats.Puts++
	if len(src) > t.stats.MaxPutSize {
		t.stats.MaxPutSize = len(src)
	}
	b.segments = append(b.segments, append([]byte(nil), src...))
	return status.OK
}

func (t *Transport) BlobInfo(sv *status.Vector, h transport.Handle, items []byte, result []byte) status.Code {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	sv.Reset()

	b, ok := t.open[h]
	if !ok {
		sv.SetError(status.BadSegmentHandle)
		return status.BadSegmentHandle
	}
	if t.faults.FailInfo {
		sv.SetError(status.IOError, "info")
		return status.IOError
	}

	segs := b.segments
	if !b.writing {
		segs = t.blobs[b.id]
	}

	var out []byte
	for _, item := range items {
		switch item {
		case transport.InfoTotalLength:
			total := 0
			for _, s := range segs {
				total += len(s)
			}
			out = transport.AppendInfoItem(out, item, binary.LittleEndian.AppendUint32(nil, uint32(total)))
		case transport.InfoEnd:
		default:
			sv.SetError(status.BadBlobInfo, strconv.Itoa(int(item)))
			return status.BadBlobInfo
		}
	}
	out = append(out, transport.InfoEnd)

	if len(out) > len(result) {
		if len(result) > 0 {
			result[0] = transport.InfoTruncated
		}
		return status.OK
	}
	copy(result, out)
	return status.OK
}

func (t *Transport) CloseBlob(sv *status.Vector, h transport.Handle) status.Code {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	sv.Reset()

	b, ok := t.open[h]
	if !ok {
		sv.SetError(status.BadSegmentHandle)
		return status.BadSegmentHandle
	}
	delete(t.open, h)
	t.stats.Closes++

	if t.faults.FailClose {
		sv.SetError(status.IOError, "close")
		return status.IOError
	}
	if b.writing {
		t.blobs[b.id] = b.segments
	}
	return status.OK
}

func (t *Transport) Interpret(dst []byte, c *status.Cursor) int {
	return status.DefaultMessages.Interpret(dst, c)
}
