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

package blob

import (
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/fbclient/store/status"
	"github.com/dolthub/fbclient/store/transport"
	"github.com/dolthub/fbclient/store/val"
)

var (
	ErrClosed        = goerrors.NewKind("blob %s is closed")
	ErrLengthUnknown = goerrors.NewKind("blob %s: total length unavailable")
	ErrShortBlob     = goerrors.NewKind("blob %s: expected %d bytes, read %d")
	errWriteOnlyRead = goerrors.NewKind("blob %s was created for writing and cannot be read")
	errReadOnlyWrite = goerrors.NewKind("blob %s was opened for reading and cannot be written")
)

const infoResultSize = 32

// Blob is one open blob handle. It implements io.ReadWriteCloser, though a
// given Blob is either readable (from Open) or writable (from Create).
type Blob struct {
	s   *Streamer
	h   transport.Handle
	id  val.BlobID
	sv  *status.Vector
	lgr *logrus.Entry

	writing bool
	closed  bool
	eof     bool

	empty    backoff.BackOff
	bytes    int64
	segments int
}

func (s *Streamer) newBlob(h transport.Handle, id val.BlobID, sv *status.Vector, writing bool) *Blob {
	mode := "read"
	if writing {
		mode = "write"
	}
	b := &Blob{
		s:       s,
		h:       h,
		id:      id,
		sv:      sv,
		writing: writing,
		empty:   backoff.WithMaxRetries(s.emptyBackOff(), s.emptyRetries),
		lgr: s.lgr.WithFields(logrus.Fields{
			"blob":     id.String(),
			"mode":     mode,
			"transfer": uuid.NewString(),
		}),
	}
	s.metrics.opened()
	b.lgr.Debug("opened blob")
	return b
}

func (b *Blob) ID() val.BlobID {
	return b.id
}

// Read fills |p| with as many segments as fit, each call to the transport
// asking for at most the streamer's segment size. It returns io.EOF once
// the transport reports the end of the blob and nothing was read.
func (b *Blob) Read(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed.New(b.id)
	}
	if b.writing {
		return 0, errWriteOnlyRead.New(b.id)
	}
	if b.eof {
		return 0, io.EOF
	}

	filled := 0
	for filled < len(p) {
		want := min(len(p)-filled, b.s.segmentSize)
		n, code := b.s.t.GetSegment(b.sv, b.h, p[filled:filled+want])

		switch code {
		case status.OK, status.Segment:
			if n > 0 {
				b.advance(n)
				filled += n
				continue
			}
			if err := b.emptySegment(status.Segment); err != nil {
				return filled, err
			}
		case status.SegmentEOF:
			b.eof = true
			if filled == 0 {
				return 0, io.EOF
			}
			return filled, nil
		default:
			if err := b.s.check(opRead, code, b.sv); err != nil {
				return filled, err
			}
			// a warning that moves no data counts against the empty segment budget
			if n == 0 {
				if err := b.emptySegment(code); err != nil {
					return filled, err
				}
				continue
			}
			b.advance(n)
			filled += n
		}
	}
	return filled, nil
}

func (b *Blob) advance(n int) {
	b.bytes += int64(n)
	b.segments++
	b.s.metrics.segment(opRead, n)
	b.empty.Reset()
}

// emptySegment waits out the next backoff interval after a segment that
// carried no data, or fails once |b.empty| is exhausted.
func (b *Blob) emptySegment(code status.Code) error {
	b.s.metrics.empty()
	d := b.empty.NextBackOff()
	if d == backoff.Stop {
		b.s.metrics.failed(opRead)
		return &status.TransportError{
			Code:    code,
			Message: fmt.Sprintf("blob %s: no data after %d empty segments", b.id, b.s.emptyRetries+1),
		}
	}
	b.lgr.Debugf("empty segment (status %d), retrying in %s", code, d)
	if d > 0 {
		time.Sleep(d)
	}
	return nil
}

func (b *Blob) readFull(p []byte) (int, error) {
	n, err := io.ReadFull(b, p)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, ErrShortBlob.New(b.id, len(p), n)
	}
	return n, err
}

// Write sends |p| in segments of at most the streamer's segment size and
// stops at the first failed segment.
func (b *Blob) Write(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed.New(b.id)
	}
	if !b.writing {
		return 0, errReadOnlyWrite.New(b.id)
	}

	written := 0
	for written < len(p) {
		chunk := min(len(p)-written, b.s.segmentSize)
		code := b.s.t.PutSegment(b.sv, b.h, p[written:written+chunk])
		if err := b.s.check(opWrite, code, b.sv); err != nil {
			return written, err
		}
		written += chunk
		b.bytes += int64(chunk)
		b.segments++
		b.s.metrics.segment(opWrite, chunk)
	}
	return written, nil
}

// TotalLength asks the transport for the blob's length in bytes.
func (b *Blob) TotalLength() (int64, error) {
	if b.closed {
		return 0, ErrClosed.New(b.id)
	}

	result := make([]byte, infoResultSize)
	code := b.s.t.BlobInfo(b.sv, b.h, []byte{transport.InfoTotalLength}, result)
	if code != status.OK {
		if err := b.s.check(opInfo, code, b.sv); err != nil {
			return 0, errors.Wrapf(err, "blob %s: info request failed", b.id)
		}
	}

	n, ok := transport.TotalLength(result)
	if !ok {
		b.s.metrics.failed(opInfo)
		return 0, ErrLengthUnknown.New(b.id)
	}
	return n, nil
}

// Close releases the handle. Closing twice is a no-op. A created blob
// becomes visible to readers once closed.
func (b *Blob) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.s.metrics.closed()

	code := b.s.t.CloseBlob(b.sv, b.h)
	b.lgr.Debugf("closed blob after %s in %d segments", humanize.IBytes(uint64(b.bytes)), b.segments)
	return b.s.check(opClose, code, b.sv)
}
