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
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/fbclient/libraries/utils/config"
	"github.com/dolthub/fbclient/store/rowbuf"
	"github.com/dolthub/fbclient/store/status"
	"github.com/dolthub/fbclient/store/transport"
	"github.com/dolthub/fbclient/store/transport/memtransport"
	"github.com/dolthub/fbclient/store/val"
)

const (
	testDB = 1
	testTr = 1
)

func testData(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*31 + 7)
	}
	return b
}

func newTestStreamer(opts ...Option) (*Streamer, *memtransport.Transport) {
	mt := memtransport.New()
	return NewStreamer(mt, testDB, testTr, opts...), mt
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()
	data := testData(100000)

	id, err := s.WriteAll(ctx, data)
	require.NoError(t, err)
	require.NotZero(t, id)

	segs, ok := mt.Segments(id)
	require.True(t, ok)
	assert.Len(t, segs, 4)
	assert.LessOrEqual(t, mt.Stats().MaxPutSize, val.MaxSegmentSize)

	err = s.WithOpen(ctx, id, func(b *Blob) error {
		n, err := b.TotalLength()
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), n)

		read, err := io.ReadAll(b)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, read))
		return nil
	})
	require.NoError(t, err)

	read, err := s.ReadAll(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, read)
	assert.Equal(t, 0, mt.Stats().OpenHandles)
}

func TestSmallSegments(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer(WithSegmentSize(1000))
	data := testData(2500)

	id, err := s.WriteAll(ctx, data)
	require.NoError(t, err)

	segs, _ := mt.Segments(id)
	require.Len(t, segs, 3)
	assert.Len(t, segs[0], 1000)
	assert.Len(t, segs[1], 1000)
	assert.Len(t, segs[2], 500)

	// reads smaller than a stored segment resume mid segment
	err = s.WithOpen(ctx, id, func(b *Blob) error {
		var out []byte
		buf := make([]byte, 700)
		for {
			n, err := b.Read(buf)
			out = append(out, buf[:n]...)
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
		}
		assert.Equal(t, data, out)

		n, err := b.Read(buf)
		assert.Equal(t, 0, n)
		assert.Equal(t, io.EOF, err)
		return nil
	})
	require.NoError(t, err)
}

func TestSegmentSizeClamped(t *testing.T) {
	s, _ := newTestStreamer(WithSegmentSize(1 << 20))
	assert.Equal(t, val.MaxSegmentSize, s.SegmentSize())

	s, _ = newTestStreamer(WithSegmentSize(0))
	assert.Equal(t, 1, s.SegmentSize())
}

func TestEmptyBlob(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()

	id, err := s.WriteAll(ctx, nil)
	require.NoError(t, err)

	data, err := s.ReadAll(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, 0, mt.Stats().Puts)
}

func TestPutFailureStillCloses(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()
	mt.SetFaults(memtransport.Faults{FailPutAfter: 1})

	id, err := s.WriteAll(ctx, testData(100000))
	require.Error(t, err)
	assert.True(t, status.IsCode(err, status.IOError))
	assert.Zero(t, id)

	st := mt.Stats()
	assert.Equal(t, 1, st.Puts)
	assert.Equal(t, 1, st.Closes)
	assert.Equal(t, 0, st.OpenHandles)
}

func TestPutFailureWinsOverCloseFailure(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()
	mt.SetFaults(memtransport.Faults{FailPutAfter: 1, FailClose: true})

	_, err := s.WriteAll(ctx, testData(40000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write")
	assert.Equal(t, 0, mt.Stats().OpenHandles)
}

func TestCloseFailure(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()
	mt.SetFaults(memtransport.Faults{FailClose: true})

	id, err := s.WriteAll(ctx, testData(10))
	require.Error(t, err)
	assert.True(t, status.IsCode(err, status.IOError))
	assert.Zero(t, id)
	assert.Equal(t, 0, mt.Stats().OpenHandles)
}

func TestEmptySegmentRetries(t *testing.T) {
	ctx := context.Background()
	data := testData(5000)

	t.Run("recovers", func(t *testing.T) {
		m := NewMetrics("test", nil)
		s, mt := newTestStreamer(WithMetrics(m))
		id := mt.Put(data[:3000], data[3000:])
		mt.SetFaults(memtransport.Faults{EmptySegments: 3})

		read, err := s.ReadAll(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, data, read)
		assert.Equal(t, float64(3), testutil.ToFloat64(m.EmptyReads))
	})

	t.Run("bounded", func(t *testing.T) {
		s, mt := newTestStreamer(WithEmptySegmentRetries(2))
		id := mt.Put(data)
		mt.SetFaults(memtransport.Faults{EmptySegments: 10})

		_, err := s.ReadAll(ctx, id)
		require.Error(t, err)
		assert.True(t, status.IsCode(err, status.Segment))
		assert.Equal(t, 0, mt.Stats().OpenHandles)
	})

	t.Run("custom backoff", func(t *testing.T) {
		calls := 0
		s, mt := newTestStreamer(
			WithEmptySegmentRetries(5),
			WithEmptySegmentBackOff(func() backoff.BackOff {
				calls++
				return &backoff.ZeroBackOff{}
			}),
		)
		id := mt.Put(data)
		mt.SetFaults(memtransport.Faults{EmptySegments: 5})

		read, err := s.ReadAll(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, data, read)
		assert.Equal(t, 1, calls)
	})
}

// warningTransport answers every segment read with a warning and no data.
type warningTransport struct {
	*memtransport.Transport
	reads int
}

const segmentWarning = status.Code(0x40000001)

func (w *warningTransport) GetSegment(*status.Vector, transport.Handle, []byte) (int, status.Code) {
	w.reads++
	return 0, segmentWarning
}

func TestWarningWithoutDataIsBounded(t *testing.T) {
	ctx := context.Background()
	wt := &warningTransport{Transport: memtransport.New()}
	m := NewMetrics("test", nil)
	s := NewStreamer(wt, testDB, testTr, WithEmptySegmentRetries(3), WithMetrics(m))
	id := wt.Put(testData(100))

	_, err := s.ReadAll(ctx, id)
	require.Error(t, err)
	assert.True(t, status.IsCode(err, segmentWarning))
	assert.Equal(t, 4, wt.reads)
	assert.Equal(t, float64(4), testutil.ToFloat64(m.EmptyReads))
	assert.Equal(t, 0, wt.Stats().OpenHandles)
}

func TestInfoFailure(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()
	id := mt.Put(testData(100))
	mt.SetFaults(memtransport.Faults{FailInfo: true})

	_, err := s.ReadAll(ctx, id)
	require.Error(t, err)
	assert.True(t, status.IsCode(err, status.IOError))
	assert.Equal(t, 0, mt.Stats().OpenHandles)
}

func TestOpenFailures(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()

	_, err := s.Open(ctx, 12345)
	assert.True(t, status.IsCode(err, status.BlobNotFound))

	mt.SetFaults(memtransport.Faults{FailOpen: true, FailCreate: true})
	id := mt.Put([]byte("x"))
	_, err = s.Open(ctx, id)
	assert.True(t, status.IsCode(err, status.IOError))
	_, err = s.Create(ctx)
	assert.True(t, status.IsCode(err, status.IOError))

	detached := NewStreamer(mt, 0, testTr)
	_, err = detached.Create(ctx)
	assert.True(t, status.IsCode(err, status.BadDBHandle))

	noTx := NewStreamer(mt, testDB, 0)
	_, err = noTx.Open(ctx, id)
	assert.True(t, status.IsCode(err, status.BadTransHandle))

	assert.Equal(t, 0, mt.Stats().OpenHandles)
}

func TestBlobModesAndClose(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()

	w, err := s.Create(ctx)
	require.NoError(t, err)
	_, err = w.Read(make([]byte, 4))
	assert.Error(t, err)

	// not visible until closed
	_, err = s.Open(ctx, w.ID())
	assert.True(t, status.IsCode(err, status.BlobNotFound))

	_, err = w.Write([]byte("abcd"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("more"))
	assert.True(t, ErrClosed.Is(err))

	r, err := s.Open(ctx, w.ID())
	require.NoError(t, err)
	_, err = r.Write([]byte("x"))
	assert.Error(t, err)
	require.NoError(t, r.Close())
	_, err = r.Read(make([]byte, 4))
	assert.True(t, ErrClosed.Is(err))
	_, err = r.TotalLength()
	assert.True(t, ErrClosed.Is(err))

	st := mt.Stats()
	assert.Equal(t, 2, st.Closes)
	assert.Equal(t, 0, st.OpenHandles)
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics("test", prometheus.Labels{"db": "employee"})
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	s, mt := newTestStreamer(WithMetrics(m))
	id, err := s.WriteAll(ctx, testData(100000))
	require.NoError(t, err)
	_, err = s.ReadAll(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, float64(4), testutil.ToFloat64(m.Segments.WithLabelValues(opWrite)))
	assert.Equal(t, float64(100000), testutil.ToFloat64(m.Bytes.WithLabelValues(opWrite)))
	assert.Equal(t, float64(100000), testutil.ToFloat64(m.Bytes.WithLabelValues(opRead)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.OpenHandles))

	mt.SetFaults(memtransport.Faults{FailPutAfter: 1})
	_, err = s.WriteAll(ctx, testData(40000))
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Errors.WithLabelValues(opWrite)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.OpenHandles))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Blob.SegmentSize = 4096
	cfg.Blob.MaxEmptySegmentRetries = 1

	s, mt := newTestStreamer(OptionsFromConfig(cfg)...)
	assert.Equal(t, 4096, s.SegmentSize())

	id := mt.Put([]byte("abc"))
	mt.SetFaults(memtransport.Faults{EmptySegments: 2})
	_, err := s.ReadAll(context.Background(), id)
	assert.True(t, status.IsCode(err, status.Segment))
}

func TestRowSetWithStreamer(t *testing.T) {
	ctx := context.Background()
	s, mt := newTestStreamer()

	rs, err := rowbuf.NewRowSet(
		rowbuf.ColumnDescriptor{Type: val.Integer, Name: "EMP_NO"},
		rowbuf.ColumnDescriptor{Type: val.VaryingText, Length: 20, Subtype: val.UTF8Subtype, Nullable: true, Name: "FIRST_NAME"},
		rowbuf.ColumnDescriptor{Type: val.Blob, Subtype: val.TextBlobSubtype, Nullable: true, Name: "NOTES"},
	)
	require.NoError(t, err)
	defer rs.Close()
	assert.Equal(t, 39, rs.Size())

	notes := string(bytes.Repeat([]byte("segment "), 10000))
	require.NoError(t, rs.SetInt32(0, 42))
	require.NoError(t, rs.SetString(ctx, s, 1, "Ana"))
	require.NoError(t, rs.SetString(ctx, s, 2, notes))

	n, err := rs.GetInt32(0)
	require.NoError(t, err)
	assert.Equal(t, int32(42), n)
	name, err := rs.GetString(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", name)
	got, err := rs.GetString(ctx, s, 2)
	require.NoError(t, err)
	assert.Equal(t, notes, got)

	id, err := rs.GetBlobID(2)
	require.NoError(t, err)
	segs, ok := mt.Segments(id)
	require.True(t, ok)
	assert.Len(t, segs, 3)

	require.NoError(t, rs.SetString(ctx, s, 1, "Beth"))
	n, err = rs.GetInt32(0)
	require.NoError(t, err)
	assert.Equal(t, int32(42), n)
	again, err := rs.GetBlobID(2)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	assert.Equal(t, 0, mt.Stats().OpenHandles)
}
