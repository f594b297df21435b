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

// Package blob streams large objects through a transport in bounded
// segments. Every handle it opens or creates is closed on every path.
package blob

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dolthub/fbclient/libraries/utils/config"
	"github.com/dolthub/fbclient/store/status"
	"github.com/dolthub/fbclient/store/transport"
	"github.com/dolthub/fbclient/store/val"
)

var tracer = otel.Tracer("github.com/dolthub/fbclient/store/blob")

const defaultEmptySegmentRetries = 16

// Streamer creates and opens blobs within one database and transaction.
// It is as safe for concurrent use as the transport beneath it; the Blobs it
// returns are not.
type Streamer struct {
	t      transport.Transport
	db, tr transport.Handle

	segmentSize  int
	emptyRetries uint64
	emptyBackOff func() backoff.BackOff
	metrics      *Metrics
	lgr          *logrus.Entry
}

type Option func(*Streamer)

// WithSegmentSize caps the bytes moved per protocol call. Values outside
// 1..val.MaxSegmentSize are clamped.
func WithSegmentSize(n int) Option {
	return func(s *Streamer) {
		s.segmentSize = min(max(n, 1), val.MaxSegmentSize)
	}
}

// WithEmptySegmentRetries bounds the zero length "more data pending" or
// warning replies tolerated in a row before a read fails.
func WithEmptySegmentRetries(n int) Option {
	return func(s *Streamer) {
		s.emptyRetries = uint64(max(n, 0))
	}
}

// WithEmptySegmentBackOff sets the delay policy between empty segment
// retries. The default retries immediately.
func WithEmptySegmentBackOff(fn func() backoff.BackOff) Option {
	return func(s *Streamer) {
		s.emptyBackOff = fn
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Streamer) {
		s.metrics = m
	}
}

func WithLogger(lgr *logrus.Entry) Option {
	return func(s *Streamer) {
		s.lgr = lgr
	}
}

// OptionsFromConfig translates the blob section of |cfg| into options.
func OptionsFromConfig(cfg *config.EngineConfig) []Option {
	return []Option{
		WithSegmentSize(cfg.Blob.SegmentSize),
		WithEmptySegmentRetries(cfg.Blob.MaxEmptySegmentRetries),
		WithLogger(logrus.NewEntry(cfg.Logger())),
	}
}

// NewStreamer returns a Streamer for the attachment |db| and transaction |tr|.
func NewStreamer(t transport.Transport, db, tr transport.Handle, opts ...Option) *Streamer {
	s := &Streamer{
		t:            t,
		db:           db,
		tr:           tr,
		segmentSize:  val.MaxSegmentSize,
		emptyRetries: defaultEmptySegmentRetries,
		emptyBackOff: func() backoff.BackOff { return &backoff.ZeroBackOff{} },
		lgr:          logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SegmentSize returns the per call transfer bound.
func (s *Streamer) SegmentSize() int {
	return s.segmentSize
}

// check turns a non-zero outcome into an error. Warnings are logged and
// otherwise ignored.
func (s *Streamer) check(op string, code status.Code, sv *status.Vector) error {
	if code == status.OK {
		return nil
	}
	err := status.Check(code, sv, s.t)
	if err == nil {
		s.lgr.WithField("op", op).Warnf("blob %s: %s", op, status.Message(sv, s.t))
		return nil
	}
	s.metrics.failed(op)
	return err
}

// Create starts a new blob. Its id is assigned immediately but the blob
// only becomes readable once closed.
func (s *Streamer) Create(ctx context.Context) (*Blob, error) {
	sv := status.NewVector()
	h, id, code := s.t.CreateBlob(sv, s.db, s.tr)
	if err := s.check(opCreate, code, sv); err != nil {
		return nil, err
	}
	return s.newBlob(h, id, sv, true), nil
}

// Open opens the blob |id| for reading.
func (s *Streamer) Open(ctx context.Context, id val.BlobID) (*Blob, error) {
	sv := status.NewVector()
	h, code := s.t.OpenBlob(sv, s.db, s.tr, id)
	if err := s.check(opOpen, code, sv); err != nil {
		return nil, err
	}
	return s.newBlob(h, id, sv, false), nil
}

// WithOpen opens blob |id|, calls |fn| and closes the blob whatever |fn|
// returns. An error from |fn| takes precedence over one from closing.
func (s *Streamer) WithOpen(ctx context.Context, id val.BlobID, fn func(*Blob) error) (err error) {
	b, err := s.Open(ctx, id)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := b.Close()
		if err == nil {
			err = closeErr
		} else if closeErr != nil {
			b.lgr.WithError(closeErr).Warn("error closing blob after failed read")
		}
	}()
	return fn(b)
}

// WithCreate creates a blob, calls |fn| to fill it and closes it. The id is
// returned only if both |fn| and the close succeed.
func (s *Streamer) WithCreate(ctx context.Context, fn func(*Blob) error) (id val.BlobID, err error) {
	b, err := s.Create(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		closeErr := b.Close()
		if err == nil {
			err = closeErr
		} else if closeErr != nil {
			b.lgr.WithError(closeErr).Warn("error closing blob after failed write")
		}
		if err != nil {
			id = 0
		}
	}()
	return b.ID(), fn(b)
}

// ReadAll reads the whole of blob |id|, sizing the result from the blob's
// reported total length.
func (s *Streamer) ReadAll(ctx context.Context, id val.BlobID) (data []byte, err error) {
	ctx, span := tracer.Start(ctx, "blob.ReadAll", trace.WithAttributes(attribute.String("blob_id", id.String())))
	defer func() {
		endSpan(span, err)
	}()

	err = s.WithOpen(ctx, id, func(b *Blob) error {
		n, err := b.TotalLength()
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int64("length", n))
		data = make([]byte, n)
		_, err = b.readFull(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteAll stores |data| as a new blob and returns its id.
func (s *Streamer) WriteAll(ctx context.Context, data []byte) (id val.BlobID, err error) {
	ctx, span := tracer.Start(ctx, "blob.WriteAll", trace.WithAttributes(attribute.Int("length", len(data))))
	defer func() {
		endSpan(span, err)
	}()

	return s.WithCreate(ctx, func(b *Blob) error {
		_, err := b.Write(data)
		return err
	})
}

// ReadBlob implements rowbuf.BlobIO.
func (s *Streamer) ReadBlob(ctx context.Context, id val.BlobID) ([]byte, error) {
	return s.ReadAll(ctx, id)
}

// WriteBlob implements rowbuf.BlobIO.
func (s *Streamer) WriteBlob(ctx context.Context, data []byte) (val.BlobID, error) {
	return s.WriteAll(ctx, data)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
