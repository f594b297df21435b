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
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dolthub/fbclient/store/val"
)

// BlobIO moves whole blob values for BLOB columns. It is implemented by the
// blob streamer, bound to a database and transaction.
type BlobIO interface {
	ReadBlob(ctx context.Context, id val.BlobID) ([]byte, error)
	WriteBlob(ctx context.Context, data []byte) (val.BlobID, error)
}

// charCapacity is the number of characters a UTF-8 column of |length|
// bytes holds.
func charCapacity(length int) int {
	return length / val.MaxUTF8CharSize
}

// utf8Prefix returns the longest prefix of |b| holding at most |chars|
// characters, stopping at the first zero byte. Multi-byte sequences are
// never split.
func utf8Prefix(b []byte, chars int) []byte {
	n := 0
	for i := 0; i < len(b); {
		if b[i] == 0 || n == chars {
			return b[:i]
		}
		_, sz := utf8.DecodeRune(b[i:])
		i += sz
		n++
	}
	return b
}

func (c *column) varying() ([]byte, bool) {
	n := int(val.ReadUint16(c.data[:val.VaryingPrefixSize]))
	if n > c.Length {
		return nil, false
	}
	start := int(val.VaryingPrefixSize)
	return c.data[start : start+n], true
}

func (c *column) setVarying(b []byte) {
	start := int(val.VaryingPrefixSize)
	copy(c.data[start:], b)
	val.WriteUint16(c.data[:start], uint16(len(b)))
}

// GetString reads a UTF-8 text column or a text blob. |bio| is only
// consulted for BLOB columns. Fixed width values are returned without their
// space padding.
func (r *RowSet) GetString(ctx context.Context, bio BlobIO, i int) (string, error) {
	c, err := r.getter(i, StringAccessor)
	if err != nil {
		return "", err
	}

	switch c.Type {
	case val.VaryingText:
		if c.Subtype != val.UTF8Subtype {
			return "", ErrDataConversion.New(i)
		}
		b, ok := c.varying()
		if !ok || !utf8.Valid(b) {
			return "", ErrDataConversion.New(i)
		}
		return string(b), nil

	case val.FixedText:
		if c.Subtype != val.UTF8Subtype {
			return "", ErrDataConversion.New(i)
		}
		b := utf8Prefix(c.data[:c.Length], charCapacity(c.Length))
		if !utf8.Valid(b) {
			return "", ErrDataConversion.New(i)
		}
		return strings.TrimRight(string(b), " "), nil

	default:
		if c.Subtype != val.TextBlobSubtype {
			return "", ErrDataConversion.New(i)
		}
		if bio == nil {
			return "", ErrInvalidHandle.New()
		}
		b, err := bio.ReadBlob(ctx, val.BlobID(val.ReadUint64(c.fixed())))
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", ErrDataConversion.New(i)
		}
		return string(b), nil
	}
}

// SetString writes a UTF-8 text column or creates a text blob and stores
// its id. A string longer than the column's character capacity is
// rejected with ErrStringTruncation.
func (r *RowSet) SetString(ctx context.Context, bio BlobIO, i int, s string) error {
	c, err := r.setter(i, StringAccessor)
	if err != nil {
		return err
	}

	switch c.Type {
	case val.VaryingText, val.FixedText:
		if c.Subtype != val.UTF8Subtype || !utf8.ValidString(s) {
			return ErrDataConversion.New(i)
		}
		if utf8.RuneCountInString(s) > charCapacity(c.Length) || len(s) > c.Length {
			return ErrStringTruncation.New(i)
		}
		if c.Type == val.VaryingText {
			c.setVarying([]byte(s))
		} else {
			n := copy(c.data[:c.Length], s)
			fill(c.data[n:c.Length], ' ')
		}

	default:
		if c.Subtype != val.TextBlobSubtype {
			return ErrDataConversion.New(i)
		}
		if err := r.writeBlob(ctx, bio, c, []byte(s)); err != nil {
			return err
		}
	}

	c.written()
	return nil
}

// GetBytes returns the raw bytes of a text column, without character set
// handling, or the contents of a blob. Fixed width values are returned in
// full, padding included.
func (r *RowSet) GetBytes(ctx context.Context, bio BlobIO, i int) ([]byte, error) {
	c, err := r.getter(i, BytesAccessor)
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case val.VaryingText:
		b, ok := c.varying()
		if !ok {
			return nil, ErrDataConversion.New(i)
		}
		return append([]byte(nil), b...), nil

	case val.FixedText:
		return append([]byte(nil), c.data[:c.Length]...), nil

	default:
		if bio == nil {
			return nil, ErrInvalidHandle.New()
		}
		return bio.ReadBlob(ctx, val.BlobID(val.ReadUint64(c.fixed())))
	}
}

// SetBytes stores raw bytes. Fixed width columns are padded with spaces,
// or with zeros for binary columns.
func (r *RowSet) SetBytes(ctx context.Context, bio BlobIO, i int, b []byte) error {
	c, err := r.setter(i, BytesAccessor)
	if err != nil {
		return err
	}

	switch c.Type {
	case val.VaryingText:
		if len(b) > c.Length {
			return ErrStringTruncation.New(i)
		}
		c.setVarying(b)

	case val.FixedText:
		if len(b) > c.Length {
			return ErrStringTruncation.New(i)
		}
		pad := byte(0)
		if c.Subtype > val.OctetsSubtype {
			pad = ' '
		}
		n := copy(c.data[:c.Length], b)
		fill(c.data[n:c.Length], pad)

	default:
		if err := r.writeBlob(ctx, bio, c, b); err != nil {
			return err
		}
	}

	c.written()
	return nil
}

func (r *RowSet) writeBlob(ctx context.Context, bio BlobIO, c *column, b []byte) error {
	if bio == nil {
		return ErrInvalidHandle.New()
	}
	id, err := bio.WriteBlob(ctx, b)
	if err != nil {
		return err
	}
	val.WriteUint64(c.fixed(), uint64(id))
	return nil
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
