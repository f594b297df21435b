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

// Package status models the protocol's status vector: the coded result every
// transport call fills in, and the decoding of error-class vectors into
// caller visible errors.
package status

import (
	"strconv"
)

// Code is a status code returned by a protocol call. Zero is success.
type Code int64

const (
	OK Code = 0

	// Segment reports that a blob segment was delivered partially and more
	// data is pending.
	Segment Code = 335544366
	// SegmentEOF reports that a blob has no more segments.
	SegmentEOF Code = 335544367
	// BadSegmentHandle is returned for operations on a closed or unknown blob.
	BadSegmentHandle Code = 335544328
	// BlobNotFound is returned when a blob id does not exist.
	BlobNotFound Code = 335544329
	// BadBlobInfo is returned for malformed blob info requests.
	BadBlobInfo Code = 335544330
	// BadDBHandle is returned when a call names no attached database.
	BadDBHandle Code = 335544324
	// BadTransHandle is returned when a call names no active transaction.
	BadTransHandle Code = 335544332
	// IOError is a generic I/O failure reported by the server.
	IOError Code = 335544344
)

// Severity is a status class.
type Severity uint8

const (
	ClassError Severity = iota
	ClassWarning
	ClassInfo
)

const classMask = 0xF0000000

// Class extracts the class bits of |code|.
func Class(code Code) Severity {
	return Severity((uint64(code) & classMask) >> 30)
}

// Tag identifies the kind of argument in a status vector cluster.
type Tag uint8

const (
	TagEnd         Tag = 0
	TagGDS         Tag = 1
	TagString      Tag = 2
	TagCString     Tag = 3
	TagNumber      Tag = 4
	TagInterpreted Tag = 5
	TagWarning     Tag = 18
	TagSQLState    Tag = 19
)

// Cluster is one tagged entry of a status vector.
type Cluster struct {
	Tag   Tag
	Code  Code
	Text  string
	Value int64
}

// Vector is a status vector. It is reused across calls: transports Reset it
// and append clusters; a vector without clusters means success.
type Vector struct {
	clusters []Cluster
}

// NewVector returns a success vector.
func NewVector() *Vector {
	return &Vector{}
}

func (v *Vector) Reset() {
	v.clusters = v.clusters[:0]
}

// Set replaces the contents of |v| with |clusters|.
func (v *Vector) Set(clusters ...Cluster) {
	v.clusters = append(v.clusters[:0], clusters...)
}

// SetError replaces the contents of |v| with a single error |code| and its
// message arguments.
func (v *Vector) SetError(code Code, args ...string) {
	v.Reset()
	v.clusters = append(v.clusters, Cluster{Tag: TagGDS, Code: code})
	for _, a := range args {
		v.clusters = append(v.clusters, Cluster{Tag: TagString, Text: a})
	}
}

// Code returns the leading code of |v|.
func (v *Vector) Code() Code {
	if v == nil || len(v.clusters) == 0 {
		return OK
	}
	return v.clusters[0].Code
}

// SQLState returns the SQLSTATE carried by |v|, if any.
func (v *Vector) SQLState() string {
	if v == nil {
		return ""
	}
	for _, c := range v.clusters {
		if c.Tag == TagSQLState {
			return c.Text
		}
	}
	return ""
}

func (v *Vector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.clusters)
}

// Cursor walks a Vector one message at a time. Each message is a GDS or
// warning code followed by its arguments.
type Cursor struct {
	v   *Vector
	pos int
}

func NewCursor(v *Vector) *Cursor {
	return &Cursor{v: v}
}

// Next returns the next code together with its arguments, and false once
// the vector is exhausted.
func (c *Cursor) Next() (Cluster, []Cluster, bool) {
	for c.v != nil && c.pos < len(c.v.clusters) {
		head := c.v.clusters[c.pos]
		c.pos++
		if head.Tag != TagGDS && head.Tag != TagWarning && head.Tag != TagInterpreted {
			continue
		}
		start := c.pos
		for c.pos < len(c.v.clusters) {
			switch c.v.clusters[c.pos].Tag {
			case TagString, TagCString, TagNumber:
				c.pos++
				continue
			}
			break
		}
		return head, c.v.clusters[start:c.pos], true
	}
	return Cluster{}, nil, false
}

// Arg renders a message argument for substitution.
func (c Cluster) Arg() string {
	if c.Tag == TagNumber {
		return strconv.FormatInt(c.Value, 10)
	}
	return c.Text
}
