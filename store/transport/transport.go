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

// Package transport declares the protocol calls the row buffer engine
// depends on. Connection, transaction and statement management live behind
// the same capability in a full client but are not used here.
package transport

import (
	"github.com/dolthub/fbclient/store/status"
	"github.com/dolthub/fbclient/store/val"
)

// Handle is an opaque protocol handle. Zero is never a valid handle.
type Handle uint32

// Blob info items.
const (
	InfoEnd         byte = 1
	InfoTruncated   byte = 2
	InfoError       byte = 3
	InfoTotalLength byte = 6
)

// Transport is the set of blob and status calls a client library exposes.
// Every call reports into |sv| and returns its leading status code.
type Transport interface {
	status.Interpreter

	CreateBlob(sv *status.Vector, db, tr Handle) (Handle, val.BlobID, status.Code)
	OpenBlob(sv *status.Vector, db, tr Handle, id val.BlobID) (Handle, status.Code)
	// GetSegment reads at most len(dst) bytes of the next segment. A
	// status.Segment code means the segment did not fit and more is pending.
	GetSegment(sv *status.Vector, blob Handle, dst []byte) (int, status.Code)
	PutSegment(sv *status.Vector, blob Handle, src []byte) status.Code
	// BlobInfo answers the requested |items| into |result| using the
	// clumplet encoding: item byte, 2-byte little-endian length, value.
	BlobInfo(sv *status.Vector, blob Handle, items []byte, result []byte) status.Code
	CloseBlob(sv *status.Vector, blob Handle) status.Code
}
