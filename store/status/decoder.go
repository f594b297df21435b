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

package status

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MessageBufferSize bounds the decoded text of a single status vector.
const MessageBufferSize = 1024

// Interpreter renders the next message of a status vector into |dst|,
// returning the number of bytes written. It returns 0 once |c| is exhausted.
type Interpreter interface {
	Interpret(dst []byte, c *Cursor) int
}

// TransportError is a protocol call that completed with an error-class
// status vector.
type TransportError struct {
	Code     Code
	SQLState string
	Message  string
}

func (e *TransportError) Error() string {
	return e.Message
}

// IsCode reports whether |err| wraps a TransportError carrying |code|.
func IsCode(err error, code Code) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Code == code
}

// Message drains every message in |v| through |interp| into one string,
// separating fragments with newlines.
func Message(v *Vector, interp Interpreter) string {
	buf := make([]byte, MessageBufferSize)
	c := NewCursor(v)

	total := interp.Interpret(buf, c)
	n := total
	for n > 0 && total < len(buf)-1 {
		buf[total] = '\n'
		n = interp.Interpret(buf[total+1:], c)
		if n > 0 {
			total += n + 1
		}
	}
	return string(buf[:total])
}

// Decode returns the diagnostic text of |v| if |code| is an error-class code.
// Warnings and informational codes return false.
func Decode(code Code, v *Vector, interp Interpreter) (string, bool) {
	if code == OK || Class(code) != ClassError {
		return "", false
	}
	return Message(v, interp), true
}

// Check converts the outcome of a protocol call into an error. Only
// error-class codes produce one.
func Check(code Code, v *Vector, interp Interpreter) error {
	msg, isErr := Decode(code, v, interp)
	if !isErr {
		return nil
	}
	if msg == "" {
		msg = fmt.Sprintf("protocol error %d", int64(code))
	}
	return &TransportError{Code: code, SQLState: v.SQLState(), Message: msg}
}

// Messages is an Interpreter over a fixed table of message templates. Templates
// reference arguments as @1, @2, ...
type Messages map[Code]string

var _ Interpreter = Messages(nil)

// DefaultMessages covers the codes blob streaming can produce.
var DefaultMessages = Messages{
	Segment:          "segment buffer length shorter than expected",
	SegmentEOF:       "attempted retrieval of more segments than exist",
	BadSegmentHandle: "invalid BLOB handle",
	BlobNotFound:     "BLOB not found",
	BadBlobInfo:      "invalid BLOB info request @1",
	BadDBHandle:      "invalid database handle (no active connection)",
	BadTransHandle:   "invalid transaction handle (expecting explicit transaction start)",
	IOError:          "I/O error during \"@1\" operation",
}

func (m Messages) Interpret(dst []byte, c *Cursor) int {
	head, args, ok := c.Next()
	if !ok {
		return 0
	}

	var text string
	if head.Tag == TagInterpreted {
		text = head.Text
	} else if tmpl, ok := m[head.Code]; ok {
		text = tmpl
		for i := len(args); i > 0; i-- {
			text = strings.ReplaceAll(text, "@"+strconv.Itoa(i), args[i-1].Arg())
		}
	} else {
		text = "unknown status code " + strconv.FormatInt(int64(head.Code), 10)
		for _, a := range args {
			text += " " + a.Arg()
		}
	}
	return copy(dst, text)
}
