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

package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalLength(t *testing.T) {
	buf := AppendInfoItem(nil, InfoTotalLength, []byte{0xa0, 0x86, 0x01, 0x00})
	buf = append(buf, InfoEnd)
	assert.Equal(t, []byte{6, 4, 0, 0xa0, 0x86, 0x01, 0x00, 1}, buf)

	n, ok := TotalLength(buf)
	assert.True(t, ok)
	assert.Equal(t, int64(100000), n)

	t.Run("truncated", func(t *testing.T) {
		_, ok := TotalLength([]byte{InfoTruncated})
		assert.False(t, ok)
		_, ok = TotalLength(buf[:5])
		assert.False(t, ok)
	})
	t.Run("missing item", func(t *testing.T) {
		_, ok := TotalLength([]byte{InfoEnd})
		assert.False(t, ok)
	})
	t.Run("unterminated", func(t *testing.T) {
		_, ok := TotalLength(buf[:7])
		assert.False(t, ok)
	})
}
