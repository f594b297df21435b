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
	"math/big"
)

// Int128 is a two's complement 128-bit integer as laid out on the wire:
// the low word first, then the signed high word.
type Int128 struct {
	Lo uint64
	Hi int64
}

var (
	twoTo64      = new(big.Int).Lsh(big.NewInt(1), 64)
	maxInt128Big = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128Big = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Int128FromInt64 sign extends |v|.
func Int128FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Lo: uint64(v), Hi: hi}
}

// Int64 narrows |i| to an int64, reporting false if the value does not fit.
func (i Int128) Int64() (int64, bool) {
	v := int64(i.Lo)
	if (v < 0 && i.Hi == -1) || (v >= 0 && i.Hi == 0) {
		return v, true
	}
	return 0, false
}

// Big returns |i| as a big.Int.
func (i Int128) Big() *big.Int {
	b := new(big.Int).SetInt64(i.Hi)
	b.Mul(b, twoTo64)
	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

// Int128FromBig converts |b|, reporting false if it is outside the 128-bit range.
func Int128FromBig(b *big.Int) (Int128, bool) {
	if b.Cmp(maxInt128Big) > 0 || b.Cmp(minInt128Big) < 0 {
		return Int128{}, false
	}
	hi, lo := new(big.Int).DivMod(b, twoTo64, new(big.Int))
	return Int128{Lo: lo.Uint64(), Hi: hi.Int64()}, true
}

func (i Int128) String() string {
	return i.Big().String()
}
