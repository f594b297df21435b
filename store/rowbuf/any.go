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
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dolthub/fbclient/store/val"
)

// GetValue returns column |i| as the Go value matching its kind, or nil
// if the column is null. Scaled integral columns return decimal.Decimal.
func (r *RowSet) GetValue(ctx context.Context, bio BlobIO, i int) (any, error) {
	c, err := r.column(i)
	if err != nil {
		return nil, err
	}
	if c.isNull() {
		return nil, nil
	}

	kind := c.Kind()
	switch kind {
	case val.ShortKind, val.IntKind, val.LongKind, val.Int128Kind:
		if c.Scale != 0 {
			return r.GetDecimal(i)
		}
	}

	switch kind {
	case val.ShortKind:
		return r.GetInt16(i)
	case val.IntKind:
		return r.GetInt32(i)
	case val.LongKind:
		return r.GetInt64(i)
	case val.Int128Kind:
		return r.GetBigInt(i)
	case val.FloatKind:
		return r.GetFloat32(i)
	case val.DoubleKind:
		return r.GetFloat64(i)
	case val.BooleanKind:
		return r.GetBool(i)
	case val.StringKind, val.BlobTextKind:
		return r.GetString(ctx, bio, i)
	case val.ByteArrayKind, val.BlobBinaryKind:
		return r.GetBytes(ctx, bio, i)
	case val.DateKind:
		return r.GetDate(i)
	case val.TimeKind, val.TimeTzKind:
		return r.GetTime(i)
	case val.DatetimeKind, val.DatetimeTzKind:
		return r.GetTimestamp(i)
	default:
		return nil, ErrDataConversion.New(i)
	}
}

// SetValue stores |v| through the accessor matching its Go type. A nil
// value, or a nil *big.Int, sets the column to null. A plain int goes
// through the narrowest integral accessor that holds it.
func (r *RowSet) SetValue(ctx context.Context, bio BlobIO, i int, v any) error {
	switch v := v.(type) {
	case nil:
		return r.SetNull(i)
	case bool:
		return r.SetBool(i, v)
	case int8:
		return r.SetInt16(i, int16(v))
	case int16:
		return r.SetInt16(i, v)
	case int32:
		return r.SetInt32(i, v)
	case int64:
		return r.SetInt64(i, v)
	case int:
		switch {
		case v >= math.MinInt16 && v <= math.MaxInt16:
			return r.SetInt16(i, int16(v))
		case v >= math.MinInt32 && v <= math.MaxInt32:
			return r.SetInt32(i, int32(v))
		}
		return r.SetInt64(i, int64(v))
	case float32:
		return r.SetFloat32(i, v)
	case float64:
		return r.SetFloat64(i, v)
	case string:
		return r.SetString(ctx, bio, i, v)
	case []byte:
		return r.SetBytes(ctx, bio, i, v)
	case val.Int128:
		return r.SetInt128(i, v)
	case *big.Int:
		if v == nil {
			return r.SetNull(i)
		}
		return r.SetBigInt(i, v)
	case decimal.Decimal:
		return r.SetDecimal(i, v)
	case val.BlobID:
		return r.SetBlobID(i, v)
	case time.Duration:
		return r.SetTime(i, v)
	case time.Time:
		c, err := r.column(i)
		if err != nil {
			return err
		}
		if c.Type == val.Date {
			return r.SetDate(i, v)
		}
		return r.SetTimestamp(i, v)
	default:
		if _, err := r.column(i); err != nil {
			return err
		}
		return ErrDataConversion.Wrap(fmt.Errorf("unhandled value type %T", v), i)
	}
}
