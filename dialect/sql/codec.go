package sql

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mageshb/persistent/value"
)

// Wire formats for temporal values that cross the driver boundary as text.
const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04:05"
)

// A Codec translates between the backend-neutral value.Value type and
// the native representations understood by database/sql drivers.
// Encoding is total; decoding is total as well but may fall back to a
// generic text rendering for native types outside the enumerated set.
// The zero Codec is ready to use.
type Codec struct {
	// OnFallback, if set, is invoked whenever decoding falls back to the
	// generic text rendering of an unrecognized native value. The
	// fallback is a data-fidelity event, not an error: it breaks the
	// round-trip law and callers may want to surface it.
	OnFallback func(native any, rendered string)

	fallbacks atomic.Int64
}

// Fallbacks returns the number of decode operations that took the
// generic text fallback since the codec was created.
func (c *Codec) Fallbacks() int64 { return c.fallbacks.Load() }

// Encode maps a value onto the representation accepted by the driver's
// parameter binding. Null maps to the driver's nil marker. Dates and
// timestamps travel as time.Time; a wall-clock time travels as its
// "15:04:05" rendering, which every supported dialect accepts for TIME
// columns.
func (c *Codec) Encode(v value.Value) any {
	switch v.Type() {
	case value.TypeNull:
		return nil
	case value.TypeText:
		return v.Text()
	case value.TypeBytes:
		return v.Bytes()
	case value.TypeInt64:
		return v.Int64()
	case value.TypeFloat64:
		return v.Float64()
	case value.TypeBool:
		return v.Bool()
	case value.TypeDate:
		return v.Time()
	case value.TypeTimeOfDay:
		return v.Time().Format(timeFormat)
	case value.TypeTimestamp:
		return v.Time()
	default:
		// The value type set is closed; an invalid tag can only come
		// from a corrupted Value.
		return nil
	}
}

// EncodeAll encodes a parameter list in positional order.
func (c *Codec) EncodeAll(vs []value.Value) []any {
	args := make([]any, len(vs))
	for i, v := range vs {
		args[i] = c.Encode(v)
	}
	return args
}

// Decode maps a native result-column value back onto a value.Value
// using no column type information. Use DecodeColumn when the declared
// database type of the column is known; it is required to tell DATE and
// TIME columns apart from plain timestamps and strings.
func (c *Codec) Decode(native any) value.Value {
	return c.DecodeColumn(native, "")
}

// DecodeColumn maps a native result-column value back onto a
// value.Value. dbType is the driver's declared database type name for
// the column ("DATE", "DECIMAL", ...) and may be empty.
//
// Multiple native integer widths and signedness collapse onto Int64 by
// exact-value reinterpretation; this includes int32, which covers Go
// runes, so fixed-width character values surface as their ordinal
// (kept for compatibility with the historical mapping). Exact rationals
// collapse onto Float64 by exact-to-nearest conversion. Anything
// outside the enumerated set decodes to Text using the generic
// rendering of the value and is counted as a fallback.
func (c *Codec) DecodeColumn(native any, dbType string) value.Value {
	dbType = strings.ToUpper(dbType)
	switch n := native.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.Bool(n)
	case int64:
		return c.decodeInt(n, dbType)
	case int:
		return c.decodeInt(int64(n), dbType)
	case int32:
		return c.decodeInt(int64(n), dbType)
	case int16:
		return c.decodeInt(int64(n), dbType)
	case int8:
		return c.decodeInt(int64(n), dbType)
	case uint:
		return c.decodeUint(uint64(n), dbType)
	case uint64:
		return c.decodeUint(n, dbType)
	case uint32:
		return c.decodeInt(int64(n), dbType)
	case uint16:
		return c.decodeInt(int64(n), dbType)
	case uint8:
		return c.decodeInt(int64(n), dbType)
	case float64:
		return value.Float64(n)
	case float32:
		return value.Float64(float64(n))
	case *big.Rat:
		// Exact-to-nearest; Float64 reports exactness, which we discard.
		f, _ := n.Float64()
		return value.Float64(f)
	case time.Time:
		switch dbType {
		case "DATE":
			return value.Date(n)
		case "TIME":
			return value.TimeOfDay(n.Clock())
		default:
			return value.Timestamp(n)
		}
	case string:
		return c.decodeText(native, n, dbType)
	case []byte:
		if v, ok := c.decodeTyped(string(n), dbType); ok {
			return v
		}
		return value.Bytes(n)
	default:
		return c.fallback(native)
	}
}

// decodeInt handles the integer widening path, honoring a declared
// BOOLEAN column type for dialects that store booleans as integers.
func (c *Codec) decodeInt(n int64, dbType string) value.Value {
	if dbType == "BOOLEAN" || dbType == "BOOL" {
		return value.Bool(n != 0)
	}
	return value.Int64(n)
}

// decodeUint reinterprets unsigned integers that fit int64 exactly; an
// unsigned value above the int64 range cannot be represented exactly
// and takes the text fallback.
func (c *Codec) decodeUint(n uint64, dbType string) value.Value {
	if n > math.MaxInt64 {
		return c.fallback(n)
	}
	return c.decodeInt(int64(n), dbType)
}

// decodeText handles native strings, which several dialects use to
// carry temporal and fixed-point column values.
func (c *Codec) decodeText(native any, s, dbType string) value.Value {
	if v, ok := c.decodeTyped(s, dbType); ok {
		return v
	}
	return value.Text(s)
}

// decodeTyped interprets a textual rendering according to the declared
// column type. It reports false when the type carries no reinterpretation
// or when the rendering does not parse, in which case the caller keeps
// the raw representation.
func (c *Codec) decodeTyped(s, dbType string) (value.Value, bool) {
	switch dbType {
	case "DATE":
		if t, err := time.ParseInLocation(dateFormat, s, time.UTC); err == nil {
			return value.Date(t), true
		}
	case "TIME":
		if t, err := time.Parse(timeFormat, s); err == nil {
			return value.TimeOfDay(t.Clock()), true
		}
	case "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		if t, err := time.ParseInLocation(time.DateTime, s, time.UTC); err == nil {
			return value.Timestamp(t), true
		}
	case "DECIMAL", "NUMERIC":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Float64(f), true
		}
	case "BOOLEAN", "BOOL":
		if b, err := strconv.ParseBool(s); err == nil {
			return value.Bool(b), true
		}
	}
	return value.Value{}, false
}

// fallback renders an unrecognized native value as text, records the
// data-fidelity event and notifies the hook.
func (c *Codec) fallback(native any) value.Value {
	rendered := fmt.Sprintf("%v", native)
	c.fallbacks.Add(1)
	if c.OnFallback != nil {
		c.OnFallback(native, rendered)
	}
	return value.Text(rendered)
}
