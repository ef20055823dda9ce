// Package value defines the backend-neutral representation of a single
// column value. Every value carries exactly one active type tag; the
// dialect codecs translate between this representation and whatever the
// underlying driver speaks.
package value

import (
	"bytes"
	"fmt"
	"time"
)

// A Type identifies which variant of a Value is active.
type Type uint8

// The closed set of value types. Backends must map every native
// representation onto one of these.
const (
	TypeNull Type = iota
	TypeText
	TypeBytes
	TypeInt64
	TypeFloat64
	TypeBool
	TypeDate
	TypeTimeOfDay
	TypeTimestamp
	endTypes
)

var typeNames = [...]string{
	TypeNull:      "null",
	TypeText:      "text",
	TypeBytes:     "bytes",
	TypeInt64:     "int64",
	TypeFloat64:   "float64",
	TypeBool:      "bool",
	TypeDate:      "date",
	TypeTimeOfDay: "timeofday",
	TypeTimestamp: "timestamp",
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("invalid(%d)", t)
}

// Valid reports whether t is one of the defined value types.
func (t Type) Valid() bool { return t < endTypes }

// Numeric reports whether the type is one of the numeric variants.
func (t Type) Numeric() bool { return t == TypeInt64 || t == TypeFloat64 }

// Temporal reports whether the type carries calendar or clock data.
func (t Type) Temporal() bool {
	return t == TypeDate || t == TypeTimeOfDay || t == TypeTimestamp
}

// A Value is a tagged union over the closed set of column value types.
// The zero Value is Null. Values are immutable once constructed and are
// safe to copy; they are produced by callers or by a codec reading rows
// and consumed immediately, never stored long term.
type Value struct {
	typ Type
	s   string
	b   []byte
	i   int64
	f   float64
	t   time.Time
}

// Null returns the null value. It carries no payload.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{typ: TypeText, s: s} }

// Bytes returns a binary value. The given slice is not copied.
func Bytes(b []byte) Value { return Value{typ: TypeBytes, b: b} }

// Int64 returns a 64-bit signed integer value.
func Int64(i int64) Value { return Value{typ: TypeInt64, i: i} }

// Float64 returns a double-precision float value.
func Float64(f float64) Value { return Value{typ: TypeFloat64, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{typ: TypeBool}
	if b {
		v.i = 1
	}
	return v
}

// Date returns a calendar-date value. The time-of-day and location of t
// are discarded; only year, month and day are kept, anchored at UTC.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{typ: TypeDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// TimeOfDay returns a wall-clock time value with no date component.
func TimeOfDay(hour, min, sec int) Value {
	return Value{typ: TypeTimeOfDay, t: time.Date(1, time.January, 1, hour, min, sec, 0, time.UTC)}
}

// Timestamp returns a date+time value normalized to UTC.
func Timestamp(t time.Time) Value {
	return Value{typ: TypeTimestamp, t: t.UTC()}
}

// Type returns the active type tag.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether the value is Null.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// Text returns the string payload. It is the zero string unless the
// value is a TypeText.
func (v Value) Text() string { return v.s }

// Bytes returns the binary payload, or nil for non-binary values.
func (v Value) Bytes() []byte { return v.b }

// Int64 returns the integer payload, or zero for non-integer values.
func (v Value) Int64() int64 { return v.i }

// Float64 returns the float payload, or zero for non-float values.
func (v Value) Float64() float64 { return v.f }

// Bool returns the boolean payload, or false for non-boolean values.
func (v Value) Bool() bool { return v.typ == TypeBool && v.i == 1 }

// Time returns the temporal payload. For TypeDate it is midnight UTC of
// the date, for TypeTimeOfDay the clock on the day 0001-01-01, and for
// TypeTimestamp the UTC instant. It is the zero time otherwise.
func (v Value) Time() time.Time { return v.t }

// Clock returns the hour, minute and second of a temporal value.
func (v Value) Clock() (hour, min, sec int) { return v.t.Clock() }

// Equal reports whether two values have the same active tag and an
// observably equal payload.
func (v Value) Equal(u Value) bool {
	if v.typ != u.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeText:
		return v.s == u.s
	case TypeBytes:
		return bytes.Equal(v.b, u.b)
	case TypeInt64, TypeBool:
		return v.i == u.i
	case TypeFloat64:
		return v.f == u.f
	case TypeDate, TypeTimeOfDay, TypeTimestamp:
		return v.t.Equal(u.t)
	default:
		return false
	}
}

// String returns a debug rendering of the value.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeText:
		return fmt.Sprintf("%q", v.s)
	case TypeBytes:
		return fmt.Sprintf("0x%x", v.b)
	case TypeInt64:
		return fmt.Sprintf("%d", v.i)
	case TypeFloat64:
		return fmt.Sprintf("%g", v.f)
	case TypeBool:
		return fmt.Sprintf("%t", v.i == 1)
	case TypeDate:
		return v.t.Format("2006-01-02")
	case TypeTimeOfDay:
		return v.t.Format("15:04:05")
	case TypeTimestamp:
		return v.t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("invalid(%d)", v.typ)
	}
}
