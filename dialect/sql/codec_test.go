package sql

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mageshb/persistent/value"
)

// TestCodecRoundTrip tests that decode(encode(v)) is observably equal
// to v for every value type. Temporal and boolean kinds need the
// declared column type on the way back, which is how the cursor invokes
// the codec.
func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &Codec{}
	now := time.Date(2024, time.March, 15, 10, 30, 45, 0, time.UTC)
	tests := []struct {
		name   string
		v      value.Value
		dbType string
	}{
		{"null", value.Null(), ""},
		{"text", value.Text("abc"), ""},
		{"text_empty", value.Text(""), ""},
		{"bytes", value.Bytes([]byte{0x01, 0xff}), ""},
		{"int64", value.Int64(42), ""},
		{"int64_negative", value.Int64(-1), ""},
		{"int64_max", value.Int64(math.MaxInt64), ""},
		{"float64", value.Float64(3.25), ""},
		{"bool_true", value.Bool(true), ""},
		{"bool_false", value.Bool(false), ""},
		{"date", value.Date(now), "DATE"},
		{"timeofday", value.TimeOfDay(10, 30, 45), "TIME"},
		{"timestamp", value.Timestamp(now), "TIMESTAMP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codec.DecodeColumn(codec.Encode(tt.v), tt.dbType)
			assert.True(t, tt.v.Equal(got), "want %s, got %s", tt.v, got)
		})
	}
	assert.Zero(t, codec.Fallbacks())
}

// TestDecodeIntegerWidening tests that native integer widths and
// signedness collapse onto Int64 by exact value.
func TestDecodeIntegerWidening(t *testing.T) {
	t.Parallel()

	codec := &Codec{}
	tests := []struct {
		name   string
		native any
		want   int64
	}{
		{"int64", int64(-5), -5},
		{"int", int(7), 7},
		{"int32", int32(-100000), -100000},
		{"int16", int16(-300), -300},
		{"int8", int8(-3), -3},
		{"uint", uint(12), 12},
		{"uint64", uint64(13), 13},
		{"uint32", uint32(14), 14},
		{"uint16", uint16(15), 15},
		{"uint8", uint8(16), 16},
		{"uint64_int64_max", uint64(math.MaxInt64), math.MaxInt64},
		// int32 covers Go runes: fixed-width characters surface as
		// their ordinal value.
		{"rune_ordinal", rune('A'), 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codec.Decode(tt.native)
			require.Equal(t, value.TypeInt64, got.Type())
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}

// TestDecodeUintOverflow tests that an unsigned value above the int64
// range cannot be reinterpreted exactly and takes the text fallback.
func TestDecodeUintOverflow(t *testing.T) {
	t.Parallel()

	codec := &Codec{}
	got := codec.Decode(uint64(math.MaxInt64) + 1)
	assert.Equal(t, value.TypeText, got.Type())
	assert.Equal(t, int64(1), codec.Fallbacks())
}

// TestDecodeRational tests exact-to-nearest conversion of rationals.
func TestDecodeRational(t *testing.T) {
	t.Parallel()

	codec := &Codec{}
	got := codec.Decode(big.NewRat(1, 2))
	require.Equal(t, value.TypeFloat64, got.Type())
	assert.Equal(t, 0.5, got.Float64())

	got = codec.Decode(big.NewRat(1, 3))
	require.Equal(t, value.TypeFloat64, got.Type())
	assert.InDelta(t, 1.0/3.0, got.Float64(), 0)
}

// TestDecodeDeclaredTypes tests column-type driven reinterpretation of
// textual renderings.
func TestDecodeDeclaredTypes(t *testing.T) {
	t.Parallel()

	codec := &Codec{}
	tests := []struct {
		name   string
		native any
		dbType string
		want   value.Value
	}{
		{"decimal_string", "12.5", "DECIMAL", value.Float64(12.5)},
		{"numeric_bytes", []byte("0.25"), "NUMERIC", value.Float64(0.25)},
		{"date_string", "2024-03-15", "DATE", value.Date(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))},
		{"time_string", "10:30:45", "TIME", value.TimeOfDay(10, 30, 45)},
		{"datetime_string", "2024-03-15 10:30:45", "DATETIME", value.Timestamp(time.Date(2024, time.March, 15, 10, 30, 45, 0, time.UTC))},
		{"boolean_int", int64(1), "BOOLEAN", value.Bool(true)},
		{"boolean_zero", int64(0), "BOOLEAN", value.Bool(false)},
		{"boolean_string", "true", "BOOL", value.Bool(true)},
		{"date_time_native", time.Date(2024, time.March, 15, 23, 1, 2, 0, time.UTC), "DATE", value.Date(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))},
		{"time_time_native", time.Date(1, time.January, 1, 9, 8, 7, 0, time.UTC), "TIME", value.TimeOfDay(9, 8, 7)},
		{"plain_string", "hello", "", value.Text("hello")},
		{"plain_bytes", []byte{1, 2}, "BLOB", value.Bytes([]byte{1, 2})},
		// A malformed rendering keeps the raw representation.
		{"bad_date_string", "not-a-date", "DATE", value.Text("not-a-date")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codec.DecodeColumn(tt.native, tt.dbType)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

// TestDecodeFallback tests that natives outside the enumerated set are
// rendered as text and that the data-fidelity event is observable
// through both the hook and the counter.
func TestDecodeFallback(t *testing.T) {
	t.Parallel()

	type exotic struct{ A, B int }

	var (
		hookNative   any
		hookRendered string
	)
	codec := &Codec{
		OnFallback: func(native any, rendered string) {
			hookNative = native
			hookRendered = rendered
		},
	}

	got := codec.Decode(exotic{1, 2})
	require.Equal(t, value.TypeText, got.Type())
	assert.Equal(t, "{1 2}", got.Text())
	assert.Equal(t, int64(1), codec.Fallbacks())
	assert.Equal(t, exotic{1, 2}, hookNative)
	assert.Equal(t, "{1 2}", hookRendered)

	codec.Decode([]int{1})
	assert.Equal(t, int64(2), codec.Fallbacks())
}

// TestEncodeTotality tests that encoding maps every tag onto exactly
// one native representation, with Null on the driver's nil marker.
func TestEncodeTotality(t *testing.T) {
	t.Parallel()

	codec := &Codec{}
	now := time.Date(2024, time.March, 15, 10, 30, 45, 0, time.UTC)

	assert.Nil(t, codec.Encode(value.Null()))
	assert.Equal(t, "abc", codec.Encode(value.Text("abc")))
	assert.Equal(t, []byte{9}, codec.Encode(value.Bytes([]byte{9})))
	assert.Equal(t, int64(42), codec.Encode(value.Int64(42)))
	assert.Equal(t, 1.5, codec.Encode(value.Float64(1.5)))
	assert.Equal(t, true, codec.Encode(value.Bool(true)))
	assert.Equal(t, now, codec.Encode(value.Timestamp(now)))
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), codec.Encode(value.Date(now)))
	assert.Equal(t, "10:30:45", codec.Encode(value.TimeOfDay(10, 30, 45)))
}

// TestEncodeAll tests positional encoding of a parameter list.
func TestEncodeAll(t *testing.T) {
	t.Parallel()

	codec := &Codec{}
	args := codec.EncodeAll([]value.Value{value.Text("a"), value.Int64(1), value.Null()})
	assert.Equal(t, []any{"a", int64(1), nil}, args)
}
