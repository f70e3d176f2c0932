package codec

import (
	"bytes"
	"math"
	"testing"
)

func roundTrip(t *testing.T, typ Type, value any) any {
	t.Helper()
	encoded, err := typ.Encode(value)
	if err != nil {
		t.Fatalf("Encode(%v): %v", value, err)
	}
	got, err := Run(bytes.NewReader(encoded), typ.NewDecoder())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestUint32RoundTrip(t *testing.T) {
	got := roundTrip(t, Uint32, uint32(42))
	if got.(uint32) != 42 {
		t.Fatalf("got %v", got)
	}
}

func TestUint32RejectsNegative(t *testing.T) {
	if err := Uint32.Validate(-1); err == nil {
		t.Fatal("expected error validating -1 as Uint32")
	}
}

func TestUint32RejectsOverflow(t *testing.T) {
	if err := Uint32.Validate(uint64(math.MaxUint32) + 1); err == nil {
		t.Fatal("expected error validating overflowing value as Uint32")
	}
}

func TestUint64AcceptsMax(t *testing.T) {
	if err := Uint64.Validate(uint64(math.MaxUint64)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInt32Boundaries(t *testing.T) {
	max := int64(math.MaxInt32)
	if err := Int32.Validate(max); err != nil {
		t.Fatalf("expected %d to validate: %v", max, err)
	}
	if err := Int32.Validate(max + 1); err == nil {
		t.Fatalf("expected %d to be rejected", max+1)
	}
	if err := Int32.Validate(-max); err != nil {
		t.Fatalf("expected %d to validate: %v", -max, err)
	}
	if err := Int32.Validate(-max - 1); err == nil {
		t.Fatalf("expected %d to be rejected", -max-1)
	}
}

func TestInt64RejectsMinInt64(t *testing.T) {
	// The valid range is symmetric around zero: abs(value) must not
	// exceed 2^63-1, so math.MinInt64 itself is out of range even
	// though it fits in a native int64.
	if err := Int64.Validate(int64(math.MinInt64)); err == nil {
		t.Fatal("expected math.MinInt64 to be rejected by Int64")
	}
}

func TestInt64AcceptsMaxMagnitude(t *testing.T) {
	if err := Int64.Validate(int64(math.MaxInt64)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Int64.Validate(-int64(math.MaxInt64)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	if got := roundTrip(t, Bool, true); got.(bool) != true {
		t.Fatalf("got %v", got)
	}
	if got := roundTrip(t, Bool, false); got.(bool) != false {
		t.Fatalf("got %v", got)
	}
}

func TestBoolDecodeRejectsGarbageByte(t *testing.T) {
	d := Bool.NewDecoder()
	if err := d.Feed([]byte{0x02}); err == nil {
		t.Fatal("expected error decoding 0x02 as Bool")
	}
}

func TestStringRoundTrip(t *testing.T) {
	got := roundTrip(t, String, []byte("hello"))
	if !bytes.Equal(got.([]byte), []byte("hello")) {
		t.Fatalf("got %v", got)
	}
}

func TestStringRoundTripEmpty(t *testing.T) {
	got := roundTrip(t, String, []byte{})
	if !bytes.Equal(got.([]byte), []byte{}) {
		t.Fatalf("got %v", got)
	}
}

func TestStringRejectsGoString(t *testing.T) {
	if err := String.Validate("hello"); err == nil {
		t.Fatal("expected error validating a native Go string as String")
	}
}

func TestFloatRoundTrip(t *testing.T) {
	got := roundTrip(t, Float, 3.5)
	if got.(float64) != 3.5 {
		t.Fatalf("got %v", got)
	}
}

func TestUnitDecodesWithoutBytes(t *testing.T) {
	d := Unit.NewDecoder()
	if d.Needed() != 0 {
		t.Fatalf("Unit decoder should need 0 bytes, got %d", d.Needed())
	}
	if d.Value() != nil {
		t.Fatalf("expected nil value, got %v", d.Value())
	}
}

func TestUnitCannotBeEncoded(t *testing.T) {
	if _, err := Unit.Encode(nil); err == nil {
		t.Fatal("expected error encoding Unit")
	}
}
