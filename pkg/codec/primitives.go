package codec

import (
	"encoding/binary"
	"math"
)

// fixedDecoder drives any descriptor that needs exactly one fixed-size
// read before it can produce a value (Uint32, Uint64, Int32, Int64,
// Float, Bool). Composite decoders reuse it for their scalar children.
type fixedDecoder struct {
	size  int
	fed   bool
	value any
	parse func([]byte) (any, error)
	err   error
}

func (d *fixedDecoder) Needed() int {
	if d.fed {
		return 0
	}
	return d.size
}

func (d *fixedDecoder) Feed(data []byte) error {
	if d.fed {
		return nil
	}
	v, err := d.parse(data)
	if err != nil {
		return err
	}
	d.value = v
	d.fed = true
	return nil
}

func (d *fixedDecoder) Value() any { return d.value }

// --- String ---------------------------------------------------------

type stringType struct{}

// String is the length-prefixed byte-string descriptor. In-memory
// values are []byte, never Go's native string: the wire format is an
// opaque byte string, and using []byte as the sole accepted shape keeps
// that distinction checkable (Validate rejects a bare string the same
// way the source rejects a unicode value where a byte string belongs).
var String Type = stringType{}

func (stringType) Validate(value any) error {
	if _, ok := value.([]byte); !ok {
		return &TypeError{Type: "String", Value: value}
	}
	return nil
}

func (t stringType) Encode(value any) ([]byte, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	b := value.([]byte)
	out := make([]byte, 4+len(b))
	binary.LittleEndian.PutUint32(out, uint32(len(b)))
	copy(out[4:], b)
	return out, nil
}

func (stringType) NewDecoder() Decoder {
	return &stringDecoder{}
}

type stringDecoder struct {
	lengthRead bool
	length     uint32
	done       bool
	value      []byte
}

func (d *stringDecoder) Needed() int {
	if d.done {
		return 0
	}
	if !d.lengthRead {
		return 4
	}
	return int(d.length)
}

func (d *stringDecoder) Feed(data []byte) error {
	if d.done {
		return nil
	}
	if !d.lengthRead {
		d.length = binary.LittleEndian.Uint32(data)
		d.lengthRead = true
		if d.length == 0 {
			d.value = []byte{}
			d.done = true
		}
		return nil
	}
	d.value = append([]byte(nil), data...)
	d.done = true
	return nil
}

func (d *stringDecoder) Value() any { return d.value }

// --- unsigned integers ------------------------------------------------

type uintType struct {
	name string
	bits int
	size int
}

// Uint32 is a little-endian unsigned 32-bit integer descriptor.
var Uint32 Type = uintType{name: "Uint32", bits: 32, size: 4}

// Uint64 is a little-endian unsigned 64-bit integer descriptor.
var Uint64 Type = uintType{name: "Uint64", bits: 64, size: 8}

func (t uintType) max() uint64 {
	if t.bits == 64 {
		return math.MaxUint64
	}
	return (uint64(1) << uint(t.bits)) - 1
}

func (t uintType) Validate(value any) error {
	n, neg, ok := toInt128ish(value)
	if !ok {
		return &TypeError{Type: t.name, Value: value}
	}
	if neg {
		return &ValueError{Type: t.name, Value: value}
	}
	if n > t.max() {
		return &ValueError{Type: t.name, Value: value}
	}
	return nil
}

func (t uintType) Encode(value any) ([]byte, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	n, _, _ := toInt128ish(value)
	buf := make([]byte, t.size)
	if t.size == 4 {
		binary.LittleEndian.PutUint32(buf, uint32(n))
	} else {
		binary.LittleEndian.PutUint64(buf, n)
	}
	return buf, nil
}

func (t uintType) NewDecoder() Decoder {
	size := t.size
	if size == 4 {
		return &fixedDecoder{size: size, parse: func(b []byte) (any, error) {
			return binary.LittleEndian.Uint32(b), nil
		}}
	}
	return &fixedDecoder{size: size, parse: func(b []byte) (any, error) {
		return binary.LittleEndian.Uint64(b), nil
	}}
}

// --- signed integers ----------------------------------------------------

type intType struct {
	name string
	bits int
	size int
}

// Int32 is a little-endian two's-complement signed 32-bit descriptor.
var Int32 Type = intType{name: "Int32", bits: 32, size: 4}

// Int64 is a little-endian two's-complement signed 64-bit descriptor.
var Int64 Type = intType{name: "Int64", bits: 64, size: 8}

func (t intType) maxAbs() int64 {
	return (int64(1) << uint(t.bits-1)) - 1
}

func (t intType) Validate(value any) error {
	n, ok := toInt64(value)
	if !ok {
		return &TypeError{Type: t.name, Value: value}
	}
	max := t.maxAbs()
	if n > max || n < -max {
		return &ValueError{Type: t.name, Value: value}
	}
	return nil
}

func (t intType) Encode(value any) ([]byte, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	n, _ := toInt64(value)
	buf := make([]byte, t.size)
	if t.size == 4 {
		binary.LittleEndian.PutUint32(buf, uint32(int32(n)))
	} else {
		binary.LittleEndian.PutUint64(buf, uint64(n))
	}
	return buf, nil
}

func (t intType) NewDecoder() Decoder {
	size := t.size
	if size == 4 {
		return &fixedDecoder{size: size, parse: func(b []byte) (any, error) {
			return int32(binary.LittleEndian.Uint32(b)), nil
		}}
	}
	return &fixedDecoder{size: size, parse: func(b []byte) (any, error) {
		return int64(binary.LittleEndian.Uint64(b)), nil
	}}
}

// --- Float ---------------------------------------------------------

type floatType struct{}

// Float is the IEEE-754 double precision descriptor, 8 bytes wide.
var Float Type = floatType{}

func (floatType) Validate(value any) error {
	if _, ok := value.(float64); !ok {
		return &TypeError{Type: "Float", Value: value}
	}
	return nil
}

func (t floatType) Encode(value any) ([]byte, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(value.(float64)))
	return buf, nil
}

func (floatType) NewDecoder() Decoder {
	return &fixedDecoder{size: 8, parse: func(b []byte) (any, error) {
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	}}
}

// --- Bool ---------------------------------------------------------

type boolType struct{}

// Bool is the single-byte boolean descriptor: 0x00 is false, 0x01 is
// true, any other byte on decode is a protocol error.
var Bool Type = boolType{}

func (boolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return &TypeError{Type: "Bool", Value: value}
	}
	return nil
}

func (t boolType) Encode(value any) ([]byte, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	if value.(bool) {
		return []byte{0x01}, nil
	}
	return []byte{0x00}, nil
}

func (boolType) NewDecoder() Decoder {
	return &fixedDecoder{size: 1, parse: func(b []byte) (any, error) {
		switch b[0] {
		case 0x00:
			return false, nil
		case 0x01:
			return true, nil
		default:
			return nil, protoErrf("unexpected bool value 0x%02x", b[0])
		}
	}}
}

// --- Unit ---------------------------------------------------------

type unitType struct{}

// Unit is the zero-byte void descriptor. It is decode-only: it cannot
// be validated or encoded, matching the source's treatment of Unit as
// a synthetic "no result" marker.
var Unit Type = unitType{}

func (unitType) Validate(value any) error {
	return &TypeError{Type: "Unit", Value: value}
}

func (unitType) Encode(value any) ([]byte, error) {
	return nil, &TypeError{Type: "Unit", Value: value}
}

func (unitType) NewDecoder() Decoder {
	return &unitDecoder{}
}

// unitDecoder emits a nil value having consumed zero bytes.
type unitDecoder struct{}

func (unitDecoder) Needed() int    { return 0 }
func (unitDecoder) Feed([]byte) error { return nil }
func (unitDecoder) Value() any     { return nil }

// toInt64 widens common Go integer representations to int64 so the
// signed types' range validation can be expressed uniformly, including
// against out-of-range inputs (e.g. an int64 beyond Int32's range). A
// uint64 above math.MaxInt64 is reported as not convertible. Unsigned
// types validate through toInt128ish instead.
func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// toInt128ish widens to a (magnitude, negative) pair wide enough to
// validate Uint64 boundaries, which don't fit in int64.
func toInt128ish(value any) (magnitude uint64, negative bool, ok bool) {
	switch v := value.(type) {
	case uint64:
		return v, false, true
	case uint32:
		return uint64(v), false, true
	case uint16:
		return uint64(v), false, true
	case uint8:
		return uint64(v), false, true
	case uint:
		return uint64(v), false, true
	case int:
		if v < 0 {
			return uint64(-v), true, true
		}
		return uint64(v), false, true
	case int64:
		if v < 0 {
			return uint64(-v), true, true
		}
		return uint64(v), false, true
	case int32:
		if v < 0 {
			return uint64(-v), true, true
		}
		return uint64(v), false, true
	default:
		return 0, false, false
	}
}
