package codec

import (
	"bytes"
	"encoding/binary"
	"math"
)

// statisticsType decodes the server statistics blob: a String payload
// whose contents are a single NamedField record -- (field_kind:Int32,
// name:String, payload), where a List-kind payload is itself a sequence
// of nested NamedFields. Unlike the other composite types, the payload
// is fully buffered before parsing begins -- there is no way to report
// an accurate Needed() mid-record, since field_kind determines what
// shape the rest of the record takes.
type statisticsType struct{}

// Statistics decodes the reply to the Statistics command into a
// map[string]any. The blob's single top-level NamedField must be named
// "arakoon_stats"; its (List-kind) payload is what's returned, folded
// from name->value pairs the way the source client's NamedField.receive
// folds a list of nested fields into one mapping.
var Statistics Type = statisticsType{}

func (statisticsType) Validate(value any) error {
	return &TypeError{Type: "Statistics", Value: value}
}

func (statisticsType) Encode(value any) ([]byte, error) {
	return nil, &TypeError{Type: "Statistics", Value: value}
}

func (statisticsType) NewDecoder() Decoder {
	return &statisticsDecoder{raw: String.NewDecoder()}
}

type statisticsDecoder struct {
	raw   Decoder
	done  bool
	value any
}

func (d *statisticsDecoder) Needed() int {
	if d.done {
		return 0
	}
	return d.raw.Needed()
}

func (d *statisticsDecoder) Feed(data []byte) error {
	if d.done {
		return nil
	}
	if err := d.raw.Feed(data); err != nil {
		return err
	}
	if d.raw.Needed() != 0 {
		return nil
	}
	blob := d.raw.Value().([]byte)
	name, value, err := readNamedField(bytes.NewReader(blob))
	if err != nil {
		return err
	}
	if name != "arakoon_stats" {
		return protoErrf("statistics blob missing arakoon_stats field")
	}
	d.value = value
	d.done = true
	return nil
}

func (d *statisticsDecoder) Value() any { return d.value }

// NamedField kind tags, per spec.md's NamedField table and the source
// client's NamedField.receive dispatch.
const (
	fieldKindInt32  = 1
	fieldKindInt64  = 2
	fieldKindFloat  = 3
	fieldKindString = 4
	fieldKindList   = 5
)

// readNamedField decodes one (field_kind:Int32, name:String, payload)
// record and returns its name and decoded value. A List-kind payload is
// a Uint32 count followed by that many nested NamedFields, folded into
// a single name->value map rather than kept as a positional list.
func readNamedField(r *bytes.Reader) (string, any, error) {
	kind, err := readStatInt32(r)
	if err != nil {
		return "", nil, err
	}
	name, err := readStatString(r)
	if err != nil {
		return "", nil, err
	}

	switch kind {
	case fieldKindInt32:
		v, err := readStatInt32(r)
		return name, v, err
	case fieldKindInt64:
		v, err := readStatInt64(r)
		return name, v, err
	case fieldKindFloat:
		v, err := readStatFloat(r)
		return name, v, err
	case fieldKindString:
		v, err := readStatString(r)
		return name, v, err
	case fieldKindList:
		count, err := readStatUint32(r)
		if err != nil {
			return "", nil, err
		}
		folded := make(map[string]any, count)
		for i := uint32(0); i < count; i++ {
			elemName, elemValue, err := readNamedField(r)
			if err != nil {
				return "", nil, err
			}
			folded[elemName] = elemValue
		}
		return name, folded, nil
	default:
		return "", nil, protoErrf("statistics: unknown field kind %d", kind)
	}
}

func readStatInt32(r *bytes.Reader) (int32, error) {
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, protoErrf("statistics: truncated int32 field")
	}
	return v, nil
}

func readStatInt64(r *bytes.Reader) (int64, error) {
	var v int64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, protoErrf("statistics: truncated int64 field")
	}
	return v, nil
}

func readStatFloat(r *bytes.Reader) (float64, error) {
	var bits uint64
	if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
		return 0, protoErrf("statistics: truncated float field")
	}
	return math.Float64frombits(bits), nil
}

func readStatUint32(r *bytes.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, protoErrf("statistics: truncated count")
	}
	return v, nil
}

func readStatString(r *bytes.Reader) (string, error) {
	length, err := readStatUint32(r)
	if err != nil {
		return "", protoErrf("statistics: truncated string length")
	}
	buf := make([]byte, length)
	if _, err := r.Read(buf); err != nil {
		return "", protoErrf("statistics: truncated string body")
	}
	return string(buf), nil
}
