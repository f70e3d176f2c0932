package codec

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func appendStatUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func appendStatInt32(buf *bytes.Buffer, v int32) {
	appendStatUint32(buf, uint32(v))
}

func appendStatString(buf *bytes.Buffer, s string) {
	appendStatUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

// appendNamedInt32Field appends a (field_kind, name, value) record for
// an Int32-kind NamedField.
func appendNamedInt32Field(buf *bytes.Buffer, name string, value int32) {
	appendStatInt32(buf, fieldKindInt32)
	appendStatString(buf, name)
	appendStatInt32(buf, value)
}

// appendNamedListField appends a List-kind NamedField header (kind,
// name, element count); callers append that many nested records after.
func appendNamedListField(buf *bytes.Buffer, name string, count uint32) {
	appendStatInt32(buf, fieldKindList)
	appendStatString(buf, name)
	appendStatUint32(buf, count)
}

func TestStatisticsDecodesKnownFields(t *testing.T) {
	var body bytes.Buffer
	appendNamedListField(&body, "arakoon_stats", 2)
	appendNamedInt32Field(&body, "node_is_master", 0)
	appendNamedInt32Field(&body, "num_clients", 3)

	var frame bytes.Buffer
	appendStatString(&frame, body.String())

	got, err := Run(bytes.NewReader(frame.Bytes()), Statistics.NewDecoder())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields := got.(map[string]any)
	if fields["node_is_master"].(int32) != 0 {
		t.Fatalf("got %v", fields["node_is_master"])
	}
	if fields["num_clients"].(int32) != 3 {
		t.Fatalf("got %v", fields["num_clients"])
	}
}

func TestStatisticsDecodesNestedList(t *testing.T) {
	var inner bytes.Buffer
	appendNamedInt32Field(&inner, "a", 1)
	appendNamedInt32Field(&inner, "b", 2)

	var body bytes.Buffer
	appendStatInt32(&body, fieldKindList)
	appendStatString(&body, "arakoon_stats")
	appendStatUint32(&body, 1)
	appendStatInt32(&body, fieldKindList)
	appendStatString(&body, "nested")
	appendStatUint32(&body, 2)
	body.Write(inner.Bytes())

	var frame bytes.Buffer
	appendStatString(&frame, body.String())

	got, err := Run(bytes.NewReader(frame.Bytes()), Statistics.NewDecoder())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields := got.(map[string]any)
	nested := fields["nested"].(map[string]any)
	if nested["a"].(int32) != 1 || nested["b"].(int32) != 2 {
		t.Fatalf("got %v", nested)
	}
}

func TestStatisticsRejectsMissingMarkerField(t *testing.T) {
	var body bytes.Buffer
	appendNamedInt32Field(&body, "some_other_field", 7)

	var frame bytes.Buffer
	appendStatString(&frame, body.String())

	_, err := Run(bytes.NewReader(frame.Bytes()), Statistics.NewDecoder())
	if err == nil {
		t.Fatal("expected error for statistics blob missing arakoon_stats")
	}
}

func TestStatisticsCannotBeEncoded(t *testing.T) {
	if _, err := Statistics.Encode(nil); err == nil {
		t.Fatal("expected error encoding Statistics")
	}
}
