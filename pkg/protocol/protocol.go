// Package protocol declares the Arakoon message catalog: one type per
// server command, each knowing its own tag, argument encoding and
// return-type descriptor. Serialization is mechanical given those
// three facts, mirroring the source client's declarative command
// descriptors.
package protocol

import "github.com/Incubaid/go-arakoon/pkg/codec"

// Mask is or'd with a command's opcode to produce its wire tag.
const Mask uint32 = 0xB1FF0000

// Message is a single request to a server, fully bound to its
// arguments and ready to serialize.
type Message interface {
	// Tag is this command's wire tag, opcode | Mask.
	Tag() uint32

	// Encode produces the full request byte sequence: tag, optional
	// dirty-read flag, then arguments in declaration order.
	Encode() ([]byte, error)

	// ReturnType decodes this command's success payload.
	ReturnType() codec.Type
}

// Prologue builds the handshake sent once, immediately after TCP
// establishment, before any Message may be sent.
func Prologue(clusterID []byte) ([]byte, error) {
	tag, err := codec.Uint32.Encode(Mask)
	if err != nil {
		return nil, err
	}
	version, err := codec.Uint32.Encode(uint32(1))
	if err != nil {
		return nil, err
	}
	cluster, err := codec.String.Encode(clusterID)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(tag)+len(version)+len(cluster))
	out = append(out, tag...)
	out = append(out, version...)
	out = append(out, cluster...)
	return out, nil
}

// encodeTag is shared by every command: emit the tag, and a false
// dirty-read byte if the command supports the allow-dirty flag. The
// client never requests dirty reads -- every read it issues observes
// the consistent, master-confirmed value.
func encodeTag(tag uint32, allowDirty bool) ([]byte, error) {
	out, err := codec.Uint32.Encode(tag)
	if err != nil {
		return nil, err
	}
	if allowDirty {
		b, err := codec.Bool.Encode(false)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func appendEncoded(out []byte, typ codec.Type, value any) ([]byte, error) {
	b, err := typ.Encode(value)
	if err != nil {
		return nil, err
	}
	return append(out, b...), nil
}

// KV is the ergonomic pairing produced when decoding
// Product(String, String) results, used by RangeEntries and
// RevRangeEntries.
type KV struct {
	Key   []byte
	Value []byte
}

// KVListType decodes a List<(String,String)> payload into []KV.
var KVListType = kvListType{inner: codec.List(codec.Product(codec.String, codec.String))}

type kvListType struct {
	inner codec.Type
}

func (t kvListType) Validate(value any) error { return t.inner.Validate(value) }
func (t kvListType) Encode(value any) ([]byte, error) { return t.inner.Encode(value) }
func (t kvListType) NewDecoder() codec.Decoder {
	return &kvListDecoder{sub: t.inner.NewDecoder()}
}

type kvListDecoder struct {
	sub codec.Decoder
}

func (d *kvListDecoder) Needed() int { return d.sub.Needed() }

func (d *kvListDecoder) Feed(data []byte) error { return d.sub.Feed(data) }

func (d *kvListDecoder) Value() any {
	raw := d.sub.Value().([]any)
	out := make([]KV, len(raw))
	for i, item := range raw {
		pair := item.([]any)
		out[i] = KV{Key: pair[0].([]byte), Value: pair[1].([]byte)}
	}
	return out
}

// ByteStringListType decodes a List<String> payload into [][]byte,
// used by Range, PrefixKeys and MultiGet.
var ByteStringListType = byteStringListType{inner: codec.List(codec.String)}

type byteStringListType struct {
	inner codec.Type
}

func (t byteStringListType) Validate(value any) error { return t.inner.Validate(value) }
func (t byteStringListType) Encode(value any) ([]byte, error) { return t.inner.Encode(value) }
func (t byteStringListType) NewDecoder() codec.Decoder {
	return &byteStringListDecoder{sub: t.inner.NewDecoder()}
}

type byteStringListDecoder struct {
	sub codec.Decoder
}

func (d *byteStringListDecoder) Needed() int { return d.sub.Needed() }

func (d *byteStringListDecoder) Feed(data []byte) error { return d.sub.Feed(data) }

func (d *byteStringListDecoder) Value() any {
	raw := d.sub.Value().([]any)
	out := make([][]byte, len(raw))
	for i, item := range raw {
		out[i] = item.([]byte)
	}
	return out
}
