package codec

// optionType wraps an inner Type in an Arakoon Option: a presence byte
// (Bool) followed by the inner value when present. nil represents
// None; any other value is validated against the inner type.
type optionType struct {
	inner Type
}

// Option builds an Option(inner) descriptor. A nil value encodes to
// None; any non-nil value must validate against inner.
func Option(inner Type) Type {
	return optionType{inner: inner}
}

func (t optionType) Validate(value any) error {
	if value == nil {
		return nil
	}
	return t.inner.Validate(value)
}

func (t optionType) Encode(value any) ([]byte, error) {
	if value == nil {
		return []byte{0x00}, nil
	}
	inner, err := t.inner.Encode(value)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(inner))
	out = append(out, 0x01)
	out = append(out, inner...)
	return out, nil
}

func (t optionType) NewDecoder() Decoder {
	return &optionDecoder{inner: t.inner}
}

type optionDecoder struct {
	inner Type

	haveTag bool
	present bool
	sub     Decoder
}

func (d *optionDecoder) Needed() int {
	if !d.haveTag {
		return 1
	}
	if !d.present {
		return 0
	}
	return d.sub.Needed()
}

func (d *optionDecoder) Feed(data []byte) error {
	if !d.haveTag {
		switch data[0] {
		case 0x00:
			d.present = false
		case 0x01:
			d.present = true
			d.sub = d.inner.NewDecoder()
		default:
			return protoErrf("unexpected option tag 0x%02x", data[0])
		}
		d.haveTag = true
		return nil
	}
	return d.sub.Feed(data)
}

func (d *optionDecoder) Value() any {
	if !d.present {
		return nil
	}
	return d.sub.Value()
}
