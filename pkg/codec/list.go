package codec

// listType wraps an inner Type in an Arakoon List: a Uint32 count
// followed by that many inner values in order.
type listType struct {
	inner Type
}

// List builds a List(inner) descriptor over []any, each element
// validated against inner.
func List(inner Type) Type {
	return listType{inner: inner}
}

func (t listType) Validate(value any) error {
	items, ok := value.([]any)
	if !ok {
		return &TypeError{Type: "List", Value: value}
	}
	for _, item := range items {
		if err := t.inner.Validate(item); err != nil {
			return err
		}
	}
	return nil
}

func (t listType) Encode(value any) ([]byte, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	items := value.([]any)
	out, err := Uint32.Encode(uint32(len(items)))
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		b, err := t.inner.Encode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func (t listType) NewDecoder() Decoder {
	return &listDecoder{inner: t.inner, countDec: Uint32.NewDecoder()}
}

type listDecoder struct {
	inner Type

	countDec Decoder
	haveCnt  bool
	count    uint32

	items []any
	sub   Decoder
}

// advance collects any elements that complete without consuming bytes
// (e.g. a List(Unit)), so Needed() never reports 0 while items remain.
func (d *listDecoder) advance() {
	for uint32(len(d.items)) < d.count {
		if d.sub == nil {
			d.sub = d.inner.NewDecoder()
		}
		if d.sub.Needed() != 0 {
			return
		}
		d.items = append(d.items, d.sub.Value())
		d.sub = nil
	}
}

func (d *listDecoder) Needed() int {
	if !d.haveCnt {
		return d.countDec.Needed()
	}
	d.advance()
	if uint32(len(d.items)) >= d.count {
		return 0
	}
	return d.sub.Needed()
}

func (d *listDecoder) Feed(data []byte) error {
	if !d.haveCnt {
		if err := d.countDec.Feed(data); err != nil {
			return err
		}
		if d.countDec.Needed() == 0 {
			d.count = d.countDec.Value().(uint32)
			d.haveCnt = true
			d.items = make([]any, 0, d.count)
		}
		return nil
	}
	d.advance()
	if err := d.sub.Feed(data); err != nil {
		return err
	}
	if d.sub.Needed() == 0 {
		d.items = append(d.items, d.sub.Value())
		d.sub = nil
	}
	return nil
}

func (d *listDecoder) Value() any { return d.items }
