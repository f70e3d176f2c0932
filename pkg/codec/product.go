package codec

// productType is a fixed-arity tuple of heterogeneous fields encoded
// back to back with no length prefix, used for the (String, String)
// key/value pairs inside RangeEntries and RevRangeEntries results.
type productType struct {
	fields []Type
}

// Product builds a fixed-arity descriptor over []any whose length must
// match len(fields); element i is validated/encoded against fields[i].
func Product(fields ...Type) Type {
	return productType{fields: fields}
}

func (t productType) Validate(value any) error {
	items, ok := value.([]any)
	if !ok || len(items) != len(t.fields) {
		return &TypeError{Type: "Product", Value: value}
	}
	for i, f := range t.fields {
		if err := f.Validate(items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t productType) Encode(value any) ([]byte, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	items := value.([]any)
	var out []byte
	for i, f := range t.fields {
		b, err := f.Encode(items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func (t productType) NewDecoder() Decoder {
	return &productDecoder{fields: t.fields}
}

type productDecoder struct {
	fields []Type

	idx    int
	sub    Decoder
	values []any
}

// advance consumes any fields that are already complete (e.g. a Unit
// field, whose decoder needs zero bytes) without requiring a Feed.
func (d *productDecoder) advance() {
	for d.idx < len(d.fields) {
		if d.sub == nil {
			d.sub = d.fields[d.idx].NewDecoder()
		}
		if d.sub.Needed() != 0 {
			return
		}
		d.values = append(d.values, d.sub.Value())
		d.idx++
		d.sub = nil
	}
}

func (d *productDecoder) Needed() int {
	d.advance()
	if d.idx >= len(d.fields) {
		return 0
	}
	return d.sub.Needed()
}

func (d *productDecoder) Feed(data []byte) error {
	d.advance()
	if err := d.sub.Feed(data); err != nil {
		return err
	}
	if d.sub.Needed() == 0 {
		d.values = append(d.values, d.sub.Value())
		d.idx++
		d.sub = nil
	}
	return nil
}

func (d *productDecoder) Value() any { return d.values }
