package codec

// Type is a descriptor for one logical value shape on the wire.
// Implementations are stateless and safe for concurrent use; all
// mutable state for an in-progress decode lives in the Decoder a Type
// produces.
type Type interface {
	// Validate reports whether value is acceptable input for Encode.
	Validate(value any) error

	// Encode serializes value. Callers should Validate first; Encode
	// re-validates and returns the same error if the value is invalid.
	Encode(value any) ([]byte, error)

	// NewDecoder returns a fresh stepwise decoder for this type.
	NewDecoder() Decoder
}

// Decoder is a small state machine that alternately requests bytes and
// eventually yields a value. A decoder starts in a state where Needed
// may already be 0 (e.g. Unit, or a List whose count turned out to be
// zero); callers must check Needed before assuming Feed must be called.
//
// Contract:
//
//	for d.Needed() > 0 {
//	    buf := <exactly d.Needed() bytes from the transport>
//	    if err := d.Feed(buf); err != nil {
//	        // protocol violation, fatal to the connection
//	    }
//	}
//	value := d.Value()
type Decoder interface {
	// Needed returns the number of bytes required before the next Feed
	// call. A return value of 0 means decoding is complete and Value
	// may be called.
	Needed() int

	// Feed supplies exactly Needed() bytes and advances the decoder by
	// one step. It must not be called once Needed() returns 0.
	Feed(data []byte) error

	// Value returns the decoded value. Only valid once Needed() == 0.
	Value() any
}
