package codec

import "fmt"

// TypeError is returned when a value does not match the shape a
// descriptor expects (e.g. a Go string passed where []byte is required).
type TypeError struct {
	Type  string
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("codec: invalid type for %s: %#v", e.Type, e.Value)
}

// ValueError is returned when a value has the right shape but an
// unacceptable value (e.g. a negative Uint32, or an integer overflowing
// its declared width).
type ValueError struct {
	Type  string
	Value any
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("codec: invalid value for %s: %v", e.Type, e.Value)
}

// ProtocolError is returned when bytes read off the wire cannot be
// decoded at all -- an impossible Bool byte, a missing "arakoon_stats"
// key, an unknown statistics field kind. Unlike TypeError/ValueError,
// a ProtocolError during decode is fatal to the connection that
// produced it (see the client package).
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return "codec: protocol error: " + e.Msg
}

func protoErrf(format string, args ...any) error {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}
