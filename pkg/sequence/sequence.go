// Package sequence builds and serializes the step trees that back the
// Sequence and SyncedSequence commands: an ordered, nestable list of
// Set/Delete/Assert/AssertExists operations applied atomically by the
// server.
package sequence

import "github.com/Incubaid/go-arakoon/pkg/codec"

// Step tags, as laid out on the wire ahead of each step's arguments.
const (
	tagSet          = 1
	tagDelete       = 2
	tagAssert       = 8
	tagSequence     = 5
	tagAssertExists = 15
)

// Step is one operation in a sequence's step tree. Constructors
// validate their arguments eagerly; a Step built successfully always
// serializes without error.
type Step interface {
	encode() ([]byte, error)
}

func encodeTag(tag uint32) ([]byte, error) {
	return codec.Uint32.Encode(tag)
}

// Set stores Value under Key.
type Set struct {
	Key   []byte
	Value []byte
}

// NewSet validates key and value and returns a Set step. A nil value
// is rejected: unlike Assert, Set has no "absent" form.
func NewSet(key, value []byte) (*Set, error) {
	if err := codec.String.Validate(key); err != nil {
		return nil, err
	}
	if value == nil {
		return nil, &codec.TypeError{Type: "String", Value: value}
	}
	if err := codec.String.Validate(value); err != nil {
		return nil, err
	}
	return &Set{Key: key, Value: value}, nil
}

func (s *Set) encode() ([]byte, error) {
	out, err := encodeTag(tagSet)
	if err != nil {
		return nil, err
	}
	key, err := codec.String.Encode(s.Key)
	if err != nil {
		return nil, err
	}
	value, err := codec.String.Encode(s.Value)
	if err != nil {
		return nil, err
	}
	out = append(out, key...)
	out = append(out, value...)
	return out, nil
}

// Delete removes Key, failing the whole enclosing sequence with
// NotFound if it is absent.
type Delete struct {
	Key []byte
}

// NewDelete validates key and returns a Delete step.
func NewDelete(key []byte) (*Delete, error) {
	if err := codec.String.Validate(key); err != nil {
		return nil, err
	}
	return &Delete{Key: key}, nil
}

func (s *Delete) encode() ([]byte, error) {
	out, err := encodeTag(tagDelete)
	if err != nil {
		return nil, err
	}
	key, err := codec.String.Encode(s.Key)
	if err != nil {
		return nil, err
	}
	return append(out, key...), nil
}

// Assert fails the enclosing sequence with AssertionFailed unless the
// current value at Key equals Value (nil meaning the key must be
// absent).
type Assert struct {
	Key   []byte
	Value []byte
}

// NewAssert validates key and value and returns an Assert step. A nil
// value asserts the key's absence.
func NewAssert(key, value []byte) (*Assert, error) {
	if err := codec.String.Validate(key); err != nil {
		return nil, err
	}
	if value != nil {
		if err := codec.String.Validate(value); err != nil {
			return nil, err
		}
	}
	return &Assert{Key: key, Value: value}, nil
}

func (s *Assert) encode() ([]byte, error) {
	out, err := encodeTag(tagAssert)
	if err != nil {
		return nil, err
	}
	key, err := codec.String.Encode(s.Key)
	if err != nil {
		return nil, err
	}
	out = append(out, key...)
	var optValue any
	if s.Value != nil {
		optValue = s.Value
	}
	value, err := codec.Option(codec.String).Encode(optValue)
	if err != nil {
		return nil, err
	}
	return append(out, value...), nil
}

// AssertExists fails the enclosing sequence with AssertionFailed
// unless Key is present, regardless of its value.
type AssertExists struct {
	Key []byte
}

// NewAssertExists validates key and returns an AssertExists step.
func NewAssertExists(key []byte) (*AssertExists, error) {
	if err := codec.String.Validate(key); err != nil {
		return nil, err
	}
	return &AssertExists{Key: key}, nil
}

func (s *AssertExists) encode() ([]byte, error) {
	out, err := encodeTag(tagAssertExists)
	if err != nil {
		return nil, err
	}
	key, err := codec.String.Encode(s.Key)
	if err != nil {
		return nil, err
	}
	return append(out, key...), nil
}

// Sequence is itself a Step: a nested, ordered list of steps applied
// as one atomic unit. The root Sequence passed to the Sequence/
// SyncedSequence commands is serialized this way and wrapped as a
// single String argument (see package protocol).
type Sequence struct {
	Steps []Step
}

// New builds a Sequence step over steps, preserving order. Step
// arguments were already validated by their own constructors; a
// Sequence never rejects a well-formed step list.
func New(steps ...Step) *Sequence {
	return &Sequence{Steps: append([]Step(nil), steps...)}
}

func (s *Sequence) encode() ([]byte, error) {
	tag, err := encodeTag(tagSequence)
	if err != nil {
		return nil, err
	}
	count, err := codec.Uint32.Encode(uint32(len(s.Steps)))
	if err != nil {
		return nil, err
	}
	out := append(tag, count...)
	for _, step := range s.Steps {
		b, err := step.encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Encode serializes the root sequence to the byte string that becomes
// the Sequence/SyncedSequence command's single String argument. An
// empty sequence encodes to Uint32(5) || Uint32(0).
func Encode(s *Sequence) ([]byte, error) {
	return s.encode()
}
