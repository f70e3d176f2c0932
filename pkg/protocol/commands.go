package protocol

import "github.com/Incubaid/go-arakoon/pkg/codec"

// Opcodes, unmasked. Tag() applies Mask.
const (
	opHello                  = 0x0001
	opWhoMaster              = 0x0002
	opExists                 = 0x0007
	opGet                    = 0x0008
	opSet                    = 0x0009
	opDelete                 = 0x000a
	opRange                  = 0x000b
	opPrefixKeys             = 0x000c
	opTestAndSet             = 0x000d
	opRangeEntries           = 0x000f
	opSequence               = 0x0010
	opMultiGet               = 0x0011
	opExpectProgressPossible = 0x0012
	opStatistics             = 0x0013
	opUserFunction           = 0x0015
	opAssert                 = 0x0016
	opGetKeyCount            = 0x001a
	opConfirm                = 0x001c
	opRevRangeEntries        = 0x0023
	opSyncedSequence         = 0x0024
	opOptimizeDB             = 0x0025
	opDefragDB               = 0x0026
	opDropMaster             = 0x0030
)

// Hello sends the client and cluster identifiers and returns the
// server's greeting string.
type Hello struct {
	ClientID  []byte
	ClusterID []byte
}

func (m *Hello) Tag() uint32 { return opHello | Mask }

func (m *Hello) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), false)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.String, m.ClientID); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.String, m.ClusterID)
}

func (m *Hello) ReturnType() codec.Type { return codec.String }

// WhoMaster asks for the identity of the current master node, if
// known.
type WhoMaster struct{}

func (m *WhoMaster) Tag() uint32 { return opWhoMaster | Mask }

func (m *WhoMaster) Encode() ([]byte, error) { return encodeTag(m.Tag(), false) }

func (m *WhoMaster) ReturnType() codec.Type { return codec.Option(codec.String) }

// Exists reports whether key is present in the store.
type Exists struct {
	Key []byte
}

func (m *Exists) Tag() uint32 { return opExists | Mask }

func (m *Exists) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), true)
	if err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.String, m.Key)
}

func (m *Exists) ReturnType() codec.Type { return codec.Bool }

// Get returns the value stored under key, or a NotFound server error.
type Get struct {
	Key []byte
}

func (m *Get) Tag() uint32 { return opGet | Mask }

func (m *Get) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), true)
	if err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.String, m.Key)
}

func (m *Get) ReturnType() codec.Type { return codec.String }

// Set stores value under key, overwriting any prior value.
type Set struct {
	Key   []byte
	Value []byte
}

func (m *Set) Tag() uint32 { return opSet | Mask }

func (m *Set) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), false)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.String, m.Key); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.String, m.Value)
}

func (m *Set) ReturnType() codec.Type { return codec.Unit }

// Delete removes key, failing with NotFound if it is absent.
type Delete struct {
	Key []byte
}

func (m *Delete) Tag() uint32 { return opDelete | Mask }

func (m *Delete) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), false)
	if err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.String, m.Key)
}

func (m *Delete) ReturnType() codec.Type { return codec.Unit }

// Range lists keys in [Begin, End) (inclusivity per the Incl flags),
// capped at Max keys. Max of -1 means unbounded; negative values other
// than -1 are accepted but not meaningful.
type Range struct {
	Begin     []byte
	BeginIncl bool
	End       []byte
	EndIncl   bool
	Max       int32
}

func (m *Range) Tag() uint32 { return opRange | Mask }

func (m *Range) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), true)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Option(codec.String), optionalBytes(m.Begin)); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Bool, m.BeginIncl); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Option(codec.String), optionalBytes(m.End)); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Bool, m.EndIncl); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.Int32, m.Max)
}

func (m *Range) ReturnType() codec.Type { return ByteStringListType }

// PrefixKeys lists up to Max keys starting with Prefix. Max of -1
// means unbounded.
type PrefixKeys struct {
	Prefix []byte
	Max    int32
}

func (m *PrefixKeys) Tag() uint32 { return opPrefixKeys | Mask }

func (m *PrefixKeys) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), true)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.String, m.Prefix); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.Int32, m.Max)
}

func (m *PrefixKeys) ReturnType() codec.Type { return ByteStringListType }

// TestAndSet atomically compares the current value at Key against
// Test (nil meaning "must be absent") and, if equal, replaces it with
// Set (nil meaning "delete"). It returns the value observed before the
// operation.
type TestAndSet struct {
	Key  []byte
	Test []byte
	Set  []byte
}

func (m *TestAndSet) Tag() uint32 { return opTestAndSet | Mask }

func (m *TestAndSet) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), false)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.String, m.Key); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Option(codec.String), optionalBytes(m.Test)); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.Option(codec.String), optionalBytes(m.Set))
}

func (m *TestAndSet) ReturnType() codec.Type { return codec.Option(codec.String) }

// RangeEntries is Range but returns full (key, value) pairs.
type RangeEntries struct {
	Begin     []byte
	BeginIncl bool
	End       []byte
	EndIncl   bool
	Max       int32
}

func (m *RangeEntries) Tag() uint32 { return opRangeEntries | Mask }

func (m *RangeEntries) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), true)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Option(codec.String), optionalBytes(m.Begin)); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Bool, m.BeginIncl); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Option(codec.String), optionalBytes(m.End)); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Bool, m.EndIncl); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.Int32, m.Max)
}

func (m *RangeEntries) ReturnType() codec.Type { return KVListType }

// RevRangeEntries is RangeEntries walked in reverse key order.
type RevRangeEntries struct {
	Begin     []byte
	BeginIncl bool
	End       []byte
	EndIncl   bool
	Max       int32
}

func (m *RevRangeEntries) Tag() uint32 { return opRevRangeEntries | Mask }

func (m *RevRangeEntries) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), true)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Option(codec.String), optionalBytes(m.Begin)); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Bool, m.BeginIncl); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Option(codec.String), optionalBytes(m.End)); err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.Bool, m.EndIncl); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.Int32, m.Max)
}

func (m *RevRangeEntries) ReturnType() codec.Type { return KVListType }

// Sequence wraps a pre-serialized step tree (see package sequence) as
// a single String argument. Synced picks the opcode that forces the
// master to fsync its transaction log before replying.
type Sequence struct {
	Encoded []byte
	Synced  bool
}

func (m *Sequence) Tag() uint32 {
	if m.Synced {
		return opSyncedSequence | Mask
	}
	return opSequence | Mask
}

func (m *Sequence) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), false)
	if err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.String, m.Encoded)
}

func (m *Sequence) ReturnType() codec.Type { return codec.Unit }

// MultiGet returns the value for each of Keys, in order, failing the
// whole call with NotFound if any key is missing.
type MultiGet struct {
	Keys [][]byte
}

func (m *MultiGet) Tag() uint32 { return opMultiGet | Mask }

func (m *MultiGet) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), true)
	if err != nil {
		return nil, err
	}
	items := make([]any, len(m.Keys))
	for i, k := range m.Keys {
		items[i] = k
	}
	return appendEncoded(out, codec.List(codec.String), items)
}

func (m *MultiGet) ReturnType() codec.Type { return ByteStringListType }

// ExpectProgressPossible reports whether the cluster believes it can
// currently make progress (i.e. a quorum is reachable).
type ExpectProgressPossible struct{}

func (m *ExpectProgressPossible) Tag() uint32 { return opExpectProgressPossible | Mask }

func (m *ExpectProgressPossible) Encode() ([]byte, error) { return encodeTag(m.Tag(), false) }

func (m *ExpectProgressPossible) ReturnType() codec.Type { return codec.Bool }

// Statistics retrieves server-reported runtime statistics.
type Statistics struct{}

func (m *Statistics) Tag() uint32 { return opStatistics | Mask }

func (m *Statistics) Encode() ([]byte, error) { return encodeTag(m.Tag(), false) }

func (m *Statistics) ReturnType() codec.Type { return codec.Statistics }

// UserFunction invokes a server-side user function by Name with an
// optional opaque Arg, returning its optional opaque result.
type UserFunction struct {
	Name []byte
	Arg  []byte
}

func (m *UserFunction) Tag() uint32 { return opUserFunction | Mask }

func (m *UserFunction) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), false)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.String, m.Name); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.Option(codec.String), optionalBytes(m.Arg))
}

func (m *UserFunction) ReturnType() codec.Type { return codec.Option(codec.String) }

// Assert fails with AssertionFailed unless the current value at Key
// equals Value (nil meaning the key must be absent).
type Assert struct {
	Key   []byte
	Value []byte
}

func (m *Assert) Tag() uint32 { return opAssert | Mask }

func (m *Assert) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), true)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.String, m.Key); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.Option(codec.String), optionalBytes(m.Value))
}

func (m *Assert) ReturnType() codec.Type { return codec.Unit }

// GetKeyCount returns the total number of keys in the store.
type GetKeyCount struct{}

func (m *GetKeyCount) Tag() uint32 { return opGetKeyCount | Mask }

func (m *GetKeyCount) Encode() ([]byte, error) { return encodeTag(m.Tag(), false) }

func (m *GetKeyCount) ReturnType() codec.Type { return codec.Uint64 }

// Confirm stores Value under Key unconditionally, like Set, but is
// used by the source client as a write whose completion confirms
// earlier writes have been applied (idempotent re-submission marker).
type Confirm struct {
	Key   []byte
	Value []byte
}

func (m *Confirm) Tag() uint32 { return opConfirm | Mask }

func (m *Confirm) Encode() ([]byte, error) {
	out, err := encodeTag(m.Tag(), false)
	if err != nil {
		return nil, err
	}
	if out, err = appendEncoded(out, codec.String, m.Key); err != nil {
		return nil, err
	}
	return appendEncoded(out, codec.String, m.Value)
}

func (m *Confirm) ReturnType() codec.Type { return codec.Unit }

// OptimizeDB requests the server compact its on-disk store.
type OptimizeDB struct{}

func (m *OptimizeDB) Tag() uint32 { return opOptimizeDB | Mask }

func (m *OptimizeDB) Encode() ([]byte, error) { return encodeTag(m.Tag(), false) }

func (m *OptimizeDB) ReturnType() codec.Type { return codec.Unit }

// DefragDB requests the server defragment its on-disk store.
type DefragDB struct{}

func (m *DefragDB) Tag() uint32 { return opDefragDB | Mask }

func (m *DefragDB) Encode() ([]byte, error) { return encodeTag(m.Tag(), false) }

func (m *DefragDB) ReturnType() codec.Type { return codec.Unit }

// DropMaster forces the current master to step down.
type DropMaster struct{}

func (m *DropMaster) Tag() uint32 { return opDropMaster | Mask }

func (m *DropMaster) Encode() ([]byte, error) { return encodeTag(m.Tag(), false) }

func (m *DropMaster) ReturnType() codec.Type { return codec.Unit }

// optionalBytes maps a possibly-nil []byte to the any the Option
// descriptor expects: untyped nil for absence, the slice itself
// otherwise. A non-nil empty slice is a present, zero-length string.
func optionalBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}
