package client

import (
	"github.com/Incubaid/go-arakoon/pkg/protocol"
	"github.com/Incubaid/go-arakoon/pkg/sequence"
)

// Hello performs the greeting handshake and returns the server's
// version string.
func (c *BlockingClient) Hello() ([]byte, error) {
	v, err := c.Process(&protocol.Hello{ClientID: c.conn.cfg.ClientID, ClusterID: c.conn.cfg.ClusterID})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// WhoMaster returns the current master's node name, or nil if unknown.
func (c *BlockingClient) WhoMaster() ([]byte, error) {
	v, err := c.Process(&protocol.WhoMaster{})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]byte), nil
}

// Exists reports whether key is present.
func (c *BlockingClient) Exists(key []byte) (bool, error) {
	v, err := c.Process(&protocol.Exists{Key: key})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Get returns the value stored under key, or an error carrying
// arakoonerrors.ErrNotFound if it is absent.
func (c *BlockingClient) Get(key []byte) ([]byte, error) {
	v, err := c.Process(&protocol.Get{Key: key})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Set stores value under key.
func (c *BlockingClient) Set(key, value []byte) error {
	_, err := c.Process(&protocol.Set{Key: key, Value: value})
	return err
}

// Delete removes key.
func (c *BlockingClient) Delete(key []byte) error {
	_, err := c.Process(&protocol.Delete{Key: key})
	return err
}

// Range lists up to max keys in [begin, end), honoring the inclusivity
// flags. A nil bound means unbounded on that side; max of -1 means
// unbounded count.
func (c *BlockingClient) Range(begin []byte, beginIncl bool, end []byte, endIncl bool, max int32) ([][]byte, error) {
	v, err := c.Process(&protocol.Range{Begin: begin, BeginIncl: beginIncl, End: end, EndIncl: endIncl, Max: max})
	if err != nil {
		return nil, err
	}
	return v.([][]byte), nil
}

// RangeEntries is Range but returns full key/value pairs.
func (c *BlockingClient) RangeEntries(begin []byte, beginIncl bool, end []byte, endIncl bool, max int32) ([]protocol.KV, error) {
	v, err := c.Process(&protocol.RangeEntries{Begin: begin, BeginIncl: beginIncl, End: end, EndIncl: endIncl, Max: max})
	if err != nil {
		return nil, err
	}
	return v.([]protocol.KV), nil
}

// RevRangeEntries is RangeEntries walked in reverse key order.
func (c *BlockingClient) RevRangeEntries(begin []byte, beginIncl bool, end []byte, endIncl bool, max int32) ([]protocol.KV, error) {
	v, err := c.Process(&protocol.RevRangeEntries{Begin: begin, BeginIncl: beginIncl, End: end, EndIncl: endIncl, Max: max})
	if err != nil {
		return nil, err
	}
	return v.([]protocol.KV), nil
}

// PrefixKeys lists up to max keys starting with prefix.
func (c *BlockingClient) PrefixKeys(prefix []byte, max int32) ([][]byte, error) {
	v, err := c.Process(&protocol.PrefixKeys{Prefix: prefix, Max: max})
	if err != nil {
		return nil, err
	}
	return v.([][]byte), nil
}

// MultiGet returns the value for each of keys, in order.
func (c *BlockingClient) MultiGet(keys [][]byte) ([][]byte, error) {
	v, err := c.Process(&protocol.MultiGet{Keys: keys})
	if err != nil {
		return nil, err
	}
	return v.([][]byte), nil
}

// TestAndSet atomically compares-and-swaps the value at key, returning
// the value observed before the operation. test == nil asserts the key
// was absent; set == nil deletes the key.
func (c *BlockingClient) TestAndSet(key, test, set []byte) ([]byte, error) {
	v, err := c.Process(&protocol.TestAndSet{Key: key, Test: test, Set: set})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]byte), nil
}

// Assert fails with arakoonerrors.ErrAssertionFailed unless the
// current value at key equals value (nil meaning the key must be
// absent).
func (c *BlockingClient) Assert(key, value []byte) error {
	_, err := c.Process(&protocol.Assert{Key: key, Value: value})
	return err
}

// UserFunction invokes a server-side user function by name.
func (c *BlockingClient) UserFunction(name, arg []byte) ([]byte, error) {
	v, err := c.Process(&protocol.UserFunction{Name: name, Arg: arg})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]byte), nil
}

// ExpectProgressPossible reports whether the cluster believes a quorum
// is reachable.
func (c *BlockingClient) ExpectProgressPossible() (bool, error) {
	v, err := c.Process(&protocol.ExpectProgressPossible{})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Statistics retrieves server-reported runtime statistics.
func (c *BlockingClient) Statistics() (map[string]any, error) {
	v, err := c.Process(&protocol.Statistics{})
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// GetKeyCount returns the total number of keys in the store.
func (c *BlockingClient) GetKeyCount() (uint64, error) {
	v, err := c.Process(&protocol.GetKeyCount{})
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}

// Confirm stores value under key unconditionally.
func (c *BlockingClient) Confirm(key, value []byte) error {
	_, err := c.Process(&protocol.Confirm{Key: key, Value: value})
	return err
}

// OptimizeDB requests the server compact its on-disk store.
func (c *BlockingClient) OptimizeDB() error {
	_, err := c.Process(&protocol.OptimizeDB{})
	return err
}

// DefragDB requests the server defragment its on-disk store.
func (c *BlockingClient) DefragDB() error {
	_, err := c.Process(&protocol.DefragDB{})
	return err
}

// DropMaster forces the current master to step down.
func (c *BlockingClient) DropMaster() error {
	_, err := c.Process(&protocol.DropMaster{})
	return err
}

// Sequence applies steps atomically. synced forces the master to fsync
// its transaction log before replying.
func (c *BlockingClient) Sequence(steps *sequence.Sequence, synced bool) error {
	encoded, err := sequence.Encode(steps)
	if err != nil {
		return err
	}
	_, err = c.Process(&protocol.Sequence{Encoded: encoded, Synced: synced})
	return err
}
