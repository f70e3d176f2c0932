package client

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/Incubaid/go-arakoon/pkg/arakoonerrors"
	"github.com/Incubaid/go-arakoon/pkg/protocol"
	"github.com/pion/logging"
)

// State is a connection's position in the Disconnected/Connected/
// Faulted lifecycle.
type State int

const (
	// Disconnected is the initial state, and the state returned to
	// immediately after any fault.
	Disconnected State = iota
	// Connected means the prologue has been sent and application
	// requests may be dispatched.
	Connected
	// Faulted is a transient state entered on I/O or protocol error
	// while the socket is being torn down; by the time faultLocked()
	// returns, the connection has settled back into Disconnected.
	Faulted
)

// Conn owns one TCP socket to an Arakoon node, exclusively: no two
// dispatchers may share a Conn without their own external locking.
type Conn struct {
	cfg Config
	log logging.LeveledLogger

	mu    sync.Mutex
	state State
	nc    net.Conn
}

// Dial opens a TCP connection to cfg.Endpoint and immediately sends
// the prologue. The connection is Connected on return, or the dial/
// prologue error is returned and the connection remains Disconnected.
func Dial(cfg Config) (*Conn, error) {
	nc, err := net.Dial("tcp", cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	c := &Conn{
		cfg:   cfg,
		log:   cfg.logger("arakoon-client"),
		state: Disconnected,
		nc:    nc,
	}

	prologue, err := protocol.Prologue(cfg.ClusterID)
	if err != nil {
		nc.Close()
		return nil, err
	}
	if _, err := nc.Write(prologue); err != nil {
		nc.Close()
		return nil, err
	}

	c.state = Connected
	if c.log != nil {
		c.log.Infof("connected to %s, cluster %q", cfg.Endpoint, cfg.ClusterID)
	}
	return c, nil
}

// State reports the connection's current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// withLock runs fn while holding the connection's exclusive lock,
// first checking the connection is Connected. Any error fn returns
// that is not an *arakoonerrors.ArakoonError faults the connection:
// the socket is closed and the state set to Disconnected before the
// error is returned to the caller.
func (c *Conn) withLock(fn func(nc net.Conn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Connected {
		return arakoonerrors.ErrNotConnected
	}

	err := fn(c.nc)
	if err == nil {
		return nil
	}

	var ae *arakoonerrors.ArakoonError
	if errors.As(err, &ae) {
		// Server-level errors don't corrupt the stream.
		return err
	}

	c.faultLocked(err)
	return err
}

// faultLocked closes the socket and transitions to Disconnected. The
// caller must hold c.mu.
func (c *Conn) faultLocked(cause error) {
	if c.log != nil {
		c.log.Warnf("connection faulted: %v", cause)
	}
	c.state = Faulted
	c.nc.Close()
	c.state = Disconnected
}

// Close tears down the connection unconditionally.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Disconnected {
		return nil
	}
	c.state = Disconnected
	return c.nc.Close()
}

// SetDeadline applies an I/O deadline to the underlying socket. A
// deadline that expires mid-exchange is treated as a transport error
// and is fatal to the connection, per the blocking dispatcher's
// contract.
func (c *Conn) SetDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected {
		return arakoonerrors.ErrNotConnected
	}
	return c.nc.SetDeadline(t)
}
