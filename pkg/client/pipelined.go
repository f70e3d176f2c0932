package client

import (
	"bytes"
	"errors"
	"net"
	"sync"

	"github.com/Incubaid/go-arakoon/pkg/arakoonerrors"
	"github.com/Incubaid/go-arakoon/pkg/codec"
	"github.com/Incubaid/go-arakoon/pkg/protocol"
	"github.com/pion/logging"
)

// ErrSpuriousReply is a protocol violation: bytes arrived while no
// request was outstanding. Fatal to the connection.
var ErrSpuriousReply = errors.New("arakoon: reply received with no outstanding request")

// Result is the outcome of one pipelined request, delivered on the
// channel returned by Submit.
type Result struct {
	Value any
	Err   error
}

type pending struct {
	msg      protocol.Message
	resultCh chan Result
}

// readState is which piece of a reply the current decoder is
// consuming: the leading result code, or the typed payload/error
// string that follows it.
type readState int

const (
	awaitCode readState = iota
	awaitResult
)

// Pipelined multiplexes many outstanding requests over one Conn. It
// does not read the socket itself: an external event loop feeds it
// bytes via FeedBytes as they arrive. This mirrors the source
// client's coroutine-driven protocol handler, reduced to an explicit
// push interface so it composes with any reactor.
type Pipelined struct {
	conn *Conn
	log  logging.LeveledLogger

	mu          sync.Mutex
	queue       []*pending
	state       readState
	dec         codec.Decoder
	pendingCode uint32
	buf         bytes.Buffer
	failed      error
}

// NewPipelined wraps an already-Connected Conn for pipelined dispatch.
func NewPipelined(conn *Conn, cfg Config) *Pipelined {
	return &Pipelined{
		conn:  conn,
		log:   cfg.logger("arakoon-pipelined"),
		state: awaitCode,
		dec:   codec.Uint32.NewDecoder(),
	}
}

// Submit encodes and writes msg, then appends it to the FIFO. It does
// not block on the reply; the returned channel receives exactly one
// Result once the reply has been fully decoded (or the connection
// fails).
func (p *Pipelined) Submit(msg protocol.Message) (<-chan Result, error) {
	p.mu.Lock()
	if p.failed != nil {
		p.mu.Unlock()
		return nil, p.failed
	}
	p.mu.Unlock()

	req, err := msg.Encode()
	if err != nil {
		return nil, err
	}

	if err := p.conn.withLock(func(nc net.Conn) error {
		_, err := nc.Write(req)
		return err
	}); err != nil {
		return nil, err
	}

	resultCh := make(chan Result, 1)
	p.mu.Lock()
	p.queue = append(p.queue, &pending{msg: msg, resultCh: resultCh})
	p.mu.Unlock()

	return resultCh, nil
}

// FeedBytes supplies bytes read from the socket by the caller's event
// loop. It advances the head-of-FIFO decoder as far as the available
// bytes allow, completing entries as their replies finish decoding. A
// decode error or a spurious reply with an empty FIFO faults the
// connection and fails every pending request.
func (p *Pipelined) FeedBytes(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failed != nil {
		return p.failed
	}

	p.buf.Write(data)

	for {
		if len(p.queue) == 0 && p.buf.Len() > 0 {
			err := error(ErrSpuriousReply)
			p.failLocked(err)
			return err
		}

		n := p.dec.Needed()
		if n == 0 {
			if err := p.advanceLocked(); err != nil {
				p.failLocked(err)
				return err
			}
			continue
		}
		if p.buf.Len() < n {
			return nil
		}

		chunk := make([]byte, n)
		p.buf.Read(chunk)
		if err := p.dec.Feed(chunk); err != nil {
			p.failLocked(err)
			return err
		}
	}
}

// advanceLocked transitions the state machine once the active decoder
// has produced a value: AwaitCode -> AwaitResult, or AwaitResult ->
// complete current entry and reset to AwaitCode. Caller holds p.mu.
func (p *Pipelined) advanceLocked() error {
	switch p.state {
	case awaitCode:
		code := p.dec.Value().(uint32)
		head := p.queue[0]
		if code == uint32(arakoonerrors.CodeSuccess) {
			p.dec = head.msg.ReturnType().NewDecoder()
		} else {
			p.dec = codec.String.NewDecoder()
		}
		p.pendingCode = code
		p.state = awaitResult
		return nil
	case awaitResult:
		head := p.queue[0]
		p.queue = p.queue[1:]
		if p.pendingCode == uint32(arakoonerrors.CodeSuccess) {
			head.resultCh <- Result{Value: p.dec.Value()}
		} else {
			msg := p.dec.Value().([]byte)
			head.resultCh <- Result{Err: arakoonerrors.FromCode(arakoonerrors.Code(p.pendingCode), string(msg))}
		}
		p.state = awaitCode
		p.dec = codec.Uint32.NewDecoder()
		return nil
	default:
		return nil
	}
}

// failLocked fails every queued request with cause, faults the
// underlying connection, and marks this dispatcher unusable for
// future Submit calls. Caller holds p.mu.
func (p *Pipelined) failLocked(cause error) {
	if p.failed != nil {
		return
	}
	p.failed = cause
	for _, entry := range p.queue {
		entry.resultCh <- Result{Err: cause}
	}
	p.queue = nil

	p.conn.mu.Lock()
	if p.conn.state == Connected {
		p.conn.faultLocked(cause)
	}
	p.conn.mu.Unlock()
}

// Fail fails every pending request with cause, as if the connection
// had been lost. Call this from the event loop when the socket read
// returns an error.
func (p *Pipelined) Fail(cause error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failLocked(cause)
}
