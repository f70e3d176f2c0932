package client

import (
	"net"

	"github.com/Incubaid/go-arakoon/pkg/arakoonerrors"
	"github.com/Incubaid/go-arakoon/pkg/codec"
	"github.com/Incubaid/go-arakoon/pkg/protocol"
	"github.com/pion/logging"
)

// BlockingClient drives one Conn with a synchronous, mutex-guarded
// write-then-read cycle: only one request is ever in flight. Safe for
// concurrent use; concurrent callers queue on the connection's lock.
type BlockingClient struct {
	conn *Conn
	log  logging.LeveledLogger
}

// NewBlockingClient wraps an already-Connected Conn.
func NewBlockingClient(conn *Conn, cfg Config) *BlockingClient {
	return &BlockingClient{conn: conn, log: cfg.logger("arakoon-blocking")}
}

// Process writes msg and blocks until its reply has been fully
// decoded. A non-zero reply code surfaces as an *arakoonerrors.
// ArakoonError and leaves the connection usable; any I/O or protocol
// error faults the connection.
func (c *BlockingClient) Process(msg protocol.Message) (any, error) {
	req, err := msg.Encode()
	if err != nil {
		return nil, err
	}

	var result any

	err = c.conn.withLock(func(nc net.Conn) error {
		if _, err := nc.Write(req); err != nil {
			return err
		}

		code, err := codec.Run(nc, codec.Uint32.NewDecoder())
		if err != nil {
			return err
		}

		if code.(uint32) == uint32(arakoonerrors.CodeSuccess) {
			value, err := codec.Run(nc, msg.ReturnType().NewDecoder())
			if err != nil {
				return err
			}
			result = value
			return nil
		}

		rawMsg, err := codec.Run(nc, codec.String.NewDecoder())
		if err != nil {
			return err
		}
		return arakoonerrors.FromCode(arakoonerrors.Code(code.(uint32)), string(rawMsg.([]byte)))
	})

	return result, err
}
