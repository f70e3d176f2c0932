// Package client owns the TCP connection lifecycle to a single Arakoon
// node and the two dispatcher shapes that sit on top of it: a blocking
// dispatcher that serializes one request/response cycle at a time
// behind a mutex, and a pipelined dispatcher that multiplexes many
// outstanding requests over one socket via an in-order FIFO, for
// integration with an external event loop.
//
// Neither dispatcher implements cluster topology discovery or master
// failover: callers connect to a single pre-selected endpoint, per the
// driver's scope.
package client

import "github.com/pion/logging"

// Config configures a connection to one Arakoon node.
type Config struct {
	// ClusterID must match the server's configured cluster identity.
	// Sent in the prologue and the Hello handshake.
	ClusterID []byte

	// ClientID identifies this client in the Hello handshake.
	ClientID []byte

	// Endpoint is the node's address, e.g. "10.0.0.1:4922".
	Endpoint string

	// LoggerFactory builds the scoped loggers used by the connection
	// and dispatchers. If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

func (c Config) logger(scope string) logging.LeveledLogger {
	if c.LoggerFactory == nil {
		return nil
	}
	return c.LoggerFactory.NewLogger(scope)
}
