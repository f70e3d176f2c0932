package client

import "net"

// newConnectedPair returns a Conn already in the Connected state, wired
// to a net.Pipe whose server side is returned for a test to drive
// directly -- standing in for a real Arakoon node without touching the
// network.
func newConnectedPair(cfg Config) (*Conn, net.Conn) {
	clientSide, serverSide := net.Pipe()
	c := &Conn{
		cfg:   cfg,
		state: Connected,
		nc:    clientSide,
	}
	return c, serverSide
}
