package client

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/Incubaid/go-arakoon/pkg/arakoonerrors"
	"github.com/Incubaid/go-arakoon/pkg/codec"
	"github.com/Incubaid/go-arakoon/pkg/protocol"
	"github.com/pion/transport/v3/test"
)

// drainTag reads and discards a request's fixed-size leading prefix: the
// tag plus any flag byte that follows it (e.g. a dirty-read flag).
func drainTag(t *testing.T, server io.Reader, prefixLen int) {
	t.Helper()
	buf := make([]byte, prefixLen)
	if _, err := io.ReadFull(server, buf); err != nil {
		t.Fatalf("drain prefix: %v", err)
	}
}

func drainString(t *testing.T, server io.Reader) []byte {
	t.Helper()
	v, err := codec.Run(server, codec.String.NewDecoder())
	if err != nil {
		t.Fatalf("drain string: %v", err)
	}
	return v.([]byte)
}

// writeSuccessValue writes a success reply code followed by value
// encoded as typ. typ == codec.Unit means the reply carries no payload
// at all, since Unit is a zero-byte, decode-only marker.
func writeSuccessValue(t *testing.T, server io.Writer, typ codec.Type, value any) {
	t.Helper()
	code, err := codec.Uint32.Encode(0)
	if err != nil {
		t.Fatalf("encode code: %v", err)
	}
	if _, err := server.Write(code); err != nil {
		t.Fatalf("write code: %v", err)
	}
	if typ == codec.Unit {
		return
	}
	payload, err := typ.Encode(value)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	if _, err := server.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
}

// TestPipelinedCompletesInSubmissionOrder submits three requests back to
// back and feeds their replies in one combined chunk, mirroring an
// event loop that coalesces several inbound reads into one buffer. A
// background drain absorbs the outgoing request bytes in submission
// order, since net.Pipe is an unbuffered rendezvous and Submit's write
// would otherwise block with nothing reading the other end.
func TestPipelinedCompletesInSubmissionOrder(t *testing.T) {
	report := test.CheckRoutines(t)
	defer report()

	conn, server := newConnectedPair(Config{})
	defer conn.Close()

	p := NewPipelined(conn, Config{})

	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)

		// Get: tag(4) + dirty(1) + key string.
		drainTag(t, server, 5)
		drainString(t, server)

		// Delete: tag(4) + key string.
		drainTag(t, server, 4)
		drainString(t, server)

		// Set: tag(4) + key string + value string.
		drainTag(t, server, 4)
		drainString(t, server)
		drainString(t, server)
	}()

	getCh, err := p.Submit(&protocol.Get{Key: []byte("k10")})
	if err != nil {
		t.Fatalf("submit get: %v", err)
	}
	delCh, err := p.Submit(&protocol.Delete{Key: []byte("k11")})
	if err != nil {
		t.Fatalf("submit delete: %v", err)
	}
	setCh, err := p.Submit(&protocol.Set{Key: []byte("k1"), Value: []byte("v2")})
	if err != nil {
		t.Fatalf("submit set: %v", err)
	}

	select {
	case <-drainDone:
	case <-time.After(time.Second):
		t.Fatal("timed out draining requests")
	}

	var reply bytes.Buffer
	writeSuccessValue(t, &reply, codec.String, []byte("v10"))
	writeSuccessValue(t, &reply, codec.Unit, nil)
	writeSuccessValue(t, &reply, codec.Unit, nil)

	if err := p.FeedBytes(reply.Bytes()); err != nil {
		t.Fatalf("FeedBytes: %v", err)
	}

	select {
	case r := <-getCh:
		if r.Err != nil || !bytes.Equal(r.Value.([]byte), []byte("v10")) {
			t.Fatalf("get result: %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for get result")
	}

	select {
	case r := <-delCh:
		if r.Err != nil {
			t.Fatalf("delete result: %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delete result")
	}

	select {
	case r := <-setCh:
		if r.Err != nil {
			t.Fatalf("set result: %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for set result")
	}
}

func TestPipelinedFeedsPartialBytesAcrossCalls(t *testing.T) {
	conn, server := newConnectedPair(Config{})
	defer conn.Close()

	p := NewPipelined(conn, Config{})

	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		drainTag(t, server, 5)
		drainString(t, server)
	}()

	ch, err := p.Submit(&protocol.Get{Key: []byte("k")})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case <-drainDone:
	case <-time.After(time.Second):
		t.Fatal("timed out draining request")
	}

	var reply bytes.Buffer
	writeSuccessValue(t, &reply, codec.String, []byte("value"))

	// Feed one byte at a time to exercise the partial-buffer path.
	for _, b := range reply.Bytes() {
		if err := p.FeedBytes([]byte{b}); err != nil {
			t.Fatalf("FeedBytes: %v", err)
		}
	}

	select {
	case r := <-ch:
		if r.Err != nil || !bytes.Equal(r.Value.([]byte), []byte("value")) {
			t.Fatalf("result: %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func TestPipelinedSpuriousReplyFailsConnection(t *testing.T) {
	conn, _ := newConnectedPair(Config{})
	defer conn.Close()

	p := NewPipelined(conn, Config{})

	// Bytes arriving with an empty FIFO are a protocol violation
	// regardless of their content.
	err := p.FeedBytes([]byte{0xff, 0xff, 0xff, 0xff})
	if err == nil {
		t.Fatal("expected ErrSpuriousReply")
	}

	if conn.State() != Disconnected {
		t.Fatalf("expected connection to be Disconnected, got %v", conn.State())
	}
}

func TestPipelinedFailCancelsAllPending(t *testing.T) {
	conn, server := newConnectedPair(Config{})
	defer conn.Close()
	defer server.Close()

	p := NewPipelined(conn, Config{})

	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		drainTag(t, server, 5)
		drainString(t, server)
		drainTag(t, server, 5)
		drainString(t, server)
	}()

	ch1, err := p.Submit(&protocol.Get{Key: []byte("a")})
	if err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	ch2, err := p.Submit(&protocol.Get{Key: []byte("b")})
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}

	select {
	case <-drainDone:
	case <-time.After(time.Second):
		t.Fatal("timed out draining requests")
	}

	cause := arakoonerrors.ErrNotConnected
	p.Fail(cause)

	for _, ch := range []<-chan Result{ch1, ch2} {
		select {
		case r := <-ch:
			if r.Err == nil {
				t.Fatal("expected cancellation error")
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for cancellation")
		}
	}

	if _, err := p.Submit(&protocol.Get{Key: []byte("c")}); err == nil {
		t.Fatal("expected Submit to fail after Fail")
	}
}
