// Package messaging implements the asynchronous channel between the host
// and panel contexts: the raw duplex connection, a demultiplexing
// dispatcher that fans inbound traffic out by correlation ref, and the
// completion tracker that turns "N expected events" into one result.
package messaging

import (
	"errors"
	"sync"

	"github.com/thematic-dev/thematic/pkg/protocol"
)

// ErrConnClosed reports a send on a closed connection.
var ErrConnClosed = errors.New("connection closed")

// Conn is one end of a bidirectional envelope channel. There is no
// request/response primitive and no delivery acknowledgment; emission order
// from a single origin is preserved, interleaving across origins is not.
type Conn interface {
	// Send emits an envelope to the peer. It never blocks indefinitely on
	// a live peer; fire-and-forget semantics.
	Send(env protocol.Envelope) error

	// Receive returns the inbound envelope stream. The channel is closed
	// when the peer closes or the connection shuts down.
	Receive() <-chan protocol.Envelope

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// pipeEnd is one side of an in-memory duplex pair.
type pipeEnd struct {
	out chan<- protocol.Envelope
	in  <-chan protocol.Envelope

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Pipe returns a cross-connected in-memory connection pair, buffering up to
// buffer envelopes per direction. It models the host/panel channel when
// both contexts run in one process.
func Pipe(buffer int) (Conn, Conn) {
	if buffer <= 0 {
		buffer = 64
	}
	ab := make(chan protocol.Envelope, buffer)
	ba := make(chan protocol.Envelope, buffer)
	a := &pipeEnd{out: ab, in: ba, done: make(chan struct{})}
	b := &pipeEnd{out: ba, in: ab, done: make(chan struct{})}
	return a, b
}

func (p *pipeEnd) Send(env protocol.Envelope) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrConnClosed
	}
	p.mu.Unlock()

	select {
	case p.out <- env:
		return nil
	case <-p.done:
		return ErrConnClosed
	}
}

func (p *pipeEnd) Receive() <-chan protocol.Envelope {
	return p.in
}

func (p *pipeEnd) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)
	close(p.out)
	return nil
}
