// Package transport carries message envelopes between the panel process
// and a host process over hashicorp's go-plugin net/rpc channel. The host
// binary is the plugin: the panel sends envelopes as RPC calls, and the
// host delivers its envelopes back over a MuxBroker reverse stream.
package transport

import (
	"fmt"
	"net/rpc"
	"sync"

	goplugin "github.com/hashicorp/go-plugin"

	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// PluginName is the dispense key for the message channel plugin.
const PluginName = "channel"

// receiveBuffer sizes the client-side delivery channel. It must absorb the
// largest host burst between reads of the dispatcher loop.
const receiveBuffer = 512

// ChannelPlugin implements the go-plugin Plugin interface for the message
// channel. On the host side Impl is the host-facing end of a message pipe;
// on the panel side it is unused.
type ChannelPlugin struct {
	goplugin.Plugin
	Impl messaging.Conn
}

// Server returns the RPC server backed by the host-facing pipe end.
func (p *ChannelPlugin) Server(b *goplugin.MuxBroker) (any, error) {
	return &channelServer{broker: b, conn: p.Impl}, nil
}

// Client returns the panel-side connection. Callers must open the reverse
// delivery stream before reading from it; see Connect.
func (p *ChannelPlugin) Client(b *goplugin.MuxBroker, c *rpc.Client) (any, error) {
	return &rpcConn{
		broker: b,
		client: c,
		recv:   make(chan protocol.Envelope, receiveBuffer),
		done:   make(chan struct{}),
	}, nil
}

// channelServer is the host-process RPC surface: Send pushes a panel
// envelope into the host, Open establishes the reverse stream that carries
// host envelopes back to the panel.
type channelServer struct {
	broker *goplugin.MuxBroker
	conn   messaging.Conn
}

// Send delivers one panel envelope to the host.
func (s *channelServer) Send(env protocol.Envelope, _ *struct{}) error {
	return s.conn.Send(env)
}

// Open dials the broker stream the client accepted and starts forwarding
// every host envelope to it as a Deliver call.
func (s *channelServer) Open(id uint32, _ *struct{}) error {
	stream, err := s.broker.Dial(id)
	if err != nil {
		return fmt.Errorf("failed to dial delivery stream: %w", err)
	}
	go s.forward(rpc.NewClient(stream))
	return nil
}

func (s *channelServer) forward(client *rpc.Client) {
	defer client.Close()
	for env := range s.conn.Receive() {
		if err := client.Call("Plugin.Deliver", env, new(struct{})); err != nil {
			return
		}
	}
}

// rpcConn is the panel-side messaging.Conn over the RPC channel.
type rpcConn struct {
	broker *goplugin.MuxBroker
	client *rpc.Client

	mu     sync.Mutex
	closed bool
	recv   chan protocol.Envelope
	done   chan struct{}
}

// open registers the reverse delivery stream with the host.
func (c *rpcConn) open() error {
	id := c.broker.NextId()
	go c.broker.AcceptAndServe(id, &deliverServer{conn: c})
	if err := c.client.Call("Plugin.Open", id, new(struct{})); err != nil {
		return fmt.Errorf("failed to open delivery stream: %w", err)
	}
	return nil
}

// Send implements messaging.Conn.
func (c *rpcConn) Send(env protocol.Envelope) error {
	select {
	case <-c.done:
		return messaging.ErrConnClosed
	default:
	}
	return c.client.Call("Plugin.Send", env, new(struct{}))
}

// Receive implements messaging.Conn.
func (c *rpcConn) Receive() <-chan protocol.Envelope {
	return c.recv
}

// Close implements messaging.Conn. The plugin process itself is stopped by
// the owning Client.
func (c *rpcConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	close(c.recv)
	return nil
}

// deliver hands one host envelope to the receive channel, dropping it when
// the connection has been closed.
func (c *rpcConn) deliver(env protocol.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.recv <- env
}

// deliverServer is the client-side RPC surface of the reverse stream.
type deliverServer struct {
	conn *rpcConn
}

// Deliver receives one host envelope.
func (s *deliverServer) Deliver(env protocol.Envelope, _ *struct{}) error {
	s.conn.deliver(env)
	return nil
}
