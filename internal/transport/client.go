package transport

import (
	"fmt"
	"io"
	"os/exec"

	hclog "github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Client owns a running host plugin process and the panel connection to it.
type Client struct {
	plugin *goplugin.Client
	conn   *rpcConn
}

// Connect launches the host binary at path, performs the go-plugin
// handshake and opens the bidirectional message channel.
func Connect(path string, logger hclog.Logger) (*Client, error) {
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "host-plugin",
			Output: io.Discard,
			Level:  hclog.Off,
		})
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: protocol.Handshake,
		Plugins: map[string]goplugin.Plugin{
			PluginName: &ChannelPlugin{},
		},
		Cmd:              exec.Command(path),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           logger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense channel plugin: %w", err)
	}

	conn, ok := raw.(*rpcConn)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("unexpected channel plugin type %T", raw)
	}
	if err := conn.open(); err != nil {
		client.Kill()
		return nil, err
	}

	return &Client{plugin: client, conn: conn}, nil
}

// Conn returns the panel-side message connection.
func (c *Client) Conn() messaging.Conn {
	return c.conn
}

// Close shuts down the connection and stops the host process.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.plugin.Kill()
	return err
}
