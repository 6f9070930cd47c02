package transport

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/thematic-dev/thematic/internal/host"
	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Serve runs the host side of the channel: the document host loop on one
// end of an in-process pipe, the go-plugin RPC server on the other. It
// blocks until the panel disconnects.
func Serve(ctx context.Context, doc *host.Document, logger hclog.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hostEnd, panelEnd := messaging.Pipe(0)
	h := host.New(doc, hostEnd, logger)
	go func() {
		defer hostEnd.Close()
		_ = h.Run(ctx)
	}()

	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: protocol.Handshake,
		Plugins: map[string]goplugin.Plugin{
			PluginName: &ChannelPlugin{Impl: panelEnd},
		},
		Logger: logger,
	})
}
