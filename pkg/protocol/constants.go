package protocol

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current host protocol version.
	// Format: MAJOR.MINOR.PATCH.
	// - Increment MAJOR for breaking changes to the message catalogue.
	// - Increment MINOR for backward-compatible additions.
	// - Increment PATCH for backward-compatible bug fixes.
	ProtocolVersion = "0.1.0"
)

// Handshake is the handshake configuration used when the host context runs
// as an external process over go-plugin. It ensures host binaries can only
// connect to compatible panels.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "THEMATIC_HOST",
	MagicCookieValue: "thematic_theme_assets",
}
