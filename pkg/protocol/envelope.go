// Package protocol defines the message protocol spoken between the host
// context and the panel context. External host implementations should import
// this package instead of internal packages.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Known envelope sources. Every message names the context it was emitted
// from; receivers drop anything that does not come from their peer, because
// both ends may observe their own traffic echoed on a shared channel.
const (
	SourceHost  = "host"
	SourcePanel = "panel"
)

// Envelope is the wire shape shared by both contexts. Data is left raw until
// the type-directed Decode step.
type Envelope struct {
	Source string          `json:"source"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// HostMessage builds an envelope originating from the host context.
func HostMessage(msgType string, payload any) (Envelope, error) {
	return newMessage(SourceHost, msgType, payload)
}

// PanelMessage builds an envelope originating from the panel context.
func PanelMessage(msgType string, payload any) (Envelope, error) {
	return newMessage(SourcePanel, msgType, payload)
}

func newMessage(source, msgType string, payload any) (Envelope, error) {
	env := Envelope{Source: source, Type: msgType}
	if payload == nil {
		return env, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", msgType, err)
	}
	env.Data = data
	return env, nil
}
