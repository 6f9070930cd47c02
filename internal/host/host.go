package host

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Host runs the host context: a single-goroutine loop that consumes panel
// commands, mutates the document and emits result events. Handlers never
// propagate errors across the channel; failures are logged locally and
// skipped, or reported through the result payload.
type Host struct {
	doc    *Document
	conn   messaging.Conn
	logger hclog.Logger
}

// New returns a host serving doc over conn.
func New(doc *Document, conn messaging.Conn, logger hclog.Logger) *Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Host{doc: doc, conn: conn, logger: logger.Named("host")}
}

// Document returns the document the host serves.
func (h *Host) Document() *Document {
	return h.doc
}

// Run consumes panel commands until the context is canceled or the channel
// closes.
func (h *Host) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-h.conn.Receive():
			if !ok {
				return nil
			}
			h.Handle(env)
		}
	}
}

// Handle processes a single inbound envelope. Anything not originating
// from the panel is ignored.
func (h *Host) Handle(env protocol.Envelope) {
	if env.Source != protocol.SourcePanel {
		return
	}

	payload, err := protocol.Decode(env)
	if err != nil {
		h.logger.Warn("ignoring undecodable command", "type", env.Type, "error", err)
		return
	}

	switch env.Type {
	case protocol.TypeCreateColor:
		data := payload.(protocol.ColorData)
		h.createColor(data.Color, data.Ref)
	case protocol.TypeCreateColors:
		data := payload.(protocol.ColorsData)
		for _, color := range data.Colors {
			h.createColor(color, data.Ref)
		}
	case protocol.TypeUpdateColor:
		data := payload.(protocol.ColorData)
		h.updateColor(data.Color, data.Ref)
	case protocol.TypeUpdateColors:
		data := payload.(protocol.ColorsData)
		for _, color := range data.Colors {
			h.updateColor(color, data.Ref)
		}
	case protocol.TypeRemoveColor:
		data := payload.(protocol.ColorData)
		h.removeColor(data.Color, data.Ref)
	case protocol.TypeRemoveColors:
		data := payload.(protocol.ColorsData)
		for _, color := range data.Colors {
			h.removeColor(color, data.Ref)
		}
	case protocol.TypeLoadLocalLibraryColors:
		h.loadLibraryColors()
	case protocol.TypeUpdatePageColors:
		data := payload.(protocol.SwapColorsData)
		h.recolorShapes(h.doc.Shapes(), data.Mappings, data.Ref)
	case protocol.TypeUpdateSelectionColors:
		data := payload.(protocol.SwapColorsData)
		selection := h.doc.Selection()
		if len(selection) == 0 {
			h.logger.Error("current selection is empty")
			return
		}
		h.recolorShapes(selection, data.Mappings, data.Ref)
	case protocol.TypeDeleteLibraryTheme:
		data := payload.(protocol.DeleteThemeData)
		h.logger.Warn("theme deletion is not supported by the host, skipping",
			"theme", data.ThemeName, "ref", data.Ref)
	default:
		h.logger.Debug("no handler for command", "type", env.Type)
	}
}

// SetSelection updates the document selection and notifies the panel.
func (h *Host) SetSelection(ids []string) {
	h.doc.SetSelection(ids)
	shapes := make([]protocol.ShapeInfo, 0, len(ids))
	for _, s := range h.doc.Selection() {
		shapes = append(shapes, protocol.ShapeInfo{ID: s.ID, Name: s.Name})
	}
	h.send(protocol.TypeSelectionChanged, protocol.ShapesData{Shapes: shapes})
}

// SetAppearance updates the host appearance and notifies the panel.
func (h *Host) SetAppearance(appearance string) {
	h.doc.SetAppearance(appearance)
	h.send(protocol.TypeThemeChanged, protocol.ThemeData{Theme: appearance})
}

func (h *Host) createColor(color protocol.Asset, ref string) {
	created := h.doc.CreateAsset(color)
	h.send(protocol.TypeColorCreated, protocol.ColorData{Color: created, Ref: ref})
}

func (h *Host) updateColor(color protocol.Asset, ref string) {
	updated, ok := h.doc.UpdateAsset(color)
	if !ok {
		h.logger.Warn("color not found", "id", color.ID)
		return
	}
	h.send(protocol.TypeColorUpdated, protocol.ColorData{Color: updated, Ref: ref})
}

func (h *Host) removeColor(color protocol.Asset, ref string) {
	// The host asset API has no delete primitive; acknowledge so the
	// operation can complete.
	h.logger.Warn("host does not support asset removal, skipping", "id", color.ID)
	h.send(protocol.TypeColorRemoved, protocol.ColorData{Color: color, Ref: ref})
}

func (h *Host) loadLibraryColors() {
	colors := h.doc.Assets()
	h.send(protocol.TypeLibraryColorsFetched, protocol.ColorsData{Colors: colors})
	// The sandbox document has a single library, so the all-libraries view
	// is identical.
	h.send(protocol.TypeAllLibraryColorsFetched, protocol.ColorsData{Colors: colors})
}

func (h *Host) send(msgType string, payload any) {
	env, err := protocol.HostMessage(msgType, payload)
	if err != nil {
		h.logger.Error("failed to encode event", "type", msgType, "error", err)
		return
	}
	if err := h.conn.Send(env); err != nil {
		h.logger.Error("failed to send event", "type", msgType, "error", err)
	}
}
