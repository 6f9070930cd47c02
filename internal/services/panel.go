package services

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/internal/theme"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Library is the result of a library fetch: the local assets aggregated
// into themes, plus the full asset list including shared libraries.
type Library struct {
	Themes []theme.Theme
	All    []protocol.Asset
}

// Panel provides the library fetch and the unsolicited host event feeds.
type Panel struct {
	messenger
}

// NewPanel returns a panel service speaking over conn, demultiplexing
// results through disp.
func NewPanel(conn messaging.Conn, disp *messaging.Dispatcher, notify Notifier, logger hclog.Logger, opts ...Option) *Panel {
	return &Panel{messenger: newMessenger(conn, disp, notify, logger, opts)}
}

// LoadThemes asks the host for its color libraries and waits for both
// answers: the local library, aggregated into themes, and the combined
// asset list. Fetch results carry no correlation ref, so the answers are
// matched by type alone.
func (p *Panel) LoadThemes(ctx context.Context) (*Library, error) {
	ctx, cancel := p.opContext(ctx)
	defer cancel()

	sub := p.disp.SubscribeType(
		protocol.TypeLibraryColorsFetched,
		protocol.TypeAllLibraryColorsFetched,
	)
	defer sub.Cancel()

	p.notify(Progress{Phase: PhaseStarted, Message: "Loading library colors..."})

	if err := p.send(protocol.TypeLoadLocalLibraryColors, protocol.EmptyData{}); err != nil {
		return nil, err
	}

	var lib Library
	haveLocal, haveAll := false, false
	for !haveLocal || !haveAll {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, fmt.Errorf("library fetch incomplete: %w", messaging.ErrTimeout)
			}
			return nil, ctx.Err()
		case event, ok := <-sub.C:
			if !ok {
				return nil, messaging.ErrConnClosed
			}
			data, isColors := event.Payload.(protocol.ColorsData)
			if !isColors {
				continue
			}
			switch event.Envelope.Type {
			case protocol.TypeLibraryColorsFetched:
				lib.Themes = theme.MapAssetsToThemes(data.Colors)
				haveLocal = true
			case protocol.TypeAllLibraryColorsFetched:
				lib.All = data.Colors
				haveAll = true
			}
		}
	}

	p.notify(Progress{Phase: PhaseCompleted, Message: fmt.Sprintf("Loaded %d themes.", len(lib.Themes))})
	return &lib, nil
}

// Watch delivers the host's unsolicited events until ctx is canceled.
// onSelection receives the shapes of each selection change, onTheme the
// appearance name of each theme change. Either callback may be nil.
func (p *Panel) Watch(ctx context.Context, onSelection func([]protocol.ShapeInfo), onTheme func(string)) error {
	sub := p.disp.SubscribeType(
		protocol.TypeSelectionChanged,
		protocol.TypeThemeChanged,
	)
	defer sub.Cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-sub.C:
			if !ok {
				return messaging.ErrConnClosed
			}
			switch data := event.Payload.(type) {
			case protocol.ShapesData:
				if onSelection != nil {
					onSelection(data.Shapes)
				}
			case protocol.ThemeData:
				if onTheme != nil {
					onTheme(data.Theme)
				}
			}
		}
	}
}
