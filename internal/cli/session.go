package cli

import (
	"context"
	"fmt"
	"os"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/thematic-dev/thematic/internal/host"
	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/internal/services"
	"github.com/thematic-dev/thematic/internal/transport"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// session assembles the runtime behind every theme command: a host (local
// document or external plugin process), the message connection to it, and
// the dispatcher the services demultiplex through.
type session struct {
	logger hclog.Logger
	disp   *messaging.Dispatcher
	conn   messaging.Conn

	doc    *host.Document
	cancel context.CancelFunc
	client *transport.Client
}

// newSession wires the panel side up. With --host-plugin the host runs as
// an external process over RPC; otherwise a local document host runs
// in-process on a message pipe, seeded from --document when given.
func newSession(ctx context.Context) (*session, error) {
	level := hclog.Warn
	if flagVerbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "thematic",
		Output: os.Stderr,
		Level:  level,
	})

	s := &session{logger: logger}

	if flagHostPlugin != "" {
		client, err := transport.Connect(flagHostPlugin, logger.Named("transport"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to host plugin: %w", err)
		}
		s.client = client
		s.conn = client.Conn()
	} else {
		doc, err := loadDocument()
		if err != nil {
			return nil, err
		}
		s.doc = doc

		runCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel

		hostEnd, panelEnd := messaging.Pipe(0)
		h := host.New(doc, hostEnd, logger)
		go func() {
			defer hostEnd.Close()
			_ = h.Run(runCtx)
		}()
		s.conn = panelEnd
	}

	s.disp = messaging.NewDispatcher(s.conn, protocol.SourceHost, logger.Named("dispatch"))
	return s, nil
}

// Close tears the session down and, for a local document with --save set,
// writes the snapshot back.
func (s *session) Close() error {
	s.disp.Close()
	if s.cancel != nil {
		s.cancel()
	}
	if s.client != nil {
		return s.client.Close()
	}
	if err := s.conn.Close(); err != nil && err != messaging.ErrConnClosed {
		return err
	}
	if s.doc != nil {
		return saveDocument(s.doc)
	}
	return nil
}

// saveDocument writes the document snapshot to --save, when set.
func saveDocument(doc *host.Document) error {
	if flagSave == "" {
		return nil
	}
	if err := host.SaveSnapshot(doc, flagSave); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// requireSelection rejects selection-scoped operations when the document's
// selection is known to be empty. The host refuses an empty selection
// without emitting any event, so without this check the operation would
// wait for results that never arrive. With an external host plugin the
// selection is not observable up front; --timeout bounds that case.
func (s *session) requireSelection() error {
	if s.doc != nil && len(s.doc.SelectionIDs()) == 0 {
		return fmt.Errorf("current selection is empty, select shapes first or drop --selection")
	}
	return nil
}

func (s *session) serviceOpts() []services.Option {
	if flagTimeout > 0 {
		return []services.Option{services.WithTimeout(flagTimeout)}
	}
	return nil
}

func (s *session) panel() *services.Panel {
	return services.NewPanel(s.conn, s.disp, newProgressNotifier(), s.logger, s.serviceOpts()...)
}

func (s *session) builder() *services.Builder {
	return services.NewBuilder(s.conn, s.disp, newProgressNotifier(), s.logger, s.serviceOpts()...)
}

func (s *session) tools() *services.Tools {
	return services.NewTools(s.conn, s.disp, newProgressNotifier(), s.logger, s.serviceOpts()...)
}

// loadDocument builds the local host document: the snapshot from
// --document when given, an empty document otherwise.
func loadDocument() (*host.Document, error) {
	if flagDocument == "" {
		return host.NewDocument(), nil
	}
	doc, err := host.LoadSnapshot(flagDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %q: %w", flagDocument, err)
	}
	return doc, nil
}
