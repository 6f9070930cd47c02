// Package services implements the panel-side domain services: theme
// generation and update (builder) and the bulk theme tools (swap, replace,
// sync). Every operation follows the same shape: compute the expected
// result count, register a completion tracker under a fresh correlation
// ref, fire the mutation commands, and fold the tracked results back into
// a structured theme.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Desynchronization and precondition errors surfaced to callers. Host-side
// failures never cross the channel; these are the panel's own judgments.
var (
	// ErrDesynchronized reports that an operation's results did not
	// aggregate into exactly one theme, which signals a host/panel bug
	// rather than a user error.
	ErrDesynchronized = errors.New("host and panel are out of sync")

	// ErrUnbalancedVariants reports a swap attempt on a theme whose light
	// and dark asset subsets differ in size. Rejected before any command
	// is sent: positional zipping is only sound when the counts match.
	ErrUnbalancedVariants = errors.New("light and dark color sets differ")

	// ErrNoSourceColor reports a theme whose source asset has no color
	// value to derive from.
	ErrNoSourceColor = errors.New("theme has no source color value")
)

// Progress phases reported to the notifier.
const (
	PhaseStarted   = "started"
	PhaseUpdated   = "updated"
	PhaseCompleted = "completed"
)

// Progress is a transient progress record scoped to one operation.
type Progress struct {
	Phase    string
	Message  string
	Loaded   int
	Total    int
	Fraction float64
	Ref      string
}

// Notifier consumes progress records. Implementations must be cheap; they
// run on the operation goroutine.
type Notifier func(Progress)

// Option configures a service.
type Option func(*messenger)

// WithTimeout bounds every operation with a per-operation deadline. The
// zero default preserves the protocol's original behavior: an operation
// whose results never arrive waits forever.
func WithTimeout(timeout time.Duration) Option {
	return func(m *messenger) {
		m.timeout = timeout
	}
}

// messenger is the shared base of the panel services: the outbound
// connection, the demultiplexing dispatcher and the progress notifier.
type messenger struct {
	conn    messaging.Conn
	disp    *messaging.Dispatcher
	notify  Notifier
	logger  hclog.Logger
	timeout time.Duration
}

func newMessenger(conn messaging.Conn, disp *messaging.Dispatcher, notify Notifier, logger hclog.Logger, opts []Option) messenger {
	if notify == nil {
		notify = func(Progress) {}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	m := messenger{conn: conn, disp: disp, notify: notify, logger: logger}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// send emits a panel-originated command.
func (m *messenger) send(msgType string, payload any) error {
	env, err := protocol.PanelMessage(msgType, payload)
	if err != nil {
		return err
	}
	return m.conn.Send(env)
}

// opContext applies the configured per-operation deadline, if any.
func (m *messenger) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(ctx, m.timeout)
	}
	return ctx, func() {}
}
