package messaging

import (
	"context"
	"errors"
	"fmt"
)

// ErrTimeout reports a completion tracker whose deadline expired before the
// expected number of results arrived.
var ErrTimeout = errors.New("operation timed out awaiting results")

// TrackSpec describes one logical operation's completion condition: how
// many result events of which types, correlated by which ref, constitute
// completion.
type TrackSpec struct {
	// Ref is the correlation token every counted event must carry.
	Ref string

	// Expected is the number of matching events that completes the
	// operation. It must be computed before any command is sent.
	Expected int

	// Types are the message types that count as results.
	Types []string

	// OnProgress, if set, is invoked once per accepted event with the new
	// loaded count and the expected total. loaded never exceeds total.
	OnProgress func(loaded, total int)
}

// Tracker accumulates the result events of one operation until the
// expected count is reached. Create it with Dispatcher.Track before sending
// the operation's commands; resolve it with Wait.
type Tracker struct {
	spec TrackSpec
	sub  *Subscription
}

// Track registers a tracker for spec. A zero expected count short-circuits:
// no subscription is registered at all and Wait resolves immediately.
func (d *Dispatcher) Track(spec TrackSpec) *Tracker {
	t := &Tracker{spec: spec}
	if spec.Expected > 0 {
		t.sub = d.Register(spec.Ref, spec.Types...)
	}
	return t
}

// Cancel deregisters the tracker without waiting for completion.
func (t *Tracker) Cancel() {
	if t.sub != nil {
		t.sub.Cancel()
	}
}

// Wait blocks until the expected number of events has been accepted and
// returns them in arrival order. Context cancellation deregisters the
// tracker and returns ErrTimeout on a deadline, or the context error
// otherwise. With a plain background context an operation whose results
// never arrive waits forever, matching the channel's lack of any
// acknowledgment layer.
func (t *Tracker) Wait(ctx context.Context) ([]Event, error) {
	if t.spec.Expected <= 0 {
		return nil, nil
	}
	defer t.sub.Cancel()

	events := make([]Event, 0, t.spec.Expected)
	for len(events) < t.spec.Expected {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return events, fmt.Errorf("%w: %d of %d results", ErrTimeout, len(events), t.spec.Expected)
			}
			return events, ctx.Err()
		case event := <-t.sub.C:
			events = append(events, event)
			if t.spec.OnProgress != nil {
				t.spec.OnProgress(len(events), t.spec.Expected)
			}
		}
	}
	return events, nil
}
