package messaging

import (
	"errors"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Event is one accepted inbound envelope together with its decoded payload.
type Event struct {
	Envelope protocol.Envelope
	Payload  protocol.Payload
}

// Subscription is a registered interest in a slice of the inbound traffic.
// The owner must call Cancel when done; an abandoned subscription
// eventually stalls the dispatcher once its buffer fills.
type Subscription struct {
	// C delivers accepted events in arrival order.
	C <-chan Event

	ch     chan Event
	done   chan struct{}
	once   sync.Once
	remove func()
}

// Cancel deregisters the subscription. Events already buffered remain
// readable on C.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.remove()
		close(s.done)
	})
}

// Dispatcher owns a connection's inbound stream and demultiplexes it: one
// persistent consumer goroutine fans events out to a registry of pending
// operations keyed by correlation ref, plus type-keyed subscriptions for
// unsolicited traffic. This replaces the per-operation add/remove-listener
// pattern with map entry insert/remove, so no listener can leak past its
// subscription.
type Dispatcher struct {
	conn       Conn
	peerSource string
	logger     hclog.Logger

	mu       sync.Mutex
	byRef    map[string][]*refSub
	byType   map[string][]*Subscription
	closed   bool
	stopped  chan struct{}
	stopOnce sync.Once
}

type refSub struct {
	sub   *Subscription
	types map[string]struct{}
}

// NewDispatcher starts a dispatcher on conn, accepting only envelopes whose
// source equals peerSource. Envelopes with the wrong source are dropped
// before any payload is decoded.
func NewDispatcher(conn Conn, peerSource string, logger hclog.Logger) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	d := &Dispatcher{
		conn:       conn,
		peerSource: peerSource,
		logger:     logger.Named("dispatcher"),
		byRef:      make(map[string][]*refSub),
		byType:     make(map[string][]*Subscription),
		stopped:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Register subscribes to events carrying the given correlation ref whose
// type is one of types. Registration must happen before the commands that
// produce the events are sent, so no result can arrive unobserved.
func (d *Dispatcher) Register(ref string, types ...string) *Subscription {
	typeSet := make(map[string]struct{}, len(types))
	for _, t := range types {
		typeSet[t] = struct{}{}
	}

	sub := d.newSubscription()
	entry := &refSub{sub: sub, types: typeSet}
	sub.remove = func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.byRef[ref] = removeRefSub(d.byRef[ref], entry)
		if len(d.byRef[ref]) == 0 {
			delete(d.byRef, ref)
		}
	}

	d.mu.Lock()
	d.byRef[ref] = append(d.byRef[ref], entry)
	d.mu.Unlock()
	return sub
}

// SubscribeType subscribes to every accepted event of the given types,
// regardless of correlation ref. Used for unsolicited host traffic such as
// selection changes and library fetch results.
func (d *Dispatcher) SubscribeType(types ...string) *Subscription {
	sub := d.newSubscription()
	sub.remove = func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for _, t := range types {
			d.byType[t] = removeSub(d.byType[t], sub)
			if len(d.byType[t]) == 0 {
				delete(d.byType, t)
			}
		}
	}

	d.mu.Lock()
	for _, t := range types {
		d.byType[t] = append(d.byType[t], sub)
	}
	d.mu.Unlock()
	return sub
}

// Close stops the dispatch loop. Pending subscriptions stop receiving but
// stay readable until drained.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.stopped)
	})
}

func (d *Dispatcher) run() {
	for {
		select {
		case <-d.stopped:
			return
		case env, ok := <-d.conn.Receive():
			if !ok {
				return
			}
			d.dispatch(env)
		}
	}
}

func (d *Dispatcher) dispatch(env protocol.Envelope) {
	if env.Source != d.peerSource {
		return
	}

	payload, err := protocol.Decode(env)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownMessage) {
			d.logger.Debug("ignoring unrecognized message", "type", env.Type)
		} else {
			d.logger.Warn("dropping malformed message", "type", env.Type, "error", err)
		}
		return
	}

	event := Event{Envelope: env, Payload: payload}

	d.mu.Lock()
	var targets []*Subscription
	if ref := protocol.RefOf(payload); ref != "" {
		for _, entry := range d.byRef[ref] {
			if _, ok := entry.types[env.Type]; ok {
				targets = append(targets, entry.sub)
			}
		}
	}
	targets = append(targets, d.byType[env.Type]...)
	d.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- event:
		case <-sub.done:
		case <-d.stopped:
			return
		}
	}
}

// subscriptionBuffer is sized to hold the largest single-operation result
// burst (a full theme generation) without the consumer keeping pace.
const subscriptionBuffer = 512

func (d *Dispatcher) newSubscription() *Subscription {
	ch := make(chan Event, subscriptionBuffer)
	return &Subscription{C: ch, ch: ch, done: make(chan struct{})}
}

func removeRefSub(entries []*refSub, target *refSub) []*refSub {
	for i, entry := range entries {
		if entry == target {
			return append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}

func removeSub(subs []*Subscription, target *Subscription) []*Subscription {
	for i, sub := range subs {
		if sub == target {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}
