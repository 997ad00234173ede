package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/playperu/crocodile/internal/crocodile"
)

// allKinds subscribes to every event kind.
const allKinds = ""

// Message is one encoded game event queued for a subscriber.
type Message struct {
	Kind string
	Data []byte
}

// Broker is an in-process pub/sub for game events, keyed by event kind.
// It implements game.Notifier.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Message]struct{}
	logger *slog.Logger
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		subs:   make(map[string]map[chan Message]struct{}),
		logger: logger,
	}
}

// Subscribe returns a channel receiving events of the given kind, or of
// every kind when kind is empty.
func (b *Broker) Subscribe(kind string) chan Message {
	ch := make(chan Message, 16)
	b.mu.Lock()
	if b.subs[kind] == nil {
		b.subs[kind] = make(map[chan Message]struct{})
	}
	b.subs[kind][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(kind string, ch chan Message) {
	b.mu.Lock()
	delete(b.subs[kind], ch)
	if len(b.subs[kind]) == 0 {
		delete(b.subs, kind)
	}
	b.mu.Unlock()
}

// Notify publishes events to their kind's subscribers and to those
// listening to everything. It never blocks the caller.
func (b *Broker) Notify(events ...crocodile.Event) {
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			b.logger.Error("encoding event", "kind", ev.Kind(), "error", err)
			continue
		}
		b.publish(Message{Kind: ev.Kind(), Data: data})
	}
}

func (b *Broker) publish(msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, kind := range []string{msg.Kind, allKinds} {
		for ch := range b.subs[kind] {
			select {
			case ch <- msg:
			default:
				// Drop if subscriber is slow.
			}
		}
	}
}
