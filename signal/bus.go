package signal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultChannel is the Redis channel and MQTT topic the bridge sinks use
// when constructed without one.
const DefaultChannel = "authgate:signals"

// Bus fans events out to attached sinks. Publish is synchronous: every sink
// observes the event, in attachment order, before Publish returns. The
// ordering contract lets a logout event be handled while the session that
// produced it is still readable.
type Bus struct {
	origin string

	mu    sync.RWMutex
	sinks []Sink
}

// NewBus creates a Bus with a unique origin identifier. Bridged consumers use
// the origin to recognize (and skip) events they published themselves.
func NewBus() *Bus {
	return &Bus{origin: uuid.NewString()}
}

// Origin returns the bus's unique publisher identifier.
func (b *Bus) Origin() string {
	return b.origin
}

// Attach registers a sink. Sinks attached during Publish see subsequent
// events only.
func (b *Bus) Attach(sink Sink) {
	if sink == nil {
		return
	}
	b.mu.Lock()
	b.sinks = append(b.sinks, sink)
	b.mu.Unlock()
}

// Publish stamps the event with the bus origin and current time, then
// delivers it to every sink in attachment order.
func (b *Bus) Publish(ctx context.Context, event Event) {
	event.Origin = b.origin
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	sinks := b.sinks
	b.mu.RUnlock()

	for _, sink := range sinks {
		sink.Emit(ctx, event)
	}
}

// Subscribe attaches a fresh ChannelSink and returns its receive side.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	sink := NewChannelSink(buffer)
	b.Attach(sink)
	return sink.Events()
}
