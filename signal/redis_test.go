package signal

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisBridgeRelaysBetweenProcesses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := newTestRedis(t)
	const channel = "authgate:signals"

	// "Process A" publishes through a bus with a Redis sink.
	busA := NewBus()
	busA.Attach(NewRedisSink(rdb, channel))

	// "Process B" consumes, filtering its own origin.
	busB := NewBus()
	incoming := make(chan Event, 4)
	if err := SubscribeRedis(ctx, rdb, channel, busB.Origin(), incoming); err != nil {
		t.Fatalf("SubscribeRedis failed: %v", err)
	}

	busA.Publish(ctx, Event{Type: TypeLogout, UserID: "user-1"})

	select {
	case event := <-incoming:
		if event.Type != TypeLogout || event.UserID != "user-1" {
			t.Fatalf("unexpected event %+v", event)
		}
		if event.Origin != busA.Origin() {
			t.Fatalf("origin = %q, want publisher's", event.Origin)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not relayed")
	}
}

func TestRedisSinkDefaultsTheChannel(t *testing.T) {
	if sink := NewRedisSink(nil, ""); sink.channel != DefaultChannel {
		t.Fatalf("channel = %q, want %q", sink.channel, DefaultChannel)
	}
	if sink := NewRedisSink(nil, "farm:bus"); sink.channel != "farm:bus" {
		t.Fatalf("channel = %q, want explicit override", sink.channel)
	}
}

func TestRedisBridgeSkipsOwnEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := newTestRedis(t)
	const channel = "authgate:signals"

	bus := NewBus()
	bus.Attach(NewRedisSink(rdb, channel))

	incoming := make(chan Event, 4)
	if err := SubscribeRedis(ctx, rdb, channel, bus.Origin(), incoming); err != nil {
		t.Fatalf("SubscribeRedis failed: %v", err)
	}

	bus.Publish(ctx, Event{Type: TypeAuthEstablished, UserID: "user-1"})

	select {
	case event := <-incoming:
		t.Fatalf("own event relayed back: %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}
