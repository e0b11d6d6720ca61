package signal

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisSink relays events to a Redis pub/sub channel so other processes of
// the same origin can react to logins and logouts. Publish failures are
// swallowed; cross-process delivery is best effort.
type RedisSink struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisSink publishes to channel, or to [DefaultChannel] when channel is
// empty.
func NewRedisSink(client redis.UniversalClient, channel string) *RedisSink {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Emit(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = s.client.Publish(ctx, s.channel, data).Err()
}

// SubscribeRedis consumes events published by other processes on channel and
// forwards them into out. Events carrying the local origin are skipped so a
// process never reacts to its own broadcasts. The goroutine exits when ctx is
// cancelled.
func SubscribeRedis(ctx context.Context, client redis.UniversalClient, channel, localOrigin string, out chan<- Event) error {
	sub := client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				if event.Origin == localOrigin {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}
