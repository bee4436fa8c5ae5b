// AngelaMos | 2026
// fanout.go

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisFanout shares events between API instances over a pub/sub channel.
type RedisFanout struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisFanout(
	client *redis.Client,
	channel string,
	logger *slog.Logger,
) *RedisFanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisFanout{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (f *RedisFanout) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := f.client.Publish(ctx, f.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// Run delivers every event on the channel to hub until ctx ends. It
// returns once the subscription is confirmed so callers can rely on it.
func (f *RedisFanout) Run(ctx context.Context, hub *Hub) error {
	sub := f.client.Subscribe(ctx, f.channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close() //nolint:errcheck // subscription never became usable
		return fmt.Errorf("subscribe %s: %w", f.channel, err)
	}

	go func() {
		defer sub.Close() //nolint:errcheck // best-effort on shutdown

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.Warn("discarding malformed realtime event",
						"channel", msg.Channel,
						"error", err,
					)
					continue
				}

				hub.Deliver(event)
			}
		}
	}()

	return nil
}

var _ Publisher = (*RedisFanout)(nil)
