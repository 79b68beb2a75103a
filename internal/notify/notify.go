package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const guestChannel = "guests:changed"

// GuestEvent is published whenever a guest's booking record changes.
// The console uses it as a signal to re-run its count aggregation; the
// event itself carries no authoritative state.
type GuestEvent struct {
	GuestID          string `json:"guestId"`
	EpisodeID        string `json:"episodeId"`
	Status           string `json:"status"`
	SelectedTimeSlot string `json:"selectedTimeSlot,omitempty"`
}

// Broker defines the interface for the guest-change feed.
// It's implemented by RedisBroker, and can be mocked for testing.
type Broker interface {
	Publish(ctx context.Context, ev GuestEvent) error
	Subscribe(ctx context.Context) (<-chan GuestEvent, func())
}

// RedisBroker fans guest-change events out over a Redis pub/sub channel.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(addr string) *RedisBroker {
	return &RedisBroker{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (b *RedisBroker) Publish(ctx context.Context, ev GuestEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, guestChannel, payload).Err()
}

// Subscribe opens a subscription to the guest-change channel. The returned
// cancel func must be called when the consumer goes away; events that fire
// while nobody is subscribed are not replayed.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan GuestEvent, func()) {
	pubsub := b.client.Subscribe(ctx, guestChannel)
	events := make(chan GuestEvent)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var ev GuestEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error decoding guest event: %v", err)
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, func() { pubsub.Close() }
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
