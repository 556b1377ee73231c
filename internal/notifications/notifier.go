package notifications

import (
	"context"
	"encoding/json"
	"log"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// feedChannel carries content-change signals between instances. The payload
// names the kind of change ("post_published", "post_updated", ...) but
// receivers only use it for logging; any signal triggers a full rebuild.
const feedChannel = "feed:changed"

// feedSignal is the wire form of a feed-change message. Origin identifies
// the publishing instance so it can skip its own signals; the publisher
// already rebuilt its snapshots locally.
type feedSignal struct {
	Origin string `json:"origin"`
	Kind   string `json:"kind"`
}

// Notifier publishes content-change signals into Redis so every instance
// rebuilds its feed snapshots, not just the one that handled the write.
// A nil Redis client disables cross-instance signalling without error.
type Notifier struct {
	rdb      *redis.Client
	instance string
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb, instance: uuid.NewString()}
}

// PublishFeedChanged signals a content change to all other instances.
func (n *Notifier) PublishFeedChanged(ctx context.Context, kind string) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(feedSignal{Origin: n.instance, Kind: kind})
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, feedChannel, payload).Err()
}

// StartFeedSubscriber subscribes to the feed channel and calls onChange for
// each signal published by another instance. Signals this Notifier published
// itself are dropped.
func (n *Notifier) StartFeedSubscriber(
	ctx context.Context, onChange func(kind string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, feedChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var sig feedSignal
				if err := json.Unmarshal([]byte(msg.Payload), &sig); err != nil {
					// Unknown payload shape; rebuilding is still the
					// safe response.
					sig = feedSignal{Kind: msg.Payload}
				}
				if sig.Origin == n.instance {
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in FeedSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onChange(sig.Kind)
				}()
			}
		}
	}()

	return nil
}
