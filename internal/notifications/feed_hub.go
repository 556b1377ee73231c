// Package notifications provides real-time blog feed delivery and management.
package notifications

import (
	"context"
	"errors"
	"sync"
	"time"

	"mushroomservice/internal/middleware"
	"mushroomservice/internal/models"
	"mushroomservice/internal/observability"
)

const (
	// Max total feed subscribers across all transports.
	maxFeedSubscribers = 10000

	// Buffered snapshots per subscriber. A slow consumer only ever needs
	// the newest snapshot, so the buffer stays small and older entries
	// are dropped in its favor.
	subscriberBuffer = 4
)

// Snapshot is one complete view of the blog feed at a point in time.
// Every content change produces a fresh snapshot; subscribers never
// receive deltas.
type Snapshot struct {
	Posts       []*models.BlogPost `json:"posts"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// SnapshotSource builds the current feed view. includeUnpublished is true
// for administrator subscribers, who see drafts alongside published posts.
type SnapshotSource interface {
	BuildSnapshot(ctx context.Context, includeUnpublished bool, limit int) ([]*models.BlogPost, error)
}

// Subscription is a live feed handle. Consumers receive whole snapshots on
// C until Unsubscribe is called or the hub shuts down, at which point C is
// closed.
type Subscription struct {
	ID    uint64
	Admin bool
	C     <-chan Snapshot

	ch chan Snapshot
}

// FeedHub fans complete feed snapshots out to subscribers. Administrator
// subscribers receive the unfiltered view; everyone else receives only
// published posts.
type FeedHub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64

	source SnapshotSource
	limit  int
	logger *observability.FeedLogger

	shutdown bool
}

// Name returns a human-readable identifier for this hub.
func (h *FeedHub) Name() string { return "feed hub" }

// NewFeedHub creates a FeedHub backed by the given snapshot source. limit
// caps how many posts a snapshot carries.
func NewFeedHub(source SnapshotSource, limit int) *FeedHub {
	return &FeedHub{
		subs:   make(map[uint64]*Subscription),
		source: source,
		limit:  limit,
		logger: observability.NewFeedLogger("feed"),
	}
}

// Subscribe registers a new feed subscriber and queues the current snapshot
// as its first message, so consumers render immediately instead of waiting
// for the next content change.
func (h *FeedHub) Subscribe(ctx context.Context, admin bool) (*Subscription, error) {
	posts, err := h.source.BuildSnapshot(ctx, admin, h.limit)
	if err != nil {
		h.logger.LogError(ctx, err, "initial snapshot")
		return nil, err
	}

	h.mu.Lock()
	if h.shutdown {
		h.mu.Unlock()
		return nil, errors.New("feed hub is shut down")
	}
	if len(h.subs) >= maxFeedSubscribers {
		h.mu.Unlock()
		return nil, errors.New("feed subscriber limit reached")
	}

	h.nextID++
	ch := make(chan Snapshot, subscriberBuffer)
	sub := &Subscription{ID: h.nextID, Admin: admin, C: ch, ch: ch}
	h.subs[sub.ID] = sub
	h.mu.Unlock()

	middleware.ActiveFeedSubscribers.Inc()
	h.logger.LogSubscribe(ctx, admin)

	h.deliver(sub, Snapshot{Posts: posts, GeneratedAt: time.Now().UTC()})
	return sub, nil
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// more than once.
func (h *FeedHub) Unsubscribe(ctx context.Context, sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	_, present := h.subs[sub.ID]
	if present {
		delete(h.subs, sub.ID)
	}
	h.mu.Unlock()

	if present {
		close(sub.ch)
		middleware.ActiveFeedSubscribers.Dec()
		h.logger.LogUnsubscribe(ctx, sub.Admin, "unsubscribed")
	}
}

// ContentChanged rebuilds both feed views and pushes them to every
// subscriber. trigger names the cause for metrics ("local" for changes on
// this instance, "replica" for changes signalled over Redis).
func (h *FeedHub) ContentChanged(ctx context.Context, trigger string) {
	adminPosts, err := h.source.BuildSnapshot(ctx, true, h.limit)
	if err != nil {
		h.logger.LogError(ctx, err, "admin snapshot")
		return
	}
	publicPosts, err := h.source.BuildSnapshot(ctx, false, h.limit)
	if err != nil {
		h.logger.LogError(ctx, err, "public snapshot")
		return
	}

	now := time.Now().UTC()
	adminSnap := Snapshot{Posts: adminPosts, GeneratedAt: now}
	publicSnap := Snapshot{Posts: publicPosts, GeneratedAt: now}

	h.mu.RLock()
	subscribers := make([]*Subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		subscribers = append(subscribers, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subscribers {
		if sub.Admin {
			h.deliver(sub, adminSnap)
		} else {
			h.deliver(sub, publicSnap)
		}
	}

	middleware.FeedSnapshotsTotal.WithLabelValues(trigger).Inc()
	h.logger.LogSnapshot(ctx, len(adminPosts), len(subscribers))
}

// deliver pushes a snapshot without ever blocking the broadcast. When a
// subscriber's buffer is full the oldest queued snapshot is discarded;
// only the newest view matters.
func (h *FeedHub) deliver(sub *Subscription, snap Snapshot) {
	defer func() {
		// Channel may close concurrently with an unsubscribe.
		if r := recover(); r != nil {
			middleware.FeedBackpressureDrops.Inc()
		}
	}()

	for {
		select {
		case sub.ch <- snap:
			return
		default:
		}

		select {
		case <-sub.ch:
			middleware.FeedBackpressureDrops.Inc()
		default:
		}
	}
}

// SubscriberCount reports how many subscribers are currently registered.
func (h *FeedHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// StartWiring connects the Notifier to this hub: feed-change signals from
// other instances trigger a local snapshot rebuild.
func (h *FeedHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartFeedSubscriber(ctx, func(kind string) {
		h.ContentChanged(ctx, "replica")
	})
}

// Shutdown closes every subscriber channel and refuses new subscriptions.
func (h *FeedHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.shutdown {
		return nil
	}
	h.shutdown = true

	for id, sub := range h.subs {
		close(sub.ch)
		delete(h.subs, id)
		middleware.ActiveFeedSubscribers.Dec()
	}
	return nil
}
