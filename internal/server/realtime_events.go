package server

import (
	"context"
	"log"

	"mushroomservice/internal/notifications"
)

// realtimeEvents fans a content change out to the live feed: the local hub
// rebuilds and delivers snapshots immediately, and Redis pub/sub carries
// the signal to the hubs on other instances. It implements
// service.ContentEvents.
type realtimeEvents struct {
	hub      *notifications.FeedHub
	notifier *notifications.Notifier
}

func (e *realtimeEvents) ContentChanged(ctx context.Context, kind string) {
	if e.hub != nil {
		e.hub.ContentChanged(ctx, "local")
	}
	if e.notifier != nil {
		if err := e.notifier.PublishFeedChanged(ctx, kind); err != nil {
			log.Printf("failed to publish feed change %q: %v", kind, err)
		}
	}
}
