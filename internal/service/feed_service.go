package service

import (
	"context"

	"mushroomservice/internal/identity"
	"mushroomservice/internal/models"
	"mushroomservice/internal/notifications"
	"mushroomservice/internal/repository"
)

// FeedService exposes the live blog feed: subscribers receive a complete
// snapshot on subscription and again after every content change. It is also
// the hub's snapshot source, reading straight from the post store.
type FeedService struct {
	postRepo repository.PostRepository
	policy   identity.Policy
	hub      *notifications.FeedHub
}

func NewFeedService(
	postRepo repository.PostRepository,
	policy identity.Policy,
	snapshotLimit int,
) *FeedService {
	s := &FeedService{
		postRepo: postRepo,
		policy:   policy,
	}
	s.hub = notifications.NewFeedHub(s, snapshotLimit)
	return s
}

// BuildSnapshot implements notifications.SnapshotSource.
func (s *FeedService) BuildSnapshot(
	ctx context.Context, includeUnpublished bool, limit int,
) ([]*models.BlogPost, error) {
	return s.postRepo.List(ctx, !includeUnpublished, limit, 0)
}

// Subscribe opens a feed subscription for the actor. The view class is
// decided once, at subscription time.
func (s *FeedService) Subscribe(
	ctx context.Context, actor identity.Actor,
) (*notifications.Subscription, error) {
	return s.hub.Subscribe(ctx, s.policy.IsAdmin(actor))
}

// Unsubscribe tears down a subscription.
func (s *FeedService) Unsubscribe(ctx context.Context, sub *notifications.Subscription) {
	s.hub.Unsubscribe(ctx, sub)
}

// Hub exposes the underlying hub for websocket registration and event
// wiring.
func (s *FeedService) Hub() *notifications.FeedHub {
	return s.hub
}

// Shutdown closes every subscription.
func (s *FeedService) Shutdown(ctx context.Context) error {
	return s.hub.Shutdown(ctx)
}
