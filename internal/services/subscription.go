package services

import (
	"context"
	"fmt"
	"time"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/ports"
)

// SubscriptionService manages which pull requests an account follows
type SubscriptionService struct {
	clock         func() time.Time
	publisher     ports.ChangePublisher
	subscriptions ports.SubscriptionRepository
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptions ports.SubscriptionRepository,
	publisher ports.ChangePublisher,
) *SubscriptionService {
	return &SubscriptionService{
		clock:         time.Now,
		publisher:     publisher,
		subscriptions: subscriptions,
	}
}

// Subscribe follows a pull request. Subscribing twice keeps one row.
func (s *SubscriptionService) Subscribe(ctx context.Context, account, pullRequestID string) error {
	if account == "" || pullRequestID == "" {
		return fmt.Errorf("account and pull request id are required")
	}

	err := s.subscriptions.Upsert(ctx, domain.Subscription{
		Account:       account,
		CreatedAt:     s.clock().UTC(),
		PullRequestID: pullRequestID,
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", pullRequestID, err)
	}

	s.publish(account, pullRequestID, domain.ChangeAdded, fmt.Sprintf("subscribed to %s", pullRequestID))
	return nil
}

// Unsubscribe stops following a pull request; domain.ErrNotFound when not subscribed
func (s *SubscriptionService) Unsubscribe(ctx context.Context, account, pullRequestID string) error {
	if err := s.subscriptions.Delete(ctx, account, pullRequestID); err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", pullRequestID, err)
	}

	s.publish(account, pullRequestID, domain.ChangeRemoved, fmt.Sprintf("unsubscribed from %s", pullRequestID))
	return nil
}

// List returns one page of subscriptions, newest first
func (s *SubscriptionService) List(ctx context.Context, account string, page domain.PageRequest) ([]domain.Subscription, string, error) {
	return s.subscriptions.List(ctx, account, page)
}

func (s *SubscriptionService) publish(account, pullRequestID string, kind domain.ChangeKind, summary string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.RepoChange{
		Kind: kind,
		Ref: domain.EntityRef{
			Account:       account,
			ID:            pullRequestID,
			Kind:          domain.EntitySubscription,
			PullRequestID: pullRequestID,
		},
		Summary: summary,
	})
}
