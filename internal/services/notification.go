package services

import (
	"context"
	"fmt"
	"time"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/ports"
)

// NotificationService exposes the user-facing notification operations
type NotificationService struct {
	clock         func() time.Time
	notifications ports.NotificationRepository
	publisher     ports.ChangePublisher
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notifications ports.NotificationRepository,
	publisher ports.ChangePublisher,
) *NotificationService {
	return &NotificationService{
		clock:         time.Now,
		notifications: notifications,
		publisher:     publisher,
	}
}

// List returns one page of notifications, newest first
func (s *NotificationService) List(ctx context.Context, account string, unreadOnly bool, page domain.PageRequest) (domain.PaginatedNotifications, error) {
	return s.notifications.ListPaginated(ctx, domain.NotificationFilter{
		Account:    account,
		UnreadOnly: unreadOnly,
	}, page)
}

// MarkRead marks the given notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, account string, ids ...string) (int64, error) {
	updated, err := s.notifications.MarkRead(ctx, ids...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if updated > 0 {
		s.publishReadState(account, updated)
	}
	return updated, nil
}

// MarkAllRead marks every unread notification of account as read
func (s *NotificationService) MarkAllRead(ctx context.Context, account string) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	if updated > 0 {
		s.publishReadState(account, updated)
	}
	return updated, nil
}

// UnreadCount returns the number of unread notifications of account
func (s *NotificationService) UnreadCount(ctx context.Context, account string) (int64, error) {
	return s.notifications.CountUnread(ctx, account)
}

// Prune deletes notifications older than retention
func (s *NotificationService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %s", retention)
	}

	cutoff := s.clock().Add(-retention)
	deleted, err := s.notifications.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}

	logging.Logger.Info("Notifications pruned", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}

func (s *NotificationService) publishReadState(account string, updated int64) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.RepoChange{
		Fields:  []string{"read"},
		Kind:    domain.ChangeModified,
		Ref:     domain.EntityRef{Account: account, Kind: domain.EntityNotification},
		Summary: fmt.Sprintf("%d notification(s) marked read", updated),
	})
}
