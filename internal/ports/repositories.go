package ports

import (
	"context"
	"time"

	"github.com/renato0307/prcache/internal/domain"
)

// PullRequestRepository reads and writes cached pull requests
type PullRequestRepository interface {
	Delete(ctx context.Context, account, id string) error
	Get(ctx context.Context, account, id string) (*domain.CachedPullRequest, error)
	List(ctx context.Context, filter domain.PullRequestFilter, page domain.PageRequest) ([]domain.CachedPullRequest, string, error)
	Search(ctx context.Context, account, query string, limit int) (domain.SearchResult, error)
	Upsert(ctx context.Context, pr domain.CachedPullRequest) error
}

// CommentRepository reads and writes cached comments
type CommentRepository interface {
	Delete(ctx context.Context, account, id string) error
	DeleteForPullRequest(ctx context.Context, account, pullRequestID string) (int64, error)
	DeleteOrphans(ctx context.Context, account string) (int64, error)
	Get(ctx context.Context, account, id string) (*domain.Comment, error)
	List(ctx context.Context, filter domain.CommentFilter, page domain.PageRequest) ([]domain.Comment, string, error)
	ListForPullRequest(ctx context.Context, account, pullRequestID string) ([]domain.Comment, error)
	Upsert(ctx context.Context, comment domain.Comment) error
}

// NotificationRepository reads and writes notifications
type NotificationRepository interface {
	CountUnread(ctx context.Context, account string) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Get(ctx context.Context, id string) (*domain.Notification, error)
	ListPaginated(ctx context.Context, filter domain.NotificationFilter, page domain.PageRequest) (domain.PaginatedNotifications, error)
	MarkAllRead(ctx context.Context, account string) (int64, error)
	MarkRead(ctx context.Context, ids ...string) (int64, error)
	Upsert(ctx context.Context, n domain.Notification) error
}

// SubscriptionRepository reads and writes subscriptions
type SubscriptionRepository interface {
	Delete(ctx context.Context, account, pullRequestID string) error
	Get(ctx context.Context, account, pullRequestID string) (*domain.Subscription, error)
	List(ctx context.Context, account string, page domain.PageRequest) ([]domain.Subscription, string, error)
	ListAll(ctx context.Context, account string) ([]domain.Subscription, error)
	Upsert(ctx context.Context, s domain.Subscription) error
}

// SyncMetadataRepository tracks per-scope sync progress
type SyncMetadataRepository interface {
	Get(ctx context.Context, scope string) (*domain.SyncMetadata, error)
	List(ctx context.Context) ([]domain.SyncMetadata, error)
	RecordSync(ctx context.Context, scope string, at time.Time, cursor string) error
	Reset(ctx context.Context, scope string) error
}

// Repositories groups the repositories bound to one handle (root or transaction)
type Repositories interface {
	Comments() CommentRepository
	Notifications() NotificationRepository
	PullRequests() PullRequestRepository
	Subscriptions() SubscriptionRepository
	SyncMetadata() SyncMetadataRepository
}

// Cache is the composite store interface
type Cache interface {
	Repositories
	Transaction(ctx context.Context, fn func(repos Repositories) error) error
	Close() error
}
