package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/ports"
)

// conn is the handle a repository runs on: the root pool or an open transaction
type conn struct {
	db    *gorm.DB
	inTx  bool
	store *Store
}

// write runs fn in a transaction. Inside Store.Transaction it joins the open one.
func (c conn) write(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	if c.inTx {
		return domain.NewCacheError(op, fn(c.db.WithContext(ctx)))
	}
	return c.store.runWrite(ctx, op, fn)
}

// read runs fn against the handle; reads on the root handle never take the writer slot
func (c conn) read(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	if c.inTx {
		return domain.NewCacheError(op, fn(c.db.WithContext(ctx)))
	}
	return c.store.runRead(ctx, op, fn)
}

// repositories binds every repository to one conn
type repositories struct {
	conn conn
}

var _ ports.Repositories = (*repositories)(nil)

func newRepositories(db *gorm.DB, s *Store, inTx bool) *repositories {
	return &repositories{conn: conn{db: db, inTx: inTx, store: s}}
}

func (r *repositories) Comments() ports.CommentRepository {
	return &commentRepository{conn: r.conn}
}

func (r *repositories) Notifications() ports.NotificationRepository {
	return &notificationRepository{conn: r.conn}
}

func (r *repositories) PullRequests() ports.PullRequestRepository {
	return &pullRequestRepository{conn: r.conn}
}

func (r *repositories) Subscriptions() ports.SubscriptionRepository {
	return &subscriptionRepository{conn: r.conn}
}

func (r *repositories) SyncMetadata() ports.SyncMetadataRepository {
	return &syncMetadataRepository{conn: r.conn}
}
