package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/ports"
)

// DefaultOperationTimeout bounds a storage operation whose context has no deadline
const DefaultOperationTimeout = 30 * time.Second

var sqliteHeader = []byte("SQLite format 3\x00")

// Store owns the SQLite handle, the schema and the single writer slot
type Store struct {
	db         *gorm.DB
	migrations []Migration
	opTimeout  time.Duration
	path       string
	writer     chan struct{}
}

// Verify interface compliance at compile time
var _ ports.Cache = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithOperationTimeout sets the timeout applied when the caller's context has no deadline.
// Zero disables it.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.opTimeout = d
	}
}

// WithMigrations replaces the built-in schema migrations
func WithMigrations(migrations ...Migration) Option {
	return func(s *Store) {
		s.migrations = migrations
	}
}

// Open opens or creates the cache database at path. It does not migrate.
func Open(path string, opts ...Option) (*Store, error) {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, &domain.ConnectionError{Path: path, Err: fmt.Errorf("failed to get home directory: %w", err)}
		}
		path = filepath.Join(homeDir, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &domain.ConnectionError{Path: path, Err: fmt.Errorf("failed to create directory: %w", err)}
	}
	if err := checkDatabaseFile(path); err != nil {
		return nil, &domain.ConnectionError{Path: path, Err: err}
	}

	// Pragmas go in the DSN so every pooled connection gets them
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, &domain.ConnectionError{Path: path, Err: err}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, &domain.ConnectionError{Path: path, Err: err}
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	// A header can look fine while the pages are garbage
	var count int64
	if err := db.Raw("SELECT count(*) FROM sqlite_master").Scan(&count).Error; err != nil {
		sqlDB.Close()
		return nil, &domain.ConnectionError{Path: path, Err: err}
	}

	s := &Store{
		db:         db,
		migrations: DefaultMigrations(),
		opTimeout:  DefaultOperationTimeout,
		path:       path,
		writer:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	logging.Logger.Debug("Cache opened", "path", path, "objects", count)
	return s, nil
}

// checkDatabaseFile rejects paths that exist but are not SQLite databases
func checkDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("file is not a database: %w", err)
	}
	if !bytes.Equal(header, sqliteHeader) {
		return errors.New("file is not a database")
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside one write transaction. It commits when fn returns nil
// and rolls back on error, panic, cancellation or timeout.
func (s *Store) Transaction(ctx context.Context, fn func(repos ports.Repositories) error) error {
	return s.runWrite(ctx, "Store.transaction", func(tx *gorm.DB) error {
		return fn(newRepositories(tx, s, true))
	})
}

// PullRequests returns the pull request repository bound to the root handle
func (s *Store) PullRequests() ports.PullRequestRepository {
	return &pullRequestRepository{conn: s.root()}
}

// Comments returns the comment repository bound to the root handle
func (s *Store) Comments() ports.CommentRepository {
	return &commentRepository{conn: s.root()}
}

// Notifications returns the notification repository bound to the root handle
func (s *Store) Notifications() ports.NotificationRepository {
	return &notificationRepository{conn: s.root()}
}

// Subscriptions returns the subscription repository bound to the root handle
func (s *Store) Subscriptions() ports.SubscriptionRepository {
	return &subscriptionRepository{conn: s.root()}
}

// SyncMetadata returns the sync metadata repository bound to the root handle
func (s *Store) SyncMetadata() ports.SyncMetadataRepository {
	return &syncMetadataRepository{conn: s.root()}
}

func (s *Store) root() conn {
	return conn{db: s.db, store: s}
}

// withTimeout applies the store timeout unless ctx already carries a deadline
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || s.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// acquire takes the writer slot or gives up when ctx ends
func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.writer
}

// runWrite serializes fn behind the writer slot and runs it in a retried transaction
func (s *Store) runWrite(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		return domain.NewCacheError(op, err)
	}
	defer s.release()

	err := withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(fn)
	}, maxRetries)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		err = fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	return domain.NewCacheError(op, err)
}

// runRead runs fn against the root handle with the store timeout and busy retry
func (s *Store) runRead(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := withRetry(ctx, func() error {
		return fn(s.db.WithContext(ctx))
	}, maxRetries)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		err = fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	return domain.NewCacheError(op, err)
}
