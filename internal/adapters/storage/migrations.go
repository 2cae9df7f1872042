package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/logging"
)

// Migration is one schema version. Up runs inside the migration's own transaction.
type Migration struct {
	Name    string
	Up      func(tx *gorm.DB) error
	Version int
}

// SQLMigration builds a Migration from plain statements run in order
func SQLMigration(version int, name string, statements ...string) Migration {
	return Migration{
		Name: name,
		Up: func(tx *gorm.DB) error {
			for _, stmt := range statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Version: version,
	}
}

// DefaultMigrations returns the cache schema, oldest first
func DefaultMigrations() []Migration {
	return []Migration{
		SQLMigration(1, "create_pull_requests",
			`CREATE TABLE pull_requests (
				account TEXT NOT NULL,
				id TEXT NOT NULL,
				number INTEGER NOT NULL DEFAULT 0,
				title TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				author TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL CHECK (status IN ('open','closed','merged','draft')),
				source_ref TEXT NOT NULL DEFAULT '',
				target_ref TEXT NOT NULL DEFAULT '',
				revision TEXT NOT NULL DEFAULT '',
				remote_updated_at DATETIME NOT NULL,
				last_synced_at DATETIME NOT NULL,
				PRIMARY KEY (account, id)
			)`,
			`CREATE INDEX idx_pull_requests_synced ON pull_requests (account, last_synced_at, id)`,
		),
		SQLMigration(2, "create_comments",
			`CREATE TABLE comments (
				account TEXT NOT NULL,
				id TEXT NOT NULL,
				pull_request_id TEXT NOT NULL,
				author TEXT NOT NULL DEFAULT '',
				body TEXT NOT NULL DEFAULT '',
				path TEXT,
				line INTEGER,
				remote_created_at DATETIME NOT NULL,
				remote_updated_at DATETIME NOT NULL,
				content_hash TEXT NOT NULL,
				PRIMARY KEY (account, id),
				FOREIGN KEY (account, pull_request_id) REFERENCES pull_requests (account, id)
			)`,
			`CREATE INDEX idx_comments_pull_request ON comments (account, pull_request_id)`,
		),
		SQLMigration(3, "create_notifications",
			`CREATE TABLE notifications (
				id TEXT PRIMARY KEY,
				account TEXT NOT NULL,
				entity_kind TEXT NOT NULL,
				entity_id TEXT NOT NULL,
				pull_request_id TEXT NOT NULL DEFAULT '',
				kind TEXT NOT NULL CHECK (kind IN ('new-comment','status-change','mention')),
				summary TEXT NOT NULL DEFAULT '',
				is_read INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				read_at DATETIME
			)`,
			`CREATE INDEX idx_notifications_created ON notifications (account, created_at, id)`,
		),
		SQLMigration(4, "create_subscriptions",
			`CREATE TABLE subscriptions (
				account TEXT NOT NULL,
				pull_request_id TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (account, pull_request_id)
			)`,
		),
		SQLMigration(5, "create_sync_metadata",
			`CREATE TABLE sync_metadata (
				scope TEXT PRIMARY KEY,
				last_synced_at DATETIME NOT NULL,
				cursor TEXT NOT NULL DEFAULT '',
				updated_at DATETIME NOT NULL
			)`,
		),
		SQLMigration(6, "index_unread_notifications",
			`CREATE INDEX idx_notifications_unread ON notifications (account, is_read)`,
		),
		SQLMigration(7, "index_pull_requests_remote_updated",
			`CREATE INDEX idx_pull_requests_remote_updated ON pull_requests (account, remote_updated_at, id)`,
		),
	}
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at DATETIME NOT NULL
)`

// Migrate applies pending migrations in ascending version order, each in its own
// transaction. The first failure halts with a *domain.MigrationError; earlier
// versions stay applied. Running it again is a no-op.
func (s *Store) Migrate(ctx context.Context) error {
	const op = "Store.migrate"

	if err := validateMigrations(s.migrations); err != nil {
		return domain.NewCacheError(op, err)
	}

	if err := s.acquire(ctx); err != nil {
		return domain.NewCacheError(op, err)
	}
	defer s.release()

	db := s.db.WithContext(ctx)
	if err := db.Exec(createMigrationsTable).Error; err != nil {
		return domain.NewCacheError(op, err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return domain.NewCacheError(op, err)
	}

	pending := make([]Migration, 0, len(s.migrations))
	for _, m := range s.migrations {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Version < pending[j].Version
	})

	for _, m := range pending {
		err := withRetry(ctx, func() error {
			return db.Transaction(func(tx *gorm.DB) error {
				if err := m.Up(tx); err != nil {
					return err
				}
				return tx.Create(&SchemaMigrationModel{
					AppliedAt: time.Now().UTC(),
					Name:      m.Name,
					Version:   m.Version,
				}).Error
			})
		}, maxRetries)
		if err != nil {
			logging.Logger.Error("Migration failed", "version", m.Version, "name", m.Name, "error", err)
			return &domain.MigrationError{Err: err, Name: m.Name, Version: m.Version}
		}
		logging.Logger.Info("Migration applied", "version", m.Version, "name", m.Name)
	}

	return nil
}

// SchemaVersion returns the highest applied migration version, 0 for a fresh file
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.runRead(ctx, "Store.schemaVersion", func(db *gorm.DB) error {
		if !db.Migrator().HasTable(&SchemaMigrationModel{}) {
			return nil
		}
		return db.Model(&SchemaMigrationModel{}).Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	})
	return version, err
}

func appliedVersions(db *gorm.DB) (map[int]bool, error) {
	var versions []int
	if err := db.Model(&SchemaMigrationModel{}).Pluck("version", &versions).Error; err != nil {
		return nil, err
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func validateMigrations(migrations []Migration) error {
	seen := make(map[int]string, len(migrations))
	for _, m := range migrations {
		if m.Version <= 0 {
			return fmt.Errorf("migration %q has non-positive version %d", m.Name, m.Version)
		}
		if m.Up == nil {
			return fmt.Errorf("migration %d (%s) has no Up function", m.Version, m.Name)
		}
		if prev, ok := seen[m.Version]; ok {
			return fmt.Errorf("migrations %q and %q share version %d", prev, m.Name, m.Version)
		}
		seen[m.Version] = m.Name
	}
	return nil
}
