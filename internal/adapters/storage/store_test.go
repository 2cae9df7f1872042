package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/ports"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testPR(id string, status domain.PRStatus, synced time.Time) domain.CachedPullRequest {
	return domain.CachedPullRequest{
		Account:         "alice",
		Author:          "bob",
		Description:     "description of " + id,
		ID:              id,
		LastSyncedAt:    synced,
		Number:          1,
		RemoteUpdatedAt: synced.Add(-time.Minute),
		Revision:        "abc123",
		SourceRef:       "feature",
		Status:          status,
		TargetRef:       "main",
		Title:           "Title " + id,
	}
}

func schemaObjects(t *testing.T, s *Store) []string {
	t.Helper()
	var names []string
	require.NoError(t, s.db.Raw("SELECT type || ':' || name FROM sqlite_master ORDER BY name").Scan(&names).Error)
	return names
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
	assert.Equal(t, path, s.Path())

	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, version)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	require.NoError(t, os.WriteFile(path, []byte("this is definitely not a database file"), 0644))

	_, err := Open(path)

	require.Error(t, err)
	var connErr *domain.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, path, connErr.Path)
	assert.Equal(t, domain.KindConnection, domain.KindOf(err))
}

func TestOpen_PathIsDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir)

	var connErr *domain.ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := schemaObjects(t, s)
	require.NoError(t, s.Migrate(ctx))
	after := schemaObjects(t, s)

	assert.Equal(t, before, after)
	assert.Contains(t, after, "table:pull_requests")
	assert.Contains(t, after, "table:comments")
	assert.Contains(t, after, "table:notifications")
	assert.Contains(t, after, "table:subscriptions")
	assert.Contains(t, after, "table:sync_metadata")
	assert.Contains(t, after, "table:schema_migrations")

	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultMigrations()), version)

	var applied int64
	require.NoError(t, s.db.Model(&SchemaMigrationModel{}).Count(&applied).Error)
	assert.Equal(t, int64(len(DefaultMigrations())), applied)
}

func TestMigrate_FailureHaltsAndKeepsEarlierVersions(t *testing.T) {
	migrations := []Migration{
		SQLMigration(3, "third", `CREATE TABLE third (id TEXT)`),
		SQLMigration(1, "first", `CREATE TABLE first (id TEXT)`),
		SQLMigration(2, "broken",
			`CREATE TABLE half_done (id TEXT)`,
			`THIS IS NOT SQL`,
		),
	}
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), WithMigrations(migrations...))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	err = s.Migrate(ctx)

	var migErr *domain.MigrationError
	require.True(t, errors.As(err, &migErr))
	assert.Equal(t, 2, migErr.Version)
	assert.Equal(t, "broken", migErr.Name)
	assert.Equal(t, domain.KindMigration, domain.KindOf(err))

	var cacheErr *domain.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "Store.migrate(v2)", cacheErr.Op)

	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	objects := schemaObjects(t, s)
	assert.Contains(t, objects, "table:first")
	assert.NotContains(t, objects, "table:half_done")
	assert.NotContains(t, objects, "table:third")
}

func TestMigrate_RetryAfterFix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	broken, err := Open(path, WithMigrations(
		SQLMigration(1, "first", `CREATE TABLE first (id TEXT)`),
		SQLMigration(2, "second", `NOT SQL`),
	))
	require.NoError(t, err)
	require.Error(t, broken.Migrate(ctx))
	require.NoError(t, broken.Close())

	fixed, err := Open(path, WithMigrations(
		SQLMigration(1, "first", `CREATE TABLE first (id TEXT)`),
		SQLMigration(2, "second", `CREATE TABLE second (id TEXT)`),
	))
	require.NoError(t, err)
	defer fixed.Close()

	require.NoError(t, fixed.Migrate(ctx))
	version, err := fixed.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestMigrate_RejectsDuplicateVersions(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), WithMigrations(
		SQLMigration(1, "a", `CREATE TABLE a (id TEXT)`),
		SQLMigration(1, "b", `CREATE TABLE b (id TEXT)`),
	))
	require.NoError(t, err)
	defer s.Close()

	err = s.Migrate(context.Background())

	var cacheErr *domain.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "Store.migrate", cacheErr.Op)
}

func TestTransaction_CommitsOnSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(repos ports.Repositories) error {
		if err := repos.PullRequests().Upsert(ctx, testPR("pr-1", domain.StatusOpen, t0)); err != nil {
			return err
		}
		return repos.Comments().Upsert(ctx, domain.Comment{
			Account:       "alice",
			Author:        "carol",
			Body:          "looks good",
			CreatedAt:     t0,
			ID:            "c-1",
			PullRequestID: "pr-1",
			UpdatedAt:     t0,
		})
	})
	require.NoError(t, err)

	_, err = s.PullRequests().Get(ctx, "alice", "pr-1")
	require.NoError(t, err)
	_, err = s.Comments().Get(ctx, "alice", "c-1")
	require.NoError(t, err)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(repos ports.Repositories) error {
		if err := repos.PullRequests().Upsert(ctx, testPR("pr-1", domain.StatusOpen, t0)); err != nil {
			return err
		}
		return boom
	})

	require.ErrorIs(t, err, boom)
	var cacheErr *domain.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "Store.transaction", cacheErr.Op)

	_, err = s.PullRequests().Get(ctx, "alice", "pr-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransaction_RollsBackOnPanic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.Transaction(ctx, func(repos ports.Repositories) error {
			if err := repos.PullRequests().Upsert(ctx, testPR("pr-1", domain.StatusOpen, t0)); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, err := s.PullRequests().Get(ctx, "alice", "pr-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The writer slot was released
	require.NoError(t, s.PullRequests().Upsert(ctx, testPR("pr-2", domain.StatusOpen, t0)))
}

func TestTransaction_RollsBackOnCancel(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Transaction(ctx, func(repos ports.Repositories) error {
		if err := repos.PullRequests().Upsert(ctx, testPR("pr-1", domain.StatusOpen, t0)); err != nil {
			return err
		}
		cancel()
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.KindCache, domain.KindOf(err))

	_, err = s.PullRequests().Get(context.Background(), "alice", "pr-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransaction_TimesOutWaitingForWriter(t *testing.T) {
	s := newTestStore(t, WithOperationTimeout(50*time.Millisecond))
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Transaction(context.Background(), func(repos ports.Repositories) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := s.PullRequests().Upsert(ctx, testPR("pr-1", domain.StatusOpen, t0))
	close(release)
	<-done

	var cacheErr *domain.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "PullRequestRepo.upsert", cacheErr.Op)
	assert.True(t, cacheErr.Timeout())
}

func TestStore_ConcurrentWriters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pr := testPR(fmt.Sprintf("pr-%02d", i), domain.StatusOpen, t0.Add(time.Duration(i)*time.Second))
			errs <- s.PullRequests().Upsert(ctx, pr)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, s.db.Model(&PullRequestModel{}).Count(&count).Error)
	assert.Equal(t, int64(20), count)
}

func TestStore_ReadsSeeOnlyCommittedWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Transaction(ctx, func(repos ports.Repositories) error {
			if err := repos.PullRequests().Upsert(ctx, testPR("pr-1", domain.StatusOpen, t0)); err != nil {
				return err
			}
			close(inside)
			<-release
			return nil
		})
	}()
	<-inside

	_, err := s.PullRequests().Get(ctx, "alice", "pr-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	close(release)
	require.NoError(t, <-done)

	_, err = s.PullRequests().Get(ctx, "alice", "pr-1")
	assert.NoError(t, err)
}

func TestStore_RepositoriesShareTransactionHandle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(repos ports.Repositories) error {
		require.NoError(t, repos.PullRequests().Upsert(ctx, testPR("pr-1", domain.StatusOpen, t0)))

		pr, err := repos.PullRequests().Get(ctx, "alice", "pr-1")
		require.NoError(t, err)
		assert.Equal(t, "pr-1", pr.ID)
		return nil
	})
	require.NoError(t, err)
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
