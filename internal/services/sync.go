package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/renato0307/prcache/internal/diff"
	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/ports"
)

// DefaultSyncConcurrency bounds parallel pull request syncs within one account
const DefaultSyncConcurrency = 4

// SyncService reconciles cached pull requests against the remote source
type SyncService struct {
	cache       ports.Cache
	clock       func() time.Time
	concurrency int
	newID       func() string
	policy      NotificationPolicy
	publisher   ports.ChangePublisher
	remote      ports.RemoteFetcher
}

// SyncOption configures a SyncService
type SyncOption func(*SyncService)

// WithClock replaces time.Now
func WithClock(clock func() time.Time) SyncOption {
	return func(s *SyncService) { s.clock = clock }
}

// WithConcurrency sets how many pull requests SyncAccount fetches at once
func WithConcurrency(n int) SyncOption {
	return func(s *SyncService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithIDGenerator replaces the notification id generator
func WithIDGenerator(newID func() string) SyncOption {
	return func(s *SyncService) { s.newID = newID }
}

// WithPolicy replaces DefaultPolicy
func WithPolicy(policy NotificationPolicy) SyncOption {
	return func(s *SyncService) { s.policy = policy }
}

// NewSyncService creates a new SyncService
func NewSyncService(
	cache ports.Cache,
	remote ports.RemoteFetcher,
	publisher ports.ChangePublisher,
	opts ...SyncOption,
) *SyncService {
	s := &SyncService{
		cache:       cache,
		clock:       time.Now,
		concurrency: DefaultSyncConcurrency,
		newID:       uuid.NewString,
		policy:      DefaultPolicy{},
		publisher:   publisher,
		remote:      remote,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PullRequestSyncResult describes what one pull request sync changed
type PullRequestSyncResult struct {
	Changes       []domain.RepoChange
	Comments      diff.CommentDelta
	Notifications []domain.Notification
	PullRequest   diff.PRDelta
}

// SyncPullRequest fetches one pull request and its comments, then reads the
// cached copy, diffs and persists inside a single transaction, and publishes
// the changes after commit. Overlapping syncs of one pull request serialize on
// the transaction, so the later one diffs against what the earlier one stored.
func (s *SyncService) SyncPullRequest(ctx context.Context, account, id string) (*PullRequestSyncResult, error) {
	logging.Logger.Debug("Syncing pull request", "account", account, "id", id)

	fresh, err := s.remote.FetchPullRequest(ctx, account, id)
	if errors.Is(err, domain.ErrRemoteNotFound) {
		return s.purge(ctx, account, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request %s: %w", id, err)
	}

	remoteComments, err := s.remote.FetchComments(ctx, account, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments of %s: %w", id, err)
	}

	now := s.clock().UTC()
	snapshot := *fresh
	snapshot.Account = account
	snapshot.ID = id
	snapshot.LastSyncedAt = now

	comments := make([]domain.Comment, 0, len(remoteComments))
	for _, c := range remoteComments {
		c.Account = account
		c.PullRequestID = id
		c.ContentHash = c.Hash()
		comments = append(comments, c)
	}

	var result *PullRequestSyncResult
	err = s.cache.Transaction(ctx, func(repos ports.Repositories) error {
		// Rebuilt on every attempt: a busy database re-runs this function
		result = &PullRequestSyncResult{}

		cached, err := repos.PullRequests().Get(ctx, account, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to read cached pull request: %w", err)
		}
		var cachedComments []domain.Comment
		if cached != nil {
			cachedComments, err = repos.Comments().ListForPullRequest(ctx, account, id)
			if err != nil {
				return fmt.Errorf("failed to read cached comments: %w", err)
			}
		}

		result.Comments = diff.DiffComments(cachedComments, comments)
		result.PullRequest = diff.DiffPR(cached, &snapshot)

		subscribed, err := isSubscribed(ctx, repos.Subscriptions(), account, id)
		if err != nil {
			return err
		}
		if subscribed {
			result.Notifications = s.policy.Notifications(account, snapshot, result.PullRequest, result.Comments)
			for i := range result.Notifications {
				result.Notifications[i].ID = s.newID()
				result.Notifications[i].CreatedAt = now
			}
		}

		// Always written so LastSyncedAt moves even when nothing changed
		if err := repos.PullRequests().Upsert(ctx, snapshot); err != nil {
			return err
		}
		for _, c := range result.Comments.Added {
			if err := repos.Comments().Upsert(ctx, c); err != nil {
				return err
			}
		}
		for _, m := range result.Comments.Modified {
			if err := repos.Comments().Upsert(ctx, m.New); err != nil {
				return err
			}
		}
		for _, c := range result.Comments.Removed {
			if err := repos.Comments().Delete(ctx, account, c.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		for _, n := range result.Notifications {
			if err := repos.Notifications().Upsert(ctx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist sync of %s: %w", id, err)
	}

	if change, ok := result.PullRequest.Change(); ok {
		result.Changes = append(result.Changes, change)
	}
	result.Changes = append(result.Changes, result.Comments.Changes()...)
	for _, n := range result.Notifications {
		result.Changes = append(result.Changes, notificationChange(n, domain.ChangeAdded))
	}
	s.publish(result.Changes)

	logging.Logger.Info("Pull request synced",
		"account", account,
		"id", id,
		"pr_change", string(result.PullRequest.Kind),
		"comments_added", len(result.Comments.Added),
		"comments_modified", len(result.Comments.Modified),
		"comments_removed", len(result.Comments.Removed),
		"notifications", len(result.Notifications),
	)

	return result, nil
}

// purge drops a pull request that no longer exists remotely. Only the sync
// that actually removes the cached row reports the removal.
func (s *SyncService) purge(ctx context.Context, account, id string) (*PullRequestSyncResult, error) {
	var result *PullRequestSyncResult
	err := s.cache.Transaction(ctx, func(repos ports.Repositories) error {
		cached, err := repos.PullRequests().Get(ctx, account, id)
		if errors.Is(err, domain.ErrNotFound) {
			result = &PullRequestSyncResult{PullRequest: diff.DiffPR(nil, nil)}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read cached pull request: %w", err)
		}
		result = &PullRequestSyncResult{PullRequest: diff.DiffPR(cached, nil)}

		if err := repos.PullRequests().Delete(ctx, account, id); err != nil {
			return err
		}
		if err := repos.Subscriptions().Delete(ctx, account, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to purge %s: %w", id, err)
	}

	if change, ok := result.PullRequest.Change(); ok {
		result.Changes = append(result.Changes, change)
		logging.Logger.Info("Pull request purged", "account", account, "id", id)
	}
	s.publish(result.Changes)
	return result, nil
}

func isSubscribed(ctx context.Context, subs ports.SubscriptionRepository, account, id string) (bool, error) {
	_, err := subs.Get(ctx, account, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to read subscription: %w", err)
	}
}

func (s *SyncService) publish(changes []domain.RepoChange) {
	if s.publisher == nil {
		return
	}
	for _, c := range changes {
		s.publisher.Publish(c)
	}
}

// SyncReport summarizes one account sync
type SyncReport struct {
	Account   string
	Changes   int
	Failed    map[string]error
	StartedAt time.Time
	Synced    []string
}

// SyncAccount syncs every subscribed pull request of account. The account sync
// point is recorded only when all of them succeed.
func (s *SyncService) SyncAccount(ctx context.Context, account string) (*SyncReport, error) {
	report := &SyncReport{
		Account:   account,
		Failed:    make(map[string]error),
		StartedAt: s.clock().UTC(),
	}

	subs, err := s.cache.Subscriptions().ListAll(ctx, account)
	if err != nil {
		return report, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, sub := range subs {
		id := sub.PullRequestID
		g.Go(func() error {
			result, err := s.SyncPullRequest(ctx, account, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logging.Logger.Warn("Pull request sync failed", "account", account, "id", id, "error", err)
				report.Failed[id] = err
				return nil
			}
			report.Synced = append(report.Synced, id)
			report.Changes += len(result.Changes)
			return nil
		})
	}
	_ = g.Wait()

	if len(report.Failed) > 0 {
		errs := make([]error, 0, len(report.Failed))
		for _, sub := range subs {
			if err, ok := report.Failed[sub.PullRequestID]; ok {
				errs = append(errs, err)
			}
		}
		return report, errors.Join(errs...)
	}

	latest, err := s.latestRemoteUpdate(ctx, account)
	if err != nil {
		return report, fmt.Errorf("failed to compute sync cursor: %w", err)
	}
	cursor := ""
	if !latest.IsZero() {
		cursor = latest.UTC().Format(time.RFC3339)
	}
	if err := s.cache.SyncMetadata().RecordSync(ctx, domain.AccountScope(account), report.StartedAt, cursor); err != nil {
		return report, fmt.Errorf("failed to record sync: %w", err)
	}

	logging.Logger.Info("Account synced",
		"account", account,
		"pull_requests", len(report.Synced),
		"changes", report.Changes,
	)
	return report, nil
}

// latestRemoteUpdate returns the newest remote update time among cached pull
// requests. The list is ordered by that column, so the first row carries it.
func (s *SyncService) latestRemoteUpdate(ctx context.Context, account string) (time.Time, error) {
	prs, _, err := s.cache.PullRequests().List(ctx, domain.PullRequestFilter{Account: account}, domain.PageRequest{Limit: 1})
	if err != nil {
		return time.Time{}, err
	}
	if len(prs) == 0 {
		return time.Time{}, nil
	}
	return prs[0].RemoteUpdatedAt, nil
}

func notificationChange(n domain.Notification, kind domain.ChangeKind) domain.RepoChange {
	return domain.RepoChange{
		Kind: kind,
		Ref: domain.EntityRef{
			Account:       n.Account,
			ID:            n.ID,
			Kind:          domain.EntityNotification,
			PullRequestID: n.Ref.PullRequestID,
		},
		Summary: n.Summary,
	}
}
