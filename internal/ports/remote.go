package ports

import (
	"context"

	"github.com/renato0307/prcache/internal/domain"
)

// RemoteFetcher returns the current remote snapshot of a pull request and its comments.
// A pull request that no longer exists is reported as domain.ErrRemoteNotFound.
type RemoteFetcher interface {
	FetchComments(ctx context.Context, account, pullRequestID string) ([]domain.Comment, error)
	FetchPullRequest(ctx context.Context, account, pullRequestID string) (*domain.CachedPullRequest, error)
}
