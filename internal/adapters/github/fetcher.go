package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/ports"
)

const perPage = 100

// Fetcher reads pull request snapshots from the GitHub REST API.
// Pull request ids have the form "owner/repo#number".
type Fetcher struct {
	client *gh.Client
}

var _ ports.RemoteFetcher = (*Fetcher)(nil)

// NewFetcher creates a Fetcher; an empty token means unauthenticated access
func NewFetcher(token string) *Fetcher {
	var tc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tc = oauth2.NewClient(context.Background(), ts)
	}
	return NewFetcherWithClient(gh.NewClient(tc))
}

// NewFetcherWithClient wraps an existing go-github client
func NewFetcherWithClient(client *gh.Client) *Fetcher {
	return &Fetcher{client: client}
}

// FormatID builds a pull request id
func FormatID(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s#%d", owner, repo, number)
}

// ParseID splits "owner/repo#number"
func ParseID(id string) (owner, repo string, number int, err error) {
	slug, num, ok := strings.Cut(id, "#")
	if !ok {
		return "", "", 0, fmt.Errorf("invalid pull request id %q: missing #number", id)
	}
	owner, repo, ok = strings.Cut(slug, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", 0, fmt.Errorf("invalid pull request id %q: expected owner/repo", id)
	}
	number, err = strconv.Atoi(num)
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid pull request id %q: bad number", id)
	}
	return owner, repo, number, nil
}

// FetchPullRequest returns the current remote snapshot of one pull request
func (f *Fetcher) FetchPullRequest(ctx context.Context, account, id string) (*domain.CachedPullRequest, error) {
	owner, repo, number, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	logging.Logger.Debug("Fetching pull request", "owner", owner, "repo", repo, "number", number)
	pr, _, err := f.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, wrapError(err, "failed to get pull request "+id)
	}

	snapshot := convertPullRequest(pr)
	snapshot.Account = account
	snapshot.ID = id
	return &snapshot, nil
}

// FetchComments returns issue comments and review comments of one pull request,
// oldest first. Issue comments get an "ic-" id prefix, review comments "rc-".
func (f *Fetcher) FetchComments(ctx context.Context, account, id string) ([]domain.Comment, error) {
	owner, repo, number, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var comments []domain.Comment

	issueOpts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	for {
		page, resp, err := f.client.Issues.ListComments(ctx, owner, repo, number, issueOpts)
		if err != nil {
			return nil, wrapError(err, "failed to list comments of "+id)
		}
		for _, c := range page {
			comments = append(comments, convertIssueComment(account, id, c))
		}
		if resp.NextPage == 0 {
			break
		}
		issueOpts.Page = resp.NextPage
	}

	reviewOpts := &gh.PullRequestListCommentsOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	for {
		page, resp, err := f.client.PullRequests.ListComments(ctx, owner, repo, number, reviewOpts)
		if err != nil {
			return nil, wrapError(err, "failed to list review comments of "+id)
		}
		for _, c := range page {
			comments = append(comments, convertReviewComment(account, id, c))
		}
		if resp.NextPage == 0 {
			break
		}
		reviewOpts.Page = resp.NextPage
	}

	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})

	logging.Logger.Debug("Fetched comments", "id", id, "count", len(comments))
	return comments, nil
}

// wrapError maps a 404 to domain.ErrRemoteNotFound
func wrapError(err error, msg string) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", msg, domain.ErrRemoteNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func convertPullRequest(pr *gh.PullRequest) domain.CachedPullRequest {
	return domain.CachedPullRequest{
		Author:          pr.GetUser().GetLogin(),
		Description:     pr.GetBody(),
		Number:          pr.GetNumber(),
		RemoteUpdatedAt: pr.GetUpdatedAt().Time.UTC(),
		Revision:        pr.GetHead().GetSHA(),
		SourceRef:       pr.GetHead().GetRef(),
		Status:          pullRequestStatus(pr),
		TargetRef:       pr.GetBase().GetRef(),
		Title:           pr.GetTitle(),
	}
}

func pullRequestStatus(pr *gh.PullRequest) domain.PRStatus {
	switch {
	case pr.GetMerged() || pr.MergedAt != nil:
		return domain.StatusMerged
	case pr.GetState() == "closed":
		return domain.StatusClosed
	case pr.GetDraft():
		return domain.StatusDraft
	default:
		return domain.StatusOpen
	}
}

func convertIssueComment(account, prID string, c *gh.IssueComment) domain.Comment {
	comment := domain.Comment{
		Account:       account,
		Author:        c.GetUser().GetLogin(),
		Body:          c.GetBody(),
		CreatedAt:     c.GetCreatedAt().Time.UTC(),
		ID:            fmt.Sprintf("ic-%d", c.GetID()),
		PullRequestID: prID,
		UpdatedAt:     c.GetUpdatedAt().Time.UTC(),
	}
	comment.ContentHash = comment.Hash()
	return comment
}

func convertReviewComment(account, prID string, c *gh.PullRequestComment) domain.Comment {
	line := c.GetLine()
	if line == 0 {
		line = c.GetOriginalLine()
	}
	comment := domain.Comment{
		Account:       account,
		Author:        c.GetUser().GetLogin(),
		Body:          c.GetBody(),
		CreatedAt:     c.GetCreatedAt().Time.UTC(),
		ID:            fmt.Sprintf("rc-%d", c.GetID()),
		Position:      &domain.CommentPosition{Line: line, Path: c.GetPath()},
		PullRequestID: prID,
		UpdatedAt:     c.GetUpdatedAt().Time.UTC(),
	}
	comment.ContentHash = comment.Hash()
	return comment
}
