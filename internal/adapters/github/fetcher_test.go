package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/prcache/internal/domain"
)

func newTestFetcher(t *testing.T, mux *http.ServeMux) *Fetcher {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return NewFetcherWithClient(client)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		owner   string
		repo    string
		number  int
		wantErr bool
	}{
		{name: "valid", id: "octo/hello#7", owner: "octo", repo: "hello", number: 7},
		{name: "missing number", id: "octo/hello", wantErr: true},
		{name: "missing repo", id: "octo#7", wantErr: true},
		{name: "nested path", id: "octo/hello/world#7", wantErr: true},
		{name: "zero number", id: "octo/hello#0", wantErr: true},
		{name: "non numeric", id: "octo/hello#abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, number, err := ParseID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.id, FormatID(owner, repo, number))
		})
	}
}

func TestFetchPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"number": 7,
			"state": "closed",
			"merged": true,
			"title": "Fix login bug",
			"body": "details",
			"updated_at": "2024-05-01T12:00:00Z",
			"user": {"login": "bob"},
			"head": {"ref": "fix-login", "sha": "abc123"},
			"base": {"ref": "main"}
		}`)
	})
	f := newTestFetcher(t, mux)

	pr, err := f.FetchPullRequest(context.Background(), "alice", "octo/hello#7")
	require.NoError(t, err)
	assert.Equal(t, "alice", pr.Account)
	assert.Equal(t, "octo/hello#7", pr.ID)
	assert.Equal(t, domain.StatusMerged, pr.Status)
	assert.Equal(t, "Fix login bug", pr.Title)
	assert.Equal(t, "details", pr.Description)
	assert.Equal(t, "bob", pr.Author)
	assert.Equal(t, "abc123", pr.Revision)
	assert.Equal(t, "fix-login", pr.SourceRef)
	assert.Equal(t, "main", pr.TargetRef)
	assert.Equal(t, 7, pr.Number)
	assert.True(t, pr.RemoteUpdatedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
}

func TestFetchPullRequest_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/pulls/8", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	f := newTestFetcher(t, mux)

	_, err := f.FetchPullRequest(context.Background(), "alice", "octo/hello#8")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteNotFound)
}

func TestFetchPullRequest_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/pulls/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "boom"}`)
	})
	f := newTestFetcher(t, mux)

	_, err := f.FetchPullRequest(context.Background(), "alice", "octo/hello#9")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRemoteNotFound)
}

func TestPullRequestStatus(t *testing.T) {
	tests := []struct {
		name string
		pr   *gh.PullRequest
		want domain.PRStatus
	}{
		{name: "open", pr: &gh.PullRequest{State: gh.String("open")}, want: domain.StatusOpen},
		{name: "draft", pr: &gh.PullRequest{State: gh.String("open"), Draft: gh.Bool(true)}, want: domain.StatusDraft},
		{name: "closed", pr: &gh.PullRequest{State: gh.String("closed")}, want: domain.StatusClosed},
		{name: "merged", pr: &gh.PullRequest{State: gh.String("closed"), Merged: gh.Bool(true)}, want: domain.StatusMerged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pullRequestStatus(tt.pr))
		})
	}
}

func TestFetchComments(t *testing.T) {
	var server string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"id": 2, "body": "second", "user": {"login": "carol"},
				"created_at": "2024-05-01T10:00:00Z", "updated_at": "2024-05-01T10:00:00Z"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/hello/issues/7/comments?page=2>; rel="next"`, server))
		fmt.Fprint(w, `[{"id": 1, "body": "first", "user": {"login": "bob"},
			"created_at": "2024-05-01T09:00:00Z", "updated_at": "2024-05-01T09:30:00Z"}]`)
	})
	mux.HandleFunc("/repos/octo/hello/pulls/7/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 5, "body": "nit", "path": "main.go", "line": 12, "user": {"login": "dave"},
			"created_at": "2024-05-01T09:15:00Z", "updated_at": "2024-05-01T09:15:00Z"}]`)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	server = ts.URL
	client := gh.NewClient(nil)
	base, err := url.Parse(ts.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	f := NewFetcherWithClient(client)

	comments, err := f.FetchComments(context.Background(), "alice", "octo/hello#7")
	require.NoError(t, err)
	require.Len(t, comments, 3)

	assert.Equal(t, "ic-1", comments[0].ID)
	assert.Equal(t, "rc-5", comments[1].ID)
	assert.Equal(t, "ic-2", comments[2].ID)

	review := comments[1]
	require.NotNil(t, review.Position)
	assert.Equal(t, "main.go", review.Position.Path)
	assert.Equal(t, 12, review.Position.Line)
	assert.Equal(t, domain.ComputeContentHash("nit", review.Position), review.ContentHash)

	for _, c := range comments {
		assert.Equal(t, "alice", c.Account)
		assert.Equal(t, "octo/hello#7", c.PullRequestID)
		assert.NotEmpty(t, c.ContentHash)
	}
	assert.Nil(t, comments[0].Position)
}

func TestFetchComments_InvalidID(t *testing.T) {
	f := newTestFetcher(t, http.NewServeMux())
	_, err := f.FetchComments(context.Background(), "alice", "not-an-id")
	assert.Error(t, err)
}
