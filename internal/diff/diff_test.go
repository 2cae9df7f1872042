package diff

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/prcache/internal/domain"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func assertGolden(t *testing.T, name string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, append(data, '\n'))
}

func basePR() domain.CachedPullRequest {
	return domain.CachedPullRequest{
		Account:      "alice",
		Author:       "bob",
		Description:  "Fixes the login flow",
		ID:           "pr-1",
		LastSyncedAt: t0,
		Revision:     "abc123",
		SourceRef:    "fix-login",
		Status:       domain.StatusOpen,
		TargetRef:    "main",
		Title:        "Fix login bug",
	}
}

func comment(id, hash string) domain.Comment {
	return domain.Comment{
		Account:       "alice",
		Author:        "carol",
		Body:          "body of " + id,
		ContentHash:   hash,
		CreatedAt:     t0,
		ID:            id,
		PullRequestID: "pr-1",
		UpdatedAt:     t0,
	}
}

func TestDiffPR_SameSnapshotIsEmpty(t *testing.T) {
	pr := basePR()
	copied := pr

	delta := DiffPR(&pr, &copied)

	assert.True(t, delta.IsEmpty())
	assert.Empty(t, delta.Changes)
	_, ok := delta.Change()
	assert.False(t, ok)
}

func TestDiffPR_IgnoresUntrackedFields(t *testing.T) {
	old := basePR()
	fresh := basePR()
	fresh.LastSyncedAt = t0.Add(time.Hour)
	fresh.RemoteUpdatedAt = t0.Add(time.Hour)
	fresh.Author = "someone-else"

	assert.True(t, DiffPR(&old, &fresh).IsEmpty())
}

func TestDiffPR_StatusOpenToMerged(t *testing.T) {
	old := basePR()
	fresh := basePR()
	fresh.Status = domain.StatusMerged
	fresh.Revision = "def456"

	delta := DiffPR(&old, &fresh)

	from, to, ok := delta.StatusTransition()
	require.True(t, ok)
	assert.Equal(t, domain.StatusOpen, from)
	assert.Equal(t, domain.StatusMerged, to)
	assert.True(t, delta.Has(FieldRevision))
	assert.False(t, delta.Has(FieldTitle))

	change, ok := delta.Change()
	require.True(t, ok)
	assert.Equal(t, domain.ChangeModified, change.Kind)
	assert.Equal(t, "pr-1", change.Ref.ID)

	assertGolden(t, "pr_status_merged", struct {
		Delta  PRDelta           `json:"delta"`
		Change domain.RepoChange `json:"change"`
	}{delta, change})

	// Inputs are untouched
	assert.Equal(t, basePR(), old)
	assert.Equal(t, domain.StatusMerged, fresh.Status)
}

func TestDiffPR_AddedAndRemoved(t *testing.T) {
	pr := basePR()

	added := DiffPR(nil, &pr)
	assert.Equal(t, domain.ChangeAdded, added.Kind)
	assert.Equal(t, "pr-1", added.PullRequestID)

	removed := DiffPR(&pr, nil)
	assert.Equal(t, domain.ChangeRemoved, removed.Kind)

	assert.True(t, DiffPR(nil, nil).IsEmpty())
}

func TestDiffPR_EveryTrackedField(t *testing.T) {
	tests := []struct {
		field  Field
		mutate func(pr *domain.CachedPullRequest)
	}{
		{FieldStatus, func(pr *domain.CachedPullRequest) { pr.Status = domain.StatusClosed }},
		{FieldTitle, func(pr *domain.CachedPullRequest) { pr.Title = "New title" }},
		{FieldDescription, func(pr *domain.CachedPullRequest) { pr.Description = "" }},
		{FieldRevision, func(pr *domain.CachedPullRequest) { pr.Revision = "fff" }},
		{FieldTargetRef, func(pr *domain.CachedPullRequest) { pr.TargetRef = "release" }},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			old := basePR()
			fresh := basePR()
			tt.mutate(&fresh)

			delta := DiffPR(&old, &fresh)

			require.Len(t, delta.Changes, 1)
			assert.Equal(t, tt.field, delta.Changes[0].Field)
			assert.Equal(t, domain.ChangeModified, delta.Kind)
		})
	}
}

func TestDiffComments_SameSetIsEmpty(t *testing.T) {
	set := []domain.Comment{comment("c-1", "h1"), comment("c-2", "h2")}
	reordered := []domain.Comment{set[1], set[0]}

	assert.True(t, DiffComments(set, set).IsEmpty())
	assert.True(t, DiffComments(set, reordered).IsEmpty())
	assert.True(t, DiffComments(nil, nil).IsEmpty())
}

func TestDiffComments_Classification(t *testing.T) {
	c1 := comment("c-1", "h1")
	c2 := comment("c-2", "h2")

	added := DiffComments(nil, []domain.Comment{c1, c2})
	assert.Equal(t, []domain.Comment{c1, c2}, added.Added)
	assert.Empty(t, added.Modified)
	assert.Empty(t, added.Removed)

	removed := DiffComments([]domain.Comment{c2, c1}, nil)
	assert.Equal(t, []domain.Comment{c1, c2}, removed.Removed)
	assert.Empty(t, removed.Added)

	edited := comment("c-1", "h1-edited")
	modified := DiffComments([]domain.Comment{c1}, []domain.Comment{edited})
	require.Len(t, modified.Modified, 1)
	assert.Equal(t, c1, modified.Modified[0].Old)
	assert.Equal(t, edited, modified.Modified[0].New)

	sameHash := comment("c-1", "h1")
	sameHash.UpdatedAt = t0.Add(time.Hour)
	assert.True(t, DiffComments([]domain.Comment{c1}, []domain.Comment{sameHash}).IsEmpty())
}

func TestDiffComments_ComputesMissingHashes(t *testing.T) {
	old := domain.Comment{ID: "c-1", Body: "same"}
	fresh := domain.Comment{ID: "c-1", Body: "same", ContentHash: domain.ComputeContentHash("same", nil)}
	assert.True(t, DiffComments([]domain.Comment{old}, []domain.Comment{fresh}).IsEmpty())

	fresh.Body = "different"
	fresh.ContentHash = ""
	delta := DiffComments([]domain.Comment{old}, []domain.Comment{fresh})
	require.Len(t, delta.Modified, 1)
	assert.Empty(t, delta.Modified[0].Old.ContentHash)
}

func TestDiffComments_Golden(t *testing.T) {
	oldSet := []domain.Comment{comment("c-3", "h3"), comment("c-1", "h1"), comment("c-2", "h2")}
	newSet := []domain.Comment{comment("c-4", "h4"), comment("c-2", "h2-edited"), comment("c-3", "h3")}

	delta := DiffComments(oldSet, newSet)

	assertGolden(t, "comment_delta", struct {
		Delta   CommentDelta        `json:"delta"`
		Changes []domain.RepoChange `json:"changes"`
	}{delta, delta.Changes()})
}
