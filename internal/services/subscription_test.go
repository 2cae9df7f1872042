package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/prcache/internal/domain"
	portsmocks "github.com/renato0307/prcache/internal/ports/mocks"
)

func TestSubscriptionService(t *testing.T) {
	store := newTestStore(t)
	publisher := portsmocks.NewMockChangePublisher(t)
	svc := NewSubscriptionService(store.Subscriptions(), publisher)
	svc.clock = fixedClock(t0)
	ctx := context.Background()

	publisher.EXPECT().Publish(domain.RepoChange{
		Kind:    domain.ChangeAdded,
		Ref:     domain.EntityRef{Account: "alice", ID: "pr-1", Kind: domain.EntitySubscription, PullRequestID: "pr-1"},
		Summary: "subscribed to pr-1",
	}).Return().Twice()
	publisher.EXPECT().Publish(domain.RepoChange{
		Kind:    domain.ChangeRemoved,
		Ref:     domain.EntityRef{Account: "alice", ID: "pr-1", Kind: domain.EntitySubscription, PullRequestID: "pr-1"},
		Summary: "unsubscribed from pr-1",
	}).Return().Once()

	require.NoError(t, svc.Subscribe(ctx, "alice", "pr-1"))
	require.NoError(t, svc.Subscribe(ctx, "alice", "pr-1"))

	subs, next, err := svc.List(ctx, "alice", domain.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Equal(t, []domain.Subscription{{Account: "alice", CreatedAt: t0, PullRequestID: "pr-1"}}, subs)

	require.NoError(t, svc.Unsubscribe(ctx, "alice", "pr-1"))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, "alice", "pr-1"), domain.ErrNotFound)

	assert.Error(t, svc.Subscribe(ctx, "", "pr-1"))
}
