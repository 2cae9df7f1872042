package events

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/prcache/internal/domain"
)

func change(id string) domain.RepoChange {
	return domain.RepoChange{
		Kind: domain.ChangeModified,
		Ref:  domain.EntityRef{Account: "alice", ID: id, Kind: domain.EntityPullRequest, PullRequestID: id},
	}
}

func receive(t *testing.T, s *Subscription) domain.RepoChange {
	t.Helper()
	select {
	case c, ok := <-s.Events():
		require.True(t, ok, "stream closed")
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return domain.RepoChange{}
	}
}

func TestHub_DeliversInPublishOrderToEverySubscriber(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()

	for i := 0; i < 3; i++ {
		hub.Publish(change(fmt.Sprintf("pr-%d", i)))
	}

	for _, s := range []*Subscription{a, b} {
		for i := 0; i < 3; i++ {
			assert.Equal(t, fmt.Sprintf("pr-%d", i), receive(t, s).Ref.ID)
		}
	}
	assert.Equal(t, 2, hub.SubscriberCount())
	assert.Zero(t, hub.Dropped())
}

func TestHub_DropsOldestWhenFull(t *testing.T) {
	hub := NewHub(WithBufferSize(2))
	slow := hub.Subscribe()
	fast := hub.Subscribe()

	hub.Publish(change("pr-1"))
	assert.Equal(t, "pr-1", receive(t, fast).Ref.ID)
	hub.Publish(change("pr-2"))
	assert.Equal(t, "pr-2", receive(t, fast).Ref.ID)
	hub.Publish(change("pr-3"))
	assert.Equal(t, "pr-3", receive(t, fast).Ref.ID)
	hub.Publish(change("pr-4"))
	assert.Equal(t, "pr-4", receive(t, fast).Ref.ID)

	assert.Equal(t, "pr-3", receive(t, slow).Ref.ID)
	assert.Equal(t, "pr-4", receive(t, slow).Ref.ID)
	assert.Equal(t, uint64(2), slow.Dropped())
	assert.Zero(t, fast.Dropped())
	assert.Equal(t, uint64(2), hub.Dropped())
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub(WithBufferSize(1))
	hub.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(change("pr-1"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a subscriber that never reads")
	}
	assert.Equal(t, uint64(999), hub.Dropped())
}

func TestHub_UnsubscribeIsIdempotentAndClosesStream(t *testing.T) {
	hub := NewHub()
	s := hub.Subscribe()
	hub.Publish(change("pr-1"))

	s.Unsubscribe()
	s.Unsubscribe()
	hub.Publish(change("pr-2"))

	_, ok := <-s.Events()
	assert.False(t, ok, "queued events are released on unsubscribe")
	assert.Zero(t, hub.SubscriberCount())
}

func TestHub_NoDeliveryAfterConcurrentUnsubscribe(t *testing.T) {
	for round := 0; round < 50; round++ {
		hub := NewHub(WithBufferSize(8))
		s := hub.Subscribe()

		var wg sync.WaitGroup
		stop := make(chan struct{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					hub.Publish(change("pr-1"))
				}
			}
		}()

		s.Unsubscribe()
		// Closed channel with nothing buffered means nothing arrived after Unsubscribe
		for range s.Events() {
			t.Fatal("event delivered after unsubscribe")
		}

		close(stop)
		wg.Wait()
	}
}

func TestHub_Filter(t *testing.T) {
	hub := NewHub()
	onlyPR2 := hub.Subscribe(WithFilter(func(c domain.RepoChange) bool {
		return c.Ref.ID == "pr-2"
	}))

	hub.Publish(change("pr-1"))
	hub.Publish(change("pr-2"))

	assert.Equal(t, "pr-2", receive(t, onlyPR2).Ref.ID)
	select {
	case c := <-onlyPR2.Events():
		t.Fatalf("unexpected event %v", c)
	default:
	}
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	before := hub.Subscribe()

	hub.Close()

	_, ok := <-before.Events()
	assert.False(t, ok)

	after := hub.Subscribe()
	_, ok = <-after.Events()
	assert.False(t, ok)
	after.Unsubscribe()
	assert.Zero(t, hub.SubscriberCount())
	hub.Publish(change("pr-1"))
}

func TestHub_IndependentInstances(t *testing.T) {
	first := NewHub()
	second := NewHub()
	s := second.Subscribe()

	first.Publish(change("pr-1"))

	select {
	case c := <-s.Events():
		t.Fatalf("hub leaked event %v", c)
	default:
	}
}
