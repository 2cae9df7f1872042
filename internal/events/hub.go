// Package events fans RepoChange values out to live subscribers.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/ports"
)

// DefaultBufferSize is the per-subscriber queue length
const DefaultBufferSize = 64

// Hub broadcasts changes to every registered subscription. Publish never blocks:
// a full subscriber queue loses its oldest event and the drop is counted.
type Hub struct {
	bufferSize int
	closed     bool
	dropped    atomic.Uint64
	mu         sync.Mutex
	nextID     uint64
	subs       map[uint64]*Subscription
}

var _ ports.ChangePublisher = (*Hub)(nil)

// HubOption configures a Hub
type HubOption func(*Hub)

// WithBufferSize sets the per-subscriber queue length (minimum 1)
func WithBufferSize(n int) HubOption {
	return func(h *Hub) {
		if n < 1 {
			n = 1
		}
		h.bufferSize = n
	}
}

// NewHub creates an empty hub
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		bufferSize: DefaultBufferSize,
		subs:       make(map[uint64]*Subscription),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SubscribeOption configures a Subscription
type SubscribeOption func(*Subscription)

// WithFilter only delivers changes for which keep returns true
func WithFilter(keep func(domain.RepoChange) bool) SubscribeOption {
	return func(s *Subscription) {
		s.filter = keep
	}
}

// Subscribe registers a new listener. On a closed hub the returned stream is already closed.
func (h *Hub) Subscribe(opts ...SubscribeOption) *Subscription {
	s := &Subscription{
		ch:  make(chan domain.RepoChange, h.bufferSize),
		hub: h,
	}
	for _, opt := range opts {
		opt(s)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		s.shutdown()
		return s
	}

	h.nextID++
	s.id = h.nextID
	h.subs[s.id] = s
	logging.Logger.Debug("Subscriber registered", "subscriber", s.id, "subscribers", len(h.subs))
	return s
}

// Publish delivers change to every current subscriber
func (h *Hub) Publish(change domain.RepoChange) {
	h.mu.Lock()
	targets := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		if s.filter != nil && !s.filter(change) {
			continue
		}
		if s.deliver(change) {
			h.dropped.Add(1)
			logging.Logger.Debug("Dropped oldest event for slow subscriber",
				"subscriber", s.id,
				"subscriber_dropped", s.Dropped(),
			)
		}
	}
}

// Dropped returns how many events were dropped across all subscribers
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// SubscriberCount returns the number of registered subscriptions
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close unsubscribes everyone; later subscriptions are closed immediately
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := h.subs
	h.subs = make(map[uint64]*Subscription)
	h.mu.Unlock()

	for _, s := range subs {
		s.shutdown()
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// Subscription is one listener's bounded event stream
type Subscription struct {
	ch      chan domain.RepoChange
	closed  bool
	dropped atomic.Uint64
	filter  func(domain.RepoChange) bool
	hub     *Hub
	id      uint64
	mu      sync.Mutex
	once    sync.Once
}

// Events returns the stream. It is closed after Unsubscribe.
func (s *Subscription) Events() <-chan domain.RepoChange {
	return s.ch
}

// Dropped returns how many events this subscriber lost to a full queue
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Unsubscribe stops delivery and releases the queue. Safe to call more than once
// and concurrently with Publish; nothing is delivered after it returns.
func (s *Subscription) Unsubscribe() {
	s.hub.remove(s.id)
	s.shutdown()
}

func (s *Subscription) shutdown() {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.closed = true
	drain:
		for {
			select {
			case <-s.ch:
			default:
				break drain
			}
		}
		close(s.ch)
		logging.Logger.Debug("Subscriber removed", "subscriber", s.id, "dropped", s.dropped.Load())
	})
}

// deliver enqueues change, evicting the oldest queued event when full.
// It reports whether an event was dropped.
func (s *Subscription) deliver(change domain.RepoChange) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	dropped := false
	for {
		select {
		case s.ch <- change:
			return dropped
		default:
		}

		select {
		case <-s.ch:
			if !dropped {
				s.dropped.Add(1)
				dropped = true
			}
		default:
		}
	}
}
