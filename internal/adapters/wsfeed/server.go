// Package wsfeed streams cached changes to websocket clients.
package wsfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/events"
	"github.com/renato0307/prcache/internal/logging"
)

// DefaultWriteTimeout bounds a single frame write to a slow client
const DefaultWriteTimeout = 5 * time.Second

// Server exposes /ws and /health. Each websocket client gets its own hub
// subscription, so a slow client only loses its own oldest events.
type Server struct {
	clients        atomic.Int64
	hub            *events.Hub
	mux            *http.ServeMux
	originPatterns []string
	writeTimeout   time.Duration
}

// Option configures a Server
type Option func(*Server)

// WithWriteTimeout overrides DefaultWriteTimeout
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithOriginPatterns allows cross-origin browser clients matching the patterns
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) {
		s.originPatterns = patterns
	}
}

// NewServer creates a feed backed by hub
func NewServer(hub *events.Hub, opts ...Option) *Server {
	s := &Server{
		hub:          hub,
		mux:          http.NewServeMux(),
		writeTimeout: DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ClientCount returns the number of connected websocket clients
func (s *Server) ClientCount() int {
	return int(s.clients.Load())
}

// Health is the /health response body
type Health struct {
	Clients int    `json:"clients"`
	Dropped uint64 `json:"dropped"`
	Status  string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Health{
		Clients: s.ClientCount(),
		Dropped: s.hub.Dropped(),
		Status:  "ok",
	})
}

// handleWebSocket streams changes, optionally narrowed by ?account=
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		logging.Logger.Warn("Websocket accept failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.CloseNow()

	sub := s.hub.Subscribe(events.WithFilter(func(c domain.RepoChange) bool {
		return account == "" || c.Ref.Account == account
	}))
	defer sub.Unsubscribe()

	s.clients.Add(1)
	defer s.clients.Add(-1)
	logging.Logger.Info("Feed client connected", "remote", r.RemoteAddr, "account", account)

	// Clients never send; CloseRead handles control frames and cancels ctx on disconnect.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			logging.Logger.Info("Feed client disconnected", "remote", r.RemoteAddr, "dropped", sub.Dropped())
			return
		case change, ok := <-sub.Events():
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			if err := s.write(ctx, conn, change); err != nil {
				logging.Logger.Warn("Feed write failed", "error", err, "remote", r.RemoteAddr)
				return
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, change domain.RepoChange) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, change)
}
