package cmd

import (
	"context"
	"time"

	adaptergithub "github.com/renato0307/prcache/internal/adapters/github"
	adapterstorage "github.com/renato0307/prcache/internal/adapters/storage"
	"github.com/renato0307/prcache/internal/events"
	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/services"
)

// ContainerOptions are the resolved settings the container is built from
type ContainerOptions struct {
	DBPath           string
	EventBufferSize  int
	GitHubToken      string
	OperationTimeout time.Duration
	SyncConcurrency  int
}

// Container holds all dependencies for the application
type Container struct {
	Hub   *events.Hub
	Store *adapterstorage.Store

	// Services
	NotificationService *services.NotificationService
	SubscriptionService *services.SubscriptionService
	SyncService         *services.SyncService
}

// NewContainer opens and migrates the cache and wires the services.
// A failed migration is fatal: nothing runs against an unknown schema.
// Without a configured token the gh CLI login is used when available.
func NewContainer(ctx context.Context, opts ContainerOptions) (*Container, error) {
	store, err := adapterstorage.Open(opts.DBPath, adapterstorage.WithOperationTimeout(opts.OperationTimeout))
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	token := opts.GitHubToken
	if token == "" {
		token = adaptergithub.TokenFromGHCLI(ctx)
	}
	if token == "" {
		logging.Logger.Warn("No GitHub token configured, using unauthenticated API access")
	}

	hub := events.NewHub(events.WithBufferSize(opts.EventBufferSize))
	fetcher := adaptergithub.NewFetcher(token)

	return &Container{
		Hub:                 hub,
		NotificationService: services.NewNotificationService(store.Notifications(), hub),
		Store:               store,
		SubscriptionService: services.NewSubscriptionService(store.Subscriptions(), hub),
		SyncService:         services.NewSyncService(store, fetcher, hub, services.WithConcurrency(opts.SyncConcurrency)),
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	c.Hub.Close()
	return c.Store.Close()
}
