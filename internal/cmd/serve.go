package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/renato0307/prcache/internal/adapters/wsfeed"
	"github.com/renato0307/prcache/internal/logging"
)

// ServeCmd syncs on an interval and streams changes to WebSocket clients
type ServeCmd struct {
	Addr     string        `help:"Listen address for /ws and /health (defaults to settings feed_addr or 127.0.0.1:7419)"`
	Interval time.Duration `help:"Time between account syncs (0 disables syncing)" default:"5m"`
}

const defaultFeedAddr = "127.0.0.1:7419"

// Run executes the serve command
func (s *ServeCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}

	addr := s.Addr
	if addr == "" {
		addr = cli.settings.FeedAddr
	}
	if addr == "" {
		addr = defaultFeedAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           wsfeed.NewServer(container.Hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	logging.Logger.Info("Feed listening", "addr", listener.Addr().String(), "account", account, "interval", s.Interval)
	fmt.Fprintf(out, "Streaming changes on ws://%s/ws (Ctrl+C to stop)\n", listener.Addr())

	if s.Interval > 0 {
		go s.syncLoop(ctx, container, account)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("feed server failed: %w", err)
		}
	}

	// Closing the hub ends every client stream before the server drains
	container.Hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *ServeCmd) syncLoop(ctx context.Context, container *Container, account string) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		report, err := container.SyncService.SyncAccount(ctx, account)
		if err != nil {
			logging.Logger.Warn("Account sync failed", "account", account, "error", err)
		} else {
			logging.Logger.Info("Account synced", "account", account, "synced", len(report.Synced), "changes", report.Changes)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
