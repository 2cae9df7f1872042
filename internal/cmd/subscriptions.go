package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/renato0307/prcache/internal/adapters/github"
	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/theme"
)

// SubscriptionsCmd manages pull request subscriptions
type SubscriptionsCmd struct {
	Add  SubscriptionsAddCmd  `cmd:"add" help:"Follow a pull request"`
	Del  SubscriptionsDelCmd  `cmd:"del" help:"Stop following a pull request"`
	List SubscriptionsListCmd `cmd:"list" help:"List followed pull requests" default:"1"`
}

// SubscriptionsAddCmd subscribes to a pull request
type SubscriptionsAddCmd struct {
	ID string `arg:"" help:"Pull request id (owner/repo#number)"`
}

// Run executes the add command
func (s *SubscriptionsAddCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}
	if _, _, _, err := github.ParseID(s.ID); err != nil {
		return err
	}
	if err := container.SubscriptionService.Subscribe(context.Background(), account, s.ID); err != nil {
		return err
	}
	fmt.Fprintf(out, "Subscribed to %s\n", s.ID)
	return nil
}

// SubscriptionsDelCmd unsubscribes from a pull request
type SubscriptionsDelCmd struct {
	ID string `arg:"" help:"Pull request id (owner/repo#number)"`
}

// Run executes the del command
func (s *SubscriptionsDelCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}
	err = container.SubscriptionService.Unsubscribe(context.Background(), account, s.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("not subscribed to %s", s.ID)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Unsubscribed from %s\n", s.ID)
	return nil
}

// SubscriptionsListCmd lists subscriptions, newest first
type SubscriptionsListCmd struct {
	Cursor string `help:"Continue from a previous page"`
	Format string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	Limit  int    `help:"Page size" default:"50"`
}

// Run executes the list command
func (s *SubscriptionsListCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}

	subs, next, err := container.SubscriptionService.List(context.Background(), account, pageRequest(s.Cursor, s.Limit))
	if err != nil {
		return err
	}

	if s.Format == "json" {
		return printJSON(struct {
			Items      []domain.Subscription `json:"items"`
			NextCursor string                `json:"next_cursor,omitempty"`
		}{subs, next})
	}

	if len(subs) == 0 {
		fmt.Fprintln(out, "No subscriptions.")
		return nil
	}
	fmt.Fprintf(out, "%-40s %s\n", "PULL REQUEST", "SINCE")
	fmt.Fprintln(out, strings.Repeat("─", 62))
	for _, sub := range subs {
		fmt.Fprintf(out, "%-40s %s\n", theme.IDStyle.Render(sub.PullRequestID), formatTime(sub.CreatedAt))
	}
	printNextCursor(next)
	return nil
}
