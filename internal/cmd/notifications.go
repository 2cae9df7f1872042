package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/theme"
)

// NotificationsCmd lists and manages notifications
type NotificationsCmd struct {
	List  NotificationsListCmd  `cmd:"list" help:"List notifications, newest first" default:"1"`
	Prune NotificationsPruneCmd `cmd:"prune" help:"Delete notifications older than a retention window"`
	Read  NotificationsReadCmd  `cmd:"read" help:"Mark notifications as read"`
}

// NotificationsListCmd lists one page of notifications
type NotificationsListCmd struct {
	Cursor string `help:"Continue from a previous page"`
	Format string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	Limit  int    `help:"Page size" default:"50"`
	Unread bool   `help:"Only unread notifications" short:"u"`
}

// Run executes the list command
func (n *NotificationsListCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}

	page, err := container.NotificationService.List(context.Background(), account, n.Unread, pageRequest(n.Cursor, n.Limit))
	if err != nil {
		return err
	}

	if n.Format == "json" {
		return printJSON(page)
	}

	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No notifications.")
		return nil
	}
	fmt.Fprintf(out, "  %-36s %-14s %-20s %s\n", "ID", "KIND", "CREATED", "SUMMARY")
	fmt.Fprintln(out, strings.Repeat("─", 100))
	for _, item := range page.Items {
		fmt.Fprintf(out, "%s %-36s %-14s %-20s %s\n",
			theme.UnreadMarker(item.Read),
			theme.IDStyle.Render(item.ID),
			item.Kind,
			formatTime(item.CreatedAt),
			item.Summary)
	}
	printNextCursor(page.NextCursor)
	return nil
}

// NotificationsReadCmd marks notifications read
type NotificationsReadCmd struct {
	All bool     `help:"Mark every notification of the account read"`
	IDs []string `arg:"" optional:"" help:"Notification ids"`
}

// Run executes the read command
func (n *NotificationsReadCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}
	if !n.All && len(n.IDs) == 0 {
		return fmt.Errorf("pass notification ids or --all")
	}

	ctx := context.Background()
	var updated int64
	if n.All {
		updated, err = container.NotificationService.MarkAllRead(ctx, account)
	} else {
		updated, err = container.NotificationService.MarkRead(ctx, account, n.IDs...)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Marked %d notification(s) read\n", updated)
	return nil
}

// NotificationsPruneCmd deletes old notifications
type NotificationsPruneCmd struct {
	OlderThan time.Duration `help:"Retention window" default:"720h"`
}

// Run executes the prune command
func (n *NotificationsPruneCmd) Run(container *Container) error {
	deleted, err := container.NotificationService.Prune(context.Background(), n.OlderThan)
	if err != nil {
		return err
	}
	logging.Logger.Info("Pruned notifications", "deleted", deleted, "older_than", n.OlderThan)
	fmt.Fprintf(out, "Deleted %d notification(s)\n", deleted)
	return nil
}
