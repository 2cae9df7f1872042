package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/theme"
)

// StatusCmd shows cache and sync status
type StatusCmd struct {
	Format string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
}

type statusReport struct {
	Account       string                `json:"account"`
	DBPath        string                `json:"db_path"`
	SchemaVersion int                   `json:"schema_version"`
	Subscriptions int                   `json:"subscriptions"`
	Syncs         []domain.SyncMetadata `json:"syncs"`
	Unread        int64                 `json:"unread"`
}

// Run executes the status command
func (s *StatusCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}
	ctx := context.Background()

	report := statusReport{Account: account, DBPath: container.Store.Path()}
	if report.SchemaVersion, err = container.Store.SchemaVersion(ctx); err != nil {
		return err
	}
	if report.Unread, err = container.NotificationService.UnreadCount(ctx, account); err != nil {
		return err
	}
	subs, err := container.Store.Subscriptions().ListAll(ctx, account)
	if err != nil {
		return err
	}
	report.Subscriptions = len(subs)
	if report.Syncs, err = container.Store.SyncMetadata().List(ctx); err != nil {
		return err
	}

	if s.Format == "json" {
		return printJSON(report)
	}

	fmt.Fprintf(out, "Account:        %s\n", theme.TitleStyle.Render(report.Account))
	fmt.Fprintf(out, "Database:       %s (schema v%d)\n", report.DBPath, report.SchemaVersion)
	fmt.Fprintf(out, "Subscriptions:  %d\n", report.Subscriptions)
	unread := fmt.Sprintf("%d", report.Unread)
	if report.Unread > 0 {
		unread = theme.UnreadStyle.Render(unread)
	}
	fmt.Fprintf(out, "Unread:         %s\n", unread)

	if len(report.Syncs) == 0 {
		fmt.Fprintln(out, "Last sync:      never")
		return nil
	}
	fmt.Fprintln(out, "Sync points:")
	for _, m := range report.Syncs {
		fmt.Fprintf(out, "  %-30s %s  %s\n", m.Scope, formatTime(m.LastSyncedAt), theme.MutedStyle.Render(m.Cursor))
	}
	return nil
}
