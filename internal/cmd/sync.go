package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/theme"
)

// SyncCmd syncs pull requests from GitHub into the cache
type SyncCmd struct {
	IDs       []string `arg:"" optional:"" help:"Pull request ids (owner/repo#number); defaults to all subscriptions"`
	Subscribe bool     `help:"Subscribe to the given ids before syncing" short:"s"`
}

// Run executes the sync command
func (s *SyncCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if len(s.IDs) == 0 {
		return s.syncAccount(ctx, container, account)
	}

	for _, id := range s.IDs {
		if s.Subscribe {
			if err := container.SubscriptionService.Subscribe(ctx, account, id); err != nil {
				return err
			}
		}
		logging.Logger.Info("Syncing pull request", "account", account, "id", id)
		result, err := container.SyncService.SyncPullRequest(ctx, account, id)
		if err != nil {
			return fmt.Errorf("failed to sync %s: %w", id, err)
		}
		printChanges(id, result.Changes)
	}
	return nil
}

func (s *SyncCmd) syncAccount(ctx context.Context, container *Container, account string) error {
	report, err := container.SyncService.SyncAccount(ctx, account)
	if report != nil {
		fmt.Fprintf(out, "Synced %d pull request(s), %d change(s)\n", len(report.Synced), report.Changes)
		ids := make([]string, 0, len(report.Failed))
		for id := range report.Failed {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(out, "%s %s: %v\n", theme.ErrorStyle.Render("failed"), id, report.Failed[id])
		}
	}
	return err
}

func printChanges(id string, changes []domain.RepoChange) {
	if len(changes) == 0 {
		fmt.Fprintf(out, "%s: up to date\n", theme.IDStyle.Render(id))
		return
	}
	for _, c := range changes {
		fmt.Fprintf(out, "%-8s %-12s %s\n", theme.RenderChangeKind(c.Kind), c.Ref.Kind, c.Summary)
	}
}
