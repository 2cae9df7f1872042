package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/theme"
)

// PRsListCmd lists cached pull requests, most recently synced first
type PRsListCmd struct {
	Author string `help:"Only pull requests by this author"`
	Cursor string `help:"Continue from a previous page"`
	Format string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	Limit  int    `help:"Page size" default:"50"`
	Status string `help:"Only pull requests in this status (open, draft, closed, merged)"`
}

// Run executes the list command
func (p *PRsListCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}

	status := domain.PRStatus(p.Status)
	if status != "" && !status.Valid() {
		return fmt.Errorf("unknown status %q", p.Status)
	}

	prs, next, err := container.Store.PullRequests().List(context.Background(),
		domain.PullRequestFilter{Account: account, Author: p.Author, Status: status},
		domain.PageRequest{Cursor: p.Cursor, Limit: p.Limit})
	if err != nil {
		return fmt.Errorf("failed to list pull requests: %w", err)
	}

	if p.Format == "json" {
		return printJSON(struct {
			Items      []domain.CachedPullRequest `json:"items"`
			NextCursor string                     `json:"next_cursor,omitempty"`
		}{prs, next})
	}

	renderPullRequests(prs)
	printNextCursor(next)
	return nil
}

func renderPullRequests(prs []domain.CachedPullRequest) {
	if len(prs) == 0 {
		fmt.Fprintln(out, "No pull requests cached.")
		return
	}

	fmt.Fprintf(out, "%-30s %-8s %-16s %-20s %s\n", "ID", "STATUS", "AUTHOR", "SYNCED", "TITLE")
	fmt.Fprintln(out, strings.Repeat("─", 100))
	for _, pr := range prs {
		fmt.Fprintf(out, "%-30s %-8s %-16s %-20s %s\n",
			theme.IDStyle.Render(truncate(pr.ID, 30)),
			theme.RenderStatus(pr.Status),
			truncate(pr.Author, 16),
			formatTime(pr.LastSyncedAt),
			truncate(pr.Title, 60))
	}
}
