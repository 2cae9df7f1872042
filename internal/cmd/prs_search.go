package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato0307/prcache/internal/theme"
)

// PRsSearchCmd runs a ranked search over cached pull requests
type PRsSearchCmd struct {
	Format string   `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	Limit  int      `help:"Maximum number of hits" default:"20"`
	Query  []string `arg:"" help:"Search terms"`
}

// Run executes the search command
func (p *PRsSearchCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}

	result, err := container.Store.PullRequests().Search(context.Background(), account, strings.Join(p.Query, " "), p.Limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if p.Format == "json" {
		return printJSON(result)
	}

	if len(result.Hits) == 0 {
		fmt.Fprintf(out, "No matches for %q.\n", result.Query)
		return nil
	}
	for _, hit := range result.Hits {
		fmt.Fprintf(out, "%-30s %-8s %-12s %s\n",
			theme.IDStyle.Render(truncate(hit.PullRequest.ID, 30)),
			theme.RenderStatus(hit.PullRequest.Status),
			theme.MutedStyle.Render(hit.Field.String()),
			truncate(hit.PullRequest.Title, 60))
	}
	return nil
}
