package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/renato0307/prcache/internal/adapters/github"
	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/theme"
)

// PRsViewCmd shows one cached pull request
type PRsViewCmd struct {
	Comments bool   `help:"Include comments" short:"c"`
	Format   string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	ID       string `arg:"" help:"Pull request id (owner/repo#number)"`
	Web      bool   `help:"Open the pull request in the browser (requires gh CLI)" short:"w"`
}

// Run executes the view command
func (p *PRsViewCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if p.Web {
		return github.OpenInBrowser(p.ID)
	}

	pr, err := container.Store.PullRequests().Get(ctx, account, p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("pull request %s is not cached (run: prcache sync --subscribe %s)", p.ID, p.ID)
	}
	if err != nil {
		return err
	}

	var comments []domain.Comment
	if p.Comments {
		comments, err = container.Store.Comments().ListForPullRequest(ctx, account, p.ID)
		if err != nil {
			return err
		}
	}

	if p.Format == "json" {
		return printJSON(struct {
			Comments    []domain.Comment          `json:"comments,omitempty"`
			PullRequest *domain.CachedPullRequest `json:"pull_request"`
		}{comments, pr})
	}

	fmt.Fprintln(out, theme.TitleStyle.Render(pr.Title))
	fmt.Fprintf(out, "ID:             %s\n", theme.IDStyle.Render(pr.ID))
	fmt.Fprintf(out, "Status:         %s\n", theme.RenderStatus(pr.Status))
	fmt.Fprintf(out, "Author:         %s\n", pr.Author)
	fmt.Fprintf(out, "Branches:       %s -> %s\n", pr.SourceRef, pr.TargetRef)
	fmt.Fprintf(out, "Revision:       %s\n", pr.Revision)
	fmt.Fprintf(out, "Remote updated: %s\n", formatTime(pr.RemoteUpdatedAt))
	fmt.Fprintf(out, "Last synced:    %s\n", formatTime(pr.LastSyncedAt))
	if pr.Description != "" {
		fmt.Fprintf(out, "\n%s\n", pr.Description)
	}

	if p.Comments {
		fmt.Fprintf(out, "\nComments (%d):\n", len(comments))
		renderComments(comments)
	}
	return nil
}
