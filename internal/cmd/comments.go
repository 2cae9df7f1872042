package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/theme"
)

// CommentsCmd browses cached comments
type CommentsCmd struct {
	List CommentsListCmd `cmd:"list" help:"List cached comments, newest first" default:"1"`
}

// CommentsListCmd lists comments across pull requests
type CommentsListCmd struct {
	Author      string `help:"Only comments by this author"`
	Cursor      string `help:"Continue from a previous page"`
	Format      string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	Limit       int    `help:"Page size" default:"50"`
	PullRequest string `help:"Only comments on this pull request" name:"pr"`
}

// Run executes the list command
func (c *CommentsListCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}

	comments, next, err := container.Store.Comments().List(context.Background(),
		domain.CommentFilter{Account: account, Author: c.Author, PullRequestID: c.PullRequest},
		domain.PageRequest{Cursor: c.Cursor, Limit: c.Limit})
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}

	if c.Format == "json" {
		return printJSON(struct {
			Items      []domain.Comment `json:"items"`
			NextCursor string           `json:"next_cursor,omitempty"`
		}{comments, next})
	}

	renderComments(comments)
	printNextCursor(next)
	return nil
}

func renderComments(comments []domain.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(out, "No comments.")
		return
	}
	for _, c := range comments {
		where := c.PullRequestID
		if c.Position != nil {
			where = fmt.Sprintf("%s %s:%d", where, c.Position.Path, c.Position.Line)
		}
		fmt.Fprintf(out, "%s %s %s\n",
			theme.IDStyle.Render(c.ID),
			theme.TitleStyle.Render(c.Author),
			theme.MutedStyle.Render(formatTime(c.CreatedAt)+" "+where))
		for _, line := range strings.Split(strings.TrimRight(c.Body, "\n"), "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}
