package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/theme"
)

// out is where command output goes; tests swap it
var out io.Writer = os.Stdout

const timeLayout = "2006-01-02 15:04:05"

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func printNextCursor(cursor string) {
	if cursor != "" {
		fmt.Fprintf(out, "\n%s\n", theme.MutedStyle.Render("More results: --cursor "+cursor))
	}
}

func pageRequest(cursor string, limit int) domain.PageRequest {
	return domain.PageRequest{Cursor: cursor, Limit: limit}
}
