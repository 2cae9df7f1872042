package github

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/renato0307/prcache/internal/logging"
)

const ghTimeout = 5 * time.Second

// lookPath is swapped in tests
var lookPath = exec.LookPath

// TokenFromGHCLI asks an authenticated gh CLI for its token.
// Returns "" when gh is not installed or not logged in.
func TokenFromGHCLI(ctx context.Context) string {
	if _, err := lookPath("gh"); err != nil {
		logging.Logger.Debug("gh CLI not found, skipping token lookup")
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, ghTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		logging.Logger.Debug("gh auth token failed", "error", err)
		return ""
	}
	return strings.TrimSpace(string(output))
}

// OpenInBrowser opens a pull request in the default browser using gh CLI
func OpenInBrowser(id string) error {
	owner, repo, number, err := ParseID(id)
	if err != nil {
		return err
	}
	logging.Logger.Debug("Opening pull request in browser", "id", id)

	if _, err := lookPath("gh"); err != nil {
		return fmt.Errorf("gh CLI not found")
	}

	cmd := exec.Command("gh", "pr", "view", strconv.Itoa(number), "--repo", owner+"/"+repo, "--web")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gh pr view --web failed: %w", err)
	}
	return nil
}
