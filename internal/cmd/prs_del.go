package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/renato0307/prcache/internal/domain"
	"github.com/renato0307/prcache/internal/logging"
)

// PRsDelCmd removes a pull request and its comments from the cache
type PRsDelCmd struct {
	Force bool   `help:"Delete without confirmation" short:"f"`
	ID    string `arg:"" help:"Pull request id (owner/repo#number)"`
}

// Run executes the del command
func (p *PRsDelCmd) Run(container *Container, cli *CLI) error {
	account, err := cli.requireAccount()
	if err != nil {
		return err
	}

	if !p.Force && !p.confirm() {
		return nil
	}

	logging.Logger.Info("Deleting cached pull request", "account", account, "id", p.ID)
	err = container.Store.PullRequests().Delete(context.Background(), account, p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("pull request %s is not cached", p.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", p.ID, err)
	}

	fmt.Fprintf(out, "Deleted %s\n", p.ID)
	return nil
}

func (p *PRsDelCmd) confirm() bool {
	fmt.Printf("WARNING: This will remove '%s' and its comments from the cache\n", p.ID)
	fmt.Print("\nContinue? (y/N): ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		logging.Logger.Info("User cancelled deletion", "id", p.ID)
		fmt.Println("Cancelled")
		return false
	}
	return true
}
