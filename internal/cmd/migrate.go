package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/prcache/internal/logging"
)

// MigrateCmd applies pending schema migrations. Opening the container
// already migrates; this reports the resulting version.
type MigrateCmd struct{}

// Run executes the migrate command
func (m *MigrateCmd) Run(container *Container) error {
	version, err := container.Store.SchemaVersion(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logging.Logger.Info("Schema migrated", "version", version, "path", container.Store.Path())
	fmt.Fprintf(out, "Schema at version %d (%s)\n", version, container.Store.Path())
	return nil
}
