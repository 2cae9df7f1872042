package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/renato0307/prcache/internal/adapters/storage"
	"github.com/renato0307/prcache/internal/config"
	"github.com/renato0307/prcache/internal/events"
	"github.com/renato0307/prcache/internal/logging"
	"github.com/renato0307/prcache/internal/services"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version          kong.VersionFlag `help:"Show version information"`
	Account          string           `help:"Account whose cache is used (defaults to settings.json account)" short:"a" env:"PRCACHE_ACCOUNT"`
	DBPath           string           `help:"Path to the cache database (defaults to $PRCACHE_HOME/cache.db)" name:"db-path" env:"PRCACHE_DB_PATH"`
	Debug            bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile        string           `help:"Custom path for debug log file (size rotated)"`
	MaxLogFiles      int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	OperationTimeout time.Duration    `help:"Upper bound for one cache operation" default:"30s"`

	Comments      CommentsCmd      `cmd:"comments" help:"Browse cached comments"`
	Config        ConfigCmd        `cmd:"config" help:"Show settings location and example"`
	Migrate       MigrateCmd       `cmd:"migrate" help:"Apply pending schema migrations"`
	Notifications NotificationsCmd `cmd:"notifications" aliases:"n" help:"List and manage notifications"`
	PRs           PRsCmd           `cmd:"prs" help:"Browse cached pull requests (list, view, search, del)"`
	Serve         ServeCmd         `cmd:"serve" help:"Sync periodically and stream changes over WebSocket"`
	Status        StatusCmd        `cmd:"status" help:"Show cache and sync status"`
	Subscriptions SubscriptionsCmd `cmd:"subscriptions" aliases:"subs" help:"Manage pull request subscriptions"`
	Sync          SyncCmd          `cmd:"sync" help:"Sync subscribed pull requests (or the given ids) from GitHub"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings.
// Precedence: CLI flags > env vars > settings.json > defaults.
func (c *CLI) AfterApply() error {
	if c.settings == nil {
		c.settings = &config.Settings{}
	}

	if c.MaxLogFiles == logging.DefaultMaxLogFiles {
		if _, hasEnv := os.LookupEnv("PRCACHE_MAX_LOG_FILES"); !hasEnv && c.settings.MaxLogFiles != nil {
			c.MaxLogFiles = *c.settings.MaxLogFiles
		}
	}
	if !c.Debug {
		if _, hasEnv := os.LookupEnv("PRCACHE_DEBUG"); !hasEnv && c.settings.Debug != nil && *c.settings.Debug {
			c.Debug = true
		}
	}
	if c.Account == "" {
		c.Account = c.settings.Account
	}
	if c.DBPath == "" {
		c.DBPath = c.settings.DBPath
	}
	if c.DBPath == "" {
		c.DBPath = config.DBPath()
	}
	if c.OperationTimeout == storage.DefaultOperationTimeout && c.settings.OperationTimeoutSeconds != nil {
		c.OperationTimeout = time.Duration(*c.settings.OperationTimeoutSeconds) * time.Second
	}

	// Logging comes first: the GORM logger writes through logging.Logger
	return logging.Initialize(logging.Options{
		Debug:       c.Debug,
		DebugFile:   c.DebugFile,
		MaxLogFiles: c.MaxLogFiles,
		Stdout:      os.Stderr,
	})
}

// ProvideContainer opens the cache on first use. Bound with kong.BindToProvider
// so commands that never touch the cache do not open it.
func (c *CLI) ProvideContainer() (*Container, error) {
	if c.Container != nil {
		return c.Container, nil
	}

	opts := ContainerOptions{
		DBPath:           c.DBPath,
		EventBufferSize:  events.DefaultBufferSize,
		GitHubToken:      c.settings.Token(),
		OperationTimeout: c.OperationTimeout,
		SyncConcurrency:  services.DefaultSyncConcurrency,
	}
	if c.settings.EventBufferSize != nil {
		opts.EventBufferSize = *c.settings.EventBufferSize
	}
	if c.settings.SyncConcurrency != nil {
		opts.SyncConcurrency = *c.settings.SyncConcurrency
	}

	container, err := NewContainer(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container
	return container, nil
}

// requireAccount returns the active account or a hint on how to set one
func (c *CLI) requireAccount() (string, error) {
	if c.Account == "" {
		return "", fmt.Errorf("no account configured: pass --account, set PRCACHE_ACCOUNT or \"account\" in %s", config.SettingsPath())
	}
	return c.Account, nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
