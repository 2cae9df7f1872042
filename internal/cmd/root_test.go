package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/prcache/internal/config"
)

// run parses args into a fresh CLI and executes the selected command,
// returning what the command printed.
func run(t *testing.T, settings *config.Settings, args ...string) (*CLI, string, error) {
	t.Helper()
	t.Setenv("PRCACHE_HOME", t.TempDir())
	t.Setenv("PRCACHE_ACCOUNT", "")
	t.Setenv("PRCACHE_DB_PATH", "")
	t.Setenv("PRCACHE_DEBUG", "")

	var buf bytes.Buffer
	previous := out
	out = &buf
	t.Cleanup(func() { out = previous })

	cli := &CLI{}
	cli.SetSettings(settings)
	parser, err := kong.New(cli,
		kong.Name("prcache"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Bind(cli),
		kong.BindToProvider(cli.ProvideContainer),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return cli, "", err
	}
	err = ctx.Run()
	require.NoError(t, cli.Close())
	return cli, buf.String(), err
}

func TestCLI_SettingsPrecedence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	settings := &config.Settings{Account: "from-settings", DBPath: dbPath}

	cli, _, err := run(t, settings, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "from-settings", cli.Account)
	assert.Equal(t, dbPath, cli.DBPath)
	assert.Nil(t, cli.Container, "commands that do not need the cache must not open it")

	cli, _, err = run(t, settings, "--account", "from-flag", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cli.Account)
}

func TestCLI_DefaultDBPath(t *testing.T) {
	cli, _, err := run(t, &config.Settings{}, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, config.DBPath(), cli.DBPath)
}

func TestCLI_RequiresAccount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	_, _, err := run(t, &config.Settings{}, "--db-path", dbPath, "prs", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account configured")
}

func TestCLI_Migrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	_, output, err := run(t, &config.Settings{}, "--db-path", dbPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, output, "Schema at version 7")
}

func TestCLI_SubscribeThenStatus(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	_, output, err := run(t, &config.Settings{}, "-a", "alice", "--db-path", dbPath, "subscriptions", "add", "octo/hello#7")
	require.NoError(t, err)
	assert.Contains(t, output, "Subscribed to octo/hello#7")

	_, output, err = run(t, &config.Settings{}, "-a", "alice", "--db-path", dbPath, "status", "-f", "json")
	require.NoError(t, err)

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, "alice", report.Account)
	assert.Equal(t, 7, report.SchemaVersion)
	assert.Equal(t, 1, report.Subscriptions)
	assert.Zero(t, report.Unread)
}

func TestCLI_SubscribeRejectsMalformedID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	_, _, err := run(t, &config.Settings{}, "-a", "alice", "--db-path", dbPath, "subscriptions", "add", "not-an-id")
	assert.Error(t, err)
}

func TestCLI_ViewMissingPullRequest(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	_, _, err := run(t, &config.Settings{}, "-a", "alice", "--db-path", dbPath, "prs", "view", "octo/hello#7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not cached")
}
