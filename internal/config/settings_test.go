package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("PRCACHE_HOME", dir)
		assert.Equal(t, dir, Home())
		assert.Equal(t, filepath.Join(dir, "cache.db"), DBPath())
		assert.Equal(t, filepath.Join(dir, "settings.json"), SettingsPath())
	})

	t.Run("default under user home", func(t *testing.T) {
		t.Setenv("PRCACHE_HOME", "")
		homeDir, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(homeDir, ".prcache"), Home())
	})
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, homeDir, ExpandPath("~"))
	assert.Equal(t, filepath.Join(homeDir, "x", "cache.db"), ExpandPath("~/x/cache.db"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
}

func TestLoadSettingsFrom(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, s *Settings)
	}{
		{
			name:    "full file",
			content: `{"account": "alice", "debug": true, "sync_concurrency": 8, "feed_addr": ":9000"}`,
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "alice", s.Account)
				require.NotNil(t, s.Debug)
				assert.True(t, *s.Debug)
				require.NotNil(t, s.SyncConcurrency)
				assert.Equal(t, 8, *s.SyncConcurrency)
				assert.Equal(t, ":9000", s.FeedAddr)
				assert.Nil(t, s.EventBufferSize)
			},
		},
		{
			name:    "invalid json",
			content: `{"account":`,
			wantErr: "invalid settings.json",
		},
		{
			name:    "non positive concurrency",
			content: `{"sync_concurrency": 0}`,
			wantErr: "sync_concurrency must be positive",
		},
		{
			name:    "negative log files",
			content: `{"max_log_files": -1}`,
			wantErr: "max_log_files must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			s, err := LoadSettingsFrom(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestLoadSettingsFrom_Missing(t *testing.T) {
	s, err := LoadSettingsFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, &Settings{}, s)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	concurrency := 2
	in := &Settings{Account: "alice", SyncConcurrency: &concurrency}

	require.NoError(t, SaveSettings(path, in))
	out, err := LoadSettingsFrom(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSettings_Token(t *testing.T) {
	s := &Settings{GitHubToken: "from-file"}

	t.Setenv(GitHubTokenEnv, "")
	assert.Equal(t, "from-file", s.Token())

	t.Setenv(GitHubTokenEnv, "from-env")
	assert.Equal(t, "from-env", s.Token())
}

func TestSettingsExample_CoversEveryField(t *testing.T) {
	example := SettingsExample()
	for _, key := range []string{"account", "db_path", "debug", "event_buffer_size", "feed_addr",
		"github_token", "max_log_files", "operation_timeout_seconds", "sync_concurrency"} {
		assert.Contains(t, example, key)
		assert.NotNil(t, example[key], key)
	}
}
