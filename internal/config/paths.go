package config

import (
	"os"
	"path/filepath"
)

// Home returns PRCACHE_HOME or the ~/.prcache default
func Home() string {
	home := os.Getenv("PRCACHE_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".prcache"
		}
		return filepath.Join(homeDir, ".prcache")
	}
	return ExpandPath(home)
}

// DBPath returns $PRCACHE_HOME/cache.db
func DBPath() string {
	return filepath.Join(Home(), "cache.db")
}

// SettingsPath returns $PRCACHE_HOME/settings.json
func SettingsPath() string {
	return filepath.Join(Home(), "settings.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
