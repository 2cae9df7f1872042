package cmd

import (
	"fmt"

	"github.com/renato0307/prcache/internal/config"
)

// ConfigCmd shows settings location and example
type ConfigCmd struct {
	Example ConfigExampleCmd `cmd:"example" help:"Print an example settings.json" default:"1"`
	Path    ConfigPathCmd    `cmd:"path" help:"Print the settings.json path"`
}

// ConfigExampleCmd prints an example settings file
type ConfigExampleCmd struct{}

// Run executes the example command
func (c *ConfigExampleCmd) Run() error {
	return printJSON(config.SettingsExample())
}

// ConfigPathCmd prints the settings path
type ConfigPathCmd struct{}

// Run executes the path command
func (c *ConfigPathCmd) Run() error {
	fmt.Fprintln(out, config.SettingsPath())
	return nil
}
