// Package config provides configuration management for the molview CLI.
//
// Settings are layered with koanf: built-in defaults, then molview.yaml,
// then MOLVIEW_ environment variables, then flags set on the command line.
// The shell settings are shared with internal/config and re-exported here.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/molview/internal/config"
)

// ShellConfig is an alias for the shared shell configuration.
type ShellConfig = sharedcfg.ShellConfig

// Config holds all CLI configuration options.
type Config struct {
	ViewsFile     string        `koanf:"views_file"`
	StatePath     string        `koanf:"state_path"`
	FocusDuration time.Duration `koanf:"focus_duration"`
	LogLevel      string        `koanf:"log_level"`
	OutputFormat  string        `koanf:"output"`
	Shell         *ShellConfig  `koanf:"shell"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// GetShellConfig returns the shell config with defaults applied for any
// unset values.
func (c *Config) GetShellConfig() *ShellConfig {
	if c.Shell == nil {
		c.Shell = &ShellConfig{}
	}
	c.Shell.ApplyDefaults()
	return c.Shell
}

// Output modes.
const (
	OutputAuto     = "auto" // text on a terminal, markdown otherwise
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultViewsFile     = sharedcfg.DefaultViewsFile
	DefaultStateFile     = sharedcfg.DefaultStateFile
	DefaultFocusDuration = sharedcfg.DefaultFocusDuration
	DefaultLogLevel      = sharedcfg.DefaultLogLevel
	DefaultOutput        = sharedcfg.DefaultOutput
)

// ConfigFileNames are looked up in the project root, in order.
var ConfigFileNames = []string{"molview.yaml", "molview.yml"}
