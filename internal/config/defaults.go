package config

import "time"

// Default configuration values.
const (
	DefaultViewsFile     = "views.yaml"
	DefaultStateFile     = ".molview/state.db"
	DefaultFocusDuration = 500 * time.Millisecond
	DefaultLogLevel      = "warn"
	DefaultOutput        = "auto" // TTY=text, non-TTY=plain
	DefaultPrompt        = "molview> "
	DefaultHistoryFile   = ".molview/history"
)
