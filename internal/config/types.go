// Package config provides shared configuration for molview.
// It is decoupled from CLI concerns so the session and the commands can
// load view definition files the same way.
package config

import (
	"fmt"
	"strings"
)

// Format is the encoding of a view definition file.
type Format string

// Supported definition formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat converts a user supplied format name. "yml" is accepted as
// an alias for yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", &UnknownFormatError{Format: s}
	}
}

// UnknownFormatError is returned for unsupported definition formats.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown definition format %q (available: yaml, json)", e.Format)
}

// ShellConfig holds configuration for the interactive shell.
type ShellConfig struct {
	HistoryFile string `koanf:"history_file"`
	Prompt      string `koanf:"prompt"`
	Watch       bool   `koanf:"watch"`
}

// ApplyDefaults fills unset shell fields.
func (c *ShellConfig) ApplyDefaults() {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.HistoryFile == "" {
		c.HistoryFile = DefaultHistoryFile
	}
}
