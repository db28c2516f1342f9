package session

import (
	"errors"
	"fmt"
)

// ErrNoStore is returned by layout commands when the session has no
// state store.
var ErrNoStore = errors.New("no state store configured")

// UnknownCommandError is returned for a command name the session does not
// know.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q (type help for commands)", e.Name)
}

// UsageError is returned when a command is given the wrong arguments.
type UsageError struct {
	Command string
	Usage   string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s %s", e.Command, e.Usage)
}

// UnknownNameError is returned when a command refers to a structure or
// component that does not exist.
type UnknownNameError struct {
	Kind string
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}
