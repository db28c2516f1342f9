// Package state persists named view layouts in a local SQLite database.
//
// A layout is a snapshot of a view definition saved under a name so it can
// be restored into a session later.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/molview/internal/view"
)

// ErrLayoutNotFound is returned when no layout has the requested name.
var ErrLayoutNotFound = errors.New("layout not found")

// Layout is a saved view definition.
type Layout struct {
	ID         string
	Name       string
	Definition view.Definition
	ViewCount  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store defines the interface for layout persistence.
type Store interface {
	// Open opens a connection to the state store
	Open(path string) error
	// Close closes the connection
	Close() error
	// Migrate brings the schema up to date
	Migrate() error

	// SaveLayout creates or replaces the layout called name
	SaveLayout(ctx context.Context, name string, def view.Definition) (*Layout, error)
	// GetLayout returns the layout called name, or ErrLayoutNotFound
	GetLayout(ctx context.Context, name string) (*Layout, error)
	// ListLayouts returns all layouts without their definitions, by name
	ListLayouts(ctx context.Context) ([]*Layout, error)
	// DeleteLayout removes the layout called name, or returns ErrLayoutNotFound
	DeleteLayout(ctx context.Context, name string) error
}
