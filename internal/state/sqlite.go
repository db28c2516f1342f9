package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/molview/internal/view"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var errNotOpened = errors.New("database not opened")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
// A nil logger discards output.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Open opens a connection to the SQLite database, creating its directory
// if needed. Use MemoryPath for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("state path is required")
	}

	var dsn string
	if path == MemoryPath {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	} else {
		path = filepath.Clean(path)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == MemoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened state database", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string { return s.path }

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// --- Layout operations ---

// SaveLayout creates or replaces the layout called name. Replacing keeps
// the layout's ID and creation time. Layout names are trimmed of
// surrounding space by every operation.
func (s *SQLiteStore) SaveLayout(ctx context.Context, name string, def view.Definition) (*Layout, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("layout name is required")
	}
	if def == nil {
		def = view.Definition{}
	}

	data, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout %q: %w", name, err)
	}

	now := s.now()
	layout := &Layout{
		Name:       name,
		Definition: def,
		ViewCount:  len(def),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var id, createdAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM layouts WHERE name = ?`, name,
	).Scan(&id, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		layout.ID = generateID()
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO layouts (id, name, definition, view_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			layout.ID, layout.Name, string(data), layout.ViewCount, formatTime(now), formatTime(now),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create layout %q: %w", name, err)
		}
		s.logger.Debug("created layout", "name", name, "id", layout.ID)
	case err != nil:
		return nil, fmt.Errorf("failed to look up layout %q: %w", name, err)
	default:
		layout.ID = id
		if layout.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at for layout %q: %w", name, err)
		}
		_, err = s.db.ExecContext(ctx,
			`UPDATE layouts SET definition = ?, view_count = ?, updated_at = ? WHERE id = ?`,
			string(data), layout.ViewCount, formatTime(now), id,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update layout %q: %w", name, err)
		}
		s.logger.Debug("updated layout", "name", name, "id", id)
	}
	return layout, nil
}

// GetLayout returns the layout called name.
func (s *SQLiteStore) GetLayout(ctx context.Context, name string) (*Layout, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	name = strings.TrimSpace(name)
	layout := &Layout{}
	var data, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, definition, view_count, created_at, updated_at FROM layouts WHERE name = ?`,
		name,
	).Scan(&layout.ID, &layout.Name, &data, &layout.ViewCount, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get layout %q: %w", name, err)
	}

	if err := json.Unmarshal([]byte(data), &layout.Definition); err != nil {
		return nil, fmt.Errorf("failed to decode layout %q: %w", name, err)
	}
	if err := scanTimes(layout, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return layout, nil
}

// ListLayouts returns every layout by name. Definitions are not loaded.
func (s *SQLiteStore) ListLayouts(ctx context.Context) ([]*Layout, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, view_count, created_at, updated_at FROM layouts ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var layouts []*Layout
	for rows.Next() {
		layout := &Layout{}
		var createdAt, updatedAt string
		if err := rows.Scan(&layout.ID, &layout.Name, &layout.ViewCount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan layout: %w", err)
		}
		if err := scanTimes(layout, createdAt, updatedAt); err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	return layouts, nil
}

// DeleteLayout removes the layout called name.
func (s *SQLiteStore) DeleteLayout(ctx context.Context, name string) error {
	if s.db == nil {
		return errNotOpened
	}
	name = strings.TrimSpace(name)

	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete layout %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete layout %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	s.logger.Debug("deleted layout", "name", name)
	return nil
}

func scanTimes(layout *Layout, createdAt, updatedAt string) error {
	var err error
	if layout.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("invalid created_at for layout %q: %w", layout.Name, err)
	}
	if layout.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return fmt.Errorf("invalid updated_at for layout %q: %w", layout.Name, err)
	}
	return nil
}
