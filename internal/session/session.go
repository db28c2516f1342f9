// Package session drives a view context over an in-memory stage from
// text commands. It backs the interactive shell: structures are loaded,
// wrapped in components and registered, views are edited and switched,
// and picks are simulated so view listeners can be exercised.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/molview/internal/cli/output"
	"github.com/leapstack-labs/molview/internal/state"
	"github.com/leapstack-labs/molview/internal/view"
	"github.com/leapstack-labs/molview/pkg/scene/memstage"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Config configures a Session.
type Config struct {
	// Stage is the viewer to drive. A new empty stage is used when nil.
	Stage *memstage.Stage
	// Definition is imported into the view catalog at start.
	Definition view.Definition
	// FocusDuration is the camera animation duration used when focusing.
	FocusDuration time.Duration
	// Store persists named layouts. Layout commands fail without one.
	Store state.Store
	// Renderer receives command output. Required.
	Renderer *output.Renderer
	Logger   *slog.Logger
}

// Session holds the stage, the view context and the interaction sets
// created by commands. It is not safe for concurrent use; definition
// updates from a Watcher are applied by Exec on the calling goroutine.
type Session struct {
	stage  *memstage.Stage
	view   *view.Context
	store  state.Store
	r      *output.Renderer
	logger *slog.Logger
	title  cases.Caser

	structures   map[string]*memstage.Structure
	markerSets   map[string]highlighter
	nextMarkerID int
	listeners    map[string][]view.ListenerID

	updates <-chan Update
}

// New creates a session.
func New(cfg Config) (*Session, error) {
	if cfg.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	stage := cfg.Stage
	if stage == nil {
		stage = memstage.New()
	}

	vc, err := view.NewContext(stage, view.Config{
		Definition:    cfg.Definition,
		FocusDuration: cfg.FocusDuration,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		stage:      stage,
		view:       vc,
		store:      cfg.Store,
		r:          cfg.Renderer,
		logger:     logger,
		title:      cases.Title(language.English),
		structures: make(map[string]*memstage.Structure),
		markerSets: make(map[string]highlighter),
		listeners:  make(map[string][]view.ListenerID),
	}, nil
}

// Close unsubscribes the view context from the stage.
func (s *Session) Close() {
	s.view.Close()
}

// Stage returns the stage the session drives.
func (s *Session) Stage() *memstage.Stage { return s.stage }

// View returns the view context.
func (s *Session) View() *view.Context { return s.view }

// Watch makes the session apply definitions received on updates before
// each command.
func (s *Session) Watch(updates <-chan Update) {
	s.updates = updates
}

// Sync applies a pending definition update, if any. It reports whether
// the catalog changed.
func (s *Session) Sync() bool {
	if s.updates == nil {
		return false
	}
	select {
	case u, ok := <-s.updates:
		if !ok {
			s.updates = nil
			return false
		}
		return s.apply(u)
	default:
		return false
	}
}

func (s *Session) apply(u Update) bool {
	if u.Err != nil {
		s.r.Warning(fmt.Sprintf("ignoring %s: %v", u.Path, u.Err))
		return false
	}
	if err := s.view.Catalog().Reset(u.Definition); err != nil {
		s.r.Warning(fmt.Sprintf("ignoring %s: %v", u.Path, err))
		return false
	}
	s.logger.Debug("reloaded view definition", "path", u.Path, "views", len(u.Definition))
	if err := s.view.Render(); err != nil {
		s.r.Warning(err.Error())
	}
	s.r.Info(fmt.Sprintf("reloaded %d views from %s", len(u.Definition), u.Path))
	return true
}

// Exec runs one command line. Blank lines and lines starting with # are
// ignored.
func (s *Session) Exec(ctx context.Context, line string) error {
	s.Sync()

	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	cmd, ok := commandTable[name]
	if !ok {
		return &UnknownCommandError{Name: name}
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return &UsageError{Command: name, Usage: cmd.usage}
	}
	s.logger.Debug("exec", "command", name, "args", args)
	return cmd.run(s, ctx, args)
}

// Commands returns the command names in help order.
func Commands() []string {
	names := make([]string, len(commandOrder))
	copy(names, commandOrder)
	return names
}
