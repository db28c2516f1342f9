package session

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/molview/internal/config"
	"github.com/leapstack-labs/molview/internal/view"
)

// DefaultDebounce is how long the watcher waits after the last write
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Update is a reloaded view definition, or the error reading it.
type Update struct {
	Path       string
	Definition view.Definition
	Err        error
}

// Watcher reloads a view definition file whenever it is written. Only
// the latest update is kept until it is received.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
	updates  chan Update
	mu       sync.Mutex
}

// NewWatcher starts watching path. The directory is watched rather than
// the file so that editors replacing the file are noticed.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   logger,
		fsw:      fsw,
		updates:  make(chan Update, 1),
	}, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string { return w.path }

// Updates returns the channel reloaded definitions are delivered on.
func (w *Watcher) Updates() <-chan Update { return w.updates }

// Run handles file system events until ctx is done, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				w.logger.Debug("view definition changed", "path", w.path)
				w.reload()
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	def, err := config.LoadDefinitionFile(w.path)
	u := Update{Path: w.path, Definition: def, Err: err}

	w.mu.Lock()
	defer w.mu.Unlock()
	// drop an update nobody received yet
	select {
	case <-w.updates:
	default:
	}
	w.updates <- u
}
