package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/molview/internal/cli/config"
	"github.com/leapstack-labs/molview/internal/cli/output"
	intconfig "github.com/leapstack-labs/molview/internal/config"
	"github.com/leapstack-labs/molview/internal/state"
	"github.com/leapstack-labs/molview/internal/view"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config loaded by the
// root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenStore opens and migrates the layout store.
// Returns the store and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenStore() (*state.SQLiteStore, func(), error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	cleanup := func() { _ = store.Close() }
	if err := store.Migrate(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}

// LoadDefinition reads the view definition named by args, or the
// configured views file when args is empty. It returns the path read.
func (c *CommandContext) LoadDefinition(args []string) (string, view.Definition, error) {
	path := c.Cfg.ViewsFile
	if len(args) > 0 {
		path = args[0]
	}
	def, err := intconfig.LoadDefinitionFile(path)
	if err != nil {
		return path, nil, err
	}
	return path, def, nil
}

// viewInfos converts a definition to output rows in view name order.
func viewInfos(def view.Definition) []output.ViewInfo {
	catalog := view.NewCatalog()
	// def is already validated; Import only fails on malformed views
	_ = catalog.Import(def)

	infos := make([]output.ViewInfo, 0, catalog.Len())
	for _, name := range catalog.Views() {
		spec, _ := catalog.View(name)
		infos = append(infos, output.ViewInfo{
			Name:    name,
			Visible: targetStrings(spec.Visible),
			Focus:   targetStrings(spec.Focus),
		})
	}
	return infos
}

func targetStrings(targets []view.Target) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.String()
	}
	return out
}
