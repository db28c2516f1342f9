package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/molview/internal/cli/output"
	intconfig "github.com/leapstack-labs/molview/internal/config"
	"github.com/leapstack-labs/molview/internal/state"
	"github.com/spf13/cobra"
)

// NewLayoutsCommand creates the layouts command and its subcommands.
func NewLayoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "Manage named view layouts in the state database",
		Long: `Store view definitions under a name in the local state database and
read them back. The shell can restore a stored layout with "restore".`,
	}

	cmd.AddCommand(newLayoutsSaveCommand())
	cmd.AddCommand(newLayoutsListCommand())
	cmd.AddCommand(newLayoutsShowCommand())
	cmd.AddCommand(newLayoutsDeleteCommand())
	return cmd
}

func newLayoutsSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> [file]",
		Short: "Store a view definition file as a layout",
		Example: `  # Store the configured views file as "docking"
  molview layouts save docking`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := NewCommandContext(cmd)
			_, def, err := cctx.LoadDefinition(args[1:])
			if err != nil {
				return err
			}

			store, cleanup, err := cctx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			layout, err := store.SaveLayout(cmd.Context(), args[0], def)
			if err != nil {
				return err
			}
			if cctx.Renderer.EffectiveMode() == output.ModeJSON {
				return cctx.Renderer.JSON(layoutInfo(layout, false))
			}
			cctx.Renderer.Success(fmt.Sprintf("saved layout %s (%d views)", layout.Name, layout.ViewCount))
			return nil
		},
	}
}

func newLayoutsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx := NewCommandContext(cmd)
			r := cctx.Renderer
			store, cleanup, err := cctx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			layouts, err := store.ListLayouts(cmd.Context())
			if err != nil {
				return err
			}

			switch r.EffectiveMode() {
			case output.ModeJSON:
				infos := make([]output.LayoutInfo, len(layouts))
				for i, l := range layouts {
					infos[i] = layoutInfo(l, false)
				}
				return r.JSON(output.LayoutListOutput{Layouts: infos, Count: len(infos)})
			default:
				r.Header(1, fmt.Sprintf("Layouts (%d total)", len(layouts)))
				rows := make([][]string, len(layouts))
				for i, l := range layouts {
					rows[i] = []string{l.Name, strconv.Itoa(l.ViewCount), l.UpdatedAt.Local().Format(time.DateTime)}
				}
				r.Table([]string{"Layout", "Views", "Updated"}, rows)
				return nil
			}
		},
	}
}

func newLayoutsShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored layout as a view definition",
		Long: `Print a stored layout as a view definition in --format encoding. With
--output json the layout metadata and its views are printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := intconfig.ParseFormat(format)
			if err != nil {
				return err
			}
			cctx := NewCommandContext(cmd)
			store, cleanup, err := cctx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			layout, err := store.GetLayout(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cctx.Renderer.EffectiveMode() == output.ModeJSON {
				return cctx.Renderer.JSON(layoutInfo(layout, true))
			}
			return intconfig.WriteDefinition(cmd.OutOrStdout(), layout.Definition, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(intconfig.FormatYAML), "Output encoding (yaml|json)")
	return cmd
}

func newLayoutsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored layout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := NewCommandContext(cmd)
			store, cleanup, err := cctx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.DeleteLayout(cmd.Context(), args[0]); err != nil {
				return err
			}
			cctx.Renderer.Success("deleted layout " + args[0])
			return nil
		},
	}
}

func layoutInfo(l *state.Layout, withViews bool) output.LayoutInfo {
	info := output.LayoutInfo{
		ID:        l.ID,
		Name:      l.Name,
		ViewCount: l.ViewCount,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if withViews {
		info.Views = viewInfos(l.Definition)
	}
	return info
}
