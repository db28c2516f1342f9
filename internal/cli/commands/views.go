package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/molview/internal/cli/output"
	intconfig "github.com/leapstack-labs/molview/internal/config"
	"github.com/spf13/cobra"
)

// NewViewsCommand creates the views command and its subcommands.
func NewViewsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Inspect view definition files",
		Long: `Validate, list and re-encode view definition files.

A view definition maps view names to the components they show and the
components the camera centers on:

  complexView:
    visible:
      - [protein, otherProtein]   # first registered one is shown
      - ligand
    focus:
      - ligand

Without a file argument the configured views file is used.`,
	}

	cmd.AddCommand(newViewsValidateCommand())
	cmd.AddCommand(newViewsListCommand())
	cmd.AddCommand(newViewsExportCommand())
	return cmd
}

func newViewsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a view definition file is well formed",
		Example: `  # Validate the configured views file
  molview views validate

  # Validate a specific file
  molview views validate layouts/docking.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := NewCommandContext(cmd)
			r := cctx.Renderer
			path, def, err := cctx.LoadDefinition(args)

			if r.EffectiveMode() == output.ModeJSON {
				out := output.ValidateOutput{File: path, Valid: err == nil, Views: len(def)}
				if err != nil {
					out.Error = err.Error()
				}
				if jsonErr := r.JSON(out); jsonErr != nil {
					return jsonErr
				}
				return err
			}

			if err != nil {
				return err
			}
			r.Success(fmt.Sprintf("%s: %d views OK", path, len(def)))
			return nil
		},
	}
}

func newViewsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [file]",
		Short: "List the views of a definition file",
		Long: `List every view with its visible targets and focus list.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format

Use --output to override: auto, text, markdown, json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := NewCommandContext(cmd)
			r := cctx.Renderer
			path, def, err := cctx.LoadDefinition(args)
			if err != nil {
				return err
			}
			infos := viewInfos(def)

			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(output.ViewListOutput{File: path, Views: infos, Count: len(infos)})
			case output.ModeMarkdown:
				r.Header(1, fmt.Sprintf("Views (%d total)", len(infos)))
				r.Println()
				r.Println(output.FormatKeyValue("File", path))
				for _, info := range infos {
					r.Println()
					r.Header(2, info.Name)
					r.Println(output.FormatKeyValue("Visible", strings.Join(info.Visible, ", ")))
					r.Println(output.FormatKeyValue("Focus", strings.Join(info.Focus, ", ")))
				}
				return nil
			default:
				r.Header(1, fmt.Sprintf("Views (%d total)", len(infos)))
				r.Println(r.Styles().Muted.Render(path))
				rows := make([][]string, len(infos))
				for i, info := range infos {
					rows[i] = []string{info.Name, strings.Join(info.Visible, ", "), strings.Join(info.Focus, ", ")}
				}
				r.Table([]string{"View", "Visible", "Focus"}, rows)
				return nil
			}
		},
	}
}

func newViewsExportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Print a view definition in canonical form",
		Long: `Decode a view definition and print it again as YAML or JSON, with views
in name order. Use it to convert between formats or to normalize a file.`,
		Example: `  # Convert the configured views file to JSON
  molview views export --format json > views.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := intconfig.ParseFormat(format)
			if err != nil {
				return err
			}
			cctx := NewCommandContext(cmd)
			_, def, err := cctx.LoadDefinition(args)
			if err != nil {
				return err
			}
			return intconfig.WriteDefinition(cmd.OutOrStdout(), def, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(intconfig.FormatYAML), "Output encoding (yaml|json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
