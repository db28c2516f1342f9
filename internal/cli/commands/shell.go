package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/molview/internal/cli/output"
	intconfig "github.com/leapstack-labs/molview/internal/config"
	"github.com/leapstack-labs/molview/internal/session"
	"github.com/leapstack-labs/molview/internal/state"
	"github.com/leapstack-labs/molview/internal/view"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// ShellOptions holds options for the shell command.
type ShellOptions struct {
	Watch   bool
	NoState bool
	Exec    []string
}

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	opts := &ShellOptions{}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Drive views interactively over an in-memory stage",
		Long: `Start an interactive shell over an in-memory stage with the configured
views file loaded into the view catalog.

Load structures, register them as components, then switch views to see
which components are shown and which one the camera centers on. Type help
for the list of commands.

When stdin is not a terminal, commands are read from it line by line and
the first failing command ends the shell with an error.`,
		Example: `  # Start the shell and reload views.yaml whenever it is saved
  molview shell --watch

  # Run a script
  molview shell < session.txt

  # Run commands before the prompt
  molview shell -e "load protein 1abc.pdb" -e "register protein protein"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Reload the views file when it changes")
	cmd.Flags().BoolVar(&opts.NoState, "no-state", false, "Do not open the state database (disables layout commands)")
	cmd.Flags().StringArrayVarP(&opts.Exec, "exec", "e", nil, "Run a command before reading input (repeatable)")
	return cmd
}

func runShell(cmd *cobra.Command, opts *ShellOptions) error {
	cctx := NewCommandContext(cmd)
	r := cctx.Renderer
	shellCfg := cctx.Cfg.GetShellConfig()

	def, err := loadShellDefinition(cctx)
	if err != nil {
		return err
	}

	var store state.Store
	if !opts.NoState {
		s, cleanup, err := cctx.OpenStore()
		if err != nil {
			r.Warning(fmt.Sprintf("layouts disabled: %v", err))
		} else {
			defer cleanup()
			store = s
		}
	}

	sess, err := session.New(session.Config{
		Definition:    def,
		FocusDuration: cctx.Cfg.FocusDuration,
		Store:         store,
		Renderer:      r,
		Logger:        cctx.Logger,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if opts.Watch || shellCfg.Watch {
		w, err := session.NewWatcher(cctx.Cfg.ViewsFile, cctx.Logger)
		if err != nil {
			return err
		}
		sess.Watch(w.Updates())
		g.Go(func() error { return w.Run(gctx) })
		r.Info("watching " + w.Path())
	}

	g.Go(func() error {
		defer cancel()
		for _, line := range opts.Exec {
			if err := sess.Exec(gctx, line); err != nil {
				return fmt.Errorf("%s: %w", line, err)
			}
		}
		if isTerminal(cmd.InOrStdin()) {
			return runREPL(gctx, cmd, sess, shellCfg.Prompt, shellCfg.HistoryFile)
		}
		return runScript(gctx, cmd.InOrStdin(), sess)
	})

	return g.Wait()
}

// loadShellDefinition reads the configured views file. A missing default
// file starts the shell with no views.
func loadShellDefinition(cctx *CommandContext) (view.Definition, error) {
	def, err := intconfig.LoadDefinitionFile(cctx.Cfg.ViewsFile)
	if errors.Is(err, fs.ErrNotExist) {
		cctx.Renderer.Info(fmt.Sprintf("no views file at %s, starting without views", cctx.Cfg.ViewsFile))
		return view.Definition{}, nil
	}
	return def, err
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

// runScript executes commands read from in, stopping at the first error.
func runScript(ctx context.Context, in io.Reader, sess *session.Session) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if isQuit(line) {
			return nil
		}
		if err := sess.Exec(ctx, line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func runREPL(ctx context.Context, cmd *cobra.Command, sess *session.Session, prompt, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(sess),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeText)
	r.Println(r.Styles().Header1.Render("molview shell"))
	r.Println(r.Styles().Muted.Render("Type help for commands, exit to quit"))
	r.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if isQuit(line) {
			return nil
		}
		if err := sess.Exec(ctx, line); err != nil {
			r.Error(err.Error())
		}
	}
}

func isQuit(line string) bool {
	switch line {
	case "exit", "quit", ".exit", ".quit":
		return true
	}
	return false
}

// newShellCompleter completes command names, and view names for the
// commands that take one.
func newShellCompleter(sess *session.Session) *readline.PrefixCompleter {
	viewNames := func(string) []string { return sess.View().Catalog().Views() }
	componentNames := func(string) []string { return sess.View().Registry().Names() }

	takesView := map[string]bool{
		"view": true, "show": true, "hide": true, "focus": true,
		"remove-view": true, "on": true, "off": true,
	}
	takesComponent := map[string]bool{
		"deregister": true, "highlight": true, "shadow": true,
		"shadows": true, "visible": true, "state": true,
	}

	var items []readline.PrefixCompleterInterface
	for _, name := range session.Commands() {
		switch {
		case takesView[name]:
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(viewNames)))
		case takesComponent[name]:
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(componentNames)))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	items = append(items, readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}
