package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/molview/internal/cli/output"
	"github.com/leapstack-labs/molview/internal/cli/testutil"
	intconfig "github.com/leapstack-labs/molview/internal/config"
	"github.com/leapstack-labs/molview/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args inside dir.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func setupProject(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	return dir
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "", "--help")
	require.NoError(t, err)
	for _, name := range []string{"views", "layouts", "shell", "version", "completion"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCommand_Version(t *testing.T) {
	setupProject(t)
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "molview v"+Version)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	setupProject(t)
	_, _, err := execute(t, "", "views", "list", "--log-level", "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestViewsList(t *testing.T) {
	setupProject(t)

	out, _, err := execute(t, "", "views", "list", "-o", "json")
	require.NoError(t, err)
	var list output.ViewListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, 3, list.Count)
	require.Len(t, list.Views, 3)
	assert.Equal(t, "complexView", list.Views[0].Name)
	assert.Equal(t, []string{"[protein, otherProtein]", "ligand"}, list.Views[0].Visible)
	assert.Equal(t, []string{"ligand"}, list.Views[0].Focus)

	out, _, err = execute(t, "", "views", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "# Views (3 total)")
	assert.Contains(t, out, "## proteinView")
	assert.Contains(t, out, "- **Visible**: [protein, otherProtein], ligand")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestViewsValidate(t *testing.T) {
	dir := setupProject(t)

	out, _, err := execute(t, "", "views", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "3 views OK")

	bad := testutil.WriteFile(t, dir, "bad.yaml", "broken:\n  visible: ligand\n  focus: []\n")
	_, _, err = execute(t, "", "views", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	out, _, err = execute(t, "", "views", "validate", bad, "-o", "json")
	require.Error(t, err)
	var result output.ValidateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	assert.Equal(t, bad, result.File)
	assert.NotEmpty(t, result.Error)
}

func TestViewsExport(t *testing.T) {
	setupProject(t)
	want, err := intconfig.ParseDefinition([]byte(testutil.SampleViews))
	require.NoError(t, err)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			out, _, err := execute(t, "", "views", "export", "--format", format)
			require.NoError(t, err)
			got, err := intconfig.ParseDefinition([]byte(out))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, _, err = execute(t, "", "views", "export", "--format", "xml")
	assert.Error(t, err)
}

func TestLayoutsLifecycle(t *testing.T) {
	setupProject(t)

	out, _, err := execute(t, "", "layouts", "save", "docking")
	require.NoError(t, err)
	assert.Contains(t, out, "saved layout docking (3 views)")

	out, _, err = execute(t, "", "layouts", "list", "-o", "json")
	require.NoError(t, err)
	var list output.LayoutListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "docking", list.Layouts[0].Name)
	assert.Equal(t, 3, list.Layouts[0].ViewCount)

	out, _, err = execute(t, "", "layouts", "show", "docking")
	require.NoError(t, err)
	got, err := intconfig.ParseDefinition([]byte(out))
	require.NoError(t, err)
	want, err := intconfig.ParseDefinition([]byte(testutil.SampleViews))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	out, _, err = execute(t, "", "layouts", "show", "docking", "-o", "json")
	require.NoError(t, err)
	var info output.LayoutInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Len(t, info.Views, 3)

	_, _, err = execute(t, "", "layouts", "delete", "docking")
	require.NoError(t, err)
	_, _, err = execute(t, "", "layouts", "rm", "docking")
	assert.ErrorIs(t, err, state.ErrLayoutNotFound)
}

func TestShell_Script(t *testing.T) {
	setupProject(t)

	script := `# build a small scene
shape protein
shape ligand
register protein protein
register ligand ligand ball+stick
view complexView
state
save session
`
	out, _, err := execute(t, script, "shell", "--focus-duration", "250ms")
	require.NoError(t, err)
	assert.Contains(t, out, "registered ligand")
	assert.Contains(t, out, "switched to complexView")
	assert.Contains(t, out, "focused: ligand (250ms)")
	assert.Contains(t, out, "saved layout session (3 views)")

	out, _, err = execute(t, "", "layouts", "list", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "session"`)
}

func TestShell_ExecAndStopOnError(t *testing.T) {
	setupProject(t)

	out, _, err := execute(t, "views\nbogus\nviews\n", "shell", "--no-state", "-e", "add-view pocket")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), `unknown command "bogus"`)
	assert.Contains(t, out, "added view pocket")
	assert.Equal(t, 1, strings.Count(out, "| View | Visible | Focus |"), "the script stops at the failing line")

	_, _, err = execute(t, "save nope\n", "shell", "--no-state")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no state store configured")
}

func TestShell_MissingViewsFile(t *testing.T) {
	setupProject(t)

	out, _, err := execute(t, "views\nexit\nbogus\n", "shell", "--no-state", "--views", "missing.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "starting without views")
	assert.Contains(t, out, "(0 rows)")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := execute(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion")

	_, _, err = execute(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
