package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDefinition() Definition {
	return Definition{
		"ligandView": {
			Visible: []Target{Name("ligand")},
			Focus:   []Target{Name("ligand")},
		},
		"proteinView": {
			Visible: []Target{Name("protein")},
			Focus:   []Target{Name("protein")},
		},
		"complexView": {
			Visible: []Target{Fallback("protein", "otherProtein"), Name("ligand")},
			Focus:   []Target{Name("ligand")},
		},
	}
}

func TestCatalog_ImportExportRoundTrip(t *testing.T) {
	c := NewCatalog()
	def := sampleDefinition()
	require.NoError(t, c.Import(def))

	assert.Equal(t, def, c.Export())
	assert.Equal(t, []string{"complexView", "ligandView", "proteinView"}, c.Views())
	assert.Equal(t, 3, c.Len())
}

func TestCatalog_ImportCopies(t *testing.T) {
	c := NewCatalog()
	def := sampleDefinition()
	require.NoError(t, c.Import(def))

	spec := def["ligandView"]
	spec.Visible[0] = Name("mutated")
	def["ligandView"] = spec

	got, ok := c.View("ligandView")
	require.True(t, ok)
	assert.Equal(t, []Target{Name("ligand")}, got.Visible)

	exported := c.Export()
	exported["ligandView"].Focus[0] = Name("mutated")
	focus, err := c.GetFocusComponents("ligandView")
	require.NoError(t, err)
	assert.Equal(t, []Target{Name("ligand")}, focus)
}

func TestCatalog_ImportDeduplicatesVisible(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Import(Definition{
		"v": {
			Visible: []Target{Name("a"), Fallback("b", "c"), Name("a"), Fallback("b", "c")},
			Focus:   []Target{},
		},
	}))
	got, _ := c.View("v")
	assert.Equal(t, []Target{Name("a"), Fallback("b", "c")}, got.Visible)
}

func TestCatalog_ImportIsAtomic(t *testing.T) {
	c := NewCatalog()
	err := c.Import(Definition{
		"good": {Visible: []Target{Name("a")}, Focus: []Target{}},
		"bad":  {Visible: []Target{Name("a")}},
	})
	var malformed *MalformedViewError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "bad", malformed.View)
	assert.Equal(t, "focus", malformed.Field)
	assert.Equal(t, 0, c.Len())
}

func TestCatalog_BuilderMatchesStaticDefinition(t *testing.T) {
	built := NewCatalog()
	built.AddView("ligandView")
	require.NoError(t, built.AddViewComponent("ligandView", Name("ligand")))
	require.NoError(t, built.SetFocusComponents("ligandView", []Target{Name("ligand")}))

	built.AddView("proteinView")
	require.NoError(t, built.AddViewComponent("proteinView", Name("protein")))
	require.NoError(t, built.SetFocusComponents("proteinView", []Target{Name("protein")}))

	built.AddView("complexView")
	require.NoError(t, built.AddViewComponent("complexView", Fallback("protein", "otherProtein")))
	require.NoError(t, built.AddViewComponent("complexView", Name("ligand")))
	require.NoError(t, built.AddViewComponent("complexView", Name("ligand")))
	require.NoError(t, built.SetFocusComponents("complexView", []Target{Name("ligand")}))

	assert.Equal(t, sampleDefinition(), built.Export())
}

func TestCatalog_RemoveViewComponent(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Import(sampleDefinition()))

	require.NoError(t, c.RemoveViewComponent("complexView", Fallback("protein", "otherProtein")))
	require.NoError(t, c.RemoveViewComponent("complexView", Name("missing")))

	got, _ := c.View("complexView")
	assert.Equal(t, []Target{Name("ligand")}, got.Visible)

	// re-adding appends at the end
	require.NoError(t, c.AddViewComponent("complexView", Fallback("protein", "otherProtein")))
	got, _ = c.View("complexView")
	assert.Equal(t, []Target{Name("ligand"), Fallback("protein", "otherProtein")}, got.Visible)
}

func TestCatalog_UnknownView(t *testing.T) {
	c := NewCatalog()
	var notFound *NotFoundError

	assert.ErrorAs(t, c.AddViewComponent("nope", Name("a")), &notFound)
	assert.ErrorAs(t, c.RemoveViewComponent("nope", Name("a")), &notFound)
	assert.ErrorAs(t, c.SetFocusComponents("nope", nil), &notFound)
	_, err := c.GetFocusComponents("nope")
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.View)
}

func TestCatalog_RejectsEmptyTargets(t *testing.T) {
	c := NewCatalog()
	c.AddView("v")
	var malformed *MalformedViewError

	assert.ErrorAs(t, c.AddViewComponent("v", Fallback()), &malformed)
	assert.ErrorAs(t, c.AddViewComponent("v", Name("")), &malformed)
	assert.ErrorAs(t, c.SetFocusComponents("v", []Target{Fallback("a", "")}), &malformed)
	assert.ErrorAs(t, c.PutView("w", Spec{Visible: []Target{{}}, Focus: []Target{}}), &malformed)
}

func TestCatalog_CurrentView(t *testing.T) {
	c := NewCatalog()
	_, ok := c.Current()
	assert.False(t, ok)

	assert.False(t, c.SetCurrent("ligandView"))
	require.NoError(t, c.Import(sampleDefinition()))
	assert.True(t, c.SetCurrent("ligandView"))

	c.RemoveView("ligandView")
	current, ok := c.Current()
	assert.True(t, ok, "removing a view leaves the pointer in place")
	assert.Equal(t, "ligandView", current)
	assert.False(t, c.Has("ligandView"))
}

func TestCatalog_Revision(t *testing.T) {
	c := NewCatalog()
	rev := c.Revision()

	c.AddView("v")
	assert.NotEqual(t, rev, c.Revision())

	rev = c.Revision()
	c.SetCurrent("v")
	_, _ = c.View("v")
	assert.Equal(t, rev, c.Revision(), "reads do not change the revision")
}

func TestParseDefinition(t *testing.T) {
	input := `{
		"complexView": {
			"visible": [["protein", "otherProtein"], "ligand"],
			"focus": ["ligand"]
		}
	}`
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(input), &raw))

	def, err := ParseDefinition(raw)
	require.NoError(t, err)
	assert.Equal(t, Definition{
		"complexView": {
			Visible: []Target{Fallback("protein", "otherProtein"), Name("ligand")},
			Focus:   []Target{Name("ligand")},
		},
	}, def)

	c := NewCatalog()
	require.NoError(t, c.ImportRaw(raw))
	assert.True(t, c.Has("complexView"))
}

func TestParseDefinition_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		raw   map[string]any
		field string
	}{
		{
			name: "view is not a mapping",
			raw:  map[string]any{"v": []any{"a"}},
		},
		{
			name:  "visible missing",
			raw:   map[string]any{"v": map[string]any{"focus": []any{}}},
			field: "visible",
		},
		{
			name:  "visible is a string",
			raw:   map[string]any{"v": map[string]any{"visible": "a", "focus": []any{}}},
			field: "visible",
		},
		{
			name:  "focus missing",
			raw:   map[string]any{"v": map[string]any{"visible": []any{}}},
			field: "focus",
		},
		{
			name:  "focus entry is a number",
			raw:   map[string]any{"v": map[string]any{"visible": []any{}, "focus": []any{1.0}}},
			field: "focus",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition(tt.raw)
			var malformed *MalformedViewError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, "v", malformed.View)
			assert.Equal(t, tt.field, malformed.Field)
		})
	}
}

func TestCatalog_Reset(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Import(sampleDefinition()))
	require.True(t, c.SetCurrent("ligandView"))

	replacement := Definition{
		"waterView": {Visible: []Target{Name("waters")}, Focus: []Target{}},
	}
	rev := c.Revision()
	require.NoError(t, c.Reset(replacement))
	assert.Greater(t, c.Revision(), rev)
	assert.Equal(t, []string{"waterView"}, c.Views())

	current, ok := c.Current()
	assert.True(t, ok)
	assert.Equal(t, "ligandView", current, "pointer survives a reset")

	err := c.Reset(Definition{"bad": {Visible: nil, Focus: []Target{}}})
	require.Error(t, err)
	assert.Equal(t, []string{"waterView"}, c.Views(), "a failed reset changes nothing")
}
