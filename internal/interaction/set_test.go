package interaction

import (
	"testing"

	"github.com/leapstack-labs/molview/internal/registry"
	"github.com/leapstack-labs/molview/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_Visibility(t *testing.T) {
	markers, shapes := newShapes(t, 3)
	s, err := NewSet(markers)
	require.NoError(t, err)

	assert.False(t, s.Visible())
	s.SetVisible(true)
	for _, shape := range shapes {
		assert.True(t, shape.Visible())
	}
	shapes[0].SetVisible(false)
	assert.True(t, s.Visible(), "visible while any marker is")

	s.SetVisible(false)
	assert.False(t, s.Visible())
}

func TestSet_ToggleHighlight(t *testing.T) {
	markers, shapes := newShapes(t, 1)
	s, err := NewSet(markers)
	require.NoError(t, err)

	on, m, ok := s.ToggleHighlight(0)
	require.True(t, ok)
	assert.True(t, on)
	assert.Equal(t, HighlightOpacity, shapes[0].Opacity())
	assert.Equal(t, HighlightOpacity, m.Opacity())

	on, _, _ = s.ToggleHighlight(0)
	assert.False(t, on)
	assert.Equal(t, ShadowOpacity, shapes[0].Opacity())

	_, _, ok = s.ToggleHighlight(1)
	assert.False(t, ok)
}

func TestSet_Add(t *testing.T) {
	ligand, _ := newShapes(t, 2)
	water, _ := newShapes(t, 2)
	s, err := NewSet(ligand)
	require.NoError(t, err)

	var missing *MissingIdentityError
	for _, m := range water {
		m.ID = Unassigned
	}
	assert.ErrorAs(t, s.Add(water[0]), &missing)

	next := AssignIDs(water, 2)
	assert.Equal(t, 4, next)
	for _, m := range water {
		require.NoError(t, s.Add(m))
	}
	assert.Equal(t, 4, s.Len())

	var duplicate *DuplicateIdentityError
	assert.ErrorAs(t, s.Add(ligand[0]), &duplicate)
}

func TestSet_AutoViewUnsupported(t *testing.T) {
	s, err := NewSet(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.AutoView(0), scene.ErrUnsupported)
}

func TestSet_RegistersAlongsideStructures(t *testing.T) {
	reg := registry.New(nil)
	ligand, _ := newShapes(t, 2)
	water, _ := newShapes(t, 1)
	AssignIDs(water, 2)

	ligandSet, err := NewShadowSet(ligand)
	require.NoError(t, err)
	waterSet, err := NewSet(water)
	require.NoError(t, err)

	require.NoError(t, reg.Register("interactions", ligandSet))
	require.NoError(t, reg.Register("waterInteractions", waterSet))
}

func TestState(t *testing.T) {
	assert.Equal(t, "shadow", Shadow.String())
	assert.Equal(t, "highlight", Highlight.String())
	assert.Equal(t, "State(7)", State(7).String())
	assert.Equal(t, 0.5, Shadow.Opacity())
	assert.Equal(t, 0.8, Highlight.Opacity())
}

func TestNewMarker(t *testing.T) {
	_, shapes := newShapes(t, 1)
	shapes[0].SetOpacity(1)
	m := NewMarker(shapes[0], Hydrophobic, "LEU 83")
	assert.Equal(t, Unassigned, m.ID)
	assert.Equal(t, Shadow, m.State())
	assert.Equal(t, ShadowOpacity, shapes[0].Opacity(), "the shadow opacity is pushed to the component")

	bare := NewMarker(nil, Water, "")
	assert.False(t, bare.Visible())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Donor")
	require.NoError(t, err)
	assert.Equal(t, Donor, k)

	_, err = ParseKind("covalent")
	assert.Error(t, err)
}
