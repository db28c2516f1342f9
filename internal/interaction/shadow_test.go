package interaction

import (
	"fmt"
	"testing"

	"github.com/leapstack-labs/molview/pkg/scene"
	"github.com/leapstack-labs/molview/pkg/scene/memstage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newShapes returns n hidden markers drawn as shapes on a fresh stage.
func newShapes(t *testing.T, n int) ([]*Marker, []*memstage.Structure) {
	t.Helper()
	stage := memstage.New()
	markers := make([]*Marker, n)
	shapes := make([]*memstage.Structure, n)
	for i := range n {
		shape := stage.AddShape(fmt.Sprintf("interaction-%d", i))
		_, err := shape.AddRepresentation("buffer", nil)
		require.NoError(t, err)
		shape.SetVisible(false)
		shapes[i] = shape
		markers[i] = NewMarker(shape, Acceptor, "")
	}
	AssignIDs(markers, 0)
	return markers, shapes
}

func TestShadowSet_RendersShadows(t *testing.T) {
	markers, shapes := newShapes(t, 3)
	s, err := NewShadowSet(markers)
	require.NoError(t, err)

	s.SetVisible(true)
	for _, shape := range shapes {
		assert.False(t, shape.Visible(), "no shadows are enabled")
	}

	s.ToggleAllShadows()
	s.SetVisible(true)
	for _, shape := range shapes {
		assert.True(t, shape.Visible())
	}

	s.ToggleAllShadows()
	s.SetVisible(true)
	for _, shape := range shapes {
		assert.False(t, shape.Visible())
	}

	// highlighted markers are never switched off by the shadow toggle
	s.ToggleAllShadows()
	s.SetVisible(true)
	on, _, ok := s.ToggleHighlight(markers[0].ID)
	require.True(t, ok)
	assert.True(t, on)
	s.ToggleAllShadows()
	s.SetVisible(true)
	assert.True(t, shapes[0].Visible())
	assert.False(t, shapes[1].Visible())

	s.SetVisible(false)
	assert.False(t, s.Visible())
}

func TestShadowSet_ToggleAllShadowsDoesNotApply(t *testing.T) {
	markers, shapes := newShapes(t, 1)
	s, err := NewShadowSet(markers)
	require.NoError(t, err)

	s.ToggleAllShadows()
	assert.True(t, s.ShowAllShadows())
	assert.False(t, shapes[0].Visible())

	s.SetVisible(true)
	assert.True(t, shapes[0].Visible())
}

func TestShadowSet_ToggleHighlight(t *testing.T) {
	markers, shapes := newShapes(t, 1)
	m := markers[0]
	s, err := NewShadowSet(markers)
	require.NoError(t, err)

	s.ToggleAllShadows()
	s.SetVisible(true)
	assert.True(t, shapes[0].Visible())

	on, got, ok := s.ToggleHighlight(m.ID)
	require.True(t, ok)
	assert.True(t, on)
	assert.Same(t, m, got)
	assert.Equal(t, Highlight, m.State())
	assert.Equal(t, HighlightOpacity, shapes[0].Opacity())

	on, _, _ = s.ToggleHighlight(m.ID)
	assert.False(t, on)
	assert.Equal(t, Shadow, m.State())
	assert.Equal(t, ShadowOpacity, shapes[0].Opacity())
	assert.True(t, shapes[0].Visible(), "all shadows are shown")

	// the shadow is hidden when the highlight goes and shadows are off
	s.ToggleHighlight(m.ID)
	s.ToggleAllShadows()
	on, _, _ = s.ToggleHighlight(m.ID)
	assert.False(t, on)
	assert.False(t, shapes[0].Visible())
	assert.Equal(t, Shadow, m.State(), "the marker returns to shadow even when hidden")
	assert.Equal(t, ShadowOpacity, shapes[0].Opacity())
}

func TestShadowSet_IndividualShadows(t *testing.T) {
	markers, shapes := newShapes(t, 1)
	id := markers[0].ID
	shape := shapes[0]
	s, err := NewShadowSet(markers)
	require.NoError(t, err)

	s.SetVisible(true)
	assert.False(t, shape.Visible())

	_, ok := s.EnableShadow(id)
	require.True(t, ok)
	assert.True(t, s.ShadowEnabled(id))
	s.SetVisible(true)
	assert.True(t, shape.Visible())

	_, ok = s.DisableShadow(id)
	assert.True(t, ok)
	assert.False(t, shape.Visible())
	assert.False(t, s.ShadowEnabled(id))

	// highlighted markers are not disabled
	s.EnableShadow(id)
	s.ToggleHighlight(id)
	_, ok = s.DisableShadow(id)
	assert.False(t, ok)
	assert.True(t, shape.Visible())
	s.ToggleHighlight(id)
	assert.True(t, shape.Visible(), "its shadow is still enabled")
	s.DisableShadow(id)
	assert.False(t, shape.Visible())

	// nothing is disabled while all shadows are shown
	s.ToggleAllShadows()
	s.EnableShadow(id)
	_, ok = s.DisableShadow(id)
	assert.False(t, ok)
	assert.True(t, shape.Visible())
	assert.True(t, s.ShadowEnabled(id))

	s.ToggleAllShadows()
	s.DisableShadow(id)
	assert.False(t, shape.Visible())
}

func TestShadowSet_UnknownID(t *testing.T) {
	markers, _ := newShapes(t, 2)
	s, err := NewShadowSet(markers)
	require.NoError(t, err)

	_, ok := s.EnableShadow(42)
	assert.False(t, ok)
	_, ok = s.DisableShadow(42)
	assert.False(t, ok)
	_, m, ok := s.ToggleHighlight(42)
	assert.False(t, ok)
	assert.Nil(t, m)
}

func TestShadowSet_AutoViewUnsupported(t *testing.T) {
	markers, _ := newShapes(t, 1)
	s, err := NewShadowSet(markers)
	require.NoError(t, err)

	err = s.AutoView(0)
	assert.ErrorIs(t, err, scene.ErrUnsupported)
	var unsupported *scene.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
	assert.Nil(t, s.Owners())
}

func TestNewShadowSet_Errors(t *testing.T) {
	markers, _ := newShapes(t, 2)

	t.Run("missing id", func(t *testing.T) {
		unassigned := NewMarker(markers[0].Component, Donor, "ASP 25")
		_, err := NewShadowSet([]*Marker{markers[1], unassigned})
		var missing *MissingIdentityError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, 1, missing.Index)
		assert.Contains(t, err.Error(), "ASP 25")
	})

	t.Run("duplicate id", func(t *testing.T) {
		dup := NewMarker(markers[0].Component, Donor, "")
		dup.ID = markers[0].ID
		_, err := NewShadowSet([]*Marker{markers[0], dup})
		var duplicate *DuplicateIdentityError
		require.ErrorAs(t, err, &duplicate)
		assert.Equal(t, markers[0].ID, duplicate.ID)
	})

	t.Run("nil marker", func(t *testing.T) {
		_, err := NewShadowSet([]*Marker{nil})
		var invalid *InvalidMarkerError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("no component", func(t *testing.T) {
		m := &Marker{ID: 7}
		_, err := NewShadowSet([]*Marker{m})
		var invalid *InvalidMarkerError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestShadowSet_DoesNotCopyMarkers(t *testing.T) {
	markers, _ := newShapes(t, 2)
	s, err := NewShadowSet(markers)
	require.NoError(t, err)

	got, ok := s.Marker(markers[1].ID)
	require.True(t, ok)
	assert.Same(t, markers[1], got)
	assert.Len(t, s.Markers(), 2)
}

func TestShadowSet_LiteralMarkers(t *testing.T) {
	stage := memstage.New()
	shape := stage.AddShape("water")
	_, err := shape.AddRepresentation("buffer", nil)
	require.NoError(t, err)
	shape.SetOpacity(1)

	m := &Marker{ID: 1, Component: shape, Kind: Water}
	_, err = NewShadowSet([]*Marker{m})
	require.NoError(t, err)

	assert.Equal(t, Shadow, m.State())
	assert.InDelta(t, ShadowOpacity, shape.Opacity(), 1e-9, "admitted markers are drawn with their state opacity")
}

func TestShadowSet_NegativeIDs(t *testing.T) {
	markers, _ := newShapes(t, 2)
	markers[0].ID = -5
	markers[1].ID = -2

	s, err := NewShadowSet(markers)
	require.NoError(t, err)

	got, ok := s.EnableShadow(-5)
	require.True(t, ok)
	assert.Same(t, markers[0], got)
}
