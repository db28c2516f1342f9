package components

import (
	"testing"
	"time"

	"github.com/leapstack-labs/molview/pkg/scene"
	"github.com/leapstack-labs/molview/pkg/scene/memstage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addRepr(t *testing.T, st *memstage.Structure, kind string) scene.Representation {
	t.Helper()
	r, err := st.AddRepresentation(kind, nil)
	require.NoError(t, err)
	return r
}

func TestNewRepresentation(t *testing.T) {
	stage := memstage.New()
	protein := stage.AddShape("protein")
	ligand := stage.AddShape("ligand")
	cartoon := addRepr(t, protein, "cartoon")

	c, err := NewRepresentation(protein, cartoon)
	require.NoError(t, err)
	assert.Equal(t, protein, c.Structure())
	assert.Equal(t, []scene.Group{protein}, c.Owners())

	_, err = NewRepresentation(ligand, cartoon)
	assert.ErrorIs(t, err, ErrForeignRepresentation)

	_, err = NewRepresentation(nil, cartoon)
	assert.Error(t, err)
	_, err = NewRepresentation(protein, nil)
	assert.Error(t, err)
}

func TestRepresentation_Visibility(t *testing.T) {
	stage := memstage.New()
	protein := stage.AddShape("protein")
	cartoon := addRepr(t, protein, "cartoon")
	surface := addRepr(t, protein, "surface")

	c, err := NewRepresentation(protein, cartoon)
	require.NoError(t, err)

	c.SetVisible(false)
	assert.False(t, c.Visible())
	assert.False(t, cartoon.Visible())
	assert.True(t, surface.Visible(), "other representations are untouched")
	assert.True(t, protein.Visible(), "the structure itself stays visible")

	c.SetVisible(false)
	assert.False(t, c.Visible(), "SetVisible is idempotent")
}

func TestRepresentation_AutoView(t *testing.T) {
	stage := memstage.New()
	protein := stage.AddShape("protein")
	c, err := NewRepresentation(protein, addRepr(t, protein, "cartoon"))
	require.NoError(t, err)

	require.NoError(t, c.AutoView(time.Second))
	focused, d, _ := stage.Focused()
	assert.Equal(t, protein, focused)
	assert.Equal(t, time.Second, d)
}

func TestEnsemble(t *testing.T) {
	stage := memstage.New()
	pose1 := stage.AddShape("pose1")
	pose2 := stage.AddShape("pose2")
	r1 := addRepr(t, pose1, "ball+stick")
	r2 := addRepr(t, pose2, "ball+stick")
	r3 := addRepr(t, pose2, "licorice")

	e := NewEnsemble(r1, r2, r3, nil)
	assert.Equal(t, 3, e.Len())
	assert.Equal(t, []scene.Group{pose1, pose2}, e.Owners())

	e.SetVisible(false)
	assert.False(t, e.Visible())

	r2.SetVisible(true)
	assert.True(t, e.Visible(), "visible if any representation is")

	e.SetVisible(true)
	assert.True(t, r1.Visible())
	assert.True(t, r3.Visible())

	require.NoError(t, e.AutoView(0))
	focused, _, _ := stage.Focused()
	assert.Equal(t, pose1, focused)
}

func TestEnsemble_Empty(t *testing.T) {
	e := NewEnsemble()
	assert.False(t, e.Visible())
	assert.Empty(t, e.Owners())
	assert.ErrorIs(t, e.AutoView(0), scene.ErrUnsupported)
}
