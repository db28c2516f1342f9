package memstage

import (
	"time"

	"github.com/leapstack-labs/molview/pkg/scene"
)

// Structure is an in-memory scene object.
type Structure struct {
	stage   *Stage
	id      string
	name    string
	format  string
	size    int
	visible bool
	reprs   []*Representation
}

var (
	_ scene.Structure     = (*Structure)(nil)
	_ scene.Renderable    = (*Structure)(nil)
	_ scene.OpacitySetter = (*Structure)(nil)
)

// GroupID returns the stage-unique id of the structure.
func (st *Structure) GroupID() string { return st.id }

// Name returns the display name.
func (st *Structure) Name() string { return st.name }

// Format returns the format hint the structure was loaded with.
func (st *Structure) Format() string { return st.format }

// Size returns the number of bytes read when loading.
func (st *Structure) Size() int { return st.size }

// Visible reports whether the structure is shown.
func (st *Structure) Visible() bool { return st.visible }

// SetVisible shows or hides the structure.
func (st *Structure) SetVisible(visible bool) { st.visible = visible }

// Owners returns nil; a structure is itself the containment unit.
func (st *Structure) Owners() []scene.Group { return nil }

// AutoView centers the camera on the structure.
func (st *Structure) AutoView(duration time.Duration) error {
	st.stage.focus(st, duration)
	return nil
}

// AddRepresentation adds a visible representation of the given kind.
func (st *Structure) AddRepresentation(kind string, params scene.Params) (scene.Representation, error) {
	p := scene.Params{"opacity": DefaultOpacity}
	for k, v := range params {
		p[k] = v
	}
	r := &Representation{
		parent:  st,
		kind:    kind,
		params:  p,
		visible: true,
	}
	st.reprs = append(st.reprs, r)
	return r, nil
}

// Representations returns the representations in creation order.
func (st *Structure) Representations() []scene.Representation {
	out := make([]scene.Representation, len(st.reprs))
	for i, r := range st.reprs {
		out[i] = r
	}
	return out
}

// SetOpacity sets the opacity of the first representation, which is the
// one shapes are drawn with.
func (st *Structure) SetOpacity(opacity float64) {
	if len(st.reprs) == 0 {
		return
	}
	st.reprs[0].params["opacity"] = opacity
}

// Opacity returns the opacity of the first representation, or 0 if there
// is none.
func (st *Structure) Opacity() float64 {
	if len(st.reprs) == 0 {
		return 0
	}
	o, _ := st.reprs[0].params["opacity"].(float64)
	return o
}

// Representation is an in-memory representation.
type Representation struct {
	parent  *Structure
	kind    string
	params  scene.Params
	visible bool
}

var _ scene.Representation = (*Representation)(nil)

// Kind returns the representation kind, e.g. "cartoon" or "ball+stick".
func (r *Representation) Kind() string { return r.kind }

// Visible reports whether the representation is shown.
func (r *Representation) Visible() bool { return r.visible }

// SetVisible shows or hides the representation.
func (r *Representation) SetVisible(visible bool) { r.visible = visible }

// Parent returns the owning structure.
func (r *Representation) Parent() scene.Structure { return r.parent }

// Parameters returns a copy of the parameters.
func (r *Representation) Parameters() scene.Params {
	out := make(scene.Params, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// SetParameters merges params into the current parameters.
func (r *Representation) SetParameters(params scene.Params) {
	for k, v := range params {
		r.params[k] = v
	}
}
