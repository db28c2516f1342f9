// Package scene defines the boundary between molview and the 3-D viewer that
// owns the actual scene objects.
//
// molview never creates or destroys scene objects itself. It only toggles
// their visibility and asks them to center the camera, so everything here is
// an interface the viewer (or the in-memory stage in memstage) implements.
package scene

import (
	"context"
	"io"
	"time"
)

// Renderable is the capability every tracked visual item must provide.
// SetVisible must be idempotent and must not fail for a well-formed value.
type Renderable interface {
	// Visible reports whether the item is currently shown.
	Visible() bool

	// SetVisible shows or hides the item.
	SetVisible(visible bool)

	// Owners returns the externally-owned containment units the item
	// depends on. Nil when the item has none.
	Owners() []Group
}

// Focusable is implemented by items that can center the camera on
// themselves. Aggregates without a sensible camera target return an error
// matching ErrUnsupported.
type Focusable interface {
	AutoView(duration time.Duration) error
}

// Group is an externally-owned containment unit, usually a loaded
// structure. GroupID is the conflict key used by the component registry.
type Group interface {
	GroupID() string
}

// OpacitySetter is implemented by items whose presentation opacity can be
// adjusted directly.
type OpacitySetter interface {
	SetOpacity(opacity float64)
}

// Params holds representation parameters such as color or opacity.
type Params map[string]any

// Representation is a single visual rendering of a structure.
type Representation interface {
	Visible() bool
	SetVisible(visible bool)
	Parent() Structure
	Parameters() Params
	SetParameters(params Params)
}

// Structure is a scene object loaded into the viewer.
type Structure interface {
	Group
	Focusable

	Name() string
	Visible() bool
	SetVisible(visible bool)
	AddRepresentation(kind string, params Params) (Representation, error)
	Representations() []Representation
}

// Pick is the payload delivered when the user clicks into the scene.
// Object is whatever the viewer reports under the cursor and may be nil.
type Pick struct {
	Object   any
	Position [3]float64
}

// PickSource delivers scene-pick events. The returned function removes the
// subscription.
type PickSource interface {
	OnPick(fn func(Pick)) (unsubscribe func())
}

// Stage is the viewer itself.
type Stage interface {
	PickSource

	// LoadFile hands a structure blob to the viewer. format is a hint such
	// as "pdb" or "sdf"; name becomes the structure's display name.
	LoadFile(ctx context.Context, r io.Reader, format, name string) (Structure, error)
}
