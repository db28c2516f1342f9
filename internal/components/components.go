// Package components provides renderables built from structure
// representations: a single representation tied to its structure, and an
// ensemble of representations that are shown and hidden together.
package components

import (
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/molview/pkg/scene"
)

// ErrForeignRepresentation is returned when a representation does not
// belong to the structure it is paired with.
var ErrForeignRepresentation = errors.New("representation is not of the structure")

// Representation wraps one representation of a structure so it can be
// registered without registering the structure itself.
type Representation struct {
	structure      scene.Structure
	representation scene.Representation
}

var (
	_ scene.Renderable = (*Representation)(nil)
	_ scene.Focusable  = (*Representation)(nil)
)

// NewRepresentation pairs a structure with one of its representations.
func NewRepresentation(structure scene.Structure, representation scene.Representation) (*Representation, error) {
	if structure == nil {
		return nil, fmt.Errorf("structure is required")
	}
	if representation == nil {
		return nil, fmt.Errorf("representation is required")
	}
	if representation.Parent() != structure {
		return nil, fmt.Errorf("%w: %s", ErrForeignRepresentation, structure.Name())
	}
	return &Representation{structure: structure, representation: representation}, nil
}

// Structure returns the structure the representation belongs to.
func (r *Representation) Structure() scene.Structure { return r.structure }

// Visible reports whether the representation is shown.
func (r *Representation) Visible() bool { return r.representation.Visible() }

// SetVisible shows or hides the representation.
func (r *Representation) SetVisible(visible bool) { r.representation.SetVisible(visible) }

// Owners returns the structure.
func (r *Representation) Owners() []scene.Group { return []scene.Group{r.structure} }

// AutoView centers the camera on the structure.
func (r *Representation) AutoView(duration time.Duration) error {
	return r.structure.AutoView(duration)
}

// Ensemble shows and hides a set of representations as one component,
// e.g. several docked poses of the same ligand.
type Ensemble struct {
	representations []scene.Representation
}

var (
	_ scene.Renderable = (*Ensemble)(nil)
	_ scene.Focusable  = (*Ensemble)(nil)
)

// NewEnsemble creates an ensemble. The slice is copied.
func NewEnsemble(representations ...scene.Representation) *Ensemble {
	reprs := make([]scene.Representation, 0, len(representations))
	for _, r := range representations {
		if r != nil {
			reprs = append(reprs, r)
		}
	}
	return &Ensemble{representations: reprs}
}

// Len returns the number of representations.
func (e *Ensemble) Len() int { return len(e.representations) }

// Visible reports whether any representation is shown.
func (e *Ensemble) Visible() bool {
	for _, r := range e.representations {
		if r.Visible() {
			return true
		}
	}
	return false
}

// SetVisible shows or hides every representation.
func (e *Ensemble) SetVisible(visible bool) {
	for _, r := range e.representations {
		r.SetVisible(visible)
	}
}

// Owners returns the structures of all representations, deduplicated.
func (e *Ensemble) Owners() []scene.Group {
	owners := make([]scene.Group, 0, len(e.representations))
	seen := make(map[string]struct{}, len(e.representations))
	for _, r := range e.representations {
		parent := r.Parent()
		if parent == nil {
			continue
		}
		if _, ok := seen[parent.GroupID()]; ok {
			continue
		}
		seen[parent.GroupID()] = struct{}{}
		owners = append(owners, parent)
	}
	return owners
}

// AutoView centers the camera on the structure of the first
// representation.
func (e *Ensemble) AutoView(duration time.Duration) error {
	for _, r := range e.representations {
		if parent := r.Parent(); parent != nil {
			return parent.AutoView(duration)
		}
	}
	return &scene.UnsupportedOperationError{Op: "auto view", Kind: "empty ensemble"}
}
