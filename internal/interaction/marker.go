// Package interaction manages the markers drawn for protein-ligand
// interactions.
//
// Each marker wraps one renderable and carries a presentation State. A
// ShadowSet layers a highlight/shadow life cycle on top of the coarse
// visibility toggle a view applies: highlighted markers follow the toggle,
// shadow markers are only shown when shadows are enabled for them or for
// every marker.
package interaction

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/molview/pkg/scene"
)

// Unassigned is the ID of a marker that has not been given one.
const Unassigned = -1

// State is the presentation state of a marker.
type State int

const (
	// Shadow markers are dim and only shown when shadows are enabled.
	Shadow State = iota
	// Highlight markers are shown whenever the set is visible.
	Highlight
)

// Opacity values pushed to marker components for each state.
const (
	ShadowOpacity    = 0.5
	HighlightOpacity = 0.8
)

// Opacity returns the opacity a marker in state s is drawn with.
func (s State) Opacity() float64 {
	if s == Highlight {
		return HighlightOpacity
	}
	return ShadowOpacity
}

func (s State) String() string {
	switch s {
	case Shadow:
		return "shadow"
	case Highlight:
		return "highlight"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Kind is the chemistry of an interaction.
type Kind string

const (
	Acceptor    Kind = "acceptor"
	Donor       Kind = "donor"
	Hydrophobic Kind = "hydrophobic"
	Water       Kind = "water"
)

// Kinds lists the known interaction kinds.
var Kinds = []Kind{Acceptor, Donor, Hydrophobic, Water}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == strings.ToLower(s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown interaction kind %q", s)
}

// Marker is one interaction drawn in the scene. Markers are owned by the
// caller; sets keep pointers to them and never copy them.
type Marker struct {
	// ID is any caller-assigned integer except Unassigned.
	ID        int
	Component scene.Renderable
	Kind      Kind
	Label     string

	state State
}

// NewMarker returns an unassigned marker in the Shadow state.
func NewMarker(component scene.Renderable, kind Kind, label string) *Marker {
	m := &Marker{ID: Unassigned, Component: component, Kind: kind, Label: label}
	m.setState(Shadow)
	return m
}

// State returns the presentation state.
func (m *Marker) State() State { return m.state }

// Opacity returns the opacity derived from the state.
func (m *Marker) Opacity() float64 { return m.state.Opacity() }

// Visible reports whether the marker component is shown.
func (m *Marker) Visible() bool {
	return m.Component != nil && m.Component.Visible()
}

func (m *Marker) setVisible(visible bool) {
	m.Component.SetVisible(visible)
}

func (m *Marker) setState(s State) {
	m.state = s
	if o, ok := m.Component.(scene.OpacitySetter); ok {
		o.SetOpacity(s.Opacity())
	}
}

// AssignIDs numbers markers consecutively from start and returns the next
// free ID. Ligand markers are numbered first and water markers continue
// from where they stopped, so IDs stay unique across both lists.
func AssignIDs(markers []*Marker, start int) int {
	next := start
	for _, m := range markers {
		if m == nil {
			continue
		}
		m.ID = next
		next++
	}
	return next
}
