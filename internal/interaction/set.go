package interaction

import (
	"time"

	"github.com/leapstack-labs/molview/pkg/scene"
)

// markerIndex keeps markers by ID in the order they were added.
type markerIndex struct {
	byID  map[int]*Marker
	order []*Marker
}

func newMarkerIndex(markers []*Marker) (markerIndex, error) {
	idx := markerIndex{byID: make(map[int]*Marker, len(markers))}
	for i, m := range markers {
		if err := idx.check(i, m); err != nil {
			return markerIndex{}, err
		}
		idx.insert(m)
	}
	return idx, nil
}

func (idx *markerIndex) check(i int, m *Marker) error {
	if m == nil {
		return &InvalidMarkerError{Index: i, Reason: "marker is nil"}
	}
	if m.Component == nil {
		return &InvalidMarkerError{Index: i, Reason: "marker has no component"}
	}
	if m.ID == Unassigned {
		return &MissingIdentityError{Index: i, Label: m.Label}
	}
	if _, ok := idx.byID[m.ID]; ok {
		return &DuplicateIdentityError{ID: m.ID}
	}
	return nil
}

// insert admits m and pushes its state opacity, so markers built without
// NewMarker are drawn the same way.
func (idx *markerIndex) insert(m *Marker) {
	m.setState(m.state)
	idx.byID[m.ID] = m
	idx.order = append(idx.order, m)
}

func (idx *markerIndex) visible() bool {
	for _, m := range idx.order {
		if m.Visible() {
			return true
		}
	}
	return false
}

func (idx *markerIndex) markers() []*Marker {
	out := make([]*Marker, len(idx.order))
	copy(out, idx.order)
	return out
}

// Set is a collection of markers that are shown and hidden together.
type Set struct {
	idx markerIndex
}

var _ scene.Renderable = (*Set)(nil)

// NewSet creates a set over markers. Every marker must have a unique ID.
func NewSet(markers []*Marker) (*Set, error) {
	idx, err := newMarkerIndex(markers)
	if err != nil {
		return nil, err
	}
	return &Set{idx: idx}, nil
}

// Add appends a marker to the set.
func (s *Set) Add(m *Marker) error {
	if err := s.idx.check(len(s.idx.order), m); err != nil {
		return err
	}
	s.idx.insert(m)
	return nil
}

// Len returns the number of markers.
func (s *Set) Len() int { return len(s.idx.order) }

// Marker returns the marker with the given ID.
func (s *Set) Marker(id int) (*Marker, bool) {
	m, ok := s.idx.byID[id]
	return m, ok
}

// Markers returns the markers in insertion order.
func (s *Set) Markers() []*Marker { return s.idx.markers() }

// Visible reports whether any marker is shown.
func (s *Set) Visible() bool { return s.idx.visible() }

// SetVisible shows or hides every marker.
func (s *Set) SetVisible(visible bool) {
	for _, m := range s.idx.order {
		m.setVisible(visible)
	}
}

// Owners returns nil; markers are not part of a loaded structure.
func (s *Set) Owners() []scene.Group { return nil }

// AutoView always fails: a set of interaction points has no single camera
// target.
func (s *Set) AutoView(time.Duration) error {
	return &scene.UnsupportedOperationError{Op: "AutoView", Kind: "interaction set"}
}

// ToggleHighlight flips a marker between Shadow and Highlight and reports
// whether it is now highlighted. ok is false for unknown IDs.
func (s *Set) ToggleHighlight(id int) (on bool, m *Marker, ok bool) {
	m, ok = s.idx.byID[id]
	if !ok {
		return false, nil, false
	}
	if m.state == Shadow {
		m.setState(Highlight)
		return true, m, true
	}
	m.setState(Shadow)
	return false, m, true
}
