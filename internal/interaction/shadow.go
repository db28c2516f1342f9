package interaction

import (
	"time"

	"github.com/leapstack-labs/molview/pkg/scene"
)

// ShadowSet is a collection of markers whose Shadow markers are hidden
// unless their shadow is enabled, individually or all at once.
//
// The zero value is not usable; create one with NewShadowSet.
type ShadowSet struct {
	idx markerIndex

	// shadows holds the IDs whose shadow was enabled individually
	shadows map[int]struct{}
	showAll bool
}

var _ scene.Renderable = (*ShadowSet)(nil)

// NewShadowSet creates a shadow set over markers. Every marker must have a
// unique ID. No shadows are enabled initially.
func NewShadowSet(markers []*Marker) (*ShadowSet, error) {
	idx, err := newMarkerIndex(markers)
	if err != nil {
		return nil, err
	}
	return &ShadowSet{idx: idx, shadows: make(map[int]struct{})}, nil
}

// Len returns the number of markers.
func (s *ShadowSet) Len() int { return len(s.idx.order) }

// Marker returns the marker with the given ID.
func (s *ShadowSet) Marker(id int) (*Marker, bool) {
	m, ok := s.idx.byID[id]
	return m, ok
}

// Markers returns the markers in construction order.
func (s *ShadowSet) Markers() []*Marker { return s.idx.markers() }

// ShowAllShadows reports whether every shadow is enabled.
func (s *ShadowSet) ShowAllShadows() bool { return s.showAll }

// ShadowEnabled reports whether the shadow of id was enabled individually.
func (s *ShadowSet) ShadowEnabled(id int) bool {
	_, ok := s.shadows[id]
	return ok
}

// Visible reports whether any marker is shown.
func (s *ShadowSet) Visible() bool { return s.idx.visible() }

// SetVisible applies the coarse toggle. Highlighted markers follow it.
// Shadow markers are shown only if visible is true and their shadow is
// enabled.
func (s *ShadowSet) SetVisible(visible bool) {
	for _, m := range s.idx.order {
		switch m.state {
		case Shadow:
			m.setVisible(visible && s.shadowShown(m.ID))
		case Highlight:
			m.setVisible(visible)
		}
	}
}

// Owners returns nil; markers are not part of a loaded structure.
func (s *ShadowSet) Owners() []scene.Group { return nil }

// AutoView always fails: a set of interaction points has no single camera
// target.
func (s *ShadowSet) AutoView(time.Duration) error {
	return &scene.UnsupportedOperationError{Op: "AutoView", Kind: "interaction shadow set"}
}

// EnableShadow enables and shows the shadow of a marker.
func (s *ShadowSet) EnableShadow(id int) (*Marker, bool) {
	m, ok := s.idx.byID[id]
	if !ok {
		return nil, false
	}
	m.setVisible(true)
	s.shadows[id] = struct{}{}
	return m, true
}

// DisableShadow disables and hides the shadow of a marker. It does nothing
// while all shadows are shown or while the marker is highlighted.
func (s *ShadowSet) DisableShadow(id int) (*Marker, bool) {
	if s.showAll {
		return nil, false
	}
	m, ok := s.idx.byID[id]
	if !ok || m.state == Highlight {
		return nil, false
	}
	m.setVisible(false)
	delete(s.shadows, id)
	return m, true
}

// ToggleAllShadows flips whether every shadow is enabled. The change is
// applied by the next SetVisible.
func (s *ShadowSet) ToggleAllShadows() {
	s.showAll = !s.showAll
}

// ToggleHighlight flips a marker between Shadow and Highlight and reports
// whether it is now highlighted. A marker leaving Highlight is hidden
// unless its shadow is enabled. ok is false for unknown IDs.
func (s *ShadowSet) ToggleHighlight(id int) (on bool, m *Marker, ok bool) {
	m, ok = s.idx.byID[id]
	if !ok {
		return false, nil, false
	}
	if m.state == Shadow {
		m.setState(Highlight)
		return true, m, true
	}
	m.setState(Shadow)
	if !s.shadowShown(id) {
		m.setVisible(false)
	}
	return false, m, true
}

func (s *ShadowSet) shadowShown(id int) bool {
	if s.showAll {
		return true
	}
	_, ok := s.shadows[id]
	return ok
}
