// Package memstage provides an in-memory implementation of the scene
// interfaces. It keeps visibility, parameters and camera focus as plain
// fields so that sessions and tests can inspect what a real viewer would
// have drawn.
//
// A Stage is not safe for concurrent use.
package memstage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/leapstack-labs/molview/pkg/scene"
)

// DefaultOpacity is the opacity of a newly added representation.
const DefaultOpacity = 1.0

// Stage is an in-memory viewer.
type Stage struct {
	structures []*Structure
	seq        int

	subscribers map[int]func(scene.Pick)
	subOrder    []int
	nextSub     int

	focused       *Structure
	focusDuration time.Duration
	focusCount    int
}

// New creates an empty stage.
func New() *Stage {
	return &Stage{
		subscribers: make(map[int]func(scene.Pick)),
	}
}

// LoadFile reads the blob and adds a structure for it. The content is not
// parsed; only its size is recorded.
func (s *Stage) LoadFile(ctx context.Context, r io.Reader, format, name string) (scene.Structure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	st := s.add(name)
	st.format = format
	st.size = len(data)
	return st, nil
}

// AddShape adds a structure that is not backed by a file, such as the
// geometry drawn for an interaction point.
func (s *Stage) AddShape(name string) *Structure {
	st := s.add(name)
	st.format = "shape"
	return st
}

func (s *Stage) add(name string) *Structure {
	s.seq++
	st := &Structure{
		stage:   s,
		id:      fmt.Sprintf("%s#%d", name, s.seq),
		name:    name,
		visible: true,
	}
	s.structures = append(s.structures, st)
	return st
}

// Remove drops a structure from the stage. Components wrapping it keep
// their reference but the structure is no longer listed.
func (s *Stage) Remove(st *Structure) bool {
	for i, cur := range s.structures {
		if cur == st {
			s.structures = append(s.structures[:i], s.structures[i+1:]...)
			if s.focused == st {
				s.focused = nil
			}
			return true
		}
	}
	return false
}

// Structures returns the loaded structures in load order.
func (s *Stage) Structures() []*Structure {
	out := make([]*Structure, len(s.structures))
	copy(out, s.structures)
	return out
}

// OnPick subscribes fn to pick events.
func (s *Stage) OnPick(fn func(scene.Pick)) func() {
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subOrder = append(s.subOrder, id)
	return func() {
		if _, ok := s.subscribers[id]; !ok {
			return
		}
		delete(s.subscribers, id)
		for i, cur := range s.subOrder {
			if cur == id {
				s.subOrder = append(s.subOrder[:i], s.subOrder[i+1:]...)
				break
			}
		}
	}
}

// Subscribers returns the number of active pick subscriptions.
func (s *Stage) Subscribers() int {
	return len(s.subscribers)
}

// Pick delivers p to every subscriber in subscription order.
func (s *Stage) Pick(p scene.Pick) {
	order := make([]int, len(s.subOrder))
	copy(order, s.subOrder)
	for _, id := range order {
		if fn, ok := s.subscribers[id]; ok {
			fn(p)
		}
	}
}

// Focused returns the structure the camera was last centered on, the
// animation duration used, and how many focus requests were made in total.
func (s *Stage) Focused() (*Structure, time.Duration, int) {
	return s.focused, s.focusDuration, s.focusCount
}

func (s *Stage) focus(st *Structure, d time.Duration) {
	s.focused = st
	s.focusDuration = d
	s.focusCount++
}
