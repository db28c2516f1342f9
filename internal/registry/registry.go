// Package registry tracks the named components a view can show.
// It maps component names to renderables and refuses registrations that
// would let one component's visibility toggle silently hide another.
package registry

import (
	"log/slog"
	"reflect"
	"sort"

	"github.com/leapstack-labs/molview/pkg/scene"
)

// Registry maps component names to renderables.
//
// Registries are not safe for concurrent use; all mutation and rendering
// happens on the goroutine driving the viewer.
type Registry struct {
	logger *slog.Logger

	// byName maps component names to renderables: "protein" → renderable
	byName map[string]scene.Renderable

	// instances maps each registered renderable back to its name
	instances map[scene.Renderable]string

	// groups maps conflict keys to the name of the component holding them
	groups map[string]string

	revision uint64
}

// New creates an empty registry. A nil logger discards output.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		logger:    logger,
		byName:    make(map[string]scene.Renderable),
		instances: make(map[scene.Renderable]string),
		groups:    make(map[string]string),
	}
}

// Register adds a component under name.
// Nothing is shown until the next render.
func (r *Registry) Register(name string, c scene.Renderable) error {
	if err := validate(name, c); err != nil {
		return err
	}
	if _, ok := r.byName[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	if err := r.checkInstance(name, c); err != nil {
		return err
	}
	if err := r.checkOwnership(name, c, nil); err != nil {
		return err
	}
	r.install(name, c)
	r.logger.Debug("registered component", "name", name)
	return nil
}

// Replace swaps the component registered under name for c and returns the
// component it replaced. The replaced component is hidden first.
func (r *Registry) Replace(name string, c scene.Renderable) (scene.Renderable, error) {
	if err := validate(name, c); err != nil {
		return nil, err
	}
	former, ok := r.byName[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	if err := r.checkInstance(name, c); err != nil {
		return nil, err
	}
	if err := r.checkOwnership(name, c, former); err != nil {
		return nil, err
	}
	r.evict(name, former)
	r.install(name, c)
	r.logger.Debug("replaced component", "name", name)
	return former, nil
}

// RegisterOrReplace registers c under name, replacing whatever was there.
// It returns the replaced component, or nil if name was free.
func (r *Registry) RegisterOrReplace(name string, c scene.Renderable) (scene.Renderable, error) {
	if _, ok := r.byName[name]; ok {
		return r.Replace(name, c)
	}
	return nil, r.Register(name, c)
}

// Deregister hides and removes the component registered under name.
// It returns the removed component, or nil if there was none.
func (r *Registry) Deregister(name string) scene.Renderable {
	former, ok := r.byName[name]
	if !ok {
		return nil
	}
	r.evict(name, former)
	r.logger.Debug("deregistered component", "name", name)
	return former
}

// Clear removes every component without touching visibility, e.g. when
// the viewer is torn down and the scene objects are gone anyway.
func (r *Registry) Clear() {
	r.byName = make(map[string]scene.Renderable)
	r.instances = make(map[scene.Renderable]string)
	r.groups = make(map[string]string)
	r.revision++
}

// Revision returns a counter that changes whenever the set of registered
// components changes.
func (r *Registry) Revision() uint64 {
	return r.revision
}

// Get returns the component registered under name.
func (r *Registry) Get(name string) (scene.Renderable, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Contains reports whether c is registered under any name.
func (r *Registry) Contains(c scene.Renderable) bool {
	if !isComparable(c) {
		return false
	}
	_, ok := r.instances[c]
	return ok
}

// NameOf returns the name c is registered under.
func (r *Registry) NameOf(c scene.Renderable) (string, bool) {
	if !isComparable(c) {
		return "", false
	}
	name, ok := r.instances[c]
	return name, ok
}

// Count returns the number of registered components.
func (r *Registry) Count() int {
	return len(r.byName)
}

// Names returns all component names (sorted).
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every component in name order.
func (r *Registry) Each(fn func(name string, c scene.Renderable)) {
	for _, name := range r.Names() {
		fn(name, r.byName[name])
	}
}

func (r *Registry) install(name string, c scene.Renderable) {
	r.byName[name] = c
	r.instances[c] = name
	for _, key := range conflictKeys(c) {
		r.groups[key] = name
	}
	r.revision++
}

func (r *Registry) evict(name string, c scene.Renderable) {
	c.SetVisible(false)
	delete(r.byName, name)
	delete(r.instances, c)
	for _, key := range conflictKeys(c) {
		if r.groups[key] == name {
			delete(r.groups, key)
		}
	}
	r.revision++
}

// checkInstance rejects c if it is already registered under any name.
func (r *Registry) checkInstance(name string, c scene.Renderable) error {
	// Replacing a component with itself is a duplicate too.
	if existing, ok := r.instances[c]; ok {
		return &DuplicateInstanceError{Name: name, Existing: existing}
	}
	return nil
}

// checkOwnership rejects c if any of its conflict keys is held by another
// registered component. Keys held by except are ignored.
func (r *Registry) checkOwnership(name string, c, except scene.Renderable) error {
	exceptName := ""
	if except != nil {
		exceptName = r.instances[except]
	}
	for _, key := range conflictKeys(c) {
		holder, ok := r.groups[key]
		if !ok || (except != nil && holder == exceptName) {
			continue
		}
		return &OwnershipConflictError{Name: name, Conflicting: holder, Group: key}
	}
	return nil
}

// conflictKeys returns the group ids c depends on. A renderable that is
// itself a group (a structure registered directly) conflicts with its own
// representations, so its own id is included.
func conflictKeys(c scene.Renderable) []string {
	owners := c.Owners()
	keys := make([]string, 0, len(owners)+1)
	seen := make(map[string]struct{}, len(owners)+1)
	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if g, ok := c.(scene.Group); ok {
		add(g.GroupID())
	}
	for _, owner := range owners {
		if owner == nil {
			continue
		}
		add(owner.GroupID())
	}
	return keys
}

func validate(name string, c scene.Renderable) error {
	if c == nil {
		return &InvalidCapabilityError{Name: name, Reason: "component is nil"}
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return &InvalidCapabilityError{Name: name, Reason: "component is a nil " + v.Type().String()}
		}
	}
	if !isComparable(c) {
		return &InvalidCapabilityError{Name: name, Reason: "component type " + v.Type().String() + " is not comparable"}
	}
	return nil
}

func isComparable(c scene.Renderable) bool {
	if c == nil {
		return false
	}
	return reflect.TypeOf(c).Comparable()
}
