package view

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/molview/internal/registry"
	"github.com/leapstack-labs/molview/pkg/scene"
)

// Listener receives scene picks made while its view is current.
type Listener func(pick scene.Pick)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Config holds Context configuration.
type Config struct {
	// Registry holds the components views refer to (optional, a new one is
	// created if nil)
	Registry *registry.Registry
	// Catalog holds the view definitions (optional, a new one is created if
	// nil)
	Catalog *Catalog
	// Definition is imported into the catalog at construction (optional)
	Definition Definition
	// FocusDuration is passed to AutoView when focusing a component
	FocusDuration time.Duration
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Context renders views of a catalog onto the components of a registry and
// routes scene picks to the listeners of the current view.
//
// A Context is not safe for concurrent use. Picks are expected to arrive on
// the same goroutine that mutates the registry and catalog.
type Context struct {
	logger        *slog.Logger
	registry      *registry.Registry
	catalog       *Catalog
	focusDuration time.Duration

	listeners    map[string][]listenerEntry
	nextListener ListenerID
	unsubscribe  func()

	// settled is the render state the camera was last focused for; a
	// render that finds nothing changed since does not move the camera
	settled    renderState
	hasSettled bool
}

type renderState struct {
	view     string
	registry uint64
	catalog  uint64
}

// NewContext creates a Context and subscribes it to the picks of source.
// A nil source disables click dispatch.
func NewContext(source scene.PickSource, cfg Config) (*Context, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := cfg.Registry
	if reg == nil {
		reg = registry.New(logger)
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = NewCatalog()
	}
	if cfg.Definition != nil {
		if err := catalog.Import(cfg.Definition); err != nil {
			return nil, fmt.Errorf("failed to import view definition: %w", err)
		}
	}

	c := &Context{
		logger:        logger,
		registry:      reg,
		catalog:       catalog,
		focusDuration: cfg.FocusDuration,
		listeners:     make(map[string][]listenerEntry),
	}
	if source != nil {
		c.unsubscribe = source.OnPick(c.dispatch)
	}
	return c, nil
}

// Close removes the pick subscription.
func (c *Context) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Registry returns the component registry.
func (c *Context) Registry() *registry.Registry { return c.registry }

// Catalog returns the view catalog.
func (c *Context) Catalog() *Catalog { return c.catalog }

// CurrentView returns the view applied last, if any.
func (c *Context) CurrentView() (string, bool) { return c.catalog.Current() }

// SwitchView makes view current and renders it. Switching to a view that
// does not exist is not an error and changes nothing, since views are often
// populated after the switch is requested.
func (c *Context) SwitchView(view string) error {
	if !c.catalog.SetCurrent(view) {
		c.logger.Debug("ignoring switch to unknown view", "view", view)
		return nil
	}
	c.hasSettled = false
	return c.RenderView(view)
}

// Render renders the current view. Without a current view it does nothing.
func (c *Context) Render() error {
	view, ok := c.catalog.Current()
	if !ok {
		return nil
	}
	return c.RenderView(view)
}

// RenderView hides every visible component, shows the components the view
// lists and focuses the first focusable target. At most one component is
// focused, and rendering again without a change to the registry or the
// catalog leaves the camera alone. The only errors returned come from
// focusing.
func (c *Context) RenderView(view string) error {
	d, ok := c.catalog.definitionFor(view)
	if !ok {
		return nil
	}
	c.logger.Debug("rendering view", "view", view)
	state := renderState{view: view, registry: c.registry.Revision(), catalog: c.catalog.Revision()}

	c.registry.Each(func(name string, comp scene.Renderable) {
		if comp.Visible() {
			c.logger.Debug("hiding component", "name", name)
			comp.SetVisible(false)
		}
	})

	for _, t := range d.visible {
		c.showTarget(t)
	}

	if c.hasSettled && c.settled == state {
		return nil
	}
	for _, t := range d.focus {
		focused, err := c.focusTarget(t)
		if err != nil {
			return fmt.Errorf("failed to focus %s in view %q: %w", t, view, err)
		}
		if focused {
			break
		}
	}
	c.settled = state
	c.hasSettled = true
	return nil
}

// showTarget shows the first registered component of t.
func (c *Context) showTarget(t Target) bool {
	for _, name := range t.names {
		comp, ok := c.registry.Get(name)
		if !ok {
			continue
		}
		if !comp.Visible() {
			c.logger.Debug("showing component", "name", name)
		}
		comp.SetVisible(true)
		return true
	}
	return false
}

// focusTarget focuses the first name in t that can be focused.
func (c *Context) focusTarget(t Target) (bool, error) {
	for _, name := range t.names {
		focused, err := c.focusComponent(name)
		if err != nil || focused {
			return focused, err
		}
	}
	return false, nil
}

// focusComponent centers the camera on the component's primary owner if
// the owner can be focused, else on the component itself.
func (c *Context) focusComponent(name string) (bool, error) {
	comp, ok := c.registry.Get(name)
	if !ok {
		return false, nil
	}

	if owners := comp.Owners(); len(owners) > 0 {
		if f, ok := owners[0].(scene.Focusable); ok {
			focused, err := c.autoView(f)
			if focused || err != nil {
				if focused {
					c.logger.Debug("focusing owner of component", "name", name, "group", owners[0].GroupID())
				}
				return focused, err
			}
		}
	}

	if f, ok := comp.(scene.Focusable); ok {
		focused, err := c.autoView(f)
		if focused {
			c.logger.Debug("focusing component", "name", name)
		}
		return focused, err
	}
	return false, nil
}

// autoView reports an unsupported focus as "not focused" so the next
// candidate is tried.
func (c *Context) autoView(f scene.Focusable) (bool, error) {
	err := f.AutoView(c.focusDuration)
	if errors.Is(err, scene.ErrUnsupported) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddViewListener registers fn for picks made while view is current.
// Listeners run in registration order.
func (c *Context) AddViewListener(view string, fn Listener) ListenerID {
	c.nextListener++
	id := c.nextListener
	c.listeners[view] = append(c.listeners[view], listenerEntry{id: id, fn: fn})
	return id
}

// RemoveViewListener removes a listener. Unknown ids are ignored.
func (c *Context) RemoveViewListener(view string, id ListenerID) {
	entries := c.listeners[view]
	for i, e := range entries {
		if e.id == id {
			c.listeners[view] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(c.listeners[view]) == 0 {
		delete(c.listeners, view)
	}
}

// dispatch delivers a pick to the listeners of the current view.
func (c *Context) dispatch(pick scene.Pick) {
	view, ok := c.catalog.Current()
	if !ok {
		return
	}
	entries := c.listeners[view]
	if len(entries) == 0 {
		return
	}
	snapshot := make([]listenerEntry, len(entries))
	copy(snapshot, entries)
	for _, e := range snapshot {
		e.fn(pick)
	}
}
