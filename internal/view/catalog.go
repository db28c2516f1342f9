// Package view holds named view definitions and renders them.
//
// A view says which components should be visible and which component the
// camera should focus on. Both lists are made of targets, where a target
// is a component name or an ordered fallback list of names. The Catalog
// stores definitions; the Context applies them to a component registry.
//
// Example definition in YAML:
//
//	ligandView:
//	  visible: [ligand]
//	  focus: [ligand]
//	complexView:
//	  visible:
//	    - [protein, otherProtein] # otherProtein if protein is missing
//	    - ligand
//	  focus: [ligand]
package view

import (
	"fmt"
	"sort"
)

// Spec is the serializable form of a single view.
type Spec struct {
	Visible []Target `json:"visible" yaml:"visible"`
	Focus   []Target `json:"focus" yaml:"focus"`
}

// Definition maps view names to their specs. It is the import and export
// format of a Catalog.
type Definition map[string]Spec

// definition is the catalog's own copy of a view. visible is an ordered
// set keyed by Target.key.
type definition struct {
	visible []Target
	index   map[string]struct{}
	focus   []Target
}

func newDefinition() *definition {
	return &definition{
		visible: []Target{},
		index:   make(map[string]struct{}),
		focus:   []Target{},
	}
}

func (d *definition) add(t Target) {
	k := t.key()
	if _, ok := d.index[k]; ok {
		return
	}
	d.index[k] = struct{}{}
	d.visible = append(d.visible, t)
}

func (d *definition) remove(t Target) {
	k := t.key()
	if _, ok := d.index[k]; !ok {
		return
	}
	delete(d.index, k)
	for i, cur := range d.visible {
		if cur.key() == k {
			d.visible = append(d.visible[:i], d.visible[i+1:]...)
			return
		}
	}
}

func (d *definition) spec() Spec {
	return Spec{
		Visible: copyTargets(d.visible),
		Focus:   copyTargets(d.focus),
	}
}

// Catalog maps view names to definitions and remembers which view was
// applied last.
type Catalog struct {
	views      map[string]*definition
	current    string
	hasCurrent bool
	revision   uint64
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{views: make(map[string]*definition)}
}

// Import validates def and adds every view in it, replacing views of the
// same name. Nothing is added if any view is malformed.
func (c *Catalog) Import(def Definition) error {
	for _, name := range sortedNames(def) {
		if err := validateSpec(name, def[name]); err != nil {
			return err
		}
	}
	for name, spec := range def {
		c.put(name, spec)
	}
	return nil
}

// Reset validates def and makes it the entire catalog, dropping views it
// does not name. The current view pointer is kept.
func (c *Catalog) Reset(def Definition) error {
	for _, name := range sortedNames(def) {
		if err := validateSpec(name, def[name]); err != nil {
			return err
		}
	}
	c.views = make(map[string]*definition, len(def))
	c.revision++
	for name, spec := range def {
		c.put(name, spec)
	}
	return nil
}

// ImportRaw imports a definition decoded from JSON or YAML into generic
// maps and lists.
func (c *Catalog) ImportRaw(raw map[string]any) error {
	def, err := ParseDefinition(raw)
	if err != nil {
		return err
	}
	return c.Import(def)
}

// Export returns a copy of every view in import format. Visible sets are
// returned as lists in insertion order.
func (c *Catalog) Export() Definition {
	def := make(Definition, len(c.views))
	for name, d := range c.views {
		def[name] = d.spec()
	}
	return def
}

// AddView adds an empty view, replacing any view of the same name.
func (c *Catalog) AddView(name string) {
	c.views[name] = newDefinition()
	c.revision++
}

// PutView adds a view from spec, replacing any view of the same name.
func (c *Catalog) PutView(name string, spec Spec) error {
	if err := validateSpec(name, spec); err != nil {
		return err
	}
	c.put(name, spec)
	return nil
}

func (c *Catalog) put(name string, spec Spec) {
	d := newDefinition()
	for _, t := range spec.Visible {
		d.add(t)
	}
	d.focus = copyTargets(spec.Focus)
	c.views[name] = d
	c.revision++
}

// RemoveView removes a view. Visibility already applied from it is left
// as it is.
func (c *Catalog) RemoveView(name string) {
	delete(c.views, name)
	c.revision++
}

// AddViewComponent appends a target to the visible set of a view.
// Adding a target that is already present does nothing.
func (c *Catalog) AddViewComponent(view string, t Target) error {
	d, ok := c.views[view]
	if !ok {
		return &NotFoundError{View: view}
	}
	if err := validateTarget(t); err != nil {
		return &MalformedViewError{View: view, Field: "visible", Reason: err.Error()}
	}
	d.add(t)
	c.revision++
	return nil
}

// RemoveViewComponent removes a target from the visible set of a view.
func (c *Catalog) RemoveViewComponent(view string, t Target) error {
	d, ok := c.views[view]
	if !ok {
		return &NotFoundError{View: view}
	}
	d.remove(t)
	c.revision++
	return nil
}

// SetFocusComponents replaces the focus list of a view.
func (c *Catalog) SetFocusComponents(view string, targets []Target) error {
	d, ok := c.views[view]
	if !ok {
		return &NotFoundError{View: view}
	}
	for _, t := range targets {
		if err := validateTarget(t); err != nil {
			return &MalformedViewError{View: view, Field: "focus", Reason: err.Error()}
		}
	}
	d.focus = copyTargets(targets)
	c.revision++
	return nil
}

// GetFocusComponents returns a copy of the focus list of a view.
func (c *Catalog) GetFocusComponents(view string) ([]Target, error) {
	d, ok := c.views[view]
	if !ok {
		return nil, &NotFoundError{View: view}
	}
	return copyTargets(d.focus), nil
}

// Has reports whether a view exists.
func (c *Catalog) Has(view string) bool {
	_, ok := c.views[view]
	return ok
}

// View returns a copy of a view.
func (c *Catalog) View(name string) (Spec, bool) {
	d, ok := c.views[name]
	if !ok {
		return Spec{}, false
	}
	return d.spec(), true
}

// Views returns all view names (sorted).
func (c *Catalog) Views() []string {
	names := make([]string, 0, len(c.views))
	for name := range c.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of views.
func (c *Catalog) Len() int {
	return len(c.views)
}

// Current returns the view applied last, if any.
func (c *Catalog) Current() (string, bool) {
	return c.current, c.hasCurrent
}

// SetCurrent records view as the current view. It returns false and leaves
// the pointer alone if the view does not exist.
func (c *Catalog) SetCurrent(view string) bool {
	if _, ok := c.views[view]; !ok {
		return false
	}
	c.current = view
	c.hasCurrent = true
	return true
}

// Revision returns a counter that changes whenever a view definition
// changes.
func (c *Catalog) Revision() uint64 {
	return c.revision
}

// definitionFor returns the internal definition of a view without copying.
func (c *Catalog) definitionFor(view string) (*definition, bool) {
	d, ok := c.views[view]
	return d, ok
}

// ParseDefinition validates a definition decoded into generic values, as
// produced by encoding/json or yaml.v3, and converts it to a Definition.
func ParseDefinition(raw map[string]any) (Definition, error) {
	def := make(Definition, len(raw))
	for _, name := range sortedNames(raw) {
		entry, ok := raw[name].(map[string]any)
		if !ok || entry == nil {
			return nil, &MalformedViewError{View: name, Reason: fmt.Sprintf("view must be a mapping, got %T", raw[name])}
		}
		visible, err := parseTargetList(name, "visible", entry["visible"])
		if err != nil {
			return nil, err
		}
		focus, err := parseTargetList(name, "focus", entry["focus"])
		if err != nil {
			return nil, err
		}
		def[name] = Spec{Visible: visible, Focus: focus}
	}
	return def, nil
}

func parseTargetList(view, field string, raw any) ([]Target, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil, &MalformedViewError{View: view, Field: field, Reason: "missing"}
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	case []Target:
		return copyTargets(v), nil
	default:
		return nil, &MalformedViewError{View: view, Field: field, Reason: fmt.Sprintf("must be a list, got %T", raw)}
	}
	targets := make([]Target, 0, len(items))
	for i, item := range items {
		t, err := parseTarget(item)
		if err != nil {
			return nil, &MalformedViewError{View: view, Field: field, Reason: fmt.Sprintf("entry %d: %v", i, err)}
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func validateSpec(name string, spec Spec) error {
	if spec.Visible == nil {
		return &MalformedViewError{View: name, Field: "visible", Reason: "missing"}
	}
	if spec.Focus == nil {
		return &MalformedViewError{View: name, Field: "focus", Reason: "missing"}
	}
	for i, t := range spec.Visible {
		if err := validateTarget(t); err != nil {
			return &MalformedViewError{View: name, Field: "visible", Reason: fmt.Sprintf("entry %d: %v", i, err)}
		}
	}
	for i, t := range spec.Focus {
		if err := validateTarget(t); err != nil {
			return &MalformedViewError{View: name, Field: "focus", Reason: fmt.Sprintf("entry %d: %v", i, err)}
		}
	}
	return nil
}

func validateTarget(t Target) error {
	if len(t.names) == 0 {
		return fmt.Errorf("target is empty")
	}
	for _, name := range t.names {
		if name == "" {
			return fmt.Errorf("component name must not be empty")
		}
	}
	return nil
}

func copyTargets(targets []Target) []Target {
	out := make([]Target, len(targets))
	for i, t := range targets {
		out[i] = Target{names: t.Names(), fallback: t.fallback}
	}
	return out
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
