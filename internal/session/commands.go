package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/molview/internal/components"
	"github.com/leapstack-labs/molview/internal/config"
	"github.com/leapstack-labs/molview/internal/interaction"
	"github.com/leapstack-labs/molview/internal/view"
	"github.com/leapstack-labs/molview/pkg/scene"
	"github.com/leapstack-labs/molview/pkg/scene/memstage"
)

// Representation kinds used when a command does not name one.
const (
	defaultRepresentation  = "cartoon"
	ensembleRepresentation = "ball+stick"
	shapeRepresentation    = "buffer"
)

type command struct {
	name    string
	usage   string
	summary string
	minArgs int
	maxArgs int // -1 for no limit
	run     func(s *Session, ctx context.Context, args []string) error
}

// highlighter is implemented by both kinds of interaction set.
type highlighter interface {
	scene.Renderable
	Len() int
	Markers() []*interaction.Marker
	ToggleHighlight(id int) (on bool, m *interaction.Marker, ok bool)
}

var commands = []command{
	{"load", "<structure> <file> [format]", "load a structure file into the stage", 2, 3, (*Session).cmdLoad},
	{"shape", "<structure>", "add an empty shape structure", 1, 1, (*Session).cmdShape},
	{"register", "<component> <structure> [kind|structure]", "register a representation (or the structure itself)", 2, 3, (*Session).cmdRegister},
	{"ensemble", "<component> <structure>...", "register representations of several structures as one component", 2, -1, (*Session).cmdEnsemble},
	{"deregister", "<component>", "hide and remove a component", 1, 1, (*Session).cmdDeregister},
	{"markers", "<component> <count> [kind]", "register hidden interaction markers with highlight and shadow", 2, 3, (*Session).cmdMarkers},
	{"interactions", "<component> <count> [kind]", "register a plain interaction set", 2, 3, (*Session).cmdInteractions},
	{"highlight", "<component> <id>", "toggle the highlight of a marker", 2, 2, (*Session).cmdHighlight},
	{"shadow", "<component> <id> on|off", "enable or disable the shadow of a marker", 3, 3, (*Session).cmdShadow},
	{"shadows", "<component>", "toggle showing every shadow", 1, 1, (*Session).cmdShadows},
	{"visible", "<component> on|off", "show or hide a component directly", 2, 2, (*Session).cmdVisible},
	{"views", "", "list views", 0, 0, (*Session).cmdViews},
	{"view", "<view>", "switch to a view", 1, 1, (*Session).cmdView},
	{"render", "", "re-apply the current view", 0, 0, (*Session).cmdRender},
	{"add-view", "<view>", "add an empty view", 1, 1, (*Session).cmdAddView},
	{"remove-view", "<view>", "remove a view", 1, 1, (*Session).cmdRemoveView},
	{"show", "<view> <target>", "add a target (a or a|b for a fallback) to a view", 2, 2, (*Session).cmdShow},
	{"hide", "<view> <target>", "remove a target from a view", 2, 2, (*Session).cmdHide},
	{"focus", "<view> [target]...", "set the focus list of a view", 1, -1, (*Session).cmdFocus},
	{"import", "<file>", "import views from a YAML or JSON file", 1, 1, (*Session).cmdImport},
	{"export", "[yaml|json]", "print the view definition", 0, 1, (*Session).cmdExport},
	{"pick", "[structure|component]", "simulate a click into the scene", 0, 1, (*Session).cmdPick},
	{"on", "<view> <message>...", "print message when the scene is clicked in view", 2, -1, (*Session).cmdOn},
	{"off", "<view>", "remove the listeners added with on", 1, 1, (*Session).cmdOff},
	{"save", "<layout>", "store the view definition as a named layout", 1, 1, (*Session).cmdSave},
	{"restore", "<layout>", "replace the view definition with a stored layout", 1, 1, (*Session).cmdRestore},
	{"layouts", "", "list stored layouts", 0, 0, (*Session).cmdLayouts},
	{"state", "[component]", "show registered components or the markers of one", 0, 1, (*Session).cmdState},
	{"help", "", "show this help", 0, 0, (*Session).cmdHelp},
}

var (
	commandTable map[string]command
	commandOrder []string
)

func init() {
	commandTable = make(map[string]command, len(commands))
	for _, c := range commands {
		commandTable[c.name] = c
		commandOrder = append(commandOrder, c.name)
	}
}

// --- Structures and components ---

func (s *Session) cmdLoad(ctx context.Context, args []string) error {
	name, path := args[0], args[1]
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if len(args) > 2 {
		format = args[2]
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the shell
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	loaded, err := s.stage.LoadFile(ctx, f, format, name)
	if err != nil {
		return err
	}
	st, ok := loaded.(*memstage.Structure)
	if !ok {
		return fmt.Errorf("unexpected structure type %T", loaded)
	}
	if old, ok := s.structures[name]; ok {
		s.stage.Remove(old)
	}
	s.structures[name] = st
	s.r.Success(fmt.Sprintf("loaded %s (%s, %d bytes)", name, format, st.Size()))
	return nil
}

func (s *Session) cmdShape(_ context.Context, args []string) error {
	st := s.stage.AddShape(args[0])
	if _, err := st.AddRepresentation(shapeRepresentation, nil); err != nil {
		return err
	}
	if old, ok := s.structures[args[0]]; ok {
		s.stage.Remove(old)
	}
	s.structures[args[0]] = st
	s.r.Success("added shape " + args[0])
	return nil
}

func (s *Session) cmdRegister(_ context.Context, args []string) error {
	name := args[0]
	st, err := s.structure(args[1])
	if err != nil {
		return err
	}
	kind := defaultRepresentation
	if len(args) > 2 {
		kind = args[2]
	}

	var c scene.Renderable = st
	if kind != "structure" {
		repr, err := st.AddRepresentation(kind, nil)
		if err != nil {
			return err
		}
		wrapped, err := components.NewRepresentation(st, repr)
		if err != nil {
			return err
		}
		c = wrapped
	}
	return s.register(name, c)
}

func (s *Session) cmdEnsemble(_ context.Context, args []string) error {
	reprs := make([]scene.Representation, 0, len(args)-1)
	for _, structName := range args[1:] {
		st, err := s.structure(structName)
		if err != nil {
			return err
		}
		repr, err := st.AddRepresentation(ensembleRepresentation, nil)
		if err != nil {
			return err
		}
		reprs = append(reprs, repr)
	}
	return s.register(args[0], components.NewEnsemble(reprs...))
}

func (s *Session) register(name string, c scene.Renderable) error {
	reg := s.view.Registry()
	old, err := reg.RegisterOrReplace(name, c)
	if err != nil {
		// a wrapper built for this command never made it into the registry
		// and stays hidden; structures and registered components are left
		// alone so a failed registration cannot hide a live component
		if _, isStructure := c.(scene.Structure); !isStructure && !reg.Contains(c) {
			c.SetVisible(false)
		}
		return err
	}
	if h, ok := c.(highlighter); ok {
		s.markerSets[name] = h
	} else {
		delete(s.markerSets, name)
	}
	if old != nil {
		s.r.Success("replaced " + name)
		return nil
	}
	s.r.Success("registered " + name)
	return nil
}

func (s *Session) cmdDeregister(_ context.Context, args []string) error {
	if s.view.Registry().Deregister(args[0]) == nil {
		return &UnknownNameError{Kind: "component", Name: args[0]}
	}
	delete(s.markerSets, args[0])
	s.r.Success("deregistered " + args[0])
	return nil
}

// --- Interaction markers ---

func (s *Session) cmdMarkers(_ context.Context, args []string) error {
	markers, err := s.newMarkers(args)
	if err != nil {
		return err
	}
	set, err := interaction.NewShadowSet(markers)
	if err != nil {
		return err
	}
	return s.register(args[0], set)
}

func (s *Session) cmdInteractions(_ context.Context, args []string) error {
	markers, err := s.newMarkers(args)
	if err != nil {
		return err
	}
	set, err := interaction.NewSet(markers)
	if err != nil {
		return err
	}
	return s.register(args[0], set)
}

// newMarkers draws count hidden shapes and wraps them in markers numbered
// after the markers created so far.
func (s *Session) newMarkers(args []string) ([]*interaction.Marker, error) {
	name := args[0]
	count, err := strconv.Atoi(args[1])
	if err != nil || count < 1 {
		return nil, fmt.Errorf("marker count must be a positive number, got %q", args[1])
	}
	kind := interaction.Hydrophobic
	if len(args) > 2 {
		if kind, err = interaction.ParseKind(args[2]); err != nil {
			return nil, err
		}
	}

	markers := make([]*interaction.Marker, count)
	for i := range markers {
		shape := s.stage.AddShape(fmt.Sprintf("%s/%d", name, i))
		if _, err := shape.AddRepresentation(shapeRepresentation, nil); err != nil {
			return nil, err
		}
		shape.SetVisible(false)
		label := fmt.Sprintf("%s %d", s.title.String(string(kind)), i+1)
		markers[i] = interaction.NewMarker(shape, kind, label)
	}
	s.nextMarkerID = interaction.AssignIDs(markers, s.nextMarkerID)
	return markers, nil
}

func (s *Session) cmdHighlight(_ context.Context, args []string) error {
	set, err := s.markerSet(args[0])
	if err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	on, m, ok := set.ToggleHighlight(id)
	if !ok {
		return fmt.Errorf("no marker %d in %s", id, args[0])
	}
	state := "off"
	if on {
		state = "on"
	}
	s.r.Println(fmt.Sprintf("%s: highlight %s (%s)", m.Label, state, s.markerStatus(m)))
	return nil
}

func (s *Session) cmdShadow(_ context.Context, args []string) error {
	set, err := s.shadowSet(args[0])
	if err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	on, err := parseSwitch(args[2])
	if err != nil {
		return err
	}

	m, ok := set.Marker(id)
	if !ok {
		return fmt.Errorf("no marker %d in %s", id, args[0])
	}
	if on {
		set.EnableShadow(id)
	} else if _, changed := set.DisableShadow(id); !changed {
		reason := "it is highlighted"
		if set.ShowAllShadows() {
			reason = "all shadows are shown"
		}
		s.r.Println(fmt.Sprintf("%s: shadow kept, %s", m.Label, reason))
		return nil
	}
	s.r.Println(fmt.Sprintf("%s: %s", m.Label, s.markerStatus(m)))
	return nil
}

func (s *Session) cmdShadows(_ context.Context, args []string) error {
	set, err := s.shadowSet(args[0])
	if err != nil {
		return err
	}
	set.ToggleAllShadows()
	if set.ShowAllShadows() {
		s.r.Println("all shadows shown from the next visibility change")
	} else {
		s.r.Println("all shadows hidden from the next visibility change")
	}
	return nil
}

func (s *Session) cmdVisible(_ context.Context, args []string) error {
	c, ok := s.view.Registry().Get(args[0])
	if !ok {
		return &UnknownNameError{Kind: "component", Name: args[0]}
	}
	on, err := parseSwitch(args[1])
	if err != nil {
		return err
	}
	c.SetVisible(on)
	return nil
}

// --- Views ---

func (s *Session) cmdViews(_ context.Context, _ []string) error {
	catalog := s.view.Catalog()
	current, _ := catalog.Current()

	rows := make([][]string, 0, catalog.Len())
	for _, name := range catalog.Views() {
		spec, _ := catalog.View(name)
		label := name
		if name == current {
			label = s.r.Styles().Bold.Render("* " + name)
		}
		rows = append(rows, []string{label, joinTargets(spec.Visible), joinTargets(spec.Focus)})
	}
	s.r.Table([]string{"View", "Visible", "Focus"}, rows)
	return nil
}

func (s *Session) cmdView(_ context.Context, args []string) error {
	if !s.view.Catalog().Has(args[0]) {
		s.r.Warning(fmt.Sprintf("no view named %q", args[0]))
		return nil
	}
	if err := s.view.SwitchView(args[0]); err != nil {
		return err
	}
	s.r.Success("switched to " + args[0])
	return nil
}

func (s *Session) cmdRender(_ context.Context, _ []string) error {
	return s.view.Render()
}

func (s *Session) cmdAddView(_ context.Context, args []string) error {
	s.view.Catalog().AddView(args[0])
	s.r.Success("added view " + args[0])
	return nil
}

func (s *Session) cmdRemoveView(_ context.Context, args []string) error {
	if !s.view.Catalog().Has(args[0]) {
		return &view.NotFoundError{View: args[0]}
	}
	s.view.Catalog().RemoveView(args[0])
	s.r.Success("removed view " + args[0])
	return nil
}

func (s *Session) cmdShow(_ context.Context, args []string) error {
	t, err := parseTarget(args[1])
	if err != nil {
		return err
	}
	return s.view.Catalog().AddViewComponent(args[0], t)
}

func (s *Session) cmdHide(_ context.Context, args []string) error {
	t, err := parseTarget(args[1])
	if err != nil {
		return err
	}
	return s.view.Catalog().RemoveViewComponent(args[0], t)
}

func (s *Session) cmdFocus(_ context.Context, args []string) error {
	targets := make([]view.Target, 0, len(args)-1)
	for _, arg := range args[1:] {
		t, err := parseTarget(arg)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}
	return s.view.Catalog().SetFocusComponents(args[0], targets)
}

func (s *Session) cmdImport(_ context.Context, args []string) error {
	def, err := config.LoadDefinitionFile(args[0])
	if err != nil {
		return err
	}
	if err := s.view.Catalog().Import(def); err != nil {
		return err
	}
	s.r.Success(fmt.Sprintf("imported %d views", len(def)))
	return nil
}

func (s *Session) cmdExport(_ context.Context, args []string) error {
	format := config.FormatYAML
	if len(args) > 0 {
		var err error
		if format, err = config.ParseFormat(args[0]); err != nil {
			return err
		}
	}
	return config.WriteDefinition(s.r.Writer(), s.view.Catalog().Export(), format)
}

// --- Picks ---

func (s *Session) cmdPick(_ context.Context, args []string) error {
	var pick scene.Pick
	if len(args) > 0 {
		if st, ok := s.structures[args[0]]; ok {
			pick.Object = st
		} else if c, ok := s.view.Registry().Get(args[0]); ok {
			pick.Object = c
		} else {
			return &UnknownNameError{Kind: "structure or component", Name: args[0]}
		}
	}
	s.stage.Pick(pick)
	return nil
}

func (s *Session) cmdOn(_ context.Context, args []string) error {
	viewName := args[0]
	message := strings.Join(args[1:], " ")
	id := s.view.AddViewListener(viewName, func(p scene.Pick) {
		s.r.Info(fmt.Sprintf("[%s] %s: %s", viewName, message, s.describePick(p)))
	})
	s.listeners[viewName] = append(s.listeners[viewName], id)
	return nil
}

func (s *Session) cmdOff(_ context.Context, args []string) error {
	ids := s.listeners[args[0]]
	for _, id := range ids {
		s.view.RemoveViewListener(args[0], id)
	}
	delete(s.listeners, args[0])
	s.r.Println(fmt.Sprintf("removed %d listeners from %s", len(ids), args[0]))
	return nil
}

func (s *Session) describePick(p scene.Pick) string {
	switch obj := p.Object.(type) {
	case nil:
		return "nothing"
	case scene.Structure:
		return obj.Name()
	case scene.Renderable:
		if name, ok := s.view.Registry().NameOf(obj); ok {
			return name
		}
	}
	return fmt.Sprintf("%v", p.Object)
}

// --- Layouts ---

func (s *Session) cmdSave(ctx context.Context, args []string) error {
	if s.store == nil {
		return ErrNoStore
	}
	layout, err := s.store.SaveLayout(ctx, args[0], s.view.Catalog().Export())
	if err != nil {
		return err
	}
	s.r.Success(fmt.Sprintf("saved layout %s (%d views)", layout.Name, layout.ViewCount))
	return nil
}

func (s *Session) cmdRestore(ctx context.Context, args []string) error {
	if s.store == nil {
		return ErrNoStore
	}
	layout, err := s.store.GetLayout(ctx, args[0])
	if err != nil {
		return err
	}
	if err := s.view.Catalog().Reset(layout.Definition); err != nil {
		return err
	}
	s.r.Success(fmt.Sprintf("restored layout %s (%d views)", layout.Name, layout.ViewCount))
	return s.view.Render()
}

func (s *Session) cmdLayouts(ctx context.Context, _ []string) error {
	if s.store == nil {
		return ErrNoStore
	}
	layouts, err := s.store.ListLayouts(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(layouts))
	for _, l := range layouts {
		rows = append(rows, []string{l.Name, strconv.Itoa(l.ViewCount), l.UpdatedAt.Local().Format(time.DateTime)})
	}
	s.r.Table([]string{"Layout", "Views", "Updated"}, rows)
	return nil
}

// --- Inspection ---

func (s *Session) cmdState(_ context.Context, args []string) error {
	if len(args) > 0 {
		return s.markerState(args[0])
	}

	reg := s.view.Registry()
	rows := make([][]string, 0, reg.Count())
	reg.Each(func(name string, c scene.Renderable) {
		owners := make([]string, 0, len(c.Owners()))
		for _, o := range c.Owners() {
			owners = append(owners, o.GroupID())
		}
		rows = append(rows, []string{name, componentType(c), s.visibility(c.Visible()), strings.Join(owners, ", ")})
	})
	s.r.Table([]string{"Component", "Type", "Visible", "Owners"}, rows)

	if current, ok := s.view.CurrentView(); ok {
		s.r.Println(fmt.Sprintf("current view: %s", current))
	}
	if st, d, _ := s.stage.Focused(); st != nil {
		s.r.Println(fmt.Sprintf("focused: %s (%s)", st.Name(), d))
	}
	return nil
}

func (s *Session) markerState(name string) error {
	set, err := s.markerSet(name)
	if err != nil {
		return err
	}
	shadows, _ := set.(*interaction.ShadowSet)

	markers := set.Markers()
	sort.Slice(markers, func(i, j int) bool { return markers[i].ID < markers[j].ID })

	rows := make([][]string, 0, len(markers))
	for _, m := range markers {
		shadow := "-"
		if shadows != nil {
			shadow = "off"
			if shadows.ShadowEnabled(m.ID) {
				shadow = "on"
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(m.ID),
			s.title.String(string(m.Kind)),
			m.Label,
			m.State().String(),
			s.visibility(m.Visible()),
			shadow,
		})
	}
	s.r.Table([]string{"ID", "Kind", "Label", "State", "Visible", "Shadow"}, rows)
	if shadows != nil && shadows.ShowAllShadows() {
		s.r.Println("all shadows shown")
	}
	return nil
}

func (s *Session) cmdHelp(_ context.Context, _ []string) error {
	rows := make([][]string, 0, len(commandOrder))
	for _, name := range commandOrder {
		c := commandTable[name]
		rows = append(rows, []string{strings.TrimSpace(c.name + " " + c.usage), c.summary})
	}
	s.r.Table([]string{"Command", "Description"}, rows)
	return nil
}

// --- helpers ---

func (s *Session) structure(name string) (*memstage.Structure, error) {
	st, ok := s.structures[name]
	if !ok {
		return nil, &UnknownNameError{Kind: "structure", Name: name}
	}
	return st, nil
}

func (s *Session) markerSet(name string) (highlighter, error) {
	set, ok := s.markerSets[name]
	if !ok {
		return nil, &UnknownNameError{Kind: "interaction set", Name: name}
	}
	return set, nil
}

func (s *Session) shadowSet(name string) (*interaction.ShadowSet, error) {
	set, err := s.markerSet(name)
	if err != nil {
		return nil, err
	}
	shadows, ok := set.(*interaction.ShadowSet)
	if !ok {
		return nil, fmt.Errorf("%s has no shadows", name)
	}
	return shadows, nil
}

func (s *Session) markerStatus(m *interaction.Marker) string {
	return fmt.Sprintf("%s, opacity %.1f, %s", m.State(), m.Opacity(), s.visibility(m.Visible()))
}

func (s *Session) visibility(visible bool) string {
	if visible {
		return s.r.Styles().Visible.Render("visible")
	}
	return s.r.Styles().Hidden.Render("hidden")
}

func componentType(c scene.Renderable) string {
	switch c.(type) {
	case *components.Representation:
		return "representation"
	case *components.Ensemble:
		return "ensemble"
	case *interaction.ShadowSet:
		return "hidden interactions"
	case *interaction.Set:
		return "interactions"
	case scene.Structure:
		return "structure"
	default:
		return fmt.Sprintf("%T", c)
	}
}

// parseTarget reads "a" as a single name and "a|b" as a fallback list.
func parseTarget(s string) (view.Target, error) {
	names := strings.Split(s, "|")
	for _, n := range names {
		if n == "" {
			return view.Target{}, fmt.Errorf("invalid target %q", s)
		}
	}
	if len(names) == 1 {
		return view.Name(names[0]), nil
	}
	return view.Fallback(names...), nil
}

func joinTargets(targets []view.Target) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid marker id %q", s)
	}
	return id, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}
