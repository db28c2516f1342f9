package view

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Target is one entry of a view's visible or focus list: either a single
// component name or an ordered fallback list of names of which only the
// first registered one is used.
type Target struct {
	names    []string
	fallback bool
}

// Name returns a target for a single component.
func Name(name string) Target {
	return Target{names: []string{name}}
}

// Fallback returns a target that resolves to the first registered name.
func Fallback(names ...string) Target {
	copied := make([]string, len(names))
	copy(copied, names)
	return Target{names: copied, fallback: true}
}

// Names returns the component names in precedence order.
func (t Target) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// IsFallback reports whether the target was given as a list.
func (t Target) IsFallback() bool { return t.fallback }

// String renders the target as "name" or "[a, b]".
func (t Target) String() string {
	if !t.fallback {
		if len(t.names) == 0 {
			return ""
		}
		return t.names[0]
	}
	return "[" + strings.Join(t.names, ", ") + "]"
}

// key identifies a target for set membership. Two fallback lists with the
// same names in the same order are the same target.
func (t Target) key() string {
	if !t.fallback {
		return "n:" + t.String()
	}
	return "f:" + strings.Join(t.names, "\x00")
}

// Equal reports whether two targets are the same.
func (t Target) Equal(other Target) bool {
	return t.key() == other.key()
}

// MarshalJSON encodes a single name as a string and a fallback as a list.
func (t Target) MarshalJSON() ([]byte, error) {
	if t.fallback {
		return json.Marshal(t.names)
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts a string or a list of strings.
func (t *Target) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseTarget(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes a single name as a scalar and a fallback as a
// sequence.
func (t Target) MarshalYAML() (any, error) {
	if t.fallback {
		return t.Names(), nil
	}
	return t.String(), nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (t *Target) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := parseTarget(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// parseTarget converts a decoded JSON or YAML value into a Target.
func parseTarget(raw any) (Target, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return Target{}, fmt.Errorf("component name must not be empty")
		}
		return Name(v), nil
	case []string:
		return parseNames(v)
	case []any:
		names := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return Target{}, fmt.Errorf("fallback entry %d must be a string, got %T", i, item)
			}
			names = append(names, s)
		}
		return parseNames(names)
	case Target:
		return v, nil
	default:
		return Target{}, fmt.Errorf("target must be a string or a list of strings, got %T", raw)
	}
}

func parseNames(names []string) (Target, error) {
	if len(names) == 0 {
		return Target{}, fmt.Errorf("fallback list must not be empty")
	}
	for i, name := range names {
		if name == "" {
			return Target{}, fmt.Errorf("fallback entry %d must not be empty", i)
		}
	}
	return Fallback(names...), nil
}
