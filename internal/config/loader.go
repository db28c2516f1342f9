package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/molview/internal/view"
	"gopkg.in/yaml.v3"
)

// LoadDefinitionFile reads a view definition from a YAML or JSON file.
// JSON is read with the YAML decoder, which accepts it as is.
func LoadDefinitionFile(path string) (view.Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ParseDefinition decodes a view definition document.
// An empty document is an empty definition.
func ParseDefinition(data []byte) (view.Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	if raw == nil {
		return view.Definition{}, nil
	}
	return view.ParseDefinition(raw)
}

// WriteDefinition encodes def to w. Views are written in name order.
func WriteDefinition(w io.Writer, def view.Definition, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(def)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return &UnknownFormatError{Format: string(format)}
	}
}
