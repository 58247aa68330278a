// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package meta

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes m as a YAML document. Enumerations are written by name.
func (m *Meta) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("meta: encode yaml: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes m as indented JSON. Enumerations are written as numbers,
// matching the binary container.
func (m *Meta) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("meta: encode json: %w", err)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Stage) MarshalYAML() (any, error) { return s.String(), nil }

// MarshalYAML implements yaml.Marshaler.
func (r Register) MarshalYAML() (any, error) { return r.String(), nil }

// MarshalYAML implements yaml.Marshaler.
func (t VarType) MarshalYAML() (any, error) { return t.String(), nil }

// MarshalYAML implements yaml.Marshaler.
func (f Format) MarshalYAML() (any, error) { return f.String(), nil }

// MarshalYAML implements yaml.Marshaler.
func (s Semantic) MarshalYAML() (any, error) { return s.String(), nil }
