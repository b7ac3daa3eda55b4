package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// alternativeSeparator joins any-of alternatives in stored stage configuration.
const alternativeSeparator = "|"

// RequiredField is a stage entry requirement: either a single field name or
// a set of alternatives of which any one suffices.
type RequiredField struct {
	names []string
	anyOf bool
}

func Single(name string) RequiredField {
	return RequiredField{names: []string{name}}
}

// AnyOf builds an alternative set. A single name collapses to Single.
func AnyOf(names ...string) RequiredField {
	if len(names) == 1 {
		return Single(names[0])
	}

	return RequiredField{names: append([]string(nil), names...), anyOf: true}
}

// ParseRequiredField decodes the storage form, where alternatives are joined by "|".
func ParseRequiredField(raw string) RequiredField {
	parts := strings.Split(raw, alternativeSeparator)

	names := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}

	if len(names) == 0 {
		return RequiredField{}
	}

	return AnyOf(names...)
}

func ParseRequiredFields(raw []string) []RequiredField {
	out := make([]RequiredField, 0, len(raw))

	for _, r := range raw {
		if f := ParseRequiredField(r); !f.IsZero() {
			out = append(out, f)
		}
	}

	return out
}

// EncodeRequiredFields is the inverse of ParseRequiredFields.
func EncodeRequiredFields(fields []RequiredField) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Encode())
	}

	return out
}

func (f RequiredField) IsZero() bool { return len(f.names) == 0 }

func (f RequiredField) IsAnyOf() bool { return f.anyOf }

// Names returns the field name, or every alternative for an any-of entry.
func (f RequiredField) Names() []string {
	return append([]string(nil), f.names...)
}

func (f RequiredField) Encode() string {
	return strings.Join(f.names, alternativeSeparator)
}

func (f RequiredField) String() string {
	if !f.anyOf {
		return f.Encode()
	}

	return "any of (" + strings.Join(f.names, ", ") + ")"
}

// Satisfied reports whether present returns true for the field, or for any
// alternative of an any-of entry.
func (f RequiredField) Satisfied(present func(name string) bool) bool {
	for _, n := range f.names {
		if present(n) {
			return true
		}
	}

	return false
}

// Unmet returns every requirement not satisfied by present, in order.
func Unmet(fields []RequiredField, present func(name string) bool) []RequiredField {
	var unmet []RequiredField

	for _, f := range fields {
		if !f.Satisfied(present) {
			unmet = append(unmet, f)
		}
	}

	return unmet
}

type anyOfDoc struct {
	AnyOf []string `json:"any_of" yaml:"any_of"`
}

// MarshalJSON renders a single field as a string and alternatives as {"any_of": [...]}.
func (f RequiredField) MarshalJSON() ([]byte, error) {
	if f.anyOf {
		return json.Marshal(anyOfDoc{AnyOf: f.names})
	}

	return json.Marshal(f.Encode())
}

func (f *RequiredField) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*f = ParseRequiredField(name)
		return nil
	}

	var doc anyOfDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding required field: %w", err)
	}

	*f = AnyOf(doc.AnyOf...)

	return nil
}

// UnmarshalYAML accepts a name ("budget"), a joined string ("a|b"), a
// sequence of alternatives or an {any_of: [...]} mapping.
func (f *RequiredField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*f = ParseRequiredField(node.Value)
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}

		*f = AnyOf(names...)
	case yaml.MappingNode:
		var doc anyOfDoc
		if err := node.Decode(&doc); err != nil {
			return err
		}

		*f = AnyOf(doc.AnyOf...)
	default:
		return fmt.Errorf("line %d: unsupported required field", node.Line)
	}

	if f.IsZero() {
		return fmt.Errorf("line %d: empty required field", node.Line)
	}

	return nil
}
