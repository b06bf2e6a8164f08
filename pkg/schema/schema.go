// Package schema describes how source-specific column names map onto the
// canonical output columns, and which source columns are discarded afterwards.
//
// A Schema is plain configuration data. Field mappings are evaluated in the
// order they are listed; the drop list is kept separate from the mappings on
// purpose, because some groups of columns are removed without being merged
// and some merged groups share a suffix with unrelated columns.
package schema

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/valetmerge/pkg/errors"
)

// FieldMapping gathers every column that carries one semantic field.
type FieldMapping struct {
	// Name is the canonical output column.
	Name string `json:"name" yaml:"name"`

	// Suffix selects columns whose name ends with it (case-sensitive).
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`

	// Columns selects columns by exact name, for sources whose naming does
	// not follow a suffix convention.
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// Matches reports whether column feeds this field.
func (f FieldMapping) Matches(column string) bool {
	if f.Suffix != "" && strings.HasSuffix(column, f.Suffix) {
		return true
	}
	return slices.Contains(f.Columns, column)
}

// Schema is the ordered list of field mappings plus the drop list.
type Schema struct {
	Fields []FieldMapping `json:"fields" yaml:"fields"`
	Drop   []string       `json:"drop" yaml:"drop"`
}

// Names returns the canonical column names in evaluation order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the mapping with the given canonical name.
func (s *Schema) Field(name string) (FieldMapping, error) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return FieldMapping{}, errors.NewNotFoundError("field", name)
}

// Validate checks that every mapping can select something and that
// canonical names are unique.
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return errors.NewValidationError(fmt.Sprintf("fields[%d].name", i), f.Name, "canonical name is empty")
		}
		if f.Suffix == "" && len(f.Columns) == 0 {
			return errors.NewValidationError(fmt.Sprintf("fields[%d]", i), f.Name, "needs a suffix or explicit columns")
		}
		if seen[f.Name] {
			return errors.NewValidationError(fmt.Sprintf("fields[%d].name", i), f.Name, "duplicate canonical name")
		}
		seen[f.Name] = true
	}
	for i, d := range s.Drop {
		if d == "" {
			return errors.NewValidationError(fmt.Sprintf("drop[%d]", i), d, "empty suffix would drop every column")
		}
	}
	return nil
}

// Load reads a schema from a YAML file and validates it.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes YAML schema data. name is only used in error messages.
func Parse(data []byte, name string) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the schema as YAML.
func (s *Schema) Marshal() ([]byte, error) {
	return yaml.MarshalWithOptions(s, yaml.Indent(2), yaml.IndentSequence(true))
}
