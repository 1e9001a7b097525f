package config

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// VariableRecord is one entry of the document's domain section.
type VariableRecord struct {
	Name     string   `yaml:"name" json:"name"`
	Type     string   `yaml:"type" json:"type"` // "float" or "int"
	Min      float64  `yaml:"min" json:"min"`
	Max      float64  `yaml:"max" json:"max"`
	Dim      DimValue `yaml:"dim" json:"dim"`
	Kernel   string   `yaml:"kernel" json:"kernel"`
	Constant bool     `yaml:"constant" json:"constant"`
}

// ConstraintRecord is one entry of the domain_constraints section.
type ConstraintRecord struct {
	Name       string `yaml:"name" json:"name"`
	Constraint string `yaml:"constraint" json:"constraint"`
}

// DimValue decodes the dim field, which the source documents write as a
// positive integer, an empty string, null, or not at all; everything but
// the integer form means scalar.
type DimValue struct {
	n   int
	set bool
}

// Value returns the declared dim and whether one was present.
func (d DimValue) Value() (int, bool) {
	return d.n, d.set
}

func (d *DimValue) UnmarshalYAML(value *yaml.Node) error {
	switch value.Tag {
	case "!!null":
		*d = DimValue{}
		return nil
	case "!!str":
		if value.Value == "" {
			*d = DimValue{}
			return nil
		}
		return fmt.Errorf("dim must be an integer or empty, got %q", value.Value)
	case "!!int":
		n, err := strconv.Atoi(value.Value)
		if err != nil {
			return fmt.Errorf("dim must be an integer, got %q", value.Value)
		}
		*d = DimValue{n: n, set: true}
		return nil
	default:
		return fmt.Errorf("dim must be an integer or empty, got %s value", value.Tag)
	}
}

func (d *DimValue) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	switch {
	case s == "null" || s == `""`:
		*d = DimValue{}
		return nil
	case len(s) > 0 && s[0] == '"':
		return fmt.Errorf("dim must be an integer or empty, got %s", s)
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.Trunc(f) != f {
			return fmt.Errorf("dim must be an integer, got %s", s)
		}
		*d = DimValue{n: int(f), set: true}
		return nil
	}
}

// namedVariable pairs a domain-section key with its record; the slice order
// is the document's declaration order.
type namedVariable struct {
	key string
	rec VariableRecord
}

type orderedVariables []namedVariable

func (ov *orderedVariables) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("domain section must be a mapping")
	}
	out := make(orderedVariables, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var rec VariableRecord
		if err := value.Content[i+1].Decode(&rec); err != nil {
			return err
		}
		out = append(out, namedVariable{key: value.Content[i].Value, rec: rec})
	}
	*ov = out
	return nil
}

func (ov *orderedVariables) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("domain section must be an object")
	}
	var out orderedVariables
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var rec VariableRecord
		if err := dec.Decode(&rec); err != nil {
			return err
		}
		out = append(out, namedVariable{key: key, rec: rec})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ov = out
	return nil
}

// namedConstraint pairs a domain_constraints key with its record in
// declaration order.
type namedConstraint struct {
	key string
	rec ConstraintRecord
}

type orderedConstraints []namedConstraint

func (oc *orderedConstraints) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("domain_constraints section must be a mapping")
	}
	out := make(orderedConstraints, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var rec ConstraintRecord
		if err := value.Content[i+1].Decode(&rec); err != nil {
			return err
		}
		out = append(out, namedConstraint{key: value.Content[i].Value, rec: rec})
	}
	*oc = out
	return nil
}

func (oc *orderedConstraints) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("domain_constraints section must be an object")
	}
	var out orderedConstraints
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var rec ConstraintRecord
		if err := dec.Decode(&rec); err != nil {
			return err
		}
		out = append(out, namedConstraint{key: key, rec: rec})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*oc = out
	return nil
}

// spaceDocument is the top-level shape of a space specification document.
type spaceDocument struct {
	Domain            orderedVariables   `yaml:"domain" json:"domain"`
	DomainConstraints orderedConstraints `yaml:"domain_constraints" json:"domain_constraints"`
}
