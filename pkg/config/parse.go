package config

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/sg47/optspace/pkg/constraint"
	"github.com/sg47/optspace/pkg/space"
)

// Space bundles the parsed domain with its compiled constraint set; it is
// what the sampler and any downstream optimizer consume.
type Space struct {
	Domain      *space.Domain
	Constraints *constraint.Set
}

// ParseSpaceYAML parses a space specification from YAML bytes and validates
// it. The key order of the domain and domain_constraints mappings is
// preserved; it defines the canonical variable and constraint order.
func ParseSpaceYAML(data []byte) (*Space, error) {
	var doc spaceDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse space yaml: %w", err)
	}

	sp, err := buildSpace(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid space specification: %w", err)
	}

	return sp, nil
}

// ParseSpaceYAMLString parses a space specification from a YAML string and
// validates it.
func ParseSpaceYAMLString(yamlText string) (*Space, error) {
	return ParseSpaceYAML([]byte(yamlText))
}

// ParseSpaceJSON parses a space specification from JSON bytes and validates
// it, preserving key order like ParseSpaceYAML.
func ParseSpaceJSON(data []byte) (*Space, error) {
	var doc spaceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse space json: %w", err)
	}

	sp, err := buildSpace(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid space specification: %w", err)
	}

	return sp, nil
}

// ParseSpaceJSONString parses a space specification from a JSON string and
// validates it.
func ParseSpaceJSONString(jsonText string) (*Space, error) {
	return ParseSpaceJSON([]byte(jsonText))
}

func buildSpace(doc *spaceDocument) (*Space, error) {
	vars := make([]space.Variable, 0, len(doc.Domain))
	for _, nv := range doc.Domain {
		v, err := nv.rec.toVariable(nv.key)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}

	domain, err := space.NewDomain(vars)
	if err != nil {
		return nil, err
	}

	exprs := make([]*constraint.Expression, 0, len(doc.DomainConstraints))
	for _, nc := range doc.DomainConstraints {
		if nc.rec.Name != "" && nc.rec.Name != nc.key {
			return nil, fmt.Errorf("constraint %q: name %q does not match its key", nc.key, nc.rec.Name)
		}
		if nc.rec.Constraint == "" {
			return nil, fmt.Errorf("constraint %q: missing formula", nc.key)
		}
		e, err := constraint.Parse(nc.key, nc.rec.Constraint, domain)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}

	return &Space{
		Domain:      domain,
		Constraints: constraint.NewSet(domain, exprs...),
	}, nil
}

// toVariable converts a document record into a typed variable. The record's
// inner name, when present, must agree with its mapping key.
func (r VariableRecord) toVariable(key string) (space.Variable, error) {
	if r.Name != "" && r.Name != key {
		return space.Variable{}, &space.SchemaError{
			Variable: key,
			Reason:   fmt.Sprintf("name %q does not match its key", r.Name),
		}
	}
	dim := 0
	if n, set := r.Dim.Value(); set {
		if n < 1 {
			return space.Variable{}, &space.SchemaError{
				Variable: key,
				Reason:   fmt.Sprintf("dim must be a positive integer, got %d", n),
			}
		}
		dim = n
	}
	return space.Variable{
		Name:     key,
		Type:     space.VarType(r.Type),
		Min:      r.Min,
		Max:      r.Max,
		Dim:      dim,
		Kernel:   r.Kernel,
		Constant: r.Constant,
	}, nil
}
