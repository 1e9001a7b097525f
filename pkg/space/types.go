package space

import (
	"fmt"
	"math"
)

// VarType is the numeric type of a variable's components.
type VarType string

const (
	TypeFloat VarType = "float"
	TypeInt   VarType = "int"
)

// Kind says whether a variable holds a single scalar or a fixed-length vector.
type Kind int

const (
	KindScalar Kind = iota
	KindVector
)

// Variable describes one dimension group of the parameter space: a scalar or
// a fixed-length vector of independent components sharing one [Min, Max]
// range. Kernel is an opaque hint forwarded to a downstream surrogate model;
// the engine never interprets it.
type Variable struct {
	Name     string
	Type     VarType // "float" or "int"
	Min      float64
	Max      float64
	Dim      int    // 0 for scalars, >= 1 for vectors
	Kernel   string // e.g. "matern", "se"; passed through verbatim
	Constant bool   // permits Min == Max; the variable pins to that value
}

// Kind returns the variable's shape tag.
func (v Variable) Kind() Kind {
	if v.Dim > 0 {
		return KindVector
	}
	return KindScalar
}

// Size returns the scalar-equivalent size: 1 for scalars, Dim for vectors.
func (v Variable) Size() int {
	if v.Dim > 0 {
		return v.Dim
	}
	return 1
}

// IsInt reports whether components are integer-typed.
func (v Variable) IsInt() bool {
	return v.Type == TypeInt
}

func (v Variable) validate() error {
	if v.Name == "" {
		return &SchemaError{Variable: v.Name, Reason: "name must not be empty"}
	}
	if v.Type != TypeFloat && v.Type != TypeInt {
		return &SchemaError{Variable: v.Name, Reason: fmt.Sprintf("unrecognized type %q", v.Type)}
	}
	if v.Dim < 0 {
		return &SchemaError{Variable: v.Name, Reason: fmt.Sprintf("dim must be a positive integer, got %d", v.Dim)}
	}
	if math.IsNaN(v.Min) || math.IsInf(v.Min, 0) || math.IsNaN(v.Max) || math.IsInf(v.Max, 0) {
		return &SchemaError{Variable: v.Name, Reason: "bounds must be finite"}
	}
	if v.Min > v.Max {
		return &SchemaError{Variable: v.Name, Reason: fmt.Sprintf("min %g exceeds max %g", v.Min, v.Max)}
	}
	if v.Min == v.Max && !v.Constant {
		return &SchemaError{Variable: v.Name, Reason: fmt.Sprintf("min equals max (%g); set constant to pin the variable intentionally", v.Min)}
	}
	if v.Constant && v.Min != v.Max {
		return &SchemaError{Variable: v.Name, Reason: fmt.Sprintf("constant requires min == max, got [%g, %g]", v.Min, v.Max)}
	}
	if v.Type == TypeInt {
		if math.Trunc(v.Min) != v.Min || math.Trunc(v.Max) != v.Max {
			return &SchemaError{Variable: v.Name, Reason: fmt.Sprintf("int bounds must be integers, got [%g, %g]", v.Min, v.Max)}
		}
	}
	return nil
}

// SchemaError reports an invalid variable definition in a space specification.
type SchemaError struct {
	Variable string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid variable %q: %s", e.Variable, e.Reason)
}
