package space

import "fmt"

// Domain is the ordered, immutable collection of variables forming the full
// parameter space. Declaration order is canonical: it fixes the component
// ordering of every flattened point. A Domain is safe for concurrent
// read-only use once constructed.
type Domain struct {
	vars  []Variable
	index map[string]int
	dim   int
}

// NewDomain validates the variable definitions and builds a domain.
// The slice order becomes the canonical variable order.
func NewDomain(vars []Variable) (*Domain, error) {
	if len(vars) == 0 {
		return nil, &SchemaError{Reason: "domain must declare at least one variable"}
	}
	d := &Domain{
		vars:  make([]Variable, len(vars)),
		index: make(map[string]int, len(vars)),
	}
	for i, v := range vars {
		if err := v.validate(); err != nil {
			return nil, err
		}
		if _, dup := d.index[v.Name]; dup {
			return nil, &SchemaError{Variable: v.Name, Reason: "duplicate variable name"}
		}
		d.vars[i] = v
		d.index[v.Name] = i
		d.dim += v.Size()
	}
	return d, nil
}

// Get returns the variable with the given name.
func (d *Domain) Get(name string) (Variable, error) {
	i, ok := d.index[name]
	if !ok {
		return Variable{}, &UnknownVariableError{Variable: name}
	}
	return d.vars[i], nil
}

// Len returns the number of declared variables.
func (d *Domain) Len() int {
	return len(d.vars)
}

// Dimensionality returns the total scalar dimensionality, the sum of every
// variable's scalar-equivalent size. Downstream consumers use it to size
// flat representations.
func (d *Domain) Dimensionality() int {
	return d.dim
}

// Names returns the variable names in canonical order.
func (d *Domain) Names() []string {
	names := make([]string, len(d.vars))
	for i, v := range d.vars {
		names[i] = v.Name
	}
	return names
}

// Variables returns a copy of the variable definitions in canonical order.
func (d *Domain) Variables() []Variable {
	out := make([]Variable, len(d.vars))
	copy(out, d.vars)
	return out
}

// BoundsFor resolves the bounds of one referenced component. A negative
// index means the reference was unindexed. Vector variables require
// 0 <= index < Dim; scalar variables accept an unindexed reference or
// index 0, the implicit 1-vector form.
func (d *Domain) BoundsFor(name string, index int) (float64, float64, error) {
	v, err := d.Get(name)
	if err != nil {
		return 0, 0, err
	}
	if v.Kind() == KindVector {
		if index < 0 || index >= v.Dim {
			return 0, 0, &IndexOutOfRangeError{Variable: name, Index: index, Dim: v.Dim}
		}
		return v.Min, v.Max, nil
	}
	if index > 0 {
		return 0, 0, &IndexOutOfRangeError{Variable: name, Index: index, Dim: 0}
	}
	return v.Min, v.Max, nil
}

// FlatBounds returns the [min, max] pair of every scalar component in
// canonical order; the slice has Dimensionality() entries.
func (d *Domain) FlatBounds() [][2]float64 {
	out := make([][2]float64, 0, d.dim)
	for _, v := range d.vars {
		for i := 0; i < v.Size(); i++ {
			out = append(out, [2]float64{v.Min, v.Max})
		}
	}
	return out
}

// UnknownVariableError reports a reference to a variable the domain does
// not declare.
type UnknownVariableError struct {
	Variable string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Variable)
}

// IndexOutOfRangeError reports a variable reference whose index does not
// match the variable's declared shape. Index -1 means a vector variable
// was referenced without an index.
type IndexOutOfRangeError struct {
	Variable string
	Index    int
	Dim      int // declared dim, 0 for scalars
}

func (e *IndexOutOfRangeError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("vector variable %q must be referenced with an index", e.Variable)
	case e.Dim == 0:
		return fmt.Sprintf("index %d out of range for scalar variable %q (only index 0 is allowed)", e.Index, e.Variable)
	default:
		return fmt.Sprintf("index %d out of range for variable %q with dim %d", e.Index, e.Variable, e.Dim)
	}
}
