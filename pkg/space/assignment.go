package space

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sg47/optspace/pkg/utils"
)

// ValueKind tags the concrete shape and numeric type of a Value.
type ValueKind int

const (
	ValueFloat ValueKind = iota
	ValueInt
	ValueFloatVector
	ValueIntVector
)

// Value is one variable's concrete value inside an assignment: a scalar or
// a fixed-length vector, float- or int-typed. Downstream code dispatches on
// Kind rather than probing fields.
type Value struct {
	kind ValueKind
	f    float64
	i    int64
	fv   []float64
	iv   []int64
}

// Float builds a scalar float value.
func Float(v float64) Value {
	return Value{kind: ValueFloat, f: v}
}

// Int builds a scalar int value.
func Int(v int64) Value {
	return Value{kind: ValueInt, i: v}
}

// FloatVector builds a float vector value from a copy of vs.
func FloatVector(vs ...float64) Value {
	out := make([]float64, len(vs))
	copy(out, vs)
	return Value{kind: ValueFloatVector, fv: out}
}

// IntVector builds an int vector value from a copy of vs.
func IntVector(vs ...int64) Value {
	out := make([]int64, len(vs))
	copy(out, vs)
	return Value{kind: ValueIntVector, iv: out}
}

// Kind returns the value's shape/type tag.
func (v Value) Kind() ValueKind { return v.kind }

// Len returns the component count: 1 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case ValueFloatVector:
		return len(v.fv)
	case ValueIntVector:
		return len(v.iv)
	default:
		return 1
	}
}

// Component returns component i promoted to float64. Scalars expose a single
// component at index 0. The second return is false when i is out of range.
func (v Value) Component(i int) (float64, bool) {
	switch v.kind {
	case ValueFloat:
		if i != 0 {
			return 0, false
		}
		return v.f, true
	case ValueInt:
		if i != 0 {
			return 0, false
		}
		return float64(v.i), true
	case ValueFloatVector:
		if i < 0 || i >= len(v.fv) {
			return 0, false
		}
		return v.fv[i], true
	default:
		if i < 0 || i >= len(v.iv) {
			return 0, false
		}
		return float64(v.iv[i]), true
	}
}

// FloatValue returns the scalar float, if that is what the value holds.
func (v Value) FloatValue() (float64, bool) {
	if v.kind != ValueFloat {
		return 0, false
	}
	return v.f, true
}

// IntValue returns the scalar int, if that is what the value holds.
func (v Value) IntValue() (int64, bool) {
	if v.kind != ValueInt {
		return 0, false
	}
	return v.i, true
}

// FloatVec returns a copy of the float vector, if that is what the value holds.
func (v Value) FloatVec() ([]float64, bool) {
	if v.kind != ValueFloatVector {
		return nil, false
	}
	out := make([]float64, len(v.fv))
	copy(out, v.fv)
	return out, true
}

// IntVec returns a copy of the int vector, if that is what the value holds.
func (v Value) IntVec() ([]int64, bool) {
	if v.kind != ValueIntVector {
		return nil, false
	}
	out := make([]int64, len(v.iv))
	copy(out, v.iv)
	return out, true
}

// Equal reports exact equality of kind and components.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.Len() != o.Len() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		a, _ := v.Component(i)
		b, _ := o.Component(i)
		if a != b {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case ValueFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	case ValueFloatVector:
		return fmt.Sprint(v.fv)
	default:
		return fmt.Sprint(v.iv)
	}
}

// Assignment maps every variable name to its concrete value. It is the unit
// produced by the sampler and consumed by the downstream optimizer; the
// caller owns it once returned.
type Assignment map[string]Value

// Fits checks that a value matches the variable's declared shape and type.
func (v Variable) Fits(val Value) error {
	switch v.Kind() {
	case KindVector:
		want := ValueFloatVector
		if v.IsInt() {
			want = ValueIntVector
		}
		if val.Kind() != want {
			return fmt.Errorf("variable %q expects a %s vector, got %s", v.Name, v.Type, kindName(val.Kind()))
		}
		if val.Len() != v.Dim {
			return fmt.Errorf("variable %q expects dim %d, got %d", v.Name, v.Dim, val.Len())
		}
	default:
		want := ValueFloat
		if v.IsInt() {
			want = ValueInt
		}
		if val.Kind() != want {
			return fmt.Errorf("variable %q expects a scalar %s, got %s", v.Name, v.Type, kindName(val.Kind()))
		}
	}
	return nil
}

func kindName(k ValueKind) string {
	switch k {
	case ValueFloat:
		return "scalar float"
	case ValueInt:
		return "scalar int"
	case ValueFloatVector:
		return "float vector"
	default:
		return "int vector"
	}
}

// Flatten serializes an assignment into a flat vector in canonical domain
// order, int components promoted to float64. The assignment must cover every
// variable with a value of the declared shape.
func (d *Domain) Flatten(a Assignment) ([]float64, error) {
	out := make([]float64, 0, d.dim)
	for _, v := range d.vars {
		val, ok := a[v.Name]
		if !ok {
			return nil, fmt.Errorf("assignment missing variable %q", v.Name)
		}
		if err := v.Fits(val); err != nil {
			return nil, err
		}
		for i := 0; i < v.Size(); i++ {
			c, _ := val.Component(i)
			out = append(out, c)
		}
	}
	return out, nil
}

// Unflatten rebuilds an assignment from a flat vector in canonical domain
// order. Components of int variables are rounded to the nearest integer and
// clamped into the declared range; float components are taken as-is.
func (d *Domain) Unflatten(x []float64) (Assignment, error) {
	if len(x) != d.dim {
		return nil, fmt.Errorf("flat vector has %d components, domain has dimensionality %d", len(x), d.dim)
	}
	a := make(Assignment, len(d.vars))
	pos := 0
	for _, v := range d.vars {
		n := v.Size()
		comps := x[pos : pos+n]
		pos += n
		if v.IsInt() {
			ints := make([]int64, n)
			for i, c := range comps {
				ints[i] = int64(utils.ClampFloat64(math.Round(c), v.Min, v.Max))
			}
			if v.Kind() == KindVector {
				a[v.Name] = IntVector(ints...)
			} else {
				a[v.Name] = Int(ints[0])
			}
			continue
		}
		if v.Kind() == KindVector {
			a[v.Name] = FloatVector(comps...)
		} else {
			a[v.Name] = Float(comps[0])
		}
	}
	return a, nil
}
