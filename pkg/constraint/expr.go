package constraint

import (
	"math"

	"github.com/sg47/optspace/pkg/space"
)

// node is one arithmetic term of a compiled formula. Evaluation is total:
// references resolve against the domain at parse time, so eval never fails
// on assignments that passed shape checking.
type node interface {
	eval(a space.Assignment) float64
}

type litNode struct {
	val float64
}

func (n litNode) eval(space.Assignment) float64 { return n.val }

// refNode reads one component of a variable. index -1 is an unindexed
// scalar reference; scalars also accept the explicit [0] form.
type refNode struct {
	name  string
	index int
}

func (n refNode) eval(a space.Assignment) float64 {
	idx := n.index
	if idx < 0 {
		idx = 0
	}
	c, _ := a[n.name].Component(idx)
	return c
}

type binNode struct {
	op       byte // '+', '-', '*', '/'
	lhs, rhs node
}

func (n binNode) eval(a space.Assignment) float64 {
	l := n.lhs.eval(a)
	r := n.rhs.eval(a)
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	default:
		return l / r
	}
}

type negNode struct {
	arg node
}

func (n negNode) eval(a space.Assignment) float64 { return -n.arg.eval(a) }

type sqrtNode struct {
	arg node
}

func (n sqrtNode) eval(a space.Assignment) float64 { return math.Sqrt(n.arg.eval(a)) }

// cmpOp is the single comparison of an inequality formula.
type cmpOp int

const (
	cmpLT cmpOp = iota
	cmpLE
	cmpGT
	cmpGE
)

func (c cmpOp) String() string {
	switch c {
	case cmpLT:
		return "<"
	case cmpLE:
		return "<="
	case cmpGT:
		return ">"
	default:
		return ">="
	}
}

// Ref is one variable reference of a formula. Index is -1 for unindexed
// scalar references.
type Ref struct {
	Variable string
	Index    int
}

// Expression is a compiled inequality over the parameter space: one
// comparison between two arithmetic sides. It is immutable and safe for
// concurrent evaluation.
type Expression struct {
	name string
	text string
	lhs  node
	rhs  node
	cmp  cmpOp
	refs []Ref
}

// Name returns the constraint id the expression was declared under.
func (e *Expression) Name() string { return e.name }

// Text returns the original formula.
func (e *Expression) Text() string { return e.text }

// Refs returns the variable references the formula resolved at parse time.
func (e *Expression) Refs() []Ref {
	out := make([]Ref, len(e.refs))
	copy(out, e.refs)
	return out
}

// Evaluate computes the inequality against an assignment. Int components
// are promoted to float64; the comparison is exact, no tolerance.
func (e *Expression) Evaluate(a space.Assignment) bool {
	l, r := e.sides(a)
	switch e.cmp {
	case cmpLT:
		return l < r
	case cmpLE:
		return l <= r
	case cmpGT:
		return l > r
	default:
		return l >= r
	}
}

func (e *Expression) sides(a space.Assignment) (float64, float64) {
	return e.lhs.eval(a), e.rhs.eval(a)
}
