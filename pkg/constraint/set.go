package constraint

import (
	"fmt"

	"github.com/sg47/optspace/pkg/space"
)

// Violation is one diagnostic entry from Explain: the rule that failed and
// a human-readable detail. Box-bound failures use rule "bounds:<variable>";
// constraint failures use the constraint's declared id.
type Violation struct {
	Rule   string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
}

// Set joins the domain's box bounds with the declared constraint
// expressions. An assignment is feasible iff every component lies within
// its variable's bounds and every expression evaluates true. A Set is
// immutable and safe for concurrent use.
type Set struct {
	domain *space.Domain
	exprs  []*Expression
}

// NewSet builds a constraint set over a domain. The expression order is the
// declaration order used for diagnostics.
func NewSet(domain *space.Domain, exprs ...*Expression) *Set {
	s := &Set{domain: domain, exprs: make([]*Expression, len(exprs))}
	copy(s.exprs, exprs)
	return s
}

// Domain returns the domain the set was built over.
func (s *Set) Domain() *space.Domain { return s.domain }

// Expressions returns the constraint expressions in declaration order.
func (s *Set) Expressions() []*Expression {
	out := make([]*Expression, len(s.exprs))
	copy(out, s.exprs)
	return out
}

// Len returns the number of constraint expressions.
func (s *Set) Len() int { return len(s.exprs) }

// IsFeasible checks box bounds in domain order, then constraints in
// declaration order, short-circuiting on the first violation. Malformed
// assignments (missing variables, wrong shapes) are infeasible, never a
// panic.
func (s *Set) IsFeasible(a space.Assignment) bool {
	for _, v := range s.domain.Variables() {
		if !boundsOK(v, a) {
			return false
		}
	}
	for _, e := range s.exprs {
		if !e.Evaluate(a) {
			return false
		}
	}
	return true
}

// Explain reports every violated bound and constraint without
// short-circuiting, one entry per violation, for failure diagnostics. An
// empty result means the assignment is feasible.
func (s *Set) Explain(a space.Assignment) []Violation {
	var out []Violation
	for _, v := range s.domain.Variables() {
		out = append(out, boundsViolations(v, a)...)
	}
	for _, e := range s.exprs {
		if !e.Evaluate(a) {
			l, r := e.sides(a)
			out = append(out, Violation{
				Rule:   e.Name(),
				Detail: fmt.Sprintf("%s is false (left %g, right %g)", e.Text(), l, r),
			})
		}
	}
	return out
}

func boundsOK(v space.Variable, a space.Assignment) bool {
	val, ok := a[v.Name]
	if !ok {
		return false
	}
	if err := v.Fits(val); err != nil {
		return false
	}
	for i := 0; i < v.Size(); i++ {
		c, _ := val.Component(i)
		if c < v.Min || c > v.Max {
			return false
		}
	}
	return true
}

func boundsViolations(v space.Variable, a space.Assignment) []Violation {
	rule := "bounds:" + v.Name
	val, ok := a[v.Name]
	if !ok {
		return []Violation{{Rule: rule, Detail: "no value assigned"}}
	}
	if err := v.Fits(val); err != nil {
		return []Violation{{Rule: rule, Detail: err.Error()}}
	}
	var out []Violation
	for i := 0; i < v.Size(); i++ {
		c, _ := val.Component(i)
		if c < v.Min || c > v.Max {
			detail := fmt.Sprintf("value %g outside [%g, %g]", c, v.Min, v.Max)
			if v.Kind() == space.KindVector {
				detail = fmt.Sprintf("component %d = %g outside [%g, %g]", i, c, v.Min, v.Max)
			}
			out = append(out, Violation{Rule: rule, Detail: detail})
		}
	}
	return out
}
