package constraint

import (
	"errors"
	"fmt"
	"math"

	"github.com/sg47/optspace/pkg/space"
)

// Parse compiles a formula into an Expression, resolving every variable and
// index reference against the domain. All reference errors surface here,
// never at evaluation time: space.UnknownVariableError for names the domain
// does not declare, space.IndexOutOfRangeError for references that do not
// match a variable's declared shape, and UnsupportedExpressionError for
// syntax outside the supported operator set.
//
// Supported syntax: binary + - * /, unary minus, sqrt(...), parentheses,
// and exactly one comparison (< <= > >=) between two arithmetic sides.
func Parse(name, text string, domain *space.Domain) (*Expression, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, tagRule(err, name)
	}
	p := &parser{name: name, domain: domain, toks: toks}
	lhs, err := p.parseSum()
	if err != nil {
		return nil, tagRule(err, name)
	}
	cmp, ok := comparisonFor(p.peek().kind)
	if !ok {
		return nil, p.errorf(p.peek().offset, "expected a comparison operator, got %s", p.peek().kind)
	}
	p.next()
	rhs, err := p.parseSum()
	if err != nil {
		return nil, tagRule(err, name)
	}
	if tail := p.peek(); tail.kind != tokEOF {
		if _, chained := comparisonFor(tail.kind); chained {
			return nil, p.errorf(tail.offset, "chained comparisons are not supported")
		}
		return nil, p.errorf(tail.offset, "unexpected %s after the comparison", tail.kind)
	}
	return &Expression{
		name: name,
		text: text,
		lhs:  lhs,
		rhs:  rhs,
		cmp:  cmp,
		refs: p.refs,
	}, nil
}

func comparisonFor(k tokenKind) (cmpOp, bool) {
	switch k {
	case tokLT:
		return cmpLT, true
	case tokLE:
		return cmpLE, true
	case tokGT:
		return cmpGT, true
	case tokGE:
		return cmpGE, true
	default:
		return 0, false
	}
}

type parser struct {
	name   string
	domain *space.Domain
	toks   []token
	pos    int
	refs   []Ref
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind) (token, error) {
	t := p.peek()
	if t.kind != k {
		return token{}, p.errorf(t.offset, "expected %s, got %s", k, t.kind)
	}
	return p.next(), nil
}

func (p *parser) parseSum() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			lhs = binNode{op: '+', lhs: lhs, rhs: rhs}
		case tokMinus:
			p.next()
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			lhs = binNode{op: '-', lhs: lhs, rhs: rhs}
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseTerm() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			lhs = binNode{op: '*', lhs: lhs, rhs: rhs}
		case tokSlash:
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			lhs = binNode{op: '/', lhs: lhs, rhs: rhs}
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokMinus {
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{arg: arg}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		return litNode{val: t.num}, nil
	case tokLParen:
		p.next()
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		p.next()
		switch p.peek().kind {
		case tokLParen:
			return p.parseCall(t)
		case tokLBracket:
			return p.parseIndexedRef(t)
		default:
			return p.resolveRef(t.text, -1)
		}
	default:
		return nil, p.errorf(t.offset, "expected a number, variable, or '(', got %s", t.kind)
	}
}

func (p *parser) parseCall(fn token) (node, error) {
	if fn.text != "sqrt" {
		return nil, p.errorf(fn.offset, "unsupported function %q", fn.text)
	}
	p.next() // consume '('
	arg, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return sqrtNode{arg: arg}, nil
}

func (p *parser) parseIndexedRef(ident token) (node, error) {
	p.next() // consume '['
	idx := p.peek()
	if idx.kind != tokNumber || math.Trunc(idx.num) != idx.num || idx.num < 0 {
		return nil, p.errorf(idx.offset, "index must be a nonnegative integer")
	}
	p.next()
	if _, err := p.expect(tokRBracket); err != nil {
		return nil, err
	}
	return p.resolveRef(ident.text, int(idx.num))
}

// resolveRef checks a reference against the domain. Scalars may be
// referenced bare or as the implicit 1-vector form name[0]; vector
// variables must always be indexed within their declared dim.
func (p *parser) resolveRef(name string, index int) (node, error) {
	v, err := p.domain.Get(name)
	if err != nil {
		return nil, fmt.Errorf("constraint %q: %w", p.name, err)
	}
	if v.Kind() == space.KindVector && index < 0 {
		return nil, fmt.Errorf("constraint %q: %w", p.name,
			&space.IndexOutOfRangeError{Variable: name, Index: -1, Dim: v.Dim})
	}
	if _, _, err := p.domain.BoundsFor(name, index); err != nil {
		return nil, fmt.Errorf("constraint %q: %w", p.name, err)
	}
	p.refs = append(p.refs, Ref{Variable: name, Index: index})
	return refNode{name: name, index: index}, nil
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &UnsupportedExpressionError{
		Rule:   p.name,
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
	}
}

// tagRule stamps the constraint id onto lexer errors, which are produced
// before the parser knows the rule name.
func tagRule(err error, name string) error {
	var uerr *UnsupportedExpressionError
	if errors.As(err, &uerr) && uerr.Rule == "" {
		uerr.Rule = name
	}
	return err
}

// UnsupportedExpressionError reports formula syntax outside the supported
// operator set.
type UnsupportedExpressionError struct {
	Rule   string
	Offset int
	Reason string
}

func (e *UnsupportedExpressionError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("unsupported expression at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("constraint %q: unsupported expression at offset %d: %s", e.Rule, e.Offset, e.Reason)
}
