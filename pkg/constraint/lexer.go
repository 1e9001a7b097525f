package constraint

import (
	"fmt"
	"strconv"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLT
	tokLE
	tokGT
	tokGE
)

type token struct {
	kind   tokenKind
	text   string
	num    float64 // set for tokNumber
	offset int     // byte offset into the formula
}

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of formula"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLT:
		return "'<'"
	case tokLE:
		return "'<='"
	case tokGT:
		return "'>'"
	case tokGE:
		return "'>='"
	default:
		return "unknown token"
	}
}

// lex splits a formula into tokens. Unknown runes and malformed numbers
// surface as UnsupportedExpressionError with the offending offset.
func lex(text string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, text: "+", offset: i})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, text: "-", offset: i})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar, text: "*", offset: i})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash, text: "/", offset: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", offset: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", offset: i})
			i++
		case c == '[':
			toks = append(toks, token{kind: tokLBracket, text: "[", offset: i})
			i++
		case c == ']':
			toks = append(toks, token{kind: tokRBracket, text: "]", offset: i})
			i++
		case c == '<':
			if i+1 < len(text) && text[i+1] == '=' {
				toks = append(toks, token{kind: tokLE, text: "<=", offset: i})
				i += 2
			} else {
				toks = append(toks, token{kind: tokLT, text: "<", offset: i})
				i++
			}
		case c == '>':
			if i+1 < len(text) && text[i+1] == '=' {
				toks = append(toks, token{kind: tokGE, text: ">=", offset: i})
				i += 2
			} else {
				toks = append(toks, token{kind: tokGT, text: ">", offset: i})
				i++
			}
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(text) && (text[i] >= '0' && text[i] <= '9' || text[i] == '.') {
				i++
			}
			// exponent part, e.g. 1e-3
			if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
				j := i + 1
				if j < len(text) && (text[j] == '+' || text[j] == '-') {
					j++
				}
				if j < len(text) && text[j] >= '0' && text[j] <= '9' {
					for j < len(text) && text[j] >= '0' && text[j] <= '9' {
						j++
					}
					i = j
				}
			}
			lit := text[start:i]
			num, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, &UnsupportedExpressionError{
					Offset: start,
					Reason: fmt.Sprintf("malformed number %q", lit),
				}
			}
			toks = append(toks, token{kind: tokNumber, text: lit, num: num, offset: start})
		case isIdentStart(rune(c)):
			start := i
			for i < len(text) && isIdentPart(rune(text[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: text[start:i], offset: start})
		default:
			return nil, &UnsupportedExpressionError{
				Offset: i,
				Reason: fmt.Sprintf("unsupported character %q", string(c)),
			}
		}
	}
	toks = append(toks, token{kind: tokEOF, offset: len(text)})
	return toks, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
