package poly

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"unicode"

	"github.com/ppopth/polyfactor/ring"
)

// ErrSyntax is returned for malformed polynomial expressions
var ErrSyntax = errors.New("syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(s string) ([]token, error) {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		c := rs[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			toks = append(toks, token{tokNumber, string(rs[i:j]), i})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, string(rs[i:j]), i})
			i = j
		case c == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{tokOp, "^", i})
			i += 2
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^' || c == '(' || c == ')':
			toks = append(toks, token{tokOp, string(c), i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, c, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

type parser[E any] struct {
	r      ring.Ring[E]
	nvars  int
	vars   map[string]int
	consts map[string]E
	toks   []token
	pos    int
}

// Parse reads a polynomial over r in the named variables, for example
// "3*x^2*y - (y + 1)^3 / 2". Multiplication may be implicit ("2x").
func Parse[E any](r ring.Ring[E], vars []string, text string) (Poly[E], error) {
	return ParseWith(r, vars, nil, text)
}

// ParseWith is Parse with additional named constants of the coefficient
// ring, such as the generator of an algebraic extension.
func ParseWith[E any](r ring.Ring[E], vars []string, consts map[string]E, text string) (Poly[E], error) {
	toks, err := tokenize(text)
	if err != nil {
		return Poly[E]{}, err
	}
	p := &parser[E]{r: r, nvars: len(vars), vars: make(map[string]int, len(vars)), consts: consts, toks: toks}
	for i, v := range vars {
		if _, dup := p.vars[v]; dup {
			return Poly[E]{}, fmt.Errorf("%w: duplicate variable %q", ErrSyntax, v)
		}
		p.vars[v] = i
	}
	res, err := p.expr()
	if err != nil {
		return Poly[E]{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return Poly[E]{}, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
	}
	return res, nil
}

// MustParse is like Parse but panics on error
func MustParse[E any](r ring.Ring[E], vars []string, text string) Poly[E] {
	p, err := Parse(r, vars, text)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *parser[E]) peek() token { return p.toks[p.pos] }

func (p *parser[E]) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser[E]) isOp(s string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == s
}

// expr := term (("+" | "-") term)*
func (p *parser[E]) expr() (Poly[E], error) {
	acc, err := p.term()
	if err != nil {
		return acc, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		t, err := p.term()
		if err != nil {
			return t, err
		}
		if op == "+" {
			acc = acc.Add(t)
		} else {
			acc = acc.Sub(t)
		}
	}
	return acc, nil
}

// term := unary (("*" | "/")? unary)*
func (p *parser[E]) term() (Poly[E], error) {
	acc, err := p.unary()
	if err != nil {
		return acc, err
	}
	for {
		t := p.peek()
		switch {
		case p.isOp("*"):
			p.next()
			f, err := p.unary()
			if err != nil {
				return f, err
			}
			acc = acc.Mul(f)
		case p.isOp("/"):
			p.next()
			f, err := p.unary()
			if err != nil {
				return f, err
			}
			if acc, err = p.divide(acc, f, t.pos); err != nil {
				return acc, err
			}
		case t.kind == tokNumber || t.kind == tokIdent || p.isOp("("):
			f, err := p.power()
			if err != nil {
				return f, err
			}
			acc = acc.Mul(f)
		default:
			return acc, nil
		}
	}
}

func (p *parser[E]) divide(a, b Poly[E], pos int) (Poly[E], error) {
	if !b.IsConstant() {
		return a, fmt.Errorf("%w: division by a non-constant at offset %d", ErrSyntax, pos)
	}
	if b.IsZero() {
		return a, fmt.Errorf("%w: division by zero at offset %d", ErrSyntax, pos)
	}
	if inv, ok := p.r.Quo(p.r.One(), b.Lc()); ok {
		return a.Scale(inv), nil
	}
	if q, ok := a.Quo(b); ok {
		return q, nil
	}
	return a, fmt.Errorf("%w: inexact division over %s at offset %d", ErrSyntax, p.r, pos)
}

// unary := "-" unary | power
func (p *parser[E]) unary() (Poly[E], error) {
	if p.isOp("-") {
		p.next()
		u, err := p.unary()
		return u.Neg(), err
	}
	if p.isOp("+") {
		p.next()
		return p.unary()
	}
	return p.power()
}

// power := primary ("^" number)?
func (p *parser[E]) power() (Poly[E], error) {
	base, err := p.primary()
	if err != nil {
		return base, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	t := p.next()
	if t.kind != tokNumber {
		return base, fmt.Errorf("%w: expected exponent at offset %d", ErrSyntax, t.pos)
	}
	e, err := strconv.Atoi(t.text)
	if err != nil {
		return base, fmt.Errorf("%w: exponent %q: %v", ErrSyntax, t.text, err)
	}
	return base.Pow(e), nil
}

// primary := number | identifier | "(" expr ")"
func (p *parser[E]) primary() (Poly[E], error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		n, _ := new(big.Int).SetString(t.text, 10)
		return Constant(p.r, p.nvars, p.r.FromBigInt(n)), nil
	case tokIdent:
		if v, ok := p.vars[t.text]; ok {
			return Var(p.r, p.nvars, v), nil
		}
		if c, ok := p.consts[t.text]; ok {
			return Constant(p.r, p.nvars, c), nil
		}
		return Poly[E]{}, fmt.Errorf("%w: unknown symbol %q at offset %d", ErrSyntax, t.text, t.pos)
	case tokOp:
		if t.text == "(" {
			e, err := p.expr()
			if err != nil {
				return e, err
			}
			if !p.isOp(")") {
				return e, fmt.Errorf("%w: missing ) at offset %d", ErrSyntax, p.peek().pos)
			}
			p.next()
			return e, nil
		}
	}
	if t.kind == tokEOF {
		return Poly[E]{}, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	}
	return Poly[E]{}, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
}
