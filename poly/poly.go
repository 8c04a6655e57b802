// Package poly implements sparse multivariate and dense univariate
// polynomials over the coefficient domains of package ring.
//
// Polynomials are immutable values. Every operation returns a new
// polynomial and leaves its operands untouched, so they can be shared
// freely between goroutines.
package poly

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ppopth/polyfactor/ring"
)

// Term is a single monomial with its coefficient
type Term[E any] struct {
	Exp  Exponents
	Coef E
}

// Poly is a sparse polynomial in a fixed number of variables. Terms are kept
// sorted in descending lexicographic order of their exponents, variable 0
// being the most significant, and never carry a zero coefficient.
type Poly[E any] struct {
	r     ring.Ring[E]
	nvars int
	terms []Term[E]
}

// Zero returns the zero polynomial
func Zero[E any](r ring.Ring[E], nvars int) Poly[E] {
	return Poly[E]{r: r, nvars: nvars}
}

// Constant returns the constant polynomial c
func Constant[E any](r ring.Ring[E], nvars int, c E) Poly[E] {
	if r.IsZero(c) {
		return Zero(r, nvars)
	}
	return Poly[E]{r: r, nvars: nvars, terms: []Term[E]{{Exp: NewExponents(nvars), Coef: c}}}
}

// One returns the constant polynomial 1
func One[E any](r ring.Ring[E], nvars int) Poly[E] {
	return Constant(r, nvars, r.One())
}

// Var returns the polynomial x_v
func Var[E any](r ring.Ring[E], nvars, v int) Poly[E] {
	e := NewExponents(nvars)
	e[v] = 1
	return Poly[E]{r: r, nvars: nvars, terms: []Term[E]{{Exp: e, Coef: r.One()}}}
}

// Monomial returns c * x^exp
func Monomial[E any](r ring.Ring[E], c E, exp Exponents) Poly[E] {
	if r.IsZero(c) {
		return Zero(r, len(exp))
	}
	return Poly[E]{r: r, nvars: len(exp), terms: []Term[E]{{Exp: append(Exponents(nil), exp...), Coef: c}}}
}

// FromTerms builds a polynomial from terms in any order. Terms with equal
// exponents are combined and zero coefficients are dropped.
func FromTerms[E any](r ring.Ring[E], nvars int, terms []Term[E]) Poly[E] {
	idx := make(map[string]int, len(terms))
	out := make([]Term[E], 0, len(terms))
	for _, t := range terms {
		if len(t.Exp) != nvars {
			panic(ring.Invalidf("term has %d exponents, want %d", len(t.Exp), nvars))
		}
		k := t.Exp.key()
		if i, ok := idx[k]; ok {
			out[i].Coef = r.Add(out[i].Coef, t.Coef)
			continue
		}
		idx[k] = len(out)
		out = append(out, Term[E]{Exp: t.Exp, Coef: t.Coef})
	}
	return normalize(r, nvars, out)
}

// normalize drops zero terms and sorts the rest
func normalize[E any](r ring.Ring[E], nvars int, terms []Term[E]) Poly[E] {
	out := terms[:0]
	for _, t := range terms {
		if !r.IsZero(t.Coef) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b Term[E]) int { return b.Exp.Cmp(a.Exp) })
	return Poly[E]{r: r, nvars: nvars, terms: out}
}

// Ring returns the coefficient domain
func (p Poly[E]) Ring() ring.Ring[E] { return p.r }

// NVars returns the number of variables
func (p Poly[E]) NVars() int { return p.nvars }

// Terms returns the terms in descending order. The slice is a copy but
// the exponent vectors are shared.
func (p Poly[E]) Terms() []Term[E] { return slices.Clone(p.terms) }

// NumTerms returns the number of nonzero terms
func (p Poly[E]) NumTerms() int { return len(p.terms) }

func (p Poly[E]) IsZero() bool { return len(p.terms) == 0 }

// IsConstant reports whether p has no variable, zero included
func (p Poly[E]) IsConstant() bool {
	return len(p.terms) == 0 || (len(p.terms) == 1 && p.terms[0].Exp.IsZero())
}

func (p Poly[E]) IsOne() bool {
	return p.IsConstant() && !p.IsZero() && p.r.IsOne(p.terms[0].Coef)
}

// IsMonomial reports whether p has exactly one term
func (p Poly[E]) IsMonomial() bool { return len(p.terms) == 1 }

// Lc returns the leading coefficient in lexicographic order
func (p Poly[E]) Lc() E {
	if p.IsZero() {
		return p.r.Zero()
	}
	return p.terms[0].Coef
}

// LeadingExponents returns the exponents of the leading term
func (p Poly[E]) LeadingExponents() Exponents {
	if p.IsZero() {
		return NewExponents(p.nvars)
	}
	return p.terms[0].Exp
}

// LeadingTerm returns the leading term in lexicographic order
func (p Poly[E]) LeadingTerm() Term[E] {
	return Term[E]{Exp: p.LeadingExponents(), Coef: p.Lc()}
}

// Tc returns the constant coefficient
func (p Poly[E]) Tc() E {
	if n := len(p.terms); n > 0 && p.terms[n-1].Exp.IsZero() {
		return p.terms[n-1].Coef
	}
	return p.r.Zero()
}

// Degree returns the degree in x_v, or -1 for the zero polynomial
func (p Poly[E]) Degree(v int) int {
	if p.IsZero() {
		return -1
	}
	if v == 0 {
		return p.terms[0].Exp[0]
	}
	d := 0
	for _, t := range p.terms {
		d = max(d, t.Exp[v])
	}
	return d
}

// Degrees returns the degree in each variable
func (p Poly[E]) Degrees() []int {
	d := make([]int, p.nvars)
	for _, t := range p.terms {
		for i, e := range t.Exp {
			d[i] = max(d[i], e)
		}
	}
	return d
}

// TotalDegree returns the total degree, or -1 for the zero polynomial
func (p Poly[E]) TotalDegree() int {
	if p.IsZero() {
		return -1
	}
	d := 0
	for _, t := range p.terms {
		d = max(d, t.Exp.Total())
	}
	return d
}

// Vars returns the indices of the variables occurring in p
func (p Poly[E]) Vars() []int {
	var vs []int
	for i, d := range p.Degrees() {
		if d > 0 {
			vs = append(vs, i)
		}
	}
	return vs
}

// MainVar returns the first variable occurring in p, or -1 for constants
func (p Poly[E]) MainVar() int {
	for i, d := range p.Degrees() {
		if d > 0 {
			return i
		}
	}
	return -1
}

// Equal reports whether p and q are the same polynomial
func (p Poly[E]) Equal(q Poly[E]) bool {
	if p.nvars != q.nvars || len(p.terms) != len(q.terms) {
		return false
	}
	for i := range p.terms {
		if p.terms[i].Exp.Cmp(q.terms[i].Exp) != 0 || !p.r.Equal(p.terms[i].Coef, q.terms[i].Coef) {
			return false
		}
	}
	return true
}

func (p Poly[E]) check(q Poly[E]) {
	if p.nvars != q.nvars {
		panic(ring.Invalidf("mixing polynomials in %d and %d variables", p.nvars, q.nvars))
	}
	if any(p.r) != any(q.r) && !ring.Same(p.r, q.r) {
		panic(ring.Invalidf("mixing polynomials over %s and %s", p.r, q.r))
	}
}

// Add returns p + q
func (p Poly[E]) Add(q Poly[E]) Poly[E] {
	p.check(q)
	out := make([]Term[E], 0, len(p.terms)+len(q.terms))
	i, j := 0, 0
	for i < len(p.terms) && j < len(q.terms) {
		switch c := p.terms[i].Exp.Cmp(q.terms[j].Exp); {
		case c > 0:
			out = append(out, p.terms[i])
			i++
		case c < 0:
			out = append(out, q.terms[j])
			j++
		default:
			s := p.r.Add(p.terms[i].Coef, q.terms[j].Coef)
			if !p.r.IsZero(s) {
				out = append(out, Term[E]{Exp: p.terms[i].Exp, Coef: s})
			}
			i++
			j++
		}
	}
	out = append(out, p.terms[i:]...)
	out = append(out, q.terms[j:]...)
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// Neg returns -p
func (p Poly[E]) Neg() Poly[E] {
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		out[i] = Term[E]{Exp: t.Exp, Coef: p.r.Neg(t.Coef)}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// Sub returns p - q
func (p Poly[E]) Sub(q Poly[E]) Poly[E] {
	return p.Add(q.Neg())
}

// Scale returns c * p
func (p Poly[E]) Scale(c E) Poly[E] {
	out := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		if v := p.r.Mul(t.Coef, c); !p.r.IsZero(v) {
			out = append(out, Term[E]{Exp: t.Exp, Coef: v})
		}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// MulTerm returns c * x^exp * p
func (p Poly[E]) MulTerm(c E, exp Exponents) Poly[E] {
	out := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		if v := p.r.Mul(t.Coef, c); !p.r.IsZero(v) {
			out = append(out, Term[E]{Exp: t.Exp.Add(exp), Coef: v})
		}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// Mul returns p * q
func (p Poly[E]) Mul(q Poly[E]) Poly[E] {
	p.check(q)
	switch {
	case p.IsZero() || q.IsZero():
		return Zero(p.r, p.nvars)
	case len(p.terms) == 1:
		return q.MulTerm(p.terms[0].Coef, p.terms[0].Exp)
	case len(q.terms) == 1:
		return p.MulTerm(q.terms[0].Coef, q.terms[0].Exp)
	}
	if radix, ok := kroneckerRadix(p, q); ok {
		return FromKronecker(Kronecker(p, radix).Mul(Kronecker(q, radix)), p.nvars, radix)
	}
	idx := make(map[string]int, len(p.terms)+len(q.terms))
	out := make([]Term[E], 0, len(p.terms)+len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			e := a.Exp.Add(b.Exp)
			c := p.r.Mul(a.Coef, b.Coef)
			k := e.key()
			if i, ok := idx[k]; ok {
				out[i].Coef = p.r.Add(out[i].Coef, c)
				continue
			}
			idx[k] = len(out)
			out = append(out, Term[E]{Exp: e, Coef: c})
		}
	}
	return normalize(p.r, p.nvars, out)
}

// Pow returns p^n for n >= 0
func (p Poly[E]) Pow(n int) Poly[E] {
	if n < 0 {
		panic(ring.Invalidf("negative exponent %d", n))
	}
	result := One(p.r, p.nvars)
	base := p
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// CoeffIn returns the coefficient of x_v^k as a polynomial free of x_v
func (p Poly[E]) CoeffIn(v, k int) Poly[E] {
	var out []Term[E]
	for _, t := range p.terms {
		if t.Exp[v] == k {
			out = append(out, Term[E]{Exp: t.Exp.With(v, 0), Coef: t.Coef})
		}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// LcIn returns the leading coefficient with respect to x_v
func (p Poly[E]) LcIn(v int) Poly[E] {
	if p.IsZero() {
		return p
	}
	return p.CoeffIn(v, p.Degree(v))
}

// Evaluate substitutes x_v = a. The result keeps the same variables.
func (p Poly[E]) Evaluate(v int, a E) Poly[E] {
	if p.Degree(v) <= 0 {
		return p
	}
	pows := []E{p.r.One()}
	out := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		for len(pows) <= t.Exp[v] {
			pows = append(pows, p.r.Mul(pows[len(pows)-1], a))
		}
		out = append(out, Term[E]{Exp: t.Exp.With(v, 0), Coef: p.r.Mul(t.Coef, pows[t.Exp[v]])})
	}
	return FromTerms(p.r, p.nvars, out)
}

// EvaluateAll evaluates p at a point with one value per variable
func (p Poly[E]) EvaluateAll(point []E) E {
	if len(point) != p.nvars {
		panic(ring.Invalidf("point has %d coordinates, want %d", len(point), p.nvars))
	}
	s := p.r.Zero()
	for _, t := range p.terms {
		c := t.Coef
		for i, e := range t.Exp {
			if e > 0 {
				c = p.r.Mul(c, ring.PowInt(p.r, point[i], e))
			}
		}
		s = p.r.Add(s, c)
	}
	return s
}

// Derivative returns the formal partial derivative with respect to x_v
func (p Poly[E]) Derivative(v int) Poly[E] {
	out := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		if t.Exp[v] == 0 {
			continue
		}
		c := p.r.Mul(t.Coef, p.r.FromInt64(int64(t.Exp[v])))
		if p.r.IsZero(c) {
			continue
		}
		out = append(out, Term[E]{Exp: t.Exp.With(v, t.Exp[v]-1), Coef: c})
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// Shift returns p with x_v replaced by x_v + a
func (p Poly[E]) Shift(v int, a E) Poly[E] {
	d := p.Degree(v)
	if d <= 0 || p.r.IsZero(a) {
		return p
	}
	lin := Var(p.r, p.nvars, v).Add(Constant(p.r, p.nvars, a))
	result := p.CoeffIn(v, d)
	for k := d - 1; k >= 0; k-- {
		result = result.Mul(lin).Add(p.CoeffIn(v, k))
	}
	return result
}

// Truncate drops every term whose degree in x_v is at least k,
// which is reduction modulo x_v^k.
func (p Poly[E]) Truncate(v, k int) Poly[E] {
	out := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		if t.Exp[v] < k {
			out = append(out, t)
		}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// Quo returns p / q when q divides p exactly
func (p Poly[E]) Quo(q Poly[E]) (Poly[E], bool) {
	p.check(q)
	if q.IsZero() {
		return Poly[E]{}, false
	}
	if p.IsZero() {
		return p, true
	}
	pd, qd := p.Degrees(), q.Degrees()
	for i := range pd {
		if qd[i] > pd[i] {
			return Poly[E]{}, false
		}
	}
	lt := q.terms[0]
	rem := p
	var quot []Term[E]
	for !rem.IsZero() {
		head := rem.terms[0]
		if !lt.Exp.Divides(head.Exp) {
			return Poly[E]{}, false
		}
		c, ok := p.r.Quo(head.Coef, lt.Coef)
		if !ok {
			return Poly[E]{}, false
		}
		e := head.Exp.Sub(lt.Exp)
		for i := range e {
			if e[i] > pd[i]-qd[i] {
				return Poly[E]{}, false
			}
		}
		quot = append(quot, Term[E]{Exp: e, Coef: c})
		rem = rem.Sub(q.MulTerm(c, e))
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: quot}, true
}

// PseudoDivRem divides p by q as polynomials in x_v. It returns (s, r)
// with lc_v(q)^(deg_v p - deg_v q + 1) * p = s*q + r and deg_v r < deg_v q.
func (p Poly[E]) PseudoDivRem(q Poly[E], v int) (Poly[E], Poly[E]) {
	p.check(q)
	if q.IsZero() {
		panic(ring.Invalidf("pseudo-division by zero"))
	}
	dq := q.Degree(v)
	dp := p.Degree(v)
	zero := Zero(p.r, p.nvars)
	if dp < dq {
		return zero, p
	}
	lcq := q.LcIn(v)
	quot, rem := zero, p
	e := dp - dq + 1
	for !rem.IsZero() && rem.Degree(v) >= dq {
		x := NewExponents(p.nvars)
		x[v] = rem.Degree(v) - dq
		s := rem.LcIn(v).MulTerm(p.r.One(), x)
		quot = quot.Mul(lcq).Add(s)
		rem = rem.Mul(lcq).Sub(s.Mul(q))
		e--
	}
	if e > 0 {
		f := lcq.Pow(e)
		quot, rem = quot.Mul(f), rem.Mul(f)
	}
	return quot, rem
}

// DivRem divides p by q as polynomials in x_v. The leading coefficient of
// q in x_v must be a constant unit.
func (p Poly[E]) DivRem(q Poly[E], v int) (Poly[E], Poly[E]) {
	p.check(q)
	lcq := q.LcIn(v)
	if !lcq.IsConstant() || q.IsZero() || !p.r.IsUnit(lcq.Lc()) {
		panic(ring.Invalidf("division by %s: leading coefficient is not a unit", q))
	}
	inv, _ := p.r.Quo(p.r.One(), lcq.Lc())
	dq := q.Degree(v)
	quot, rem := Zero(p.r, p.nvars), p
	for !rem.IsZero() && rem.Degree(v) >= dq {
		x := NewExponents(p.nvars)
		x[v] = rem.Degree(v) - dq
		s := rem.LcIn(v).MulTerm(inv, x)
		quot = quot.Add(s)
		rem = rem.Sub(s.Mul(q))
	}
	return quot, rem
}

// Content returns the content of p as an element of the coefficient ring:
// the gcd of the coefficients with the sign of the leading one over
// ordered gcd domains, the leading coefficient over fields, and 1 when the
// ring has no gcd.
func (p Poly[E]) Content() E {
	if p.IsZero() {
		return p.r.One()
	}
	if p.r.IsField() {
		return p.Lc()
	}
	g, ok := p.r.(ring.GcdDomain[E])
	if !ok {
		return p.r.One()
	}
	c := p.r.Zero()
	for _, t := range p.terms {
		c = g.Gcd(c, t.Coef)
		if p.r.IsOne(c) {
			break
		}
	}
	if o, ok := p.r.(ring.Ordered[E]); ok && o.Sign(p.Lc()) < 0 {
		c = p.r.Neg(c)
	}
	return c
}

// PrimitivePart returns p divided by its content
func (p Poly[E]) PrimitivePart() Poly[E] {
	if p.IsZero() {
		return p
	}
	return p.DivideCoeffs(p.Content())
}

// DivideCoeffs divides every coefficient exactly by c
func (p Poly[E]) DivideCoeffs(c E) Poly[E] {
	if p.r.IsOne(c) {
		return p
	}
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		q, ok := p.r.Quo(t.Coef, c)
		if !ok {
			panic(ring.Invalidf("%s does not divide %s", p.r.Format(c), p.r.Format(t.Coef)))
		}
		out[i] = Term[E]{Exp: t.Exp, Coef: q}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// Monic divides p by its leading coefficient, which must be a unit
func (p Poly[E]) Monic() Poly[E] {
	if p.IsZero() {
		return p
	}
	inv, ok := p.r.Quo(p.r.One(), p.Lc())
	if !ok {
		panic(ring.Invalidf("leading coefficient %s is not a unit", p.r.Format(p.Lc())))
	}
	return p.Scale(inv)
}

// MonomialContent returns the exponents of the largest monomial dividing p
func (p Poly[E]) MonomialContent() Exponents {
	if p.IsZero() {
		return NewExponents(p.nvars)
	}
	m := p.terms[0].Exp
	for _, t := range p.terms[1:] {
		m = m.Min(t.Exp)
	}
	return m
}

// DivideMonomial divides p by the monomial with exponents e, which must
// divide every term.
func (p Poly[E]) DivideMonomial(e Exponents) Poly[E] {
	if e.IsZero() {
		return p
	}
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		if !e.Divides(t.Exp) {
			panic(ring.Invalidf("monomial %s does not divide %s", e, p))
		}
		out[i] = Term[E]{Exp: t.Exp.Sub(e), Coef: t.Coef}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// RootCharacteristic returns q with q^p = p(x) in characteristic p. Every
// exponent must be divisible by p and every coefficient must have a p-th
// root in the coefficient ring; the second result is false otherwise.
func (p Poly[E]) RootCharacteristic() (Poly[E], bool) {
	root, ok := p.r.(ring.PerfectPower[E])
	ch := p.r.Characteristic()
	if !ok || ch.Sign() == 0 || !ch.IsInt64() {
		return Poly[E]{}, false
	}
	q, ok := p.Deflate(int(ch.Int64()))
	if !ok {
		return Poly[E]{}, false
	}
	for i, t := range q.terms {
		c, ok := root.PthRoot(t.Coef)
		if !ok {
			return Poly[E]{}, false
		}
		q.terms[i].Coef = c
	}
	return q, true
}

// Deflate returns q with q(x^k) = p(x), dividing every exponent by k. The
// second result is false when some exponent is not a multiple of k.
func (p Poly[E]) Deflate(k int) (Poly[E], bool) {
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		e := make(Exponents, len(t.Exp))
		for j, d := range t.Exp {
			if d%k != 0 {
				return Poly[E]{}, false
			}
			e[j] = d / k
		}
		out[i] = Term[E]{Exp: e, Coef: t.Coef}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}, true
}

// Inflate returns p(x^k), multiplying every exponent by k
func (p Poly[E]) Inflate(k int) Poly[E] {
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		e := make(Exponents, len(t.Exp))
		for j, d := range t.Exp {
			e[j] = d * k
		}
		out[i] = Term[E]{Exp: e, Coef: t.Coef}
	}
	return Poly[E]{r: p.r, nvars: p.nvars, terms: out}
}

// Rename moves variable i of p to position perm[i] of a polynomial in
// nvars variables.
func (p Poly[E]) Rename(nvars int, perm []int) Poly[E] {
	if len(perm) != p.nvars {
		panic(ring.Invalidf("permutation of %d variables applied to %d", len(perm), p.nvars))
	}
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		e := NewExponents(nvars)
		for v, k := range t.Exp {
			if k > 0 {
				e[perm[v]] += k
			}
		}
		out[i] = Term[E]{Exp: e, Coef: t.Coef}
	}
	return FromTerms(p.r, nvars, out)
}

// Swap exchanges the variables x_i and x_j
func (p Poly[E]) Swap(i, j int) Poly[E] {
	if i == j {
		return p
	}
	perm := make([]int, p.nvars)
	for v := range perm {
		perm[v] = v
	}
	perm[i], perm[j] = j, i
	return p.Rename(p.nvars, perm)
}

// Extend appends k fresh variables
func (p Poly[E]) Extend(k int) Poly[E] {
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		out[i] = Term[E]{Exp: append(append(Exponents(nil), t.Exp...), make([]int, k)...), Coef: t.Coef}
	}
	return Poly[E]{r: p.r, nvars: p.nvars + k, terms: out}
}

// Map applies f to every coefficient and returns a polynomial over r
func Map[E, F any](p Poly[E], r ring.Ring[F], f func(E) F) Poly[F] {
	out := make([]Term[F], 0, len(p.terms))
	for _, t := range p.terms {
		if c := f(t.Coef); !r.IsZero(c) {
			out = append(out, Term[F]{Exp: t.Exp, Coef: c})
		}
	}
	return Poly[F]{r: r, nvars: p.nvars, terms: out}
}

// Compare is a total order on polynomials: by total degree, then number of
// terms, then term by term.
func Compare[E any](a, b Poly[E]) int {
	if c := a.TotalDegree() - b.TotalDegree(); c != 0 {
		return c
	}
	if c := len(a.terms) - len(b.terms); c != 0 {
		return c
	}
	for i := range a.terms {
		if c := a.terms[i].Exp.Cmp(b.terms[i].Exp); c != 0 {
			return c
		}
		if c := strings.Compare(a.r.Format(a.terms[i].Coef), b.r.Format(b.terms[i].Coef)); c != 0 {
			return c
		}
	}
	return 0
}

// DefaultNames returns the variable names used when printing
func DefaultNames(n int) []string {
	switch n {
	case 0:
		return nil
	case 1:
		return []string{"x"}
	case 2:
		return []string{"x", "y"}
	case 3:
		return []string{"x", "y", "z"}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i+1)
	}
	return names
}

// Format renders p with the given variable names
func (p Poly[E]) Format(names []string) string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for i, t := range p.terms {
		c := p.r.Format(t.Coef)
		neg := strings.HasPrefix(c, "-") && !strings.ContainsAny(c[1:], "+-")
		if neg {
			c = c[1:]
		}
		if strings.ContainsAny(c, "+- ") {
			c = "(" + c + ")"
		}
		switch {
		case i == 0 && neg:
			sb.WriteString("-")
		case i > 0 && neg:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		mono := formatMonomial(t.Exp, names)
		switch {
		case mono == "":
			sb.WriteString(c)
		case c == "1":
			sb.WriteString(mono)
		default:
			sb.WriteString(c)
			sb.WriteString("*")
			sb.WriteString(mono)
		}
	}
	return sb.String()
}

func formatMonomial(e Exponents, names []string) string {
	var parts []string
	for v, k := range e {
		switch {
		case k == 1:
			parts = append(parts, names[v])
		case k > 1:
			parts = append(parts, fmt.Sprintf("%s^%d", names[v], k))
		}
	}
	return strings.Join(parts, "*")
}

func (p Poly[E]) String() string {
	return p.Format(DefaultNames(p.nvars))
}
