package poly

import (
	"math/big"
	"slices"

	"github.com/ppopth/polyfactor/ring"
)

// karatsubaThreshold is the operand length below which schoolbook
// multiplication is used.
const karatsubaThreshold = 32

// Univariate is a dense polynomial in one variable. Coefficients are stored
// in ascending order of degree without trailing zeros.
type Univariate[E any] struct {
	r  ring.Ring[E]
	cs []E
}

// NewUnivariate creates a polynomial from its coefficients, constant first
func NewUnivariate[E any](r ring.Ring[E], cs ...E) Univariate[E] {
	return Univariate[E]{r: r, cs: trim(r, slices.Clone(cs))}
}

// UnivariateMonomial returns c * x^d
func UnivariateMonomial[E any](r ring.Ring[E], c E, d int) Univariate[E] {
	if r.IsZero(c) {
		return Univariate[E]{r: r}
	}
	cs := make([]E, d+1)
	for i := range cs {
		cs[i] = r.Zero()
	}
	cs[d] = c
	return Univariate[E]{r: r, cs: cs}
}

func trim[E any](r ring.Ring[E], cs []E) []E {
	n := len(cs)
	for n > 0 && r.IsZero(cs[n-1]) {
		n--
	}
	return cs[:n]
}

// Ring returns the coefficient domain
func (a Univariate[E]) Ring() ring.Ring[E] { return a.r }

// Degree returns the degree, -1 for the zero polynomial
func (a Univariate[E]) Degree() int { return len(a.cs) - 1 }

// Coeff returns the coefficient of x^i
func (a Univariate[E]) Coeff(i int) E {
	if i < 0 || i >= len(a.cs) {
		return a.r.Zero()
	}
	return a.cs[i]
}

// Coeffs returns a copy of the coefficients, constant first
func (a Univariate[E]) Coeffs() []E { return slices.Clone(a.cs) }

// Lc returns the leading coefficient
func (a Univariate[E]) Lc() E { return a.Coeff(a.Degree()) }

// Tc returns the constant coefficient
func (a Univariate[E]) Tc() E { return a.Coeff(0) }

func (a Univariate[E]) IsZero() bool { return len(a.cs) == 0 }

func (a Univariate[E]) IsConstant() bool { return len(a.cs) <= 1 }

func (a Univariate[E]) IsOne() bool { return len(a.cs) == 1 && a.r.IsOne(a.cs[0]) }

func (a Univariate[E]) IsMonic() bool { return !a.IsZero() && a.r.IsOne(a.Lc()) }

func (a Univariate[E]) Equal(b Univariate[E]) bool {
	if len(a.cs) != len(b.cs) {
		return false
	}
	for i := range a.cs {
		if !a.r.Equal(a.cs[i], b.cs[i]) {
			return false
		}
	}
	return true
}

func addSlices[E any](r ring.Ring[E], a, b []E) []E {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := slices.Clone(a)
	for i := range b {
		out[i] = r.Add(out[i], b[i])
	}
	return out
}

func subSlices[E any](r ring.Ring[E], a, b []E) []E {
	n := max(len(a), len(b))
	out := make([]E, n)
	for i := range out {
		switch {
		case i < len(a) && i < len(b):
			out[i] = r.Sub(a[i], b[i])
		case i < len(a):
			out[i] = a[i]
		default:
			out[i] = r.Neg(b[i])
		}
	}
	return out
}

func (a Univariate[E]) Add(b Univariate[E]) Univariate[E] {
	return Univariate[E]{r: a.r, cs: trim(a.r, addSlices(a.r, a.cs, b.cs))}
}

func (a Univariate[E]) Sub(b Univariate[E]) Univariate[E] {
	return Univariate[E]{r: a.r, cs: trim(a.r, subSlices(a.r, a.cs, b.cs))}
}

func (a Univariate[E]) Neg() Univariate[E] {
	out := make([]E, len(a.cs))
	for i, c := range a.cs {
		out[i] = a.r.Neg(c)
	}
	return Univariate[E]{r: a.r, cs: out}
}

// Scale returns c * a
func (a Univariate[E]) Scale(c E) Univariate[E] {
	out := make([]E, len(a.cs))
	for i, v := range a.cs {
		out[i] = a.r.Mul(v, c)
	}
	return Univariate[E]{r: a.r, cs: trim(a.r, out)}
}

// ShiftLeft returns a * x^k
func (a Univariate[E]) ShiftLeft(k int) Univariate[E] {
	if a.IsZero() || k == 0 {
		return a
	}
	out := make([]E, k+len(a.cs))
	for i := 0; i < k; i++ {
		out[i] = a.r.Zero()
	}
	copy(out[k:], a.cs)
	return Univariate[E]{r: a.r, cs: out}
}

// Truncate returns a mod x^n
func (a Univariate[E]) Truncate(n int) Univariate[E] {
	if n >= len(a.cs) {
		return a
	}
	return Univariate[E]{r: a.r, cs: trim(a.r, slices.Clone(a.cs[:n]))}
}

func mulSchoolbook[E any](r ring.Ring[E], a, b []E) []E {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]E, len(a)+len(b)-1)
	for i := range out {
		out[i] = r.Zero()
	}
	for i, x := range a {
		if r.IsZero(x) {
			continue
		}
		for j, y := range b {
			out[i+j] = r.Add(out[i+j], r.Mul(x, y))
		}
	}
	return out
}

func mulKaratsuba[E any](r ring.Ring[E], a, b []E) []E {
	if min(len(a), len(b)) < karatsubaThreshold {
		return mulSchoolbook(r, a, b)
	}
	m := max(len(a), len(b)) / 2
	split := func(s []E) ([]E, []E) {
		if len(s) <= m {
			return s, nil
		}
		return s[:m], s[m:]
	}
	a0, a1 := split(a)
	b0, b1 := split(b)
	z0 := mulKaratsuba(r, a0, b0)
	z2 := mulKaratsuba(r, a1, b1)
	z1 := subSlices(r, subSlices(r, mulKaratsuba(r, addSlices(r, a0, a1), addSlices(r, b0, b1)), z0), z2)

	out := make([]E, len(a)+len(b)-1)
	for i := range out {
		out[i] = r.Zero()
	}
	for i, c := range z0 {
		out[i] = r.Add(out[i], c)
	}
	for i, c := range z1 {
		if i+m < len(out) {
			out[i+m] = r.Add(out[i+m], c)
		}
	}
	for i, c := range z2 {
		out[i+2*m] = r.Add(out[i+2*m], c)
	}
	return out
}

// Mul returns a * b
func (a Univariate[E]) Mul(b Univariate[E]) Univariate[E] {
	return Univariate[E]{r: a.r, cs: trim(a.r, mulKaratsuba(a.r, a.cs, b.cs))}
}

// Pow returns a^n
func (a Univariate[E]) Pow(n int) Univariate[E] {
	result := NewUnivariate(a.r, a.r.One())
	base := a
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

// Eval evaluates a at x by Horner's rule
func (a Univariate[E]) Eval(x E) E {
	s := a.r.Zero()
	for i := len(a.cs) - 1; i >= 0; i-- {
		s = a.r.Add(a.r.Mul(s, x), a.cs[i])
	}
	return s
}

// Derivative returns the formal derivative
func (a Univariate[E]) Derivative() Univariate[E] {
	if len(a.cs) <= 1 {
		return Univariate[E]{r: a.r}
	}
	out := make([]E, len(a.cs)-1)
	for i := 1; i < len(a.cs); i++ {
		out[i-1] = a.r.Mul(a.cs[i], a.r.FromInt64(int64(i)))
	}
	return Univariate[E]{r: a.r, cs: trim(a.r, out)}
}

// DivRem divides by b, whose leading coefficient must be a unit
func (a Univariate[E]) DivRem(b Univariate[E]) (Univariate[E], Univariate[E]) {
	if b.IsZero() {
		panic(ring.Invalidf("division by the zero polynomial"))
	}
	inv, ok := a.r.Quo(a.r.One(), b.Lc())
	if !ok {
		panic(ring.Invalidf("leading coefficient %s of divisor is not a unit", a.r.Format(b.Lc())))
	}
	da, db := a.Degree(), b.Degree()
	if da < db {
		return Univariate[E]{r: a.r}, a
	}
	rem := slices.Clone(a.cs)
	q := make([]E, da-db+1)
	for i := da; i >= db; i-- {
		c := a.r.Mul(rem[i], inv)
		q[i-db] = c
		if a.r.IsZero(c) {
			continue
		}
		for j := 0; j <= db; j++ {
			rem[i-db+j] = a.r.Sub(rem[i-db+j], a.r.Mul(c, b.cs[j]))
		}
	}
	return Univariate[E]{r: a.r, cs: trim(a.r, q)}, Univariate[E]{r: a.r, cs: trim(a.r, rem[:db])}
}

// Rem returns a mod b
func (a Univariate[E]) Rem(b Univariate[E]) Univariate[E] {
	_, r := a.DivRem(b)
	return r
}

// Quo returns a / b when the division is exact in the coefficient ring
func (a Univariate[E]) Quo(b Univariate[E]) (Univariate[E], bool) {
	if b.IsZero() {
		return Univariate[E]{}, false
	}
	da, db := a.Degree(), b.Degree()
	if a.IsZero() {
		return a, true
	}
	if da < db {
		return Univariate[E]{}, false
	}
	rem := slices.Clone(a.cs)
	q := make([]E, da-db+1)
	for i := da; i >= db; i-- {
		c, ok := a.r.Quo(rem[i], b.Lc())
		if !ok {
			return Univariate[E]{}, false
		}
		q[i-db] = c
		for j := 0; j <= db; j++ {
			rem[i-db+j] = a.r.Sub(rem[i-db+j], a.r.Mul(c, b.cs[j]))
		}
	}
	if len(trim(a.r, rem[:db])) != 0 {
		return Univariate[E]{}, false
	}
	return Univariate[E]{r: a.r, cs: trim(a.r, q)}, true
}

// PseudoDivRem returns (q, r) with lc(b)^(deg a - deg b + 1) * a = q*b + r
func (a Univariate[E]) PseudoDivRem(b Univariate[E]) (Univariate[E], Univariate[E]) {
	if b.IsZero() {
		panic(ring.Invalidf("pseudo-division by the zero polynomial"))
	}
	da, db := a.Degree(), b.Degree()
	if da < db {
		return Univariate[E]{r: a.r}, a
	}
	lc := b.Lc()
	rem := slices.Clone(a.cs)
	q := make([]E, da-db+1)
	for i := range q {
		q[i] = a.r.Zero()
	}
	for i := da; i >= db; i-- {
		c := rem[i]
		for k := range q {
			q[k] = a.r.Mul(q[k], lc)
		}
		q[i-db] = c
		for j := 0; j < i; j++ {
			rem[j] = a.r.Mul(rem[j], lc)
		}
		for j := 0; j < db; j++ {
			rem[i-db+j] = a.r.Sub(rem[i-db+j], a.r.Mul(c, b.cs[j]))
		}
		rem[i] = a.r.Zero()
	}
	return Univariate[E]{r: a.r, cs: trim(a.r, q)}, Univariate[E]{r: a.r, cs: trim(a.r, rem[:db])}
}

// Monic divides a by its leading coefficient, which must be a unit
func (a Univariate[E]) Monic() Univariate[E] {
	if a.IsZero() || a.r.IsOne(a.Lc()) {
		return a
	}
	inv, ok := a.r.Quo(a.r.One(), a.Lc())
	if !ok {
		panic(ring.Invalidf("leading coefficient %s is not a unit", a.r.Format(a.Lc())))
	}
	return a.Scale(inv)
}

// PowMod returns a^e mod m
func (a Univariate[E]) PowMod(e *big.Int, m Univariate[E]) Univariate[E] {
	result := NewUnivariate(a.r, a.r.One()).Rem(m)
	base := a.Rem(m)
	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) == 1 {
			result = result.Mul(base).Rem(m)
		}
		if i+1 < e.BitLen() {
			base = base.Mul(base).Rem(m)
		}
	}
	return result
}

// Compose returns a(g(x))
func (a Univariate[E]) Compose(g Univariate[E]) Univariate[E] {
	result := Univariate[E]{r: a.r}
	for i := len(a.cs) - 1; i >= 0; i-- {
		result = result.Mul(g).Add(NewUnivariate(a.r, a.cs[i]))
	}
	return result
}

// Shift returns a(x + c)
func (a Univariate[E]) Shift(c E) Univariate[E] {
	if a.r.IsZero(c) {
		return a
	}
	return a.Compose(NewUnivariate(a.r, c, a.r.One()))
}

// Content returns the content in the coefficient ring, as for Poly
func (a Univariate[E]) Content() E {
	return a.Multivariate(1, 0).Content()
}

// PrimitivePart returns a divided by its content
func (a Univariate[E]) PrimitivePart() Univariate[E] {
	if a.IsZero() {
		return a
	}
	return a.DivideCoeffs(a.Content())
}

// DivideCoeffs divides every coefficient exactly by c
func (a Univariate[E]) DivideCoeffs(c E) Univariate[E] {
	out := make([]E, len(a.cs))
	for i, v := range a.cs {
		q, ok := a.r.Quo(v, c)
		if !ok {
			panic(ring.Invalidf("%s does not divide %s", a.r.Format(c), a.r.Format(v)))
		}
		out[i] = q
	}
	return Univariate[E]{r: a.r, cs: trim(a.r, out)}
}

// Multivariate embeds a as a polynomial in x_v among nvars variables
func (a Univariate[E]) Multivariate(nvars, v int) Poly[E] {
	terms := make([]Term[E], 0, len(a.cs))
	for i := len(a.cs) - 1; i >= 0; i-- {
		if a.r.IsZero(a.cs[i]) {
			continue
		}
		e := NewExponents(nvars)
		e[v] = i
		terms = append(terms, Term[E]{Exp: e, Coef: a.cs[i]})
	}
	return Poly[E]{r: a.r, nvars: nvars, terms: terms}
}

// Univariate returns p as a dense polynomial in x_v. p must not depend on
// any other variable.
func (p Poly[E]) Univariate(v int) Univariate[E] {
	if p.IsZero() {
		return Univariate[E]{r: p.r}
	}
	cs := make([]E, p.Degree(v)+1)
	for i := range cs {
		cs[i] = p.r.Zero()
	}
	for _, t := range p.terms {
		for i, k := range t.Exp {
			if i != v && k != 0 {
				panic(ring.Invalidf("%s is not univariate in variable %d", p, v))
			}
		}
		cs[t.Exp[v]] = t.Coef
	}
	return Univariate[E]{r: p.r, cs: cs}
}

// MapUnivariate applies f to every coefficient
func MapUnivariate[E, F any](a Univariate[E], r ring.Ring[F], f func(E) F) Univariate[F] {
	out := make([]F, len(a.cs))
	for i, c := range a.cs {
		out[i] = f(c)
	}
	return Univariate[F]{r: r, cs: trim(r, out)}
}

func (a Univariate[E]) Format(name string) string {
	return a.Multivariate(1, 0).Format([]string{name})
}

func (a Univariate[E]) String() string {
	return a.Format("x")
}
