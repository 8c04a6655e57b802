package poly

import "github.com/ppopth/polyfactor/ring"

// kroneckerLimit bounds the length of a Kronecker image
const kroneckerLimit = 1 << 22

// Kronecker maps p to a univariate polynomial by the substitution
// x_i -> x^(w_i), where w_i is the product of the radices of the variables
// after i. Every exponent of x_i must be below radices[i].
func Kronecker[E any](p Poly[E], radices []int) Univariate[E] {
	if len(radices) != p.nvars {
		panic(ring.Invalidf("%d radices for %d variables", len(radices), p.nvars))
	}
	if p.IsZero() {
		return Univariate[E]{r: p.r}
	}
	size := 1
	for _, b := range radices {
		size *= b
	}
	cs := make([]E, size)
	for i := range cs {
		cs[i] = p.r.Zero()
	}
	for _, t := range p.terms {
		cs[kroneckerIndex(t.Exp, radices)] = t.Coef
	}
	return Univariate[E]{r: p.r, cs: trim(p.r, cs)}
}

func kroneckerIndex(e Exponents, radices []int) int {
	idx := 0
	for i, k := range e {
		if k >= radices[i] {
			panic(ring.Invalidf("exponent %d does not fit radix %d", k, radices[i]))
		}
		idx = idx*radices[i] + k
	}
	return idx
}

// FromKronecker inverts Kronecker
func FromKronecker[E any](u Univariate[E], nvars int, radices []int) Poly[E] {
	terms := make([]Term[E], 0)
	for i := len(u.cs) - 1; i >= 0; i-- {
		if u.r.IsZero(u.cs[i]) {
			continue
		}
		e := NewExponents(nvars)
		idx := i
		for v := nvars - 1; v >= 0; v-- {
			e[v] = idx % radices[v]
			idx /= radices[v]
		}
		terms = append(terms, Term[E]{Exp: e, Coef: u.cs[i]})
	}
	// mixed radix order agrees with lex order, so terms are already sorted
	return Poly[E]{r: u.r, nvars: nvars, terms: terms}
}

// kroneckerRadix decides whether p*q is better computed through a dense
// Kronecker image and returns the radices to use.
func kroneckerRadix[E any](p, q Poly[E]) ([]int, bool) {
	if p.nvars < 2 || len(p.terms)*len(q.terms) < 256 {
		return nil, false
	}
	dp, dq := p.Degrees(), q.Degrees()
	radices := make([]int, p.nvars)
	size, sp, sq := 1, 1, 1
	for i := range radices {
		radices[i] = dp[i] + dq[i] + 1
		size *= radices[i]
		sp *= dp[i] + 1
		sq *= dq[i] + 1
		if size > kroneckerLimit {
			return nil, false
		}
	}
	if 4*len(p.terms) < sp || 4*len(q.terms) < sq {
		return nil, false
	}
	return radices, true
}
