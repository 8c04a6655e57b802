package gcd

import (
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// Euclid returns the monic gcd of two univariate polynomials over a field.
// Every step divides by a monic remainder, so degrees strictly decrease.
func Euclid[E any](a, b poly.Univariate[E]) poly.Univariate[E] {
	for !b.IsZero() {
		a, b = b, a.Rem(b)
	}
	return a.Monic()
}

// ExtendedEuclid returns g = gcd(a, b) monic together with s and t such
// that s*a + t*b = g, deg s < deg b and deg t < deg a.
func ExtendedEuclid[E any](a, b poly.Univariate[E]) (g, s, t poly.Univariate[E]) {
	r := a.Ring()
	zero := poly.NewUnivariate(r)
	one := poly.NewUnivariate(r, r.One())
	r0, r1 := a, b
	s0, s1 := one, zero
	t0, t1 := zero, one
	for !r1.IsZero() {
		q, rem := r0.DivRem(r1)
		r0, r1 = r1, rem
		s0, s1 = s1, s0.Sub(q.Mul(s1))
		t0, t1 = t1, t0.Sub(q.Mul(t1))
	}
	if r0.IsZero() {
		return r0, zero, zero
	}
	inv, ok := r.Quo(r.One(), r0.Lc())
	if !ok {
		panic(ring.Invalidf("leading coefficient %s is not a unit", r.Format(r0.Lc())))
	}
	return r0.Scale(inv), s0.Scale(inv), t0.Scale(inv)
}

// Univariate dispatches a univariate gcd: Euclid over fields, primitive
// remainder sequence otherwise.
func Univariate[E any](a, b poly.Univariate[E]) poly.Univariate[E] {
	if a.Ring().IsField() {
		if a.IsZero() && b.IsZero() {
			return a
		}
		return Euclid(a, b)
	}
	return primitiveUnivariate(a, b)
}

// primitiveUnivariate runs the primitive PRS over a gcd domain
func primitiveUnivariate[E any](a, b poly.Univariate[E]) poly.Univariate[E] {
	r := a.Ring()
	if a.IsZero() {
		return Normalize(b.Multivariate(1, 0)).Univariate(0)
	}
	if b.IsZero() {
		return Normalize(a.Multivariate(1, 0)).Univariate(0)
	}
	c := coeffGcd(r, a.Content(), b.Content())
	a, b = a.PrimitivePart(), b.PrimitivePart()
	if a.Degree() < b.Degree() {
		a, b = b, a
	}
	for !b.IsZero() {
		_, rem := a.PseudoDivRem(b)
		a, b = b, rem
		if !b.IsZero() {
			b = b.PrimitivePart()
		}
	}
	return Normalize(a.PrimitivePart().Scale(c).Multivariate(1, 0)).Univariate(0)
}
