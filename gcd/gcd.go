// Package gcd computes greatest common divisors, resultants and coprime
// bases of polynomials.
//
// Every strategy returns a normalised gcd: monic over fields and with a
// positive leading coefficient over ordered rings such as Z. The gcd with
// zero is the normalised other operand and gcd(0, 0) = 0.
package gcd

import (
	"context"

	logging "github.com/ipfs/go-log/v2"

	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

var log = logging.Logger("gcd")

// Strategy computes greatest common divisors over one coefficient ring.
// Implementations must be safe for concurrent use.
type Strategy[E any] interface {
	Gcd(ctx context.Context, a, b poly.Poly[E]) (poly.Poly[E], error)
}

// Func adapts a plain function to the Strategy interface
type Func[E any] func(ctx context.Context, a, b poly.Poly[E]) (poly.Poly[E], error)

func (f Func[E]) Gcd(ctx context.Context, a, b poly.Poly[E]) (poly.Poly[E], error) {
	return f(ctx, a, b)
}

// Normalize makes p monic over a field and gives it a positive leading
// coefficient over an ordered ring.
func Normalize[E any](p poly.Poly[E]) poly.Poly[E] {
	if p.IsZero() {
		return p
	}
	r := p.Ring()
	if r.IsField() {
		return p.Monic()
	}
	if o, ok := r.(ring.Ordered[E]); ok && o.Sign(p.Lc()) < 0 {
		return p.Neg()
	}
	return p
}

// coeffGcd is the gcd of two coefficients: 1 over a field, the ring gcd
// over a gcd domain.
func coeffGcd[E any](r ring.Ring[E], a, b E) E {
	if r.IsZero(a) && r.IsZero(b) {
		return r.Zero()
	}
	if r.IsField() {
		return r.One()
	}
	if g, ok := r.(ring.GcdDomain[E]); ok {
		return g.Gcd(a, b)
	}
	return r.One()
}

// constantGcd handles the case where one operand is a nonzero constant
func constantGcd[E any](c, p poly.Poly[E]) poly.Poly[E] {
	r := c.Ring()
	g := coeffGcd(r, c.Lc(), p.Content())
	return Normalize(poly.Constant(r, c.NVars(), g))
}

// All folds a strategy over a list of polynomials
func All[E any](ctx context.Context, s Strategy[E], ps ...poly.Poly[E]) (poly.Poly[E], error) {
	if len(ps) == 0 {
		panic(ring.Invalidf("gcd of an empty list"))
	}
	g := Normalize(ps[0])
	for _, p := range ps[1:] {
		if g.IsOne() {
			break
		}
		var err error
		if g, err = s.Gcd(ctx, g, p); err != nil {
			return g, err
		}
	}
	return g, nil
}

// LCM returns the normalised least common multiple
func LCM[E any](ctx context.Context, s Strategy[E], a, b poly.Poly[E]) (poly.Poly[E], error) {
	if a.IsZero() || b.IsZero() {
		return poly.Zero(a.Ring(), a.NVars()), nil
	}
	g, err := s.Gcd(ctx, a, b)
	if err != nil {
		return g, err
	}
	q, ok := a.Quo(g)
	if !ok {
		return q, ring.Invalidf("gcd %s does not divide %s", g, a)
	}
	return Normalize(q.Mul(b)), nil
}

// ContentIn returns the gcd of the coefficients of p seen as a polynomial
// in x_v, itself a polynomial free of x_v.
func ContentIn[E any](ctx context.Context, s Strategy[E], p poly.Poly[E], v int) (poly.Poly[E], error) {
	rc := poly.ToRecursive(p, v)
	if rc.Degree() < 0 {
		return p, nil
	}
	var nonzero []poly.Poly[E]
	for _, c := range rc.Coeffs {
		if !c.IsZero() {
			nonzero = append(nonzero, c)
		}
	}
	return All(ctx, s, nonzero...)
}

// PrimitivePartIn divides p by its content with respect to x_v
func PrimitivePartIn[E any](ctx context.Context, s Strategy[E], p poly.Poly[E], v int) (poly.Poly[E], poly.Poly[E], error) {
	c, err := ContentIn(ctx, s, p, v)
	if err != nil {
		return p, c, err
	}
	q, ok := p.Quo(c)
	if !ok {
		return p, c, ring.Invalidf("content %s does not divide %s", c, p)
	}
	return q, c, nil
}
