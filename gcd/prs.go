package gcd

import (
	"context"
	"fmt"

	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// Variant selects the remainder sequence used by PRS
type Variant int

const (
	// Subresultant keeps coefficients small without content computations
	Subresultant Variant = iota
	// Primitive removes the content of every remainder
	Primitive
	// Euclidean uses monic remainders; it needs field coefficients and is
	// applied to univariate operands only, other inputs use Subresultant.
	Euclidean
)

func (v Variant) String() string {
	switch v {
	case Subresultant:
		return "subresultant"
	case Primitive:
		return "primitive"
	case Euclidean:
		return "euclidean"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// PRS computes gcds with polynomial remainder sequences over any gcd domain
// or field. Multivariate inputs are handled one variable at a time: the
// content with respect to the main variable is computed recursively and
// the sequence runs on the primitive parts.
type PRS[E any] struct {
	Variant Variant
}

// NewPRS creates a remainder sequence strategy
func NewPRS[E any](v Variant) *PRS[E] {
	return &PRS[E]{Variant: v}
}

func (s *PRS[E]) Gcd(ctx context.Context, a, b poly.Poly[E]) (poly.Poly[E], error) {
	switch {
	case a.IsZero():
		return Normalize(b), nil
	case b.IsZero():
		return Normalize(a), nil
	case a.IsConstant():
		return constantGcd(a, b), nil
	case b.IsConstant():
		return constantGcd(b, a), nil
	}
	if err := ctx.Err(); err != nil {
		return poly.Poly[E]{}, err
	}

	v := min(a.MainVar(), b.MainVar())
	pa, ca, err := PrimitivePartIn(ctx, s, a, v)
	if err != nil {
		return pa, err
	}
	pb, cb, err := PrimitivePartIn(ctx, s, b, v)
	if err != nil {
		return pb, err
	}
	c, err := s.Gcd(ctx, ca, cb)
	if err != nil {
		return c, err
	}
	g, err := s.primitive(ctx, pa, pb, v)
	if err != nil {
		return g, err
	}
	return Normalize(c.Mul(g)), nil
}

// primitive computes the gcd of two polynomials primitive in x_v
func (s *PRS[E]) primitive(ctx context.Context, a, b poly.Poly[E], v int) (poly.Poly[E], error) {
	one := poly.One(a.Ring(), a.NVars())
	if a.Degree(v) < b.Degree(v) {
		a, b = b, a
	}
	if b.Degree(v) == 0 {
		return one, nil
	}

	if s.Variant == Euclidean && a.Ring().IsField() && univariateIn(a, v) && univariateIn(b, v) {
		g := Euclid(a.Univariate(v), b.Univariate(v))
		return g.Multivariate(a.NVars(), v), nil
	}

	if s.Variant == Primitive {
		for {
			if err := ctx.Err(); err != nil {
				return one, err
			}
			_, r := a.PseudoDivRem(b, v)
			if r.IsZero() {
				break
			}
			if r.Degree(v) == 0 {
				return one, nil
			}
			pr, _, err := PrimitivePartIn(ctx, s, r, v)
			if err != nil {
				return pr, err
			}
			a, b = b, pr
		}
		return b, nil
	}

	// subresultant sequence
	g, h := one, one
	for {
		if err := ctx.Err(); err != nil {
			return one, err
		}
		delta := a.Degree(v) - b.Degree(v)
		_, r := a.PseudoDivRem(b, v)
		if r.IsZero() {
			break
		}
		if r.Degree(v) == 0 {
			return one, nil
		}
		a = b
		q, ok := r.Quo(g.Mul(h.Pow(delta)))
		if !ok {
			return one, ring.Invalidf("inexact subresultant division over %s", a.Ring())
		}
		b = q
		g = a.LcIn(v)
		switch {
		case delta == 1:
			h = g
		case delta > 1:
			num := g.Pow(delta)
			if h, ok = num.Quo(h.Pow(delta - 1)); !ok {
				return one, ring.Invalidf("inexact subresultant division over %s", a.Ring())
			}
		}
	}
	pb, _, err := PrimitivePartIn(ctx, s, b, v)
	return pb, err
}

// univariateIn reports whether x_v is the only variable of p
func univariateIn[E any](p poly.Poly[E], v int) bool {
	for i, d := range p.Degrees() {
		if i != v && d > 0 {
			return false
		}
	}
	return true
}
