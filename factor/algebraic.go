package factor

import (
	"context"
	"fmt"

	"github.com/ppopth/polyfactor/ext"
	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
	"github.com/ppopth/polyfactor/sqf"
)

// NewAlgebraic creates the factorizer over an algebraic extension K(a) of
// an infinite field K, given the factorizer over K. Towers are handled by
// passing the factorizer of the lower extension as base.
func NewAlgebraic[B any](k *ext.Extension[B], base *Factorizer[B], s gcd.Strategy[poly.Univariate[B]], opts Options) (*Factorizer[poly.Univariate[B]], error) {
	if k.Kind() != ring.KindAlgebraic {
		return nil, fmt.Errorf("%w: norm factorization over %s", ring.ErrUnsupportedDomain, k)
	}
	if !ring.Same[B](base.Ring(), k.Base()) {
		return nil, fmt.Errorf("%w: base factorizer over %s for %s", ring.ErrInvalidOperation, base.Ring(), k)
	}
	f := &Factorizer[poly.Univariate[B]]{ring: k, sqf: sqf.New(s), gcd: s, opts: opts}
	t := &trager[B]{k: k, base: base, gcd: s, opts: opts}
	f.split = func(ctx context.Context, st *state, p poly.Poly[poly.Univariate[B]]) (poly.FactorMultiset[poly.Univariate[B]], error) {
		fs, err := t.split(ctx, st, p)
		return multiset(p, fs), err
	}
	return f, nil
}

// trager factors over K(a) through the norm down to K
type trager[B any] struct {
	k    *ext.Extension[B]
	base *Factorizer[B]
	gcd  gcd.Strategy[poly.Univariate[B]]
	opts Options
}

// shiftAt enumerates 0, 1, -1, 2, -2, ...
func shiftAt(i int) int64 {
	if i%2 == 1 {
		return int64(i/2 + 1)
	}
	return -int64(i / 2)
}

func (t *trager[B]) split(ctx context.Context, st *state, p poly.Poly[poly.Univariate[B]]) ([]poly.Poly[poly.Univariate[B]], error) {
	k := t.k
	x := p.MainVar()
	alpha := k.Generator()
	for i := 0; i < t.opts.TragerShifts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := shiftAt(i)
		shifted := p.Shift(x, k.Mul(k.FromInt64(-s), alpha))
		norm := t.norm(shifted)
		ok, err := t.base.sqf.IsSquarefree(ctx, norm)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debugf("norm of %s shifted by %d is not squarefree", p, s)
			continue
		}
		fs, err := t.base.factor(ctx, st, norm)
		if err != nil {
			return nil, err
		}
		if len(fs.Factors) == 1 {
			return []poly.Poly[poly.Univariate[B]]{p}, nil
		}
		back := k.Mul(k.FromInt64(s), alpha)
		var out []poly.Poly[poly.Univariate[B]]
		for _, g := range fs.Factors {
			h, err := t.gcd.Gcd(ctx, shifted, poly.Map[B, poly.Univariate[B]](g, k, k.Embed))
			if err != nil {
				return nil, err
			}
			if !h.IsConstant() {
				out = append(out, h.Shift(x, back))
			}
		}
		return out, nil
	}
	return nil, &ring.ExhaustionError{
		What:     "squarefree norm",
		Attempts: t.opts.TragerShifts,
		Context:  fmt.Sprintf("%s over %s", p, k),
	}
}

// norm returns Res_y(m(y), p(x, y)), where the generator of K(a) in the
// coefficients of p is replaced by a new variable y.
func (t *trager[B]) norm(p poly.Poly[poly.Univariate[B]]) poly.Poly[B] {
	n := p.NVars()
	br := t.k.Base()
	var terms []poly.Term[B]
	for _, term := range p.Terms() {
		for j, c := range term.Coef.Coeffs() {
			if br.IsZero(c) {
				continue
			}
			e := append(append(poly.Exponents(nil), term.Exp...), j)
			terms = append(terms, poly.Term[B]{Exp: e, Coef: c})
		}
	}
	lifted := poly.FromTerms[B](br, n+1, terms)
	res := gcd.Resultant(t.k.Modulus().Multivariate(n+1, n), lifted, n)
	perm := make([]int, n+1)
	for i := 0; i < n; i++ {
		perm[i] = i
	}
	return res.Rename(n, perm)
}
