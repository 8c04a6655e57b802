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

// NewFraction creates the factorizer over a rational function field
// K(t_1, ..., t_m), given the factorizer over K. A polynomial is cleared of
// denominators, factored in K[x, t] and the factors involving x are mapped
// back; the others are constants of K(t) and end up in the unit.
func NewFraction[E any](fr *ext.Fractions[E], base *Factorizer[E], s gcd.Strategy[ext.Frac[E]], opts Options) (*Factorizer[ext.Frac[E]], error) {
	if !ring.Same[E](base.Ring(), fr.Base()) {
		return nil, fmt.Errorf("%w: base factorizer over %s for %s", ring.ErrInvalidOperation, base.Ring(), fr)
	}
	f := &Factorizer[ext.Frac[E]]{ring: fr, sqf: sqf.New(s), gcd: s, opts: opts}
	f.split = func(ctx context.Context, st *state, p poly.Poly[ext.Frac[E]]) (poly.FactorMultiset[ext.Frac[E]], error) {
		n := p.NVars()
		out := poly.NewFactorMultiset(poly.One[ext.Frac[E]](fr, n))
		cleared, err := clearDenominators(ctx, fr, base.gcd, p)
		if err != nil {
			return out, err
		}
		fs, err := base.factor(ctx, st, cleared)
		if err != nil {
			return out, err
		}
		for i, g := range fs.Factors {
			if involves(g, n) {
				out.Add(fromCleared(fr, g, n), fs.Exponents[i])
			}
		}
		return out, nil
	}
	return f, nil
}

// clearDenominators multiplies p by the lcm of its coefficient
// denominators and returns it as a polynomial over K in the variables of p
// followed by the parameters.
func clearDenominators[E any](ctx context.Context, fr *ext.Fractions[E], s gcd.Strategy[E], p poly.Poly[ext.Frac[E]]) (poly.Poly[E], error) {
	m := fr.NVars()
	lcm := poly.One(fr.Base(), m)
	for _, t := range p.Terms() {
		var err error
		if lcm, err = gcd.LCM(ctx, s, lcm, t.Coef.Den()); err != nil {
			return poly.Poly[E]{}, err
		}
	}
	var terms []poly.Term[E]
	for _, t := range p.Terms() {
		scale, ok := lcm.Quo(t.Coef.Den())
		if !ok {
			return poly.Poly[E]{}, fmt.Errorf("%w: %s does not divide %s", ring.ErrInvalidOperation, t.Coef.Den(), lcm)
		}
		for _, c := range t.Coef.Num().Mul(scale).Terms() {
			e := append(append(poly.Exponents(nil), t.Exp...), c.Exp...)
			terms = append(terms, poly.Term[E]{Exp: e, Coef: c.Coef})
		}
	}
	return poly.FromTerms(fr.Base(), p.NVars()+m, terms), nil
}

// involves reports whether g depends on one of its first n variables
func involves[E any](g poly.Poly[E], n int) bool {
	for _, v := range g.Vars() {
		if v < n {
			return true
		}
	}
	return false
}

// fromCleared maps a polynomial in n variables and the parameters back to
// a polynomial in n variables over K(t).
func fromCleared[E any](fr *ext.Fractions[E], g poly.Poly[E], n int) poly.Poly[ext.Frac[E]] {
	m := fr.NVars()
	idx := make(map[string]int)
	var (
		exps   []poly.Exponents
		groups [][]poly.Term[E]
	)
	for _, t := range g.Terms() {
		xe := append(poly.Exponents(nil), t.Exp[:n]...)
		k := xe.String()
		i, ok := idx[k]
		if !ok {
			i = len(exps)
			idx[k] = i
			exps = append(exps, xe)
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], poly.Term[E]{Exp: append(poly.Exponents(nil), t.Exp[n:]...), Coef: t.Coef})
	}
	terms := make([]poly.Term[ext.Frac[E]], len(exps))
	for i, e := range exps {
		terms[i] = poly.Term[ext.Frac[E]]{Exp: e, Coef: fr.FromPoly(poly.FromTerms(fr.Base(), m, groups[i]))}
	}
	return poly.FromTerms[ext.Frac[E]](fr, n, terms)
}
