// Package sqf computes squarefree decompositions of multivariate
// polynomials: p = unit * prod f_i^i with the f_i squarefree and pairwise
// coprime.
//
// In characteristic zero the decomposition runs Yun's algorithm one
// variable at a time on the primitive part and recurses into the content.
// In characteristic p it runs Musser's algorithm with the gcd of all
// partial derivatives, taking p-th roots where the derivatives vanish.
package sqf

import (
	"context"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

var log = logging.Logger("sqf")

// Engine decomposes polynomials over one coefficient ring
type Engine[E any] struct {
	Gcd gcd.Strategy[E]
}

// New creates a squarefree engine backed by the given gcd strategy
func New[E any](s gcd.Strategy[E]) *Engine[E] {
	return &Engine[E]{Gcd: s}
}

// Factors returns the squarefree decomposition of p. The product of the
// result equals p exactly; every factor is in canonical form (see
// poly.Canonical) and the unit carries the remaining constant.
func (e *Engine[E]) Factors(ctx context.Context, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
	if p.IsConstant() {
		return poly.NewFactorMultiset(p), nil
	}
	r := p.Ring()
	var (
		fs  poly.FactorMultiset[E]
		err error
	)
	if r.Characteristic().Sign() == 0 {
		fs, err = e.yun(ctx, p)
	} else {
		if !r.IsField() {
			return poly.FactorMultiset[E]{}, fmt.Errorf("%w: squarefree decomposition over %s", ring.ErrUnsupportedDomain, r)
		}
		fs, err = e.musser(ctx, p)
	}
	if err != nil {
		return fs, err
	}
	return Complete(p, fs)
}

// IsSquarefree reports whether no factor of p occurs twice
func (e *Engine[E]) IsSquarefree(ctx context.Context, p poly.Poly[E]) (bool, error) {
	fs, err := e.Factors(ctx, p)
	if err != nil {
		return false, err
	}
	for _, k := range fs.Exponents {
		if k > 1 {
			return false, nil
		}
	}
	return true, nil
}

// Part returns the product of the distinct squarefree factors of p
func (e *Engine[E]) Part(ctx context.Context, p poly.Poly[E]) (poly.Poly[E], error) {
	fs, err := e.Factors(ctx, p)
	if err != nil {
		return p, err
	}
	out := poly.One(p.Ring(), p.NVars())
	for _, f := range fs.Factors {
		out = out.Mul(f)
	}
	return out, nil
}

// Complete canonicalises the factors of fs and recomputes the unit so that
// the product equals p.
func Complete[E any](p poly.Poly[E], fs poly.FactorMultiset[E]) (poly.FactorMultiset[E], error) {
	out := poly.NewFactorMultiset(poly.One(p.Ring(), p.NVars()))
	for i, f := range fs.Factors {
		out.Add(poly.Canonical(f), fs.Exponents[i])
	}
	unit, ok := p.Quo(out.Product())
	if !ok || !unit.IsConstant() {
		return out, fmt.Errorf("%w: factors of %s do not multiply back to it", ring.ErrInvalidOperation, p)
	}
	out.Unit = unit
	return out.Sorted(), nil
}

// monomials splits the monomial content off p
func monomials[E any](p poly.Poly[E], out *poly.FactorMultiset[E]) poly.Poly[E] {
	mc := p.MonomialContent()
	for v, k := range mc {
		out.Add(poly.Var(p.Ring(), p.NVars(), v), k)
	}
	return p.DivideMonomial(mc)
}

func (e *Engine[E]) yun(ctx context.Context, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
	out := poly.NewFactorMultiset(poly.One(p.Ring(), p.NVars()))
	p = monomials(p, &out)
	if p.IsConstant() {
		return out, nil
	}
	v := p.MainVar()
	pp, c, err := gcd.PrimitivePartIn(ctx, e.Gcd, p, v)
	if err != nil {
		return out, err
	}
	if !c.IsConstant() {
		cf, err := e.yun(ctx, c)
		if err != nil {
			return out, err
		}
		out.Merge(cf)
	}

	df := pp.Derivative(v)
	a, err := e.Gcd.Gcd(ctx, pp, df)
	if err != nil {
		return out, err
	}
	b, err := quo(pp, a)
	if err != nil {
		return out, err
	}
	cc, err := quo(df, a)
	if err != nil {
		return out, err
	}
	d := cc.Sub(b.Derivative(v))
	for i := 1; b.Degree(v) > 0; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if a, err = e.Gcd.Gcd(ctx, b, d); err != nil {
			return out, err
		}
		out.Add(a, i)
		if b, err = quo(b, a); err != nil {
			return out, err
		}
		if cc, err = quo(d, a); err != nil {
			return out, err
		}
		d = cc.Sub(b.Derivative(v))
	}
	return out, nil
}

func (e *Engine[E]) musser(ctx context.Context, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
	out := poly.NewFactorMultiset(poly.One(p.Ring(), p.NVars()))
	p = monomials(p, &out)
	if p.IsConstant() {
		return out, nil
	}
	ps := []poly.Poly[E]{p}
	for _, v := range p.Vars() {
		if d := p.Derivative(v); !d.IsZero() {
			ps = append(ps, d)
		}
	}
	if len(ps) == 1 {
		sub, err := e.pthPower(ctx, p)
		if err != nil {
			return out, err
		}
		out.Merge(sub)
		return out, nil
	}

	c, err := gcd.All(ctx, e.Gcd, ps...)
	if err != nil {
		return out, err
	}
	w, err := quo(p, c)
	if err != nil {
		return out, err
	}
	for i := 1; !w.IsConstant(); i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		y, err := e.Gcd.Gcd(ctx, w, c)
		if err != nil {
			return out, err
		}
		z, err := quo(w, y)
		if err != nil {
			return out, err
		}
		out.Add(z, i)
		w = y
		if c, err = quo(c, y); err != nil {
			return out, err
		}
	}
	if !c.IsConstant() {
		sub, err := e.pthPower(ctx, c)
		if err != nil {
			return out, err
		}
		out.Merge(sub)
	}
	return out, nil
}

// pthPower decomposes a polynomial whose partial derivatives all vanish.
// When the coefficients are p-th powers p is a p-th power. Otherwise p is
// q(x^p): q is decomposed and each squarefree factor is substituted back
// and split by inseparable.
func (e *Engine[E]) pthPower(ctx context.Context, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
	k := int(p.Ring().Characteristic().Int64())
	if root, ok := p.RootCharacteristic(); ok {
		sub, err := e.musser(ctx, root)
		if err != nil {
			return sub, err
		}
		return sub.Raise(k), nil
	}
	out := poly.NewFactorMultiset(poly.One(p.Ring(), p.NVars()))
	q, ok := p.Deflate(k)
	if !ok {
		return out, fmt.Errorf("%w: %s has a nonzero derivative", ring.ErrInvalidOperation, p)
	}
	qs, err := e.musser(ctx, q)
	if err != nil {
		return out, err
	}
	for i, g := range qs.Factors {
		sub, err := e.inseparable(ctx, g.Inflate(k))
		if err != nil {
			return out, err
		}
		out.Merge(sub.Raise(qs.Exponents[i]))
	}
	return out, nil
}

// inseparable decomposes h = g(x^p) for a squarefree g. Such h is A * B^p
// where A is squarefree and B collects the components of h whose
// coefficients are p-th powers. The derivations of the coefficient field
// kill B^p, so gcd(h, D_i h) = B^p.
func (e *Engine[E]) inseparable(ctx context.Context, h poly.Poly[E]) (poly.FactorMultiset[E], error) {
	k := int(h.Ring().Characteristic().Int64())
	if root, ok := h.RootCharacteristic(); ok {
		sub, err := e.musser(ctx, root)
		if err != nil {
			return sub, err
		}
		return sub.Raise(k), nil
	}
	out := poly.NewFactorMultiset(poly.One(h.Ring(), h.NVars()))
	d, ok := h.Ring().(ring.Differential[E])
	if !ok {
		log.Debugf("no derivations over %s, keeping %s as one inseparable factor", h.Ring(), h)
		out.Add(h, 1)
		return out, nil
	}
	h = h.Monic()
	ps := []poly.Poly[E]{h}
	for i := 0; i < d.Derivations(); i++ {
		dh := poly.Map(h, h.Ring(), func(c E) E { return d.Derive(c, i) })
		if !dh.IsZero() {
			ps = append(ps, dh)
		}
	}
	c, err := gcd.All(ctx, e.Gcd, ps...)
	if err != nil {
		return out, err
	}
	a, err := quo(h, c)
	if err != nil {
		return out, err
	}
	if !a.IsConstant() {
		out.Add(a, 1)
	}
	if c.IsConstant() {
		return out, nil
	}
	root, ok := c.Monic().RootCharacteristic()
	if !ok {
		return out, fmt.Errorf("%w: %s is not a p-th power over %s", ring.ErrInvalidOperation, c, h.Ring())
	}
	sub, err := e.musser(ctx, root)
	if err != nil {
		return out, err
	}
	out.Merge(sub.Raise(k))
	return out, nil
}

func quo[E any](a, b poly.Poly[E]) (poly.Poly[E], error) {
	q, ok := a.Quo(b)
	if !ok {
		return q, fmt.Errorf("%w: %s does not divide %s", ring.ErrInvalidOperation, b, a)
	}
	return q, nil
}
