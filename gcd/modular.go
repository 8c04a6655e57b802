package gcd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// Modular is Brown's dense evaluation/interpolation gcd over a finite
// field. The last variable is evaluated at successive field elements, the
// images are computed recursively, scaled by the image of the gcd of the
// leading coefficients and recombined by Newton interpolation. When the
// field runs out of usable points the remainder sequence takes over.
type Modular[E any] struct {
	Fallback Strategy[E]
	// MaxPoints caps the evaluation points tried per variable, 0 means all
	// field elements.
	MaxPoints int64
}

// NewModular creates a Brown gcd with a subresultant fallback
func NewModular[E any]() *Modular[E] {
	return &Modular[E]{Fallback: NewPRS[E](Subresultant)}
}

func (m *Modular[E]) Gcd(ctx context.Context, a, b poly.Poly[E]) (poly.Poly[E], error) {
	r := a.Ring()
	if _, ok := r.(ring.Enumerable[E]); !ok || !r.IsField() || !ring.IsFinite(r) {
		return poly.Poly[E]{}, fmt.Errorf("%w: modular gcd needs a finite field, got %s", ring.ErrUnsupportedDomain, r)
	}
	return m.gcd(ctx, a, b)
}

func (m *Modular[E]) gcd(ctx context.Context, a, b poly.Poly[E]) (poly.Poly[E], error) {
	switch {
	case a.IsZero():
		return Normalize(b), nil
	case b.IsZero():
		return Normalize(a), nil
	case a.IsConstant() || b.IsConstant():
		return poly.One(a.Ring(), a.NVars()), nil
	}
	vars := unionVars(a, b)
	if len(vars) == 1 {
		v := vars[0]
		return Euclid(a.Univariate(v), b.Univariate(v)).Multivariate(a.NVars(), v), nil
	}
	if err := ctx.Err(); err != nil {
		return poly.Poly[E]{}, err
	}

	y := vars[len(vars)-1]
	ca := contentOthers(a, y)
	cb := contentOthers(b, y)
	c := Euclid(ca, cb).Multivariate(a.NVars(), y)
	pa, _ := a.Quo(ca.Multivariate(a.NVars(), y))
	pb, _ := b.Quo(cb.Multivariate(b.NVars(), y))

	lcA, lcB := lcOthers(pa, y), lcOthers(pb, y)
	gamma := Euclid(lcA, lcB)
	bound := gamma.Degree() + min(pa.Degree(y), pb.Degree(y))

	g, ok, err := m.interpolate(ctx, pa, pb, y, gamma, lcA, lcB, bound)
	if err != nil {
		return g, err
	}
	if !ok {
		log.Warnf("evaluation points of %s exhausted in variable %d, falling back to %T", a.Ring(), y, m.Fallback)
		return m.Fallback.Gcd(ctx, a, b)
	}
	return Normalize(c.Mul(g)), nil
}

func (m *Modular[E]) interpolate(ctx context.Context, a, b poly.Poly[E], y int, gamma, lcA, lcB poly.Univariate[E], bound int) (poly.Poly[E], bool, error) {
	r := a.Ring()
	enum := r.(ring.Enumerable[E])
	nvars := a.NVars()
	yv := poly.Var(r, nvars, y)

	limit := r.Cardinality()
	if m.MaxPoints > 0 && limit.Cmp(big.NewInt(m.MaxPoints)) > 0 {
		limit = big.NewInt(m.MaxPoints)
	}

	var (
		h     poly.Poly[E]
		mod   poly.Poly[E]
		lead  poly.Exponents
		count int
	)
	for i := new(big.Int); i.Cmp(limit) < 0; i.Add(i, big.NewInt(1)) {
		if err := ctx.Err(); err != nil {
			return h, false, err
		}
		alpha := enum.Element(i)
		if r.IsZero(lcA.Eval(alpha)) || r.IsZero(lcB.Eval(alpha)) {
			continue
		}
		img, err := m.gcd(ctx, a.Evaluate(y, alpha), b.Evaluate(y, alpha))
		if err != nil {
			return img, false, err
		}
		img = img.Scale(gamma.Eval(alpha))
		le := img.LeadingExponents()

		if count > 0 {
			switch le.Cmp(lead) {
			case 1:
				log.Debugf("unlucky evaluation point %s", r.Format(alpha))
				continue
			case -1:
				count = 0
			}
		}
		lin := yv.Sub(poly.Constant(r, nvars, alpha))
		if count == 0 {
			h, mod, lead = img, lin, le
			count = 1
		} else {
			ma := mod.Evaluate(y, alpha).Tc()
			inv, _ := r.Quo(r.One(), ma)
			h = h.Add(img.Sub(h.Evaluate(y, alpha)).Mul(mod).Scale(inv))
			mod = mod.Mul(lin)
			count++
		}
		if count <= bound {
			continue
		}
		cand := h
		if cont := contentOthers(h, y); !cont.IsZero() {
			cand, _ = h.Quo(cont.Multivariate(nvars, y))
		}
		if _, ok := a.Quo(cand); ok {
			if _, ok := b.Quo(cand); ok {
				return cand, true, nil
			}
		}
		log.Debugf("interpolated gcd candidate failed the division test after %d points", count)
		count = 0
	}
	return h, false, nil
}

// unionVars returns the sorted variables occurring in a or b
func unionVars[E any](a, b poly.Poly[E]) []int {
	da, db := a.Degrees(), b.Degrees()
	var vs []int
	for i := range da {
		if da[i] > 0 || db[i] > 0 {
			vs = append(vs, i)
		}
	}
	return vs
}

// contentOthers is the gcd, in F[x_y], of the coefficients of p seen as a
// polynomial in the variables other than x_y.
func contentOthers[E any](p poly.Poly[E], y int) poly.Univariate[E] {
	groups := make(map[string][]poly.Term[E])
	var order []string
	for _, t := range p.Terms() {
		k := t.Exp.With(y, 0)
		key := fmt.Sprint([]int(k))
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		e := poly.NewExponents(p.NVars())
		e[y] = t.Exp[y]
		groups[key] = append(groups[key], poly.Term[E]{Exp: e, Coef: t.Coef})
	}
	g := poly.NewUnivariate(p.Ring())
	for _, key := range order {
		c := poly.FromTerms(p.Ring(), p.NVars(), groups[key]).Univariate(y)
		if g.IsZero() {
			g = c.Monic()
		} else {
			g = Euclid(g, c)
		}
		if g.Degree() == 0 {
			break
		}
	}
	return g
}

// lcOthers is the leading coefficient, in F[x_y], of p seen as a
// polynomial in the variables other than x_y.
func lcOthers[E any](p poly.Poly[E], y int) poly.Univariate[E] {
	lead := p.LeadingExponents().With(y, 0)
	var terms []poly.Term[E]
	for _, t := range p.Terms() {
		if t.Exp.With(y, 0).Cmp(lead) == 0 {
			e := poly.NewExponents(p.NVars())
			e[y] = t.Exp[y]
			terms = append(terms, poly.Term[E]{Exp: e, Coef: t.Coef})
		}
	}
	return poly.FromTerms(p.Ring(), p.NVars(), terms).Univariate(y)
}
