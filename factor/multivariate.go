package factor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// multivariate factors squarefree polynomials in two or more variables over
// a field. The polynomial is evaluated at a random point in every variable
// but the main one, the univariate image is factored, the factors are
// lifted to the bivariate image by power series Hensel lifting and
// recombined, and the bivariate factors are lifted one variable at a time
// by multivariate Hensel lifting.
type multivariate[E any] struct {
	r    ring.Ring[E]
	gcd  gcd.Strategy[E]
	opts Options
	// univariate returns the irreducible factors of a squarefree polynomial
	// in one variable
	univariate func(ctx context.Context, st *state, p poly.Poly[E]) ([]poly.Poly[E], error)
	// full factors any polynomial completely
	full func(ctx context.Context, st *state, p poly.Poly[E]) (poly.FactorMultiset[E], error)
	// point draws an evaluation value below the given bound
	point func(rnd *rand.Rand, bound int64) E
}

// errDistribution reports that Wang's method cannot predict the leading
// coefficients at an evaluation point and imposition is not allowed yet
var errDistribution = fmt.Errorf("%w: leading coefficient distribution failed", ring.ErrNoLifting)

// evaluation fixes the variable roles for one evaluation point: x is kept,
// y is recovered by bivariate lifting and zs one at a time afterwards.
type evaluation[E any] struct {
	x, y int
	zs   []int
	pt   []E

	// impose allows lc(p) to be imposed when Wang's method fails
	impose bool
}

func (ev *evaluation[E]) at(p poly.Poly[E], vs []int) poly.Poly[E] {
	for _, v := range vs {
		p = p.Evaluate(v, ev.pt[v])
	}
	return p
}

// split returns the irreducible factors of p, which is squarefree,
// primitive in its main variable and free of monomial content.
func (m *multivariate[E]) split(ctx context.Context, st *state, p poly.Poly[E]) ([]poly.Poly[E], error) {
	x := mainVariable(p)
	if x != p.MainVar() {
		// inseparable in the main variable; move to one where p is separable
		pp, c, err := gcd.PrimitivePartIn(ctx, m.gcd, p, x)
		if err != nil {
			return nil, err
		}
		if !c.IsConstant() {
			return m.splitEach(ctx, st, c, pp)
		}
		p = pp
	}
	var rest []int
	for _, v := range p.Vars() {
		if v != x {
			rest = append(rest, v)
		}
	}
	lc := p.LcIn(x)
	misses := 0
	for attempt := 0; attempt < m.opts.PointAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev := &evaluation[E]{
			x:      x,
			y:      rest[0],
			zs:     rest[1:],
			pt:     make([]E, p.NVars()),
			impose: misses >= m.opts.WangAttempts || attempt == m.opts.PointAttempts-1,
		}
		// each failed distribution widens the range the next point comes from
		bound := m.opts.PointBound<<min(misses, 16) + int64(attempt)
		for _, v := range rest {
			ev.pt[v] = m.point(st.rnd, bound)
		}
		if ev.at(lc, rest).IsZero() {
			continue
		}
		u := ev.at(p, rest)
		if !squarefreeUnivariate(u, x) {
			continue
		}
		if len(ev.zs) > 0 {
			c, err := gcd.ContentIn(ctx, m.gcd, ev.at(p, ev.zs), x)
			if err != nil {
				return nil, err
			}
			if !c.IsConstant() {
				continue
			}
		}
		fs, err := m.factorAt(ctx, st, p, ev, u)
		if errors.Is(err, errDistribution) {
			misses++
			log.Debugf("leading coefficient of %s not distributed at point %d (%d misses)", p, attempt, misses)
			continue
		}
		if errors.Is(err, ring.ErrNoLifting) {
			log.Debugf("unlucky evaluation point for %s: %v", p, err)
			continue
		}
		return fs, err
	}
	return nil, &ring.ExhaustionError{
		What:     "evaluation point",
		Attempts: m.opts.PointAttempts,
		Context:  fmt.Sprintf("%s over %s", p, m.r),
	}
}

// mainVariable picks the variable evaluation keeps: the main variable, or
// in characteristic p the first one p is separable in.
func mainVariable[E any](p poly.Poly[E]) int {
	for _, v := range p.Vars() {
		if !p.Derivative(v).IsZero() {
			return v
		}
	}
	return p.MainVar()
}

// splitEach factors every part completely
func (m *multivariate[E]) splitEach(ctx context.Context, st *state, parts ...poly.Poly[E]) ([]poly.Poly[E], error) {
	var out []poly.Poly[E]
	for _, q := range parts {
		fs, err := m.full(ctx, st, q)
		if err != nil {
			return nil, err
		}
		out = append(out, fs.Factors...)
	}
	return out, nil
}

func squarefreeUnivariate[E any](p poly.Poly[E], x int) bool {
	u := p.Univariate(x)
	d := u.Derivative()
	if d.IsZero() {
		return false
	}
	return gcd.Euclid(u, d).Degree() == 0
}

func (m *multivariate[E]) factorAt(ctx context.Context, st *state, p poly.Poly[E], ev *evaluation[E], u poly.Poly[E]) ([]poly.Poly[E], error) {
	us, err := m.univariate(ctx, st, u)
	if err != nil {
		return nil, err
	}
	if len(us) == 1 {
		return []poly.Poly[E]{p}, nil
	}
	if len(ev.zs) == 0 {
		return m.bivariate(ctx, p, ev.x, ev.y, ev.pt[ev.y], us)
	}
	bi, err := m.bivariate(ctx, ev.at(p, ev.zs), ev.x, ev.y, ev.pt[ev.y], us)
	if err != nil {
		return nil, err
	}
	if len(bi) == 1 {
		return []poly.Poly[E]{p}, nil
	}
	fs, err := m.lift(ctx, st, p, ev, bi)
	if err == nil {
		return fs, nil
	}
	if errors.Is(err, errDistribution) || !errors.Is(err, ring.ErrNoLifting) {
		return nil, err
	}
	log.Debugf("lifting %d factors of %s failed, trying pairs: %v", len(bi), p, err)
	return m.twoFactor(ctx, st, p, ev, bi)
}

// lift recovers the factors of p from the factors bi of its bivariate
// image. The leading coefficients of the factors are predicted with Wang's
// method when it applies, otherwise lc(p) is imposed on every factor and
// stripped again after lifting.
func (m *multivariate[E]) lift(ctx context.Context, st *state, p poly.Poly[E], ev *evaluation[E], bi []poly.Poly[E]) ([]poly.Poly[E], error) {
	x := ev.x
	p2 := ev.at(p, ev.zs)
	us := append([]poly.Poly[E](nil), bi...)
	unit, ok := p2.Quo(product(us, p2))
	if !ok || !unit.IsConstant() {
		return nil, fmt.Errorf("%w: bivariate factors do not multiply to %s", ring.ErrNoLifting, p2)
	}
	us[0] = us[0].Mul(unit)

	L := p.LcIn(x)
	target := p
	lcs := make([]poly.Poly[E], len(us))
	if L.IsConstant() {
		for i, g := range us {
			lcs[i] = g.LcIn(x)
		}
	} else if wl, ok := m.wang(ctx, st, L, ev, us); ok {
		lcs = wl
	} else if !ev.impose {
		return nil, errDistribution
	} else {
		L2 := ev.at(L, ev.zs)
		for i, g := range us {
			scale, ok := L2.Quo(g.LcIn(x))
			if !ok {
				return nil, fmt.Errorf("%w: leading coefficient of %s does not divide %s", ring.ErrNoLifting, g, L2)
			}
			us[i] = g.Mul(scale)
			lcs[i] = L
		}
		target = p.Mul(L.Pow(len(us) - 1))
	}

	lifted, err := m.hensel(ctx, target, us, lcs, ev)
	if err != nil {
		return nil, err
	}
	out := make([]poly.Poly[E], 0, len(lifted))
	for _, g := range lifted {
		pp, _, err := gcd.PrimitivePartIn(ctx, m.gcd, g, x)
		if err != nil {
			return nil, err
		}
		if _, ok := p.Quo(pp); !ok {
			return nil, fmt.Errorf("%w: lifted %s does not divide %s", ring.ErrNoLifting, pp, p)
		}
		out = append(out, pp)
	}
	return out, nil
}

// wang distributes the irreducible factors of the leading coefficient L
// over the bivariate factors. It needs the images of the factors of L in y
// to be nonconstant and pairwise coprime.
func (m *multivariate[E]) wang(ctx context.Context, st *state, L poly.Poly[E], ev *evaluation[E], us []poly.Poly[E]) ([]poly.Poly[E], bool) {
	if L.IsConstant() {
		return nil, false
	}
	fs, err := m.full(ctx, st, L)
	if err != nil {
		log.Debugf("factoring leading coefficient %s: %v", L, err)
		return nil, false
	}
	images := make([]poly.Poly[E], len(fs.Factors))
	for j, f := range fs.Factors {
		images[j] = ev.at(f, ev.zs)
		if images[j].Degree(ev.y) <= 0 {
			return nil, false
		}
		for k := 0; k < j; k++ {
			g, err := m.gcd.Gcd(ctx, images[j], images[k])
			if err != nil || !g.IsConstant() {
				return nil, false
			}
		}
	}
	counts := make([]int, len(fs.Factors))
	lcs := make([]poly.Poly[E], len(us))
	for i, g := range us {
		lg := g.LcIn(ev.x)
		li := poly.One(L.Ring(), L.NVars())
		for j, img := range images {
			for {
				q, ok := lg.Quo(img)
				if !ok {
					break
				}
				lg = q
				li = li.Mul(fs.Factors[j])
				counts[j]++
			}
		}
		if !lg.IsConstant() {
			return nil, false
		}
		lcs[i] = li.Mul(lg)
	}
	for j, k := range fs.Exponents {
		if counts[j] != k {
			return nil, false
		}
	}
	return lcs, true
}

// hensel lifts the bivariate factors us of target(x, y, pt) to factors of
// target whose leading coefficients in x are lcs, one z at a time.
func (m *multivariate[E]) hensel(ctx context.Context, target poly.Poly[E], us, lcs []poly.Poly[E], ev *evaluation[E]) ([]poly.Poly[E], error) {
	x := ev.x
	n := target.NVars()
	r := target.Ring()
	vs := []int{ev.y}
	deg := target.TotalDegree()
	for j, z := range ev.zs {
		aj := ev.at(target, ev.zs[j+1:])
		prev := append([]poly.Poly[E](nil), us...)
		for i := range us {
			us[i] = replaceLc(us[i], x, ev.at(lcs[i], ev.zs[j+1:]))
		}
		dio, err := newDiophantine(prev, x, vs, ev.pt, deg)
		if err != nil {
			return nil, err
		}
		alpha := ev.pt[z]
		linear := poly.Var(r, n, z).Sub(poly.Constant(r, n, alpha))
		mon := poly.One(r, n)
		e := aj.Sub(product(us, aj))
		for k := 1; k <= aj.Degree(z) && !e.IsZero(); k++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			mon = mon.Mul(linear)
			c := e.Shift(z, alpha).CoeffIn(z, k)
			if c.IsZero() {
				continue
			}
			ds, err := dio.solve(ctx, prev, c)
			if err != nil {
				return nil, err
			}
			for i := range us {
				us[i] = us[i].Add(ds[i].Mul(mon))
			}
			e = aj.Sub(product(us, aj))
		}
		if !e.IsZero() {
			return nil, fmt.Errorf("%w: no lifting in variable %d", ring.ErrNoLifting, z)
		}
		vs = append(vs, z)
	}
	return us, nil
}

// twoFactor splits p into two factors by lifting every subset of bi
// against its complement; each side is then factored again from scratch.
func (m *multivariate[E]) twoFactor(ctx context.Context, st *state, p poly.Poly[E], ev *evaluation[E], bi []poly.Poly[E]) ([]poly.Poly[E], error) {
	r := len(bi)
	pairs := *ev
	pairs.impose = true
	for s := 1; 2*s <= r; s++ {
		idx := firstSubset(s)
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var left, right []poly.Poly[E]
			for i, g := range bi {
				if containsIndex(idx, i) {
					left = append(left, g)
				} else {
					right = append(right, g)
				}
			}
			pair := []poly.Poly[E]{product(left, p), product(right, p)}
			gh, err := m.lift(ctx, st, p, &pairs, pair)
			if err == nil {
				return m.splitEach(ctx, st, gh...)
			}
			if !errors.Is(err, ring.ErrNoLifting) {
				return nil, err
			}
			if !nextSubset(idx, r) {
				break
			}
		}
	}
	log.Debugf("no pair of the %d bivariate factors lifts, keeping %s irreducible", r, p)
	return []poly.Poly[E]{p}, nil
}

// replaceLc sets the leading coefficient of u in x to l
func replaceLc[E any](u poly.Poly[E], x int, l poly.Poly[E]) poly.Poly[E] {
	d := u.Degree(x)
	e := poly.NewExponents(u.NVars()).With(x, d)
	one := u.Ring().One()
	return u.Sub(u.LcIn(x).MulTerm(one, e)).Add(l.MulTerm(one, e))
}

func product[E any](ps []poly.Poly[E], like poly.Poly[E]) poly.Poly[E] {
	out := poly.One(like.Ring(), like.NVars())
	for _, p := range ps {
		out = out.Mul(p)
	}
	return out
}
