package factor

import (
	"context"
	"fmt"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// bezoutFactors returns s_i with sum_i s_i * prod_{j != i} a_j = 1 and
// deg s_i < deg a_i, for pairwise coprime a_i over a field.
func bezoutFactors[E any](as []poly.Univariate[E]) ([]poly.Univariate[E], error) {
	out := make([]poly.Univariate[E], len(as))
	for i := range as {
		b := poly.NewUnivariate(as[i].Ring(), as[i].Ring().One())
		for j, a := range as {
			if j != i {
				b = b.Mul(a)
			}
		}
		g, s, _ := gcd.ExtendedEuclid(b, as[i])
		if !g.IsOne() {
			return nil, fmt.Errorf("%w: factor %s shares a root with the others", ring.ErrNoLifting, as[i])
		}
		out[i] = s.Rem(as[i])
	}
	return out, nil
}

// diophantine solves sum_i sigma_i * prod_{j != i} a_j = c for polynomials
// in the variable x and the evaluation variables vs, with deg_x sigma_i <
// deg_x a_i. The equation is reduced to the univariate case by evaluating
// vs at pts and the solution is lifted back through Taylor expansion about
// each point, up to total degree deg.
type diophantine[E any] struct {
	x   int
	vs  []int
	pts []E // indexed by variable
	deg int
	// univariate Bezout data of the fully evaluated a_i
	base  []poly.Univariate[E]
	sigma []poly.Univariate[E]
}

func newDiophantine[E any](as []poly.Poly[E], x int, vs []int, pts []E, deg int) (*diophantine[E], error) {
	base := make([]poly.Univariate[E], len(as))
	for i, a := range as {
		for _, v := range vs {
			a = a.Evaluate(v, pts[v])
		}
		base[i] = a.Univariate(x)
	}
	sigma, err := bezoutFactors(base)
	if err != nil {
		return nil, err
	}
	return &diophantine[E]{x: x, vs: vs, pts: pts, deg: deg, base: base, sigma: sigma}, nil
}

// solve returns sigma_i for the given a_i (which must evaluate to the a_i
// the solver was built for) and right hand side c.
func (d *diophantine[E]) solve(ctx context.Context, as []poly.Poly[E], c poly.Poly[E]) ([]poly.Poly[E], error) {
	return d.solveIn(ctx, as, c, len(d.vs))
}

func (d *diophantine[E]) solveIn(ctx context.Context, as []poly.Poly[E], c poly.Poly[E], level int) ([]poly.Poly[E], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := c.NVars()
	if level == 0 {
		cu := c.Univariate(d.x)
		out := make([]poly.Poly[E], len(as))
		for i := range as {
			out[i] = cu.Mul(d.sigma[i]).Rem(d.base[i]).Multivariate(n, d.x)
		}
		return out, nil
	}
	v := d.vs[level-1]
	alpha := d.pts[v]
	r := c.Ring()

	prod := poly.One(r, n)
	for _, a := range as {
		prod = prod.Mul(a)
	}
	bs := make([]poly.Poly[E], len(as))
	lower := make([]poly.Poly[E], len(as))
	for i, a := range as {
		bs[i], _ = prod.Quo(a)
		lower[i] = a.Evaluate(v, alpha)
	}

	sigma, err := d.solveIn(ctx, lower, c.Evaluate(v, alpha), level-1)
	if err != nil {
		return nil, err
	}
	e := c.Sub(combine(sigma, bs, n, r))
	linear := poly.Var(r, n, v).Sub(poly.Constant(r, n, alpha))
	mon := poly.One(r, n)
	for k := 1; k <= d.deg && !e.IsZero(); k++ {
		mon = mon.Mul(linear)
		ck := e.Shift(v, alpha).CoeffIn(v, k)
		if ck.IsZero() {
			continue
		}
		ds, err := d.solveIn(ctx, lower, ck, level-1)
		if err != nil {
			return nil, err
		}
		for i := range ds {
			ds[i] = ds[i].Mul(mon)
			sigma[i] = sigma[i].Add(ds[i])
		}
		e = e.Sub(combine(ds, bs, n, r))
	}
	if !e.IsZero() {
		return nil, fmt.Errorf("%w: diophantine residue %s", ring.ErrNoLifting, e)
	}
	return sigma, nil
}

func combine[E any](sigma, bs []poly.Poly[E], n int, r ring.Ring[E]) poly.Poly[E] {
	s := poly.Zero(r, n)
	for i := range sigma {
		s = s.Add(sigma[i].Mul(bs[i]))
	}
	return s
}
