package factor

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
	"github.com/ppopth/polyfactor/sqf"
)

// NewFiniteField creates a factorizer over Z/p or GF(q). Univariate parts
// are split by distinct and equal degree factorization, multivariate ones
// by evaluation at random field elements and Hensel lifting.
func NewFiniteField[E any](r ring.Ring[E], s gcd.Strategy[E], opts Options) (*Factorizer[E], error) {
	if !r.IsField() || !ring.IsFinite(r) {
		return nil, fmt.Errorf("%w: finite field factorization over %s", ring.ErrUnsupportedDomain, r)
	}
	f := &Factorizer[E]{ring: r, sqf: sqf.New(s), gcd: s, opts: opts}
	uni := func(ctx context.Context, st *state, p poly.Poly[E]) ([]poly.Poly[E], error) {
		return finiteUnivariate(ctx, st, opts, p)
	}
	mv := &multivariate[E]{
		r:          r,
		gcd:        s,
		opts:       opts,
		univariate: uni,
		full:       f.factor,
		point: func(rnd *rand.Rand, _ int64) E {
			return r.Random(rnd, 0)
		},
	}
	f.split = func(ctx context.Context, st *state, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
		if len(p.Vars()) == 1 {
			fs, err := uni(ctx, st, p)
			return multiset(p, fs), err
		}
		fs, err := mv.split(ctx, st, p)
		return multiset(p, fs), err
	}
	return f, nil
}

// finiteUnivariate returns the monic irreducible factors of a squarefree
// polynomial in a single variable over a finite field.
func finiteUnivariate[E any](ctx context.Context, st *state, opts Options, p poly.Poly[E]) ([]poly.Poly[E], error) {
	v := p.MainVar()
	u := p.Univariate(v).Monic()
	parts, err := distinctDegree(ctx, u)
	if err != nil {
		return nil, err
	}
	var out []poly.Poly[E]
	for _, part := range parts {
		fs, err := equalDegree(ctx, st.rnd, opts.SplitAttempts, part.f, part.d)
		if err != nil {
			return nil, err
		}
		for _, g := range fs {
			out = append(out, g.Multivariate(p.NVars(), v))
		}
	}
	return out, nil
}

// degreePart is the product of all irreducible factors of degree d
type degreePart[E any] struct {
	f poly.Univariate[E]
	d int
}

// distinctDegree splits a monic squarefree f into products of irreducible
// factors of equal degree, using gcd(x^(q^d) - x, f).
func distinctDegree[E any](ctx context.Context, f poly.Univariate[E]) ([]degreePart[E], error) {
	r := f.Ring()
	q := r.Cardinality()
	x := poly.UnivariateMonomial(r, r.One(), 1)
	var out []degreePart[E]
	rest := f
	h := x.Rem(rest)
	for d := 1; 2*d <= rest.Degree(); d++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h = h.PowMod(q, rest)
		g := gcd.Euclid(h.Sub(x), rest)
		if g.Degree() > 0 {
			out = append(out, degreePart[E]{f: g, d: d})
			rest, _ = rest.Quo(g)
			h = h.Rem(rest)
		}
	}
	if rest.Degree() > 0 {
		out = append(out, degreePart[E]{f: rest.Monic(), d: rest.Degree()})
	}
	return out, nil
}

// equalDegree splits a monic product of irreducible factors of degree d
// with the Cantor-Zassenhaus algorithm. In characteristic 2 the splitting
// polynomial is the trace map instead of the (q^d - 1)/2 power.
func equalDegree[E any](ctx context.Context, rnd *rand.Rand, attempts int, f poly.Univariate[E], d int) ([]poly.Univariate[E], error) {
	n := f.Degree()
	if n <= d {
		return []poly.Univariate[E]{f}, nil
	}
	r := f.Ring()
	q := r.Cardinality()
	two := r.Characteristic().Cmp(big.NewInt(2)) == 0
	var exp *big.Int
	if !two {
		exp = new(big.Int).Exp(q, big.NewInt(int64(d)), nil)
		exp.Sub(exp, big.NewInt(1))
		exp.Rsh(exp, 1)
	}
	one := poly.NewUnivariate(r, r.One())
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a := randomUnivariate(r, rnd, n)
		if a.Degree() < 1 {
			continue
		}
		var b poly.Univariate[E]
		if two {
			b = trace(a, f, (q.BitLen()-1)*d)
		} else {
			b = a.PowMod(exp, f).Sub(one)
		}
		g := gcd.Euclid(b, f)
		if g.Degree() <= 0 || g.Degree() >= n {
			continue
		}
		h, _ := f.Quo(g)
		left, err := equalDegree(ctx, rnd, attempts, g, d)
		if err != nil {
			return nil, err
		}
		right, err := equalDegree(ctx, rnd, attempts, h.Monic(), d)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}
	return nil, &ring.ExhaustionError{
		What:     "equal degree split",
		Attempts: attempts,
		Context:  fmt.Sprintf("%s over %s", f, r),
	}
}

// trace returns a + a^2 + a^4 + ... + a^(2^(m-1)) mod f
func trace[E any](a, f poly.Univariate[E], m int) poly.Univariate[E] {
	t := a.Rem(f)
	s := t
	for i := 1; i < m; i++ {
		t = t.Mul(t).Rem(f)
		s = s.Add(t)
	}
	return s
}

// randomUnivariate returns a random polynomial of degree below n
func randomUnivariate[E any](r ring.Ring[E], rnd *rand.Rand, n int) poly.Univariate[E] {
	cs := make([]E, n)
	for i := range cs {
		cs[i] = r.Random(rnd, 0)
	}
	return poly.NewUnivariate(r, cs...)
}
