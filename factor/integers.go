package factor

import (
	"context"
	"math/big"
	"math/rand"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
	"github.com/ppopth/polyfactor/sqf"
)

// NewIntegers creates the factorizer over Z. Univariate parts go through
// Zassenhaus; multivariate ones are factored over Q and scaled back to
// primitive integer polynomials.
func NewIntegers(s gcd.Strategy[*big.Int], opts Options) *Factorizer[*big.Int] {
	q := NewRationals(gcd.NewPRS[*big.Rat](gcd.Subresultant), opts)
	f := &Factorizer[*big.Int]{ring: ring.Z, sqf: sqf.New(s), gcd: s, opts: opts}
	f.split = func(ctx context.Context, st *state, p poly.Poly[*big.Int]) (poly.FactorMultiset[*big.Int], error) {
		if len(p.Vars()) == 1 {
			v := p.MainVar()
			fs, err := zassenhaus(ctx, st, opts, p.Univariate(v))
			if err != nil {
				return poly.FactorMultiset[*big.Int]{}, err
			}
			out := make([]poly.Poly[*big.Int], len(fs))
			for i, g := range fs {
				out[i] = g.Multivariate(p.NVars(), v)
			}
			return multiset(p, out), nil
		}
		fs, err := q.split(ctx, st, toRationals(p))
		if err != nil {
			return poly.FactorMultiset[*big.Int]{}, err
		}
		out := poly.NewFactorMultiset(poly.One(ring.Z, p.NVars()))
		for i, g := range fs.Factors {
			out.Add(toIntegers(g), fs.Exponents[i])
		}
		return out, nil
	}
	return f
}

// NewRationals creates the factorizer over Q. Univariate parts are
// scaled to primitive integer polynomials and factored with Zassenhaus;
// multivariate ones use evaluation at small random integers.
func NewRationals(s gcd.Strategy[*big.Rat], opts Options) *Factorizer[*big.Rat] {
	f := &Factorizer[*big.Rat]{ring: ring.Q, sqf: sqf.New(s), gcd: s, opts: opts}
	uni := func(ctx context.Context, st *state, p poly.Poly[*big.Rat]) ([]poly.Poly[*big.Rat], error) {
		v := p.MainVar()
		fs, err := zassenhaus(ctx, st, opts, toIntegers(p).Univariate(v))
		if err != nil {
			return nil, err
		}
		out := make([]poly.Poly[*big.Rat], len(fs))
		for i, g := range fs {
			out[i] = toRationals(g.Multivariate(p.NVars(), v))
		}
		return out, nil
	}
	mv := &multivariate[*big.Rat]{
		r:          ring.Q,
		gcd:        s,
		opts:       opts,
		univariate: uni,
		full:       f.factor,
		point: func(rnd *rand.Rand, bound int64) *big.Rat {
			return big.NewRat(rnd.Int63n(2*bound+1)-bound, 1)
		},
	}
	f.split = func(ctx context.Context, st *state, p poly.Poly[*big.Rat]) (poly.FactorMultiset[*big.Rat], error) {
		var (
			fs  []poly.Poly[*big.Rat]
			err error
		)
		if len(p.Vars()) == 1 {
			fs, err = uni(ctx, st, p)
		} else {
			fs, err = mv.split(ctx, st, p)
		}
		return multiset(p, fs), err
	}
	return f
}

// toIntegers scales p to an integral primitive polynomial over Z
func toIntegers(p poly.Poly[*big.Rat]) poly.Poly[*big.Int] {
	return poly.Map[*big.Rat, *big.Int](poly.Canonical(p), ring.Z, func(c *big.Rat) *big.Int {
		return new(big.Int).Set(c.Num())
	})
}

func toRationals(p poly.Poly[*big.Int]) poly.Poly[*big.Rat] {
	return poly.Map[*big.Int, *big.Rat](p, ring.Q, func(c *big.Int) *big.Rat {
		return new(big.Rat).SetInt(c)
	})
}
