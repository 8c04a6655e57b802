package factor

import (
	"context"
	"fmt"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// series is a truncated power series in y whose coefficients are
// univariate polynomials in x
type series[E any] []poly.Univariate[E]

func zeroSeries[E any](r ring.Ring[E], n int) series[E] {
	s := make(series[E], n)
	for i := range s {
		s[i] = poly.NewUnivariate(r)
	}
	return s
}

// mulSeries returns a*b mod y^n
func mulSeries[E any](a, b series[E], n int) series[E] {
	out := zeroSeries(a[0].Ring(), n)
	for i := 0; i < n && i < len(a); i++ {
		if a[i].IsZero() {
			continue
		}
		for j := 0; i+j < n && j < len(b); j++ {
			out[i+j] = out[i+j].Add(a[i].Mul(b[j]))
		}
	}
	return out
}

// scaleSeries returns c*a mod y^n for a scalar series c
func scaleSeries[E any](c []E, a series[E], n int) series[E] {
	r := a[0].Ring()
	out := zeroSeries(r, n)
	for i := 0; i < n && i < len(c); i++ {
		if r.IsZero(c[i]) {
			continue
		}
		for j := 0; i+j < n && j < len(a); j++ {
			out[i+j] = out[i+j].Add(a[j].Scale(c[i]))
		}
	}
	return out
}

// inverseSeries returns 1/l mod y^n; l(0) must be invertible
func inverseSeries[E any](l poly.Univariate[E], n int) []E {
	r := l.Ring()
	inv0, ok := r.Quo(r.One(), l.Tc())
	if !ok {
		panic(ring.Invalidf("%s is not invertible as a power series", l))
	}
	out := make([]E, n)
	out[0] = inv0
	for k := 1; k < n; k++ {
		s := r.Zero()
		for j := 1; j <= k && j <= l.Degree(); j++ {
			s = r.Add(s, r.Mul(l.Coeff(j), out[k-j]))
		}
		out[k] = r.Neg(r.Mul(s, inv0))
	}
	return out
}

// toSeries expands p, a polynomial in x and y only, in powers of y
func toSeries[E any](p poly.Poly[E], x, y, n int) series[E] {
	out := zeroSeries(p.Ring(), n)
	for k := 0; k < n && k <= p.Degree(y); k++ {
		out[k] = p.CoeffIn(y, k).Univariate(x)
	}
	return out
}

func fromSeries[E any](s series[E], nvars, x, y int) poly.Poly[E] {
	r := s[0].Ring()
	out := poly.Zero(r, nvars)
	for k, c := range s {
		if c.IsZero() {
			continue
		}
		out = out.Add(c.Multivariate(nvars, x).MulTerm(r.One(), poly.NewExponents(nvars).With(y, k)))
	}
	return out
}

// liftSeries lifts the monic coprime factorization prod us = f(x, 0) to
// f mod y^n, for f monic in x.
func liftSeries[E any](ctx context.Context, f series[E], us []poly.Univariate[E], n int) ([]series[E], error) {
	sigma, err := bezoutFactors(us)
	if err != nil {
		return nil, err
	}
	r := f[0].Ring()
	lifted := make([]series[E], len(us))
	for i, u := range us {
		lifted[i] = zeroSeries(r, n)
		lifted[i][0] = u
	}
	for k := 1; k < n; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prod := lifted[0][:k+1]
		for _, s := range lifted[1:] {
			prod = mulSeries(prod, s[:k+1], k+1)
		}
		e := f[k].Sub(prod[k])
		if e.IsZero() {
			continue
		}
		for i, u := range us {
			lifted[i][k] = e.Mul(sigma[i]).Rem(u)
		}
	}
	return lifted, nil
}

// bivariate returns the irreducible factors of a squarefree p in x and y,
// primitive in x, given the irreducible factors us of p(x, b). The factors
// of the image are lifted modulo (y - b)^n, with n large enough to recover
// any true factor after multiplying by the leading coefficient, and
// recombined by trial division.
func (m *multivariate[E]) bivariate(ctx context.Context, p poly.Poly[E], x, y int, b E, us []poly.Poly[E]) ([]poly.Poly[E], error) {
	nv := p.NVars()
	shifted := p.Shift(y, b)
	lc := shifted.LcIn(x).Univariate(y)
	n := shifted.Degree(y) + lc.Degree() + 1

	images := make([]poly.Univariate[E], len(us))
	for i, u := range us {
		images[i] = u.Univariate(x).Monic()
	}
	monic := scaleSeries(inverseSeries(lc, n), toSeries(shifted, x, y, n), n)
	lifted, err := liftSeries(ctx, monic, images, n)
	if err != nil {
		return nil, err
	}

	var out []poly.Poly[E]
	rest := lifted
	cur := p
	negB := m.r.Neg(b)
	for s := 1; 2*s <= len(rest); {
		curLc := cur.Shift(y, b).LcIn(x).Univariate(y)
		lcSeries := make([]E, n)
		for k := range lcSeries {
			lcSeries[k] = curLc.Coeff(k)
		}
		found := false
		idx := firstSubset(s)
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cand := rest[idx[0]]
			for _, i := range idx[1:] {
				cand = mulSeries(cand, rest[i], n)
			}
			g := fromSeries(scaleSeries(lcSeries, cand, n), nv, x, y).Shift(y, negB)
			g, _, err = gcd.PrimitivePartIn(ctx, m.gcd, g, x)
			if err != nil {
				return nil, err
			}
			if q, ok := cur.Quo(g); ok && g.Degree(x) > 0 {
				out = append(out, g)
				cur = q
				rest = removeIndices(rest, idx)
				found = true
				break
			}
			if !nextSubset(idx, len(rest)) {
				break
			}
		}
		if !found {
			s++
		}
	}
	if cur.Degree(x) > 0 {
		out = append(out, cur)
	} else if !cur.IsConstant() {
		return nil, fmt.Errorf("%w: %s left over after recombination", ring.ErrInvalidOperation, cur)
	}
	return out, nil
}
