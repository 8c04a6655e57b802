package gcd

import (
	"context"
	"math/big"

	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// CRT computes integer gcds by working modulo a sequence of primes: each
// image is a monic gcd over F_p scaled by the image of the gcd of the
// leading coefficients, and images with the same leading monomial are
// combined with the Chinese remainder theorem. The primitive part of the
// symmetric lift is returned as soon as it divides both inputs.
type CRT struct {
	// MaxPrimes caps the primes tried before giving up on the modular
	// method and falling back to the subresultant sequence.
	MaxPrimes int
	// StartPrime is the prime the search starts above
	StartPrime int64
	Fallback   Strategy[*big.Int]
}

// NewCRT creates a modular integer gcd
func NewCRT() *CRT {
	return &CRT{
		MaxPrimes:  256,
		StartPrime: 1 << 20,
		Fallback:   NewPRS[*big.Int](Subresultant),
	}
}

func (c *CRT) Gcd(ctx context.Context, a, b poly.Poly[*big.Int]) (poly.Poly[*big.Int], error) {
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
	if a.Ring().Kind() != ring.KindIntegers {
		return poly.Poly[*big.Int]{}, ring.Invalidf("modular integer gcd over %s", a.Ring())
	}

	content := ring.Z.Gcd(a.Content(), b.Content())
	pa, pb := a.PrimitivePart(), b.PrimitivePart()
	gamma := ring.Z.Gcd(pa.Lc(), pb.Lc())
	limit := coefficientLimit(pa, pb, gamma)

	var (
		acc     poly.Poly[*big.Int] // accumulated image with coefficients in [0, modulus)
		modulus *big.Int
		lead    poly.Exponents
	)
	primes := ring.NewPrimeSequence(big.NewInt(c.StartPrime))
	for tried := 0; tried < c.MaxPrimes; tried++ {
		if err := ctx.Err(); err != nil {
			return poly.Poly[*big.Int]{}, err
		}
		p := primes.Next()
		if new(big.Int).Mod(pa.Lc(), p).Sign() == 0 || new(big.Int).Mod(pb.Lc(), p).Sign() == 0 {
			continue
		}
		fp := ring.NewIntegersMod(p)
		img, err := NewModular[*big.Int]().Gcd(ctx, reduce(pa, fp), reduce(pb, fp))
		if err != nil {
			return img, err
		}
		if img.IsConstant() {
			return poly.Constant(ring.Z, a.NVars(), content), nil
		}
		img = img.Scale(fp.Reduce(gamma))
		le := img.LeadingExponents()

		if modulus != nil {
			switch le.Cmp(lead) {
			case 1:
				log.Debugf("unlucky prime %s", p)
				continue
			case -1:
				modulus = nil
			}
		}
		if modulus == nil {
			acc, modulus, lead = poly.Map(img, ring.Ring[*big.Int](ring.Z), func(x *big.Int) *big.Int { return x }), p, le
		} else {
			acc, modulus = combine(acc, modulus, img, p)
		}

		cand := symmetric(acc, modulus).PrimitivePart()
		if _, ok := pa.Quo(cand); ok {
			if _, ok := pb.Quo(cand); ok {
				return Normalize(cand.Scale(content)), nil
			}
		}
		if modulus.Cmp(limit) > 0 {
			log.Warnf("modulus exceeded the coefficient bound without a gcd, falling back to %T", c.Fallback)
			break
		}
	}
	return c.Fallback.Gcd(ctx, a, b)
}

func reduce(p poly.Poly[*big.Int], fp *ring.IntegersMod) poly.Poly[*big.Int] {
	return poly.Map(p, ring.Ring[*big.Int](fp), fp.Reduce)
}

// symmetric lifts residues modulo m into (-m/2, m/2]
func symmetric(p poly.Poly[*big.Int], m *big.Int) poly.Poly[*big.Int] {
	half := new(big.Int).Rsh(m, 1)
	return poly.Map(p, ring.Ring[*big.Int](ring.Z), func(x *big.Int) *big.Int {
		y := new(big.Int).Mod(x, m)
		if y.Cmp(half) > 0 {
			y.Sub(y, m)
		}
		return y
	})
}

// combine merges the residues acc mod m and img mod p into one polynomial
// modulo m*p.
func combine(acc poly.Poly[*big.Int], m *big.Int, img poly.Poly[*big.Int], p *big.Int) (poly.Poly[*big.Int], *big.Int) {
	minv := new(big.Int).ModInverse(new(big.Int).Mod(m, p), p)
	type pair struct {
		exp  poly.Exponents
		u, v *big.Int
	}
	pairs := make(map[string]*pair)
	var order []string
	at := func(e poly.Exponents) *pair {
		k := e.String()
		if q, ok := pairs[k]; ok {
			return q
		}
		q := &pair{exp: e, u: new(big.Int), v: new(big.Int)}
		pairs[k] = q
		order = append(order, k)
		return q
	}
	for _, t := range acc.Terms() {
		at(t.Exp).u = t.Coef
	}
	for _, t := range img.Terms() {
		at(t.Exp).v = t.Coef
	}
	terms := make([]poly.Term[*big.Int], 0, len(order))
	for _, k := range order {
		q := pairs[k]
		terms = append(terms, poly.Term[*big.Int]{Exp: q.exp, Coef: garner(q.u, m, q.v, p, minv)})
	}
	return poly.FromTerms[*big.Int](ring.Z, acc.NVars(), terms), new(big.Int).Mul(m, p)
}

// garner returns x in [0, m*p) with x = u mod m and x = v mod p, given
// u in [0, m) and minv = m^-1 mod p.
func garner(u, m, v, p, minv *big.Int) *big.Int {
	d := new(big.Int).Sub(v, u)
	d.Mul(d, minv)
	d.Mod(d, p)
	return d.Mul(d, m).Add(d, u)
}

// coefficientLimit bounds the moduli worth trying: twice gamma times a
// Landau-Mignotte style bound on the coefficients of a factor.
func coefficientLimit(a, b poly.Poly[*big.Int], gamma *big.Int) *big.Int {
	bound := func(p poly.Poly[*big.Int]) *big.Int {
		norm := new(big.Int)
		for _, t := range p.Terms() {
			norm.Add(norm, new(big.Int).Mul(t.Coef, t.Coef))
		}
		norm.Sqrt(norm).Add(norm, big.NewInt(1))
		return norm.Lsh(norm, uint(p.TotalDegree()*max(1, p.NVars())))
	}
	ba, bb := bound(a), bound(b)
	if bb.Cmp(ba) < 0 {
		ba = bb
	}
	l := new(big.Int).Mul(ba, new(big.Int).Abs(gamma))
	return l.Lsh(l, 1)
}
