package ext

import (
	"fmt"
	"math/big"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// GF creates the finite field with p^k elements as F_p[a]/(m(a)), m the
// first monic irreducible polynomial of degree k in the enumeration order
// of its lower coefficients.
func GF(p int64, k int) (*Extension[*big.Int], error) {
	bp := big.NewInt(p)
	if !ring.IsPrime(bp) {
		return nil, fmt.Errorf("%w: GF(%d^%d) needs a prime characteristic", ring.ErrInvalidOperation, p, k)
	}
	if k < 2 {
		return nil, fmt.Errorf("%w: GF(%d^%d) needs degree at least 2, use Z/%d", ring.ErrInvalidOperation, p, k, p)
	}
	fp := ring.NewIntegersMod(bp)
	m, err := FindIrreducible[*big.Int](fp, k)
	if err != nil {
		return nil, err
	}
	return NewExtension[*big.Int](fp, m, "a")
}

// FindIrreducible returns the first monic irreducible polynomial of
// degree k over the finite field f, enumerating x^k + c(x) by the index of
// c in base |f|.
func FindIrreducible[E any](f ring.Ring[E], k int) (poly.Univariate[E], error) {
	enum, ok := f.(ring.Enumerable[E])
	if !ok || !f.IsField() || !ring.IsFinite(f) {
		return poly.Univariate[E]{}, fmt.Errorf("%w: irreducible search over %s", ring.ErrUnsupportedDomain, f)
	}
	q := f.Cardinality()
	total := new(big.Int).Exp(q, big.NewInt(int64(k)), nil)
	xk := poly.UnivariateMonomial(f, f.One(), k)
	// c = 0 gives x^k, skip it; constant terms must be nonzero anyway
	for i := big.NewInt(1); i.Cmp(total) < 0; i.Add(i, big.NewInt(1)) {
		cs := make([]E, k)
		n, d := new(big.Int).Set(i), new(big.Int)
		for j := range cs {
			n.QuoRem(n, q, d)
			cs[j] = enum.Element(d)
		}
		if f.IsZero(cs[0]) {
			continue
		}
		cand := xk.Add(poly.NewUnivariate(f, cs...))
		if IsIrreducible(cand) {
			return cand, nil
		}
	}
	return poly.Univariate[E]{}, &ring.ExhaustionError{What: fmt.Sprintf("irreducible polynomial of degree %d", k), Attempts: int(total.Int64()), Context: f.String()}
}

// IsIrreducible is Rabin's test for a polynomial over a finite field: f of
// degree n is irreducible iff x^(q^n) = x mod f and gcd(x^(q^(n/r)) - x, f)
// = 1 for every prime r dividing n.
func IsIrreducible[E any](f poly.Univariate[E]) bool {
	r := f.Ring()
	n := f.Degree()
	if n < 1 {
		return false
	}
	if n == 1 {
		return true
	}
	if r.IsZero(f.Tc()) {
		return false
	}
	m := f.Monic()
	q := r.Cardinality()
	x := poly.NewUnivariate(r, r.Zero(), r.One())
	frob := func(j int) poly.Univariate[E] {
		return x.PowMod(new(big.Int).Exp(q, big.NewInt(int64(j)), nil), m)
	}
	for _, d := range ring.PrimeDivisors(big.NewInt(int64(n))) {
		h := frob(n / int(d.Int64())).Sub(x)
		if !gcd.Euclid(h, m).IsOne() {
			return false
		}
	}
	return frob(n).Sub(x).Rem(m).IsZero()
}
