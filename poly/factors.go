package poly

import (
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/ppopth/polyfactor/ring"
)

// FactorMultiset is a factorization unit * prod Factors[i]^Exponents[i].
// The unit is a constant polynomial.
type FactorMultiset[E any] struct {
	Unit      Poly[E]
	Factors   []Poly[E]
	Exponents []int
}

// NewFactorMultiset starts an empty factorization with the given unit
func NewFactorMultiset[E any](unit Poly[E]) FactorMultiset[E] {
	return FactorMultiset[E]{Unit: unit}
}

// Canonical scales p to the representative used in factor lists: primitive
// with a positive leading coefficient over Z, integral and primitive with a
// positive leading coefficient over Q, monic over other fields.
func Canonical[E any](p Poly[E]) Poly[E] {
	if p.IsZero() {
		return p
	}
	switch p.r.Kind() {
	case ring.KindIntegers:
		return p.PrimitivePart()
	case ring.KindRationals:
		if q, ok := any(p).(Poly[*big.Rat]); ok {
			return any(integralPrimitive(q)).(Poly[E])
		}
	}
	if p.r.IsField() {
		return p.Monic()
	}
	return p
}

// integralPrimitive multiplies p by the lcm of its denominators and divides
// by the gcd of the resulting numerators.
func integralPrimitive(p Poly[*big.Rat]) Poly[*big.Rat] {
	den := big.NewInt(1)
	num := new(big.Int)
	for _, t := range p.terms {
		d := t.Coef.Denom()
		g := new(big.Int).GCD(nil, nil, den, d)
		den.Mul(den, new(big.Int).Quo(d, g))
	}
	for _, t := range p.terms {
		n := new(big.Int).Mul(t.Coef.Num(), new(big.Int).Quo(den, t.Coef.Denom()))
		num.GCD(nil, nil, num, n.Abs(n))
	}
	if p.Lc().Sign() < 0 {
		num.Neg(num)
	}
	return p.Scale(new(big.Rat).SetFrac(den, num))
}

// Len returns the number of distinct factors
func (f FactorMultiset[E]) Len() int { return len(f.Factors) }

// IsTrivial reports whether there are no non-unit factors
func (f FactorMultiset[E]) IsTrivial() bool { return len(f.Factors) == 0 }

// Add appends factor p with multiplicity e, merging it with an equal
// factor already present.
func (f *FactorMultiset[E]) Add(p Poly[E], e int) {
	if e <= 0 {
		return
	}
	if p.IsConstant() {
		f.Unit = f.Unit.Mul(p.Pow(e))
		return
	}
	for i, g := range f.Factors {
		if g.Equal(p) {
			f.Exponents[i] += e
			return
		}
	}
	f.Factors = append(f.Factors, p)
	f.Exponents = append(f.Exponents, e)
}

// Merge multiplies f by g
func (f *FactorMultiset[E]) Merge(g FactorMultiset[E]) {
	f.Unit = f.Unit.Mul(g.Unit)
	for i, p := range g.Factors {
		f.Add(p, g.Exponents[i])
	}
}

// Raise returns f^e
func (f FactorMultiset[E]) Raise(e int) FactorMultiset[E] {
	out := FactorMultiset[E]{
		Unit:      f.Unit.Pow(e),
		Factors:   slices.Clone(f.Factors),
		Exponents: make([]int, len(f.Exponents)),
	}
	for i, k := range f.Exponents {
		out.Exponents[i] = k * e
	}
	return out
}

// Product multiplies the factorization out
func (f FactorMultiset[E]) Product() Poly[E] {
	p := f.Unit
	for i, g := range f.Factors {
		p = p.Mul(g.Pow(f.Exponents[i]))
	}
	return p
}

// Sorted returns a copy with factors in canonical order
func (f FactorMultiset[E]) Sorted() FactorMultiset[E] {
	idx := make([]int, len(f.Factors))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		if c := Compare(f.Factors[a], f.Factors[b]); c != 0 {
			return c
		}
		return f.Exponents[a] - f.Exponents[b]
	})
	out := FactorMultiset[E]{Unit: f.Unit}
	for _, i := range idx {
		out.Factors = append(out.Factors, f.Factors[i])
		out.Exponents = append(out.Exponents, f.Exponents[i])
	}
	return out
}

// Format renders the factorization with the given variable names
func (f FactorMultiset[E]) Format(names []string) string {
	parts := []string{"(" + f.Unit.Format(names) + ")"}
	for i, g := range f.Factors {
		s := "(" + g.Format(names) + ")"
		if f.Exponents[i] > 1 {
			s += "^" + strconv.Itoa(f.Exponents[i])
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " * ")
}

func (f FactorMultiset[E]) String() string {
	return f.Format(DefaultNames(f.Unit.nvars))
}
