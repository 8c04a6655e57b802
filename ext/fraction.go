package ext

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"strings"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// Frac is a rational function num/den. Values produced by a Fractions field
// are canonical: num and den are coprime and den is monic over a field
// base, or has a positive leading coefficient over an ordered one.
type Frac[E any] struct {
	num, den poly.Poly[E]
}

// Num returns the numerator
func (a Frac[E]) Num() poly.Poly[E] { return a.num }

// Den returns the denominator
func (a Frac[E]) Den() poly.Poly[E] { return a.den }

// Fractions is the field K(t_1, ..., t_m) of rational functions over a gcd
// domain or field K. Reduction to lowest terms uses the injected gcd
// strategy.
type Fractions[E any] struct {
	base  ring.Ring[E]
	names []string
	gcd   gcd.Strategy[E]
}

// NewFractions creates the rational function field over base in the
// named parameters.
func NewFractions[E any](base ring.Ring[E], names []string, s gcd.Strategy[E]) (*Fractions[E], error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: rational function field without parameters", ring.ErrInvalidOperation)
	}
	_, domain := base.(ring.GcdDomain[E])
	if !base.IsField() && !domain {
		return nil, fmt.Errorf("%w: fractions over %s", ring.ErrUnsupportedDomain, base)
	}
	return &Fractions[E]{base: base, names: append([]string(nil), names...), gcd: s}, nil
}

// Base returns the ring of constants
func (f *Fractions[E]) Base() ring.Ring[E] { return f.base }

// Names returns the parameter names
func (f *Fractions[E]) Names() []string { return append([]string(nil), f.names...) }

// NVars is the number of parameters
func (f *Fractions[E]) NVars() int { return len(f.names) }

// New returns num/den in lowest terms. It panics when den is zero.
func (f *Fractions[E]) New(num, den poly.Poly[E]) Frac[E] {
	if den.IsZero() {
		panic(ring.Invalidf("zero denominator in %s", f))
	}
	if num.IsZero() {
		return f.Zero()
	}
	g, err := f.gcd.Gcd(context.Background(), num, den)
	if err != nil {
		panic(ring.Invalidf("reducing %s/%s: %v", num, den, err))
	}
	if !g.IsOne() {
		num, _ = num.Quo(g)
		den, _ = den.Quo(g)
	}
	lc := den.Lc()
	if f.base.IsField() {
		if !f.base.IsOne(lc) {
			inv, _ := f.base.Quo(f.base.One(), lc)
			num, den = num.Scale(inv), den.Scale(inv)
		}
	} else if o, ok := f.base.(ring.Ordered[E]); ok && o.Sign(lc) < 0 {
		num, den = num.Neg(), den.Neg()
	}
	return Frac[E]{num: num, den: den}
}

// FromPoly embeds a polynomial in the parameters
func (f *Fractions[E]) FromPoly(p poly.Poly[E]) Frac[E] {
	return Frac[E]{num: p, den: poly.One(f.base, f.NVars())}
}

// Param returns the i-th parameter t_i
func (f *Fractions[E]) Param(i int) Frac[E] {
	return f.FromPoly(poly.Var(f.base, f.NVars(), i))
}

// Params maps each parameter name to its element, for use as parser
// constants.
func (f *Fractions[E]) Params() map[string]Frac[E] {
	m := make(map[string]Frac[E], len(f.names))
	for i, n := range f.names {
		m[n] = f.Param(i)
	}
	return m
}

func (f *Fractions[E]) Kind() ring.Kind { return ring.KindFraction }

func (f *Fractions[E]) Zero() Frac[E] { return f.FromPoly(poly.Zero(f.base, f.NVars())) }

func (f *Fractions[E]) One() Frac[E] { return f.FromPoly(poly.One(f.base, f.NVars())) }

func (f *Fractions[E]) FromInt64(n int64) Frac[E] {
	return f.FromPoly(poly.Constant(f.base, f.NVars(), f.base.FromInt64(n)))
}

func (f *Fractions[E]) FromBigInt(n *big.Int) Frac[E] {
	return f.FromPoly(poly.Constant(f.base, f.NVars(), f.base.FromBigInt(n)))
}

func (f *Fractions[E]) IsZero(a Frac[E]) bool { return a.num.IsZero() }

func (f *Fractions[E]) IsOne(a Frac[E]) bool { return a.num.IsOne() && a.den.IsOne() }

func (f *Fractions[E]) Equal(a, b Frac[E]) bool {
	return a.num.Equal(b.num) && a.den.Equal(b.den)
}

func (f *Fractions[E]) Add(a, b Frac[E]) Frac[E] {
	if a.den.Equal(b.den) {
		return f.New(a.num.Add(b.num), a.den)
	}
	return f.New(a.num.Mul(b.den).Add(b.num.Mul(a.den)), a.den.Mul(b.den))
}

func (f *Fractions[E]) Sub(a, b Frac[E]) Frac[E] { return f.Add(a, f.Neg(b)) }

func (f *Fractions[E]) Neg(a Frac[E]) Frac[E] { return Frac[E]{num: a.num.Neg(), den: a.den} }

func (f *Fractions[E]) Mul(a, b Frac[E]) Frac[E] {
	if a.num.IsZero() || b.num.IsZero() {
		return f.Zero()
	}
	return f.New(a.num.Mul(b.num), a.den.Mul(b.den))
}

func (f *Fractions[E]) Inv(a Frac[E]) Frac[E] {
	if a.num.IsZero() {
		panic(ring.Invalidf("inverse of zero in %s", f))
	}
	return f.New(a.den, a.num)
}

func (f *Fractions[E]) Quo(a, b Frac[E]) (Frac[E], bool) {
	if b.num.IsZero() {
		return Frac[E]{}, false
	}
	return f.Mul(a, f.Inv(b)), true
}

func (f *Fractions[E]) IsUnit(a Frac[E]) bool { return !a.num.IsZero() }

func (f *Fractions[E]) IsField() bool { return true }

func (f *Fractions[E]) Characteristic() *big.Int { return f.base.Characteristic() }

func (f *Fractions[E]) Cardinality() *big.Int { return nil }

// Random returns a random constant
func (f *Fractions[E]) Random(rnd *rand.Rand, bound int64) Frac[E] {
	return f.FromPoly(poly.Constant(f.base, f.NVars(), f.base.Random(rnd, bound)))
}

// PthRoot extracts p-th roots in characteristic p. A canonical fraction is
// a p-th power exactly when its numerator and denominator are.
func (f *Fractions[E]) PthRoot(a Frac[E]) (Frac[E], bool) {
	num, ok := a.num.RootCharacteristic()
	if !ok {
		return Frac[E]{}, false
	}
	den, ok := a.den.RootCharacteristic()
	if !ok {
		return Frac[E]{}, false
	}
	return Frac[E]{num: num, den: den}, true
}

// Derivations is the number of parameters
func (f *Fractions[E]) Derivations() int { return len(f.names) }

// Derive returns the partial derivative of a with respect to t_i, by the
// quotient rule.
func (f *Fractions[E]) Derive(a Frac[E], i int) Frac[E] {
	num := a.num.Derivative(i).Mul(a.den).Sub(a.num.Mul(a.den.Derivative(i)))
	if num.IsZero() {
		return f.Zero()
	}
	return f.New(num, a.den.Mul(a.den))
}

func (f *Fractions[E]) Format(a Frac[E]) string {
	if a.den.IsOne() {
		return a.num.Format(f.names)
	}
	num, den := a.num.Format(f.names), a.den.Format(f.names)
	if a.num.NumTerms() > 1 {
		num = "(" + num + ")"
	}
	if a.den.NumTerms() > 1 || strings.Contains(den, "*") {
		den = "(" + den + ")"
	}
	return num + "/" + den
}

func (f *Fractions[E]) String() string {
	return fmt.Sprintf("%s(%s)", f.base, strings.Join(f.names, ","))
}
