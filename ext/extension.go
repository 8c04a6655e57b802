// Package ext provides the coefficient fields built from polynomials:
// simple algebraic extensions F[a]/(m(a)), which cover the finite fields
// GF(p^k), number fields Q(a) and complex extensions such as Q(a)(i), and
// fields of rational functions.
package ext

import (
	"fmt"
	"math/big"
	"math/rand"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// Extension is the field F[a]/(m(a)) for a field F and a monic irreducible
// m. Elements are polynomials in a of degree below deg m.
type Extension[E any] struct {
	base    ring.Field[E]
	modulus poly.Univariate[E]
	name    string
	card    *big.Int
}

// NewExtension creates F[a]/(m(a)). Irreducibility of m is the caller's
// responsibility; inverting an element that shares a factor with m panics.
func NewExtension[E any](base ring.Ring[E], modulus poly.Univariate[E], name string) (*Extension[E], error) {
	f, ok := ring.AsField(base)
	if !ok {
		return nil, fmt.Errorf("%w: extension of %s, which is not a field", ring.ErrUnsupportedDomain, base)
	}
	if modulus.Degree() < 1 {
		return nil, fmt.Errorf("%w: extension modulus %s has degree < 1", ring.ErrInvalidOperation, modulus)
	}
	e := &Extension[E]{base: f, modulus: modulus.Monic(), name: name}
	if c := base.Cardinality(); c != nil {
		e.card = new(big.Int).Exp(c, big.NewInt(int64(modulus.Degree())), nil)
	}
	return e, nil
}

// Gaussian returns F(i) = F[i]/(i^2 + 1)
func Gaussian[E any](base ring.Ring[E]) (*Extension[E], error) {
	return NewExtension(base, poly.NewUnivariate(base, base.One(), base.Zero(), base.One()), "i")
}

// Base returns the ground field
func (e *Extension[E]) Base() ring.Field[E] { return e.base }

// Modulus returns the minimal polynomial of the generator
func (e *Extension[E]) Modulus() poly.Univariate[E] { return e.modulus }

// Degree returns [F(a) : F]
func (e *Extension[E]) Degree() int { return e.modulus.Degree() }

// Name returns the generator name used when printing
func (e *Extension[E]) Name() string { return e.name }

// Generator returns a
func (e *Extension[E]) Generator() poly.Univariate[E] {
	return e.reduce(poly.NewUnivariate[E](e.base, e.base.Zero(), e.base.One()))
}

// Embed maps a ground field element into the extension
func (e *Extension[E]) Embed(c E) poly.Univariate[E] {
	return poly.NewUnivariate[E](e.base, c)
}

// Coordinates returns the Degree() coefficients of a on the power basis
func (e *Extension[E]) Coordinates(a poly.Univariate[E]) []E {
	cs := make([]E, e.Degree())
	for i := range cs {
		cs[i] = a.Coeff(i)
	}
	return cs
}

func (e *Extension[E]) reduce(a poly.Univariate[E]) poly.Univariate[E] {
	if a.Degree() < e.modulus.Degree() {
		return a
	}
	return a.Rem(e.modulus)
}

func (e *Extension[E]) Kind() ring.Kind {
	if e.card != nil {
		return ring.KindFiniteField
	}
	return ring.KindAlgebraic
}

func (e *Extension[E]) Zero() poly.Univariate[E] { return poly.NewUnivariate[E](e.base) }

func (e *Extension[E]) One() poly.Univariate[E] { return e.Embed(e.base.One()) }

func (e *Extension[E]) FromInt64(n int64) poly.Univariate[E] { return e.Embed(e.base.FromInt64(n)) }

func (e *Extension[E]) FromBigInt(n *big.Int) poly.Univariate[E] {
	return e.Embed(e.base.FromBigInt(n))
}

func (e *Extension[E]) IsZero(a poly.Univariate[E]) bool { return a.IsZero() }

func (e *Extension[E]) IsOne(a poly.Univariate[E]) bool { return a.IsOne() }

func (e *Extension[E]) Equal(a, b poly.Univariate[E]) bool { return a.Equal(b) }

func (e *Extension[E]) Add(a, b poly.Univariate[E]) poly.Univariate[E] { return a.Add(b) }

func (e *Extension[E]) Sub(a, b poly.Univariate[E]) poly.Univariate[E] { return a.Sub(b) }

func (e *Extension[E]) Neg(a poly.Univariate[E]) poly.Univariate[E] { return a.Neg() }

func (e *Extension[E]) Mul(a, b poly.Univariate[E]) poly.Univariate[E] {
	return e.reduce(a.Mul(b))
}

// Inv returns the inverse of a nonzero element by the extended Euclidean
// algorithm against the modulus.
func (e *Extension[E]) Inv(a poly.Univariate[E]) poly.Univariate[E] {
	if a.IsZero() {
		panic(ring.Invalidf("inverse of zero in %s", e))
	}
	g, s, _ := gcd.ExtendedEuclid(a, e.modulus)
	if !g.IsOne() {
		panic(ring.Invalidf("%s is not invertible in %s: the modulus is reducible", a.Format(e.name), e))
	}
	return e.reduce(s)
}

func (e *Extension[E]) Quo(a, b poly.Univariate[E]) (poly.Univariate[E], bool) {
	if b.IsZero() {
		return poly.Univariate[E]{}, false
	}
	return e.Mul(a, e.Inv(b)), true
}

func (e *Extension[E]) IsUnit(a poly.Univariate[E]) bool { return !a.IsZero() }

func (e *Extension[E]) IsField() bool { return true }

func (e *Extension[E]) Characteristic() *big.Int { return e.base.Characteristic() }

// Cardinality is q^k for a ground field of q elements, nil otherwise
func (e *Extension[E]) Cardinality() *big.Int {
	if e.card == nil {
		return nil
	}
	return new(big.Int).Set(e.card)
}

func (e *Extension[E]) Random(rnd *rand.Rand, bound int64) poly.Univariate[E] {
	cs := make([]E, e.Degree())
	for i := range cs {
		cs[i] = e.base.Random(rnd, bound)
	}
	return poly.NewUnivariate[E](e.base, cs...)
}

// Element enumerates a finite extension: the base-q digits of i are the
// coordinates of the element.
func (e *Extension[E]) Element(i *big.Int) poly.Univariate[E] {
	enum, ok := e.base.(ring.Enumerable[E])
	if !ok || e.card == nil {
		panic(ring.Invalidf("%s cannot be enumerated", e))
	}
	q := e.base.Cardinality()
	n := new(big.Int).Mod(i, e.card)
	cs := make([]E, e.Degree())
	d := new(big.Int)
	for k := range cs {
		n.QuoRem(n, q, d)
		cs[k] = enum.Element(d)
	}
	return poly.NewUnivariate[E](e.base, cs...)
}

// PthRoot returns b with b^p = a, p the characteristic. In a finite field
// b = a^(q/p). Over an infinite ground field of characteristic p, the
// Frobenius images of the basis give a linear system over the ground
// field whose solution holds the p-th powers of the coordinates of b.
func (e *Extension[E]) PthRoot(a poly.Univariate[E]) (poly.Univariate[E], bool) {
	p := e.Characteristic()
	if p.Sign() == 0 {
		return poly.Univariate[E]{}, false
	}
	if e.card != nil {
		return ring.Pow[poly.Univariate[E]](e, a, new(big.Int).Quo(e.card, p)), true
	}
	root, ok := e.base.(ring.PerfectPower[E])
	if !ok {
		return poly.Univariate[E]{}, false
	}
	k := e.Degree()
	// column j holds the coordinates of (a^j)^p
	gen := e.Generator()
	A := make([][]E, k)
	for i := range A {
		A[i] = make([]E, k)
	}
	for j := 0; j < k; j++ {
		col := e.Coordinates(ring.Pow[poly.Univariate[E]](e, ring.PowInt[poly.Univariate[E]](e, gen, j), p))
		for i := 0; i < k; i++ {
			A[i][j] = col[i]
		}
	}
	c, err := ring.SolveLinear[E](e.base, A, e.Coordinates(a))
	if err != nil {
		return poly.Univariate[E]{}, false
	}
	bs := make([]E, k)
	for i, ci := range c {
		b, ok := root.PthRoot(ci)
		if !ok {
			return poly.Univariate[E]{}, false
		}
		bs[i] = b
	}
	return poly.NewUnivariate[E](e.base, bs...), true
}

func (e *Extension[E]) Format(a poly.Univariate[E]) string { return a.Format(e.name) }

func (e *Extension[E]) String() string {
	if e.card != nil {
		return fmt.Sprintf("GF(%s^%d)", e.base.Characteristic(), e.Degree())
	}
	return fmt.Sprintf("%s[%s]/(%s)", e.base, e.name, e.modulus.Format(e.name))
}
