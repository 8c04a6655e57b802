// Package ring describes the coefficient domains the polynomial engines work
// over. A domain is a small set of capability traits rather than a class
// hierarchy: every domain is a Ring, and the algorithms check for the extra
// traits (Field, GcdDomain, Modular, PerfectPower) they need.
package ring

import (
	"math/big"
	"math/rand"
)

// Kind is the closed set of coefficient domains the engines know how to
// handle. The selection facade switches on it exactly once per call.
type Kind int

const (
	// KindIntegers is the ring Z.
	KindIntegers Kind = iota
	// KindRationals is the field Q.
	KindRationals
	// KindModular is Z/nZ; a field when n is prime.
	KindModular
	// KindFiniteField is GF(p^k) with k > 1.
	KindFiniteField
	// KindAlgebraic is a simple algebraic extension of an infinite field,
	// including the complex (Gaussian) extensions.
	KindAlgebraic
	// KindFraction is a field of rational functions.
	KindFraction
	// KindPolynomial is a polynomial ring viewed as a coefficient domain.
	KindPolynomial
)

func (k Kind) String() string {
	switch k {
	case KindIntegers:
		return "integers"
	case KindRationals:
		return "rationals"
	case KindModular:
		return "modular"
	case KindFiniteField:
		return "finite-field"
	case KindAlgebraic:
		return "algebraic"
	case KindFraction:
		return "fraction"
	case KindPolynomial:
		return "polynomial"
	default:
		return "unknown"
	}
}

// Ring is a commutative ring with identity whose elements have type E.
// Elements are treated as immutable values: no method modifies its
// arguments and every result is freshly allocated.
type Ring[E any] interface {
	// Kind returns the tag used by the selection facade
	Kind() Kind

	// Zero returns the additive identity
	Zero() E

	// One returns the multiplicative identity
	One() E

	// FromInt64 maps an integer into the ring
	FromInt64(n int64) E

	// FromBigInt maps an integer into the ring
	FromBigInt(n *big.Int) E

	IsZero(a E) bool
	IsOne(a E) bool
	Equal(a, b E) bool

	Add(a, b E) E
	Sub(a, b E) E
	Neg(a E) E
	Mul(a, b E) E

	// Quo returns a/b when b divides a exactly in the ring
	Quo(a, b E) (E, bool)

	// IsUnit reports whether a is invertible
	IsUnit(a E) bool

	// IsField reports whether every nonzero element is invertible
	IsField() bool

	// Characteristic returns the characteristic (0 for Z, Q, ...)
	Characteristic() *big.Int

	// Cardinality returns the number of elements, or nil for infinite rings
	Cardinality() *big.Int

	// Random returns a pseudo-random element. Infinite rings keep the
	// integer "size" of the element below bound.
	Random(rnd *rand.Rand, bound int64) E

	// Format renders an element
	Format(a E) string

	// String describes the ring itself
	String() string
}

// Field is a ring in which every nonzero element is invertible.
type Field[E any] interface {
	Ring[E]

	// Inv returns the multiplicative inverse of a nonzero element
	Inv(a E) E
}

// GcdDomain is a ring with a greatest common divisor on elements.
type GcdDomain[E any] interface {
	Ring[E]

	// Gcd returns a greatest common divisor, normalised so that it is
	// non-negative where the ring has an order.
	Gcd(a, b E) E
}

// Modular rings are quotients of Z by a modulus.
type Modular interface {
	Modulus() *big.Int
}

// PerfectPower rings of characteristic p can extract p-th roots.
type PerfectPower[E any] interface {
	// PthRoot returns b with b^p = a, where p is the characteristic,
	// or false if no such element exists.
	PthRoot(a E) (E, bool)
}

// Differential rings carry derivations D_0, ..., D_{m-1} over their
// constants. In characteristic p over a perfect ground field, an element
// killed by every derivation is a p-th power.
type Differential[E any] interface {
	Derivations() int
	Derive(a E, i int) E
}

// Enumerable finite rings list their elements by index, 0 <= i < Cardinality.
type Enumerable[E any] interface {
	Element(i *big.Int) E
}

// Ordered rings expose the sign of an element so that polynomials can be
// normalised to a positive leading coefficient.
type Ordered[E any] interface {
	Sign(a E) int
}

// Same reports whether two ring descriptors denote the same domain.
func Same[E any](a, b Ring[E]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if any(a) == any(b) {
		return true
	}
	return a.Kind() == b.Kind() && a.String() == b.String()
}

// AsField returns r as a Field when it is one.
func AsField[E any](r Ring[E]) (Field[E], bool) {
	if !r.IsField() {
		return nil, false
	}
	f, ok := r.(Field[E])
	return f, ok
}

// Pow returns a^e for e >= 0 by square and multiply.
func Pow[E any](r Ring[E], a E, e *big.Int) E {
	if e.Sign() < 0 {
		panic(Invalidf("negative exponent %s", e))
	}
	result := r.One()
	base := a
	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) == 1 {
			result = r.Mul(result, base)
		}
		if i+1 < e.BitLen() {
			base = r.Mul(base, base)
		}
	}
	return result
}

// PowInt returns a^e for a small exponent.
func PowInt[E any](r Ring[E], a E, e int) E {
	return Pow(r, a, big.NewInt(int64(e)))
}

// IsFinite reports whether r has finitely many elements.
func IsFinite[E any](r Ring[E]) bool {
	return r.Cardinality() != nil
}
