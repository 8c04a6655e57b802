package poly

import (
	"fmt"
	"math/big"
	"math/rand"
	"strings"

	"github.com/ppopth/polyfactor/ring"
)

// Ring is the polynomial ring R[x_1..x_n] seen as a coefficient domain, so
// that generic routines such as fraction-free determinants can run over it.
type Ring[E any] struct {
	base  ring.Ring[E]
	nvars int
}

// NewRing returns the ring of polynomials in nvars variables over base
func NewRing[E any](base ring.Ring[E], nvars int) *Ring[E] {
	return &Ring[E]{base: base, nvars: nvars}
}

// Base returns the coefficient ring
func (pr *Ring[E]) Base() ring.Ring[E] { return pr.base }

// NVars returns the number of variables
func (pr *Ring[E]) NVars() int { return pr.nvars }

func (pr *Ring[E]) Kind() ring.Kind { return ring.KindPolynomial }

func (pr *Ring[E]) Zero() Poly[E] { return Zero(pr.base, pr.nvars) }

func (pr *Ring[E]) One() Poly[E] { return One(pr.base, pr.nvars) }

func (pr *Ring[E]) FromInt64(n int64) Poly[E] {
	return Constant(pr.base, pr.nvars, pr.base.FromInt64(n))
}

func (pr *Ring[E]) FromBigInt(n *big.Int) Poly[E] {
	return Constant(pr.base, pr.nvars, pr.base.FromBigInt(n))
}

func (pr *Ring[E]) IsZero(a Poly[E]) bool { return a.IsZero() }

func (pr *Ring[E]) IsOne(a Poly[E]) bool { return a.IsOne() }

func (pr *Ring[E]) Equal(a, b Poly[E]) bool { return a.Equal(b) }

func (pr *Ring[E]) Add(a, b Poly[E]) Poly[E] { return a.Add(b) }

func (pr *Ring[E]) Sub(a, b Poly[E]) Poly[E] { return a.Sub(b) }

func (pr *Ring[E]) Neg(a Poly[E]) Poly[E] { return a.Neg() }

func (pr *Ring[E]) Mul(a, b Poly[E]) Poly[E] { return a.Mul(b) }

func (pr *Ring[E]) Quo(a, b Poly[E]) (Poly[E], bool) { return a.Quo(b) }

// IsUnit reports whether a is a constant unit of the base ring
func (pr *Ring[E]) IsUnit(a Poly[E]) bool {
	return a.IsConstant() && !a.IsZero() && pr.base.IsUnit(a.Lc())
}

func (pr *Ring[E]) IsField() bool { return false }

func (pr *Ring[E]) Characteristic() *big.Int { return pr.base.Characteristic() }

func (pr *Ring[E]) Cardinality() *big.Int { return nil }

// Random returns a random constant
func (pr *Ring[E]) Random(rnd *rand.Rand, bound int64) Poly[E] {
	return Constant(pr.base, pr.nvars, pr.base.Random(rnd, bound))
}

func (pr *Ring[E]) Format(a Poly[E]) string { return a.String() }

func (pr *Ring[E]) String() string {
	return fmt.Sprintf("%s[%s]", pr.base, strings.Join(DefaultNames(pr.nvars), ","))
}
