package ring

import (
	"math/big"
	"math/rand"
)

// Rationals is the field Q.
type Rationals struct{}

// Q is the shared descriptor of the rationals.
var Q = &Rationals{}

var ratOne = big.NewRat(1, 1)

func (*Rationals) Kind() Kind { return KindRationals }

func (*Rationals) Zero() *big.Rat { return new(big.Rat) }

func (*Rationals) One() *big.Rat { return big.NewRat(1, 1) }

func (*Rationals) FromInt64(n int64) *big.Rat { return big.NewRat(n, 1) }

func (*Rationals) FromBigInt(n *big.Int) *big.Rat { return new(big.Rat).SetInt(n) }

// FromFrac returns num/den
func (*Rationals) FromFrac(num, den int64) *big.Rat {
	if den == 0 {
		panic(Invalidf("zero denominator"))
	}
	return big.NewRat(num, den)
}

func (*Rationals) IsZero(a *big.Rat) bool { return a.Sign() == 0 }

func (*Rationals) IsOne(a *big.Rat) bool { return a.Cmp(ratOne) == 0 }

func (*Rationals) Equal(a, b *big.Rat) bool { return a.Cmp(b) == 0 }

func (*Rationals) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }

func (*Rationals) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }

func (*Rationals) Neg(a *big.Rat) *big.Rat { return new(big.Rat).Neg(a) }

func (*Rationals) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }

func (*Rationals) Quo(a, b *big.Rat) (*big.Rat, bool) {
	if b.Sign() == 0 {
		return nil, false
	}
	return new(big.Rat).Quo(a, b), true
}

// Inv returns 1/a
func (*Rationals) Inv(a *big.Rat) *big.Rat {
	if a.Sign() == 0 {
		panic(Invalidf("division by zero in Q"))
	}
	return new(big.Rat).Inv(a)
}

func (*Rationals) IsUnit(a *big.Rat) bool { return a.Sign() != 0 }

func (*Rationals) IsField() bool { return true }

func (*Rationals) Characteristic() *big.Int { return new(big.Int) }

func (*Rationals) Cardinality() *big.Int { return nil }

// Random returns an integer in [-bound, bound]
func (*Rationals) Random(rnd *rand.Rand, bound int64) *big.Rat {
	if bound <= 0 {
		return new(big.Rat)
	}
	return big.NewRat(rnd.Int63n(2*bound+1)-bound, 1)
}

func (*Rationals) Sign(a *big.Rat) int { return a.Sign() }

func (*Rationals) Format(a *big.Rat) string { return a.RatString() }

func (*Rationals) String() string { return "Q" }
