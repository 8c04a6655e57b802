package ring

import (
	"math/big"
	"math/rand"
)

// Integers is the ring Z of arbitrary precision integers.
type Integers struct{}

// Z is the shared descriptor of the integers.
var Z = &Integers{}

var bigOne = big.NewInt(1)

func (*Integers) Kind() Kind { return KindIntegers }

// Zero returns the additive identity element (0)
func (*Integers) Zero() *big.Int { return new(big.Int) }

// One returns the multiplicative identity element (1)
func (*Integers) One() *big.Int { return big.NewInt(1) }

func (*Integers) FromInt64(n int64) *big.Int { return big.NewInt(n) }

func (*Integers) FromBigInt(n *big.Int) *big.Int { return new(big.Int).Set(n) }

func (*Integers) IsZero(a *big.Int) bool { return a.Sign() == 0 }

func (*Integers) IsOne(a *big.Int) bool { return a.Cmp(bigOne) == 0 }

func (*Integers) Equal(a, b *big.Int) bool { return a.Cmp(b) == 0 }

func (*Integers) Add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }

func (*Integers) Sub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }

func (*Integers) Neg(a *big.Int) *big.Int { return new(big.Int).Neg(a) }

func (*Integers) Mul(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }

// Quo returns a/b if the division is exact
func (*Integers) Quo(a, b *big.Int) (*big.Int, bool) {
	if b.Sign() == 0 {
		return nil, false
	}
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 {
		return nil, false
	}
	return q, true
}

func (*Integers) IsUnit(a *big.Int) bool { return a.CmpAbs(bigOne) == 0 }

func (*Integers) IsField() bool { return false }

func (*Integers) Characteristic() *big.Int { return new(big.Int) }

func (*Integers) Cardinality() *big.Int { return nil }

// Random returns an integer in [-bound, bound]
func (*Integers) Random(rnd *rand.Rand, bound int64) *big.Int {
	if bound <= 0 {
		return new(big.Int)
	}
	return big.NewInt(rnd.Int63n(2*bound+1) - bound)
}

// Gcd returns the non-negative greatest common divisor
func (*Integers) Gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

func (*Integers) Sign(a *big.Int) int { return a.Sign() }

func (*Integers) Format(a *big.Int) string { return a.String() }

func (*Integers) String() string { return "Z" }
