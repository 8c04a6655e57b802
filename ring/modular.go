package ring

import (
	"fmt"
	"math/big"
	"math/rand"
)

// IntegersMod represents the ring Z/nZ. It is the prime field F_p when the
// modulus is prime; prime powers are used as the coefficient rings of Hensel
// lifting.
type IntegersMod struct {
	n     *big.Int // the modulus
	half  *big.Int // floor(n/2), bound of the symmetric representation
	prime bool
}

// NewIntegersMod creates Z/nZ for n >= 2
func NewIntegersMod(n *big.Int) *IntegersMod {
	if n.Cmp(big.NewInt(2)) < 0 {
		panic(Invalidf("modulus must be at least 2, got %s", n))
	}
	return &IntegersMod{
		n:     new(big.Int).Set(n),
		half:  new(big.Int).Rsh(n, 1),
		prime: IsPrime(n),
	}
}

// NewZp creates the prime field F_p
func NewZp(p int64) *IntegersMod {
	return NewIntegersMod(big.NewInt(p))
}

func (m *IntegersMod) Kind() Kind { return KindModular }

// Modulus returns a copy of n
func (m *IntegersMod) Modulus() *big.Int { return new(big.Int).Set(m.n) }

// Zero returns the additive identity element (0)
func (m *IntegersMod) Zero() *big.Int { return new(big.Int) }

// One returns the multiplicative identity element (1)
func (m *IntegersMod) One() *big.Int { return big.NewInt(1) }

func (m *IntegersMod) FromInt64(n int64) *big.Int {
	return m.Reduce(big.NewInt(n))
}

func (m *IntegersMod) FromBigInt(n *big.Int) *big.Int {
	return m.Reduce(n)
}

// Reduce maps an integer to its canonical residue in [0, n)
func (m *IntegersMod) Reduce(a *big.Int) *big.Int {
	return new(big.Int).Mod(a, m.n)
}

// Symmetric returns the representative of a in (-n/2, n/2]
func (m *IntegersMod) Symmetric(a *big.Int) *big.Int {
	r := new(big.Int).Mod(a, m.n)
	if r.Cmp(m.half) > 0 {
		r.Sub(r, m.n)
	}
	return r
}

func (m *IntegersMod) IsZero(a *big.Int) bool { return a.Sign() == 0 }

func (m *IntegersMod) IsOne(a *big.Int) bool { return a.Cmp(bigOne) == 0 }

func (m *IntegersMod) Equal(a, b *big.Int) bool { return a.Cmp(b) == 0 }

// Add returns a + b mod n
func (m *IntegersMod) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	if r.Cmp(m.n) >= 0 {
		r.Sub(r, m.n)
	}
	return r
}

// Sub returns a - b mod n
func (m *IntegersMod) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	if r.Sign() < 0 {
		r.Add(r, m.n)
	}
	return r
}

func (m *IntegersMod) Neg(a *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(m.n, a)
}

// Mul returns a * b mod n
func (m *IntegersMod) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, m.n)
}

// Inv returns the multiplicative inverse of a
func (m *IntegersMod) Inv(a *big.Int) *big.Int {
	inv := new(big.Int).ModInverse(a, m.n)
	if inv == nil {
		panic(Invalidf("%s is not invertible modulo %s", a, m.n))
	}
	return inv
}

// Quo returns some x with b*x = a mod n, if one exists
func (m *IntegersMod) Quo(a, b *big.Int) (*big.Int, bool) {
	if b.Sign() == 0 {
		return nil, false
	}
	g := new(big.Int).GCD(nil, nil, b, m.n)
	if new(big.Int).Mod(a, g).Sign() != 0 {
		return nil, false
	}
	n := new(big.Int).Quo(m.n, g)
	bb := new(big.Int).Quo(b, g)
	aa := new(big.Int).Quo(a, g)
	inv := new(big.Int).ModInverse(bb, n)
	if inv == nil {
		if n.Cmp(bigOne) == 0 {
			return new(big.Int), true
		}
		return nil, false
	}
	x := inv.Mul(inv, aa)
	return x.Mod(x, n), true
}

func (m *IntegersMod) IsUnit(a *big.Int) bool {
	return new(big.Int).GCD(nil, nil, a, m.n).Cmp(bigOne) == 0
}

func (m *IntegersMod) IsField() bool { return m.prime }

func (m *IntegersMod) Characteristic() *big.Int { return new(big.Int).Set(m.n) }

func (m *IntegersMod) Cardinality() *big.Int { return new(big.Int).Set(m.n) }

// Random returns a uniformly random residue
func (m *IntegersMod) Random(rnd *rand.Rand, _ int64) *big.Int {
	return new(big.Int).Rand(rnd, m.n)
}

// Element returns the residue i mod n
func (m *IntegersMod) Element(i *big.Int) *big.Int {
	return m.Reduce(i)
}

// PthRoot is the identity on a prime field: a^p = a by Fermat.
func (m *IntegersMod) PthRoot(a *big.Int) (*big.Int, bool) {
	if !m.prime {
		return nil, false
	}
	return new(big.Int).Set(a), true
}

func (m *IntegersMod) Format(a *big.Int) string { return a.String() }

func (m *IntegersMod) String() string { return fmt.Sprintf("Z/%s", m.n) }
