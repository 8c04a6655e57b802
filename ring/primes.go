package ring

import (
	"math/big"
	"slices"
	"sort"
	"sync"

	"github.com/tuneinsight/lattigo/v5/utils/factorization"
)

// sieveLimit bounds the lazily built table of small primes.
const sieveLimit = 1 << 16

var (
	primesOnce  sync.Once
	smallPrimes []int64
)

func sieve() {
	composite := make([]bool, sieveLimit)
	for i := 2; i < sieveLimit; i++ {
		if composite[i] {
			continue
		}
		smallPrimes = append(smallPrimes, int64(i))
		for j := i * i; j < sieveLimit; j += i {
			composite[j] = true
		}
	}
}

// SmallPrimes returns the shared table of primes below 2^16. The table is
// built on first use and must not be modified by callers.
func SmallPrimes() []int64 {
	primesOnce.Do(sieve)
	return smallPrimes
}

// PrimeAt returns the i-th prime (PrimeAt(0) = 2) from the small table.
// The second result is false when i is beyond the table.
func PrimeAt(i int) (int64, bool) {
	ps := SmallPrimes()
	if i < 0 || i >= len(ps) {
		return 0, false
	}
	return ps[i], true
}

// IsPrime reports whether n is prime
func IsPrime(n *big.Int) bool {
	if n.Sign() <= 0 {
		return false
	}
	if n.IsInt64() && n.Int64() < sieveLimit {
		v := n.Int64()
		ps := SmallPrimes()
		i := sort.Search(len(ps), func(i int) bool { return ps[i] >= v })
		return i < len(ps) && ps[i] == v
	}
	return factorization.IsPrime(n)
}

// NextPrime returns the smallest prime strictly greater than n
func NextPrime(n *big.Int) *big.Int {
	if n.Sign() < 0 || n.Cmp(big.NewInt(2)) < 0 {
		return big.NewInt(2)
	}
	if n.IsInt64() && n.Int64() < sieveLimit-1 {
		v := n.Int64()
		ps := SmallPrimes()
		i := sort.Search(len(ps), func(i int) bool { return ps[i] > v })
		if i < len(ps) {
			return big.NewInt(ps[i])
		}
	}
	c := new(big.Int).Add(n, bigOne)
	if c.Bit(0) == 0 {
		c.Add(c, bigOne)
	}
	two := big.NewInt(2)
	for !IsPrime(c) {
		c.Add(c, two)
	}
	return c
}

// PrimeSequence enumerates primes upward from a starting point. Engines
// use it to walk through candidate moduli without sharing mutable state.
type PrimeSequence struct {
	cur *big.Int
}

// NewPrimeSequence starts the sequence at the first prime > from
func NewPrimeSequence(from *big.Int) *PrimeSequence {
	return &PrimeSequence{cur: new(big.Int).Set(from)}
}

// Next returns the next prime of the sequence
func (s *PrimeSequence) Next() *big.Int {
	s.cur = NextPrime(s.cur)
	return new(big.Int).Set(s.cur)
}

// PrimeDivisors returns the distinct prime divisors of n > 0 in increasing
// order. Small inputs are handled by trial division over the prime table,
// larger cofactors by the factorization routines of lattigo.
func PrimeDivisors(n *big.Int) []*big.Int {
	m := new(big.Int).Abs(n)
	var ds []*big.Int
	for _, p := range SmallPrimes() {
		if m.Cmp(bigOne) <= 0 {
			break
		}
		bp := big.NewInt(p)
		if new(big.Int).Mod(m, bp).Sign() != 0 {
			continue
		}
		ds = append(ds, bp)
		for new(big.Int).Mod(m, bp).Sign() == 0 {
			m.Quo(m, bp)
		}
	}
	if m.Cmp(bigOne) > 0 {
		if IsPrime(m) {
			ds = append(ds, m)
		} else {
			for _, f := range factorization.GetFactors(m) {
				if !slices.ContainsFunc(ds, func(d *big.Int) bool { return d.Cmp(f) == 0 }) {
					ds = append(ds, f)
				}
			}
		}
	}
	slices.SortFunc(ds, func(a, b *big.Int) int { return a.Cmp(b) })
	return ds
}
