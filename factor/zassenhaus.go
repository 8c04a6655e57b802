package factor

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// primeChoice is the prime Zassenhaus lifts from
type primeChoice struct {
	p       *big.Int
	factors []poly.Univariate[*big.Int]
	// degrees[d] is false when no factor of degree d can exist
	degrees     []bool
	irreducible bool
}

// zassenhaus returns the irreducible factors over Z of a squarefree,
// primitive f.
func zassenhaus(ctx context.Context, st *state, opts Options, f poly.Univariate[*big.Int]) ([]poly.Univariate[*big.Int], error) {
	var out []poly.Univariate[*big.Int]
	for f.Degree() > 0 && f.Tc().Sign() == 0 {
		out = append(out, poly.UnivariateMonomial[*big.Int](ring.Z, big.NewInt(1), 1))
		f = poly.NewUnivariate[*big.Int](ring.Z, f.Coeffs()[1:]...)
	}
	if f.Degree() <= 1 {
		if f.Degree() == 1 {
			out = append(out, f)
		}
		return out, nil
	}

	choice, err := choosePrime(ctx, st, opts, f)
	if err != nil {
		return nil, err
	}
	if choice.irreducible {
		return append(out, f), nil
	}
	bound := new(big.Int).Mul(mignotte(f), new(big.Int).Abs(f.Lc()))
	bound.Lsh(bound, 1)

	lift := quadraticLift
	if opts.Hensel == Linear {
		lift = linearLift
	}
	lifted, modulus, err := lift(f, choice.factors, choice.p, bound)
	if err != nil {
		return nil, err
	}
	log.Debugf("lifted %d factors of %s to modulus %s (%s)", len(lifted), f, modulus, opts.Hensel)
	fs, err := recombine(ctx, f, lifted, modulus, choice.degrees)
	if err != nil {
		return nil, err
	}
	return append(out, fs...), nil
}

// mignotte bounds the coefficients of any factor of f by 2^n * ||f||_2
func mignotte(f poly.Univariate[*big.Int]) *big.Int {
	sum := new(big.Int)
	for _, c := range f.Coeffs() {
		sum.Add(sum, new(big.Int).Mul(c, c))
	}
	norm := new(big.Int).Sqrt(sum)
	norm.Add(norm, big.NewInt(1))
	return norm.Lsh(norm, uint(f.Degree()))
}

// choosePrime examines good primes, those not dividing lc(f) and keeping f
// squarefree, intersects the factor degrees they allow and keeps the one
// with the fewest modular factors.
func choosePrime(ctx context.Context, st *state, opts Options, f poly.Univariate[*big.Int]) (primeChoice, error) {
	n := f.Degree()
	allowed := make([]bool, n+1)
	for i := range allowed {
		allowed[i] = true
	}
	var (
		best      *ring.IntegersMod
		bestParts []degreePart[*big.Int]
		bestCount int
		good      int
	)
	seq := ring.NewPrimeSequence(big.NewInt(2))
	tried := 0
	for ; tried < opts.MaxPrimes && good < opts.Primes; tried++ {
		if err := ctx.Err(); err != nil {
			return primeChoice{}, err
		}
		fp := ring.NewIntegersMod(seq.Next())
		if fp.Reduce(f.Lc()).Sign() == 0 {
			continue
		}
		u := residues(f, fp)
		if gcd.Euclid(u, u.Derivative()).Degree() > 0 {
			continue
		}
		parts, err := distinctDegree(ctx, u.Monic())
		if err != nil {
			return primeChoice{}, err
		}
		good++
		count := 0
		sums := make([]bool, n+1)
		sums[0] = true
		for _, part := range parts {
			k := part.f.Degree() / part.d
			count += k
			for ; k > 0; k-- {
				for s := n; s >= part.d; s-- {
					if sums[s-part.d] {
						sums[s] = true
					}
				}
			}
		}
		proper := false
		for d := range allowed {
			allowed[d] = allowed[d] && sums[d]
			if d > 0 && d < n && allowed[d] {
				proper = true
			}
		}
		if count == 1 || !proper {
			log.Debugf("%s is irreducible by its factor degrees modulo %s", f, fp.Modulus())
			return primeChoice{irreducible: true}, nil
		}
		if best == nil || count < bestCount {
			best, bestParts, bestCount = fp, parts, count
		}
	}
	if best == nil {
		return primeChoice{}, &ring.ExhaustionError{
			What:     "good prime",
			Attempts: tried,
			Context:  fmt.Sprintf("%s over Z", f),
		}
	}
	var factors []poly.Univariate[*big.Int]
	for _, part := range bestParts {
		fs, err := equalDegree(ctx, st.rnd, opts.SplitAttempts, part.f, part.d)
		if err != nil {
			return primeChoice{}, err
		}
		factors = append(factors, fs...)
	}
	log.Debugf("using prime %s with %d factors for %s", best.Modulus(), len(factors), f)
	return primeChoice{p: best.Modulus(), factors: factors, degrees: allowed}, nil
}

// recombine finds the true factors among products of subsets of the lifted
// factors us modulo m. Subsets are tried by increasing size; a subset whose
// total degree is excluded by the degree analysis, or whose trailing
// coefficient cannot divide lc(f) * tc(f), is skipped without a division.
func recombine(ctx context.Context, f poly.Univariate[*big.Int], us []poly.Univariate[*big.Int], m *big.Int, allowed []bool) ([]poly.Univariate[*big.Int], error) {
	zm := ring.NewIntegersMod(m)
	var out []poly.Univariate[*big.Int]
	rest := us
	cur := f
	for s := 1; 2*s <= len(rest); {
		lc := cur.Lc()
		lctc := new(big.Int).Mul(lc, cur.Tc())
		found := false
		idx := firstSubset(s)
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if g, q, ok := trySubset(cur, rest, idx, zm, lc, lctc, allowed); ok {
				out = append(out, g)
				cur = q
				rest = removeIndices(rest, idx)
				found = true
				break
			}
			if !nextSubset(idx, len(rest)) {
				break
			}
		}
		if !found {
			s++
		}
	}
	if cur.Degree() > 0 {
		out = append(out, cur)
	}
	return out, nil
}

func trySubset(cur poly.Univariate[*big.Int], us []poly.Univariate[*big.Int], idx []int, zm *ring.IntegersMod, lc, lctc *big.Int, allowed []bool) (poly.Univariate[*big.Int], poly.Univariate[*big.Int], bool) {
	var none poly.Univariate[*big.Int]
	deg := 0
	tc := zm.Reduce(lc)
	for _, i := range idx {
		deg += us[i].Degree()
		tc = zm.Mul(tc, us[i].Tc())
	}
	if deg >= len(allowed) || !allowed[deg] {
		return none, none, false
	}
	tc = zm.Symmetric(tc)
	if tc.Sign() == 0 || new(big.Int).Rem(lctc, tc).Sign() != 0 {
		return none, none, false
	}
	g := poly.NewUnivariate[*big.Int](zm, zm.Reduce(lc))
	for _, i := range idx {
		g = g.Mul(us[i])
	}
	cand := symmetric(g, zm).PrimitivePart()
	q, ok := cur.Quo(cand)
	if !ok {
		return none, none, false
	}
	return cand, q, true
}

// firstSubset returns {0, ..., s-1}
func firstSubset(s int) []int {
	idx := make([]int, s)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// nextSubset advances idx to the next s-subset of {0, ..., n-1} in
// lexicographic order and reports whether there is one.
func nextSubset(idx []int, n int) bool {
	s := len(idx)
	for i := s - 1; i >= 0; i-- {
		if idx[i] < n-s+i {
			idx[i]++
			for j := i + 1; j < s; j++ {
				idx[j] = idx[j-1] + 1
			}
			return true
		}
	}
	return false
}

func containsIndex(idx []int, i int) bool {
	for _, j := range idx {
		if j == i {
			return true
		}
	}
	return false
}

// removeIndices returns xs without the positions in idx
func removeIndices[T any](xs []T, idx []int) []T {
	out := make([]T, 0, len(xs)-len(idx))
	for i, x := range xs {
		if !containsIndex(idx, i) {
			out = append(out, x)
		}
	}
	return out
}
