// Package factor computes irreducible factorizations of multivariate
// polynomials over the rings supported by polyfactor.
//
// Every Factorizer runs the same outer pipeline: squarefree decomposition,
// removal of the monomial content and of the content in the main variable,
// and then a domain specific splitting step for each primitive squarefree
// part. The splitting step is where the domains differ:
//
//   - finite fields use distinct and equal degree splitting
//   - integers use Zassenhaus with Hensel lifting
//   - rationals clear denominators and use the integer engine
//   - multivariate inputs over fields go through evaluation, bivariate
//     power series lifting and multivariate Hensel lifting
//   - algebraic extensions use Trager's norm method
//   - rational function fields clear denominators into a polynomial ring
package factor

import (
	"context"
	"fmt"
	"math/rand"

	logging "github.com/ipfs/go-log/v2"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
	"github.com/ppopth/polyfactor/sqf"
)

var log = logging.Logger("factor")

// HenselMode selects the univariate lifting used by Zassenhaus
type HenselMode int

const (
	// Quadratic lifts along a factor tree, doubling the modulus each step
	Quadratic HenselMode = iota
	// Linear lifts all factors at once, one power of p per step
	Linear
)

func (m HenselMode) String() string {
	switch m {
	case Quadratic:
		return "quadratic"
	case Linear:
		return "linear"
	}
	return fmt.Sprintf("HenselMode(%d)", int(m))
}

// ParseHenselMode reads the name printed by HenselMode.String
func ParseHenselMode(s string) (HenselMode, error) {
	switch s {
	case "quadratic", "":
		return Quadratic, nil
	case "linear":
		return Linear, nil
	}
	return Quadratic, fmt.Errorf("%w: unknown hensel mode %q", ring.ErrInvalidOperation, s)
}

// Options are the tunables of the factorization engines
type Options struct {
	// Seed initialises the random source of every top level call
	Seed int64
	// Hensel is the univariate lifting used over Z
	Hensel HenselMode
	// Primes is the number of good primes examined before Zassenhaus
	// picks the one with the fewest modular factors
	Primes int
	// MaxPrimes bounds the primes tried while looking for good ones
	MaxPrimes int
	// PointAttempts bounds the evaluation points tried per multivariate
	// polynomial
	PointAttempts int
	// PointBound is the initial bound on evaluation values; it grows
	// with the attempts
	PointBound int64
	// WangAttempts bounds the fresh evaluation points tried when Wang's
	// leading coefficient distribution fails, before lc(p) is imposed on
	// every factor instead. Zero imposes at once.
	WangAttempts int
	// SplitAttempts bounds the random trials of equal degree splitting
	SplitAttempts int
	// TragerShifts bounds the shifts tried for a squarefree norm
	TragerShifts int
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		Seed:          1,
		Hensel:        Quadratic,
		Primes:        5,
		MaxPrimes:     2000,
		PointAttempts: 64,
		PointBound:    8,
		WangAttempts:  4,
		SplitAttempts: 256,
		TragerShifts:  32,
	}
}

// state is the per call mutable state shared by the nested engines
type state struct {
	rnd *rand.Rand
}

// splitFunc returns the irreducible factors of a squarefree polynomial
// that is primitive in its main variable and has no monomial content.
// Multiplicities above one are allowed only for engines that factor a
// transformed polynomial completely.
type splitFunc[E any] func(ctx context.Context, st *state, p poly.Poly[E]) (poly.FactorMultiset[E], error)

// Factorizer factors polynomials over one coefficient ring
type Factorizer[E any] struct {
	ring  ring.Ring[E]
	sqf   *sqf.Engine[E]
	gcd   gcd.Strategy[E]
	opts  Options
	split splitFunc[E]
}

// Ring returns the coefficient ring
func (f *Factorizer[E]) Ring() ring.Ring[E] { return f.ring }

// Options returns the tunables of f
func (f *Factorizer[E]) Options() Options { return f.opts }

func (f *Factorizer[E]) newState() *state {
	return &state{rnd: rand.New(rand.NewSource(f.opts.Seed))}
}

// Factor returns the complete factorization of p: the factors are
// irreducible and in canonical form, and the product equals p.
func (f *Factorizer[E]) Factor(ctx context.Context, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
	return f.factor(ctx, f.newState(), p)
}

// FactorSquarefree factors a polynomial already known to be squarefree.
// The squarefree decomposition is skipped, so the result is unspecified
// when p has a repeated factor.
func (f *Factorizer[E]) FactorSquarefree(ctx context.Context, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
	if p.IsConstant() {
		return poly.NewFactorMultiset(p), nil
	}
	fs, err := f.irreducibles(ctx, f.newState(), p)
	if err != nil {
		return fs, err
	}
	return sqf.Complete(p, fs)
}

func (f *Factorizer[E]) factor(ctx context.Context, st *state, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
	if err := ctx.Err(); err != nil {
		return poly.FactorMultiset[E]{}, err
	}
	if p.IsConstant() {
		return poly.NewFactorMultiset(p), nil
	}
	parts, err := f.sqf.Factors(ctx, p)
	if err != nil {
		return parts, err
	}
	out := poly.NewFactorMultiset(poly.One(p.Ring(), p.NVars()))
	for i, s := range parts.Factors {
		fs, err := f.irreducibles(ctx, st, s)
		if err != nil {
			return out, err
		}
		out.Merge(fs.Raise(parts.Exponents[i]))
	}
	return sqf.Complete(p, out)
}

// irreducibles splits a squarefree p into irreducible factors. The unit of
// the result is meaningless; callers recompute it.
func (f *Factorizer[E]) irreducibles(ctx context.Context, st *state, p poly.Poly[E]) (poly.FactorMultiset[E], error) {
	out := poly.NewFactorMultiset(poly.One(p.Ring(), p.NVars()))
	if p.IsConstant() {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	mc := p.MonomialContent()
	for v, k := range mc {
		out.Add(poly.Var(p.Ring(), p.NVars(), v), k)
	}
	p = p.DivideMonomial(mc)
	if p.IsConstant() {
		return out, nil
	}

	pp, c, err := gcd.PrimitivePartIn(ctx, f.gcd, p, p.MainVar())
	if err != nil {
		return out, err
	}
	if !c.IsConstant() {
		cf, err := f.irreducibles(ctx, st, c)
		if err != nil {
			return out, err
		}
		out.Merge(cf)
	}
	if pp.IsConstant() {
		return out, nil
	}
	if pp.TotalDegree() == 1 {
		out.Add(pp, 1)
		return out, nil
	}
	fs, err := f.split(ctx, st, pp)
	if err != nil {
		return out, err
	}
	out.Merge(fs)
	return out, nil
}

// single wraps one factor into a multiset
func single[E any](p poly.Poly[E]) poly.FactorMultiset[E] {
	out := poly.NewFactorMultiset(poly.One(p.Ring(), p.NVars()))
	out.Add(p, 1)
	return out
}

// multiset collects squarefree factors
func multiset[E any](like poly.Poly[E], ps []poly.Poly[E]) poly.FactorMultiset[E] {
	out := poly.NewFactorMultiset(poly.One(like.Ring(), like.NVars()))
	for _, p := range ps {
		out.Add(poly.Canonical(p), 1)
	}
	return out
}
