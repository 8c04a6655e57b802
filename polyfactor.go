// Package polyfactor selects and wires together the gcd, squarefree and
// factorization engines for a coefficient ring, and exposes them behind
// one validated, context aware API.
package polyfactor

import (
	"context"
	"fmt"
	"math/big"

	logging "github.com/ipfs/go-log/v2"

	"github.com/ppopth/polyfactor/ext"
	"github.com/ppopth/polyfactor/factor"
	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
	"github.com/ppopth/polyfactor/sqf"
)

var log = logging.Logger("polyfactor")

// Engines are the algorithms selected for one coefficient ring
type Engines[E any] struct {
	ring   ring.Ring[E]
	gcd    gcd.Strategy[E]
	sqf    *sqf.Engine[E]
	factor *factor.Factorizer[E]
}

// Select returns the engines for polynomials over r. The choice depends
// only on r.Kind(): Z, Q, Z/p, GF(p^k), algebraic extensions of Q (one or
// two levels deep) and rational function fields over those. Other rings,
// including Z/n for composite n, yield ErrUnsupportedDomain; towers not
// covered here can be assembled with Extend and OverFractions.
func Select[E any](r ring.Ring[E], cfg Config) (*Engines[E], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		out any
		err error
	)
	switch r.Kind() {
	case ring.KindIntegers:
		out, err = integerEngines(cfg)
	case ring.KindRationals:
		out, err = rationalEngines(cfg)
	case ring.KindModular, ring.KindFiniteField:
		out, err = finiteEngines(r, cfg)
	case ring.KindAlgebraic:
		out, err = algebraicEngines(r, cfg)
	case ring.KindFraction:
		out, err = fractionEngines(r, cfg)
	default:
		err = fmt.Errorf("%w: no engines for %s (%s)", ring.ErrUnsupportedDomain, r, r.Kind())
	}
	if err != nil {
		return nil, err
	}
	e, ok := out.(*Engines[E])
	if !ok {
		return nil, fmt.Errorf("%w: %s does not use the element type of a %s ring", ring.ErrUnsupportedDomain, r, r.Kind())
	}
	log.Debugf("selected engines for %s: gcd %T, hensel %s", r, e.gcd, cfg.Hensel)
	return e, nil
}

// Extend builds the engines over an algebraic extension k from the engines
// over its base field.
func Extend[B any](k *ext.Extension[B], base *Engines[B], cfg Config) (*Engines[poly.Univariate[B]], error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	s, err := fieldStrategy[poly.Univariate[B]](cfg.Gcd, k)
	if err != nil {
		return nil, err
	}
	f, err := factor.NewAlgebraic(k, base.factor, s, opts)
	if err != nil {
		return nil, err
	}
	return newEngines[poly.Univariate[B]](k, s, f), nil
}

// OverFractions builds the engines over a rational function field from the
// engines over its constants.
func OverFractions[B any](fr *ext.Fractions[B], base *Engines[B], cfg Config) (*Engines[ext.Frac[B]], error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	s, err := fieldStrategy[ext.Frac[B]](cfg.Gcd, fr)
	if err != nil {
		return nil, err
	}
	f, err := factor.NewFraction(fr, base.factor, s, opts)
	if err != nil {
		return nil, err
	}
	return newEngines[ext.Frac[B]](fr, s, f), nil
}

func newEngines[E any](r ring.Ring[E], s gcd.Strategy[E], f *factor.Factorizer[E]) *Engines[E] {
	return &Engines[E]{ring: r, gcd: s, sqf: sqf.New(s), factor: f}
}

func integerEngines(cfg Config) (*Engines[*big.Int], error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	var s gcd.Strategy[*big.Int]
	switch cfg.Gcd {
	case GcdAuto, GcdModular:
		s = gcd.NewCRT()
	case GcdRace:
		s = gcd.NewRace[*big.Int](gcd.NewCRT(), gcd.NewPRS[*big.Int](gcd.Subresultant))
	default:
		s = gcd.NewPRS[*big.Int](prsVariant(cfg.Gcd))
	}
	return newEngines[*big.Int](ring.Z, s, factor.NewIntegers(s, opts)), nil
}

func rationalEngines(cfg Config) (*Engines[*big.Rat], error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	s, err := fieldStrategy[*big.Rat](cfg.Gcd, ring.Q)
	if err != nil {
		return nil, err
	}
	return newEngines[*big.Rat](ring.Q, s, factor.NewRationals(s, opts)), nil
}

func finiteEngines[E any](r ring.Ring[E], cfg Config) (*Engines[E], error) {
	if !r.IsField() {
		return nil, fmt.Errorf("%w: %s is not a field", ring.ErrUnsupportedDomain, r)
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	var s gcd.Strategy[E]
	switch cfg.Gcd {
	case GcdAuto, GcdModular:
		s = gcd.NewModular[E]()
	case GcdRace:
		s = gcd.NewRace[E](gcd.NewModular[E](), gcd.NewPRS[E](gcd.Subresultant))
	default:
		s = gcd.NewPRS[E](prsVariant(cfg.Gcd))
	}
	f, err := factor.NewFiniteField(r, s, opts)
	if err != nil {
		return nil, err
	}
	return newEngines(r, s, f), nil
}

// algebraicEngines covers Q(a) and Q(a)(b); r is the extension itself
func algebraicEngines(r any, cfg Config) (any, error) {
	switch k := r.(type) {
	case *ext.Extension[*big.Rat]:
		base, err := rationalEngines(cfg)
		if err != nil {
			return nil, err
		}
		return Extend(k, base, cfg)
	case *ext.Extension[poly.Univariate[*big.Rat]]:
		lower, ok := k.Base().(*ext.Extension[*big.Rat])
		if !ok {
			return nil, fmt.Errorf("%w: extension of %s", ring.ErrUnsupportedDomain, k.Base())
		}
		base, err := algebraicEngines(lower, cfg)
		if err != nil {
			return nil, err
		}
		return Extend(k, base.(*Engines[poly.Univariate[*big.Rat]]), cfg)
	}
	return nil, fmt.Errorf("%w: algebraic extension %v, use Extend", ring.ErrUnsupportedDomain, r)
}

// fractionEngines covers K(t) for K = Q, Z, Z/p and Q(a)
func fractionEngines(r any, cfg Config) (any, error) {
	switch fr := r.(type) {
	case *ext.Fractions[*big.Rat]:
		base, err := rationalEngines(cfg)
		if err != nil {
			return nil, err
		}
		return OverFractions(fr, base, cfg)
	case *ext.Fractions[*big.Int]:
		var (
			base *Engines[*big.Int]
			err  error
		)
		if fr.Base().Kind() == ring.KindIntegers {
			base, err = integerEngines(cfg)
		} else {
			base, err = finiteEngines(fr.Base(), cfg)
		}
		if err != nil {
			return nil, err
		}
		return OverFractions(fr, base, cfg)
	case *ext.Fractions[poly.Univariate[*big.Rat]]:
		base, err := algebraicEngines(fr.Base(), cfg)
		if err != nil {
			return nil, err
		}
		return OverFractions(fr, base.(*Engines[poly.Univariate[*big.Rat]]), cfg)
	}
	return nil, fmt.Errorf("%w: rational function field %v, use OverFractions", ring.ErrUnsupportedDomain, r)
}

// fieldStrategy picks a gcd over an infinite field
func fieldStrategy[E any](name string, r ring.Ring[E]) (gcd.Strategy[E], error) {
	switch name {
	case GcdAuto:
		return gcd.NewPRS[E](gcd.Subresultant), nil
	case GcdModular:
		return nil, fmt.Errorf("%w: modular gcd over %s", ring.ErrUnsupportedDomain, r)
	case GcdRace:
		return gcd.NewRace[E](gcd.NewPRS[E](gcd.Subresultant), gcd.NewPRS[E](gcd.Primitive)), nil
	}
	return gcd.NewPRS[E](prsVariant(name)), nil
}

func prsVariant(name string) gcd.Variant {
	if name == GcdPrimitive {
		return gcd.Primitive
	}
	return gcd.Subresultant
}

// Ring returns the coefficient ring
func (e *Engines[E]) Ring() ring.Ring[E] { return e.ring }

// Factors returns the irreducible factorization of p
func (e *Engines[E]) Factors(ctx context.Context, p poly.Poly[E]) (fs poly.FactorMultiset[E], err error) {
	defer e.recoverInvalid(&err, "factors", p)
	if err = e.check(p); err != nil {
		return fs, err
	}
	return e.factor.Factor(ctx, p)
}

// FactorsSquarefree factors a p already known to be squarefree, skipping
// the squarefree decomposition.
func (e *Engines[E]) FactorsSquarefree(ctx context.Context, p poly.Poly[E]) (fs poly.FactorMultiset[E], err error) {
	defer e.recoverInvalid(&err, "squarefree factors", p)
	if err = e.check(p); err != nil {
		return fs, err
	}
	return e.factor.FactorSquarefree(ctx, p)
}

// SquarefreeFactors returns the squarefree decomposition of p
func (e *Engines[E]) SquarefreeFactors(ctx context.Context, p poly.Poly[E]) (fs poly.FactorMultiset[E], err error) {
	defer e.recoverInvalid(&err, "squarefree decomposition", p)
	if err = e.check(p); err != nil {
		return fs, err
	}
	return e.sqf.Factors(ctx, p)
}

// IsSquarefree reports whether no factor of p occurs twice
func (e *Engines[E]) IsSquarefree(ctx context.Context, p poly.Poly[E]) (ok bool, err error) {
	defer e.recoverInvalid(&err, "squarefree test", p)
	if err = e.check(p); err != nil {
		return false, err
	}
	return e.sqf.IsSquarefree(ctx, p)
}

// Gcd returns the normalised gcd of a and b
func (e *Engines[E]) Gcd(ctx context.Context, a, b poly.Poly[E]) (g poly.Poly[E], err error) {
	defer e.recoverInvalid(&err, "gcd", a, b)
	if err = e.check(a, b); err != nil {
		return g, err
	}
	return e.gcd.Gcd(ctx, a, b)
}

// Resultant returns the resultant of a and b with respect to variable v
func (e *Engines[E]) Resultant(ctx context.Context, a, b poly.Poly[E], v int) (res poly.Poly[E], err error) {
	defer e.recoverInvalid(&err, "resultant", a, b)
	if err = e.check(a, b); err != nil {
		return res, err
	}
	if v < 0 || v >= a.NVars() {
		return res, fmt.Errorf("%w: variable %d of a polynomial in %d variables", ring.ErrInvalidOperation, v, a.NVars())
	}
	if err = ctx.Err(); err != nil {
		return res, err
	}
	return gcd.Resultant(a, b, v), nil
}

// CoPrime returns a pairwise coprime basis of ps
func (e *Engines[E]) CoPrime(ctx context.Context, ps ...poly.Poly[E]) (out []poly.Poly[E], err error) {
	defer e.recoverInvalid(&err, "coprime basis", ps...)
	if err = e.check(ps...); err != nil {
		return nil, err
	}
	return gcd.CoPrime(ctx, e.gcd, ps)
}

// check rejects operands over another ring or with differing arity
func (e *Engines[E]) check(ps ...poly.Poly[E]) error {
	for i, p := range ps {
		if p.Ring() == nil || !ring.Same(p.Ring(), e.ring) {
			return fmt.Errorf("%w: operand %d is over %v, engines are over %s", ring.ErrInvalidOperation, i, p.Ring(), e.ring)
		}
		if p.NVars() != ps[0].NVars() {
			return fmt.Errorf("%w: operand %d has %d variables, operand 0 has %d", ring.ErrInvalidOperation, i, p.NVars(), ps[0].NVars())
		}
	}
	return nil
}

// recoverInvalid turns an invalid operation panic raised by the arithmetic into
// an error naming the operation, the operands and the ring. Other panics
// are propagated.
func (e *Engines[E]) recoverInvalid(err *error, op string, ps ...poly.Poly[E]) {
	r := recover()
	if r == nil {
		return
	}
	inv, ok := r.(*ring.InvalidOperationError)
	if !ok {
		panic(r)
	}
	*err = fmt.Errorf("%s of %v over %s: %w", op, ps, e.ring, inv)
}
