package main

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/ppopth/polyfactor"
	"github.com/ppopth/polyfactor/ext"
	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// runner executes the commands over one coefficient ring
type runner interface {
	factor(ctx context.Context, text string, squarefree bool) (result, error)
	sqf(ctx context.Context, text string) (result, error)
	isSquarefree(ctx context.Context, text string) (result, error)
	gcd(ctx context.Context, a, b string) (result, error)
	resultant(ctx context.Context, a, b, v string) (result, error)
	coprime(ctx context.Context, texts []string) (result, error)
}

// factorOut is one factor and its multiplicity
type factorOut struct {
	Factor   string `json:"factor"`
	Exponent int    `json:"exponent"`
}

// result is what every command prints, as text or as JSON
type result struct {
	Ring       string      `json:"ring"`
	Op         string      `json:"op"`
	Input      []string    `json:"input"`
	Text       string      `json:"text"`
	Unit       string      `json:"unit,omitempty"`
	Factors    []factorOut `json:"factors,omitempty"`
	Polys      []string    `json:"polys,omitempty"`
	Squarefree *bool       `json:"squarefree,omitempty"`
}

// newRunner parses a ring description: Z, Q, Zp:<p>, GF:<p>^<k>, Q(i), or
// Q(<params>) for rational functions in the comma separated parameters.
func newRunner(desc string, vars []string, cfg polyfactor.Config) (runner, error) {
	switch {
	case desc == "Z":
		return newSession[*big.Int](ring.Z, vars, nil, cfg)
	case desc == "Q":
		return newSession[*big.Rat](ring.Q, vars, nil, cfg)
	case desc == "Q(i)":
		k, err := ext.Gaussian[*big.Rat](ring.Q)
		if err != nil {
			return nil, err
		}
		return newSession[poly.Univariate[*big.Rat]](k, vars, map[string]poly.Univariate[*big.Rat]{"i": k.Generator()}, cfg)
	case strings.HasPrefix(desc, "Zp:"):
		p, err := strconv.ParseInt(strings.TrimPrefix(desc, "Zp:"), 10, 64)
		if err != nil || p < 2 {
			return nil, fmt.Errorf("ring %q: bad modulus", desc)
		}
		return newSession[*big.Int](ring.NewZp(p), vars, nil, cfg)
	case strings.HasPrefix(desc, "GF:"):
		pk := strings.SplitN(strings.TrimPrefix(desc, "GF:"), "^", 2)
		if len(pk) != 2 {
			return nil, fmt.Errorf("ring %q: want GF:<p>^<k>", desc)
		}
		p, err1 := strconv.ParseInt(pk[0], 10, 64)
		k, err2 := strconv.Atoi(pk[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("ring %q: want GF:<p>^<k>", desc)
		}
		f, err := ext.GF(p, k)
		if err != nil {
			return nil, err
		}
		return newSession[poly.Univariate[*big.Int]](f, vars, map[string]poly.Univariate[*big.Int]{f.Name(): f.Generator()}, cfg)
	case strings.HasPrefix(desc, "Q(") && strings.HasSuffix(desc, ")"):
		params := strings.Split(desc[2:len(desc)-1], ",")
		for i := range params {
			params[i] = strings.TrimSpace(params[i])
			if slices.Contains(vars, params[i]) {
				return nil, fmt.Errorf("ring %q: parameter %s is also a variable", desc, params[i])
			}
		}
		fr, err := ext.NewFractions[*big.Rat](ring.Q, params, gcd.NewPRS[*big.Rat](gcd.Subresultant))
		if err != nil {
			return nil, err
		}
		return newSession[ext.Frac[*big.Rat]](fr, vars, fr.Params(), cfg)
	}
	return nil, fmt.Errorf("unknown ring %q (want Z, Q, Zp:<p>, GF:<p>^<k>, Q(i) or Q(<params>))", desc)
}

// session binds the engines of one ring to the parser settings
type session[E any] struct {
	engines *polyfactor.Engines[E]
	vars    []string
	consts  map[string]E
}

func newSession[E any](r ring.Ring[E], vars []string, consts map[string]E, cfg polyfactor.Config) (*session[E], error) {
	e, err := polyfactor.Select(r, cfg)
	if err != nil {
		return nil, err
	}
	return &session[E]{engines: e, vars: vars, consts: consts}, nil
}

func (s *session[E]) parse(text string) (poly.Poly[E], error) {
	p, err := poly.ParseWith(s.engines.Ring(), s.vars, s.consts, text)
	if err != nil {
		return p, fmt.Errorf("parse %q: %w", text, err)
	}
	return p, nil
}

func (s *session[E]) newResult(op string, input ...string) result {
	return result{Ring: s.engines.Ring().String(), Op: op, Input: input}
}

func (s *session[E]) multiset(res result, fs poly.FactorMultiset[E]) result {
	res.Text = fs.Format(s.vars)
	res.Unit = fs.Unit.Format(s.vars)
	for i, f := range fs.Factors {
		res.Factors = append(res.Factors, factorOut{Factor: f.Format(s.vars), Exponent: fs.Exponents[i]})
	}
	return res
}

func (s *session[E]) factor(ctx context.Context, text string, squarefree bool) (result, error) {
	p, err := s.parse(text)
	if err != nil {
		return result{}, err
	}
	var fs poly.FactorMultiset[E]
	if squarefree {
		fs, err = s.engines.FactorsSquarefree(ctx, p)
	} else {
		fs, err = s.engines.Factors(ctx, p)
	}
	if err != nil {
		return result{}, err
	}
	return s.multiset(s.newResult("factor", text), fs), nil
}

func (s *session[E]) sqf(ctx context.Context, text string) (result, error) {
	p, err := s.parse(text)
	if err != nil {
		return result{}, err
	}
	fs, err := s.engines.SquarefreeFactors(ctx, p)
	if err != nil {
		return result{}, err
	}
	return s.multiset(s.newResult("sqf", text), fs), nil
}

func (s *session[E]) isSquarefree(ctx context.Context, text string) (result, error) {
	p, err := s.parse(text)
	if err != nil {
		return result{}, err
	}
	ok, err := s.engines.IsSquarefree(ctx, p)
	if err != nil {
		return result{}, err
	}
	res := s.newResult("is-squarefree", text)
	res.Squarefree = &ok
	res.Text = strconv.FormatBool(ok)
	return res, nil
}

func (s *session[E]) gcd(ctx context.Context, a, b string) (result, error) {
	pa, err := s.parse(a)
	if err != nil {
		return result{}, err
	}
	pb, err := s.parse(b)
	if err != nil {
		return result{}, err
	}
	g, err := s.engines.Gcd(ctx, pa, pb)
	if err != nil {
		return result{}, err
	}
	res := s.newResult("gcd", a, b)
	res.Text = g.Format(s.vars)
	return res, nil
}

func (s *session[E]) resultant(ctx context.Context, a, b, v string) (result, error) {
	idx := slices.Index(s.vars, v)
	if idx < 0 {
		return result{}, fmt.Errorf("%w: unknown variable %q", ring.ErrInvalidOperation, v)
	}
	pa, err := s.parse(a)
	if err != nil {
		return result{}, err
	}
	pb, err := s.parse(b)
	if err != nil {
		return result{}, err
	}
	r, err := s.engines.Resultant(ctx, pa, pb, idx)
	if err != nil {
		return result{}, err
	}
	res := s.newResult("resultant", a, b)
	res.Text = r.Format(s.vars)
	return res, nil
}

func (s *session[E]) coprime(ctx context.Context, texts []string) (result, error) {
	ps := make([]poly.Poly[E], len(texts))
	for i, text := range texts {
		p, err := s.parse(text)
		if err != nil {
			return result{}, err
		}
		ps[i] = p
	}
	basis, err := s.engines.CoPrime(ctx, ps...)
	if err != nil {
		return result{}, err
	}
	res := s.newResult("coprime", texts...)
	for _, b := range basis {
		res.Polys = append(res.Polys, b.Format(s.vars))
	}
	res.Text = strings.Join(res.Polys, "\n")
	return res, nil
}
