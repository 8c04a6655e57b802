package sqf

import (
	"context"
	"math/big"
	"testing"

	"github.com/ppopth/polyfactor/ext"
	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var xy = []string{"x", "y"}

func checkDecomposition[E any](t *testing.T, e *Engine[E], p poly.Poly[E], expected string) {
	t.Helper()
	fs, err := e.Factors(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, expected, fs.Format(xy[:p.NVars()]))
	assert.True(t, fs.Product().Equal(p), "product of %s", fs)
}

func TestIntegerSquarefree(t *testing.T) {
	e := New[*big.Int](gcd.NewPRS[*big.Int](gcd.Subresultant))
	tests := []struct {
		name     string
		p        string
		expected string
	}{
		{"cube", "(x + 1)^3", "(1) * (x + 1)^3"},
		{"negative_content", "-2*(x - 1)^2*(x + 2)", "(-2) * (x - 1)^2 * (x + 2)"},
		{"already_squarefree", "x^4 - 1", "(1) * (x^4 - 1)"},
		{"constant", "6", "(6)"},
		{"monomial_content", "(x + y)^2*(x - y)*y^3", "(1) * (y)^3 * (x - y) * (x + y)^2"},
		{"content_in_y", "(y + 1)^2*(x + 1)", "(1) * (y + 1)^2 * (x + 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkDecomposition(t, e, poly.MustParse[*big.Int](ring.Z, xy, tt.p), tt.expected)
		})
	}
}

func TestRationalSquarefree(t *testing.T) {
	e := New[*big.Rat](gcd.NewPRS[*big.Rat](gcd.Subresultant))
	x := []string{"x"}
	checkDecomposition(t, e, poly.MustParse[*big.Rat](ring.Q, x, "x^2 - 1/4"), "(1/4) * (4*x^2 - 1)")
	checkDecomposition(t, e, poly.MustParse[*big.Rat](ring.Q, x, "(2*x + 1)^2/3"), "(1/3) * (2*x + 1)^2")
}

func TestFiniteFieldSquarefree(t *testing.T) {
	tests := []struct {
		name     string
		p        int64
		poly     string
		expected string
	}{
		{"x5_minus_x", 5, "x^5 - x", "(1) * (x) * (x^4 + 4)"},
		{"pth_power_part", 3, "(x + 1)^3*(x + 2)", "(1) * (x + 1)^3 * (x + 2)"},
		{"multiplicity_above_p", 3, "(x + 1)^4", "(1) * (x + 1)^4"},
		{"bivariate", 2, "(x + y)^2*(x + 1)", "(1) * (x + 1) * (x + y)^2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ring.NewZp(tt.p)
			e := New[*big.Int](gcd.NewModular[*big.Int]())
			checkDecomposition(t, e, poly.MustParse[*big.Int](f, xy, tt.poly), tt.expected)
		})
	}
}

func TestExtensionSquarefree(t *testing.T) {
	f, err := ext.GF(2, 2)
	require.NoError(t, err)
	consts := map[string]poly.Univariate[*big.Int]{"a": f.Generator()}
	p, err := poly.ParseWith[poly.Univariate[*big.Int]](f, []string{"x"}, consts, "(x + a)^2*(x + 1)")
	require.NoError(t, err)
	e := New[poly.Univariate[*big.Int]](gcd.NewPRS[poly.Univariate[*big.Int]](gcd.Subresultant))
	checkDecomposition(t, e, p, "(1) * (x + 1) * (x + a)^2")
}

func TestInseparableSquarefree(t *testing.T) {
	f2 := ring.NewZp(2)
	k, err := ext.NewFractions[*big.Int](f2, []string{"t"}, gcd.NewPRS[*big.Int](gcd.Subresultant))
	require.NoError(t, err)
	e := New[ext.Frac[*big.Int]](gcd.NewPRS[ext.Frac[*big.Int]](gcd.Subresultant))
	parse := func(s string) poly.Poly[ext.Frac[*big.Int]] {
		p, err := poly.ParseWith[ext.Frac[*big.Int]](k, []string{"x"}, k.Params(), s)
		require.NoError(t, err)
		return p
	}

	checkDecomposition(t, e, parse("x^2 + t^2"), "(1) * (x + t)^2")
	checkDecomposition(t, e, parse("x^2 + t"), "(1) * (x^2 + t)")
	ok, err := e.IsSquarefree(context.Background(), parse("x^2 + t"))
	require.NoError(t, err)
	assert.True(t, ok)

	tests := []struct {
		name       string
		p          string
		expected   string
		squarefree bool
	}{
		{"odd_power", "(x^2 + t)^3", "(1) * (x^2 + t)^3", false},
		{"odd_power_times_separable", "(x^2 + t)^3*(x + 1)", "(1) * (x + 1) * (x^2 + t)^3", false},
		{"mixed_components", "(x^2 + t)*(x + t)^2", "(1) * (x + t)^2 * (x^2 + t)", false},
		{"square_coefficients", "(x^2 + t)^2*(x^2 + t^2)", "(1) * (x + t)^2 * (x^2 + t)^2", false},
		{"irreducible_inseparable", "x^4 + t*x^2 + t", "(1) * (x^4 + t*x^2 + t)", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(tt.p)
			checkDecomposition(t, e, p, tt.expected)
			ok, err := e.IsSquarefree(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, tt.squarefree, ok)
		})
	}
}

func TestIsSquarefreeAndPart(t *testing.T) {
	e := New[*big.Int](gcd.NewPRS[*big.Int](gcd.Subresultant))
	tests := []struct {
		p          string
		squarefree bool
		part       string
	}{
		{"x^2 - 1", true, "x^2 - 1"},
		{"(x - 1)^2*(x + 3)", false, "x^2 + 2*x - 3"},
		{"4*x^2", false, "x"},
		{"7", true, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.p, func(t *testing.T) {
			p := poly.MustParse[*big.Int](ring.Z, xy, tt.p)
			ok, err := e.IsSquarefree(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, tt.squarefree, ok)
			part, err := e.Part(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, tt.part, part.String())
		})
	}
}

func TestSquarefreeRejectsCompositeModulus(t *testing.T) {
	r := ring.NewIntegersMod(big.NewInt(6))
	e := New[*big.Int](gcd.NewPRS[*big.Int](gcd.Subresultant))
	_, err := e.Factors(context.Background(), poly.MustParse[*big.Int](r, xy, "x^2 + 1"))
	assert.ErrorIs(t, err, ring.ErrUnsupportedDomain)
}

func TestSquarefreeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New[*big.Int](gcd.NewPRS[*big.Int](gcd.Subresultant))
	_, err := e.Factors(ctx, poly.MustParse[*big.Int](ring.Z, xy, "(x + 1)^2"))
	assert.ErrorIs(t, err, context.Canceled)
}
