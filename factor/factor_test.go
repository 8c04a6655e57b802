package factor

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ppopth/polyfactor/ext"
	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var xyz = []string{"x", "y", "z"}

// checkFactors factors p, checks the product and the number of distinct
// factors, and re-factors every factor to check it is irreducible.
func checkFactors[E any](t *testing.T, f *Factorizer[E], p poly.Poly[E], count int) poly.FactorMultiset[E] {
	t.Helper()
	ctx := context.Background()
	fs, err := f.Factor(ctx, p)
	require.NoError(t, err)
	assert.True(t, fs.Product().Equal(p), "product of %s", fs)
	assert.Equal(t, count, fs.Len(), "factors %s", fs)
	for _, g := range fs.Factors {
		gs, err := f.Factor(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, 1, gs.Len(), "factor %s splits as %s", g, gs)
		if gs.Len() == 1 {
			assert.Equal(t, 1, gs.Exponents[0])
		}
	}
	return fs
}

func integers(mode HenselMode) *Factorizer[*big.Int] {
	opts := DefaultOptions()
	opts.Hensel = mode
	return NewIntegers(gcd.NewCRT(), opts)
}

func TestIntegerScenarios(t *testing.T) {
	tests := []struct {
		p        string
		expected string
	}{
		{"x^4 - 1", "(1) * (x - 1) * (x + 1) * (x^2 + 1)"},
		{"(x + 1)^3", "(1) * (x + 1)^3"},
		{"x^2 - y^2", "(1) * (x - y) * (x + y)"},
		{"6*x^2 - 6", "(6) * (x - 1) * (x + 1)"},
		{"1 - x^2", "(-1) * (x - 1) * (x + 1)"},
		{"x^4 + 4", "(1) * (x^2 - 2*x + 2) * (x^2 + 2*x + 2)"},
		{"x^4 + 1", "(1) * (x^4 + 1)"},
		{"x^3*(x^2 - 2)", "(1) * (x)^3 * (x^2 - 2)"},
		{"-12", "(-12)"},
	}
	for _, mode := range []HenselMode{Quadratic, Linear} {
		f := integers(mode)
		for _, tt := range tests {
			t.Run(mode.String()+"/"+tt.p, func(t *testing.T) {
				p := poly.MustParse[*big.Int](ring.Z, xyz[:2], tt.p)
				fs, err := f.Factor(context.Background(), p)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, fs.Format(xyz[:2]))
				assert.True(t, fs.Product().Equal(p))
			})
		}
	}
}

func TestZassenhausRecombination(t *testing.T) {
	tests := []struct {
		name  string
		p     string
		count int
	}{
		{"three_factors", "(x^2 + 1)*(x^3 + 2*x + 5)*(3*x - 7)", 3},
		{"swinnerton_dyer", "x^4 - 10*x^2 + 1", 1},
		{"cyclotomic", "x^12 - 1", 6},
		{"large_coefficients", "(1000*x^3 + 7)*(17*x^2 - 31)", 2},
		{"repeated", "(x^2 - 3)^2*(x^2 + x + 1)", 2},
	}
	for _, mode := range []HenselMode{Quadratic, Linear} {
		f := integers(mode)
		for _, tt := range tests {
			t.Run(mode.String()+"/"+tt.name, func(t *testing.T) {
				checkFactors(t, f, poly.MustParse[*big.Int](ring.Z, xyz[:1], tt.p), tt.count)
			})
		}
	}
}

func TestIntegerMultivariate(t *testing.T) {
	f := integers(Quadratic)
	tests := []struct {
		name  string
		p     string
		count int
	}{
		{"difference_of_squares", "x^2 - y^2", 2},
		{"bivariate_irreducible", "x^2 + y^2 + 1", 1},
		{"bivariate_three", "(x + y)*(x - y + 1)*(x*y + 3)", 3},
		{"content_in_y", "(y^2 + 1)*(x^2 - y)", 2},
		{"trivariate_wang", "(x*y + z)*(x + y*z + 1)", 2},
		{"trivariate_imposed", "(z*x + y)*(z*x + y + 1)", 2},
		{"trivariate_three", "(x + y + z)*(x - y)*(x*z - 2)", 3},
		{"trivariate_irreducible", "x^2 + y*z + z^2 + 1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkFactors(t, f, poly.MustParse[*big.Int](ring.Z, xyz, tt.p), tt.count)
		})
	}
}

func TestLeadingCoefficientRetries(t *testing.T) {
	// lc = z^2 has a constant image at every point, so Wang's method never
	// applies and the factors are found by imposing lc on each of them
	p := poly.MustParse[*big.Int](ring.Z, xyz, "(z*x + y)*(z*x + y + 1)")
	for _, attempts := range []int{0, 2, DefaultOptions().WangAttempts} {
		opts := DefaultOptions()
		opts.WangAttempts = attempts
		checkFactors(t, NewIntegers(gcd.NewCRT(), opts), p, 2)
	}
}

func TestRationalScenarios(t *testing.T) {
	f := NewRationals(gcd.NewPRS[*big.Rat](gcd.Subresultant), DefaultOptions())
	p := poly.MustParse[*big.Rat](ring.Q, xyz[:1], "x^2 - 1/4")
	fs, err := f.Factor(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "(1/4) * (2*x - 1) * (2*x + 1)", fs.Format(xyz[:1]))

	checkFactors(t, f, poly.MustParse[*big.Rat](ring.Q, xyz[:2], "x^2/2 - y^2/8"), 2)
	checkFactors(t, f, poly.MustParse[*big.Rat](ring.Q, xyz[:2], "(x/3 + y)*(x^2 - 2*y)"), 2)
}

func TestFiniteFieldScenarios(t *testing.T) {
	f5, err := NewFiniteField[*big.Int](ring.NewZp(5), gcd.NewModular[*big.Int](), DefaultOptions())
	require.NoError(t, err)
	p := poly.MustParse[*big.Int](ring.NewZp(5), xyz[:1], "x^5 - x")
	fs, err := f5.Factor(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "(1) * (x) * (x + 1) * (x + 2) * (x + 3) * (x + 4)", fs.Format(xyz[:1]))

	tests := []struct {
		name  string
		p     int64
		poly  string
		count int
	}{
		{"f2_degree_four", 2, "x^15 - 1", 5},
		{"f2_irreducible", 2, "x^4 + x + 1", 1},
		{"f2_square", 2, "x^4 + x^2 + 1", 1},
		{"f3_mixed", 3, "(x^2 + 1)*(x^3 + 2*x + 1)*(x + 2)^3", 3},
		{"f7_cyclotomic", 7, "x^8 - 1", 5},
		{"f101_bivariate", 101, "(x + y + 1)*(x - y)*(x*y + 2)", 3},
		{"f101_trivariate", 101, "(x*y + z + 3)*(x + z^2)", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ring.NewZp(tt.p)
			f, err := NewFiniteField[*big.Int](r, gcd.NewModular[*big.Int](), DefaultOptions())
			require.NoError(t, err)
			checkFactors(t, f, poly.MustParse[*big.Int](r, xyz, tt.poly), tt.count)
		})
	}
}

func TestGaloisFieldFactor(t *testing.T) {
	k, err := ext.GF(2, 2)
	require.NoError(t, err)
	f, err := NewFiniteField[poly.Univariate[*big.Int]](k, gcd.NewModular[poly.Univariate[*big.Int]](), DefaultOptions())
	require.NoError(t, err)
	parse := func(s string) poly.Poly[poly.Univariate[*big.Int]] {
		p, err := poly.ParseWith[poly.Univariate[*big.Int]](k, xyz[:1], map[string]poly.Univariate[*big.Int]{"a": k.Generator()}, s)
		require.NoError(t, err)
		return p
	}
	// x^2 + x + 1 has the roots a and a + 1 in GF(4)
	checkFactors(t, f, parse("x^2 + x + 1"), 2)
	checkFactors(t, f, parse("x^4 - x"), 4)
	checkFactors(t, f, parse("(x + a)^2*(x^3 + x + 1)"), 2)
}

func TestFiniteFieldRejectsInfinite(t *testing.T) {
	_, err := NewFiniteField[*big.Rat](ring.Q, gcd.NewPRS[*big.Rat](gcd.Subresultant), DefaultOptions())
	assert.ErrorIs(t, err, ring.ErrUnsupportedDomain)
}

func TestEvaluationPointsExhausted(t *testing.T) {
	r := ring.NewZp(2)
	opts := DefaultOptions()
	opts.PointAttempts = 8
	f, err := NewFiniteField[*big.Int](r, gcd.NewModular[*big.Int](), opts)
	require.NoError(t, err)
	// the leading coefficient y^2 + y vanishes on all of F_2
	_, err = f.Factor(context.Background(), poly.MustParse[*big.Int](r, xyz[:2], "(y^2 + y)*x^2 + x + 1"))
	require.ErrorIs(t, err, ring.ErrExhausted)
	var ex *ring.ExhaustionError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, "evaluation point", ex.What)
	assert.Equal(t, 8, ex.Attempts)
}

func TestAlgebraicFactor(t *testing.T) {
	q := NewRationals(gcd.NewPRS[*big.Rat](gcd.Subresultant), DefaultOptions())
	qi, err := ext.Gaussian[*big.Rat](ring.Q)
	require.NoError(t, err)
	f, err := NewAlgebraic(qi, q, gcd.NewPRS[poly.Univariate[*big.Rat]](gcd.Subresultant), DefaultOptions())
	require.NoError(t, err)
	parse := func(s string) poly.Poly[poly.Univariate[*big.Rat]] {
		p, err := poly.ParseWith[poly.Univariate[*big.Rat]](qi, xyz[:2], map[string]poly.Univariate[*big.Rat]{"i": qi.Generator()}, s)
		require.NoError(t, err)
		return p
	}
	checkFactors(t, f, parse("x^2 + 1"), 2)
	checkFactors(t, f, parse("x^4 - 1"), 4)
	checkFactors(t, f, parse("x^2 + 2"), 1)
	checkFactors(t, f, parse("x^2 + y^2"), 2)

	m := poly.MustParse[*big.Rat](ring.Q, xyz[:1], "x^2 - 2").Univariate(0)
	qs, err := ext.NewExtension[*big.Rat](ring.Q, m, "s")
	require.NoError(t, err)
	fs, err := NewAlgebraic(qs, q, gcd.NewPRS[poly.Univariate[*big.Rat]](gcd.Subresultant), DefaultOptions())
	require.NoError(t, err)
	p := poly.MustParse[poly.Univariate[*big.Rat]](qs, xyz[:1], "x^4 - 4")
	checkFactors(t, fs, p, 3)
}

func TestAlgebraicTower(t *testing.T) {
	q := NewRationals(gcd.NewPRS[*big.Rat](gcd.Subresultant), DefaultOptions())
	m := poly.MustParse[*big.Rat](ring.Q, xyz[:1], "x^2 - 2").Univariate(0)
	qs, err := ext.NewExtension[*big.Rat](ring.Q, m, "s")
	require.NoError(t, err)
	fs, err := NewAlgebraic(qs, q, gcd.NewPRS[poly.Univariate[*big.Rat]](gcd.Subresultant), DefaultOptions())
	require.NoError(t, err)

	type elem = poly.Univariate[poly.Univariate[*big.Rat]]
	qsi, err := ext.Gaussian[poly.Univariate[*big.Rat]](qs)
	require.NoError(t, err)
	f, err := NewAlgebraic(qsi, fs, gcd.NewPRS[elem](gcd.Subresultant), DefaultOptions())
	require.NoError(t, err)
	p := poly.MustParse[elem](qsi, xyz[:1], "x^2 + 1")
	checkFactors(t, f, p, 2)
}

func TestAlgebraicRejectsFiniteExtension(t *testing.T) {
	k, err := ext.GF(3, 2)
	require.NoError(t, err)
	base, err := NewFiniteField[*big.Int](ring.NewZp(3), gcd.NewModular[*big.Int](), DefaultOptions())
	require.NoError(t, err)
	_, err = NewAlgebraic(k, base, gcd.NewPRS[poly.Univariate[*big.Int]](gcd.Subresultant), DefaultOptions())
	assert.ErrorIs(t, err, ring.ErrUnsupportedDomain)
}

func TestFractionFactor(t *testing.T) {
	q := NewRationals(gcd.NewPRS[*big.Rat](gcd.Subresultant), DefaultOptions())
	qt, err := ext.NewFractions[*big.Rat](ring.Q, []string{"t"}, gcd.NewPRS[*big.Rat](gcd.Subresultant))
	require.NoError(t, err)
	f, err := NewFraction(qt, q, gcd.NewPRS[ext.Frac[*big.Rat]](gcd.Subresultant), DefaultOptions())
	require.NoError(t, err)
	parse := func(s string) poly.Poly[ext.Frac[*big.Rat]] {
		p, err := poly.ParseWith[ext.Frac[*big.Rat]](qt, xyz[:1], qt.Params(), s)
		require.NoError(t, err)
		return p
	}
	checkFactors(t, f, parse("x^2 - t^2"), 2)
	checkFactors(t, f, parse("x^2 - t"), 1)
	checkFactors(t, f, parse("t*x^2 - t"), 2)
	checkFactors(t, f, parse("x^2 - 1/t^2"), 2)

	fs, err := f.Factor(context.Background(), parse("t*x^2 - t"))
	require.NoError(t, err)
	assert.Equal(t, "t", qt.Format(fs.Unit.Lc()))
}

func TestInseparableFraction(t *testing.T) {
	f2 := ring.NewZp(2)
	base, err := NewFiniteField[*big.Int](f2, gcd.NewModular[*big.Int](), DefaultOptions())
	require.NoError(t, err)
	k, err := ext.NewFractions[*big.Int](f2, []string{"t"}, gcd.NewPRS[*big.Int](gcd.Subresultant))
	require.NoError(t, err)
	f, err := NewFraction(k, base, gcd.NewPRS[ext.Frac[*big.Int]](gcd.Subresultant), DefaultOptions())
	require.NoError(t, err)
	parse := func(s string) poly.Poly[ext.Frac[*big.Int]] {
		p, err := poly.ParseWith[ext.Frac[*big.Int]](k, xyz[:1], k.Params(), s)
		require.NoError(t, err)
		return p
	}
	checkFactors(t, f, parse("x^2 + t"), 1)
	fs := checkFactors(t, f, parse("x^2 + t^2"), 1)
	assert.Equal(t, []int{2}, fs.Exponents)
	fs = checkFactors(t, f, parse("(x^2 + t)^3"), 1)
	assert.Equal(t, []int{3}, fs.Exponents)
}

func TestFactorSquarefree(t *testing.T) {
	f := integers(Quadratic)
	p := poly.MustParse[*big.Int](ring.Z, xyz[:2], "2*(x^2 - y^2)*(x + 3)")
	fs, err := f.FactorSquarefree(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "(2) * (x + 3) * (x - y) * (x + y)", fs.Format(xyz[:2]))
}

func TestRefactoringFlattenedProduct(t *testing.T) {
	f := integers(Quadratic)
	ctx := context.Background()
	p := poly.MustParse[*big.Int](ring.Z, xyz[:2], "(x^2 + y)^2*(x - 1)^3*(y + 2)")
	fs, err := f.Factor(ctx, p)
	require.NoError(t, err)
	again, err := f.Factor(ctx, fs.Product())
	require.NoError(t, err)
	assert.Equal(t, fs.String(), again.String())
}

func TestFactorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := integers(Quadratic).Factor(ctx, poly.MustParse[*big.Int](ring.Z, xyz[:1], "(x + 1)^2*(x^2 + 1)"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseHenselMode(t *testing.T) {
	for _, m := range []HenselMode{Quadratic, Linear} {
		got, err := ParseHenselMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseHenselMode("cubic")
	assert.ErrorIs(t, err, ring.ErrInvalidOperation)
}

func TestSubsets(t *testing.T) {
	var got [][]int
	idx := firstSubset(2)
	for {
		got = append(got, append([]int(nil), idx...))
		if !nextSubset(idx, 4) {
			break
		}
	}
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)
	assert.Equal(t, []string{"b", "d"}, removeIndices([]string{"a", "b", "c", "d"}, []int{0, 2}))
}

func TestShiftSequence(t *testing.T) {
	var got []int64
	for i := 0; i < 5; i++ {
		got = append(got, shiftAt(i))
	}
	assert.Equal(t, []int64{0, 1, -1, 2, -2}, got)
}

func TestInverseSeries(t *testing.T) {
	l := poly.MustParse[*big.Rat](ring.Q, xyz[:1], "1 - x").Univariate(0)
	inv := inverseSeries(l, 5)
	for _, c := range inv {
		assert.Equal(t, "1", c.RatString())
	}
}
