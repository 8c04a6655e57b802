package polyfactor

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppopth/polyfactor/ext"
	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

var xy = []string{"x", "y"}

func integers(t *testing.T) *Engines[*big.Int] {
	t.Helper()
	e, err := Select[*big.Int](ring.Z, DefaultConfig())
	require.NoError(t, err)
	return e
}

func z(s string) poly.Poly[*big.Int] { return poly.MustParse[*big.Int](ring.Z, xy, s) }

func TestSelectScenarios(t *testing.T) {
	ctx := context.Background()
	t.Run("integers", func(t *testing.T) {
		fs, err := integers(t).Factors(ctx, z("x^4 - 1"))
		require.NoError(t, err)
		assert.Equal(t, "(1) * (x - 1) * (x + 1) * (x^2 + 1)", fs.Format(xy))
	})
	t.Run("rationals", func(t *testing.T) {
		e, err := Select[*big.Rat](ring.Q, DefaultConfig())
		require.NoError(t, err)
		fs, err := e.Factors(ctx, poly.MustParse[*big.Rat](ring.Q, xy, "x^2 - 1/4"))
		require.NoError(t, err)
		assert.Equal(t, "(1/4) * (2*x - 1) * (2*x + 1)", fs.Format(xy))
	})
	t.Run("prime_field", func(t *testing.T) {
		r := ring.NewZp(5)
		e, err := Select[*big.Int](r, DefaultConfig())
		require.NoError(t, err)
		fs, err := e.Factors(ctx, poly.MustParse[*big.Int](r, xy, "x^5 - x"))
		require.NoError(t, err)
		assert.Equal(t, 5, fs.Len())
	})
	t.Run("galois_field", func(t *testing.T) {
		k, err := ext.GF(3, 2)
		require.NoError(t, err)
		e, err := Select[poly.Univariate[*big.Int]](k, DefaultConfig())
		require.NoError(t, err)
		// every element of GF(9) is a root of x^9 - x
		fs, err := e.Factors(ctx, poly.MustParse[poly.Univariate[*big.Int]](k, xy, "x^9 - x"))
		require.NoError(t, err)
		assert.Equal(t, 9, fs.Len())
	})
	t.Run("gaussian_rationals", func(t *testing.T) {
		k, err := ext.Gaussian[*big.Rat](ring.Q)
		require.NoError(t, err)
		e, err := Select[poly.Univariate[*big.Rat]](k, DefaultConfig())
		require.NoError(t, err)
		fs, err := e.Factors(ctx, poly.MustParse[poly.Univariate[*big.Rat]](k, xy, "x^2 + 1"))
		require.NoError(t, err)
		assert.Equal(t, 2, fs.Len())
	})
	t.Run("complex_over_algebraic", func(t *testing.T) {
		m := poly.MustParse[*big.Rat](ring.Q, xy[:1], "x^2 - 3").Univariate(0)
		k, err := ext.NewExtension[*big.Rat](ring.Q, m, "s")
		require.NoError(t, err)
		ki, err := ext.Gaussian[poly.Univariate[*big.Rat]](k)
		require.NoError(t, err)
		type elem = poly.Univariate[poly.Univariate[*big.Rat]]
		e, err := Select[elem](ki, DefaultConfig())
		require.NoError(t, err)
		fs, err := e.Factors(ctx, poly.MustParse[elem](ki, xy, "x^2 + 1"))
		require.NoError(t, err)
		assert.Equal(t, 2, fs.Len())
	})
	t.Run("rational_functions", func(t *testing.T) {
		k, err := ext.NewFractions[*big.Rat](ring.Q, []string{"t"}, gcd.NewPRS[*big.Rat](gcd.Subresultant))
		require.NoError(t, err)
		e, err := Select[ext.Frac[*big.Rat]](k, DefaultConfig())
		require.NoError(t, err)
		p, err := poly.ParseWith[ext.Frac[*big.Rat]](k, xy[:1], k.Params(), "x^2 - t^2")
		require.NoError(t, err)
		fs, err := e.Factors(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, 2, fs.Len())
		assert.True(t, fs.Product().Equal(p))
	})
}

func TestSelectUnsupported(t *testing.T) {
	_, err := Select[*big.Int](ring.NewIntegersMod(big.NewInt(6)), DefaultConfig())
	assert.ErrorIs(t, err, ring.ErrUnsupportedDomain)

	_, err = Select[*big.Rat](ring.Q, Config{})
	assert.ErrorIs(t, err, ring.ErrInvalidOperation)

	cfg := DefaultConfig()
	cfg.Gcd = GcdModular
	_, err = Select[*big.Rat](ring.Q, cfg)
	assert.ErrorIs(t, err, ring.ErrUnsupportedDomain)
}

func TestGcdStrategiesAgree(t *testing.T) {
	ctx := context.Background()
	p := z("(x^2 - y^2)*(x + 2)^2")
	q := z("(x + y)*(x + 2)*(x*y + 1)")
	var want string
	for _, name := range []string{GcdAuto, GcdSubresultant, GcdPrimitive, GcdModular, GcdRace} {
		t.Run(name, func(t *testing.T) {
			cfg, err := NewConfig(WithGcd(name))
			require.NoError(t, err)
			e, err := Select[*big.Int](ring.Z, cfg)
			require.NoError(t, err)

			g, err := e.Gcd(ctx, p, q)
			require.NoError(t, err)
			assert.Equal(t, "x^2 + x*y + 2*x + 2*y", g.Format(xy))

			fs, err := e.Factors(ctx, p)
			require.NoError(t, err)
			if want == "" {
				want = fs.String()
			}
			assert.Equal(t, want, fs.String())
		})
	}
}

func TestOperations(t *testing.T) {
	ctx := context.Background()
	e := integers(t)

	g, err := e.Gcd(ctx, z("6 - 6*x^2"), poly.Zero(ring.Z, 2))
	require.NoError(t, err)
	assert.Equal(t, "6*x^2 - 6", g.Format(xy))

	ok, err := e.IsSquarefree(ctx, z("(x + 1)^2*(x - 1)"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.IsSquarefree(ctx, z("x^2 - y^2"))
	require.NoError(t, err)
	assert.True(t, ok)

	fs, err := e.SquarefreeFactors(ctx, z("(x + 1)^2*(x - 1)"))
	require.NoError(t, err)
	assert.Equal(t, "(1) * (x - 1) * (x + 1)^2", fs.Format(xy))

	fs, err = e.FactorsSquarefree(ctx, z("x^2 - y^2"))
	require.NoError(t, err)
	assert.Equal(t, "(1) * (x - y) * (x + y)", fs.Format(xy))

	res, err := e.Resultant(ctx, z("x^2 - 2"), z("x - y"), 0)
	require.NoError(t, err)
	assert.Equal(t, "y^2 - 2", res.Format(xy))

	basis, err := e.CoPrime(ctx, z("x^2 - 1"), z("x^2 + 2*x + 1"))
	require.NoError(t, err)
	assert.Len(t, basis, 2)
}

func TestOperandValidation(t *testing.T) {
	ctx := context.Background()
	e := integers(t)

	_, err := e.Resultant(ctx, z("x"), z("y"), 2)
	assert.ErrorIs(t, err, ring.ErrInvalidOperation)

	_, err = e.Gcd(ctx, z("x"), poly.MustParse[*big.Int](ring.Z, []string{"x", "y", "z"}, "x"))
	assert.ErrorIs(t, err, ring.ErrInvalidOperation)

	f7, err := Select[*big.Int](ring.NewZp(7), DefaultConfig())
	require.NoError(t, err)
	_, err = f7.Factors(ctx, z("x^2 + 1"))
	assert.ErrorIs(t, err, ring.ErrInvalidOperation)

	_, err = e.Factors(ctx, poly.Poly[*big.Int]{})
	assert.ErrorIs(t, err, ring.ErrInvalidOperation)
}

func TestRecoverInvalidOperation(t *testing.T) {
	e := integers(t)
	run := func() (err error) {
		defer e.recoverInvalid(&err, "test", z("x"))
		panic(ring.Invalidf("incompatible operands"))
	}
	err := run()
	require.ErrorIs(t, err, ring.ErrInvalidOperation)
	assert.Contains(t, err.Error(), "test of [x] over")

	assert.Panics(t, func() {
		var err error
		defer e.recoverInvalid(&err, "test")
		panic("unrelated")
	})
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := integers(t).Factors(ctx, z("(x + 1)^2*(x^2 + y)"))
	assert.ErrorIs(t, err, context.Canceled)
}
