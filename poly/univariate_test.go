package poly

import (
	"math/big"
	"testing"

	"github.com/ppopth/polyfactor/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zu(cs ...int64) Univariate[*big.Int] {
	bs := make([]*big.Int, len(cs))
	for i, c := range cs {
		bs[i] = big.NewInt(c)
	}
	return NewUnivariate[*big.Int](ring.Z, bs...)
}

func TestUnivariateBasics(t *testing.T) {
	a := zu(1, 0, 0, 0)
	assert.Equal(t, 0, a.Degree())
	assert.Equal(t, -1, zu().Degree())
	assert.Equal(t, "x^2 + 2*x + 1", zu(1, 1).Pow(2).String())
	assert.Equal(t, "x^3 + x^2", zu(1, 1).ShiftLeft(2).String())
	assert.Equal(t, "2*x + 1", zu(1, 2, 3).Truncate(2).String())
	assert.Equal(t, int64(17), zu(1, 2, 3).Eval(big.NewInt(2)).Int64())
	assert.Equal(t, "6*x + 2", zu(1, 2, 3).Derivative().String())
}

func TestUnivariateDivision(t *testing.T) {
	q, r := zu(-1, 0, 0, 1).DivRem(zu(-1, 1))
	assert.Equal(t, "x^2 + x + 1", q.String())
	assert.True(t, r.IsZero())

	exact, ok := zu(2, 4, 2).Quo(zu(1, 1))
	require.True(t, ok)
	assert.Equal(t, "2*x + 2", exact.String())

	_, ok = zu(1, 0, 1).Quo(zu(0, 2))
	assert.False(t, ok)

	pq, pr := zu(1, 0, 1).PseudoDivRem(zu(1, 2))
	assert.Equal(t, "2*x - 1", pq.String())
	assert.Equal(t, "5", pr.String())

	assert.Panics(t, func() { zu(1, 0, 1).DivRem(zu(1, 2)) })
}

func TestKaratsubaMatchesSchoolbook(t *testing.T) {
	var a, b []*big.Int
	for i := 0; i < 100; i++ {
		a = append(a, big.NewInt(int64(i+1)))
	}
	for i := 0; i < 70; i++ {
		b = append(b, big.NewInt(int64(2*i-3)))
	}
	fast := trim[*big.Int](ring.Z, mulKaratsuba[*big.Int](ring.Z, a, b))
	slow := trim[*big.Int](ring.Z, mulSchoolbook[*big.Int](ring.Z, a, b))
	require.Equal(t, len(slow), len(fast))
	for i := range slow {
		assert.Equal(t, 0, slow[i].Cmp(fast[i]), "coefficient %d", i)
	}
}

func TestPowMod(t *testing.T) {
	f := ring.NewZp(7)
	x := NewUnivariate[*big.Int](f, f.Zero(), f.One())
	m := NewUnivariate[*big.Int](f, f.One(), f.Zero(), f.One())
	// x^2 = -1, so x^7 = -x
	got := x.PowMod(big.NewInt(7), m)
	assert.True(t, got.Equal(NewUnivariate[*big.Int](f, f.Zero(), f.FromInt64(6))))
}

func TestCompose(t *testing.T) {
	assert.Equal(t, "x^2 + 2*x + 1", zu(0, 0, 1).Compose(zu(1, 1)).String())
	assert.Equal(t, "x^2 - 2*x + 1", zu(0, 0, 1).Shift(big.NewInt(-1)).String())
}

func TestUnivariateConversion(t *testing.T) {
	p := zxy("3*y^2 - 1")
	u := p.Univariate(1)
	assert.Equal(t, "3*x^2 - 1", u.String())
	assert.True(t, p.Equal(u.Multivariate(2, 1)))
	assert.Panics(t, func() { zxy("x*y").Univariate(0) })
}
