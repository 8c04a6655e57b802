package gcd

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var xy = []string{"x", "y"}

func zp(s string) poly.Poly[*big.Int] {
	return poly.MustParse[*big.Int](ring.Z, xy, s)
}

func qp(s string) poly.Poly[*big.Rat] {
	return poly.MustParse[*big.Rat](ring.Q, xy, s)
}

func integerStrategies() map[string]Strategy[*big.Int] {
	return map[string]Strategy[*big.Int]{
		"subresultant": NewPRS[*big.Int](Subresultant),
		"primitive":    NewPRS[*big.Int](Primitive),
		"euclidean":    NewPRS[*big.Int](Euclidean),
		"crt":          NewCRT(),
		"race":         NewRace[*big.Int](NewPRS[*big.Int](Subresultant), NewCRT()),
	}
}

func TestIntegerGcd(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected string
	}{
		{"univariate", "x^2 - 1", "x^2 + 2*x + 1", "x + 1"},
		{"with_content", "6*x^2 - 6", "4*x + 4", "2*x + 2"},
		{"coprime", "x^2 + 1", "x - 3", "1"},
		{"zero_operand", "-2*x - 2", "0", "2*x + 2"},
		{"both_zero", "0", "0", "0"},
		{"constant", "6", "4*x + 2", "2"},
		{"bivariate", "2*(x + y)*(x - y)", "4*(x + y)^2", "2*x + 2*y"},
		{"bivariate_content_in_y", "(y + 1)*(x + y)", "(y + 1)*(x - y)", "y + 1"},
		{"dense_cubic", "3*(x^2 + 3*x - 7)*(2*x - 5)", "6*(x^2 + 3*x - 7)*(x + 11)", "3*x^2 + 9*x - 21"},
		{"sparse_multivariate", "(3*x*y - 2*y + 1)*(x + y)", "(3*x*y - 2*y + 1)*(x - y^2 + 4)", "3*x*y - 2*y + 1"},
	}
	for name, s := range integerStrategies() {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				g, err := s.Gcd(context.Background(), zp(tt.a), zp(tt.b))
				require.NoError(t, err)
				assert.Equal(t, tt.expected, g.String())
			})
		}
	}
}

func TestGcdDividesBoth(t *testing.T) {
	a := zp("(x^3 - y^2*x + 5)*(x*y + 7)^2")
	b := zp("(x*y + 7)*(y^3 - 2*x)")
	for name, s := range integerStrategies() {
		t.Run(name, func(t *testing.T) {
			g, err := s.Gcd(context.Background(), a, b)
			require.NoError(t, err)
			assert.Equal(t, "x*y + 7", g.String())
			_, ok := a.Quo(g)
			assert.True(t, ok)
			_, ok = b.Quo(g)
			assert.True(t, ok)
		})
	}
}

func TestRationalGcdIsMonic(t *testing.T) {
	for _, v := range []Variant{Subresultant, Primitive, Euclidean} {
		t.Run(v.String(), func(t *testing.T) {
			g, err := NewPRS[*big.Rat](v).Gcd(context.Background(), qp("2*x^2 - 2"), qp("4*x + 4"))
			require.NoError(t, err)
			assert.Equal(t, "x + 1", g.String())

			g, err = NewPRS[*big.Rat](v).Gcd(context.Background(), qp("x^2*y - y"), qp("3*x*y + 3*y"))
			require.NoError(t, err)
			assert.Equal(t, "x*y + y", g.String())
		})
	}
}

func TestModularGcd(t *testing.T) {
	f := ring.NewZp(101)
	parse := func(s string) poly.Poly[*big.Int] { return poly.MustParse[*big.Int](f, xy, s) }
	tests := []struct {
		name     string
		a, b     string
		expected string
	}{
		{"common_linear", "(x + y + 1)*(x - y)", "(x + y + 1)*(x + 2*y)", "x + y + 1"},
		{"content_in_y", "(y + 1)*(x + y)", "(y + 1)*(x - y)", "y + 1"},
		{"monic_result", "3*(x*y + 2)*(x + 1)", "5*(x*y + 2)*(y + 1)", "x*y + 2"},
		{"coprime", "x^2 + y", "x + y^2 + 1", "1"},
		{"univariate", "x^2 - 1", "x^2 - 2*x + 1", "x + 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewModular[*big.Int]().Gcd(context.Background(), parse(tt.a), parse(tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, g.String())
		})
	}
}

func TestModularGcdSmallFieldFallsBack(t *testing.T) {
	f := ring.NewZp(2)
	parse := func(s string) poly.Poly[*big.Int] { return poly.MustParse[*big.Int](f, xy, s) }
	g, err := NewModular[*big.Int]().Gcd(context.Background(), parse("(x + y)*(x + y + 1)"), parse("(x + y)*(x + 1)"))
	require.NoError(t, err)
	assert.Equal(t, "x + y", g.String())
}

func TestModularRejectsInfiniteFields(t *testing.T) {
	_, err := NewModular[*big.Rat]().Gcd(context.Background(), qp("x"), qp("x"))
	assert.ErrorIs(t, err, ring.ErrUnsupportedDomain)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPRS[*big.Int](Subresultant).Gcd(ctx, zp("x^2 - 1"), zp("x - 1"))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = NewCRT().Gcd(ctx, zp("x^2 - 1"), zp("x - 1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtendedEuclid(t *testing.T) {
	a := qp("x^2 - 1").Univariate(0)
	b := qp("x - 2").Univariate(0)
	g, s, u := ExtendedEuclid(a, b)
	assert.True(t, g.IsOne())
	assert.True(t, s.Mul(a).Add(u.Mul(b)).Equal(g))

	a = qp("x^3 - x").Univariate(0)
	b = qp("2*x^2 - 2*x").Univariate(0)
	g, s, u = ExtendedEuclid(a, b)
	assert.Equal(t, "x^2 - x", g.String())
	assert.True(t, s.Mul(a).Add(u.Mul(b)).Equal(g))
}

func TestLCMAndContent(t *testing.T) {
	ctx := context.Background()
	s := NewPRS[*big.Int](Subresultant)
	l, err := LCM[*big.Int](ctx, s, zp("x^2 - 1"), zp("x + 1"))
	require.NoError(t, err)
	assert.Equal(t, "x^2 - 1", l.String())

	c, err := ContentIn[*big.Int](ctx, s, zp("2*x*y + 2*y"), 0)
	require.NoError(t, err)
	assert.Equal(t, "2*y", c.String())

	all, err := All[*big.Int](ctx, s, zp("x^3 - x"), zp("x^2 - 1"), zp("2*x - 2"))
	require.NoError(t, err)
	assert.Equal(t, "x - 1", all.String())
}

func TestResultant(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		v        int
		expected string
	}{
		{"univariate", "x^2 - 2", "x - 1", 0, "-1"},
		{"eliminate_y", "y^2 - x", "y - x", 1, "x^2 - x"},
		{"gaussian_norm", "y^2 + 1", "x - y", 1, "x^2 + 1"},
		{"common_root", "x^2 - 1", "x - 1", 0, "0"},
		{"constant_operand", "3", "x^2 + 1", 0, "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resultant(zp(tt.a), zp(tt.b), tt.v).String())
		})
	}
}

func TestCoPrime(t *testing.T) {
	basis, err := CoPrime[*big.Int](context.Background(), NewCRT(),
		[]poly.Poly[*big.Int]{zp("x^2 - 1"), zp("x^2 + 2*x + 1"), zp("x^3 - x"), zp("7")})
	require.NoError(t, err)
	got := make([]string, len(basis))
	for i, b := range basis {
		got[i] = b.String()
	}
	assert.Equal(t, []string{"x", "x - 1", "x + 1"}, got)
}

func TestRaceErrors(t *testing.T) {
	errBroken := errors.New("broken strategy")
	broken := Func[*big.Int](func(context.Context, poly.Poly[*big.Int], poly.Poly[*big.Int]) (poly.Poly[*big.Int], error) {
		return poly.Poly[*big.Int]{}, errBroken
	})
	_, err := NewRace[*big.Int](broken).Gcd(context.Background(), zp("x^2 - 1"), zp("x + 1"))
	assert.ErrorIs(t, err, errBroken)

	// runs until the winner cancels it
	blocked := Func[*big.Int](func(ctx context.Context, _, _ poly.Poly[*big.Int]) (poly.Poly[*big.Int], error) {
		<-ctx.Done()
		return poly.Poly[*big.Int]{}, ctx.Err()
	})
	g, err := NewRace[*big.Int](blocked, NewPRS[*big.Int](Subresultant)).Gcd(context.Background(), zp("x^2 - 1"), zp("x + 1"))
	require.NoError(t, err)
	assert.Equal(t, "x + 1", g.String())

	_, err = NewRace[*big.Int]().Gcd(context.Background(), zp("x"), zp("x"))
	assert.ErrorIs(t, err, ring.ErrInvalidOperation)
}
