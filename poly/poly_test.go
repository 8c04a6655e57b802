package poly

import (
	"math/big"
	"testing"

	"github.com/ppopth/polyfactor/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var xy = []string{"x", "y"}

func zxy(s string) Poly[*big.Int] {
	return MustParse[*big.Int](ring.Z, xy, s)
}

func qx(s string) Poly[*big.Rat] {
	return MustParse[*big.Rat](ring.Q, []string{"x"}, s)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Poly[*big.Int]
		expected string
	}{
		{"add_cancels", zxy("x + y").Add(zxy("-y + 2")), "x + 2"},
		{"sub_to_zero", zxy("x*y - 1").Sub(zxy("x*y - 1")), "0"},
		{"difference_of_squares", zxy("x + y").Mul(zxy("x - y")), "x^2 - y^2"},
		{"cube", zxy("x + 1").Pow(3), "x^3 + 3*x^2 + 3*x + 1"},
		{"scale", zxy("x - 2*y").Scale(big.NewInt(-3)), "-3*x + 6*y"},
		{"pow_zero", zxy("x + y").Pow(0), "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got.String())
		})
	}
}

func TestKroneckerProductMatchesSparse(t *testing.T) {
	p := zxy("1 + x + y").Pow(6)
	q := zxy("1 - x + 2*y").Pow(6)
	_, dense := kroneckerRadix(p, q)
	require.True(t, dense)

	// term by term product, never touching the Kronecker path
	sparse := Zero[*big.Int](ring.Z, 2)
	for _, term := range p.Terms() {
		sparse = sparse.Add(q.MulTerm(term.Coef, term.Exp))
	}
	assert.True(t, sparse.Equal(p.Mul(q)))

	point := []*big.Int{big.NewInt(2), big.NewInt(3)}
	expected := new(big.Int).Mul(big.NewInt(6*6*6*6*6*6), big.NewInt(5*5*5*5*5*5))
	assert.Equal(t, 0, expected.Cmp(p.Mul(q).EvaluateAll(point)))
}

func TestQuo(t *testing.T) {
	q, ok := zxy("x^2 - y^2").Quo(zxy("x - y"))
	require.True(t, ok)
	assert.Equal(t, "x + y", q.String())

	_, ok = zxy("x^2 + 1").Quo(zxy("x + 1"))
	assert.False(t, ok)

	_, ok = zxy("x^2 + x").Quo(zxy("2*x"))
	assert.False(t, ok)

	_, ok = zxy("x").Quo(Zero[*big.Int](ring.Z, 2))
	assert.False(t, ok)
}

func TestPseudoDivRem(t *testing.T) {
	a, b := zxy("x^2 + y"), zxy("2*x + 1")
	q, r := a.PseudoDivRem(b, 0)
	assert.Equal(t, "2*x - 1", q.String())
	assert.Equal(t, "4*y + 1", r.String())
	// lc^(da-db+1) * a = q*b + r
	assert.True(t, a.Scale(big.NewInt(4)).Equal(q.Mul(b).Add(r)))
}

func TestDivRem(t *testing.T) {
	a, b := zxy("x^3*y + x + y"), zxy("x^2 - y")
	q, r := a.DivRem(b, 0)
	assert.True(t, a.Equal(q.Mul(b).Add(r)))
	assert.Less(t, r.Degree(0), 2)

	assert.Panics(t, func() { a.DivRem(zxy("2*x"), 0) })
}

func TestCalculus(t *testing.T) {
	p := zxy("x^3*y + 2*x*y^2")
	assert.Equal(t, "3*x^2*y + 2*y^2", p.Derivative(0).String())
	assert.Equal(t, "x^3 + 4*x*y", p.Derivative(1).String())

	f3 := ring.NewZp(3)
	c := MustParse[*big.Int](f3, []string{"x"}, "x^3 + x")
	assert.Equal(t, "1", c.Derivative(0).String())

	assert.Equal(t, "x^2 - 4", zxy("x^2 - y^2").Evaluate(1, big.NewInt(2)).String())
	assert.Equal(t, "x^2 + 2*x + 1", zxy("x^2").Shift(0, big.NewInt(1)).String())
	assert.Equal(t, "x*y + 1", zxy("x^3*y + x*y + 1").Truncate(0, 2).String())
}

func TestContent(t *testing.T) {
	tests := []struct {
		input   string
		content int64
		pp      string
	}{
		{"6*x^2 - 4", 2, "3*x^2 - 2"},
		{"-6*x^2 + 4", -2, "3*x^2 - 2"},
		{"x + 1", 1, "x + 1"},
		{"-5", -5, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := zxy(tt.input)
			assert.Equal(t, tt.content, p.Content().Int64())
			assert.Equal(t, tt.pp, p.PrimitivePart().String())
		})
	}

	// over a field the primitive part is monic
	assert.Equal(t, "x - 1/4", qx("4*x - 1").PrimitivePart().String())
}

func TestDegrees(t *testing.T) {
	p := zxy("x^2*y^3 + x^4 + 7")
	assert.Equal(t, 4, p.Degree(0))
	assert.Equal(t, 3, p.Degree(1))
	assert.Equal(t, []int{4, 3}, p.Degrees())
	assert.Equal(t, 5, p.TotalDegree())
	assert.Equal(t, int64(7), p.Tc().Int64())
	assert.Equal(t, "y^3", p.CoeffIn(0, 2).String())
	assert.Equal(t, "1", p.LcIn(0).String())
	assert.Equal(t, -1, Zero[*big.Int](ring.Z, 2).Degree(0))
	assert.Equal(t, []int{1}, zxy("y + 1").Vars())
	assert.Equal(t, 1, zxy("y + 1").MainVar())
}

func TestRenameAndExtend(t *testing.T) {
	p := zxy("x^2 + y")
	assert.Equal(t, "x + y^2", p.Swap(0, 1).String())

	e := p.Extend(1)
	assert.Equal(t, 3, e.NVars())
	assert.Equal(t, "x^2 + y", e.String())

	r := p.Rename(3, []int{2, 0})
	assert.Equal(t, "x + z^2", r.String())
}

func TestRecursive(t *testing.T) {
	p := zxy("x^2*y + x*y^2 + 3")
	rc := ToRecursive(p, 1)
	require.Equal(t, 2, rc.Degree())
	assert.Equal(t, "x", rc.Coeff(2).String())
	assert.Equal(t, "x^2", rc.Coeff(1).String())
	assert.Equal(t, "3", rc.Coeff(0).String())
	assert.Equal(t, "x", rc.Lc().String())
	assert.True(t, p.Equal(rc.Poly()))
}

func TestMapCoefficients(t *testing.T) {
	f := ring.NewZp(5)
	p := Map(zxy("7*x + 5*y - 1"), ring.Ring[*big.Int](f), f.Reduce)
	assert.Equal(t, "2*x + 4", p.String())
}

func TestFactorMultiset(t *testing.T) {
	fm := NewFactorMultiset(Constant[*big.Int](ring.Z, 2, big.NewInt(-1)))
	fm.Add(zxy("x + 1"), 2)
	fm.Add(zxy("x - 1"), 1)
	fm.Add(zxy("x + 1"), 1)
	fm.Add(zxy("3"), 1)

	require.Equal(t, 2, fm.Len())
	assert.Equal(t, []int{3, 1}, fm.Exponents)
	assert.Equal(t, "-3", fm.Unit.String())

	expected := zxy("x + 1").Pow(3).Mul(zxy("x - 1")).Scale(big.NewInt(-3))
	assert.True(t, expected.Equal(fm.Product()))

	sorted := fm.Sorted()
	assert.Equal(t, "x - 1", sorted.Factors[0].String())
	assert.True(t, expected.Equal(sorted.Product()))

	sq := fm.Raise(2)
	assert.Equal(t, []int{6, 2}, sq.Exponents)
	assert.Equal(t, "9", sq.Unit.String())
}

func TestPolynomialRingDeterminant(t *testing.T) {
	pr := NewRing[*big.Int](ring.Z, 2)
	A := [][]Poly[*big.Int]{
		{zxy("x"), zxy("1")},
		{zxy("1"), zxy("x")},
	}
	det := ring.Determinant[Poly[*big.Int]](pr, A)
	assert.Equal(t, "x^2 - 1", det.String())
	assert.Equal(t, "Z[x,y]", pr.String())
}

func TestDeflateInflate(t *testing.T) {
	p := zxy("x^2*y^4 - 3*x^4 + 3")
	q, ok := p.Deflate(2)
	require.True(t, ok)
	assert.Equal(t, "-3*x^2 + x*y^2 + 3", q.String())
	assert.True(t, q.Inflate(2).Equal(p))

	_, ok = zxy("x^3 + x^2").Deflate(2)
	assert.False(t, ok)
}
