package ring

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegersBasic(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int64
		expected int64
		op       string
	}{
		{"add", 25, 30, 55, "add"},
		{"sub_negative", 20, 30, -10, "sub"},
		{"mul", 7, -9, -63, "mul"},
		{"gcd", 12, -18, 6, "gcd"},
		{"gcd_zero", 0, -5, 5, "gcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := Z.FromInt64(tt.a), Z.FromInt64(tt.b)
			var result *big.Int
			switch tt.op {
			case "add":
				result = Z.Add(a, b)
			case "sub":
				result = Z.Sub(a, b)
			case "mul":
				result = Z.Mul(a, b)
			case "gcd":
				result = Z.Gcd(a, b)
			default:
				t.Fatalf("unknown operation: %s", tt.op)
			}
			assert.Equal(t, tt.expected, result.Int64())
			// operands are never modified
			assert.Equal(t, tt.a, a.Int64())
			assert.Equal(t, tt.b, b.Int64())
		})
	}
}

func TestIntegersQuo(t *testing.T) {
	q, ok := Z.Quo(big.NewInt(-12), big.NewInt(4))
	require.True(t, ok)
	assert.Equal(t, int64(-3), q.Int64())

	_, ok = Z.Quo(big.NewInt(7), big.NewInt(2))
	assert.False(t, ok)

	_, ok = Z.Quo(big.NewInt(7), big.NewInt(0))
	assert.False(t, ok)

	assert.True(t, Z.IsUnit(big.NewInt(-1)))
	assert.False(t, Z.IsUnit(big.NewInt(2)))
}

func TestModularArithmetic(t *testing.T) {
	f := NewZp(101)
	require.True(t, f.IsField())

	tests := []struct {
		name     string
		a, b     int64
		expected int64
		op       string
	}{
		{"add_with_reduction", 80, 50, 29, "add"},
		{"sub_with_reduction", 20, 30, 91, "sub"},
		{"mul_with_reduction", 15, 12, 79, "mul"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := f.FromInt64(tt.a), f.FromInt64(tt.b)
			var result *big.Int
			switch tt.op {
			case "add":
				result = f.Add(a, b)
			case "sub":
				result = f.Sub(a, b)
			case "mul":
				result = f.Mul(a, b)
			}
			assert.Equal(t, tt.expected, result.Int64())
		})
	}

	for _, v := range []int64{1, 2, 3, 5, 7, 11, 25, 50, 100} {
		a := f.FromInt64(v)
		assert.True(t, f.IsOne(f.Mul(a, f.Inv(a))), "inverse of %d", v)
	}

	assert.Equal(t, int64(-1), f.Symmetric(big.NewInt(100)).Int64())
	assert.Equal(t, int64(50), f.Symmetric(big.NewInt(50)).Int64())
	assert.Equal(t, int64(96), f.FromInt64(-5).Int64())
}

func TestModularPrimePower(t *testing.T) {
	m := NewIntegersMod(big.NewInt(27))
	assert.False(t, m.IsField())
	assert.False(t, m.IsUnit(big.NewInt(6)))

	q, ok := m.Quo(big.NewInt(6), big.NewInt(3))
	require.True(t, ok)
	assert.Equal(t, int64(6), m.Mul(q, big.NewInt(3)).Int64())

	_, ok = m.Quo(big.NewInt(5), big.NewInt(3))
	assert.False(t, ok)

	assert.Panics(t, func() { m.Inv(big.NewInt(9)) })
}

func TestInvalidOperationPanicValue(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrInvalidOperation))
	}()
	Q.Inv(Q.Zero())
}

func TestExhaustionError(t *testing.T) {
	var err error = &ExhaustionError{What: "evaluation point", Attempts: 8}
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.Contains(t, err.Error(), "evaluation point")
}

func TestPow(t *testing.T) {
	assert.Equal(t, int64(1024), PowInt[*big.Int](Z, big.NewInt(2), 10).Int64())
	assert.Equal(t, int64(1), PowInt[*big.Int](Z, big.NewInt(7), 0).Int64())
	f := NewZp(13)
	// Fermat: a^(p-1) = 1
	for v := int64(1); v < 13; v++ {
		assert.True(t, f.IsOne(PowInt[*big.Int](f, f.FromInt64(v), 12)))
	}
}

func TestPrimes(t *testing.T) {
	p, ok := PrimeAt(0)
	require.True(t, ok)
	assert.Equal(t, int64(2), p)
	p, ok = PrimeAt(4)
	require.True(t, ok)
	assert.Equal(t, int64(11), p)

	assert.True(t, IsPrime(big.NewInt(65521)))
	assert.False(t, IsPrime(big.NewInt(65535)))
	assert.False(t, IsPrime(big.NewInt(1)))

	assert.Equal(t, int64(2), NextPrime(big.NewInt(0)).Int64())
	assert.Equal(t, int64(11), NextPrime(big.NewInt(7)).Int64())
	assert.Equal(t, int64(65537), NextPrime(big.NewInt(65521)).Int64())

	seq := NewPrimeSequence(big.NewInt(100))
	assert.Equal(t, int64(101), seq.Next().Int64())
	assert.Equal(t, int64(103), seq.Next().Int64())
}

func TestPrimeDivisors(t *testing.T) {
	tests := []struct {
		n        int64
		expected []int64
	}{
		{1, nil},
		{12, []int64{2, 3}},
		{360, []int64{2, 3, 5}},
		{-49, []int64{7}},
		{2 * 65537, []int64{2, 65537}},
	}
	for _, tt := range tests {
		t.Run(big.NewInt(tt.n).String(), func(t *testing.T) {
			var got []int64
			for _, d := range PrimeDivisors(big.NewInt(tt.n)) {
				got = append(got, d.Int64())
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRandomStaysInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	f := NewZp(7)
	for i := 0; i < 100; i++ {
		v := f.Random(rnd, 0)
		assert.True(t, v.Sign() >= 0 && v.Int64() < 7)
		z := Z.Random(rnd, 3)
		assert.True(t, z.Int64() >= -3 && z.Int64() <= 3)
	}
}

func TestSame(t *testing.T) {
	assert.True(t, Same[*big.Int](NewZp(5), NewZp(5)))
	assert.False(t, Same[*big.Int](NewZp(5), NewZp(7)))
	assert.False(t, Same[*big.Int](Z, NewZp(7)))
}
