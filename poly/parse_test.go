package poly

import (
	"math/big"
	"testing"

	"github.com/ppopth/polyfactor/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"implicit_product", "2x^2 - 3x y", "2*x^2 - 3*x*y"},
		{"parentheses", "(x + y)^2", "x^2 + 2*x*y + y^2"},
		{"unary_minus_binds_weaker", "-x^2", "-x^2"},
		{"python_power", "x**3", "x^3"},
		{"rational_constant", "x^2 - 1/4", "x^2 - 1/4"},
		{"division_by_constant", "(2x + 1)/2", "x + 1/2"},
		{"zero", "x - x", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse[*big.Rat](ring.Q, xy, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown_symbol", "xy + 1"},
		{"dangling_operator", "x +"},
		{"unbalanced", "(x + 1"},
		{"bad_character", "x # 1"},
		{"non_constant_divisor", "x / y"},
		{"inexact_over_integers", "x / 2"},
		{"division_by_zero", "x / 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse[*big.Int](ring.Z, xy, tt.input)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestParseWithConstants(t *testing.T) {
	consts := map[string]*big.Int{"k": big.NewInt(5)}
	p, err := ParseWith[*big.Int](ring.Z, xy, consts, "k*x + k^2")
	require.NoError(t, err)
	assert.Equal(t, "5*x + 25", p.String())

	_, err = Parse[*big.Int](ring.Z, []string{"x", "x"}, "x")
	assert.ErrorIs(t, err, ErrSyntax)
}
