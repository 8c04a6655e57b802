package poly

import (
	"strconv"
	"strings"
)

// Exponents is the exponent vector of a monomial, one entry per variable.
// Vectors are shared between polynomials and must never be modified.
type Exponents []int

// NewExponents returns the zero vector of length n
func NewExponents(n int) Exponents {
	return make(Exponents, n)
}

// Total returns the total degree
func (e Exponents) Total() int {
	s := 0
	for _, v := range e {
		s += v
	}
	return s
}

// IsZero reports whether all exponents are zero
func (e Exponents) IsZero() bool {
	for _, v := range e {
		if v != 0 {
			return false
		}
	}
	return true
}

// Cmp compares in lexicographic order, the first variable being the most
// significant one.
func (e Exponents) Cmp(f Exponents) int {
	for i := range e {
		switch {
		case e[i] < f[i]:
			return -1
		case e[i] > f[i]:
			return 1
		}
	}
	return 0
}

// Add returns e + f
func (e Exponents) Add(f Exponents) Exponents {
	r := make(Exponents, len(e))
	for i := range e {
		r[i] = e[i] + f[i]
	}
	return r
}

// Sub returns e - f; callers make sure f divides e.
func (e Exponents) Sub(f Exponents) Exponents {
	r := make(Exponents, len(e))
	for i := range e {
		r[i] = e[i] - f[i]
	}
	return r
}

// Divides reports whether the monomial of e divides the monomial of f
func (e Exponents) Divides(f Exponents) bool {
	for i := range e {
		if e[i] > f[i] {
			return false
		}
	}
	return true
}

// Max returns the componentwise maximum
func (e Exponents) Max(f Exponents) Exponents {
	r := make(Exponents, len(e))
	for i := range e {
		r[i] = max(e[i], f[i])
	}
	return r
}

// Min returns the componentwise minimum
func (e Exponents) Min(f Exponents) Exponents {
	r := make(Exponents, len(e))
	for i := range e {
		r[i] = min(e[i], f[i])
	}
	return r
}

// With returns a copy with exponent v replaced by k
func (e Exponents) With(v, k int) Exponents {
	r := append(Exponents(nil), e...)
	r[v] = k
	return r
}

func (e Exponents) String() string { return e.key() }

func (e Exponents) key() string {
	var sb strings.Builder
	for i, v := range e {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
