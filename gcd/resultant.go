package gcd

import (
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// Resultant returns Res_v(a, b), the determinant of the Sylvester matrix of
// a and b seen as polynomials in x_v. The result is free of x_v. The
// determinant is computed fraction free over the polynomial ring, so the
// coefficient ring only needs exact division.
func Resultant[E any](a, b poly.Poly[E], v int) poly.Poly[E] {
	r, n := a.Ring(), a.NVars()
	if a.IsZero() || b.IsZero() {
		return poly.Zero(r, n)
	}
	m, k := a.Degree(v), b.Degree(v)
	switch {
	case m == 0:
		return a.Pow(k)
	case k == 0:
		return b.Pow(m)
	}
	ra, rb := poly.ToRecursive(a, v), poly.ToRecursive(b, v)
	zero := poly.Zero(r, n)
	size := m + k
	S := make([][]poly.Poly[E], size)
	for i := range S {
		S[i] = make([]poly.Poly[E], size)
		for j := range S[i] {
			S[i][j] = zero
		}
	}
	// k shifted rows of a followed by m shifted rows of b
	for i := 0; i < k; i++ {
		for j := 0; j <= m; j++ {
			S[i][i+j] = ra.Coeff(m - j)
		}
	}
	for i := 0; i < m; i++ {
		for j := 0; j <= k; j++ {
			S[k+i][i+j] = rb.Coeff(k - j)
		}
	}
	return ring.Determinant[poly.Poly[E]](poly.NewRing(r, n), S)
}
