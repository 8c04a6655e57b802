package ring

import "fmt"

// cloneMatrix makes a copy of the row slices; elements are immutable.
func cloneMatrix[E any](a [][]E) [][]E {
	b := make([][]E, len(a))
	for i := range a {
		b[i] = append([]E(nil), a[i]...)
	}
	return b
}

// Determinant computes the determinant of a square matrix over an integral
// domain with fraction-free (Bareiss) elimination. Every division performed
// is exact, so no fractions of ring elements are ever formed.
func Determinant[E any](r Ring[E], A [][]E) E {
	n := len(A)
	if n == 0 {
		return r.One()
	}
	M := cloneMatrix(A)
	negate := false
	prev := r.One()
	for k := 0; k < n-1; k++ {
		if r.IsZero(M[k][k]) {
			swap := -1
			for i := k + 1; i < n; i++ {
				if !r.IsZero(M[i][k]) {
					swap = i
					break
				}
			}
			if swap == -1 {
				return r.Zero()
			}
			M[k], M[swap] = M[swap], M[k]
			negate = !negate
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				num := r.Sub(r.Mul(M[i][j], M[k][k]), r.Mul(M[i][k], M[k][j]))
				q, ok := r.Quo(num, prev)
				if !ok {
					panic(Invalidf("inexact Bareiss division over %s", r))
				}
				M[i][j] = q
			}
			M[i][k] = r.Zero()
		}
		prev = M[k][k]
	}
	det := M[n-1][n-1]
	if negate {
		det = r.Neg(det)
	}
	return det
}

// SolveLinear solves the square system A x = b over a field by Gauss-Jordan
// elimination. A singular or malformed system is an ErrInvalidOperation.
func SolveLinear[E any](r Ring[E], A [][]E, b []E) ([]E, error) {
	f, ok := AsField(r)
	if !ok {
		return nil, fmt.Errorf("%w: linear system over %s, which is not a field", ErrInvalidOperation, r)
	}
	n := len(A)
	if len(b) != n {
		return nil, fmt.Errorf("%w: %d equations with %d right-hand sides", ErrInvalidOperation, n, len(b))
	}
	// augmented matrix [A | b]
	M := make([][]E, n)
	for i := range A {
		if len(A[i]) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidOperation, i, len(A[i]), n)
		}
		M[i] = append(append(make([]E, 0, n+1), A[i]...), b[i])
	}
	for col := 0; col < n; col++ {
		pivot := -1
		for i := col; i < n; i++ {
			if !f.IsZero(M[i][col]) {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			return nil, fmt.Errorf("%w: singular %dx%d system over %s", ErrInvalidOperation, n, n, r)
		}
		M[col], M[pivot] = M[pivot], M[col]

		inv := f.Inv(M[col][col])
		for j := col; j <= n; j++ {
			M[col][j] = f.Mul(M[col][j], inv)
		}
		for i := 0; i < n; i++ {
			if i == col || f.IsZero(M[i][col]) {
				continue
			}
			factor := M[i][col]
			for j := col; j <= n; j++ {
				M[i][j] = f.Sub(M[i][j], f.Mul(factor, M[col][j]))
			}
		}
	}
	x := make([]E, n)
	for i := range x {
		x[i] = M[i][n]
	}
	return x, nil
}
