package poly

// Recursive views a polynomial as a univariate polynomial in x_Var whose
// coefficients are polynomials free of x_Var.
type Recursive[E any] struct {
	Var    int
	Coeffs []Poly[E] // Coeffs[k] multiplies x_Var^k
	zero   Poly[E]
}

// ToRecursive splits p along x_v
func ToRecursive[E any](p Poly[E], v int) Recursive[E] {
	zero := Zero(p.r, p.nvars)
	rc := Recursive[E]{Var: v, zero: zero}
	if p.IsZero() {
		return rc
	}
	buckets := make([][]Term[E], p.Degree(v)+1)
	for _, t := range p.terms {
		k := t.Exp[v]
		buckets[k] = append(buckets[k], Term[E]{Exp: t.Exp.With(v, 0), Coef: t.Coef})
	}
	rc.Coeffs = make([]Poly[E], len(buckets))
	for k, ts := range buckets {
		// clearing one exponent keeps the relative order within a bucket
		rc.Coeffs[k] = Poly[E]{r: p.r, nvars: p.nvars, terms: ts}
	}
	return rc
}

// Degree returns the degree in the main variable
func (rc Recursive[E]) Degree() int { return len(rc.Coeffs) - 1 }

// Lc returns the leading coefficient in the main variable
func (rc Recursive[E]) Lc() Poly[E] {
	if len(rc.Coeffs) == 0 {
		return rc.zero
	}
	return rc.Coeffs[len(rc.Coeffs)-1]
}

// Coeff returns the coefficient of x_Var^k
func (rc Recursive[E]) Coeff(k int) Poly[E] {
	if k < 0 || k >= len(rc.Coeffs) {
		return rc.zero
	}
	return rc.Coeffs[k]
}

// FromRecursive reassembles the polynomial
func FromRecursive[E any](rc Recursive[E]) Poly[E] {
	return rc.Poly()
}

// Poly reassembles the polynomial
func (rc Recursive[E]) Poly() Poly[E] {
	var terms []Term[E]
	for k, c := range rc.Coeffs {
		for _, t := range c.terms {
			terms = append(terms, Term[E]{Exp: t.Exp.With(rc.Var, t.Exp[rc.Var]+k), Coef: t.Coef})
		}
	}
	return FromTerms(rc.zero.r, rc.zero.nvars, terms)
}
