package gcd

import (
	"context"
	"slices"

	"github.com/ppopth/polyfactor/poly"
)

// CoPrime returns a pairwise coprime set of non-constant polynomials such
// that every input is, up to a constant, a product of powers of its
// members. Common factors are split off by repeated gcd and exact division
// until no two members share a factor.
func CoPrime[E any](ctx context.Context, s Strategy[E], ps []poly.Poly[E]) ([]poly.Poly[E], error) {
	var basis []poly.Poly[E]
	for _, p := range ps {
		if !p.IsConstant() {
			basis = append(basis, primitive(p))
		}
	}
	for changed := true; changed; {
		changed = false
	search:
		for i := 0; i < len(basis); i++ {
			for j := i + 1; j < len(basis); j++ {
				g, err := s.Gcd(ctx, basis[i], basis[j])
				if err != nil {
					return nil, err
				}
				if g.IsConstant() {
					continue
				}
				qi, _ := basis[i].Quo(g)
				qj, _ := basis[j].Quo(g)
				next := make([]poly.Poly[E], 0, len(basis)+1)
				for k, b := range basis {
					if k != i && k != j {
						next = append(next, b)
					}
				}
				for _, q := range []poly.Poly[E]{qi, qj, g} {
					if !q.IsConstant() {
						next = append(next, primitive(q))
					}
				}
				basis = next
				changed = true
				break search
			}
		}
	}
	slices.SortFunc(basis, poly.Compare[E])
	return basis, nil
}

// primitive normalises p up to a constant factor
func primitive[E any](p poly.Poly[E]) poly.Poly[E] {
	if p.Ring().IsField() {
		return p.Monic()
	}
	return Normalize(p.PrimitivePart())
}
