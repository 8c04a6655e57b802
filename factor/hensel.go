package factor

import (
	"fmt"
	"math/big"

	"github.com/ppopth/polyfactor/gcd"
	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// residues maps u to its canonical residues modulo the modulus of m
func residues(u poly.Univariate[*big.Int], m *ring.IntegersMod) poly.Univariate[*big.Int] {
	return poly.MapUnivariate[*big.Int, *big.Int](u, m, m.Reduce)
}

// symmetric lifts u from Z/m to Z with coefficients in (-m/2, m/2]
func symmetric(u poly.Univariate[*big.Int], m *ring.IntegersMod) poly.Univariate[*big.Int] {
	return poly.MapUnivariate[*big.Int, *big.Int](u, ring.Z, m.Symmetric)
}

// henselNode is a node of the factor tree lifted by quadraticLift. The
// leftmost path carries the leading coefficient, every other node is
// monic.
type henselNode struct {
	f           poly.Univariate[*big.Int]
	left, right *henselNode
	// s*left.f + t*right.f = 1 modulo the current modulus
	s, t poly.Univariate[*big.Int]
}

func buildTree(fp *ring.IntegersMod, c *big.Int, us []poly.Univariate[*big.Int]) (*henselNode, error) {
	if len(us) == 1 {
		return &henselNode{f: us[0].Scale(fp.Reduce(c))}, nil
	}
	mid := len(us) / 2
	left, err := buildTree(fp, c, us[:mid])
	if err != nil {
		return nil, err
	}
	right, err := buildTree(fp, big.NewInt(1), us[mid:])
	if err != nil {
		return nil, err
	}
	g, s, t := gcd.ExtendedEuclid(left.f, right.f)
	if !g.IsOne() {
		return nil, fmt.Errorf("%w: factors modulo %s are not coprime", ring.ErrNoLifting, fp.Modulus())
	}
	return &henselNode{f: left.f.Mul(right.f), left: left, right: right, s: s, t: t}, nil
}

// lift takes the node from modulus m to M = m^2, given its lifted product
// f over Z/M.
func (n *henselNode) lift(f poly.Univariate[*big.Int], zm *ring.IntegersMod) {
	n.f = f
	if n.left == nil {
		return
	}
	g, h := residues(n.left.f, zm), residues(n.right.f, zm)
	s, t := residues(n.s, zm), residues(n.t, zm)
	one := poly.NewUnivariate[*big.Int](zm, big.NewInt(1))

	e := f.Sub(g.Mul(h))
	q, r := s.Mul(e).DivRem(h)
	g = g.Add(t.Mul(e)).Add(q.Mul(g))
	h = h.Add(r)

	b := s.Mul(g).Add(t.Mul(h)).Sub(one)
	c, d := s.Mul(b).DivRem(h)
	n.s = s.Sub(d)
	n.t = t.Sub(t.Mul(b)).Sub(c.Mul(g))

	n.left.lift(g, zm)
	n.right.lift(h, zm)
}

func (n *henselNode) leaves(out []poly.Univariate[*big.Int]) []poly.Univariate[*big.Int] {
	if n.left == nil {
		return append(out, n.f)
	}
	return n.right.leaves(n.left.leaves(out))
}

// quadraticLift lifts f = lc * prod us (mod p), with monic pairwise coprime
// us, to a factorization modulo some p^(2^j) >= bound. It returns the monic
// lifted factors and the final modulus.
func quadraticLift(f poly.Univariate[*big.Int], us []poly.Univariate[*big.Int], p, bound *big.Int) ([]poly.Univariate[*big.Int], *big.Int, error) {
	fp := ring.NewIntegersMod(p)
	root, err := buildTree(fp, f.Lc(), us)
	if err != nil {
		return nil, nil, err
	}
	m := new(big.Int).Set(p)
	for m.Cmp(bound) <= 0 {
		m = new(big.Int).Mul(m, m)
		zm := ring.NewIntegersMod(m)
		root.lift(residues(f, zm), zm)
	}
	zm := ring.NewIntegersMod(m)
	out := root.leaves(nil)
	for i := range out {
		out[i] = residues(out[i], zm)
	}
	out[0] = out[0].Scale(zm.Inv(zm.Reduce(f.Lc())))
	return out, m, nil
}

// linearLift lifts f = lc * prod us (mod p) one power of p at a time until
// the modulus exceeds bound. Each step solves one univariate Diophantine
// equation modulo p for all factors at once.
func linearLift(f poly.Univariate[*big.Int], us []poly.Univariate[*big.Int], p, bound *big.Int) ([]poly.Univariate[*big.Int], *big.Int, error) {
	fp := ring.NewIntegersMod(p)
	sigma, err := bezoutFactors(us)
	if err != nil {
		return nil, nil, err
	}
	k := 1
	for m := new(big.Int).Set(p); m.Cmp(bound) <= 0; m.Mul(m, p) {
		k++
	}
	M := new(big.Int).Exp(p, big.NewInt(int64(k)), nil)
	zm := ring.NewIntegersMod(M)
	target := poly.MapUnivariate[*big.Int, *big.Int](
		residues(f, zm).Scale(zm.Inv(zm.Reduce(f.Lc()))), ring.Z, func(c *big.Int) *big.Int { return c })

	cur := make([]poly.Univariate[*big.Int], len(us))
	for i, u := range us {
		cur[i] = poly.MapUnivariate[*big.Int, *big.Int](u, ring.Z, func(c *big.Int) *big.Int { return c })
	}
	pj := new(big.Int).Set(p)
	for j := 1; j < k; j++ {
		prod := poly.NewUnivariate[*big.Int](ring.Z, big.NewInt(1))
		for _, u := range cur {
			prod = prod.Mul(u)
		}
		next := new(big.Int).Mul(pj, p)
		e := poly.MapUnivariate[*big.Int, *big.Int](target.Sub(prod), fp, func(c *big.Int) *big.Int {
			c = new(big.Int).Mod(c, next)
			return c.Quo(c, pj)
		})
		for i := range cur {
			delta := e.Mul(sigma[i]).Rem(us[i])
			step := poly.MapUnivariate[*big.Int, *big.Int](delta, ring.Z, func(c *big.Int) *big.Int {
				return new(big.Int).Mul(c, pj)
			})
			cur[i] = cur[i].Add(step)
		}
		pj = next
	}
	for i := range cur {
		cur[i] = residues(cur[i], zm)
	}
	return cur, M, nil
}
