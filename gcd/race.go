package gcd

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ppopth/polyfactor/poly"
	"github.com/ppopth/polyfactor/ring"
)

// errDecided stops the group once some strategy has produced the gcd
var errDecided = errors.New("gcd decided")

// Race runs several strategies concurrently and returns the first gcd
// computed; the other strategies are cancelled. Results are normalised, so
// the answer does not depend on which strategy wins. A strategy that fails
// before any result is in aborts the race with its error.
type Race[E any] struct {
	Strategies []Strategy[E]
}

// NewRace creates a racing strategy
func NewRace[E any](strategies ...Strategy[E]) *Race[E] {
	return &Race[E]{Strategies: strategies}
}

func (r *Race[E]) Gcd(ctx context.Context, a, b poly.Poly[E]) (poly.Poly[E], error) {
	if len(r.Strategies) == 0 {
		return poly.Poly[E]{}, ring.Invalidf("race without strategies")
	}
	results := make(chan poly.Poly[E], len(r.Strategies))
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range r.Strategies {
		s := s
		g.Go(func() error {
			p, err := s.Gcd(gctx, a, b)
			if err != nil {
				return fmt.Errorf("%T: %w", s, err)
			}
			results <- Normalize(p)
			return errDecided
		})
	}
	err := g.Wait()
	select {
	case p := <-results:
		return p, nil
	default:
	}
	return poly.Poly[E]{}, err
}
