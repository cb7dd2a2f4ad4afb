package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result pairs a query with the matches it produced.
type Result struct {
	Query   Query
	Matches []Match
}

// RunAll searches every query, at most threads at a time, and returns the
// results in input order. The first failing query cancels the rest.
func RunAll(ctx context.Context, queries []Query, threads int, log *zap.Logger) ([]Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if threads < 1 {
		threads = 1
	}

	results := make([]Result, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, q := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			matches, err := Search(q)
			if err != nil {
				return fmt.Errorf("query %d (%s @ %.4f): %w", i+1, q.Peptide, q.TargetMass, err)
			}

			log.Debug("query searched",
				zap.Int("query", i+1),
				zap.String("peptide", q.Peptide),
				zap.Float64("target_mass", q.TargetMass),
				zap.Int("matches", len(matches)),
				zap.Duration("elapsed", time.Since(start)),
			)

			results[i] = Result{Query: q, Matches: matches}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
