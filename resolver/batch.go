package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves dids in parallel, at most WithConcurrency at a time.
// Results are in the order of dids.
func (r *Resolver) ResolveAll(ctx context.Context, dids []string) []*Result {
	results := make([]*Result, len(dids))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, did := range dids {
		g.Go(func() error {
			results[i] = r.Resolve(ctx, did)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
