package scene

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll runs every scene on its own Runner from newRunner. Results keep
// the order of scenes. The first failure cancels the remaining runs.
func RunAll(ctx context.Context, newRunner func() *Runner, scenes []Scene) ([]*Result, error) {
	results := make([]*Result, len(scenes))
	g, ctx := errgroup.WithContext(ctx)

	for i, sc := range scenes {
		g.Go(func() error {
			res, err := newRunner().Run(ctx, sc)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
