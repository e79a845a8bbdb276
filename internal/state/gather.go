package state

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Gather runs every load concurrently and waits for all of them. The
// first failure cancels the shared context and is returned, so a screen
// that needs several resources leaves Loading once, in one direction.
func Gather(ctx context.Context, loads ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, load := range loads {
		g.Go(func() error { return load(gctx) })
	}
	return g.Wait()
}
