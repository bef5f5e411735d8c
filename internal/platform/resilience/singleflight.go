package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Group collapses concurrent loads of the same key into one call of fn.
type Group[V any] struct {
	g singleflight.Group
}

// Do runs fn at most once per key at a time and hands its result to every
// waiter. fn gets a context detached from the caller's cancellation so one
// caller giving up does not fail the load for the others; a caller whose ctx
// ends stops waiting and gets ctx.Err(). shared reports whether the result
// went to more than one caller.
func (g *Group[V]) Do(ctx context.Context, key string, fn func(context.Context) (V, error)) (v V, shared bool, err error) {
	if err := ctx.Err(); err != nil {
		return v, false, err
	}

	detached := context.WithoutCancel(ctx)
	ch := g.g.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return v, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return v, res.Shared, res.Err
		}
		v, _ = res.Val.(V)
		return v, res.Shared, nil
	}
}

// Forget drops key so the next Do starts a fresh load even if one is running.
func (g *Group[V]) Forget(key string) {
	g.g.Forget(key)
}
