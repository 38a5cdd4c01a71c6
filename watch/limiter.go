package watch

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces handler dispatch, one token per event. *rate.Limiter satisfies it.
type Limiter interface {
	Limit() rate.Limit
	WaitN(context.Context, int) error
}

var _ Limiter = (*rate.Limiter)(nil) // should satisfy Limiter interface

// wait takes a dispatch token from lim. A nil or unlimited lim never blocks.
func wait(ctx context.Context, lim Limiter) error {
	if lim == nil || lim.Limit() == rate.Inf {
		return nil
	}
	return lim.WaitN(ctx, 1)
}
