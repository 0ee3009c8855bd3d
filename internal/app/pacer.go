package app

import (
	"context"
	"time"
)

// Pacer holds a result back before it is delivered. It only paces the
// presentation and never fails except on context cancellation.
type Pacer interface {
	Wait(ctx context.Context) error
}

type noDelay struct{}

func (noDelay) Wait(ctx context.Context) error { return ctx.Err() }

var NoDelay Pacer = noDelay{}

type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
