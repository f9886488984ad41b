package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces the fixed inter-request delay. One token per interval,
// burst 1, no backoff on top.
type Throttle struct {
	lim *rate.Limiter
}

func NewThrottle(delay time.Duration) *Throttle {
	if delay <= 0 {
		return &Throttle{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Throttle{lim: rate.NewLimiter(rate.Every(delay), 1)}
}

func (t *Throttle) Wait(ctx context.Context) error {
	return t.lim.Wait(ctx)
}
