package scheduler

import (
	"context"
	"time"
)

// Clock abstracts timed suspension so cycle boundaries can be tested
// without real waiting.
type Clock interface {
	// Sleep suspends for d, returning ctx.Err() if the context is
	// cancelled first.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// NewClock returns the wall-clock implementation.
func NewClock() Clock { return realClock{} }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
