// Package retrypkg provides the single retry policy shared by all
// supervisory loops (notify listening, queue publish, queue consume).
package retrypkg

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default policy knobs. Every long-lived loop retries with the same
// exponential backoff capped at MaxInterval; only bounded operations
// (for example a single publish) wrap the policy with a max elapsed time.
const (
	InitialInterval = 500 * time.Millisecond
	MaxInterval     = 30 * time.Second
)

// Unbounded returns a backoff that never gives up. Intended for
// process-lifetime loops that must survive transient infrastructure loss.
func Unbounded(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = InitialInterval
	b.MaxInterval = MaxInterval
	b.MaxElapsedTime = 0

	return backoff.WithContext(b, ctx)
}

// Bounded returns a backoff that gives up after maxElapsed. Intended for
// per-operation retries where the caller handles exhaustion and moves on.
func Bounded(ctx context.Context, maxElapsed time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = InitialInterval
	b.MaxInterval = MaxInterval
	b.MaxElapsedTime = maxElapsed

	return backoff.WithContext(b, ctx)
}
