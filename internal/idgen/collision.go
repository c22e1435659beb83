package idgen

import (
	"context"

	"github.com/navlink/navlink/internal/metrics"
)

// DefaultMaxAttempts bounds the allocation loop. Collisions in a 62^5
// space are vanishingly rare; the bound exists so a broken checker cannot
// spin forever.
const DefaultMaxAttempts = 3

// ExistenceChecker reports whether an identifier is already taken.
type ExistenceChecker interface {
	Exists(ctx context.Context, index string) (bool, error)
}

// Allocator draws candidates from a base generator and discards ones the
// checker reports as taken, up to a fixed number of attempts.
type Allocator struct {
	base        Generator
	checker     ExistenceChecker
	maxAttempts int
}

// NewAllocator creates an Allocator. maxAttempts of zero or less falls
// back to DefaultMaxAttempts.
func NewAllocator(base Generator, checker ExistenceChecker, maxAttempts int) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{
		base:        base,
		checker:     checker,
		maxAttempts: maxAttempts,
	}
}

// Allocate returns an identifier that was unclaimed at check time.
// The check and the caller's subsequent write are not atomic; two
// concurrent allocations can only conflict by drawing the same candidate,
// which is accepted as last-write-wins.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		candidate, err := a.base.Generate()
		if err != nil {
			return "", err
		}

		taken, err := a.checker.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		metrics.RecordAllocationRetry()
	}

	return "", ErrAttemptsExhausted
}
