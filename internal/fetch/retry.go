package fetch

import (
	"context"
	"errors"
	"log"
	"time"
)

// Classification sentinels for upstream failures. Adapters wrap their errors
// with one of these so the policy can pick the right backoff schedule.
var (
	ErrRateLimited = errors.New("rate limited")
	ErrTransient   = errors.New("transient upstream failure")
)

// Policy is the single retry-with-backoff implementation shared by every
// network-calling component. Rate-limited responses wait RateLimitBase *
// attempt; other transient failures wait TransientBase * attempt. After
// MaxAttempts the last error is returned and the caller abandons the query.
type Policy struct {
	MaxAttempts   int
	RateLimitBase time.Duration
	TransientBase time.Duration

	// Retryable overrides the default errors.Is classification when set.
	Retryable func(error) bool

	// sleep is swapped out in tests
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPolicy(maxAttempts int, rateLimitBase, transientBase time.Duration) Policy {
	return Policy{
		MaxAttempts:   maxAttempts,
		RateLimitBase: rateLimitBase,
		TransientBase: transientBase,
	}
}

// Do runs op until it succeeds, fails permanently, or attempts run out.
func (p Policy) Do(ctx context.Context, name string, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !p.retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		wait := p.TransientBase * time.Duration(attempt)
		if errors.Is(err, ErrRateLimited) {
			wait = p.RateLimitBase * time.Duration(attempt)
		}
		log.Printf("[%s] attempt %d/%d failed: %v (retrying in %s)", name, attempt, attempts, err, wait)

		if werr := p.wait(ctx, wait); werr != nil {
			return werr
		}
	}
	log.Printf("[%s] giving up after %d attempts: %v", name, attempts, err)
	return err
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}

func (p Policy) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
