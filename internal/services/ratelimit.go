package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hottest100/internal/shared"
	"github.com/zmb3/spotify/v2"
)

// RetryPolicy bounds the retry loop of an [Invoker].
//
// The zero value retries forever and waits exactly as long as the server asks.
type RetryPolicy struct {
	// MaxAttempts caps the total number of calls, including the first. 0 is unbounded.
	MaxAttempts int
	// MaxWait caps the accumulated sleep across retries of one call. 0 is unbounded.
	MaxWait time.Duration
}

// Invoker runs remote calls and retries them when the provider throttles.
type Invoker struct {
	Policy RetryPolicy
	logger *log.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewInvoker creates an [Invoker]. A nil logger discards output.
func NewInvoker(policy RetryPolicy, logger *log.Logger) *Invoker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Invoker{Policy: policy, logger: logger, sleep: sleepContext}
}

// WithSleep replaces the wait function; tests use it to record delays.
func (inv *Invoker) WithSleep(fn func(ctx context.Context, d time.Duration) error) *Invoker {
	inv.sleep = fn
	return inv
}

// Invoke calls op until it succeeds or fails with something other than a rate limit.
//
// On a rate limit it sleeps for the advised delay and calls op again with no jitter or backoff.
// The returned error wraps [shared.ErrRateLimitExhausted] only when a policy bound is hit.
func Invoke[T any](ctx context.Context, inv *Invoker, op func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		waited  time.Duration
		attempt int
	)

	for {
		attempt++
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		delay, limited := RetryDelay(err)
		if !limited {
			return zero, err
		}

		if inv.Policy.MaxAttempts > 0 && attempt >= inv.Policy.MaxAttempts {
			return zero, fmt.Errorf("%w: %d attempts: %w", shared.ErrRateLimitExhausted, attempt, err)
		}
		if inv.Policy.MaxWait > 0 && waited+delay > inv.Policy.MaxWait {
			return zero, fmt.Errorf("%w: waited %s: %w", shared.ErrRateLimitExhausted, waited, err)
		}

		inv.logger.Warnf("Rate limited. Retrying after %d seconds...", int(delay/time.Second))
		if err := inv.sleep(ctx, delay); err != nil {
			return zero, err
		}
		waited += delay
	}
}

// Do is [Invoke] for operations with no result.
func (inv *Invoker) Do(ctx context.Context, op func(context.Context) error) error {
	_, err := Invoke(ctx, inv, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// RetryDelay reports whether err is a rate limit and how long to wait before retrying.
//
// A [*RateLimitError] from the transport carries the header value. A bare 429 from the
// Spotify SDK has no header available and waits [DefaultRetryAfter].
func RetryDelay(err error) (time.Duration, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle.RetryAfter, true
	}

	var se spotify.Error
	if errors.As(err, &se) && se.Status == 429 {
		return DefaultRetryAfter, true
	}
	return 0, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
