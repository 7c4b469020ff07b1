// Package retry re-runs operations that fail for transient reasons: a
// directory command that timed out, or a metadata database held by another
// writer.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"nathanbeddoewebdev/dirctl/internal/database"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/logging"
)

// Predicate reports whether err is worth another attempt.
type Predicate func(error) bool

// Policy bounds the attempts of one operation. Delays grow exponentially
// from BaseDelay, are capped at MaxDelay and fully jittered.
type Policy struct {
	Name        string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Retryable   Predicate
}

var (
	// ToolRead gives a timed-out read command one more chance.
	ToolRead = Policy{Name: "tool read", MaxAttempts: 2, BaseDelay: 250 * time.Millisecond, MaxDelay: time.Second, Retryable: IsTimeout}

	// StoreWrite waits out short lock windows held by a concurrent writer.
	StoreWrite = Policy{Name: "store write", MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second, Retryable: IsBusy}
)

// Do calls fn until it succeeds, fails permanently, runs out of attempts or
// ctx ends. The last error from fn is returned.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.MaxAttempts, 1)
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts || !retryable(err) {
			return err
		}

		delay := p.delay(attempt)
		logging.FromContext(ctx).Debug().
			Err(err).
			Str("op", p.Name).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("retrying")
		if !wait(ctx, delay) {
			return ctx.Err()
		}
	}
	return err
}

// delay returns a jittered backoff for the given 1-based attempt.
func (p Policy) delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay << (max(attempt, 1) - 1)
	if p.MaxDelay > 0 && (d > p.MaxDelay || d <= 0) {
		d = p.MaxDelay
	}
	return rand.N(d + 1)
}

// IsTransient accepts timeouts and a busy database. Cancellation is final.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) || IsBusy(err)
}

// IsTimeout accepts timed-out external commands.
func IsTimeout(err error) bool {
	return errors.Is(err, domain.ErrTimeout)
}

// IsBusy accepts SQLite BUSY and LOCKED conditions.
func IsBusy(err error) bool {
	return database.IsBusy(err)
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
