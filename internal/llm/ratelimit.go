package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	apperrors "niveshak/internal/errors"
)

// RateLimited throttles a Completer to limit calls per window. A call that would
// have to wait longer than maxWait fails immediately with ErrRateLimited.
//
// The limiter is a token bucket refilled at limit/window with a burst of limit,
// which admits the same steady-state rate as a sliding window.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
	maxWait time.Duration
	clock   Clock
}

// NewRateLimited wraps next. limit and window must be positive.
func NewRateLimited(next Completer, limit int, window, maxWait time.Duration, clock Clock) *RateLimited {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit),
		maxWait: maxWait,
		clock:   clock,
	}
}

// Name returns the wrapped completer's name.
func (r *RateLimited) Name() string { return r.next.Name() }

// Tag returns the wrapped completer's tag.
func (r *RateLimited) Tag() string { return r.next.Tag() }

// Complete waits for a slot (up to maxWait) and forwards the call.
func (r *RateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	now := r.clock.Now()
	res := r.limiter.ReserveN(now, 1)
	if !res.OK() {
		return "", apperrors.Wrap(apperrors.ErrRateLimited, fmt.Errorf("%s: reservation refused", r.next.Name()))
	}

	delay := res.DelayFrom(now)
	if delay > r.maxWait {
		res.CancelAt(now)
		return "", apperrors.Wrap(apperrors.ErrRateLimited,
			fmt.Errorf("%s: next slot in %s exceeds max wait %s", r.next.Name(), delay, r.maxWait))
	}
	if delay > 0 {
		if err := r.clock.Sleep(ctx, delay); err != nil {
			res.CancelAt(r.clock.Now())
			return "", err
		}
	}
	return r.next.Complete(ctx, prompt)
}
