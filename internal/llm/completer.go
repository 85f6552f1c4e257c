// Package llm asks language models for prices they can look up and parses the
// answers. Models are treated as an unreliable source of last resort: every
// answer is checked for shape and positivity before it is used.
package llm

import (
	"context"
	"time"
)

// Completer sends a single prompt to a model and returns the raw text answer.
type Completer interface {
	// Name returns the provider name used in logs (e.g., "openai").
	Name() string

	// Tag returns the source tag stored with prices this model produced.
	Tag() string

	Complete(ctx context.Context, prompt string) (string, error)
}

// Clock abstracts time for the rate limiter so tests never really sleep.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep blocks for d or until ctx is done.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
