package retry

import (
	"math"
	"math/rand"
	"time"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// ExponentialBackoff implements exponential backoff with jitter.
type ExponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64

	// maxAttempts counts retries only (-1 = unlimited, 0 = no retries).
	maxAttempts int

	// jitter of 0.1 means +/- 10%.
	jitter     float64
	jitterFunc func() float64
}

// BackoffOption is a functional option for configuring ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the initial delay for the first retry attempt.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.initialDelay = d }
}

// WithMaxDelay sets the maximum delay between retry attempts.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.maxDelay = d }
}

// WithMultiplier sets the factor by which delay increases between attempts.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.multiplier = m }
}

// WithJitter sets the jitter factor (0.0-1.0).
func WithJitter(j float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitter = j }
}

// WithJitterFunc replaces the random source; f must return values in [0, 1).
func WithJitterFunc(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitterFunc = f }
}

// NewExponentialBackoff creates a backoff starting at
// ddlcheck.DefaultRetryInitialDelay and capped at ddlcheck.DefaultRetryMaxDelay.
//
//	backoff := retry.NewExponentialBackoff(3,
//	    retry.WithInitialDelay(200*time.Millisecond),
//	    retry.WithJitter(0.2),
//	)
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: ddlcheck.DefaultRetryInitialDelay,
		maxDelay:     ddlcheck.DefaultRetryMaxDelay,
		multiplier:   2.0,
		maxAttempts:  maxAttempts,
		jitter:       0.1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NextDelay returns initialDelay * multiplier^attempt, capped and jittered.
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delay := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt))
	if delay > float64(b.maxDelay) {
		delay = float64(b.maxDelay)
	}

	if b.jitter > 0 {
		random := b.jitterFunc
		if random == nil {
			random = rand.Float64
		}
		// map [0,1) to [-1,1)
		delay *= 1.0 + b.jitter*(random()-0.5)*2.0
	}

	return time.Duration(delay).Round(time.Millisecond)
}

// MaxAttempts returns the maximum number of retry attempts.
func (b *ExponentialBackoff) MaxAttempts() int { return b.maxAttempts }

func (b *ExponentialBackoff) InitialDelay() time.Duration { return b.initialDelay }
func (b *ExponentialBackoff) MaxDelay() time.Duration     { return b.maxDelay }
func (b *ExponentialBackoff) Multiplier() float64         { return b.multiplier }
func (b *ExponentialBackoff) Jitter() float64             { return b.jitter }

var _ ddlcheck.BackoffStrategy = (*ExponentialBackoff)(nil)
